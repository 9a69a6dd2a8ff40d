package model

import "time"

// LoadStatus 加载结果
type LoadStatus string

const (
	LoadStatusOK         LoadStatus = "ok"
	LoadStatusNotFound   LoadStatus = "not_found"
	LoadStatusUnreadable LoadStatus = "unreadable"
)

// LoadLog 一次数据加载的诊断记录（不含活动数据本身）
type LoadLog struct {
	ID         int64         `json:"id"`
	LoadID     string        `json:"loadId"`
	SourcePath string        `json:"sourcePath"`
	Sheet      string        `json:"sheet"`
	Rows       int           `json:"rows"`
	Status     LoadStatus    `json:"status"`
	Error      string        `json:"error,omitempty"`
	Mapping    ColumnMapping `json:"mapping"`
	Duration   time.Duration `json:"duration"`
	LoadedAt   time.Time     `json:"loadedAt"`
}
