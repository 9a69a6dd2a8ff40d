package report

import (
	"sort"
	"strings"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
)

// Progress 活动进度分类
type Progress string

const (
	ProgressCompleted  Progress = "completed"
	ProgressInProgress Progress = "in_progress"
	ProgressNotStarted Progress = "not_started"
)

// Filter 区域/状态多选过滤；空集合表示该维度不过滤，两个维度取交集
type Filter struct {
	Areas    []string `json:"areas" form:"area"`
	Statuses []string `json:"statuses" form:"status"`
}

// Active 是否设置了任何过滤条件
func (f Filter) Active() bool {
	return len(f.Areas) > 0 || len(f.Statuses) > 0
}

// Apply 返回满足条件的新切片，不修改输入
func (f Filter) Apply(activities []model.Activity) []model.Activity {
	areas := toSet(f.Areas)
	statuses := toSet(f.Statuses)

	out := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if len(areas) > 0 && !areas[a.Area] {
			continue
		}
		if len(statuses) > 0 && !statuses[a.Status] {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Classify 按状态文本归类；同时命中时“已完成”优先
func Classify(status string) Progress {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "concl"):
		return ProgressCompleted
	case strings.Contains(s, "andam"):
		return ProgressInProgress
	default:
		return ProgressNotStarted
	}
}

// IsAreaMeasured 测量类型包含 “m”（不区分大小写）即视为按面积计量
func IsAreaMeasured(a model.Activity) bool {
	return strings.Contains(strings.ToLower(a.MeasurementType), "m")
}

// AreaMeasured 返回 m² 子集
func AreaMeasured(activities []model.Activity) []model.Activity {
	out := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if IsAreaMeasured(a) {
			out = append(out, a)
		}
	}
	return out
}

// Summary KPI 汇总
type Summary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	NotStarted int `json:"notStarted"`

	CompletedPct  float64 `json:"completedPct"`
	InProgressPct float64 `json:"inProgressPct"`
	NotStartedPct float64 `json:"notStartedPct"`

	MeasuredCount     int     `json:"measuredCount"`
	PlannedArea       float64 `json:"plannedArea"`
	CompletedArea     float64 `json:"completedArea"`
	AreaProgressRatio float64 `json:"areaProgressRatio"` // 0-100
}

// Summarize 计算汇总指标
func Summarize(activities []model.Activity) Summary {
	s := Summary{Total: len(activities)}
	for _, a := range activities {
		switch Classify(a.Status) {
		case ProgressCompleted:
			s.Completed++
		case ProgressInProgress:
			s.InProgress++
		default:
			s.NotStarted++
		}
	}

	if s.Total > 0 {
		s.CompletedPct = percent(s.Completed, s.Total)
		s.InProgressPct = percent(s.InProgress, s.Total)
		s.NotStartedPct = percent(s.NotStarted, s.Total)
	}

	measured := AreaMeasured(activities)
	s.MeasuredCount = len(measured)
	for _, a := range measured {
		s.PlannedArea += a.PlannedArea
		s.CompletedArea += a.CompletedArea
	}
	s.AreaProgressRatio = ProgressRatio(s.CompletedArea, s.PlannedArea)

	return s
}

// ProgressRatio 完成量/计划量×100；计划量为 0 时为 0
func ProgressRatio(completed, planned float64) float64 {
	if planned <= 0 {
		return 0
	}
	return completed / planned * 100
}

func percent(part, total int) float64 {
	return float64(part) / float64(total) * 100
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Options 过滤控件的候选值
type Options struct {
	Areas    []string `json:"areas"`
	Statuses []string `json:"statuses"`
}

// FilterOptions 返回去重并升序排列的区域与状态
func FilterOptions(activities []model.Activity) Options {
	areas := make(map[string]bool)
	statuses := make(map[string]bool)
	for _, a := range activities {
		areas[a.Area] = true
		statuses[a.Status] = true
	}
	return Options{
		Areas:    sortedKeys(areas),
		Statuses: sortedKeys(statuses),
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
