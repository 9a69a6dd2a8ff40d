package model

// Field 语义字段（与来源列名无关的逻辑属性）
type Field string

const (
	FieldArea                  Field = "area"
	FieldDescription           Field = "description"
	FieldStatus                Field = "status"
	FieldMeasurementType       Field = "measurement_type"
	FieldPlannedArea           Field = "planned_area"
	FieldCompletedArea         Field = "completed_area"
	FieldCompletionPct         Field = "completion_pct"
	FieldAdjustedCompletionPct Field = "adjusted_completion_pct"
)

// DefaultArea 未识别到区域列时的默认值
const DefaultArea = "Sem Área"

// Activity 一行活动记录
type Activity struct {
	ID                    int     `json:"id"`
	Area                  string  `json:"area"`
	Description           string  `json:"description"`
	Status                string  `json:"status"`
	MeasurementType       string  `json:"measurementType"`
	PlannedArea           float64 `json:"plannedArea"`   // m²
	CompletedArea         float64 `json:"completedArea"` // m²
	CompletionPct         float64 `json:"completionPct"`
	AdjustedCompletionPct float64 `json:"adjustedCompletionPct"`
}

// ColumnMapping 语义字段 -> 选中的规范化列名；缺失的键表示该字段由默认值补齐
type ColumnMapping map[Field]string

// Column 返回字段对应的列名
func (m ColumnMapping) Column(f Field) (string, bool) {
	col, ok := m[f]
	return col, ok
}

// Table 一次加载得到的活动表
type Table struct {
	LoadID     string        `json:"loadId"`
	SourcePath string        `json:"sourcePath"`
	Sheet      string        `json:"sheet"`
	Columns    []string      `json:"columns"` // 规范化列名，按来源顺序
	Mapping    ColumnMapping `json:"mapping"`
	Activities []Activity    `json:"activities"`
}

// Loaded 是否成功读取到工作表；文件缺失或无法读取时为 false（区别于“0 条活动”）
func (t *Table) Loaded() bool {
	return t != nil && t.Sheet != ""
}

// Len 行数
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Activities)
}
