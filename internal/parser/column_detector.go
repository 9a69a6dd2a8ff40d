package parser

import (
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
)

type fieldRule struct {
	field    model.Field
	keywords []string
}

// 按顺序逐个字段匹配；同一字段取来源顺序中第一个命中的列
var fieldRules = []fieldRule{
	{model.FieldArea, []string{"area", "sistema"}},
	{model.FieldDescription, []string{"descr", "atividade", "servico"}},
	{model.FieldStatus, []string{"status", "situac"}},
	{model.FieldMeasurementType, []string{"medic", "medida", "unidade"}},
	{model.FieldPlannedArea, []string{"previst", "planejad"}},
	{model.FieldCompletedArea, []string{"realizad", "executad"}},
	{model.FieldCompletionPct, []string{"concl", "percent", "porcent"}},
	{model.FieldAdjustedCompletionPct, []string{"ajust"}},
}

// Fields 返回全部语义字段（按匹配顺序）
func Fields() []model.Field {
	out := make([]model.Field, len(fieldRules))
	for i, r := range fieldRules {
		out[i] = r.field
	}
	return out
}

// Keywords 返回字段的关键词集合
func Keywords(f model.Field) []string {
	for _, r := range fieldRules {
		if r.field == f {
			return append([]string(nil), r.keywords...)
		}
	}
	return nil
}

// DetectColumns 在规范化列名中识别各语义字段所在列
func DetectColumns(columns []string) model.ColumnMapping {
	mapping := make(model.ColumnMapping, len(fieldRules))
	for _, rule := range fieldRules {
		for _, col := range columns {
			if ContainsAny(col, rule.keywords) {
				mapping[rule.field] = col
				break
			}
		}
	}
	return mapping
}

// ColumnIndex 返回字段对应列在表头中的下标，未识别时为 -1
func ColumnIndex(columns []string, mapping model.ColumnMapping, f model.Field) int {
	col, ok := mapping.Column(f)
	if !ok {
		return -1
	}
	for i, c := range columns {
		if c == col {
			return i
		}
	}
	return -1
}
