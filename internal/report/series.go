package report

import (
	"sort"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
)

// Point 柱状图的一根柱子
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series 有序柱状图数据
type Series []Point

// Max 最大值（用于计算柱宽），空序列为 0
func (s Series) Max() float64 {
	top := 0.0
	for _, p := range s {
		if p.Value > top {
			top = p.Value
		}
	}
	return top
}

// CompletedAreaByArea m² 子集内按区域汇总的已完成面积，按标签升序
func CompletedAreaByArea(activities []model.Activity) Series {
	sums := make(map[string]float64)
	for _, a := range AreaMeasured(activities) {
		sums[a.Area] += a.CompletedArea
	}
	return toSeries(sums)
}

// CountByStatus 按状态计数，按标签升序
func CountByStatus(activities []model.Activity) Series {
	counts := make(map[string]float64)
	for _, a := range activities {
		counts[a.Status]++
	}
	return toSeries(counts)
}

func toSeries(values map[string]float64) Series {
	out := make(Series, 0, len(values))
	for label, v := range values {
		out = append(out, Point{Label: label, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Dashboard 页面所需的全部派生数据
type Dashboard struct {
	Filter          Filter           `json:"filter"`
	Options         Options          `json:"options"`
	Summary         Summary          `json:"summary"`
	AreaProgress    Series           `json:"areaProgress"`
	StatusBreakdown Series           `json:"statusBreakdown"`
	Activities      []model.Activity `json:"activities"`
}

// Build 对完整表应用过滤并计算所有派生视图；候选值始终来自未过滤的表
func Build(all []model.Activity, f Filter) Dashboard {
	filtered := f.Apply(all)
	return Dashboard{
		Filter:          f,
		Options:         FilterOptions(all),
		Summary:         Summarize(filtered),
		AreaProgress:    CompletedAreaByArea(filtered),
		StatusBreakdown: CountByStatus(filtered),
		Activities:      filtered,
	}
}
