package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/report"
)

const (
	// ActivitiesSheet 明细表名
	ActivitiesSheet = "Atividades"
	// SummarySheet 指标汇总表名
	SummarySheet = "Resumo"
)

var activityHeaders = []string{
	"ID", "Área/Sistema", "Descrição", "Status", "Situação", "Tipo de Medição",
	"M2_Previsto", "M2_Realizado", "%_Conclusão", "%_Conclusão_Ajustado",
}

// Export 导出过滤后的活动明细与 KPI 汇总
func Export(d report.Dashboard, progress ProgressFunc) (*excelize.File, error) {
	f := excelize.NewFile()

	progress.report(0, "criando planilha")
	if err := f.SetSheetName("Sheet1", ActivitiesSheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeActivities(f, d.Activities, headerStyle, progress); err != nil {
		f.Close()
		return nil, err
	}

	progress.report(90, "resumo")
	if err := writeSummary(f, d, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	progress.report(100, "concluído")
	return f, nil
}

func writeActivities(f *excelize.File, activities []model.Activity, headerStyle int, progress ProgressFunc) error {
	header := make([]interface{}, len(activityHeaders))
	for i, h := range activityHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ActivitiesSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(ActivitiesSheet, 1, 1, headerStyle); err != nil {
		return err
	}

	total := len(activities)
	for i, a := range activities {
		row := []interface{}{
			a.ID,
			a.Area,
			a.Description,
			a.Status,
			progressLabel(report.Classify(a.Status)),
			a.MeasurementType,
			a.PlannedArea,
			a.CompletedArea,
			a.CompletionPct,
			a.AdjustedCompletionPct,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ActivitiesSheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if total > 0 && (i+1)%200 == 0 {
			progress.report(5+int(float64(i+1)/float64(total)*80), "atividades")
		}
	}

	if err := f.SetColWidth(ActivitiesSheet, "B", "C", 30); err != nil {
		return err
	}
	return f.SetColWidth(ActivitiesSheet, "D", "J", 16)
}

func writeSummary(f *excelize.File, d report.Dashboard, headerStyle int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}

	s := d.Summary
	rows := [][]interface{}{
		{"Indicador", "Valor"},
		{"Total de Atividades", s.Total},
		{"Concluídas", s.Completed},
		{"Concluídas (%)", round2(s.CompletedPct)},
		{"Em Andamento", s.InProgress},
		{"Em Andamento (%)", round2(s.InProgressPct)},
		{"Não Iniciadas", s.NotStarted},
		{"Não Iniciadas (%)", round2(s.NotStartedPct)},
		{"M2 Previsto", round2(s.PlannedArea)},
		{"M2 Realizado", round2(s.CompletedArea)},
		{"Progresso Físico (%)", round2(s.AreaProgressRatio)},
	}
	if len(d.Filter.Areas) > 0 {
		rows = append(rows, []interface{}{"Filtro Área/Sistema", joinValues(d.Filter.Areas)})
	}
	if len(d.Filter.Statuses) > 0 {
		rows = append(rows, []interface{}{"Filtro Status", joinValues(d.Filter.Statuses)})
	}

	for i, row := range rows {
		row := row
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(SummarySheet, 1, 1, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "B", 28)
}

func progressLabel(p report.Progress) string {
	switch p {
	case report.ProgressCompleted:
		return "Concluída"
	case report.ProgressInProgress:
		return "Em Andamento"
	default:
		return "Não Iniciada"
	}
}
