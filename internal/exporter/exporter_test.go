package exporter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/exporter"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/report"
)

func activities() []model.Activity {
	return []model.Activity{
		{ID: 0, Area: "Caldeira", Description: "Isolamento", Status: "Concluído", MeasurementType: "m²", PlannedArea: 100, CompletedArea: 100, CompletionPct: 100},
		{ID: 1, Area: "Caldeira", Description: "Pintura", Status: "Em Andamento", MeasurementType: "m²", PlannedArea: 200, CompletedArea: 50, CompletionPct: 25},
		{ID: 2, Area: "Torre", Description: "Inspeção", Status: "Pendente", MeasurementType: "un"},
	}
}

func TestExport_FilteredRows(t *testing.T) {
	d := report.Build(activities(), report.Filter{Areas: []string{"Caldeira"}})

	var events []exporter.ProgressEvent
	wb, err := exporter.Export(d, func(e exporter.ProgressEvent) { events = append(events, e) })
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{exporter.ActivitiesSheet, exporter.SummarySheet}, wb.GetSheetList())

	rows, err := wb.GetRows(exporter.ActivitiesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per filtered activity")
	assert.Equal(t, "Área/Sistema", rows[0][1])
	assert.Equal(t, "Isolamento", rows[1][2])
	assert.Equal(t, "Concluída", rows[1][4])
	assert.Equal(t, "Em Andamento", rows[2][4])

	planned, err := wb.GetCellValue(exporter.ActivitiesSheet, "G3")
	require.NoError(t, err)
	assert.Equal(t, "200", planned)

	require.NotEmpty(t, events)
	assert.Equal(t, 0, events[0].Percent)
	assert.Equal(t, 100, events[len(events)-1].Percent)
}

func TestExport_Summary(t *testing.T) {
	d := report.Build(activities(), report.Filter{Statuses: []string{"Concluído", "Em Andamento"}})

	wb, err := exporter.Export(d, nil)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(exporter.SummarySheet)
	require.NoError(t, err)

	values := map[string]string{}
	for _, r := range rows {
		if len(r) >= 2 {
			values[r[0]] = r[1]
		}
	}
	assert.Equal(t, "2", values["Total de Atividades"])
	assert.Equal(t, "1", values["Concluídas"])
	assert.Equal(t, "300", values["M2 Previsto"])
	assert.Equal(t, "50", values["Progresso Físico (%)"])
	assert.Equal(t, "Concluído; Em Andamento", values["Filtro Status"])
	_, hasAreaFilter := values["Filtro Área/Sistema"]
	assert.False(t, hasAreaFilter)
}

func TestExport_NoActivities(t *testing.T) {
	wb, err := exporter.Export(report.Build(nil, report.Filter{}), nil)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(exporter.ActivitiesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
