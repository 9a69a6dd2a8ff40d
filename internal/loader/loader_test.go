package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/loader"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
)

type sheetData struct {
	name string
	rows [][]interface{}
}

var originalHeader = []interface{}{
	"Área/Sistema", "Descrição", "Status", "Tipo de Medição",
	"M2_Previsto", "M2_Realizado", "%_Conclusão", "%_Conclusão_Ajustado",
}

func buildWorkbook(t *testing.T, sheets ...sheetData) *excelize.File {
	t.Helper()

	wb := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, wb.SetSheetName("Sheet1", s.name))
		} else {
			_, err := wb.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, wb.SetSheetRow(s.name, cell, &row))
		}
	}
	return wb
}

func saveWorkbook(t *testing.T, wb *excelize.File) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Banco_Dashboard.xlsx")
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())
	return path
}

func TestLoad_OriginalLayout(t *testing.T) {
	path := saveWorkbook(t, buildWorkbook(t, sheetData{
		name: loader.DefaultSheet,
		rows: [][]interface{}{
			originalHeader,
			{"Caldeira", "Isolamento térmico", "Concluído", "m²", 120.5, 120.5, 100, 100},
			{"Caldeira", "Pintura", "Em Andamento", "m2", 300, 150, 50, 45},
			{"Torre", "Inspeção", "Não iniciado", "un", 0, 0, 0, 0},
		},
	}))

	table, err := loader.Load(path)
	require.NoError(t, err)
	require.True(t, table.Loaded())

	assert.Equal(t, loader.DefaultSheet, table.Sheet)
	assert.Equal(t, path, table.SourcePath)
	assert.NotEmpty(t, table.LoadID)
	require.Equal(t, 3, table.Len())

	for i, a := range table.Activities {
		assert.Equal(t, i, a.ID)
	}

	first := table.Activities[0]
	assert.Equal(t, "Caldeira", first.Area)
	assert.Equal(t, "Isolamento térmico", first.Description)
	assert.Equal(t, "Concluído", first.Status)
	assert.Equal(t, "m²", first.MeasurementType)
	assert.Equal(t, 120.5, first.PlannedArea)
	assert.Equal(t, 120.5, first.CompletedArea)
	assert.Equal(t, float64(100), first.CompletionPct)

	second := table.Activities[1]
	assert.Equal(t, float64(300), second.PlannedArea)
	assert.Equal(t, float64(45), second.AdjustedCompletionPct)

	assert.Equal(t, "percent_conclusao", table.Mapping[model.FieldCompletionPct])
	assert.Equal(t, "area_sistema", table.Mapping[model.FieldArea])
	assert.Empty(t, loader.MissingFields(table.Mapping))
}

func TestLoad_NonNumericCoercedToZero(t *testing.T) {
	path := saveWorkbook(t, buildWorkbook(t, sheetData{
		name: loader.DefaultSheet,
		rows: [][]interface{}{
			originalHeader,
			{"A", "x", "Concluído", "m²", "n/d", "", "abc", "-"},
			{"B", "y", "Concluído", "m²", "-10", "12,5", "NaN", " 7 "},
		},
	}))

	table, err := loader.Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	for _, a := range table.Activities {
		assert.Zero(t, a.PlannedArea)
		assert.Zero(t, a.CompletedArea)
		assert.Zero(t, a.CompletionPct)
	}
	assert.Zero(t, table.Activities[0].AdjustedCompletionPct)
	assert.Equal(t, float64(7), table.Activities[1].AdjustedCompletionPct)
}

func TestLoad_MissingColumnsSynthesized(t *testing.T) {
	path := saveWorkbook(t, buildWorkbook(t, sheetData{
		name: loader.DefaultSheet,
		rows: [][]interface{}{
			{"Descrição", "Observação"},
			{"Limpeza", "ok"},
			{"Montagem", ""},
		},
	}))

	table, err := loader.Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	for _, a := range table.Activities {
		assert.Equal(t, model.DefaultArea, a.Area)
		assert.Equal(t, "", a.Status)
		assert.Equal(t, "", a.MeasurementType)
		assert.Zero(t, a.PlannedArea)
		assert.Zero(t, a.CompletedArea)
		assert.Zero(t, a.CompletionPct)
	}
	assert.Equal(t, "Montagem", table.Activities[1].Description)

	missing := loader.MissingFields(table.Mapping)
	assert.Contains(t, missing, model.FieldArea)
	assert.Contains(t, missing, model.FieldCompletionPct)
	assert.NotContains(t, missing, model.FieldDescription)
}

func TestLoad_BlankAreaCellUsesDefault(t *testing.T) {
	path := saveWorkbook(t, buildWorkbook(t, sheetData{
		name: loader.DefaultSheet,
		rows: [][]interface{}{
			originalHeader,
			{"", "Solda", "Em andamento", "m²", 10, 5, 50, 50},
		},
	}))

	table, err := loader.Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, model.DefaultArea, table.Activities[0].Area)
}

func TestLoad_FileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Banco_Dashboard.xlsx")

	table, err := loader.Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, loader.ErrFileNotFound))
	assert.Contains(t, err.Error(), "Banco_Dashboard.xlsx")
	assert.Equal(t, model.LoadStatusNotFound, loader.Status(err))

	require.NotNil(t, table)
	assert.False(t, table.Loaded())
	assert.Zero(t, table.Len())
	assert.Empty(t, table.Columns)
}

func TestLoad_DirectoryIsNotAFile(t *testing.T) {
	_, err := loader.Load(t.TempDir())
	assert.ErrorIs(t, err, loader.ErrFileNotFound)
}

func TestLoad_CorruptFileIsUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Banco_Dashboard.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a zip archive"), 0o644))

	table, err := loader.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrUnreadable)
	assert.Equal(t, model.LoadStatusUnreadable, loader.Status(err))
	assert.False(t, table.Loaded())
}

func TestLoad_FallsBackToFirstSheet(t *testing.T) {
	path := saveWorkbook(t, buildWorkbook(t,
		sheetData{name: "Planilha1", rows: [][]interface{}{{"Status"}, {"Concluído"}}},
		sheetData{name: "Resumo", rows: [][]interface{}{{"Status"}, {"x"}, {"y"}}},
	))

	table, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Planilha1", table.Sheet)
	assert.Equal(t, 1, table.Len())
}

func TestLoad_PrefersNamedSheet(t *testing.T) {
	path := saveWorkbook(t, buildWorkbook(t,
		sheetData{name: "Bruto", rows: [][]interface{}{{"Status"}, {"a"}}},
		sheetData{name: loader.DefaultSheet, rows: [][]interface{}{{"Status"}, {"b"}, {"c"}}},
	))

	table, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, loader.DefaultSheet, table.Sheet)
	assert.Equal(t, 2, table.Len())
}

func TestLoad_CustomSheetOption(t *testing.T) {
	path := saveWorkbook(t, buildWorkbook(t,
		sheetData{name: "Bruto", rows: [][]interface{}{{"Status"}, {"a"}}},
		sheetData{name: "Obra", rows: [][]interface{}{{"Status"}, {"b"}, {"c"}, {"d"}}},
	))

	table, err := loader.New(path, loader.WithSheet("Obra")).Load()
	require.NoError(t, err)
	assert.Equal(t, "Obra", table.Sheet)
	assert.Equal(t, 3, table.Len())
}

func TestLoad_SkipsBlankRowsAndKeepsIDsContiguous(t *testing.T) {
	path := saveWorkbook(t, buildWorkbook(t, sheetData{
		name: loader.DefaultSheet,
		rows: [][]interface{}{
			{"Área", "Status"},
			{"A", "Concluído"},
			{"", ""},
			{"B", "Em Andamento"},
		},
	}))

	table, err := loader.Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, 0, table.Activities[0].ID)
	assert.Equal(t, 1, table.Activities[1].ID)
	assert.Equal(t, "B", table.Activities[1].Area)
}

func TestLoad_HeaderOnlyIsLoadedButEmpty(t *testing.T) {
	path := saveWorkbook(t, buildWorkbook(t, sheetData{
		name: loader.DefaultSheet,
		rows: [][]interface{}{originalHeader},
	}))

	table, err := loader.Load(path)
	require.NoError(t, err)
	assert.True(t, table.Loaded())
	assert.Zero(t, table.Len())
	assert.Len(t, table.Columns, len(originalHeader))
}

func TestLoadReader(t *testing.T) {
	wb := buildWorkbook(t, sheetData{
		name: loader.DefaultSheet,
		rows: [][]interface{}{originalHeader, {"A", "d", "Concluído", "m²", 1, 1, 100, 100}},
	})
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	table, err := loader.New("upload.xlsx").LoadReader(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Empty(t, table.SourcePath)
}

func TestReadTable_NilWorkbook(t *testing.T) {
	_, err := loader.ReadTable(nil, loader.DefaultSheet)
	assert.Error(t, err)
}
