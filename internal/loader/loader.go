package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/metrics"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/parser"
)

// DefaultSheet 首选工作表名（“已修正数据”）
const DefaultSheet = "dados_corrigidos"

var (
	// ErrFileNotFound 数据文件不存在
	ErrFileNotFound = errors.New("data file not found")
	// ErrUnreadable 文件存在但无法作为工作簿读取
	ErrUnreadable = errors.New("data file unreadable")
)

// Loader 活动表加载器
type Loader struct {
	path   string
	sheet  string
	logger *slog.Logger
}

// Option 加载器选项
type Option func(*Loader)

// WithSheet 指定首选工作表
func WithSheet(sheet string) Option {
	return func(l *Loader) {
		if strings.TrimSpace(sheet) != "" {
			l.sheet = sheet
		}
	}
}

// WithLogger 指定日志
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New 创建加载器
func New(path string, opts ...Option) *Loader {
	l := &Loader{
		path:   path,
		sheet:  DefaultSheet,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path 数据文件路径
func (l *Loader) Path() string {
	return l.path
}

// Load 使用默认工作表加载数据文件
func Load(path string) (*model.Table, error) {
	return New(path).Load()
}

// Load 读取数据文件。失败时返回一个未加载的空表以及包装后的 ErrFileNotFound / ErrUnreadable
func (l *Loader) Load() (*model.Table, error) {
	start := time.Now()
	table, err := l.load()

	outcome := string(Status(err))
	metrics.RecordLoad(outcome, table.Len(), time.Since(start))

	if err != nil {
		l.logger.Warn("data load failed", "path", l.path, "outcome", outcome, "error", err)
		return table, err
	}

	missing := MissingFields(table.Mapping)
	if len(missing) > 0 {
		l.logger.Warn("semantic columns not found, defaults synthesized", "path", l.path, "fields", missing)
	}
	l.logger.Info("data loaded",
		"path", l.path,
		"sheet", table.Sheet,
		"rows", table.Len(),
		"load_id", table.LoadID,
		"elapsed", time.Since(start),
	)
	return table, nil
}

func (l *Loader) load() (*model.Table, error) {
	empty := &model.Table{SourcePath: l.path, Mapping: model.ColumnMapping{}}

	info, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return empty, fmt.Errorf("%w: %s", ErrFileNotFound, filepath.Base(l.path))
		}
		return empty, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if info.IsDir() {
		return empty, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, filepath.Base(l.path))
	}

	wb, err := excelize.OpenFile(l.path)
	if err != nil {
		return empty, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer wb.Close()

	table, err := l.readWorkbook(wb)
	if err != nil {
		return empty, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	table.SourcePath = l.path
	return table, nil
}

// LoadReader 从内存中的工作簿读取（用于上传预览与测试）
func (l *Loader) LoadReader(r io.Reader) (*model.Table, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return &model.Table{Mapping: model.ColumnMapping{}}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer wb.Close()

	table, err := l.readWorkbook(wb)
	if err != nil {
		return &model.Table{Mapping: model.ColumnMapping{}}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return table, nil
}

func (l *Loader) readWorkbook(wb *excelize.File) (*model.Table, error) {
	sheet := ResolveSheet(wb, l.sheet)
	if sheet != l.sheet && sheet != "" {
		l.logger.Warn("preferred sheet missing, using first sheet", "want", l.sheet, "using", sheet)
	}
	return ReadTable(wb, sheet)
}

// ResolveSheet 返回首选工作表；不存在时退回到第一个工作表，工作簿为空时返回 ""
func ResolveSheet(wb *excelize.File, preferred string) string {
	sheets := wb.GetSheetList()
	for _, name := range sheets {
		if name == preferred {
			return name
		}
	}
	if len(sheets) == 0 {
		return ""
	}
	return sheets[0]
}

// ReadTable 将指定工作表解析为活动表：首行为表头，其余非空行为数据
func ReadTable(wb *excelize.File, sheet string) (*model.Table, error) {
	if wb == nil {
		return nil, errors.New("workbook is nil")
	}
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	table := &model.Table{
		LoadID:     uuid.New().String(),
		Sheet:      sheet,
		Columns:    []string{},
		Mapping:    model.ColumnMapping{},
		Activities: []model.Activity{},
	}
	if len(rows) == 0 {
		return table, nil
	}

	table.Columns = parser.NormalizeHeaders(rows[0])
	table.Mapping = parser.DetectColumns(table.Columns)

	col := make(map[model.Field]int, len(parser.Fields()))
	for _, f := range parser.Fields() {
		col[f] = parser.ColumnIndex(table.Columns, table.Mapping, f)
	}

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		table.Activities = append(table.Activities, model.Activity{
			ID:                    len(table.Activities),
			Area:                  textOr(row, col[model.FieldArea], model.DefaultArea),
			Description:           getCell(row, col[model.FieldDescription]),
			Status:                getCell(row, col[model.FieldStatus]),
			MeasurementType:       getCell(row, col[model.FieldMeasurementType]),
			PlannedArea:           parser.ParseNumber(getCell(row, col[model.FieldPlannedArea])),
			CompletedArea:         parser.ParseNumber(getCell(row, col[model.FieldCompletedArea])),
			CompletionPct:         parser.ParseNumber(getCell(row, col[model.FieldCompletionPct])),
			AdjustedCompletionPct: parser.ParseNumber(getCell(row, col[model.FieldAdjustedCompletionPct])),
		})
	}

	return table, nil
}

// MissingFields 返回未在来源中识别到、由默认值补齐的语义字段
func MissingFields(mapping model.ColumnMapping) []model.Field {
	var missing []model.Field
	for _, f := range parser.Fields() {
		if _, ok := mapping.Column(f); !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Status 将加载错误归类为加载状态
func Status(err error) model.LoadStatus {
	switch {
	case err == nil:
		return model.LoadStatusOK
	case errors.Is(err, ErrFileNotFound):
		return model.LoadStatusNotFound
	default:
		return model.LoadStatusUnreadable
	}
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func textOr(row []string, idx int, def string) string {
	if v := getCell(row, idx); v != "" {
		return v
	}
	return def
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
