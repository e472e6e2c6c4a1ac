package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"uniformdash/internal/aggregator"
	"uniformdash/internal/model"
)

// Sheet 名称
const (
	SheetDepartmentSummary = "Department Summary"
	SheetCoverageMatrix    = "Coverage Matrix"
	SheetDemandForecast    = "Demand Forecast"
)

// Data 导出内容：各视图的派生结果
type Data struct {
	Summary []model.SummaryRow
	Matrix  []model.MatrixRow
	Demand  []model.DemandRow
	// Selection 筛选条件说明，写入汇总表末行
	Selection string
}

// Exporter 工作簿导出器
type Exporter struct {
	catalog *model.Catalog
	logger  *zap.Logger
}

// New 创建导出器
func New(catalog *model.Catalog, logger *zap.Logger) *Exporter {
	if catalog == nil {
		catalog = model.DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{catalog: catalog, logger: logger}
}

// Build 生成工作簿；调用方负责 Close
func (e *Exporter) Build(data Data, progress ProgressFunc) (*excelize.File, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	steps := []struct {
		stage   string
		percent int
		write   func(*excelize.File, int) error
	}{
		{StageSummary, 10, func(f *excelize.File, style int) error { return e.writeSummary(f, data, style) }},
		{StageMatrix, 40, func(f *excelize.File, style int) error { return e.writeMatrix(f, data.Matrix, style) }},
		{StageDemand, 70, func(f *excelize.File, style int) error { return e.writeDemand(f, data.Demand, style) }},
	}
	for _, step := range steps {
		progress.report(step.percent, step.stage)
		if err := step.write(f, header); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write %s: %w", step.stage, err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteFile 生成工作簿并保存到 dir，返回文件路径
func (e *Exporter) WriteFile(data Data, dir string, progress ProgressFunc) (string, error) {
	f, err := e.Build(data, progress)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("uniform-dashboard-%s-%s.xlsx", time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	progress.report(90, StageSave)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	progress.report(100, StageFinished)

	e.logger.Info("export written",
		zap.String("path", path),
		zap.Int("summary_rows", len(data.Summary)),
		zap.Int("matrix_rows", len(data.Matrix)),
		zap.Int("demand_rows", len(data.Demand)))
	return path, nil
}

func (e *Exporter) writeSummary(f *excelize.File, data Data, style int) error {
	sheet := SheetDepartmentSummary
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []any{"Department", "Total Employees", "Active", "Inactive", "Eligible", "Active %", "Eligibility %", "Locations"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, r := range data.Summary {
		row := []any{r.Group, r.TotalEmployees, r.ActiveEmployees, r.InactiveEmployees, r.EligibleEmployees,
			r.ActivePercentage, r.EligiblePercent, r.LocationsPresent}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	if data.Selection != "" {
		if err := writeRow(f, sheet, len(data.Summary)+3, []any{"Filters", data.Selection}); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "H", 15)
}

// writeMatrix 覆盖矩阵；不存在的 (SKU, 部门) 组合留空
func (e *Exporter) writeMatrix(f *excelize.File, rows []model.MatrixRow, style int) error {
	sheet := SheetCoverageMatrix
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	columns := aggregator.MatrixColumns(rows, e.catalog)
	headers := make([]any, 0, len(columns)+1)
	headers = append(headers, "SKU")
	for _, c := range columns {
		headers = append(headers, c)
	}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, r := range rows {
		values := make([]any, 0, len(columns)+1)
		values = append(values, r.SKU)
		for _, c := range columns {
			if r.Has(c) {
				values = append(values, r.Cells[c])
			} else {
				values = append(values, nil)
			}
		}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 30)
}

func (e *Exporter) writeDemand(f *excelize.File, rows []model.DemandRow, style int) error {
	sheet := SheetDemandForecast
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	seen := map[string]int{}
	for _, r := range rows {
		for dept, qty := range r.ByDepartment {
			seen[dept] += qty
		}
	}
	departments := make([]string, 0, len(seen))
	for dept := range seen {
		departments = append(departments, dept)
	}
	departments = e.catalog.SortDepartments(departments)

	headers := []any{"SKU", "Frequency"}
	for _, d := range departments {
		headers = append(headers, d)
	}
	headers = append(headers, "Qty", "Total")
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, r := range rows {
		values := []any{r.SKU, r.FrequencyLabel}
		for _, d := range departments {
			if qty, ok := r.ByDepartment[d]; ok {
				values = append(values, qty)
			} else {
				values = append(values, nil)
			}
		}
		values = append(values, r.Quantity, r.Total)
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 30)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
