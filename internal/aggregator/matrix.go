package aggregator

import (
	"uniformdash/internal/model"
)

// Weight 覆盖矩阵单元格的累加方式
type Weight int

const (
	// WeightCount 每条记录计 1
	WeightCount Weight = iota
	// WeightQuantity 按记录的数量累加
	WeightQuantity
)

// MatrixOptions 覆盖矩阵选项
type MatrixOptions struct {
	// Catalog 决定列顺序；为空时按字母序
	Catalog *model.Catalog
	Weight  Weight
}

// CoverageMatrix SKU × 部门覆盖矩阵。
// 行按 SKU 首次出现顺序；仅输出观测到的 (SKU, 部门) 组合，缺失组合不出现。
func CoverageMatrix[R model.Record](records []R, opts MatrixOptions) []model.MatrixRow {
	index := make(map[string]int)
	var rows []model.MatrixRow
	for _, rec := range records {
		sku, ok := rec.Dimension(model.DimSKU)
		if !ok {
			continue
		}
		dept, ok := rec.Dimension(model.DimDepartment)
		if !ok {
			continue
		}
		i, exists := index[sku]
		if !exists {
			i = len(rows)
			index[sku] = i
			rows = append(rows, model.MatrixRow{SKU: sku, Cells: map[string]int{}})
		}
		rows[i].Cells[dept] += weigh(rec, opts.Weight)
	}

	out := make([]model.MatrixRow, 0, len(rows))
	for _, row := range rows {
		cols := make([]string, 0, len(row.Cells))
		for dept := range row.Cells {
			cols = append(cols, dept)
		}
		row.Columns = opts.Catalog.SortDepartments(cols)
		out = append(out, row)
	}
	return out
}

// MatrixColumns 矩阵所有行出现过的部门（用于表头）
func MatrixColumns(rows []model.MatrixRow, catalog *model.Catalog) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, row := range rows {
		for dept := range row.Cells {
			if _, ok := seen[dept]; ok {
				continue
			}
			seen[dept] = struct{}{}
			cols = append(cols, dept)
		}
	}
	return catalog.SortDepartments(cols)
}

func weigh(rec model.Record, w Weight) int {
	if w != WeightQuantity {
		return 1
	}
	switch r := rec.(type) {
	case *model.DemandLineRecord:
		return r.Quantity
	case *model.EntitlementLineRecord:
		return r.Quantity
	}
	return 1
}
