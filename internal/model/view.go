package model

import (
	"bytes"
	"encoding/json"
	"sort"
)

// FilteredResultsLabel 筛选已锁定单一部门/基地时的合成分组名
const FilteredResultsLabel = "Filtered Results"

// NamedValue 饼图/柱状图数据项
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// MonthCount 月度趋势数据项
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// HeadcountPoint 月度人数与可领用人数
type HeadcountPoint struct {
	Month             string `json:"month"`
	TotalHeadcount    int    `json:"totalHeadcount"`
	EligibleEmployees int    `json:"eligibleEmployees"`
}

// KPI 指标卡
type KPI struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"` // 如 %
}

// SummaryRow 汇总表行（按主维度分组）
type SummaryRow struct {
	Group             string `json:"department"`
	TotalEmployees    int    `json:"totalEmployees"`
	ActiveEmployees   int    `json:"activeEmployees"`
	InactiveEmployees int    `json:"inactiveEmployees"`
	EligibleEmployees int    `json:"eligibleEmployees"`
	ActivePercentage  int    `json:"activePercentage"`
	EligiblePercent   int    `json:"eligibilityPercentage"`
	LocationsPresent  int    `json:"locationsPresent"`
}

// DepartmentEligibilityRow 部门可领用情况
type DepartmentEligibilityRow struct {
	Department      string `json:"department"`
	IsEligible      bool   `json:"isEligible"`
	TotalEmployees  int    `json:"totalEmployees"`
	ActiveEmployees int    `json:"activeEmployees"`
}

// MatrixRow 覆盖矩阵行：SKU × 部门，缺失的部门不出现（区分“无数据”与 0）
type MatrixRow struct {
	SKU   string         `json:"sku"`
	Cells map[string]int `json:"-"`
	// Columns 本行出现的部门（输出顺序）
	Columns []string `json:"-"`
}

// Has 是否存在该部门的数据
func (r MatrixRow) Has(department string) bool {
	_, ok := r.Cells[department]
	return ok
}

// MarshalJSON 输出为 {sku, <部门>: n ...}
func (r MatrixRow) MarshalJSON() ([]byte, error) {
	columns := r.Columns
	if len(columns) != len(r.Cells) {
		columns = make([]string, 0, len(r.Cells))
		for k := range r.Cells {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}

	var buf bytes.Buffer
	buf.WriteString(`{"sku":`)
	sku, err := json.Marshal(r.SKU)
	if err != nil {
		return nil, err
	}
	buf.Write(sku)
	for _, col := range columns {
		v, ok := r.Cells[col]
		if !ok || col == "sku" {
			continue
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		val, _ := json.Marshal(v)
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DemandRow 需求预测表行（按 SKU 透视部门数量）
type DemandRow struct {
	SKU             string         `json:"sku"`
	FrequencyMonths int            `json:"frequencyMonths"`
	FrequencyLabel  string         `json:"frequencyLabel"`
	ByDepartment    map[string]int `json:"byDepartment"`
	Quantity        int            `json:"qty"`
	Total           float64        `json:"total"`
}

// DemandSummary 需求汇总
type DemandSummary struct {
	TotalSKUs              int     `json:"totalSkus"`
	CommonSKUs             int     `json:"commonSkus"`
	DepartmentSpecificSKUs int     `json:"departmentSpecificSkus"`
	TotalQuantity          float64 `json:"totalQuantity"`
}

// StatusBreakdown 状态分布（兼容 label/value 与按部门两种上游形态）
type StatusBreakdown struct {
	Active       int          `json:"active"`
	Inactive     int          `json:"inactive"`
	Total        int          `json:"total"`
	ByDepartment []SummaryRow `json:"byDepartment,omitempty"`
}
