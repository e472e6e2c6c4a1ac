package aggregator

import (
	"github.com/shopspring/decimal"

	"uniformdash/internal/model"
)

// DemandForecast 需求预测表：按 SKU（首次出现顺序）透视各部门数量
func DemandForecast(lines []*model.DemandLineRecord) []model.DemandRow {
	index := make(map[string]int)
	var rows []model.DemandRow
	var totals []decimal.Decimal
	for _, line := range lines {
		i, ok := index[line.SKU]
		if !ok {
			i = len(rows)
			index[line.SKU] = i
			rows = append(rows, model.DemandRow{
				SKU:             line.SKU,
				FrequencyMonths: line.FrequencyMonths,
				FrequencyLabel:  FrequencyLabel(line.FrequencyMonths),
				ByDepartment:    map[string]int{},
			})
			totals = append(totals, decimal.Zero)
		}
		rows[i].ByDepartment[line.Department] += line.Quantity
		rows[i].Quantity += line.Quantity
		totals[i] = totals[i].Add(decimal.NewFromFloat(line.TotalQuantityNeeded))
	}
	out := make([]model.DemandRow, 0, len(rows))
	for i, row := range rows {
		row.Total = totals[i].InexactFloat64()
		out = append(out, row)
	}
	return out
}

// SummarizeDemand 需求汇总：SKU 去重计数，任一需求行为通用性别（Both）的 SKU 计为通用 SKU
func SummarizeDemand(lines []*model.DemandLineRecord) model.DemandSummary {
	common := make(map[string]bool)
	var order []string
	total := decimal.Zero
	for _, line := range lines {
		isCommon, seen := common[line.SKU]
		if !seen {
			order = append(order, line.SKU)
		}
		common[line.SKU] = isCommon || line.GenderLabel == model.GenderBoth
		total = total.Add(decimal.NewFromFloat(line.TotalQuantityNeeded))
	}

	s := model.DemandSummary{TotalSKUs: len(order), TotalQuantity: total.InexactFloat64()}
	for _, sku := range order {
		if common[sku] {
			s.CommonSKUs++
		}
	}
	s.DepartmentSpecificSKUs = s.TotalSKUs - s.CommonSKUs
	return s
}
