package aggregator

import (
	"uniformdash/internal/model"
)

// SummaryOptions 汇总表选项
type SummaryOptions struct {
	// Domain 分组顺序；域外的观测分组按首次出现顺序追加在后
	Domain []string
	// Key 分组维度，默认按部门
	Key model.Dimension
	// Pinned 筛选已锁定单一部门/基地时合并为一个 "Filtered Results" 分组
	Pinned bool
}

type summaryAcc struct {
	row       model.SummaryRow
	locations map[string]struct{}
}

// Summarize 按主维度汇总员工：总数、在职、离职、可领用及百分比；总数为 0 的分组不输出
func Summarize(employees []*model.EmployeeRecord, opts SummaryOptions) []model.SummaryRow {
	key := opts.Key
	if key == "" {
		key = model.DimDepartment
	}

	accs := make(map[string]*summaryAcc)
	var observed []string
	for _, e := range employees {
		group := model.FilteredResultsLabel
		if !opts.Pinned {
			v, ok := e.Dimension(key)
			if !ok || v == "" {
				v = model.UnknownLabel
			}
			group = v
		}
		acc, ok := accs[group]
		if !ok {
			acc = &summaryAcc{row: model.SummaryRow{Group: group}, locations: map[string]struct{}{}}
			accs[group] = acc
			observed = append(observed, group)
		}
		acc.row.TotalEmployees++
		if e.IsActive() {
			acc.row.ActiveEmployees++
		}
		if e.IsEligible {
			acc.row.EligibleEmployees++
		}
		if e.Location != "" {
			acc.locations[e.Location] = struct{}{}
		}
	}

	order := observed
	if !opts.Pinned && opts.Domain != nil {
		order = domainFirst(opts.Domain, observed)
	}

	out := make([]model.SummaryRow, 0, len(order))
	for _, group := range order {
		acc, ok := accs[group]
		if !ok || acc.row.TotalEmployees == 0 {
			continue
		}
		row := acc.row
		row.InactiveEmployees = row.TotalEmployees - row.ActiveEmployees
		row.ActivePercentage = Percent(row.ActiveEmployees, row.TotalEmployees)
		row.EligiblePercent = Percent(row.EligibleEmployees, row.TotalEmployees)
		row.LocationsPresent = len(acc.locations)
		out = append(out, row)
	}
	return out
}

// FillPercentages 为上游返回的部门行补齐百分比
func FillPercentages(rows []model.SummaryRow) []model.SummaryRow {
	out := make([]model.SummaryRow, 0, len(rows))
	for _, row := range rows {
		row.ActivePercentage = Percent(row.ActiveEmployees, row.TotalEmployees)
		row.EligiblePercent = Percent(row.EligibleEmployees, row.TotalEmployees)
		out = append(out, row)
	}
	return out
}

// DepartmentEligibility 部门可领用情况：目录部门在前（含 0 人部门），其后为观测到的其他部门
func DepartmentEligibility(employees []*model.EmployeeRecord, catalog *model.Catalog) []model.DepartmentEligibilityRow {
	counts := make(map[string]*model.DepartmentEligibilityRow)
	var observed []string
	for _, e := range employees {
		row, ok := counts[e.Department]
		if !ok {
			row = &model.DepartmentEligibilityRow{Department: e.Department}
			counts[e.Department] = row
			observed = append(observed, e.Department)
		}
		row.TotalEmployees++
		if e.IsActive() {
			row.ActiveEmployees++
		}
	}

	var domain []string
	if catalog != nil {
		domain = catalog.Departments
	}
	order := domainFirst(domain, observed)
	out := make([]model.DepartmentEligibilityRow, 0, len(order))
	for _, dept := range order {
		row := model.DepartmentEligibilityRow{Department: dept}
		if c, ok := counts[dept]; ok {
			row = *c
		}
		row.IsEligible = catalog.IsEligibleDepartment(dept)
		out = append(out, row)
	}
	return out
}

func domainFirst(domain, observed []string) []string {
	out := make([]string, 0, len(domain)+len(observed))
	seen := make(map[string]struct{}, len(domain))
	for _, v := range domain {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range observed {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
