package responder

import (
	"sort"
	"strings"

	"uniformdash/internal/aggregator"
	"uniformdash/internal/filter"
	"uniformdash/internal/model"
	"uniformdash/internal/normalizer"
	"uniformdash/internal/source"
	"uniformdash/internal/store"
)

// 领用标准 / 需求行只携带这些维度
var lineDimensions = []model.Dimension{model.DimDepartment, model.DimLocation, model.DimGender}

func (q query) lineSelections() filter.Selections {
	out := filter.Selections{}
	for _, d := range lineDimensions {
		if values := q.sel.Values(d); len(values) > 0 {
			out[d] = values
		}
	}
	return out
}

func (r *Responder) entitlements(q query) ([]*model.EntitlementLineRecord, error) {
	lines, err := r.store.ListEntitlements(storeLineOptions(q))
	if err != nil {
		return nil, err
	}
	return filter.Apply(lines, q.lineSelections()), nil
}

func (r *Responder) demandLines(q query) ([]*model.DemandLineRecord, error) {
	lines, err := r.store.ListDemandLines(storeLineOptions(q))
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		l.GenderLabel = normalizer.GenderLabel(l.SkuGender)
	}
	return filter.Apply(lines, q.lineSelections()), nil
}

// storeLineOptions 部门在库内过滤；基地与性别交给筛选引擎（需求行性别为原始标记）
func storeLineOptions(q query) (opts store.LineQueryOptions) {
	opts.Departments = q.sel.Values(model.DimDepartment)
	return opts
}

func (r *Responder) allEmployees(q query) (*source.Response, error) {
	employees, err := r.store.ListEmployees(q.employeeOptions())
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, map[string]any{
			"iga_code":              e.ID,
			"employee_name":         e.Name,
			"function":              e.Department,
			"baselocationtext":      e.Location,
			"gender_picklist_label": e.Gender,
			"status":                e.Status,
			"issuance_month":        e.IssuanceMonth,
			"is_eligible":           e.IsEligible,
		})
	}
	return source.Succeeded(q.metric, "Complete list of employees for local filtering.", rows), nil
}

func (r *Responder) allEntitlements(q query) (*source.Response, error) {
	lines, err := r.entitlements(q)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, map[string]any{
			"sku":           l.SKU,
			"department":    l.Department,
			"gender":        l.Gender,
			"base_location": l.Location,
			"frequency":     l.Frequency,
			"quantity":      l.Quantity,
		})
	}
	return source.Succeeded(q.metric, "Complete list of uniform entitlement rules for local filtering.", rows), nil
}

func (r *Responder) skuDemand(q query) (*source.Response, error) {
	lines, err := r.demandLines(q)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].TotalQuantityNeeded > lines[j].TotalQuantityNeeded
	})

	rows := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		gender := l.GenderLabel
		if gender == model.GenderBoth {
			gender = "Both/Common"
		}
		rows = append(rows, map[string]any{
			"department":            l.Department,
			"item_name":             l.SKU,
			"frequency":             l.FrequencyMonths,
			"sku_gender":            gender,
			"base_location":         l.BaseLocation,
			"quantity_per_issue":    l.Quantity,
			"total_occurrences":     l.TotalOccurrences,
			"total_quantity_needed": l.TotalQuantityNeeded,
		})
	}
	summary := aggregator.SummarizeDemand(lines)
	resp := source.Succeeded(q.metric, "SKU demand calculation", rows)
	resp.Summary = map[string]any{
		"total_skus":               summary.TotalSKUs,
		"common_skus":              summary.CommonSKUs,
		"department_specific_skus": summary.DepartmentSpecificSKUs,
		"total_quantity":           summary.TotalQuantity,
	}
	return resp, nil
}

func scalar(metric, message string, value any) *source.Response {
	return source.Succeeded(metric, message, []map[string]any{{"value": value}})
}

func (r *Responder) totalEmployees(q query) (*source.Response, error) {
	n, err := r.store.CountEmployees(q.employeeOptions())
	if err != nil {
		return nil, err
	}
	return scalar(q.metric, "Total employees", n), nil
}

func (r *Responder) statusCount(status string) metricFunc {
	return func(q query) (*source.Response, error) {
		opts := q.employeeOptions()
		if len(opts.Statuses) > 0 && !containsFold(opts.Statuses, status) {
			return scalar(q.metric, status+" employees", 0), nil
		}
		opts.Statuses = []string{status}
		n, err := r.store.CountEmployees(opts)
		if err != nil {
			return nil, err
		}
		return scalar(q.metric, status+" employees", n), nil
	}
}

func (r *Responder) statusBreakdown(q query) (*source.Response, error) {
	rows := make([]map[string]any, 0, 2)
	for _, status := range []string{model.StatusActive, model.StatusInactive} {
		resp, err := r.statusCount(status)(q)
		if err != nil {
			return nil, err
		}
		value := resp.Data.([]map[string]any)[0]["value"]
		rows = append(rows, map[string]any{"label": status, "value": value})
	}
	return source.Succeeded(q.metric, "Employee status distribution", rows), nil
}

func (r *Responder) departmentSummary(q query) (*source.Response, error) {
	employees, err := r.store.ListEmployees(q.employeeOptions())
	if err != nil {
		return nil, err
	}
	summary := aggregator.Summarize(employees, aggregator.SummaryOptions{Domain: r.catalog.Departments})
	rows := make([]map[string]any, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, map[string]any{
			"department":         s.Group,
			"total_employees":    s.TotalEmployees,
			"active_employees":   s.ActiveEmployees,
			"inactive_employees": s.InactiveEmployees,
		})
	}
	return source.Succeeded(q.metric, "Employees by department", rows), nil
}

func (r *Responder) uniqueSKUs(q query) (*source.Response, error) {
	lines, err := r.entitlements(q)
	if err != nil {
		return nil, err
	}
	return scalar(q.metric, "Total unique SKUs in the system", aggregator.CountDistinct(lines, model.DimSKU)), nil
}

func (r *Responder) eligibleDepartments(q query) (*source.Response, error) {
	lines, err := r.store.ListEntitlements(store.LineQueryOptions{})
	if err != nil {
		return nil, err
	}
	return scalar(q.metric, "Departments with uniform entitlements", aggregator.CountDistinct(lines, model.DimDepartment)), nil
}

func (r *Responder) totalDepartments(q query) (*source.Response, error) {
	employees, err := r.store.ListEmployees(q.employeeOptions())
	if err != nil {
		return nil, err
	}
	return scalar(q.metric, "Departments with employees", aggregator.CountDistinct(employees, model.DimDepartment)), nil
}

// coverageMatrix 透视对象 {sku: {部门: 0|1}}，列为领用标准中出现的全部部门
func (r *Responder) coverageMatrix(q query) (*source.Response, error) {
	lines, err := r.entitlements(q)
	if err != nil {
		return nil, err
	}
	rows := aggregator.CoverageMatrix(lines, aggregator.MatrixOptions{Catalog: r.catalog})
	columns := aggregator.MatrixColumns(rows, r.catalog)
	out := make(map[string]any, len(rows))
	for _, row := range rows {
		cells := make(map[string]any, len(columns))
		for _, dept := range columns {
			v := 0
			if row.Has(dept) {
				v = 1
			}
			cells[dept] = v
		}
		out[row.SKU] = cells
	}
	return source.Succeeded(q.metric, "Entitlement coverage matrix showing which SKUs apply to which departments.", out), nil
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
