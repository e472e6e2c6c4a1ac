package dashboard

import (
	"uniformdash/internal/aggregator"
	"uniformdash/internal/filter"
	"uniformdash/internal/model"
)

// Tab 仪表盘页签
type Tab string

const (
	TabActiveEmployees       Tab = "active-employees"
	TabEligibleEmployees     Tab = "eligible-employees"
	TabDepartmentEligibility Tab = "department-eligibility"
	TabEntitlementCoverage   Tab = "entitlement-coverage"
	TabDemandForecast        Tab = "demand-forecast"
)

// Tabs 页签顺序
var Tabs = []Tab{
	TabActiveEmployees,
	TabEligibleEmployees,
	TabDepartmentEligibility,
	TabEntitlementCoverage,
	TabDemandForecast,
}

// 图表序列名
const (
	SeriesStatus           = "statusDistribution"
	SeriesActiveByDept     = "activeByDepartment"
	SeriesActiveByGender   = "activeByGender"
	SeriesEligibleByDept   = "eligibleByDepartment"
	SeriesEligibleByGender = "eligibleByGender"
	SeriesDepartmentCounts = "eligibleVsIneligible"
	SeriesSKUsByDept       = "skusByDepartment"
	SeriesSKUsByGender     = "skusByGender"
	SeriesSKUsByLocation   = "skusByLocation"
	SeriesSKUsByFrequency  = "skusByFrequency"
	SeriesDemandByDept     = "demandByDepartment"

	TimelineEligibleByMonth = "eligibleByMonth"
)

// output 在共享的筛选结果上计算一项派生输出，返回写入视图的函数
type output func() func(*View)

type tabSpec struct {
	kind model.RecordKind
	// dims 本页签可用的筛选维度
	dims    []model.Dimension
	outputs func(c *model.Catalog, records []model.Record, sel filter.Selections) []output
}

var tabSpecs = map[Tab]tabSpec{
	TabActiveEmployees: {
		kind:    model.KindEmployee,
		dims:    []model.Dimension{model.DimDepartment, model.DimLocation, model.DimStatus, model.DimGender, model.DimMonth},
		outputs: activeEmployeeOutputs,
	},
	TabEligibleEmployees: {
		kind:    model.KindEmployee,
		dims:    []model.Dimension{model.DimDepartment, model.DimLocation, model.DimGender, model.DimMonth},
		outputs: eligibleEmployeeOutputs,
	},
	TabDepartmentEligibility: {
		kind:    model.KindEmployee,
		outputs: departmentEligibilityOutputs,
	},
	TabEntitlementCoverage: {
		kind:    model.KindEntitlementLine,
		dims:    []model.Dimension{model.DimDepartment, model.DimLocation, model.DimGender, model.DimSKU, model.DimFrequency},
		outputs: entitlementCoverageOutputs,
	},
	TabDemandForecast: {
		kind:    model.KindDemandLine,
		dims:    []model.Dimension{model.DimDepartment, model.DimLocation, model.DimGender, model.DimSKU, model.DimFrequency},
		outputs: demandForecastOutputs,
	},
}

// ParseTab 解析页签名
func ParseTab(name string) (Tab, bool) {
	tab := Tab(name)
	_, ok := tabSpecs[tab]
	return tab, ok
}

// Dimensions 页签可用的筛选维度
func (t Tab) Dimensions() []model.Dimension {
	return tabSpecs[t].dims
}

// Kind 页签读取的记录类型
func (t Tab) Kind() model.RecordKind {
	return tabSpecs[t].kind
}

func typed[T model.Record](records []model.Record) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if v, ok := rec.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func kpi(id, title string, value float64) model.KPI {
	return model.KPI{ID: id, Title: title, Value: value}
}

func setSeries(name string, values []model.NamedValue) func(*View) {
	return func(v *View) { v.Series[name] = values }
}

func activeEmployeeOutputs(c *model.Catalog, records []model.Record, sel filter.Selections) []output {
	employees := typed[*model.EmployeeRecord](records)
	return []output{
		func() func(*View) {
			total := aggregator.Count(employees, nil)
			active := aggregator.Count(employees, aggregator.IsActive)
			return func(v *View) {
				v.KPIs = []model.KPI{
					kpi("totalEmployees", "Total Employees", float64(total)),
					kpi("activeEmployees", "Active Employees", float64(active)),
				}
			}
		},
		func() func(*View) {
			active := aggregator.Count(employees, aggregator.IsActive)
			return setSeries(SeriesStatus, []model.NamedValue{
				{Name: model.StatusActive, Value: float64(active)},
				{Name: model.StatusInactive, Value: float64(len(employees) - active)},
			})
		},
		func() func(*View) {
			return setSeries(SeriesActiveByDept, aggregator.Series(employees, model.DimDepartment,
				aggregator.SeriesOptions[*model.EmployeeRecord]{Domain: c.Departments, Where: aggregator.IsActive}))
		},
		func() func(*View) {
			return setSeries(SeriesActiveByGender, aggregator.Series(employees, model.DimGender,
				aggregator.SeriesOptions[*model.EmployeeRecord]{Domain: c.Genders, Where: aggregator.IsActive}))
		},
		func() func(*View) {
			months := aggregator.Timeline(employees, c.Months, aggregator.IsEligible)
			return func(v *View) { v.Timelines[TimelineEligibleByMonth] = months }
		},
		func() func(*View) {
			rows := aggregator.Summarize(employees, summaryOptions(c, sel))
			return func(v *View) { v.Summary = rows }
		},
	}
}

func eligibleEmployeeOutputs(c *model.Catalog, records []model.Record, sel filter.Selections) []output {
	employees := typed[*model.EmployeeRecord](records)
	return []output{
		func() func(*View) {
			total := aggregator.Count(employees, nil)
			eligible := aggregator.Count(employees, aggregator.IsEligible)
			eligibleDepts := aggregator.CountDistinct(filterEmployees(employees, aggregator.IsEligible), model.DimDepartment)
			return func(v *View) {
				v.KPIs = []model.KPI{
					kpi("totalEmployees", "Total Employees", float64(total)),
					kpi("eligibleEmployees", "Eligible Employees", float64(eligible)),
					{ID: "eligibilityRate", Title: "Eligibility Rate", Value: float64(aggregator.Percent(eligible, total)), Unit: "%"},
					kpi("eligibleDepartments", "Eligible Departments", float64(eligibleDepts)),
				}
			}
		},
		func() func(*View) {
			return setSeries(SeriesEligibleByDept, aggregator.Series(employees, model.DimDepartment,
				aggregator.SeriesOptions[*model.EmployeeRecord]{Domain: c.Departments, Where: aggregator.IsEligible, NonZero: true}))
		},
		func() func(*View) {
			return setSeries(SeriesEligibleByGender, aggregator.Series(employees, model.DimGender,
				aggregator.SeriesOptions[*model.EmployeeRecord]{Domain: c.Genders, Where: aggregator.IsEligible, NonZero: true}))
		},
		func() func(*View) {
			months := aggregator.Timeline(employees, c.Months, aggregator.IsEligible)
			return func(v *View) { v.Timelines[TimelineEligibleByMonth] = months }
		},
		func() func(*View) {
			trend := aggregator.HeadcountTrend(employees, c.Months)
			return func(v *View) { v.Headcount = trend }
		},
		func() func(*View) {
			rows := aggregator.Summarize(employees, summaryOptions(c, sel))
			return func(v *View) { v.Summary = rows }
		},
	}
}

func departmentEligibilityOutputs(c *model.Catalog, records []model.Record, _ filter.Selections) []output {
	employees := typed[*model.EmployeeRecord](records)
	rows := aggregator.DepartmentEligibility(employees, c)
	eligible := aggregator.Count(rows, func(r model.DepartmentEligibilityRow) bool { return r.IsEligible })
	return []output{
		func() func(*View) {
			return func(v *View) {
				v.KPIs = []model.KPI{
					kpi("totalDepartments", "Total Departments", float64(len(rows))),
					kpi("eligibleDepartments", "Eligible Departments", float64(eligible)),
					kpi("ineligibleDepartments", "Ineligible Departments", float64(len(rows)-eligible)),
				}
			}
		},
		func() func(*View) {
			return setSeries(SeriesDepartmentCounts, []model.NamedValue{
				{Name: "Eligible Departments", Value: float64(eligible)},
				{Name: "Ineligible Departments", Value: float64(len(rows) - eligible)},
			})
		},
		func() func(*View) {
			return func(v *View) { v.Eligibility = rows }
		},
	}
}

func entitlementCoverageOutputs(c *model.Catalog, records []model.Record, _ filter.Selections) []output {
	lines := typed[*model.EntitlementLineRecord](records)
	distinctSKUs := aggregator.SeriesOptions[*model.EntitlementLineRecord]{Distinct: model.DimSKU}
	return []output{
		func() func(*View) {
			depts := aggregator.CountDistinct(lines, model.DimDepartment)
			skus := aggregator.CountDistinct(lines, model.DimSKU)
			return func(v *View) {
				v.KPIs = []model.KPI{
					kpi("eligibleDepartments", "Total Eligible Departments", float64(depts)),
					kpi("uniqueSkus", "Total Unique SKUs", float64(skus)),
				}
			}
		},
		func() func(*View) {
			return setSeries(SeriesSKUsByDept, aggregator.Series(lines, model.DimDepartment, distinctSKUs))
		},
		func() func(*View) {
			return setSeries(SeriesSKUsByGender, aggregator.Series(lines, model.DimGender, distinctSKUs))
		},
		func() func(*View) {
			return setSeries(SeriesSKUsByLocation, aggregator.Series(lines, model.DimLocation, distinctSKUs))
		},
		func() func(*View) {
			return setSeries(SeriesSKUsByFrequency, aggregator.FrequencySeries(lines))
		},
		func() func(*View) {
			rows := aggregator.CoverageMatrix(lines, aggregator.MatrixOptions{Catalog: c, Weight: aggregator.WeightCount})
			columns := aggregator.MatrixColumns(rows, c)
			return func(v *View) {
				v.Matrix = rows
				v.MatrixColumns = columns
			}
		},
	}
}

func demandForecastOutputs(c *model.Catalog, records []model.Record, _ filter.Selections) []output {
	lines := typed[*model.DemandLineRecord](records)
	return []output{
		func() func(*View) {
			s := aggregator.SummarizeDemand(lines)
			return func(v *View) {
				v.DemandSummary = &s
				v.KPIs = []model.KPI{
					kpi("totalSkus", "Total SKUs", float64(s.TotalSKUs)),
					kpi("commonSkus", "Common SKUs", float64(s.CommonSKUs)),
					kpi("departmentSpecificSkus", "Department-specific SKUs", float64(s.DepartmentSpecificSKUs)),
					kpi("totalQuantity", "Total Quantity", s.TotalQuantity),
				}
			}
		},
		func() func(*View) {
			rows := aggregator.DemandForecast(lines)
			return func(v *View) { v.Demand = rows }
		},
		func() func(*View) {
			return setSeries(SeriesDemandByDept, aggregator.Series(lines, model.DimDepartment,
				aggregator.SeriesOptions[*model.DemandLineRecord]{
					Value: func(l *model.DemandLineRecord) float64 { return l.TotalQuantityNeeded },
				}))
		},
		func() func(*View) {
			rows := aggregator.CoverageMatrix(lines, aggregator.MatrixOptions{Catalog: c, Weight: aggregator.WeightQuantity})
			columns := aggregator.MatrixColumns(rows, c)
			return func(v *View) {
				v.Matrix = rows
				v.MatrixColumns = columns
			}
		},
	}
}

// summaryOptions 部门或基地已锁定单一取值时汇总为一行
func summaryOptions(c *model.Catalog, sel filter.Selections) aggregator.SummaryOptions {
	_, dept := sel.Pinned(model.DimDepartment)
	_, loc := sel.Pinned(model.DimLocation)
	return aggregator.SummaryOptions{Domain: c.Departments, Pinned: dept || loc}
}

func filterEmployees(employees []*model.EmployeeRecord, pred func(*model.EmployeeRecord) bool) []*model.EmployeeRecord {
	out := make([]*model.EmployeeRecord, 0, len(employees))
	for _, e := range employees {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}
