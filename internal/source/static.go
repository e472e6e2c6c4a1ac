package source

import (
	"context"
	"fmt"
	"math/rand"

	"uniformdash/internal/model"
)

// StaticOptions 静态数据生成参数
type StaticOptions struct {
	Seed      int64
	Employees int
	Catalog   *model.Catalog
}

// StaticSource 本地生成的数据源：构造时生成一次，之后只读
type StaticSource struct {
	employees    []model.RawRecord
	entitlements []model.RawRecord
	demand       []model.RawRecord
}

// NewStatic 按种子生成员工，并加载内置需求预测表
func NewStatic(opts StaticOptions) *StaticSource {
	if opts.Catalog == nil {
		opts.Catalog = model.DefaultCatalog()
	}
	if opts.Employees <= 0 {
		opts.Employees = 500
	}
	return &StaticSource{
		employees:    GenerateEmployees(opts.Seed, opts.Employees, opts.Catalog),
		entitlements: entitlementRows(),
		demand:       demandRows(),
	}
}

// GenerateEmployees 生成员工：部门/基地/性别/月份均匀分布，约 80% 在职、70% 可领用
func GenerateEmployees(seed int64, n int, catalog *model.Catalog) []model.RawRecord {
	r := rand.New(rand.NewSource(seed))
	pick := func(values []string) string {
		if len(values) == 0 {
			return ""
		}
		return values[r.Intn(len(values))]
	}

	out := make([]model.RawRecord, 0, n)
	for i := 1; i <= n; i++ {
		status := model.StatusInactive
		if r.Float64() > 0.2 {
			status = model.StatusActive
		}
		out = append(out, model.RawRecord{
			"id":            fmt.Sprintf("EMP%04d", i),
			"name":          fmt.Sprintf("Employee %d", i),
			"department":    pick(catalog.Departments),
			"location":      pick(catalog.Locations),
			"gender":        pick(catalog.Genders),
			"status":        status,
			"issuanceMonth": pick(catalog.Months),
			"isEligible":    r.Float64() > 0.3,
		})
	}
	return out
}

func entitlementRows() []model.RawRecord {
	out := make([]model.RawRecord, 0, len(forecastTable))
	for _, l := range forecastTable {
		out = append(out, model.RawRecord{
			"item":         l.SKU,
			"department":   l.Department,
			"baseLocation": l.Location,
			"gender":       l.Gender,
			"frequency":    l.Frequency,
			"quantity":     l.Quantity,
		})
	}
	return out
}

func demandRows() []model.RawRecord {
	out := make([]model.RawRecord, 0, len(forecastTable))
	for _, l := range forecastTable {
		out = append(out, model.RawRecord{
			"sku":             l.SKU,
			"department":      l.Department,
			"location":        l.Location,
			"gender":          l.Gender,
			"quantity":        l.Quantity,
			"frequencyMonths": l.Frequency,
		})
	}
	return out
}

// Employees 员工原始记录
func (s *StaticSource) Employees() []model.RawRecord { return s.employees }

// Entitlements 领用标准原始记录
func (s *StaticSource) Entitlements() []model.RawRecord { return s.entitlements }

// DemandLines 需求原始记录
func (s *StaticSource) DemandLines() []model.RawRecord { return s.demand }

// Query 实现 Source：返回指标对应的全部明细，由调用方在本地筛选
func (s *StaticSource) Query(ctx context.Context, question string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, &model.SourceUnavailableError{Question: question, Err: err}
	}
	metric, _ := ParseQuestion(question)
	switch metric {
	case MetricAllEmployees:
		return Succeeded(metric, "generated employees", s.employees), nil
	case MetricAllEntitlements:
		return Succeeded(metric, "built-in entitlement rules", s.entitlements), nil
	case MetricSKUDemand:
		return Succeeded(metric, "built-in demand forecast", s.demand), nil
	}
	return nil, &model.SourceUnavailableError{Question: question, Err: fmt.Errorf("unsupported metric: %s", metric)}
}
