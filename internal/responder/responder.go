package responder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"uniformdash/internal/filter"
	"uniformdash/internal/model"
	"uniformdash/internal/source"
	"uniformdash/internal/store"
)

// Responder 问句应答：解析指标与筛选子句，在 SQLite 上执行并返回上游风格的数据
type Responder struct {
	store   *store.Store
	catalog *model.Catalog
	logger  *zap.Logger
	metrics map[string]metricFunc
}

type metricFunc func(q query) (*source.Response, error)

type query struct {
	metric string
	sel    filter.Selections
}

// New 创建应答器
func New(st *store.Store, catalog *model.Catalog, logger *zap.Logger) *Responder {
	if catalog == nil {
		catalog = model.DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Responder{store: st, catalog: catalog, logger: logger}
	r.metrics = map[string]metricFunc{
		source.MetricAllEmployees:     r.allEmployees,
		source.MetricAllEntitlements:  r.allEntitlements,
		source.MetricSKUDemand:        r.skuDemand,
		source.MetricTotal:            r.totalEmployees,
		source.MetricActive:           r.statusCount(model.StatusActive),
		source.MetricInactive:         r.statusCount(model.StatusInactive),
		source.MetricStatus:           r.statusBreakdown,
		source.MetricDepartmentRows:   r.departmentSummary,
		source.MetricUniqueSKUs:       r.uniqueSKUs,
		source.MetricEligibleDepts:    r.eligibleDepartments,
		source.MetricTotalDepartments: r.totalDepartments,
		source.MetricCoverageMatrix:   r.coverageMatrix,
	}
	return r
}

// Metrics 支持的指标名
func (r *Responder) Metrics() []string {
	out := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		out = append(out, name)
	}
	return out
}

// Answer 应答问句；不支持的指标返回带 error 字段的响应而非错误
func (r *Responder) Answer(ctx context.Context, question string) (*source.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	metric, sel := source.ParseQuestion(question)
	fn, ok := r.metrics[metric]
	if !ok {
		r.logger.Info("unsupported metric", zap.String("question", question), zap.String("metric", metric))
		return &source.Response{Status: "failed", Metric: metric, Error: fmt.Sprintf("unsupported metric: %s", metric)}, nil
	}

	// 部门别名统一为标准名称
	if depts := sel.Values(model.DimDepartment); len(depts) > 0 {
		canonical := make([]string, 0, len(depts))
		for _, d := range depts {
			canonical = append(canonical, r.catalog.CanonicalDepartment(d))
		}
		sel = sel.With(model.DimDepartment, filter.Multi(canonical...))
	}

	resp, err := fn(query{metric: metric, sel: sel})
	if err != nil {
		r.logger.Warn("metric failed", zap.String("question", question), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (q query) employeeOptions() store.EmployeeQueryOptions {
	return store.EmployeeQueryOptions{
		Departments: q.sel.Values(model.DimDepartment),
		Locations:   q.sel.Values(model.DimLocation),
		Statuses:    q.sel.Values(model.DimStatus),
		Genders:     q.sel.Values(model.DimGender),
		Months:      q.sel.Values(model.DimMonth),
	}
}
