package dashboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"uniformdash/internal/filter"
	"uniformdash/internal/model"
	"uniformdash/internal/normalizer"
	"uniformdash/internal/source"
)

// ErrUnknownTab 未知页签
var ErrUnknownTab = errors.New("unknown tab")

// 视图状态
const (
	StatusOK                = "ok"
	StatusSourceUnavailable = "source_unavailable"
	StatusMalformed         = "malformed_data"
)

// View 页签视图：同一次筛选结果上计算出的全部派生输出
type View struct {
	Tab       Tab    `json:"tab"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Selection string `json:"selection"`
	Records   int    `json:"records"`

	KPIs          []model.KPI                      `json:"kpis"`
	Series        map[string][]model.NamedValue    `json:"series"`
	Timelines     map[string][]model.MonthCount    `json:"timelines"`
	Headcount     []model.HeadcountPoint           `json:"headcount,omitempty"`
	Summary       []model.SummaryRow               `json:"summary,omitempty"`
	Eligibility   []model.DepartmentEligibilityRow `json:"eligibility,omitempty"`
	Matrix        []model.MatrixRow                `json:"matrix,omitempty"`
	MatrixColumns []string                         `json:"matrixColumns,omitempty"`
	Demand        []model.DemandRow                `json:"demand,omitempty"`
	DemandSummary *model.DemandSummary             `json:"demandSummary,omitempty"`
}

// Engine 仪表盘引擎：取数 → 规范化 → 筛选 → 并发聚合
type Engine struct {
	source     source.Source
	catalog    *model.Catalog
	normalizer *normalizer.Normalizer
	logger     *zap.Logger
}

// NewEngine 创建引擎；数据源由调用方构造并持有
func NewEngine(src source.Source, catalog *model.Catalog, logger *zap.Logger) *Engine {
	if catalog == nil {
		catalog = model.DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		source:     src,
		catalog:    catalog,
		normalizer: normalizer.New(catalog),
		logger:     logger,
	}
}

// Catalog 引擎使用的枚举
func (e *Engine) Catalog() *model.Catalog {
	return e.catalog
}

// Snapshot 以一个问句取回某类记录并规范化
func (e *Engine) Snapshot(ctx context.Context, kind model.RecordKind, sel filter.Selections) ([]model.Record, error) {
	question := source.BuildQuestion(source.MetricFor(kind), sel)
	resp, err := e.source.Query(ctx, question)
	if err != nil {
		var unavailable *model.SourceUnavailableError
		if !errors.As(err, &unavailable) {
			err = &model.SourceUnavailableError{Question: question, Err: err}
		}
		e.logger.Warn("source unavailable", zap.String("question", question), zap.Error(err))
		return nil, err
	}

	records, err := e.normalizer.NormalizeAll(resp.Data, kind)
	if err != nil {
		var malformed *model.MalformedRecordError
		if errors.As(err, &malformed) {
			e.logger.Warn("malformed record", zap.String("question", question), zap.Int("index", malformed.Index), zap.Error(err))
		}
		return nil, err
	}
	return records, nil
}

// Scope 只保留页签可用的维度，部门别名统一为标准名称
func (e *Engine) Scope(tab Tab, sel filter.Selections) filter.Selections {
	out := filter.Selections{}
	for _, d := range tab.Dimensions() {
		values := sel.Values(d)
		if len(values) == 0 {
			continue
		}
		if d == model.DimDepartment {
			canonical := make([]string, 0, len(values))
			for _, v := range values {
				canonical = append(canonical, e.catalog.CanonicalDepartment(v))
			}
			values = canonical
		}
		out[d] = filter.Multi(values...)
	}
	return out
}

// View 计算页签视图。
// 取数失败时返回全部为零值的视图及错误；不会返回部分计算的结果。
func (e *Engine) View(ctx context.Context, tab Tab, sel filter.Selections) (*View, error) {
	spec, ok := tabSpecs[tab]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	sel = e.Scope(tab, sel)

	records, err := e.Snapshot(ctx, spec.kind, sel)
	if err != nil {
		status := StatusSourceUnavailable
		if errors.Is(err, model.ErrMalformedRecord) {
			status = StatusMalformed
		}
		v, _ := e.compute(context.WithoutCancel(ctx), tab, spec, nil, sel)
		v.Status = status
		v.Error = err.Error()
		return v, err
	}

	filtered := filter.Apply(records, sel)
	e.logger.Debug("tab filtered",
		zap.String("tab", string(tab)),
		zap.String("selection", sel.Key()),
		zap.Int("records", len(records)),
		zap.Int("filtered", len(filtered)))
	return e.compute(ctx, tab, spec, filtered, sel)
}

// compute 各项输出并发计算，共享同一份不可变的筛选结果
func (e *Engine) compute(ctx context.Context, tab Tab, spec tabSpec, records []model.Record, sel filter.Selections) (*View, error) {
	v := &View{
		Tab:       tab,
		Status:    StatusOK,
		Selection: sel.Key(),
		Records:   len(records),
		KPIs:      []model.KPI{},
		Series:    map[string][]model.NamedValue{},
		Timelines: map[string][]model.MonthCount{},
	}

	outputs := spec.outputs(e.catalog, records, sel)
	results := make([]func(*View), len(outputs))
	g, gctx := errgroup.WithContext(ctx)
	for i, out := range outputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = out()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return v, err
	}
	for _, set := range results {
		set(v)
	}
	return v, nil
}
