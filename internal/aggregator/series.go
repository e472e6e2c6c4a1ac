package aggregator

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"uniformdash/internal/filter"
	"uniformdash/internal/model"
)

// SeriesOptions 分组序列选项
type SeriesOptions[R model.Record] struct {
	// Domain 静态取值域：按域顺序输出并补零，域外的观测值不输出
	Domain []string
	// Where 计数前的附加条件
	Where func(R) bool
	// Value 每条记录贡献的数值；为空时按条计数
	Value func(R) float64
	// Distinct 非空时统计组内该维度的去重取值数
	Distinct model.Dimension
	// NonZero 仅保留取值大于 0 的项
	NonZero bool
	// NumericSort 按键的数值升序（无静态取值域时生效）
	NumericSort bool
}

type bucket struct {
	sum      decimal.Decimal
	distinct map[string]struct{}
}

// Series 按单一维度分组聚合。
// 有静态取值域时每个域值一项（含 0）；否则按首次出现顺序输出观测到的键。
func Series[R model.Record](records []R, key model.Dimension, opts SeriesOptions[R]) []model.NamedValue {
	buckets := make(map[string]*bucket)
	var order []string
	for _, rec := range records {
		if opts.Where != nil && !opts.Where(rec) {
			continue
		}
		k, ok := rec.Dimension(key)
		if !ok {
			continue
		}
		b, exists := buckets[k]
		if !exists {
			b = &bucket{sum: decimal.Zero, distinct: map[string]struct{}{}}
			buckets[k] = b
			order = append(order, k)
		}
		switch {
		case opts.Distinct != "":
			if v, ok := rec.Dimension(opts.Distinct); ok && v != "" {
				b.distinct[v] = struct{}{}
			}
		case opts.Value != nil:
			b.sum = b.sum.Add(decimal.NewFromFloat(opts.Value(rec)))
		default:
			b.sum = b.sum.Add(decimal.NewFromInt(1))
		}
	}

	keys := order
	if opts.Domain != nil {
		keys = opts.Domain
	} else if opts.NumericSort {
		keys = append([]string(nil), order...)
		filter.SortNumeric(keys)
	}

	out := make([]model.NamedValue, 0, len(keys))
	for _, k := range keys {
		value := 0.0
		if b, ok := buckets[k]; ok {
			if opts.Distinct != "" {
				value = float64(len(b.distinct))
			} else {
				value = b.sum.InexactFloat64()
			}
		}
		if opts.NonZero && value <= 0 {
			continue
		}
		out = append(out, model.NamedValue{Name: k, Value: value})
	}
	return out
}

// Timeline 月度序列：按月份取值域补零输出 {month, count}
func Timeline[R model.Record](records []R, months []string, where func(R) bool) []model.MonthCount {
	series := Series(records, model.DimMonth, SeriesOptions[R]{Domain: months, Where: where})
	out := make([]model.MonthCount, 0, len(series))
	for _, nv := range series {
		out = append(out, model.MonthCount{Month: nv.Name, Count: int(nv.Value)})
	}
	return out
}

// HeadcountTrend 月度总人数与可领用人数
func HeadcountTrend(employees []*model.EmployeeRecord, months []string) []model.HeadcountPoint {
	total := Timeline(employees, months, nil)
	eligible := Timeline(employees, months, IsEligible)
	out := make([]model.HeadcountPoint, 0, len(total))
	for i := range total {
		out = append(out, model.HeadcountPoint{
			Month:             total[i].Month,
			TotalHeadcount:    total[i].Count,
			EligibleEmployees: eligible[i].Count,
		})
	}
	return out
}

// FrequencySeries 按发放频次统计去重 SKU 数，键为频次标签，按月数升序
func FrequencySeries[R model.Record](records []R) []model.NamedValue {
	series := Series(records, model.DimFrequency, SeriesOptions[R]{Distinct: model.DimSKU, NumericSort: true})
	for i := range series {
		if n, err := strconv.Atoi(strings.TrimSpace(series[i].Name)); err == nil {
			series[i].Name = FrequencyLabel(n)
		}
	}
	return series
}
