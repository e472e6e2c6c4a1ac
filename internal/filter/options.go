package filter

import (
	"sort"
	"strconv"

	"uniformdash/internal/model"
)

// StaticOptions 静态维度的下拉选项：哨兵值在前，其后为枚举顺序
func StaticOptions(catalog *model.Catalog, d model.Dimension) []string {
	domain := catalog.Domain(d)
	out := make([]string, 0, len(domain)+1)
	out = append(out, SentinelAll)
	return append(out, domain...)
}

// ObservedOptions 数据驱动维度的选项：去重后的观测值，频次按数值升序，其余按字母序
func ObservedOptions[R model.Record](records []R, d model.Dimension) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, rec := range records {
		v, ok := rec.Dimension(d)
		if !ok || v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if d == model.DimFrequency {
		SortNumeric(out)
	} else {
		sort.Strings(out)
	}
	return out
}

// SortNumeric 按数值升序排序；非数值排在最后并按字母序
func SortNumeric(values []string) {
	sort.SliceStable(values, func(i, j int) bool {
		a, aerr := strconv.ParseFloat(values[i], 64)
		b, berr := strconv.ParseFloat(values[j], 64)
		switch {
		case aerr == nil && berr == nil:
			return a < b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		}
		return values[i] < values[j]
	})
}
