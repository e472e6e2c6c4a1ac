package filter

import (
	"uniformdash/internal/model"
)

type matcher struct {
	dim    model.Dimension
	values map[string]bool
}

// Apply 按选择过滤记录：维度之间为 AND，同一维度内为 OR。
// 单次遍历，不修改输入，总是返回新切片。
func Apply[R model.Record](records []R, s Selections) []R {
	matchers := compile(s)
	out := make([]R, 0, len(records))
	for _, rec := range records {
		if matches(rec, matchers) {
			out = append(out, rec)
		}
	}
	return out
}

// Match 单条记录是否满足选择
func Match(rec model.Record, s Selections) bool {
	return matches(rec, compile(s))
}

func compile(s Selections) []matcher {
	active := s.Active()
	matchers := make([]matcher, 0, len(active))
	for _, d := range active {
		set := make(map[string]bool, len(s[d]))
		for _, v := range s[d] {
			set[matchKey(d, v)] = true
		}
		matchers = append(matchers, matcher{dim: d, values: set})
	}
	return matchers
}

func matches(rec model.Record, matchers []matcher) bool {
	for _, m := range matchers {
		v, ok := rec.Dimension(m.dim)
		// 不携带该维度的记录不满足该维度上的筛选
		if !ok || !m.values[matchKey(m.dim, v)] {
			return false
		}
	}
	return true
}
