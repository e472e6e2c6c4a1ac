package filter

import (
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"uniformdash/internal/model"
)

// 哨兵值：表示该维度不限。仅识别 "all" 与 "All"，"ALL" 是需求行的合法基地取值
const (
	SentinelAll      = "all"
	SentinelAllTitle = "All"
)

// IsSentinel 是否为“不限”哨兵值
func IsSentinel(v string) bool {
	return v == SentinelAll || v == SentinelAllTitle
}

// Selection 单个维度的选择：有序、去重的取值集合。
// 单选视为基数为 1 的多选；空集或包含哨兵值均表示不限。
type Selection []string

// All 不限
func All() Selection { return nil }

// Single 单选
func Single(v string) Selection { return Multi(v) }

// Multi 多选；保留首次出现的顺序，去除空白与重复值
func Multi(values ...string) Selection {
	out := make(Selection, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// IsAll 是否不限
func (s Selection) IsAll() bool {
	return len(s) == 0 || slices.ContainsFunc(s, IsSentinel)
}

// Selections 各维度的选择
type Selections map[model.Dimension]Selection

// With 返回设置了某维度选择的新副本
func (s Selections) With(d model.Dimension, sel Selection) Selections {
	out := make(Selections, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[d] = sel
	return out
}

// Active 生效的维度（按规范维度顺序）
func (s Selections) Active() []model.Dimension {
	var dims []model.Dimension
	for _, d := range model.AllDimensions {
		if sel, ok := s[d]; ok && !sel.IsAll() {
			dims = append(dims, d)
		}
	}
	return dims
}

// Values 维度的生效取值；不限时返回 nil
func (s Selections) Values(d model.Dimension) []string {
	sel := s[d]
	if sel.IsAll() {
		return nil
	}
	return sel
}

// Pinned 维度是否被锁定为单一取值
func (s Selections) Pinned(d model.Dimension) (string, bool) {
	values := s.Values(d)
	if len(values) != 1 {
		return "", false
	}
	return values[0], true
}

// Key 选择元组的规范键；结果相同的选择得到相同的键
func (s Selections) Key() string {
	var b strings.Builder
	for _, d := range s.Active() {
		values := make([]string, 0, len(s[d]))
		for _, v := range s[d] {
			values = append(values, matchKey(d, v))
		}
		sort.Strings(values)
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		b.WriteString(string(d))
		b.WriteByte('=')
		b.WriteString(strings.Join(values, "|"))
	}
	return b.String()
}

// 查询参数名别名
var paramAliases = map[model.Dimension][]string{
	model.DimDepartment: {"department", "departments"},
	model.DimLocation:   {"location", "locations", "baseLocation"},
	model.DimGender:     {"gender", "genders"},
	model.DimStatus:     {"status", "statuses"},
	model.DimMonth:      {"month", "months", "issuanceMonth"},
	model.DimSKU:        {"sku", "skus"},
	model.DimFrequency:  {"frequency", "frequencies"},
}

// ParseSelections 解析查询参数；支持重复参数与逗号分隔
func ParseSelections(q url.Values) Selections {
	out := Selections{}
	for _, d := range model.AllDimensions {
		var values []string
		for _, name := range paramAliases[d] {
			for _, raw := range q[name] {
				values = append(values, strings.Split(raw, ",")...)
			}
		}
		if sel := Multi(values...); sel != nil {
			out[d] = sel
		}
	}
	return out
}

// matchKey 取值比较键：性别与状态不区分大小写，频次按十进制整数，其余精确匹配
func matchKey(d model.Dimension, v string) string {
	v = strings.TrimSpace(v)
	switch d {
	case model.DimGender, model.DimStatus:
		return strings.ToLower(v)
	case model.DimFrequency:
		if n, err := strconv.Atoi(v); err == nil {
			return strconv.Itoa(n)
		}
	}
	return v
}
