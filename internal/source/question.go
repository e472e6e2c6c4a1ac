package source

import (
	"regexp"
	"strings"

	"uniformdash/internal/filter"
	"uniformdash/internal/model"
)

const valueSeparator = ", "

// 问句子句：顺序固定为 部门、基地、状态、性别、月份
var clauses = []struct {
	dim    model.Dimension
	prefix string
	suffix string
}{
	{model.DimDepartment, " in ", " department"},
	{model.DimLocation, " in ", ""},
	{model.DimStatus, " with status ", ""},
	{model.DimGender, " and gender ", ""},
	{model.DimMonth, " for month ", ""},
}

var questionPattern = regexp.MustCompile(
	`^(.*?)` +
		`(?: in (.+?) department)?` +
		`(?: in (.+?))?` +
		`(?: with status (.+?))?` +
		`(?: and gender (.+?))?` +
		`(?: for month (.+?))?$`)

// BuildQuestion 由指标名与筛选条件确定性地拼出问句；多选值以 ", " 连接
func BuildQuestion(metric string, s filter.Selections) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(metric))
	for _, c := range clauses {
		values := s.Values(c.dim)
		if len(values) == 0 {
			continue
		}
		b.WriteString(c.prefix)
		b.WriteString(strings.Join(values, valueSeparator))
		b.WriteString(c.suffix)
	}
	return b.String()
}

// ParseQuestion BuildQuestion 的逆过程
func ParseQuestion(question string) (string, filter.Selections) {
	question = strings.Join(strings.Fields(question), " ")
	m := questionPattern.FindStringSubmatch(question)
	if m == nil {
		return strings.ToLower(question), filter.Selections{}
	}
	sel := filter.Selections{}
	for i, c := range clauses {
		raw := m[i+2]
		if raw == "" {
			continue
		}
		if values := filter.Multi(strings.Split(raw, ",")...); values != nil {
			sel[c.dim] = values
		}
	}
	return strings.ToLower(strings.TrimSpace(m[1])), sel
}
