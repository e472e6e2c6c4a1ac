package importer

import (
	"strings"

	"uniformdash/internal/model"
	"uniformdash/internal/normalizer"
)

// minConfidence 低于该置信度的 Sheet 视为无法识别
const minConfidence = 0.5

type sheetRule struct {
	Kind  model.RecordKind
	Rules normalizer.RuleSet
	// Required 缺少任一字段即不匹配
	Required []string
	Names    []string
}

var sheetRules = []sheetRule{
	{
		Kind:     model.KindEmployee,
		Rules:    normalizer.EmployeeRules,
		Required: []string{normalizer.FieldDepartment},
		Names:    []string{"employee", "staff", "headcount"},
	},
	{
		Kind:     model.KindEntitlementLine,
		Rules:    normalizer.EntitlementLineRules,
		Required: []string{normalizer.FieldSKU, normalizer.FieldDepartment},
		Names:    []string{"entitlement", "uniform rule"},
	},
	{
		Kind:     model.KindDemandLine,
		Rules:    normalizer.DemandLineRules,
		Required: []string{normalizer.FieldSKU, normalizer.FieldDepartment},
		Names:    []string{"demand", "forecast"},
	},
}

// Recognition Sheet 识别结果
type Recognition struct {
	SheetName  string           `json:"sheetName"`
	Kind       model.RecordKind `json:"kind,omitempty"`
	Confidence float64          `json:"confidence"`
	// Columns 列序号 → 目标字段
	Columns map[int]string `json:"-"`
	Missing []string       `json:"missing,omitempty"`
}

// Recognized 是否识别成功
func (r Recognition) Recognized() bool {
	return r.Kind != ""
}

// Recognize 按表头命中字段的比例识别 Sheet 类型；表名命中关键字加分
// 置信度相同时命中字段多者优先
func Recognize(sheetName string, headers []string) Recognition {
	best := Recognition{SheetName: sheetName}
	bestMatched := 0
	for _, rule := range sheetRules {
		columns, matched := mapColumns(rule.Rules, headers)
		score := float64(len(matched)) / float64(len(rule.Rules))
		missing := missingTargets(rule.Rules, matched)
		if !hasAll(matched, rule.Required) {
			continue
		}
		if nameMatches(sheetName, rule.Names) {
			score += 0.25
		}
		if score > best.Confidence || (score == best.Confidence && len(matched) > bestMatched) {
			best = Recognition{SheetName: sheetName, Kind: rule.Kind, Confidence: score, Columns: columns, Missing: missing}
			bestMatched = len(matched)
		}
	}
	if best.Confidence < minConfidence {
		return Recognition{SheetName: sheetName, Confidence: best.Confidence}
	}
	if best.Confidence > 1 {
		best.Confidence = 1
	}
	return best
}

// mapColumns 列名映射到目标字段；同一目标字段取第一列
func mapColumns(rules normalizer.RuleSet, headers []string) (map[int]string, map[string]bool) {
	columns := make(map[int]string)
	matched := make(map[string]bool)
	for i, h := range headers {
		target, ok := rules.SourceField(h)
		if !ok || matched[target] {
			continue
		}
		columns[i] = target
		matched[target] = true
	}
	return columns, matched
}

func missingTargets(rules normalizer.RuleSet, matched map[string]bool) []string {
	var out []string
	for _, rule := range rules {
		if !matched[rule.Target] {
			out = append(out, rule.Target)
		}
	}
	return out
}

func hasAll(matched map[string]bool, required []string) bool {
	for _, r := range required {
		if !matched[r] {
			return false
		}
	}
	return true
}

func nameMatches(sheetName string, names []string) bool {
	lower := strings.ToLower(sheetName)
	for _, n := range names {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
