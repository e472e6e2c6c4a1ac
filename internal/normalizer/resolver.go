package normalizer

import (
	"uniformdash/internal/model"
)

// FieldType 目标字段类型
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeFloat
	TypeBool
)

// FieldRule 字段解析规则：按顺序尝试候选源字段，首个存在且非空的值生效，否则取默认值
type FieldRule struct {
	Target  string
	Sources []string
	Type    FieldType
	Default any
}

// RuleSet 某类记录的字段解析表
type RuleSet []FieldRule

// 目标字段
const (
	FieldID                  = "id"
	FieldName                = "name"
	FieldDepartment          = "department"
	FieldLocation            = "location"
	FieldGender              = "gender"
	FieldStatus              = "status"
	FieldIssuanceMonth       = "issuanceMonth"
	FieldIsEligible          = "isEligible"
	FieldSKU                 = "sku"
	FieldBaseLocation        = "baseLocation"
	FieldSkuGender           = "skuGender"
	FieldFrequencyMonths     = "frequencyMonths"
	FieldQuantity            = "quantity"
	FieldTotalQuantityNeeded = "totalQuantityNeeded"
	FieldTotalOccurrences    = "totalOccurrences"
	FieldLabel               = "label"
	FieldValue               = "value"
	FieldTotal               = "total"
	FieldActive              = "active"
	FieldInactive            = "inactive"
	FieldMonth               = "month"
)

// EmployeeRules 员工记录解析表
var EmployeeRules = RuleSet{
	{Target: FieldID, Sources: []string{"id", "iga_code", "employee_id", "emp_id"}, Type: TypeString, Default: ""},
	{Target: FieldName, Sources: []string{"name", "employee_name", "full_name"}, Type: TypeString, Default: ""},
	{Target: FieldDepartment, Sources: []string{"department", "function", "dept"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldLocation, Sources: []string{"location", "baselocationtext", "base_location", "baseLocation"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldGender, Sources: []string{"gender", "gender_picklist_label"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldStatus, Sources: []string{"status", "employee_status"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldIssuanceMonth, Sources: []string{"issuanceMonth", "issuance_month", "month"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldIsEligible, Sources: []string{"isEligible", "is_eligible", "eligible"}, Type: TypeBool, Default: false},
}

// DemandLineRules 需求行解析表
var DemandLineRules = RuleSet{
	{Target: FieldSKU, Sources: []string{"sku", "item_name", "item", "SKU Name", "sku_name"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldDepartment, Sources: []string{"department", "dept"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldBaseLocation, Sources: []string{"baseLocation", "base_location", "location"}, Type: TypeString, Default: model.LocationAll},
	{Target: FieldSkuGender, Sources: []string{"skuGender", "sku_gender", "gender"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldFrequencyMonths, Sources: []string{"frequencyMonths", "frequency_months", "frequency", "issuanceFrequency"}, Type: TypeInt, Default: 0},
	{Target: FieldQuantity, Sources: []string{"quantity", "quantity_per_issue", "qty"}, Type: TypeInt, Default: 0},
	{Target: FieldTotalQuantityNeeded, Sources: []string{"total_quantity_needed", "totalQuantityNeeded", "value", "count"}, Type: TypeFloat, Default: 0.0},
	{Target: FieldTotalOccurrences, Sources: []string{"total_occurrences", "totalOccurrences", "occurrences"}, Type: TypeFloat, Default: 0.0},
}

// EntitlementLineRules 领用标准解析表
var EntitlementLineRules = RuleSet{
	{Target: FieldSKU, Sources: []string{"sku", "item", "item_name", "SKU Name", "sku_name"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldDepartment, Sources: []string{"department", "dept"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldLocation, Sources: []string{"location", "baseLocation", "base_location"}, Type: TypeString, Default: model.LocationAll},
	{Target: FieldGender, Sources: []string{"gender", "sku_gender", "skuGender"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldFrequencyMonths, Sources: []string{"frequency", "issuanceFrequency", "issuance_frequency", "frequencyMonths", "frequency_months"}, Type: TypeInt, Default: 0},
	{Target: FieldQuantity, Sources: []string{"quantity", "qty"}, Type: TypeInt, Default: 0},
}

// SummaryRules 聚合行（按部门 / 标签 / 性别 / 月份）解析表
var SummaryRules = RuleSet{
	{Target: FieldDepartment, Sources: []string{"department", "function"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldLabel, Sources: []string{"label", "name", "status"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldGender, Sources: []string{"gender", "gender_picklist_label"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldMonth, Sources: []string{"month"}, Type: TypeString, Default: model.UnknownLabel},
	{Target: FieldValue, Sources: []string{"value", "count", "total_active", "employees_with_demand", "eligible_employees", "sku_count"}, Type: TypeFloat, Default: 0.0},
	{Target: FieldTotal, Sources: []string{"total_employees", "totalEmployees", "total"}, Type: TypeInt, Default: 0},
	{Target: FieldActive, Sources: []string{"active_employees", "activeEmployees", "active"}, Type: TypeInt, Default: 0},
	{Target: FieldInactive, Sources: []string{"inactive_employees", "inactiveEmployees", "inactive"}, Type: TypeInt, Default: 0},
}

// RulesFor 返回记录类型对应的解析表
func RulesFor(kind model.RecordKind) (RuleSet, bool) {
	switch kind {
	case model.KindEmployee:
		return EmployeeRules, true
	case model.KindDemandLine:
		return DemandLineRules, true
	case model.KindEntitlementLine:
		return EntitlementLineRules, true
	}
	return nil, false
}

// Resolved 解析结果
type Resolved struct {
	values  map[string]any
	present map[string]bool
}

// Resolve 按解析表从原始记录中取值
func Resolve(raw model.RawRecord, rules RuleSet) Resolved {
	res := Resolved{
		values:  make(map[string]any, len(rules)),
		present: make(map[string]bool, len(rules)),
	}
	for _, rule := range rules {
		v, ok := resolveOne(raw, rule)
		if !ok {
			v = rule.Default
		}
		res.values[rule.Target] = v
		res.present[rule.Target] = ok
	}
	return res
}

func resolveOne(raw model.RawRecord, rule FieldRule) (any, bool) {
	for _, src := range rule.Sources {
		v, exists := raw[src]
		if !exists || v == nil {
			continue
		}
		switch rule.Type {
		case TypeString:
			if s, ok := asString(v); ok {
				return s, true
			}
		case TypeInt:
			if n, ok := asInt(v); ok {
				return n, true
			}
		case TypeFloat:
			if f, ok := asFloat(v); ok {
				return f, true
			}
		case TypeBool:
			if b, ok := asBool(v); ok {
				return b, true
			}
		}
	}
	return nil, false
}

// Present 源记录中是否存在该字段
func (r Resolved) Present(target string) bool {
	return r.present[target]
}

// String 取字符串字段
func (r Resolved) String(target string) string {
	s, _ := r.values[target].(string)
	return s
}

// Int 取整数字段
func (r Resolved) Int(target string) int {
	n, _ := r.values[target].(int)
	return n
}

// Float 取数值字段
func (r Resolved) Float(target string) float64 {
	f, _ := r.values[target].(float64)
	return f
}

// Bool 取布尔字段
func (r Resolved) Bool(target string) bool {
	b, _ := r.values[target].(bool)
	return b
}

// SourceField 列名映射：返回规范化列名命中的目标字段（供 Excel 导入使用）
func (rules RuleSet) SourceField(header string) (string, bool) {
	key := HeaderKey(header)
	if key == "" {
		return "", false
	}
	for _, rule := range rules {
		for _, src := range rule.Sources {
			if HeaderKey(src) == key {
				return rule.Target, true
			}
		}
	}
	return "", false
}
