package normalizer

import (
	"fmt"
	"math"

	"uniformdash/internal/model"
)

// Normalizer 将松散记录映射为统一口径记录
type Normalizer struct {
	catalog *model.Catalog
}

// New 创建 Normalizer；catalog 为空时使用内置枚举
func New(catalog *model.Catalog) *Normalizer {
	if catalog == nil {
		catalog = model.DefaultCatalog()
	}
	return &Normalizer{catalog: catalog}
}

// Catalog 当前使用的枚举
func (n *Normalizer) Catalog() *model.Catalog {
	return n.catalog
}

// Normalize 规范化单条记录；缺失字段取默认值，不报错
func (n *Normalizer) Normalize(raw model.RawRecord, kind model.RecordKind) (model.Record, error) {
	rules, ok := RulesFor(kind)
	if !ok {
		return nil, fmt.Errorf("unsupported record kind: %q", kind)
	}
	res := Resolve(raw, rules)

	switch kind {
	case model.KindEmployee:
		return n.employee(res), nil
	case model.KindDemandLine:
		return n.demandLine(res), nil
	default:
		return n.entitlementLine(res), nil
	}
}

func (n *Normalizer) employee(res Resolved) *model.EmployeeRecord {
	department := n.catalog.CanonicalDepartment(res.String(FieldDepartment))
	return &model.EmployeeRecord{
		ID:                 res.String(FieldID),
		Name:               res.String(FieldName),
		Department:         department,
		Location:           res.String(FieldLocation),
		Gender:             GenderLabel(res.String(FieldGender)),
		Status:             StatusLabel(res.String(FieldStatus)),
		IssuanceMonth:      res.String(FieldIssuanceMonth),
		IsEligible:         res.Bool(FieldIsEligible),
		DepartmentEligible: n.catalog.IsEligibleDepartment(department),
	}
}

func (n *Normalizer) demandLine(res Resolved) *model.DemandLineRecord {
	skuGender := res.String(FieldSkuGender)
	rec := &model.DemandLineRecord{
		SKU:              res.String(FieldSKU),
		Department:       n.catalog.CanonicalDepartment(res.String(FieldDepartment)),
		BaseLocation:     res.String(FieldBaseLocation),
		SkuGender:        skuGender,
		GenderLabel:      GenderLabel(skuGender),
		FrequencyMonths:  res.Int(FieldFrequencyMonths),
		Quantity:         res.Int(FieldQuantity),
		TotalOccurrences: math.Max(res.Float(FieldTotalOccurrences), 0),
	}

	// 未提供需求总量时按 数量 × 发放次数 推导（次数缺失按 1 次）
	if res.Present(FieldTotalQuantityNeeded) {
		rec.TotalQuantityNeeded = math.Max(res.Float(FieldTotalQuantityNeeded), 0)
	} else {
		rec.TotalQuantityNeeded = float64(rec.Quantity) * math.Max(rec.TotalOccurrences, 1)
	}
	return rec
}

func (n *Normalizer) entitlementLine(res Resolved) *model.EntitlementLineRecord {
	return &model.EntitlementLineRecord{
		SKU:        res.String(FieldSKU),
		Department: n.catalog.CanonicalDepartment(res.String(FieldDepartment)),
		Location:   res.String(FieldLocation),
		Gender:     GenderLabel(res.String(FieldGender)),
		Frequency:  res.Int(FieldFrequencyMonths),
		Quantity:   res.Int(FieldQuantity),
	}
}

// NormalizeAll 规范化记录集合；data 必须为对象数组，否则返回 MalformedRecordError
func (n *Normalizer) NormalizeAll(data any, kind model.RecordKind) ([]model.Record, error) {
	rows, err := Rows(data, kind)
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, 0, len(rows))
	for _, raw := range rows {
		rec, err := n.Normalize(raw, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Rows 将上游 data 转为对象数组；nil 视为空集
func Rows(data any, kind model.RecordKind) ([]model.RawRecord, error) {
	switch x := data.(type) {
	case nil:
		return []model.RawRecord{}, nil
	case []model.RawRecord:
		for i, raw := range x {
			if raw == nil {
				return nil, &model.MalformedRecordError{Index: i, Kind: kind, Reason: "null record"}
			}
		}
		return x, nil
	case []map[string]any:
		rows := make([]model.RawRecord, 0, len(x))
		for i, raw := range x {
			if raw == nil {
				return nil, &model.MalformedRecordError{Index: i, Kind: kind, Reason: "null record"}
			}
			rows = append(rows, model.RawRecord(raw))
		}
		return rows, nil
	case []any:
		rows := make([]model.RawRecord, 0, len(x))
		for i, item := range x {
			obj, ok := asObject(item)
			if !ok {
				return nil, &model.MalformedRecordError{Index: i, Kind: kind, Reason: fmt.Sprintf("expected object, got %T", item)}
			}
			rows = append(rows, obj)
		}
		return rows, nil
	}
	return nil, &model.MalformedRecordError{Index: -1, Kind: kind, Reason: fmt.Sprintf("expected array, got %T", data)}
}

func asObject(v any) (model.RawRecord, bool) {
	switch x := v.(type) {
	case map[string]any:
		return model.RawRecord(x), true
	case model.RawRecord:
		return x, x != nil
	}
	return nil, false
}
