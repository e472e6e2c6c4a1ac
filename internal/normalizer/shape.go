package normalizer

import (
	"sort"
	"strings"

	"uniformdash/internal/model"
)

// Shape 聚合类响应的数据形态
type Shape int

const (
	ShapeUnknown        Shape = iota
	ShapeEmpty                // []
	ShapeScalar               // [{value}]
	ShapeLabeled              // [{label, value}]
	ShapeDepartmentRows       // [{department, total_employees, active_employees, ...}]
	ShapeGenderRows           // [{gender, value|total_active|...}]
	ShapeMonthRows            // [{month, value|count}]
	ShapeMatrixObject         // {sku: {department: 0|1}}
)

var shapeNames = map[Shape]string{
	ShapeUnknown:        "unknown",
	ShapeEmpty:          "empty",
	ShapeScalar:         "scalar",
	ShapeLabeled:        "labeled",
	ShapeDepartmentRows: "department_rows",
	ShapeGenderRows:     "gender_rows",
	ShapeMonthRows:      "month_rows",
	ShapeMatrixObject:   "matrix_object",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unknown"
}

// DetectShape 判定响应形态（纯函数）：以首行的区分键为准，department 优先
func DetectShape(data any) Shape {
	switch x := data.(type) {
	case nil:
		return ShapeEmpty
	case map[string]any:
		if len(x) == 0 {
			return ShapeEmpty
		}
		for _, v := range x {
			if _, ok := v.(map[string]any); !ok {
				return ShapeUnknown
			}
		}
		return ShapeMatrixObject
	}

	rows, err := Rows(data, "")
	if err != nil {
		return ShapeUnknown
	}
	if len(rows) == 0 {
		return ShapeEmpty
	}
	first := rows[0]
	has := func(key string) bool {
		_, ok := first[key]
		return ok
	}
	switch {
	case has("department") || has("function"):
		return ShapeDepartmentRows
	case has("label") && has("value"):
		return ShapeLabeled
	case has("gender") || has("gender_picklist_label"):
		return ShapeGenderRows
	case has("month"):
		return ShapeMonthRows
	case has("value") && len(first) == 1:
		return ShapeScalar
	}
	return ShapeUnknown
}

// Payload 聚合类响应的规范化结果（按 Shape 只填充对应字段）
type Payload struct {
	Shape       Shape
	Scalar      float64
	Named       []model.NamedValue
	Months      []model.MonthCount
	Departments []model.SummaryRow
	Matrix      []model.MatrixRow
}

type shapeDecoder func(n *Normalizer, data any) (Payload, error)

var shapeDecoders = map[Shape]shapeDecoder{
	ShapeEmpty:          decodeEmpty,
	ShapeScalar:         decodeScalar,
	ShapeLabeled:        decodeLabeled,
	ShapeDepartmentRows: decodeDepartmentRows,
	ShapeGenderRows:     decodeGenderRows,
	ShapeMonthRows:      decodeMonthRows,
	ShapeMatrixObject:   decodeMatrixObject,
}

// Decode 判定形态并按形态规范化聚合类响应；未知形态返回 ShapeUnknown 的空结果
func (n *Normalizer) Decode(data any) (Payload, error) {
	shape := DetectShape(data)
	decode, ok := shapeDecoders[shape]
	if !ok {
		return Payload{Shape: shape}, nil
	}
	p, err := decode(n, data)
	p.Shape = shape
	return p, err
}

func decodeEmpty(_ *Normalizer, _ any) (Payload, error) {
	return Payload{}, nil
}

func decodeScalar(_ *Normalizer, data any) (Payload, error) {
	rows, err := Rows(data, "")
	if err != nil {
		return Payload{}, err
	}
	return Payload{Scalar: Resolve(rows[0], SummaryRules).Float(FieldValue)}, nil
}

func decodeLabeled(_ *Normalizer, data any) (Payload, error) {
	rows, err := Rows(data, "")
	if err != nil {
		return Payload{}, err
	}
	named := make([]model.NamedValue, 0, len(rows))
	for _, raw := range rows {
		res := Resolve(raw, SummaryRules)
		named = append(named, model.NamedValue{
			Name:  StatusLabel(res.String(FieldLabel)),
			Value: res.Float(FieldValue),
		})
	}
	return Payload{Named: named}, nil
}

func decodeDepartmentRows(n *Normalizer, data any) (Payload, error) {
	rows, err := Rows(data, "")
	if err != nil {
		return Payload{}, err
	}
	out := make([]model.SummaryRow, 0, len(rows))
	for _, raw := range rows {
		res := Resolve(raw, SummaryRules)
		row := model.SummaryRow{
			Group:             n.catalog.CanonicalDepartment(res.String(FieldDepartment)),
			TotalEmployees:    res.Int(FieldTotal),
			ActiveEmployees:   res.Int(FieldActive),
			InactiveEmployees: res.Int(FieldInactive),
		}
		// 仅返回在职/离职数时补齐总数；仅返回总数与在职数时补齐离职数
		if !res.Present(FieldTotal) {
			row.TotalEmployees = row.ActiveEmployees + row.InactiveEmployees
		}
		if !res.Present(FieldInactive) && row.TotalEmployees >= row.ActiveEmployees {
			row.InactiveEmployees = row.TotalEmployees - row.ActiveEmployees
		}
		out = append(out, row)
	}
	return Payload{Departments: out}, nil
}

func decodeGenderRows(_ *Normalizer, data any) (Payload, error) {
	rows, err := Rows(data, "")
	if err != nil {
		return Payload{}, err
	}
	named := make([]model.NamedValue, 0, len(rows))
	for _, raw := range rows {
		res := Resolve(raw, SummaryRules)
		value := res.Float(FieldValue)
		if !res.Present(FieldValue) {
			value = float64(res.Int(FieldActive) + res.Int(FieldInactive))
		}
		named = append(named, model.NamedValue{
			Name:  GenderLabel(res.String(FieldGender)),
			Value: value,
		})
	}
	return Payload{Named: named}, nil
}

func decodeMonthRows(_ *Normalizer, data any) (Payload, error) {
	rows, err := Rows(data, "")
	if err != nil {
		return Payload{}, err
	}
	months := make([]model.MonthCount, 0, len(rows))
	for _, raw := range rows {
		res := Resolve(raw, SummaryRules)
		months = append(months, model.MonthCount{
			Month: res.String(FieldMonth),
			Count: int(res.Float(FieldValue)),
		})
	}
	return Payload{Months: months}, nil
}

// decodeMatrixObject 透视对象 {sku: {部门: 0|1}} 转稀疏矩阵行；0 值视为无数据
func decodeMatrixObject(n *Normalizer, data any) (Payload, error) {
	obj := data.(map[string]any)
	skus := make([]string, 0, len(obj))
	for sku := range obj {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	rows := make([]model.MatrixRow, 0, len(skus))
	for _, sku := range skus {
		cells := obj[sku].(map[string]any)
		row := model.MatrixRow{SKU: strings.TrimSpace(sku), Cells: map[string]int{}}
		for dept, v := range cells {
			count, ok := asInt(v)
			if !ok || count == 0 {
				continue
			}
			row.Cells[n.catalog.CanonicalDepartment(dept)] += count
		}
		row.Columns = n.catalog.SortDepartments(mapKeys(row.Cells))
		rows = append(rows, row)
	}
	return Payload{Matrix: rows}, nil
}

// Breakdown 状态分布：label/value 形态与按部门形态都归约到同一结构
func (p Payload) Breakdown() model.StatusBreakdown {
	var b model.StatusBreakdown
	switch p.Shape {
	case ShapeLabeled:
		for _, nv := range p.Named {
			switch nv.Name {
			case model.StatusActive:
				b.Active += int(nv.Value)
			case model.StatusInactive:
				b.Inactive += int(nv.Value)
			}
		}
		b.Total = b.Active + b.Inactive
	case ShapeDepartmentRows:
		for _, row := range p.Departments {
			b.Active += row.ActiveEmployees
			b.Inactive += row.InactiveEmployees
			b.Total += row.TotalEmployees
		}
		b.ByDepartment = p.Departments
	case ShapeScalar:
		b.Total = int(p.Scalar)
	}
	return b
}

func mapKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
