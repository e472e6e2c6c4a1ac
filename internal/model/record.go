package model

import "strconv"

// RecordKind 记录类型
type RecordKind string

const (
	KindEmployee        RecordKind = "employee"
	KindDemandLine      RecordKind = "demand_line"
	KindEntitlementLine RecordKind = "entitlement_line"
)

// Dimension 可筛选/可分组的维度
type Dimension string

const (
	DimDepartment Dimension = "department"
	DimLocation   Dimension = "location"
	DimGender     Dimension = "gender"
	DimStatus     Dimension = "status"
	DimMonth      Dimension = "month"
	DimSKU        Dimension = "sku"
	DimFrequency  Dimension = "frequency"
)

// AllDimensions 维度的规范顺序（问句子句顺序、选择键顺序均以此为准）
var AllDimensions = []Dimension{
	DimDepartment,
	DimLocation,
	DimStatus,
	DimGender,
	DimMonth,
	DimSKU,
	DimFrequency,
}

// UnknownLabel 缺失标签的占位值
const UnknownLabel = "Unknown"

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderBoth   = "Both"
)

// RawRecord 上游返回的松散记录
type RawRecord map[string]any

// Record 统一口径记录
type Record interface {
	Kind() RecordKind
	// Dimension 返回该维度的取值；记录不携带该维度时 ok=false
	Dimension(d Dimension) (value string, ok bool)
}

// EmployeeRecord 员工记录
type EmployeeRecord struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Department    string `json:"department"`
	Location      string `json:"location"`
	Gender        string `json:"gender"`
	Status        string `json:"status"`
	IssuanceMonth string `json:"issuanceMonth"`
	IsEligible    bool   `json:"isEligible"`

	// DepartmentEligible 由部门是否在可领用部门集合中推导，始终覆盖上游字段
	DepartmentEligible bool `json:"departmentEligible"`
}

// Kind 实现 Record
func (r *EmployeeRecord) Kind() RecordKind { return KindEmployee }

// Dimension 实现 Record
func (r *EmployeeRecord) Dimension(d Dimension) (string, bool) {
	switch d {
	case DimDepartment:
		return r.Department, true
	case DimLocation:
		return r.Location, true
	case DimGender:
		return r.Gender, true
	case DimStatus:
		return r.Status, true
	case DimMonth:
		return r.IssuanceMonth, true
	}
	return "", false
}

// IsActive 是否在职
func (r *EmployeeRecord) IsActive() bool {
	return r.Status == StatusActive
}

// DemandLineRecord 需求行（SKU × 部门 × 基地）
type DemandLineRecord struct {
	SKU                 string  `json:"sku"`
	Department          string  `json:"department"`
	BaseLocation        string  `json:"baseLocation"`
	SkuGender           string  `json:"skuGender"`
	GenderLabel         string  `json:"genderLabel"`
	FrequencyMonths     int     `json:"frequencyMonths"`
	Quantity            int     `json:"quantity"`
	TotalQuantityNeeded float64 `json:"totalQuantityNeeded"`
	TotalOccurrences    float64 `json:"totalOccurrences"`
}

// Kind 实现 Record
func (r *DemandLineRecord) Kind() RecordKind { return KindDemandLine }

// Dimension 实现 Record
func (r *DemandLineRecord) Dimension(d Dimension) (string, bool) {
	switch d {
	case DimDepartment:
		return r.Department, true
	case DimLocation:
		return r.BaseLocation, true
	case DimGender:
		return r.GenderLabel, true
	case DimSKU:
		return r.SKU, true
	case DimFrequency:
		return strconv.Itoa(r.FrequencyMonths), true
	}
	return "", false
}

// EntitlementLineRecord 领用标准行
type EntitlementLineRecord struct {
	SKU        string `json:"sku"`
	Department string `json:"department"`
	Location   string `json:"location"`
	Gender     string `json:"gender"`
	Frequency  int    `json:"frequency"`
	Quantity   int    `json:"quantity"`
}

// Kind 实现 Record
func (r *EntitlementLineRecord) Kind() RecordKind { return KindEntitlementLine }

// Dimension 实现 Record
func (r *EntitlementLineRecord) Dimension(d Dimension) (string, bool) {
	switch d {
	case DimDepartment:
		return r.Department, true
	case DimLocation:
		return r.Location, true
	case DimGender:
		return r.Gender, true
	case DimSKU:
		return r.SKU, true
	case DimFrequency:
		return strconv.Itoa(r.Frequency), true
	}
	return "", false
}
