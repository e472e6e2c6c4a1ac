package model

import (
	"slices"
	"sort"
	"strings"
)

// LocationAll 适用所有基地的标记
const LocationAll = "ALL"

// Catalog 静态枚举配置（部门、性别、状态、月份、基地）
type Catalog struct {
	Departments         []string          `json:"departments" yaml:"departments"`
	EligibleDepartments []string          `json:"eligibleDepartments" yaml:"eligible_departments"`
	DepartmentAliases   map[string]string `json:"departmentAliases" yaml:"department_aliases"`
	Genders             []string          `json:"genders" yaml:"genders"`
	Statuses            []string          `json:"statuses" yaml:"statuses"`
	Months              []string          `json:"months" yaml:"months"`
	Locations           []string          `json:"locations" yaml:"locations"`
	LocationCodes       map[string]string `json:"locationCodes" yaml:"location_codes"`
}

// DefaultCatalog 内置枚举
func DefaultCatalog() *Catalog {
	locations := []string{
		"Bengaluru", "Gurgaon", "Delhi", "Mumbai", "Chandigarh", "Chennai",
		"Kolkata", "Hyderabad", "Pune", "Durgapur", "Jabalpur", "Indore",
		"Thiruvananthapuram", "Ahmedabad", "Jaipur", "Kochi", "Bhubaneswar",
		"Srinagar", "Nagpur", "Imphal", "Dehradun", "Lucknow", "Silchar",
		"Agartala", "Patna", "Gorakhpur", "Ranchi", "Deoghar", "Agatti",
		"Raipur", "Bagdogra", "Guwahati", "Vadodara", "Tuticorin", "Jharsuguda",
		"Port Blair", "Singapore", "Visakhapatnam", "Jammu", "Madurai", "Goa",
		"Bhopal", "Varanasi", "Nasik", "Allahabad", "Amritsar", "Kozhikode",
		"Adampur", "Salem", "Tashkent",
	}
	sort.Strings(locations)

	return &Catalog{
		Departments: []string{
			"Airport Operations & Customer Services",
			"Cargo",
			"Engineering",
			"Flight Operations",
			"Flight Safety",
			"Inflight Services",
			"Operation Control Center",
		},
		EligibleDepartments: []string{
			"Airport Operations & Customer Services",
			"Cargo",
			"Engineering",
			"Inflight Services",
		},
		DepartmentAliases: map[string]string{
			"AOCS":        "Airport Operations & Customer Services",
			"INFLIGHTS":   "Inflight Services",
			"INFLIGHT":    "Inflight Services",
			"ENGINEERING": "Engineering",
			"CARGO":       "Cargo",
		},
		Genders:  []string{GenderMale, GenderFemale},
		Statuses: []string{StatusActive, StatusInactive},
		Months: []string{
			"Jan 2024", "Feb 2024", "Mar 2024", "Apr 2024", "May 2024", "Jun 2024",
			"Jul 2024", "Aug 2024", "Sep 2024", "Oct 2024", "Nov 2024", "Dec 2024",
		},
		Locations: locations,
		LocationCodes: map[string]string{
			"BLR": "Bengaluru",
			"DEL": "Delhi",
			"BOM": "Mumbai",
			"MAA": "Chennai",
			"CCU": "Kolkata",
			"HYD": "Hyderabad",
			"PNQ": "Pune",
			"BBI": "Bhubaneswar",
			"IXL": "Leh",
			"DHM": "Dharamshala",
			"SXR": "Srinagar",
			"IXJ": "Jammu",
			"GOI": "Goa",
			"GAU": "Guwahati",
			"AMD": "Ahmedabad",
			"COK": "Kochi",
		},
	}
}

// CanonicalDepartment 部门名称规范化：别名（不区分大小写）映射到标准名称，其余原样保留
func (c *Catalog) CanonicalDepartment(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return UnknownLabel
	}
	if c == nil {
		return name
	}
	if canonical, ok := c.DepartmentAliases[strings.ToUpper(name)]; ok {
		return canonical
	}
	return name
}

// IsKnownDepartment 是否属于静态部门列表
func (c *Catalog) IsKnownDepartment(name string) bool {
	return c != nil && slices.Contains(c.Departments, name)
}

// IsEligibleDepartment 部门是否可领用制服
func (c *Catalog) IsEligibleDepartment(name string) bool {
	return c != nil && slices.Contains(c.EligibleDepartments, name)
}

// LocationName 基地代码转城市名；ALL 与未知代码原样返回
func (c *Catalog) LocationName(code string) string {
	if c == nil {
		return code
	}
	if name, ok := c.LocationCodes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// Domain 返回维度的静态取值域；数据驱动的维度返回 nil
func (c *Catalog) Domain(d Dimension) []string {
	if c == nil {
		return nil
	}
	switch d {
	case DimDepartment:
		return c.Departments
	case DimLocation:
		return c.Locations
	case DimGender:
		return c.Genders
	case DimStatus:
		return c.Statuses
	case DimMonth:
		return c.Months
	}
	return nil
}

// SortDepartments 部门排序：静态部门按枚举顺序在前，其余按字母序
func (c *Catalog) SortDepartments(names []string) []string {
	index := make(map[string]int)
	if c != nil {
		for i, dept := range c.Departments {
			index[dept] = i
		}
	}
	out := slices.Clone(names)
	sort.SliceStable(out, func(i, j int) bool {
		ii, iok := index[out[i]]
		jj, jok := index[out[j]]
		switch {
		case iok && jok:
			return ii < jj
		case iok != jok:
			return iok
		}
		return out[i] < out[j]
	})
	return out
}
