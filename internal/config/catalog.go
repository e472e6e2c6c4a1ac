package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"uniformdash/internal/model"
)

// catalogFile catalog.yaml 结构；未出现的列表保留内置值
type catalogFile struct {
	Departments         []string          `yaml:"departments"`
	EligibleDepartments []string          `yaml:"eligible_departments"`
	DepartmentAliases   map[string]string `yaml:"department_aliases"`
	Genders             []string          `yaml:"genders"`
	Statuses            []string          `yaml:"statuses"`
	Months              []string          `yaml:"months"`
	Locations           []string          `yaml:"locations"`
	LocationCodes       map[string]string `yaml:"location_codes"`
}

// LoadCatalog 加载枚举文件；path 为空或文件不存在时返回内置枚举
func LoadCatalog(path string) (*model.Catalog, error) {
	catalog := model.DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return catalog, nil
	}
	if err != nil {
		return nil, err
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	if f.Departments != nil {
		catalog.Departments = f.Departments
	}
	if f.EligibleDepartments != nil {
		catalog.EligibleDepartments = f.EligibleDepartments
	}
	if f.DepartmentAliases != nil {
		catalog.DepartmentAliases = upperKeys(f.DepartmentAliases)
	}
	if f.Genders != nil {
		catalog.Genders = f.Genders
	}
	if f.Statuses != nil {
		catalog.Statuses = f.Statuses
	}
	if f.Months != nil {
		catalog.Months = f.Months
	}
	if f.Locations != nil {
		catalog.Locations = f.Locations
	}
	if f.LocationCodes != nil {
		catalog.LocationCodes = upperKeys(f.LocationCodes)
	}

	for _, dept := range catalog.EligibleDepartments {
		if !catalog.IsKnownDepartment(dept) {
			return nil, fmt.Errorf("catalog %s: eligible department %q is not listed in departments", path, dept)
		}
	}
	return catalog, nil
}

// 别名与基地代码按大写匹配
func upperKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return out
}
