package store

import (
	"fmt"

	"uniformdash/internal/model"
)

// LineQueryOptions 领用标准 / 需求行查询选项（空切片表示不限）
type LineQueryOptions struct {
	Departments []string
	Locations   []string
	Genders     []string // 不区分大小写
	SKUs        []string
	Frequencies []int
}

// ReplaceEntitlements 以新数据整体替换领用标准
func (s *Store) ReplaceEntitlements(lines []*model.EntitlementLineRecord) error {
	return s.replaceAll("entitlement_lines", `
		INSERT INTO entitlement_lines (sku, department, location, gender, frequency, quantity)
		VALUES (?, ?, ?, ?, ?, ?)
	`, len(lines), func(i int) []any {
		l := lines[i]
		return []any{l.SKU, l.Department, l.Location, l.Gender, l.Frequency, l.Quantity}
	})
}

// ListEntitlements 按条件查询领用标准（按导入顺序）
func (s *Store) ListEntitlements(opts LineQueryOptions) ([]*model.EntitlementLineRecord, error) {
	w := &where{}
	w.in("department", opts.Departments)
	w.in("location", opts.Locations)
	w.inFold("gender", opts.Genders)
	w.in("sku", opts.SKUs)
	w.inInt("frequency", opts.Frequencies)

	rows, err := s.db.Query(`
		SELECT sku, department, location, gender, frequency, quantity
		FROM entitlement_lines`+w.String()+` ORDER BY id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entitlement lines: %w", err)
	}
	defer rows.Close()

	out := []*model.EntitlementLineRecord{}
	for rows.Next() {
		l := &model.EntitlementLineRecord{}
		if err := rows.Scan(&l.SKU, &l.Department, &l.Location, &l.Gender, &l.Frequency, &l.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan entitlement line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ReplaceDemandLines 以新数据整体替换需求行
func (s *Store) ReplaceDemandLines(lines []*model.DemandLineRecord) error {
	return s.replaceAll("demand_lines", `
		INSERT INTO demand_lines (sku, department, base_location, sku_gender, frequency_months, quantity, total_quantity_needed, total_occurrences)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, len(lines), func(i int) []any {
		l := lines[i]
		return []any{l.SKU, l.Department, l.BaseLocation, l.SkuGender, l.FrequencyMonths, l.Quantity, l.TotalQuantityNeeded, l.TotalOccurrences}
	})
}

// ListDemandLines 按条件查询需求行；性别按原始标记匹配
func (s *Store) ListDemandLines(opts LineQueryOptions) ([]*model.DemandLineRecord, error) {
	w := &where{}
	w.in("department", opts.Departments)
	w.in("base_location", opts.Locations)
	w.inFold("sku_gender", opts.Genders)
	w.in("sku", opts.SKUs)
	w.inInt("frequency_months", opts.Frequencies)

	rows, err := s.db.Query(`
		SELECT sku, department, base_location, sku_gender, frequency_months, quantity, total_quantity_needed, total_occurrences
		FROM demand_lines`+w.String()+` ORDER BY id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query demand lines: %w", err)
	}
	defer rows.Close()

	out := []*model.DemandLineRecord{}
	for rows.Next() {
		l := &model.DemandLineRecord{}
		if err := rows.Scan(&l.SKU, &l.Department, &l.BaseLocation, &l.SkuGender, &l.FrequencyMonths, &l.Quantity, &l.TotalQuantityNeeded, &l.TotalOccurrences); err != nil {
			return nil, fmt.Errorf("failed to scan demand line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
