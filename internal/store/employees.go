package store

import (
	"fmt"

	"uniformdash/internal/model"
)

// EmployeeQueryOptions 员工查询选项（空切片表示不限）
type EmployeeQueryOptions struct {
	Departments []string
	Locations   []string
	Statuses    []string // 不区分大小写
	Genders     []string // 不区分大小写
	Months      []string
	Limit       int
	Offset      int
}

func (o EmployeeQueryOptions) where() *where {
	w := &where{}
	w.in("department", o.Departments)
	w.in("location", o.Locations)
	w.inFold("status", o.Statuses)
	w.inFold("gender", o.Genders)
	w.in("issuance_month", o.Months)
	return w
}

// ReplaceEmployees 以新数据整体替换员工表
func (s *Store) ReplaceEmployees(records []*model.EmployeeRecord) error {
	return s.replaceAll("employees", `
		INSERT INTO employees (id, name, department, location, gender, status, issuance_month, is_eligible, row_no)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			department = excluded.department,
			location = excluded.location,
			gender = excluded.gender,
			status = excluded.status,
			issuance_month = excluded.issuance_month,
			is_eligible = excluded.is_eligible
	`, len(records), func(i int) []any {
		r := records[i]
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("ROW%06d", i+1)
		}
		return []any{id, r.Name, r.Department, r.Location, r.Gender, r.Status, r.IssuanceMonth, r.IsEligible, i}
	})
}

// ListEmployees 按条件查询员工（按导入顺序）
func (s *Store) ListEmployees(opts EmployeeQueryOptions) ([]*model.EmployeeRecord, error) {
	w := opts.where()
	query, args := paginate(`
		SELECT id, name, department, location, gender, status, issuance_month, is_eligible
		FROM employees`+w.String()+` ORDER BY row_no, id`, w.args, opts.Limit, opts.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	out := []*model.EmployeeRecord{}
	for rows.Next() {
		r := &model.EmployeeRecord{}
		if err := rows.Scan(&r.ID, &r.Name, &r.Department, &r.Location, &r.Gender, &r.Status, &r.IssuanceMonth, &r.IsEligible); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountEmployees 按条件统计员工数
func (s *Store) CountEmployees(opts EmployeeQueryOptions) (int, error) {
	w := opts.where()
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM employees"+w.String(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return n, nil
}
