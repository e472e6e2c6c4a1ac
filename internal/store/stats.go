package store

import "fmt"

// Stats 各表记录数
type Stats struct {
	Employees        int `json:"employees"`
	EntitlementLines int `json:"entitlementLines"`
	DemandLines      int `json:"demandLines"`
	ImportLogs       int `json:"importLogs"`
}

// Empty 是否没有任何业务数据
func (st Stats) Empty() bool {
	return st.Employees == 0 && st.EntitlementLines == 0 && st.DemandLines == 0
}

// Stats 统计各表记录数
func (s *Store) Stats() (Stats, error) {
	var st Stats
	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM employees),
			(SELECT COUNT(*) FROM entitlement_lines),
			(SELECT COUNT(*) FROM demand_lines),
			(SELECT COUNT(*) FROM import_logs)
	`).Scan(&st.Employees, &st.EntitlementLines, &st.DemandLines, &st.ImportLogs)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	return st, nil
}
