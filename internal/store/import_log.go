package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ImportLog 导入日志
type ImportLog struct {
	ID               int64      `json:"id"`
	BatchID          string     `json:"batchId"`
	Filename         string     `json:"filename"`
	TotalSheets      int        `json:"totalSheets"`
	ImportedSheets   int        `json:"importedSheets"`
	Employees        int        `json:"employees"`
	EntitlementLines int        `json:"entitlementLines"`
	DemandLines      int        `json:"demandLines"`
	Status           string     `json:"status"`
	ErrorMessage     string     `json:"errorMessage,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// CreateImportLog 创建导入日志，返回 id
func (s *Store) CreateImportLog(batchID, filename string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (batch_id, filename, status) VALUES (?, ?, 'processing')
	`, batchID, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// CompleteImportLog 完成导入日志
func (s *Store) CompleteImportLog(id int64, l ImportLog) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			total_sheets = ?,
			imported_sheets = ?,
			employees = ?,
			entitlement_lines = ?,
			demand_lines = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, l.TotalSheets, l.ImportedSheets, l.Employees, l.EntitlementLines, l.DemandLines, l.Status, l.ErrorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs 最近的导入日志（新的在前）
func (s *Store) ListImportLogs(limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, batch_id, filename, total_sheets, imported_sheets, employees, entitlement_lines,
			demand_lines, status, error_message, created_at, completed_at
		FROM import_logs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}
	defer rows.Close()

	out := []ImportLog{}
	for rows.Next() {
		var l ImportLog
		var completed sql.NullTime
		if err := rows.Scan(&l.ID, &l.BatchID, &l.Filename, &l.TotalSheets, &l.ImportedSheets, &l.Employees,
			&l.EntitlementLines, &l.DemandLines, &l.Status, &l.ErrorMessage, &l.CreatedAt, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			l.CompletedAt = &t
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
