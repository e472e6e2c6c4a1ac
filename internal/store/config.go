package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// 配置键
const (
	ConfigSeededAt        = "seeded_at"
	ConfigLastImportBatch = "last_import_batch"
	ConfigSourceMode      = "source_mode"
)

// GetConfig 获取配置项；不存在时 ok=false
func (s *Store) GetConfig(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get config %s: %w", key, err)
	}
	return value, true, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// GetAllConfig 获取所有配置项
func (s *Store) GetAllConfig() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cfg := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		cfg[key] = value
	}
	return cfg, rows.Err()
}

// MarkSeeded 记录种子数据写入时间
func (s *Store) MarkSeeded(at time.Time) error {
	return s.SetConfig(ConfigSeededAt, at.UTC().Format(time.RFC3339))
}
