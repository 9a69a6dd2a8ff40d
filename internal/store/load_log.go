package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
)

// InsertLoadLog 写入一条加载记录，返回自增 ID
func (s *Store) InsertLoadLog(entry model.LoadLog) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO load_logs (
			load_id, source_path, sheet, row_count,
			status, error_message, mapping_json,
			duration_ms, loaded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.LoadID, entry.SourcePath, entry.Sheet, entry.Rows,
		string(entry.Status), entry.Error, buildMappingJSON(entry.Mapping),
		entry.Duration.Milliseconds(), entry.LoadedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert load log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get load log id: %w", err)
	}
	return id, nil
}

// RecentLoadLogs 按时间倒序返回最近的加载记录
func (s *Store) RecentLoadLogs(limit int) ([]model.LoadLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, load_id, source_path, sheet, row_count,
		       status, error_message, mapping_json, duration_ms, loaded_at
		FROM load_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query load logs: %w", err)
	}
	defer rows.Close()

	out := make([]model.LoadLog, 0, limit)
	for rows.Next() {
		var (
			entry       model.LoadLog
			status      string
			mappingJSON string
			durationMS  int64
			loadedAt    string
		)
		if err := rows.Scan(
			&entry.ID, &entry.LoadID, &entry.SourcePath, &entry.Sheet, &entry.Rows,
			&status, &entry.Error, &mappingJSON, &durationMS, &loadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan load log: %w", err)
		}
		entry.Status = model.LoadStatus(status)
		entry.Duration = time.Duration(durationMS) * time.Millisecond
		entry.Mapping = parseMappingJSON(mappingJSON)
		if t, err := time.Parse(time.RFC3339Nano, loadedAt); err == nil {
			entry.LoadedAt = t
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// PruneLoadLogs 只保留最近 keep 条记录
func (s *Store) PruneLoadLogs(keep int) error {
	if keep <= 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM load_logs
		WHERE id NOT IN (SELECT id FROM load_logs ORDER BY id DESC LIMIT ?)
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune load logs: %w", err)
	}
	return nil
}

// CountLoadLogs 记录总数
func (s *Store) CountLoadLogs() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM load_logs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count load logs: %w", err)
	}
	return n, nil
}

func buildMappingJSON(mapping model.ColumnMapping) string {
	if mapping == nil {
		return "{}"
	}
	b, err := json.Marshal(mapping)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func parseMappingJSON(s string) model.ColumnMapping {
	mapping := model.ColumnMapping{}
	_ = json.Unmarshal([]byte(s), &mapping)
	return mapping
}
