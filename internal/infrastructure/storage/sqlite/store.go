package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"xray-bot/internal/domain/entity"
	"xray-bot/internal/domain/port"
	"xray-bot/internal/infrastructure/storage/sqlite/migrations"
)

// Store история анализов в SQLite
type Store struct {
	sqlDB *sql.DB
}

// Open открывает базу и применяет миграции.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close закрывает соединение.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record сохраняет результат анализа.
func (s *Store) Record(ctx context.Context, diagnosis *entity.Diagnosis) error {
	if diagnosis == nil || diagnosis.ID == "" {
		return fmt.Errorf("diagnosis id is required")
	}
	createdAt := diagnosis.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var probabilities sql.NullString
	if diagnosis.Covid != nil {
		raw, err := json.Marshal(diagnosis.Covid.Probabilities)
		if err != nil {
			return fmt.Errorf("encode probabilities: %w", err)
		}
		probabilities = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO diagnoses (
	id,
	user_id,
	chat_id,
	validity_score,
	covid_probabilities,
	created_at
) VALUES (?, ?, ?, ?, ?, ?)
`,
		diagnosis.ID,
		diagnosis.UserID,
		diagnosis.ChatID,
		diagnosis.Validity.Score,
		probabilities,
		createdAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record diagnosis: %w", err)
	}
	return nil
}

// ListByUser возвращает последние анализы пользователя, новые первыми.
func (s *Store) ListByUser(ctx context.Context, userID int64, limit int) ([]*entity.Diagnosis, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	id,
	user_id,
	chat_id,
	validity_score,
	covid_probabilities,
	created_at
FROM diagnoses
WHERE user_id = ?
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Diagnosis, 0, limit)
	for rows.Next() {
		var (
			d             entity.Diagnosis
			probabilities sql.NullString
			createdAt     int64
		)
		if err := rows.Scan(&d.ID, &d.UserID, &d.ChatID, &d.Validity.Score, &probabilities, &createdAt); err != nil {
			return nil, fmt.Errorf("scan diagnosis: %w", err)
		}
		if probabilities.Valid {
			var covid entity.CovidResult
			if err := json.Unmarshal([]byte(probabilities.String), &covid.Probabilities); err != nil {
				return nil, fmt.Errorf("decode probabilities for %s: %w", d.ID, err)
			}
			d.Covid = &covid
		}
		d.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnoses: %w", err)
	}
	return out, nil
}

// Проверка реализации интерфейса
var _ port.DiagnosisRepository = (*Store)(nil)
