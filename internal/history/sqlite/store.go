// Package sqlite provides a SQLite-backed calculation history.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"sumtutor/internal/history"
	"sumtutor/internal/history/sqlite/migrations"
)

// ErrAlreadyExists is returned when a calculation ID is saved twice.
var ErrAlreadyExists = errors.New("calculation already exists")

// Store persists calculations in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ history.Store = (*Store)(nil)

// Open opens a SQLite history store and applies embedded migrations.
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
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts one calculation.
func (s *Store) Save(ctx context.Context, calc history.Calculation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(calc.ID) == "" {
		return fmt.Errorf("calculation id is required")
	}

	operands, err := json.Marshal(calc.Operands)
	if err != nil {
		return fmt.Errorf("encode operands: %w", err)
	}
	padded, err := json.Marshal(calc.PaddedDigits)
	if err != nil {
		return fmt.Errorf("encode padded digits: %w", err)
	}
	mask, err := json.Marshal(calc.PaddingMask)
	if err != nil {
		return fmt.Errorf("encode padding mask: %w", err)
	}
	createdAt := calc.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO calculations (
		   id,
		   operands_json,
		   padded_digits_json,
		   decimal_position,
		   padding_mask_json,
		   result,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		calc.ID,
		string(operands),
		string(padded),
		calc.DecimalPosition,
		string(mask),
		calc.Result,
		createdAt.UnixMilli(),
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, calc.ID)
		}
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

// Get loads one calculation by ID.
func (s *Store) Get(ctx context.Context, id string) (history.Calculation, error) {
	if err := ctx.Err(); err != nil {
		return history.Calculation{}, err
	}
	if s == nil || s.sqlDB == nil {
		return history.Calculation{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	calc, err := scanCalculation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return history.Calculation{}, history.ErrNotFound
	}
	return calc, err
}

// List returns calculations newest first.
func (s *Store) List(ctx context.Context, limit int) ([]history.Calculation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = history.DefaultListLimit
	}

	rows, err := s.sqlDB.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	defer rows.Close()

	calcs := make([]history.Calculation, 0, limit)
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}
	return calcs, nil
}

const selectColumns = `SELECT id, operands_json, padded_digits_json, decimal_position, padding_mask_json, result, created_at FROM calculations`

type scanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row scanner) (history.Calculation, error) {
	var (
		calc                 history.Calculation
		operands, padded, mk string
		createdAt            int64
	)
	if err := row.Scan(&calc.ID, &operands, &padded, &calc.DecimalPosition, &mk, &calc.Result, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return history.Calculation{}, err
		}
		return history.Calculation{}, fmt.Errorf("scan calculation: %w", err)
	}
	if err := json.Unmarshal([]byte(operands), &calc.Operands); err != nil {
		return history.Calculation{}, fmt.Errorf("decode operands: %w", err)
	}
	if err := json.Unmarshal([]byte(padded), &calc.PaddedDigits); err != nil {
		return history.Calculation{}, fmt.Errorf("decode padded digits: %w", err)
	}
	if err := json.Unmarshal([]byte(mk), &calc.PaddingMask); err != nil {
		return history.Calculation{}, fmt.Errorf("decode padding mask: %w", err)
	}
	calc.CreatedAt = time.UnixMilli(createdAt).UTC()
	return calc, nil
}

func isConstraintError(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

const migrationTable = "schema_migrations"

// applyMigrations executes each embedded .sql file at most once, in name order.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := sqlDB.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`, migrationTable)); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		var count int
		if err := sqlDB.QueryRow(fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE name = ?", migrationTable), file).Scan(&count); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if count > 0 {
			continue
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := extractUp(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(upSQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(
			fmt.Sprintf("INSERT INTO %s (name, applied_at) VALUES (?, ?)", migrationTable),
			file,
			time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", file, err)
		}
	}
	return nil
}

// extractUp returns the SQL in the "-- +migrate Up" section.
func extractUp(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	upIdx := strings.Index(content, up)
	if upIdx == -1 {
		return content
	}
	rest := content[upIdx+len(up):]
	if downIdx := strings.Index(rest, down); downIdx != -1 {
		return rest[:downIdx]
	}
	return rest
}
