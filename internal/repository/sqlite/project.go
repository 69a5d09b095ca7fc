package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"assistant/internal/domain"
	"assistant/internal/repository"
)

// ProjectStore implements repository.Store over one SQLite table.
type ProjectStore struct {
	db    *DB
	table string
}

// NewProjectStore creates a store for table.
func NewProjectStore(db *DB, table string) *ProjectStore {
	return &ProjectStore{db: db, table: table}
}

// Insert adds a new row.
func (s *ProjectStore) Insert(ctx context.Context, row repository.Row) error {
	_, err := s.db.executor(ctx).ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, name, meta, items, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.table), row.ID, row.Name, string(row.Meta), string(row.Items), ts(row.CreatedAt), ts(row.UpdatedAt))
	if err != nil {
		if isUniqueErr(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("project '%s' already exists", row.ID),
				ResourceType: s.table,
				ResourceID:   row.ID,
			}
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// Update overwrites name, meta, items and updated_at.
func (s *ProjectStore) Update(ctx context.Context, row repository.Row) error {
	res, err := s.db.executor(ctx).ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET name = ?, meta = ?, items = ?, updated_at = ? WHERE id = ?
	`, s.table), row.Name, string(row.Meta), string(row.Items), ts(row.UpdatedAt), row.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return translateNoRows(res, row.ID)
}

// Delete removes a row.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.executor(ctx).ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.table), id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return translateNoRows(res, id)
}

// Get retrieves a row by ID.
func (s *ProjectStore) Get(ctx context.Context, id string) (repository.Row, error) {
	row := s.db.executor(ctx).QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, name, meta, items, created_at, updated_at FROM %s WHERE id = ?
	`, s.table), id)
	out, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.Row{}, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return out, err
}

// Exists reports whether a row with id is stored.
func (s *ProjectStore) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.executor(ctx).QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(1) FROM %s WHERE id = ?`, s.table), id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check project: %w", err)
	}
	return n > 0, nil
}

// Page returns rows ordered by created_at and the total count.
func (s *ProjectStore) Page(ctx context.Context, offset, limit int) ([]repository.Row, int, error) {
	exec := s.db.executor(ctx)

	var total int
	if err := exec.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(1) FROM %s`, s.table)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	rows, err := exec.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, name, meta, items, created_at, updated_at
		FROM %s
		ORDER BY created_at, id
		LIMIT ? OFFSET ?
	`, s.table), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []repository.Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (repository.Row, error) {
	var (
		row                    repository.Row
		meta, items            string
		createdRaw, updatedRaw string
	)
	if err := s.Scan(&row.ID, &row.Name, &meta, &items, &createdRaw, &updatedRaw); err != nil {
		return repository.Row{}, err
	}
	row.Meta = []byte(meta)
	row.Items = []byte(items)
	row.CreatedAt = parseTS(createdRaw)
	row.UpdatedAt = parseTS(updatedRaw)
	return row, nil
}

func translateNoRows(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// tsLayout is fixed width so text ordering matches time ordering.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

func ts(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTS(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func isUniqueErr(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
