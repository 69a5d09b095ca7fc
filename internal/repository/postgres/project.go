package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"assistant/internal/domain"
	"assistant/internal/repository"
)

// ProjectStore implements repository.Store over one JSONB project table.
type ProjectStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewProjectStore creates a store for table
func NewProjectStore(pool *pgxpool.Pool, table string) *ProjectStore {
	return &ProjectStore{pool: pool, table: table}
}

// Insert adds a new row
func (s *ProjectStore) Insert(ctx context.Context, row repository.Row) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, meta, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.table)

	_, err := GetExecutor(ctx, s.pool).Exec(ctx, query,
		row.ID,
		row.Name,
		string(row.Meta),
		string(row.Items),
		row.CreatedAt,
		row.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
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

// Update overwrites name, meta, items and updated_at
func (s *ProjectStore) Update(ctx context.Context, row repository.Row) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, meta = $3, items = $4, updated_at = $5
		WHERE id = $1
	`, s.table)

	tag, err := GetExecutor(ctx, s.pool).Exec(ctx, query,
		row.ID,
		row.Name,
		string(row.Meta),
		string(row.Items),
		row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", row.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a row
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table)

	tag, err := GetExecutor(ctx, s.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Get retrieves a row by ID
func (s *ProjectStore) Get(ctx context.Context, id string) (repository.Row, error) {
	query := fmt.Sprintf(`
		SELECT id, name, meta, items, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, s.table)

	var row repository.Row
	err := GetExecutor(ctx, s.pool).QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.Name,
		&row.Meta,
		&row.Items,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return repository.Row{}, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return repository.Row{}, fmt.Errorf("get project: %w", err)
	}
	return row, nil
}

// Exists reports whether a row with id is stored
func (s *ProjectStore) Exists(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, s.table)

	var exists bool
	if err := GetExecutor(ctx, s.pool).QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check project: %w", err)
	}
	return exists, nil
}

// Page returns rows ordered by created_at and the total count
func (s *ProjectStore) Page(ctx context.Context, offset, limit int) ([]repository.Row, int, error) {
	exec := GetExecutor(ctx, s.pool)

	var total int
	if err := exec.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, meta, items, created_at, updated_at
		FROM %s
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`, s.table)

	rows, err := exec.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []repository.Row
	for rows.Next() {
		var row repository.Row
		if err := rows.Scan(&row.ID, &row.Name, &row.Meta, &row.Items, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate projects: %w", err)
	}

	return out, total, nil
}
