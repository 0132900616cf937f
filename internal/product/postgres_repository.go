package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, team_id, title, description, image_path, status,
		       created_by, created_at, updated_at, deleted_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new product record. Status always starts at draft.
func (r *PostgresRepository) Create(ctx context.Context, p *Product) error {
	p.Status = StatusDraft

	query := fmt.Sprintf(`
		INSERT INTO products (team_id, title, description, image_path, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, productColumns)

	err := r.pool.QueryRow(ctx, query,
		p.TeamID, p.Title, p.Description, p.ImagePath, p.Status, p.CreatedBy,
	).Scan(
		&p.ID, &p.TeamID, &p.Title, &p.Description, &p.ImagePath, &p.Status,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}

	return nil
}

// GetByID retrieves a single product by id within the given team.
func (r *PostgresRepository) GetByID(ctx context.Context, id, teamID uuid.UUID) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE id = $1 AND team_id = $2`, productColumns)

	return r.scanOne(ctx, query, id, teamID)
}

// List retrieves a paginated, filtered page of the team's products ordered by
// most recently updated, together with the exact total for the filter.
func (r *PostgresRepository) List(ctx context.Context, teamID uuid.UUID, filter ListFilter) (*ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}
	if filter.PageSize > 50 {
		filter.PageSize = 50
	}

	conditions := []string{"p.team_id = $1"}
	args := []any{teamID}
	argIdx := 2

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.CreatedBy != nil {
		conditions = append(conditions, fmt.Sprintf("p.created_by = $%d", argIdx))
		args = append(args, *filter.CreatedBy)
		argIdx++
	}
	if filter.UpdatedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("p.updated_at >= $%d", argIdx))
		args = append(args, *filter.UpdatedFrom)
		argIdx++
	}
	if filter.UpdatedTo != nil {
		conditions = append(conditions, fmt.Sprintf("p.updated_at <= $%d", argIdx))
		args = append(args, *filter.UpdatedTo)
		argIdx++
	}
	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("p.fts @@ websearch_to_tsquery('english', $%d)", argIdx))
		args = append(args, filter.Query)
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products p %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize

	dataQuery := fmt.Sprintf(`
		SELECT p.id, p.team_id, p.title, p.description, p.image_path, p.status,
		       p.created_by, p.created_at, p.updated_at, p.deleted_at,
		       c.full_name, c.email
		FROM products p
		LEFT JOIN profiles c ON c.id = p.created_by
		%s
		ORDER BY p.updated_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)

	args = append(args, filter.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		err := rows.Scan(
			&p.ID, &p.TeamID, &p.Title, &p.Description, &p.ImagePath, &p.Status,
			&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
			&p.CreatorName, &p.CreatorEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	if products == nil {
		products = []Product{}
	}

	return &ListResult{
		Products: products,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Update modifies user-updatable fields on a non-deleted product.
func (r *PostgresRepository) Update(ctx context.Context, id, teamID uuid.UUID, fields UpdateFields) (*Product, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if fields.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *fields.Title)
		argIdx++
	}
	if fields.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *fields.Description)
		argIdx++
	}
	if fields.ImagePath != nil {
		setClauses = append(setClauses, fmt.Sprintf("image_path = $%d", argIdx))
		args = append(args, *fields.ImagePath)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id, teamID)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id, teamID)

	query := fmt.Sprintf(`
		UPDATE products
		SET %s
		WHERE id = $%d AND team_id = $%d AND status <> 'deleted'
		RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, argIdx+1, productColumns)

	return r.scanOne(ctx, query, args...)
}

// Activate transitions a draft product to active. The draft requirement is
// part of the UPDATE predicate, so a lost race surfaces as ErrNotDraft.
func (r *PostgresRepository) Activate(ctx context.Context, id, teamID uuid.UUID) (*Product, error) {
	query := fmt.Sprintf(`
		UPDATE products
		SET status = 'active', updated_at = NOW()
		WHERE id = $1 AND team_id = $2 AND status = 'draft'
		RETURNING %s`, productColumns)

	p, err := r.scanOne(ctx, query, id, teamID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotDraft
		}
		return nil, err
	}

	return p, nil
}

// SoftDelete marks any non-deleted product as deleted. Deleted is terminal;
// a repeat delete no longer matches and reports ErrNotFound.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id, teamID uuid.UUID) (*Product, error) {
	query := fmt.Sprintf(`
		UPDATE products
		SET status = 'deleted', deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND team_id = $2 AND status <> 'deleted'
		RETURNING %s`, productColumns)

	return r.scanOne(ctx, query, id, teamID)
}

// scanOne scans a single Product row from a query. Returns ErrNotFound if no rows.
func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.TeamID, &p.Title, &p.Description, &p.ImagePath, &p.Status,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning product row: %w", err)
	}
	return &p, nil
}
