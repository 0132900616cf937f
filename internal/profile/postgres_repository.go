package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// GetByID retrieves a single profile by the identity's UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `
		SELECT id, full_name, email, team_id, created_at
		FROM profiles
		WHERE id = $1`

	var p Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.FullName, &p.Email, &p.TeamID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("querying profile: %w", err)
	}

	return &p, nil
}

// Ensure inserts the profile row for a freshly-seen identity. Existing rows
// are left untouched, including a full_name or email the user edited later.
func (r *PostgresRepository) Ensure(ctx context.Context, id uuid.UUID, fullName, email string) (*Profile, error) {
	query := `
		INSERT INTO profiles (id, full_name, email)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		ON CONFLICT (id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, id, fullName, email); err != nil {
		return nil, fmt.Errorf("ensuring profile: %w", err)
	}

	return r.GetByID(ctx, id)
}

// ListByTeam retrieves all profiles belonging to a team, ordered by name.
func (r *PostgresRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]Profile, error) {
	query := `
		SELECT id, full_name, email, team_id, created_at
		FROM profiles
		WHERE team_id = $1
		ORDER BY full_name ASC NULLS LAST`

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing team profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.TeamID, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profile rows: %w", err)
	}

	if profiles == nil {
		profiles = []Profile{}
	}

	return profiles, nil
}
