package team

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const inviteCodeLength = 10

// inviteAlphabet avoids ambiguous characters (0/O, 1/I/L).
const inviteAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// GetByID retrieves a single team by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `
		SELECT id, name, invite_code, created_at
		FROM teams
		WHERE id = $1`

	var t Team
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.InviteCode, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &t, nil
}

// Create inserts a new team with a generated invite code and makes the
// caller its first member.
func (r *PostgresRepository) Create(ctx context.Context, name string, userID uuid.UUID) (*Team, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockMembership(ctx, tx, userID); err != nil {
		return nil, err
	}

	t, err := insertTeam(ctx, tx, name)
	if err != nil {
		return nil, err
	}

	if err := setMembership(ctx, tx, userID, t.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing team creation: %w", err)
	}

	return t, nil
}

// insertTeam inserts the team row, regenerating the invite code on a unique
// violation. Collisions are vanishingly rare at this code length but cheap
// to retry.
func insertTeam(ctx context.Context, tx pgx.Tx, name string) (*Team, error) {
	for attempt := 0; attempt < 3; attempt++ {
		code, err := generateInviteCode()
		if err != nil {
			return nil, err
		}

		// Savepoint per attempt; a unique violation aborts the enclosing
		// transaction otherwise.
		inner, err := tx.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("starting savepoint: %w", err)
		}

		var t Team
		err = inner.QueryRow(ctx, `
			INSERT INTO teams (name, invite_code)
			VALUES ($1, $2)
			RETURNING id, name, invite_code, created_at`,
			name, code,
		).Scan(&t.ID, &t.Name, &t.InviteCode, &t.CreatedAt)
		if err == nil {
			if err := inner.Commit(ctx); err != nil {
				return nil, fmt.Errorf("releasing savepoint: %w", err)
			}
			return &t, nil
		}

		_ = inner.Rollback(ctx)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, fmt.Errorf("inserting team: %w", err)
	}

	return nil, errors.New("inserting team: invite code collisions exhausted retries")
}

// Join looks up a team by invite code and makes the caller a member.
func (r *PostgresRepository) Join(ctx context.Context, inviteCode string, userID uuid.UUID) (*Team, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockMembership(ctx, tx, userID); err != nil {
		return nil, err
	}

	var t Team
	err = tx.QueryRow(ctx, `
		SELECT id, name, invite_code, created_at
		FROM teams
		WHERE invite_code = $1`,
		inviteCode,
	).Scan(&t.ID, &t.Name, &t.InviteCode, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("querying team by invite code: %w", err)
	}

	if err := setMembership(ctx, tx, userID, t.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing team join: %w", err)
	}

	return &t, nil
}

// lockMembership row-locks the caller's profile and rejects callers that
// already belong to a team.
func lockMembership(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	var teamID *uuid.UUID
	err := tx.QueryRow(ctx, `
		SELECT team_id FROM profiles WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("locking profile: profile %s not found", userID)
		}
		return fmt.Errorf("locking profile: %w", err)
	}

	if teamID != nil {
		return ErrAlreadyInTeam
	}

	return nil
}

func setMembership(ctx context.Context, tx pgx.Tx, userID, teamID uuid.UUID) error {
	result, err := tx.Exec(ctx, `
		UPDATE profiles SET team_id = $1 WHERE id = $2`,
		teamID, userID,
	)
	if err != nil {
		return fmt.Errorf("setting team membership: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("setting team membership: profile %s not found", userID)
	}
	return nil
}

var generateInviteCode = func() (string, error) {
	b := make([]byte, inviteCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating invite code: %w", err)
	}
	for i := range b {
		b[i] = inviteAlphabet[int(b[i])%len(inviteAlphabet)]
	}
	return string(b), nil
}
