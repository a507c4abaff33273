// Package user manages user accounts and their persistence. Users are
// provisioned lazily on first reference and never deleted by this service;
// identity is caller-supplied and taken at face value.
package user

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Anonymous is the sentinel identity used when a caller supplies no user id.
const Anonymous = "anonymous"

// Plan values. New users start on the free plan.
const (
	PlanFree = "free"
	PlanPaid = "paid"
)

// Repository handles all user database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Ensure creates the user row if it does not exist yet. Re-ensuring an
// existing id is a no-op; the stored plan is never overwritten.
func (r *Repository) Ensure(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, plan) VALUES ($1, $2)
		 ON CONFLICT (id) DO NOTHING`,
		id, PlanFree,
	)
	if err != nil {
		return fmt.Errorf("ensure user %q: %w", id, err)
	}
	return nil
}
