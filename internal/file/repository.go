// Package file tracks uploaded file metadata and coordinates the upload
// lifecycle: register an intent, hand the client a delegated write grant,
// then reconcile the confirmation that may arrive late or never.
package file

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is the metadata entry for one logical file. Size holds the declared
// size until a confirmation overwrites it; it is never checked against the
// real object in storage.
type Record struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	ContentType *string   `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repository handles all file metadata database operations. Every method
// issues exactly one SQL statement; consistency relies on per-statement
// atomicity, not transactions.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert registers a new file row and returns the completed record.
func (r *Repository) Insert(ctx context.Context, userID, key, name string, contentType *string, size int64) (*Record, error) {
	rec := &Record{
		UserID:      userID,
		Name:        name,
		Key:         key,
		ContentType: contentType,
		Size:        size,
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO files (user_id, key, name, content_type, size)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		userID, key, name, contentType, size,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}
	return rec, nil
}

// UpdateSize overwrites the stored size (last write wins) and reports
// whether a row matched.
func (r *Repository) UpdateSize(ctx context.Context, id, size int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE files SET size = $1 WHERE id = $2`,
		size, id,
	)
	if err != nil {
		return false, fmt.Errorf("update file size: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns up to limit records, newest creation time first.
func (r *Repository) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, key, size, created_at
		 FROM files
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Key, &rec.Size, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file rows: %w", err)
	}
	return records, nil
}

// Delete removes the metadata row for id. Deleting an absent id is not an
// error; the underlying storage object is never touched.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
