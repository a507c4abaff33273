package file

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/megamax/service/internal/storage"
	"github.com/megamax/service/internal/user"
)

// listLimit caps every listing; callers needing more must run a
// higher-level scan.
const listLimit = 200

// ErrFilenameRequired is returned when an upload is requested without a filename.
var ErrFilenameRequired = errors.New("filename required")

// ErrNotFound is returned when a referenced file id does not exist.
var ErrNotFound = errors.New("file not found")

// MetadataRepository is the persistence surface the coordinator needs.
type MetadataRepository interface {
	Insert(ctx context.Context, userID, key, name string, contentType *string, size int64) (*Record, error)
	UpdateSize(ctx context.Context, id, size int64) (bool, error)
	List(ctx context.Context, limit int) ([]Record, error)
	Delete(ctx context.Context, id int64) error
}

// UserProvisioner lazily creates owner rows on first reference.
type UserProvisioner interface {
	Ensure(ctx context.Context, id string) error
}

// UploadIntent is the result of a successful registration: the assigned
// metadata id, the storage key, and the grant the client uploads with.
type UploadIntent struct {
	FileID int64
	Key    string
	Grant  *storage.Grant
}

// Service orchestrates the upload lifecycle over the metadata repository and
// the credential issuer.
type Service struct {
	repo     MetadataRepository
	users    UserProvisioner
	issuer   storage.Issuer
	grantTTL time.Duration
	maxBytes int64
}

// NewService creates a new Service. Non-positive grantTTL or maxBytes fall
// back to the issuer defaults.
func NewService(repo MetadataRepository, users UserProvisioner, issuer storage.Issuer, grantTTL time.Duration, maxBytes int64) *Service {
	if grantTTL <= 0 {
		grantTTL = storage.DefaultGrantTTL
	}
	if maxBytes <= 0 {
		maxBytes = storage.DefaultMaxSizeBytes
	}
	return &Service{repo: repo, users: users, issuer: issuer, grantTTL: grantTTL, maxBytes: maxBytes}
}

// BeginUpload registers an upload intent: it derives a fresh storage key,
// obtains a write grant for it, and records a provisional metadata row with
// the declared size. The grant must be issued before the row is inserted, so
// an insert failure can never leave a client holding a grant for an untracked
// key. The row stays registered even if the client never uploads or confirms.
func (s *Service) BeginUpload(ctx context.Context, ownerID, filename string, contentType *string, declaredSize int64) (*UploadIntent, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrFilenameRequired
	}
	if ownerID == "" {
		ownerID = user.Anonymous
	}
	if declaredSize < 0 {
		declaredSize = 0
	}

	key := deriveStorageKey(ownerID, filename)

	grant, err := s.issuer.IssueGrant(ctx, key, s.maxBytes, s.grantTTL)
	if err != nil {
		return nil, fmt.Errorf("issue grant: %w", err)
	}

	if err := s.users.Ensure(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("ensure owner: %w", err)
	}

	rec, err := s.repo.Insert(ctx, ownerID, key, filename, contentType, declaredSize)
	if err != nil {
		// The orphaned grant needs no compensation: it self-expires.
		return nil, fmt.Errorf("register upload: %w", err)
	}

	return &UploadIntent{FileID: rec.ID, Key: key, Grant: grant}, nil
}

// ConfirmUpload reconciles a completion report into the metadata row,
// overwriting the stored size with whatever the caller states. Last write
// wins; repeated confirmations are harmless. The size is not verified
// against the real object.
func (s *Service) ConfirmUpload(ctx context.Context, fileID, actualSize int64) error {
	if actualSize < 0 {
		actualSize = 0
	}
	matched, err := s.repo.UpdateSize(ctx, fileID, actualSize)
	if err != nil {
		return fmt.Errorf("confirm upload %d: %w", fileID, err)
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// List returns the newest records, capped at 200.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx, listLimit)
}

// Delete tombstones the metadata row for id. Best effort: an absent id is
// treated as already deleted, and the storage object is left behind.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// deriveStorageKey builds a practically unique key without a coordination
// round-trip: owner scoping, a millisecond timestamp, and a random
// disambiguator. Keys are never reused, even after deletion.
func deriveStorageKey(ownerID, filename string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("uploads/%s/%d_%s_%s", ownerID, time.Now().UnixMilli(), suffix, filename)
}
