// Package storage issues delegated write credentials for direct-to-storage
// uploads. Clients receive a time-boxed, size-bounded grant and write bytes
// to the object store themselves; file content never passes through this
// service. The MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"errors"
	"time"
)

// Defaults applied when the caller passes a non-positive bound. The ceiling
// is deliberately huge but still an explicit, enforced number: a grant never
// means "no limit".
const (
	DefaultGrantTTL     = 600 * time.Second
	DefaultMaxSizeBytes = int64(50) << 30 // 50 GiB
)

// ErrBackendUnavailable is returned when the storage backend cannot be
// reached or refuses to sign a credential.
var ErrBackendUnavailable = errors.New("storage backend unavailable")

// Grant is a delegated write credential for a single storage key. URL and
// Fields form the presigned POST the client submits verbatim; they are opaque
// to the rest of the system. Grants are never persisted — an unused grant
// simply expires.
type Grant struct {
	Key          string            `json:"key"`
	URL          string            `json:"url"`
	Fields       map[string]string `json:"fields"`
	MaxSizeBytes int64             `json:"maxSizeBytes"`
	ExpiresAt    time.Time         `json:"expiresAt"`
}

// Issuer creates upload grants. Implementations are stateless per call and
// never track whether a grant was used.
type Issuer interface {
	// IssueGrant returns a grant permitting one logical write to key,
	// rejecting payloads over maxSizeBytes, valid for ttl from issuance.
	IssueGrant(ctx context.Context, key string, maxSizeBytes int64, ttl time.Duration) (*Grant, error)
}
