package messaging

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// IdentityMapping binds an arbitrary external identifier (whatever the caller
// authenticates as: a phone handle, an OAuth subject, a legacy account key)
// to the stable internal UUID used everywhere else. Write-once: a mapping is
// created on first use and never mutated or deleted afterwards.
type IdentityMapping struct {
	ExternalID string    `db:"external_id"`
	InternalID uuid.UUID `db:"internal_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// ParseInternalID reports whether raw is already in the internal identifier
// format and, if so, returns its canonical form. This is the compatibility
// path of normalization: canonical ids pass through without a storage write.
func ParseInternalID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// NewIdentityMapping validates the external identifier and pairs it with a
// freshly generated internal id, ready to persist.
func NewIdentityMapping(externalID string) (IdentityMapping, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return IdentityMapping{}, ErrEmptyIdentity
	}
	return IdentityMapping{
		ExternalID: externalID,
		InternalID: uuid.New(),
		CreatedAt:  time.Now().UTC(),
	}, nil
}
