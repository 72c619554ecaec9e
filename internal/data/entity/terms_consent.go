package entity

import "github.com/google/uuid"

// TermsConsent is append-only. A row for (user, version) means the user has
// consented to that terms version; duplicates are harmless.
type TermsConsent struct {
	BaseSimple
	UserID  uuid.UUID `db:"user_id"`
	Version string    `db:"version"`
}
