package entity

// ChangeKind selects which contact field an OTP challenge is for.
type ChangeKind string

const (
	ChangeKindEmail ChangeKind = "email"
	ChangeKindPhone ChangeKind = "phone"
)

// Challenge is the transient OTP state for a pending email/phone change.
// It lives only in the ephemeral store under otp:<kind>:<userId> and expires
// on its own; it is never written to the database.
type Challenge struct {
	OTP      string `json:"otp"`
	NewEmail string `json:"newEmail,omitempty"`
	NewPhone string `json:"newPhone,omitempty"`
}

// NewValue returns the pending value for the given kind
func (c *Challenge) NewValue(kind ChangeKind) string {
	if kind == ChangeKindPhone {
		return c.NewPhone
	}
	return c.NewEmail
}
