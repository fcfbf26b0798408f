package domain

import "time"

// ResetCodeTTL is how long a password reset code stays valid.
const ResetCodeTTL = 10 * time.Minute

// ResetCode is an emailed one-time code that authorises a password reset.
// Only a fingerprint of the code is stored.
type ResetCode struct {
	ID        string
	Email     string
	CodeHash  string
	UserID    string
	Username  string
	CreatedAt time.Time
	Used      bool
}

// ExpiredAt reports whether the code is past its TTL at now. A code exactly
// ResetCodeTTL old is still valid.
func (c ResetCode) ExpiredAt(now time.Time) bool {
	return now.Sub(c.CreatedAt) > ResetCodeTTL
}
