package dto

import (
	"time"
)

// TokenInfo is the credential handed out by an AuthProvider. RefreshToken is
// opaque to banknet and only passed back to AuthProvider.Refresh.
type TokenInfo struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// IsExpired reports whether the token is missing or expires within buffer.
func (t *TokenInfo) IsExpired(buffer time.Duration) bool {
	return t.expiredAt(time.Now(), buffer)
}

// expiredAt treats a zero Expiry as never expiring.
func (t *TokenInfo) expiredAt(now time.Time, buffer time.Duration) bool {
	switch {
	case t.AccessToken == "":
		return true
	case t.Expiry.IsZero():
		return false
	default:
		return !now.Before(t.Expiry.Add(-buffer))
	}
}
