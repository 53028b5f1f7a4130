package domain

import "time"

// AccessToken is an opaque bearer token persisted on login. It is valid
// while the elapsed time since issuance has not exceeded its TTL; expiry is
// the only way a token dies.
type AccessToken struct {
	ID      int64     `json:"-"`
	Token   string    `json:"token"`
	TTL     int64     `json:"ttl"` // milliseconds
	UserID  int64     `json:"userId"`
	Created time.Time `json:"issuedAt"`
}

// Expired reports whether the token is past its TTL at the given instant.
// A token whose age equals the TTL exactly is still valid.
func (t *AccessToken) Expired(now time.Time) bool {
	return now.Sub(t.Created).Milliseconds() > t.TTL
}
