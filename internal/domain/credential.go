package domain

// Credential is the live access/refresh token pair for the current
// process session. It is overwritten whole on refresh and cleared whole
// on logout; no history is kept. No expiry metadata is stored locally:
// expiry is discovered by a failed authorized request.
type Credential struct {
	AccessToken  string
	RefreshToken string
}

// IsZero reports whether no credential is stored.
func (c Credential) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}
