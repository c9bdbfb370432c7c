package core

// Session holds the current bearer credential. Every outgoing request reads
// Token(); a 401/403 response expires the session exactly once, firing the
// registered callback (the login-redirect analog) and discarding the token.
type Session interface {
	// Token returns the current bearer token, or "" when logged out or expired.
	Token() string
	SetToken(tok string) error
	// Expire discards the credential and fires the expiry callback once.
	// Subsequent calls are no-ops until a new token is set.
	Expire()
	// OnExpire registers the callback invoked when the session expires.
	OnExpire(fn func())
}
