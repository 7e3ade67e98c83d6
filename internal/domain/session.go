package domain

// SessionState is the lifecycle state of a client session.
type SessionState int

const (
	// StateUninitialized is the state before persisted data has been read.
	StateUninitialized SessionState = iota
	// StateHydrating is the state while persisted data is being read.
	StateHydrating
	// StateLoggedOut means no identity or credential is held.
	StateLoggedOut
	// StateLoggedIn means both an identity and a credential are held.
	StateLoggedIn
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateHydrating:
		return "hydrating"
	case StateLoggedOut:
		return "logged_out"
	case StateLoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}
