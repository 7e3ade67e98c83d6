package domain

// Identity is the authenticated user's profile as held by the client.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IsWellFormed reports whether the identity carries enough data to represent
// a signed-in user. Hydrated identities that fail this check force a logged-out state.
func (i *Identity) IsWellFormed() bool {
	return i != nil && (i.ID != "" || i.Email != "")
}

// SameUser reports whether both identities refer to the same account.
func (i *Identity) SameUser(other *Identity) bool {
	if i == nil || other == nil {
		return false
	}
	if i.ID != "" && other.ID != "" {
		return i.ID == other.ID
	}
	return i.Email == other.Email
}
