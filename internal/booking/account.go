package booking

import (
	"context"
	"strings"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
	"github.com/weddingwise/weddingwise-client/internal/store"
)

// Login stores an identity and credential and moves the session to LoggedIn.
//
// An empty credential is rejected and logged. Logging in again as the same
// user refreshes the stored identity; logging in as somebody else requires a
// logout first.
func (m *Manager) Login(ctx context.Context, identity *domain.Identity, token string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	return m.login(ctx, identity, token)
}

func (m *Manager) login(ctx context.Context, identity *domain.Identity, token string) error {
	gen, err := m.begin()
	if err != nil {
		return err
	}

	if strings.TrimSpace(token) == "" {
		m.logger.Error("login rejected: empty credential")
		return domainerrors.Validation("credential is required")
	}
	if !identity.IsWellFormed() {
		m.logger.Error("login rejected: identity has no id or email")
		return domainerrors.Validation("identity is required")
	}

	current := m.Identity()
	if current != nil && !current.SameUser(identity) {
		return domainerrors.Conflict("already logged in as another user; log out first")
	}

	saved := *identity
	return m.commit(gen, func() error {
		if err := m.persist(ctx, store.KeyCurrentUser, &saved); err != nil {
			return err
		}
		if err := m.persist(ctx, store.KeyAuthToken, token); err != nil {
			return err
		}
		m.identity = &saved
		m.token = token
		m.state = domain.StateLoggedIn
		m.logger.Info("logged in", "user_id", saved.ID, "email", saved.Email)
		return nil
	})
}

// SignIn exchanges an email and password for a session.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if _, err := m.begin(); err != nil {
		return err
	}

	creds := domain.Credentials{
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(password),
	}
	if err := m.validate(creds); err != nil {
		return err
	}

	grant, err := m.remote.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		m.logger.Warn("sign in failed", "email", creds.Email, "error", err)
		return err
	}
	return m.login(ctx, grant.Identity, grant.Token)
}

// Register creates an account. It does not sign in.
func (m *Manager) Register(ctx context.Context, r domain.Registration) (string, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	if err := m.validate(r); err != nil {
		return "", err
	}
	return m.remote.Register(ctx, r)
}

// RequestPasswordReset asks the server to email a reset link.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	req := domain.PasswordResetRequest{Email: strings.TrimSpace(email)}
	if err := m.validate(req); err != nil {
		return "", err
	}
	return m.remote.RequestPasswordReset(ctx, req.Email)
}

// ResetPassword sets a new password using an emailed reset token.
func (m *Manager) ResetPassword(ctx context.Context, r domain.PasswordReset) (string, error) {
	if err := m.validate(r); err != nil {
		return "", err
	}
	return m.remote.ResetPassword(ctx, r.Token, r.NewPassword)
}

// UpdateProfile changes the signed-in user's name and email. The server
// reissues the credential, which replaces the stored one.
func (m *Manager) UpdateProfile(ctx context.Context, p domain.ProfileUpdate) (*domain.Identity, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	gen, err := m.requireLogin("log in to update your profile")
	if err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if err := m.validate(p); err != nil {
		return nil, err
	}

	grant, err := m.remote.UpdateProfile(ctx, p)
	if err != nil {
		return nil, err
	}

	current := m.Identity()
	updated := domain.Identity{ID: current.ID, Name: p.Name, Email: p.Email}
	if grant.Identity != nil {
		if grant.Identity.ID != "" {
			updated.ID = grant.Identity.ID
		}
		if grant.Identity.Name != "" {
			updated.Name = grant.Identity.Name
		}
		if grant.Identity.Email != "" {
			updated.Email = grant.Identity.Email
		}
	}

	err = m.commit(gen, func() error {
		if err := m.persist(ctx, store.KeyCurrentUser, &updated); err != nil {
			return err
		}
		if err := m.persist(ctx, store.KeyAuthToken, grant.Token); err != nil {
			return err
		}
		m.identity = &updated
		m.token = grant.Token
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("profile updated", "user_id", updated.ID)
	result := updated
	return &result, nil
}

// SendContact delivers a message to the site owners. A signed-in user's
// name and email fill any blank fields.
func (m *Manager) SendContact(ctx context.Context, msg domain.ContactMessage) (string, error) {
	if identity := m.Identity(); identity != nil {
		if strings.TrimSpace(msg.Name) == "" {
			msg.Name = identity.Name
		}
		if strings.TrimSpace(msg.Email) == "" {
			msg.Email = identity.Email
		}
	}
	if err := m.validate(msg); err != nil {
		return "", err
	}
	return m.remote.SendContact(ctx, msg)
}
