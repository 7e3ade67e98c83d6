package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
)

// SessionGrant is what the server returns when it issues a credential.
type SessionGrant struct {
	Identity *domain.Identity
	Token    string
}

type grantResponse struct {
	Token    string        `json:"token"`
	UserData *wireIdentity `json:"userData"`
}

func (r grantResponse) grant() *SessionGrant {
	return &SessionGrant{Identity: r.UserData.identity(), Token: r.Token}
}

type messageResponse struct {
	Msg string `json:"msg"`
}

// Login exchanges an email and password for an identity and credential.
func (c *Client) Login(ctx context.Context, email, password string) (*SessionGrant, error) {
	req := map[string]string{"email": email, "password": password}

	var resp grantResponse
	err := c.anonymous(ctx, http.MethodPost, "/users/login", req, &resp)
	if err != nil {
		switch Status(err) {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound:
			msg := "Invalid email or password"
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				if d, ok := domainErr.Details.(FailureDetails); ok && d.Message != "" {
					msg = d.Message
				}
			}
			return nil, domainerrors.InvalidCredentials(msg).WithCause(err)
		}
		return nil, err
	}

	if resp.Token == "" {
		return nil, domainerrors.RemoteFailure("login response carried no token")
	}
	return resp.grant(), nil
}

// Register creates an account. The server answers 201 with a message.
func (c *Client) Register(ctx context.Context, r domain.Registration) (string, error) {
	req := map[string]string{"name": r.Name, "email": r.Email, "password": r.Password}

	var resp messageResponse
	if err := c.anonymous(ctx, http.MethodPost, "/users/register", req, &resp); err != nil {
		return "", err
	}
	return resp.Msg, nil
}

// RequestPasswordReset asks the server to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	err := c.anonymous(ctx, http.MethodPost, "/users/send-reset-password-email", map[string]string{"email": email}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Msg, nil
}

// ResetPassword sets a new password using the emailed reset token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	req := map[string]string{"token": token, "newPassword": newPassword}

	var resp messageResponse
	if err := c.anonymous(ctx, http.MethodPost, "/users/reset-password", req, &resp); err != nil {
		return "", err
	}
	return resp.Msg, nil
}

// UpdateProfile changes the signed-in user's name and email.
// The server reissues the credential because it embeds the profile.
func (c *Client) UpdateProfile(ctx context.Context, p domain.ProfileUpdate) (*SessionGrant, error) {
	req := map[string]string{"name": p.Name, "email": p.Email}

	var resp grantResponse
	if err := c.Request(ctx, http.MethodPut, "/users/update-profile", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, domainerrors.RemoteFailure("profile response carried no token")
	}
	return resp.grant(), nil
}

// SendContact delivers a message to the site owners.
func (c *Client) SendContact(ctx context.Context, m domain.ContactMessage) (string, error) {
	var resp messageResponse
	if err := c.Request(ctx, http.MethodPost, "/contact", m, &resp); err != nil {
		return "", err
	}
	return resp.Msg, nil
}
