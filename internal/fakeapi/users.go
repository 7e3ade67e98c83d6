package fakeapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/weddingwise/weddingwise-client/internal/auth"
	"github.com/weddingwise/weddingwise-client/internal/domain"
	"github.com/weddingwise/weddingwise-client/internal/http/response"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type refreshRequest struct {
	Token string `json:"token" validate:"required"`
}

type grantResponse struct {
	Token    string  `json:"token"`
	UserData userDoc `json:"userData"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.Credentials
	if !s.decodeJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	u, ok := s.userByEmailLocked(req.Email)
	var found user
	if ok {
		found = *u
	}
	s.mu.Unlock()

	if !ok || !s.hasher.Verify(found.PasswordHash, req.Password) {
		response.BadRequest(w, "Invalid credentials", s.logger)
		return
	}

	if s.hasher.NeedsRehash(found.PasswordHash) {
		s.rehash(found.ID, req.Password)
	}

	s.writeGrant(w, http.StatusOK, found)
}

// rehash upgrades a stored hash to the current cost settings. Failure keeps
// the old hash, which still verifies.
func (s *Server) rehash(userID, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn("password rehash failed", "user_id", userID, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.PasswordHash = hash
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if _, err := s.SeedUser(strings.TrimSpace(req.Name), req.Email, req.Password); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Info("user registered", "email", normalizeEmail(req.Email))
	response.Message(w, http.StatusCreated, "User registered successfully", s.logger)
}

// handleSendResetEmail answers the same way whether or not the account exists.
func (s *Server) handleSendResetEmail(w http.ResponseWriter, r *http.Request) {
	var req domain.PasswordResetRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	if u, ok := s.userByEmailLocked(req.Email); ok {
		token := uuid.NewString()
		s.resetTokens[token] = u.ID
		s.outbox = append(s.outbox, Email{
			To:      u.Email,
			Subject: "Reset your WeddingWise password",
			Body:    fmt.Sprintf("Use this token to reset your password: %s", token),
		})
	}
	s.mu.Unlock()

	response.Message(w, http.StatusOK, "Password reset email sent", s.logger)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.resetTokens[req.Token]
	u, exists := s.users[userID]
	if !ok || !exists {
		response.BadRequest(w, "Invalid or expired token", s.logger)
		return
	}
	delete(s.resetTokens, req.Token)
	u.PasswordHash = hash

	response.Message(w, http.StatusOK, "Password has been reset successfully", s.logger)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.ProfileUpdate
	if !s.decodeJSON(w, r, &req) {
		return
	}
	userID := getUserID(r.Context())

	s.mu.Lock()
	if other, ok := s.userByEmailLocked(req.Email); ok && other.ID != userID {
		s.mu.Unlock()
		response.BadRequest(w, "Email already in use", s.logger)
		return
	}
	u := s.users[userID]
	u.Name = strings.TrimSpace(req.Name)
	u.Email = normalizeEmail(req.Email)
	updated := *u
	s.mu.Unlock()

	s.writeGrant(w, http.StatusOK, updated)
}

func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	token, claims, err := s.tokens.RefreshAccessToken(req.Token)
	switch {
	case errors.Is(err, auth.ErrRefreshWindowClosed):
		response.Unauthorized(w, "Token can no longer be refreshed", s.logger)
		return
	case err != nil:
		response.Unauthorized(w, "Token is not valid", s.logger)
		return
	}

	if _, ok := s.lookupUser(claims.UserID); !ok {
		response.Unauthorized(w, "Token is not valid", s.logger)
		return
	}

	s.logger.Debug("token refreshed", "user_id", claims.UserID)
	response.Success(w, tokenResponse{Token: token}, s.logger)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactMessage
	if !s.decodeJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	s.contacts = append(s.contacts, ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message})
	s.mu.Unlock()

	response.Message(w, http.StatusOK, "Message sent successfully", s.logger)
}

func (s *Server) writeGrant(w http.ResponseWriter, status int, u user) {
	token, err := s.tokens.GenerateAccessToken(domain.Identity{ID: u.ID, Name: u.Name, Email: u.Email})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.JSON(w, status, grantResponse{Token: token, UserData: u.doc()}, s.logger)
}
