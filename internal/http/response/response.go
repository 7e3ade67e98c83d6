// Package response writes the JSON responses of the booking API: bare JSON
// bodies on success and {"msg": "..."} bodies on failure.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
)

// ExpiredTokenMessage is the msg of the 401 that tells clients to renew their token.
const ExpiredTokenMessage = "Token has expired"

// MessageBody is the body of message and error responses. Errors lists the
// offending fields of a rejected request body.
type MessageBody struct {
	Msg    string            `json:"msg"`
	Errors map[string]string `json:"errors,omitempty"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Error("failed to encode response", "status", status, "error", err)
	}
}

// Success writes data with 200 OK.
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Created writes data with 201 Created.
func Created(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusCreated, data, logger)
}

// Message writes {"msg": message} with the given status code.
func Message(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	JSON(w, status, MessageBody{Msg: message}, logger)
}

// BadRequest writes message with 400.
func BadRequest(w http.ResponseWriter, message string, logger *slog.Logger) {
	Message(w, http.StatusBadRequest, message, logger)
}

// Unauthorized writes message with 401.
func Unauthorized(w http.ResponseWriter, message string, logger *slog.Logger) {
	Message(w, http.StatusUnauthorized, message, logger)
}

// TokenExpired writes the 401 that asks the client to renew its token.
func TokenExpired(w http.ResponseWriter, logger *slog.Logger) {
	Message(w, http.StatusUnauthorized, ExpiredTokenMessage, logger)
}

// NotFound writes message with 404.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Message(w, http.StatusNotFound, message, logger)
}

// TooManyRequests writes a 429 whose Retry-After header holds retryAfter
// rounded up to whole seconds.
func TooManyRequests(w http.ResponseWriter, retryAfter time.Duration, logger *slog.Logger) {
	if retryAfter > 0 {
		seconds := int64(math.Ceil(retryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
	}
	Message(w, http.StatusTooManyRequests, "Too many requests", logger)
}

// HandleError maps err to a response. Domain errors keep their status and
// message; anything else, including INTERNAL errors, becomes a 500 whose
// detail stays in the log.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code == domainerrors.CodeInternal {
		if logger != nil {
			logger.Error("unhandled error", "error", err)
		}
		Message(w, http.StatusInternalServerError, "Server error", logger)
		return
	}

	body := MessageBody{Msg: domainErr.Message}
	if fields, ok := domainErr.Details.(map[string]string); ok {
		body.Errors = fields
	}
	JSON(w, domainErr.HTTPStatus(), body, logger)
}
