package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/iho/ledgerlogic/internal/adapter/http/dto"
	"github.com/iho/ledgerlogic/internal/domain"
)

// Stable error codes returned in ErrorResponse.Code.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnbalanced      = "UNBALANCED_ENTRY"
	CodeInactiveAccount = "INACTIVE_ACCOUNT"
	CodeAlreadyReviewed = "ALREADY_REVIEWED"
	CodeCommentExists   = "COMMENT_EXISTS"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeInternal        = "INTERNAL_ERROR"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Code:    code,
		Message: details,
	})
}

// mapDomainError maps domain errors to an HTTP status and error code.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrUnbalancedEntry):
		return http.StatusUnprocessableEntity, CodeUnbalanced
	case errors.Is(err, domain.ErrInactiveAccount):
		return http.StatusUnprocessableEntity, CodeInactiveAccount
	case errors.Is(err, domain.ErrAlreadyReviewed):
		return http.StatusConflict, CodeAlreadyReviewed
	case errors.Is(err, domain.ErrCommentExists):
		return http.StatusConflict, CodeCommentExists
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized, CodeUnauthorized
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// respondError maps err and writes it. Internal errors are logged and their
// details withheld from the client.
func respondError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status, code := mapDomainError(err)
	if status == http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(message)
		writeError(w, status, code, message, "")
		return
	}

	resp := dto.ErrorResponse{Error: message, Code: code, Message: err.Error()}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a size-limited JSON body into v and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("body", "request body is empty")
		}
		return domain.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return dto.Validate(v)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseRange reads the optional start and end query parameters.
func parseRange(r *http.Request) (domain.DateRange, error) {
	q := r.URL.Query()
	return dto.ParseDateRange(q.Get("start"), q.Get("end"))
}
