package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-builder/internal/posts"
	"github.com/goliatone/go-builder/internal/templates"
	"github.com/goliatone/go-builder/internal/validation"
)

type errorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message,omitempty"`
	Issues  []validation.ValidationIssue `json:"issues,omitempty"`
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var postNotFound *posts.NotFoundError
	if errors.As(err, &postNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: postNotFound.Error(),
		}
	}

	var templateNotFound *templates.NotFoundError
	if errors.As(err, &templateNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: templateNotFound.Error(),
		}
	}

	if errors.Is(err, posts.ErrSlugTaken) ||
		errors.Is(err, templates.ErrSlugTaken) ||
		errors.Is(err, posts.ErrVersionPublished) ||
		errors.Is(err, posts.ErrVersionConflict) ||
		errors.Is(err, posts.ErrVersionRetention) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, validation.ErrSchemaValidation) ||
		errors.Is(err, validation.ErrSchemaInvalid) ||
		errors.Is(err, validation.ErrUnknownBlockType) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  validation.Issues(err),
		}
	}

	if errors.Is(err, posts.ErrPostIDRequired) ||
		errors.Is(err, posts.ErrTitleRequired) ||
		errors.Is(err, posts.ErrSlugInvalid) ||
		errors.Is(err, posts.ErrStatusInvalid) ||
		errors.Is(err, posts.ErrVersionRequired) ||
		errors.Is(err, posts.ErrVersioningDisabled) ||
		errors.Is(err, templates.ErrTemplateIDRequired) ||
		errors.Is(err, templates.ErrNameRequired) ||
		errors.Is(err, templates.ErrSlugInvalid) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, err
	}
	return parsed, nil
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   "bad_request",
		Message: message,
	})
}
