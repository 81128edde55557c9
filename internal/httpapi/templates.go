package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/templates"
)

type templateCreatePayload struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug,omitempty"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Blocks      []*blocks.Block `json:"blocks,omitempty"`
	CreatedBy   *uuid.UUID      `json:"createdBy,omitempty"`
}

type templateUpdatePayload struct {
	Name        *string         `json:"name,omitempty"`
	Slug        *string         `json:"slug,omitempty"`
	Description *string         `json:"description,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Blocks      json.RawMessage `json:"blocks,omitempty"`
	UpdatedBy   *uuid.UUID      `json:"updatedBy,omitempty"`
}

func (a *API) listTemplates(w http.ResponseWriter, r *http.Request) {
	records, err := a.services.Templates.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (a *API) createTemplate(w http.ResponseWriter, r *http.Request) {
	var payload templateCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	input := templates.CreateTemplateInput{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		Category:    payload.Category,
		Blocks:      payload.Blocks,
	}
	if payload.CreatedBy != nil {
		input.CreatedBy = *payload.CreatedBy
	}

	record, err := a.services.Templates.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (a *API) getTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid template id")
		return
	}

	record, err := a.services.Templates.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) updateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid template id")
		return
	}

	var payload templateUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	input := templates.UpdateTemplateInput{
		ID:          id,
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		Category:    payload.Category,
	}
	if payload.UpdatedBy != nil {
		input.UpdatedBy = *payload.UpdatedBy
	}
	if payload.Blocks != nil {
		document := []*blocks.Block{}
		if err := json.Unmarshal(payload.Blocks, &document); err != nil {
			badRequest(w, "invalid blocks")
			return
		}
		input.Blocks = document
	}

	record, err := a.services.Templates.Update(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid template id")
		return
	}

	if err := a.services.Templates.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
