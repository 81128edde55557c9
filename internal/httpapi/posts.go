package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-builder/blocks"
	"github.com/goliatone/go-builder/internal/domain"
	"github.com/goliatone/go-builder/internal/posts"
)

type postCreatePayload struct {
	Title          string          `json:"title"`
	Slug           string          `json:"slug,omitempty"`
	Status         string          `json:"status,omitempty"`
	BuilderData    []*blocks.Block `json:"builderData,omitempty"`
	UsePageBuilder bool            `json:"usePageBuilder,omitempty"`
	CreatedBy      *uuid.UUID      `json:"createdBy,omitempty"`
}

type postUpdatePayload struct {
	Title          *string         `json:"title,omitempty"`
	Slug           *string         `json:"slug,omitempty"`
	Status         *string         `json:"status,omitempty"`
	BuilderData    json.RawMessage `json:"builderData,omitempty"`
	UsePageBuilder *bool           `json:"usePageBuilder,omitempty"`
	UpdatedBy      *uuid.UUID      `json:"updatedBy,omitempty"`
}

type postPublishPayload struct {
	Version     int        `json:"version"`
	PublishedBy *uuid.UUID `json:"publishedBy,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

type renderResponse struct {
	HTML string `json:"html"`
}

func (a *API) listPosts(w http.ResponseWriter, r *http.Request) {
	records, err := a.services.Posts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (a *API) createPost(w http.ResponseWriter, r *http.Request) {
	var payload postCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	input := posts.CreatePostInput{
		Title:          payload.Title,
		Slug:           payload.Slug,
		Status:         domain.Status(payload.Status),
		BuilderData:    payload.BuilderData,
		UsePageBuilder: payload.UsePageBuilder,
	}
	if payload.CreatedBy != nil {
		input.CreatedBy = *payload.CreatedBy
	}

	record, err := a.services.Posts.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (a *API) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid post id")
		return
	}

	record, err := a.services.Posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid post id")
		return
	}

	var payload postUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	input := posts.UpdatePostInput{
		ID:             id,
		Title:          payload.Title,
		Slug:           payload.Slug,
		UsePageBuilder: payload.UsePageBuilder,
	}
	if payload.Status != nil {
		status := domain.Status(*payload.Status)
		input.Status = &status
	}
	if payload.UpdatedBy != nil {
		input.UpdatedBy = *payload.UpdatedBy
	}
	// An explicit "builderData": [] clears the document; an absent key leaves
	// it untouched, so the raw body is decoded only when present.
	if payload.BuilderData != nil {
		document := []*blocks.Block{}
		if err := json.Unmarshal(payload.BuilderData, &document); err != nil {
			badRequest(w, "invalid builderData")
			return
		}
		input.BuilderData = document
	}

	record, err := a.services.Posts.Update(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (a *API) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid post id")
		return
	}

	if err := a.services.Posts.Delete(r.Context(), posts.DeletePostRequest{ID: id}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) publishPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid post id")
		return
	}

	var payload postPublishPayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	req := posts.PublishDraftRequest{
		PostID:      id,
		Version:     payload.Version,
		PublishedAt: payload.PublishedAt,
	}
	if payload.PublishedBy != nil {
		req.PublishedBy = *payload.PublishedBy
	}

	version, err := a.services.Posts.PublishDraft(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, version)
}

func (a *API) renderPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid post id")
		return
	}

	record, err := a.services.Posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	html, err := a.services.Renderer.RenderDocument(record.BuilderData)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{HTML: html})
}

func (a *API) listPostVersions(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid post id")
		return
	}

	versions, err := a.services.Posts.ListVersions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}
