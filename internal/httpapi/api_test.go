package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-builder/internal/catalog"
	"github.com/goliatone/go-builder/internal/httpapi"
	"github.com/goliatone/go-builder/internal/posts"
	"github.com/goliatone/go-builder/internal/render"
	"github.com/goliatone/go-builder/internal/templates"
)

func newTestServer(t *testing.T) (http.Handler, posts.Service, templates.Service) {
	t.Helper()
	registry := catalog.Default()
	postService := posts.NewService(posts.NewMemoryRepository(), registry,
		posts.WithVersionRepository(posts.NewMemoryVersionRepository()),
		posts.WithVersioningEnabled(true),
	)
	templateService := templates.NewService(templates.NewMemoryRepository(), registry)

	api := httpapi.New(httpapi.Services{
		Posts:     postService,
		Templates: templateService,
		Registry:  registry,
		Renderer:  render.New(registry),
	})
	return api.Router(), postService, templateService
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/posts", map[string]any{
		"title":          "Hello HTTP",
		"usePageBuilder": true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	created := decodeBody[map[string]any](t, rec)
	id := created["id"].(string)

	rec = doJSON(t, handler, http.MethodPut, "/api/posts/"+id, map[string]any{
		"builderData": []map[string]any{{
			"id":      uuid.NewString(),
			"type":    "heading",
			"content": map[string]any{"text": "Saved", "level": 2},
		}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/posts/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	fetched := decodeBody[map[string]any](t, rec)
	blockList := fetched["builderData"].([]any)
	if len(blockList) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blockList))
	}
	first := blockList[0].(map[string]any)
	if first["type"] != "core/heading" {
		t.Fatalf("expected canonical type stored, got %v", first["type"])
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/posts/"+id+"/render", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("render: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	rendered := decodeBody[map[string]string](t, rec)
	if !strings.Contains(rendered["html"], "<h2") || !strings.Contains(rendered["html"], "Saved") {
		t.Fatalf("unexpected rendered html %q", rendered["html"])
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/posts/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/api/posts/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
}

func TestUpdateRejectsUnknownBlockType(t *testing.T) {
	handler, svc, _ := newTestServer(t)

	post, err := svc.Create(t.Context(), posts.CreatePostInput{Title: "Doc"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	rec := doJSON(t, handler, http.MethodPut, "/api/posts/"+post.ID.String(), map[string]any{
		"builderData": []map[string]any{{
			"id":   uuid.NewString(),
			"type": "acme/unregistered",
		}},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d (%s)", rec.Code, rec.Body.String())
	}
	payload := decodeBody[map[string]any](t, rec)
	if payload["error"] != "validation_failed" {
		t.Fatalf("expected validation_failed envelope, got %v", payload["error"])
	}
}

func TestPublishEndpoint(t *testing.T) {
	handler, svc, _ := newTestServer(t)
	ctx := t.Context()

	post, err := svc.Create(ctx, posts.CreatePostInput{Title: "Doc"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	draft, err := svc.CreateDraft(ctx, posts.CreateDraftRequest{PostID: post.ID})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	rec := doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/posts/%s/publish", post.ID), map[string]any{
		"version": draft.Version,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/posts/%s/publish", post.ID), map[string]any{
		"version": draft.Version,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("re-publish: expected 409, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/posts/%s/versions", post.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("versions: expected 200, got %d", rec.Code)
	}
	versions := decodeBody[[]map[string]any](t, rec)
	if len(versions) != 1 {
		t.Fatalf("expected 1 version, got %d", len(versions))
	}
}

func TestTemplateEndpoints(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/templates", map[string]any{
		"name": "Hero Section",
		"blocks": []map[string]any{{
			"id":      uuid.NewString(),
			"type":    "core/paragraph",
			"content": map[string]any{"text": "hero"},
		}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	created := decodeBody[map[string]any](t, rec)
	id := created["id"].(string)

	rec = doJSON(t, handler, http.MethodPut, "/api/templates/"+id, map[string]any{
		"blocks": []map[string]any{},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	updated := decodeBody[map[string]any](t, rec)
	if got := updated["blocks"].([]any); len(got) != 0 {
		t.Fatalf("expected cleared document, got %v", got)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/templates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
}

func TestDefinitionsEndpoint(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/blocks/definitions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	definitions := decodeBody[[]map[string]any](t, rec)
	if len(definitions) == 0 {
		t.Fatal("expected builtin definitions")
	}

	seen := map[string]bool{}
	for _, def := range definitions {
		blockType := def["type"].(string)
		if seen[blockType] {
			t.Fatalf("duplicate definition for %s", blockType)
		}
		seen[blockType] = true
	}
	if !seen["core/paragraph"] || !seen["core/columns"] {
		t.Fatal("expected core block types in the palette")
	}
}

func TestInvalidIDReturnsBadRequest(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/posts/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
