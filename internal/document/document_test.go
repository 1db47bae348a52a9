package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aroldanm/mkdw-demo/internal/db"
	"github.com/aroldanm/mkdw-demo/internal/markdown"
	"github.com/aroldanm/mkdw-demo/internal/session"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestUpload(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	doc, err := store.Upload(ctx, "# Hi", "notes.md", "user-1")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.FileName != "notes" {
		t.Errorf("expected fileName notes, got %q", doc.FileName)
	}
	if doc.Title != "notes" {
		t.Errorf("expected title notes, got %q", doc.Title)
	}
	if doc.Content != "# Hi" {
		t.Errorf("unexpected content: %q", doc.Content)
	}
	if doc.IsPublic {
		t.Error("new documents must be private")
	}
	if !doc.CreatedAt.Equal(doc.UpdatedAt) {
		t.Error("expected createdAt == updatedAt on upload")
	}

	fetched, err := store.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched == nil || fetched.Content != "# Hi" {
		t.Errorf("unexpected fetched document: %+v", fetched)
	}
}

func TestUpdateContentBumpsUpdatedAt(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	doc, _ := store.Upload(ctx, "old", "notes.md", "")
	before := doc.UpdatedAt

	if err := store.UpdateContent(ctx, doc.ID, "new text"); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}

	fetched, _ := store.Get(ctx, doc.ID)
	if fetched.Content != "new text" {
		t.Errorf("expected new text, got %q", fetched.Content)
	}
	if !fetched.UpdatedAt.After(before) {
		t.Errorf("expected updatedAt > %v, got %v", before, fetched.UpdatedAt)
	}
	if !fetched.CreatedAt.Equal(doc.CreatedAt) {
		t.Error("createdAt must not change")
	}
}

func TestUpdateContentAbsentIsNoop(t *testing.T) {
	store := setupTestStore(t)

	if err := store.UpdateContent(context.Background(), "ghost", "text"); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}

func TestUpdateTitleFallsBackToFileName(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	doc, _ := store.Upload(ctx, "x", "notes.md", "")

	if err := store.UpdateTitle(ctx, doc.ID, "My Notes"); err != nil {
		t.Fatalf("UpdateTitle: %v", err)
	}
	fetched, _ := store.Get(ctx, doc.ID)
	if fetched.Title != "My Notes" {
		t.Errorf("expected My Notes, got %q", fetched.Title)
	}

	for _, empty := range []string{"", "   ", "\t"} {
		if err := store.UpdateTitle(ctx, doc.ID, empty); err != nil {
			t.Fatalf("UpdateTitle(%q): %v", empty, err)
		}
		fetched, _ = store.Get(ctx, doc.ID)
		if fetched.Title != "notes" {
			t.Errorf("title %q: expected fallback to fileName, got %q", empty, fetched.Title)
		}
	}
}

func TestToggleVisibilitySelfInverse(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	doc, _ := store.Upload(ctx, "x", "notes.md", "")

	store.ToggleVisibility(ctx, doc.ID)
	once, _ := store.Get(ctx, doc.ID)
	if !once.IsPublic {
		t.Error("expected public after first toggle")
	}

	store.ToggleVisibility(ctx, doc.ID)
	twice, _ := store.Get(ctx, doc.ID)
	if twice.IsPublic {
		t.Error("expected private after second toggle")
	}
	if twice.Content != doc.Content || twice.Title != doc.Title || twice.FileName != doc.FileName {
		t.Error("toggle must not change anything except visibility and updatedAt")
	}
	if !twice.UpdatedAt.After(doc.UpdatedAt) {
		t.Error("expected updatedAt bump")
	}
}

func TestDraftLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	draft := store.NewDraft("user-1")
	if draft.FileName != "new-document.md" {
		t.Errorf("unexpected draft fileName: %q", draft.FileName)
	}
	if draft.Title != "New Document" {
		t.Errorf("unexpected draft title: %q", draft.Title)
	}
	if draft.Content != "" {
		t.Errorf("expected empty draft content, got %q", draft.Content)
	}
	if !strings.HasPrefix(draft.ID, DraftPrefix) {
		t.Errorf("expected %s prefix, got %q", DraftPrefix, draft.ID)
	}

	// A draft is not in the store.
	if count, _ := store.Count(ctx); count != 0 {
		t.Errorf("expected empty store, got %d documents", count)
	}

	doc, err := store.CommitDraft(ctx, draft, "body text")
	if err != nil {
		t.Fatalf("CommitDraft: %v", err)
	}
	if doc.ID == draft.ID {
		t.Error("committed document must not keep the placeholder id")
	}
	if strings.HasPrefix(doc.ID, DraftPrefix) {
		t.Errorf("committed id still carries the draft prefix: %q", doc.ID)
	}
	if doc.Content != "body text" {
		t.Errorf("unexpected content: %q", doc.Content)
	}

	fetched, _ := store.Get(ctx, doc.ID)
	if fetched == nil {
		t.Fatal("committed document missing from store")
	}

	// The placeholder id never entered the store.
	ghost, _ := store.Get(ctx, draft.ID)
	if ghost != nil {
		t.Error("draft placeholder id must never be inserted")
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	doc, _ := store.Upload(ctx, "x", "notes.md", "")

	if err := store.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if fetched, _ := store.Get(ctx, doc.ID); fetched != nil {
		t.Error("expected document gone")
	}

	docs, _ := store.List(ctx, ListFilter{})
	for _, d := range docs {
		if d.ID == doc.ID {
			t.Error("deleted document still listed")
		}
	}

	// Repeating the delete is a no-op.
	if err := store.Delete(ctx, doc.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestListFilterOwner(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	store.Upload(ctx, "a", "a.md", "alice")
	store.Upload(ctx, "b", "b.md", "bob")
	store.Upload(ctx, "c", "c.md", "alice")

	all, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}

	mine, _ := store.List(ctx, ListFilter{OwnerID: "alice"})
	if len(mine) != 2 {
		t.Errorf("expected 2 for alice, got %d", len(mine))
	}
}

// List orders on the stored timestamp text, so a whole-second timestamp must
// still sort after an earlier sub-second one.
func TestListOrdersAcrossNanosecondPrecision(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	older, _ := store.Upload(ctx, "a", "a.md", "alice")
	newer, _ := store.Upload(ctx, "b", "b.md", "alice")

	base := time.Date(2024, 5, 1, 12, 0, 5, 0, time.UTC)
	stamp := func(id string, ts time.Time) {
		if _, err := store.db.ExecContext(ctx,
			`UPDATE documents SET updated_at = ? WHERE id = ?`,
			ts.Format(timeLayout), id,
		); err != nil {
			t.Fatalf("stamping %s: %v", id, err)
		}
	}
	stamp(older.ID, base.Add(-500*time.Millisecond))
	stamp(newer.ID, base)

	docs, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != newer.ID {
		t.Errorf("expected %s first, got %s", newer.ID, docs[0].ID)
	}
	if !docs[0].UpdatedAt.After(docs[1].UpdatedAt) {
		t.Errorf("expected strictly descending updatedAt, got %v then %v",
			docs[0].UpdatedAt, docs[1].UpdatedAt)
	}
}

func TestFilterMarkdown(t *testing.T) {
	kept, err := FilterMarkdown([]string{"notes.md", "image.png", "readme.md"})
	if err != nil {
		t.Fatalf("FilterMarkdown: %v", err)
	}
	if len(kept) != 2 {
		t.Errorf("expected 2, got %v", kept)
	}

	_, err = FilterMarkdown([]string{"image.png", "doc.pdf"})
	if !errors.Is(err, ErrNoMarkdownFiles) {
		t.Errorf("expected ErrNoMarkdownFiles, got %v", err)
	}
}

// HTTP handler tests

func setupTestRouter(t *testing.T) (chi.Router, *Store, string) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := NewStore(database)
	sessions := session.NewStore(database)
	_, token, err := sessions.SignIn(context.Background(), "demo@example.com", "password")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	r := chi.NewRouter()
	r.Use(session.Middleware(sessions))
	renderer := markdown.New(markdown.Options{Styles: markdown.DefaultStyles()})
	RegisterRoutes(r, store, renderer, nil)
	return r, store, token
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write([]byte(content))
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestRoute_Upload(t *testing.T) {
	r, _, token := setupTestRouter(t)

	body, contentType := multipartBody(t, map[string]string{
		"notes.md":  "# Hi",
		"photo.png": "binary",
	})
	req := httptest.NewRequest("POST", "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created []Document
	json.Unmarshal(w.Body.Bytes(), &created)
	if len(created) != 1 {
		t.Fatalf("expected the png to be filtered out, got %d documents", len(created))
	}
	if created[0].FileName != "notes" || created[0].Content != "# Hi" {
		t.Errorf("unexpected document: %+v", created[0])
	}
}

func TestRoute_UploadNoMarkdown(t *testing.T) {
	r, _, token := setupTestRouter(t)

	body, contentType := multipartBody(t, map[string]string{"photo.png": "binary"})
	req := httptest.NewRequest("POST", "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRoute_GetVisibility(t *testing.T) {
	r, store, token := setupTestRouter(t)
	ctx := context.Background()

	doc, _ := store.Upload(ctx, "secret", "notes.md", "owner")

	// Anonymous read of a private document.
	req := httptest.NewRequest("GET", "/api/documents/"+doc.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}

	// Signed-in read.
	req = httptest.NewRequest("GET", "/api/documents/"+doc.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	// Public after toggle, anonymous read succeeds.
	store.ToggleVisibility(ctx, doc.ID)
	req = httptest.NewRequest("GET", "/api/documents/"+doc.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for public doc, got %d", w.Code)
	}
}

func TestRoute_GetHTML(t *testing.T) {
	r, store, _ := setupTestRouter(t)
	ctx := context.Background()

	doc, _ := store.Upload(ctx, "# Hello", "notes.md", "owner")
	store.ToggleVisibility(ctx, doc.ID)

	req := httptest.NewRequest("GET", "/api/documents/"+doc.ID+"/html", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<h1") {
		t.Errorf("expected rendered heading, got: %s", w.Body.String())
	}
}

func TestRoute_UpdateTitleAndContent(t *testing.T) {
	r, store, token := setupTestRouter(t)

	doc, _ := store.Upload(context.Background(), "old", "notes.md", "owner")

	req := httptest.NewRequest("PUT", "/api/documents/"+doc.ID+"/content", strings.NewReader(`{"content":"new"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated Document
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Content != "new" {
		t.Errorf("expected new content, got %q", updated.Content)
	}

	// Clearing the title falls back to the fileName.
	req = httptest.NewRequest("PUT", "/api/documents/"+doc.ID+"/title", strings.NewReader(`{"title":""}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Title != "notes" {
		t.Errorf("expected fallback title notes, got %q", updated.Title)
	}
}

func TestRoute_UpdateUnknownID(t *testing.T) {
	r, _, token := setupTestRouter(t)

	req := httptest.NewRequest("PUT", "/api/documents/ghost/content", strings.NewReader(`{"content":"x"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRoute_DeleteRunsHook(t *testing.T) {
	database, _ := db.OpenMemory()
	t.Cleanup(func() { database.Close() })

	store := NewStore(database)
	sessions := session.NewStore(database)
	_, token, _ := sessions.SignIn(context.Background(), "demo@example.com", "x")

	var cleared []string
	r := chi.NewRouter()
	r.Use(session.Middleware(sessions))
	renderer := markdown.New(markdown.Options{})
	RegisterRoutes(r, store, renderer, func(id string) { cleared = append(cleared, id) })

	doc, _ := store.Upload(context.Background(), "x", "notes.md", "owner")

	req := httptest.NewRequest("DELETE", "/api/documents/"+doc.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(cleared) != 1 || cleared[0] != doc.ID {
		t.Errorf("expected delete hook for %s, got %v", doc.ID, cleared)
	}
}

func TestRoute_WritesRequireAuth(t *testing.T) {
	r, store, _ := setupTestRouter(t)

	doc, _ := store.Upload(context.Background(), "x", "notes.md", "owner")

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/documents/"},
		{"PUT", "/api/documents/" + doc.ID + "/content"},
		{"POST", "/api/documents/" + doc.ID + "/visibility"},
		{"DELETE", "/api/documents/" + doc.ID},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, w.Code)
		}
	}
}
