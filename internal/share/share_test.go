package share

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/aroldanm/mkdw-demo/internal/db"
	"github.com/aroldanm/mkdw-demo/internal/document"
	"github.com/aroldanm/mkdw-demo/internal/session"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ids := []string{
		"abc123",
		"6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"id with spaces",
	}

	for _, id := range ids {
		link, err := Encode("http://localhost:8080/", id)
		if err != nil {
			t.Fatalf("Encode(%q): %v", id, err)
		}

		decoded, ok := DecodeURL(link)
		if !ok {
			t.Fatalf("DecodeURL(%q): parameter missing", link)
		}
		if decoded != id {
			t.Errorf("round trip: expected %q, got %q", id, decoded)
		}
	}
}

func TestEncodeIdempotent(t *testing.T) {
	first, err := Encode("http://localhost:8080/?utm=x", "doc-1")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Encoding the decoded value of a link reproduces an equivalent link.
	id, _ := DecodeURL(first)
	second, err := Encode(first, id)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if first != second {
		t.Errorf("expected %q, got %q", first, second)
	}
}

func TestEncodeReplacesExistingParam(t *testing.T) {
	link, _ := Encode("http://localhost:8080/?docId=old", "new")
	id, _ := DecodeURL(link)
	if id != "new" {
		t.Errorf("expected new, got %q", id)
	}
}

func TestDecodeAbsent(t *testing.T) {
	if _, ok := Decode(""); ok {
		t.Error("expected absent for empty query")
	}
	if _, ok := Decode("other=1"); ok {
		t.Error("expected absent when parameter missing")
	}
	if _, ok := Decode("docId="); ok {
		t.Error("expected absent for empty value")
	}
}

func TestRoute_ShareLink(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	docs := document.NewStore(database)
	sessions := session.NewStore(database)
	ctx := context.Background()

	doc, err := docs.Upload(ctx, "# Hi", "notes.md", "owner")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	_, token, _ := sessions.SignIn(ctx, "demo@example.com", "x")

	r := chi.NewRouter()
	r.Use(session.Middleware(sessions))
	RegisterRoutes(r, docs, "http://localhost:8080/")

	req := httptest.NewRequest("GET", "/api/documents/"+doc.ID+"/share", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	id, ok := DecodeURL(resp["url"])
	if !ok || id != doc.ID {
		t.Errorf("expected link to carry %q, got %q (%s)", doc.ID, id, resp["url"])
	}

	// Unknown document.
	req = httptest.NewRequest("GET", "/api/documents/nope/share", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	// Anonymous caller.
	req = httptest.NewRequest("GET", "/api/documents/"+doc.ID+"/share", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
