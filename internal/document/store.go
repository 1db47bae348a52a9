package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aroldanm/mkdw-demo/internal/db"
)

// Sentinel errors surfaced by the store and the upload filter.
var (
	ErrNotFound        = errors.New("document not found")
	ErrNotMarkdown     = errors.New("not a markdown file")
	ErrNoMarkdownFiles = errors.New("no markdown files in upload")
)

// DraftPrefix marks placeholder identifiers of uncommitted drafts.
const DraftPrefix = "draft-"

// Store manages persistence of markdown documents.
type Store struct {
	db *db.DB
}

// NewStore creates a new document store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Upload creates a document from an uploaded markdown file. The `.md`
// suffix is stripped from the name to derive both fileName and the initial
// title. New documents are private.
func (s *Store) Upload(ctx context.Context, rawText, fileName, ownerID string) (*Document, error) {
	name := strings.TrimSuffix(fileName, ".md")
	now := time.Now().UTC()
	d := Document{
		ID:        uuid.New().String(),
		FileName:  name,
		Title:     name,
		Content:   rawText,
		OwnerID:   ownerID,
		IsPublic:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.insert(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// NewDraft produces an uncommitted draft. Nothing touches the database
// until CommitDraft.
func (s *Store) NewDraft(ownerID string) *Draft {
	return &Draft{
		ID:        DraftPrefix + uuid.New().String(),
		FileName:  "new-document.md",
		Title:     "New Document",
		Content:   "",
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
}

// CommitDraft promotes a draft into the store under a freshly minted
// identifier. The draft's placeholder ID is discarded.
func (s *Store) CommitDraft(ctx context.Context, draft *Draft, content string) (*Document, error) {
	d := Document{
		ID:        uuid.New().String(),
		FileName:  draft.FileName,
		Title:     draft.Title,
		Content:   content,
		OwnerID:   draft.OwnerID,
		IsPublic:  false,
		CreatedAt: draft.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.insert(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) insert(ctx context.Context, d *Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, file_name, title, content, owner_id, is_public, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.FileName, d.Title, d.Content, d.OwnerID, boolInt(d.IsPublic),
		d.CreatedAt.Format(timeLayout), d.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// Get retrieves a document by its ID. Returns (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	var d Document
	var isPublic int
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, file_name, title, content, owner_id, is_public, created_at, updated_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&d.ID, &d.FileName, &d.Title, &d.Content, &d.OwnerID, &isPublic, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	d.IsPublic = isPublic != 0
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns documents matching the filter, most recently updated first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Document, error) {
	query := `SELECT id, file_name, title, content, owner_id, is_public, created_at, updated_at
		 FROM documents WHERE 1=1`
	args := []interface{}{}

	if filter.OwnerID != "" {
		query += " AND owner_id = ?"
		args = append(args, filter.OwnerID)
	}
	if filter.PublicOnly {
		query += " AND is_public = 1"
	}

	query += " ORDER BY updated_at DESC, id ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var isPublic int
		var createdAt, updatedAt string
		if err := rows.Scan(&d.ID, &d.FileName, &d.Title, &d.Content, &d.OwnerID, &isPublic, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		d.IsPublic = isPublic != 0
		if d.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// UpdateContent replaces a document's content and bumps updatedAt.
// A no-op when the ID is absent.
func (s *Store) UpdateContent(ctx context.Context, id, content string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE documents SET content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now().UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("updating content: %w", err)
	}
	return nil
}

// UpdateTitle sets a document's display title. Empty or whitespace titles
// fall back to the document's fileName; the title column never stores an
// empty string.
func (s *Store) UpdateTitle(ctx context.Context, id, newTitle string) error {
	title := strings.TrimSpace(newTitle)
	now := time.Now().UTC().Format(timeLayout)

	var err error
	if title == "" {
		_, err = s.db.ExecContext(ctx,
			`UPDATE documents SET title = file_name, updated_at = ? WHERE id = ?`, now, id)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE documents SET title = ?, updated_at = ? WHERE id = ?`, title, now, id)
	}
	if err != nil {
		return fmt.Errorf("updating title: %w", err)
	}
	return nil
}

// ToggleVisibility flips a document's public flag and bumps updatedAt.
func (s *Store) ToggleVisibility(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE documents SET is_public = 1 - is_public, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("toggling visibility: %w", err)
	}
	return nil
}

// Delete removes a document. Idempotent: deleting an absent ID is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// FilterMarkdown keeps only names ending in the .md suffix. Upload callers
// use this to skip non-markdown files; ErrNoMarkdownFiles signals that the
// whole batch was filtered out.
func FilterMarkdown(names []string) ([]string, error) {
	var kept []string
	for _, name := range names {
		if strings.HasSuffix(name, ".md") {
			kept = append(kept, name)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoMarkdownFiles
	}
	return kept, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timeLayout is RFC 3339 with zero-padded nanoseconds. The width is fixed so
// the text ordering of stored timestamps matches their chronological order,
// which ORDER BY updated_at relies on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// parseTime reads the RFC 3339 timestamps the store writes. SQLite's own
// datetime('now') defaults use a space separator, so accept that too.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
