package editor

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aroldanm/mkdw-demo/internal/document"
)

// ErrSessionNotFound is returned for unknown editor session identifiers.
var ErrSessionNotFound = errors.New("editor session not found")

// Session is the transient authoring state for one document or draft:
// a text buffer, a cursor, and a preview/edit mode flag. Sessions never
// touch the database; saves go through the document store.
type Session struct {
	ID         string          `json:"id"`
	OwnerID    string          `json:"owner_id"`
	DocumentID string          `json:"document_id,omitempty"`
	Draft      *document.Draft `json:"draft,omitempty"`
	Buffer     string          `json:"buffer"`
	Cursor     int             `json:"cursor"`
	Preview    bool            `json:"preview"`
	OpenedAt   time.Time       `json:"opened_at"`
}

// IsDraft reports whether the session authors an uncommitted draft.
func (s *Session) IsDraft() bool { return s.Draft != nil }

// Manager holds open editor sessions. One logical writer mutates each
// session, so a single lock over the map suffices.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Open starts an editor session bound to an existing document. The buffer
// is initialized from the document content.
func (m *Manager) Open(ownerID string, doc *document.Document) *Session {
	s := &Session{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		DocumentID: doc.ID,
		Buffer:     doc.Content,
		OpenedAt:   time.Now().UTC(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// OpenDraft starts an editor session for a fresh draft.
func (m *Manager) OpenDraft(ownerID string, draft *document.Draft) *Session {
	s := &Session{
		ID:       uuid.New().String(),
		OwnerID:  ownerID,
		Draft:    draft,
		Buffer:   draft.Content,
		OpenedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// ApplyCommand splices a formatting command into the session buffer.
func (m *Manager) ApplyCommand(id, command string, sel Span) (*Session, error) {
	cmd, err := LookupCommand(command)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	buffer, cursor, err := Apply(s.Buffer, sel, cmd)
	if err != nil {
		return nil, err
	}
	s.Buffer = buffer
	s.Cursor = cursor
	return s, nil
}

// SetBuffer replaces the session buffer (typed edits from the client).
func (m *Manager) SetBuffer(id, content string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.Buffer = content
	if s.Cursor > len(content) {
		s.Cursor = len(content)
	}
	return s, nil
}

// SetPreview switches between the two editor modes.
func (m *Manager) SetPreview(id string, preview bool) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.Preview = preview
	return s, nil
}

// Close discards a session. Idempotent.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// CloseForDocument discards every session bound to the given document.
// Invoked when a document is deleted so no editor keeps a dead selection.
func (m *Manager) CloseForDocument(documentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.DocumentID == documentID {
			delete(m.sessions, id)
		}
	}
}

// Prune discards sessions opened longer than maxAge ago and returns how many
// were dropped. Abandoned editors otherwise pin their buffers forever.
func (m *Manager) Prune(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)
	m.mu.Lock()
	defer m.mu.Unlock()
	pruned := 0
	for id, s := range m.sessions {
		if s.OpenedAt.Before(cutoff) {
			delete(m.sessions, id)
			pruned++
		}
	}
	return pruned
}

// OpenFor reports whether the owner has any session in flight. Satisfies
// view.EditorStates.
func (m *Manager) OpenFor(ownerID string) bool {
	return m.ForOwner(ownerID) != nil
}

// ForOwner returns the owner's most recently opened session, or nil when none
// is in flight. Ties on OpenedAt break on session ID so repeated calls agree.
func (m *Manager) ForOwner(ownerID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *Session
	for _, s := range m.sessions {
		if s.OwnerID != ownerID {
			continue
		}
		if latest == nil || s.OpenedAt.After(latest.OpenedAt) ||
			(s.OpenedAt.Equal(latest.OpenedAt) && s.ID > latest.ID) {
			latest = s
		}
	}
	return latest
}
