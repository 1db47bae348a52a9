package document

import "time"

// Document represents one stored markdown artifact.
type Document struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"owner_id"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Draft is an uncommitted new document. It lives outside the store until
// the first save promotes it; its placeholder ID is never inserted.
type Draft struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ListFilter controls which documents to return.
type ListFilter struct {
	OwnerID    string
	PublicOnly bool
	Limit      int
	Offset     int
}
