package share

import (
	"fmt"
	"net/url"
)

// Param is the canonical query parameter carrying a document identifier
// in shareable links.
const Param = "docId"

// Encode returns an absolute shareable URL for the document: the base
// location with the single docId parameter set. Encoding the decoded
// value of a link reproduces an equivalent link.
func Encode(base, documentID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	q := u.Query()
	q.Set(Param, documentID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Decode extracts the document identifier from a raw query string.
// The second return is false when the parameter is absent or empty.
func Decode(rawQuery string) (string, bool) {
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", false
	}
	id := q.Get(Param)
	return id, id != ""
}

// DecodeURL extracts the document identifier from a full URL.
func DecodeURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	return Decode(u.RawQuery)
}
