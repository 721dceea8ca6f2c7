package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Session records one coaching invocation: the draft, the backend that
// answered, and the suggestions it produced. Feedback is empty until the
// user grades the session.
type Session struct {
	ID              string
	CreatedAt       time.Time
	RepoPath        string
	RepoName        string
	Draft           string
	Backend         string
	Source          string
	SuggestionsJSON string // JSON array stored as text
	Feedback        string // "", "good", or "bad"
}
