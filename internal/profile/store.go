package profile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/kalambet/commitcoach/internal/errs"
)

// Store reads and writes the profile JSON file at a fixed path.
type Store struct {
	Path string
}

// NewStore creates a Store for the given file path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the persisted profile. A missing file returns (nil, nil).
// A file that cannot be parsed returns a ProfileCorrupt error; callers
// treat that as "no profile, rebuild needed" rather than a crash.
func (s *Store) Load() (*Profile, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.Wrap(errs.PersistenceError, "reading profile", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errs.Wrap(errs.ProfileCorrupt, "parsing profile", err)
	}
	if p.Repos == nil {
		p.Repos = make(map[string]RepoProfile)
	}
	return &p, nil
}

// Save persists the profile atomically: the JSON is written to a temporary
// file and renamed over the target, so a concurrent reader never observes
// a half-written profile.
func (s *Store) Save(p *Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errs.Wrap(errs.PersistenceError, "encoding profile", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.PersistenceError, "creating profile directory", err)
		}
	}
	if err := atomic.WriteFile(s.Path, bytes.NewReader(data)); err != nil {
		return errs.Wrap(errs.PersistenceError, "writing profile", err)
	}
	return nil
}
