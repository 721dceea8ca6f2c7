package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kalambet/commitcoach/internal/errs"
	"github.com/kalambet/commitcoach/internal/style"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "profile.json"))

	p := &Profile{
		Global: GlobalStyle{AvgLength: 4.5, Mood: style.Imperative, UsesEmoji: true},
		Repos: map[string]RepoProfile{
			"api": {
				Path:      "/home/dev/api",
				TechStack: []string{"go", "cli"},
				CommitStyle: style.CommitStyle{
					AvgLength:      4.5,
					CommonPrefixes: []string{"feat", "fix"},
					CaseStyle:      style.Imperative,
					FreeformRatio:  0.25,
				},
				Habits: Habits{DefaultBranch: "main"},
			},
		},
		LastScan: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil profile after Save")
	}
	rp, ok := got.Repo("api")
	if !ok {
		t.Fatal("saved repo entry missing after round trip")
	}
	if rp.CommitStyle.FreeformRatio != 0.25 {
		t.Errorf("FreeformRatio = %v, want 0.25", rp.CommitStyle.FreeformRatio)
	}
	if !got.LastScan.Equal(p.LastScan) {
		t.Errorf("LastScan = %v, want %v", got.LastScan, p.LastScan)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "profile.json"))
	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}
	if p != nil {
		t.Errorf("Load of missing file = %+v, want nil", p)
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewStore(path).Load()
	if !errs.IsKind(err, errs.ProfileCorrupt) {
		t.Errorf("Load of corrupt file = %v, want ProfileCorrupt", err)
	}
}

func TestStoreLoadUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	data := `{"global":{"avg_length":3},"repos":{},"future_field":{"x":1}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load with unknown fields: %v", err)
	}
	if p.Global.AvgLength != 3 {
		t.Errorf("AvgLength = %v, want 3", p.Global.AvgLength)
	}
}
