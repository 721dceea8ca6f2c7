package storage

import (
	"fmt"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

// TestMigrationsOrdered verifies migrations are applied in ascending numeric order.
func TestMigrationsOrdered(t *testing.T) {
	s := openTestStore(t)

	versions, err := s.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(versions) == 0 {
		t.Fatal("no migrations applied")
	}
	for i := 1; i < len(versions); i++ {
		if versions[i] <= versions[i-1] {
			t.Errorf("versions out of order: %v", versions)
		}
	}
}

func testSession(id string, created time.Time) Session {
	return Session{
		ID:              id,
		CreatedAt:       created,
		RepoPath:        "/home/dev/api",
		RepoName:        "api",
		Draft:           "fix stuff",
		Backend:         "heuristic",
		Source:          "heuristic",
		SuggestionsJSON: `[{"category":"vague","text":"name what actually changed"}]`,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)

	created := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	if err := s.SaveSession(testSession("s1", created)); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, err := s.LatestOpenSession()
	if err != nil {
		t.Fatalf("LatestOpenSession: %v", err)
	}
	if got.ID != "s1" {
		t.Errorf("ID = %q, want s1", got.ID)
	}
	if got.Draft != "fix stuff" {
		t.Errorf("Draft = %q", got.Draft)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
}

func TestLatestOpenSessionSkipsGraded(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"s1", "s2", "s3"} {
		if err := s.SaveSession(testSession(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SetSessionFeedback("s3", "good"); err != nil {
		t.Fatalf("SetSessionFeedback: %v", err)
	}

	got, err := s.LatestOpenSession()
	if err != nil {
		t.Fatalf("LatestOpenSession: %v", err)
	}
	if got.ID != "s2" {
		t.Errorf("LatestOpenSession = %q, want s2 (newest ungraded)", got.ID)
	}
}

func TestLatestOpenSessionEmpty(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.LatestOpenSession(); err != ErrNotFound {
		t.Errorf("LatestOpenSession on empty db = %v, want ErrNotFound", err)
	}
}

func TestSetSessionFeedbackIsFinal(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveSession(testSession("s1", time.Now())); err != nil {
		t.Fatal(err)
	}

	if err := s.SetSessionFeedback("s1", "good"); err != nil {
		t.Fatalf("SetSessionFeedback: %v", err)
	}
	if err := s.SetSessionFeedback("s1", "bad"); err != ErrNotFound {
		t.Errorf("regrading returned %v, want ErrNotFound", err)
	}
	if err := s.SetSessionFeedback("missing", "good"); err != ErrNotFound {
		t.Errorf("grading unknown session returned %v, want ErrNotFound", err)
	}
}

func TestRecentSessionsOrderAndLimit(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		sess := testSession(fmt.Sprintf("s%d", i), base.Add(time.Duration(i)*time.Minute))
		if err := s.SaveSession(sess); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.RecentSessions(3)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d sessions, want 3", len(got))
	}
	want := []string{"s4", "s3", "s2"}
	for i, w := range want {
		if got[i].ID != w {
			t.Errorf("RecentSessions[%d] = %q, want %q", i, got[i].ID, w)
		}
	}
}
