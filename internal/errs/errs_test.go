package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsKind(t *testing.T) {
	base := New(GitCommandError, "git log failed")
	if !IsKind(base, GitCommandError) {
		t.Error("IsKind(base, GitCommandError) = false, want true")
	}
	if IsKind(base, ScanError) {
		t.Error("IsKind(base, ScanError) = true, want false")
	}

	wrapped := fmt.Errorf("analyzing repo: %w", base)
	if !IsKind(wrapped, GitCommandError) {
		t.Error("IsKind should see through fmt.Errorf wrapping")
	}

	if IsKind(errors.New("plain"), GitCommandError) {
		t.Error("IsKind(plain error) = true, want false")
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(ProfileCorrupt, "parsing profile", errors.New("unexpected EOF"))
	got := err.Error()
	want := "PROFILE_CORRUPT: parsing profile: unexpected EOF"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if errors.Unwrap(err) == nil {
		t.Error("Unwrap returned nil for wrapped error")
	}
}
