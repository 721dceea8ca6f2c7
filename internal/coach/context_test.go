package coach

import (
	"strings"
	"testing"
)

func TestParseNumstat(t *testing.T) {
	out := "5\t1\tauth.py\n12\t0\tapi/routes.py\n-\t-\tassets/logo.png\n"
	c := parseNumstat(out)

	if !c.HasChanges {
		t.Fatal("HasChanges = false for non-empty numstat")
	}
	if len(c.Files) != 3 {
		t.Fatalf("Files = %v, want 3 entries", c.Files)
	}
	if c.TotalAdditions != 17 || c.TotalDeletions != 1 {
		t.Errorf("totals = +%d/-%d, want +17/-1", c.TotalAdditions, c.TotalDeletions)
	}
}

func TestParseNumstatEmpty(t *testing.T) {
	c := parseNumstat("")
	if c.HasChanges {
		t.Error("HasChanges = true for empty numstat")
	}
	if c.Summary() != "No changes detected" {
		t.Errorf("Summary = %q", c.Summary())
	}
}

func TestSummaryTruncatesFileList(t *testing.T) {
	c := &Context{
		Files:          []string{"a", "b", "c", "d", "e", "f", "g"},
		TotalAdditions: 10,
		TotalDeletions: 2,
		HasChanges:     true,
	}
	s := c.Summary()
	if !strings.HasPrefix(s, "Changes: 7 files, +10/-2 lines") {
		t.Errorf("Summary = %q", s)
	}
	if strings.Contains(s, "f,") || strings.HasSuffix(s, "g") {
		t.Errorf("Summary %q lists more than 5 files", s)
	}
}
