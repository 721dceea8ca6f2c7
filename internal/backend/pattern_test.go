package backend

import (
	"context"
	"strings"
	"testing"

	"github.com/kalambet/commitcoach/internal/coach"
)

func patternResult(t *testing.T, diff *coach.Context) *Result {
	t.Helper()
	res, err := PatternModel{}.Generate(context.Background(), Request{Diff: diff})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Suggestions) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(res.Suggestions))
	}
	return res
}

func TestPatternDocsChange(t *testing.T) {
	res := patternResult(t, &coach.Context{
		Files:          []string{"README.md"},
		TotalAdditions: 120,
		TotalDeletions: 10,
		HasChanges:     true,
	})

	conventional := res.Suggestions[2].Text
	if !strings.HasPrefix(conventional, "docs") {
		t.Errorf("conventional suggestion = %q, want docs type", conventional)
	}
	if res.Source != SourceML {
		t.Errorf("Source = %v, want ml", res.Source)
	}
}

func TestPatternAuthKeywords(t *testing.T) {
	res := patternResult(t, &coach.Context{
		Files:          []string{"auth.py", "login.py"},
		TotalAdditions: 45,
		TotalDeletions: 3,
		HasChanges:     true,
	})

	if !strings.Contains(res.Suggestions[0].Text, "auth") {
		t.Errorf("concise suggestion = %q, want auth target from keywords", res.Suggestions[0].Text)
	}
}

func TestPatternRefactorOnDeletionHeavyDiff(t *testing.T) {
	res := patternResult(t, &coach.Context{
		Files:          []string{"legacy.c", "old.c"},
		TotalAdditions: 10,
		TotalDeletions: 50,
		HasChanges:     true,
	})

	// 50 deletions vs 10 additions scores refactor highest.
	if !strings.HasPrefix(res.Suggestions[2].Text, "refactor") {
		t.Errorf("conventional suggestion = %q, want refactor type", res.Suggestions[2].Text)
	}
}

func TestPatternScopeFromCommonDir(t *testing.T) {
	res := patternResult(t, &coach.Context{
		Files:          []string{"pkg/server/a.go", "pkg/server/b.go"},
		TotalAdditions: 30,
		TotalDeletions: 2,
		HasChanges:     true,
	})

	if !strings.Contains(res.Suggestions[2].Text, "(server)") {
		t.Errorf("conventional suggestion = %q, want (server) scope", res.Suggestions[2].Text)
	}
}

func TestPatternDeterministic(t *testing.T) {
	diff := &coach.Context{
		Files:          []string{"api/routes.py", "api/handlers.py", "auth.py", "settings.py"},
		TotalAdditions: 80,
		TotalDeletions: 40,
		HasChanges:     true,
	}

	first := patternResult(t, diff)
	for i := 0; i < 10; i++ {
		again := patternResult(t, diff)
		for j := range first.Suggestions {
			if again.Suggestions[j] != first.Suggestions[j] {
				t.Fatalf("run %d suggestion %d = %+v, first run %+v",
					i, j, again.Suggestions[j], first.Suggestions[j])
			}
		}
	}
}

func TestPatternEmptyDiff(t *testing.T) {
	res := patternResult(t, nil)
	if res.Suggestions[0].Text == "" {
		t.Error("empty diff produced an empty suggestion")
	}
}
