package backend

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/kalambet/commitcoach/internal/coach"
)

// PatternModel scores the diff against commit-type patterns and renders
// three candidate messages: concise, detailed, and conventional. It is
// pure computation, always available, and fully deterministic.
type PatternModel struct{}

// commitTypes fixes the scoring iteration order so ties always resolve
// the same way.
var commitTypes = []string{"feat", "fix", "refactor", "docs", "test", "chore", "style", "perf"}

// extTypeRules map file extension fragments to commit types, checked in
// order so test markers win over language extensions.
var extTypeRules = []struct {
	fragment string
	typ      string
}{
	{".test.", "test"},
	{".spec.", "test"},
	{"_test.", "test"},
	{".md", "docs"},
	{".rst", "docs"},
	{".txt", "docs"},
	{".css", "style"},
	{".scss", "style"},
	{".less", "style"},
	{".json", "chore"},
	{".yaml", "chore"},
	{".toml", "chore"},
	{".lock", "chore"},
	{"Dockerfile", "chore"},
	{"Makefile", "chore"},
	{".py", "feat"},
	{".js", "feat"},
	{".ts", "feat"},
	{".jsx", "feat"},
	{".tsx", "feat"},
	{".java", "feat"},
	{".go", "feat"},
	{".rs", "feat"},
}

// keywordCategories group filename keywords into change areas; order is
// fixed so the primary category is stable.
var keywordCategories = []struct {
	name     string
	keywords []string
}{
	{"auth", []string{"login", "authentication", "session", "token", "password", "user", "permissions"}},
	{"api", []string{"endpoint", "route", "request", "response", "handler", "controller"}},
	{"database", []string{"query", "migration", "schema", "model", "orm", "sql"}},
	{"ui", []string{"component", "view", "template", "layout", "styling", "css"}},
	{"config", []string{"settings", "configuration", "environment", "dotenv", "parameters"}},
	{"security", []string{"validation", "sanitize", "encrypt", "hash", "csrf", "xss"}},
	{"performance", []string{"cache", "optimize", "index", "lazy", "async"}},
	{"logging", []string{"log", "debug", "error", "monitoring", "tracking"}},
	{"testing", []string{"test", "spec", "mock", "fixture", "assert", "coverage"}},
}

// actionsByType lists verbs per commit type: the first for addition-heavy
// changes, the second for deletion-heavy ones.
var actionsByType = map[string][]string{
	"feat":     {"add", "implement"},
	"fix":      {"fix", "resolve"},
	"refactor": {"refactor", "restructure"},
	"docs":     {"update", "document"},
	"test":     {"test", "verify"},
	"chore":    {"update", "maintain"},
	"style":    {"format", "style"},
	"perf":     {"optimize", "speed up"},
}

func (PatternModel) Name() string { return "pattern" }

func (PatternModel) Available(context.Context) bool { return true }

func (m PatternModel) Generate(_ context.Context, req Request) (*Result, error) {
	diff := req.Diff
	if diff == nil {
		diff = &coach.Context{}
	}

	keywords := matchKeywords(diff)
	typ := classify(diff, keywords)
	action := inferAction(typ, diff)
	target := inferTarget(diff, keywords)

	concise := fmt.Sprintf("%s %s", action, target)

	detailed := concise
	if d := inferDetail(diff); d != "" {
		detailed = fmt.Sprintf("%s %s", concise, d)
	}

	conventional := fmt.Sprintf("%s: %s", typ, concise)
	if scope := inferScope(diff); scope != "" && len(scope) < 20 {
		conventional = fmt.Sprintf("%s(%s): %s", typ, scope, concise)
	}

	return &Result{
		Suggestions: []coach.Suggestion{
			{Category: coach.CategoryMessage, Text: concise},
			{Category: coach.CategoryMessage, Text: detailed},
			{Category: coach.CategoryMessage, Text: conventional},
		},
		Model:  "Pattern Model",
		Source: SourceML,
	}, nil
}

// classify scores each commit type from file types, keywords, and change
// size, and returns the highest score with ties broken by commitTypes
// order.
func classify(diff *coach.Context, keywords []string) string {
	scores := make(map[string]int, len(commitTypes))

	seen := map[string]bool{}
	for _, f := range diff.Files {
		for _, rule := range extTypeRules {
			if strings.Contains(f, rule.fragment) && !seen[rule.fragment] {
				seen[rule.fragment] = true
				scores[rule.typ] += 3
			}
		}
	}

	for _, k := range keywords {
		switch k {
		case "testing":
			scores["test"] += 5
		case "auth", "security":
			scores["feat"] += 3
			scores["fix"] += 2
		case "performance":
			scores["perf"] += 5
		case "config":
			scores["chore"] += 3
		}
	}

	if diff.TotalDeletions > diff.TotalAdditions*2 {
		scores["refactor"] += 3
	}
	if diff.TotalAdditions > 100 {
		scores["feat"] += 2
	}
	if diff.TotalAdditions < 20 && diff.TotalDeletions < 20 {
		scores["fix"] += 2
	}

	best := commitTypes[0]
	bestScore := scores[best]
	for _, t := range commitTypes[1:] {
		if scores[t] > bestScore {
			best = t
			bestScore = scores[t]
		}
	}
	return best
}

func matchKeywords(diff *coach.Context) []string {
	text := strings.ToLower(strings.Join(diff.Files, " "))
	var out []string
	for _, cat := range keywordCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(text, kw) {
				out = append(out, cat.name)
				break
			}
		}
	}
	return out
}

func inferAction(typ string, diff *coach.Context) string {
	actions := actionsByType[typ]
	if len(actions) == 0 {
		return "update"
	}
	if diff.TotalDeletions > diff.TotalAdditions && len(actions) > 1 {
		return actions[1]
	}
	return actions[0]
}

func inferTarget(diff *coach.Context, keywords []string) string {
	if len(keywords) > 0 {
		return keywords[0]
	}
	switch n := len(diff.Files); {
	case n == 1:
		base := path.Base(diff.Files[0])
		if i := strings.LastIndex(base, "."); i > 0 {
			base = base[:i]
		}
		return base
	case n > 1:
		return fmt.Sprintf("%d files", n)
	}
	return "code"
}

func inferDetail(diff *coach.Context) string {
	if diff.TotalAdditions+diff.TotalDeletions > 100 {
		return fmt.Sprintf("(%d+ / %d- lines)", diff.TotalAdditions, diff.TotalDeletions)
	}
	if len(diff.Files) > 3 {
		return fmt.Sprintf("across %d files", len(diff.Files))
	}
	return ""
}

// inferScope uses the lone file's stem, or the deepest directory common
// to all changed files.
func inferScope(diff *coach.Context) string {
	switch n := len(diff.Files); {
	case n == 1:
		base := path.Base(diff.Files[0])
		if i := strings.LastIndex(base, "."); i > 0 {
			base = base[:i]
		}
		return base
	case n > 1:
		dirs := make([]string, n)
		for i, f := range diff.Files {
			dirs[i] = path.Dir(f)
		}
		sort.Strings(dirs)
		common := commonPrefix(dirs[0], dirs[n-1])
		if common == "" || common == "." {
			return ""
		}
		return path.Base(common)
	}
	return ""
}

func commonPrefix(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return strings.TrimRight(a[:i], "/")
}
