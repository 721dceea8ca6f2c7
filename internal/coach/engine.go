package coach

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/kalambet/commitcoach/internal/profile"
	"github.com/kalambet/commitcoach/internal/style"
)

// Category labels what aspect of the draft a suggestion addresses.
type Category string

const (
	CategoryMessage Category = "message"
	CategoryVague   Category = "vague"
	CategoryLength  Category = "length"
	CategoryPrefix  Category = "prefix"
	CategoryVerb    Category = "verb"
	CategoryCase    Category = "case"
	CategoryEmoji   Category = "emoji"
	CategoryTypo    Category = "typo"
	CategoryOK      Category = "ok"
)

// Suggestion is one piece of coaching advice. For message synthesis the
// Text is the proposed commit message itself; otherwise it is a hint.
type Suggestion struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

var (
	vagueWords = []string{"stuff", "things", "updates", "changes", "fixes", "misc", "various"}

	actionVerbs = map[string]bool{
		"add": true, "fix": true, "update": true, "remove": true,
		"refactor": true, "docs": true, "test": true, "feat": true,
		"chore": true, "improve": true, "optimize": true,
	}

	typoFixes = map[string]string{
		"teh":        "the",
		"adn":        "and",
		"recieve":    "receive",
		"seperate":   "separate",
		"definately": "definitely",
	}

	conventionalRe = regexp.MustCompile(`^[a-z]+(\([^)]*\))?!?:\s?\S`)
)

// Engine runs the rule-based checks. The checks execute in a fixed order
// and every rule is a pure function of its inputs, so identical inputs
// always yield identical suggestions.
type Engine struct{}

// Suggest evaluates the draft against the diff context and the stored
// style. diff, repo, and global may each be nil; rules that depend on a
// missing input are skipped.
func (Engine) Suggest(draft string, diff *Context, repo *profile.RepoProfile, global *profile.GlobalStyle) []Suggestion {
	draft = strings.TrimSpace(draft)
	var out []Suggestion

	// An empty draft short-circuits: synthesize a message instead of
	// critiquing one that does not exist.
	if draft == "" {
		if diff != nil && diff.HasChanges {
			return []Suggestion{{Category: CategoryMessage, Text: synthesize(diff)}}
		}
		return []Suggestion{{Category: CategoryMessage, Text: "add a commit message describing the change"}}
	}

	lower := strings.ToLower(draft)
	words := strings.Fields(draft)
	vague := containsVagueWord(lower)
	short := len(words) < 3

	if vague {
		hint := "name what actually changed instead of vague words"
		if diff != nil && len(diff.Files) > 0 {
			hint = fmt.Sprintf("name what actually changed instead of vague words, e.g. mention %s", diff.Files[0])
		}
		out = append(out, Suggestion{Category: CategoryVague, Text: hint})
	}

	if short && !vague {
		out = append(out, Suggestion{Category: CategoryLength, Text: "message is very short, describe what changed and why"})
	}

	if repo != nil {
		conventional := conventionalRe.MatchString(draft)
		if repo.CommitStyle.FreeformRatio <= 0.8 {
			if !conventional {
				prefix := inferType(diff)
				if len(repo.CommitStyle.CommonPrefixes) > 0 {
					prefix = repo.CommitStyle.CommonPrefixes[0]
				}
				out = append(out, Suggestion{
					Category: CategoryPrefix,
					Text:     fmt.Sprintf("this repo favors prefixed messages, try: %s: %s", prefix, lower),
				})
			}
			if repo.CommitStyle.UsesEmoji && !style.HasEmoji(draft) {
				out = append(out, Suggestion{Category: CategoryEmoji, Text: "commits in this repo usually carry an emoji"})
			}
		} else if !short {
			// Freeform repos get no prefix advice; nudge for detail
			// unless the shortness rule already did.
			if len(words) < 5 {
				out = append(out, Suggestion{Category: CategoryLength, Text: "freeform style works here, but add a little more detail"})
			}
		}
	}

	if first := normalizeWord(words[0]); !actionVerbs[first] {
		out = append(out, Suggestion{
			Category: CategoryVerb,
			Text:     fmt.Sprintf("start with an action verb, e.g. %q", inferVerb(diff)),
		})
	}

	if runes := []rune(draft); len(runes) > 72 {
		out = append(out, Suggestion{
			Category: CategoryLength,
			Text:     fmt.Sprintf("subject exceeds 72 characters, shorten it: %s...", string(runes[:69])),
		})
	}

	if isUpper(rune(draft[0])) && !colonInHead(draft) && !conventionalRe.MatchString(draft) {
		out = append(out, Suggestion{
			Category: CategoryCase,
			Text:     fmt.Sprintf("lowercase the subject: %s", strings.ToLower(draft[:1])+draft[1:]),
		})
	}

	if repo != nil && repo.CommitStyle.AvgLength > 0 && float64(len(words)) < 0.5*repo.CommitStyle.AvgLength {
		out = append(out, Suggestion{
			Category: CategoryLength,
			Text:     fmt.Sprintf("your commits here average %.1f words, this one is much shorter", repo.CommitStyle.AvgLength),
		})
	}

	if fixed, ok := fixTypos(draft); ok {
		out = append(out, Suggestion{Category: CategoryTypo, Text: fmt.Sprintf("fix typos: %s", fixed)})
	}

	if len(out) == 0 {
		out = append(out, Suggestion{Category: CategoryOK, Text: "Looks good!"})
	}
	return out
}

// synthesize builds a conventional commit message from the diff alone.
func synthesize(diff *Context) string {
	typ := inferType(diff)
	verb := inferVerb(diff)

	target := stem(diff.Files[0])
	if n := len(diff.Files); n > 1 {
		target = fmt.Sprintf("%s and %d more files", target, n-1)
	}

	if scope := topDir(diff.Files[0]); scope != "" {
		return fmt.Sprintf("%s(%s): %s %s", typ, scope, verb, target)
	}
	return fmt.Sprintf("%s: %s %s", typ, verb, target)
}

// inferType picks a conventional-commit type from the shape of the diff:
// any touched test file means tests, any doc file means docs, net
// deletions look like refactors, small additions like fixes, larger ones
// features. A source file changed alongside its test still counts as a
// test change.
func inferType(diff *Context) string {
	if diff == nil || !diff.HasChanges {
		return "chore"
	}
	if anyFile(diff.Files, isTestFile) {
		return "test"
	}
	if anyFile(diff.Files, isDocFile) {
		return "docs"
	}
	if diff.TotalDeletions > diff.TotalAdditions {
		return "refactor"
	}
	if diff.TotalAdditions < 20 {
		return "fix"
	}
	return "feat"
}

// inferVerb picks the opening verb for a synthesized or corrected message.
func inferVerb(diff *Context) string {
	if diff == nil || !diff.HasChanges {
		return "update"
	}
	switch {
	case diff.TotalDeletions > diff.TotalAdditions:
		return "remove"
	case diff.TotalAdditions > diff.TotalDeletions:
		return "add"
	case anyFile(diff.Files, isTestFile):
		return "test"
	case anyFile(diff.Files, isDocFile):
		return "docs"
	}
	return "update"
}

func containsVagueWord(lower string) bool {
	for _, w := range strings.Fields(lower) {
		w = normalizeWord(w)
		for _, v := range vagueWords {
			if w == v {
				return true
			}
		}
	}
	return false
}

func fixTypos(draft string) (string, bool) {
	words := strings.Fields(draft)
	found := false
	for i, w := range words {
		if fix, ok := typoFixes[strings.ToLower(w)]; ok {
			words[i] = fix
			found = true
		}
	}
	return strings.Join(words, " "), found
}

func normalizeWord(w string) string {
	return strings.Trim(strings.ToLower(w), ":,.!")
}

func colonInHead(draft string) bool {
	head := draft
	if len(head) > 10 {
		head = head[:10]
	}
	return strings.Contains(head, ":")
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func anyFile(files []string, pred func(string) bool) bool {
	for _, f := range files {
		if pred(f) {
			return true
		}
	}
	return false
}

func isTestFile(f string) bool {
	base := strings.ToLower(path.Base(f))
	return strings.HasPrefix(base, "test_") ||
		strings.Contains(base, "_test.") ||
		strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") ||
		strings.HasPrefix(f, "tests/")
}

func isDocFile(f string) bool {
	base := strings.ToLower(path.Base(f))
	return strings.HasSuffix(base, ".md") ||
		strings.HasSuffix(base, ".rst") ||
		strings.HasSuffix(base, ".txt") ||
		strings.HasPrefix(f, "docs/")
}

func stem(f string) string {
	base := path.Base(f)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

func topDir(f string) string {
	if i := strings.IndexByte(f, '/'); i > 0 {
		return f[:i]
	}
	return ""
}
