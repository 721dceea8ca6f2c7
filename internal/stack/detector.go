// Package stack infers a repository's technology stack and a shallow
// structural summary. Detection is bounded to two directory levels so that
// large monorepos stay cheap to scan.
package stack

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	maxTags  = 3
	maxDirs  = 10
	maxDepth = 2
	// extThreshold is the number of occurrences an extension needs before
	// it counts as evidence of a language.
	extThreshold = 5
)

// Structure is a shallow summary of a repository's layout.
type Structure struct {
	TopDirs     []string `json:"top_dirs"`
	KeyFiles    []string `json:"key_files"`
	HasTestsDir bool     `json:"has_tests_dir"`
}

// manifestRule maps a technology to the manifest filenames that identify
// it. Rules are evaluated in slice order so detection is deterministic.
type manifestRule struct {
	tech      string
	manifests []string
}

var primaryRules = []manifestRule{
	{"python", []string{"requirements.txt", "pyproject.toml", "setup.py"}},
	{"javascript", []string{"package.json", "package-lock.json"}},
	{"rust", []string{"Cargo.toml", "Cargo.lock"}},
	{"java", []string{"pom.xml", "build.gradle"}},
	{"go", []string{"go.mod", "go.sum"}},
	{"csharp", []string{".csproj", "packages.config", "Directory.Packages.props"}},
	{"ruby", []string{"Gemfile", "Gemfile.lock"}},
	{"php", []string{"composer.json", "composer.lock"}},
	{"swift", []string{"Package.swift", "Podfile"}},
	{"kotlin", []string{"build.gradle.kts"}},
	{"elixir", []string{"mix.exs"}},
	{"scala", []string{"build.sbt"}},
	{"haskell", []string{"cabal.project", "package.yaml"}},
}

var (
	djangoMarkers = []string{"manage.py", "settings.py"}
	flaskMarkers  = []string{"app.py", "run.py"}
)

// extRule maps a file extension to a language for the frequency fallback.
// Evaluated in slice order for determinism.
type extRule struct {
	ext  string
	tech string
}

var extRules = []extRule{
	{".py", "python"}, {".js", "javascript"}, {".ts", "typescript"},
	{".rs", "rust"}, {".java", "java"}, {".go", "go"}, {".cs", "csharp"},
	{".rb", "ruby"}, {".php", "php"}, {".swift", "swift"}, {".kt", "kotlin"},
	{".ex", "elixir"}, {".exs", "elixir"}, {".scala", "scala"}, {".hs", "haskell"},
}

var keyFileNames = map[string]bool{
	"readme.md": true, "readme.txt": true, "readme.rst": true,
	"package.json": true, "setup.py": true, "cargo.toml": true,
	"pom.xml": true, "makefile": true, "dockerfile": true,
}

var testDirNames = map[string]bool{
	"tests": true, "test": true, "spec": true, "__tests__": true,
}

// Detector infers tech-stack tags and project structure.
type Detector struct{}

// Detect returns up to three technology tags for the repository at path,
// ordered by detection confidence: manifest matches first, then
// extension-frequency matches. Filesystem errors yield ["unknown"].
func (Detector) Detect(path string) []string {
	names, extCounts, err := shallowWalk(path)
	if err != nil {
		return []string{"unknown"}
	}

	var stack []string
	add := func(tech string) {
		for _, t := range stack {
			if t == tech {
				return
			}
		}
		stack = append(stack, tech)
	}

	for _, rule := range primaryRules {
		if !matchesAny(names, rule.manifests) {
			continue
		}
		add(rule.tech)

		switch rule.tech {
		case "python":
			if matchesAny(names, djangoMarkers) {
				add("django")
			} else if matchesAny(names, flaskMarkers) {
				add("flask")
			}
		case "javascript":
			refineJavaScript(path, names, add)
		case "java":
			if names["build.gradle.kts"] {
				add("kotlin")
			}
		}
	}

	// Secondary signal: extension frequency when no manifest matched.
	if len(stack) == 0 {
		for _, rule := range extRules {
			if extCounts[rule.ext] > extThreshold {
				add(rule.tech)
			}
		}
	}

	if names["cli.py"] || names["main.py"] || names["__main__.py"] {
		add("cli")
	}

	if len(stack) > maxTags {
		stack = stack[:maxTags]
	}
	return stack
}

// refineJavaScript appends react/typescript tags based on tsconfig presence
// and a substring check inside package.json. Parse failures are ignored;
// the primary javascript tag stands on its own.
func refineJavaScript(path string, names map[string]bool, add func(string)) {
	data, err := os.ReadFile(filepath.Join(path, "package.json"))
	if err == nil {
		var pkg map[string]any
		if json.Unmarshal(data, &pkg) == nil {
			content := strings.ToLower(string(data))
			if strings.Contains(content, "react") {
				add("react")
			}
			if strings.Contains(content, "typescript") || names["tsconfig.json"] {
				add("typescript")
			}
			return
		}
	}
	if names["tsconfig.json"] {
		add("typescript")
	}
}

// Structure summarizes the top-level layout of the repository at path.
// Filesystem errors yield an empty summary.
func (Detector) Structure(path string) Structure {
	entries, err := os.ReadDir(path)
	if err != nil {
		return Structure{TopDirs: []string{}, KeyFiles: []string{}}
	}

	s := Structure{TopDirs: []string{}, KeyFiles: []string{}}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			s.TopDirs = append(s.TopDirs, name)
			if testDirNames[strings.ToLower(name)] {
				s.HasTestsDir = true
			}
		} else if keyFileNames[strings.ToLower(name)] {
			s.KeyFiles = append(s.KeyFiles, name)
		}
	}

	sort.Strings(s.TopDirs)
	if len(s.TopDirs) > maxDirs {
		s.TopDirs = s.TopDirs[:maxDirs]
	}
	return s
}

// shallowWalk collects filenames and extension counts down to maxDepth
// levels below root.
func shallowWalk(root string) (names map[string]bool, extCounts map[string]int, err error) {
	if _, err := os.Stat(root); err != nil {
		return nil, nil, err
	}

	names = make(map[string]bool)
	extCounts = make(map[string]int)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, keep what we have.
			if path == root {
				return err
			}
			return fs.SkipDir
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fs.SkipDir
		}
		if d.IsDir() {
			// A directory N separators below root sits at level N+1;
			// stop descending once two levels are covered.
			if rel != "." && strings.Count(rel, string(os.PathSeparator))+1 >= maxDepth {
				return fs.SkipDir
			}
			return nil
		}
		names[d.Name()] = true
		if ext := strings.ToLower(filepath.Ext(d.Name())); ext != "" {
			extCounts[ext]++
		}
		return nil
	})
	if walkErr != nil {
		return nil, nil, walkErr
	}
	return names, extCounts, nil
}

// matchesAny reports whether any of the manifest names is present. Names
// beginning with a dot (".csproj") match as suffixes.
func matchesAny(names map[string]bool, manifests []string) bool {
	for _, m := range manifests {
		if names[m] {
			return true
		}
		if strings.HasPrefix(m, ".") {
			for name := range names {
				if strings.HasSuffix(name, m) {
					return true
				}
			}
		}
	}
	return false
}
