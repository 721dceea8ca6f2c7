// Package config loads settings from the platform-native backend,
// environment variables, and the platform secret store.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	Scan    ScanConfig
	Coach   CoachConfig
	Ollama  OllamaConfig
	Cloud   CloudConfig
	Storage StorageConfig
	Profile ProfileConfig
	Log     LogConfig
}

type ScanConfig struct {
	// DevPaths are the roots scanned for repositories, joined with the
	// platform list separator when stored as a single string.
	DevPaths   []string
	MaxRepos   int
	SampleSize int
	Workers    int
}

type CoachConfig struct {
	// Backend forces a coaching backend: "local", "cloud", "pattern",
	// or "heuristic". Empty selects automatically.
	Backend string
}

type OllamaConfig struct {
	BaseURL string
	// Model overrides automatic model selection when non-empty.
	Model string
}

type CloudConfig struct {
	APIKey string
	Model  string
}

type StorageConfig struct {
	DataDir string
}

type ProfileConfig struct {
	Path string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Scan: ScanConfig{
			DevPaths:   defaultDevPaths(),
			MaxRepos:   10,
			SampleSize: 50,
			Workers:    4,
		},
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
		},
		Cloud: CloudConfig{
			Model: "meta-llama/Llama-3-70b-chat-hf",
		},
		Storage: StorageConfig{
			DataDir: dataDir,
		},
		Profile: ProfileConfig{
			Path: filepath.Join(dataDir, "profile.json"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDevPaths lists the usual places people keep working trees; only
// directories that exist survive scanning, so overly broad defaults are
// harmless.
func defaultDevPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	var out []string
	for _, d := range []string{"dev", "projects", "code", "src"} {
		out = append(out, filepath.Join(home, d))
	}
	return out
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.commitcoach.app) and
// the cloud API key falls back to macOS Keychain.
// On Linux the backend is a JSON file at
// $XDG_CONFIG_HOME/commitcoach/config.json and secrets come from a
// secrets file or environment variables.
//
// Environment variables (COMMITCOACH_*) override backend values on all
// platforms. A missing cloud API key is not an error; it only disables
// the cloud backend.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts Keychain access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// Try platform keychain for the cloud API key if still empty.
	if cfg.Cloud.APIKey == "" {
		if key, err := kc.Get("commitcoach", "cloud_api_key"); err == nil && key != "" {
			cfg.Cloud.APIKey = key
		}
	}

	return cfg, nil
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// splitList splits a platform list-separated string into path entries.
func splitList(s string) []string {
	var out []string
	for _, p := range filepath.SplitList(s) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinList(paths []string) string {
	return strings.Join(paths, string(filepath.ListSeparator))
}
