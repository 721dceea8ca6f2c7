package config

import (
	"errors"
	"testing"
)

var errNotFound = errors.New("not found")

// mockKeychain is a test double for the keychain interface.
type mockKeychain struct {
	value string
	err   error
}

func (m mockKeychain) Get(service, account string) (string, error) {
	return m.value, m.err
}

// mapBackend is an in-memory ConfigBackend for tests.
type mapBackend map[string]any

func (b mapBackend) GetString(key string) (string, bool, error) {
	v, ok := b[key]
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (b mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := b[key]
	if !ok {
		return 0, false, nil
	}
	return v.(int), true, nil
}

func (b mapBackend) SetString(key, val string) error   { b[key] = val; return nil }
func (b mapBackend) SetInt(key string, val int) error  { b[key] = val; return nil }
func (b mapBackend) Delete(key string) error           { delete(b, key); return nil }

func TestDefaults(t *testing.T) {
	t.Setenv("COMMITCOACH_CLOUD_API_KEY", "")

	cfg, err := loadWith(mapBackend{}, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Scan.MaxRepos != 10 {
		t.Errorf("Scan.MaxRepos = %d, want 10", cfg.Scan.MaxRepos)
	}
	if cfg.Scan.SampleSize != 50 {
		t.Errorf("Scan.SampleSize = %d, want 50", cfg.Scan.SampleSize)
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("Scan.Workers = %d, want 4", cfg.Scan.Workers)
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("Ollama.BaseURL = %q", cfg.Ollama.BaseURL)
	}
	if cfg.Cloud.Model != "meta-llama/Llama-3-70b-chat-hf" {
		t.Errorf("Cloud.Model = %q", cfg.Cloud.Model)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Profile.Path == "" {
		t.Error("Profile.Path default is empty")
	}
}

// TestMissingCloudKeyNotFatal: the cloud backend is optional, so loading
// must succeed with no API key anywhere.
func TestMissingCloudKeyNotFatal(t *testing.T) {
	t.Setenv("COMMITCOACH_CLOUD_API_KEY", "")

	cfg, err := loadWith(mapBackend{}, mockKeychain{err: errNotFound})
	if err != nil {
		t.Fatalf("Load without API key failed: %v", err)
	}
	if cfg.Cloud.APIKey != "" {
		t.Errorf("Cloud.APIKey = %q, want empty", cfg.Cloud.APIKey)
	}
}

func TestBackendValues(t *testing.T) {
	t.Setenv("COMMITCOACH_SCAN_MAX_REPOS", "")
	t.Setenv("COMMITCOACH_COACH_BACKEND", "")

	b := mapBackend{
		"scan.max_repos": 25,
		"coach.backend":  "local",
		"ollama.model":   "codellama",
	}
	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Scan.MaxRepos != 25 {
		t.Errorf("Scan.MaxRepos = %d, want 25", cfg.Scan.MaxRepos)
	}
	if cfg.Coach.Backend != "local" {
		t.Errorf("Coach.Backend = %q, want local", cfg.Coach.Backend)
	}
	if cfg.Ollama.Model != "codellama" {
		t.Errorf("Ollama.Model = %q, want codellama", cfg.Ollama.Model)
	}
}

// TestEnvOverride verifies that environment variables override backend values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("COMMITCOACH_OLLAMA_BASE_URL", "http://custom:11434")
	t.Setenv("COMMITCOACH_SCAN_MAX_REPOS", "3")

	b := mapBackend{"ollama.base_url": "http://backend:11434"}
	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Ollama.BaseURL != "http://custom:11434" {
		t.Errorf("Ollama.BaseURL = %q, want env override", cfg.Ollama.BaseURL)
	}
	if cfg.Scan.MaxRepos != 3 {
		t.Errorf("Scan.MaxRepos = %d, want 3", cfg.Scan.MaxRepos)
	}
}

func TestDevPathsList(t *testing.T) {
	joined := joinList([]string{"/home/dev/work", "/home/dev/oss"})
	t.Setenv("COMMITCOACH_SCAN_DEV_PATHS", joined)

	cfg, err := loadWith(mapBackend{}, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"/home/dev/work", "/home/dev/oss"}
	if len(cfg.Scan.DevPaths) != len(want) {
		t.Fatalf("DevPaths = %v, want %v", cfg.Scan.DevPaths, want)
	}
	for i := range want {
		if cfg.Scan.DevPaths[i] != want[i] {
			t.Errorf("DevPaths[%d] = %q, want %q", i, cfg.Scan.DevPaths[i], want[i])
		}
	}
}

// TestKeychainFallback verifies the secret store is consulted when no API
// key is in the backend or environment.
func TestKeychainFallback(t *testing.T) {
	t.Setenv("COMMITCOACH_CLOUD_API_KEY", "")

	cfg, err := loadWith(mapBackend{}, mockKeychain{value: "keychain-secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cloud.APIKey != "keychain-secret" {
		t.Errorf("Cloud.APIKey = %q, want keychain-secret", cfg.Cloud.APIKey)
	}
}

func TestSecretNotSettable(t *testing.T) {
	if err := SetKey("cloud.api_key", "x"); err == nil {
		t.Error("SetKey on a secret returned nil error")
	}
}

func TestShowAllOmitsSecrets(t *testing.T) {
	cfg, err := loadWith(mapBackend{}, mockKeychain{value: "keychain-secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, k := range ShowAll(cfg) {
		if k.Key == "cloud.api_key" {
			t.Error("ShowAll exposed the cloud API key")
		}
		if k.Value == "keychain-secret" {
			t.Errorf("ShowAll leaked the secret under key %s", k.Key)
		}
	}
}

func TestValidKeysMatchSpecs(t *testing.T) {
	keys := ValidKeys()
	if len(keys) == 0 {
		t.Fatal("ValidKeys returned nothing")
	}
	for _, k := range keys {
		if k == "cloud.api_key" {
			t.Error("ValidKeys listed a secret key")
		}
	}
	if err := SetKey(keys[0]+".bogus", "x"); err == nil {
		t.Error("SetKey accepted an unknown key")
	}
}
