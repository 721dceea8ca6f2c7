package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "scan.dev_paths", typ: kString, env: "COMMITCOACH_SCAN_DEV_PATHS",
		apply:   func(cfg *Config, v any) { cfg.Scan.DevPaths = splitList(v.(string)) },
		extract: func(cfg Config) any { return joinList(cfg.Scan.DevPaths) },
	},
	{
		key: "scan.max_repos", typ: kInt, env: "COMMITCOACH_SCAN_MAX_REPOS",
		apply:   func(cfg *Config, v any) { cfg.Scan.MaxRepos = v.(int) },
		extract: func(cfg Config) any { return cfg.Scan.MaxRepos },
	},
	{
		key: "scan.sample_size", typ: kInt, env: "COMMITCOACH_SCAN_SAMPLE_SIZE",
		apply:   func(cfg *Config, v any) { cfg.Scan.SampleSize = v.(int) },
		extract: func(cfg Config) any { return cfg.Scan.SampleSize },
	},
	{
		key: "scan.workers", typ: kInt, env: "COMMITCOACH_SCAN_WORKERS",
		apply:   func(cfg *Config, v any) { cfg.Scan.Workers = v.(int) },
		extract: func(cfg Config) any { return cfg.Scan.Workers },
	},
	{
		key: "coach.backend", typ: kString, env: "COMMITCOACH_COACH_BACKEND",
		apply:   func(cfg *Config, v any) { cfg.Coach.Backend = v.(string) },
		extract: func(cfg Config) any { return cfg.Coach.Backend },
	},
	{
		key: "ollama.base_url", typ: kString, env: "COMMITCOACH_OLLAMA_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.BaseURL },
	},
	{
		key: "ollama.model", typ: kString, env: "COMMITCOACH_OLLAMA_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.Model },
	},
	{
		key: "cloud.api_key", typ: kString, env: "COMMITCOACH_CLOUD_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Cloud.APIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Cloud.APIKey },
	},
	{
		key: "cloud.model", typ: kString, env: "COMMITCOACH_CLOUD_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Cloud.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Cloud.Model },
	},
	{
		key: "storage.data_dir", typ: kString, env: "COMMITCOACH_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "profile.path", typ: kString, env: "COMMITCOACH_PROFILE_PATH",
		apply:   func(cfg *Config, v any) { cfg.Profile.Path = v.(string) },
		extract: func(cfg Config) any { return cfg.Profile.Path },
	},
	{
		key: "log.level", typ: kString, env: "COMMITCOACH_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
