package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const (
	ProviderMock   = "mock"
	ProviderVertex = "vertex"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"

	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
	BackendBadger    = "badger"
)

const envPrefix = "CONTENT_PLANNER_"

type Config struct {
	Mode Mode

	Port     string
	LogLevel string

	LLMProvider     string // "mock", "vertex", "gemini" or "ollama"
	GCPProjectID    string
	GCPLocation     string
	GeminiAPIKey    string
	ModelName       string
	Temperature     float64
	MaxOutputTokens int
	OllamaEndpoint  string
	OllamaModel     string

	StorageBackend string // "memory", "firestore", "sqlite" or "badger"
	SQLitePath     string
	BadgerDir      string
	SessionTTL     time.Duration
	MaxSessions    int

	// Routing enables the intent router; false runs every turn through
	// the guidelines handler.
	Routing     bool
	AppInfoPath string
}

func getEnv(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return n, nil
}

func getFloatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return f, nil
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return d, nil
}

// Load reads all env vars and builds the config
func Load() (*Config, error) {
	modeStr := getEnv("MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	defaultProvider := ProviderMock
	if mode == ModeGCP {
		defaultProvider = ProviderVertex
	}

	cfg := &Config{
		Mode: mode,

		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LLMProvider:    getEnv("LLM_PROVIDER", defaultProvider),
		GCPProjectID:   getEnv("GCP_PROJECT", ""),
		GCPLocation:    getEnv("GCP_LOCATION", "us-central1"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		ModelName:      getEnv("MODEL_NAME", "gemini-2.5-flash"),
		OllamaEndpoint: getEnv("OLLAMA_ENDPOINT", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "llama3.2"),

		StorageBackend: getEnv("STORAGE_BACKEND", BackendMemory),
		SQLitePath:     getEnv("SQLITE_PATH", "content-planner.db"),
		BadgerDir:      getEnv("BADGER_DIR", "content-planner-data"),

		Routing:     getBoolEnv("ROUTING", true),
		AppInfoPath: getEnv("APP_INFO_PATH", ""),
	}

	var err error
	if cfg.Temperature, err = getFloatEnv("TEMPERATURE", 0.7); err != nil {
		return nil, err
	}
	if cfg.MaxOutputTokens, err = getIntEnv("MAX_OUTPUT_TOKENS", 8192); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDurationEnv("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.MaxSessions, err = getIntEnv("MAX_SESSIONS", 4096); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations that cannot start.
func (c *Config) Validate() error {
	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		return fmt.Errorf("%sGCP_PROJECT must be set in gcp mode", envPrefix)
	}

	switch c.LLMProvider {
	case ProviderMock, ProviderOllama:
	case ProviderVertex:
		if c.GCPProjectID == "" || c.GCPLocation == "" {
			return fmt.Errorf("%sGCP_PROJECT and %sGCP_LOCATION are required for the vertex provider", envPrefix, envPrefix)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%sGEMINI_API_KEY is required for the gemini provider", envPrefix)
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLMProvider)
	}

	switch c.StorageBackend {
	case BackendMemory:
	case BackendFirestore:
		if c.GCPProjectID == "" {
			return fmt.Errorf("%sGCP_PROJECT is required for the firestore backend", envPrefix)
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%sSQLITE_PATH is required for the sqlite backend", envPrefix)
		}
	case BackendBadger:
		if c.BadgerDir == "" {
			return fmt.Errorf("%sBADGER_DIR is required for the badger backend", envPrefix)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if c.SessionTTL < 0 {
		return fmt.Errorf("%sSESSION_TTL must not be negative", envPrefix)
	}
	return nil
}
