package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeLocal, cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderMock, cfg.LLMProvider)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 4096, cfg.MaxSessions)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.True(t, cfg.Routing)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CONTENT_PLANNER_PORT", "9090")
	t.Setenv("CONTENT_PLANNER_ROUTING", "false")
	t.Setenv("CONTENT_PLANNER_STORAGE_BACKEND", "sqlite")
	t.Setenv("CONTENT_PLANNER_SQLITE_PATH", "/tmp/cp.db")
	t.Setenv("CONTENT_PLANNER_SESSION_TTL", "90m")
	t.Setenv("CONTENT_PLANNER_LLM_PROVIDER", "ollama")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.Routing)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, "/tmp/cp.db", cfg.SQLitePath)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, ProviderOllama, cfg.LLMProvider)
}

func TestLoad_GCPModeDefaultsToVertex(t *testing.T) {
	t.Setenv("CONTENT_PLANNER_MODE", "gcp")
	t.Setenv("CONTENT_PLANNER_GCP_PROJECT", "proj")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderVertex, cfg.LLMProvider)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"gcp without project", map[string]string{"CONTENT_PLANNER_MODE": "gcp"}},
		{"gemini without key", map[string]string{"CONTENT_PLANNER_LLM_PROVIDER": "gemini"}},
		{"unknown provider", map[string]string{"CONTENT_PLANNER_LLM_PROVIDER": "gpt"}},
		{"unknown backend", map[string]string{"CONTENT_PLANNER_STORAGE_BACKEND": "redis"}},
		{"firestore without project", map[string]string{"CONTENT_PLANNER_STORAGE_BACKEND": "firestore"}},
		{"bad ttl", map[string]string{"CONTENT_PLANNER_SESSION_TTL": "soon"}},
		{"bad temperature", map[string]string{"CONTENT_PLANNER_TEMPERATURE": "warm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
