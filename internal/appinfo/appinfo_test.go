package appinfo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knbl-ai/content-planner-agent/internal/appinfo"
)

func TestDefault(t *testing.T) {
	info, err := appinfo.Default()
	require.NoError(t, err)

	assert.Equal(t, "Content Planner", info["name"])
	assert.Contains(t, info, "features")
	assert.Contains(t, info, "faqs")
	assert.Contains(t, info.JSON(), `"name": "Content Planner"`)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: iGentity\nversion: 2.0.0\n"), 0o600))

	info, err := appinfo.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "iGentity", info["name"])
	assert.Equal(t, "2.0.0", info["version"])
}

func TestLoad_Errors(t *testing.T) {
	_, err := appinfo.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = appinfo.Parse([]byte(""))
	assert.Error(t, err)

	_, err = appinfo.Parse([]byte("name: [unclosed"))
	assert.Error(t, err)
}
