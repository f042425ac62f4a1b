package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knbl-ai/content-planner-agent/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Mode:           config.ModeLocal,
		Port:           "0",
		LogLevel:       "error",
		LLMProvider:    config.ProviderMock,
		StorageBackend: config.BackendMemory,
		Routing:        true,
	}
}

func runRoot(t *testing.T, cfg *config.Config, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(&App{Config: cfg, IsInteractive: func() bool { return false }})
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	require.NoError(t, root.ExecuteContext(context.Background()))
	return out.String()
}

func TestChatPipedConversation(t *testing.T) {
	input := strings.Join([]string{
		"Help me plan Instagram content for a coffee shop",
		"/draft",
		"/save",
		"Show me an example post",
		"/examples",
		"/quit",
		"never sent",
	}, "\n")

	out := runRoot(t, testConfig(), input, "chat", "--session", "s1")

	assert.Contains(t, out, "GUIDELINE UPDATE:")
	assert.Contains(t, out, "- Help me plan Instagram content for a coffee shop")
	assert.Contains(t, out, "Guideline saved.")
	assert.Contains(t, out, "1. Show me an example post")
	assert.NotContains(t, out, "never sent")
	// no styling or prompt when stdin is piped
	assert.NotContains(t, out, "you> ")
}

func TestChatCommandsOnEmptySession(t *testing.T) {
	out := runRoot(t, testConfig(), "/draft\n/save\n/examples\n", "chat")

	assert.Contains(t, out, "No guideline draft yet.")
	assert.Contains(t, out, "Nothing to save yet.")
	assert.Contains(t, out, "No post examples yet.")
}

func TestChatFlagOverridesAreValidated(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd(&App{Config: testConfig()})
	root.SetArgs([]string{"chat", "--storage", "cassandra"})
	root.SetIn(strings.NewReader(""))
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestChatSingleNodeWithSQLite(t *testing.T) {
	cfg := testConfig()
	cfg.SQLitePath = ":memory:"

	out := runRoot(t, cfg, "Keep captions short\n/draft\n", "chat", "--storage", "sqlite", "--routing=false", "--session", "s1")
	assert.Contains(t, out, "- Keep captions short")
}
