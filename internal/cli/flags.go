package cli

import (
	"github.com/spf13/pflag"

	"github.com/knbl-ai/content-planner-agent/internal/config"
)

// runtimeFlags are the overrides shared by serve and chat.
type runtimeFlags struct {
	storage  string
	provider string
	routing  bool
}

func (f *runtimeFlags) register(fs *pflag.FlagSet, cfg *config.Config) {
	fs.StringVar(&f.storage, "storage", cfg.StorageBackend, "Storage backend (memory, firestore, sqlite, badger)")
	fs.StringVar(&f.provider, "llm", cfg.LLMProvider, "LLM provider (mock, vertex, gemini, ollama)")
	fs.BoolVar(&f.routing, "routing", cfg.Routing, "Route turns by intent; false sends every turn to the guideline drafter")
}

// apply copies explicitly set flags onto cfg and re-validates it.
func (f *runtimeFlags) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("storage") {
		cfg.StorageBackend = f.storage
	}
	if fs.Changed("llm") {
		cfg.LLMProvider = f.provider
	}
	if fs.Changed("routing") {
		cfg.Routing = f.routing
	}
	return cfg.Validate()
}
