package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/knbl-ai/content-planner-agent/internal/adapters/llm"
	badgerstore "github.com/knbl-ai/content-planner-agent/internal/adapters/storage/badger"
	firestorestore "github.com/knbl-ai/content-planner-agent/internal/adapters/storage/firestore"
	memstore "github.com/knbl-ai/content-planner-agent/internal/adapters/storage/memory"
	sqlitestore "github.com/knbl-ai/content-planner-agent/internal/adapters/storage/sqlite"
	"github.com/knbl-ai/content-planner-agent/internal/app/agentflow"
	"github.com/knbl-ai/content-planner-agent/internal/app/conversation"
	"github.com/knbl-ai/content-planner-agent/internal/app/guideline"
	"github.com/knbl-ai/content-planner-agent/internal/appinfo"
	"github.com/knbl-ai/content-planner-agent/internal/config"
	"github.com/knbl-ai/content-planner-agent/internal/domain"
	"github.com/knbl-ai/content-planner-agent/internal/observability"
)

// Runtime holds the wired services shared by the serve and chat commands.
type Runtime struct {
	Conversations *conversation.Service
	Guidelines    *guideline.Service

	closers []func() error
}

// Close releases storage handles.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Build wires the LLM client, stores and services selected by cfg.
func Build(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	log := observability.Logger()

	llmClient, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{}
	sessions, guidelines, err := rt.openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	info, err := appinfo.Load(cfg.AppInfoPath)
	if err != nil {
		rt.Close()
		return nil, err
	}

	var orchestrator *agentflow.Orchestrator
	if cfg.Routing {
		orchestrator = agentflow.NewDefaultOrchestrator(llmClient,
			agentflow.NewGuidelinesAgent(llmClient),
			agentflow.NewAppInfoAgent(llmClient, info),
			agentflow.NewPostExamplesAgent(llmClient),
		)
	} else {
		orchestrator = agentflow.NewOrchestrator(nil, agentflow.NewGuidelinesAgent(llmClient))
	}

	rt.Conversations = conversation.NewService(sessions, orchestrator)
	rt.Guidelines = guideline.NewService(guidelines)

	log.Info("runtime ready",
		"llm_provider", cfg.LLMProvider,
		"storage_backend", cfg.StorageBackend,
		"routing", cfg.Routing,
	)
	return rt, nil
}

func newLLMClient(ctx context.Context, cfg *config.Config) (domain.LLMClient, error) {
	log := observability.Logger()

	switch cfg.LLMProvider {
	case config.ProviderMock:
		log.Info("using mock LLM client")
		return llm.NewMockLLM(), nil
	case config.ProviderVertex, config.ProviderGemini:
		log.Info("using genai LLM client", "backend", cfg.LLMProvider, "model", cfg.ModelName)
		c, err := llm.NewGenAIClient(ctx, llm.GenAIConfig{
			Vertex:          cfg.LLMProvider == config.ProviderVertex,
			Project:         cfg.GCPProjectID,
			Location:        cfg.GCPLocation,
			APIKey:          cfg.GeminiAPIKey,
			Model:           cfg.ModelName,
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing genai client: %w", err)
		}
		return c, nil
	case config.ProviderOllama:
		log.Info("using ollama LLM client", "endpoint", cfg.OllamaEndpoint, "model", cfg.OllamaModel)
		return llm.NewOllamaClient(llm.OllamaConfig{
			Endpoint:    cfg.OllamaEndpoint,
			Model:       cfg.OllamaModel,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxOutputTokens,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

func (r *Runtime) openStores(ctx context.Context, cfg *config.Config) (domain.SessionStore, domain.GuidelineStore, error) {
	log := observability.Logger()

	switch cfg.StorageBackend {
	case config.BackendFirestore:
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		st, err := firestorestore.NewStore(ctx, cfg.GCPProjectID, cfg.SessionTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing firestore store: %w", err)
		}
		r.closers = append(r.closers, st.Close)
		// 1 store, implements 2 interfaces
		return st, st, nil

	case config.BackendSQLite:
		log.Info("using sqlite storage", "path", cfg.SQLitePath)
		db, err := sqlitestore.OpenDB(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		st := sqlitestore.NewStore(db, cfg.SessionTTL)
		r.closers = append(r.closers, st.Close)
		return st, st, nil

	case config.BackendBadger:
		log.Info("using badger storage", "dir", cfg.BadgerDir)
		st, err := badgerstore.Open(cfg.BadgerDir, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		r.closers = append(r.closers, st.Close)
		return st, st, nil

	default:
		log.Info("using in-memory storage", "ttl", cfg.SessionTTL.String(), "max_sessions", cfg.MaxSessions)
		sessions := memstore.NewSessionStore(
			memstore.WithTTL(cfg.SessionTTL),
			memstore.WithMaxSessions(cfg.MaxSessions),
		)
		return sessions, memstore.NewGuidelineStore(), nil
	}
}
