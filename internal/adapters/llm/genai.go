package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/knbl-ai/content-planner-agent/internal/domain"
)

// GenAIConfig selects the backend and generation parameters of a GenAIClient.
type GenAIConfig struct {
	// Vertex selects Vertex AI (Project/Location); otherwise the Gemini API
	// is used with APIKey.
	Vertex   bool
	Project  string
	Location string
	APIKey   string

	Model           string
	Temperature     float64
	MaxOutputTokens int
}

type GenAIClient struct {
	client    *genai.Client
	modelName string
	temp      float32
	maxTokens int32
}

// NewGenAIClient creates an LLMClient backed by Vertex AI or the Gemini API.
func NewGenAIClient(ctx context.Context, cfg GenAIConfig) (*GenAIClient, error) {
	cc := &genai.ClientConfig{}
	if cfg.Vertex {
		if cfg.Project == "" || cfg.Location == "" {
			return nil, fmt.Errorf("project and location are required for Vertex AI")
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	} else {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api key is required for the Gemini API")
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	return &GenAIClient{
		client:    client,
		modelName: modelName,
		temp:      float32(cfg.Temperature),
		maxTokens: int32(maxTokens),
	}, nil
}

// Complete implements domain.LLMClient.
func (c *GenAIClient) Complete(ctx context.Context, system string, turns []domain.Turn) (string, error) {
	contents := toContents(turns)
	if len(contents) == 0 {
		return "", fmt.Errorf("%w: no turns to send", domain.ErrInvalidInput)
	}

	temp := c.temp
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: c.maxTokens,
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	res, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("genai generate content: %w", err)
	}

	// Text concatenates the text parts of the first candidate and is empty
	// when the model returned no candidates at all.
	text := res.Text()
	if text == "" {
		return "", domain.ErrEmptyReply
	}
	return text, nil
}

func toContents(turns []domain.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := genai.Role(genai.RoleUser)
		if t.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}
	return contents
}
