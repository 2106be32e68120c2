package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/sahayhealth/sahay-backend/internal/domain/chat"
	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
)

// Client is the Gemini collaborator used by the pipeline: query embedding
// and conversational text generation. Both are treated as opaque services;
// failures propagate to the caller untouched.
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Generate(ctx context.Context, turns []chat.Turn, systemInstruction string) (string, error)
}

type Config struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type client struct {
	log        *logger.Logger
	genai      *genai.Client
	model      string
	embedModel string
}

// New reads configuration from the environment: GOOGLE_API_KEY (required),
// GEMINI_MODEL and GEMINI_EMBED_MODEL (optional).
func New(ctx context.Context, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg := Config{
		APIKey:     strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		Model:      strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
		EmbedModel: strings.TrimSpace(os.Getenv("GEMINI_EMBED_MODEL")),
	}
	return NewWithConfig(ctx, log, cfg)
}

func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing GOOGLE_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "text-embedding-004"
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &client{
		log:        log.With("client", "GeminiClient"),
		genai:      gc,
		model:      cfg.Model,
		embedModel: cfg.EmbedModel,
	}, nil
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := c.genai.Models.EmbedContent(ctx, c.embedModel, contents,
		&genai.EmbedContentConfig{
			TaskType: "RETRIEVAL_QUERY",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini embed failed: %w", err)
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embed returned no embedding")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) Generate(ctx context.Context, turns []chat.Turn, systemInstruction string) (string, error) {
	if len(turns) == 0 {
		return "", fmt.Errorf("at least one turn required")
	}

	contents := contentsFromTurns(turns)

	var cfg *genai.GenerateContentConfig
	if strings.TrimSpace(systemInstruction) != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		}
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}
	return text, nil
}

func contentsFromTurns(turns []chat.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		var role genai.Role = genai.RoleUser
		if t.Role == chat.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	return contents
}
