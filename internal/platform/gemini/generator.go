package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/inception-api/internal/config"
	"github.com/phrazzld/inception-api/internal/generation"
	"google.golang.org/genai"
)

// GeminiGenerator implements generation.TextGenerator using Google's
// Gemini API. Each call is a single request; it never retries.
type GeminiGenerator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string

	// timeout caps each call when positive
	timeout time.Duration
}

var _ generation.TextGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new instance of GeminiGenerator.
//
// Parameters:
//   - ctx: Context for client construction
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing the API key and model name
//
// Returns:
//   - A ready GeminiGenerator or an error wrapping generation.ErrInvalidConfig
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return newGenerator(ctx, logger, cfg, &genai.ClientConfig{})
}

// newGenerator builds the client from cc, which may carry a custom HTTP
// client or base URL.
func newGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig, cc *genai.ClientConfig) (*GeminiGenerator, error) {
	cc.APIKey = cfg.GeminiAPIKey
	cc.Backend = genai.BackendGeminiAPI

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:  logger.With("component", "gemini", "model", cfg.ModelName),
		client:  client,
		model:   cfg.ModelName,
		timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}, nil
}

// validateConfig checks the settings required to reach the API.
func validateConfig(cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	return nil
}

// GenerateText sends the prompt to Gemini and returns the concatenated text
// of the first candidate. Failures are returned as *generation.ServiceError.
// Reviews can take minutes, so ctx alone bounds the call unless a request
// timeout is configured.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt generation.Prompt) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	started := time.Now()
	g.logger.InfoContext(ctx, "calling Gemini",
		"system_length", len(prompt.System),
		"prompt_length", len(prompt.User))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, userContent(prompt.User), requestConfig(prompt.System))
	if err != nil {
		svcErr := classifyError(err)
		g.logger.ErrorContext(ctx, "Gemini call failed",
			"error", svcErr,
			"code", svcErr.Code,
			"duration", time.Since(started))
		return "", svcErr
	}

	text, err := extractText(resp)
	if err != nil {
		g.logger.WarnContext(ctx, "Gemini returned no usable text", "error", err)
		return "", &generation.ServiceError{Details: detailsFor(err), Err: err}
	}

	g.logger.InfoContext(ctx, "Gemini call succeeded",
		"response_length", len(text),
		"duration", time.Since(started))
	return text, nil
}

func userContent(text string) []*genai.Content {
	return []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: text}},
	}}
}

func requestConfig(system string) *genai.GenerateContentConfig {
	temperature := float32(0.4)
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   reviewSchema,
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	return cfg
}

// reviewSchema constrains the model to the review document shape.
var reviewSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"item_reviews": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"position":     {Type: genai.TypeInteger},
					"strengths":    {Type: genai.TypeString},
					"improvements": {Type: genai.TypeString},
				},
				Required: []string{"position", "strengths", "improvements"},
			},
		},
		"overall_review": {Type: genai.TypeString},
	},
	Required: []string{"item_reviews", "overall_review"},
}
