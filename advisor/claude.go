// Package advisor asks a language model for free-form commentary on a ranked
// product batch.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"liquorland-scraper/models"
	"liquorland-scraper/utils"
)

const systemPrompt = `Analyze these products and rank them by value, considering:
1. Base price per 100ml
2. Any promotional offers
3. Pack sizes and bulk discounts
Return a ranked list from best value to least.`

var errEmptyCompletion = errors.New("advisor: empty completion")

// Config configures a ClaudeAdvisor.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	// BaseURL overrides the API endpoint; empty means the default.
	BaseURL    string
	MaxRetries int
}

// ClaudeAdvisor implements services.Advisor with the Anthropic Messages API.
type ClaudeAdvisor struct {
	client anthropic.Client
	cfg    Config
	logger *utils.Logger
}

// NewClaudeAdvisor creates an advisor. The API key is required.
func NewClaudeAdvisor(cfg Config, logger *utils.Logger) (*ClaudeAdvisor, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("advisor: API key is required")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &ClaudeAdvisor{
		client: anthropic.NewClient(opts...),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Explain sends the batch as JSON and returns the model's text answer.
func (a *ClaudeAdvisor) Explain(ctx context.Context, products []*models.Product) (string, error) {
	payload, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return "", fmt.Errorf("advisor: encode products: %w", err)
	}

	a.logger.Debug("[advisor] Requesting commentary for %d products from %s", len(products), a.cfg.Model)

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.cfg.Model),
		MaxTokens:   int64(a.cfg.MaxTokens),
		Temperature: anthropic.Float(a.cfg.Temperature),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(string(payload))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("advisor: messages request: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errEmptyCompletion
	}
	return text, nil
}
