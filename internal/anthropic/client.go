package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
)

// Messager is the subset of the SDK client we use.
type Messager interface {
	New(ctx context.Context, params sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Client generates text through the Anthropic Messages API.
type Client struct {
	apiKey   string
	model    string
	messages Messager
}

// NewClient returns a client for model. Retries are left to the SDK defaults;
// callers bound the total time through ctx.
func NewClient(apiKey, model string, opts ...option.RequestOption) *Client {
	c := &Client{apiKey: apiKey, model: model}
	c.messages = newMessages(apiKey, opts...)
	return c
}

func newMessages(apiKey string, opts ...option.RequestOption) Messager {
	client := sdk.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &client.Messages
}

// SetTestTransport points the client at a test server and disables retries.
func (c *Client) SetTestTransport(baseURL string) {
	c.messages = newMessages(c.apiKey, option.WithBaseURL(baseURL), option.WithMaxRetries(0))
}

// Model reports the configured model id.
func (c *Client) Model() string {
	return c.model
}

// Generate sends one system+user exchange and returns the concatenated text blocks.
func (c *Client) Generate(ctx context.Context, req predictor.GenerationRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   int64(maxTokens),
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt))},
		Temperature: sdk.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	resp, err := c.messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("empty response content")
	}
	return sb.String(), nil
}
