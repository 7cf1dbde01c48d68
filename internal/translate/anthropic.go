package translate

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cockroachdb/errors"
)

// completer backed by Anthropic Claude
type anthropicCompleter struct {
	client anthropic.Client
	model  anthropic.Model
}

func newAnthropicCompleter(apiKey, model string) *anthropicCompleter {
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaudeHaiku4_5
	}
	return &anthropicCompleter{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
	}
}

func (c *anthropicCompleter) complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(
		ctx,
		anthropic.MessageNewParams{
			Model:     c.model,
			MaxTokens: 4096,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewTextBlock(prompt),
				),
			},
		},
	)
	if err != nil {
		return "", err
	}
	if message == nil || len(message.Content) == 0 {
		return "", errors.New("empty response from Anthropic")
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text in Anthropic response")
	}
	return sb.String(), nil
}
