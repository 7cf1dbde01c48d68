package translate

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// completer backed by Google Gemini
type geminiCompleter struct {
	client *genai.Client
	model  string
}

func newGeminiCompleter(
	ctx context.Context,
	apiKey, model string,
) (*geminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Gemini client")
	}

	if model == "" {
		model = defaultGeminiModel
	}

	return &geminiCompleter{client: client, model: model}, nil
}

func (c *geminiCompleter) complete(ctx context.Context, prompt string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", err
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", errors.New("empty response from Gemini")
	}

	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text in Gemini response")
	}

	return sb.String(), nil
}
