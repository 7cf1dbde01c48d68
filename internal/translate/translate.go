package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/zimu-subs/zimu/internal/subtitle"
)

// single text item to translate
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated text item
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// environment variable holding the provider's API key
func (p Provider) APIKeyEnv() string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "API_KEY"
	}
}

const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 3
)

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request (default 50)
}

// sends one prompt to a model and returns its text reply
type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
}

// Translator batches subtitle text into JSON prompts for an LLM provider
type Translator struct {
	provider  Provider
	completer completer
	options   Options
}

// creates Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (*Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, errors.New("target language is required")
	}
	if apiKey == "" {
		return nil, errors.WithHintf(
			errors.New("API key is required"),
			"pass --api-key or set %s",
			provider.APIKeyEnv(),
		)
	}

	var (
		c   completer
		err error
	)
	switch provider {
	case ProviderGemini:
		c, err = newGeminiCompleter(ctx, apiKey, opts.Model)
	case ProviderOpenAI:
		c = newOpenAICompleter(apiKey, opts.Model)
	case ProviderAnthropic:
		c = newAnthropicCompleter(apiKey, opts.Model)
	default:
		return nil, errors.Newf("unsupported translation provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	return newTranslator(provider, c, opts), nil
}

func newTranslator(provider Provider, c completer, opts Options) *Translator {
	return &Translator{provider: provider, completer: c, options: opts}
}

func (t *Translator) Provider() Provider {
	return t.provider
}

func (t *Translator) batchSize() int {
	if t.options.BatchSize > 0 {
		return t.options.BatchSize
	}
	return DefaultBatchSize
}

// Translate splits items into batches of BatchSize; each batch is one API
// request and at most concurrency requests run at once. The first failing
// batch cancels the rest.
func (t *Translator) Translate(
	ctx context.Context,
	items []TranslationItem,
	concurrency int,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	batches := splitBatches(items, t.batchSize())
	batchResults := make([][]TranslationResult, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			results, err := t.translateBatch(gctx, batch)
			if err != nil {
				return errors.Wrapf(err, "batch %d failed", i)
			}
			batchResults[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var allResults []TranslationResult
	for _, results := range batchResults {
		allResults = append(allResults, results...)
	}
	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})

	return allResults, nil
}

// TranslateBlocks returns a new track with the same timing as blocks and
// translated content. Line breaks travel through the model as \N.
func (t *Translator) TranslateBlocks(
	ctx context.Context,
	blocks []subtitle.Block,
	concurrency int,
) ([]subtitle.Block, error) {
	items := make([]TranslationItem, len(blocks))
	for i, block := range blocks {
		items[i] = TranslationItem{
			Index: i,
			Text:  strings.Join(block.Content, `\N`),
		}
	}

	results, err := t.Translate(ctx, items, concurrency)
	if err != nil {
		return nil, err
	}

	translated := make([]subtitle.Block, len(blocks))
	for i, block := range blocks {
		translated[i] = subtitle.Block{Start: block.Start, End: block.End}
	}
	for _, result := range results {
		text := strings.ReplaceAll(result.Text, "\n", `\N`)
		translated[result.Index].Content = strings.Split(text, `\N`)
	}

	return translated, nil
}

func (t *Translator) translateBatch(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	prompt := BuildPrompt(t.options, items)

	response, err := t.completer.complete(ctx, prompt)
	if err != nil {
		return nil, errors.Wrapf(err, "%s request failed", t.provider)
	}

	return parseResponse(response, items)
}

func splitBatches(items []TranslationItem, size int) [][]TranslationItem {
	var batches [][]TranslationItem
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder

	if opts.InputLanguage != "" {
		sb.WriteString(fmt.Sprintf(
			"Translate the following %s subtitle texts to %s.\n\n",
			opts.InputLanguage,
			opts.TargetLanguage,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Translate the following subtitle texts to %s.\n\n",
			opts.TargetLanguage,
		))
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Translate ONLY the text content, preserving the meaning.\n")
	sb.WriteString("2. Keep any override tags (like {\\pos}, {\\an}, {\\i1}) unchanged.\n")
	sb.WriteString("3. Preserve line breaks (\\N) in the same positions.\n")
	sb.WriteString("4. Return ONLY a JSON array of objects with 'index' and 'text' fields.\n")
	sb.WriteString("5. The 'index' values must match the input indices exactly.\n")
	sb.WriteString("6. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		sb.WriteString(fmt.Sprintf("Additional instructions: %s\n\n", opts.Prompt))
	}

	sb.WriteString("Input JSON:\n")
	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)
	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}
