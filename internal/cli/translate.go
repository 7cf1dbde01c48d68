package cli

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/zimu-subs/zimu/internal/subtitle"
	"github.com/zimu-subs/zimu/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate <subtitle_file>",
	Short: "Build the supplementary track by machine translation and merge it",
	Long: `Translate a subtitle file with an LLM provider and merge the original
(main) track with the translation (supplementary) into one bilingual ASS
document.

The translated track keeps the timing of the main track. ASS line breaks
(\N) are preserved through translation.

Examples:
  zimu translate movie.en.srt -m en -s zh -o movie.ass
  zimu translate movie.en.ass -m en -s ja --target-language Japanese --provider openai
  zimu translate movie.srt -m en -s de --provider anthropic --batch-size 20`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language named in the prompt (defaults to the supplementary tag)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	translateCmd.Flags().
		String("provider", "gemini", "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		String("prompt", "", "Additional instructions for the model")
	translateCmd.Flags().
		Int("concurrency", translate.DefaultConcurrency, "Number of parallel translation requests")
	translateCmd.Flags().
		Int("batch-size", translate.DefaultBatchSize, "Number of subtitle events per API request")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := cmd.Context()

	mainLang, supplementaryLang, err := languages()
	if err != nil {
		return err
	}

	writer, err := assWriter()
	if err != nil {
		return err
	}

	provider := translate.Provider(cfg.GetString("provider"))
	concurrency := cfg.GetInt("concurrency")
	batchSize := cfg.GetInt("batch-size")
	if concurrency <= 0 {
		return errors.Newf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return errors.Newf("batch-size must be positive, got %d", batchSize)
	}

	apiKey := cfg.GetString("api-key")
	if apiKey == "" {
		apiKey = os.Getenv(provider.APIKeyEnv())
	}

	targetLang := strings.TrimSpace(cfg.GetString("target-language"))
	if targetLang == "" {
		targetLang = supplementaryLang
	}

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		InputLanguage:  mainLang,
		TargetLanguage: targetLang,
		Model:          cfg.GetString("model"),
		Prompt:         cfg.GetString("prompt"),
		BatchSize:      batchSize,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create translator")
	}

	mainFile, err := loadTrack(subtitlePath)
	if err != nil {
		return err
	}
	if len(mainFile.Blocks) == 0 {
		return errors.Wrapf(subtitle.ErrMalformedStructure, "%s contains no events", subtitlePath)
	}

	logger.Infow("Translating subtitles",
		"provider", provider,
		"target_language", targetLang,
		"events", len(mainFile.Blocks),
		"batch_size", batchSize,
		"concurrency", concurrency,
	)

	translated, err := translator.TranslateBlocks(ctx, mainFile.Blocks, concurrency)
	if err != nil {
		return errors.Wrap(err, "translation failed")
	}

	tracks, err := subtitle.Merge(
		subtitle.Track{Language: mainLang, Blocks: mainFile.Blocks},
		subtitle.Track{Language: supplementaryLang, Blocks: translated},
		subtitle.DefaultMergeOptions(),
	)
	if err != nil {
		return err
	}

	return writeDocument(cmd, writer.Render(tracks))
}
