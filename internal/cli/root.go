package cli

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zimu-subs/zimu/internal/logging"
	"github.com/zimu-subs/zimu/internal/subtitle"
)

// set at build time with -ldflags "-X .../internal/cli.version=..."
var version = "dev"

var (
	logger *logging.Logger
	cfg    = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "zimu <main_subtitle> <supplementary_subtitle>",
	Short: "Merge two subtitle files into one bilingual ASS file",
	Long: `Zimu merges a main subtitle track and a supplementary track in another
language into a single Advanced SubStation Alpha document.

Each input may be SRT (.srt) or ASS/SSA (.ass, .ssa). The supplementary
track is shifted so its first event starts with the main track's first
event. The main track is drawn in white at the bottom of the screen and
the supplementary track in yellow above it.

Examples:
  zimu movie.en.srt movie.zh.ass -m en -s zh -o movie.ass
  zimu movie.en.srt movie.zh.srt -m en -s zh --offset 1.5s > movie.ass
  zimu movie.en.ass movie.ja.srt -m en -s ja --align=false`,
	Version:       version,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		logger = logging.NewLogger(cfg.GetBool("verbose"))
		return nil
	},
	RunE: runMerge,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.StringP("output-path", "o", "", "Output file path (stdout when empty)")
	flags.StringP("main-language", "m", "", "Language tag of the main track (e.g. en)")
	flags.StringP("supplementary-language", "s", "", "Language tag of the supplementary track (e.g. zh)")
	flags.StringP("encoding", "e", "auto", "Input character encoding (auto, utf-8, gbk, big5, shift_jis, ...)")
	flags.Bool("crlf", false, "Write CRLF line endings")
	flags.Bool("fix-line-endings", false, "Accept inputs with mixed CRLF and LF line endings")
	flags.Int("font-size", 18, "Font size of the generated styles")
	flags.String("font", "Arial", "Font for languages without a configured font")
	flags.String("config", "", "Config file (default $XDG_CONFIG_HOME/zimu/config.yaml or ~/.zimu.yaml)")

	rootCmd.Flags().Bool("align", true, "Shift the supplementary track to start with the main track")
	rootCmd.Flags().Duration("offset", 0, "Extra shift applied to the supplementary track (e.g. 1.5s, -200ms)")
	rootCmd.Flags().Bool("supplementary-first", false, "Emit the supplementary track as the first (bottom, white) layer")
}

func runMerge(cmd *cobra.Command, args []string) error {
	mainPath, supplementaryPath := args[0], args[1]

	mainLang, supplementaryLang, err := languages()
	if err != nil {
		return err
	}

	writer, err := assWriter()
	if err != nil {
		return err
	}

	logger.Infow("Loading subtitles",
		"main", mainPath,
		"supplementary", supplementaryPath,
		"encoding", cfg.GetString("encoding"),
	)

	mainFile, err := loadTrack(mainPath)
	if err != nil {
		return err
	}
	supplementaryFile, err := loadTrack(supplementaryPath)
	if err != nil {
		return err
	}

	opts := subtitle.MergeOptions{
		Align:              cfg.GetBool("align"),
		Offset:             cfg.GetDuration("offset"),
		SupplementaryFirst: cfg.GetBool("supplementary-first"),
	}

	tracks, err := subtitle.Merge(
		subtitle.Track{Language: mainLang, Blocks: mainFile.Blocks},
		subtitle.Track{Language: supplementaryLang, Blocks: supplementaryFile.Blocks},
		opts,
	)
	if err != nil {
		return err
	}

	logger.Infow("Merged tracks",
		"languages", tracks.Languages(),
		"align", opts.Align,
		"offset", opts.Offset,
	)

	return writeDocument(cmd, writer.Render(tracks))
}

// resolves and validates the two language tags
func languages() (string, string, error) {
	mainLang := strings.TrimSpace(cfg.GetString("main-language"))
	supplementaryLang := strings.TrimSpace(cfg.GetString("supplementary-language"))

	if mainLang == "" {
		return "", "", errors.WithHint(
			errors.New("main language is required"),
			"pass -m/--main-language or set ZIMU_MAIN_LANGUAGE",
		)
	}
	if supplementaryLang == "" {
		return "", "", errors.WithHint(
			errors.New("supplementary language is required"),
			"pass -s/--supplementary-language or set ZIMU_SUPPLEMENTARY_LANGUAGE",
		)
	}
	for _, lang := range []string{mainLang, supplementaryLang} {
		if strings.ContainsAny(lang, ",\r\n") {
			return "", "", errors.Newf("language tag %q must not contain commas or line breaks", lang)
		}
	}
	if mainLang == supplementaryLang {
		return "", "", errors.Newf(
			"main and supplementary language cannot both be %q",
			mainLang,
		)
	}

	return mainLang, supplementaryLang, nil
}

func loadTrack(path string) (*subtitle.Loaded, error) {
	loaded, err := subtitle.LoadFile(path, subtitle.LoadOptions{
		Encoding:       cfg.GetString("encoding"),
		FixLineEndings: cfg.GetBool("fix-line-endings"),
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("Parsed subtitle file",
		"path", path,
		"format", loaded.Format,
		"encoding", loaded.Encoding,
		"events", len(loaded.Blocks),
	)
	return loaded, nil
}

// builds the ASS writer from flags and the fonts config table
func assWriter() (*subtitle.ASSWriter, error) {
	writer := subtitle.NewASSWriter()
	writer.FontSize = cfg.GetInt("font-size")
	writer.DefaultFont = cfg.GetString("font")
	for lang, font := range cfg.GetStringMapString("fonts") {
		writer.Fonts[lang] = font
	}

	if err := writer.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid style settings")
	}
	return writer, nil
}
