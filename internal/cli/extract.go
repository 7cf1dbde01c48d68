package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zimu-subs/zimu/internal/media"
)

var extractCmd = &cobra.Command{
	Use:   "extract <media_file>",
	Short: "Extract a subtitle stream from a media file",
	Long: `Extract one subtitle stream from a video container with ffmpeg, so it
can be used as a merge input.

The output extension selects the subtitle codec (.srt, .ass or .ssa).
ffmpeg is taken from ZIMU_FFMPEG_PATH or PATH.

Examples:
  zimu extract movie.mkv
  zimu extract movie.mkv --stream 1 -o movie.zh.ass`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		Int("stream", 0, "Index of the subtitle stream to extract (0 = first)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	stream := cfg.GetInt("stream")

	outputPath := cfg.GetString("output-path")
	if outputPath == "" {
		outputPath = defaultExtractPath(mediaPath, stream)
	}

	logger.Infow("Extracting subtitle stream",
		"media", mediaPath,
		"stream", stream,
		"output", outputPath,
	)

	err := media.ExtractSubtitle(
		cmd.Context(),
		mediaPath,
		outputPath,
		media.ExtractOptions{Stream: stream},
	)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), outputPath)
	return nil
}

// movie.mkv -> movie.srt, or movie.2.srt for later streams
func defaultExtractPath(mediaPath string, stream int) string {
	base := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	if stream == 0 {
		return base + ".srt"
	}
	return fmt.Sprintf("%s.%d.srt", base, stream)
}
