package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/zimu-subs/zimu/internal/subtitle"
)

// holds options for subtitle stream extraction
type ExtractOptions struct {
	Stream int // index among the container's subtitle streams
}

var ErrMediaNotFound = errors.New("media file not found")

// pulls one subtitle stream out of a media container into outputPath; the
// output extension picks the codec (.srt or .ass)
func ExtractSubtitle(
	ctx context.Context,
	mediaPath, outputPath string,
	opts ExtractOptions,
) error {
	kwargs, err := extractArgs(outputPath, opts)
	if err != nil {
		return err
	}

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return errors.Wrapf(ErrMediaNotFound, "%s", mediaPath)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	ffmpegPath, err := FFmpegPath()
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	err = ffmpeg.Input(mediaPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return errors.Wrapf(err, "ffmpeg extraction of subtitle stream %d failed", opts.Stream)
	}

	return nil
}

func extractArgs(outputPath string, opts ExtractOptions) (ffmpeg.KwArgs, error) {
	if opts.Stream < 0 {
		return nil, errors.Newf("subtitle stream index must not be negative, got %d", opts.Stream)
	}

	format, err := subtitle.FormatFromPath(outputPath)
	if err != nil {
		return nil, err
	}

	return ffmpeg.KwArgs{
		"map": fmt.Sprintf("0:s:%d", opts.Stream),
		"c:s": string(format),
	}, nil
}
