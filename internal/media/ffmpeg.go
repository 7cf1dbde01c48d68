package media

import (
	"os"
	"os/exec"
	"sync"

	"github.com/cockroachdb/errors"
)

// overrides the ffmpeg binary looked up on PATH
const ffmpegPathEnv = "ZIMU_FFMPEG_PATH"

var ErrFFmpegNotFound = errors.New("ffmpeg not found")

var (
	locateOnce sync.Once
	locatePath string
	locateErr  error
)

// FFmpegPath resolves the ffmpeg binary once per process
func FFmpegPath() (string, error) {
	locateOnce.Do(func() {
		locatePath, locateErr = locate(os.Getenv(ffmpegPathEnv), exec.LookPath)
	})
	return locatePath, locateErr
}

func locate(override string, lookPath func(string) (string, error)) (string, error) {
	if override != "" {
		info, err := os.Stat(override)
		if err != nil {
			return "", errors.WithHintf(
				errors.Wrapf(ErrFFmpegNotFound, "%s=%s", ffmpegPathEnv, override),
				"point %s at an ffmpeg executable",
				ffmpegPathEnv,
			)
		}
		if info.IsDir() {
			return "", errors.Wrapf(ErrFFmpegNotFound, "%s is a directory", override)
		}
		return override, nil
	}

	path, err := lookPath("ffmpeg")
	if err != nil {
		return "", errors.WithHintf(
			errors.Mark(errors.Wrap(err, "look up ffmpeg"), ErrFFmpegNotFound),
			"install ffmpeg or set %s",
			ffmpegPathEnv,
		)
	}
	return path, nil
}
