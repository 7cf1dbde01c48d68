package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/andybalholm/crlf"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/text/transform"
)

// writes the finished document to --output-path, or stdout when unset
func writeDocument(cmd *cobra.Command, document string) error {
	if cfg.GetBool("crlf") {
		converted, _, err := transform.String(new(crlf.ToCRLF), document)
		if err != nil {
			return errors.Wrap(err, "failed to convert line endings")
		}
		document = converted
	}

	outputPath := cfg.GetString("output-path")
	if outputPath == "" {
		if _, err := io.WriteString(cmd.OutOrStdout(), document); err != nil {
			return errors.Wrap(err, "failed to write output")
		}
		return nil
	}

	if err := ensureDir(outputPath); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(document), 0644); err != nil {
		return errors.Wrapf(err, "failed to write output file %s", outputPath)
	}

	logger.Infow("Wrote output", "path", outputPath, "bytes", len(document))
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	return nil
}
