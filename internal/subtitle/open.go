package subtitle

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/crlf"
	"github.com/cockroachdb/errors"
	"github.com/edsrzf/mmap-go"
	"golang.org/x/text/transform"

	"github.com/zimu-subs/zimu/internal/charset"
)

// FormatFromPath picks the parser from the file extension. Matching is
// case-sensitive: only .ass, .ssa and .srt are recognized.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.TrimPrefix(filepath.Ext(path), "."); ext {
	case "ass", "ssa":
		return FormatASS, nil
	case "srt":
		return FormatSRT, nil
	default:
		return "", errors.WithHint(
			errors.Wrapf(ErrUnrecognizedExtension, "%q", path),
			"supported extensions are .ass, .ssa and .srt (lowercase)",
		)
	}
}

// Parse reads blocks in the given format. ASS events keep input order; SRT
// records are sorted by time.
func Parse(format Format, r io.Reader) ([]Block, error) {
	switch format {
	case FormatASS:
		assFile, err := ParseASS(r)
		if err != nil {
			return nil, err
		}
		return assFile.Blocks(), nil
	case FormatSRT:
		return ParseSRT(r)
	default:
		return nil, errors.Wrapf(ErrUnrecognizedExtension, "format %q", format)
	}
}

type LoadOptions struct {
	// charset label, empty or "auto" to detect
	Encoding string
	// convert CRLF and CR to LF instead of rejecting mixed line endings
	FixLineEndings bool
}

// result of loading one subtitle file
type Loaded struct {
	Format   Format
	Encoding string
	Blocks   []Block
}

// LoadFile reads, decodes and parses the subtitle file at path
func LoadFile(path string, opts LoadOptions) (*Loaded, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	src, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = src.Close()
	}()

	decoded, err := charset.Decode(src.Bytes(), opts.Encoding)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	var r io.Reader = bytes.NewReader(decoded.Text)
	if opts.FixLineEndings {
		r = transform.NewReader(r, new(crlf.Normalize))
	}

	blocks, err := Parse(format, r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	return &Loaded{
		Format:   format,
		Encoding: decoded.Encoding,
		Blocks:   blocks,
	}, nil
}

// read-only view of a file, memory mapped when possible
type source struct {
	data   []byte
	mapped mmap.MMap
}

func openSource(path string) (*source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ioError(err, "failed to open subtitle file")
	}
	defer func() {
		_ = file.Close()
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, ioError(err, "failed to stat subtitle file")
	}
	if stat.Size() == 0 {
		return &source{}, nil
	}

	mapped, err := mmap.Map(file, mmap.RDONLY, 0)
	if err == nil {
		return &source{data: mapped, mapped: mapped}, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, ioError(err, "failed to read subtitle file")
	}
	return &source{data: data}, nil
}

func (s *source) Bytes() []byte {
	return s.data
}

func (s *source) Close() error {
	if s.mapped == nil {
		return nil
	}
	return s.mapped.Unmap()
}
