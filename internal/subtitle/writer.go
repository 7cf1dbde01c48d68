package subtitle

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	assHeader = "[Script Info]\n" +
		"ScriptType: v4.00+\n" +
		"\n" +
		"[V4+ Styles]\n" +
		"Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n"

	assEventsHeader = "\n" +
		"[Events]\n" +
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n"

	// BGR with a leading alpha byte: white, then yellow
	primaryColourFirst = "&H00FFFFFF"
	primaryColourOther = "&H0000FFFF"

	baseMarginV = 12
	lineGap     = 4
)

// Advanced SubStation Alpha writer for bilingual output. Each language gets a
// synthesized style; input styles are never reused.
type ASSWriter struct {
	FontSize    int
	DefaultFont string
	// per-language font overrides
	Fonts map[string]string
}

func NewASSWriter() *ASSWriter {
	return &ASSWriter{
		FontSize:    18,
		DefaultFont: "Arial",
		Fonts: map[string]string{
			"zh": "Microsoft YaHei",
		},
	}
}

// Render builds the whole document. The result depends only on tracks.
func (w *ASSWriter) Render(tracks *Tracks) string {
	var sb strings.Builder

	sb.WriteString(assHeader)
	for n, lang := range tracks.Languages() {
		sb.WriteString(w.styleLine(n, lang))
	}

	sb.WriteString(assEventsHeader)
	for n, lang := range tracks.Languages() {
		for _, block := range tracks.Blocks(lang) {
			sb.WriteString(fmt.Sprintf("Dialogue: %d,%s,%s,%s,,0,0,0,,%s\n",
				n,
				formatASSTimestamp(block.Start),
				formatASSTimestamp(block.End),
				lang,
				strings.Join(block.Content, assLineBreak)))
		}
	}

	return sb.String()
}

// writes the rendered document to out in a single call
func (w *ASSWriter) Write(out io.Writer, tracks *Tracks) error {
	if _, err := io.WriteString(out, w.Render(tracks)); err != nil {
		return ioError(err, "failed to write ASS output")
	}
	return nil
}

func (w *ASSWriter) styleLine(n int, lang string) string {
	colour := primaryColourOther
	if n == 0 {
		colour = primaryColourFirst
	}
	marginV := baseMarginV + n*(w.FontSize*2) + n*lineGap

	return fmt.Sprintf(
		"Style: %s,%s,%d,%s,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,1,0.5,2,10,10,%d,1\n",
		lang,
		w.font(lang),
		w.FontSize,
		colour,
		marginV,
	)
}

func (w *ASSWriter) font(lang string) string {
	if font, ok := w.Fonts[lang]; ok && font != "" {
		return font
	}
	return w.DefaultFont
}

// validates writer settings loaded from configuration
func (w *ASSWriter) Validate() error {
	if w.FontSize <= 0 {
		return errors.Newf("font size must be positive, got %d", w.FontSize)
	}
	if strings.TrimSpace(w.DefaultFont) == "" {
		return errors.New("default font must not be empty")
	}
	if strings.ContainsAny(w.DefaultFont, ",\n") {
		return errors.Newf("default font %q must not contain commas or newlines", w.DefaultFont)
	}
	for lang, font := range w.Fonts {
		if strings.ContainsAny(font, ",\n") {
			return errors.Newf("font %q for %q must not contain commas or newlines", font, lang)
		}
	}
	return nil
}
