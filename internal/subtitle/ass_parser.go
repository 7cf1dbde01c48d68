package subtitle

import (
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// FieldKey names one column of an [Events] Format line. Unrecognized columns
// keep their original spelling.
type FieldKey string

const (
	FieldLayer   FieldKey = "Layer"
	FieldStart   FieldKey = "Start"
	FieldEnd     FieldKey = "End"
	FieldStyle   FieldKey = "Style"
	FieldName    FieldKey = "Name"
	FieldMarginL FieldKey = "MarginL"
	FieldMarginR FieldKey = "MarginR"
	FieldMarginV FieldKey = "MarginV"
	FieldEffect  FieldKey = "Effect"
	FieldText    FieldKey = "Text"
)

// reports whether the key is one of the standard event columns
func (k FieldKey) Known() bool {
	switch k {
	case FieldLayer, FieldStart, FieldEnd, FieldStyle, FieldName,
		FieldMarginL, FieldMarginR, FieldMarginV, FieldEffect, FieldText:
		return true
	}
	return false
}

// key/value pair of a Dialogue line, in Format order
type Field struct {
	Key   FieldKey
	Value string
}

// parsed Dialogue line. Start, End and Text are lifted out of Fields.
type ASSEvent struct {
	Start  time.Duration
	End    time.Duration
	Text   []string
	Fields []Field
}

// Value returns a column that was not lifted out of the event
func (e ASSEvent) Value(key FieldKey) (string, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// parsed ASS/SSA document. Styles holds the raw Format/Style payloads of any
// *Styles section; they are never carried into merged output.
type ASSFile struct {
	Styles []string
	Events []ASSEvent
}

// Blocks converts events to blocks in input order
func (f *ASSFile) Blocks() []Block {
	blocks := make([]Block, len(f.Events))
	for i, e := range f.Events {
		blocks[i] = Block{Start: e.Start, End: e.End, Content: e.Text}
	}
	return blocks
}

const (
	formatPrefix   = "Format: "
	stylePrefix    = "Style: "
	dialoguePrefix = "Dialogue: "
	assLineBreak   = `\N`
)

// ParseASS reads the [Events] of an ASS/SSA document. Sections other than
// styles and events are skipped. A document without an [Events] section is
// malformed.
func ParseASS(r io.Reader) (*ASSFile, error) {
	assFile := &ASSFile{}

	var (
		section     string
		inSection   bool
		sawEvents   bool
		eventFormat []FieldKey
	)

	lines := newLineReader(r)
	for lines.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(lines.Text(), byteOrderMark))
		lineNum := lines.Line()

		if line == "" {
			inSection = false
			continue
		}

		if !inSection {
			if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
				section = strings.Trim(line, "[]")
				inSection = true
				if section == "Events" {
					sawEvents = true
				}
			}
			continue
		}

		switch {
		case strings.HasSuffix(section, "Styles"):
			if strings.HasPrefix(line, formatPrefix) {
				assFile.Styles = append(assFile.Styles, strings.TrimPrefix(line, formatPrefix))
			} else if strings.HasPrefix(line, stylePrefix) {
				assFile.Styles = append(assFile.Styles, strings.TrimPrefix(line, stylePrefix))
			}

		case section == "Events":
			if strings.HasPrefix(line, formatPrefix) {
				eventFormat = parseEventFormat(strings.TrimPrefix(line, formatPrefix))
				continue
			}
			if strings.HasPrefix(line, dialoguePrefix) {
				if len(eventFormat) == 0 {
					return nil, structureError(lineNum, "Dialogue line before any Format line")
				}
				event, err := parseDialogue(strings.TrimPrefix(line, dialoguePrefix), eventFormat)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNum)
				}
				assFile.Events = append(assFile.Events, event)
			}
		}
	}

	if err := lines.Err(); err != nil {
		return nil, err
	}
	if !sawEvents {
		return nil, errors.WithHint(
			errors.Wrap(ErrMalformedStructure, "no [Events] section"),
			"the input does not look like an ASS/SSA script",
		)
	}

	return assFile, nil
}

func parseEventFormat(header string) []FieldKey {
	columns := strings.Split(header, ",")
	keys := make([]FieldKey, len(columns))
	for i, col := range columns {
		keys[i] = FieldKey(strings.TrimSpace(col))
	}
	return keys
}

func parseDialogue(content string, format []FieldKey) (ASSEvent, error) {
	parts := strings.SplitN(content, ",", len(format))

	var fields []Field
	for i, part := range parts {
		fields = setField(fields, format[i], part)
	}

	var event ASSEvent

	text, fields, ok := takeField(fields, FieldText)
	if !ok {
		return event, errors.Wrap(ErrMalformedStructure, "Dialogue line has no Text field")
	}
	startRaw, fields, ok := takeField(fields, FieldStart)
	if !ok {
		return event, errors.Wrap(ErrMalformedStructure, "Dialogue line has no Start field")
	}
	endRaw, fields, ok := takeField(fields, FieldEnd)
	if !ok {
		return event, errors.Wrap(ErrMalformedStructure, "Dialogue line has no End field")
	}

	start, err := parseASSTimestamp(startRaw)
	if err != nil {
		return event, errors.Wrap(err, "start")
	}
	end, err := parseASSTimestamp(endRaw)
	if err != nil {
		return event, errors.Wrap(err, "end")
	}

	event.Start = start
	event.End = end
	event.Text = strings.Split(text, assLineBreak)
	event.Fields = fields
	return event, nil
}

// a repeated key keeps its first position and takes the latest value
func setField(fields []Field, key FieldKey, value string) []Field {
	for i := range fields {
		if fields[i].Key == key {
			fields[i].Value = value
			return fields
		}
	}
	return append(fields, Field{Key: key, Value: value})
}

func takeField(fields []Field, key FieldKey) (string, []Field, bool) {
	for i, f := range fields {
		if f.Key == key {
			rest := append(fields[:i:i], fields[i+1:]...)
			return f.Value, rest, true
		}
	}
	return "", fields, false
}
