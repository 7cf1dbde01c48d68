package subtitle

import (
	"cmp"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

type srtState int

const (
	expectSequenceID srtState = iota
	expectDuration
	expectContentOrEnd
)

// one numbered SRT record; the sequence number and extras are kept but not
// used once converted to a Block
type srtRecord struct {
	sequenceID uint64
	block      Block
	extra      []string
}

// ParseSRT reads SubRip records and returns them sorted by (start, end).
// A trailing record with no terminating blank line is kept.
func ParseSRT(r io.Reader) ([]Block, error) {
	records, err := parseSRTRecords(r)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(records, func(a, b srtRecord) int {
		if c := cmp.Compare(a.block.Start, b.block.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.block.End, b.block.End)
	})

	blocks := make([]Block, len(records))
	for i, rec := range records {
		blocks[i] = rec.block
	}
	return blocks, nil
}

func parseSRTRecords(r io.Reader) ([]srtRecord, error) {
	var records []srtRecord
	var current srtRecord
	state := expectSequenceID

	lines := newLineReader(r)
	for lines.Scan() {
		line := strings.TrimPrefix(lines.Text(), byteOrderMark)
		lineNum := lines.Line()

		switch state {
		case expectSequenceID:
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			id, err := strconv.ParseUint(trimmed, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(
					ErrMalformedInteger,
					"line %d: invalid sequence number %q",
					lineNum,
					trimmed,
				)
			}
			current = srtRecord{sequenceID: id}
			state = expectDuration

		case expectDuration:
			start, end, extra, err := parseSRTTiming(line)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNum)
			}
			current.block.Start = start
			current.block.End = end
			current.extra = extra
			state = expectContentOrEnd

		case expectContentOrEnd:
			if strings.TrimSpace(line) == "" {
				records = append(records, current)
				current = srtRecord{}
				state = expectSequenceID
				continue
			}
			current.block.Content = append(current.block.Content, line)
		}
	}

	if err := lines.Err(); err != nil {
		return nil, err
	}

	switch state {
	case expectDuration:
		return nil, structureError(
			lines.Line(),
			"sequence %d has no timing line",
			current.sequenceID,
		)
	case expectContentOrEnd:
		records = append(records, current)
	}

	return records, nil
}

// splits "<start> --> <end> [extra...]"
func parseSRTTiming(line string) (start, end time.Duration, extra []string, err error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, 0, nil, errors.Wrapf(
			ErrMalformedStructure,
			"expected timing line, got %q",
			line,
		)
	}
	if fields[1] != "-->" {
		return 0, 0, nil, errors.Wrapf(
			ErrMalformedStructure,
			"expected --> between timestamps, got %q",
			fields[1],
		)
	}

	if start, err = parseSRTTimestamp(fields[0]); err != nil {
		return 0, 0, nil, err
	}
	if end, err = parseSRTTimestamp(fields[2]); err != nil {
		return 0, 0, nil, err
	}
	if len(fields) > 3 {
		extra = fields[3:]
	}
	return start, end, extra, nil
}
