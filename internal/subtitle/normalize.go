package subtitle

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Normalize shifts blocks so the first one starts at reference. Every block
// moves by the same signed offset, so durations are unchanged. An empty slice
// is left alone.
func Normalize(reference time.Duration, blocks []Block) error {
	if len(blocks) == 0 {
		return nil
	}
	return Shift(blocks, reference-blocks[0].Start)
}

// Shift adds delta to every start and end. Nothing is modified when a shifted
// time would fall before midnight.
func Shift(blocks []Block, delta time.Duration) error {
	for i, b := range blocks {
		if b.Start+delta < 0 || b.End+delta < 0 {
			return errors.Wrapf(
				ErrMalformedTime,
				"shifting block %d by %s moves it before 0:00:00",
				i+1,
				delta,
			)
		}
	}

	for i := range blocks {
		blocks[i].Start += delta
		blocks[i].End += delta
	}
	return nil
}
