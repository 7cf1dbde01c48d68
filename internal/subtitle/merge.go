package subtitle

import (
	"time"

	"github.com/cockroachdb/errors"
)

// controls how the supplementary track is placed against the main one
type MergeOptions struct {
	// normalize the supplementary track to the main track's first start
	Align bool
	// applied to the supplementary track after alignment
	Offset time.Duration
	// emit the supplementary track as the first (bottom, white) layer
	SupplementaryFirst bool
}

func DefaultMergeOptions() MergeOptions {
	return MergeOptions{Align: true}
}

// Merge aligns the supplementary track against the main track and returns
// both as ordered tracks ready for the ASS writer. The supplementary blocks
// are shifted in place.
func Merge(main, supplementary Track, opts MergeOptions) (*Tracks, error) {
	if len(main.Blocks) == 0 {
		return nil, errors.WithHint(
			errors.Wrapf(ErrMalformedStructure, "main track %q has no events", main.Language),
			"the first event of the main track is the alignment reference",
		)
	}
	if len(supplementary.Blocks) == 0 {
		return nil, errors.Wrapf(
			ErrMalformedStructure,
			"supplementary track %q has no events",
			supplementary.Language,
		)
	}
	if main.Language == supplementary.Language {
		return nil, errors.WithHint(
			errors.Wrapf(ErrMalformedStructure, "both tracks use language %q", main.Language),
			"each track needs its own language tag to get its own style",
		)
	}

	if opts.Align {
		if err := Normalize(main.Blocks[0].Start, supplementary.Blocks); err != nil {
			return nil, errors.Wrap(err, "failed to align supplementary track")
		}
	}
	if opts.Offset != 0 {
		if err := Shift(supplementary.Blocks, opts.Offset); err != nil {
			return nil, errors.Wrap(err, "failed to offset supplementary track")
		}
	}

	tracks := NewTracks()
	if opts.SupplementaryFirst {
		tracks.Add(supplementary.Language, supplementary.Blocks)
		tracks.Add(main.Language, main.Blocks)
	} else {
		tracks.Add(main.Language, main.Blocks)
		tracks.Add(supplementary.Language, supplementary.Blocks)
	}
	return tracks, nil
}
