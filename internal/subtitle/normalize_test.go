package subtitle

import (
	"reflect"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		reference time.Duration
		blocks    []Block
		want      []Block
	}{
		{
			name:      "shift forward",
			reference: 5 * time.Second,
			blocks: []Block{
				{Start: 1 * time.Second, End: 2 * time.Second},
				{Start: 3 * time.Second, End: 3500 * time.Millisecond},
			},
			want: []Block{
				{Start: 5 * time.Second, End: 6 * time.Second},
				{Start: 7 * time.Second, End: 7500 * time.Millisecond},
			},
		},
		{
			name:      "shift backward",
			reference: time.Second,
			blocks: []Block{
				{Start: 4 * time.Second, End: 5 * time.Second},
				{Start: 10 * time.Second, End: 9 * time.Second},
			},
			want: []Block{
				{Start: time.Second, End: 2 * time.Second},
				{Start: 7 * time.Second, End: 6 * time.Second},
			},
		},
		{
			name:      "already aligned",
			reference: 2 * time.Second,
			blocks:    []Block{{Start: 2 * time.Second, End: 3 * time.Second}},
			want:      []Block{{Start: 2 * time.Second, End: 3 * time.Second}},
		},
		{
			name:      "past midnight",
			reference: 23*time.Hour + 59*time.Minute,
			blocks:    []Block{{Start: 0, End: 2 * time.Minute}},
			want:      []Block{{Start: 23*time.Hour + 59*time.Minute, End: 24*time.Hour + time.Minute}},
		},
		{
			name:      "empty",
			reference: time.Second,
			blocks:    nil,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Normalize(tt.reference, tt.blocks); err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if !reflect.DeepEqual(tt.blocks, tt.want) {
				t.Errorf("got %+v, want %+v", tt.blocks, tt.want)
			}
		})
	}
}

func TestNormalizePreservesDurations(t *testing.T) {
	blocks := []Block{
		{Start: 1 * time.Second, End: 4 * time.Second},
		{Start: 6 * time.Second, End: 6500 * time.Millisecond},
		{Start: 20 * time.Second, End: 19 * time.Second},
	}
	durations := make([]time.Duration, len(blocks))
	for i, b := range blocks {
		durations[i] = b.End - b.Start
	}

	if err := Normalize(90*time.Second, blocks); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if blocks[0].Start != 90*time.Second {
		t.Errorf("first start = %v, want 1m30s", blocks[0].Start)
	}
	for i, b := range blocks {
		if b.End-b.Start != durations[i] {
			t.Errorf("block %d duration changed from %v to %v", i, durations[i], b.End-b.Start)
		}
	}
}

func TestShiftBeforeMidnight(t *testing.T) {
	blocks := []Block{
		{Start: 5 * time.Second, End: 6 * time.Second},
		{Start: 1 * time.Second, End: 2 * time.Second},
	}
	original := append([]Block(nil), blocks...)

	err := Shift(blocks, -3*time.Second)
	if !errors.Is(err, ErrMalformedTime) {
		t.Fatalf("expected ErrMalformedTime, got %v", err)
	}
	if !reflect.DeepEqual(blocks, original) {
		t.Errorf("blocks modified on failure: %+v", blocks)
	}
}

func TestNormalizeLaterBlockBeforeFirst(t *testing.T) {
	// unsorted ASS input: a later event starts earlier than the first one
	blocks := []Block{
		{Start: 10 * time.Second, End: 11 * time.Second},
		{Start: 2 * time.Second, End: 3 * time.Second},
	}

	if err := Normalize(time.Second, blocks); !errors.Is(err, ErrMalformedTime) {
		t.Errorf("expected ErrMalformedTime, got %v", err)
	}
}
