package subtitle

import (
	"reflect"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func twoTracks() (Track, Track) {
	main := Track{Language: "en", Blocks: []Block{
		{Start: 5 * time.Second, End: 6 * time.Second, Content: []string{"Hi"}},
		{Start: 8 * time.Second, End: 9 * time.Second, Content: []string{"Bye"}},
	}}
	supplementary := Track{Language: "zh", Blocks: []Block{
		{Start: 1 * time.Second, End: 2 * time.Second, Content: []string{"你好"}},
		{Start: 3 * time.Second, End: 4 * time.Second, Content: []string{"再见"}},
	}}
	return main, supplementary
}

func TestMergeAligns(t *testing.T) {
	main, supplementary := twoTracks()

	tracks, err := Merge(main, supplementary, DefaultMergeOptions())
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if got := tracks.Languages(); !reflect.DeepEqual(got, []string{"en", "zh"}) {
		t.Errorf("Languages() = %v", got)
	}
	zh := tracks.Blocks("zh")
	if zh[0].Start != 5*time.Second || zh[0].End != 6*time.Second {
		t.Errorf("first supplementary block = %v-%v, want 5s-6s", zh[0].Start, zh[0].End)
	}
	if zh[1].Start != 7*time.Second || zh[1].End != 8*time.Second {
		t.Errorf("second supplementary block = %v-%v, want 7s-8s", zh[1].Start, zh[1].End)
	}
	if en := tracks.Blocks("en"); en[0].Start != 5*time.Second {
		t.Errorf("main track moved: %v", en[0].Start)
	}
}

func TestMergeOptionsApplied(t *testing.T) {
	tests := []struct {
		name      string
		opts      MergeOptions
		wantStart time.Duration
		wantOrder []string
	}{
		{"no align", MergeOptions{}, 1 * time.Second, []string{"en", "zh"}},
		{"offset only", MergeOptions{Offset: 500 * time.Millisecond}, 1500 * time.Millisecond, []string{"en", "zh"}},
		{"align then offset", MergeOptions{Align: true, Offset: -time.Second}, 4 * time.Second, []string{"en", "zh"}},
		{"supplementary first", MergeOptions{Align: true, SupplementaryFirst: true}, 5 * time.Second, []string{"zh", "en"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main, supplementary := twoTracks()
			tracks, err := Merge(main, supplementary, tt.opts)
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if got := tracks.Blocks("zh")[0].Start; got != tt.wantStart {
				t.Errorf("supplementary start = %v, want %v", got, tt.wantStart)
			}
			if got := tracks.Languages(); !reflect.DeepEqual(got, tt.wantOrder) {
				t.Errorf("Languages() = %v, want %v", got, tt.wantOrder)
			}
		})
	}
}

func TestMergeErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(main, supplementary *Track)
		opts   MergeOptions
		target error
	}{
		{
			name:   "empty main",
			mutate: func(m, s *Track) { m.Blocks = nil },
			opts:   DefaultMergeOptions(),
			target: ErrMalformedStructure,
		},
		{
			name:   "empty supplementary",
			mutate: func(m, s *Track) { s.Blocks = nil },
			opts:   DefaultMergeOptions(),
			target: ErrMalformedStructure,
		},
		{
			name:   "same language",
			mutate: func(m, s *Track) { s.Language = "en" },
			opts:   DefaultMergeOptions(),
			target: ErrMalformedStructure,
		},
		{
			name:   "offset before midnight",
			mutate: func(m, s *Track) {},
			opts:   MergeOptions{Offset: -2 * time.Second},
			target: ErrMalformedTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main, supplementary := twoTracks()
			tt.mutate(&main, &supplementary)
			_, err := Merge(main, supplementary, tt.opts)
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestTracks(t *testing.T) {
	tracks := NewTracks()
	tracks.Add("en", []Block{{Content: []string{"a"}}})
	tracks.Add("zh", nil)
	tracks.Add("en", []Block{{Content: []string{"b"}}})

	if tracks.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tracks.Len())
	}
	langs := tracks.Languages()
	if !reflect.DeepEqual(langs, []string{"en", "zh"}) {
		t.Errorf("Languages() = %v", langs)
	}
	langs[0] = "changed"
	if tracks.Languages()[0] != "en" {
		t.Error("Languages() exposed internal state")
	}
	if got := tracks.Blocks("en")[0].Content[0]; got != "b" {
		t.Errorf("re-added track content = %q, want b", got)
	}
	if tracks.Blocks("fr") != nil {
		t.Error("unknown language should have no blocks")
	}
}
