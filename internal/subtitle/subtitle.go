package subtitle

import (
	"time"
)

// single timed subtitle record shared by every parser and the emitter.
// Start and End are offsets from midnight; End is not required to follow Start.
type Block struct {
	Start   time.Duration
	End     time.Duration
	Content []string
}

// represents one language's subtitle track
type Track struct {
	Language string
	Blocks   []Block
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatASS Format = "ass"
)

// Tracks is an ordered mapping from language tag to blocks. Insertion order
// decides layering and style assignment in the emitted document.
type Tracks struct {
	languages []string
	blocks    map[string][]Block
}

func NewTracks() *Tracks {
	return &Tracks{blocks: make(map[string][]Block)}
}

// Add appends a language. Re-adding a known tag replaces its blocks in place.
func (t *Tracks) Add(language string, blocks []Block) {
	if _, ok := t.blocks[language]; !ok {
		t.languages = append(t.languages, language)
	}
	t.blocks[language] = blocks
}

func (t *Tracks) Languages() []string {
	out := make([]string, len(t.languages))
	copy(out, t.languages)
	return out
}

func (t *Tracks) Blocks(language string) []Block {
	return t.blocks[language]
}

func (t *Tracks) Len() int {
	return len(t.languages)
}
