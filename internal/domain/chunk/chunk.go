package chunk

import "fmt"

// Source identifies which corpus a chunk came from.
type Source string

// Known sources.
const (
	Slide Source = "slide"
	Lab   Source = "lab"
)

// IsValid reports whether s is a known source.
func (s Source) IsValid() bool {
	return s == Slide || s == Lab
}

// ParseSource converts a raw string into a Source.
func ParseSource(raw string) (Source, error) {
	s := Source(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("source must be %q or %q, got %q", Slide, Lab, raw)
	}
	return s, nil
}

// Chunk is one row of pre-extracted course content.
// Its position in the row table equals its position in the vector index.
type Chunk struct {
	file    string
	page    int
	hasPage bool
	text    string
}

// New creates a chunk without a page (labs).
func New(file, text string) Chunk {
	return Chunk{file: file, text: text}
}

// NewWithPage creates a chunk that carries a slide page number.
func NewWithPage(file string, page int, text string) Chunk {
	return Chunk{file: file, page: page, hasPage: true, text: text}
}

// File returns the source file identifier.
func (c Chunk) File() string { return c.file }

// Page returns the slide page and whether one is set.
func (c Chunk) Page() (int, bool) { return c.page, c.hasPage }

// Text returns the chunk content.
func (c Chunk) Text() string { return c.text }
