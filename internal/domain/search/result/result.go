package result

import "github.com/kailas-cloud/studyplan/internal/domain/chunk"

// Result is a single search hit resolved against its row table.
type Result struct {
	source  chunk.Source
	file    string
	page    int
	hasPage bool
	text    string
	score   float32
}

// New builds a result from a chunk. The page is kept for slides only.
func New(source chunk.Source, c chunk.Chunk, score float32) Result {
	r := Result{source: source, file: c.File(), text: c.Text(), score: score}
	if source == chunk.Slide {
		r.page, r.hasPage = c.Page()
	}
	return r
}

// Source returns the corpus the hit came from.
func (r *Result) Source() chunk.Source { return r.source }

// File returns the source file identifier.
func (r *Result) File() string { return r.file }

// Page returns the slide page and whether one is set.
func (r *Result) Page() (int, bool) { return r.page, r.hasPage }

// Text returns the chunk content.
func (r *Result) Text() string { return r.text }

// Score returns the cosine similarity in [-1, 1].
func (r *Result) Score() float32 { return r.score }
