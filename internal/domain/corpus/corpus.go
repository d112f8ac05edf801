package corpus

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/studyplan/internal/domain"
	"github.com/kailas-cloud/studyplan/internal/domain/chunk"
)

// NoMatch is the position an index reports for an empty result slot.
const NoMatch = -1

// Match is a raw nearest-neighbor hit: a row position and its similarity.
type Match struct {
	Position int
	Score    float32
}

// Index is a loaded nearest-neighbor index over normalized vectors.
// Search returns hits ordered by descending score.
type Index interface {
	Search(ctx context.Context, query []float32, k int) ([]Match, error)
	Len() int
}

// Corpus pairs an index with the row table it was built from.
// Row i of the table is vector i of the index.
type Corpus struct {
	source chunk.Source
	index  Index
	rows   []chunk.Chunk
}

// New bundles an index and its rows. Sizes must agree.
func New(source chunk.Source, index Index, rows []chunk.Chunk) (*Corpus, error) {
	if !source.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, source)
	}
	if index == nil {
		return nil, fmt.Errorf("%s corpus: index is required", source)
	}
	if index.Len() != len(rows) {
		return nil, fmt.Errorf("%s corpus: index has %d vectors, table has %d rows: %w",
			source, index.Len(), len(rows), domain.ErrIndexRowMismatch)
	}
	return &Corpus{source: source, index: index, rows: rows}, nil
}

// Source returns which corpus this is.
func (c *Corpus) Source() chunk.Source { return c.source }

// Index returns the nearest-neighbor index.
func (c *Corpus) Index() Index { return c.index }

// Len returns the number of rows.
func (c *Corpus) Len() int { return len(c.rows) }

// Row returns the chunk at position i.
func (c *Corpus) Row(i int) (chunk.Chunk, error) {
	if i < 0 || i >= len(c.rows) {
		return chunk.Chunk{}, fmt.Errorf("%s corpus: position %d outside %d rows: %w",
			c.source, i, len(c.rows), domain.ErrIndexRowMismatch)
	}
	return c.rows[i], nil
}
