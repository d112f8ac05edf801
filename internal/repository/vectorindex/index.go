// Package vectorindex loads prebuilt nearest-neighbor indexes exported by
// chromem-go and answers top-k queries over them.
//
// Document IDs are decimal row positions into the matching chunk table.
package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/kailas-cloud/studyplan/internal/domain"
	"github.com/kailas-cloud/studyplan/internal/domain/corpus"
)

// Compile-time check: Index implements corpus.Index.
var _ corpus.Index = (*Index)(nil)

// Options selects the collection inside an export file.
type Options struct {
	Collection    string // empty = the file's only collection
	EncryptionKey string // empty = plaintext export
}

// Index is a read-only chromem collection.
type Index struct {
	path       string
	collection *chromem.Collection
	dimensions int
}

// Load opens an exported index file.
func Load(ctx context.Context, path string, opts Options) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingIndex, path)
		}
		return nil, fmt.Errorf("stat index %s: %w", path, err)
	}

	db := chromem.NewDB()
	if err := db.ImportFromFile(path, opts.EncryptionKey); err != nil {
		return nil, fmt.Errorf("import index %s: %w", path, err)
	}

	coll, err := pickCollection(db, opts.Collection)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", path, err)
	}

	return &Index{
		path:       path,
		collection: coll,
		dimensions: probeDimensions(ctx, coll),
	}, nil
}

func pickCollection(db *chromem.DB, name string) (*chromem.Collection, error) {
	if name != "" {
		coll := db.GetCollection(name, nil)
		if coll == nil {
			return nil, fmt.Errorf("collection %q not found", name)
		}
		return coll, nil
	}

	all := db.ListCollections()
	if len(all) != 1 {
		names := make([]string, 0, len(all))
		for n := range all {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("expected exactly one collection, found %d %v; set a collection name", len(all), names)
	}
	for _, coll := range all {
		return coll, nil
	}
	return nil, nil
}

// probeDimensions reads the first row's vector. 0 means unknown.
func probeDimensions(ctx context.Context, coll *chromem.Collection) int {
	if coll.Count() == 0 {
		return 0
	}
	doc, err := coll.GetByID(ctx, "0")
	if err != nil {
		return 0
	}
	return len(doc.Embedding)
}

// Path returns the file the index was loaded from.
func (ix *Index) Path() string { return ix.path }

// Len returns the number of stored vectors.
func (ix *Index) Len() int { return ix.collection.Count() }

// Dimensions returns the vector length, or 0 when unknown.
func (ix *Index) Dimensions() int { return ix.dimensions }

// Search returns up to k matches ordered by descending similarity, ties
// broken by ascending row position. Documents whose ID is not a row
// position are reported as corpus.NoMatch and rank after tied rows.
//
// chromem-go gathers its top-k concurrently, so a cut at k can keep a
// different subset of tied documents on each call. Every document is
// scored and the cut happens here instead.
func (ix *Index) Search(ctx context.Context, query []float32, k int) ([]corpus.Match, error) {
	if k < 1 {
		return nil, domain.ErrInvalidTopK
	}
	if ix.dimensions > 0 && len(query) != ix.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index %s has %d",
			domain.ErrVectorDimMismatch, len(query), ix.path, ix.dimensions)
	}

	total := ix.collection.Count()
	if total == 0 {
		return nil, nil
	}

	res, err := ix.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: query,
		NResults:       total,
	})
	if err != nil {
		return nil, fmt.Errorf("query index %s: %w", ix.path, err)
	}

	all := make([]ranked, len(res))
	for i, r := range res {
		all[i] = rankedOf(r.ID, r.Similarity)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].before(all[j]) })

	out := make([]corpus.Match, min(k, len(all)))
	for i := range out {
		out[i] = all[i].match
	}
	return out, nil
}

type ranked struct {
	id    string
	match corpus.Match
}

func rankedOf(id string, score float32) ranked {
	return ranked{id: id, match: corpus.Match{Position: position(id), Score: score}}
}

// before orders by score desc, then row position asc with NoMatch last,
// then raw ID so the order is total.
func (a ranked) before(b ranked) bool {
	if a.match.Score != b.match.Score {
		return a.match.Score > b.match.Score
	}
	ap, bp := a.match.Position, b.match.Position
	if ap != bp {
		if ap == corpus.NoMatch {
			return false
		}
		if bp == corpus.NoMatch {
			return true
		}
		return ap < bp
	}
	return a.id < b.id
}

func position(id string) int {
	p, err := strconv.Atoi(id)
	if err != nil || p < 0 {
		return corpus.NoMatch
	}
	return p
}
