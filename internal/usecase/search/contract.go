package search

import "context"

// QueryEncoder turns a query into a unit-length vector.
type QueryEncoder interface {
	EncodeOne(ctx context.Context, text string) ([]float32, error)
}
