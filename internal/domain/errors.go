package domain

import "errors"

var (
	// ErrMissingIndex signals that a vector index file does not exist.
	ErrMissingIndex = errors.New("missing index")
	// ErrIndexRowMismatch signals that an index and its row table are out of sync.
	ErrIndexRowMismatch = errors.New("index and row table mismatch")
	// ErrInvalidTopK signals a non-positive top-k.
	ErrInvalidTopK = errors.New("top_k must be a positive integer")
	// ErrInvalidRequest signals malformed input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownSource signals a corpus source other than slide or lab.
	ErrUnknownSource = errors.New("unknown source")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrRentModelUnavailable signals that no rent model is loaded.
	ErrRentModelUnavailable = errors.New("rent model unavailable")
	// ErrInvalidFeatures signals apartment features outside the accepted ranges.
	ErrInvalidFeatures = errors.New("invalid apartment features")
)
