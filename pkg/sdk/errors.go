package studyplan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/studyplan/internal/domain"
	chiTransport "github.com/kailas-cloud/studyplan/internal/transport/chi"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest         = domain.ErrInvalidRequest
	ErrInvalidTopK            = domain.ErrInvalidTopK
	ErrInvalidFeatures        = domain.ErrInvalidFeatures
	ErrUnknownSource          = domain.ErrUnknownSource
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrChatProviderError      = domain.ErrChatProviderError
	ErrRentModelUnavailable   = domain.ErrRentModelUnavailable
)

// ErrUnauthorized is returned when the server rejects the API key.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("studyplan: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the error code to a sentinel so errors.Is works across the wire.
// Validation failures are ambiguous, so the message picks the sentinel.
func (e *APIError) Unwrap() error {
	switch chiTransport.ErrorCode(e.Code) {
	case chiTransport.CodeUnauthorized:
		return ErrUnauthorized
	case chiTransport.CodeUnknownSource:
		return ErrUnknownSource
	case chiTransport.CodeEmbeddingProviderError:
		return ErrEmbeddingProviderError
	case chiTransport.CodeChatProviderError:
		return ErrChatProviderError
	case chiTransport.CodeRentModelUnavailable:
		return ErrRentModelUnavailable
	case chiTransport.CodeValidationFailed:
		for _, s := range []error{ErrInvalidTopK, ErrInvalidFeatures} {
			if strings.Contains(e.Message, s.Error()) {
				return s
			}
		}
		return ErrInvalidRequest
	case chiTransport.CodeBadRequest:
		return ErrInvalidRequest
	}
	return nil
}

// statusOf returns the HTTP status carried by err, or 0.
func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
