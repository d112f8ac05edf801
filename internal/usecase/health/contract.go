package health

import "context"

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks a hosted model provider.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
