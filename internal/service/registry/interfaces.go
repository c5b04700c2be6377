package registry

import (
	"context"
	"sync"

	"github.com/medverify/provider-verification-backend/internal/domain/provider"
)

// ProviderRegistry is the region-abstracted contract for provider
// identifier verification. Implementations share one cache instance
// with the license validators and hold no other mutable state, so they
// are safe to reuse concurrently across many validation calls.
type ProviderRegistry interface {
	// ValidateProvider checks an identifier against the region's
	// registry. It never returns an error: malformed input and registry
	// failures both surface as structured outcomes.
	ValidateProvider(ctx context.Context, identifier string) provider.ValidationOutcome

	// LookupProvider fetches the full provider record, cache first.
	// Unlike ValidateProvider it returns an error on not-found or
	// registry failure, for callers that need the raw data.
	LookupProvider(ctx context.Context, identifier string) (*provider.Record, error)

	// BatchValidate validates all identifiers concurrently. Results are
	// index-aligned with the input and a single identifier's failure
	// never blocks the others.
	BatchValidate(ctx context.Context, identifiers []string) []provider.ValidationOutcome
}

// batchValidate fans out one goroutine per identifier and awaits all
// completions. Each item's failure is captured into its own outcome.
func batchValidate(
	ctx context.Context,
	identifiers []string,
	validate func(context.Context, string) provider.ValidationOutcome,
) []provider.ValidationOutcome {
	results := make([]provider.ValidationOutcome, len(identifiers))

	var wg sync.WaitGroup
	for i, id := range identifiers {
		wg.Add(1)
		go func(idx int, identifier string) {
			defer wg.Done()
			results[idx] = validate(ctx, identifier)
		}(i, id)
	}
	wg.Wait()

	return results
}
