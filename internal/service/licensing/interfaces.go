package licensing

import (
	"context"
	"sync"

	"github.com/medverify/provider-verification-backend/internal/domain/license"
)

// LicenseQuery is one license to validate, with an optional provider
// name to match against the authority record.
type LicenseQuery struct {
	Number       string `json:"license_number"`
	Region       string `json:"region"`
	ProviderName string `json:"provider_name,omitempty"`
}

// LicenseValidator is the region-abstracted contract for license
// verification against state boards or medical councils.
// Implementations share a cache instance with the provider registries
// and are safe for concurrent use.
type LicenseValidator interface {
	// ValidateLicense checks one license. It never returns an error:
	// missing input, unsupported regions, and authority failures all
	// surface as structured zero-or-low-confidence outcomes.
	ValidateLicense(ctx context.Context, number, region, providerName string) license.ValidationOutcome

	// LookupLicense fetches the full authority record, cache first.
	LookupLicense(ctx context.Context, number, region, providerName string) (*license.Record, error)

	// ValidateMultiple validates all queries concurrently. Results are
	// index-aligned with the input and one license's failure never
	// blocks the others.
	ValidateMultiple(ctx context.Context, queries []LicenseQuery) []license.ValidationOutcome
}

// validateMultiple fans out one goroutine per query and awaits all
// completions, capturing each failure in its own outcome.
func validateMultiple(
	ctx context.Context,
	queries []LicenseQuery,
	validate func(ctx context.Context, number, region, providerName string) license.ValidationOutcome,
) []license.ValidationOutcome {
	results := make([]license.ValidationOutcome, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(idx int, q LicenseQuery) {
			defer wg.Done()
			results[idx] = validate(ctx, q.Number, q.Region, q.ProviderName)
		}(i, q)
	}
	wg.Wait()

	return results
}
