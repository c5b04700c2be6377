package licensing

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/medverify/provider-verification-backend/internal/domain/errors"
	"github.com/medverify/provider-verification-backend/internal/domain/license"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/cache"
)

// fetchFunc retrieves a license record from the verification authority.
// Tests substitute a counting double; production implementations go
// through the licensing gateway.
type fetchFunc func(ctx context.Context, number, region string) (*license.Record, error)

// authorityClient is the shared validation core. The two regional
// clients differ only in their board table, cache namespace, regionType
// tag, and gateway endpoint.
type authorityClient struct {
	boards     map[string]string // region code -> authority name
	namespace  string
	regionType string
	cache      cache.Client
	fetch      fetchFunc
	logger     *zap.Logger
}

func (a *authorityClient) supportedRegions() []string {
	regions := make([]string, 0, len(a.boards))
	for code := range a.boards {
		regions = append(regions, code)
	}
	sort.Strings(regions)
	return regions
}

// ValidateLicense applies the shared algorithm: input checks, region
// support check, cache-then-network lookup, status classification,
// optional name match, confidence scoring.
func (a *authorityClient) ValidateLicense(ctx context.Context, number, region, providerName string) license.ValidationOutcome {
	rec, err := a.LookupLicense(ctx, number, region, providerName)
	if err != nil {
		if !errors.IsType(err, errors.ErrorTypeValidation) {
			a.logger.Error("license validation failed",
				zap.String("region", region),
				zap.String("license_number", number),
				zap.Error(err))
		}
		return license.FailedOutcome(number, region, a.regionType, err)
	}

	status := license.ParseStatus(rec.Status)
	nameMatches := rec.NameMatches(providerName)
	hasDisciplinary := rec.HasDisciplinaryActions()

	return license.ValidationOutcome{
		IsValid:                status == license.StatusActive && (nameMatches == nil || *nameMatches),
		LicenseNumber:          number,
		Region:                 region,
		RegionType:             a.regionType,
		Exists:                 true,
		IsActive:               status == license.StatusActive,
		IsExpired:              status == license.StatusExpired,
		HasDisciplinaryActions: hasDisciplinary,
		NameMatches:            nameMatches,
		Confidence:             license.Confidence(status, hasDisciplinary, nameMatches),
		CheckedAt:              time.Now().UTC(),
	}
}

// LookupLicense fetches the authority record, cache first. An unknown
// region code is a configuration problem and never reaches the network.
func (a *authorityClient) LookupLicense(ctx context.Context, number, region, providerName string) (*license.Record, error) {
	if number == "" || region == "" {
		return nil, errors.NewValidationError(
			"MISSING_LICENSE_INPUT",
			"license number and region code are required",
		)
	}
	authority, ok := a.boards[region]
	if !ok {
		return nil, errors.NewUnsupportedRegionError(region, a.supportedRegions())
	}

	key := cache.Key(a.namespace, region+":"+number)

	var cached license.Record
	if err := a.cache.GetJSON(ctx, key, &cached); err == nil {
		a.logger.Debug("cache hit",
			zap.String("region", region),
			zap.String("license_number", number))
		return &cached, nil
	} else if !cache.IsNotFound(err) {
		a.logger.Warn("cache read failed, falling through to authority",
			zap.String("region", region),
			zap.Error(err))
	}

	rec, err := a.fetch(ctx, number, region)
	if err != nil {
		return nil, err
	}

	// Normalize fields the authority response may omit.
	rec.LicenseNumber = number
	rec.Region = region
	rec.RegionType = a.regionType
	if rec.AdditionalData == nil {
		rec.AdditionalData = make(map[string]interface{})
	}
	rec.AdditionalData["authority"] = authority

	if err := a.cache.SetJSON(ctx, key, rec, cache.LicenseTTL); err != nil {
		a.logger.Warn("caching license record failed",
			zap.String("region", region),
			zap.Error(err))
	}

	return rec, nil
}

// ValidateMultiple validates licenses concurrently, index-aligned.
func (a *authorityClient) ValidateMultiple(ctx context.Context, queries []LicenseQuery) []license.ValidationOutcome {
	return validateMultiple(ctx, queries, a.ValidateLicense)
}
