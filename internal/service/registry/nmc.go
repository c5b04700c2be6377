package registry

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/medverify/provider-verification-backend/internal/domain/errors"
	"github.com/medverify/provider-verification-backend/internal/domain/provider"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/cache"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/config"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/httpclient"
)

// NMCMapper converts a raw NMC verification response into the
// standardized record. The external wire schema is owned by the
// third-party verification service and has changed before, so the
// mapping is swappable without touching the record shape.
type NMCMapper func(identifier string, raw map[string]interface{}) *provider.Record

// NMCClient verifies Indian providers against the National Medical
// Commission register via a third-party verification API. NMR IDs are
// alphanumeric with no fixed length; the format rule is a minimum
// length only.
type NMCClient struct {
	cache   cache.Client
	fetcher jsonFetcher
	mapper  NMCMapper
	hasKey  bool
	logger  *zap.Logger
}

const nmrMinLength = 5

// NewNMCClient creates the India provider registry client. A missing
// API key never fails construction; only lookups require it.
func NewNMCClient(c cache.Client, cfg *config.RegistryConfig, logger *zap.Logger) *NMCClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := httpclient.Options{
		Timeout:      cfg.NMCTimeout,
		MaxRetries:   cfg.MaxRetries,
		RateLimitRPS: cfg.RateLimitRPS,
	}
	if cfg.NMCAPIKey != "" {
		opts.Headers = map[string]string{"Authorization": "Bearer " + cfg.NMCAPIKey}
	}
	fetcher := httpclient.New("nmc-registry", cfg.NMCBaseURL, opts, logger)

	return &NMCClient{
		cache:   c,
		fetcher: fetcher,
		mapper:  defaultNMCMapper,
		hasKey:  cfg.NMCAPIKey != "",
		logger:  logger,
	}
}

// WithMapper replaces the response mapper. Intended for deployments
// integrating a different verification vendor.
func (n *NMCClient) WithMapper(m NMCMapper) *NMCClient {
	n.mapper = m
	return n
}

func validNMRFormat(identifier string) bool {
	return len(identifier) >= nmrMinLength
}

// ValidateProvider checks an NMR ID. Format validation always precedes
// any cache or network interaction.
func (n *NMCClient) ValidateProvider(ctx context.Context, identifier string) provider.ValidationOutcome {
	if !validNMRFormat(identifier) {
		return provider.InvalidFormatOutcome(identifier, "nmr", "invalid NMR ID format")
	}

	rec, err := n.LookupProvider(ctx, identifier)
	if err != nil {
		n.logger.Error("nmc validation failed",
			zap.String("nmr_id", identifier),
			zap.Error(err))
		return provider.FailedLookupOutcome(identifier, "nmr", err)
	}

	confidence := 1.0
	if !rec.IsActive() {
		confidence = 0.7
	}

	return provider.ValidationOutcome{
		IsValid:        rec.IsActive(),
		Identifier:     identifier,
		IdentifierType: "nmr",
		Exists:         true,
		IsActive:       rec.IsActive(),
		ProviderType:   rec.ProviderType,
		Confidence:     confidence,
		CheckedAt:      time.Now().UTC(),
	}
}

// LookupProvider fetches the full register entry by NMR ID, cache first.
func (n *NMCClient) LookupProvider(ctx context.Context, identifier string) (*provider.Record, error) {
	key := cache.Key(cache.NamespaceNMC, identifier)

	var cached provider.Record
	if err := n.cache.GetJSON(ctx, key, &cached); err == nil {
		n.logger.Debug("cache hit", zap.String("nmr_id", identifier))
		return &cached, nil
	} else if !cache.IsNotFound(err) {
		n.logger.Warn("cache read failed, falling through to registry",
			zap.String("nmr_id", identifier),
			zap.Error(err))
	}

	if !n.hasKey {
		return nil, errors.NewConfigurationError(
			"NMC_API_KEY_MISSING",
			"NMC verification requires an API key",
		)
	}

	params := url.Values{}
	params.Set("nmr_id", identifier)

	var raw map[string]interface{}
	if err := n.fetcher.GetJSON(ctx, "verify", params, &raw); err != nil {
		return nil, err
	}

	rec := n.mapper(identifier, raw)

	if err := n.cache.SetJSON(ctx, key, rec, cache.ProviderTTL); err != nil {
		n.logger.Warn("caching nmc record failed",
			zap.String("nmr_id", identifier),
			zap.Error(err))
	}

	return rec, nil
}

// LookupByRegistration looks a provider up by state-council
// registration details, the pre-NMR identification doctors received
// from their state medical council. year is optional (0 = unknown).
func (n *NMCClient) LookupByRegistration(ctx context.Context, registrationNumber, stateCouncil string, year int) (*provider.Record, error) {
	if registrationNumber == "" || stateCouncil == "" {
		return nil, errors.NewValidationError(
			"MISSING_REGISTRATION",
			"registration number and state council are required",
		)
	}

	key := cache.Key(cache.NamespaceNMC, fmt.Sprintf("reg:%s:%s", stateCouncil, registrationNumber))

	var cached provider.Record
	if err := n.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !cache.IsNotFound(err) {
		n.logger.Warn("cache read failed, falling through to registry", zap.Error(err))
	}

	if !n.hasKey {
		return nil, errors.NewConfigurationError(
			"NMC_API_KEY_MISSING",
			"NMC verification requires an API key",
		)
	}

	params := url.Values{}
	params.Set("registration_number", registrationNumber)
	params.Set("state_council", stateCouncil)
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var raw map[string]interface{}
	if err := n.fetcher.GetJSON(ctx, "verify-by-registration", params, &raw); err != nil {
		return nil, err
	}

	rec := n.mapper(fmt.Sprintf("NMR-%s-%s", stateCouncil, registrationNumber), raw)
	if rec.AdditionalData == nil {
		rec.AdditionalData = make(map[string]interface{})
	}
	rec.AdditionalData["state_medical_council"] = stateCouncil
	rec.AdditionalData["registration_number"] = registrationNumber
	if year > 0 {
		rec.AdditionalData["registration_year"] = year
	}

	if err := n.cache.SetJSON(ctx, key, rec, cache.ProviderTTL); err != nil {
		n.logger.Warn("caching nmc record failed", zap.Error(err))
	}

	return rec, nil
}

// BatchValidate validates NMR IDs concurrently, index-aligned.
func (n *NMCClient) BatchValidate(ctx context.Context, identifiers []string) []provider.ValidationOutcome {
	return batchValidate(ctx, identifiers, n.ValidateProvider)
}

// defaultNMCMapper reads the field names the current verification
// vendor returns, tolerating absent fields.
func defaultNMCMapper(identifier string, raw map[string]interface{}) *provider.Record {
	str := func(key string) string {
		if v, ok := raw[key].(string); ok {
			return v
		}
		return ""
	}

	status := provider.StatusActive
	if s := str("status"); s != "" && s != "active" {
		status = provider.StatusInactive
	}

	specialty := str("specialty")
	if specialty == "" {
		specialty = str("qualification")
	}

	rec := &provider.Record{
		Identifier:     identifier,
		IdentifierType: "nmr",
		ProviderType:   provider.TypeIndividual,
		FirstName:      str("first_name"),
		LastName:       str("last_name"),
		Specialty:      specialty,
		Address: map[string]string{
			"line1":   str("address"),
			"city":    str("city"),
			"state":   str("state"),
			"zip":     str("pincode"),
			"country": "IN",
		},
		Phone:          str("phone"),
		Status:         status,
		LastUpdated:    str("last_updated"),
		AdditionalData: map[string]interface{}{},
	}

	if council := str("state_medical_council"); council != "" {
		rec.AdditionalData["state_medical_council"] = council
	}
	if regNo := str("registration_number"); regNo != "" {
		rec.AdditionalData["registration_number"] = regNo
	}
	if quals, ok := raw["qualifications"]; ok {
		rec.AdditionalData["qualifications"] = quals
	}

	return rec
}
