package registry

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/medverify/provider-verification-backend/internal/domain/errors"
	"github.com/medverify/provider-verification-backend/internal/domain/provider"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/cache"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/config"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/httpclient"
)

// jsonFetcher is the slice of httpclient.Client the registry clients
// depend on. Tests substitute a counting double.
type jsonFetcher interface {
	GetJSON(ctx context.Context, path string, params url.Values, dest interface{}) error
}

// NPIClient verifies US providers against the NPI Registry
// (https://npiregistry.cms.hhs.gov/api-page). NPIs are 10-digit
// numeric identifiers issued by CMS.
type NPIClient struct {
	cache   cache.Client
	fetcher jsonFetcher
	logger  *zap.Logger
}

const npiAPIVersion = "2.1"

// NewNPIClient creates the USA provider registry client.
func NewNPIClient(c cache.Client, cfg *config.RegistryConfig, logger *zap.Logger) *NPIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	fetcher := httpclient.New("npi-registry", cfg.NPIBaseURL, httpclient.Options{
		Timeout:      cfg.NPITimeout,
		MaxRetries:   cfg.MaxRetries,
		RateLimitRPS: cfg.RateLimitRPS,
	}, logger)

	return &NPIClient{cache: c, fetcher: fetcher, logger: logger}
}

// validNPIFormat requires exactly 10 numeric characters.
func validNPIFormat(identifier string) bool {
	if len(identifier) != 10 {
		return false
	}
	for _, r := range identifier {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateProvider checks an NPI. Format validation always precedes any
// cache or network interaction.
func (n *NPIClient) ValidateProvider(ctx context.Context, identifier string) provider.ValidationOutcome {
	if !validNPIFormat(identifier) {
		return provider.InvalidFormatOutcome(identifier, "npi", "invalid NPI format")
	}

	rec, err := n.LookupProvider(ctx, identifier)
	if err != nil {
		n.logger.Error("npi validation failed",
			zap.String("npi", identifier),
			zap.Error(err))
		return provider.FailedLookupOutcome(identifier, "npi", err)
	}

	confidence := 1.0
	if !rec.IsActive() {
		confidence = 0.7
	}

	return provider.ValidationOutcome{
		IsValid:        rec.IsActive(),
		Identifier:     identifier,
		IdentifierType: "npi",
		Exists:         true,
		IsActive:       rec.IsActive(),
		ProviderType:   rec.ProviderType,
		Confidence:     confidence,
		CheckedAt:      time.Now().UTC(),
	}
}

// LookupProvider fetches the full NPI record, cache first.
func (n *NPIClient) LookupProvider(ctx context.Context, identifier string) (*provider.Record, error) {
	key := cache.Key(cache.NamespaceNPI, identifier)

	var cached provider.Record
	if err := n.cache.GetJSON(ctx, key, &cached); err == nil {
		n.logger.Debug("cache hit", zap.String("npi", identifier))
		return &cached, nil
	} else if !cache.IsNotFound(err) {
		// An unreachable cache is a miss, not a failure.
		n.logger.Warn("cache read failed, falling through to registry",
			zap.String("npi", identifier),
			zap.Error(err))
	}

	params := url.Values{}
	params.Set("version", npiAPIVersion)
	params.Set("number", identifier)

	var resp npiResponse
	if err := n.fetcher.GetJSON(ctx, "", params, &resp); err != nil {
		return nil, err
	}
	if resp.ResultCount == 0 || len(resp.Results) == 0 {
		return nil, errors.NewNotFoundError("NPI", identifier)
	}

	rec := mapNPIResult(&resp.Results[0])

	if err := n.cache.SetJSON(ctx, key, rec, cache.ProviderTTL); err != nil {
		n.logger.Warn("caching npi record failed",
			zap.String("npi", identifier),
			zap.Error(err))
	}

	return rec, nil
}

// BatchValidate validates NPIs concurrently, index-aligned.
func (n *NPIClient) BatchValidate(ctx context.Context, identifiers []string) []provider.ValidationOutcome {
	return batchValidate(ctx, identifiers, n.ValidateProvider)
}

// NPI Registry v2.1 response shape, limited to the fields we extract.

type npiResponse struct {
	ResultCount int         `json:"result_count"`
	Results     []npiResult `json:"results"`
}

type npiResult struct {
	Number          string        `json:"number"`
	EnumerationType string        `json:"enumeration_type"`
	Basic           npiBasic      `json:"basic"`
	Addresses       []npiAddress  `json:"addresses"`
	Taxonomies      []npiTaxonomy `json:"taxonomies"`
}

type npiBasic struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	OrganizationName string `json:"organization_name"`
	Status           string `json:"status"`
	LastUpdated      string `json:"last_updated"`
}

type npiAddress struct {
	AddressPurpose  string `json:"address_purpose"`
	Address1        string `json:"address_1"`
	Address2        string `json:"address_2"`
	City            string `json:"city"`
	State           string `json:"state"`
	PostalCode      string `json:"postal_code"`
	CountryCode     string `json:"country_code"`
	TelephoneNumber string `json:"telephone_number"`
}

type npiTaxonomy struct {
	Code    string `json:"code"`
	Desc    string `json:"desc"`
	Primary bool   `json:"primary"`
}

// mapNPIResult converts a raw registry result into the standardized
// record. The primary practice address is the one marked LOCATION; the
// specialty comes from the taxonomy marked primary. Both fall back to
// the first element when no marker is present.
func mapNPIResult(res *npiResult) *provider.Record {
	var practice npiAddress
	if len(res.Addresses) > 0 {
		practice = res.Addresses[0]
		for _, addr := range res.Addresses {
			if addr.AddressPurpose == "LOCATION" {
				practice = addr
				break
			}
		}
	}

	var primaryTaxonomy npiTaxonomy
	if len(res.Taxonomies) > 0 {
		primaryTaxonomy = res.Taxonomies[0]
		for _, tax := range res.Taxonomies {
			if tax.Primary {
				primaryTaxonomy = tax
				break
			}
		}
	}

	providerType := provider.TypeOrganization
	if res.EnumerationType == "NPI-1" {
		providerType = provider.TypeIndividual
	}

	status := provider.StatusInactive
	if res.Basic.Status == "A" {
		status = provider.StatusActive
	}

	country := practice.CountryCode
	if country == "" {
		country = "US"
	}

	taxonomies := make([]map[string]interface{}, 0, len(res.Taxonomies))
	for _, tax := range res.Taxonomies {
		taxonomies = append(taxonomies, map[string]interface{}{
			"code":        tax.Code,
			"description": tax.Desc,
			"primary":     tax.Primary,
		})
	}

	return &provider.Record{
		Identifier:       res.Number,
		IdentifierType:   "npi",
		ProviderType:     providerType,
		FirstName:        res.Basic.FirstName,
		LastName:         res.Basic.LastName,
		OrganizationName: res.Basic.OrganizationName,
		Specialty:        primaryTaxonomy.Desc,
		Address: map[string]string{
			"line1":   practice.Address1,
			"line2":   practice.Address2,
			"city":    practice.City,
			"state":   practice.State,
			"zip":     practice.PostalCode,
			"country": country,
		},
		Phone:       practice.TelephoneNumber,
		Status:      status,
		LastUpdated: res.Basic.LastUpdated,
		AdditionalData: map[string]interface{}{
			"enumeration_type": res.EnumerationType,
			"taxonomies":       taxonomies,
		},
	}
}
