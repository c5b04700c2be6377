package licensing

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/medverify/provider-verification-backend/internal/domain/errors"
	"github.com/medverify/provider-verification-backend/internal/domain/license"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/config"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/httpclient"
)

// jsonFetcher is the slice of httpclient.Client the gateway fetch
// depends on. Tests substitute a counting double.
type jsonFetcher interface {
	GetJSON(ctx context.Context, path string, params url.Values, dest interface{}) error
}

// gatewayRecord is the licensing gateway's response shape, shared by
// the state board and council endpoints.
type gatewayRecord struct {
	LicenseNumber       string                       `json:"license_number"`
	Status              string                       `json:"status"`
	IssueDate           string                       `json:"issue_date"`
	ExpirationDate      string                       `json:"expiration_date"`
	ProviderName        string                       `json:"provider_name"`
	LicenseType         string                       `json:"license_type"`
	DisciplinaryActions []license.DisciplinaryAction `json:"disciplinary_actions"`
}

func (g *gatewayRecord) toRecord() *license.Record {
	return &license.Record{
		LicenseNumber:       g.LicenseNumber,
		Status:              g.Status,
		IssueDate:           g.IssueDate,
		ExpirationDate:      g.ExpirationDate,
		ProviderName:        g.ProviderName,
		LicenseType:         g.LicenseType,
		DisciplinaryActions: g.DisciplinaryActions,
	}
}

// newGatewayFetch builds the production fetch against one gateway
// endpoint. regionParam is the query parameter name the endpoint uses
// for the region code ("state" or "council").
func newGatewayFetch(fetcher jsonFetcher, path, regionParam string) fetchFunc {
	return func(ctx context.Context, number, region string) (*license.Record, error) {
		params := url.Values{}
		params.Set("license_number", number)
		params.Set(regionParam, region)

		var resp gatewayRecord
		if err := fetcher.GetJSON(ctx, path, params, &resp); err != nil {
			return nil, err
		}
		return resp.toRecord(), nil
	}
}

// missingGatewayFetch fails every lookup with a configuration error.
// Used when no gateway URL is configured, so the failure mode is loud
// and actionable instead of fabricated data.
func missingGatewayFetch(context.Context, string, string) (*license.Record, error) {
	return nil, errors.NewConfigurationError(
		"LICENSE_GATEWAY_URL_MISSING",
		"license verification requires a gateway base URL",
	)
}

func gatewayFetcher(name string, cfg *config.LicensingConfig, logger *zap.Logger) jsonFetcher {
	return httpclient.New(name, cfg.GatewayBaseURL, httpclient.Options{
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RateLimitRPS: cfg.RateLimitRPS,
	}, logger)
}
