package verification

import (
	"go.uber.org/zap"

	"github.com/medverify/provider-verification-backend/internal/domain/errors"
	"github.com/medverify/provider-verification-backend/internal/domain/region"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/cache"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/config"
	"github.com/medverify/provider-verification-backend/internal/service/licensing"
	"github.com/medverify/provider-verification-backend/internal/service/registry"
)

// Services bundles the region-specific clients behind the
// region-agnostic interfaces. Both share the one cache instance they
// were built with.
type Services struct {
	Registry registry.ProviderRegistry
	Licenses licensing.LicenseValidator
}

// NewProviderRegistry returns the provider registry client for a
// region.
func NewProviderRegistry(r region.Region, c cache.Client, cfg *config.Config, logger *zap.Logger) (registry.ProviderRegistry, error) {
	switch r {
	case region.USA:
		return registry.NewNPIClient(c, &cfg.Registry, logger), nil
	case region.India:
		return registry.NewNMCClient(c, &cfg.Registry, logger), nil
	default:
		return nil, errors.NewUnsupportedRegionError(string(r), region.Supported())
	}
}

// NewLicenseValidator returns the license validator for a region.
func NewLicenseValidator(r region.Region, c cache.Client, cfg *config.Config, logger *zap.Logger) (licensing.LicenseValidator, error) {
	switch r {
	case region.USA:
		return licensing.NewStateBoardClient(c, &cfg.Licensing, logger), nil
	case region.India:
		return licensing.NewStateCouncilClient(c, &cfg.Licensing, logger), nil
	default:
		return nil, errors.NewUnsupportedRegionError(string(r), region.Supported())
	}
}

// NewServices builds both clients for a region against a shared cache.
func NewServices(r region.Region, c cache.Client, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	reg, err := NewProviderRegistry(r, c, cfg, logger)
	if err != nil {
		return nil, err
	}
	lic, err := NewLicenseValidator(r, c, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Services{Registry: reg, Licenses: lic}, nil
}
