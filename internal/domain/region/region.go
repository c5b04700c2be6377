package region

import (
	"strings"

	"github.com/medverify/provider-verification-backend/internal/domain/errors"
)

// Region identifies a jurisdiction with its own provider-identifier
// scheme and licensing authority.
type Region string

const (
	USA   Region = "usa"
	India Region = "india"
)

// Config holds static per-region metadata. Read-only, process-wide.
type Config struct {
	Region                 Region `json:"region"`
	ProviderRegistryName   string `json:"provider_registry_name"`
	ProviderIdentifierName string `json:"provider_identifier_name"`
	LicenseAuthorityName   string `json:"license_authority_name"`
	LicenseRegionName      string `json:"license_region_name"`
}

var configs = map[Region]Config{
	USA: {
		Region:                 USA,
		ProviderRegistryName:   "NPI Registry",
		ProviderIdentifierName: "NPI",
		LicenseAuthorityName:   "State Medical Board",
		LicenseRegionName:      "State",
	},
	India: {
		Region:                 India,
		ProviderRegistryName:   "National Medical Commission",
		ProviderIdentifierName: "NMR ID",
		LicenseAuthorityName:   "State Medical Council",
		LicenseRegionName:      "Council",
	},
}

// Supported returns the supported region tags.
func Supported() []string {
	return []string{string(USA), string(India)}
}

// FromString parses a region tag, case-insensitively.
func FromString(s string) (Region, error) {
	switch Region(strings.ToLower(strings.TrimSpace(s))) {
	case USA:
		return USA, nil
	case India:
		return India, nil
	default:
		return "", errors.NewUnsupportedRegionError(s, Supported())
	}
}

// ConfigFor returns the static configuration for a region.
func ConfigFor(r Region) (Config, error) {
	cfg, ok := configs[r]
	if !ok {
		return Config{}, errors.NewUnsupportedRegionError(string(r), Supported())
	}
	return cfg, nil
}
