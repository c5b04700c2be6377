package licensing

import (
	"go.uber.org/zap"

	"github.com/medverify/provider-verification-backend/internal/infrastructure/cache"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/config"
)

// stateCouncils maps supported Indian state codes to their medical
// council. Registration is per council, not national, so the code is
// part of every lookup.
var stateCouncils = map[string]string{
	"MH": "Maharashtra Medical Council",
	"KA": "Karnataka Medical Council",
	"TN": "Tamil Nadu Medical Council",
	"DL": "Delhi Medical Council",
	"GJ": "Gujarat Medical Council",
	"RJ": "Rajasthan Medical Council",
	"UP": "Uttar Pradesh Medical Council",
	"WB": "West Bengal Medical Council",
	"AP": "Andhra Pradesh Medical Council",
	"TG": "Telangana State Medical Council",
}

// StateCouncilClient validates Indian medical registrations against
// state medical councils. Many council registrations never expire, so
// an absent expiration date is normal rather than an error.
type StateCouncilClient struct {
	authorityClient
}

// NewStateCouncilClient creates the India license validator.
func NewStateCouncilClient(c cache.Client, cfg *config.LicensingConfig, logger *zap.Logger) *StateCouncilClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	fetch := missingGatewayFetch
	if cfg.GatewayBaseURL != "" {
		fetch = newGatewayFetch(gatewayFetcher("state-council-gateway", cfg, logger), "india/licenses", "council")
	}

	return &StateCouncilClient{authorityClient{
		boards:     stateCouncils,
		namespace:  cache.NamespaceMedicalCouncil,
		regionType: "council",
		cache:      c,
		fetch:      fetch,
		logger:     logger,
	}}
}
