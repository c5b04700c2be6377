package licensing

import (
	"go.uber.org/zap"

	"github.com/medverify/provider-verification-backend/internal/infrastructure/cache"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/config"
)

// stateBoards maps supported US state codes to their licensing board.
// Each board runs its own system; coverage grows state by state as the
// gateway integrates them.
var stateBoards = map[string]string{
	"CA": "Medical Board of California",
	"NY": "New York State Board for Medicine",
	"TX": "Texas Medical Board",
	"FL": "Florida Board of Medicine",
	"IL": "Illinois Division of Professional Regulation",
	"PA": "Pennsylvania State Board of Medicine",
	"OH": "State Medical Board of Ohio",
	"GA": "Georgia Composite Medical Board",
	"NC": "North Carolina Medical Board",
	"MI": "Michigan Board of Medicine",
}

// StateBoardClient validates US medical licenses against state medical
// boards. US licenses carry expiration dates, so the expired
// classification is an expected outcome here.
type StateBoardClient struct {
	authorityClient
}

// NewStateBoardClient creates the USA license validator.
func NewStateBoardClient(c cache.Client, cfg *config.LicensingConfig, logger *zap.Logger) *StateBoardClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	fetch := missingGatewayFetch
	if cfg.GatewayBaseURL != "" {
		fetch = newGatewayFetch(gatewayFetcher("state-board-gateway", cfg, logger), "usa/licenses", "state")
	}

	return &StateBoardClient{authorityClient{
		boards:     stateBoards,
		namespace:  cache.NamespaceStateBoard,
		regionType: "state",
		cache:      c,
		fetch:      fetch,
		logger:     logger,
	}}
}
