package verification

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medverify/provider-verification-backend/internal/domain/errors"
	"github.com/medverify/provider-verification-backend/internal/domain/license"
	"github.com/medverify/provider-verification-backend/internal/domain/provider"
	"github.com/medverify/provider-verification-backend/internal/domain/region"
	"github.com/medverify/provider-verification-backend/internal/service/licensing"
	"github.com/medverify/provider-verification-backend/internal/service/registry"
)

// VerificationRequest is one provider to verify, with any licenses to
// check alongside the identifier.
type VerificationRequest struct {
	Provider ProviderData             `json:"provider" validate:"required"`
	Licenses []licensing.LicenseQuery `json:"licenses,omitempty" validate:"dive"`
}

// VerificationResult is the complete outcome of one verification run.
type VerificationResult struct {
	RequestID          string                      `json:"request_id"`
	Region             region.Region               `json:"region"`
	ProviderValidation provider.ValidationOutcome  `json:"provider_validation"`
	LicenseValidations []license.ValidationOutcome `json:"license_validations"`
	DataQuality        QualityResult               `json:"data_quality"`
	OverallConfidence  float64                     `json:"overall_confidence"`
	IsValid            bool                        `json:"is_valid"`
	CheckedAt          time.Time                   `json:"checked_at"`
	DurationMS         int64                       `json:"duration_ms"`
}

// Service orchestrates a full provider verification: identifier check,
// license checks, data quality scoring, and confidence aggregation.
type Service struct {
	region   region.Region
	registry registry.ProviderRegistry
	licenses licensing.LicenseValidator
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService wires a verification service from region clients.
func NewService(r region.Region, svcs *Services, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		region:   r,
		registry: svcs.Registry,
		licenses: svcs.Licenses,
		validate: validator.New(),
		logger:   logger,
	}
}

// VerifyProvider runs the full verification. The identifier and
// license checks fan out concurrently; cancellation propagates into
// both through ctx. Sub-validation failures land in their outcomes,
// so the only error returns are a malformed request or a cancelled
// context.
func (s *Service) VerifyProvider(ctx context.Context, req VerificationRequest) (*VerificationResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errors.NewValidationError("INVALID_REQUEST", err.Error())
	}
	if req.Provider.Identifier == "" {
		return nil, errors.NewValidationError("INVALID_REQUEST", "provider identifier is required")
	}

	requestID := uuid.NewString()
	started := time.Now()

	s.logger.Info("verification started",
		zap.String("request_id", requestID),
		zap.String("region", string(s.region)),
		zap.String("identifier", req.Provider.Identifier),
		zap.Int("licenses", len(req.Licenses)))

	var (
		wg          sync.WaitGroup
		providerOut provider.ValidationOutcome
		licenseOuts []license.ValidationOutcome
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		providerOut = s.registry.ValidateProvider(ctx, req.Provider.Identifier)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		licenseOuts = s.licenses.ValidateMultiple(ctx, req.Licenses)
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "verification cancelled")
	}

	quality := DataQuality(req.Provider, s.region)

	licenseConfs := make([]float64, len(licenseOuts))
	allLicensesValid := true
	for i, out := range licenseOuts {
		licenseConfs[i] = out.Confidence
		if !out.IsValid {
			allLicensesValid = false
		}
	}

	overall := AggregateConfidence(providerOut.Confidence, licenseConfs, quality.OverallScore)
	isValid := providerOut.IsValid && allLicensesValid
	elapsed := time.Since(started)

	verificationsTotal.WithLabelValues(string(s.region), boolLabel(isValid)).Inc()
	verificationDuration.WithLabelValues(string(s.region)).Observe(elapsed.Seconds())
	licenseChecksTotal.WithLabelValues(string(s.region)).Add(float64(len(licenseOuts)))

	s.logger.Info("verification completed",
		zap.String("request_id", requestID),
		zap.Bool("is_valid", isValid),
		zap.Float64("overall_confidence", overall),
		zap.Duration("duration", elapsed))

	return &VerificationResult{
		RequestID:          requestID,
		Region:             s.region,
		ProviderValidation: providerOut,
		LicenseValidations: licenseOuts,
		DataQuality:        quality,
		OverallConfidence:  overall,
		IsValid:            isValid,
		CheckedAt:          time.Now().UTC(),
		DurationMS:         elapsed.Milliseconds(),
	}, nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
