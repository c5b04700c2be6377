package verification

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/medverify/provider-verification-backend/internal/domain/license"
	"github.com/medverify/provider-verification-backend/internal/domain/provider"
	"github.com/medverify/provider-verification-backend/internal/service/licensing"
)

type mockProviderRegistry struct {
	mock.Mock
}

func (m *mockProviderRegistry) ValidateProvider(ctx context.Context, identifier string) provider.ValidationOutcome {
	args := m.Called(ctx, identifier)
	return args.Get(0).(provider.ValidationOutcome)
}

func (m *mockProviderRegistry) LookupProvider(ctx context.Context, identifier string) (*provider.Record, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Record), args.Error(1)
}

func (m *mockProviderRegistry) BatchValidate(ctx context.Context, identifiers []string) []provider.ValidationOutcome {
	args := m.Called(ctx, identifiers)
	return args.Get(0).([]provider.ValidationOutcome)
}

type mockLicenseValidator struct {
	mock.Mock
}

func (m *mockLicenseValidator) ValidateLicense(ctx context.Context, number, region, providerName string) license.ValidationOutcome {
	args := m.Called(ctx, number, region, providerName)
	return args.Get(0).(license.ValidationOutcome)
}

func (m *mockLicenseValidator) LookupLicense(ctx context.Context, number, region, providerName string) (*license.Record, error) {
	args := m.Called(ctx, number, region, providerName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*license.Record), args.Error(1)
}

func (m *mockLicenseValidator) ValidateMultiple(ctx context.Context, queries []licensing.LicenseQuery) []license.ValidationOutcome {
	args := m.Called(ctx, queries)
	return args.Get(0).([]license.ValidationOutcome)
}
