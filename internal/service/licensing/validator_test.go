package licensing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/medverify/provider-verification-backend/internal/domain/errors"
	"github.com/medverify/provider-verification-backend/internal/domain/license"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/cache"
)

// fakeFetch counts authority calls and delegates to a canned responder.
type fakeFetch struct {
	mu      sync.Mutex
	calls   int
	respond func(number, region string) (*license.Record, error)
}

func (f *fakeFetch) fetch(ctx context.Context, number, region string) (*license.Record, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.respond(number, region)
}

func (f *fakeFetch) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func activeLicense(number, region, providerName string) *license.Record {
	return &license.Record{
		LicenseNumber: number,
		Region:        region,
		Status:        "Active",
		IssueDate:     "2015-06-01",
		ProviderName:  providerName,
		LicenseType:   "Physician and Surgeon",
	}
}

func newTestBoardClient(t *testing.T, respond func(number, region string) (*license.Record, error)) (*StateBoardClient, *fakeFetch, cache.Client) {
	t.Helper()
	mem := cache.NewMemoryCache(100, time.Minute, zaptest.NewLogger(t))
	fake := &fakeFetch{respond: respond}
	client := &StateBoardClient{authorityClient{
		boards:     stateBoards,
		namespace:  cache.NamespaceStateBoard,
		regionType: "state",
		cache:      mem,
		fetch:      fake.fetch,
		logger:     zaptest.NewLogger(t),
	}}
	return client, fake, mem
}

func TestValidateLicense_MissingInput(t *testing.T) {
	client, fake, _ := newTestBoardClient(t, func(string, string) (*license.Record, error) {
		t.Fatal("no network call for missing input")
		return nil, nil
	})
	ctx := context.Background()

	for _, tc := range []struct{ number, region string }{
		{"", "CA"},
		{"A12345", ""},
		{"", ""},
	} {
		out := client.ValidateLicense(ctx, tc.number, tc.region, "")
		assert.False(t, out.IsValid)
		assert.False(t, out.Exists)
		assert.Zero(t, out.Confidence)
		assert.NotEmpty(t, out.Error)
	}
	assert.Zero(t, fake.callCount())
}

func TestValidateLicense_UnsupportedRegion(t *testing.T) {
	client, fake, _ := newTestBoardClient(t, func(string, string) (*license.Record, error) {
		t.Fatal("no network call for an unsupported region")
		return nil, nil
	})

	out := client.ValidateLicense(context.Background(), "A12345", "ZZ", "")
	assert.False(t, out.IsValid)
	assert.Zero(t, out.Confidence)
	assert.NotEmpty(t, out.Error)
	assert.Zero(t, fake.callCount())

	_, err := client.LookupLicense(context.Background(), "A12345", "ZZ", "")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedRegion))
}

func TestValidateLicense_StatusClassification(t *testing.T) {
	tests := []struct {
		rawStatus  string
		confidence float64
		isValid    bool
		isActive   bool
		isExpired  bool
	}{
		{"Active", 1.0, true, true, false},
		{"Current", 1.0, true, true, false},
		{"VALID", 1.0, true, true, false},
		{"License Lapsed", 0.3, false, false, true},
		{"Expired", 0.3, false, false, true},
		{"Inactive", 0.1, false, false, false},
		{"SUSPENDED", 0.1, false, false, false},
		{"Cancelled", 0.1, false, false, false},
		{"Revoked by board order", 0.1, false, false, false},
		{"something else", 0.1, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.rawStatus, func(t *testing.T) {
			client, _, _ := newTestBoardClient(t, func(number, region string) (*license.Record, error) {
				rec := activeLicense(number, region, "")
				rec.Status = tt.rawStatus
				return rec, nil
			})

			out := client.ValidateLicense(context.Background(), "A12345", "CA", "")
			assert.True(t, out.Exists)
			assert.Equal(t, tt.isValid, out.IsValid)
			assert.Equal(t, tt.isActive, out.IsActive)
			assert.Equal(t, tt.isExpired, out.IsExpired)
			assert.InDelta(t, tt.confidence, out.Confidence, 1e-9)
		})
	}
}

func TestValidateLicense_DisciplinaryActions(t *testing.T) {
	client, _, _ := newTestBoardClient(t, func(number, region string) (*license.Record, error) {
		rec := activeLicense(number, region, "")
		rec.DisciplinaryActions = []license.DisciplinaryAction{
			{Date: "2021-03-01", ActionType: "Reprimand", Description: "Public reprimand"},
		}
		return rec, nil
	})

	out := client.ValidateLicense(context.Background(), "A12345", "CA", "")
	assert.True(t, out.IsValid)
	assert.True(t, out.HasDisciplinaryActions)
	assert.InDelta(t, 0.7, out.Confidence, 1e-9)
}

func TestValidateLicense_NameMatching(t *testing.T) {
	client, _, _ := newTestBoardClient(t, func(number, region string) (*license.Record, error) {
		return activeLicense(number, region, "Dr. Jane Smith, MD"), nil
	})
	ctx := context.Background()

	t.Run("substring match", func(t *testing.T) {
		out := client.ValidateLicense(ctx, "A1", "CA", "jane smith")
		require.NotNil(t, out.NameMatches)
		assert.True(t, *out.NameMatches)
		assert.True(t, out.IsValid)
		assert.InDelta(t, 1.0, out.Confidence, 1e-9)
	})

	t.Run("mismatch scales confidence and invalidates", func(t *testing.T) {
		out := client.ValidateLicense(ctx, "A2", "CA", "John Doe")
		require.NotNil(t, out.NameMatches)
		assert.False(t, *out.NameMatches)
		assert.False(t, out.IsValid)
		assert.InDelta(t, 0.8, out.Confidence, 1e-9)
	})

	t.Run("no name supplied leaves match uncomputed", func(t *testing.T) {
		out := client.ValidateLicense(ctx, "A3", "CA", "")
		assert.Nil(t, out.NameMatches)
		assert.True(t, out.IsValid)
	})
}

func TestValidateLicense_MismatchWithDisciplinary(t *testing.T) {
	client, _, _ := newTestBoardClient(t, func(number, region string) (*license.Record, error) {
		rec := activeLicense(number, region, "Dr. Jane Smith")
		rec.DisciplinaryActions = []license.DisciplinaryAction{{ActionType: "Probation"}}
		return rec, nil
	})

	out := client.ValidateLicense(context.Background(), "A12345", "CA", "John Doe")
	// Both penalties stack: 0.7 for disciplinary history, scaled by 0.8
	// for the name mismatch.
	assert.InDelta(t, 0.56, out.Confidence, 1e-9)
	assert.False(t, out.IsValid)
}

func TestValidateLicense_AuthorityFailure(t *testing.T) {
	client, _, _ := newTestBoardClient(t, func(string, string) (*license.Record, error) {
		return nil, errors.NewExternalError("state-board-gateway", "request failed after 3 attempts")
	})

	out := client.ValidateLicense(context.Background(), "A12345", "CA", "")
	assert.False(t, out.IsValid)
	assert.False(t, out.Exists)
	assert.Zero(t, out.Confidence)
	assert.NotEmpty(t, out.Error)
}

func TestLookupLicense_CacheHitSkipsNetwork(t *testing.T) {
	client, fake, _ := newTestBoardClient(t, func(number, region string) (*license.Record, error) {
		return activeLicense(number, region, "Dr. Smith"), nil
	})
	ctx := context.Background()

	first, err := client.LookupLicense(ctx, "A12345", "CA", "")
	require.NoError(t, err)
	assert.Equal(t, "Medical Board of California", first.AdditionalData["authority"])
	assert.Equal(t, "state", first.RegionType)

	_, err = client.LookupLicense(ctx, "A12345", "CA", "")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.callCount())

	// Same number in a different state is a distinct license.
	_, err = client.LookupLicense(ctx, "A12345", "TX", "")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.callCount())
}

func TestValidateMultiple_IndexAlignment(t *testing.T) {
	client, _, _ := newTestBoardClient(t, func(number, region string) (*license.Record, error) {
		if number == "FAIL" {
			return nil, errors.NewExternalError("state-board-gateway", "boom")
		}
		return activeLicense(number, region, ""), nil
	})

	queries := []LicenseQuery{
		{Number: "A1", Region: "CA"},
		{Number: "FAIL", Region: "NY"},
		{Number: "", Region: "TX"},
		{Number: "B2", Region: "ZZ"},
		{Number: "C3", Region: "FL"},
	}
	outcomes := client.ValidateMultiple(context.Background(), queries)

	require.Len(t, outcomes, len(queries))
	for i, q := range queries {
		assert.Equal(t, q.Number, outcomes[i].LicenseNumber)
		assert.Equal(t, q.Region, outcomes[i].Region)
	}
	assert.True(t, outcomes[0].IsValid)
	assert.False(t, outcomes[1].IsValid)
	assert.False(t, outcomes[2].IsValid)
	assert.False(t, outcomes[3].IsValid)
	assert.True(t, outcomes[4].IsValid)
}

func TestValidateMultiple_Empty(t *testing.T) {
	client, fake, _ := newTestBoardClient(t, func(string, string) (*license.Record, error) {
		return nil, nil
	})
	outcomes := client.ValidateMultiple(context.Background(), nil)
	assert.Empty(t, outcomes)
	assert.Zero(t, fake.callCount())
}
