package verification

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"

	"github.com/medverify/provider-verification-backend/internal/domain/region"
)

func completeProviderData() ProviderData {
	return ProviderData{
		Identifier: "1234567890",
		FirstName:  "Jane",
		LastName:   "Smith",
		Specialty:  "Family Medicine",
		Address:    "100 Main St",
		City:       "Dallas",
		State:      "TX",
		ZipCode:    "75201",
		Phone:      "214-555-0100",
	}
}

func TestDataQuality_CompleteCleanData(t *testing.T) {
	q := DataQuality(completeProviderData(), region.USA)
	assert.InDelta(t, 1.0, q.CompletenessScore, 1e-9)
	assert.InDelta(t, 1.0, q.AccuracyScore, 1e-9)
	assert.InDelta(t, 1.0, q.OverallScore, 1e-9)
	assert.Empty(t, q.MissingFields)
	assert.Empty(t, q.Issues)
}

func TestDataQuality_MissingFields(t *testing.T) {
	data := completeProviderData()
	data.Specialty = ""
	data.Phone = ""
	data.Address = ""

	q := DataQuality(data, region.USA)
	assert.ElementsMatch(t, []string{"specialty", "address", "phone"}, q.MissingFields)
	assert.InDelta(t, 1.0-3.0/9.0, q.CompletenessScore, 1e-9)
	// Absent fields never double as accuracy issues.
	assert.Empty(t, q.Issues)
	assert.InDelta(t, 1.0, q.AccuracyScore, 1e-9)
}

func TestDataQuality_FormatIssues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProviderData)
		region region.Region
		issue  string
	}{
		{"short NPI", func(d *ProviderData) { d.Identifier = "12345" }, region.USA, "Invalid NPI format"},
		{"alpha NPI", func(d *ProviderData) { d.Identifier = "12345abcde" }, region.USA, "Invalid NPI format"},
		{"short NMR", func(d *ProviderData) { d.Identifier = "AB1" }, region.India, "Invalid NMR ID format"},
		{"short phone", func(d *ProviderData) { d.Phone = "555-0100" }, region.USA, "Invalid phone format"},
		{"bad US zip", func(d *ProviderData) { d.ZipCode = "752" }, region.USA, "Invalid US zip code format"},
		{"bad PIN code", func(d *ProviderData) { d.ZipCode = "4000" }, region.India, "Invalid Indian PIN code format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := completeProviderData()
			if tt.region == region.India {
				data.Identifier = "NMR12345"
				data.ZipCode = "400001"
			}
			tt.mutate(&data)

			q := DataQuality(data, tt.region)
			assert.Contains(t, q.Issues, tt.issue)
			assert.InDelta(t, 1.0-float64(len(q.Issues))/10, q.AccuracyScore, 1e-9)
		})
	}
}

func TestDataQuality_NineDigitZipAccepted(t *testing.T) {
	data := completeProviderData()
	data.ZipCode = "752011234"
	q := DataQuality(data, region.USA)
	assert.Empty(t, q.Issues)
}

func TestAggregateConfidence_Exact(t *testing.T) {
	// 1.0*0.4 + mean(1.0, 0.7)*0.4 + 0.6*0.2
	got := AggregateConfidence(1.0, []float64{1.0, 0.7}, 0.6)
	assert.InDelta(t, 0.86, got, 1e-9)
}

func TestAggregateConfidence_EmptyLicenseList(t *testing.T) {
	got := AggregateConfidence(1.0, nil, 1.0)
	assert.InDelta(t, 0.6, got, 1e-9)

	got = AggregateConfidence(0.0, []float64{}, 0.0)
	assert.Zero(t, got)
}

func TestAggregateConfidence_Clamped(t *testing.T) {
	assert.Equal(t, 1.0, AggregateConfidence(2.0, []float64{2.0}, 2.0))
	assert.Equal(t, 0.0, AggregateConfidence(-1.0, []float64{-1.0}, -1.0))
}

// unit maps an arbitrary float into [0, 1].
func unit(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0.5
	}
	return math.Mod(math.Abs(f), 1.0)
}

func TestAggregateConfidence_Properties(t *testing.T) {
	t.Run("always within bounds", func(t *testing.T) {
		prop := func(p, q float64, ls []float64) bool {
			confs := make([]float64, len(ls))
			for i, l := range ls {
				confs[i] = unit(l)
			}
			got := AggregateConfidence(unit(p), confs, unit(q))
			return got >= 0.0 && got <= 1.0
		}
		assert.NoError(t, quick.Check(prop, nil))
	})

	t.Run("monotonic in provider confidence", func(t *testing.T) {
		prop := func(p1, p2, q float64, ls []float64) bool {
			a, b := unit(p1), unit(p2)
			if a > b {
				a, b = b, a
			}
			confs := make([]float64, len(ls))
			for i, l := range ls {
				confs[i] = unit(l)
			}
			return AggregateConfidence(a, confs, unit(q)) <= AggregateConfidence(b, confs, unit(q))+1e-12
		}
		assert.NoError(t, quick.Check(prop, nil))
	})

	t.Run("empty list equals provider and quality terms", func(t *testing.T) {
		prop := func(p, q float64) bool {
			pp, qq := unit(p), unit(q)
			got := AggregateConfidence(pp, nil, qq)
			return math.Abs(got-(pp*0.4+qq*0.2)) < 1e-12
		}
		assert.NoError(t, quick.Check(prop, nil))
	})
}
