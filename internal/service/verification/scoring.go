package verification

import (
	"strings"

	"github.com/medverify/provider-verification-backend/internal/domain/region"
)

// ProviderData is the raw submitted provider demographics that quality
// scoring inspects. Field values are taken as submitted, not as looked
// up.
type ProviderData struct {
	Identifier string `json:"identifier"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Specialty  string `json:"specialty"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
	Phone      string `json:"phone"`
}

// QualityResult is the data quality assessment of submitted provider
// data.
type QualityResult struct {
	CompletenessScore float64  `json:"completeness_score"`
	AccuracyScore     float64  `json:"accuracy_score"`
	OverallScore      float64  `json:"overall_score"`
	MissingFields     []string `json:"missing_fields"`
	Issues            []string `json:"issues"`
}

// DataQuality scores submitted provider data: completeness over the
// required field set weighted 0.6, format accuracy weighted 0.4.
// Format checks only fire on populated fields; an absent field is a
// completeness problem, not an accuracy one. Deterministic, no I/O.
func DataQuality(data ProviderData, r region.Region) QualityResult {
	fields := []struct {
		name  string
		value string
	}{
		{"identifier", data.Identifier},
		{"first_name", data.FirstName},
		{"last_name", data.LastName},
		{"specialty", data.Specialty},
		{"address", data.Address},
		{"city", data.City},
		{"state", data.State},
		{"zip_code", data.ZipCode},
		{"phone", data.Phone},
	}

	missing := []string{}
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	completeness := 1.0 - float64(len(missing))/float64(len(fields))

	issues := []string{}

	if data.Identifier != "" {
		switch r {
		case region.USA:
			if !isDigits(data.Identifier) || len(data.Identifier) != 10 {
				issues = append(issues, "Invalid NPI format")
			}
		default:
			if len(data.Identifier) < 5 {
				issues = append(issues, "Invalid NMR ID format")
			}
		}
	}

	if data.Phone != "" {
		digits := strings.NewReplacer("-", "", " ", "", "+", "").Replace(data.Phone)
		if len(digits) < 10 {
			issues = append(issues, "Invalid phone format")
		}
	}

	if data.ZipCode != "" {
		switch r {
		case region.USA:
			if len(data.ZipCode) != 5 && len(data.ZipCode) != 9 {
				issues = append(issues, "Invalid US zip code format")
			}
		default:
			if len(data.ZipCode) != 6 {
				issues = append(issues, "Invalid Indian PIN code format")
			}
		}
	}

	// Each issue costs a tenth of the accuracy score.
	accuracy := 1.0 - float64(len(issues))/10

	return QualityResult{
		CompletenessScore: completeness,
		AccuracyScore:     accuracy,
		OverallScore:      completeness*0.6 + accuracy*0.4,
		MissingFields:     missing,
		Issues:            issues,
	}
}

// AggregateConfidence combines the provider confidence, license
// confidences, and data quality into the overall score:
// provider x 0.4 + mean(licenses) x 0.4 + quality x 0.2. The license
// term contributes zero when no licenses were checked. Clamped to
// [0, 1]. Deterministic, no I/O.
func AggregateConfidence(providerConfidence float64, licenseConfidences []float64, dataQuality float64) float64 {
	licenseTerm := 0.0
	if len(licenseConfidences) > 0 {
		sum := 0.0
		for _, c := range licenseConfidences {
			sum += c
		}
		licenseTerm = sum / float64(len(licenseConfidences))
	}

	overall := providerConfidence*0.4 + licenseTerm*0.4 + dataQuality*0.2
	if overall < 0 {
		return 0
	}
	if overall > 1 {
		return 1
	}
	return overall
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
