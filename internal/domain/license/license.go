package license

import (
	"strings"
	"time"
)

// Status is the normalized standing of a license.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusExpired   Status = "expired"
	StatusSuspended Status = "suspended"
	StatusRevoked   Status = "revoked"
	StatusUnknown   Status = "unknown"
)

// ParseStatus classifies a raw authority-reported status string by
// case-insensitive substring matching. Authorities report free-form
// strings ("Current", "License Lapsed", "CANCELLED"), so matching is
// deliberately loose.
func ParseStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	// "inactive" must win over the "active" substring it contains.
	case strings.Contains(s, "inactive"):
		return StatusInactive
	case strings.Contains(s, "active"), strings.Contains(s, "current"), strings.Contains(s, "valid"):
		return StatusActive
	case strings.Contains(s, "expired"), strings.Contains(s, "lapsed"):
		return StatusExpired
	case strings.Contains(s, "suspend"):
		return StatusSuspended
	case strings.Contains(s, "cancel"), strings.Contains(s, "revok"):
		return StatusRevoked
	default:
		return StatusUnknown
	}
}

// DisciplinaryAction is one entry in a license's disciplinary history.
// Order is preserved as reported by the authority.
type DisciplinaryAction struct {
	Date        string `json:"date,omitempty"`
	ActionType  string `json:"action_type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Record is the standardized, region-agnostic license record built from
// an authority lookup. Never mutated after creation; replaced wholesale.
type Record struct {
	LicenseNumber       string                 `json:"license_number"`
	Region              string                 `json:"region"`      // state or council code
	RegionType          string                 `json:"region_type"` // "state" or "council"
	Status              string                 `json:"status"`      // raw authority string; normalize with ParseStatus
	IssueDate           string                 `json:"issue_date,omitempty"`
	ExpirationDate      string                 `json:"expiration_date,omitempty"` // absent where licenses never expire
	ProviderName        string                 `json:"provider_name,omitempty"`
	LicenseType         string                 `json:"license_type,omitempty"`
	DisciplinaryActions []DisciplinaryAction   `json:"disciplinary_actions,omitempty"`
	AdditionalData      map[string]interface{} `json:"additional_data,omitempty"`
}

// HasDisciplinaryActions reports whether the record carries any
// disciplinary history.
func (r *Record) HasDisciplinaryActions() bool {
	return len(r.DisciplinaryActions) > 0
}

// NameMatches computes a case-insensitive substring match between a
// supplied provider name and the record's name. Returns nil when either
// side is absent (tri-state: matched, mismatched, not computed).
func (r *Record) NameMatches(providerName string) *bool {
	if providerName == "" || r.ProviderName == "" {
		return nil
	}
	matched := strings.Contains(
		strings.ToLower(r.ProviderName),
		strings.ToLower(providerName),
	)
	return &matched
}

// ValidationOutcome is the structured result of a license validation.
type ValidationOutcome struct {
	IsValid                bool      `json:"is_valid"`
	LicenseNumber          string    `json:"license_number"`
	Region                 string    `json:"region"`
	RegionType             string    `json:"region_type"`
	Exists                 bool      `json:"exists"`
	IsActive               bool      `json:"is_active"`
	IsExpired              bool      `json:"is_expired"`
	HasDisciplinaryActions bool      `json:"has_disciplinary_actions"`
	NameMatches            *bool     `json:"name_matches,omitempty"`
	Confidence             float64   `json:"confidence"`
	Error                  string    `json:"error,omitempty"`
	CheckedAt              time.Time `json:"checked_at"`
}

// FailedOutcome builds the zero-confidence outcome for a validation that
// could not consult the authority (bad input, unsupported region, or a
// lookup failure).
func FailedOutcome(number, region, regionType string, err error) ValidationOutcome {
	return ValidationOutcome{
		IsValid:       false,
		LicenseNumber: number,
		Region:        region,
		RegionType:    regionType,
		Confidence:    0.0,
		Error:         err.Error(),
		CheckedAt:     time.Now().UTC(),
	}
}

// Confidence derives the confidence score for a looked-up license:
// 1.0 active, cut to 0.7 when disciplinary history exists, scaled by
// 0.8 on an explicit name mismatch; 0.3 expired; 0.1 otherwise.
func Confidence(status Status, hasDisciplinary bool, nameMatches *bool) float64 {
	switch status {
	case StatusActive:
		c := 1.0
		if hasDisciplinary {
			c = 0.7
		}
		if nameMatches != nil && !*nameMatches {
			c *= 0.8
		}
		return c
	case StatusExpired:
		return 0.3
	default:
		return 0.1
	}
}
