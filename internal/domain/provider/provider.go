package provider

import (
	"time"
)

// Type distinguishes individual practitioners from organizations.
type Type string

const (
	TypeIndividual   Type = "Individual"
	TypeOrganization Type = "Organization"
)

// Status is the registry-reported standing of a provider.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Record is the standardized, region-agnostic provider record built
// from a registry lookup. Records are never mutated after creation;
// a fresh lookup replaces the cached record wholesale.
type Record struct {
	Identifier       string                 `json:"identifier"`
	IdentifierType   string                 `json:"identifier_type"` // "npi", "nmr"
	ProviderType     Type                   `json:"provider_type"`
	FirstName        string                 `json:"first_name,omitempty"`
	LastName         string                 `json:"last_name,omitempty"`
	OrganizationName string                 `json:"organization_name,omitempty"`
	Specialty        string                 `json:"specialty,omitempty"`
	Address          map[string]string      `json:"address"`
	Phone            string                 `json:"phone,omitempty"`
	Status           Status                 `json:"status"`
	LastUpdated      string                 `json:"last_updated,omitempty"`
	AdditionalData   map[string]interface{} `json:"additional_data,omitempty"`
}

// IsActive reports whether the registry considers the provider active.
func (r *Record) IsActive() bool {
	return r.Status == StatusActive
}

// DisplayName returns the organization name for organizations, else
// the practitioner's full name.
func (r *Record) DisplayName() string {
	if r.OrganizationName != "" {
		return r.OrganizationName
	}
	name := r.FirstName
	if r.LastName != "" {
		if name != "" {
			name += " "
		}
		name += r.LastName
	}
	return name
}

// ValidationOutcome is the structured result of a provider validation.
// Produced once per validation call; never persisted.
type ValidationOutcome struct {
	IsValid        bool      `json:"is_valid"`
	Identifier     string    `json:"identifier"`
	IdentifierType string    `json:"identifier_type"`
	Exists         bool      `json:"exists"`
	IsActive       bool      `json:"is_active"`
	ProviderType   Type      `json:"provider_type,omitempty"`
	Confidence     float64   `json:"confidence"`
	Error          string    `json:"error,omitempty"`
	CheckedAt      time.Time `json:"checked_at"`
}

// InvalidFormatOutcome builds the zero-confidence outcome returned when
// an identifier fails the region's syntactic rule. No cache or network
// interaction happens for these.
func InvalidFormatOutcome(identifier, identifierType, message string) ValidationOutcome {
	return ValidationOutcome{
		IsValid:        false,
		Identifier:     identifier,
		IdentifierType: identifierType,
		Exists:         false,
		IsActive:       false,
		Confidence:     0.0,
		Error:          message,
		CheckedAt:      time.Now().UTC(),
	}
}

// FailedLookupOutcome builds the zero-confidence outcome returned when
// a registry lookup fails with a structured error.
func FailedLookupOutcome(identifier, identifierType string, err error) ValidationOutcome {
	return ValidationOutcome{
		IsValid:        false,
		Identifier:     identifier,
		IdentifierType: identifierType,
		Exists:         false,
		IsActive:       false,
		Confidence:     0.0,
		Error:          err.Error(),
		CheckedAt:      time.Now().UTC(),
	}
}
