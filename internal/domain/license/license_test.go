package license

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"ACTIVE", StatusActive},
		{"Active - In Good Standing", StatusActive},
		{"Current", StatusActive},
		{"Valid", StatusActive},
		{"License Valid Through 2027", StatusActive},
		{"Inactive", StatusInactive},
		{"INACTIVE - Retired", StatusInactive},
		{"Expired", StatusExpired},
		{"License Lapsed", StatusExpired},
		{"Suspended", StatusSuspended},
		{"Suspension In Effect", StatusSuspended},
		{"Revoked", StatusRevoked},
		{"CANCELLED", StatusRevoked},
		{"", StatusUnknown},
		{"Pending Review", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.raw))
		})
	}
}

func TestRecordNameMatches(t *testing.T) {
	rec := &Record{ProviderName: "Dr. Jane A. Smith"}

	t.Run("substring match case-insensitive", func(t *testing.T) {
		m := rec.NameMatches("jane a. smith")
		assert.NotNil(t, m)
		assert.True(t, *m)
	})

	t.Run("mismatch", func(t *testing.T) {
		m := rec.NameMatches("John Doe")
		assert.NotNil(t, m)
		assert.False(t, *m)
	})

	t.Run("not computed without input name", func(t *testing.T) {
		assert.Nil(t, rec.NameMatches(""))
	})

	t.Run("not computed without record name", func(t *testing.T) {
		empty := &Record{}
		assert.Nil(t, empty.NameMatches("Jane"))
	})
}

func TestConfidence(t *testing.T) {
	matched := true
	mismatched := false

	tests := []struct {
		name            string
		status          Status
		hasDisciplinary bool
		nameMatches     *bool
		want            float64
	}{
		{"active clean", StatusActive, false, nil, 1.0},
		{"active matched name", StatusActive, false, &matched, 1.0},
		{"active with disciplinary", StatusActive, true, nil, 0.7},
		{"active name mismatch", StatusActive, false, &mismatched, 0.8},
		{"active disciplinary and mismatch", StatusActive, true, &mismatched, 0.7 * 0.8},
		{"expired", StatusExpired, false, nil, 0.3},
		{"suspended", StatusSuspended, false, nil, 0.1},
		{"revoked", StatusRevoked, true, nil, 0.1},
		{"unknown", StatusUnknown, false, nil, 0.1},
		{"inactive", StatusInactive, false, nil, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.status, tt.hasDisciplinary, tt.nameMatches)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
