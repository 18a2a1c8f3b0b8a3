// Package report contains the pure business rules for citizen report intake:
// the closed enum types and the draft validation guards.
// This is part of the Functional Core - no I/O, only pure functions.
package report

import (
	"strings"

	"github.com/example/waterwatch/internal/core/geo"
	"github.com/example/waterwatch/internal/faults"
)

// SourceType classifies the water source a report concerns. The set is
// closed; unrecognized values are rejected at the repository boundary.
type SourceType string

const (
	SourceRiver        SourceType = "river"
	SourcePond         SourceType = "pond"
	SourceWell         SourceType = "well"
	SourceTubeWell     SourceType = "tube_well"
	SourceLake         SourceType = "lake"
	SourceCanal        SourceType = "canal"
	SourceDomestic     SourceType = "domestic"
	SourceIndustrial   SourceType = "industrial"
	SourceAgricultural SourceType = "agricultural"
	SourceNatural      SourceType = "natural"
	SourceOther        SourceType = "other"
)

var sourceTypes = map[SourceType]bool{
	SourceRiver: true, SourcePond: true, SourceWell: true, SourceTubeWell: true,
	SourceLake: true, SourceCanal: true, SourceDomestic: true, SourceIndustrial: true,
	SourceAgricultural: true, SourceNatural: true, SourceOther: true,
}

// ParseSourceType normalizes and validates a source type string.
func ParseSourceType(s string) (SourceType, bool) {
	st := SourceType(strings.ToLower(strings.TrimSpace(s)))
	return st, sourceTypes[st]
}

// SeverityHint is the citizen-asserted severity of a report. It is recorded
// and surfaced but never consulted by the escalation guard, which works on
// report count alone.
type SeverityHint string

const (
	HintLow      SeverityHint = "low"
	HintMedium   SeverityHint = "medium"
	HintHigh     SeverityHint = "high"
	HintCritical SeverityHint = "critical"
)

var severityHints = map[SeverityHint]bool{
	HintLow: true, HintMedium: true, HintHigh: true, HintCritical: true,
}

// ParseSeverityHint normalizes and validates a severity hint string.
func ParseSeverityHint(s string) (SeverityHint, bool) {
	h := SeverityHint(strings.ToLower(strings.TrimSpace(s)))
	return h, severityHints[h]
}

// Status represents the lifecycle state of an individual report. Reports are
// mutated only by group-level transitions and are never deleted.
type Status string

const (
	StatusReported Status = "reported"
	StatusAssigned Status = "assigned"
	StatusResolved Status = "resolved"
)

// SubmitterRole identifies who filed the report.
type SubmitterRole string

const (
	RoleCitizen SubmitterRole = "citizen"
	RolePHC     SubmitterRole = "phc"
	RoleLab     SubmitterRole = "lab"
)

// Draft is the unvalidated intake payload for a new report.
type Draft struct {
	Problem      string
	SourceType   string
	SeverityHint string
	PinCode      string
	LocalityName string
	District     string
	Lat          *float64
	Lon          *float64
}

// ValidateDraft checks a draft against the intake contract. It returns the
// first failure as a typed ValidationError; out-of-range coordinates fail
// with field "coordinates".
func ValidateDraft(d Draft) error {
	if strings.TrimSpace(d.Problem) == "" {
		return faults.NewValidation("problem", "must not be empty")
	}
	if _, ok := ParseSourceType(d.SourceType); !ok {
		return faults.NewValidation("sourceType", "unrecognized source type")
	}
	if _, ok := ParseSeverityHint(d.SeverityHint); !ok {
		return faults.NewValidation("severityHint", "unrecognized severity")
	}
	if strings.TrimSpace(d.PinCode) == "" {
		return faults.NewValidation("locality.pinCode", "must not be empty")
	}
	if strings.TrimSpace(d.District) == "" {
		return faults.NewValidation("locality.district", "must not be empty")
	}
	if (d.Lat == nil) != (d.Lon == nil) {
		return faults.NewValidation("coordinates", "latitude and longitude must be provided together")
	}
	if d.Lat != nil && !geo.ValidCoordinates(*d.Lat, *d.Lon) {
		return faults.NewValidation("coordinates", "latitude or longitude out of range")
	}
	return nil
}
