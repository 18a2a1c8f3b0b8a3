// Package severity contains the pure tier classification for locality groups.
// This is part of the Functional Core - no I/O, only pure functions.
package severity

// Tier represents the computed severity classification of a locality group.
// It is derived purely from active report count, never from citizen-asserted
// severity hints.
type Tier string

const (
	TierNone   Tier = "none"
	TierMild   Tier = "mild"
	TierMedium Tier = "medium"
	TierSevere Tier = "severe"
)

// Threshold constants for the count-to-tier step function.
const (
	MildThreshold   = 5
	MediumThreshold = 10
	SevereThreshold = 20
)

// EscalationThreshold is the minimum active report count for a locality group
// to become escalation-eligible. It coincides with the mild tier boundary.
const EscalationThreshold = MildThreshold

// TierForCount returns the severity tier for an active report count.
// The function is a monotonic non-decreasing step function of count.
func TierForCount(count int) Tier {
	switch {
	case count >= SevereThreshold:
		return TierSevere
	case count >= MediumThreshold:
		return TierMedium
	case count >= MildThreshold:
		return TierMild
	default:
		return TierNone
	}
}

// MeetsEscalationThreshold reports whether a group with the given count has
// crossed the escalation boundary.
func MeetsEscalationThreshold(count int) bool {
	return count >= EscalationThreshold
}
