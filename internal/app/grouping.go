package app

import (
	"sort"

	"github.com/example/waterwatch/internal/core/severity"
	"github.com/example/waterwatch/internal/ports/primary"
	"github.com/example/waterwatch/internal/ports/secondary"
)

// localityKey identifies a locality group. Grouping is determined solely by
// (pinCode, district).
type localityKey struct {
	PinCode  string
	District string
}

// groupAggregate is the in-memory aggregation of one locality's active
// reports. It is a pure projection, recomputed on every query rather than
// incrementally patched, so it can never drift from the report set.
type groupAggregate struct {
	Key       localityKey
	ReportIDs []string
	Reports   []*secondary.ReportRecord
	Count     int
	Tier      severity.Tier
	// localityName is the most common reported label in the group.
	LocalityName string
	HasGeotagged bool
}

// buildGroups partitions active reports by locality key and derives each
// partition's count and severity tier.
func buildGroups(reports []*secondary.ReportRecord) []*groupAggregate {
	byKey := make(map[localityKey]*groupAggregate)
	labelCounts := make(map[localityKey]map[string]int)

	for _, r := range reports {
		key := localityKey{PinCode: r.PinCode, District: r.District}
		g, ok := byKey[key]
		if !ok {
			g = &groupAggregate{Key: key}
			byKey[key] = g
			labelCounts[key] = make(map[string]int)
		}
		g.ReportIDs = append(g.ReportIDs, r.ID)
		g.Reports = append(g.Reports, r)
		if r.Lat != nil && r.Lon != nil {
			g.HasGeotagged = true
		}
		if r.LocalityName != "" {
			labelCounts[key][r.LocalityName]++
		}
	}

	groups := make([]*groupAggregate, 0, len(byKey))
	for key, g := range byKey {
		g.Count = len(g.ReportIDs)
		g.Tier = severity.TierForCount(g.Count)
		g.LocalityName = mostCommonLabel(labelCounts[key])
		groups = append(groups, g)
	}

	// Stable output order: largest group first, then by pin code.
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		if groups[i].Key.PinCode != groups[j].Key.PinCode {
			return groups[i].Key.PinCode < groups[j].Key.PinCode
		}
		return groups[i].Key.District < groups[j].Key.District
	})
	return groups
}

// mostCommonLabel picks the label with the highest count, ties broken
// lexicographically so the result is deterministic.
func mostCommonLabel(counts map[string]int) string {
	best := ""
	bestCount := 0
	for label, c := range counts {
		if c > bestCount || (c == bestCount && (best == "" || label < best)) {
			best = label
			bestCount = c
		}
	}
	return best
}

// activeLocalitySet collects the locality keys that currently have a
// non-terminal assignment.
func activeLocalitySet(assignments []*secondary.AssignmentRecord) map[localityKey]bool {
	set := make(map[localityKey]bool, len(assignments))
	for _, a := range assignments {
		set[localityKey{PinCode: a.PinCode, District: a.District}] = true
	}
	return set
}

// toPortGroup converts a group aggregate to its boundary DTO.
func toPortGroup(g *groupAggregate, hasActiveAssignment bool) *primary.LocalityGroup {
	return &primary.LocalityGroup{
		PinCode:      g.Key.PinCode,
		District:     g.Key.District,
		LocalityName: g.LocalityName,
		Count:        g.Count,
		SeverityTier: string(g.Tier),
		Eligible:     severity.MeetsEscalationThreshold(g.Count) && !hasActiveAssignment,
		ReportIDs:    g.ReportIDs,
		HasGeotagged: g.HasGeotagged,
	}
}
