package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/waterwatch/internal/core/geo"
	"github.com/example/waterwatch/internal/core/severity"
	"github.com/example/waterwatch/internal/faults"
	"github.com/example/waterwatch/internal/ports/primary"
	"github.com/example/waterwatch/internal/ports/secondary"
)

// Default radii in kilometres for the geospatial operations.
const (
	defaultAreaStatusRadiusKm = 1.0
	defaultNearbyRadiusKm     = 5.0
)

// ProximityServiceImpl implements the ProximityService interface. It is a
// read-only projection recomputed per request; no locks, eventually
// consistent with just-committed writes.
type ProximityServiceImpl struct {
	reportRepo     secondary.ReportRepository
	assignmentRepo secondary.AssignmentRepository
}

// NewProximityService creates a new ProximityService with injected dependencies.
func NewProximityService(reportRepo secondary.ReportRepository, assignmentRepo secondary.AssignmentRepository) *ProximityServiceImpl {
	return &ProximityServiceImpl{
		reportRepo:     reportRepo,
		assignmentRepo: assignmentRepo,
	}
}

// AreaStatus answers "is my area safe" by finding the nearest active
// contaminated locality group within the radius. A group is active when it
// has a non-terminal assignment or has crossed the escalation threshold.
func (s *ProximityServiceImpl) AreaStatus(ctx context.Context, query primary.AreaQuery) (*primary.AreaStatus, error) {
	if !geo.ValidCoordinates(query.Lat, query.Lon) {
		return nil, &faults.GeoError{Lat: query.Lat, Lon: query.Lon}
	}
	radius := query.RadiusKm
	if radius <= 0 {
		radius = defaultAreaStatusRadiusKm
	}

	groups, activeSet, err := s.activeGroups(ctx)
	if err != nil {
		return nil, err
	}

	var nearest *primary.NearestGroup
	for _, g := range groups {
		if !g.HasGeotagged {
			continue
		}
		if !activeSet[g.Key] && !severity.MeetsEscalationThreshold(g.Count) {
			continue
		}
		d, ok := groupDistance(g, query.Lat, query.Lon)
		if !ok {
			continue
		}
		if nearest == nil || d < nearest.DistanceKm {
			nearest = &primary.NearestGroup{
				PinCode:      g.Key.PinCode,
				District:     g.Key.District,
				LocalityName: g.LocalityName,
				DistanceKm:   d,
				SeverityTier: string(g.Tier),
			}
		}
	}

	// No geotagged active groups: defined fallback, not an error.
	if nearest == nil {
		return &primary.AreaStatus{Status: primary.AreaClean}, nil
	}
	if nearest.DistanceKm <= radius {
		return &primary.AreaStatus{Status: primary.AreaContaminated, Nearest: nearest}, nil
	}
	return &primary.AreaStatus{Status: primary.AreaClean, Nearest: nearest}, nil
}

// NearbyReports lists geotagged active reports within the radius, nearest first.
func (s *ProximityServiceImpl) NearbyReports(ctx context.Context, query primary.AreaQuery) ([]*primary.NearbyReport, error) {
	if !geo.ValidCoordinates(query.Lat, query.Lon) {
		return nil, &faults.GeoError{Lat: query.Lat, Lon: query.Lon}
	}
	radius := query.RadiusKm
	if radius <= 0 {
		radius = defaultNearbyRadiusKm
	}

	records, err := s.reportRepo.List(ctx, secondary.ReportFilters{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	var nearby []*primary.NearbyReport
	for _, r := range records {
		if r.Lat == nil || r.Lon == nil {
			continue
		}
		d := geo.Haversine(query.Lat, query.Lon, *r.Lat, *r.Lon)
		if d <= radius {
			nearby = append(nearby, &primary.NearbyReport{Report: recordToReport(r), DistanceKm: d})
		}
	}
	sort.Slice(nearby, func(i, j int) bool { return nearby[i].DistanceKm < nearby[j].DistanceKm })
	return nearby, nil
}

// Hotspots lists geotagged active report points for map rendering.
func (s *ProximityServiceImpl) Hotspots(ctx context.Context, district string) ([]*primary.Hotspot, error) {
	records, err := s.reportRepo.List(ctx, secondary.ReportFilters{
		District:   district,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	var hotspots []*primary.Hotspot
	for _, r := range records {
		if r.Lat == nil || r.Lon == nil {
			continue
		}
		hotspots = append(hotspots, &primary.Hotspot{
			ReportID:     r.ID,
			Lat:          *r.Lat,
			Lon:          *r.Lon,
			Status:       r.Status,
			LocalityName: r.LocalityName,
			SeverityHint: r.SeverityHint,
		})
	}
	return hotspots, nil
}

// activeGroups recomputes the locality grouping and the set of localities
// with a non-terminal assignment.
func (s *ProximityServiceImpl) activeGroups(ctx context.Context) ([]*groupAggregate, map[localityKey]bool, error) {
	records, err := s.reportRepo.List(ctx, secondary.ReportFilters{ActiveOnly: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reports: %w", err)
	}
	assignments, err := s.assignmentRepo.List(ctx, secondary.AssignmentFilters{ActiveOnly: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list active assignments: %w", err)
	}
	return buildGroups(records), activeLocalitySet(assignments), nil
}

// groupDistance returns the distance from the query point to the closest
// geotagged member report of the group.
func groupDistance(g *groupAggregate, lat, lon float64) (float64, bool) {
	best := 0.0
	found := false
	for _, r := range g.Reports {
		if r.Lat == nil || r.Lon == nil {
			continue
		}
		d := geo.Haversine(lat, lon, *r.Lat, *r.Lon)
		if !found || d < best {
			best = d
			found = true
		}
	}
	return best, found
}

// Ensure ProximityServiceImpl implements the interface
var _ primary.ProximityService = (*ProximityServiceImpl)(nil)
