package primary

import "context"

// Area status values returned by ProximityService.
const (
	AreaContaminated = "contaminated"
	AreaClean        = "clean"
	AreaUnknown      = "unknown"
)

// ProximityService defines the primary port for geospatial queries against
// the live incident set. It is a read-only projection computed per request.
type ProximityService interface {
	// AreaStatus answers "is my area safe" for a coordinate and radius.
	AreaStatus(ctx context.Context, query AreaQuery) (*AreaStatus, error)

	// NearbyReports lists geotagged reports within the radius, nearest first.
	NearbyReports(ctx context.Context, query AreaQuery) ([]*NearbyReport, error)

	// Hotspots lists geotagged report points for map rendering, optionally
	// by district.
	Hotspots(ctx context.Context, district string) ([]*Hotspot, error)
}

// AreaQuery is a point-and-radius geospatial query.
type AreaQuery struct {
	Lat      float64
	Lon      float64
	RadiusKm float64 // zero means the operation default
}

// AreaStatus is the answer to an area safety query.
type AreaStatus struct {
	Status  string // contaminated, clean or unknown
	Nearest *NearestGroup
}

// NearestGroup describes the closest active contaminated locality group.
type NearestGroup struct {
	PinCode      string
	District     string
	LocalityName string
	DistanceKm   float64
	SeverityTier string
}

// NearbyReport is a report with its distance from the query point.
type NearbyReport struct {
	Report     *Report
	DistanceKm float64
}

// Hotspot is a geotagged report point for map rendering.
type Hotspot struct {
	ReportID     string
	Lat          float64
	Lon          float64
	Status       string
	LocalityName string
	SeverityHint string
}
