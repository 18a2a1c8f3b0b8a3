// Package primary defines the driving ports: the transport-agnostic service
// interfaces and boundary DTOs exposed by the engine. The CLI and HTTP
// adapters translate to and from these types.
package primary

import "context"

// ReportService defines the primary port for report intake and listing.
type ReportService interface {
	// SubmitReport validates and persists a new citizen report. This is the
	// only creation path for reports.
	SubmitReport(ctx context.Context, req SubmitReportRequest) (*Report, error)

	// GetReport retrieves a report by ID.
	GetReport(ctx context.Context, reportID string) (*Report, error)

	// ListActiveReports lists unresolved reports, optionally by district.
	ListActiveReports(ctx context.Context, district string) ([]*Report, error)

	// UpvoteReport bumps a report's upvote count and returns the new value.
	UpvoteReport(ctx context.Context, reportID string) (int, error)

	// ListGroups lists locality groups derived from active reports,
	// optionally scoped to a district or to escalation-eligible groups only.
	ListGroups(ctx context.Context, filters GroupFilters) ([]*LocalityGroup, error)

	// FormatSMS renders the canonical SMS text for an offline report.
	FormatSMS(req SMSRequest) (string, error)
}

// SubmitReportRequest is the intake payload for a new report.
type SubmitReportRequest struct {
	Problem      string
	SourceType   string
	SeverityHint string
	PinCode      string
	LocalityName string
	District     string
	Lat          *float64
	Lon          *float64
}

// Report represents a citizen report at the port boundary.
type Report struct {
	ID            string
	Problem       string
	SourceType    string
	SeverityHint  string
	PinCode       string
	LocalityName  string
	District      string
	Lat           *float64
	Lon           *float64
	Status        string // 'reported', 'assigned', 'resolved'
	SubmitterRole string
	Upvotes       int
	SubmittedAt   string
}

// GroupFilters contains filter options for listing locality groups.
type GroupFilters struct {
	District     string
	EligibleOnly bool
}

// LocalityGroup is the derived aggregation of active reports sharing a
// postal code and district. It is recomputed per query, never stored.
type LocalityGroup struct {
	PinCode      string
	District     string
	LocalityName string // most common reported label
	Count        int
	SeverityTier string // 'none', 'mild', 'medium', 'severe'
	Eligible     bool   // count threshold met and no active assignment
	ReportIDs    []string
	HasGeotagged bool
}

// SMSRequest carries the fields of the canonical report SMS.
type SMSRequest struct {
	Problem      string
	PinCode      string
	SeverityHint string
	SourceType   string
}
