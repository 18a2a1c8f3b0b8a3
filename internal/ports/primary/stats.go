package primary

import "context"

// StatsService defines the primary port for derived counters. It is a pure
// read model recomputed on demand; nothing here is independently mutated.
type StatsService interface {
	// GetStatistics derives counters from the repository and assignment
	// archive, optionally scoped to a district.
	GetStatistics(ctx context.Context, district string) (*Statistics, error)
}

// Statistics is the derived counter set.
type Statistics struct {
	TotalReports  int
	ActiveReports int
	CleanAreas    int // locality groups whose latest assignment reached confirmed_clean
}
