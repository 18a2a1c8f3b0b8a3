package app

import (
	"context"
	"fmt"

	"github.com/example/waterwatch/internal/core/report"
	"github.com/example/waterwatch/internal/ports/primary"
	"github.com/example/waterwatch/internal/ports/secondary"
)

// StatsServiceImpl implements the StatsService interface. It derives every
// counter from the repository and assignment archive on demand, so counters
// can never drift from the underlying state.
type StatsServiceImpl struct {
	reportRepo     secondary.ReportRepository
	assignmentRepo secondary.AssignmentRepository
}

// NewStatsService creates a new StatsService with injected dependencies.
func NewStatsService(reportRepo secondary.ReportRepository, assignmentRepo secondary.AssignmentRepository) *StatsServiceImpl {
	return &StatsServiceImpl{
		reportRepo:     reportRepo,
		assignmentRepo: assignmentRepo,
	}
}

// GetStatistics recomputes the counter set, optionally scoped to a district.
func (s *StatsServiceImpl) GetStatistics(ctx context.Context, district string) (*primary.Statistics, error) {
	total, err := s.reportRepo.Count(ctx, secondary.ReportFilters{District: district})
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	resolved, err := s.reportRepo.Count(ctx, secondary.ReportFilters{
		District: district,
		Status:   string(report.StatusResolved),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count resolved reports: %w", err)
	}

	cleanAreas, err := s.assignmentRepo.CountCleanLocalities(ctx, district)
	if err != nil {
		return nil, fmt.Errorf("failed to count clean areas: %w", err)
	}

	return &primary.Statistics{
		TotalReports:  total,
		ActiveReports: total - resolved,
		CleanAreas:    cleanAreas,
	}, nil
}

// Ensure StatsServiceImpl implements the interface
var _ primary.StatsService = (*StatsServiceImpl)(nil)
