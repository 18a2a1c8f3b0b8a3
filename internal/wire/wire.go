// Package wire provides dependency injection for the waterwatch application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/waterwatch/internal/adapters/blobfs"
	"github.com/example/waterwatch/internal/adapters/httpapi"
	"github.com/example/waterwatch/internal/adapters/sqlite"
	"github.com/example/waterwatch/internal/app"
	"github.com/example/waterwatch/internal/db"
	"github.com/example/waterwatch/internal/ports/primary"
	"github.com/example/waterwatch/internal/ports/secondary"
)

var (
	reportService     primary.ReportService
	escalationService primary.EscalationService
	proximityService  primary.ProximityService
	statsService      primary.StatsService
	auditLogRepo      secondary.AuditLogRepository
	blobStore         secondary.BlobStore
	once              sync.Once
)

// ReportService returns the singleton ReportService instance.
func ReportService() primary.ReportService {
	once.Do(initServices)
	return reportService
}

// EscalationService returns the singleton EscalationService instance.
func EscalationService() primary.EscalationService {
	once.Do(initServices)
	return escalationService
}

// ProximityService returns the singleton ProximityService instance.
func ProximityService() primary.ProximityService {
	once.Do(initServices)
	return proximityService
}

// StatsService returns the singleton StatsService instance.
func StatsService() primary.StatsService {
	once.Do(initServices)
	return statsService
}

// AuditLogRepository returns the singleton audit log repository.
func AuditLogRepository() secondary.AuditLogRepository {
	once.Do(initServices)
	return auditLogRepo
}

// BlobStore returns the singleton blob store.
func BlobStore() secondary.BlobStore {
	once.Do(initServices)
	return blobStore
}

// HTTPHandlers returns a new HTTP handler set over the singleton services.
func HTTPHandlers() *httpapi.Handlers {
	once.Do(initServices)
	return httpapi.NewHandlers(reportService, escalationService, proximityService, statsService, blobStore)
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) - sqlite adapters with injected DB
	reportRepo := sqlite.NewReportRepository(database)
	assignmentRepo := sqlite.NewAssignmentRepository(database)
	auditLogRepo = sqlite.NewAuditLogRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(auditLogRepo)

	blobStore, err = blobfs.NewBlobStoreAdapter("")
	if err != nil {
		log.Fatalf("failed to initialize blob store: %v", err)
	}

	// Services (primary ports implementation)
	reportService = app.NewReportService(reportRepo, assignmentRepo, logWriter)
	escalationService = app.NewEscalationService(assignmentRepo, reportRepo, logWriter)
	proximityService = app.NewProximityService(reportRepo, assignmentRepo)
	statsService = app.NewStatsService(reportRepo, assignmentRepo)
}
