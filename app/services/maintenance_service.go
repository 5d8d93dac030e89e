package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/brianmacetas/admin-api/config"
	"github.com/brianmacetas/admin-api/pkg/logger"
	"github.com/brianmacetas/admin-api/pkg/media"
)

// UsageReporter is implemented by media stores that expose account metrics.
type UsageReporter interface {
	Usage(ctx context.Context) (map[string]interface{}, error)
}

// UsageReport pairs the media host's account metrics with the relational
// database's pretty-printed size.
type UsageReport struct {
	Media        map[string]interface{} `json:"cloudinaryUsage"`
	DatabaseSize string                 `json:"dbSize"`
}

// MaintenanceService serves the operator endpoints: usage reporting and
// database vacuuming.
type MaintenanceService struct {
	db    *gorm.DB
	store media.Store
}

func NewMaintenanceService(db *gorm.DB, store media.Store) *MaintenanceService {
	return &MaintenanceService{db: db, store: store}
}

// Usage fetches the media account metrics and the database size. The size
// query is Postgres-specific; other drivers report it as unavailable.
func (s *MaintenanceService) Usage(ctx context.Context) (*UsageReport, error) {
	report := &UsageReport{DatabaseSize: "no disponible"}

	reporter, ok := s.store.(UsageReporter)
	if !ok {
		return nil, fmt.Errorf("el almacén de medios no reporta uso")
	}
	usage, err := reporter.Usage(ctx)
	if err != nil {
		return nil, err
	}
	report.Media = usage

	if config.DatabaseDriver() == "postgres" {
		row := s.db.WithContext(ctx).
			Raw("SELECT pg_size_pretty(pg_database_size(current_database()))").
			Row()
		if err := row.Scan(&report.DatabaseSize); err != nil {
			return nil, fmt.Errorf("%w: database size: %v", ErrTransaction, err)
		}
	}

	return report, nil
}

// CleanDB reclaims dead storage. VACUUM is Postgres-only and cannot run
// inside a transaction, so it goes through Exec directly.
func (s *MaintenanceService) CleanDB(ctx context.Context) error {
	if config.DatabaseDriver() != "postgres" {
		return fmt.Errorf("%w: la limpieza solo aplica a postgres", ErrNotFoundOrNoop)
	}

	if err := s.db.WithContext(ctx).Exec("VACUUM FULL").Error; err != nil {
		return fmt.Errorf("%w: vacuum: %v", ErrTransaction, err)
	}

	logger.WithCtx(ctx).Info("maintenance: database vacuumed")
	return nil
}
