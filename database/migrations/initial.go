package migrations

import (
	"gorm.io/gorm"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/pkg/migration"
	"github.com/brianmacetas/admin-api/pkg/queue"
)

func init() {
	migration.Register("20260101000000_create_catalog_tables", &CreateCatalogTables{})
	migration.Register("20260101000001_create_failed_jobs_table", &CreateFailedJobsTable{})
}

// -------- 0001: catalog --------

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Promotion{},
		&models.PromotionProduct{},
		&models.Banner{},
		&models.Setting{},
	)
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		"ajustes",
		"banners",
		"promotion_products",
		"promotions",
		"product_images",
		"products",
		"categories",
	)
}

// -------- 0002: failed_jobs --------

type CreateFailedJobsTable struct{}

func (m *CreateFailedJobsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJobRecord{})
}

func (m *CreateFailedJobsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("failed_jobs")
}
