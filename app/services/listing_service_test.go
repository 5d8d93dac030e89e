package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/app/repositories"
	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/pkg/database"
)

func newListingService(t *testing.T) *services.ListingService {
	t.Helper()
	setupDB(t)
	return services.NewListingService(
		repositories.NewProductRepository(),
		repositories.NewCategoryRepository(),
		repositories.NewPromotionRepository(),
		repositories.NewBannerRepository(),
		repositories.NewSettingRepository(),
	)
}

func seedCatalog(t *testing.T) {
	t.Helper()
	db := database.DB
	require.NoError(t, db.Create(&models.Category{Name: "Remeras"}).Error)
	require.NoError(t, db.Create(&models.Product{
		Name: "Remera lisa", Price: 9999, IDProductCategory: 1, IsAvailable: true,
	}).Error)
	require.NoError(t, db.Create(&models.ProductImage{
		IDProduct: 1, ImageURL: "https://host/remera.jpg",
	}).Error)
	require.NoError(t, db.Create(&models.Promotion{
		Name: "2x1", Price: 15000, StartDate: "2026-08-01", EndDate: "2026-09-01",
	}).Error)
	require.NoError(t, db.Create(&models.Banner{
		NombreBanner: "portada", ImageURLs: `["https://host/banner.jpg"]`,
	}).Error)
}

func TestSnapshotAggregatesEveryTable(t *testing.T) {
	svc := newListingService(t)
	seedCatalog(t)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Categories, 1)
	assert.Len(t, snap.Products, 1)
	assert.Len(t, snap.ProductImages, 1)
	assert.Len(t, snap.Promotions, 1)
	assert.Len(t, snap.Banners, 1)
	require.NotNil(t, snap.Settings)
	assert.True(t, snap.Settings.PageEnabled)
}

func TestSnapshotIsIdempotent(t *testing.T) {
	svc := newListingService(t)
	seedCatalog(t)

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	second, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestViewKeysTheSameData(t *testing.T) {
	svc := newListingService(t)
	seedCatalog(t)

	view, err := svc.View(context.Background())
	require.NoError(t, err)

	assert.Len(t, view.Products, 1)
	assert.Len(t, view.ProductImages, 1)
	assert.Len(t, view.Banners, 1)
	require.NotNil(t, view.Settings)
}
