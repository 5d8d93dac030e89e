package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/app/repositories"
	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/pkg/clock"
	"github.com/brianmacetas/admin-api/pkg/database"
	"github.com/brianmacetas/admin-api/pkg/media"
)

func newPromotionService(t *testing.T, fs *fakeStore, clk clock.Clock) *services.PromotionService {
	t.Helper()
	db := setupDB(t)
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return services.NewPromotionService(
		services.NewOrchestrator(db, fs),
		repositories.NewPromotionRepository(),
		clk,
		time.UTC,
	)
}

func TestPromotionCreateLinksProducts(t *testing.T) {
	fs := &fakeStore{}
	svc := newPromotionService(t, fs, nil)

	promo, err := svc.Create(context.Background(), services.PromotionInput{
		Name:       "2x1 remeras",
		Price:      19999,
		StartDate:  "2026-09-01",
		EndDate:    "2026-09-30",
		Enabled:    true,
		ProductIDs: []uint{1, 2},
	}, &media.File{Name: "promo.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "https://host/promo.jpg", promo.ImageURL)

	repo := repositories.NewPromotionRepository()
	stored, err := repo.Find(promo.IDPromotion)
	require.NoError(t, err)
	assert.Len(t, stored.Products, 2)
}

func TestPromotionDeleteRejectedImageKeepsRow(t *testing.T) {
	fs := &fakeStore{}
	svc := newPromotionService(t, fs, nil)

	promo, err := svc.Create(context.Background(), services.PromotionInput{
		Name:      "2x1 remeras",
		Price:     19999,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
	}, &media.File{Name: "promo.jpg"})
	require.NoError(t, err)

	fs.mu.Lock()
	fs.failDeletes = map[string]bool{"https://host/promo.jpg": true}
	fs.mu.Unlock()

	err = svc.Delete(context.Background(), promo.IDPromotion, promo.ImageURL)
	require.ErrorIs(t, err, media.ErrDeleteRejected)
	assert.Equal(t, 400, services.HTTPStatus(err))

	repo := repositories.NewPromotionRepository()
	_, err = repo.Find(promo.IDPromotion)
	require.NoError(t, err)
}

func TestPromotionUpdateSwapsImage(t *testing.T) {
	fs := &fakeStore{}
	svc := newPromotionService(t, fs, nil)

	promo, err := svc.Create(context.Background(), services.PromotionInput{
		Name:      "2x1",
		Price:     10000,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
	}, &media.File{Name: "vieja.jpg"})
	require.NoError(t, err)

	err = svc.Update(context.Background(), promo.IDPromotion, services.PromotionInput{
		Name:       "3x2",
		Price:      12000,
		StartDate:  "2026-09-01",
		EndDate:    "2026-10-15",
		Enabled:    true,
		ProductIDs: []uint{5},
	}, promo.ImageURL, &media.File{Name: "nueva.jpg"})
	require.NoError(t, err)

	repo := repositories.NewPromotionRepository()
	stored, err := repo.Find(promo.IDPromotion)
	require.NoError(t, err)
	assert.Equal(t, "3x2", stored.Name)
	assert.Equal(t, "https://host/nueva.jpg", stored.ImageURL)
	require.Len(t, stored.Products, 1)
	assert.EqualValues(t, 5, stored.Products[0].IDProduct)
	assert.Contains(t, fs.deleted(), "https://host/vieja.jpg")
}

func TestDeleteExpiredRemovesTodaysEndings(t *testing.T) {
	fs := &fakeStore{}
	clk := clock.NewFakeClock(time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	svc := newPromotionService(t, fs, clk)

	mk := func(name, end, image string) {
		var img *media.File
		if image != "" {
			img = &media.File{Name: image}
		}
		_, err := svc.Create(context.Background(), services.PromotionInput{
			Name:      name,
			Price:     1000,
			StartDate: "2026-08-01",
			EndDate:   end,
		}, img)
		require.NoError(t, err)
	}
	mk("termina hoy", "2026-08-28", "hoy.jpg")
	mk("termina mañana", "2026-08-29", "")
	mk("terminó ayer", "2026-08-27", "")

	n, err := svc.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	repo := repositories.NewPromotionRepository()
	left, err := repo.All()
	require.NoError(t, err)
	require.Len(t, left, 2)
	for _, p := range left {
		assert.NotEqual(t, "2026-08-28", p.EndDate)
	}
	assert.Contains(t, fs.deleted(), "https://host/hoy.jpg")
}

func TestEnableStartingFlipsTodaysPromotions(t *testing.T) {
	fs := &fakeStore{}
	clk := clock.NewFakeClock(time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	svc := newPromotionService(t, fs, clk)

	db := database.DB
	require.NoError(t, db.Create(&models.Promotion{
		Name: "arranca hoy", Price: 1000,
		StartDate: "2026-08-28", EndDate: "2026-09-30", Enabled: false,
	}).Error)
	require.NoError(t, db.Create(&models.Promotion{
		Name: "arranca mañana", Price: 1000,
		StartDate: "2026-08-29", EndDate: "2026-09-30", Enabled: false,
	}).Error)

	n, err := svc.EnableStarting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var enabled []models.Promotion
	require.NoError(t, db.Where("enabled = ?", true).Find(&enabled).Error)
	require.Len(t, enabled, 1)
	assert.Equal(t, "arranca hoy", enabled[0].Name)
}
