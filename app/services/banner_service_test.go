package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianmacetas/admin-api/app/repositories"
	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/pkg/media"
)

func newBannerService(t *testing.T, fs *fakeStore) *services.BannerService {
	t.Helper()
	db := setupDB(t)
	return services.NewBannerService(
		services.NewOrchestrator(db, fs),
		repositories.NewBannerRepository(),
	)
}

func TestBannerCreateSerializesURLs(t *testing.T) {
	fs := &fakeStore{}
	svc := newBannerService(t, fs)

	banner, err := svc.Create(context.Background(), "portada",
		[]media.File{{Name: "uno.jpg"}, {Name: "dos.jpg"}})
	require.NoError(t, err)

	repo := repositories.NewBannerRepository()
	stored, err := repo.Find(banner.ID)
	require.NoError(t, err)
	assert.Equal(t, "portada", stored.NombreBanner)
	assert.JSONEq(t,
		`["https://host/uno.jpg","https://host/dos.jpg"]`, stored.ImageURLs)
}

func TestBannerDeleteDestroysEveryAsset(t *testing.T) {
	fs := &fakeStore{}
	svc := newBannerService(t, fs)

	banner, err := svc.Create(context.Background(), "portada",
		[]media.File{{Name: "uno.jpg"}, {Name: "dos.jpg"}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), banner.ID))

	repo := repositories.NewBannerRepository()
	_, err = repo.Find(banner.ID)
	require.Error(t, err)
	assert.ElementsMatch(t,
		[]string{"https://host/uno.jpg", "https://host/dos.jpg"}, fs.deleted())
}

func TestBannerDeleteRejectedAssetKeepsRow(t *testing.T) {
	fs := &fakeStore{}
	svc := newBannerService(t, fs)

	banner, err := svc.Create(context.Background(), "portada",
		[]media.File{{Name: "uno.jpg"}})
	require.NoError(t, err)

	fs.mu.Lock()
	fs.failDeletes = map[string]bool{"https://host/uno.jpg": true}
	fs.mu.Unlock()

	err = svc.Delete(context.Background(), banner.ID)
	require.ErrorIs(t, err, media.ErrDeleteRejected)

	repo := repositories.NewBannerRepository()
	_, err = repo.Find(banner.ID)
	require.NoError(t, err)
}

func TestBannerDeleteUnknownID(t *testing.T) {
	svc := newBannerService(t, &fakeStore{})

	err := svc.Delete(context.Background(), 999)
	require.ErrorIs(t, err, services.ErrNotFoundOrNoop)
	assert.Equal(t, 400, services.HTTPStatus(err))
}
