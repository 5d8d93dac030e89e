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

func newProductService(t *testing.T, fs *fakeStore) *services.ProductService {
	t.Helper()
	db := setupDB(t)
	return services.NewProductService(
		services.NewOrchestrator(db, fs),
		repositories.NewProductRepository(),
	)
}

func TestProductCreateWithImages(t *testing.T) {
	fs := &fakeStore{}
	svc := newProductService(t, fs)

	product, err := svc.Create(context.Background(), services.ProductInput{
		Name:       "Remera oversize",
		Price:      14999,
		CategoryID: 1,
	}, []media.File{{Name: "frente.jpg"}, {Name: "dorso.jpg"}})
	require.NoError(t, err)
	require.NotZero(t, product.IDProduct)

	repo := repositories.NewProductRepository()
	stored, err := repo.Find(product.IDProduct)
	require.NoError(t, err)
	assert.True(t, stored.IsAvailable)
	require.Len(t, stored.Images, 2)
	assert.Equal(t, "https://host/frente.jpg", stored.Images[0].ImageURL)
	assert.Equal(t, "https://host/dorso.jpg", stored.Images[1].ImageURL)
}

func TestProductCreateSecondUploadFailureLeavesNothing(t *testing.T) {
	fs := &fakeStore{failUploads: map[string]bool{"dorso.jpg": true}}
	svc := newProductService(t, fs)

	_, err := svc.Create(context.Background(), services.ProductInput{
		Name:       "Remera oversize",
		Price:      14999,
		CategoryID: 1,
	}, []media.File{{Name: "frente.jpg"}, {Name: "dorso.jpg"}})
	require.ErrorIs(t, err, services.ErrUpload)
	assert.Equal(t, 500, services.HTTPStatus(err))

	repo := repositories.NewProductRepository()
	products, listErr := repo.All()
	require.NoError(t, listErr)
	assert.Empty(t, products)
	// The upload that landed was deleted back off the host.
	assert.Equal(t, []string{"https://host/frente.jpg"}, fs.deleted())
}

func TestProductUpdateReplacesImages(t *testing.T) {
	fs := &fakeStore{}
	svc := newProductService(t, fs)

	product, err := svc.Create(context.Background(), services.ProductInput{
		Name:       "Remera",
		Price:      9999,
		CategoryID: 1,
	}, []media.File{{Name: "vieja.jpg"}})
	require.NoError(t, err)

	repo := repositories.NewProductRepository()
	stored, err := repo.Find(product.IDProduct)
	require.NoError(t, err)
	require.Len(t, stored.Images, 1)

	err = svc.Update(context.Background(), product.IDProduct, services.ProductInput{
		Name:       "Remera estampada",
		Price:      10999,
		CategoryID: 2,
	}, []services.ImageRef{{
		IDImage:  stored.Images[0].IDImage,
		ImageURL: stored.Images[0].ImageURL,
	}}, []media.File{{Name: "nueva.jpg"}})
	require.NoError(t, err)

	updated, err := repo.Find(product.IDProduct)
	require.NoError(t, err)
	assert.Equal(t, "Remera estampada", updated.Name)
	assert.EqualValues(t, 2, updated.IDProductCategory)
	require.Len(t, updated.Images, 1)
	assert.Equal(t, "https://host/nueva.jpg", updated.Images[0].ImageURL)
	assert.Contains(t, fs.deleted(), "https://host/vieja.jpg")
}

func TestProductUpdateUnknownIDIsNoop(t *testing.T) {
	fs := &fakeStore{}
	svc := newProductService(t, fs)

	err := svc.Update(context.Background(), 999, services.ProductInput{
		Name:       "Fantasma",
		Price:      1,
		CategoryID: 1,
	}, nil, nil)
	require.ErrorIs(t, err, services.ErrNotFoundOrNoop)
	assert.Equal(t, 400, services.HTTPStatus(err))
}

func TestProductDeleteRemovesRowsAndAssets(t *testing.T) {
	fs := &fakeStore{}
	svc := newProductService(t, fs)

	product, err := svc.Create(context.Background(), services.ProductInput{
		Name:       "Remera",
		Price:      9999,
		CategoryID: 1,
	}, []media.File{{Name: "a.jpg"}, {Name: "b.jpg"}})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), product.IDProduct,
		[]string{"https://host/a.jpg", "https://host/b.jpg"})
	require.NoError(t, err)

	repo := repositories.NewProductRepository()
	_, err = repo.Find(product.IDProduct)
	require.Error(t, err)
	assert.ElementsMatch(t,
		[]string{"https://host/a.jpg", "https://host/b.jpg"}, fs.deleted())
}

func TestProductSetAvailability(t *testing.T) {
	fs := &fakeStore{}
	svc := newProductService(t, fs)

	product, err := svc.Create(context.Background(), services.ProductInput{
		Name:       "Remera",
		Price:      9999,
		CategoryID: 1,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.SetAvailability(context.Background(), product.IDProduct, false))

	repo := repositories.NewProductRepository()
	stored, err := repo.Find(product.IDProduct)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)
}
