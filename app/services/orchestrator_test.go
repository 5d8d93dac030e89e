package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/pkg/database"
	"github.com/brianmacetas/admin-api/pkg/media"
)

// setupDB opens a fresh in-memory database per test and points the package
// global at it so repository reads and orchestrator transactions see the
// same data.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Promotion{},
		&models.PromotionProduct{},
		&models.Banner{},
		&models.Setting{},
	))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	return db
}

// fakeStore records calls and fails on configured file names / URLs.
type fakeStore struct {
	mu          sync.Mutex
	failUploads map[string]bool
	failDeletes map[string]bool
	uploads     []string
	deletes     []string
}

func (f *fakeStore) Upload(_ context.Context, file media.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUploads[file.Name] {
		return "", fmt.Errorf("upload %s: boom", file.Name)
	}
	url := "https://host/" + file.Name
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeStore) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeletes[url] {
		return media.ErrDeleteRejected
	}
	f.deletes = append(f.deletes, url)
	return nil
}

func (f *fakeStore) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deletes))
	copy(out, f.deletes)
	return out
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreateCommitsUploadsAndRows(t *testing.T) {
	db := setupDB(t)
	fs := &fakeStore{}
	orch := services.NewOrchestrator(db, fs)

	var got []string
	err := orch.Create(context.Background(), services.CreateOp{
		Entity: "product",
		Files:  []media.File{{Name: "a.png"}, {Name: "b.png"}},
		Insert: func(tx *gorm.DB, urls []string) error {
			got = urls
			return tx.Create(&models.Product{Name: "Remera", Price: 10}).Error
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://host/a.png", "https://host/b.png"}, got)
	assert.EqualValues(t, 1, countRows(t, db, &models.Product{}))
	assert.Empty(t, fs.deleted())
}

func TestCreateInsertFailureCompensatesAllUploads(t *testing.T) {
	db := setupDB(t)
	fs := &fakeStore{}
	orch := services.NewOrchestrator(db, fs)

	boom := errors.New("boom")
	err := orch.Create(context.Background(), services.CreateOp{
		Entity: "product",
		Files:  []media.File{{Name: "a.png"}, {Name: "b.png"}},
		Insert: func(tx *gorm.DB, urls []string) error {
			if err := tx.Create(&models.Product{Name: "Remera", Price: 10}).Error; err != nil {
				return err
			}
			return boom
		},
	})
	require.ErrorIs(t, err, boom)

	// The rollback undid the insert and both uploads were reclaimed.
	assert.EqualValues(t, 0, countRows(t, db, &models.Product{}))
	assert.ElementsMatch(t,
		[]string{"https://host/a.png", "https://host/b.png"}, fs.deleted())
}

func TestCreatePartialUploadCompensatesExactlySuccesses(t *testing.T) {
	db := setupDB(t)
	fs := &fakeStore{failUploads: map[string]bool{"b.png": true}}
	orch := services.NewOrchestrator(db, fs)

	inserted := false
	err := orch.Create(context.Background(), services.CreateOp{
		Entity: "product",
		Files:  []media.File{{Name: "a.png"}, {Name: "b.png"}, {Name: "c.png"}},
		Insert: func(tx *gorm.DB, urls []string) error {
			inserted = true
			return nil
		},
	})
	require.ErrorIs(t, err, services.ErrUpload)

	assert.False(t, inserted)
	// Only the two uploads that actually landed get deleted; the failed one
	// never existed on the host.
	assert.ElementsMatch(t,
		[]string{"https://host/a.png", "https://host/c.png"}, fs.deleted())
}

func TestUpdateZeroRowsAbortsBeforeAnyAssetWork(t *testing.T) {
	db := setupDB(t)
	fs := &fakeStore{}
	orch := services.NewOrchestrator(db, fs)

	err := orch.Update(context.Background(), services.UpdateOp{
		Entity: "product",
		Apply: func(tx *gorm.DB) (int64, error) {
			res := tx.Model(&models.Product{}).
				Where("id_product = ?", 999).
				Update("name", "nada")
			return res.RowsAffected, res.Error
		},
		RemoveRefs: []string{"https://host/old.png"},
		Files:      []media.File{{Name: "new.png"}},
	})
	require.ErrorIs(t, err, services.ErrNotFoundOrNoop)
	assert.Equal(t, 400, services.HTTPStatus(err))

	fs.mu.Lock()
	defer fs.mu.Unlock()
	assert.Empty(t, fs.uploads)
	assert.Empty(t, fs.deletes)
}

func TestUpdateRejectedAssetDeleteRollsBackPatch(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.Product{Name: "Remera", Price: 10}).Error)

	fs := &fakeStore{failDeletes: map[string]bool{"https://host/old.png": true}}
	orch := services.NewOrchestrator(db, fs)

	err := orch.Update(context.Background(), services.UpdateOp{
		Entity: "product",
		Apply: func(tx *gorm.DB) (int64, error) {
			res := tx.Model(&models.Product{}).
				Where("id_product = ?", 1).
				Update("name", "Pantalón")
			return res.RowsAffected, res.Error
		},
		RemoveRefs: []string{"https://host/old.png"},
	})
	require.ErrorIs(t, err, media.ErrDeleteRejected)
	assert.Equal(t, 400, services.HTTPStatus(err))

	var p models.Product
	require.NoError(t, db.First(&p, "id_product = ?", 1).Error)
	assert.Equal(t, "Remera", p.Name)
}

func TestUpdateInsertFailureCompensatesNewUploadsOnly(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.Product{Name: "Remera", Price: 10}).Error)

	fs := &fakeStore{}
	orch := services.NewOrchestrator(db, fs)

	boom := errors.New("boom")
	err := orch.Update(context.Background(), services.UpdateOp{
		Entity: "product",
		Apply: func(tx *gorm.DB) (int64, error) {
			res := tx.Model(&models.Product{}).
				Where("id_product = ?", 1).
				Update("name", "Pantalón")
			return res.RowsAffected, res.Error
		},
		RemoveRefs: []string{"https://host/old.png"},
		Files:      []media.File{{Name: "new.png"}},
		InsertRows: func(tx *gorm.DB, urls []string) error {
			return boom
		},
	})
	require.ErrorIs(t, err, boom)

	// The new upload was reclaimed. The old asset stays destroyed; that is
	// the accepted side effect of a replace that failed late.
	assert.ElementsMatch(t,
		[]string{"https://host/old.png", "https://host/new.png"}, fs.deleted())

	var p models.Product
	require.NoError(t, db.First(&p, "id_product = ?", 1).Error)
	assert.Equal(t, "Remera", p.Name)
}

func TestDeleteRejectedAssetLeavesRowUntouched(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.Product{Name: "Remera", Price: 10}).Error)

	fs := &fakeStore{failDeletes: map[string]bool{"https://host/a.png": true}}
	orch := services.NewOrchestrator(db, fs)

	removed := false
	err := orch.Delete(context.Background(), services.DeleteOp{
		Entity: "product",
		Refs:   []string{"https://host/a.png"},
		Remove: func(tx *gorm.DB) (int64, error) {
			removed = true
			return 1, nil
		},
	})
	require.ErrorIs(t, err, media.ErrDeleteRejected)
	assert.Equal(t, 400, services.HTTPStatus(err))

	assert.False(t, removed)
	assert.EqualValues(t, 1, countRows(t, db, &models.Product{}))
}

func TestDeleteZeroRowsRollsBack(t *testing.T) {
	db := setupDB(t)
	fs := &fakeStore{}
	orch := services.NewOrchestrator(db, fs)

	err := orch.Delete(context.Background(), services.DeleteOp{
		Entity: "product",
		Remove: func(tx *gorm.DB) (int64, error) {
			res := tx.Where("id_product = ?", 999).Delete(&models.Product{})
			return res.RowsAffected, res.Error
		},
	})
	require.ErrorIs(t, err, services.ErrNotFoundOrNoop)
	assert.Equal(t, 400, services.HTTPStatus(err))
}
