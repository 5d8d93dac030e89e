package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/app/routes"
	"github.com/brianmacetas/admin-api/config"
	"github.com/brianmacetas/admin-api/pkg/database"
	"github.com/brianmacetas/admin-api/pkg/media"
	"github.com/brianmacetas/admin-api/pkg/router"
	"github.com/brianmacetas/admin-api/pkg/testkit"
)

// fakeStore records calls and fails on configured file names / URLs.
type fakeStore struct {
	mu          sync.Mutex
	failUploads map[string]bool
	failDeletes map[string]bool
	deletes     []string
}

func (f *fakeStore) Upload(_ context.Context, file media.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUploads[file.Name] {
		return "", fmt.Errorf("upload %s: boom", file.Name)
	}
	return "https://host/" + file.Name, nil
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

// setupAPI boots an in-memory database plus a fake media host and returns
// the mounted handler.
func setupAPI(t *testing.T, fs *fakeStore) http.Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
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

	prevDB := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prevDB })

	media.Register("fake", fs)
	prevDriver := config.MediaDriver()
	config.Set("MEDIA_DRIVER", "fake")
	t.Cleanup(func() { config.Set("MEDIA_DRIVER", prevDriver) })

	r := router.New()
	routes.RegisterAPI(r)
	return r.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type multipartBody struct {
	fields map[string]string
	files  map[string][]string // field → file names
}

func doMultipart(t *testing.T, h http.Handler, method, path string, body multipartBody) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range body.fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, names := range body.files {
		for _, name := range names {
			part, err := w.CreateFormFile(field, name)
			require.NoError(t, err)
			_, err = part.Write([]byte("imagen"))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func envelopeOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestHealth(t *testing.T) {
	h := setupAPI(t, &fakeStore{})
	rec := doJSON(t, h, http.MethodGet, "/", nil)
	testkit.AssertStatusCode(t, 200, rec.Code)
	testkit.AssertJSONBody(t,
		[]byte(`{"success":true,"message":"Servidor funcionando"}`),
		rec.Body.Bytes())
}

func TestCreateCategoryAndFetchAll(t *testing.T) {
	h := setupAPI(t, &fakeStore{})

	rec := doJSON(t, h, http.MethodPost, "/create-category", map[string]string{
		"categoryName": "Remeras",
		"description":  "Remeras y tops",
	})
	require.Equal(t, 201, rec.Code, rec.Body.String())
	env := envelopeOf(t, rec)
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "Categoría creada exitosamente!", env["message"])

	rec = doJSON(t, h, http.MethodGet, "/fetch-all-data", nil)
	require.Equal(t, 200, rec.Code)
	var snap map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	for _, key := range []string{"categories", "product_images", "products", "promotions", "bannersImgs", "settings"} {
		assert.Contains(t, snap, key)
	}
}

func TestCreateCategoryRequiresName(t *testing.T) {
	h := setupAPI(t, &fakeStore{})

	rec := doJSON(t, h, http.MethodPost, "/create-category", map[string]string{
		"description": "sin nombre",
	})
	assert.Equal(t, 400, rec.Code)
}

func TestUploadProductWithImages(t *testing.T) {
	h := setupAPI(t, &fakeStore{})

	rec := doMultipart(t, h, http.MethodPost, "/upload-product", multipartBody{
		fields: map[string]string{
			"productName":        "Remera oversize",
			"productDescription": "Algodón peinado",
			"productPrice":       "14999",
			"productCategory":    "1",
		},
		files: map[string][]string{"productImages": {"frente.jpg", "dorso.jpg"}},
	})
	require.Equal(t, 201, rec.Code, rec.Body.String())

	var images []models.ProductImage
	require.NoError(t, database.DB.Find(&images).Error)
	assert.Len(t, images, 2)
}

func TestUploadProductFailedUploadLeavesNoRows(t *testing.T) {
	fs := &fakeStore{failUploads: map[string]bool{"dorso.jpg": true}}
	h := setupAPI(t, fs)

	rec := doMultipart(t, h, http.MethodPost, "/upload-product", multipartBody{
		fields: map[string]string{
			"productName":     "Remera",
			"productPrice":    "9999",
			"productCategory": "1",
		},
		files: map[string][]string{"productImages": {"frente.jpg", "dorso.jpg"}},
	})
	require.Equal(t, 500, rec.Code, rec.Body.String())

	var n int64
	require.NoError(t, database.DB.Model(&models.Product{}).Count(&n).Error)
	assert.Zero(t, n)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	assert.Equal(t, []string{"https://host/frente.jpg"}, fs.deletes)
}

func TestDeletePromotionRejectedImageIs400(t *testing.T) {
	fs := &fakeStore{failDeletes: map[string]bool{"https://host/promo.jpg": true}}
	h := setupAPI(t, fs)

	require.NoError(t, database.DB.Create(&models.Promotion{
		Name: "2x1", Price: 1000,
		StartDate: "2026-08-01", EndDate: "2026-09-01",
		ImageURL: "https://host/promo.jpg",
	}).Error)

	rec := doJSON(t, h, http.MethodDelete,
		"/delete-promotion/1?imageUrl=https%3A%2F%2Fhost%2Fpromo.jpg", nil)
	require.Equal(t, 400, rec.Code, rec.Body.String())

	var n int64
	require.NoError(t, database.DB.Model(&models.Promotion{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestUpdateProductState(t *testing.T) {
	h := setupAPI(t, &fakeStore{})

	require.NoError(t, database.DB.Create(&models.Product{
		Name: "Remera", Price: 9999, IsAvailable: true,
	}).Error)

	rec := doMultipart(t, h, http.MethodPut, "/update_product_state", multipartBody{
		fields: map[string]string{"productId": "1", "is_available": "false"},
	})
	require.Equal(t, 200, rec.Code, rec.Body.String())

	var p models.Product
	require.NoError(t, database.DB.First(&p, "id_product = ?", 1).Error)
	assert.False(t, p.IsAvailable)
}

func TestUpdateSettingsToggle(t *testing.T) {
	h := setupAPI(t, &fakeStore{})

	require.NoError(t, database.DB.Create(&models.Setting{
		ID: models.SettingID, PageEnabled: true,
	}).Error)

	rec := doJSON(t, h, http.MethodPut, "/update_settings", map[string]bool{"values": false})
	require.Equal(t, 200, rec.Code, rec.Body.String())
	assert.Equal(t, "Ajustes actualizados!", envelopeOf(t, rec)["message"])

	var s models.Setting
	require.NoError(t, database.DB.First(&s, "id = ?", models.SettingID).Error)
	assert.False(t, s.PageEnabled)
}

func TestAutomaticPromotionEndpointsReportCounts(t *testing.T) {
	h := setupAPI(t, &fakeStore{})

	rec := doJSON(t, h, http.MethodPost, "/automatic-delete-promotions", nil)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "0 promociones eliminadas.", envelopeOf(t, rec)["message"])

	rec = doJSON(t, h, http.MethodPut, "/automatic-enable-promotions", nil)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "0 filas fueron actualizadas", envelopeOf(t, rec)["message"])
}

func TestUploadBannerAndDelete(t *testing.T) {
	fs := &fakeStore{}
	h := setupAPI(t, fs)

	rec := doMultipart(t, h, http.MethodPost, "/upload_banner", multipartBody{
		fields: map[string]string{"bannerName": "portada"},
		files:  map[string][]string{"bannerImages": {"uno.jpg", "dos.jpg"}},
	})
	require.Equal(t, 201, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodDelete, "/delete_banner/1", nil)
	require.Equal(t, 200, rec.Code, rec.Body.String())

	var n int64
	require.NoError(t, database.DB.Model(&models.Banner{}).Count(&n).Error)
	assert.Zero(t, n)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	assert.ElementsMatch(t,
		[]string{"https://host/uno.jpg", "https://host/dos.jpg"}, fs.deletes)
}
