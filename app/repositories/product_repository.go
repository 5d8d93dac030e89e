// Package repositories wraps all database access. Read methods go through
// the default connection; write methods take the caller's open *gorm.DB
// transaction so multi-row mutations stay atomic.
package repositories

import (
	"gorm.io/gorm"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/pkg/database"
	"github.com/brianmacetas/admin-api/pkg/orm"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository { return &ProductRepository{} }

// All returns every product with its image rows preloaded.
func (r *ProductRepository) All() ([]models.Product, error) {
	var products []models.Product
	err := database.DB.Preload("Images").Find(&products).Error
	return products, err
}

// Paginate returns one page of products with image rows preloaded.
func (r *ProductRepository) Paginate(page, perPage int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	pagination, err := orm.DB().
		Model(&models.Product{}).
		Order("id_product").
		GetWithPagination(&products, page, perPage)
	if err != nil {
		return nil, orm.Pagination{}, err
	}

	if len(products) > 0 {
		ids := make([]uint, 0, len(products))
		byID := make(map[uint]*models.Product, len(products))
		for i := range products {
			ids = append(ids, products[i].IDProduct)
			byID[products[i].IDProduct] = &products[i]
		}

		var images []models.ProductImage
		if err := database.DB.Where("id_product IN ?", ids).Find(&images).Error; err != nil {
			return nil, orm.Pagination{}, err
		}
		for _, img := range images {
			p := byID[img.IDProduct]
			p.Images = append(p.Images, img)
		}
	}

	return products, pagination, nil
}

// AllImages returns every image row flat, regardless of product.
func (r *ProductRepository) AllImages() ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := database.DB.Find(&images).Error
	return images, err
}

// Find returns one product with images, or gorm.ErrRecordNotFound.
func (r *ProductRepository) Find(id uint) (*models.Product, error) {
	var p models.Product
	if err := database.DB.Preload("Images").First(&p, "id_product = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert creates the product row inside tx.
func (r *ProductRepository) Insert(tx *gorm.DB, p *models.Product) (int64, error) {
	res := tx.Create(p)
	return res.RowsAffected, res.Error
}

// InsertImages creates one image row per URL for the product inside tx.
func (r *ProductRepository) InsertImages(tx *gorm.DB, idProduct uint, urls []string) (int64, error) {
	if len(urls) == 0 {
		return 0, nil
	}
	rows := make([]models.ProductImage, 0, len(urls))
	for _, u := range urls {
		rows = append(rows, models.ProductImage{IDProduct: idProduct, ImageURL: u})
	}
	res := tx.Create(&rows)
	return res.RowsAffected, res.Error
}

// UpdateFields patches the product row inside tx. RowsAffected 0 means the
// id does not exist or nothing changed.
func (r *ProductRepository) UpdateFields(tx *gorm.DB, id uint, fields map[string]interface{}) (int64, error) {
	res := tx.Model(&models.Product{}).Where("id_product = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

// DeleteImages removes the given image rows of a product inside tx.
func (r *ProductRepository) DeleteImages(tx *gorm.DB, idProduct uint, imageIDs []uint) (int64, error) {
	if len(imageIDs) == 0 {
		return 0, nil
	}
	res := tx.Where("id_product = ? AND id_image IN ?", idProduct, imageIDs).
		Delete(&models.ProductImage{})
	return res.RowsAffected, res.Error
}

// DeleteAllImages removes every image row of a product inside tx.
func (r *ProductRepository) DeleteAllImages(tx *gorm.DB, idProduct uint) (int64, error) {
	res := tx.Where("id_product = ?", idProduct).Delete(&models.ProductImage{})
	return res.RowsAffected, res.Error
}

// Delete removes the product row inside tx.
func (r *ProductRepository) Delete(tx *gorm.DB, id uint) (int64, error) {
	res := tx.Where("id_product = ?", id).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}
