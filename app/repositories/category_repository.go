package repositories

import (
	"gorm.io/gorm"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/pkg/database"
)

type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository { return &CategoryRepository{} }

func (r *CategoryRepository) All() ([]models.Category, error) {
	var categories []models.Category
	err := database.DB.Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Insert(tx *gorm.DB, c *models.Category) (int64, error) {
	res := tx.Create(c)
	return res.RowsAffected, res.Error
}

func (r *CategoryRepository) UpdateFields(tx *gorm.DB, id uint, fields map[string]interface{}) (int64, error) {
	res := tx.Model(&models.Category{}).Where("id_category = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *CategoryRepository) Delete(tx *gorm.DB, id uint) (int64, error) {
	res := tx.Where("id_category = ?", id).Delete(&models.Category{})
	return res.RowsAffected, res.Error
}
