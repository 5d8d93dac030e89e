package repositories

import (
	"gorm.io/gorm"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/pkg/database"
)

type BannerRepository struct{}

func NewBannerRepository() *BannerRepository { return &BannerRepository{} }

func (r *BannerRepository) All() ([]models.Banner, error) {
	var banners []models.Banner
	err := database.DB.Find(&banners).Error
	return banners, err
}

func (r *BannerRepository) Find(id uint) (*models.Banner, error) {
	var b models.Banner
	if err := database.DB.First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BannerRepository) Insert(tx *gorm.DB, b *models.Banner) (int64, error) {
	res := tx.Create(b)
	return res.RowsAffected, res.Error
}

func (r *BannerRepository) Delete(tx *gorm.DB, id uint) (int64, error) {
	res := tx.Where("id = ?", id).Delete(&models.Banner{})
	return res.RowsAffected, res.Error
}
