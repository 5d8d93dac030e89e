package repositories

import (
	"gorm.io/gorm"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/pkg/database"
)

type PromotionRepository struct{}

func NewPromotionRepository() *PromotionRepository { return &PromotionRepository{} }

func (r *PromotionRepository) All() ([]models.Promotion, error) {
	var promos []models.Promotion
	err := database.DB.Preload("Products").Find(&promos).Error
	return promos, err
}

func (r *PromotionRepository) Find(id uint) (*models.Promotion, error) {
	var p models.Promotion
	if err := database.DB.Preload("Products").First(&p, "id_promotion = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PromotionRepository) Insert(tx *gorm.DB, p *models.Promotion) (int64, error) {
	res := tx.Create(p)
	return res.RowsAffected, res.Error
}

// InsertProducts links the given product ids to a promotion inside tx.
func (r *PromotionRepository) InsertProducts(tx *gorm.DB, idPromotion uint, productIDs []uint) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	rows := make([]models.PromotionProduct, 0, len(productIDs))
	for _, id := range productIDs {
		rows = append(rows, models.PromotionProduct{IDPromotion: idPromotion, IDProduct: id})
	}
	res := tx.Create(&rows)
	return res.RowsAffected, res.Error
}

func (r *PromotionRepository) UpdateFields(tx *gorm.DB, id uint, fields map[string]interface{}) (int64, error) {
	res := tx.Model(&models.Promotion{}).Where("id_promotion = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

// DeleteProducts removes every product link of a promotion inside tx.
func (r *PromotionRepository) DeleteProducts(tx *gorm.DB, idPromotion uint) (int64, error) {
	res := tx.Where("id_promotion = ?", idPromotion).Delete(&models.PromotionProduct{})
	return res.RowsAffected, res.Error
}

func (r *PromotionRepository) Delete(tx *gorm.DB, id uint) (int64, error) {
	res := tx.Where("id_promotion = ?", id).Delete(&models.Promotion{})
	return res.RowsAffected, res.Error
}

// EndingToday returns every promotion whose end date is the given
// YYYY-MM-DD day.
func (r *PromotionRepository) EndingToday(today string) ([]models.Promotion, error) {
	var promos []models.Promotion
	err := database.DB.Where("end_date = ?", today).Find(&promos).Error
	return promos, err
}

// EnableStarting flips enabled on every promotion whose start date is today.
func (r *PromotionRepository) EnableStarting(today string) (int64, error) {
	res := database.DB.Model(&models.Promotion{}).
		Where("start_date = ?", today).
		Update("enabled", true)
	return res.RowsAffected, res.Error
}
