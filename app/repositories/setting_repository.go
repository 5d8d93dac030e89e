package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/pkg/database"
)

type SettingRepository struct{}

func NewSettingRepository() *SettingRepository { return &SettingRepository{} }

// Get returns the settings singleton, creating the default row on first use.
func (r *SettingRepository) Get() (*models.Setting, error) {
	var s models.Setting
	err := database.DB.First(&s, "id = ?", models.SettingID).Error
	if err == gorm.ErrRecordNotFound {
		s = models.Setting{ID: models.SettingID, PageEnabled: true}
		if err := database.DB.Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SetPageEnabled updates the page toggle on the singleton row.
func (r *SettingRepository) SetPageEnabled(enabled bool) (int64, error) {
	res := database.DB.Model(&models.Setting{}).
		Where("id = ?", models.SettingID).
		Update("page_enabled", enabled)
	return res.RowsAffected, res.Error
}

// UpsertCondition writes one of the condition texts, inserting the singleton
// row if it does not exist yet.
func (r *SettingRepository) UpsertCondition(column, value string) (int64, error) {
	s := models.Setting{ID: models.SettingID, PageEnabled: true}
	switch column {
	case "condition_promotion":
		s.ConditionPromotion = value
	case "condition_product":
		s.ConditionProduct = value
	}

	res := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{column: value}),
	}).Create(&s)
	return res.RowsAffected, res.Error
}
