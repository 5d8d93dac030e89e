package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brianmacetas/admin-api/app/models"
)

func init() {
	Register("settings", SeedSettings)
	Register("categories", SeedCategories)
}

// SeedSettings guarantees the settings singleton exists with the page on.
func SeedSettings(db *gorm.DB) error {
	s := models.Setting{ID: models.SettingID, PageEnabled: true}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&s).Error
}

// SeedCategories inserts the starter categories an empty store begins with.
func SeedCategories(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Category{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Remeras", Description: "Remeras y tops"},
		{Name: "Pantalones", Description: "Pantalones y jeans"},
		{Name: "Accesorios", Description: "Gorras, cintos y más"},
	}
	return db.Create(&categories).Error
}
