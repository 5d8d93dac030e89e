package models

// SettingID is the fixed primary key of the settings singleton row.
const SettingID = 1

// Setting is the site-wide settings singleton (row id=1 in "ajustes").
type Setting struct {
	ID                 uint   `gorm:"column:id;primaryKey" json:"id"`
	PageEnabled        bool   `gorm:"column:page_enabled;default:true" json:"page_enabled"`
	ConditionPromotion string `gorm:"column:condition_promotion;type:text" json:"condition_promotion"`
	ConditionProduct   string `gorm:"column:condition_product;type:text" json:"condition_product"`
}

func (Setting) TableName() string { return "ajustes" }
