package models

// Category groups products. Products reference it by id without a database
// cascade; deleting a category leaves its products orphaned on purpose, the
// admin panel reassigns them.
type Category struct {
	IDCategory  uint   `gorm:"column:id_category;primaryKey;autoIncrement" json:"id_category"`
	Name        string `gorm:"column:name;size:255;not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
}

func (Category) TableName() string { return "categories" }
