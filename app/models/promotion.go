package models

// Promotion is a time-bounded offer over a set of products. Dates are
// YYYY-MM-DD strings compared lexicographically against "today" in the
// configured timezone.
type Promotion struct {
	IDPromotion uint               `gorm:"column:id_promotion;primaryKey;autoIncrement" json:"id_promotion"`
	Name        string             `gorm:"column:name;size:255;not null" json:"name"`
	Price       float64            `gorm:"column:price;not null" json:"price"`
	StartDate   string             `gorm:"column:start_date;size:10" json:"start_date"`
	EndDate     string             `gorm:"column:end_date;size:10" json:"end_date"`
	Enabled     bool               `gorm:"column:enabled;default:true" json:"enabled"`
	ImageURL    string             `gorm:"column:image_url;size:512" json:"image_url"`
	Products    []PromotionProduct `gorm:"foreignKey:IDPromotion;references:IDPromotion" json:"products,omitempty"`
}

func (Promotion) TableName() string { return "promotions" }

// PromotionProduct links one product into a promotion.
type PromotionProduct struct {
	ID          uint `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IDPromotion uint `gorm:"column:id_promotion;index;not null" json:"id_promotion"`
	IDProduct   uint `gorm:"column:id_product;not null" json:"id_product"`
}

func (PromotionProduct) TableName() string { return "promotion_products" }
