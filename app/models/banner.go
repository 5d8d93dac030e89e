package models

// Banner is a home-page carousel entry. ImageURLs holds a JSON-serialized
// array of remote asset URLs in a single column; banner rows are few and
// always read whole, so the list is not normalized.
type Banner struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NombreBanner string `gorm:"column:nombre_banner;size:255" json:"nombre_banner"`
	ImageURLs    string `gorm:"column:image_urls;type:text" json:"image_urls"`
}

func (Banner) TableName() string { return "banners" }
