package models

// Product is a catalog item. Images live on the remote media host; the
// product only stores their URLs through ProductImage rows.
type Product struct {
	IDProduct         uint           `gorm:"column:id_product;primaryKey;autoIncrement" json:"id_product"`
	IDProductCategory uint           `gorm:"column:id_product_category;index" json:"id_product_category"`
	Name              string         `gorm:"column:name;size:255;not null" json:"name"`
	Description       string         `gorm:"column:description;type:text" json:"description"`
	Price             float64        `gorm:"column:price;not null" json:"price"`
	IsAvailable       bool           `gorm:"column:is_available;default:true" json:"is_available"`
	Images            []ProductImage `gorm:"foreignKey:IDProduct;references:IDProduct" json:"images,omitempty"`
}

func (Product) TableName() string { return "products" }

// ProductImage is one remote asset reference belonging to a product.
type ProductImage struct {
	IDImage   uint   `gorm:"column:id_image;primaryKey;autoIncrement" json:"id_image"`
	IDProduct uint   `gorm:"column:id_product;index;not null" json:"id_product"`
	ImageURL  string `gorm:"column:image_url;size:512;not null" json:"image_url"`
}

func (ProductImage) TableName() string { return "product_images" }
