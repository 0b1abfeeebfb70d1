package models

import "time"

// Product is the catalogue aggregate root. Variants and property links are
// owned children and are always replaced as a whole.
type Product struct {
	ProductID          uint      `gorm:"column:product_id;primaryKey"          json:"product_id"`
	ProductName        string    `gorm:"size:255;not null;index"               json:"product_name"`
	Description        string    `gorm:"type:text"                             json:"description"`
	UsageProducts      string    `gorm:"column:usage_products;type:text"       json:"usage_products"`
	Ingredients        string    `gorm:"type:text"                             json:"ingredients"`
	Featured           bool      `gorm:"not null;index"                        json:"featured"`
	CategoryID         uint      `gorm:"column:category_id;not null;index"     json:"category_id"`
	BrandID            *uint     `gorm:"column:brand_id;index"                 json:"brand_id"`
	ImageURLPrimary    *string   `gorm:"column:image_url_primary;size:512"     json:"image_url_primary"`
	ImageURLSecondary  *string   `gorm:"column:image_url_secondary;size:512"   json:"image_url_secondary"`
	ImageURLThird      *string   `gorm:"column:image_url_third;size:512"       json:"image_url_third"`
	CreatedAt          time.Time `gorm:"column:created_at"                     json:"created_at"`
}

func (Product) TableName() string { return "products" }

// ImageURLs returns the non-empty image URLs of p.
func (p Product) ImageURLs() []string {
	return nonEmpty(p.ImageURLPrimary, p.ImageURLSecondary, p.ImageURLThird)
}

// ProductSize is one variant of a product.
type ProductSize struct {
	SizeID        uint    `gorm:"column:size_id;primaryKey"          json:"size_id"`
	ProductID     uint    `gorm:"column:product_id;not null;index"   json:"product_id"`
	Size          string  `gorm:"size:100;not null"                  json:"size"`
	Price         float64 `gorm:"not null"                           json:"price"`
	StockQuantity int     `gorm:"column:stock_quantity;not null"     json:"stock_quantity"`
}

func (ProductSize) TableName() string { return "product_sizes" }

type Property struct {
	PropertyID uint   `gorm:"column:property_id;primaryKey"    json:"property_id"`
	Name       string `gorm:"size:100;not null;uniqueIndex"    json:"name"`
}

func (Property) TableName() string { return "properties" }

// ProductProperty links a product to a property.
type ProductProperty struct {
	ProductID  uint `gorm:"column:product_id;primaryKey;autoIncrement:false"  json:"product_id"`
	PropertyID uint `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
}

func (ProductProperty) TableName() string { return "product_properties" }

// Category is a node in the product category tree.
type Category struct {
	CategoryID       uint   `gorm:"column:category_id;primaryKey"       json:"category_id"`
	CategoryName     string `gorm:"size:255;not null"                   json:"category_name"`
	ParentCategoryID *uint  `gorm:"column:parent_category_id;index"     json:"parent_category_id"`
}

func (Category) TableName() string { return "categories" }

type Brand struct {
	BrandID   uint   `gorm:"column:brand_id;primaryKey"       json:"brand_id"`
	BrandName string `gorm:"size:255;not null;uniqueIndex"    json:"brand_name"`
}

func (Brand) TableName() string { return "brands" }

// ProductDetail is the read shape of a product aggregate.
type ProductDetail struct {
	Product
	Category   *Category     `json:"category"`
	Brand      *Brand        `json:"brand"`
	Variants   []ProductSize `json:"variants"`
	Properties []Property    `json:"properties"`
}

func nonEmpty(urls ...*string) []string {
	var out []string
	for _, u := range urls {
		if u != nil && *u != "" {
			out = append(out, *u)
		}
	}
	return out
}
