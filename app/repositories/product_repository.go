package repositories

import (
	"github.com/beautydb/backoffice/app/models"
	"gorm.io/gorm"
)

// ProductRepository reads and writes products with their variants and
// property links.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// Find loads the product row only.
func (r *ProductRepository) Find(db *gorm.DB, id uint) (models.Product, error) {
	var p models.Product
	err := first(db, &p, "product_id = ?", id)
	return p, err
}

// Create inserts p and fills its identity.
func (r *ProductRepository) Create(db *gorm.DB, p *models.Product) error {
	return db.Create(p).Error
}

// Update writes every mutable column of p, including zero values.
func (r *ProductRepository) Update(db *gorm.DB, p *models.Product) error {
	return db.Model(&models.Product{}).Where("product_id = ?", p.ProductID).Updates(map[string]any{
		"product_name":        p.ProductName,
		"description":         p.Description,
		"usage_products":      p.UsageProducts,
		"ingredients":         p.Ingredients,
		"featured":            p.Featured,
		"category_id":         p.CategoryID,
		"brand_id":            p.BrandID,
		"image_url_primary":   p.ImageURLPrimary,
		"image_url_secondary": p.ImageURLSecondary,
		"image_url_third":     p.ImageURLThird,
	}).Error
}

// ReplaceVariants deletes every variant of productID and inserts sizes in
// one multi-row statement.
func (r *ProductRepository) ReplaceVariants(db *gorm.DB, productID uint, sizes []models.ProductSize) error {
	if err := db.Where("product_id = ?", productID).Delete(&models.ProductSize{}).Error; err != nil {
		return err
	}
	if len(sizes) == 0 {
		return nil
	}
	for i := range sizes {
		sizes[i].SizeID = 0
		sizes[i].ProductID = productID
	}
	return db.Create(&sizes).Error
}

// ReplaceProperties deletes every property link of productID and links
// propertyIDs instead. Duplicate ids are linked once.
func (r *ProductRepository) ReplaceProperties(db *gorm.DB, productID uint, propertyIDs []uint) error {
	if err := db.Where("product_id = ?", productID).Delete(&models.ProductProperty{}).Error; err != nil {
		return err
	}
	ids := uniq(propertyIDs)
	if len(ids) == 0 {
		return nil
	}
	links := make([]models.ProductProperty, len(ids))
	for i, id := range ids {
		links[i] = models.ProductProperty{ProductID: productID, PropertyID: id}
	}
	return db.Create(&links).Error
}

// Delete removes the children first, then the product.
func (r *ProductRepository) Delete(db *gorm.DB, id uint) error {
	if err := db.Where("product_id = ?", id).Delete(&models.ProductSize{}).Error; err != nil {
		return err
	}
	if err := db.Where("product_id = ?", id).Delete(&models.ProductProperty{}).Error; err != nil {
		return err
	}
	return deleted(db.Where("product_id = ?", id).Delete(&models.Product{}))
}

// CountVariants returns how many variant rows productID owns.
func (r *ProductRepository) CountVariants(db *gorm.DB, productID uint) (int64, error) {
	var n int64
	err := db.Model(&models.ProductSize{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}

// Details returns all products, or only featured ones, with their category,
// brand, variants and properties, ordered by product_id.
func (r *ProductRepository) Details(db *gorm.DB, featuredOnly bool) ([]models.ProductDetail, error) {
	var products []models.Product
	q := db.Order("product_id")
	if featuredOnly {
		q = q.Where("featured = ?", true)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return r.assemble(db, products)
}

// Detail builds one product from three lookups: the product with its
// category and brand, its variants, its properties.
func (r *ProductRepository) Detail(db *gorm.DB, id uint) (models.ProductDetail, error) {
	p, err := r.Find(db, id)
	if err != nil {
		return models.ProductDetail{}, err
	}
	details, err := r.assemble(db, []models.Product{p})
	if err != nil {
		return models.ProductDetail{}, err
	}
	return details[0], nil
}

type propertyRow struct {
	ProductID  uint
	PropertyID uint
	Name       string
}

func (r *ProductRepository) assemble(db *gorm.DB, products []models.Product) ([]models.ProductDetail, error) {
	out := make([]models.ProductDetail, len(products))
	if len(products) == 0 {
		return out, nil
	}

	ids := make([]uint, len(products))
	var categoryIDs, brandIDs []uint
	for i, p := range products {
		ids[i] = p.ProductID
		categoryIDs = append(categoryIDs, p.CategoryID)
		if p.BrandID != nil {
			brandIDs = append(brandIDs, *p.BrandID)
		}
	}

	categories := map[uint]*models.Category{}
	if ids := uniq(categoryIDs); len(ids) > 0 {
		var rows []models.Category
		if err := db.Where("category_id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			categories[rows[i].CategoryID] = &rows[i]
		}
	}

	brands := map[uint]*models.Brand{}
	if ids := uniq(brandIDs); len(ids) > 0 {
		var rows []models.Brand
		if err := db.Where("brand_id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			brands[rows[i].BrandID] = &rows[i]
		}
	}

	var sizes []models.ProductSize
	if err := db.Where("product_id IN ?", ids).Order("product_id, size_id").Find(&sizes).Error; err != nil {
		return nil, err
	}
	variants := map[uint][]models.ProductSize{}
	for _, s := range sizes {
		variants[s.ProductID] = append(variants[s.ProductID], s)
	}

	var links []propertyRow
	err := db.Table("product_properties AS pp").
		Select("pp.product_id, p.property_id, p.name").
		Joins("JOIN properties AS p ON p.property_id = pp.property_id").
		Where("pp.product_id IN ?", ids).
		Order("pp.product_id, p.property_id").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	properties := map[uint][]models.Property{}
	for _, l := range links {
		properties[l.ProductID] = append(properties[l.ProductID], models.Property{PropertyID: l.PropertyID, Name: l.Name})
	}

	for i, p := range products {
		d := models.ProductDetail{
			Product:    p,
			Category:   categories[p.CategoryID],
			Variants:   variants[p.ProductID],
			Properties: properties[p.ProductID],
		}
		if p.BrandID != nil {
			d.Brand = brands[*p.BrandID]
		}
		if d.Variants == nil {
			d.Variants = []models.ProductSize{}
		}
		if d.Properties == nil {
			d.Properties = []models.Property{}
		}
		out[i] = d
	}
	return out, nil
}

// ImageURLs lists every image URL referenced by a product.
func (r *ProductRepository) ImageURLs(db *gorm.DB) ([]string, error) {
	var products []models.Product
	err := db.Select("image_url_primary", "image_url_secondary", "image_url_third").Find(&products).Error
	if err != nil {
		return nil, err
	}
	var urls []string
	for _, p := range products {
		urls = append(urls, p.ImageURLs()...)
	}
	return urls, nil
}
