package repositories

import (
	"github.com/beautydb/backoffice/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository stores orders and their line items.
type OrderRepository struct {
	Table[models.Order]
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{Table[models.Order]{pk: "order_id"}}
}

// VariantKey identifies one purchasable variant.
type VariantKey struct {
	ProductID uint
	SizeID    uint
}

// PricedVariant is a variant joined with its product name.
type PricedVariant struct {
	ProductID     uint
	SizeID        uint
	ProductName   string
	Size          string
	Price         float64
	StockQuantity int
}

// Variants looks up the variants named by keys, locking the rows on MySQL and
// PostgreSQL. Keys with no match are absent from the result.
func (r *OrderRepository) Variants(db *gorm.DB, keys []VariantKey) (map[VariantKey]PricedVariant, error) {
	out := make(map[VariantKey]PricedVariant, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	sizeIDs := make([]uint, len(keys))
	for i, k := range keys {
		sizeIDs[i] = k.SizeID
	}

	q := db.Table("product_sizes AS s").
		Select("s.product_id, s.size_id, p.product_name, s.size, s.price, s.stock_quantity").
		Joins("JOIN products AS p ON p.product_id = s.product_id").
		Where("s.size_id IN ?", uniq(sizeIDs))
	switch db.Dialector.Name() {
	case "mysql", "postgres":
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []PricedVariant
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[VariantKey{ProductID: row.ProductID, SizeID: row.SizeID}] = row
	}
	return out, nil
}

// DecrementStock takes qty from the variant's stock. It reports false when
// the stock is insufficient.
func (r *OrderRepository) DecrementStock(db *gorm.DB, sizeID uint, qty int) (bool, error) {
	res := db.Model(&models.ProductSize{}).
		Where("size_id = ? AND stock_quantity >= ?", sizeID, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	return res.RowsAffected == 1, res.Error
}

// CreateWithItems inserts o, then its items.
func (r *OrderRepository) CreateWithItems(db *gorm.DB, o *models.Order) error {
	if err := db.Create(o).Error; err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return nil
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.OrderID
	}
	return db.Create(&o.Items).Error
}

// WithItems returns every order with its items, newest first.
func (r *OrderRepository) WithItems(db *gorm.DB) ([]models.Order, error) {
	orders := []models.Order{}
	if err := db.Order("order_id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.OrderID
	}
	var items []models.OrderItem
	if err := db.Where("order_id IN ?", ids).Order("order_item_id").Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := map[uint][]models.OrderItem{}
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].OrderID]
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderItem{}
		}
	}
	return orders, nil
}

// DeleteWithItems removes the items, then the order.
func (r *OrderRepository) DeleteWithItems(db *gorm.DB, id uint) error {
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return r.Delete(db, id)
}
