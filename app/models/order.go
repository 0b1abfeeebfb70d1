package models

import "time"

const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderCancelled = "cancelled"
)

type Order struct {
	OrderID     uint        `gorm:"column:order_id;primaryKey"           json:"order_id"`
	UserID      uint        `gorm:"column:user_id;not null;index"        json:"user_id"`
	TotalAmount float64     `gorm:"column:total_amount;not null"         json:"total_amount"`
	Status      string      `gorm:"size:50;not null;default:pending"     json:"status"`
	CreatedAt   time.Time   `gorm:"column:created_at"                    json:"created_at"`
	Items       []OrderItem `gorm:"-"                                    json:"items"`
}

func (Order) TableName() string { return "orders" }

// OrderItem freezes the variant price at checkout time.
type OrderItem struct {
	OrderItemID uint    `gorm:"column:order_item_id;primaryKey"  json:"order_item_id"`
	OrderID     uint    `gorm:"column:order_id;not null;index"   json:"order_id"`
	ProductID   uint    `gorm:"column:product_id;not null"       json:"product_id"`
	SizeID      uint    `gorm:"column:size_id;not null"          json:"size_id"`
	ProductName string  `gorm:"column:product_name;size:255"     json:"product_name"`
	Size        string  `gorm:"size:100"                         json:"size"`
	Quantity    int     `gorm:"not null"                         json:"quantity"`
	Price       float64 `gorm:"not null"                         json:"price"`
}

func (OrderItem) TableName() string { return "order_items" }
