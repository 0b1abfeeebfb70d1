package services

import (
	"context"
	"fmt"
	"math"

	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/app/repositories"
	"github.com/beautydb/backoffice/pkg/database"
	"github.com/beautydb/backoffice/pkg/event"
	"github.com/beautydb/backoffice/pkg/metrics"
	"gorm.io/gorm"
)

// OrderItemInput is one line of a checkout.
type OrderItemInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	SizeID    uint `json:"size_id"    validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gte=1"`
}

// OrderInput is the checkout payload.
type OrderInput struct {
	Items []OrderItemInput `json:"items" validate:"dive"`
}

// OrderStatusInput changes the status of an order.
type OrderStatusInput struct {
	Status string `json:"status" validate:"required,in=pending|paid|shipped|cancelled"`
}

type OrderService struct {
	db     database.Gateway
	events *event.Bus
	orders *repositories.OrderRepository
}

func NewOrderService(db database.Gateway, events *event.Bus) *OrderService {
	return &OrderService{db: db, events: events, orders: repositories.NewOrderRepository()}
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.orders.WithItems(s.db.DB(ctx))
}

// Create places an order for userID. Prices come from the stored variants,
// stock is taken in the same transaction and the total is computed here.
func (s *OrderService) Create(ctx context.Context, userID uint, in OrderInput) (models.Order, error) {
	if len(in.Items) == 0 {
		return models.Order{}, invalid("Order items are missing")
	}

	order := models.Order{UserID: userID, Status: models.OrderPending}
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		keys := make([]repositories.VariantKey, len(in.Items))
		for i, it := range in.Items {
			keys[i] = repositories.VariantKey{ProductID: it.ProductID, SizeID: it.SizeID}
		}
		variants, err := s.orders.Variants(tx, keys)
		if err != nil {
			return fmt.Errorf("load variants: %w", err)
		}

		var total float64
		order.Items = make([]models.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			v, ok := variants[repositories.VariantKey{ProductID: it.ProductID, SizeID: it.SizeID}]
			if !ok {
				return invalid("Product %d has no size %d", it.ProductID, it.SizeID)
			}

			taken, err := s.orders.DecrementStock(tx, it.SizeID, it.Quantity)
			if err != nil {
				return fmt.Errorf("take stock of size %d: %w", it.SizeID, err)
			}
			if !taken {
				return invalid("Insufficient stock for %s (%s)", v.ProductName, v.Size)
			}

			order.Items = append(order.Items, models.OrderItem{
				ProductID:   it.ProductID,
				SizeID:      it.SizeID,
				ProductName: v.ProductName,
				Size:        v.Size,
				Quantity:    it.Quantity,
				Price:       v.Price,
			})
			total += v.Price * float64(it.Quantity)
		}
		order.TotalAmount = math.Round(total*100) / 100

		if err := s.orders.CreateWithItems(tx, &order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		return nil
	})
	metrics.RecordWrite("order", "create", err)
	if err != nil {
		return models.Order{}, err
	}

	s.events.Fire(ctx, event.Event{Name: event.OrderPlaced, Op: event.OpCreate, ID: order.OrderID})
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uint, in OrderStatusInput) (models.Order, error) {
	var order models.Order
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if order, err = s.orders.Find(tx, id); err != nil {
			return err
		}
		order.Status = in.Status
		return s.orders.Update(tx, id, map[string]any{"status": in.Status})
	})
	metrics.RecordWrite("order", "edit", err)
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// Delete removes the order and its items.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return s.orders.DeleteWithItems(tx, id)
	})
	metrics.RecordWrite("order", "delete", err)
	return err
}
