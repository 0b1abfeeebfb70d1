package controllers

import (
	"net/http"

	"github.com/beautydb/backoffice/app/services"
	"github.com/beautydb/backoffice/pkg/ctx"
	"github.com/beautydb/backoffice/pkg/middleware"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func (oc *OrderController) Index(c *ctx.Context) {
	list, err := oc.orders.List(c.Context())
	respond(c, c.Success, list, err)
}

// Store places an order for the authenticated user.
func (oc *OrderController) Store(c *ctx.Context) {
	userID, ok := middleware.UserIDFromCtx(c.R)
	if !ok {
		c.Error(http.StatusUnauthorized, "Unauthorized")
		return
	}
	var in services.OrderInput
	if !c.BindJSON(&in) {
		return
	}
	o, err := oc.orders.Create(c.Context(), userID, in)
	respond(c, c.Created, o, err)
}

func (oc *OrderController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.OrderStatusInput
	if !c.BindJSON(&in) {
		return
	}
	o, err := oc.orders.UpdateStatus(c.Context(), id, in)
	respond(c, c.Success, o, err)
}

func (oc *OrderController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := oc.orders.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Order deleted")
}
