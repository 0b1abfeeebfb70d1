// Package event is an in-process dispatcher for domain events fired after a
// write has committed.
package event

import (
	"context"
	"sync"

	"github.com/beautydb/backoffice/pkg/logger"
)

// Name identifies an event kind.
type Name string

const (
	ProductChanged  Name = "catalog.product.changed"
	ServiceChanged  Name = "catalog.service.changed"
	CategoryChanged Name = "catalog.category.changed"
	BrandChanged    Name = "catalog.brand.changed"
	PropertyChanged Name = "catalog.property.changed"
	CourseChanged   Name = "catalog.course.changed"
	EventChanged    Name = "catalog.event.changed"
	OrderPlaced     Name = "order.placed"
)

// Ops carried by change events.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Event is the payload passed to handlers.
type Event struct {
	Name Name
	Op   string
	ID   uint
}

// Handler receives an event.
type Handler func(ctx context.Context, e Event)

// Bus holds listeners by event name. The zero value is not usable; call New.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Name][]Handler
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{handlers: map[Name][]Handler{}}
}

// Listen registers h for each of names.
func (b *Bus) Listen(h Handler, names ...Name) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range names {
		b.handlers[n] = append(b.handlers[n], h)
	}
}

// Fire dispatches e synchronously. A panicking handler is logged and does not
// stop the remaining handlers. A nil bus drops the event.
func (b *Bus) Fire(ctx context.Context, e Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[e.Name]))
	copy(hs, b.handlers[e.Name])
	b.mu.RUnlock()

	for _, h := range hs {
		dispatch(ctx, h, e)
	}
}

func dispatch(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event: handler panicked", "event", string(e.Name), "panic", r)
		}
	}()
	h(ctx, e)
}
