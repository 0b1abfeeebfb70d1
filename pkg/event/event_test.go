package event_test

import (
	"context"
	"testing"

	"github.com/beautydb/backoffice/pkg/event"
	"github.com/stretchr/testify/assert"
)

func TestFireReachesListenersInOrder(t *testing.T) {
	bus := event.New()

	var got []string
	bus.Listen(func(_ context.Context, e event.Event) { got = append(got, "first:"+e.Op) }, event.ProductChanged)
	bus.Listen(func(_ context.Context, e event.Event) { got = append(got, "second:"+e.Op) }, event.ProductChanged, event.ServiceChanged)

	bus.Fire(context.Background(), event.Event{Name: event.ProductChanged, Op: event.OpCreate, ID: 1})
	bus.Fire(context.Background(), event.Event{Name: event.ServiceChanged, Op: event.OpDelete, ID: 2})
	bus.Fire(context.Background(), event.Event{Name: event.OrderPlaced})

	assert.Equal(t, []string{"first:create", "second:create", "second:delete"}, got)
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := event.New()

	called := false
	bus.Listen(func(context.Context, event.Event) { panic("boom") }, event.CourseChanged)
	bus.Listen(func(context.Context, event.Event) { called = true }, event.CourseChanged)

	assert.NotPanics(t, func() {
		bus.Fire(context.Background(), event.Event{Name: event.CourseChanged})
	})
	assert.True(t, called)
}

func TestNilBusDropsEvents(t *testing.T) {
	var bus *event.Bus
	assert.NotPanics(t, func() {
		bus.Fire(context.Background(), event.Event{Name: event.ProductChanged})
	})
}
