package services

import (
	"context"
	"fmt"
	"time"

	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/app/repositories"
	"github.com/beautydb/backoffice/pkg/database"
	"github.com/beautydb/backoffice/pkg/event"
	"github.com/beautydb/backoffice/pkg/validate"
	"gorm.io/gorm"
)

// CourseInput is the payload of course create and edit.
type CourseInput struct {
	Title       string   `json:"title"       validate:"required,max=255"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	StartDate   string   `json:"start_date"  validate:"nullable,date"`
}

// EventInput is the payload of event create and edit.
type EventInput struct {
	Title       string `json:"title"       validate:"required,max=255"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"  validate:"nullable,date"`
	Location    string `json:"location"    validate:"max=255"`
}

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := validate.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

// CourseService manages courses and their single picture.
type CourseService struct {
	db      database.Gateway
	images  *imagestore.Store
	events  *event.Bus
	courses *repositories.CourseRepository
}

func NewCourseService(db database.Gateway, images *imagestore.Store, events *event.Bus) *CourseService {
	return &CourseService{db: db, images: images, events: events, courses: repositories.NewCourseRepository()}
}

func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	return s.courses.All(s.db.DB(ctx))
}

func (s *CourseService) Create(ctx context.Context, in CourseInput, uploads imagestore.Uploads) (models.Course, error) {
	plan := newImagePlan(s.images, uploads)

	c := models.Course{Title: in.Title, Description: in.Description, StartDate: optionalDate(in.StartDate)}
	if in.Price != nil {
		c.Price = *in.Price
	}
	plan.apply(imageSlot{imagestore.Image, &c.ImageURL})

	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return s.courses.Create(tx, &c)
	})
	plan.settle(ctx, "course", "create", err)
	if err != nil {
		return models.Course{}, fmt.Errorf("insert course: %w", err)
	}

	s.events.Fire(ctx, event.Event{Name: event.CourseChanged, Op: event.OpCreate, ID: c.CourseID})
	return c, nil
}

func (s *CourseService) Edit(ctx context.Context, id uint, in CourseInput, uploads imagestore.Uploads) (models.Course, error) {
	plan := newImagePlan(s.images, uploads)

	var c models.Course
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if c, err = s.courses.Find(tx, id); err != nil {
			return err
		}
		c.Title = in.Title
		c.Description = in.Description
		c.StartDate = optionalDate(in.StartDate)
		if in.Price != nil {
			c.Price = *in.Price
		}
		plan.apply(imageSlot{imagestore.Image, &c.ImageURL})

		err = s.courses.Update(tx, id, map[string]any{
			"title":       c.Title,
			"description": c.Description,
			"price":       c.Price,
			"start_date":  c.StartDate,
			"image_url":   c.ImageURL,
		})
		if err != nil {
			return fmt.Errorf("update course %d: %w", id, err)
		}
		return nil
	})
	plan.settle(ctx, "course", "edit", err)
	if err != nil {
		return models.Course{}, err
	}

	s.events.Fire(ctx, event.Event{Name: event.CourseChanged, Op: event.OpUpdate, ID: id})
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, id uint) error {
	plan := newImagePlan(s.images, nil)

	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		c, err := s.courses.Find(tx, id)
		if err != nil {
			return err
		}
		if err := s.courses.Delete(tx, id); err != nil {
			return err
		}
		if c.ImageURL != nil {
			plan.release(*c.ImageURL)
		}
		return nil
	})
	plan.settle(ctx, "course", "delete", err)
	if err != nil {
		return err
	}

	s.events.Fire(ctx, event.Event{Name: event.CourseChanged, Op: event.OpDelete, ID: id})
	return nil
}

// EventService manages events and their single picture.
type EventService struct {
	db     database.Gateway
	images *imagestore.Store
	bus    *event.Bus
	events *repositories.EventRepository
}

func NewEventService(db database.Gateway, images *imagestore.Store, bus *event.Bus) *EventService {
	return &EventService{db: db, images: images, bus: bus, events: repositories.NewEventRepository()}
}

func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	return s.events.All(s.db.DB(ctx))
}

func (s *EventService) Create(ctx context.Context, in EventInput, uploads imagestore.Uploads) (models.Event, error) {
	plan := newImagePlan(s.images, uploads)

	e := models.Event{Title: in.Title, Description: in.Description, EventDate: optionalDate(in.EventDate), Location: in.Location}
	plan.apply(imageSlot{imagestore.Image, &e.ImageURL})

	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return s.events.Create(tx, &e)
	})
	plan.settle(ctx, "event", "create", err)
	if err != nil {
		return models.Event{}, fmt.Errorf("insert event: %w", err)
	}

	s.bus.Fire(ctx, event.Event{Name: event.EventChanged, Op: event.OpCreate, ID: e.EventID})
	return e, nil
}

func (s *EventService) Edit(ctx context.Context, id uint, in EventInput, uploads imagestore.Uploads) (models.Event, error) {
	plan := newImagePlan(s.images, uploads)

	var e models.Event
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if e, err = s.events.Find(tx, id); err != nil {
			return err
		}
		e.Title = in.Title
		e.Description = in.Description
		e.EventDate = optionalDate(in.EventDate)
		e.Location = in.Location
		plan.apply(imageSlot{imagestore.Image, &e.ImageURL})

		err = s.events.Update(tx, id, map[string]any{
			"title":       e.Title,
			"description": e.Description,
			"event_date":  e.EventDate,
			"location":    e.Location,
			"image_url":   e.ImageURL,
		})
		if err != nil {
			return fmt.Errorf("update event %d: %w", id, err)
		}
		return nil
	})
	plan.settle(ctx, "event", "edit", err)
	if err != nil {
		return models.Event{}, err
	}

	s.bus.Fire(ctx, event.Event{Name: event.EventChanged, Op: event.OpUpdate, ID: id})
	return e, nil
}

func (s *EventService) Delete(ctx context.Context, id uint) error {
	plan := newImagePlan(s.images, nil)

	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		e, err := s.events.Find(tx, id)
		if err != nil {
			return err
		}
		if err := s.events.Delete(tx, id); err != nil {
			return err
		}
		if e.ImageURL != nil {
			plan.release(*e.ImageURL)
		}
		return nil
	})
	plan.settle(ctx, "event", "delete", err)
	if err != nil {
		return err
	}

	s.bus.Fire(ctx, event.Event{Name: event.EventChanged, Op: event.OpDelete, ID: id})
	return nil
}
