package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/app/repositories"
	"github.com/beautydb/backoffice/pkg/database"
	"github.com/beautydb/backoffice/pkg/event"
	"gorm.io/gorm"
)

// ServiceInput is the payload of treatment create and edit.
type ServiceInput struct {
	Name        string   `json:"name"         validate:"required,max=100"`
	Description string   `json:"description"`
	Time        int      `json:"time"         validate:"gte=0"`
	Price       *float64 `json:"price"        validate:"required,gte=0"`
	BookingLink *string  `json:"booking_link" validate:"nullable,url"`
	CategoryID  uint     `json:"category_id"  validate:"required"`
}

func (in ServiceInput) applyTo(s *models.Service) {
	s.Name = in.Name
	s.Description = in.Description
	s.Time = in.Time
	if in.Price != nil {
		s.Price = *in.Price
	}
	s.BookingLink = in.BookingLink
	if s.BookingLink != nil && *s.BookingLink == "" {
		s.BookingLink = nil
	}
	s.CategoryID = in.CategoryID
}

func (in ServiceInput) columns(s *models.Service) map[string]any {
	return map[string]any{
		"name":             s.Name,
		"description":      s.Description,
		"time":             s.Time,
		"price":            s.Price,
		"booking_link":     s.BookingLink,
		"category_id":      s.CategoryID,
		"before_image_url": s.BeforeImageURL,
		"after_image_url":  s.AfterImageURL,
	}
}

func serviceSlots(s *models.Service) []imageSlot {
	return []imageSlot{
		{imagestore.BeforeImage, &s.BeforeImageURL},
		{imagestore.AfterImage, &s.AfterImageURL},
	}
}

// TreatmentService manages bookable services (models.Service) and their
// before/after pictures.
type TreatmentService struct {
	db         database.Gateway
	images     *imagestore.Store
	events     *event.Bus
	services   *repositories.ServiceRepository
	categories *repositories.ServiceCategoryRepository
}

func NewTreatmentService(db database.Gateway, images *imagestore.Store, events *event.Bus) *TreatmentService {
	return &TreatmentService{
		db:         db,
		images:     images,
		events:     events,
		services:   repositories.NewServiceRepository(),
		categories: repositories.NewServiceCategoryRepository(),
	}
}

func (s *TreatmentService) List(ctx context.Context) ([]models.Service, error) {
	return s.services.All(s.db.DB(ctx))
}

func (s *TreatmentService) GetByID(ctx context.Context, id uint) (models.Service, error) {
	return s.services.Find(s.db.DB(ctx), id)
}

func (s *TreatmentService) Create(ctx context.Context, in ServiceInput, uploads imagestore.Uploads) (models.Service, error) {
	plan := newImagePlan(s.images, uploads)

	var svc models.Service
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.checkCategory(tx, in.CategoryID); err != nil {
			return err
		}
		in.applyTo(&svc)
		plan.apply(serviceSlots(&svc)...)
		if err := s.services.Create(tx, &svc); err != nil {
			return fmt.Errorf("insert service: %w", err)
		}
		return nil
	})
	plan.settle(ctx, "service", "create", err)
	if err != nil {
		return models.Service{}, err
	}

	s.events.Fire(ctx, event.Event{Name: event.ServiceChanged, Op: event.OpCreate, ID: svc.ServiceID})
	return svc, nil
}

func (s *TreatmentService) Edit(ctx context.Context, id uint, in ServiceInput, uploads imagestore.Uploads) (models.Service, error) {
	plan := newImagePlan(s.images, uploads)

	var svc models.Service
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if svc, err = s.services.Find(tx, id); err != nil {
			return err
		}
		if err := s.checkCategory(tx, in.CategoryID); err != nil {
			return err
		}
		in.applyTo(&svc)
		plan.apply(serviceSlots(&svc)...)
		if err := s.services.Update(tx, id, in.columns(&svc)); err != nil {
			return fmt.Errorf("update service %d: %w", id, err)
		}
		return nil
	})
	plan.settle(ctx, "service", "edit", err)
	if err != nil {
		return models.Service{}, err
	}

	s.events.Fire(ctx, event.Event{Name: event.ServiceChanged, Op: event.OpUpdate, ID: id})
	return svc, nil
}

func (s *TreatmentService) Delete(ctx context.Context, id uint) error {
	plan := newImagePlan(s.images, nil)

	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		svc, err := s.services.Find(tx, id)
		if err != nil {
			return err
		}
		if err := s.services.Delete(tx, id); err != nil {
			return fmt.Errorf("delete service %d: %w", id, err)
		}
		plan.release(svc.ImageURLs()...)
		return nil
	})
	plan.settle(ctx, "service", "delete", err)
	if err != nil {
		return err
	}

	s.events.Fire(ctx, event.Event{Name: event.ServiceChanged, Op: event.OpDelete, ID: id})
	return nil
}

func (s *TreatmentService) checkCategory(tx *gorm.DB, id uint) error {
	_, err := s.categories.Find(tx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return invalid("Service category %d does not exist", id)
	}
	return err
}
