package services

import (
	"context"

	"github.com/beautydb/backoffice/app/repositories"
	"github.com/beautydb/backoffice/pkg/database"
)

// ImageReferences lists every image URL stored on any aggregate. The orphan
// sweeper keeps exactly these files.
type ImageReferences struct {
	db       database.Gateway
	products *repositories.ProductRepository
	services *repositories.ServiceRepository
	courses  *repositories.CourseRepository
	events   *repositories.EventRepository
}

func NewImageReferences(db database.Gateway) *ImageReferences {
	return &ImageReferences{
		db:       db,
		products: repositories.NewProductRepository(),
		services: repositories.NewServiceRepository(),
		courses:  repositories.NewCourseRepository(),
		events:   repositories.NewEventRepository(),
	}
}

func (r *ImageReferences) ImageURLs(ctx context.Context) ([]string, error) {
	db := r.db.DB(ctx)
	var all []string
	for _, list := range []func() ([]string, error){
		func() ([]string, error) { return r.products.ImageURLs(db) },
		func() ([]string, error) { return r.services.ImageURLs(db) },
		func() ([]string, error) { return r.courses.ImageURLs(db) },
		func() ([]string, error) { return r.events.ImageURLs(db) },
	} {
		urls, err := list()
		if err != nil {
			return nil, err
		}
		all = append(all, urls...)
	}
	return all, nil
}
