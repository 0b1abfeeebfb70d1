package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTreatments(t *testing.T) (*env, *services.TreatmentService) {
	t.Helper()
	e := newEnv(t)
	require.NoError(t, e.db.Create(&models.ServiceCategory{ServiceCategoryID: 1, Name: "Face"}).Error)
	return e, services.NewTreatmentService(e.gw, e.images, e.bus)
}

func facial() services.ServiceInput {
	return services.ServiceInput{Name: "Facial", Time: 60, Price: price(45), CategoryID: 1}
}

func TestTreatmentLifecycle(t *testing.T) {
	e, svc := newTreatments(t)
	ctx := context.Background()

	before := e.upload(t, imagestore.BeforeImage, "before.jpg")
	created, err := svc.Create(ctx, facial(), imagestore.Uploads{imagestore.BeforeImage: before})
	require.NoError(t, err)
	require.NotNil(t, created.BeforeImageURL)
	assert.Nil(t, created.AfterImageURL)

	newBefore := e.upload(t, imagestore.BeforeImage, "before2.jpg")
	after := e.upload(t, imagestore.AfterImage, "after.jpg")
	in := facial()
	link := "https://book.test/facial"
	in.BookingLink = &link
	edited, err := svc.Edit(ctx, created.ServiceID, in, imagestore.Uploads{
		imagestore.BeforeImage: newBefore,
		imagestore.AfterImage:  after,
	})
	require.NoError(t, err)
	assert.Equal(t, newBefore.URL, *edited.BeforeImageURL)
	assert.Equal(t, after.URL, *edited.AfterImageURL)

	got, err := svc.GetByID(ctx, created.ServiceID)
	require.NoError(t, err)
	assert.Equal(t, link, *got.BookingLink)

	e.images.Wait()
	assert.False(t, e.exists(t, before))

	require.NoError(t, svc.Delete(ctx, created.ServiceID))
	e.images.Wait()
	assert.False(t, e.exists(t, newBefore))
	assert.False(t, e.exists(t, after))

	assert.ErrorIs(t, svc.Delete(ctx, created.ServiceID), services.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ServiceID), services.ErrNotFound)
}

func TestTreatmentEditMissingDiscardsUploads(t *testing.T) {
	e, svc := newTreatments(t)

	upload := e.upload(t, imagestore.AfterImage, "after.jpg")
	_, err := svc.Edit(context.Background(), 7, facial(), imagestore.Uploads{imagestore.AfterImage: upload})
	assert.ErrorIs(t, err, services.ErrNotFound)

	e.images.Wait()
	assert.False(t, e.exists(t, upload))
	assert.Zero(t, e.count(t, &models.Service{}))
}

func TestTreatmentUnknownCategory(t *testing.T) {
	e, svc := newTreatments(t)

	in := facial()
	in.CategoryID = 9
	_, err := svc.Create(context.Background(), in, nil)
	var verr *services.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Zero(t, e.count(t, &models.Service{}))
}

func TestCourseAndEventImages(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	courses := services.NewCourseService(e.gw, e.images, e.bus)
	events := services.NewEventService(e.gw, e.images, e.bus)

	img := e.upload(t, imagestore.Image, "course.png")
	c, err := courses.Create(ctx, services.CourseInput{Title: "Nails 101", Price: price(120), StartDate: "2026-11-02"}, imagestore.Uploads{imagestore.Image: img})
	require.NoError(t, err)
	require.NotNil(t, c.StartDate)
	assert.Equal(t, time.November, c.StartDate.Month())
	assert.Equal(t, img.URL, *c.ImageURL)

	img2 := e.upload(t, imagestore.Image, "course2.png")
	c, err = courses.Edit(ctx, c.CourseID, services.CourseInput{Title: "Nails 102", Price: price(130)}, imagestore.Uploads{imagestore.Image: img2})
	require.NoError(t, err)
	assert.Nil(t, c.StartDate)
	e.images.Wait()
	assert.False(t, e.exists(t, img))

	list, err := courses.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Nails 102", list[0].Title)

	require.NoError(t, courses.Delete(ctx, c.CourseID))
	e.images.Wait()
	assert.False(t, e.exists(t, img2))

	poster := e.upload(t, imagestore.Image, "poster.png")
	ev, err := events.Create(ctx, services.EventInput{Title: "Open day", Location: "Studio"}, imagestore.Uploads{imagestore.Image: poster})
	require.NoError(t, err)
	_, err = events.Edit(ctx, ev.EventID+1, services.EventInput{Title: "x"}, nil)
	assert.ErrorIs(t, err, services.ErrNotFound)
	require.NoError(t, events.Delete(ctx, ev.EventID))
	e.images.Wait()
	assert.False(t, e.exists(t, poster))
}

func TestImageReferencesCoverEveryAggregate(t *testing.T) {
	e := newEnv(t)
	e.seedCatalog(t)
	require.NoError(t, e.db.Create(&models.ServiceCategory{ServiceCategoryID: 1, Name: "Face"}).Error)
	ctx := context.Background()

	p := e.upload(t, imagestore.PrimaryImage, "p.png")
	s := e.upload(t, imagestore.AfterImage, "s.png")
	c := e.upload(t, imagestore.Image, "c.png")

	_, err := services.NewProductService(e.gw, e.images, e.bus, 0).Create(ctx, serum(), imagestore.Uploads{imagestore.PrimaryImage: p})
	require.NoError(t, err)
	_, err = services.NewTreatmentService(e.gw, e.images, e.bus).Create(ctx, facial(), imagestore.Uploads{imagestore.AfterImage: s})
	require.NoError(t, err)
	_, err = services.NewCourseService(e.gw, e.images, e.bus).Create(ctx, services.CourseInput{Title: "c", Price: price(1)}, imagestore.Uploads{imagestore.Image: c})
	require.NoError(t, err)

	urls, err := services.NewImageReferences(e.gw).ImageURLs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{p.URL, s.URL, c.URL}, urls)
}
