package controllers

import (
	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/beautydb/backoffice/app/services"
	"github.com/beautydb/backoffice/pkg/ctx"
)

// ServiceController serves bookable services with before_image and
// after_image uploads.
type ServiceController struct {
	services *services.TreatmentService
	images   *imagestore.Store
}

func NewServiceController(svc *services.TreatmentService, images *imagestore.Store) *ServiceController {
	return &ServiceController{services: svc, images: images}
}

func (sc *ServiceController) Index(c *ctx.Context) {
	list, err := sc.services.List(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (sc *ServiceController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	s, err := sc.services.GetByID(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(s)
}

func (sc *ServiceController) Store(c *ctx.Context) {
	var in services.ServiceInput
	uploads, ok := bindWithUploads(c, sc.images, services.ServiceSlots, &in)
	if !ok {
		return
	}
	s, err := sc.services.Create(c.Context(), in, uploads)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(s)
}

func (sc *ServiceController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.ServiceInput
	uploads, ok := bindWithUploads(c, sc.images, services.ServiceSlots, &in)
	if !ok {
		return
	}
	s, err := sc.services.Edit(c.Context(), id, in, uploads)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(s)
}

func (sc *ServiceController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := sc.services.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Service deleted")
}

// CourseController serves courses with a single image upload.
type CourseController struct {
	courses *services.CourseService
	images  *imagestore.Store
}

func NewCourseController(courses *services.CourseService, images *imagestore.Store) *CourseController {
	return &CourseController{courses: courses, images: images}
}

func (cc *CourseController) Index(c *ctx.Context) {
	list, err := cc.courses.List(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (cc *CourseController) Store(c *ctx.Context) {
	var in services.CourseInput
	uploads, ok := bindWithUploads(c, cc.images, services.MediaSlots, &in)
	if !ok {
		return
	}
	course, err := cc.courses.Create(c.Context(), in, uploads)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(course)
}

func (cc *CourseController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.CourseInput
	uploads, ok := bindWithUploads(c, cc.images, services.MediaSlots, &in)
	if !ok {
		return
	}
	course, err := cc.courses.Edit(c.Context(), id, in, uploads)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(course)
}

func (cc *CourseController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := cc.courses.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Course deleted")
}

// EventController serves events with a single image upload.
type EventController struct {
	events *services.EventService
	images *imagestore.Store
}

func NewEventController(events *services.EventService, images *imagestore.Store) *EventController {
	return &EventController{events: events, images: images}
}

func (ec *EventController) Index(c *ctx.Context) {
	list, err := ec.events.List(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (ec *EventController) Store(c *ctx.Context) {
	var in services.EventInput
	uploads, ok := bindWithUploads(c, ec.images, services.MediaSlots, &in)
	if !ok {
		return
	}
	e, err := ec.events.Create(c.Context(), in, uploads)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(e)
}

func (ec *EventController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.EventInput
	uploads, ok := bindWithUploads(c, ec.images, services.MediaSlots, &in)
	if !ok {
		return
	}
	e, err := ec.events.Edit(c.Context(), id, in, uploads)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(e)
}

func (ec *EventController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := ec.events.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Event deleted")
}
