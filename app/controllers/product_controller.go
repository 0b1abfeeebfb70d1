package controllers

import (
	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/beautydb/backoffice/app/services"
	"github.com/beautydb/backoffice/pkg/ctx"
)

type ProductController struct {
	products *services.ProductService
	images   *imagestore.Store
}

func NewProductController(products *services.ProductService, images *imagestore.Store) *ProductController {
	return &ProductController{products: products, images: images}
}

// Index lists every product with category, brand, variants and properties.
func (pc *ProductController) Index(c *ctx.Context) {
	list, err := pc.products.List(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (pc *ProductController) Featured(c *ctx.Context) {
	list, err := pc.products.ListFeatured(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(list)
}

func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	p, err := pc.products.GetByID(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

// Store accepts JSON or multipart with primary_image, secondary_image and
// third_image files.
func (pc *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	uploads, ok := bindWithUploads(c, pc.images, services.ProductSlots, &in)
	if !ok {
		return
	}

	p, err := pc.products.Create(c.Context(), in, uploads)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(p)
}

func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}

	var in services.ProductInput
	uploads, ok := bindWithUploads(c, pc.images, services.ProductSlots, &in)
	if !ok {
		return
	}

	p, err := pc.products.Edit(c.Context(), id, in, uploads)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := pc.products.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Product deleted")
}
