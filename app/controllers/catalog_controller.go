package controllers

import (
	"github.com/beautydb/backoffice/app/services"
	"github.com/beautydb/backoffice/pkg/ctx"
)

// CatalogController serves categories, service categories, brands and
// properties.
type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// respond writes v on success with the given status helper.
func respond[T any](c *ctx.Context, ok func(any), v T, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	ok(v)
}

func (cc *CatalogController) Categories(c *ctx.Context) {
	list, err := cc.catalog.Categories(c.Context())
	respond(c, c.Success, list, err)
}

func (cc *CatalogController) StoreCategory(c *ctx.Context) {
	var in services.CategoryInput
	if !bind(c, &in) {
		return
	}
	cat, err := cc.catalog.CreateCategory(c.Context(), in)
	respond(c, c.Created, cat, err)
}

func (cc *CatalogController) UpdateCategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.CategoryInput
	if !bind(c, &in) {
		return
	}
	cat, err := cc.catalog.UpdateCategory(c.Context(), id, in)
	respond(c, c.Success, cat, err)
}

func (cc *CatalogController) DestroyCategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := cc.catalog.DeleteCategory(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Category deleted")
}

func (cc *CatalogController) ServiceCategories(c *ctx.Context) {
	list, err := cc.catalog.ServiceCategories(c.Context())
	respond(c, c.Success, list, err)
}

func (cc *CatalogController) StoreServiceCategory(c *ctx.Context) {
	var in services.NamedInput
	if !bind(c, &in) {
		return
	}
	sc, err := cc.catalog.CreateServiceCategory(c.Context(), in)
	respond(c, c.Created, sc, err)
}

func (cc *CatalogController) UpdateServiceCategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.NamedInput
	if !bind(c, &in) {
		return
	}
	sc, err := cc.catalog.UpdateServiceCategory(c.Context(), id, in)
	respond(c, c.Success, sc, err)
}

func (cc *CatalogController) DestroyServiceCategory(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := cc.catalog.DeleteServiceCategory(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Service category deleted")
}

func (cc *CatalogController) Brands(c *ctx.Context) {
	list, err := cc.catalog.Brands(c.Context())
	respond(c, c.Success, list, err)
}

func (cc *CatalogController) StoreBrand(c *ctx.Context) {
	var in services.NamedInput
	if !bind(c, &in) {
		return
	}
	b, err := cc.catalog.CreateBrand(c.Context(), in)
	respond(c, c.Created, b, err)
}

func (cc *CatalogController) UpdateBrand(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.NamedInput
	if !bind(c, &in) {
		return
	}
	b, err := cc.catalog.UpdateBrand(c.Context(), id, in)
	respond(c, c.Success, b, err)
}

func (cc *CatalogController) DestroyBrand(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := cc.catalog.DeleteBrand(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Brand deleted")
}

func (cc *CatalogController) Properties(c *ctx.Context) {
	list, err := cc.catalog.Properties(c.Context())
	respond(c, c.Success, list, err)
}

func (cc *CatalogController) StoreProperty(c *ctx.Context) {
	var in services.NamedInput
	if !bind(c, &in) {
		return
	}
	p, err := cc.catalog.CreateProperty(c.Context(), in)
	respond(c, c.Created, p, err)
}

func (cc *CatalogController) UpdateProperty(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.NamedInput
	if !bind(c, &in) {
		return
	}
	p, err := cc.catalog.UpdateProperty(c.Context(), id, in)
	respond(c, c.Success, p, err)
}

func (cc *CatalogController) DestroyProperty(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := cc.catalog.DeleteProperty(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Property deleted")
}
