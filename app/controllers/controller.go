// Package controllers adapts HTTP requests to the services.
package controllers

import (
	"errors"

	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/beautydb/backoffice/app/services"
	"github.com/beautydb/backoffice/pkg/ctx"
)

// fail maps a service error onto the response. Only validation messages
// reach the client; anything unexpected is logged and answered generically.
func fail(c *ctx.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr.Message, verr.Fields)
	case errors.Is(err, services.ErrNotFound):
		c.NotFound()
	default:
		c.Log().Error("request failed", "error", err)
		c.InternalError()
	}
}

// bind decodes and validates the request body into dest.
func bind(c *ctx.Context, dest any) bool {
	errs, ok := c.Bind(dest)
	if !ok {
		return false
	}
	if len(errs) > 0 {
		c.ValidationError("Validation failed", errs)
		return false
	}
	return true
}

// bindWithUploads binds dest, then stores the files sent under slots. The
// uploads are stored only for a valid payload; if one of them fails the ones
// already stored are discarded.
func bindWithUploads(c *ctx.Context, store *imagestore.Store, slots []imagestore.Slot, dest any) (imagestore.Uploads, bool) {
	if !bind(c, dest) {
		return nil, false
	}

	uploads := imagestore.Uploads{}
	for _, slot := range slots {
		fh, ok := c.File(string(slot))
		if !ok {
			continue
		}

		f, err := fh.Open()
		if err == nil {
			var saved imagestore.File
			saved, err = store.Save(c.Context(), slot, fh.Filename, f)
			_ = f.Close()
			if err == nil {
				uploads[slot] = saved
				continue
			}
		}

		store.Discard(c.Context(), uploads.Files()...)
		if errors.Is(err, imagestore.ErrUnsupportedType) {
			c.ValidationError("Only image files can be uploaded", map[string]string{string(slot): "The file must be an image."})
			return nil, false
		}
		c.Log().Error("upload failed", "slot", slot, "error", err)
		c.InternalError()
		return nil, false
	}
	return uploads, true
}
