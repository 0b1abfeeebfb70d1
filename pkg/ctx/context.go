// Package ctx provides a gin.Context-inspired request context for handlers.
//
//	func (pc *ProductController) Show(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    ...
//	    c.Success(product)
//	}
//
//	// Register with ctx.Wrap:
//	router.Get("/products/{id}", "products.show", ctx.Wrap(pc.Show))
package ctx

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"

	"github.com/beautydb/backoffice/pkg/bind"
	"github.com/beautydb/backoffice/pkg/logger"
	"github.com/beautydb/backoffice/pkg/response"
	"github.com/go-chi/chi/v5"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	form   *multipart.Form
	status int // written status code (0 = not written yet)
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.form = nil
	c.status = 0
	return c
}

func release(c *Context) {
	if c.form != nil {
		_ = c.form.RemoveAll()
	}
	c.W = nil
	c.R = nil
	c.form = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/products/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a positive integer path parameter. On failure it answers
// 400 and returns false.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		c.Error(http.StatusBadRequest, "Invalid "+key)
		return 0, false
	}
	return uint(n), true
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// ─── Binding / Validation ─────────────────────────────────────────────────────

// Bind decodes a JSON or multipart body into dest and runs validation.
// On a malformed body it answers 400 and returns false. Validation failures
// are returned to the caller, which may still need to clean up uploads.
func (c *Context) Bind(dest any) (map[string]string, bool) {
	var (
		errs map[string]string
		err  error
	)
	if bind.IsMultipart(c.R) {
		c.form, errs, err = bind.Multipart(c.R, dest)
	} else {
		errs, err = bind.JSON(c.R, dest)
	}
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return nil, false
	}
	return errs, true
}

// BindJSON decodes and validates a JSON body, answering 400 on any failure.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.ValidationError("Validation failed", errs)
		return false
	}
	return true
}

// File returns the first file uploaded under field, if any.
func (c *Context) File(field string) (*multipart.FileHeader, bool) {
	if c.form == nil {
		return nil, false
	}
	files := c.form.File[field]
	if len(files) == 0 {
		return nil, false
	}
	return files[0], true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v as the response body.
func (c *Context) JSON(code int, v any) {
	c.status = code
	if env, ok := v.(response.Envelope); ok {
		response.Write(c.W, code, env)
		return
	}
	response.Write(c.W, code, response.Envelope{Status: code, Data: v})
}

// Success sends a 200 JSON envelope: {"status":200,"data":...}
func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 JSON envelope.
func (c *Context) Created(data any) {
	c.JSON(http.StatusCreated, response.Envelope{Status: http.StatusCreated, Data: data})
}

// Message sends a 200 envelope with only a message.
func (c *Context) Message(message string) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Message: message})
}

// Error sends a JSON error envelope with the given status and message.
func (c *Context) Error(code int, message string) {
	c.JSON(code, response.Envelope{Status: code, Message: message})
}

// ValidationError sends a 400 with the message and optional field errors.
func (c *Context) ValidationError(message string, errs map[string]string) {
	env := response.Envelope{Status: http.StatusBadRequest, Message: message}
	if len(errs) > 0 {
		env.Errors = errs
	}
	c.JSON(http.StatusBadRequest, env)
}

// NotFound sends a 404.
func (c *Context) NotFound(message ...string) {
	msg := "Not found"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusNotFound, msg)
}

// InternalError sends the generic 500 body.
func (c *Context) InternalError() {
	c.Error(http.StatusInternalServerError, "Internal Server Error")
}

// WrittenStatus returns the status code written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
