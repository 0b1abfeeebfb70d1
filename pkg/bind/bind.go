// Package bind decodes and validates an HTTP request body into a struct.
//
// JSON bodies are decoded with encoding/json. Multipart bodies carry either a
// single "payload" field holding the JSON document, or one form field per
// attribute; flat fields are decoded with mapstructure using the struct's
// json tags, and values that look like JSON arrays or objects are decoded
// first so nested lists (e.g. variants) can travel as form fields.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/beautydb/backoffice/config"
	"github.com/beautydb/backoffice/pkg/validate"
	"github.com/mitchellh/mapstructure"
)

// PayloadField is the multipart field that may carry the whole JSON payload.
const PayloadField = "payload"

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES (default 4 MB).
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return validated(dest), nil
}

// Multipart parses a multipart/form-data body, decodes its fields into dest
// and runs validation. The parsed form is returned so the caller can read
// the uploaded files; the caller owns form.RemoveAll.
func Multipart(r *http.Request, dest interface{}) (form *multipart.Form, errs map[string]string, err error) {
	limit := config.MaxUploadBytes()
	r.Body = http.MaxBytesReader(nil, r.Body, limit*4)

	if err = r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, nil, fmt.Errorf("invalid multipart body: %w", err)
	}
	form = r.MultipartForm

	if payload := form.Value[PayloadField]; len(payload) > 0 {
		if err = json.Unmarshal([]byte(payload[0]), dest); err != nil {
			return form, nil, fmt.Errorf("invalid JSON in %q field: %w", PayloadField, err)
		}
		return form, validated(dest), nil
	}

	if err = decodeFields(form.Value, dest); err != nil {
		return form, nil, err
	}
	return form, validated(dest), nil
}

// IsMultipart reports whether r carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

func decodeFields(values map[string][]string, dest interface{}) error {
	input := make(map[string]interface{}, len(values))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if len(vals) > 1 {
			input[key] = vals
			continue
		}
		input[key] = maybeJSON(vals[0])
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dest,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       emptyStringToNil,
	})
	if err != nil {
		return fmt.Errorf("bind: decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("invalid form fields: %w", err)
	}
	return nil
}

// maybeJSON decodes s when it looks like a JSON array or object.
func maybeJSON(s string) interface{} {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || (trimmed[0] != '[' && trimmed[0] != '{') {
		return s
	}
	var v interface{}
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return s
	}
	return v
}

// emptyStringToNil leaves optional (pointer) fields unset for blank inputs.
func emptyStringToNil(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() == reflect.String && to.Kind() == reflect.Ptr {
		if s, ok := data.(string); ok && strings.TrimSpace(s) == "" {
			return nil, nil
		}
	}
	return data, nil
}

func validated(dest interface{}) map[string]string {
	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs
	}
	return nil
}

func maxBodyBytes() int64 {
	n := config.Get("MAX_BODY_BYTES", "")
	var v int64
	if _, err := fmt.Sscan(n, &v); err != nil || v <= 0 {
		return 4 << 20 // 4 MB
	}
	return v
}
