package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/beautydb/backoffice/app/repositories"
)

// ErrNotFound is returned when the addressed aggregate does not exist.
var ErrNotFound = repositories.ErrNotFound

// ErrInvalidCredentials is returned by Login for an unknown email or a
// wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError is a client error carrying a message safe to show.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func joinIDs(ids []uint) string {
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
