// Package repositories holds the gorm queries of the back office.
//
// Every method takes the *gorm.DB to run on, so the same query works on the
// shared pool and inside a transaction opened by the service layer.
package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by identity matches no row.
var ErrNotFound = errors.New("record not found")

// first maps gorm's not-found error onto ErrNotFound.
func first(db *gorm.DB, dest any, query string, args ...any) error {
	err := db.Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// deleted reports ErrNotFound when a delete touched no row.
func deleted(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func uniq(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
