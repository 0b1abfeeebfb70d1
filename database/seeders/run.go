// Package seeders fills a fresh database with the rows the back office
// needs to be usable: an admin account and the base catalogue.
//
// Seeders are idempotent and may be run repeatedly.
package seeders

import (
	"fmt"
	"io"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc inserts rows through db.
type SeederFunc func(db *gorm.DB) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder. Call it from init().
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every seeder in registration order, each in its own
// transaction, and stops on the first error.
func RunAll(db *gorm.DB, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	mu.Lock()
	current := append([]seederEntry(nil), entries...)
	mu.Unlock()

	for _, e := range current {
		fmt.Fprintf(out, "Seeding: %s\n", e.name)
		if err := db.Transaction(e.fn); err != nil {
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
	}
	fmt.Fprintf(out, "Seeding complete (%d seeders ran)\n", len(current))
	return nil
}
