// Package migration applies versioned schema changes and records them in a
// tracking table, grouped into batches so the last run can be rolled back.
//
//	func init() {
//	    migration.Register("20260101000000_create_products", createProducts{})
//	}
package migration

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/beautydb/backoffice/pkg/logger"
	"gorm.io/gorm"
)

// Migration is one reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

type entry struct {
	name string
	m    Migration
}

var registry []entry

// Register adds m to the global registry. Names are timestamp prefixed and
// run in lexical order.
func Register(name string, m Migration) {
	registry = append(registry, entry{name: name, m: m})
}

// Registered returns the names of all registered migrations in run order.
func Registered() []string {
	out := make([]string, 0, len(registry))
	for _, e := range sorted(registry) {
		out = append(out, e.name)
	}
	return out
}

func sorted(in []entry) []entry {
	out := append([]entry(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ErrNotRegistered is returned by Rollback for a recorded migration whose
// code is no longer registered.
var ErrNotRegistered = errors.New("migration: not registered")

// Runner executes and tracks migrations.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New returns a Runner on db printing progress to out.
func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Pending returns the names of migrations not yet applied.
func (r *Runner) Pending() ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.ran()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range sorted(registry) {
		if _, ok := done[e.name]; !ok {
			names = append(names, e.name)
		}
	}
	return names, nil
}

// Run applies every pending migration as one batch. Each migration and its
// history row are committed together.
func (r *Runner) Run() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	done, err := r.ran()
	if err != nil {
		return 0, err
	}

	batch := 1
	for _, rec := range done {
		if rec.Batch >= batch {
			batch = rec.Batch + 1
		}
	}

	n := 0
	for _, e := range sorted(registry) {
		if _, ok := done[e.name]; ok {
			continue
		}

		fmt.Fprintf(r.out, "Migrating: %s\n", e.name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := e.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: e.name, Batch: batch}).Error
		})
		if err != nil {
			return n, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		logger.Info("migration: applied", "name", e.name, "batch", batch)
		n++
	}

	if n == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
	}
	return n, nil
}

// Rollback reverts the most recent batch in reverse order.
func (r *Runner) Rollback() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}

	var last record
	err := r.db.Order("batch desc").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}

	var rows []record
	if err := r.db.Where("batch = ?", last.Batch).Order("name desc").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("migration: load batch: %w", err)
	}

	byName := make(map[string]Migration, len(registry))
	for _, e := range registry {
		byName[e.name] = e.m
	}

	n := 0
	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return n, fmt.Errorf("%w: %s", ErrNotRegistered, row.Name)
		}

		fmt.Fprintf(r.out, "Rolling back: %s\n", row.Name)
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&record{}, row.ID).Error
		})
		if err != nil {
			return n, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		logger.Info("migration: rolled back", "name", row.Name, "batch", row.Batch)
		n++
	}
	return n, nil
}

// Status prints every registered migration with its batch, or "Pending".
func (r *Runner) Status() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	done, err := r.ran()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-56s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, e := range sorted(registry) {
		if rec, ok := done[e.name]; ok {
			fmt.Fprintf(r.out, "%-56s  %-8s  %d\n", e.name, "Ran", rec.Batch)
			continue
		}
		fmt.Fprintf(r.out, "%-56s  %-8s  -\n", e.name, "Pending")
	}
	return nil
}
