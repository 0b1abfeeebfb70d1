package database

import (
	"context"
	"fmt"
	"time"

	"github.com/beautydb/backoffice/pkg/metrics"
	"gorm.io/gorm"
)

// Gateway is the persistence surface the services depend on.
//
// Inside fn only tx may be used. Issuing queries through DB(ctx) while a
// transaction is open can deadlock a single-connection pool.
type Gateway interface {
	DB(ctx context.Context) *gorm.DB
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gateway struct {
	db *gorm.DB
}

// NewGateway wraps a gorm handle.
func NewGateway(db *gorm.DB) Gateway {
	return &gateway{db: db}
}

func (g *gateway) DB(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx)
}

// Transaction runs fn between BEGIN and COMMIT. Any error or panic from fn
// rolls the transaction back; panics are re-raised after rollback.
func (g *gateway) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) (err error) {
	start := time.Now()
	outcome := "rollback"
	defer func() { metrics.ObserveTx(outcome, start) }()

	tx := g.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("database: begin: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err = tx.Commit().Error; err != nil {
		return fmt.Errorf("database: commit: %w", err)
	}
	outcome = "commit"
	return nil
}
