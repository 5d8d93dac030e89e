package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/brianmacetas/admin-api/pkg/event"
	"github.com/brianmacetas/admin-api/pkg/logger"
	"github.com/brianmacetas/admin-api/pkg/media"
	"github.com/brianmacetas/admin-api/pkg/metrics"
	"github.com/brianmacetas/admin-api/pkg/queue"
)

// UpdatedEvent is fired after every committed mutation. Listeners use it to
// invalidate read caches.
const UpdatedEvent = "catalog.updated"

// Orchestrator runs multi-resource mutations: remote asset uploads/deletes
// plus dependent relational writes in one transaction, with compensating
// asset cleanup when a later step fails.
//
// The rules every operation follows:
//
//   - Asset deletes GATE relational deletes: if the host refuses, nothing
//     relational changes and the client gets the rejection.
//   - New uploads are compensated (deleted from the host) when any later
//     step fails. Only this mutation's own uploads are ever compensated.
//   - After a successful commit nothing is ever compensated.
//   - A compensation that itself fails is enqueued for background reclaim;
//     the original error still reaches the caller.
type Orchestrator struct {
	db    *gorm.DB
	store media.Store
}

func NewOrchestrator(db *gorm.DB, store media.Store) *Orchestrator {
	return &Orchestrator{db: db, store: store}
}

// CreateOp inserts a parent row plus asset-reference children.
type CreateOp struct {
	Entity string
	Files  []media.File
	// Insert writes the parent and its children inside tx, referencing the
	// uploaded URLs in input order. Return ErrNotFoundOrNoop-wrapped errors
	// for zero-row outcomes.
	Insert func(tx *gorm.DB, urls []string) error
}

// Create runs: begin → fan-out upload → insert → commit.
func (o *Orchestrator) Create(ctx context.Context, op CreateOp) error {
	tx := o.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, tx.Error)
	}

	urls, err := media.UploadAll(ctx, o.store, op.Files)
	if err != nil {
		tx.Rollback()
		o.compensate(ctx, op.Entity, urls)
		o.record(op.Entity, "create", "compensated")
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}

	if err := op.Insert(tx, urls); err != nil {
		tx.Rollback()
		o.compensate(ctx, op.Entity, urls)
		o.record(op.Entity, "create", "compensated")
		return err
	}

	if err := tx.Commit().Error; err != nil {
		o.compensate(ctx, op.Entity, urls)
		o.record(op.Entity, "create", "compensated")
		return fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}

	o.committed(op.Entity, "create")
	return nil
}

// UpdateOp patches a parent row and replaces part of its asset set.
type UpdateOp struct {
	Entity string
	// Apply patches the parent inside tx and returns RowsAffected. Zero
	// rows aborts the operation before any asset side effect.
	Apply func(tx *gorm.DB) (int64, error)
	// RemoveRefs are existing asset URLs to destroy. Their deletion gates
	// the relational removal of their rows.
	RemoveRefs []string
	// RemoveRows deletes the child rows behind RemoveRefs inside tx.
	RemoveRows func(tx *gorm.DB) error
	// Files are the new assets to upload.
	Files []media.File
	// InsertRows writes child rows for the new URLs inside tx.
	InsertRows func(tx *gorm.DB, urls []string) error
}

// Update runs: begin → parent patch → gated asset deletes → child row
// removal → fan-out upload → child inserts → commit.
//
// From the upload stage onward a failure compensates the NEW uploads only;
// assets already destroyed in the gated stage stay destroyed, which is the
// accepted irreversible side effect of a replace.
func (o *Orchestrator) Update(ctx context.Context, op UpdateOp) error {
	tx := o.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, tx.Error)
	}

	if op.Apply != nil {
		rows, err := op.Apply(tx)
		if err != nil {
			tx.Rollback()
			o.record(op.Entity, "update", "failed")
			return fmt.Errorf("%w: %v", ErrTransaction, err)
		}
		if rows == 0 {
			tx.Rollback()
			o.record(op.Entity, "update", "failed")
			return ErrNotFoundOrNoop
		}
	}

	if len(op.RemoveRefs) > 0 {
		if err := media.DeleteAll(ctx, o.store, op.RemoveRefs); err != nil {
			tx.Rollback()
			o.record(op.Entity, "update", "failed")
			return err
		}
		if op.RemoveRows != nil {
			if err := op.RemoveRows(tx); err != nil {
				tx.Rollback()
				o.record(op.Entity, "update", "failed")
				return fmt.Errorf("%w: %v", ErrTransaction, err)
			}
		}
	}

	urls, err := media.UploadAll(ctx, o.store, op.Files)
	if err != nil {
		tx.Rollback()
		o.compensate(ctx, op.Entity, urls)
		o.record(op.Entity, "update", "compensated")
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}

	if op.InsertRows != nil {
		if err := op.InsertRows(tx, urls); err != nil {
			tx.Rollback()
			o.compensate(ctx, op.Entity, urls)
			o.record(op.Entity, "update", "compensated")
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		o.compensate(ctx, op.Entity, urls)
		o.record(op.Entity, "update", "compensated")
		return fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}

	o.committed(op.Entity, "update")
	return nil
}

// DeleteOp removes a parent row, its children, and their remote assets.
type DeleteOp struct {
	Entity string
	// Refs are the asset URLs to destroy before touching the database.
	Refs []string
	// Remove deletes children plus parent inside tx and returns the parent
	// RowsAffected. Zero rows is fatal and rolls back.
	Remove func(tx *gorm.DB) (int64, error)
}

// Delete runs: gated asset deletes → begin → relational delete → commit.
// A refused asset delete aborts with zero relational change.
func (o *Orchestrator) Delete(ctx context.Context, op DeleteOp) error {
	if len(op.Refs) > 0 {
		if err := media.DeleteAll(ctx, o.store, op.Refs); err != nil {
			o.record(op.Entity, "delete", "failed")
			return err
		}
	}

	tx := o.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, tx.Error)
	}

	rows, err := op.Remove(tx)
	if err != nil {
		tx.Rollback()
		o.record(op.Entity, "delete", "failed")
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	if rows == 0 {
		tx.Rollback()
		o.record(op.Entity, "delete", "failed")
		return ErrNotFoundOrNoop
	}

	if err := tx.Commit().Error; err != nil {
		o.record(op.Entity, "delete", "failed")
		return fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}

	o.committed(op.Entity, "delete")
	return nil
}

// compensate best-effort deletes this mutation's own uploads. Failures are
// logged and queued for background reclaim, never surfaced to the caller.
func (o *Orchestrator) compensate(ctx context.Context, entity string, urls []string) {
	if len(urls) == 0 {
		return
	}

	metrics.CompensationsTotal.WithLabelValues(entity).Inc()

	if err := media.DeleteAll(ctx, o.store, urls); err != nil {
		logger.WithCtx(ctx).Error("orchestrator: compensation incomplete, queueing reclaim",
			"entity", entity, "assets", len(urls), "error", err)
		if qErr := queue.Dispatch(&ReclaimAssetsJob{URLs: urls}); qErr != nil {
			logger.Error("orchestrator: reclaim dispatch failed", "error", qErr)
		}
	}
}

func (o *Orchestrator) committed(entity, op string) {
	o.record(entity, op, "committed")
	event.Fire(UpdatedEvent, entity)
}

func (o *Orchestrator) record(entity, op, outcome string) {
	metrics.MutationsTotal.WithLabelValues(entity, op, outcome).Inc()
}
