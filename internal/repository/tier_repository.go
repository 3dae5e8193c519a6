package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/event-seat-inventory/internal/model"
)

// TierRepo provides read-modify access to general-admission capacity
// counters.  A counter lives in one of three places, consulted in
// order: a named ticket tier, a pricing tier, or the event row's
// general bucket (only when the caller asked for "general").
type TierRepo struct {
    db *sql.DB
}

// NewTierRepo returns a new TierRepo bound to the provided database.
func NewTierRepo(db *sql.DB) *TierRepo { return &TierRepo{db: db} }

// generalTierID is the reserved tier identifier that falls back to the
// event's own general-admission counter when no tier row matches.
const generalTierID = "general"

// Adjust applies adj.Delta to the resolved counter inside a single
// transaction, locking the counter row with SELECT ... FOR UPDATE so
// concurrent adjustments serialize.  On success it fills adj.Previous,
// adj.New, adj.ID and adj.CreatedAt and writes the immutable
// capacity_adjustments row before committing.  Sentinel errors:
// ErrTierNotFound when no counter matches, ErrCapacityWouldGoNegative
// when the delta would drive the counter below zero (the counter is
// left untouched; adj.Previous is still filled so callers can report
// the current value).
func (r *TierRepo) Adjust(ctx context.Context, adj *model.CapacityAdjustment) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    table, idColumn, capColumn, rowID, previous, err := r.resolveTx(ctx, tx, adj.EventID, adj.TierID)
    if err != nil {
        return err
    }
    adj.Previous = previous
    updated := previous + adj.Delta
    if updated < 0 {
        return ErrCapacityWouldGoNegative
    }
    adj.New = updated

    if _, err = tx.ExecContext(ctx,
        `UPDATE `+table+` SET `+capColumn+` = ? WHERE `+idColumn+` = ?`,
        updated, rowID,
    ); err != nil {
        return err
    }
    res, err := tx.ExecContext(ctx,
        `INSERT INTO capacity_adjustments
         (event_id, tier_id, delta, reason, previous_capacity, new_capacity, actor)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
        adj.EventID, adj.TierID, adj.Delta, adj.Reason, adj.Previous, adj.New, adj.Actor,
    )
    if err != nil {
        return err
    }
    if id, idErr := res.LastInsertId(); idErr == nil {
        adj.ID = uint64(id)
    }
    if err = tx.Commit(); err != nil {
        return err
    }
    committed = true
    if adj.CreatedAt.IsZero() {
        adj.CreatedAt = time.Now().UTC()
    }
    return nil
}

// resolveTx locates the capacity counter for (eventID, tierID) and
// locks its row.  It returns the table and column names to update, the
// locked row's primary key and the current capacity.
func (r *TierRepo) resolveTx(ctx context.Context, tx *sql.Tx, eventID uint64, tierID string) (table, idColumn, capColumn string, rowID uint64, capacity int64, err error) {
    // Named ticket tier first.
    row := tx.QueryRowContext(ctx,
        `SELECT id, capacity FROM ticket_tiers WHERE event_id = ? AND tier_id = ? FOR UPDATE`,
        eventID, tierID,
    )
    if err = row.Scan(&rowID, &capacity); err == nil {
        return "ticket_tiers", "id", "capacity", rowID, capacity, nil
    }
    if !errors.Is(err, sql.ErrNoRows) {
        return "", "", "", 0, 0, err
    }
    // Then pricing tier.
    row = tx.QueryRowContext(ctx,
        `SELECT id, capacity FROM pricing_tiers WHERE event_id = ? AND tier_id = ? FOR UPDATE`,
        eventID, tierID,
    )
    if err = row.Scan(&rowID, &capacity); err == nil {
        return "pricing_tiers", "id", "capacity", rowID, capacity, nil
    }
    if !errors.Is(err, sql.ErrNoRows) {
        return "", "", "", 0, 0, err
    }
    // Finally the event's general bucket, but only for the reserved id.
    if tierID == generalTierID {
        row = tx.QueryRowContext(ctx,
            `SELECT id, general_capacity FROM events WHERE id = ? FOR UPDATE`,
            eventID,
        )
        if err = row.Scan(&rowID, &capacity); err == nil {
            return "events", "id", "general_capacity", rowID, capacity, nil
        }
        if !errors.Is(err, sql.ErrNoRows) {
            return "", "", "", 0, 0, err
        }
    }
    return "", "", "", 0, 0, ErrTierNotFound
}
