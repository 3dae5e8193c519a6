package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "time"

    "github.com/iliyamo/event-seat-inventory/internal/model"
)

// AuditRepo writes the append-only inventory_log table.  Entries are
// inserted and never updated or deleted; there is deliberately no
// method that modifies existing rows.
type AuditRepo struct {
    db *sql.DB
}

// NewAuditRepo returns a new AuditRepo bound to the provided database.
func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// Append writes one audit entry.  Affected seat keys are stored as a
// JSON array in inventory_log.seat_keys.  On success the entry's ID and
// CreatedAt are populated.
func (r *AuditRepo) Append(ctx context.Context, e *model.InventoryLogEntry) error {
    keys, err := json.Marshal(e.SeatIDs)
    if err != nil {
        return err
    }
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO inventory_log (event_id, action, seat_keys, tier_id, reason, actor)
         VALUES (?, ?, ?, ?, ?, ?)`,
        e.EventID, e.Action, string(keys), e.TierID, e.Reason, e.Actor,
    )
    if err != nil {
        return err
    }
    if id, idErr := res.LastInsertId(); idErr == nil {
        e.ID = uint64(id)
    }
    if e.CreatedAt.IsZero() {
        e.CreatedAt = time.Now().UTC()
    }
    return nil
}

// ByEvent lists the audit trail for an event, newest first.  Intended
// for admin inspection; the trail itself remains append-only.
func (r *AuditRepo) ByEvent(ctx context.Context, eventID uint64, limit int) ([]model.InventoryLogEntry, error) {
    if limit <= 0 {
        limit = 100
    }
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, event_id, action, seat_keys, tier_id, reason, actor, created_at
         FROM inventory_log WHERE event_id = ? ORDER BY id DESC LIMIT ?`,
        eventID, limit,
    )
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var entries []model.InventoryLogEntry
    for rows.Next() {
        var e model.InventoryLogEntry
        var keys sql.NullString
        if err := rows.Scan(&e.ID, &e.EventID, &e.Action, &keys, &e.TierID, &e.Reason, &e.Actor, &e.CreatedAt); err != nil {
            return nil, err
        }
        if keys.Valid && keys.String != "" {
            if err := json.Unmarshal([]byte(keys.String), &e.SeatIDs); err != nil {
                return nil, err
            }
        }
        entries = append(entries, e)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return entries, nil
}
