package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/event-seat-inventory/internal/model"
)

// BlockRepo provides data access to the seat_blocks table.  Blocks have
// no expiry; a row exists exactly as long as the administrative
// exclusion is in force.  The table carries UNIQUE KEY (event_id,
// seat_key) so a batch insert is all-or-nothing even under races.
type BlockRepo struct {
    db *sql.DB
}

// NewBlockRepo returns a new BlockRepo bound to the provided database.
func NewBlockRepo(db *sql.DB) *BlockRepo { return &BlockRepo{db: db} }

// CreateBatch inserts the given blocks in a single transaction.  Either
// every block is written or none is.  A duplicate key, which can only
// happen when a concurrent writer blocked one of the seats after the
// caller classified them, rolls the whole batch back and surfaces
// ErrConflict.  Active holds are re-checked inside the transaction, so
// a hold landing between the caller's snapshot and this commit also
// rolls the batch back with ErrConflict; a seat is never left both
// held and blocked.  Passing an empty slice has no effect and returns
// nil.
func (r *BlockRepo) CreateBatch(ctx context.Context, blocks []model.SeatBlock) error {
    if len(blocks) == 0 {
        return nil
    }
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
    placeholders := strings.TrimSuffix(strings.Repeat("?,", len(blocks)), ",")
    holdArgs := make([]interface{}, 0, len(blocks)+1)
    holdArgs = append(holdArgs, blocks[0].EventID)
    for _, b := range blocks {
        holdArgs = append(holdArgs, string(b.SeatID))
    }
    var held int
    if err = tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM seat_holds
         WHERE event_id = ? AND seat_key IN (`+placeholders+`) AND held_until > UTC_TIMESTAMP() FOR UPDATE`,
        holdArgs...,
    ).Scan(&held); err != nil {
        return err
    }
    if held > 0 {
        return ErrConflict
    }
    query := `INSERT INTO seat_blocks (event_id, seat_key, reason, blocked_by) VALUES `
    args := make([]interface{}, 0, len(blocks)*4)
    for i, b := range blocks {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, b.EventID, string(b.SeatID), b.Reason, b.BlockedBy)
    }
    if _, err = tx.ExecContext(ctx, query, args...); err != nil {
        var me *mysql.MySQLError
        if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
            return ErrConflict
        }
        return err
    }
    if err = tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// DeleteBatch removes the block rows matching the requested seats and
// returns the seat keys that were actually removed, so callers can
// report per-seat granularity.  Removal is atomic: the select and the
// delete run in one transaction.
func (r *BlockRepo) DeleteBatch(ctx context.Context, eventID uint64, seatIDs []model.SeatID) ([]model.SeatID, error) {
    if len(seatIDs) == 0 {
        return nil, nil
    }
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    placeholders := strings.TrimSuffix(strings.Repeat("?,", len(seatIDs)), ",")
    args := make([]interface{}, 0, len(seatIDs)+1)
    args = append(args, eventID)
    for _, id := range seatIDs {
        args = append(args, string(id))
    }
    rows, err := tx.QueryContext(ctx,
        `SELECT seat_key FROM seat_blocks WHERE event_id = ? AND seat_key IN (`+placeholders+`) FOR UPDATE`,
        args...,
    )
    if err != nil {
        return nil, err
    }
    var removed []model.SeatID
    for rows.Next() {
        var key string
        if scanErr := rows.Scan(&key); scanErr != nil {
            rows.Close()
            return nil, scanErr
        }
        removed = append(removed, model.SeatID(key))
    }
    // rows.Close alone swallows iteration errors; an aborted iteration
    // must not underreport removed while the DELETE below still runs.
    if err = rows.Err(); err != nil {
        rows.Close()
        return nil, err
    }
    if err = rows.Close(); err != nil {
        return nil, err
    }
    if len(removed) > 0 {
        if _, err = tx.ExecContext(ctx,
            `DELETE FROM seat_blocks WHERE event_id = ? AND seat_key IN (`+placeholders+`)`,
            args...,
        ); err != nil {
            return nil, err
        }
    }
    if err = tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return removed, nil
}

// ByEvent lists every block for an event.
func (r *BlockRepo) ByEvent(ctx context.Context, eventID uint64) ([]model.SeatBlock, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, event_id, seat_key, reason, blocked_by, blocked_at FROM seat_blocks WHERE event_id = ?`,
        eventID,
    )
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var blocks []model.SeatBlock
    for rows.Next() {
        var b model.SeatBlock
        var seatKey string
        if err := rows.Scan(&b.ID, &b.EventID, &seatKey, &b.Reason, &b.BlockedBy, &b.BlockedAt); err != nil {
            return nil, err
        }
        b.SeatID = model.SeatID(seatKey)
        blocks = append(blocks, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return blocks, nil
}
