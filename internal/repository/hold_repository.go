package repository

import (
    "context"
    "crypto/rand"
    "database/sql"
    "encoding/hex"
    "errors"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/event-seat-inventory/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key
// violation.  The seat_holds table carries UNIQUE KEY (event_id,
// seat_key), which is what turns hold creation into a conditional
// create-if-absent write instead of a read-then-write pair.
const mysqlDuplicateEntry = 1062

// HoldRepo provides data access to the seat_holds table.  All expiry
// comparisons run against UTC_TIMESTAMP() inside the database so that
// every process sharing the store applies the same clock.
type HoldRepo struct {
    db *sql.DB
}

// NewHoldRepo returns a new HoldRepo bound to the provided database.
func NewHoldRepo(db *sql.DB) *HoldRepo { return &HoldRepo{db: db} }

// NewHoldToken generates the random hexadecimal token stored in
// seat_holds.hold_token and returned to the client for renewal.  The
// underlying crypto/rand read makes tokens unguessable.
func NewHoldToken() (string, error) {
    b := make([]byte, 32)
    if _, err := rand.Read(b); err != nil {
        return "", err
    }
    return hex.EncodeToString(b), nil
}

// CreateIfAbsent inserts a hold if and only if no active hold occupies
// the seat.  An expired row occupying the unique slot is cleared first
// inside the same transaction; it never blocks a new hold.  When two
// concurrent transactions race for the same seat the second insert
// fails the unique key and the caller receives ErrSeatUnavailable.
// On success the hold's ID and CreatedAt are populated.
func (r *HoldRepo) CreateIfAbsent(ctx context.Context, h *model.SeatHold) error {
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
    // Lazily clear an expired hold occupying this seat's slot.
    if _, err = tx.ExecContext(ctx,
        `DELETE FROM seat_holds WHERE event_id = ? AND seat_key = ? AND held_until <= UTC_TIMESTAMP()`,
        h.EventID, string(h.SeatID),
    ); err != nil {
        return err
    }
    res, err := tx.ExecContext(ctx,
        `INSERT INTO seat_holds (event_id, seat_key, session_id, hold_token, held_until) VALUES (?, ?, ?, ?, ?)`,
        h.EventID, string(h.SeatID), h.SessionID, h.HoldToken, h.HeldUntil.UTC().Format("2006-01-02 15:04:05"),
    )
    if err != nil {
        var me *mysql.MySQLError
        if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
            return ErrSeatUnavailable
        }
        return err
    }
    if id, idErr := res.LastInsertId(); idErr == nil {
        h.ID = uint64(id)
    }
    if err = tx.Commit(); err != nil {
        return err
    }
    committed = true
    if h.CreatedAt.IsZero() {
        h.CreatedAt = time.Now().UTC()
    }
    return nil
}

// RenewByToken extends the expiry of an active hold identified by its
// token.  Expired or absent holds yield ErrHoldNotFound; they are
// treated as already gone, never renewable.
func (r *HoldRepo) RenewByToken(ctx context.Context, token string, until time.Time) (*model.SeatHold, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE seat_holds SET held_until = ? WHERE hold_token = ? AND held_until > UTC_TIMESTAMP()`,
        until.UTC().Format("2006-01-02 15:04:05"), token,
    )
    if err != nil {
        return nil, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return nil, err
    }
    if n == 0 {
        return nil, ErrHoldNotFound
    }
    return r.byToken(ctx, token)
}

// ExtendForSession extends the active hold a session already owns on a
// seat.  Used when a shopper re-enters checkout on a seat they hold.
// Returns ErrHoldNotFound when no active hold exists for the triple.
func (r *HoldRepo) ExtendForSession(ctx context.Context, eventID uint64, seatID model.SeatID, sessionID string, until time.Time) (*model.SeatHold, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE seat_holds SET held_until = ?
         WHERE event_id = ? AND seat_key = ? AND session_id = ? AND held_until > UTC_TIMESTAMP()`,
        until.UTC().Format("2006-01-02 15:04:05"), eventID, string(seatID), sessionID,
    )
    if err != nil {
        return nil, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return nil, err
    }
    if n == 0 {
        return nil, ErrHoldNotFound
    }
    row := r.db.QueryRowContext(ctx,
        `SELECT id, event_id, seat_key, session_id, hold_token, held_until, created_at
         FROM seat_holds WHERE event_id = ? AND seat_key = ? AND session_id = ?`,
        eventID, string(seatID), sessionID,
    )
    return scanHold(row)
}

// Release removes the hold a session owns on a seat.  It is idempotent:
// releasing a hold that is absent, expired or owned by nobody reports
// false with a nil error.
func (r *HoldRepo) Release(ctx context.Context, eventID uint64, seatID model.SeatID, sessionID string) (bool, error) {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM seat_holds WHERE event_id = ? AND seat_key = ? AND session_id = ?`,
        eventID, string(seatID), sessionID,
    )
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// ActiveByEvent lists the non-expired holds for an event.  Expiry is
// applied in the query itself; physically present but expired rows are
// never returned.
func (r *HoldRepo) ActiveByEvent(ctx context.Context, eventID uint64) ([]model.SeatHold, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, event_id, seat_key, session_id, hold_token, held_until, created_at
         FROM seat_holds WHERE event_id = ? AND held_until > UTC_TIMESTAMP()`,
        eventID,
    )
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var holds []model.SeatHold
    for rows.Next() {
        var h model.SeatHold
        var seatKey string
        if err := rows.Scan(&h.ID, &h.EventID, &seatKey, &h.SessionID, &h.HoldToken, &h.HeldUntil, &h.CreatedAt); err != nil {
            return nil, err
        }
        h.SeatID = model.SeatID(seatKey)
        holds = append(holds, h)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return holds, nil
}

// PurgeExpired deletes expired hold rows for an event and returns how
// many were removed.  This is purely a storage-reclamation optimization;
// correctness never depends on it because every read path already
// filters on held_until.
func (r *HoldRepo) PurgeExpired(ctx context.Context, eventID uint64) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM seat_holds WHERE event_id = ? AND held_until <= UTC_TIMESTAMP()`,
        eventID,
    )
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

func (r *HoldRepo) byToken(ctx context.Context, token string) (*model.SeatHold, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT id, event_id, seat_key, session_id, hold_token, held_until, created_at
         FROM seat_holds WHERE hold_token = ?`,
        token,
    )
    return scanHold(row)
}

func scanHold(row *sql.Row) (*model.SeatHold, error) {
    var h model.SeatHold
    var seatKey string
    if err := row.Scan(&h.ID, &h.EventID, &seatKey, &h.SessionID, &h.HoldToken, &h.HeldUntil, &h.CreatedAt); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrHoldNotFound
        }
        return nil, err
    }
    h.SeatID = model.SeatID(seatKey)
    return &h, nil
}
