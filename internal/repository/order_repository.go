package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "strings"

    "github.com/iliyamo/event-seat-inventory/internal/model"
)

// OrderRepo is the read-only view onto the external order store.  This
// subsystem never writes orders; it only derives the sold-seat index
// from them.  Order line items have historically encoded seat data in
// three shapes, so every payload is funneled through the seat identity
// resolver before it reaches any comparison.
type OrderRepo struct {
    db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the provided database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// SoldSeats returns the set of canonical seat keys referenced by any
// order for the event in status completed, confirmed or pending.  The
// result is a snapshot; callers must not assume it is transactionally
// consistent with concurrent order writes.
func (r *OrderRepo) SoldSeats(ctx context.Context, eventID uint64) (map[model.SeatID]struct{}, error) {
    placeholders, args := soldStatusClause(eventID)
    rows, err := r.db.QueryContext(ctx,
        `SELECT oi.payload
         FROM order_items oi
         JOIN orders o ON o.id = oi.order_id
         WHERE o.event_id = ? AND o.status IN (`+placeholders+`)`,
        args...,
    )
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    sold := make(map[model.SeatID]struct{})
    for rows.Next() {
        var payload []byte
        if err := rows.Scan(&payload); err != nil {
            return nil, err
        }
        for _, id := range decodeItemSeats(payload) {
            sold[id] = struct{}{}
        }
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return sold, nil
}

// soldStatusClause renders the IN-clause placeholders and bind args for
// model.SoldSeatStatuses, so the query can never drift from the
// exported status list.
func soldStatusClause(eventID uint64) (string, []interface{}) {
    placeholders := strings.TrimSuffix(strings.Repeat("?,", len(model.SoldSeatStatuses)), ",")
    args := make([]interface{}, 0, len(model.SoldSeatStatuses)+1)
    args = append(args, eventID)
    for _, status := range model.SoldSeatStatuses {
        args = append(args, status)
    }
    return placeholders, args
}

// seatFields collects every field name the historical payload shapes
// have used for section, row and seat.  Values are decoded as any
// because numbers and numeric strings both occur in the wild.
type seatFields struct {
    Section    any `json:"section"`
    SectionID  any `json:"sectionId"`
    Row        any `json:"row"`
    RowLabel   any `json:"rowLabel"`
    Seat       any `json:"seat"`
    SeatNumber any `json:"seatNumber"`
    Number     any `json:"number"`
}

// seatID resolves the first populated variant of each field through the
// canonical resolver.  It reports false when the entry carries no row
// and no seat at all, e.g. a general-admission line item.
func (f seatFields) seatID() (model.SeatID, bool) {
    section := firstOf(f.Section, f.SectionID)
    row := firstOf(f.Row, f.RowLabel)
    seat := firstOf(f.Seat, f.SeatNumber, f.Number)
    if row == nil && seat == nil {
        return "", false
    }
    return model.CanonicalSeatID(section, row, seat), true
}

func firstOf(vals ...any) any {
    for _, v := range vals {
        if v != nil {
            return v
        }
    }
    return nil
}

// itemPayload covers the three seat encodings found in order items:
// item.seatInfo, item.ticket.seatInfo, and a top-level seats array.
type itemPayload struct {
    SeatInfo *seatFields `json:"seatInfo"`
    Ticket   *struct {
        SeatInfo *seatFields `json:"seatInfo"`
    } `json:"ticket"`
    Seats []seatFields `json:"seats"`
}

// decodeItemSeats extracts every seat identity from one order item
// payload.  Unparseable payloads contribute nothing; the sold-seat
// index is strictly best effort over whatever the order store holds.
// Duplicate encodings of the same seat collapse to one key because all
// shapes pass through the canonical resolver.
func decodeItemSeats(payload []byte) []model.SeatID {
    if len(payload) == 0 {
        return nil
    }
    var item itemPayload
    if err := json.Unmarshal(payload, &item); err != nil {
        return nil
    }
    var ids []model.SeatID
    if item.SeatInfo != nil {
        if id, ok := item.SeatInfo.seatID(); ok {
            ids = append(ids, id)
        }
    }
    if item.Ticket != nil && item.Ticket.SeatInfo != nil {
        if id, ok := item.Ticket.SeatInfo.seatID(); ok {
            ids = append(ids, id)
        }
    }
    for _, s := range item.Seats {
        if id, ok := s.seatID(); ok {
            ids = append(ids, id)
        }
    }
    return ids
}
