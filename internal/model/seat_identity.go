package model

import (
    "fmt"
    "math"
    "strconv"
    "strings"
)

// SeatID is the canonical identity of a reserved seat within one event.
// The wire form is "section-row-seat", e.g. "ORCH-A-5".  It is the only
// key used to compare seats across the sold, held and blocked sets, so
// every subsystem must obtain it through CanonicalSeatID rather than
// concatenating fields itself.
type SeatID string

// String returns the canonical key as a plain string.
func (s SeatID) String() string { return string(s) }

// SeatRef is the inbound request shape for a single seat.  Row and seat
// are declared as any because historically callers send them either as
// JSON numbers or as numeric strings; both encodings must resolve to the
// same SeatID.
type SeatRef struct {
    Section any `json:"section"` // section identifier, e.g. "ORCH" or 2
    Row     any `json:"row"`     // row label, e.g. "A" or 12
    Seat    any `json:"seat"`    // seat number within the row
}

// SeatID canonicalizes the reference.
func (r SeatRef) SeatID() SeatID { return CanonicalSeatID(r.Section, r.Row, r.Seat) }

// Empty reports whether the reference carries no usable seat data.
func (r SeatRef) Empty() bool {
    return canonicalPart(r.Section) == "" && canonicalPart(r.Row) == "" && canonicalPart(r.Seat) == ""
}

// CanonicalSeatID derives the canonical seat key from section, row and
// seat number.  Each component may arrive as a string, a JSON number
// (float64), or any integer type; integral values are normalized to
// their plain decimal form so that 5, 5.0, "5" and "05" all collapse to
// "5".  Row labels are upper-cased because the surrounding system treats
// "a" and "A" as the same row.  The function has no failure modes:
// malformed input still yields a deterministic key, and downstream
// matching only depends on the canonicalization being applied
// consistently, never on semantic validity of the input.
func CanonicalSeatID(section, row, seat any) SeatID {
    return SeatID(canonicalPart(section) + "-" + strings.ToUpper(canonicalPart(row)) + "-" + canonicalPart(seat))
}

// canonicalPart normalizes one key component.  Numeric strings and JSON
// numbers converge on the same decimal representation; everything else
// is trimmed and used verbatim.
func canonicalPart(v any) string {
    switch t := v.(type) {
    case nil:
        return ""
    case string:
        s := strings.TrimSpace(t)
        if n, err := strconv.ParseInt(s, 10, 64); err == nil {
            return strconv.FormatInt(n, 10)
        }
        return s
    case float64:
        // JSON numbers decode as float64; keep integral values exact.
        if t == math.Trunc(t) && !math.IsInf(t, 0) {
            return strconv.FormatInt(int64(t), 10)
        }
        return strconv.FormatFloat(t, 'f', -1, 64)
    case float32:
        return canonicalPart(float64(t))
    case int:
        return strconv.FormatInt(int64(t), 10)
    case int64:
        return strconv.FormatInt(t, 10)
    case uint32:
        return strconv.FormatUint(uint64(t), 10)
    case uint64:
        return strconv.FormatUint(t, 10)
    default:
        return strings.TrimSpace(fmt.Sprint(t))
    }
}
