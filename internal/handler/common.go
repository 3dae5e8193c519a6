package handler // handler defines the HTTP surface of the inventory service

import (
    "errors"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seat-inventory/internal/model"
)

// getActor extracts the actor identity placed in the context by the
// JWT middleware.  This subsystem performs no authentication of its
// own; the actor is an opaque string supplied by the calling layer and
// is threaded through every mutating call for the audit trail.
func getActor(c echo.Context) (string, error) {
    v := c.Get("actor")
    if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
        return s, nil
    }
    return "", errors.New("missing actor in context")
}

// parseEventID parses the :id path parameter.  Zero and malformed
// values are rejected.
func parseEventID(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid event id")
    }
    return id, nil
}

// canonicalizeSeats converts inbound seat references into canonical
// seat keys, skipping entirely empty entries.  Deduplication is the
// engine's concern; this helper only normalizes.
func canonicalizeSeats(refs []model.SeatRef) []model.SeatID {
    ids := make([]model.SeatID, 0, len(refs))
    for _, r := range refs {
        if r.Empty() {
            continue
        }
        ids = append(ids, r.SeatID())
    }
    return ids
}
