package handler

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seat-inventory/internal/repository"
)

// auditListMax caps the page size an operator can request in one call.
const auditListMax = 500

// AuditHandler exposes the read side of the append-only inventory audit
// trail.  The trail is written by the engine; this handler never
// mutates it.
type AuditHandler struct {
    Log *repository.AuditRepo
}

// NewAuditHandler constructs an AuditHandler; the repo must be non-nil.
func NewAuditHandler(log *repository.AuditRepo) *AuditHandler {
    if log == nil {
        panic("nil AuditRepo passed to NewAuditHandler")
    }
    return &AuditHandler{Log: log}
}

// ListAudit handles GET /v1/events/:id/audit.  Entries come back newest
// first; ?limit= defaults to 100 and is capped at 500.
func (h *AuditHandler) ListAudit(c echo.Context) error {
    eventID, err := parseEventID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    limit := 0
    if raw := c.QueryParam("limit"); raw != "" {
        limit, err = strconv.Atoi(raw)
        if err != nil || limit < 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
        }
    }
    if limit > auditListMax {
        limit = auditListMax
    }
    entries, err := h.Log.ByEvent(c.Request().Context(), eventID, limit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load audit trail"})
    }
    out := make([]echo.Map, 0, len(entries))
    for _, e := range entries {
        out = append(out, echo.Map{
            "id":         e.ID,
            "action":     e.Action,
            "seat_ids":   e.SeatIDs,
            "tier_id":    e.TierID,
            "reason":     e.Reason,
            "actor":      e.Actor,
            "created_at": e.CreatedAt.UTC().Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "event_id": eventID,
        "entries":  out,
    })
}
