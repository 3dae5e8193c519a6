package model

// Order statuses that commit a seat.  A seat referenced by an order in
// any of these statuses counts as sold; the order store itself is owned
// by an external order-processing collaborator and is strictly
// read-only for this subsystem.
const (
    OrderStatusCompleted = "completed"
    OrderStatusConfirmed = "confirmed"
    OrderStatusPending   = "pending"
)

// SoldSeatStatuses lists the order statuses scanned by the sold-seat
// index, in the order they appear in SQL IN clauses.
var SoldSeatStatuses = []string{OrderStatusCompleted, OrderStatusConfirmed, OrderStatusPending}
