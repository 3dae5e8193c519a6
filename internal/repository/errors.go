// Package repository defines the data access layer for seat inventory
// state.  This file holds sentinel error values reused across the
// repositories and the inventory engine.  Handlers compare against them
// with errors.Is to choose HTTP status codes: validation failures map to
// 400, business-rule conflicts to 409 and missing records to 404.
package repository

import "errors"

// ErrValidation is returned when a request is rejected before any store
// access, e.g. an empty seat list, a missing reason or a blank session.
// Nothing is written and nothing is logged for these failures.
var ErrValidation = errors.New("validation failed")

// ErrSeatUnavailable is returned when a hold cannot be created because
// the seat is sold, blocked, or actively held by a different session.
// It is also the outcome for the loser of two concurrent hold attempts
// on the same seat.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrHoldNotFound is returned when renewing a hold that is absent or
// already expired.  Expired holds are treated as gone and are never
// renewable.
var ErrHoldNotFound = errors.New("hold not found")

// ErrAllSeatsConflicted is returned when every seat in a block request
// is sold, held or already blocked.  Nothing is written in that case.
var ErrAllSeatsConflicted = errors.New("all seats conflicted")

// ErrNoBlocksFound is returned when an unblock request matches no
// existing block records.
var ErrNoBlocksFound = errors.New("no blocks found")

// ErrTierNotFound is returned when a capacity adjustment names a tier
// that resolves to neither a ticket tier, a pricing tier, nor the
// event's general bucket.
var ErrTierNotFound = errors.New("tier not found")

// ErrInvalidAdjustment is returned for a zero capacity delta.
var ErrInvalidAdjustment = errors.New("invalid adjustment")

// ErrCapacityWouldGoNegative is returned when applying the delta would
// drive a capacity counter below zero.  The counter is left untouched.
var ErrCapacityWouldGoNegative = errors.New("capacity would go negative")

// ErrConflict is returned when a write loses a race it could not have
// observed at classification time, such as a duplicate key surfacing
// while inserting a batch of blocks.  The whole transaction is rolled
// back; callers may retry against a fresh classification.
var ErrConflict = errors.New("conflict")
