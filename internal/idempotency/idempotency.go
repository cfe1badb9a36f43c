// Package idempotency tracks Idempotency-Key reservations for checkout so a
// retried request neither creates a second order nor races the first one.
package idempotency

import (
	"context"
	"net/http"
	"strings"
)

const Header = "Idempotency-Key"

// MaxKeyLength bounds client supplied keys.
const MaxKeyLength = 255

// Key returns the trimmed Idempotency-Key header, empty when absent.
func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}

type Status int

const (
	// StatusNew means the caller now owns the key and must Complete or Release it.
	StatusNew Status = iota
	// StatusInFlight means another request holds the key.
	StatusInFlight
	// StatusCompleted means the key already produced OrderID.
	StatusCompleted
)

type Reservation struct {
	Status  Status
	OrderID uint
}

// Store reserves keys per scope (the user) for the lifetime of a request.
type Store interface {
	Reserve(ctx context.Context, scope, key string) (Reservation, error)
	Complete(ctx context.Context, scope, key string, orderID uint) error
	Release(ctx context.Context, scope, key string) error
}
