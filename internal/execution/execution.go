// Package execution handles order lifecycle and interaction with venues.
package execution

import (
	"context"
	"errors"
	"time"
)

// Side enumerates order directions used by the executor.
type Side string

const (
	// Buy indicates a long order.
	Buy Side = "BUY"
	// Sell indicates a short order.
	Sell Side = "SELL"
)

// ErrDuplicateOrder is returned when a client order ID is submitted twice.
var ErrDuplicateOrder = errors.New("duplicate client order id")

// Order represents a placement request the manager can process. ClientID is
// the idempotency key: callers mint it once per intent and may safely retry
// the same order.
type Order struct {
	ClientID string
	Symbol   string
	Side     Side
	Qty      float64
	Price    float64 // mark price the fill model prices against
	Ts       time.Time
}

// Fill is a (possibly partial) execution of an order.
type Fill struct {
	OrderID string    `json:"order_id"`
	Symbol  string    `json:"symbol"`
	Side    Side      `json:"side"`
	Qty     float64   `json:"qty"`
	Price   float64   `json:"price"`
	Fee     float64   `json:"fee"`
	Partial bool      `json:"partial,omitempty"`
	Ts      time.Time `json:"ts"`
}

// Status tracks where an order sits in its lifecycle.
type Status string

const (
	StatusAccepted Status = "ACCEPTED"
	StatusFilled   Status = "FILLED"
	StatusRejected Status = "REJECTED"
)

// OrderState is the manager's record of a submitted order.
type OrderState struct {
	Order     Order
	Status    Status
	FilledQty float64
	Fills     int
	Err       string
}

// Venue executes orders; the paper venue models fills locally, a live venue
// would talk to an exchange.
type Venue interface {
	Execute(ctx context.Context, o Order) ([]Fill, error)
}
