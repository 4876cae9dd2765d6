package execution

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"kalushael-go/internal/metrics"
)

// Manager routes orders to a venue exactly once per client order ID and keeps
// a bounded history of fills for the API layer.
type Manager struct {
	log   zerolog.Logger
	venue Venue

	mu     sync.Mutex
	orders map[string]*OrderState
	fills  []Fill
	cap    int
}

// NewManager wraps a venue with idempotency tracking.
func NewManager(log zerolog.Logger, venue Venue, fillHistory int) *Manager {
	if fillHistory <= 0 {
		fillHistory = 1024
	}
	return &Manager{
		log:    log,
		venue:  venue,
		orders: make(map[string]*OrderState),
		cap:    fillHistory,
	}
}

// Submit executes an order through the venue. A ClientID that was already
// accepted is rejected with ErrDuplicateOrder and causes no side effects.
func (m *Manager) Submit(ctx context.Context, order Order) ([]Fill, error) {
	if order.ClientID == "" {
		return nil, fmt.Errorf("order missing client id")
	}
	if order.Qty <= 0 {
		return nil, fmt.Errorf("order qty must be positive")
	}

	m.mu.Lock()
	if _, seen := m.orders[order.ClientID]; seen {
		m.mu.Unlock()
		return nil, ErrDuplicateOrder
	}
	state := &OrderState{Order: order, Status: StatusAccepted}
	m.orders[order.ClientID] = state
	m.mu.Unlock()

	metrics.OrdersTotal.WithLabelValues(order.Symbol, string(order.Side)).Inc()
	m.log.Info().Str("id", order.ClientID).Str("sym", order.Symbol).
		Str("side", string(order.Side)).Float64("qty", order.Qty).Float64("px", order.Price).
		Msg("submit order")

	fills, err := m.venue.Execute(ctx, order)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		state.Status = StatusRejected
		state.Err = err.Error()
		return nil, err
	}
	for _, f := range fills {
		state.FilledQty += f.Qty
		state.Fills++
		m.fills = append(m.fills, f)
		metrics.FillsTotal.WithLabelValues(f.Symbol, string(f.Side)).Inc()
	}
	if len(m.fills) > m.cap {
		m.fills = m.fills[len(m.fills)-m.cap:]
	}
	state.Status = StatusFilled
	return fills, nil
}

// Lookup returns the state for a client order ID.
func (m *Manager) Lookup(clientID string) (OrderState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.orders[clientID]
	if !ok {
		return OrderState{}, false
	}
	return *state, true
}

// RecentFills returns up to limit fills, newest last.
func (m *Manager) RecentFills(limit int) []Fill {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.fills) {
		limit = len(m.fills)
	}
	out := make([]Fill, limit)
	copy(out, m.fills[len(m.fills)-limit:])
	return out
}

// Stats reports total orders and fills seen.
func (m *Manager) Stats() (orders, fills int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, s := range m.orders {
		total += s.Fills
	}
	return len(m.orders), total
}
