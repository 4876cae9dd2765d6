package paper

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"kalushael-go/internal/execution"
)

// VenueParams tunes how realistically the paper venue degrades an order:
// slippage against the mark, taker fees, simulated submission latency, and
// partial fills.
type VenueParams struct {
	SlippageBps            float64
	FeeBps                 float64
	MaxLatency             time.Duration
	PartialFillProbability float64
	MaxPartialFills        int
	Seed                   int64
}

// Venue prices fills off the order's mark price and applies them to a paper
// account. It implements execution.Venue.
type Venue struct {
	account  *Account
	params   VenueParams
	recorder FillRecorder

	mu  sync.Mutex
	rng *rand.Rand
}

// NewVenue wraps an account with a fill model. recorder may be nil.
func NewVenue(account *Account, params VenueParams, recorder FillRecorder) *Venue {
	if params.MaxPartialFills < 1 {
		params.MaxPartialFills = 1
	}
	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Venue{
		account:  account,
		params:   params,
		recorder: recorder,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Execute fills the order against the account. Slippage always moves the
// price against the taker. An order either fully fills (possibly across
// several partial fills) or fails before any balance change.
func (v *Venue) Execute(ctx context.Context, o execution.Order) ([]execution.Fill, error) {
	if err := v.waitLatency(ctx); err != nil {
		return nil, err
	}

	price := o.Price * (1 + v.params.SlippageBps/10_000)
	if o.Side == execution.Sell {
		price = o.Price * (1 - v.params.SlippageBps/10_000)
	}

	chunks := v.chunks()
	qtys := splitQty(o.Qty, chunks)

	// Validate the whole order against current balances before applying any
	// chunk, so partial fills cannot leave a half-applied order behind.
	totalFee := 0.0
	for _, q := range qtys {
		totalFee += q * price * v.params.FeeBps / 10_000
	}
	if err := v.precheck(o, price, totalFee); err != nil {
		return nil, err
	}

	fills := make([]execution.Fill, 0, len(qtys))
	for i, q := range qtys {
		fee := q * price * v.params.FeeBps / 10_000
		if err := v.account.ApplyFill(o.Symbol, o.Side, q, price, fee); err != nil {
			return nil, err
		}
		fill := execution.Fill{
			OrderID: o.ClientID,
			Symbol:  o.Symbol,
			Side:    o.Side,
			Qty:     q,
			Price:   price,
			Fee:     fee,
			Partial: len(qtys) > 1 && i < len(qtys)-1,
			Ts:      time.Now(),
		}
		if v.recorder != nil {
			v.recorder.Record(fill)
		}
		fills = append(fills, fill)
	}
	return fills, nil
}

func (v *Venue) precheck(o execution.Order, price, totalFee float64) error {
	switch o.Side {
	case execution.Buy:
		if o.Qty*price+totalFee > v.account.AvailableCash()+epsilon {
			return errInsufficientCash
		}
	case execution.Sell:
		if v.account.Position(o.Symbol)+epsilon < o.Qty {
			return errInsufficientPosition
		}
	}
	return nil
}

func (v *Venue) waitLatency(ctx context.Context) error {
	if v.params.MaxLatency <= 0 {
		return nil
	}
	v.mu.Lock()
	d := time.Duration(v.rng.Int63n(int64(v.params.MaxLatency)) + 1)
	v.mu.Unlock()
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (v *Venue) chunks() int {
	if v.params.PartialFillProbability <= 0 || v.params.MaxPartialFills <= 1 {
		return 1
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.rng.Float64() >= v.params.PartialFillProbability {
		return 1
	}
	return 2 + v.rng.Intn(v.params.MaxPartialFills-1)
}

func splitQty(qty float64, chunks int) []float64 {
	if chunks <= 1 {
		return []float64{qty}
	}
	out := make([]float64, chunks)
	each := qty / float64(chunks)
	rem := qty
	for i := 0; i < chunks-1; i++ {
		out[i] = each
		rem -= each
	}
	out[chunks-1] = rem // absorbs float residue so chunks always sum to qty
	return out
}
