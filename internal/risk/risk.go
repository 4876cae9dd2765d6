// Package risk enforces the guard-rails between strategy signals and order flow.
package risk

import (
	"fmt"
	"sync"
	"time"
)

// Limits encodes the configured guard-rails.
type Limits struct {
	MaxNotionalPerTrade  float64
	MaxPortfolioNotional float64
	MaxDailyLoss         float64
	KillSwitchDrawdown   float64 // fraction of starting equity, e.g. 0.2
	MaxConsecutiveLosses int
	Cooldown             time.Duration
}

// Intent describes an order the engine would like to place.
type Intent struct {
	Symbol   string
	Side     string
	Qty      float64
	Price    float64
	Notional float64
}

// AccountState is the slice of account data the checks need.
type AccountState struct {
	Equity            float64
	PortfolioNotional float64
}

// Violation is a single coded reason an intent was rejected.
type Violation struct {
	Code string
	Msg  string
}

// Decision reports whether an intent may proceed and why not.
type Decision struct {
	Allowed    bool
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Codes returns the violation codes in order, mostly for metrics labels.
func (d Decision) Codes() []string {
	out := make([]string, len(d.Violations))
	for i, v := range d.Violations {
		out[i] = v.Code
	}
	return out
}

// Snapshot is a read-only view of the manager state for the API layer.
type Snapshot struct {
	EmergencyStop      bool
	KillSwitchTripped  bool
	DailyPnL           float64
	DailyLossLimit     float64
	ConsecutiveLosses  int
	MaxConsecutiveLoss int
	InCooldown         bool
	CooldownRemaining  time.Duration
}

// Manager tracks rolling loss state and evaluates intents against Limits.
type Manager struct {
	limits Limits

	mu                sync.Mutex
	startingEquity    float64
	dailyPnL          float64
	day               time.Time // UTC midnight of the day dailyPnL covers
	consecutiveLosses int
	cooldownUntil     time.Time
	emergencyStop     bool
	killed            bool
	now               func() time.Time
}

// NewManager builds a manager with loss counters anchored at startingEquity.
func NewManager(limits Limits, startingEquity float64) *Manager {
	m := &Manager{
		limits:         limits,
		startingEquity: startingEquity,
		now:            time.Now,
	}
	m.day = utcMidnight(m.now())
	return m
}

// Check evaluates an intent and accumulates every violated limit, so a
// rejection names all of its reasons rather than the first one hit.
func (m *Manager) Check(intent Intent, acct AccountState) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := Decision{Allowed: true}
	now := m.now()
	m.rollDayLocked(now)

	if intent.Notional <= 0 {
		d.add("BAD_INTENT", "intent notional must be positive")
		return d
	}
	if m.emergencyStop {
		d.add("EMERGENCY_STOP", "emergency stop is set")
	}
	if m.killed {
		d.add("KILL_SWITCH", fmt.Sprintf("drawdown exceeded %.0f%% of starting equity", m.limits.KillSwitchDrawdown*100))
	}
	if now.Before(m.cooldownUntil) {
		d.add("COOLDOWN_ACTIVE", fmt.Sprintf("loss cooldown active for %s", m.cooldownUntil.Sub(now).Round(time.Second)))
	}
	if m.limits.MaxNotionalPerTrade > 0 && intent.Notional > m.limits.MaxNotionalPerTrade {
		d.add("NOTIONAL_TOO_LARGE", fmt.Sprintf("notional %.2f exceeds per-trade cap %.2f", intent.Notional, m.limits.MaxNotionalPerTrade))
	}
	if m.limits.MaxPortfolioNotional > 0 && acct.PortfolioNotional+intent.Notional > m.limits.MaxPortfolioNotional {
		d.add("PORTFOLIO_CAP", fmt.Sprintf("portfolio notional %.2f + %.2f exceeds cap %.2f",
			acct.PortfolioNotional, intent.Notional, m.limits.MaxPortfolioNotional))
	}
	if m.limits.MaxDailyLoss > 0 && m.dailyPnL <= -m.limits.MaxDailyLoss {
		d.add("DAILY_LOSS_LIMIT", fmt.Sprintf("daily realized %.2f breaches limit -%.2f", m.dailyPnL, m.limits.MaxDailyLoss))
	}
	return d
}

// RecordRealized feeds closed-trade P&L into the daily counter and the
// consecutive-loss cooldown tracker.
func (m *Manager) RecordRealized(pnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.rollDayLocked(now)
	m.dailyPnL += pnl

	if pnl < 0 {
		m.consecutiveLosses++
		if m.limits.MaxConsecutiveLosses > 0 && m.consecutiveLosses >= m.limits.MaxConsecutiveLosses && m.limits.Cooldown > 0 {
			m.cooldownUntil = now.Add(m.limits.Cooldown)
			m.consecutiveLosses = 0
		}
	} else if pnl > 0 {
		m.consecutiveLosses = 0
	}
}

// UpdateEquity trips the kill switch once drawdown from starting equity
// reaches the configured fraction. The trip is sticky until Reset.
func (m *Manager) UpdateEquity(equity float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.killed || m.limits.KillSwitchDrawdown <= 0 || m.startingEquity <= 0 {
		return
	}
	drawdown := (m.startingEquity - equity) / m.startingEquity
	if drawdown >= m.limits.KillSwitchDrawdown {
		m.killed = true
	}
}

// SetEmergencyStop toggles the operator stop switch.
func (m *Manager) SetEmergencyStop(stop bool) {
	m.mu.Lock()
	m.emergencyStop = stop
	m.mu.Unlock()
}

// Reset clears the kill switch and cooldown after operator review.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.killed = false
	m.cooldownUntil = time.Time{}
	m.consecutiveLosses = 0
	m.mu.Unlock()
}

// Snapshot returns the current guard-rail state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	remaining := time.Duration(0)
	if now.Before(m.cooldownUntil) {
		remaining = m.cooldownUntil.Sub(now)
	}
	return Snapshot{
		EmergencyStop:      m.emergencyStop,
		KillSwitchTripped:  m.killed,
		DailyPnL:           m.dailyPnL,
		DailyLossLimit:     m.limits.MaxDailyLoss,
		ConsecutiveLosses:  m.consecutiveLosses,
		MaxConsecutiveLoss: m.limits.MaxConsecutiveLosses,
		InCooldown:         remaining > 0,
		CooldownRemaining:  remaining,
	}
}

func (m *Manager) rollDayLocked(now time.Time) {
	midnight := utcMidnight(now)
	if midnight.After(m.day) {
		m.day = midnight
		m.dailyPnL = 0
	}
}

func utcMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
