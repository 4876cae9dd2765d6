// Package api exposes the engine over HTTP for dashboards and operators. The
// server only sees the narrow State interface, so it cannot reach into engine
// internals beyond what it renders.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"kalushael-go/internal/execution"
	"kalushael-go/internal/journal"
	"kalushael-go/internal/paper"
	"kalushael-go/internal/risk"
)

// Status is the top-level health/overview payload.
type Status struct {
	App       string    `json:"app"`
	Mode      string    `json:"mode"`
	Symbols   []string  `json:"symbols"`
	StartedAt time.Time `json:"started_at"`
	UptimeSec float64   `json:"uptime_sec"`
	Equity    float64   `json:"equity"`
	Cash      float64   `json:"cash"`
	Ticks     int64     `json:"ticks"`
	Signals   int64     `json:"signals"`
	Orders    int       `json:"orders"`
	Fills     int       `json:"fills"`
	Halted    bool      `json:"halted"`
}

// ChatReply is the answer to an /execute request.
type ChatReply struct {
	Intent   string   `json:"intent"`
	Score    float64  `json:"score"`
	Reply    string   `json:"reply"`
	Recalled []string `json:"recalled,omitempty"`
}

// State is everything the HTTP layer may ask of the running engine.
type State interface {
	Status() Status
	Account() paper.Snapshot
	RiskState() risk.Snapshot
	RecentFills(limit int) []execution.Fill
	EquityCurve(since time.Time) ([]journal.EquitySnapshot, error)
	PnLBySymbol() ([]journal.SymbolPnL, error)
	SetEmergencyStop(stop bool)
	Execute(text string) (ChatReply, error)
}

// Server wraps echo with the trading routes.
type Server struct {
	echo  *echo.Echo
	state State
	log   zerolog.Logger
}

// NewServer wires the routes against the supplied state.
func NewServer(log zerolog.Logger, state State) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, state: state, log: log}

	e.GET("/health", s.handleHealth)
	e.GET("/api/status", s.handleStatus)
	e.GET("/api/positions", s.handlePositions)
	e.GET("/api/pnl", s.handlePnL)
	e.GET("/api/trades", s.handleTrades)
	e.GET("/api/risk", s.handleRisk)
	e.POST("/api/emergency-stop", s.handleEmergencyStop)
	e.POST("/execute", s.handleExecute)

	return s
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("api listening")
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// Handler exposes the underlying http.Handler, mostly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.state.Status())
}

func (s *Server) handlePositions(c echo.Context) error {
	snap := s.state.Account()
	type position struct {
		Symbol      string  `json:"symbol"`
		Qty         float64 `json:"qty"`
		AvgCost     float64 `json:"avg_cost"`
		MarketValue float64 `json:"market_value"`
		Unrealized  float64 `json:"unrealized"`
	}
	out := make([]position, 0, len(snap.Positions))
	for sym, p := range snap.Positions {
		out = append(out, position{
			Symbol: sym, Qty: p.Qty, AvgCost: p.AvgCost,
			MarketValue: p.MarketValue, Unrealized: p.Unrealized,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"cash":      snap.Cash,
		"equity":    snap.Equity,
		"positions": out,
	})
}

func (s *Server) handlePnL(c echo.Context) error {
	snap := s.state.Account()
	bySymbol, err := s.state.PnLBySymbol()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	since := time.Now().UTC().Add(-24 * time.Hour)
	curve, err := s.state.EquityCurve(since)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"realized_pnl": snap.RealizedPnL,
		"fees_paid":    snap.FeesPaid,
		"equity":       snap.Equity,
		"by_symbol":    bySymbol,
		"equity_curve": curve,
	})
}

func (s *Server) handleTrades(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil || limit <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"fills": s.state.RecentFills(limit)})
}

func (s *Server) handleRisk(c echo.Context) error {
	return c.JSON(http.StatusOK, s.state.RiskState())
}

func (s *Server) handleEmergencyStop(c echo.Context) error {
	var req struct {
		Stop *bool `json:"stop"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json body")
	}
	stop := true
	if req.Stop != nil {
		stop = *req.Stop
	}
	s.state.SetEmergencyStop(stop)
	s.log.Warn().Bool("stop", stop).Msg("emergency stop toggled via api")
	return c.JSON(http.StatusOK, map[string]any{"emergency_stop": stop})
}

func (s *Server) handleExecute(c echo.Context) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "body must be {\"text\": \"...\"}")
	}
	reply, err := s.state.Execute(req.Text)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reply)
}
