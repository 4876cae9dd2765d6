// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name" default:"kalushael"`
	Env         string `yaml:"env" default:"dev"`
	MetricsAddr string `yaml:"metrics_addr" default:":9100"`
	LogLevel    string `yaml:"log_level" default:"info"`
}

// Feed selects the market data provider and its tuning knobs.
type Feed struct {
	Provider string   `yaml:"provider" default:"sim" validate:"oneof=sim binance"`
	Symbols  []string `yaml:"symbols" validate:"min=1,dive,required"`
	Sim      Sim      `yaml:"sim"`
}

// Sim parameterizes the seeded random-walk feed used offline and in tests.
type Sim struct {
	Seed         int64   `yaml:"seed" default:"42"`
	IntervalMs   int     `yaml:"interval_ms" default:"250" validate:"gt=0"`
	StartPrice   float64 `yaml:"start_price" default:"100" validate:"gt=0"`
	DriftPerTick float64 `yaml:"drift_per_tick" default:"0"`
	Volatility   float64 `yaml:"volatility" default:"0.002" validate:"gte=0"`
}

// Risk encodes guard-rails for how much size the engine may take on.
type Risk struct {
	MaxNotionalPerTrade  float64 `yaml:"max_notional_per_trade" default:"50" validate:"gt=0"`
	MaxPortfolioNotional float64 `yaml:"max_portfolio_notional" default:"500" validate:"gt=0"`
	MaxDailyLoss         float64 `yaml:"max_daily_loss" default:"100" validate:"gt=0"`
	KillSwitchDrawdown   float64 `yaml:"kill_switch_drawdown" default:"0.2" validate:"gt=0,lte=1"`
	MaxConsecutiveLosses int     `yaml:"max_consecutive_losses" default:"5" validate:"gte=0"`
	CooldownSecs         int     `yaml:"cooldown_secs" default:"300" validate:"gte=0"`
}

// StrategyParams groups tunable knobs shared by the strategy implementations.
type StrategyParams struct {
	MomentumThreshold    float64 `yaml:"momentum_threshold" default:"0.02"`
	MomentumWindowSecs   int     `yaml:"momentum_window_secs" default:"120"`
	MomentumMinVolumeUSD float64 `yaml:"momentum_min_volume_usd" default:"0"`
	CandleIntervalSecs   int     `yaml:"candle_interval_secs" default:"60" validate:"gt=0"`
	RSIPeriod            int     `yaml:"rsi_period" default:"14" validate:"gt=1"`
	RSIOversold          float64 `yaml:"rsi_oversold" default:"30"`
	RSIOverbought        float64 `yaml:"rsi_overbought" default:"70"`
	MACDFast             int     `yaml:"macd_fast" default:"12" validate:"gt=0"`
	MACDSlow             int     `yaml:"macd_slow" default:"26" validate:"gt=0"`
	MACDSignal           int     `yaml:"macd_signal" default:"9" validate:"gt=0"`
}

// Strategy specifies which strategy is active along with the parameter bundle.
type Strategy struct {
	Mode   string         `yaml:"mode" default:"momentum"`
	Params StrategyParams `yaml:"params"`
}

// Paper captures paper-trading account settings such as starting cash, per-symbol caps, and execution tuning.
type Paper struct {
	StartingCash           float64 `yaml:"starting_cash" default:"1000" validate:"gt=0"`
	MaxPositionPerSymbol   float64 `yaml:"max_position_per_symbol" default:"0" validate:"gte=0"`
	MaxPositionNotionalUSD float64 `yaml:"max_position_notional_usd" default:"0" validate:"gte=0"`
	SlippageBps            float64 `yaml:"slippage_bps" default:"5" validate:"gte=0"`
	FeeBps                 float64 `yaml:"fee_bps" default:"10" validate:"gte=0"`
	MaxLatencyMs           int     `yaml:"max_latency_ms" default:"0" validate:"gte=0"`
	PartialFillProbability float64 `yaml:"partial_fill_probability" default:"0" validate:"gte=0,lte=1"`
	MaxPartialFills        int     `yaml:"max_partial_fills" default:"3" validate:"gte=1"`
	FillsPath              string  `yaml:"fills_path"`
}

// Journal points the engine at its SQLite audit log.
type Journal struct {
	Path             string `yaml:"path" default:"data/journal.db"`
	EquitySampleSecs int    `yaml:"equity_sample_secs" default:"10" validate:"gt=0"`
}

// Mind configures the spark classifier and the memory store backing the console.
type Mind struct {
	CorpusPath     string  `yaml:"corpus_path" default:"data/corpus.jsonl"`
	MemoryPath     string  `yaml:"memory_path" default:"data/memory.db"`
	ResonanceFloor float64 `yaml:"resonance_floor" default:"0.05" validate:"gte=0"`
	RecallBoost    float64 `yaml:"recall_boost" default:"0.25" validate:"gte=0"`
}

// API configures the HTTP surface for health checks and the dashboard.
type API struct {
	Addr string `yaml:"addr" default:":8080"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Feed     Feed     `yaml:"feed"`
	Strategy Strategy `yaml:"strategy"`
	Risk     Risk     `yaml:"risk"`
	Paper    Paper    `yaml:"paper"`
	Journal  Journal  `yaml:"journal"`
	Mind     Mind     `yaml:"mind"`
	API      API      `yaml:"api"`
	Dex      Dex      `yaml:"dex"`
	Wallet   Wallet   `yaml:"wallet"`
}

var validate = validator.New()

// Load reads a YAML file from disk and hydrates a validated Config struct.
// A .env file next to the process is applied best-effort before parsing so
// that ${VAR}-free secrets (wallet keys, RPC URLs) can stay out of the YAML.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := defaults.Set(&config); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
