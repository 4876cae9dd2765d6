package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "kalushael-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.Feed.Provider != "sim" {
		t.Fatalf("unexpected feed provider: %s", cfg.Feed.Provider)
	}
	if len(cfg.Feed.Symbols) != 1 || cfg.Feed.Symbols[0] != "SOLUSDT" {
		t.Fatalf("expected SOLUSDT symbol, got %+v", cfg.Feed.Symbols)
	}
	if cfg.Feed.Sim.Seed != 7 {
		t.Fatalf("unexpected sim seed: %d", cfg.Feed.Sim.Seed)
	}
	if cfg.Feed.Sim.StartPrice != 150 {
		t.Fatalf("unexpected sim start price: %.2f", cfg.Feed.Sim.StartPrice)
	}
	if cfg.Strategy.Mode != "rsi" {
		t.Fatalf("unexpected strategy mode: %s", cfg.Strategy.Mode)
	}
	if cfg.Strategy.Params.RSIPeriod != 7 {
		t.Fatalf("unexpected rsi period: %d", cfg.Strategy.Params.RSIPeriod)
	}
	if cfg.Strategy.Params.RSIOversold != 25 {
		t.Fatalf("unexpected rsi oversold: %.1f", cfg.Strategy.Params.RSIOversold)
	}
	if cfg.Risk.MaxNotionalPerTrade != 25 {
		t.Fatalf("unexpected max notional: %.2f", cfg.Risk.MaxNotionalPerTrade)
	}
	if cfg.Risk.KillSwitchDrawdown != 0.15 {
		t.Fatalf("unexpected kill switch drawdown: %.2f", cfg.Risk.KillSwitchDrawdown)
	}
	if cfg.Risk.MaxConsecutiveLosses != 3 {
		t.Fatalf("unexpected consecutive loss cap: %d", cfg.Risk.MaxConsecutiveLosses)
	}
	if cfg.Paper.StartingCash != 5000 {
		t.Fatalf("expected starting cash 5000, got %.2f", cfg.Paper.StartingCash)
	}
	if cfg.Paper.SlippageBps != 3 {
		t.Fatalf("expected slippage 3 bps, got %.2f", cfg.Paper.SlippageBps)
	}
	if cfg.Paper.PartialFillProbability != 0.5 {
		t.Fatalf("expected partial fill probability 0.5, got %.2f", cfg.Paper.PartialFillProbability)
	}
	if cfg.Journal.Path != "data/test-journal.db" {
		t.Fatalf("unexpected journal path: %s", cfg.Journal.Path)
	}
	if cfg.Mind.RecallBoost != 0.5 {
		t.Fatalf("unexpected recall boost: %.2f", cfg.Mind.RecallBoost)
	}
	if cfg.API.Addr != ":8088" {
		t.Fatalf("unexpected api addr: %s", cfg.API.Addr)
	}
	if cfg.Dex.Commitment != "processed" {
		t.Fatalf("expected processed commitment, got %s", cfg.Dex.Commitment)
	}
	// Defaults fill leaves the file does not mention.
	if cfg.Strategy.Params.MACDFast != 12 || cfg.Strategy.Params.MACDSlow != 26 {
		t.Fatalf("expected MACD defaults, got %d/%d", cfg.Strategy.Params.MACDFast, cfg.Strategy.Params.MACDSlow)
	}
	if cfg.Journal.EquitySampleSecs != 5 {
		t.Fatalf("unexpected equity sample secs: %d", cfg.Journal.EquitySampleSecs)
	}
	if cfg.Dex.JupiterBase != "https://quote-api.jup.ag" {
		t.Fatalf("expected jupiter base default, got %s", cfg.Dex.JupiterBase)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadRejectsInvalidProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "feed:\n  provider: carrier-pigeon\n  symbols: [\"SOLUSDT\"]\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for unknown provider")
	}
}

func TestLoadRejectsEmptySymbols(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "feed:\n  provider: sim\n  symbols: []\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for empty symbol list")
	}
}
