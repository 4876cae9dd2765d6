package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"kalushael-go/internal/config"
)

func testClient(commitment string) *Client {
	wallet := sol.NewWallet()
	return NewClient(config.Dex{
		RpcURL:      "https://rpc.invalid",
		JupiterBase: "https://jup.invalid",
		Commitment:  commitment,
	}, wallet.PrivateKey, zerolog.Nop())
}

func TestCommitmentMapping(t *testing.T) {
	cases := map[string]rpc.CommitmentType{
		"processed": rpc.CommitmentProcessed,
		"finalized": rpc.CommitmentFinalized,
		"":          rpc.CommitmentConfirmed,
		"bogus":     rpc.CommitmentConfirmed,
	}
	for in, want := range cases {
		if got := testClient(in).Commitment(); got != want {
			t.Fatalf("commitment %q = %v, want %v", in, got, want)
		}
	}
}

func TestGetQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v6/quote" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("inputMint") != "AAA" || q.Get("outputMint") != "BBB" {
			t.Fatalf("missing mint params: %v", q)
		}
		if q.Get("amount") != "1000" || q.Get("slippageBps") != "50" {
			t.Fatalf("wrong amount/slippage: %v", q)
		}
		_ = json.NewEncoder(w).Encode(Quote{
			InputMint: "AAA", OutputMint: "BBB",
			InAmount: "1000", OutAmount: "2000", SlippageBps: 50,
		})
	}))
	defer server.Close()

	c := testClient("processed")
	c.SetHTTPClient(server.Client(), server.URL)

	quote, err := c.GetQuote(context.Background(), "AAA", "BBB", 1000, 50)
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	out, err := quote.OutAmountUint()
	if err != nil || out != 2000 {
		t.Fatalf("OutAmountUint = %d, %v", out, err)
	}
}

func TestGetQuoteRejectsZeroAmount(t *testing.T) {
	if _, err := testClient("").GetQuote(context.Background(), "AAA", "BBB", 0, 50); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestGetQuoteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := testClient("")
	c.SetHTTPClient(server.Client(), server.URL)
	if _, err := c.GetQuote(context.Background(), "AAA", "BBB", 1, 50); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestSwapPriceImpactGuard(t *testing.T) {
	c := testClient("")
	c.MaxPriceImpactPct = 1.0

	_, err := c.Swap(context.Background(), &Quote{PriceImpactPct: 2.5})
	if err == nil {
		t.Fatal("expected price impact rejection")
	}

	if _, err := c.Swap(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil quote")
	}
}
