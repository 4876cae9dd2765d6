// Package solana executes real token swaps through the Jupiter aggregator.
// It is deliberately isolated from the paper engine: nothing here runs unless
// an operator invokes the dex command explicitly.
package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	bin "github.com/gagliardetto/binary"
	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"kalushael-go/internal/config"
)

// Quote mirrors the fields of a Jupiter v6 quote response that we act on.
type Quote struct {
	InputMint      string  `json:"inputMint"`
	OutputMint     string  `json:"outputMint"`
	InAmount       string  `json:"inAmount"`
	OutAmount      string  `json:"outAmount"`
	OtherAmount    string  `json:"otherAmountThreshold"`
	SlippageBps    int     `json:"slippageBps"`
	RoutePlan      any     `json:"routePlan"`
	PriceImpactPct float64 `json:"priceImpactPct"`
}

// OutAmountUint parses the quoted output amount (smallest units).
func (q *Quote) OutAmountUint() (uint64, error) {
	return strconv.ParseUint(q.OutAmount, 10, 64)
}

// Client quotes and swaps via Jupiter, signing locally and submitting through
// the configured RPC node.
type Client struct {
	base   string
	rpc    *rpc.Client
	owner  sol.PrivateKey
	commit rpc.CommitmentType
	http   *http.Client
	log    zerolog.Logger

	// MaxPriceImpactPct rejects swaps whose quote moves the pool more than
	// this percentage. Zero disables the guard.
	MaxPriceImpactPct float64
}

// NewClient builds a client from the dex config section and a signing key.
func NewClient(cfg config.Dex, owner sol.PrivateKey, log zerolog.Logger) *Client {
	commit := rpc.CommitmentConfirmed
	switch cfg.Commitment {
	case "processed":
		commit = rpc.CommitmentProcessed
	case "finalized":
		commit = rpc.CommitmentFinalized
	}
	return &Client{
		base:   cfg.JupiterBase,
		rpc:    rpc.New(cfg.RpcURL),
		owner:  owner,
		commit: commit,
		http:   &http.Client{Timeout: 8 * time.Second},
		log:    log,
	}
}

// Commitment exposes the resolved commitment level.
func (c *Client) Commitment() rpc.CommitmentType { return c.commit }

// SetHTTPClient overrides the HTTP client and base URL, used by tests.
func (c *Client) SetHTTPClient(client *http.Client, base string) {
	c.http = client
	c.base = base
}

// GetQuote asks Jupiter for the best route. amount is in the input token's
// smallest units (lamports for SOL).
func (c *Client) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*Quote, error) {
	if amount == 0 {
		return nil, fmt.Errorf("swap amount must be positive")
	}
	q := url.Values{}
	q.Set("inputMint", inputMint)
	q.Set("outputMint", outputMint)
	q.Set("amount", strconv.FormatUint(amount, 10))
	q.Set("slippageBps", strconv.Itoa(slippageBps))
	q.Set("onlyDirectRoutes", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/v6/quote?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jupiter quote: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter quote status %d", resp.StatusCode)
	}
	var out Quote
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	c.log.Debug().Str("in", out.InAmount).Str("out", out.OutAmount).
		Float64("impact_pct", out.PriceImpactPct).Msg("jupiter quote")
	return &out, nil
}

// Swap asks Jupiter to build the transaction for a quote, signs it with the
// owner key, and submits it. The price-impact guard runs before anything is
// signed.
func (c *Client) Swap(ctx context.Context, quote *Quote) (sol.Signature, error) {
	var sig sol.Signature
	if quote == nil {
		return sig, fmt.Errorf("nil quote")
	}
	if c.MaxPriceImpactPct > 0 && quote.PriceImpactPct > c.MaxPriceImpactPct {
		return sig, fmt.Errorf("price impact %.4f%% exceeds limit %.4f%%", quote.PriceImpactPct, c.MaxPriceImpactPct)
	}

	payload := map[string]any{
		"userPublicKey":             c.owner.PublicKey().String(),
		"wrapAndUnwrapSol":          true,
		"asLegacyTransaction":       false,
		"useTokenLedger":            false,
		"prioritizationFeeLamports": 0,
		"quoteResponse":             quote,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return sig, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v6/swap", bytes.NewReader(body))
	if err != nil {
		return sig, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return sig, fmt.Errorf("jupiter swap: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return sig, fmt.Errorf("jupiter swap status %d", resp.StatusCode)
	}
	var sr struct {
		SwapTransaction string `json:"swapTransaction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return sig, fmt.Errorf("decode swap response: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(sr.SwapTransaction)
	if err != nil {
		return sig, fmt.Errorf("decode tx: %w", err)
	}
	tx, err := sol.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return sig, fmt.Errorf("unmarshal tx: %w", err)
	}

	if _, err = tx.Sign(func(key sol.PublicKey) *sol.PrivateKey {
		if key.Equals(c.owner.PublicKey()) {
			return &c.owner
		}
		return nil
	}); err != nil {
		return sig, fmt.Errorf("sign tx: %w", err)
	}

	sig, err = c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: c.commit,
	})
	if err != nil {
		return sig, fmt.Errorf("send tx: %w", err)
	}
	c.log.Info().Str("sig", sig.String()).Msg("swap submitted")
	return sig, nil
}
