package solana

import (
	"errors"
	"os"

	sol "github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"

	"kalushael-go/internal/config"
)

// WalletKeyEnv is the environment variable holding the base58 signing key.
const WalletKeyEnv = "SOLANA_PRIVATE_KEY_BASE58"

// LoadPrivateKeyFromEnv reads the signing key from the environment, applying
// a .env file first so keys never need to live in YAML.
func LoadPrivateKeyFromEnv() (sol.PrivateKey, error) {
	_ = godotenv.Load()
	b58 := os.Getenv(WalletKeyEnv)
	if b58 == "" {
		return nil, errors.New(WalletKeyEnv + " not set")
	}
	return sol.PrivateKeyFromBase58(b58)
}

// LoadPrivateKey prefers an explicitly configured key and falls back to the
// environment.
func LoadPrivateKey(cfg config.Wallet) (sol.PrivateKey, error) {
	if cfg.PrivateKeyBase58 != "" {
		return sol.PrivateKeyFromBase58(cfg.PrivateKeyBase58)
	}
	return LoadPrivateKeyFromEnv()
}
