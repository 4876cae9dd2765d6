// Package config also contains DEX-specific configuration surfaces.
package config

// Dex defines network endpoints and defaults for on-chain quotes and swaps.
type Dex struct {
	Chain       string `yaml:"chain" default:"solana"`
	RpcURL      string `yaml:"rpc_url" default:"https://api.mainnet-beta.solana.com"`
	Commitment  string `yaml:"commitment" default:"confirmed"` // processed|confirmed|finalized
	JupiterBase string `yaml:"jupiter_base" default:"https://quote-api.jup.ag"`
}

// Wallet stores env-backed signing material metadata.
type Wallet struct {
	PrivateKeyBase58 string `yaml:"private_key_base58"`
}
