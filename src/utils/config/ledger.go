package config

import (
	"time"

	"github.com/spf13/viper"
)

type Ledger struct {
	// JSON-RPC endpoint of the node, empty disables anchoring
	RpcUrl string

	// Address of the procurement anchor contract
	ContractAddress string

	// Hex encoded private key used to sign anchor transactions
	PrivateKey string

	ChainId int64

	// Timeout for read calls
	CallTimeout time.Duration

	// Max time to wait for a transaction receipt
	ConfirmationTimeout time.Duration

	// How long fetched tender records stay cached for verification
	CacheTTL time.Duration
}

func setLedgerDefaults() {
	viper.SetDefault("Ledger.RpcUrl", "http://127.0.0.1:8545")
	viper.SetDefault("Ledger.ContractAddress", "")
	viper.SetDefault("Ledger.PrivateKey", "")
	viper.SetDefault("Ledger.ChainId", "1337")
	viper.SetDefault("Ledger.CallTimeout", "15s")
	viper.SetDefault("Ledger.ConfirmationTimeout", "60s")
	viper.SetDefault("Ledger.CacheTTL", "5m")
}
