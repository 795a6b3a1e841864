package config

import (
	"time"

	"github.com/spf13/viper"
)

type Oracle struct {
	// Base url of the OpenAI-compatible evaluation service
	Url string

	// Bearer token, may be empty for local deployments
	ApiKey string

	// Model requested for both scoring and contract drafting
	Model string

	// Timeout for a single exchange
	RequestTimeout time.Duration

	// Upper bound on outgoing oracle calls
	RequestsPerSecond int
}

func setOracleDefaults() {
	viper.SetDefault("Oracle.Url", "http://127.0.0.1:11434/v1")
	viper.SetDefault("Oracle.ApiKey", "")
	viper.SetDefault("Oracle.Model", "deepseek-v2:16b")
	viper.SetDefault("Oracle.RequestTimeout", "30s")
	viper.SetDefault("Oracle.RequestsPerSecond", "2")
}
