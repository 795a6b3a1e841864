package config

import (
	"time"

	"github.com/spf13/viper"
)

type Closer struct {
	// Interval between checks for tenders with an elapsed closing date
	PollerInterval time.Duration

	// Timeout for a single discovery query
	PollerTimeout time.Duration

	// Max number of tenders taken from the database in one check
	PollerMaxBatchSize int

	// Cron schedule (with seconds) for the daily full run
	DailySchedule string

	// Buffer for tender ids travelling from the poller to the processor
	ChannelBufferLength int

	// Upper bound on processing one tender end to end
	ProcessingTimeout time.Duration

	// Batching of ledger anchor writes
	AnchorBatchSize             int
	AnchorInterval              time.Duration
	AnchorBackoffMaxElapsedTime time.Duration
	AnchorBackoffMaxInterval    time.Duration
}

func setCloserDefaults() {
	viper.SetDefault("Closer.PollerInterval", "1m")
	viper.SetDefault("Closer.PollerTimeout", "30s")
	viper.SetDefault("Closer.PollerMaxBatchSize", "50")
	viper.SetDefault("Closer.DailySchedule", "0 0 0 * * *")
	viper.SetDefault("Closer.ChannelBufferLength", "16")
	viper.SetDefault("Closer.ProcessingTimeout", "5m")
	viper.SetDefault("Closer.AnchorBatchSize", "10")
	viper.SetDefault("Closer.AnchorInterval", "10s")
	viper.SetDefault("Closer.AnchorBackoffMaxElapsedTime", "10m")
	viper.SetDefault("Closer.AnchorBackoffMaxInterval", "1m")
}
