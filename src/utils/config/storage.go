package config

import (
	"github.com/spf13/viper"
)

type Storage struct {
	// Backend picked at startup: local | noop
	Backend string

	// Directory for contract document copies when the local backend is used
	LocalDir string
}

func setStorageDefaults() {
	viper.SetDefault("Storage.Backend", "local")
	viper.SetDefault("Storage.LocalDir", "./contracts")
}
