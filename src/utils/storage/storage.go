package storage

import (
	"fmt"

	"github.com/tendeko/closer/src/utils/config"
)

// Storage persists generated contract files and returns their location.
type Storage interface {
	Put(key string, data []byte) (url string, err error)
}

func NewFromConfig(config *config.Config) (self Storage, err error) {
	switch config.Storage.Backend {
	case "local":
		return NewLocal(config.Storage.LocalDir), nil
	case "noop":
		return NewNoop(), nil
	default:
		err = fmt.Errorf("unknown storage backend: %s", config.Storage.Backend)
		return
	}
}
