package storage

import (
	"github.com/pandory-network/RealEconomy/config/encoding"
	"github.com/pandory-network/RealEconomy/logging"
)

const namedLogger = "storage"

// Config contains the configurable items for this package
type Config struct {
	Level encoding.LogLevel
	// Dir is where the badger key-value store keeps its files.
	Dir string
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig(dir string) Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
		Dir:   dir,
	}
}
