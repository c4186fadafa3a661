package broker

import (
	"github.com/pandory-network/RealEconomy/config/encoding"
	"github.com/pandory-network/RealEconomy/logging"
)

const namedLogger = "broker"

// Config contains the configurable items for this package
type Config struct {
	Level encoding.LogLevel
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
