package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/pandory-network/RealEconomy/banking"
	"github.com/pandory-network/RealEconomy/broker"
	"github.com/pandory-network/RealEconomy/logging"
	"github.com/pandory-network/RealEconomy/matching"
	"github.com/pandory-network/RealEconomy/storage"
	"github.com/pandory-network/RealEconomy/trading"
)

// Config ties together all other application configuration types.
type Config struct {
	// BaseCurrencyCode names the currency the process's central issuer
	// services.
	BaseCurrencyCode string

	Logging  logging.Config
	Banking  banking.Config
	Matching matching.Config
	Trading  trading.Config
	Broker   broker.Config
	Storage  storage.Config
}

// NewDefaultConfig returns a set of default configs for all packages, as
// specified at the per package config level.
func NewDefaultConfig(defaultStoreDirPath string) Config {
	return Config{
		BaseCurrencyCode: "MAJ",
		Logging:          *logging.NewDefaultConfig(),
		Banking:          banking.NewDefaultConfig(),
		Matching:         matching.NewDefaultConfig(),
		Trading:          trading.NewDefaultConfig(),
		Broker:           broker.NewDefaultConfig(),
		Storage:          storage.NewDefaultConfig(filepath.Join(defaultStoreDirPath, "store")),
	}
}

// Read loads a TOML config file over the defaults.
func Read(path string, defaultStoreDirPath string) (Config, error) {
	cfg := NewDefaultConfig(defaultStoreDirPath)
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(buf, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Write serialises the config as TOML, used to scaffold a fresh config file.
func Write(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
