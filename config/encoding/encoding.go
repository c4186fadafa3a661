package encoding

import (
	"time"

	"github.com/pandory-network/RealEconomy/logging"
)

// Duration is a wrapper over an actual duration so we can represent
// them as string in the toml configuration
type Duration struct {
	time.Duration
}

// Get returns the stored duration
func (d *Duration) Get() time.Duration {
	return d.Duration
}

// UnmarshalText unmarshal a duration from bytes
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText marshal a duration into bytes
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LogLevel is a wrapper over the actual log level
// so they can be specified as strings in the toml configuration
type LogLevel struct {
	logging.Level
}

// Get returns the stored value
func (l *LogLevel) Get() logging.Level {
	return l.Level
}

// UnmarshalText unmarshal a log level from bytes
func (l *LogLevel) UnmarshalText(text []byte) error {
	switch string(text) {
	case "debug":
		l.Level = logging.DebugLevel
	case "info":
		l.Level = logging.InfoLevel
	case "warn", "warning":
		l.Level = logging.WarnLevel
	case "error":
		l.Level = logging.ErrorLevel
	case "panic":
		l.Level = logging.PanicLevel
	case "fatal":
		l.Level = logging.FatalLevel
	default:
		l.Level = logging.InfoLevel
	}
	return nil
}

// MarshalText marshal a log level into bytes
func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
