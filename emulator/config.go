package emulator

import (
	"errors"
	"fmt"

	"github.com/zanppa/ballast-emulator/logger"
	"github.com/zanppa/ballast-emulator/ushio"
)

// DefaultBaudRate is the Ushio protocol bit rate.
const DefaultBaudRate = 2400

// Config holds all configuration for a Device.
type Config struct {
	// Physical lines. rx and tx are mandatory; the others default to
	// StaticLine(true), the level an unwired pin reads through its pull-up.
	rx   InputLine
	tx   OutputLine
	sync InputLine
	id0  InputLine
	id1  InputLine

	// mode overrides boot-time ID-line decoding when modeSet is true.
	mode    Mode
	modeSet bool

	baudRate int

	// ticks overrides the default TimerTicker; mainly for tests.
	ticks TickSource

	// echo mirrors the receive line straight onto the transmit line in
	// ushio mode, the DEBUG_ECHO behavior of the original firmware.
	echo bool

	engineOpts []ushio.EngineOption
	logger     logger.Logger
}

// NewConfig creates a device configuration for the given receive input and
// transmit output. opts are functional options applied in order; see With*
// functions.
func NewConfig(rx InputLine, tx OutputLine, opts ...Option) (*Config, error) {
	if rx == nil {
		return nil, fmt.Errorf("%w: receive line", ErrNilLine)
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: transmit line", ErrNilLine)
	}

	cfg := &Config{
		rx:       rx,
		tx:       tx,
		sync:     StaticLine(true),
		id0:      StaticLine(true),
		id1:      StaticLine(true),
		baudRate: DefaultBaudRate,
		logger:   logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// BaudRate returns the configured bit rate.
func (cfg *Config) BaudRate() int { return cfg.baudRate }

// Echo returns whether receive-to-transmit echo is enabled.
func (cfg *Config) Echo() bool { return cfg.echo }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithSyncLine sets the sync input consumed by flag mode.
func WithSyncLine(l InputLine) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return fmt.Errorf("%w: sync line", ErrNilLine)
		}
		cfg.sync = l

		return nil
	})
}

// WithIDLines sets the two mode-selection inputs read once at boot.
func WithIDLines(id0, id1 InputLine) Option {
	return optFunc(func(cfg *Config) error {
		if id0 == nil || id1 == nil {
			return fmt.Errorf("%w: id line", ErrNilLine)
		}
		cfg.id0 = id0
		cfg.id1 = id1

		return nil
	})
}

// WithMode forces the operating mode instead of decoding the ID lines.
func WithMode(m Mode) Option {
	return optFunc(func(cfg *Config) error {
		if m > ModeUshio {
			return fmt.Errorf("%w: %d", ErrInvalidMode, m)
		}
		cfg.mode = m
		cfg.modeSet = true

		return nil
	})
}

// WithBaudRate sets the bit rate the tick interval is derived from.
func WithBaudRate(baud int) Option {
	return optFunc(func(cfg *Config) error {
		if baud <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidBaudRate, baud)
		}
		cfg.baudRate = baud

		return nil
	})
}

// WithTickSource replaces the default timer tick source.
func WithTickSource(ts TickSource) Option {
	return optFunc(func(cfg *Config) error {
		if ts == nil {
			return errors.New("emulator: tick source must not be nil")
		}
		cfg.ticks = ts

		return nil
	})
}

// WithEcho enables mirroring the receive line onto the transmit line in
// ushio mode, matching the DEBUG_ECHO build of the original firmware.
// The protocol engine keeps decoding; only the driven level changes.
func WithEcho(enabled bool) Option {
	return optFunc(func(cfg *Config) error {
		cfg.echo = enabled

		return nil
	})
}

// WithEngineOptions forwards options to the ushio engine built for the
// device.
func WithEngineOptions(opts ...ushio.EngineOption) Option {
	return optFunc(func(cfg *Config) error {
		cfg.engineOpts = append(cfg.engineOpts, opts...)

		return nil
	})
}

// WithLogger sets the logger for the device.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("emulator: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
