package emulator

import (
	"context"
	"sync/atomic"

	"github.com/zanppa/ballast-emulator/logger"
	"github.com/zanppa/ballast-emulator/ushio"
)

// Device models one emulator board: the protocol engine, its lines and the
// operating mode committed to at boot.
//
// A Device runs exactly one mode loop for its lifetime; there is no mode
// switching after construction, matching the original firmware which reads
// the ID pins once and commits forever.
type Device struct {
	cfg     *Config
	logger  logger.Logger
	engine  *ushio.Engine
	mode    Mode
	metrics *DeviceMetrics

	// Flag mode observables, readable from any goroutine.
	lampOn atomic.Bool
	dimOn  atomic.Bool
}

// New creates a device from the given configuration. The operating mode is
// decoded from the ID lines here, at "boot", unless the configuration forces
// one.
func New(cfg *Config) (*Device, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	mode := cfg.mode
	if !cfg.modeSet {
		mode = DecodeMode(cfg.id0, cfg.id1)
	}

	log := cfg.logger.With("mode", mode.String())

	engineOpts := append([]ushio.EngineOption{ushio.WithLogger(log)}, cfg.engineOpts...)
	engine, err := ushio.NewEngine(engineOpts...)
	if err != nil {
		return nil, err
	}

	return &Device{
		cfg:     cfg,
		logger:  log,
		engine:  engine,
		mode:    mode,
		metrics: NewDeviceMetrics(),
	}, nil
}

// Mode returns the operating mode the device committed to.
func (d *Device) Mode() Mode { return d.mode }

// Engine returns the ushio protocol engine. Its metrics are safe to read
// while the device runs; everything else belongs to the loop goroutine.
func (d *Device) Engine() *ushio.Engine { return d.engine }

// Metrics returns the device metrics. Safe for concurrent reads.
func (d *Device) Metrics() *DeviceMetrics { return d.metrics }

// LampOn reports the lamp-on state observed by flag mode.
func (d *Device) LampOn() bool { return d.lampOn.Load() }

// DimOn reports the dim state observed by flag mode.
func (d *Device) DimOn() bool { return d.dimOn.Load() }

// Run executes the mode loop until ctx is cancelled, returning the context's
// error. All protocol state is confined to the calling goroutine.
func (d *Device) Run(ctx context.Context) error {
	d.logger.Info("ballast emulator starting",
		"baudRate", d.cfg.baudRate,
		"echo", d.cfg.echo,
	)

	switch d.mode {
	case ModeUshio:
		return d.runUshio(ctx)
	case ModeFlag:
		return d.runFlag(ctx)
	case ModeOsram:
		d.logger.Warn("osram mode is not implemented, parking")
		return d.park(ctx)
	default:
		// Dead mode: stay, dog.
		return d.park(ctx)
	}
}

// tickSource returns the configured tick source or a timer at 4x the baud
// rate.
func (d *Device) tickSource() TickSource {
	if d.cfg.ticks != nil {
		return d.cfg.ticks
	}

	return NewTimerTicker(TickInterval(d.cfg.baudRate))
}

// runUshio performs one quantum of protocol work per tick: sample the
// receive line, advance the engine, drive the transmit line. The line is
// driven on every tick, so it never floats between bit transitions.
func (d *Device) runUshio(ctx context.Context) error {
	ticks := d.tickSource()
	defer ticks.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("ushio loop stopped")
			return ctx.Err()

		case <-ticks.Ticks():
			level := d.cfg.rx.Get()

			out := d.engine.Tick(level)
			if d.cfg.echo {
				out = level
			}
			d.cfg.tx.Set(out)

			d.metrics.TickCount.Inc()
		}
	}
}

// runFlag is the simple lamp on/dim translation scheme: no framing, the
// transmit line follows the inverted sync line immediately, and the inverted
// receive line is tracked as the dim request.
func (d *Device) runFlag(ctx context.Context) error {
	ticks := d.tickSource()
	defer ticks.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("flag loop stopped")
			return ctx.Err()

		case <-ticks.Ticks():
			// Active-low inputs: a low level requests the function.
			dim := !d.cfg.rx.Get()
			lamp := !d.cfg.sync.Get()

			if lamp != d.lampOn.Load() {
				d.metrics.LampToggleCount.Inc()
				d.logger.Debug("lamp request changed", "on", lamp)
			}
			if dim != d.dimOn.Load() {
				d.metrics.DimToggleCount.Inc()
				d.logger.Debug("dim request changed", "on", dim)
			}

			d.lampOn.Store(lamp)
			d.dimOn.Store(dim)

			// The flag output follows the lamp request immediately.
			d.cfg.tx.Set(lamp)

			d.metrics.TickCount.Inc()
		}
	}
}

// park blocks until cancellation for the modes that do nothing.
func (d *Device) park(ctx context.Context) error {
	<-ctx.Done()

	return ctx.Err()
}
