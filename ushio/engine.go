package ushio

import (
	"fmt"

	"github.com/zanppa/ballast-emulator/logger"
)

// DefaultCommandTimeout is the number of quanta a partially received command
// may linger before being discarded: 480 quanta = 50 ms at 4x2400 baud.
const DefaultCommandTimeout = 480

// Engine ties the receiver, transmitter and command matcher together into the
// protocol loop body.
//
// The caller owns the timing: it must invoke Tick once per quantum (4x the
// baud rate), passing the level sampled from the receive line and driving the
// returned level onto the transmit line. Exactly one quantum of state
// transition happens per call, strictly serialized, so no locking is needed
// on any of the engine's state.
//
// The link is half-duplex: reception and transmission share the tick but the
// matcher only runs while the receiver is idle, so data arriving during a
// transmission is buffered, not answered, until the line quiets down.
type Engine struct {
	rx    *Receiver
	tx    *Transmitter
	rxBuf RingBuffer
	txBuf RingBuffer

	table         Table
	timeoutQuanta int
	logger        logger.Logger

	metrics EngineMetrics
}

// EngineOption is a functional option for configuring an Engine.
type EngineOption interface {
	apply(*Engine) error
}

type engineOptFunc func(*Engine) error

func (f engineOptFunc) apply(e *Engine) error { return f(e) }

// WithTable replaces the default Ushio query table. The table is validated
// and deep-copied.
func WithTable(t Table) EngineOption {
	return engineOptFunc(func(e *Engine) error {
		if err := t.Validate(); err != nil {
			return err
		}
		e.table = t.Clone()

		return nil
	})
}

// WithCommandTimeout sets the command timeout in quanta.
func WithCommandTimeout(quanta int) EngineOption {
	return engineOptFunc(func(e *Engine) error {
		if quanta <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidTimeout, quanta)
		}
		e.timeoutQuanta = quanta

		return nil
	})
}

// WithLogger sets the logger for the engine.
func WithLogger(l logger.Logger) EngineOption {
	return engineOptFunc(func(e *Engine) error {
		if l == nil {
			return fmt.Errorf("ushio: logger must not be nil")
		}
		e.logger = l

		return nil
	})
}

// NewEngine creates a protocol engine with the canonical Ushio query table
// and the default command timeout. opts are applied in order.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		table:         DefaultTable(),
		timeoutQuanta: DefaultCommandTimeout,
		logger:        logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(e); err != nil {
			return nil, err
		}
	}

	e.rx = NewReceiver(e.timeoutQuanta)
	e.tx = NewTransmitter(&e.txBuf)

	return e, nil
}

// Tick performs one quantum of protocol work: advance the receiver with the
// sampled line level, advance the transmitter, and run the command matcher
// when the receiver is idle with pending bytes. It returns the level to drive
// onto the transmit line for this quantum.
func (e *Engine) Tick(line Level) Level {
	ev, b := e.rx.Tick(line)

	switch ev {
	case EventByte:
		e.metrics.incByteRecvCount()
		if !e.rxBuf.Push(b) {
			// Reference behavior: drop silently, count only.
			e.metrics.incRecvDropCount()
			e.logger.Debug("receive buffer full, byte dropped", "byte", fmt.Sprintf("0x%02X", b))
		}

	case EventGlitch:
		e.metrics.incGlitchCount()

	case EventParityError:
		e.metrics.incParityErrCount()
		e.logger.Debug("parity mismatch")

	case EventFramingError:
		e.metrics.incFramingErrCount()
		e.logger.Debug("missing stop bit")

	case EventNone:
	}

	level, sent := e.tx.Tick()
	if sent {
		e.metrics.incByteSendCount()
	}

	if e.rx.Idle() && !e.rxBuf.Empty() {
		e.matchPending()
	}

	return level
}

// matchPending scans the receive buffer against the query table and applies
// the clearing policy: clear on a full match, when no remaining entry could
// possibly match, or when the command timeout has expired. Otherwise the
// buffer keeps accumulating bytes.
func (e *Engine) matchPending() {
	reply, matched, morePossible := e.table.match(&e.rxBuf)

	if matched {
		if e.txBuf.Append(reply) {
			e.metrics.incMatchCount()
			e.logger.Debug("query matched",
				"query", fmt.Sprintf("% 02X", e.rxBuf.Bytes()),
				"reply", fmt.Sprintf("% 02X", reply),
			)
		} else {
			// No space for the reply: drop it, as the original firmware does.
			e.metrics.incReplyDropCount()
			e.logger.Warn("transmit buffer full, reply dropped",
				"reply", fmt.Sprintf("% 02X", reply),
			)
		}
	}

	switch {
	case matched, !morePossible:
	case e.rx.TimedOut():
		e.metrics.incTimeoutCount()
		e.logger.Debug("command timeout, discarding partial command",
			"pending", fmt.Sprintf("% 02X", e.rxBuf.Bytes()),
		)
	default:
		// A longer query may still be in flight; keep the bytes.
		return
	}

	e.rxBuf.Reset()
	e.rx.ResetTimeout()
}

// QueueTransmit appends raw bytes to the transmit buffer, letting a host
// application inject traffic beside the matcher's replies. It returns
// ErrBufferFull, leaving the buffer unchanged, when space is insufficient.
func (e *Engine) QueueTransmit(p []byte) error {
	if !e.txBuf.Append(p) {
		return fmt.Errorf("%w: %d pending, %d requested", ErrBufferFull, e.txBuf.Len(), len(p))
	}

	return nil
}

// PendingTransmit returns the number of bytes waiting to be serialized.
func (e *Engine) PendingTransmit() int {
	return e.txBuf.Len()
}

// PendingReceive returns the number of decoded bytes awaiting a match.
func (e *Engine) PendingReceive() int {
	return e.rxBuf.Len()
}

// Idle reports whether both state machines are between frames and no bytes
// are pending in either direction.
func (e *Engine) Idle() bool {
	return e.rx.Idle() && e.tx.Idle() && e.rxBuf.Empty() && e.txBuf.Empty()
}

// Metrics returns the engine metrics. Safe for concurrent reads while the
// protocol loop is running.
func (e *Engine) Metrics() *EngineMetrics {
	return &e.metrics
}
