package ushio

// Event classifies what a receiver tick observed. At most one event can occur
// per tick because each is raised in a different decode phase.
type Event uint8

const (
	// EventNone means the tick completed without anything noteworthy.
	EventNone Event = iota
	// EventByte means a data byte finished decoding. The byte is reported
	// before the parity bit is sampled, mirroring the original firmware.
	EventByte
	// EventGlitch means a falling edge was not a stable start bit; the
	// receiver dropped back to idle without recording anything.
	EventGlitch
	// EventParityError means the sampled parity bit disagreed with the
	// accumulated even parity. Detected but not acted upon.
	EventParityError
	// EventFramingError means the stop bit was not high. Detected but not
	// acted upon.
	EventFramingError
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventByte:
		return "byte"
	case EventGlitch:
		return "glitch"
	case EventParityError:
		return "parity error"
	case EventFramingError:
		return "framing error"
	default:
		return "unknown"
	}
}

// Receiver decodes framed bytes from a serial line sampled once per quantum.
//
// A byte takes one ~11-bit-period frame to decode: the start bit is caught on
// its falling edge, re-checked one quantum later for stability, then each
// subsequent bit is sampled mid-bit every QuantaPerBit quanta.
//
// Receiver is not goroutine-safe; it must be ticked from a single loop.
type Receiver struct {
	state  phase
	last   Level
	ticks  uint16 // quanta until the next scheduled sample
	bitIdx uint8  // next data bit to sample, 0..7
	parity byte
	cur    byte // byte under construction

	// Command timeout: armed when a start bit commits while no timeout is
	// running, counted down once per tick, zero meaning expired (or idle).
	timeout      int
	timeoutArmed int
}

// NewReceiver creates a receiver whose command timeout re-arms to
// timeoutQuanta whenever a start bit commits with no timeout running.
//
// The last-sampled level starts low so that a line stuck low at power-up
// cannot fake a falling edge.
func NewReceiver(timeoutQuanta int) *Receiver {
	return &Receiver{
		state:        phaseIdle,
		last:         Low,
		timeoutArmed: timeoutQuanta,
	}
}

// Idle reports whether the receiver is between frames. The command matcher
// must only run while the receiver is idle.
func (r *Receiver) Idle() bool {
	return r.state == phaseIdle
}

// TimedOut reports whether the command timeout has expired (or was never
// armed since the last reset).
func (r *Receiver) TimedOut() bool {
	return r.timeout == 0
}

// ResetTimeout disarms the command timeout. Called when the receive buffer
// is cleared so the next command starts a fresh countdown.
func (r *Receiver) ResetTimeout() {
	r.timeout = 0
}

// Tick advances the receiver by one quantum given the currently sampled line
// level. It returns the event the tick produced and, for EventByte, the
// completed data byte.
func (r *Receiver) Tick(line Level) (Event, byte) {
	prev := r.last
	r.last = line

	if r.timeout > 0 {
		r.timeout--
	}

	if r.ticks > 0 {
		r.ticks--
	}
	if r.ticks != 0 {
		return EventNone, 0
	}

	switch r.state {
	case phaseIdle:
		// Trigger only on a falling edge, never on a level that is already
		// low, so a glitching line cannot start a frame at power-up.
		if line == Low && prev == High {
			r.state = phaseStart
			r.ticks = 1 // verify the start bit on the next quantum
		}

	case phaseStart:
		if line != Low {
			// Bounced back high: a glitch, not a start bit.
			r.state = phaseIdle
			r.ticks = 0

			return EventGlitch, 0
		}

		r.parity = 0
		r.bitIdx = 0
		r.cur = 0
		r.state = phaseData
		r.ticks = QuantaPerBit // mid-bit sample of data bit 0

		if r.timeout == 0 {
			r.timeout = r.timeoutArmed
		}

	case phaseData:
		if line == High {
			r.cur |= 1 << r.bitIdx
			r.parity ^= 1
		}

		r.bitIdx++
		r.ticks = QuantaPerBit

		if r.bitIdx == DataBits {
			r.state = phaseParity

			return EventByte, r.cur
		}

	case phaseParity:
		r.state = phaseStop
		r.ticks = QuantaPerBit

		if levelBit(line) != r.parity {
			return EventParityError, 0
		}

	case phaseStop:
		// Zero delay back to idle so a new falling edge can be caught on
		// the very next tick.
		r.state = phaseIdle
		r.ticks = 0

		if line != High {
			return EventFramingError, 0
		}
	}

	return EventNone, 0
}
