package ushio

// Transmitter serializes bytes from a ring buffer onto a serial line, one bit
// per QuantaPerBit quanta, mirroring the receiver's framing: start (low),
// 8 data bits LSB first, even parity, stop (high).
//
// The returned level is valid on every tick, including between bit
// transitions, so the physical output line stays continuously driven.
//
// Transmitter is not goroutine-safe; it must be ticked from a single loop.
type Transmitter struct {
	buf    *RingBuffer
	state  phase
	level  Level // level currently driven onto the line
	ticks  uint8 // quanta until the next bit transition
	bitIdx uint8 // next data bit to serialize, 0..7
	parity byte
}

// NewTransmitter creates a transmitter draining buf. The line starts at the
// idle level (high).
func NewTransmitter(buf *RingBuffer) *Transmitter {
	return &Transmitter{
		buf:   buf,
		state: phaseIdle,
		level: High,
	}
}

// Idle reports whether the transmitter is between frames.
func (t *Transmitter) Idle() bool {
	return t.state == phaseIdle
}

// Tick advances the transmitter by one quantum. It returns the level to drive
// onto the output line and whether a byte finished serializing on this tick.
func (t *Transmitter) Tick() (Level, bool) {
	sent := false

	if t.ticks > 0 {
		t.ticks--
	}
	if t.ticks == 0 {
		// Every transition consumes one full bit period.
		t.ticks = QuantaPerBit

		switch t.state {
		case phaseStart:
			t.level = Low
			t.bitIdx = 0
			t.parity = 0
			t.state = phaseData

		case phaseData:
			cur, _ := t.buf.Peek()
			if cur&(1<<t.bitIdx) != 0 {
				t.level = High
				t.parity ^= 1
			} else {
				t.level = Low
			}

			t.bitIdx++
			if t.bitIdx == DataBits {
				t.buf.Pop() // byte fully serialized, consume it
				t.state = phaseParity
				sent = true
			}

		case phaseParity:
			t.level = t.parity != 0
			t.state = phaseStop

		default:
			// Stop bit; the idle state also lands here and keeps the line
			// re-driven high.
			t.level = High
			t.state = phaseIdle
		}
	}

	if t.state == phaseIdle {
		if !t.buf.Empty() {
			t.state = phaseStart
		} else {
			// Fully drained: rewind the indices to reclaim space.
			t.buf.Reset()
		}
	}

	return t.level, sent
}
