package ushio

// Test helpers shared by the receiver, engine and fuzz tests.

// frameLevels returns the quantum-level waveform of one framed byte: start
// bit, 8 data bits LSB first, even parity, stop bit, each held for
// QuantaPerBit quanta.
func frameLevels(b byte) []Level {
	levels := make([]Level, 0, FrameQuanta)

	hold := func(l Level) {
		for i := 0; i < QuantaPerBit; i++ {
			levels = append(levels, l)
		}
	}

	hold(Low) // start
	for bit := 0; bit < DataBits; bit++ {
		hold(b&(1<<bit) != 0)
	}
	hold(Parity(b) != 0)
	hold(High) // stop

	return levels
}

// idleLevels returns n quanta of the idle (high) line level.
func idleLevels(n int) []Level {
	levels := make([]Level, n)
	for i := range levels {
		levels[i] = High
	}

	return levels
}

// feedReceiver ticks the receiver through the given waveform and collects
// every event raised along with the completed bytes.
func feedReceiver(r *Receiver, levels []Level) (events []Event, bytes []byte) {
	for _, l := range levels {
		ev, b := r.Tick(l)
		if ev != EventNone {
			events = append(events, ev)
		}
		if ev == EventByte {
			bytes = append(bytes, b)
		}
	}

	return events, bytes
}

// feedEngine ticks the engine through the given receive waveform, feeding the
// engine's transmit output into probe so tests can decode what the engine
// sent back. probe may be nil.
func feedEngine(e *Engine, probe *Receiver, levels []Level) []byte {
	var replies []byte

	for _, l := range levels {
		out := e.Tick(l)
		if probe != nil {
			ev, b := probe.Tick(out)
			if ev == EventByte {
				replies = append(replies, b)
			}
		}
	}

	return replies
}
