package ushio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// FuzzLoopback serializes arbitrary byte sequences through the transmitter
// and decodes them with a receiver running on the same tick timing. Whatever
// goes in must come out, with no parity, framing or glitch events.
func FuzzLoopback(f *testing.F) {
	f.Add([]byte{0x51, 0x0D})
	f.Add([]byte{0x00})
	f.Add([]byte{0xFF, 0x00, 0xAA, 0x55})
	f.Add([]byte{0x51, 0x32, 0x0D})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) == 0 {
			return
		}
		if len(data) > Capacity {
			data = data[:Capacity]
		}

		var buf RingBuffer
		require.True(t, buf.Append(data))

		tx := NewTransmitter(&buf)
		rx := NewReceiver(DefaultCommandTimeout)

		var got []byte
		for tick := 0; tick < (len(data)+2)*FrameQuanta; tick++ {
			level, _ := tx.Tick()
			ev, b := rx.Tick(level)
			switch ev {
			case EventByte:
				got = append(got, b)
			case EventParityError, EventFramingError, EventGlitch:
				t.Fatalf("unexpected event %v while decoding % 02X", ev, data)
			case EventNone:
			}
		}

		require.Equal(t, data, got)
	})
}

// FuzzEngineNeverHangs feeds arbitrary waveforms into a full engine and
// checks the basic liveness invariant: whatever garbage arrives, the engine
// keeps ticking and eventually returns to an idle, cleared state once the
// line goes quiet.
func FuzzEngineNeverHangs(f *testing.F) {
	f.Add([]byte{0x00, 0xFF, 0x51})
	f.Add([]byte{0x0D, 0x0D, 0x0D, 0x0D})

	f.Fuzz(func(t *testing.T, waveform []byte) {
		e, err := NewEngine()
		require.NoError(t, err)

		for _, b := range waveform {
			for bit := 0; bit < 8; bit++ {
				e.Tick(b&(1<<bit) != 0)
			}
		}

		// Quiet line for longer than the command timeout plus a frame: any
		// partial command must be discarded and the transmitter must drain.
		for i := 0; i < DefaultCommandTimeout+(Capacity+2)*FrameQuanta; i++ {
			e.Tick(High)
		}

		require.Equal(t, 0, e.PendingReceive())
	})
}
