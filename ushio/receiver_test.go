package ushio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiver_DecodeSingleByte(t *testing.T) {
	r := NewReceiver(DefaultCommandTimeout)

	levels := append(idleLevels(4), frameLevels(0x51)...)
	events, bytes := feedReceiver(r, levels)

	require.Equal(t, []byte{0x51}, bytes)
	assert.Equal(t, []Event{EventByte}, events, "a clean frame must raise exactly one event")
	assert.True(t, r.Idle())
}

func TestReceiver_DecodeAllBitPatterns(t *testing.T) {
	for _, b := range []byte{0x00, 0x01, 0x55, 0xAA, 0x7F, 0x80, 0xFE, 0xFF} {
		r := NewReceiver(DefaultCommandTimeout)

		events, bytes := feedReceiver(r, append(idleLevels(2), frameLevels(b)...))

		require.Equal(t, []byte{b}, bytes, "byte 0x%02X", b)
		assert.Equal(t, []Event{EventByte}, events, "byte 0x%02X", b)
	}
}

func TestReceiver_BackToBackFrames(t *testing.T) {
	r := NewReceiver(DefaultCommandTimeout)

	// No idle gap between frames: the stop bit of the first frame is the
	// high level the next falling edge is detected against.
	levels := idleLevels(2)
	levels = append(levels, frameLevels(0x51)...)
	levels = append(levels, frameLevels(0x0D)...)

	_, bytes := feedReceiver(r, levels)
	assert.Equal(t, []byte{0x51, 0x0D}, bytes)
}

func TestReceiver_NoTriggerOnLowIdle(t *testing.T) {
	r := NewReceiver(DefaultCommandTimeout)

	// A line stuck low from power-up must not fake a start bit: the
	// last-sampled level starts low, so there is no falling edge.
	for i := 0; i < 3*FrameQuanta; i++ {
		ev, _ := r.Tick(Low)
		assert.Equal(t, EventNone, ev)
	}
	assert.True(t, r.Idle())
}

func TestReceiver_StartBitGlitch(t *testing.T) {
	r := NewReceiver(DefaultCommandTimeout)

	// Falling edge followed by an immediate bounce back high: a glitch.
	levels := append(idleLevels(2), Low, High)
	events, bytes := feedReceiver(r, levels)

	assert.Empty(t, bytes)
	require.Equal(t, []Event{EventGlitch}, events)
	assert.True(t, r.Idle(), "glitch must return the receiver to idle immediately")

	// A clean frame right after must still decode.
	_, bytes = feedReceiver(r, append(idleLevels(2), frameLevels(0x50)...))
	assert.Equal(t, []byte{0x50}, bytes)
}

func TestReceiver_ParityMismatchDetectedNotEscalated(t *testing.T) {
	r := NewReceiver(DefaultCommandTimeout)

	// Build a frame with the parity bit deliberately inverted.
	levels := frameLevels(0x51)
	parityStart := (1 + DataBits) * QuantaPerBit
	for i := 0; i < QuantaPerBit; i++ {
		levels[parityStart+i] = !levels[parityStart+i]
	}

	events, bytes := feedReceiver(r, append(idleLevels(2), levels...))

	// The byte is still recorded: it completes before the parity bit is
	// sampled, and the mismatch triggers no corrective action.
	assert.Equal(t, []byte{0x51}, bytes)
	require.Equal(t, []Event{EventByte, EventParityError}, events)
	assert.True(t, r.Idle())
}

func TestReceiver_MissingStopBitDetectedNotEscalated(t *testing.T) {
	r := NewReceiver(DefaultCommandTimeout)

	levels := frameLevels(0x51)
	stopStart := (1 + DataBits + 1) * QuantaPerBit
	for i := 0; i < QuantaPerBit; i++ {
		levels[stopStart+i] = Low
	}

	events, bytes := feedReceiver(r, append(idleLevels(2), levels...))

	assert.Equal(t, []byte{0x51}, bytes)
	require.Equal(t, []Event{EventByte, EventFramingError}, events)
	assert.True(t, r.Idle(), "receiver must resynchronize after a framing error")
}

func TestReceiver_TimeoutArmedOnStartCommit(t *testing.T) {
	r := NewReceiver(100)

	assert.True(t, r.TimedOut(), "timeout starts disarmed")

	feedReceiver(r, append(idleLevels(2), frameLevels(0x51)...))
	assert.False(t, r.TimedOut(), "timeout must be armed by the start bit")

	// The countdown keeps running between frames.
	feedReceiver(r, idleLevels(100))
	assert.True(t, r.TimedOut())
}

func TestReceiver_TimeoutNotRearmedWhileRunning(t *testing.T) {
	r := NewReceiver(1000)

	feedReceiver(r, append(idleLevels(2), frameLevels(0x51)...))
	first := r.timeout

	// A second frame while the countdown runs must not rewind it.
	feedReceiver(r, frameLevels(0x0D))
	assert.Less(t, r.timeout, first)

	r.ResetTimeout()
	assert.True(t, r.TimedOut())
}
