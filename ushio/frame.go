package ushio

import "math/bits"

// Level is a logic level on a serial line. The bus idles at High.
type Level = bool

// Line levels.
const (
	Low  Level = false
	High Level = true
)

// QuantaPerBit is the number of timer quanta that make up one bit period.
// The tick source must run at QuantaPerBit times the baud rate.
const QuantaPerBit = 4

// DataBits is the number of data bits per frame, sent LSB first.
const DataBits = 8

// FrameQuanta is the length of one complete frame in quanta:
// start + data + parity + stop, each spanning one bit period.
const FrameQuanta = (1 + DataBits + 1 + 1) * QuantaPerBit

// phase identifies the decode/serialize step a UART state machine is in.
type phase uint8

const (
	phaseIdle phase = iota
	phaseStart
	phaseData
	phaseParity
	phaseStop
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseStart:
		return "start"
	case phaseData:
		return "data"
	case phaseParity:
		return "parity"
	case phaseStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Parity returns the even-parity bit for b: 1 when b has an odd number of
// 1-bits, so that data plus parity always carry an even count of 1-bits.
func Parity(b byte) byte {
	return byte(bits.OnesCount8(b) & 1)
}

// levelBit converts a line level to its bit value.
func levelBit(l Level) byte {
	if l == High {
		return 1
	}

	return 0
}
