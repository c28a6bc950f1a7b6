package emulator

// Mode is the operating mode the emulator commits to at boot, decoded from
// the two ID lines into a 2-bit value.
type Mode uint8

const (
	// ModeDead disables the emulator entirely; the device parks.
	ModeDead Mode = 0x00
	// ModeFlag translates GPIO levels directly with no framing: the lamp-on
	// request on the sync line is mirrored onto the transmit line.
	ModeFlag Mode = 0x01
	// ModeOsram selects the alternate serial protocol. Not implemented; the
	// device parks after logging a warning.
	ModeOsram Mode = 0x02
	// ModeUshio runs the bit-banged Ushio UART engine.
	ModeUshio Mode = 0x03
)

func (m Mode) String() string {
	switch m {
	case ModeDead:
		return "dead"
	case ModeFlag:
		return "flag"
	case ModeOsram:
		return "osram"
	case ModeUshio:
		return "ushio"
	default:
		return "unknown"
	}
}

// DecodeMode reads the two ID lines into a Mode: id0 sets bit 0, id1 sets
// bit 1. The board's pull-ups hold unwired lines high, so ModeUshio is the
// default with no external resistors.
func DecodeMode(id0, id1 InputLine) Mode {
	var m Mode
	if id0.Get() {
		m |= 0x01
	}
	if id1.Get() {
		m |= 0x02
	}

	return m
}
