package emulator

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// DeviceMetrics contains counters for a running device. The loop goroutine
// is the only writer; the striped counters make concurrent reads from
// monitoring code cheap.
type DeviceMetrics struct {
	// TickCount indicates the number of quanta the loop has processed.
	TickCount *xsync.Counter
	// LampToggleCount indicates the number of lamp-on transitions observed
	// in flag mode.
	LampToggleCount *xsync.Counter
	// DimToggleCount indicates the number of dim transitions observed in
	// flag mode.
	DimToggleCount *xsync.Counter
}

// NewDeviceMetrics creates zeroed device metrics.
func NewDeviceMetrics() *DeviceMetrics {
	return &DeviceMetrics{
		TickCount:       xsync.NewCounter(),
		LampToggleCount: xsync.NewCounter(),
		DimToggleCount:  xsync.NewCounter(),
	}
}
