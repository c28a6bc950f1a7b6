package emulator

import (
	"time"

	"github.com/zanppa/ballast-emulator/ushio"
)

// TickSource delivers one time quantum per received value. The protocol
// requires a quantum at exactly ushio.QuantaPerBit times the bit rate, so
// each bit spans ushio.QuantaPerBit quanta.
type TickSource interface {
	// Ticks returns the channel the quanta arrive on.
	Ticks() <-chan time.Time
	// Stop releases the source's resources. No more ticks are delivered
	// after Stop returns.
	Stop()
}

// TickInterval returns the quantum duration for a baud rate: one bit period
// divided into ushio.QuantaPerBit quanta. For the Ushio protocol's 2400 baud
// this is 1s/9600, about 104 us.
func TickInterval(baudRate int) time.Duration {
	return time.Second / time.Duration(baudRate*ushio.QuantaPerBit)
}

// TimerTicker is a TickSource backed by a time.Ticker, playing the role of
// the periodic hardware timer interrupt.
type TimerTicker struct {
	t *time.Ticker
}

var _ TickSource = (*TimerTicker)(nil)

// NewTimerTicker creates a timer tick source firing every interval.
func NewTimerTicker(interval time.Duration) *TimerTicker {
	return &TimerTicker{t: time.NewTicker(interval)}
}

func (tk *TimerTicker) Ticks() <-chan time.Time { return tk.t.C }

func (tk *TimerTicker) Stop() { tk.t.Stop() }

// ManualTicker is a TickSource fired explicitly by the caller, giving tests
// deterministic control over the quantum clock.
type ManualTicker struct {
	ch chan time.Time
}

var _ TickSource = (*ManualTicker)(nil)

// NewManualTicker creates a manual tick source able to hold buffer pending
// quanta.
func NewManualTicker(buffer int) *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time, buffer)}
}

func (mt *ManualTicker) Ticks() <-chan time.Time { return mt.ch }

// Fire delivers n quanta. It blocks while the buffer is full, which paces
// the caller against the consuming loop.
func (mt *ManualTicker) Fire(n int) {
	now := time.Now()
	for i := 0; i < n; i++ {
		mt.ch <- now
	}
}

func (mt *ManualTicker) Stop() {}
