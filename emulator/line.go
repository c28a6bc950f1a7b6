package emulator

import (
	"sync/atomic"

	"github.com/stretchr/testify/mock"
)

// InputLine is a GPIO input sampled by the device loops, once per tick.
// True is the high (idle) level.
type InputLine interface {
	Get() bool
}

// OutputLine is a GPIO output driven by the device loops, once per tick.
type OutputLine interface {
	Set(level bool)
}

// StaticLine is an InputLine pinned at a fixed level, standing in for an
// unwired pin held by its pull-up.
type StaticLine bool

// Get returns the pinned level.
func (l StaticLine) Get() bool { return bool(l) }

// MemoryLine is an in-memory line usable as both input and output, for wiring
// simulated devices together. Safe for concurrent use.
type MemoryLine struct {
	level atomic.Bool
}

// NewMemoryLine creates a memory line at the given initial level.
func NewMemoryLine(level bool) *MemoryLine {
	l := &MemoryLine{}
	l.level.Store(level)

	return l
}

// Get returns the current level.
func (l *MemoryLine) Get() bool { return l.level.Load() }

// Set drives the line to the given level.
func (l *MemoryLine) Set(level bool) { l.level.Store(level) }

// MockLine is a testify mock implementing both line directions.
type MockLine struct {
	mock.Mock
}

var (
	_ InputLine  = (*MockLine)(nil)
	_ OutputLine = (*MockLine)(nil)
)

func NewMockLine() *MockLine {
	return &MockLine{}
}

func (m *MockLine) Get() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockLine) Set(level bool) {
	m.Called(level)
}
