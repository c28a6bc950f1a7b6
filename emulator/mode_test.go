package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeMode(t *testing.T) {
	tests := []struct {
		name string
		id0  bool
		id1  bool
		want Mode
	}{
		{"both low", false, false, ModeDead},
		{"id0 high", true, false, ModeFlag},
		{"id1 high", false, true, ModeOsram},
		{"both high", true, true, ModeUshio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeMode(StaticLine(tt.id0), StaticLine(tt.id1))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "dead", ModeDead.String())
	assert.Equal(t, "flag", ModeFlag.String())
	assert.Equal(t, "osram", ModeOsram.String())
	assert.Equal(t, "ushio", ModeUshio.String())
	assert.Equal(t, "unknown", Mode(7).String())
}
