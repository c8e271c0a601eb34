package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiostore/internal/domain"
)

func TestResolveCategories(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		board domain.Board
		want  bool
	}{
		{domain.Board{Type: domain.BoardTX16S, Firmware: domain.FirmwareOpenTX23}, true},
		{domain.Board{Type: domain.BoardX9D, Firmware: domain.FirmwareOpenTX23}, false},
		{domain.Board{Type: domain.BoardX9D, Firmware: domain.FirmwareEdgeTX27}, true},
		{domain.Board{Type: domain.BoardX7, Firmware: domain.FirmwareEdgeTX27}, false},
		{domain.Board{Type: domain.BoardTX16S, Firmware: domain.FirmwareEdgeTX28}, false},
		{domain.Board{Type: domain.BoardTX16S, Firmware: domain.FirmwareEdgeTX29}, false},
		{domain.Board{Type: "nope", Firmware: domain.FirmwareEdgeTX27}, false},
	}
	for _, tt := range tests {
		t.Run(tt.board.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, r.SupportsCategories(tt.board))
		})
	}
}

func TestResolveSmallBoard(t *testing.T) {
	caps, err := NewRegistry().Resolve(domain.Board{Type: domain.BoardX7, Firmware: domain.FirmwareEdgeTX29})
	require.NoError(t, err)

	assert.True(t, caps.HasModelLabels)
	assert.False(t, caps.HasModelImages)
	assert.Equal(t, 16, caps.MaxChannels)
	assert.Equal(t, 32, caps.MaxLogicalSwitches)
	assert.Equal(t, 10, caps.ModelNameLen)
	assert.Equal(t, 3, caps.MaxTimers)
}

func TestResolveColorBoard(t *testing.T) {
	caps, err := NewRegistry().Resolve(domain.Board{Type: domain.BoardNV14, Firmware: domain.FirmwareOpenTX23})
	require.NoError(t, err)

	assert.True(t, caps.HasModelImages)
	assert.False(t, caps.HasModelLabels)
	assert.Equal(t, 32, caps.MaxChannels)
	assert.Equal(t, 15, caps.ModelNameLen)
}

func TestResolveIsStable(t *testing.T) {
	r := NewRegistry()
	b := domain.Board{Type: domain.BoardX9E, Firmware: domain.FirmwareEdgeTX27}
	first, err := r.Resolve(b)
	require.NoError(t, err)
	second, err := r.Resolve(b)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveUnknown(t *testing.T) {
	_, err := NewRegistry().Resolve(domain.Board{Type: "x99", Firmware: domain.FirmwareEdgeTX29})
	assert.ErrorIs(t, err, domain.ErrUnknownBoard)

	_, err = NewRegistry().Resolve(domain.Board{Type: domain.BoardX7, Firmware: "ersky9x"})
	assert.ErrorIs(t, err, domain.ErrInvalidFirmware)
}

func TestBoardsSorted(t *testing.T) {
	list := Boards()
	require.Len(t, list, 14)
	for i := 1; i < len(list); i++ {
		assert.Less(t, string(list[i-1].Type), string(list[i].Type))
	}
	assert.Equal(t, domain.FirmwareOpenTX23, Firmwares()[0])
}
