package domain

import "fmt"

// BoardType identifies a hardware variant.
type BoardType string

const (
	BoardX9Lite BoardType = "x9lite"
	BoardX7     BoardType = "x7"
	BoardX9D    BoardType = "x9d"
	BoardX9DP   BoardType = "x9d+"
	BoardX9E    BoardType = "x9e"
	BoardXLite  BoardType = "xlite"
	BoardTX12   BoardType = "tx12"
	BoardZorro  BoardType = "zorro"
	BoardBoxer  BoardType = "boxer"
	BoardX10    BoardType = "x10"
	BoardX12S   BoardType = "x12s"
	BoardT16    BoardType = "t16"
	BoardTX16S  BoardType = "tx16s"
	BoardNV14   BoardType = "nv14"
)

// Firmware identifies a firmware family and revision.
type Firmware string

const (
	FirmwareOpenTX23 Firmware = "opentx-2.3"
	FirmwareEdgeTX27 Firmware = "edgetx-2.7"
	FirmwareEdgeTX28 Firmware = "edgetx-2.8"
	FirmwareEdgeTX29 Firmware = "edgetx-2.9"
)

// Board is the identity a load or write resolves its capabilities from.
// It is resolved once per call and never cached across calls.
type Board struct {
	Type     BoardType
	Firmware Firmware
}

func (b Board) String() string {
	if b.Firmware == "" {
		return string(b.Type)
	}
	return fmt.Sprintf("%s/%s", b.Type, b.Firmware)
}

// Capabilities are the per-board feature flags the model mapper honours.
type Capabilities struct {
	HasModelCategories bool
	HasModelLabels     bool
	HasModelImages     bool

	MaxTimers          int
	MaxChannels        int
	MaxMixes           int
	MaxLogicalSwitches int
	MaxFlightModes     int
	ModelNameLen       int
}
