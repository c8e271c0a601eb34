// Package board resolves per-board capabilities from a static registry of
// supported hardware variants and firmware revisions.
package board

import (
	"fmt"
	"sort"

	"radiostore/internal/domain"
)

// Family groups boards sharing a screen and memory class.
type Family int

const (
	FamilySmall Family = iota
	FamilyTaranis
	FamilyColor
)

func (f Family) String() string {
	switch f {
	case FamilySmall:
		return "small"
	case FamilyTaranis:
		return "taranis"
	case FamilyColor:
		return "color"
	default:
		return "unknown"
	}
}

// Info describes one known board.
type Info struct {
	Type   domain.BoardType
	Name   string
	Family Family
}

var boards = map[domain.BoardType]Info{
	domain.BoardX9Lite: {domain.BoardX9Lite, "FrSky Taranis X9-Lite", FamilySmall},
	domain.BoardX7:     {domain.BoardX7, "FrSky Taranis X7", FamilySmall},
	domain.BoardXLite:  {domain.BoardXLite, "FrSky Taranis X-Lite", FamilySmall},
	domain.BoardTX12:   {domain.BoardTX12, "Radiomaster TX12", FamilySmall},
	domain.BoardZorro:  {domain.BoardZorro, "Radiomaster Zorro", FamilySmall},
	domain.BoardBoxer:  {domain.BoardBoxer, "Radiomaster Boxer", FamilySmall},
	domain.BoardX9D:    {domain.BoardX9D, "FrSky Taranis X9D", FamilyTaranis},
	domain.BoardX9DP:   {domain.BoardX9DP, "FrSky Taranis X9D+", FamilyTaranis},
	domain.BoardX9E:    {domain.BoardX9E, "FrSky Taranis X9E", FamilyTaranis},
	domain.BoardX10:    {domain.BoardX10, "FrSky Horus X10", FamilyColor},
	domain.BoardX12S:   {domain.BoardX12S, "FrSky Horus X12S", FamilyColor},
	domain.BoardT16:    {domain.BoardT16, "Jumper T16", FamilyColor},
	domain.BoardTX16S:  {domain.BoardTX16S, "Radiomaster TX16S", FamilyColor},
	domain.BoardNV14:   {domain.BoardNV14, "FlySky NV14", FamilyColor},
}

var firmwares = []domain.Firmware{
	domain.FirmwareOpenTX23,
	domain.FirmwareEdgeTX27,
	domain.FirmwareEdgeTX28,
	domain.FirmwareEdgeTX29,
}

// Registry implements domain.CapabilityResolver over the static board table.
type Registry struct{}

// NewRegistry creates a capability registry.
func NewRegistry() domain.CapabilityResolver {
	return &Registry{}
}

// Lookup returns the board description for t.
func Lookup(t domain.BoardType) (Info, error) {
	info, ok := boards[t]
	if !ok {
		return Info{}, fmt.Errorf("%w: %q", domain.ErrUnknownBoard, t)
	}
	return info, nil
}

// Boards returns every known board sorted by type.
func Boards() []Info {
	out := make([]Info, 0, len(boards))
	for _, info := range boards {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Firmwares returns every known firmware revision, oldest first.
func Firmwares() []domain.Firmware {
	return append([]domain.Firmware(nil), firmwares...)
}

// Validate checks that b names a known board and firmware.
func Validate(b domain.Board) error {
	if _, err := Lookup(b.Type); err != nil {
		return err
	}
	for _, fw := range firmwares {
		if fw == b.Firmware {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrInvalidFirmware, b.Firmware)
}

// Resolve returns the capability set of b.
func (r *Registry) Resolve(b domain.Board) (domain.Capabilities, error) {
	if err := Validate(b); err != nil {
		return domain.Capabilities{}, err
	}
	info := boards[b.Type]
	labels := b.Firmware == domain.FirmwareEdgeTX28 || b.Firmware == domain.FirmwareEdgeTX29

	caps := domain.Capabilities{
		HasModelLabels:     labels,
		HasModelImages:     info.Family == FamilyColor,
		MaxTimers:          3,
		MaxChannels:        32,
		MaxMixes:           64,
		MaxLogicalSwitches: 64,
		MaxFlightModes:     9,
		ModelNameLen:       15,
	}

	// EdgeTX 2.8 replaced categories with labels.
	switch b.Firmware {
	case domain.FirmwareOpenTX23:
		caps.HasModelCategories = info.Family == FamilyColor
	case domain.FirmwareEdgeTX27:
		caps.HasModelCategories = info.Family != FamilySmall
	}

	if info.Family == FamilySmall {
		caps.MaxChannels = 16
		caps.MaxLogicalSwitches = 32
		caps.ModelNameLen = 10
	}
	return caps, nil
}

// SupportsCategories reports whether b groups models into categories.
// Unknown boards support nothing.
func (r *Registry) SupportsCategories(b domain.Board) bool {
	caps, err := r.Resolve(b)
	return err == nil && caps.HasModelCategories
}
