package domain

import (
	"fmt"
	"slices"
	"unicode/utf8"
)

// MaxFilenameLen bounds the filenames stored on models and general settings.
const MaxFilenameLen = 255

// RadioData is the aggregate root of one radio configuration.
// It is owned by the caller; loaders mutate it only through ImportPlan.Apply.
type RadioData struct {
	Models          []Model
	Categories      []CategoryData
	GeneralSettings GeneralSettings
}

// CategoryData is a named grouping of models.
type CategoryData struct {
	Name string
}

// GeneralSettings holds the radio-wide state.
type GeneralSettings struct {
	CurrModelFilename string
	CurrModelIndex    int
	// Variant records the board that produced the most recent import.
	Variant Board
}

// Model is one transmitter memory slot.
type Model struct {
	Name       string
	Filename   string
	Category   int
	ModelIndex int
	Used       bool

	// SourceVersion is the firmware semver declared by the document, if any.
	SourceVersion string
	Bitmap        string
	Labels        []string

	Timers          []Timer
	FlightModes     []FlightMode
	Mixes           []Mix
	Limits          []Limit
	LogicalSwitches []LogicalSwitch

	ThrottleTrim           bool
	ExtendedLimits         bool
	ExtendedTrims          bool
	DisableThrottleWarning bool
}

// TimerMode selects what drives a timer.
type TimerMode string

const (
	TimerOff             TimerMode = "OFF"
	TimerOn              TimerMode = "ON"
	TimerStart           TimerMode = "START"
	TimerThrottle        TimerMode = "THs"
	TimerThrottlePercent TimerMode = "TH%"
	TimerThrottleStart   TimerMode = "THt"
)

// Valid reports whether m is a known timer mode.
func (m TimerMode) Valid() bool {
	switch m {
	case TimerOff, TimerOn, TimerStart, TimerThrottle, TimerThrottlePercent, TimerThrottleStart:
		return true
	}
	return false
}

// Timer is one model timer.
type Timer struct {
	Name          string
	Mode          TimerMode
	Start         int
	CountdownBeep int
	MinuteBeep    bool
	Persistent    int
}

// FlightMode is one flight mode slot.
type FlightMode struct {
	Name    string
	Switch  string
	FadeIn  int
	FadeOut int
}

// MixMultiplex controls how a mix line combines with the previous ones.
type MixMultiplex string

const (
	MixAdd      MixMultiplex = "ADD"
	MixMultiply MixMultiplex = "MUL"
	MixReplace  MixMultiplex = "REPL"
)

// Valid reports whether m is a known multiplex mode.
func (m MixMultiplex) Valid() bool {
	switch m {
	case MixAdd, MixMultiply, MixReplace:
		return true
	}
	return false
}

// Mix is one mixer line.
type Mix struct {
	Name        string
	DestChannel int
	Source      string
	Weight      int
	Offset      int
	Switch      string
	Multiplex   MixMultiplex
}

// Limit is the output configuration of one channel.
type Limit struct {
	Name   string
	Min    int
	Max    int
	Offset int
	Revert bool
}

// LogicalSwitch is one logical switch definition.
type LogicalSwitch struct {
	Func     string
	Def      string
	AndSw    string
	Delay    int
	Duration int
}

// NewModel returns a model populated with the defaults for caps.
func NewModel(caps Capabilities) Model {
	m := Model{
		Timers:      make([]Timer, caps.MaxTimers),
		Limits:      make([]Limit, caps.MaxChannels),
		FlightModes: []FlightMode{{}},
	}
	for i := range m.Timers {
		m.Timers[i].Mode = TimerOff
	}
	for i := range m.Limits {
		m.Limits[i] = Limit{Min: -100, Max: 100}
	}
	return m
}

// Clone returns a copy of m sharing no slices with it.
func (m Model) Clone() Model {
	m.Labels = slices.Clone(m.Labels)
	m.Timers = slices.Clone(m.Timers)
	m.FlightModes = slices.Clone(m.FlightModes)
	m.Mixes = slices.Clone(m.Mixes)
	m.Limits = slices.Clone(m.Limits)
	m.LogicalSwitches = slices.Clone(m.LogicalSwitches)
	return m
}

// Clone returns a deep copy of r.
func (r RadioData) Clone() RadioData {
	if r.Models != nil {
		models := make([]Model, len(r.Models))
		for i, m := range r.Models {
			models[i] = m.Clone()
		}
		r.Models = models
	}
	r.Categories = slices.Clone(r.Categories)
	return r
}

// Validate checks that every model references an existing category.
func (r RadioData) Validate() error {
	if len(r.Categories) == 0 {
		return nil
	}
	for i, m := range r.Models {
		if m.Category < 0 || m.Category >= len(r.Categories) {
			return &Error{Kind: ErrInvalidCategory, Path: m.Filename, Msg: fmt.Sprintf("model %d references missing category %d", i, m.Category)}
		}
	}
	return nil
}

// Preferences are the persisted user choices for the current target.
type Preferences struct {
	Board    BoardType
	Firmware Firmware
}

// DefaultPreferences returns the initial preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		Board:    BoardTX16S,
		Firmware: FirmwareEdgeTX29,
	}
}

// Identity returns the board identity selected by p.
func (p Preferences) Identity() Board {
	return Board{Type: p.Board, Firmware: p.Firmware}
}

// BoundFilename truncates name to MaxFilenameLen bytes without splitting a rune.
func BoundFilename(name string) string {
	if len(name) <= MaxFilenameLen {
		return name
	}
	cut := MaxFilenameLen
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}
