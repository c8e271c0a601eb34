package yamlformat

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"radiostore/internal/domain"
	"radiostore/internal/logging"
)

// SchemaError reports a model document that cannot be mapped.
// It matches domain.ErrSchema.
type SchemaError struct {
	Field string
	Msg   string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func (e *SchemaError) Is(target error) bool {
	return target == domain.ErrSchema
}

func schemaErrorf(field, format string, args ...any) error {
	return &SchemaError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

var logicalSwitchFuncs = map[string]bool{
	"FUNC_NONE":          true,
	"FUNC_VEQUAL":        true,
	"FUNC_VALMOSTEQUAL":  true,
	"FUNC_VPOS":          true,
	"FUNC_VNEG":          true,
	"FUNC_RANGE":         true,
	"FUNC_APOS":          true,
	"FUNC_ANEG":          true,
	"FUNC_AND":           true,
	"FUNC_OR":            true,
	"FUNC_XOR":           true,
	"FUNC_EDGE":          true,
	"FUNC_EQUAL":         true,
	"FUNC_GREATER":       true,
	"FUNC_LESS":          true,
	"FUNC_DIFFEGREATER":  true,
	"FUNC_ADIFFEGREATER": true,
	"FUNC_TIMER":         true,
	"FUNC_STICKY":        true,
	"FUNC_SAFE":          true,
}

// flag accepts both YAML booleans and the 0/1 integers radios emit.
type flag bool

func (f *flag) UnmarshalYAML(n *yaml.Node) error {
	var b bool
	if err := n.Decode(&b); err == nil {
		*f = flag(b)
		return nil
	}
	var i int
	if err := n.Decode(&i); err != nil || (i != 0 && i != 1) {
		return fmt.Errorf("line %d: cannot use %q as a flag", n.Line, n.Value)
	}
	*f = i == 1
	return nil
}

type modelDoc struct {
	Semver                 string            `yaml:"semver"`
	Header                 headerDoc         `yaml:"header"`
	Timers                 map[int]yaml.Node `yaml:"timers"`
	FlightModeData         map[int]yaml.Node `yaml:"flightModeData"`
	MixData                []yaml.Node       `yaml:"mixData"`
	LimitData              map[int]yaml.Node `yaml:"limitData"`
	LogicalSw              map[int]yaml.Node `yaml:"logicalSw"`
	ThrTrim                flag              `yaml:"thrTrim"`
	ExtendedLimits         flag              `yaml:"extendedLimits"`
	ExtendedTrims          flag              `yaml:"extendedTrims"`
	DisableThrottleWarning flag              `yaml:"disableThrottleWarning"`
}

type headerDoc struct {
	Name   string `yaml:"name"`
	Bitmap string `yaml:"bitmap"`
	Labels string `yaml:"labels"`
}

type timerDoc struct {
	Name          string `yaml:"name"`
	Mode          string `yaml:"mode"`
	Start         int    `yaml:"start"`
	CountdownBeep int    `yaml:"countdownBeep"`
	MinuteBeep    flag   `yaml:"minuteBeep"`
	Persistent    int    `yaml:"persistent"`
}

type flightModeDoc struct {
	Name    string `yaml:"name"`
	Swtch   string `yaml:"swtch"`
	FadeIn  int    `yaml:"fadeIn"`
	FadeOut int    `yaml:"fadeOut"`
}

type mixDoc struct {
	DestCh int    `yaml:"destCh"`
	SrcRaw string `yaml:"srcRaw"`
	Weight int    `yaml:"weight"`
	Offset int    `yaml:"offset"`
	Swtch  string `yaml:"swtch"`
	Mltpx  string `yaml:"mltpx"`
	Name   string `yaml:"name"`
}

type limitDoc struct {
	Min    int    `yaml:"min"`
	Max    int    `yaml:"max"`
	Offset int    `yaml:"offset"`
	Revert flag   `yaml:"revert"`
	Name   string `yaml:"name"`
}

type logicalSwDoc struct {
	Func     string `yaml:"func"`
	Def      string `yaml:"def"`
	AndSw    string `yaml:"andsw"`
	Delay    int    `yaml:"delay"`
	Duration int    `yaml:"duration"`
}

// MapToModel fills target from a model document, honouring caps.
// Values are taken as literally declared; no conversion between boards is attempted.
// target is only assigned when mapping succeeds.
func MapToModel(root *yaml.Node, caps domain.Capabilities, target *domain.Model) error {
	var doc modelDoc
	if err := root.Decode(&doc); err != nil {
		return decodeError("", err)
	}

	m := domain.NewModel(caps)
	m.SourceVersion = doc.Semver
	m.ThrottleTrim = bool(doc.ThrTrim)
	m.ExtendedLimits = bool(doc.ExtendedLimits)
	m.ExtendedTrims = bool(doc.ExtendedTrims)
	m.DisableThrottleWarning = bool(doc.DisableThrottleWarning)

	mapHeader(doc.Header, caps, &m)

	steps := []func() error{
		func() error { return mapTimers(doc.Timers, caps, &m) },
		func() error { return mapFlightModes(doc.FlightModeData, caps, &m) },
		func() error { return mapMixes(doc.MixData, caps, &m) },
		func() error { return mapLimits(doc.LimitData, caps, &m) },
		func() error { return mapLogicalSwitches(doc.LogicalSw, caps, &m) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	*target = m
	return nil
}

// ModelToYAML is the write direction of the mapper.
func ModelToYAML(m domain.Model, caps domain.Capabilities) ([]byte, error) {
	return nil, fmt.Errorf("model %q to yaml: %w", m.Name, domain.ErrUnimplemented)
}

func mapHeader(h headerDoc, caps domain.Capabilities, m *domain.Model) {
	m.Name = truncateRunes(h.Name, caps.ModelNameLen)

	if h.Bitmap != "" {
		if caps.HasModelImages {
			m.Bitmap = h.Bitmap
		} else {
			logging.Debugf("dropping model image %q: not supported by board", h.Bitmap)
		}
	}

	if h.Labels != "" {
		if !caps.HasModelLabels {
			logging.Debugf("dropping model labels %q: not supported by board", h.Labels)
			return
		}
		for _, l := range strings.Split(h.Labels, ",") {
			if l = strings.TrimSpace(l); l != "" {
				m.Labels = append(m.Labels, l)
			}
		}
	}
}

func mapTimers(entries map[int]yaml.Node, caps domain.Capabilities, m *domain.Model) error {
	return eachIndexed("timers", entries, caps.MaxTimers, func(field string, idx int, n *yaml.Node) error {
		t := m.Timers[idx]
		doc := timerDoc{
			Name:          t.Name,
			Mode:          string(t.Mode),
			Start:         t.Start,
			CountdownBeep: t.CountdownBeep,
			MinuteBeep:    flag(t.MinuteBeep),
			Persistent:    t.Persistent,
		}
		if err := n.Decode(&doc); err != nil {
			return decodeError(field, err)
		}
		mode := domain.TimerMode(doc.Mode)
		if !mode.Valid() {
			return schemaErrorf(field, "unknown mode %q", doc.Mode)
		}
		if doc.Start < 0 {
			return schemaErrorf(field, "start %d is negative", doc.Start)
		}
		if doc.CountdownBeep < 0 || doc.CountdownBeep > 3 {
			return schemaErrorf(field, "countdownBeep %d out of range", doc.CountdownBeep)
		}
		if doc.Persistent < 0 || doc.Persistent > 2 {
			return schemaErrorf(field, "persistent %d out of range", doc.Persistent)
		}
		m.Timers[idx] = domain.Timer{
			Name:          doc.Name,
			Mode:          mode,
			Start:         doc.Start,
			CountdownBeep: doc.CountdownBeep,
			MinuteBeep:    bool(doc.MinuteBeep),
			Persistent:    doc.Persistent,
		}
		return nil
	})
}

func mapFlightModes(entries map[int]yaml.Node, caps domain.Capabilities, m *domain.Model) error {
	return eachIndexed("flightModeData", entries, caps.MaxFlightModes, func(field string, idx int, n *yaml.Node) error {
		var doc flightModeDoc
		if err := n.Decode(&doc); err != nil {
			return decodeError(field, err)
		}
		if doc.FadeIn < 0 || doc.FadeOut < 0 {
			return schemaErrorf(field, "negative fade time")
		}
		for len(m.FlightModes) <= idx {
			m.FlightModes = append(m.FlightModes, domain.FlightMode{})
		}
		m.FlightModes[idx] = domain.FlightMode{
			Name:    doc.Name,
			Switch:  doc.Swtch,
			FadeIn:  doc.FadeIn,
			FadeOut: doc.FadeOut,
		}
		return nil
	})
}

func mapMixes(entries []yaml.Node, caps domain.Capabilities, m *domain.Model) error {
	for i := range entries {
		field := fmt.Sprintf("mixData[%d]", i)
		doc := mixDoc{Weight: 100, Mltpx: string(domain.MixAdd)}
		if err := entries[i].Decode(&doc); err != nil {
			return decodeError(field, err)
		}
		mltpx := domain.MixMultiplex(doc.Mltpx)
		if !mltpx.Valid() {
			return schemaErrorf(field, "unknown mltpx %q", doc.Mltpx)
		}
		if doc.DestCh < 0 {
			return schemaErrorf(field, "destCh %d is negative", doc.DestCh)
		}
		if outOfRange(doc.Weight, 500) || outOfRange(doc.Offset, 500) {
			return schemaErrorf(field, "weight or offset out of range")
		}
		if i >= caps.MaxMixes {
			logging.Debugf("dropping %s: board supports %d mixes", field, caps.MaxMixes)
			continue
		}
		if doc.DestCh >= caps.MaxChannels {
			logging.Debugf("dropping %s: channel %d not supported by board", field, doc.DestCh)
			continue
		}
		m.Mixes = append(m.Mixes, domain.Mix{
			Name:        doc.Name,
			DestChannel: doc.DestCh,
			Source:      doc.SrcRaw,
			Weight:      doc.Weight,
			Offset:      doc.Offset,
			Switch:      doc.Swtch,
			Multiplex:   mltpx,
		})
	}
	return nil
}

func mapLimits(entries map[int]yaml.Node, caps domain.Capabilities, m *domain.Model) error {
	return eachIndexed("limitData", entries, caps.MaxChannels, func(field string, idx int, n *yaml.Node) error {
		l := m.Limits[idx]
		doc := limitDoc{Min: l.Min, Max: l.Max, Offset: l.Offset, Revert: flag(l.Revert), Name: l.Name}
		if err := n.Decode(&doc); err != nil {
			return decodeError(field, err)
		}
		if doc.Min < -150 || doc.Min > 0 {
			return schemaErrorf(field, "min %d out of range", doc.Min)
		}
		if doc.Max < 0 || doc.Max > 150 {
			return schemaErrorf(field, "max %d out of range", doc.Max)
		}
		if outOfRange(doc.Offset, 100) {
			return schemaErrorf(field, "offset %d out of range", doc.Offset)
		}
		m.Limits[idx] = domain.Limit{
			Name:   doc.Name,
			Min:    doc.Min,
			Max:    doc.Max,
			Offset: doc.Offset,
			Revert: bool(doc.Revert),
		}
		return nil
	})
}

func mapLogicalSwitches(entries map[int]yaml.Node, caps domain.Capabilities, m *domain.Model) error {
	return eachIndexed("logicalSw", entries, caps.MaxLogicalSwitches, func(field string, idx int, n *yaml.Node) error {
		doc := logicalSwDoc{Func: "FUNC_NONE"}
		if err := n.Decode(&doc); err != nil {
			return decodeError(field, err)
		}
		if !logicalSwitchFuncs[doc.Func] {
			return schemaErrorf(field, "unknown func %q", doc.Func)
		}
		if doc.Delay < 0 || doc.Duration < 0 {
			return schemaErrorf(field, "negative delay or duration")
		}
		for len(m.LogicalSwitches) <= idx {
			m.LogicalSwitches = append(m.LogicalSwitches, domain.LogicalSwitch{Func: "FUNC_NONE"})
		}
		m.LogicalSwitches[idx] = domain.LogicalSwitch{
			Func:     doc.Func,
			Def:      doc.Def,
			AndSw:    doc.AndSw,
			Delay:    doc.Delay,
			Duration: doc.Duration,
		}
		return nil
	})
}

// eachIndexed visits index-keyed entries in order, dropping those at or past limit.
func eachIndexed(name string, entries map[int]yaml.Node, limit int, fn func(field string, idx int, n *yaml.Node) error) error {
	keys := make([]int, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	for _, idx := range keys {
		field := fmt.Sprintf("%s[%d]", name, idx)
		if idx < 0 {
			return schemaErrorf(field, "negative index")
		}
		if idx >= limit {
			logging.Debugf("dropping %s: board supports %d entries", field, limit)
			continue
		}
		n := entries[idx]
		if err := fn(field, idx, &n); err != nil {
			return err
		}
	}
	return nil
}

func decodeError(field string, err error) error {
	var te *yaml.TypeError
	if errors.As(err, &te) {
		return &SchemaError{Field: field, Msg: strings.Join(te.Errors, "; ")}
	}
	return &SchemaError{Field: field, Msg: err.Error()}
}

func outOfRange(v, bound int) bool {
	return v < -bound || v > bound
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}
