// Package presenter converts domain values into the JSON views shared by the
// CLI and web adapters.
package presenter

import (
	"radiostore/internal/board"
	"radiostore/internal/domain"
)

// OutcomeView is the JSON form of a load or write outcome.
type OutcomeView struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ModelView summarizes one model.
type ModelView struct {
	Name            string   `json:"name"`
	Filename        string   `json:"filename"`
	Category        int      `json:"category"`
	ModelIndex      int      `json:"modelIndex"`
	Used            bool     `json:"used"`
	SourceVersion   string   `json:"sourceVersion,omitempty"`
	Bitmap          string   `json:"bitmap,omitempty"`
	Labels          []string `json:"labels,omitempty"`
	Timers          int      `json:"timers"`
	FlightModes     int      `json:"flightModes"`
	Mixes           int      `json:"mixes"`
	Channels        int      `json:"channels"`
	LogicalSwitches int      `json:"logicalSwitches"`
}

// RadioView is the JSON form of a radio configuration.
type RadioView struct {
	Models            []ModelView `json:"models"`
	Categories        []string    `json:"categories"`
	CurrModelFilename string      `json:"currModelFilename,omitempty"`
	CurrModelIndex    int         `json:"currModelIndex"`
	Variant           string      `json:"variant,omitempty"`
}

// BoardView describes a board and its capabilities for one firmware.
type BoardView struct {
	Type               string `json:"type"`
	Name               string `json:"name"`
	Family             string `json:"family"`
	Firmware           string `json:"firmware"`
	HasModelCategories bool   `json:"hasModelCategories"`
	HasModelLabels     bool   `json:"hasModelLabels"`
	HasModelImages     bool   `json:"hasModelImages"`
	MaxChannels        int    `json:"maxChannels"`
	ModelNameLen       int    `json:"modelNameLen"`
}

// Outcome converts o.
func Outcome(o domain.Outcome) OutcomeView {
	return OutcomeView{Status: o.Kind.String(), Message: o.Message}
}

// Radio converts r.
func Radio(r domain.RadioData) RadioView {
	view := RadioView{
		Models:            make([]ModelView, 0, len(r.Models)),
		Categories:        make([]string, 0, len(r.Categories)),
		CurrModelFilename: r.GeneralSettings.CurrModelFilename,
		CurrModelIndex:    r.GeneralSettings.CurrModelIndex,
	}
	if r.GeneralSettings.Variant.Type != "" {
		view.Variant = r.GeneralSettings.Variant.String()
	}
	for _, c := range r.Categories {
		view.Categories = append(view.Categories, c.Name)
	}
	for _, m := range r.Models {
		view.Models = append(view.Models, ModelView{
			Name:            m.Name,
			Filename:        m.Filename,
			Category:        m.Category,
			ModelIndex:      m.ModelIndex,
			Used:            m.Used,
			SourceVersion:   m.SourceVersion,
			Bitmap:          m.Bitmap,
			Labels:          m.Labels,
			Timers:          len(m.Timers),
			FlightModes:     len(m.FlightModes),
			Mixes:           len(m.Mixes),
			Channels:        len(m.Limits),
			LogicalSwitches: len(m.LogicalSwitches),
		})
	}
	return view
}

// Boards lists every known board with its capabilities under fw.
func Boards(resolver domain.CapabilityResolver, fw domain.Firmware) ([]BoardView, error) {
	infos := board.Boards()
	out := make([]BoardView, 0, len(infos))
	for _, info := range infos {
		caps, err := resolver.Resolve(domain.Board{Type: info.Type, Firmware: fw})
		if err != nil {
			return nil, err
		}
		out = append(out, BoardView{
			Type:               string(info.Type),
			Name:               info.Name,
			Family:             info.Family.String(),
			Firmware:           string(fw),
			HasModelCategories: caps.HasModelCategories,
			HasModelLabels:     caps.HasModelLabels,
			HasModelImages:     caps.HasModelImages,
			MaxChannels:        caps.MaxChannels,
			ModelNameLen:       caps.ModelNameLen,
		})
	}
	return out, nil
}
