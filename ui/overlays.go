package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// PanelID uniquely identifies a toggleable panel.
type PanelID string

// Standard panel IDs.
const (
	PanelControls  PanelID = "controls"
	PanelHUD       PanelID = "hud"
	PanelInspector PanelID = "inspector"
	PanelPerf      PanelID = "perf"
	PanelLegend    PanelID = "legend"
)

// PanelDescriptor defines a panel that can be toggled from the keyboard.
type PanelDescriptor struct {
	ID        PanelID
	Name      string
	Key       int32 // keyboard key to toggle (0 = no key)
	KeyLabel  string
	Enabled   bool      // initial state
	Exclusive []PanelID // panels to hide when this one is shown
}

// PanelRegistry manages panel visibility and key bindings.
type PanelRegistry struct {
	descriptors []PanelDescriptor
	byID        map[PanelID]PanelDescriptor
	enabled     map[PanelID]bool
}

// NewPanelRegistry creates a registry with the standard panels.
func NewPanelRegistry() *PanelRegistry {
	reg := &PanelRegistry{
		byID:    make(map[PanelID]PanelDescriptor),
		enabled: make(map[PanelID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *PanelRegistry) registerDefaults() {
	r.Register(PanelDescriptor{ID: PanelControls, Name: "Controls", Key: rl.KeyC, KeyLabel: "C", Enabled: true})
	r.Register(PanelDescriptor{ID: PanelHUD, Name: "Status", Key: rl.KeyH, KeyLabel: "H", Enabled: true})
	r.Register(PanelDescriptor{ID: PanelLegend, Name: "Keys", Key: rl.KeyK, KeyLabel: "K", Enabled: true})
	r.Register(PanelDescriptor{ID: PanelInspector, Name: "Inspector", Key: rl.KeyI, KeyLabel: "I"})
	r.Register(PanelDescriptor{ID: PanelPerf, Name: "Performance", Key: rl.KeyP, KeyLabel: "P"})
}

// Register adds a panel to the registry.
func (r *PanelRegistry) Register(desc PanelDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Enabled
}

// Toggle switches a panel on/off and handles exclusivity.
func (r *PanelRegistry) Toggle(id PanelID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets a panel's state.
func (r *PanelRegistry) SetEnabled(id PanelID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether a panel is shown.
func (r *PanelRegistry) IsEnabled(id PanelID) bool {
	return r.enabled[id]
}

// All returns all registered panels in registration order.
func (r *PanelRegistry) All() []PanelDescriptor {
	return r.descriptors
}

// HandleKeyPress toggles the panel bound to key. It returns the panel and
// its new state, and whether a toggle occurred.
func (r *PanelRegistry) HandleKeyPress(key int32) (PanelID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// Legend returns a one-line key legend for the registered panels.
func (r *PanelRegistry) Legend(prefix string) string {
	s := prefix
	for _, desc := range r.descriptors {
		if desc.KeyLabel == "" {
			continue
		}
		if s != "" {
			s += "  "
		}
		s += "[" + desc.KeyLabel + "] " + desc.Name
	}
	return s
}
