package main

import "github.com/ha1tch/grapho/pkg/hitgrid"

// termHost is the viewer's host inside the terminal. Hit tests come from
// the embedded grid; overlay requests are recorded and painted by draw.
type termHost struct {
	*hitgrid.Backend

	tooltip    int
	tipX, tipY float64

	boxOn        bool
	boxX0, boxY0 float64
	boxX1, boxY1 float64
	panDX, panDY float64
	modeClass    string
}

func newTermHost(n int, radius float64) *termHost {
	return &termHost{Backend: hitgrid.NewBackend(n, radius), tooltip: -1}
}

func (h *termHost) ShowTooltip(index int, clientX, clientY float64) {
	h.tooltip = index
	h.tipX, h.tipY = clientX, clientY
}

func (h *termHost) HideTooltip() {
	h.tooltip = -1
}

func (h *termHost) CreateBox(clientX, clientY float64) {
	h.boxOn = true
	h.boxX0, h.boxY0 = clientX, clientY
	h.boxX1, h.boxY1 = clientX, clientY
}

func (h *termHost) UpdateBox(clientX, clientY float64) {
	h.boxX1, h.boxY1 = clientX, clientY
}

func (h *termHost) DestroyBox() {
	h.boxOn = false
}

func (h *termHost) SetPanOffset(dx, dy float64) {
	h.panDX, h.panDY = dx, dy
}

func (h *termHost) SetModeClass(class string) {
	h.modeClass = class
}
