// Package model defines the graph model a viewer displays and reads it
// from JSON or YAML files.
package model

import (
	"errors"
	"fmt"

	"github.com/ha1tch/grapho/pkg/viewport"
)

var (
	ErrNoNodes      = errors.New("model has no nodes")
	ErrBadSize      = errors.New("model width and height must be positive")
	ErrEdgeRange    = errors.New("edge references a missing node")
	ErrBadStepCount = errors.New("step count must not be negative")
)

// Node is one graph vertex. X and Y are normalized to [-1, 1] with y up.
type Node struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty"`
	Group int     `json:"group,omitempty" yaml:"group,omitempty"`
	Step  int     `json:"step,omitempty" yaml:"step,omitempty"`
}

// Edge connects two nodes by index.
type Edge struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// Model is a laid-out graph.
type Model struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Steps  int     `json:"steps,omitempty" yaml:"steps,omitempty"`
	Nodes  []Node  `json:"nodes" yaml:"nodes"`
	Edges  []Edge  `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// Validate checks that the model is well-formed.
func (m *Model) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrBadSize, m.Width, m.Height)
	}
	if len(m.Nodes) == 0 {
		return ErrNoNodes
	}
	if m.Steps < 0 {
		return fmt.Errorf("%w: %d", ErrBadStepCount, m.Steps)
	}
	for i, e := range m.Edges {
		if e.From < 0 || e.From >= len(m.Nodes) {
			return fmt.Errorf("edge %d: from %d: %w", i, e.From, ErrEdgeRange)
		}
		if e.To < 0 || e.To >= len(m.Nodes) {
			return fmt.Errorf("edge %d: to %d: %w", i, e.To, ErrEdgeRange)
		}
	}
	return nil
}

// Positions returns node positions in data units: normalized
// coordinates scaled by half the model size.
func (m *Model) Positions() []viewport.Vec {
	return m.PositionsAt(m.Width, m.Height)
}

// PositionsAt lays the nodes out for a viewport of w by h pixels.
func (m *Model) PositionsAt(w, h float64) []viewport.Vec {
	out := make([]viewport.Vec, len(m.Nodes))
	for i, n := range m.Nodes {
		out[i] = viewport.Vec{X: n.X * w / 2, Y: n.Y * h / 2}
	}
	return out
}

// Labels returns node labels in node order.
func (m *Model) Labels() []string {
	out := make([]string, len(m.Nodes))
	for i, n := range m.Nodes {
		out[i] = n.Label
	}
	return out
}

// Scene converts the model to what a viewer displays.
func (m *Model) Scene() viewport.Scene {
	return m.SceneAt(m.Width, m.Height)
}

// SceneAt is Scene for a viewport of w by h pixels.
func (m *Model) SceneAt(w, h float64) viewport.Scene {
	return viewport.Scene{
		Positions: m.PositionsAt(w, h),
		Labels:    m.Labels(),
		Steps:     m.Steps,
	}
}

// Groups returns the number of distinct group ids, counting 0..max.
func (m *Model) Groups() int {
	max := -1
	for _, n := range m.Nodes {
		if n.Group > max {
			max = n.Group
		}
	}
	return max + 1
}

// Degree returns the number of edges touching each node.
func (m *Model) Degree() []int {
	deg := make([]int, len(m.Nodes))
	for _, e := range m.Edges {
		if e.From >= 0 && e.From < len(deg) {
			deg[e.From]++
		}
		if e.To >= 0 && e.To < len(deg) && e.To != e.From {
			deg[e.To]++
		}
	}
	return deg
}
