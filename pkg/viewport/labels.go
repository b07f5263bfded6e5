package viewport

// labelLift raises labels above their node.
const labelLift = 10

// Scene is the read-only node data a viewer displays: data-space
// positions and labels in node order.
type Scene struct {
	Positions []Vec
	Labels    []string
	Steps     int
}

// Len returns the number of nodes.
func (s Scene) Len() int {
	return len(s.Positions)
}

// Label is a label anchored in viewport-local pixels.
type Label struct {
	Index int
	Text  string
	X, Y  float64
}

// PlaceLabels projects every non-empty label through t.
func PlaceLabels(s Scene, t Transform, size Size) []Label {
	out := make([]Label, 0, len(s.Labels))
	for i, text := range s.Labels {
		if text == "" || i >= len(s.Positions) {
			continue
		}
		p := t.ToScreen(s.Positions[i].X, s.Positions[i].Y, size)
		out = append(out, Label{Index: i, Text: text, X: p.X, Y: p.Y - labelLift})
	}
	return out
}
