package viewport

// Backend is the render backend as seen by the engine.
type Backend interface {
	// Intersection returns the node index under viewport-local (x, y),
	// or -1 when there is none.
	Intersection(x, y float64) int
	// ApplyFocus patches the backend's own focus buffer and rebuilds
	// whatever it derives from it.
	ApplyFocus(patches []FocusPatch)
}

// Overlay is the host's DOM-like surface: tooltip, box-zoom rectangle,
// the temporary pan offset and the mode styling label. Tooltip and box
// coordinates are client coordinates.
type Overlay interface {
	ShowTooltip(index int, clientX, clientY float64)
	HideTooltip()
	CreateBox(clientX, clientY float64)
	UpdateBox(clientX, clientY float64)
	DestroyBox()
	SetPanOffset(dx, dy float64)
	SetModeClass(class string)
}

// Host bundles both collaborators.
type Host interface {
	Backend
	Overlay
}

// FocusPatch sets one entry of the focus buffer.
type FocusPatch struct {
	Index int
	Value float32
}

// FocusBuffer is a dense per-node focus array owned by a backend.
type FocusBuffer []float32

// NewFocusBuffer allocates a buffer for n nodes.
func NewFocusBuffer(n int) FocusBuffer {
	return make(FocusBuffer, n)
}

// Apply writes the patches, ignoring out-of-range indices.
func (fb FocusBuffer) Apply(patches []FocusPatch) {
	for _, p := range patches {
		if p.Index >= 0 && p.Index < len(fb) {
			fb[p.Index] = p.Value
		}
	}
}

// Focused returns the first focused index, or -1.
func (fb FocusBuffer) Focused() int {
	for i, v := range fb {
		if v != 0 {
			return i
		}
	}
	return -1
}

// NopOverlay discards every overlay request.
type NopOverlay struct{}

func (NopOverlay) ShowTooltip(int, float64, float64) {}
func (NopOverlay) HideTooltip()                      {}
func (NopOverlay) CreateBox(float64, float64)        {}
func (NopOverlay) UpdateBox(float64, float64)        {}
func (NopOverlay) DestroyBox()                       {}
func (NopOverlay) SetPanOffset(float64, float64)     {}
func (NopOverlay) SetModeClass(string)               {}

// Target classifies where a pointer event landed.
type Target int

const (
	TargetViewport Target = iota // inside the viewport surface
	TargetControls               // inside a control widget
	TargetOutside                // elsewhere in the document
)

// PointerEvent is a raw pointer sample in client coordinates.
type PointerEvent struct {
	ClientX, ClientY float64
	Target           Target
}

// Rect is the viewport's bounding rectangle in client coordinates.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{r.Width, r.Height}
}

// Local converts client coordinates to viewport-local ones.
func (r Rect) Local(clientX, clientY float64) Vec {
	return Vec{clientX - r.Left, clientY - r.Top}
}
