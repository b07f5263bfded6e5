package viewport

import (
	"errors"
	"fmt"
	"time"
)

// maxNodeSize scales Config.NodeSize into pixels.
const maxNodeSize = 16

var (
	ErrBadSize       = errors.New("viewport size must be positive")
	ErrBadZoomFactor = errors.New("zoom factor must be greater than 1")
	ErrBadNodeSize   = errors.New("node size must be positive")
)

// Config holds construction-time settings.
type Config struct {
	Width, Height float64

	// Animations tweens every transform change; when false all changes
	// are immediate.
	Animations bool
	// NodeSize is a multiplier of the maximum node size (16px).
	NodeSize float64
	// Arrows asks the backend to draw edge arrowheads.
	Arrows bool

	AnimationDuration time.Duration
	ThrottleWindow    time.Duration
	ZoomFactor        float64
}

// DefaultConfig returns the standard settings for a viewport of the
// given size.
func DefaultConfig(width, height float64) Config {
	return Config{
		Width:             width,
		Height:            height,
		Animations:        true,
		NodeSize:          1,
		AnimationDuration: DefaultAnimationDuration,
		ThrottleWindow:    DefaultThrottleWindow,
		ZoomFactor:        DefaultZoomFactor,
	}
}

// Validate checks that the config can drive a viewer.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrBadSize, c.Width, c.Height)
	}
	if c.ZoomFactor <= 1 {
		return fmt.Errorf("%w: %g", ErrBadZoomFactor, c.ZoomFactor)
	}
	if c.NodeSize <= 0 {
		return fmt.Errorf("%w: %g", ErrBadNodeSize, c.NodeSize)
	}
	return nil
}

// PointSize returns the node size in pixels.
func (c Config) PointSize() float64 {
	return c.NodeSize * maxNodeSize
}
