package domain

import "fmt"

// Viewport is the canvas preview width. It never affects the composition.
type Viewport string

const (
	ViewportDesktop Viewport = "desktop"
	ViewportTablet  Viewport = "tablet"
	ViewportMobile  Viewport = "mobile"
)

// Width is the wrapper width in CSS pixels.
func (v Viewport) Width() int {
	switch v {
	case ViewportTablet:
		return 768
	case ViewportMobile:
		return 375
	}
	return 1200
}

// ParseViewport accepts desktop, tablet or mobile.
func ParseViewport(s string) (Viewport, error) {
	switch v := Viewport(s); v {
	case ViewportDesktop, ViewportTablet, ViewportMobile:
		return v, nil
	}
	return "", fmt.Errorf("unknown viewport %q (want desktop, tablet or mobile)", s)
}
