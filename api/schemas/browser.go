package schemas

import "math"

// -- Pointer Input Schemas --

// MouseEventType defines the type of a mouse event.
// Values match the CDP Input.dispatchMouseEvent type names.
type MouseEventType string

const (
	MouseMove    MouseEventType = "mouseMoved"
	MousePress   MouseEventType = "mousePressed"
	MouseRelease MouseEventType = "mouseReleased"
)

// MouseButton defines the mouse button being pressed.
type MouseButton string

const (
	ButtonNone   MouseButton = "none"
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
)

// MouseEventData encapsulates all data for a mouse event.
type MouseEventData struct {
	Type       MouseEventType `json:"type"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Button     MouseButton    `json:"button"`
	Buttons    int64          `json:"buttons"`
	ClickCount int            `json:"clickCount"`
}

// -- Element Geometry --

// ElementGeometry defines the bounding box, vertices, and metadata of a DOM element.
// Vertices hold the four corners of the border quad as x,y pairs in viewport space.
type ElementGeometry struct {
	Vertices []float64 `json:"vertices"`
	Width    int64     `json:"width"`
	Height   int64     `json:"height"`
	TagName  string    `json:"tagName"`
}

// NewRectGeometry builds a geometry from an axis aligned bounding box.
func NewRectGeometry(x, y, width, height float64) *ElementGeometry {
	return &ElementGeometry{
		Vertices: []float64{
			x, y,
			x + width, y,
			x + width, y + height,
			x, y + height,
		},
		Width:  int64(math.Round(width)),
		Height: int64(math.Round(height)),
	}
}

// Center returns the mean of the four quad vertices.
// ok is false when the geometry does not carry a full quad.
func (g *ElementGeometry) Center() (x, y float64, ok bool) {
	if g == nil || len(g.Vertices) < 8 {
		return 0, 0, false
	}
	x = (g.Vertices[0] + g.Vertices[2] + g.Vertices[4] + g.Vertices[6]) / 4
	y = (g.Vertices[1] + g.Vertices[3] + g.Vertices[5] + g.Vertices[7]) / 4
	return x, y, true
}
