package geometry

import "image"

// Rectangle is an axis-aligned integer rectangle in virtual desktop space.
// Coordinates may be negative; MinX <= MaxX and MinY <= MaxY.
type Rectangle struct {
	MinX int
	MaxX int
	MinY int
	MaxY int
}

// FromImageRect converts a standard library rectangle.
func FromImageRect(r image.Rectangle) Rectangle {
	r = r.Canon()
	return Rectangle{MinX: r.Min.X, MaxX: r.Max.X, MinY: r.Min.Y, MaxY: r.Max.Y}
}

// Rect builds a rectangle from its top-left corner and size.
func Rect(x, y, width, height int) Rectangle {
	return Rectangle{MinX: x, MaxX: x + width, MinY: y, MaxY: y + height}
}

// Resolution returns the width and height.
func (r Rectangle) Resolution() (width, height int) {
	return r.MaxX - r.MinX, r.MaxY - r.MinY
}

// Min returns the top-left corner.
func (r Rectangle) Min() image.Point {
	return image.Pt(r.MinX, r.MinY)
}

// ImageRect converts to a standard library rectangle.
func (r Rectangle) ImageRect() image.Rectangle {
	return image.Rect(r.MinX, r.MinY, r.MaxX, r.MaxY)
}

// MoveBy returns r translated by (dx, dy).
func (r Rectangle) MoveBy(dx, dy int) Rectangle {
	return Rectangle{
		MinX: r.MinX + dx,
		MaxX: r.MaxX + dx,
		MinY: r.MinY + dy,
		MaxY: r.MaxY + dy,
	}
}

// Normalized returns r shifted so that its top-left corner is the origin.
func (r Rectangle) Normalized() Rectangle {
	return r.MoveBy(-r.MinX, -r.MinY)
}

// Union returns the smallest rectangle containing both r and o.
func (r Rectangle) Union(o Rectangle) Rectangle {
	return Rectangle{
		MinX: min(r.MinX, o.MinX),
		MaxX: max(r.MaxX, o.MaxX),
		MinY: min(r.MinY, o.MinY),
		MaxY: max(r.MaxY, o.MaxY),
	}
}

// Contains reports whether o lies entirely inside r.
func (r Rectangle) Contains(o Rectangle) bool {
	return o.MinX >= r.MinX && o.MaxX <= r.MaxX && o.MinY >= r.MinY && o.MaxY <= r.MaxY
}

// Display is a named region of the virtual desktop.
type Display struct {
	// Name is a human readable label, possibly a placeholder
	Name string
	// Bounds share the coordinate space of every other display
	Bounds Rectangle
}

// Configuration is an ordered set of displays plus their union bounds.
// The order is significant: slot i pairs Displays[i] with the i-th source.
type Configuration struct {
	Bounds   Rectangle
	Displays []Display
}

// UnionBounds returns the rectangle spanning every display.
// Callers must not pass an empty slice; the zero Rectangle is returned in that case.
func UnionBounds(displays []Display) Rectangle {
	if len(displays) == 0 {
		return Rectangle{}
	}
	bounds := displays[0].Bounds
	for _, d := range displays[1:] {
		bounds = bounds.Union(d.Bounds)
	}
	return bounds
}

// NewConfiguration builds a configuration whose bounds are the union of displays.
func NewConfiguration(displays []Display) Configuration {
	return Configuration{
		Bounds:   UnionBounds(displays),
		Displays: append([]Display(nil), displays...),
	}
}

// Normalize translates every display by the same offset that moves the union
// bounds to the origin. Relative placement is preserved; calling it twice is a no-op.
func (c *Configuration) Normalize() {
	dx, dy := -c.Bounds.MinX, -c.Bounds.MinY
	for i := range c.Displays {
		c.Displays[i].Bounds = c.Displays[i].Bounds.MoveBy(dx, dy)
	}
	c.Bounds = c.Bounds.Normalized()
}

// Normalized returns a normalized copy, leaving c untouched.
func (c Configuration) Normalized() Configuration {
	clone := Configuration{
		Bounds:   c.Bounds,
		Displays: append([]Display(nil), c.Displays...),
	}
	clone.Normalize()
	return clone
}
