package images

import "github.com/chewxy/math32"

// Point is a location in frame pixel coordinates.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Box is an axis-aligned box in frame pixel coordinates, stored as its
// top-left corner and size.
type Box struct {
	Left   float32 `json:"left"`
	Top    float32 `json:"top"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// BoxFromCenter builds a Box from a center point and size. The corners are
// computed first and the size is taken back from them, so Width and Height
// always equal Right()-Left and Bottom()-Top exactly.
//
// Arguments:
//   - cx, cy: The box center.
//   - w, h: The box width and height.
//
// Returns:
//   - Box: The box in corner form.
func BoxFromCenter(cx, cy, w, h float32) Box {
	x1 := cx - w/2
	y1 := cy - h/2
	x2 := cx + w/2
	y2 := cy + h/2

	return Box{
		Left:   x1,
		Top:    y1,
		Width:  x2 - x1,
		Height: y2 - y1,
	}
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float32 {
	return b.Left + b.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float32 {
	return b.Top + b.Height
}

// Center returns the center of the box.
func (b Box) Center() Point {
	return Point{X: b.Left + b.Width/2, Y: b.Top + b.Height/2}
}

// Corners returns the four corners of the box rotated by angle radians about
// its center, in the order top-left, top-right, bottom-right, bottom-left of
// the unrotated box.
func (b Box) Corners(angle float32) [4]Point {
	c := b.Center()
	cos := math32.Cos(angle)
	sin := math32.Sin(angle)
	hw, hh := b.Width/2, b.Height/2

	offsets := [4]Point{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}

	var corners [4]Point
	for i, o := range offsets {
		corners[i] = Point{
			X: c.X + o.X*cos - o.Y*sin,
			Y: c.Y + o.X*sin + o.Y*cos,
		}
	}
	return corners
}
