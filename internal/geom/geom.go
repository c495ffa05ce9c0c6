// Package geom provides screen geometry primitives for overlay layout.
package geom

import "math"

// Point is a position on the overlay surface in surface pixels.
type Point struct {
	X float64
	Y float64
}

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Length returns the distance of the point from the origin.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Rect describes a rectangle using top-left origin and size.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Normalize returns a rectangle with non-negative width/height.
func Normalize(r Rect) Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Contains reports whether a point is inside the rectangle (edges inclusive).
func Contains(r Rect, p Point) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Center returns the center point of rect.
func Center(r Rect) Point {
	r = Normalize(r)
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// ClampToRadius rescales the offset from center to p so its magnitude never
// exceeds radius.
func ClampToRadius(center, p Point, radius float64) Point {
	d := p.Sub(center)
	dist := d.Length()
	if radius <= 0 || dist <= radius {
		return p
	}
	scale := radius / dist
	return Point{X: center.X + d.X*scale, Y: center.Y + d.Y*scale}
}
