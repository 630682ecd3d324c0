package view

// Point is a terminal cell position.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned box in cell coordinates. W and H are exclusive extents.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W &&
		p.Y >= r.Y && p.Y < r.Y+r.H
}

// Center is the middle cell of r, rounding toward the origin.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Sub returns p relative to r's origin.
func (r Rect) Sub(p Point) Point { return Point{X: p.X - r.X, Y: p.Y - r.Y} }
