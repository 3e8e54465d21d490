// internal/browser/humanoid/vector.go
package humanoid

import "math"

// Point is an integer pixel coordinate in page viewport space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Vec converts the point to a floating point vector.
func (p Point) Vec() Vector2D {
	return Vector2D{X: float64(p.X), Y: float64(p.Y)}
}

// Vector2D represents a point or vector in a 2D Cartesian coordinate system.
// Path math runs in Vector2D and is rounded to Point at the very end.
type Vector2D struct {
	X float64
	Y float64
}

// Add performs vector addition, returning a new Vector2D `v + other`.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub performs vector subtraction, returning a new Vector2D `v - other`.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul performs scalar multiplication, returning a new Vector2D `v * scalar`.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{X: v.X * scalar, Y: v.Y * scalar}
}

// Mag calculates the magnitude (Euclidean length) of the vector, `|v|`.
func (v Vector2D) Mag() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector with the same direction as `v`.
// If `v` is the zero vector, it returns the zero vector.
func (v Vector2D) Normalize() Vector2D {
	mag := v.Mag()
	if mag < 1e-9 {
		return Vector2D{}
	}
	return v.Mul(1.0 / mag)
}

// Perp returns `v` rotated by +90 degrees.
func (v Vector2D) Perp() Vector2D {
	return Vector2D{X: -v.Y, Y: v.X}
}

// Dist calculates the Euclidean distance between `v` and `other`.
func (v Vector2D) Dist(other Vector2D) float64 {
	return math.Hypot(v.X-other.X, v.Y-other.Y)
}

// Round snaps the vector to the nearest pixel.
func (v Vector2D) Round() Point {
	return Point{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}
