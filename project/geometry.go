package project

import (
	"fmt"
	"math"
)

// Point is a raw or compensated tool position. The zero value is unset.
type Point struct {
	X, Y, Z float64
	Valid   bool
}

func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z, Valid: true}
}

func (self Point) String() string {
	if !self.Valid {
		return "(unset)"
	}
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", self.X, self.Y, self.Z)
}

func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

type Segment struct {
	From, To Point
}

func (self Segment) Length() float64 {
	return Distance(self.From, self.To)
}

// PointAt walks d along the segment from From. A zero length segment
// returns From.
func (self Segment) PointAt(d float64) Point {
	length := self.Length()
	if length == 0 {
		return self.From
	}
	t := d / length
	return NewPoint(
		self.From.X+t*(self.To.X-self.From.X),
		self.From.Y+t*(self.To.Y-self.From.Y),
		self.From.Z+t*(self.To.Z-self.From.Z),
	)
}
