package project

import (
	"math"
	"rotaxis/common/utils/maths"
)

// AxisMode selects which machine axis the pivot turns around.
type AxisMode int

const (
	// ROTATE_Y tilts about Y, following travel along X and compensating X/Z.
	ROTATE_Y AxisMode = iota
	// ROTATE_X tilts about X, following travel along Y and compensating Y/Z.
	ROTATE_X
)

func (self AxisMode) String() string {
	if self == ROTATE_X {
		return "X"
	}
	return "Y"
}

type Rotator struct {
	mode        AxisMode
	pivotLength float64
	angleLimit  float64 // radians
}

func NewRotator(mode AxisMode, pivotLength, angleLimitDeg float64) *Rotator {
	return &Rotator{
		mode:        mode,
		pivotLength: pivotLength,
		angleLimit:  angleLimitDeg * math.Pi / 180,
	}
}

// Angle is the tilt in radians that follows travel from p0 to p1, saturated
// to the angle limit. Zero travel along the followed axis gives a flat tool.
func (self *Rotator) Angle(p0, p1 Point) float64 {
	if !p0.Valid {
		return 0
	}
	var length float64
	if self.mode == ROTATE_X {
		length = p1.Y - p0.Y
	} else {
		length = p1.X - p0.X
	}
	if length == 0 {
		return 0
	}
	zDiff := p1.Z - p0.Z
	return maths.Saturate(-math.Atan(zDiff/length), -self.angleLimit, self.angleLimit)
}

// Compensate moves the commanded pivot so the tool tip lands on p at tilt
// angle.
func (self *Rotator) Compensate(p Point, angle float64) Point {
	lateral := self.pivotLength * math.Sin(angle)
	lift := self.pivotLength * (1 - math.Cos(angle))
	out := p
	if self.mode == ROTATE_X {
		out.Y += lateral
	} else {
		out.X += lateral
	}
	out.Z -= lift
	return out
}

// Rotate returns the tilt and compensated target for a move from p0 to p1.
// Without a previous point there is no direction and p1 is returned as is.
func (self *Rotator) Rotate(p0, p1 Point) (float64, Point) {
	if !p0.Valid {
		return 0, p1
	}
	angle := self.Angle(p0, p1)
	return angle, self.Compensate(p1, angle)
}

func (self *Rotator) Mode() AxisMode {
	return self.mode
}

func (self *Rotator) Saturated(angle float64) bool {
	return math.Abs(angle) >= self.angleLimit
}

func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
