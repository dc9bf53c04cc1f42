package project

import (
	"math"
	"rotaxis/common/utils/maths"
)

// Tilt changes at or below this many radians between two moves are not
// worth subdividing for.
const ANGLE_CHANGE_THRESHOLD = 0.001

type ResampleInput struct {
	LastRaw          Point
	CurrentRaw       Point
	LastModified     Point
	LastAngle        float64
	NewAngle         float64
	LastExtrusion    float64
	CurrentExtrusion float64
	Spacing          float64 // mm, 0 disables
	Feedrate         float64 // mm/s, 0 when unknown
}

type SubMove struct {
	Raw         Point
	Compensated Point
	Angle       float64
	Extrusion   float64
	Feedrate    float64 // mm/min
	HasFeedrate bool
}

type Resampled struct {
	Moves       []SubMove
	Subdivided  bool
	TotalTime   float64
	SegmentTime float64
}

// Resample splits the raw move into evenly spaced sub-moves when the tilt
// swings by more than ANGLE_CHANGE_THRESHOLD, interpolating tilt and
// extrusion. Each sub-move gets the feedrate that keeps the original travel
// time for its share of the raw segment.
func (self *Rotator) Resample(in ResampleInput) Resampled {
	seg := Segment{From: in.LastRaw, To: in.CurrentRaw}
	length := seg.Length()

	var out Resampled
	n := 1
	if in.Spacing > 0 && math.Abs(in.LastAngle-in.NewAngle) > ANGLE_CHANGE_THRESHOLD {
		out.Subdivided = true
		n = maths.SegmentCount(length, in.Spacing)
	}

	if in.Feedrate > 0 {
		out.TotalTime = length / in.Feedrate
		out.SegmentTime = out.TotalTime / float64(n)
	}

	prev := in.LastModified
	if !prev.Valid {
		prev = in.LastRaw
	}

	out.Moves = make([]SubMove, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		move := SubMove{
			Raw:       in.CurrentRaw,
			Angle:     in.NewAngle,
			Extrusion: in.CurrentExtrusion,
		}
		// the last sub-move lands exactly on the target
		if i < n {
			move.Raw = seg.PointAt(t * length)
			move.Angle = maths.Lerp(in.LastAngle, in.NewAngle, t)
			move.Extrusion = maths.Lerp(in.LastExtrusion, in.CurrentExtrusion, t)
		}
		move.Compensated = self.Compensate(move.Raw, move.Angle)
		if out.Subdivided && out.SegmentTime > 0 {
			move.Feedrate = Distance(prev, move.Compensated) / out.SegmentTime * 60
			move.HasFeedrate = true
		}
		prev = move.Compensated
		out.Moves = append(out.Moves, move)
	}
	return out
}
