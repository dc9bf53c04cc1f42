package project

import (
	"math"
	"testing"
)

func TestResampleDisabledWithoutSpacing(t *testing.T) {
	r := NewRotator(ROTATE_Y, 30, 45)
	res := r.Resample(ResampleInput{
		LastRaw:          NewPoint(10, 0, 0),
		CurrentRaw:       NewPoint(20, 0, 1),
		LastAngle:        0,
		NewAngle:         -0.5,
		CurrentExtrusion: 2,
		Feedrate:         30,
	})
	if res.Subdivided || len(res.Moves) != 1 {
		t.Fatalf("expected a single move, got %+v", res)
	}
	m := res.Moves[0]
	if m.Raw != NewPoint(20, 0, 1) || m.Angle != -0.5 || m.Extrusion != 2 || m.HasFeedrate {
		t.Fatalf("unexpected move %+v", m)
	}
	if m.Compensated != r.Compensate(m.Raw, -0.5) {
		t.Fatalf("move must be compensated at the new angle")
	}
}

func TestResampleSmallAngleChangeIsNotSplit(t *testing.T) {
	r := NewRotator(ROTATE_Y, 30, 45)
	res := r.Resample(ResampleInput{
		LastRaw:    NewPoint(0, 0, 0),
		CurrentRaw: NewPoint(50, 0, 0),
		LastAngle:  0.1,
		NewAngle:   0.1005,
		Spacing:    1,
		Feedrate:   30,
	})
	if res.Subdivided || len(res.Moves) != 1 {
		t.Fatalf("delta below threshold must not split, got %d moves", len(res.Moves))
	}
}

func TestResampleSplitsEvenly(t *testing.T) {
	r := NewRotator(ROTATE_Y, 30, 45)
	from := NewPoint(10, 0, 1)
	to := NewPoint(20, 0, 1)
	lastModified := r.Compensate(from, -0.1)
	res := r.Resample(ResampleInput{
		LastRaw:          from,
		CurrentRaw:       to,
		LastModified:     lastModified,
		LastAngle:        -0.1,
		NewAngle:         0,
		LastExtrusion:    1,
		CurrentExtrusion: 2,
		Spacing:          5,
		Feedrate:         10,
	})
	if !res.Subdivided || len(res.Moves) != 2 {
		t.Fatalf("expected 2 sub-moves, got %d", len(res.Moves))
	}
	if !nearlyEqual(res.Moves[0].Raw.X, 15, 1e-12) || res.Moves[1].Raw != to {
		t.Fatalf("unexpected raw points %v %v", res.Moves[0].Raw, res.Moves[1].Raw)
	}
	if !nearlyEqual(res.Moves[0].Angle, -0.05, 1e-12) || res.Moves[1].Angle != 0 {
		t.Fatalf("unexpected angles %v %v", res.Moves[0].Angle, res.Moves[1].Angle)
	}
	if !nearlyEqual(res.Moves[0].Extrusion, 1.5, 1e-12) || res.Moves[1].Extrusion != 2 {
		t.Fatalf("unexpected extrusion %v %v", res.Moves[0].Extrusion, res.Moves[1].Extrusion)
	}

	if !nearlyEqual(res.TotalTime, 1, 1e-12) || !nearlyEqual(res.SegmentTime*2, res.TotalTime, 1e-12) {
		t.Fatalf("unexpected timing total=%v segment=%v", res.TotalTime, res.SegmentTime)
	}

	prev := lastModified
	for i, m := range res.Moves {
		if !m.HasFeedrate {
			t.Fatalf("sub-move %d has no feedrate", i)
		}
		want := Distance(prev, m.Compensated) / res.SegmentTime * 60
		if !nearlyEqual(m.Feedrate, want, 1e-9) {
			t.Fatalf("sub-move %d feedrate %v, want %v", i, m.Feedrate, want)
		}
		if m.Compensated != r.Compensate(m.Raw, m.Angle) {
			t.Fatalf("sub-move %d not compensated at its own angle", i)
		}
		prev = m.Compensated
	}
}

func TestResampleCountAndColinearity(t *testing.T) {
	r := NewRotator(ROTATE_Y, 30, 45)
	from := NewPoint(0, 0, 0)
	to := NewPoint(3, 4, 12)
	spacing := 2.0
	res := r.Resample(ResampleInput{
		LastRaw:    from,
		CurrentRaw: to,
		LastAngle:  0.3,
		NewAngle:   -0.2,
		Spacing:    spacing,
		Feedrate:   25,
	})
	length := Distance(from, to)
	want := int(math.Ceil(length / spacing))
	if len(res.Moves) != want {
		t.Fatalf("expected %d sub-moves, got %d", want, len(res.Moves))
	}
	step := length / float64(want)
	prev := from
	for i, m := range res.Moves {
		if d := Distance(prev, m.Raw); !nearlyEqual(d, step, 1e-9) {
			t.Fatalf("sub-move %d spaced %v, want %v", i, d, step)
		}
		// colinear: distance from start plus distance to end is the length
		if s := Distance(from, m.Raw) + Distance(m.Raw, to); !nearlyEqual(s, length, 1e-9) {
			t.Fatalf("sub-move %d off the segment", i)
		}
		prev = m.Raw
	}
	if res.Moves[len(res.Moves)-1].Raw != to {
		t.Fatalf("last sub-move must land on the target")
	}
	if !nearlyEqual(res.SegmentTime*float64(want), res.TotalTime, 1e-12) {
		t.Fatalf("segment times do not add up")
	}
}

func TestResampleWithoutFeedrateOmitsIt(t *testing.T) {
	r := NewRotator(ROTATE_Y, 30, 45)
	res := r.Resample(ResampleInput{
		LastRaw:    NewPoint(0, 0, 0),
		CurrentRaw: NewPoint(10, 0, 0),
		LastAngle:  0.2,
		NewAngle:   0,
		Spacing:    5,
	})
	if len(res.Moves) != 2 {
		t.Fatalf("expected 2 sub-moves, got %d", len(res.Moves))
	}
	for _, m := range res.Moves {
		if m.HasFeedrate {
			t.Fatalf("feedrate must be omitted when unknown")
		}
	}
}

func TestResampleZeroLength(t *testing.T) {
	r := NewRotator(ROTATE_Y, 30, 45)
	p := NewPoint(5, 5, 5)
	res := r.Resample(ResampleInput{
		LastRaw:    p,
		CurrentRaw: p,
		LastAngle:  0.2,
		NewAngle:   0,
		Spacing:    5,
		Feedrate:   10,
	})
	if len(res.Moves) != 1 || res.Moves[0].Raw != p || res.Moves[0].HasFeedrate {
		t.Fatalf("zero length move should yield one sub-move without feedrate: %+v", res)
	}
}
