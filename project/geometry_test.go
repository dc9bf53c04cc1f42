package project

import (
	"math"
	"testing"
)

func nearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func pointsNearlyEqual(a, b Point, tol float64) bool {
	return nearlyEqual(a.X, b.X, tol) && nearlyEqual(a.Y, b.Y, tol) && nearlyEqual(a.Z, b.Z, tol)
}

func TestDistance(t *testing.T) {
	d := Distance(NewPoint(0, 0, 0), NewPoint(3, 4, 12))
	if !nearlyEqual(d, 13, 1e-9) {
		t.Fatalf("expected 13, got %v", d)
	}
	if Distance(NewPoint(1, 2, 3), NewPoint(1, 2, 3)) != 0 {
		t.Fatalf("distance to itself should be zero")
	}
}

func TestPointZeroValueIsUnset(t *testing.T) {
	var p Point
	if p.Valid {
		t.Fatalf("zero point must be unset")
	}
	if p.String() != "(unset)" {
		t.Fatalf("unexpected string %q", p.String())
	}
}

func TestSegmentPointAt(t *testing.T) {
	seg := Segment{From: NewPoint(10, 0, 0), To: NewPoint(20, 0, 1)}
	length := seg.Length()
	if !nearlyEqual(length, math.Sqrt(101), 1e-9) {
		t.Fatalf("unexpected length %v", length)
	}

	if p := seg.PointAt(0); !pointsNearlyEqual(p, seg.From, 1e-9) {
		t.Fatalf("start: %v", p)
	}
	if p := seg.PointAt(length); !pointsNearlyEqual(p, seg.To, 1e-9) {
		t.Fatalf("end: %v", p)
	}
	mid := seg.PointAt(length / 2)
	if !pointsNearlyEqual(mid, NewPoint(15, 0, 0.5), 1e-9) || !mid.Valid {
		t.Fatalf("mid: %v", mid)
	}
}

func TestSegmentPointAtZeroLength(t *testing.T) {
	p := NewPoint(1, 1, 1)
	if got := (Segment{From: p, To: p}).PointAt(0); got != p {
		t.Fatalf("expected %v, got %v", p, got)
	}
}
