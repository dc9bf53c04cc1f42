package project

import (
	"regexp"
	"strconv"
	"strings"
)

// Numbers must carry a fractional part: "X10.0" is a coordinate, "X10" is
// not. Lines written without fractions pass through untouched.
const numPattern = `(-?\d+\.\d+)`

var (
	extrusionRe = regexp.MustCompile(`^(G[01]) X` + numPattern + ` Y` + numPattern + ` Z` + numPattern + ` E` + numPattern + `(.*)$`)
	moveRe      = regexp.MustCompile(`^G[01](?:\s|$)`)
	axisRe      = map[byte]*regexp.Regexp{
		'X': regexp.MustCompile(`(?:^|\s)X` + numPattern),
		'Y': regexp.MustCompile(`(?:^|\s)Y` + numPattern),
		'Z': regexp.MustCompile(`(?:^|\s)Z` + numPattern),
	}
	feedrateRe = regexp.MustCompile(`F` + numPattern)
)

type LineKind int

const (
	LINE_UNRECOGNIZED LineKind = iota
	LINE_EXTRUSION_MOVE
	LINE_POSITION_UPDATE
	LINE_FEEDRATE_UPDATE
)

func (self LineKind) String() string {
	switch self {
	case LINE_EXTRUSION_MOVE:
		return "extrusion"
	case LINE_POSITION_UPDATE:
		return "position"
	case LINE_FEEDRATE_UPDATE:
		return "feedrate"
	}
	return "unrecognized"
}

// MotionRecord is one linear move. Feedrate is in mm/min as written in
// G-code. Rest is everything after the recognized fields, kept verbatim.
type MotionRecord struct {
	Command     string
	Target      Point
	Extrusion   float64
	Feedrate    float64
	HasFeedrate bool
	Rest        string
}

// Classification is what a single input line tells the post-processor.
// HasX/HasY/HasZ are only set for position updates, the feedrate fields
// for any kind.
type Classification struct {
	Kind LineKind
	Move MotionRecord

	X, Y, Z          float64
	HasX, HasY, HasZ bool

	Feedrate    float64
	HasFeedrate bool
}

func Classify(line string) Classification {
	line = strings.TrimRight(line, "\r\n")
	var c Classification

	if m := feedrateRe.FindStringSubmatch(line); m != nil {
		c.Feedrate = parseNum(m[1])
		c.HasFeedrate = true
	}

	if m := extrusionRe.FindStringSubmatch(line); m != nil {
		c.Kind = LINE_EXTRUSION_MOVE
		c.Move = MotionRecord{
			Command:   m[1],
			Target:    NewPoint(parseNum(m[2]), parseNum(m[3]), parseNum(m[4])),
			Extrusion: parseNum(m[5]),
			Rest:      m[6],
		}
		return c
	}

	if moveRe.MatchString(line) {
		code := stripComment(line)
		if m := axisRe['X'].FindStringSubmatch(code); m != nil {
			c.X, c.HasX = parseNum(m[1]), true
		}
		if m := axisRe['Y'].FindStringSubmatch(code); m != nil {
			c.Y, c.HasY = parseNum(m[1]), true
		}
		if m := axisRe['Z'].FindStringSubmatch(code); m != nil {
			c.Z, c.HasZ = parseNum(m[1]), true
		}
		if c.HasX || c.HasY || c.HasZ {
			c.Kind = LINE_POSITION_UPDATE
			return c
		}
	}

	if c.HasFeedrate {
		c.Kind = LINE_FEEDRATE_UPDATE
	}
	return c
}

type axisMask uint8

const (
	AXIS_MASK_X axisMask = 1 << iota
	AXIS_MASK_Y
	AXIS_MASK_Z
	AXIS_MASK_ALL = AXIS_MASK_X | AXIS_MASK_Y | AXIS_MASK_Z
)

// ApplyTo merges the position fields present in the line into p. seen
// accumulates which axes have ever been reported; p only becomes valid once
// all three are known.
func (self Classification) ApplyTo(p Point, seen axisMask) (Point, axisMask) {
	if self.HasX {
		p.X = self.X
		seen |= AXIS_MASK_X
	}
	if self.HasY {
		p.Y = self.Y
		seen |= AXIS_MASK_Y
	}
	if self.HasZ {
		p.Z = self.Z
		seen |= AXIS_MASK_Z
	}
	p.Valid = seen == AXIS_MASK_ALL
	return p, seen
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseNum(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
