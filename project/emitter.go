package project

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	extrusionFieldRe = regexp.MustCompile(`\s+E-?[0-9.]+`)
	feedrateFieldRe  = regexp.MustCompile(`\s*F-?[0-9.]+`)
)

// TiltedMove is a motion record carrying its tilt in radians. Target holds
// the compensated coordinates.
type TiltedMove struct {
	MotionRecord
	Angle float64
}

type Emitter struct {
	angleAxis string
	dryRun    bool
}

func NewEmitter(angleAxis string, dryRun bool) *Emitter {
	return &Emitter{angleAxis: angleAxis, dryRun: dryRun}
}

// Format renders the move with fixed 4-decimal fields and the original
// trailing text. A recomputed feedrate replaces any F already in the tail.
func (self *Emitter) Format(move TiltedMove) string {
	var sb strings.Builder
	command := move.Command
	if command == "" {
		command = "G1"
	}
	angle := Degrees(move.Angle)
	if angle == 0 {
		// -atan(0) is negative zero
		angle = 0
	}
	fmt.Fprintf(&sb, "%s X%.4f Y%.4f Z%.4f %s%.4f E%.4f",
		command, move.Target.X, move.Target.Y, move.Target.Z,
		self.angleAxis, angle, move.Extrusion)

	rest := move.Rest
	if move.HasFeedrate {
		fmt.Fprintf(&sb, " F%.4f", move.Feedrate)
		rest = replaceInCode(rest, feedrateFieldRe, 1)
	}
	sb.WriteString(rest)

	if self.dryRun {
		return StripExtrusion(sb.String())
	}
	return sb.String()
}

// Passthrough copies an input line, minus extrusion in dry-run mode.
func (self *Emitter) Passthrough(line string) string {
	if self.dryRun && moveRe.MatchString(line) {
		return StripExtrusion(line)
	}
	return line
}

// StripExtrusion drops every E field ahead of the comment.
func StripExtrusion(line string) string {
	return replaceInCode(line, extrusionFieldRe, -1)
}

// replaceInCode removes up to n matches of re (all when n < 0) from the
// part of line ahead of any ';' comment.
func replaceInCode(line string, re *regexp.Regexp, n int) string {
	code, comment := line, ""
	if i := strings.IndexByte(line, ';'); i >= 0 {
		code, comment = line[:i], line[i:]
	}
	if n < 0 {
		return re.ReplaceAllString(code, "") + comment
	}
	for ; n > 0; n-- {
		loc := re.FindStringIndex(code)
		if loc == nil {
			break
		}
		code = code[:loc[0]] + code[loc[1]:]
	}
	return code + comment
}
