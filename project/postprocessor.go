package project

import (
	"bufio"
	"fmt"
	"io"
	"rotaxis/common/config"
	"rotaxis/common/logger"
	"strings"

	uuid "github.com/satori/go.uuid"
)

// RunState is everything carried from one input line to the next.
// Feedrate is in mm/s, zero until the stream sets one.
type RunState struct {
	LastRaw       Point
	LastModified  Point
	LastAngle     float64
	LastExtrusion float64
	Feedrate      float64

	seen axisMask
}

type Stats struct {
	Lines          int
	ExtrusionMoves int
	SubMoves       int
	Passthrough    int
	Saturated      int
}

// StepResult is the output of one input line.
type StepResult struct {
	Lines     []string
	Kind      LineKind
	SubMoves  int
	Saturated bool
}

type PostProcessor struct {
	opts    config.Options
	source  string
	runID   string
	rotator *Rotator
	emitter *Emitter

	state RunState
	stats Stats
}

// NewPostProcessor expects validated options. source only names the input
// for the header template and logs.
func NewPostProcessor(opts config.Options, source string) *PostProcessor {
	mode := ROTATE_Y
	if opts.RotateX() {
		mode = ROTATE_X
	}
	angleAxis := opts.AngleAxis
	if angleAxis == "" {
		angleAxis = config.DefaultAngleAxis
	}
	self := &PostProcessor{
		opts:    opts,
		source:  source,
		runID:   uuid.NewV4().String(),
		rotator: NewRotator(mode, opts.PivotLength, opts.AngleLimit),
		emitter: NewEmitter(angleAxis, opts.DryRun),
	}
	return self
}

func (self *PostProcessor) RunID() string {
	return self.runID
}

func (self *PostProcessor) State() RunState {
	return self.state
}

func (self *PostProcessor) Stats() Stats {
	return self.stats
}

// Step transforms one line (without terminator) against state and returns
// the next state. It does not touch the post-processor's own state.
func (self *PostProcessor) Step(state RunState, line string) (RunState, StepResult) {
	c := Classify(line)
	res := StepResult{Kind: c.Kind}
	if c.HasFeedrate {
		state.Feedrate = c.Feedrate / 60
	}

	switch c.Kind {
	case LINE_EXTRUSION_MOVE:
		return self.stepExtrusion(state, c.Move, res)
	case LINE_POSITION_UPDATE:
		state.LastRaw, state.seen = c.ApplyTo(state.LastRaw, state.seen)
	case LINE_UNRECOGNIZED:
		// no direction can be inferred across a non-motion line
		state.LastAngle = 0
	}
	res.Lines = []string{self.emitter.Passthrough(line)}
	return state, res
}

func (self *PostProcessor) stepExtrusion(state RunState, move MotionRecord, res StepResult) (RunState, StepResult) {
	tilted := TiltedMove{MotionRecord: move}

	if !state.LastRaw.Valid {
		res.Lines = []string{self.emitter.Format(tilted)}
		res.SubMoves = 1
		state.LastModified = move.Target
		state.LastAngle = 0
	} else {
		angle, compensated := self.rotator.Rotate(state.LastRaw, move.Target)
		res.Saturated = self.rotator.Saturated(angle)

		if self.rotator.Mode() == ROTATE_Y {
			resampled := self.rotator.Resample(ResampleInput{
				LastRaw:          state.LastRaw,
				CurrentRaw:       move.Target,
				LastModified:     state.LastModified,
				LastAngle:        state.LastAngle,
				NewAngle:         angle,
				LastExtrusion:    state.LastExtrusion,
				CurrentExtrusion: move.Extrusion,
				Spacing:          self.opts.Spacing,
				Feedrate:         state.Feedrate,
			})
			res.Lines = make([]string, 0, len(resampled.Moves))
			for _, sub := range resampled.Moves {
				tilted.Target = sub.Compensated
				tilted.Angle = sub.Angle
				tilted.Extrusion = sub.Extrusion
				tilted.Feedrate = sub.Feedrate
				tilted.HasFeedrate = sub.HasFeedrate
				res.Lines = append(res.Lines, self.emitter.Format(tilted))
				state.LastModified = sub.Compensated
			}
			res.SubMoves = len(resampled.Moves)
		} else {
			// X-axis rotation is never resampled
			tilted.Target = compensated
			tilted.Angle = angle
			res.Lines = []string{self.emitter.Format(tilted)}
			res.SubMoves = 1
			state.LastModified = compensated
		}
		state.LastAngle = angle
	}

	state.LastRaw = move.Target
	state.seen = AXIS_MASK_ALL
	state.LastExtrusion = move.Extrusion
	return state, res
}

// ProcessLine runs Step against the post-processor's own state.
func (self *PostProcessor) ProcessLine(line string) []string {
	var res StepResult
	self.state, res = self.Step(self.state, line)

	self.stats.Lines++
	if res.Kind == LINE_EXTRUSION_MOVE {
		self.stats.ExtrusionMoves++
		self.stats.SubMoves += res.SubMoves
	} else {
		self.stats.Passthrough++
	}
	if res.Saturated {
		self.stats.Saturated++
	}
	return res.Lines
}

// Process copies r to w line by line, transforming motion records. Each line
// keeps its terminator and the lines it fans out into share it. An
// unterminated last line stays unterminated.
func (self *PostProcessor) Process(r io.Reader, w io.Writer) (Stats, error) {
	logger.Debugf("run %s: source=%s axis=%s pivot=%.4fmm limit=%.2fdeg spacing=%.4fmm dry=%v",
		self.runID, self.source, self.rotator.Mode(), self.opts.PivotLength,
		self.opts.AngleLimit, self.opts.Spacing, self.opts.DryRun)

	if self.rotator.Mode() == ROTATE_X && self.opts.Spacing > 0 {
		logger.Warnf("spacing %.4fmm ignored, X-axis rotation is not resampled", self.opts.Spacing)
	}

	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)

	if self.opts.Header != "" {
		header, err := RenderHeader(self.opts.Header, self.headerContext())
		if err != nil {
			return self.stats, err
		}
		for _, line := range header {
			if _, err := writer.WriteString(line + "\n"); err != nil {
				return self.stats, fmt.Errorf("write header: %w", err)
			}
		}
	}

	lastTerm := "\n"
	for {
		raw, readErr := reader.ReadString('\n')
		if len(raw) > 0 {
			body, term := splitTerminator(raw)
			if term != "" {
				lastTerm = term
			}
			out := self.ProcessLine(body)
			for i, line := range out {
				end := term
				if end == "" && i < len(out)-1 {
					end = lastTerm
				}
				if _, err := writer.WriteString(line + end); err != nil {
					return self.stats, fmt.Errorf("write line %d: %w", self.stats.Lines, err)
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return self.stats, fmt.Errorf("read line %d: %w", self.stats.Lines+1, readErr)
		}
	}

	if err := writer.Flush(); err != nil {
		return self.stats, fmt.Errorf("flush output: %w", err)
	}
	return self.stats, nil
}

func splitTerminator(line string) (string, string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}
