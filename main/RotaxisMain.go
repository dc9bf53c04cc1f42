package main

import (
	"fmt"
	"io"
	"os"
	"rotaxis/common/config"
	"rotaxis/common/file"
	"rotaxis/common/logger"
	"rotaxis/common/utils/sys"
	"rotaxis/project"

	"github.com/spf13/cobra"
)

type cliFlags struct {
	configPath string
	rotateX    bool
	rotateY    bool
	length     float64
	angleLimit float64
	spacing    float64
	dryRun     bool
	angleAxis  string
	header     string
	output     string

	serialPort string
	baud       int
	noAck      bool

	logLevel string
	logFile  string
	color    bool
}

func newRootCommand(flags *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotaxis <file.gcode>",
		Short: "Tilt a pivoting tool head along the travel direction",
		Long: `rotaxis rewrites G-code for a tool mounted on a rotating axis. Every
extrusion move gets a tilt angle that follows the travel direction and the
commanded position is compensated for the pivot length so the tool tip stays
on the original path.

Either -x or -y selects the rotating axis, -y is the default.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitLogger(logger.ParseLevel(flags.logLevel), file.ExpandUser(flags.logFile), flags.color, 10, 3, 28)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd, flags)
			if err != nil {
				return err
			}
			return run(opts, flags, file.ExpandUser(args[0]))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "read options from a .toml or .yaml file")
	f.BoolVarP(&flags.rotateX, "rotate-x", "x", false, "enable X-axis rotation")
	f.BoolVarP(&flags.rotateY, "rotate-y", "y", false, "enable Y-axis rotation")
	f.Float64VarP(&flags.length, "length", "l", config.DefaultPivotLength, "length of the rotating tool in mm, from the center of rotation to the tip")
	f.Float64VarP(&flags.angleLimit, "angle-limit", "a", config.DefaultAngleLimit, "maximum tilt in degrees")
	f.Float64VarP(&flags.spacing, "spacing", "s", config.DefaultSpacing, "split moves into pieces of at most this many mm while the tilt changes, 0 disables")
	f.BoolVarP(&flags.dryRun, "dry", "d", false, "dry run, suppress output of E codes")
	f.StringVar(&flags.angleAxis, "angle-axis", config.DefaultAngleAxis, "axis letter carrying the tilt angle")
	f.StringVar(&flags.header, "header", "", "pongo2 template written before the first output line")
	f.StringVarP(&flags.output, "output", "o", "", "output file, - for stdout (default <file>_rotating-axis<ext>)")
	f.StringVar(&flags.serialPort, "serial", "", "stream the output to a controller on this serial port instead of a file")
	f.IntVar(&flags.baud, "baud", 115200, "serial baud rate")
	f.BoolVar(&flags.noAck, "no-ack", false, "do not wait for the controller ok after each line")
	f.StringVar(&flags.logLevel, "log-level", "info", "debug, info, warn or error")
	f.StringVar(&flags.logFile, "log-file", "", "also log to this file, rotated")
	f.BoolVar(&flags.color, "color", false, "colour console log levels")
	return cmd
}

// resolveOptions layers defaults, the config file and explicitly set flags.
func resolveOptions(cmd *cobra.Command, flags *cliFlags) (config.Options, error) {
	opts := config.Default()
	if flags.configPath != "" {
		var err error
		if opts, err = config.Load(file.ExpandUser(flags.configPath)); err != nil {
			return opts, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("length") {
		opts.PivotLength = flags.length
	}
	if changed("angle-limit") {
		opts.AngleLimit = flags.angleLimit
	}
	if changed("spacing") {
		opts.Spacing = flags.spacing
	}
	if changed("dry") {
		opts.DryRun = flags.dryRun
	}
	if changed("angle-axis") {
		opts.AngleAxis = flags.angleAxis
	}
	if changed("header") {
		opts.Header = flags.header
	}
	if err := opts.SelectAxis(flags.rotateX, flags.rotateY); err != nil {
		return opts, err
	}
	if !flags.rotateX && !flags.rotateY && flags.configPath == "" {
		logger.Infof("No rotation axis specified, falling back to %s", opts.Axis)
	}

	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

func run(opts config.Options, flags *cliFlags, input string) error {
	logger.Infof("rotating %s axis, tool length %.4f mm", opts.Axis, opts.PivotLength)
	if opts.DryRun {
		logger.Warnf("exporting dry code, E codes are removed")
	}
	logger.Debugf("transform running on goroutine %d", sys.GetGID())

	var in io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("cannot open file %s: %w", input, err)
		}
		defer f.Close()
		in = f
	}

	out, closeOut, err := openOutput(flags, input)
	if err != nil {
		return err
	}

	pp := project.NewPostProcessor(opts, input)
	stats, err := pp.Process(in, out)
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("run %s: %w", pp.RunID(), err)
	}

	logger.Infof("run %s: %d lines, %d extrusion moves written as %d, %d passed through, %d clamped to ±%.1f°",
		pp.RunID(), stats.Lines, stats.ExtrusionMoves, stats.SubMoves, stats.Passthrough, stats.Saturated, opts.AngleLimit)
	return nil
}

func openOutput(flags *cliFlags, input string) (io.Writer, func() error, error) {
	if flags.serialPort != "" {
		sink, err := project.OpenSerialSink(flags.serialPort, flags.baud, !flags.noAck)
		if err != nil {
			return nil, nil, err
		}
		return sink, sink.Close, nil
	}

	path := file.ExpandUser(flags.output)
	if path == "" {
		if input == "-" {
			path = "-"
		} else {
			path = file.RotatedPath(input)
		}
	}
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output %s: %w", path, err)
	}
	logger.Infof("writing %s", path)
	return f, func() error { return file.CloseWithSync(f) }, nil
}

func main() {
	defer sys.CatchPanic()
	err := newRootCommand(&cliFlags{}).Execute()
	if err != nil {
		logger.Errorf("%v", err)
		if logger.Logger == nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
