package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

const (
	AXIS_X = "X"
	AXIS_Y = "Y"
)

const (
	DefaultAxis        = AXIS_Y
	DefaultPivotLength = 30.0
	DefaultAngleLimit  = 45.0
	DefaultSpacing     = 0.0
	DefaultAngleAxis   = "U"
)

// Options is the immutable run configuration handed to the post-processor.
// Lengths are millimeters, angles degrees.
type Options struct {
	Axis        string  `toml:"axis" yaml:"axis"`
	PivotLength float64 `toml:"pivot_length" yaml:"pivot_length"`
	AngleLimit  float64 `toml:"angle_limit" yaml:"angle_limit"`
	Spacing     float64 `toml:"spacing" yaml:"spacing"`
	DryRun      bool    `toml:"dry_run" yaml:"dry_run"`
	AngleAxis   string  `toml:"angle_axis" yaml:"angle_axis"`
	Header      string  `toml:"header" yaml:"header"`
}

func Default() Options {
	return Options{
		Axis:        DefaultAxis,
		PivotLength: DefaultPivotLength,
		AngleLimit:  DefaultAngleLimit,
		Spacing:     DefaultSpacing,
		AngleAxis:   DefaultAngleAxis,
	}
}

// Load reads a config file over the defaults. The format is picked from the
// file extension.
func Load(path string) (Options, error) {
	opts := Default()
	content, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(content, &opts)
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(content, &opts)
	default:
		return opts, fmt.Errorf("config %s: unsupported format %q", path, filepath.Ext(path))
	}
	if err != nil {
		return opts, fmt.Errorf("parse config %s: %w", path, err)
	}
	opts.Axis = strings.ToUpper(strings.TrimSpace(opts.Axis))
	return opts, nil
}

// SelectAxis resolves the -x/-y flag pair. Neither flag keeps the current axis.
func (self *Options) SelectAxis(rotateX, rotateY bool) error {
	if rotateX && rotateY {
		return errors.New("rotating both axes is not supported")
	}
	if rotateX {
		self.Axis = AXIS_X
	} else if rotateY {
		self.Axis = AXIS_Y
	}
	return nil
}

// Validate reports every problem at once.
func (self Options) Validate() error {
	var err error
	if self.Axis != AXIS_X && self.Axis != AXIS_Y {
		err = multierr.Append(err, fmt.Errorf("axis must be %s or %s, got %q", AXIS_X, AXIS_Y, self.Axis))
	}
	if self.PivotLength < 0 {
		err = multierr.Append(err, fmt.Errorf("pivot length must not be negative, got %g", self.PivotLength))
	}
	if self.AngleLimit <= 0 || self.AngleLimit >= 90 {
		err = multierr.Append(err, fmt.Errorf("angle limit must be in (0, 90) degrees, got %g", self.AngleLimit))
	}
	if self.Spacing < 0 {
		err = multierr.Append(err, fmt.Errorf("spacing must not be negative, got %g", self.Spacing))
	}
	if len(self.AngleAxis) != 1 || !strings.Contains("ABCUVW", self.AngleAxis) {
		err = multierr.Append(err, fmt.Errorf("angle axis must be one of A B C U V W, got %q", self.AngleAxis))
	}
	return err
}

func (self Options) RotateX() bool {
	return self.Axis == AXIS_X
}
