package project

import (
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v5"
)

func (self *PostProcessor) headerContext() pongo2.Context {
	return pongo2.Context{
		"axis":         self.rotator.Mode().String(),
		"pivot_length": self.opts.PivotLength,
		"angle_limit":  self.opts.AngleLimit,
		"spacing":      self.opts.Spacing,
		"dry_run":      self.opts.DryRun,
		"angle_axis":   self.emitter.angleAxis,
		"run_id":       self.runID,
		"source":       self.source,
	}
}

// RenderHeader expands a pongo2 template into output lines. Trailing blank
// lines are dropped.
func RenderHeader(tpl string, ctx pongo2.Context) ([]string, error) {
	t, err := pongo2.FromString(tpl)
	if err != nil {
		return nil, fmt.Errorf("parse header template: %w", err)
	}
	out, err := t.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("render header template: %w", err)
	}
	out = strings.TrimRight(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
