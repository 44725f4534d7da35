// Package validation compares two sets of recorded track positions and
// renders the agreement plots used to validate one propagation method
// against another.
package validation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options carries the externally supplied plotting tolerances.
type Options struct {
	// ZRange restricts the xy comparison to min < z < max, in mm.
	ZRange [2]float64 `yaml:"z_range"`
	// Outlier is the per-axis tolerance in mm beyond which a sample is
	// excluded from aggregate statistics and flagged individually.
	Outlier float64 `yaml:"outlier"`
}

// DefaultOptions returns the tolerances used when no config file is given.
func DefaultOptions() *Options {
	return &Options{
		ZRange:  [2]float64{-500, 500},
		Outlier: 0.5,
	}
}

// LoadOptions reads and parses a YAML options file.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parse options: %w", err)
	}
	return opts, nil
}
