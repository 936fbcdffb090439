package grdrag

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// Options are the preferences of the gradient drag controller.
type Options struct {
	// MergeDistance is the distance in desktop units below which coincident points merge into one dragger when the draggers are built.
	MergeDistance float64 `toml:"merge_distance"`
	// SnapDistance is the distance in screen pixels within which a dragged point merges into another dragger.
	SnapDistance float64 `toml:"snap_distance"`
	// DropDistance is the distance in screen pixels within which a dropped color lands on a dragger or line.
	DropDistance float64 `toml:"drop_distance"`
	// RotationSnapsPerPi is the number of angle steps per half turn when constraining with Ctrl, zero disables the constraint.
	RotationSnapsPerPi int `toml:"rotation_snaps_per_pi"`
	// MidSnapFraction is the fraction of the limiting segment that mid stops snap to with Ctrl.
	MidSnapFraction float64 `toml:"mid_snap_fraction"`
	// NudgeDistance is the keyboard nudge step in desktop units.
	NudgeDistance float64 `toml:"nudge_distance"`
	// SelectTolerance is the distance within which SelectByCoords matches a dragger.
	SelectTolerance float64 `toml:"select_tolerance"`

	ShowMeshHandles bool `toml:"show_mesh_handles"`
	EditMeshFill    bool `toml:"edit_mesh_fill"`
	EditMeshStroke  bool `toml:"edit_mesh_stroke"`
}

// DefaultOptions are the options used when none are given.
var DefaultOptions = Options{
	MergeDistance:      0.1,
	SnapDistance:       10.0,
	DropDistance:       5.0,
	RotationSnapsPerPi: 12,
	MidSnapFraction:    0.1,
	NudgeDistance:      2.0,
	SelectTolerance:    1e-4,
	ShowMeshHandles:    true,
	EditMeshFill:       true,
	EditMeshStroke:     true,
}

// ParseOptions reads options from a TOML document, missing keys keep their default value.
func ParseOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return DefaultOptions, fmt.Errorf("options: %w", err)
	}
	if opts.MergeDistance < 0.0 || opts.SnapDistance < 0.0 || opts.DropDistance < 0.0 || opts.SelectTolerance < 0.0 {
		return DefaultOptions, fmt.Errorf("options: distances must be non-negative")
	} else if opts.MidSnapFraction < 0.0 || 1.0 < opts.MidSnapFraction {
		return DefaultOptions, fmt.Errorf("options: mid_snap_fraction must be in [0,1]")
	}
	if opts.RotationSnapsPerPi < 0 {
		opts.RotationSnapsPerPi = -opts.RotationSnapsPerPi
	}
	return opts, nil
}

// WriteOptions writes the options as a TOML document.
func WriteOptions(w io.Writer, opts Options) error {
	return toml.NewEncoder(w).Encode(opts)
}
