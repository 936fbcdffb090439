package grdrag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions(strings.NewReader(`
snap_distance = 4.0
rotation_snaps_per_pi = -8
show_mesh_handles = false
`))
	test.Error(t, err)
	test.Float(t, opts.SnapDistance, 4.0)
	test.T(t, opts.RotationSnapsPerPi, 8)
	test.T(t, opts.ShowMeshHandles, false)
	test.Float(t, opts.NudgeDistance, DefaultOptions.NudgeDistance, "default")

	var tests = []string{
		`snap_distance = -1.0`,
		`mid_snap_fraction = 2.0`,
		`unknown_key = 1`,
		`snap_distance = "far"`,
	}
	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			opts, err := ParseOptions(strings.NewReader(tt))
			test.That(t, err != nil)
			test.T(t, opts, DefaultOptions)
		})
	}
}

func TestWriteOptions(t *testing.T) {
	opts := DefaultOptions
	opts.MidSnapFraction = 0.25
	opts.EditMeshStroke = false

	buf := &bytes.Buffer{}
	test.Error(t, WriteOptions(buf, opts))
	test.That(t, strings.Contains(buf.String(), "mid_snap_fraction = 0.25"))

	opts2, err := ParseOptions(buf)
	test.Error(t, err)
	test.T(t, opts2, opts)
}
