// data_utils.go
package poseprep

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// Sequence is one recording laid out as [frames][joints][coordinates].
type Sequence [][][]float64

// Shape returns the extent of each axis. Joints and coordinates are read
// from the first frame; call Validate to make sure every frame agrees.
func (s Sequence) Shape() (frames, joints, coords int) {
	frames = len(s)
	if frames == 0 {
		return
	}
	joints = len(s[0])
	if joints == 0 {
		return
	}
	coords = len(s[0][0])
	return
}

// ShapeString formats the shape like "(100, 25, 3)".
func (s Sequence) ShapeString() string {
	f, j, c := s.Shape()
	return fmt.Sprintf("(%d, %d, %d)", f, j, c)
}

// Validate checks that the sequence is rectangular.
func (s Sequence) Validate() error {
	_, joints, coords := s.Shape()
	for f, frame := range s {
		if len(frame) != joints {
			return errorsmod.Wrapf(ErrShape, "frame %d has %d joints, expected %d", f, len(frame), joints)
		}
		for j, joint := range frame {
			if len(joint) != coords {
				return errorsmod.Wrapf(ErrShape, "frame %d joint %d has %d coordinates, expected %d", f, j, len(joint), coords)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	for f, frame := range s {
		out[f] = make([][]float64, len(frame))
		for j, joint := range frame {
			out[f][j] = append([]float64(nil), joint...)
		}
	}
	return out
}

// SelectJoints creates a new sequence holding only the listed joints, in the
// order given.
func SelectJoints(s Sequence, jointsToKeep []int) (Sequence, error) {
	_, joints, _ := s.Shape()
	for _, j := range jointsToKeep {
		if j < 0 || j >= joints {
			return nil, errorsmod.Wrapf(ErrShape, "joint %d outside [0, %d)", j, joints)
		}
	}

	out := make(Sequence, len(s))
	for f, frame := range s {
		row := make([][]float64, len(jointsToKeep))
		for k, j := range jointsToKeep {
			row[k] = append([]float64(nil), frame[j]...)
		}
		out[f] = row
	}
	return out, nil
}

// Windows cuts s into windows of length frames, starting every stride frames.
// A trailing remainder shorter than length is dropped.
func Windows(s Sequence, length, stride int) []Sequence {
	if length <= 0 || stride <= 0 {
		return nil
	}
	var out []Sequence
	for start := 0; start+length <= len(s); start += stride {
		out = append(out, s[start:start+length])
	}
	return out
}
