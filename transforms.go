package poseprep

import (
	"math/rand"

	errorsmod "cosmossdk.io/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Transform is a pure function over a sequence. Implementations never modify
// their input.
type Transform interface {
	Apply(Sequence) (Sequence, error)
}

// Pipeline applies its transforms in order.
type Pipeline []Transform

func (p Pipeline) Apply(s Sequence) (Sequence, error) {
	var err error
	for _, t := range p {
		if s, err = t.Apply(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ChangePoseOrigin moves every frame so that Joint sits at the origin.
type ChangePoseOrigin struct {
	Joint  int
	Coords int // leading coordinates to shift; 0 shifts all of them
}

func (t ChangePoseOrigin) Apply(s Sequence) (Sequence, error) {
	_, joints, coords := s.Shape()
	if len(s) > 0 && (t.Joint < 0 || t.Joint >= joints) {
		return nil, errorsmod.Wrapf(ErrShape, "origin joint %d outside [0, %d)", t.Joint, joints)
	}
	n := leading(t.Coords, coords)

	out := s.Clone()
	for f, frame := range out {
		origin := s[f][t.Joint]
		for _, joint := range frame {
			for c := 0; c < n; c++ {
				joint[c] -= origin[c]
			}
		}
	}
	return out, nil
}

// FilterJoints keeps the listed joints. An empty Keep keeps everything.
type FilterJoints struct {
	Keep []int
}

func (t FilterJoints) Apply(s Sequence) (Sequence, error) {
	if len(t.Keep) == 0 {
		return s.Clone(), nil
	}
	return SelectJoints(s, t.Keep)
}

// NormalisePoses standardises each coordinate axis over the whole sequence to
// zero mean and unit variance. Constant axes are only centred.
type NormalisePoses struct {
	Coords int // leading coordinates to normalise; 0 normalises all of them
}

func (t NormalisePoses) Apply(s Sequence) (Sequence, error) {
	frames, joints, coords := s.Shape()
	out := s.Clone()
	if frames == 0 || joints == 0 {
		return out, nil
	}

	values := make([]float64, 0, frames*joints)
	for c := 0; c < leading(t.Coords, coords); c++ {
		values = values[:0]
		for _, frame := range s {
			for _, joint := range frame {
				values = append(values, joint[c])
			}
		}
		mean, std := stat.MeanStdDev(values, nil)
		for _, frame := range out {
			for _, joint := range frame {
				joint[c] -= mean
				if std > 0 {
					joint[c] /= std
				}
			}
		}
	}
	return out, nil
}

// AddNoise adds gaussian jitter with the given standard deviation. The same
// Seed always yields the same noise.
type AddNoise struct {
	StdDev float64
	Seed   int64
}

func (t AddNoise) Apply(s Sequence) (Sequence, error) {
	out := s.Clone()
	if t.StdDev == 0 {
		return out, nil
	}
	rng := rand.New(rand.NewSource(t.Seed))
	for _, frame := range out {
		for _, joint := range frame {
			for c := range joint {
				joint[c] += rng.NormFloat64() * t.StdDev
			}
		}
	}
	return out, nil
}

// ForSample returns t with every AddNoise step reseeded by idx, so samples
// prepared with the same pipeline each get their own jitter. Other steps are
// returned unchanged.
func ForSample(t Transform, idx int) Transform {
	switch v := t.(type) {
	case AddNoise:
		v.Seed += int64(idx)
		return v
	case Pipeline:
		out := make(Pipeline, len(v))
		for i, step := range v {
			out[i] = ForSample(step, idx)
		}
		return out
	}
	return t
}

// ToTensor flattens s into a [frames, joints*coords] matrix.
func ToTensor(s Sequence) (*mat.Dense, error) {
	frames, joints, coords := s.Shape()
	if frames == 0 || joints == 0 || coords == 0 {
		return nil, errorsmod.Wrapf(ErrShape, "cannot convert empty sequence %s", s.ShapeString())
	}
	features := joints * coords
	data := make([]float64, 0, frames*features)
	for _, frame := range s {
		for _, joint := range frame {
			data = append(data, joint...)
		}
	}
	return mat.NewDense(frames, features, data), nil
}

// TransformOptions selects the steps of DefaultPipeline.
type TransformOptions struct {
	OriginJoint int     // joint moved to the origin; negative disables recentring
	Joints      []int   // joints kept after recentring; empty keeps all
	Coords      int     // leading coordinates treated as positions; 0 means all
	Normalise   bool    // standardise positions per sequence
	NoiseStdDev float64 // 0 disables noise
	NoiseSeed   int64
}

// DefaultPipeline builds recentre, filter joints, normalise and, when enabled,
// noise, in that order.
func DefaultPipeline(opts TransformOptions) Pipeline {
	var p Pipeline
	if opts.OriginJoint >= 0 {
		p = append(p, ChangePoseOrigin{Joint: opts.OriginJoint, Coords: opts.Coords})
	}
	p = append(p, FilterJoints{Keep: opts.Joints})
	if opts.Normalise {
		p = append(p, NormalisePoses{Coords: opts.Coords})
	}
	if opts.NoiseStdDev > 0 {
		p = append(p, AddNoise{StdDev: opts.NoiseStdDev, Seed: opts.NoiseSeed})
	}
	return p
}

func leading(n, total int) int {
	if n <= 0 || n > total {
		return total
	}
	return n
}
