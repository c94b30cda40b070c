package poseprep

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestChangePoseOrigin(t *testing.T) {
	s := makeSequence(2, 3, 2)
	orig := s.Clone()

	out, err := ChangePoseOrigin{Joint: 1}.Apply(s)
	require.NoError(t, err)
	for f := range out {
		for j := range out[f] {
			for c := range out[f][j] {
				assert.Equal(t, float64((j-1)*10), out[f][j][c])
			}
		}
	}
	assert.Equal(t, orig, s, "input must not be modified")

	out, err = ChangePoseOrigin{Joint: 1, Coords: 1}.Apply(s)
	require.NoError(t, err)
	assert.Equal(t, float64(10), out[1][2][0])
	assert.Equal(t, s[1][2][1], out[1][2][1])

	_, err = ChangePoseOrigin{Joint: 3}.Apply(s)
	assert.True(t, errors.Is(err, ErrShape))

	out, err = ChangePoseOrigin{Joint: 7}.Apply(Sequence{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFilterJoints(t *testing.T) {
	s := makeSequence(3, 4, 2)

	out, err := FilterJoints{Keep: []int{2, 0}}.Apply(s)
	require.NoError(t, err)
	_, joints, _ := out.Shape()
	assert.Equal(t, 2, joints)
	assert.Equal(t, s[1][2], out[1][0])
	assert.Equal(t, s[1][0], out[1][1])

	out, err = FilterJoints{}.Apply(s)
	require.NoError(t, err)
	assert.Equal(t, s, out)

	_, err = FilterJoints{Keep: []int{4}}.Apply(s)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestNormalisePoses(t *testing.T) {
	s := makeSequence(10, 5, 3)

	out, err := NormalisePoses{Coords: 2}.Apply(s)
	require.NoError(t, err)

	for c := 0; c < 2; c++ {
		var values []float64
		for _, frame := range out {
			for _, joint := range frame {
				values = append(values, joint[c])
			}
		}
		mean, std := stat.MeanStdDev(values, nil)
		assert.InDelta(t, 0, mean, 1e-9)
		assert.InDelta(t, 1, std, 1e-9)
	}
	// third coordinate is left alone
	assert.Equal(t, s[4][3][2], out[4][3][2])
}

func TestNormalisePosesConstantAxis(t *testing.T) {
	s := Sequence{{{3, 1}, {3, 2}}, {{3, 3}, {3, 4}}}

	out, err := NormalisePoses{}.Apply(s)
	require.NoError(t, err)
	for _, frame := range out {
		for _, joint := range frame {
			assert.Equal(t, float64(0), joint[0])
		}
	}
}

func TestAddNoise(t *testing.T) {
	s := makeSequence(4, 3, 2)

	a, err := AddNoise{StdDev: 0.5, Seed: 7}.Apply(s)
	require.NoError(t, err)
	b, err := AddNoise{StdDev: 0.5, Seed: 7}.Apply(s)
	require.NoError(t, err)
	c, err := AddNoise{StdDev: 0.5, Seed: 8}.Apply(s)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, s, a)

	same, err := AddNoise{}.Apply(s)
	require.NoError(t, err)
	assert.Equal(t, s, same)
}

func TestToTensor(t *testing.T) {
	m, err := ToTensor(makeSequence(2, 3, 2))
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 6, c)
	assert.Equal(t, float64(111), m.At(1, 3))

	_, err = ToTensor(Sequence{})
	assert.True(t, errors.Is(err, ErrShape))
}

func TestDefaultPipeline(t *testing.T) {
	assert.Len(t, DefaultPipeline(TransformOptions{OriginJoint: -1}), 1)
	assert.Len(t, DefaultPipeline(TransformOptions{OriginJoint: 0, Normalise: true, NoiseStdDev: 0.1}), 4)

	out, err := DefaultPipeline(TransformOptions{OriginJoint: 0, Joints: []int{0, 2}}).Apply(makeSequence(3, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, Sequence{
		{{0, 0}, {20, 20}},
		{{0, 0}, {20, 20}},
		{{0, 0}, {20, 20}},
	}, out)
}

func TestPipelineStopsAtError(t *testing.T) {
	p := Pipeline{FilterJoints{Keep: []int{0}}, ChangePoseOrigin{Joint: 1}}
	_, err := p.Apply(makeSequence(2, 3, 2))
	assert.True(t, errors.Is(err, ErrShape))
}

func TestForSample(t *testing.T) {
	p := Pipeline{FilterJoints{Keep: []int{0}}, AddNoise{StdDev: 1, Seed: 7}}

	got := ForSample(p, 3).(Pipeline)
	assert.Equal(t, FilterJoints{Keep: []int{0}}, got[0])
	assert.Equal(t, AddNoise{StdDev: 1, Seed: 10}, got[1])
	assert.Equal(t, int64(7), p[1].(AddNoise).Seed, "original pipeline is untouched")

	assert.Equal(t, AddNoise{StdDev: 1, Seed: 5}, ForSample(AddNoise{StdDev: 1, Seed: 5}, 0))
	assert.Equal(t, NormalisePoses{}, ForSample(NormalisePoses{}, 9))
}
