package poseprep

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// DefaultSeed is the shuffle seed used unless a config overrides it.
const DefaultSeed int64 = 42

// MinTestSplit is the smallest test fraction StrategyAbsolute accepts.
const MinTestSplit = 0.1

// splitTolerance absorbs float error in 1 - (train + validation).
const splitTolerance = 1e-9

// Strategy selects how the validation subset is carved out.
type Strategy int

const (
	// StrategyPooled takes train+validation as one pool of TrainSplit of the
	// dataset, then takes ValidationOfPool of that pool as validation.
	StrategyPooled Strategy = iota
	// StrategyAbsolute treats TrainSplit and ValidationOfTotal as fractions of
	// the whole dataset; test receives the rest and must keep MinTestSplit.
	StrategyAbsolute
)

func (s Strategy) String() string {
	switch s {
	case StrategyPooled:
		return "pooled"
	case StrategyAbsolute:
		return "absolute"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy accepts "pooled" and "absolute", case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pooled":
		return StrategyPooled, nil
	case "absolute":
		return StrategyAbsolute, nil
	}
	return 0, errorsmod.Wrapf(ErrConfig, "unknown split strategy %q", s)
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// SplitConfig parameterises CreateSamplers. The two validation fields carry
// different meanings and only the one matching Strategy is read.
type SplitConfig struct {
	Strategy          Strategy `json:"strategy"`
	TrainSplit        float64  `json:"train_split"`         // pooled: train+validation pool; absolute: train
	ValidationOfPool  float64  `json:"validation_of_pool"`  // pooled only, fraction of the pool
	ValidationOfTotal float64  `json:"validation_of_total"` // absolute only, fraction of the dataset
	Shuffle           bool     `json:"shuffle"`
	Seed              int64    `json:"seed"`
}

// DefaultSplitConfig returns 80% train+validation with 20% of that pool used
// for validation, shuffled with DefaultSeed.
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{
		Strategy:         StrategyPooled,
		TrainSplit:       0.8,
		ValidationOfPool: 0.2,
		Shuffle:          true,
		Seed:             DefaultSeed,
	}
}

// TestSplit is the test fraction left over under StrategyAbsolute.
func (c SplitConfig) TestSplit() float64 {
	return 1 - (c.TrainSplit + c.ValidationOfTotal)
}

// Validate reports configurations CreateSamplers would reject.
//
// The absolute strategy's test share is compared against MinTestSplit with a
// tolerance of splitTolerance. A strict float comparison would reject
// train+validation pairs that sum to exactly 0.9 in decimal, such as 0.6 and
// 0.3, whenever 1-(train+validation) rounds just below 0.1.
func (c SplitConfig) Validate() error {
	if err := checkFraction("train_split", c.TrainSplit); err != nil {
		return err
	}
	switch c.Strategy {
	case StrategyPooled:
		return checkFraction("validation_of_pool", c.ValidationOfPool)
	case StrategyAbsolute:
		if err := checkFraction("validation_of_total", c.ValidationOfTotal); err != nil {
			return err
		}
		if test := c.TestSplit(); test < MinTestSplit-splitTolerance {
			return errorsmod.Wrapf(ErrConfig, "test split %.4f is below %.1f (train %.4f, validation %.4f)",
				test, MinTestSplit, c.TrainSplit, c.ValidationOfTotal)
		}
		return nil
	}
	return errorsmod.Wrapf(ErrConfig, "unknown split strategy %d", int(c.Strategy))
}

func checkFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return errorsmod.Wrapf(ErrConfig, "%s must be within [0, 1], got %v", name, v)
	}
	return nil
}

// CreateSamplers assigns every index in [0, datasetLen) to exactly one of
// train, test and validation. With Shuffle the indices are permuted by a
// source seeded with cfg.Seed first, so equal inputs give equal subsets.
//
// Each cut is taken from what the previous cut left, so the three subsets
// always add up to datasetLen whatever the rounding.
func CreateSamplers(datasetLen int, cfg SplitConfig) (train, test, val *Selector, err error) {
	if datasetLen < 0 {
		return nil, nil, nil, errorsmod.Wrapf(ErrConfig, "dataset length %d is negative", datasetLen)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	indices := make([]int, datasetLen)
	for i := range indices {
		indices[i] = i
	}
	if cfg.Shuffle {
		rng := rand.New(rand.NewSource(cfg.Seed))
		rng.Shuffle(len(indices), func(i, j int) { indices[i], indices[j] = indices[j], indices[i] })
	}

	switch cfg.Strategy {
	case StrategyPooled:
		trainTestCut := floorCut(cfg.TrainSplit, datasetLen, 0)
		pool, testIdx := indices[:trainTestCut], indices[trainTestCut:]

		trainValCut := floorCut(1-cfg.ValidationOfPool, len(pool), 0)
		train = NewSelector(pool[:trainValCut])
		val = NewSelector(pool[trainValCut:])
		test = NewSelector(testIdx)

	case StrategyAbsolute:
		testSplit := cfg.TestSplit()
		first := floorCut(cfg.TrainSplit, datasetLen, 0)
		second := floorCut(cfg.TrainSplit+testSplit, datasetLen, first)
		train = NewSelector(indices[:first])
		test = NewSelector(indices[first:second])
		val = NewSelector(indices[second:])
	}
	return train, test, val, nil
}

// floorCut returns floor(frac*n) clamped to [lo, n].
func floorCut(frac float64, n, lo int) int {
	cut := int(math.Floor(frac * float64(n)))
	if cut < lo {
		return lo
	}
	if cut > n {
		return n
	}
	return cut
}

// VerifyPartition checks that the selectors are pairwise disjoint and
// together cover [0, datasetLen).
func VerifyPartition(datasetLen int, selectors ...*Selector) error {
	owner := make([]int, datasetLen)
	for i := range owner {
		owner[i] = -1
	}
	for s, sel := range selectors {
		for _, idx := range sel.Indices() {
			if idx < 0 || idx >= datasetLen {
				return errorsmod.Wrapf(ErrDataConsistency, "index %d outside [0, %d)", idx, datasetLen)
			}
			if owner[idx] >= 0 {
				return errorsmod.Wrapf(ErrDataConsistency, "index %d is in subsets %d and %d", idx, owner[idx], s)
			}
			owner[idx] = s
		}
	}
	for idx, s := range owner {
		if s < 0 {
			return errorsmod.Wrapf(ErrDataConsistency, "index %d is in no subset", idx)
		}
	}
	return nil
}

// Selector is a read-only, random-access set of dataset indices.
type Selector struct {
	indices []int
	members map[int]struct{}
}

// NewSelector copies indices into a new Selector.
func NewSelector(indices []int) *Selector {
	s := &Selector{
		indices: append([]int(nil), indices...),
		members: make(map[int]struct{}, len(indices)),
	}
	for _, idx := range indices {
		s.members[idx] = struct{}{}
	}
	return s
}

// Len returns the number of indices. A nil Selector is empty.
func (s *Selector) Len() int {
	if s == nil {
		return 0
	}
	return len(s.indices)
}

// At returns the i-th index in selection order.
func (s *Selector) At(i int) int {
	return s.indices[i]
}

// Indices returns a copy of the indices in selection order.
func (s *Selector) Indices() []int {
	if s == nil {
		return nil
	}
	return append([]int(nil), s.indices...)
}

// Contains reports whether idx is selected.
func (s *Selector) Contains(idx int) bool {
	if s == nil {
		return false
	}
	_, ok := s.members[idx]
	return ok
}

// Permutation returns the indices in an order drawn from rng, the way a
// subset random sampler visits them once per epoch.
func (s *Selector) Permutation(rng *rand.Rand) []int {
	out := s.Indices()
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
