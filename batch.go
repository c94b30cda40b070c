package poseprep

import (
	"context"
	"math/rand"

	errorsmod "cosmossdk.io/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Batch is a group of samples handed to a training or evaluation step.
type Batch struct {
	Indices   []int        // flat dataset indices
	Sequences []*mat.Dense // each [seq_len, features]
	Labels    []int
	Keys      []string
}

func (b Batch) Len() int {
	return len(b.Indices)
}

// Tensor copies the batch into a [batch, seq_len, features] array.
func (b Batch) Tensor() [][][]float64 {
	out := make([][][]float64, len(b.Sequences))
	for i, m := range b.Sequences {
		rows, _ := m.Dims()
		out[i] = make([][]float64, rows)
		for r := 0; r < rows; r++ {
			out[i][r] = mat.Row(nil, r, m)
		}
	}
	return out
}

// Loader iterates one subset of a dataset in batches.
type Loader struct {
	Dataset   *Dataset
	Selector  *Selector
	BatchSize int
	Workers   int   // batches assembled concurrently; <= 1 assembles serially
	Shuffle   bool  // reorder the subset every epoch
	Seed      int64 // base seed; epoch e uses Seed+e
}

// Order returns the dataset indices visited in the given epoch.
func (l *Loader) Order(epoch int) []int {
	if !l.Shuffle {
		return l.Selector.Indices()
	}
	return l.Selector.Permutation(rand.New(rand.NewSource(l.Seed + int64(epoch))))
}

// Batches builds every batch of the given epoch. The last batch may be short.
func (l *Loader) Batches(ctx context.Context, epoch int) ([]Batch, error) {
	if l.BatchSize <= 0 {
		return nil, errorsmod.Wrapf(ErrConfig, "batch size must be positive, got %d", l.BatchSize)
	}
	order := l.Order(epoch)
	batches := make([]Batch, (len(order)+l.BatchSize-1)/l.BatchSize)

	g, ctx := errgroup.WithContext(ctx)
	if l.Workers > 1 {
		g.SetLimit(l.Workers)
	} else {
		g.SetLimit(1)
	}
	for b := range batches {
		b := b
		start := b * l.BatchSize
		end := min(start+l.BatchSize, len(order))
		chunk := order[start:end]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batch, err := l.assemble(chunk)
			if err != nil {
				return err
			}
			batches[b] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func (l *Loader) assemble(indices []int) (Batch, error) {
	b := Batch{
		Indices:   append([]int(nil), indices...),
		Sequences: make([]*mat.Dense, len(indices)),
		Labels:    make([]int, len(indices)),
		Keys:      make([]string, len(indices)),
	}
	for i, idx := range indices {
		s, err := l.Dataset.Get(idx)
		if err != nil {
			return Batch{}, err
		}
		b.Sequences[i] = s.Sequence
		b.Labels[i] = s.Label
		b.Keys[i] = s.Key
	}
	return b, nil
}

// ForEach passes every (batch index, batch) pair of an epoch to fn, in order,
// and stops at the first error.
func (l *Loader) ForEach(ctx context.Context, epoch int, fn func(i int, b Batch) error) error {
	batches, err := l.Batches(ctx, epoch)
	if err != nil {
		return err
	}
	for i, b := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(i, b); err != nil {
			return err
		}
	}
	return nil
}
