package poseprep

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/openfluke/poseprep/logger"
)

// RunConfig defines the epoch loop driven by Runner.
type RunConfig struct {
	Epochs       int     // number of passes over the train subset
	EarlyStopAcc float64 // stop once validation accuracy reaches this; 0 disables
}

// StepFunc consumes one batch. Optimisation happens entirely inside it.
type StepFunc func(ctx context.Context, epoch, index int, batch Batch) error

// EpochReport summarises one finished epoch.
type EpochReport struct {
	Epoch              int
	Batches            int
	ValidationAccuracy float64
	Duration           time.Duration
}

// Runner feeds the train subset to Step epoch after epoch and scores the
// validation subset with Predictor after each one.
type Runner struct {
	Train      *Loader
	Validation *Selector
	Predictor  Predictor // optional; without it no validation is scored
	Step       StepFunc
	Config     RunConfig
}

// Run executes the configured epochs and returns one report per epoch run.
func (r *Runner) Run(ctx context.Context) ([]EpochReport, error) {
	if r.Step == nil {
		return nil, errorsmod.Wrap(ErrConfig, "runner has no step function")
	}
	if r.Config.Epochs <= 0 {
		return nil, errorsmod.Wrapf(ErrConfig, "epochs must be positive, got %d", r.Config.Epochs)
	}

	var reports []EpochReport
	for epoch := 0; epoch < r.Config.Epochs; epoch++ {
		start := time.Now()
		report := EpochReport{Epoch: epoch}

		err := r.Train.ForEach(ctx, epoch, func(i int, b Batch) error {
			report.Batches++
			return r.Step(ctx, epoch, i, b)
		})
		if err != nil {
			return reports, err
		}

		if r.Predictor != nil {
			acc, err := ComputeAccuracy(r.Predictor, r.Train.Dataset, r.Validation)
			if err != nil {
				return reports, err
			}
			report.ValidationAccuracy = acc
		}
		report.Duration = time.Since(start)
		reports = append(reports, report)

		log := logger.With().
			Int("epoch", epoch).
			Int("batches", report.Batches).
			Float64("val_acc", report.ValidationAccuracy).
			Dur("took", report.Duration).
			Logger()
		log.Info().Msg("epoch finished")

		if r.Predictor != nil && r.Config.EarlyStopAcc > 0 && report.ValidationAccuracy >= r.Config.EarlyStopAcc {
			logger.Info("early stop triggered (validation accuracy)")
			break
		}
	}
	return reports, nil
}
