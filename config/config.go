package config

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/openfluke/poseprep"
)

// EnvPrefix marks environment overrides. POSEPREP_SPLIT__TRAIN_SPLIT sets
// split.train_split.
const EnvPrefix = "POSEPREP_"

type Config struct {
	Paths      PathsConfig      `koanf:"paths"`
	Preprocess PreprocessConfig `koanf:"preprocess"`
	Dataset    DatasetConfig    `koanf:"dataset"`
	Split      SplitConfig      `koanf:"split"`
	Loader     LoaderConfig     `koanf:"loader"`
	Log        LogConfig        `koanf:"log"`
}

type PathsConfig struct {
	Extracted     string `koanf:"extracted"`
	TrimIntervals string `koanf:"trim_intervals"`
}

type PreprocessConfig struct {
	SkipTrim bool     `koanf:"skip_trim"`
	Ignore   []string `koanf:"ignore"`
}

type DatasetConfig struct {
	SeqLen      int     `koanf:"seq_len"`
	Stride      int     `koanf:"stride"`
	Subjects    []int   `koanf:"subjects"`
	Sessions    []int   `koanf:"sessions"`
	Views       []int   `koanf:"views"`
	OriginJoint int     `koanf:"origin_joint"`
	Joints      []int   `koanf:"joints"`
	Coords      int     `koanf:"coords"`
	Normalise   bool    `koanf:"normalise"`
	NoiseStdDev float64 `koanf:"noise_std_dev"`
	NoiseSeed   int64   `koanf:"noise_seed"`
}

type SplitConfig struct {
	Strategy          string  `koanf:"strategy"`
	TrainSplit        float64 `koanf:"train_split"`
	ValidationOfPool  float64 `koanf:"validation_of_pool"`
	ValidationOfTotal float64 `koanf:"validation_of_total"`
	Shuffle           bool    `koanf:"shuffle"`
	Seed              int64   `koanf:"seed"`
}

type LoaderConfig struct {
	BatchSize int   `koanf:"batch_size"`
	Workers   int   `koanf:"workers"`
	Seed      int64 `koanf:"seed"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// Default mirrors the settings the pipeline was tuned with.
func Default() Config {
	return Config{
		Paths: PathsConfig{
			Extracted:     "data/openpose/extracted/",
			TrimIntervals: "data/trim_intervals.json",
		},
		Dataset: DatasetConfig{
			SeqLen:      100,
			OriginJoint: 1,
			Coords:      2,
			Normalise:   true,
		},
		Split: SplitConfig{
			Strategy:         poseprep.StrategyPooled.String(),
			TrainSplit:       0.6,
			ValidationOfPool: 0.1,
			Shuffle:          true,
			Seed:             poseprep.DefaultSeed,
		},
		Loader: LoaderConfig{
			BatchSize: 2,
			Workers:   2,
			Seed:      poseprep.DefaultSeed,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads defaults, then the file at path (skipped when empty), then
// environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFrom(nil)
	}
	return LoadFrom(file.Provider(path))
}

// LoadFrom is Load with the file layer supplied by provider; nil skips it.
func LoadFrom(provider koanf.Provider) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, errorsmod.Wrapf(poseprep.ErrConfig, "loading defaults: %v", err)
	}
	if provider != nil {
		if err := k.Load(provider, yaml.Parser()); err != nil {
			return nil, errorsmod.Wrapf(poseprep.ErrConfig, "loading config: %v", err)
		}
	}
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil)
	if err != nil {
		return nil, errorsmod.Wrapf(poseprep.ErrConfig, "loading env: %v", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errorsmod.Wrapf(poseprep.ErrConfig, "unmarshalling config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would fail later in the pipeline.
func (c *Config) Validate() error {
	if _, err := c.SplitConfig(); err != nil {
		return err
	}
	if c.Dataset.SeqLen <= 0 {
		return errorsmod.Wrapf(poseprep.ErrConfig, "dataset.seq_len must be positive, got %d", c.Dataset.SeqLen)
	}
	if c.Dataset.Stride < 0 {
		return errorsmod.Wrapf(poseprep.ErrConfig, "dataset.stride must not be negative, got %d", c.Dataset.Stride)
	}
	if c.Loader.BatchSize <= 0 {
		return errorsmod.Wrapf(poseprep.ErrConfig, "loader.batch_size must be positive, got %d", c.Loader.BatchSize)
	}
	return nil
}

// SplitConfig converts the split section into a validated partitioner config.
func (c *Config) SplitConfig() (poseprep.SplitConfig, error) {
	strategy, err := poseprep.ParseStrategy(c.Split.Strategy)
	if err != nil {
		return poseprep.SplitConfig{}, err
	}
	sc := poseprep.SplitConfig{
		Strategy:          strategy,
		TrainSplit:        c.Split.TrainSplit,
		ValidationOfPool:  c.Split.ValidationOfPool,
		ValidationOfTotal: c.Split.ValidationOfTotal,
		Shuffle:           c.Split.Shuffle,
		Seed:              c.Split.Seed,
	}
	if err := sc.Validate(); err != nil {
		return poseprep.SplitConfig{}, err
	}
	return sc, nil
}

// DatasetOptions builds the windowing options and transform pipeline.
func (c *Config) DatasetOptions() poseprep.DatasetOptions {
	return poseprep.DatasetOptions{
		SeqLen: c.Dataset.SeqLen,
		Stride: c.Dataset.Stride,
		Limiter: poseprep.Limiter{
			Subjects: limit(c.Dataset.Subjects),
			Sessions: limit(c.Dataset.Sessions),
			Views:    limit(c.Dataset.Views),
		},
		Transform: poseprep.DefaultPipeline(poseprep.TransformOptions{
			OriginJoint: c.Dataset.OriginJoint,
			Joints:      c.Dataset.Joints,
			Coords:      c.Dataset.Coords,
			Normalise:   c.Dataset.Normalise,
			NoiseStdDev: c.Dataset.NoiseStdDev,
			NoiseSeed:   c.Dataset.NoiseSeed,
		}),
	}
}

// limit maps an empty limiter list to nil, which admits everything.
func limit(indices []int) []int {
	if len(indices) == 0 {
		return nil
	}
	return indices
}

// Preprocessor builds a preprocessor. Unless trimming is skipped, the trim
// table is read when the extracted directory turns out to exist.
func (c *Config) Preprocessor() *poseprep.Preprocessor {
	p := poseprep.NewPreprocessor(nil, c.Preprocess.SkipTrim, c.Preprocess.Ignore...)
	if !c.Preprocess.SkipTrim {
		path := c.Paths.TrimIntervals
		p.LoadTable = func() (poseprep.TrimTable, error) {
			return poseprep.LoadTrimTable(path)
		}
	}
	return p
}
