package poseprep

import (
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/google/uuid"
)

// SplitManifest records a partition so later runs can reuse it exactly.
type SplitManifest struct {
	RunID      string      `json:"run_id"`
	CreatedAt  time.Time   `json:"created_at"`
	DatasetLen int         `json:"dataset_len"`
	Config     SplitConfig `json:"config"`
	Train      []int       `json:"train"`
	Test       []int       `json:"test"`
	Validation []int       `json:"validation"`
	Keys       []string    `json:"keys,omitempty"` // sample keys by flat index
}

// NewSplitManifest captures the selectors produced by CreateSamplers.
func NewSplitManifest(cfg SplitConfig, datasetLen int, train, test, val *Selector, keys []string) *SplitManifest {
	return &SplitManifest{
		RunID:      uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		DatasetLen: datasetLen,
		Config:     cfg,
		Train:      train.Indices(),
		Test:       test.Indices(),
		Validation: val.Indices(),
		Keys:       keys,
	}
}

// Selectors rebuilds the train, test and validation selectors.
func (m *SplitManifest) Selectors() (train, test, val *Selector) {
	return NewSelector(m.Train), NewSelector(m.Test), NewSelector(m.Validation)
}

// Verify checks that the manifest partitions a dataset of datasetLen samples.
func (m *SplitManifest) Verify(datasetLen int) error {
	if m.DatasetLen != datasetLen {
		return errorsmod.Wrapf(ErrDataConsistency, "manifest %s was made for %d samples, dataset has %d", m.RunID, m.DatasetLen, datasetLen)
	}
	if m.Keys != nil && len(m.Keys) != datasetLen {
		return errorsmod.Wrapf(ErrDataConsistency, "manifest %s lists %d keys for %d samples", m.RunID, len(m.Keys), datasetLen)
	}
	train, test, val := m.Selectors()
	return VerifyPartition(datasetLen, train, test, val)
}

// SaveSplitManifest writes m to path as JSON.
func SaveSplitManifest(path string, m *SplitManifest) error {
	if err := WriteJSON(path, m); err != nil {
		return fmt.Errorf("failed to write split manifest: %w", err)
	}
	return nil
}

// LoadSplitManifest reads a manifest written by SaveSplitManifest.
func LoadSplitManifest(path string) (*SplitManifest, error) {
	var m SplitManifest
	if err := ReadJSON(path, &m, WithStrictFields()); err != nil {
		return nil, fmt.Errorf("failed to read split manifest: %w", err)
	}
	return &m, nil
}
