package poseprep

import (
	"fmt"
	"sort"

	errorsmod "cosmossdk.io/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/openfluke/poseprep/logger"
)

// Limiter restricts which recordings enter a dataset. Each list holds indices
// into the sorted unique names of that axis; a nil list admits everything.
//
// With subjects s0..s9, Limiter{Subjects: []int{0}, Sessions: []int{0, 1}}
// admits every view of s0_s0 and s0_s1.
type Limiter struct {
	Subjects []int
	Sessions []int
	Views    []int
}

// DatasetOptions controls windowing and the per-window transform.
type DatasetOptions struct {
	SeqLen    int       // frames per prepared sample
	Stride    int       // frames between window starts; 0 means SeqLen
	Limiter   Limiter   //
	Transform Transform // applied to every window before ToTensor, reseeded per sample; nil skips it
}

// Sample is one prepared, fixed-length sequence.
type Sample struct {
	Sequence  *mat.Dense // [seq_len, features]
	Key       string     // subject_session_view of the source recording
	SeqIdx    int        // window index within the recording
	Label     int        // index of the subject in Dataset.Classes
	Recording RecordingID
}

// Dataset is a flat, indexable collection of prepared samples.
type Dataset struct {
	samples []Sample
	classes []string
}

// NewDataset windows the admitted recordings and prepares every window.
func NewDataset(recordings []Recording, opts DatasetOptions) (*Dataset, error) {
	if opts.SeqLen <= 0 {
		return nil, errorsmod.Wrapf(ErrConfig, "seq_len must be positive, got %d", opts.SeqLen)
	}
	stride := opts.Stride
	if stride == 0 {
		stride = opts.SeqLen
	}
	if stride < 0 {
		return nil, errorsmod.Wrapf(ErrConfig, "stride must not be negative, got %d", stride)
	}

	recs := append([]Recording(nil), recordings...)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ID.Key() < recs[j].ID.Key() })

	subjects, err := admitted(recs, func(id RecordingID) string { return id.Subject }, opts.Limiter.Subjects, "subject")
	if err != nil {
		return nil, err
	}
	sessions, err := admitted(recs, func(id RecordingID) string { return id.Session }, opts.Limiter.Sessions, "session")
	if err != nil {
		return nil, err
	}
	views, err := admitted(recs, func(id RecordingID) string { return id.View }, opts.Limiter.Views, "view")
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	labels := make(map[string]int)
	for _, rec := range recs {
		id := rec.ID
		if !subjects[id.Subject] || !sessions[id.Session] || !views[id.View] {
			continue
		}
		if _, ok := labels[id.Subject]; !ok {
			labels[id.Subject] = -1
		}
	}
	for subject := range labels {
		ds.classes = append(ds.classes, subject)
	}
	sort.Strings(ds.classes)
	for i, subject := range ds.classes {
		labels[subject] = i
	}

	for _, rec := range recs {
		id := rec.ID
		label, ok := labels[id.Subject]
		if !ok || !sessions[id.Session] || !views[id.View] {
			continue
		}
		windows := Windows(rec.Data, opts.SeqLen, stride)
		if len(windows) == 0 {
			logger.Warnf("%s has %d frames, fewer than seq_len %d; no samples", id.Key(), len(rec.Data), opts.SeqLen)
			continue
		}
		for w, window := range windows {
			prepared := window
			if opts.Transform != nil {
				if prepared, err = ForSample(opts.Transform, len(ds.samples)).Apply(window); err != nil {
					return nil, fmt.Errorf("%s window %d: %w", id.Key(), w, err)
				}
			}
			m, err := ToTensor(prepared)
			if err != nil {
				return nil, fmt.Errorf("%s window %d: %w", id.Key(), w, err)
			}
			ds.samples = append(ds.samples, Sample{
				Sequence:  m,
				Key:       id.Key(),
				SeqIdx:    w,
				Label:     label,
				Recording: id,
			})
		}
	}

	logger.Infof("dataset holds %d samples from %d subjects", len(ds.samples), len(ds.classes))
	return ds, nil
}

// admitted returns the set of names on one axis that the limiter lets through.
func admitted(recs []Recording, axis func(RecordingID) string, allow []int, what string) (map[string]bool, error) {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range recs {
		n := axis(rec.ID)
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	sort.Strings(names)

	if allow == nil {
		return seen, nil
	}
	out := make(map[string]bool, len(allow))
	for _, i := range allow {
		if i < 0 || i >= len(names) {
			return nil, errorsmod.Wrapf(ErrConfig, "%s index %d outside [0, %d)", what, i, len(names))
		}
		out[names[i]] = true
	}
	return out, nil
}

// Len returns the number of prepared samples.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.samples)
}

// Get returns the sample at flat index i.
func (d *Dataset) Get(i int) (Sample, error) {
	if i < 0 || i >= d.Len() {
		return Sample{}, errorsmod.Wrapf(ErrIndex, "sample %d outside [0, %d)", i, d.Len())
	}
	return d.samples[i], nil
}

// Classes lists subject names; a sample's Label indexes into it.
func (d *Dataset) Classes() []string {
	return append([]string(nil), d.classes...)
}

// Keys lists every sample key as "key#seq_idx", in index order.
func (d *Dataset) Keys() []string {
	keys := make([]string, len(d.samples))
	for i, s := range d.samples {
		keys[i] = fmt.Sprintf("%s#%d", s.Key, s.SeqIdx)
	}
	return keys
}

// DescribeSample renders the index, key and dimensions of a sample.
func DescribeSample(s Sample) string {
	r, c := s.Sequence.Dims()
	return fmt.Sprintf("Dataset instance with index %d and key '%s'\n\tlabel: %d\n\tdimensions: %dx%d", s.SeqIdx, s.Key, s.Label, r, c)
}
