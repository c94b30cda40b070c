// metrics.go
package poseprep

import (
	"gonum.org/v1/gonum/mat"
)

// Predictor is the sequence classifier: one [seq_len, features] sequence in,
// one logit per class out.
type Predictor interface {
	Predict(sequence *mat.Dense) ([]float64, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(*mat.Dense) ([]float64, error)

func (f PredictorFunc) Predict(sequence *mat.Dense) ([]float64, error) {
	return f(sequence)
}

// Classify returns the most likely class and its softmax probability.
func Classify(p Predictor, sequence *mat.Dense) (class int, prob float64, err error) {
	logits, err := p.Predict(sequence)
	if err != nil {
		return -1, 0, err
	}
	probs := Softmax(logits)
	class = ArgMax(probs)
	if class < 0 {
		return -1, 0, nil
	}
	return class, probs[class], nil
}

// ComputeAccuracy calculates the share of selected samples whose predicted
// class equals their label. An empty selection scores 0.
func ComputeAccuracy(p Predictor, ds *Dataset, sel *Selector) (float64, error) {
	if sel.Len() == 0 {
		return 0, nil
	}
	correct := 0
	for _, idx := range sel.Indices() {
		s, err := ds.Get(idx)
		if err != nil {
			return 0, err
		}
		pred, _, err := Classify(p, s.Sequence)
		if err != nil {
			return 0, err
		}
		if pred == s.Label {
			correct++
		}
	}
	return float64(correct) / float64(sel.Len()), nil
}
