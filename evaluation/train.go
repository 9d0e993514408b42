package evaluation

import (
	"gonum.org/v1/gonum/mat"

	"github.com/bmmalone/missingdata/core/model"
	"github.com/bmmalone/missingdata/pkg/errors"
)

// Model is the estimator abstraction consumed by the harness: a
// cloneable fit/predict pair. The harness never inspects model
// internals; it only needs a fresh, unfitted copy per training variant.
type Model = model.CloneableEstimator

// TrainingResult holds the two fitted models and the four prediction
// vectors of the factorial protocol. The two-letter suffix reads
// (training variant, test variant): PredCI is the complete-trained
// model evaluated on the incomplete test data.
type TrainingResult struct {
	ModelComplete   Model
	ModelIncomplete Model

	PredCC *mat.VecDense
	PredCI *mat.VecDense
	PredIC *mat.VecDense
	PredII *mat.VecDense

	YTest *mat.VecDense
}

// TrainOnIncompleteData performs all combinations of training and
// testing for the model and the paired dataset. One clone is fit on the
// complete training data and one on the incomplete training data; both
// are then evaluated on both test variants. Any fit or predict failure
// propagates unmodified to the caller.
func TrainOnIncompleteData(m Model, data *IncompleteDataset) (*TrainingResult, error) {
	modelComplete := m.Clone()
	if err := modelComplete.Fit(data.XTrainComplete, data.YTrain); err != nil {
		return nil, err
	}

	modelIncomplete := m.Clone()
	if err := modelIncomplete.Fit(data.XTrainIncomplete, data.YTrain); err != nil {
		return nil, err
	}

	predCC, err := modelComplete.Predict(data.XTestComplete)
	if err != nil {
		return nil, err
	}
	predCI, err := modelComplete.Predict(data.XTestIncomplete)
	if err != nil {
		return nil, err
	}
	predIC, err := modelIncomplete.Predict(data.XTestComplete)
	if err != nil {
		return nil, err
	}
	predII, err := modelIncomplete.Predict(data.XTestIncomplete)
	if err != nil {
		return nil, err
	}

	result := &TrainingResult{
		ModelComplete:   modelComplete,
		ModelIncomplete: modelIncomplete,
		YTest:           mat.VecDenseCopyOf(data.YTest),
	}
	if result.PredCC, err = columnVector(predCC); err != nil {
		return nil, err
	}
	if result.PredCI, err = columnVector(predCI); err != nil {
		return nil, err
	}
	if result.PredIC, err = columnVector(predIC); err != nil {
		return nil, err
	}
	if result.PredII, err = columnVector(predII); err != nil {
		return nil, err
	}
	return result, nil
}

// columnVector flattens an n×1 prediction matrix into a vector.
func columnVector(pred mat.Matrix) (*mat.VecDense, error) {
	r, c := pred.Dims()
	if c != 1 {
		return nil, errors.NewValueError("TrainOnIncompleteData", "model predictions must be a column vector (n×1 matrix)")
	}
	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		out.SetVec(i, pred.At(i, 0))
	}
	return out, nil
}
