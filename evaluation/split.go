// Package evaluation builds matched complete/incomplete dataset splits
// and runs the factorial train/test protocol that isolates whether
// missingness hurts a model more during training or during inference.
package evaluation

import (
	"log/slog"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/bmmalone/missingdata/pkg/errors"
	"github.com/bmmalone/missingdata/pkg/log"
)

// DefaultNumFolds matches the original tooling's cross-validation default.
const DefaultNumFolds = 10

// Fold holds the row indices of one cross-validation partition.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// StratifiedKFold partitions samples into folds that preserve class
// proportions. Fold assignment is fully deterministic for a given
// (labels, NumFolds, Seed) combination.
type StratifiedKFold struct {
	NumFolds int
	Shuffle  bool
	Seed     uint64
}

// NewStratifiedKFold creates a stratified splitter. Fewer than two
// folds falls back to DefaultNumFolds.
func NewStratifiedKFold(numFolds int, shuffle bool, seed uint64) *StratifiedKFold {
	if numFolds < 2 {
		numFolds = DefaultNumFolds
	}
	return &StratifiedKFold{NumFolds: numFolds, Shuffle: shuffle, Seed: seed}
}

// Split generates train/test indices for each fold from the class
// labels in y. Each class's samples are distributed across the folds so
// every fold approximates the overall class proportions.
func (skf *StratifiedKFold) Split(y *mat.VecDense) ([]Fold, error) {
	nSamples := y.Len()
	if nSamples == 0 {
		return nil, errors.NewModelError("StratifiedKFold.Split", "empty data", errors.ErrEmptyData)
	}
	if skf.NumFolds > nSamples {
		return nil, errors.NewValidationError("NumFolds", "cannot exceed the number of samples", skf.NumFolds)
	}

	// group sample indices by class
	classIndices := make(map[float64][]int)
	for i := 0; i < nSamples; i++ {
		label := y.AtVec(i)
		classIndices[label] = append(classIndices[label], i)
	}

	// iterate classes in sorted order; map iteration order must not
	// leak into the fold assignment
	labels := make([]float64, 0, len(classIndices))
	for label := range classIndices {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	// every class must be able to place at least one sample in each
	// fold, otherwise some folds end up with empty test sets
	for _, label := range labels {
		if len(classIndices[label]) < skf.NumFolds {
			return nil, errors.NewValidationError("NumFolds",
				"cannot exceed the number of members in each class", skf.NumFolds)
		}
	}

	if skf.Shuffle {
		rng := rand.New(rand.NewPCG(skf.Seed, skf.Seed))
		for _, label := range labels {
			indices := classIndices[label]
			rng.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]Fold, skf.NumFolds)

	// deal each class's samples across the folds
	for _, label := range labels {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / skf.NumFolds
		remainder := nClass % skf.NumFolds

		currentIdx := 0
		for i := 0; i < skf.NumFolds; i++ {
			testSize := foldSize
			if i < remainder {
				testSize++
			}
			for j := 0; j < testSize && currentIdx < nClass; j++ {
				folds[i].TestIndices = append(folds[i].TestIndices, indices[currentIdx])
				currentIdx++
			}
		}
	}

	// train sets are the complement of each test set, in row order
	for i := 0; i < skf.NumFolds; i++ {
		testSet := make(map[int]bool, len(folds[i].TestIndices))
		for _, idx := range folds[i].TestIndices {
			testSet[idx] = true
		}
		for j := 0; j < nSamples; j++ {
			if !testSet[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}

	return folds, nil
}

// IncompleteDataset pairs the complete and incomplete views of one
// cross-validation fold. The complete and incomplete members of each
// split are built from identical row selections, so row i of
// XTrainComplete and XTrainIncomplete describe the same observation.
type IncompleteDataset struct {
	XTrainComplete   *mat.Dense
	XTrainIncomplete *mat.Dense
	XTestComplete    *mat.Dense
	XTestIncomplete  *mat.Dense
	YTrain           *mat.VecDense
	YTest            *mat.VecDense
}

// SplitIncompleteData performs a stratified k-fold split over the
// complete matrix and its labels, selects the requested fold, and
// derives the train/test views of both matrices using the same row
// indices. XIncomplete must have been derived from XComplete (same
// shape, same row correspondence), typically by the missing package.
//
// All returned matrices are freshly allocated; the inputs are never
// modified.
func SplitIncompleteData(XComplete, XIncomplete mat.Matrix, y *mat.VecDense, fold, numFolds int, seed uint64) (*IncompleteDataset, error) {
	const op = "SplitIncompleteData"

	rc, cc := XComplete.Dims()
	ri, ci := XIncomplete.Dims()
	if rc != ri {
		return nil, errors.NewDimensionError(op, rc, ri, 0)
	}
	if cc != ci {
		return nil, errors.NewDimensionError(op, cc, ci, 1)
	}
	if y.Len() != rc {
		return nil, errors.NewDimensionError(op, rc, y.Len(), 0)
	}
	if numFolds < 2 {
		return nil, errors.NewValidationError("numFolds", "must be at least 2", numFolds)
	}
	if fold < 0 || fold >= numFolds {
		return nil, errors.NewValidationError("fold", "must be in [0, numFolds)", fold)
	}

	skf := NewStratifiedKFold(numFolds, true, seed)
	folds, err := skf.Split(y)
	if err != nil {
		return nil, err
	}
	selected := folds[fold]

	ds := &IncompleteDataset{
		XTrainComplete:   takeRows(XComplete, selected.TrainIndices),
		XTrainIncomplete: takeRows(XIncomplete, selected.TrainIndices),
		XTestComplete:    takeRows(XComplete, selected.TestIndices),
		XTestIncomplete:  takeRows(XIncomplete, selected.TestIndices),
		YTrain:           takeVec(y, selected.TrainIndices),
		YTest:            takeVec(y, selected.TestIndices),
	}

	slog.Debug("materialized incomplete dataset fold",
		log.OperationKey, "split",
		log.FoldKey, fold,
		log.NumFoldsKey, numFolds,
		log.SeedKey, seed,
		log.SamplesKey, rc,
		log.FeaturesKey, cc,
	)
	return ds, nil
}

// takeRows copies the selected rows of X into a new matrix, preserving
// the order of indices.
func takeRows(X mat.Matrix, indices []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(indices), c, nil)
	row := make([]float64, c)
	for i, idx := range indices {
		mat.Row(row, idx, X)
		out.SetRow(i, row)
	}
	return out
}

// takeVec copies the selected entries of y into a new vector.
func takeVec(y *mat.VecDense, indices []int) *mat.VecDense {
	out := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		out.SetVec(i, y.AtVec(idx))
	}
	return out
}
