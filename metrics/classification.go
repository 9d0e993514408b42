package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/bmmalone/missingdata/pkg/errors"
)

// Accuracy は正解率（一致したラベルの割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ErrorRate は誤分類率（1 - Accuracy）を計算する
func ErrorRate(yTrue, yPred *mat.VecDense) (float64, error) {
	accuracy, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - accuracy, nil
}
