package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/bmmalone/missingdata/pkg/errors"
)

// MissingFraction は行列全体における欠損セル（NaN）の割合を計算する
func MissingFraction(X mat.Matrix) (float64, error) {
	fractions, err := ColumnMissingFractions(X)
	if err != nil {
		return 0, err
	}
	return stat.Mean(fractions, nil), nil
}

// ColumnMissingFractions は各特徴量（列）ごとの欠損セルの割合を計算する
func ColumnMissingFractions(X mat.Matrix) ([]float64, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError("ColumnMissingFractions", "empty matrix")
	}

	fractions := make([]float64, c)
	indicator := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			if math.IsNaN(X.At(i, j)) {
				indicator[i] = 1
			} else {
				indicator[i] = 0
			}
		}
		fractions[j] = stat.Mean(indicator, nil)
	}
	return fractions, nil
}
