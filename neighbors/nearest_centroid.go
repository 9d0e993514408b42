// Package neighbors は最近傍重心分類器を提供する。
// 欠損値（NaN）を許容するため、欠損データ評価のベースラインモデルとして使える。
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/bmmalone/missingdata/core/model"
	"github.com/bmmalone/missingdata/pkg/errors"
)

// NearestCentroid は最近傍重心分類器。
// 各クラスの重心を学習し、予測時には最も近い重心のクラスを返す。
// 学習・予測の両方で欠損セル（NaN）は無視されるため、
// 不完全な行列でもそのまま扱える。
type NearestCentroid struct {
	model.BaseEstimator

	// Centroids は各クラスの重心（クラス数 × 特徴量数）。
	// 観測値が一つもない特徴量の重心は NaN になる。
	Centroids *mat.Dense

	// ClassLabels は自然順にソートされたクラスラベル
	ClassLabels []float64

	// NFeatures は特徴量の数
	NFeatures int
}

// NewNearestCentroid は新しいNearestCentroidを作成する
func NewNearestCentroid() *NearestCentroid {
	return &NearestCentroid{}
}

// Clone は未学習の新しいインスタンスを返す
func (nc *NearestCentroid) Clone() model.CloneableEstimator {
	return &NearestCentroid{}
}

// Fit は各クラスの重心を計算する。欠損セルは平均から除外される。
func (nc *NearestCentroid) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("NearestCentroid.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("NearestCentroid.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("NearestCentroid.Fit", "y must be a column vector")
	}

	classRows := make(map[float64][]int)
	for i := 0; i < r; i++ {
		label := y.At(i, 0)
		classRows[label] = append(classRows[label], i)
	}

	nc.ClassLabels = make([]float64, 0, len(classRows))
	for label := range classRows {
		nc.ClassLabels = append(nc.ClassLabels, label)
	}
	sort.Float64s(nc.ClassLabels)

	nc.NFeatures = c
	nc.Centroids = mat.NewDense(len(nc.ClassLabels), c, nil)

	for k, label := range nc.ClassLabels {
		rows := classRows[label]
		for j := 0; j < c; j++ {
			sum, count := 0.0, 0
			for _, i := range rows {
				v := X.At(i, j)
				if !math.IsNaN(v) {
					sum += v
					count++
				}
			}
			if count == 0 {
				nc.Centroids.Set(k, j, math.NaN())
			} else {
				nc.Centroids.Set(k, j, sum/float64(count))
			}
		}
	}

	nc.SetFitted()
	return nil
}

// Predict は最も近い重心のクラスラベルを返す。
// 距離はサンプルと重心の両方で観測されている特徴量のみで計算し、
// 比較可能な次元数で正規化する。
func (nc *NearestCentroid) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !nc.IsFitted() {
		return nil, errors.NewNotFittedError("NearestCentroid", "Predict")
	}

	r, c := X.Dims()
	if c != nc.NFeatures {
		return nil, errors.NewDimensionError("NearestCentroid.Predict", nc.NFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		best := 0
		bestDist := math.Inf(1)
		for k := range nc.ClassLabels {
			dist, comparable := 0.0, 0
			for j := 0; j < c; j++ {
				v := X.At(i, j)
				centroid := nc.Centroids.At(k, j)
				if math.IsNaN(v) || math.IsNaN(centroid) {
					continue
				}
				diff := v - centroid
				dist += diff * diff
				comparable++
			}
			if comparable == 0 {
				continue
			}
			// 比較可能な次元数で平均をとる（欠損の多い行を不利にしない）
			dist /= float64(comparable)
			if dist < bestDist {
				bestDist = dist
				best = k
			}
		}
		predictions.Set(i, 0, nc.ClassLabels[best])
	}
	return predictions, nil
}
