// Package linear は線形回帰モデルを提供する。
// 評価ハーネスの具体的なモデル実装として利用できる。
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/bmmalone/missingdata/core/model"
	"github.com/bmmalone/missingdata/core/parallel"
	"github.com/bmmalone/missingdata/pkg/errors"
)

// LinearRegression は正規方程式による線形回帰モデル
type LinearRegression struct {
	model.BaseEstimator

	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	NFeatures int           // 特徴量の数

	fitIntercept bool
}

// Option はLinearRegressionを設定する関数
type Option func(*LinearRegression)

// WithFitIntercept は切片を学習するかどうかを設定する（デフォルト: true）
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{fitIntercept: true}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Clone は同じハイパーパラメータを持つ未学習のインスタンスを返す
func (lr *LinearRegression) Clone() model.CloneableEstimator {
	return &LinearRegression{fitIntercept: lr.fitIntercept}
}

// Fit はモデルを訓練データで学習させる
// 正規方程式 w = (X^T * X)^(-1) * X^T * y を使用
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	// 入力の検証
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	lr.NFeatures = c

	intercept := 0
	if lr.fitIntercept {
		intercept = 1
	}

	// 切片項のために X に 1 の列を追加
	XDesign := mat.NewDense(r, c+intercept, nil)

	// 並列処理の閾値（この値以下の行数では逐次処理を使用）
	const parallelThreshold = 1000

	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if lr.fitIntercept {
				XDesign.Set(i, 0, 1.0)
			}
			for j := 0; j < c; j++ {
				XDesign.Set(i, j+intercept, X.At(i, j))
			}
		}
	})

	// 正規方程式を解く: (X^T * X)^(-1) * X^T * y
	var XT mat.Dense
	XT.CloneFrom(XDesign.T())

	var XTX mat.Dense
	XTX.Mul(&XT, XDesign)

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var XTy mat.VecDense
	XTy.MulVec(&XT, yVec)

	weights := mat.NewVecDense(c+intercept, nil)
	weights.MulVec(&XTXInv, &XTy)

	// 切片と重みを分離
	if lr.fitIntercept {
		lr.Intercept = weights.AtVec(0)
	} else {
		lr.Intercept = 0
	}
	lr.Weights = mat.NewVecDense(c, nil)
	for i := 0; i < c; i++ {
		lr.Weights.SetVec(i, weights.AtVec(i+intercept))
	}

	lr.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	// 予測: y = X * weights + intercept
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := lr.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()

	var yMean float64
	for i := 0; i < r; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(r)

	// 全変動 (TSS) と残差変動 (RSS) を計算
	var tss, rss float64
	for i := 0; i < r; i++ {
		yTrue := y.At(i, 0)
		yPredVal := yPred.At(i, 0)

		tss += (yTrue - yMean) * (yTrue - yMean)
		rss += (yTrue - yPredVal) * (yTrue - yPredVal)
	}

	if tss == 0 {
		return 0, errors.Newf("total sum of squares is zero")
	}
	return 1 - rss/tss, nil
}
