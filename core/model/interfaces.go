package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// CloneableEstimator は複製可能な学習・予測モデルのインターフェース。
// 評価ハーネスはこの抽象のみを通じてモデルを扱い、内部には触れない。
type CloneableEstimator interface {
	Fitter
	Predictor

	// Clone は同じハイパーパラメータを持つ未学習のインスタンスを返す
	Clone() CloneableEstimator
}

// LabelTransformer は1次元のラベル列を変換するインターフェース。
// 行列全体ではなくターゲット変数のエンコードに使われる。
type LabelTransformer interface {
	// Fit はラベル列から変換に必要な情報を学習する
	Fit(y []string) error

	// Transform はラベル列を数値コード列に変換する
	Transform(y []string) ([]float64, error)

	// InverseTransform は数値コード列を元のラベル列に戻す
	InverseTransform(codes []float64) ([]string, error)
}
