package model

// EstimatorState は推定器の学習状態を表す
type EstimatorState int

const (
	// NotFitted は Fit が呼ばれていない状態
	NotFitted EstimatorState = iota
	// Fitted は Fit が成功した状態
	Fitted
)

// BaseEstimator は推定器とエンコーダが埋め込む学習状態の基底構造体。
// Fit の成功時に SetFitted を呼び、Predict や Transform の先頭で
// IsFitted を確認して NotFittedError を返すのが想定された使い方。
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted は Fit が完了しているかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted は学習済み状態に遷移させる。Fit の成功時にのみ呼ぶこと
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset は未学習状態に戻す。再学習の前に呼ぶ
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
