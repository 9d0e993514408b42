// Package preprocessing は欠損値を許容するラベルエンコーディングを提供する。
package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"github.com/bmmalone/missingdata/core/model"
	"github.com/bmmalone/missingdata/pkg/errors"
)

// MissingLabel は入力ラベル列における欠損値の表現。
// 空文字列のラベルは「欠損」として扱われる。
const MissingLabel = ""

// DefaultMissingValueMarker は内部で欠損を表すセンチネルクラスのデフォルト値
const DefaultMissingValueMarker = "---NaN---"

// NaNLabelEncoder は欠損値を扱えるラベルエンコーダー。
// ラベル列を整数コード列に変換し、欠損値（MissingLabel）は
// 出力側では NaN プレースホルダーとして表現される。
// クラスリストの最終インデックスはセンチネル（欠損・未知ラベル用）に予約される。
type NaNLabelEncoder struct {
	model.BaseEstimator

	// MissingValueMarker は内部で欠損を表すセンチネルクラスの値。
	// 実データに現れてはならない。
	MissingValueMarker string

	// Labels は学習データに現れなくても考慮したい既知ラベルのリスト。
	// Fit 後は学習されたクラス（センチネルを除く）に更新される。
	Labels []string

	// TreatUnknownAsMissing が true の場合、Transform は未知のラベルを
	// センチネルの整数コードに置き換える。false の場合はエラーになる。
	TreatUnknownAsMissing bool

	// Classes は学習されたクラスのリスト。自然順にソートされ、
	// 最終要素は常にセンチネル。Fit 以降は不変。
	Classes []string

	classIndex map[string]int
}

// Option はNaNLabelEncoderを設定する関数
type Option func(*NaNLabelEncoder)

// WithMissingValueMarker は内部センチネルの値を設定する
func WithMissingValueMarker(marker string) Option {
	return func(e *NaNLabelEncoder) {
		e.MissingValueMarker = marker
	}
}

// WithLabels は学習データに現れない既知ラベルを事前に宣言する
func WithLabels(labels []string) Option {
	return func(e *NaNLabelEncoder) {
		e.Labels = append([]string(nil), labels...)
	}
}

// WithTreatUnknownAsMissing は未知ラベルを欠損として扱うかどうかを設定する
func WithTreatUnknownAsMissing(treat bool) Option {
	return func(e *NaNLabelEncoder) {
		e.TreatUnknownAsMissing = treat
	}
}

// NewNaNLabelEncoder は新しいNaNLabelEncoderを作成する
//
// 使用例:
//
//	encoder := preprocessing.NewNaNLabelEncoder(
//	    preprocessing.WithTreatUnknownAsMissing(true),
//	)
//	err := encoder.Fit(y)
//	codes, err := encoder.Transform(y)
func NewNaNLabelEncoder(opts ...Option) *NaNLabelEncoder {
	e := &NaNLabelEncoder{
		MissingValueMarker: DefaultMissingValueMarker,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fit はラベル列からクラスリストを学習する。
// クラスリストは観測された非欠損ラベルと事前宣言ラベルの和集合を
// 自然順にソートしたもので、末尾にセンチネルが追加される。
func (e *NaNLabelEncoder) Fit(y []string) error {
	// センチネルは欠損表現そのものであってはならない
	if e.MissingValueMarker == MissingLabel {
		return errors.NewValidationError("MissingValueMarker",
			"cannot use the missing value representation as the internal marker", e.MissingValueMarker)
	}

	unique := make(map[string]bool)
	for _, v := range y {
		if v == e.MissingValueMarker {
			return errors.NewValidationError("MissingValueMarker",
				"found the missing value marker in the array", e.MissingValueMarker)
		}
		if v != MissingLabel {
			unique[v] = true
		}
	}
	for _, v := range e.Labels {
		if v == e.MissingValueMarker {
			return errors.NewValidationError("MissingValueMarker",
				"found the missing value marker in the declared labels", e.MissingValueMarker)
		}
		if v != MissingLabel {
			unique[v] = true
		}
	}

	classes := make([]string, 0, len(unique)+1)
	for v := range unique {
		classes = append(classes, v)
	}
	sort.Strings(classes)

	// 事前宣言ラベルを学習結果に反映する
	e.Labels = append([]string(nil), classes...)

	// センチネルを最終（最大）インデックスとして追加
	e.Classes = append(classes, e.MissingValueMarker)

	e.classIndex = make(map[string]int, len(e.Classes))
	for i, v := range e.Classes {
		e.classIndex[v] = i
	}

	e.SetFitted()
	return nil
}

// NumClasses はセンチネルを除いたクラス数を返す
func (e *NaNLabelEncoder) NumClasses() (int, error) {
	if !e.IsFitted() {
		return 0, errors.NewNotFittedError("NaNLabelEncoder", "NumClasses")
	}
	return len(e.Classes) - 1, nil
}

// Transform はラベル列を数値コード列に変換する。
// 欠損ラベルは NaN プレースホルダーに、既知ラベルはソート済み
// クラスリスト内の順位に変換される。未知ラベルは
// TreatUnknownAsMissing が有効ならセンチネルの整数コードになり、
// 無効なら該当ラベルを列挙したエラーになる。
func (e *NaNLabelEncoder) Transform(y []string) ([]float64, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("NaNLabelEncoder", "Transform")
	}

	sentinelCode := float64(len(e.Classes) - 1)

	codes := make([]float64, len(y))
	var unseen []string
	seenUnseen := make(map[string]bool)
	for i, v := range y {
		switch {
		case v == MissingLabel || v == e.MissingValueMarker:
			codes[i] = math.NaN()
		default:
			if idx, ok := e.classIndex[v]; ok {
				codes[i] = float64(idx)
			} else if e.TreatUnknownAsMissing {
				codes[i] = sentinelCode
			} else if !seenUnseen[v] {
				seenUnseen[v] = true
				unseen = append(unseen, v)
			}
		}
	}

	if len(unseen) > 0 {
		sort.Strings(unseen)
		return nil, errors.NewUnseenLabelError("NaNLabelEncoder.Transform", unseen)
	}
	return codes, nil
}

// InverseTransform は数値コード列を元のラベル列に戻す。
// NaN および最大インデックス（センチネル）のコードは欠損表現に戻る。
// 範囲外のコードは該当コードを列挙したエラーになる。
func (e *NaNLabelEncoder) InverseTransform(codes []float64) ([]string, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("NaNLabelEncoder", "InverseTransform")
	}

	sentinelIdx := len(e.Classes) - 1

	labels := make([]string, len(codes))
	var invalid []string
	seenInvalid := make(map[string]bool)
	for i, code := range codes {
		if math.IsNaN(code) {
			labels[i] = MissingLabel
			continue
		}
		idx := int(code)
		if float64(idx) != code || idx < 0 || idx > sentinelIdx {
			repr := fmt.Sprintf("%g", code)
			if !seenInvalid[repr] {
				seenInvalid[repr] = true
				invalid = append(invalid, repr)
			}
			continue
		}
		if idx == sentinelIdx {
			labels[i] = MissingLabel
		} else {
			labels[i] = e.Classes[idx]
		}
	}

	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, errors.NewUnseenLabelError("NaNLabelEncoder.InverseTransform", invalid)
	}
	return labels, nil
}

// FitTransform はFitとTransformを同時に実行する
func (e *NaNLabelEncoder) FitTransform(y []string) ([]float64, error) {
	if err := e.Fit(y); err != nil {
		return nil, err
	}
	return e.Transform(y)
}

// GetParams はエンコーダーのパラメータを取得する
func (e *NaNLabelEncoder) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"missing_value_marker":     e.MissingValueMarker,
		"treat_unknown_as_missing": e.TreatUnknownAsMissing,
	}
}

// String はエンコーダーの文字列表現を返す
func (e *NaNLabelEncoder) String() string {
	if !e.IsFitted() {
		return fmt.Sprintf("NaNLabelEncoder(missing_value_marker=%q, treat_unknown_as_missing=%t)",
			e.MissingValueMarker, e.TreatUnknownAsMissing)
	}
	return fmt.Sprintf("NaNLabelEncoder(missing_value_marker=%q, treat_unknown_as_missing=%t, n_classes=%d)",
		e.MissingValueMarker, e.TreatUnknownAsMissing, len(e.Classes)-1)
}
