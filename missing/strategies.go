package missing

import "math"

// ColumnStrategy decides, for a single feature, which observations
// become missing. Apply receives the full value vector of one column
// and returns a same-length vector equal to its input except at the
// positions it marks missing (NaN). A strategy may only depend on the
// column's own values; this is what makes the mechanism NMAR.
type ColumnStrategy interface {
	Apply(column []float64) []float64
}

// ColumnFunc adapts a plain function to the ColumnStrategy interface.
type ColumnFunc func(column []float64) []float64

// Apply calls f(column).
func (f ColumnFunc) Apply(column []float64) []float64 { return f(column) }

// RowStrategy decides, for a single observation, which features become
// missing. Apply receives a copy of one full row and returns a
// same-length row with zero or more values replaced by NaN based on the
// other values in the row; this is what makes the mechanism MAR.
type RowStrategy interface {
	Apply(row []float64) []float64
}

// RowFunc adapts a plain function to the RowStrategy interface.
type RowFunc func(row []float64) []float64

// Apply calls f(row).
func (f RowFunc) Apply(row []float64) []float64 { return f(row) }

// LargeValues is a ColumnStrategy that marks values strictly greater
// than Threshold as missing. It realizes the common NMAR case where
// large values of a feature are the ones that go unreported.
type LargeValues struct {
	Threshold float64
}

// Apply returns a copy of column with values above the threshold
// replaced by NaN.
func (s LargeValues) Apply(column []float64) []float64 {
	masked, _ := MaskLargeValues(column, s.Threshold)
	return masked
}

// MaskLargeValues returns a copy of values with entries strictly
// greater than threshold replaced by NaN, along with the boolean mask
// of removed positions.
func MaskLargeValues(values []float64, threshold float64) ([]float64, []bool) {
	masked := make([]float64, len(values))
	mask := make([]bool, len(values))
	for i, v := range values {
		if v > threshold {
			masked[i] = math.NaN()
			mask[i] = true
		} else {
			masked[i] = v
		}
	}
	return masked, mask
}

// ThresholdRemover is a RowStrategy that removes the Target feature
// when the combined Condition features exceed Threshold. The
// combination defaults to the product of the condition values, so with
// Conditions {0, 1} and Threshold 18 the target is removed whenever
// x[0]*x[1] > 18.
type ThresholdRemover struct {
	// Target is the index of the feature to consider removing.
	Target int

	// Conditions are the indices of the observed features whose
	// combined value drives the missingness of Target.
	Conditions []int

	// Threshold is the value above which the combination counts as large.
	Threshold float64

	// Combine reduces the condition values to a single number.
	// When nil, Product is used.
	Combine func(values []float64) float64
}

// Apply returns a copy of row with the target value replaced by NaN
// when the combined condition values exceed the threshold.
func (s ThresholdRemover) Apply(row []float64) []float64 {
	combine := s.Combine
	if combine == nil {
		combine = Product
	}

	conditions := make([]float64, len(s.Conditions))
	for i, idx := range s.Conditions {
		conditions[i] = row[idx]
	}

	out := make([]float64, len(row))
	copy(out, row)
	if combine(conditions) > s.Threshold {
		out[s.Target] = math.NaN()
	}
	return out
}

// Product multiplies all values together. It is the default
// combination operator for ThresholdRemover.
func Product(values []float64) float64 {
	product := 1.0
	for _, v := range values {
		product *= v
	}
	return product
}

// IsMissing reports whether a cell value is the missing marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
