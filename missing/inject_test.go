package missing

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/bmmalone/missingdata/pkg/errors"
)

func randomMatrix(r, c int, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewPCG(seed, seed))
	X := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			X.Set(i, j, rng.Float64()*10)
		}
	}
	return X
}

// matricesEqualNaN compares elementwise, treating NaN==NaN as equal.
func matricesEqualNaN(t *testing.T, a, b *mat.Dense) {
	t.Helper()
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	require.Equal(t, ra, rb)
	require.Equal(t, ca, cb)
	for i := 0; i < ra; i++ {
		for j := 0; j < ca; j++ {
			va, vb := a.At(i, j), b.At(i, j)
			if math.IsNaN(va) || math.IsNaN(vb) {
				assert.True(t, math.IsNaN(va) && math.IsNaN(vb), "cell (%d,%d): %v vs %v", i, j, va, vb)
			} else {
				assert.Equal(t, va, vb, "cell (%d,%d)", i, j)
			}
		}
	}
}

func TestMCAR_Deterministic(t *testing.T) {
	X := randomMatrix(100, 4, 1)

	first, firstMask, err := MCARWithMask(X, 0.2, DefaultSeed)
	require.NoError(t, err)
	second, secondMask, err := MCARWithMask(X, 0.2, DefaultSeed)
	require.NoError(t, err)

	matricesEqualNaN(t, first, second)
	assert.Equal(t, firstMask, secondMask)

	// a different seed should produce a different mask
	_, otherMask, err := MCARWithMask(X, 0.2, DefaultSeed+1)
	require.NoError(t, err)
	assert.NotEqual(t, firstMask, otherMask)
}

func TestMCAR_FractionConvergesToLikelihood(t *testing.T) {
	const (
		n = 10000
		c = 4
		p = 0.2
	)
	X := randomMatrix(n, c, 2)

	_, mask, err := MCARWithMask(X, p, DefaultSeed)
	require.NoError(t, err)

	for j := 0; j < c; j++ {
		removed := 0
		for i := 0; i < n; i++ {
			if mask[i][j] {
				removed++
			}
		}
		fraction := float64(removed) / float64(n)
		assert.InDelta(t, p, fraction, 0.02, "column %d", j)
	}
}

func TestMCAR_DoesNotMutateInput(t *testing.T) {
	X := randomMatrix(50, 3, 3)
	original := mat.DenseCopyOf(X)

	incomplete, err := MCAR(X, 0.5, DefaultSeed)
	require.NoError(t, err)

	assert.True(t, mat.Equal(X, original), "input matrix was mutated")
	assert.False(t, mat.Equal(X, incomplete), "output should differ from input")
}

func TestMCAR_LikelihoodBounds(t *testing.T) {
	X := randomMatrix(20, 2, 4)

	t.Run("zero removes nothing", func(t *testing.T) {
		incomplete, err := MCAR(X, 0, DefaultSeed)
		require.NoError(t, err)
		assert.True(t, mat.Equal(X, incomplete))
	})

	t.Run("one removes everything", func(t *testing.T) {
		incomplete, err := MCAR(X, 1, DefaultSeed)
		require.NoError(t, err)
		r, c := incomplete.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				assert.True(t, math.IsNaN(incomplete.At(i, j)))
			}
		}
	})

	t.Run("out of range is rejected", func(t *testing.T) {
		_, err := MCAR(X, 1.5, DefaultSeed)
		require.Error(t, err)
		var validationErr *errors.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})
}

func TestNMAR_LargeValues(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		5, 20,
		2, 30,
		9, 40,
	})

	incomplete, err := NMAR(X, []ColumnStrategy{
		LargeValues{Threshold: 4},
		nil,
	})
	require.NoError(t, err)

	// column 0: values above 4 removed, others untouched
	assert.Equal(t, 1.0, incomplete.At(0, 0))
	assert.True(t, math.IsNaN(incomplete.At(1, 0)))
	assert.Equal(t, 2.0, incomplete.At(2, 0))
	assert.True(t, math.IsNaN(incomplete.At(3, 0)))

	// nil strategy leaves column 1 fully observed
	for i := 0; i < 4; i++ {
		assert.Equal(t, X.At(i, 1), incomplete.At(i, 1))
	}
}

func TestNMAR_Idempotent(t *testing.T) {
	X := randomMatrix(30, 3, 5)
	strategies := []ColumnStrategy{
		LargeValues{Threshold: 5},
		nil,
		LargeValues{Threshold: 2},
	}

	first, err := NMAR(X, strategies)
	require.NoError(t, err)
	second, err := NMAR(X, strategies)
	require.NoError(t, err)

	matricesEqualNaN(t, first, second)
}

func TestNMAR_StrategyCountMismatch(t *testing.T) {
	X := randomMatrix(10, 3, 6)

	_, err := NMAR(X, []ColumnStrategy{nil, nil})
	require.Error(t, err)

	var validationErr *errors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "number of column strategies")
}

func TestNMAR_DoesNotMutateInput(t *testing.T) {
	X := randomMatrix(10, 2, 7)
	original := mat.DenseCopyOf(X)

	_, err := NMAR(X, []ColumnStrategy{LargeValues{Threshold: 0}, LargeValues{Threshold: 0}})
	require.NoError(t, err)
	assert.True(t, mat.Equal(X, original))
}

func TestMAR_ThresholdRemover(t *testing.T) {
	// x[3] is removed when x[0]*x[1] > 18
	remover := ThresholdRemover{Target: 3, Conditions: []int{0, 1}, Threshold: 18}

	X := mat.NewDense(3, 4, []float64{
		2, 9, 1, 100, // 2*9 = 18, not strictly greater: kept
		2, 10, 1, 100, // 2*10 = 20 > 18: removed
		1, 1, 1, 100, // 1*1 = 1: kept
	})

	incomplete, err := MAR(X, remover)
	require.NoError(t, err)

	assert.Equal(t, 100.0, incomplete.At(0, 3))
	assert.True(t, math.IsNaN(incomplete.At(1, 3)))
	assert.Equal(t, 100.0, incomplete.At(2, 3))

	// every other cell is untouched
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, X.At(i, j), incomplete.At(i, j))
		}
	}
}

func TestMAR_CustomCombination(t *testing.T) {
	sum := func(values []float64) float64 {
		total := 0.0
		for _, v := range values {
			total += v
		}
		return total
	}
	remover := ThresholdRemover{Target: 0, Conditions: []int{1, 2}, Threshold: 5, Combine: sum}

	X := mat.NewDense(2, 3, []float64{
		7, 2, 3, // 2+3 = 5, kept
		7, 3, 3, // 3+3 = 6 > 5, removed
	})

	incomplete, err := MAR(X, remover)
	require.NoError(t, err)
	assert.Equal(t, 7.0, incomplete.At(0, 0))
	assert.True(t, math.IsNaN(incomplete.At(1, 0)))
}

func TestMAR_NilStrategy(t *testing.T) {
	X := randomMatrix(5, 2, 8)
	_, err := MAR(X, nil)
	require.Error(t, err)

	var validationErr *errors.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestMAR_LargeMatrixParallelMatchesSequential(t *testing.T) {
	// above the parallel threshold; output must not depend on execution order
	X := randomMatrix(2500, 4, 9)
	remover := ThresholdRemover{Target: 2, Conditions: []int{0, 1}, Threshold: 25}

	first, err := MAR(X, remover)
	require.NoError(t, err)
	second, err := MAR(X, remover)
	require.NoError(t, err)

	matricesEqualNaN(t, first, second)
}

func TestInject_Dispatch(t *testing.T) {
	X := randomMatrix(40, 4, 10)

	t.Run("mcar is case-insensitive", func(t *testing.T) {
		direct, err := MCAR(X, 0.3, DefaultSeed)
		require.NoError(t, err)

		dispatched, err := Inject(X, Config{Mechanism: "MCAR", MissingLikelihood: 0.3})
		require.NoError(t, err)
		matricesEqualNaN(t, direct, dispatched)
	})

	t.Run("nmar", func(t *testing.T) {
		strategies := []ColumnStrategy{nil, LargeValues{Threshold: 5}, nil, nil}
		direct, err := NMAR(X, strategies)
		require.NoError(t, err)

		dispatched, err := Inject(X, Config{Mechanism: "nmar", Columns: strategies})
		require.NoError(t, err)
		matricesEqualNaN(t, direct, dispatched)
	})

	t.Run("mar", func(t *testing.T) {
		remover := ThresholdRemover{Target: 3, Conditions: []int{0}, Threshold: 5}
		direct, err := MAR(X, remover)
		require.NoError(t, err)

		dispatched, err := Inject(X, Config{Mechanism: "Mar", Row: remover})
		require.NoError(t, err)
		matricesEqualNaN(t, direct, dispatched)
	})

	t.Run("explicit zero seed is honored", func(t *testing.T) {
		direct, err := MCAR(X, 0.3, 0)
		require.NoError(t, err)

		zero := uint64(0)
		dispatched, err := Inject(X, Config{Mechanism: "mcar", MissingLikelihood: 0.3, Seed: &zero})
		require.NoError(t, err)
		matricesEqualNaN(t, direct, dispatched)

		// a zero seed is a seed of its own, not an alias for the default
		_, zeroMask, err := MCARWithMask(X, 0.3, 0)
		require.NoError(t, err)
		_, defaultMask, err := MCARWithMask(X, 0.3, DefaultSeed)
		require.NoError(t, err)
		assert.NotEqual(t, zeroMask, defaultMask)
	})

	t.Run("unknown mechanism", func(t *testing.T) {
		_, err := Inject(X, Config{Mechanism: "mnar"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mcar mar nmar")

		var validationErr *errors.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})
}

func TestMaskLargeValues(t *testing.T) {
	values := []float64{1, 5, 2, 9}
	masked, mask := MaskLargeValues(values, 4)

	assert.Equal(t, []bool{false, true, false, true}, mask)
	assert.Equal(t, 1.0, masked[0])
	assert.True(t, math.IsNaN(masked[1]))
	assert.Equal(t, 2.0, masked[2])
	assert.True(t, math.IsNaN(masked[3]))

	// input untouched
	assert.Equal(t, []float64{1, 5, 2, 9}, values)
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(math.NaN()))
	assert.False(t, IsMissing(0))
	assert.False(t, IsMissing(math.Inf(1)))
}
