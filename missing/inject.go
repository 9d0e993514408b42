package missing

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/bmmalone/missingdata/core/parallel"
	"github.com/bmmalone/missingdata/pkg/errors"
	"github.com/bmmalone/missingdata/pkg/log"
)

// DefaultSeed is the seed used by Inject when the config leaves it nil.
// Kept from the original tooling so existing experiments reproduce.
const DefaultSeed uint64 = 8675309

// Mechanism tags accepted by Inject. Matching is case-insensitive.
const (
	MechanismMCAR = "mcar"
	MechanismMAR  = "mar"
	MechanismNMAR = "nmar"
)

// rows above this are filled in parallel
const parallelThreshold = 1000

// MCAR returns a copy of X where every cell has been independently
// marked missing with probability missingLikelihood. The mask is drawn
// from a PCG generator seeded with seed, so identical (shape,
// likelihood, seed) triples always produce an identical result. The
// missingness is independent of all values, observed or not.
func MCAR(X mat.Matrix, missingLikelihood float64, seed uint64) (*mat.Dense, error) {
	incomplete, _, err := MCARWithMask(X, missingLikelihood, seed)
	return incomplete, err
}

// MCARWithMask is MCAR but additionally returns the boolean mask of
// removed cells, indexed mask[row][col].
func MCARWithMask(X mat.Matrix, missingLikelihood float64, seed uint64) (*mat.Dense, [][]bool, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, nil, errors.NewModelError("missing.MCAR", "empty data", errors.ErrEmptyData)
	}
	if missingLikelihood < 0 || missingLikelihood > 1 {
		return nil, nil, errors.NewValidationError("missingLikelihood", "must be in [0, 1]", missingLikelihood)
	}

	// the generator is local to this call; no global random state is touched
	rng := rand.New(rand.NewPCG(seed, seed))

	incomplete := mat.DenseCopyOf(X)
	mask := make([][]bool, r)
	removed := 0
	for i := 0; i < r; i++ {
		mask[i] = make([]bool, c)
		for j := 0; j < c; j++ {
			if rng.Float64() < missingLikelihood {
				incomplete.Set(i, j, math.NaN())
				mask[i][j] = true
				removed++
			}
		}
	}

	slog.Debug("injected MCAR missingness",
		log.OperationKey, "inject",
		log.MechanismKey, MechanismMCAR,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.SeedKey, seed,
		log.MissingFractionKey, float64(removed)/float64(r*c),
	)
	return incomplete, mask, nil
}

// NMAR returns a copy of X where each column has been passed through
// its ColumnStrategy, one strategy per column. A nil entry leaves the
// column fully observed. Because each strategy sees only its own
// column's values, the likelihood of missingness depends on the
// unobserved value itself.
//
// The strategy slice must have exactly one entry per column; the
// mismatch is reported before any column is processed.
func NMAR(X mat.Matrix, missingLikelihood []ColumnStrategy) (*mat.Dense, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("missing.NMAR", "empty data", errors.ErrEmptyData)
	}
	if len(missingLikelihood) != c {
		reason := fmt.Sprintf("the number of column strategies does not match the number of features (%d)", c)
		return nil, errors.NewValidationError("missingLikelihood", reason, len(missingLikelihood))
	}

	incomplete := mat.DenseCopyOf(X)
	for j, strategy := range missingLikelihood {
		if strategy == nil {
			continue
		}

		column := make([]float64, r)
		mat.Col(column, j, X)
		masked := strategy.Apply(column)
		if len(masked) != r {
			return nil, errors.NewDimensionError(fmt.Sprintf("missing.NMAR: column strategy %d", j), r, len(masked), 0)
		}
		incomplete.SetCol(j, masked)
	}

	slog.Debug("injected NMAR missingness",
		log.OperationKey, "inject",
		log.MechanismKey, MechanismNMAR,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)
	return incomplete, nil
}

// MAR returns a copy of X where every row has been passed through the
// RowStrategy. The strategy sees one full observation at a time, so the
// likelihood that a feature goes missing may depend on the other,
// observed features of the same instance.
//
// Rows carry no inter-dependency, so they are processed in parallel for
// large matrices; the result is identical regardless of execution order.
func MAR(X mat.Matrix, missingLikelihood RowStrategy) (*mat.Dense, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("missing.MAR", "empty data", errors.ErrEmptyData)
	}
	if missingLikelihood == nil {
		return nil, errors.NewValidationError("missingLikelihood", "a row strategy is required", nil)
	}

	incomplete := mat.NewDense(r, c, nil)
	rowErrs := make([]error, r)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		row := make([]float64, c)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			masked := missingLikelihood.Apply(row)
			if len(masked) != c {
				rowErrs[i] = errors.NewDimensionError(fmt.Sprintf("missing.MAR: row %d", i), c, len(masked), 1)
				continue
			}
			incomplete.SetRow(i, masked)
		}
	})
	for _, err := range rowErrs {
		if err != nil {
			return nil, err
		}
	}

	slog.Debug("injected MAR missingness",
		log.OperationKey, "inject",
		log.MechanismKey, MechanismMAR,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)
	return incomplete, nil
}

// Config selects a missingness mechanism for Inject along with the
// mechanism-specific parameters. Only the fields of the chosen
// mechanism are consulted.
type Config struct {
	// Mechanism is one of "mcar", "mar" or "nmar" (case-insensitive).
	Mechanism string

	// MissingLikelihood is the MCAR per-cell missingness probability.
	MissingLikelihood float64

	// Seed drives the MCAR pseudorandom mask. Leave nil for
	// DefaultSeed; any pointed-to value, including zero, is used as is.
	Seed *uint64

	// Columns are the NMAR per-column strategies, one entry per feature.
	Columns []ColumnStrategy

	// Row is the MAR per-row strategy.
	Row RowStrategy
}

// Inject removes observations from X according to the mechanism named
// in cfg. It is a thin wrapper presenting a single interface over MCAR,
// MAR and NMAR; an unknown mechanism tag fails with a validation error
// naming the valid set.
func Inject(X mat.Matrix, cfg Config) (*mat.Dense, error) {
	seed := DefaultSeed
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	switch strings.ToLower(cfg.Mechanism) {
	case MechanismMCAR:
		return MCAR(X, cfg.MissingLikelihood, seed)
	case MechanismMAR:
		return MAR(X, cfg.Row)
	case MechanismNMAR:
		return NMAR(X, cfg.Columns)
	default:
		valid := strings.Join([]string{MechanismMCAR, MechanismMAR, MechanismNMAR}, " ")
		reason := fmt.Sprintf("unknown missing data mechanism. Must be one of: %s", valid)
		return nil, errors.NewValidationError("mechanism", reason, cfg.Mechanism)
	}
}
