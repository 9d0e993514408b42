// Package missing creates incomplete datasets from complete ones
// according to the standard missingness mechanisms: missing completely
// at random (MCAR), missing at random (MAR) and not missing at random
// (NMAR).
//
// Missing cells are represented by NaN. Every function returns a newly
// allocated matrix and never mutates its input, so the same complete
// matrix can be reused across mechanism configurations.
//
// Example:
//
//	// all cells have a 20% chance of being missing
//	XMCAR, err := missing.MCAR(X, 0.2, missing.DefaultSeed)
//
//	// remove x[1] values greater than 4 and x[3] values greater than 0.3
//	XNMAR, err := missing.NMAR(X, []missing.ColumnStrategy{
//	    nil,
//	    missing.LargeValues{Threshold: 4},
//	    nil,
//	    missing.LargeValues{Threshold: 0.3},
//	})
//
//	// remove x[3] when x[0]*x[1] > 18
//	XMAR, err := missing.MAR(X, missing.ThresholdRemover{
//	    Target:     3,
//	    Conditions: []int{0, 1},
//	    Threshold:  18,
//	})
package missing
