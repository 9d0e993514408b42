// Package missingdata provides utilities for simulating and evaluating
// missing data in tabular numeric datasets.
//
// The library covers three concerns:
//
//   - Injecting missingness into a complete matrix under the standard
//     mechanisms (MCAR, MAR, NMAR) with reproducible, seeded masks
//     (package missing).
//   - Building matched complete/incomplete train/test splits and running
//     the factorial evaluation protocol that separates training-time
//     from inference-time damage (package evaluation).
//   - Encoding categorical labels in the presence of missing and unseen
//     values (package preprocessing).
//
// # Quick Start
//
//	X := mat.NewDense(100, 4, data)
//
//	// remove 20% of all cells completely at random
//	XIncomplete, err := missing.MCAR(X, 0.2, missing.DefaultSeed)
//
//	// derive matched complete/incomplete splits for fold 0 of 10
//	ds, err := evaluation.SplitIncompleteData(X, XIncomplete, y, 0, 10, missing.DefaultSeed)
//
//	// fit on both training variants, evaluate on both test variants
//	result, err := evaluation.TrainOnIncompleteData(neighbors.NewNearestCentroid(), ds)
//
// All operations are pure: inputs are never mutated, results are newly
// allocated, and identical seeds yield identical outputs.
package missingdata
