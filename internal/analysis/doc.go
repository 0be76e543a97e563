// Package analysis provides the ensemble statistics of stress-strain runs.
//
// The package covers the numeric part of the pipeline:
//
//   - [Aggregate]: per-sample mean and population standard deviation
//   - [Smooth]: centered box filter with zero-padded edges
//   - [NewEnvelope]: mean plus/minus spread band
//   - [SecantModulus]: stress/strain ratio at a reference strain
//
// # Secant Modulus
//
// The reference sample is the first one, in the given order, whose strain
// is at or below the reference strain. When no sample qualifies the result
// is [ErrThresholdNotFound]:
//
//	m, err := analysis.SecantModulus(strain, smoothMean, -0.04)
//	if errors.Is(err, analysis.ErrThresholdNotFound) {
//	    // reference strain outside the data
//	}
package analysis
