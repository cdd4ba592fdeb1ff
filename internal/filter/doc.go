// Package filter computes blur weights for atlas glow passes.
//
// Weights are samples of a zero-mean Gaussian density taken over three
// standard deviations on each side of the center tap, scaled by a
// pre-multiplier. They are not renormalized to sum to one.
package filter
