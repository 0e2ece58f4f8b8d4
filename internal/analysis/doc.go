// Package analysis scores a generated engine and characterizes the
// underlying system.
//
//   - [CrossMapSkill] and [ForecastSkill]: agreement between predictions
//     and the observed trajectory
//   - [LyapunovExponent]: largest exponent via trajectory separation
//   - [PowerSpectrum], [DominantPeriod] and [SuggestTau]: spectral view of a
//     single coordinate, used to pick an embedding delay
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(sys, integ, x0, dt, duration, 1e-8)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
