// Package embedding implements time-delay embedding, simplex-projection
// neighbor search, convergent cross mapping and multi-step forecasting over
// the three coordinate series of a trajectory.
//
// An embedded point of a series s at local index i is
//
//	(s[i], s[i+tau], s[i+2*tau])
//
// and belongs to absolute frame i+2*tau, the index of its newest sample.
// [View] exposes these points by offset without copying.
//
// [FindNeighbors] computes, for every frame with enough history, the nn_num
// nearest earlier points spaced nn_skip apart, together with simplex weights
// max(exp(-d_i/d_0), 1e-5) scaled by e, so the nearest neighbor always weighs
// 1. [CrossMap] and [Forecast] turn those weights into predictions of the
// other coordinates and of future values.
package embedding
