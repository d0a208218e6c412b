// Package mc provides the core Metropolis Monte Carlo engine for spin
// lattices.
//
// The package defines the capability interface spin representations
// implement and the driver that runs sweeps over them:
//
//   - [Model]: one evaluation path over both Ising and Heisenberg states
//   - [Engine]: the Metropolis sweep driver
//   - [Estimators]: accumulated energy, magnetization, sublattice sums
//   - [Observer]: sweep-boundary hooks for trace persistence and live views
//
// # Example
//
//	m := model.NewIsing(tables)
//	engine := mc.New(m)
//	result, _ := engine.Run(ctx, cfg)
//
// # Thread Safety
//
// Engine instances are NOT thread-safe, and a run owns its model and
// generator exclusively. For parameter sweeps use [Ensemble], which runs
// fully independent simulations in parallel.
package mc
