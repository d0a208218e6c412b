// Package model provides the spin representations simulated by the engine.
//
// Each model implements the [mc.Model] interface over shared lookup tables:
//
//   - [Ising]: scalar ±1 spins, deterministic flip proposals
//   - [Heisenberg]: unit 3-vector spins, uniform sphere reorientation
//
// Site energies are J_ij s_i s_j sums over CSR neighbor views; negative
// couplings favor alignment (ferromagnetic), positive favor anti-alignment.
package model
