// Package lattice provides the geometry side of a spin simulation: periodic
// structures, supercell expansion, and the flattened neighbor lookup tables
// consumed by the Monte Carlo engine.
//
// The lookup tables use a CSR-style layout (per-site counts and offsets over
// flattened neighbor and coupling arrays) for cache locality:
//
//	sites, js := tables.Neighbors(i)
//	for k, j := range sites {
//	    // js[k] is the coupling constant of bond i-j
//	}
//
// Tables are built once, either from a [Structure] with a cutoff radius and
// sublattice-pair couplings via [BuildTables], or directly for canonical
// geometries via [Chain] and [Square]. They are read-only afterwards;
// [Tables.Validate] checks the structural invariants, most importantly that
// every bond is recorded symmetrically with equal coupling from both
// endpoints.
package lattice
