package lattice

import (
	"fmt"
	"math"
)

// coupling symmetry tolerance for Validate
const symmetryTolerance = 1e-12

// Tables holds the flattened neighbor lookup for a lattice in CSR layout:
// site i's neighbors occupy NeighborSites[LookupIndex[i] : LookupIndex[i]+NeighborCount[i]],
// with Couplings aligned element-for-element. Built once, read-only afterwards.
type Tables struct {
	NumSites       int
	NumSublattices int
	Sublattice     []int
	NeighborCount  []int
	LookupIndex    []int
	NeighborSites  []int
	Couplings      []float64
}

// Neighbors returns the neighbor site indices and coupling constants of site i
// as subslice views into the flattened tables. Callers must not mutate or
// retain them. Panics on an out-of-range site index.
func (t *Tables) Neighbors(i int) ([]int, []float64) {
	start := t.LookupIndex[i]
	end := start + t.NeighborCount[i]
	return t.NeighborSites[start:end], t.Couplings[start:end]
}

// MaxCoordination returns the largest neighbor count over all sites.
func (t *Tables) MaxCoordination() int {
	max := 0
	for _, n := range t.NeighborCount {
		if n > max {
			max = n
		}
	}
	return max
}

// MaxCoupling returns the largest |J| over all bonds.
func (t *Tables) MaxCoupling() float64 {
	max := 0.0
	for _, j := range t.Couplings {
		if math.Abs(j) > max {
			max = math.Abs(j)
		}
	}
	return max
}

// Validate checks the structural invariants of the tables: array lengths,
// contiguous CSR offsets, in-range site and sublattice indices, and bond
// symmetry (if i lists j with coupling J, j must list i with the same J).
// The symmetry invariant is what makes the halved total energy sum correct,
// so a violation here is a fatal construction bug.
func (t *Tables) Validate() error {
	n := t.NumSites
	if n <= 0 {
		return fmt.Errorf("lattice: no sites")
	}
	if len(t.Sublattice) != n || len(t.NeighborCount) != n || len(t.LookupIndex) != n {
		return fmt.Errorf("lattice: per-site table length mismatch (sites=%d sublattice=%d count=%d index=%d)",
			n, len(t.Sublattice), len(t.NeighborCount), len(t.LookupIndex))
	}
	if len(t.NeighborSites) != len(t.Couplings) {
		return fmt.Errorf("lattice: neighbor table length %d != coupling table length %d",
			len(t.NeighborSites), len(t.Couplings))
	}

	offset := 0
	for i := 0; i < n; i++ {
		if t.NeighborCount[i] < 0 {
			return fmt.Errorf("lattice: negative neighbor count at site %d", i)
		}
		if t.LookupIndex[i] != offset {
			return fmt.Errorf("lattice: lookup index %d at site %d, want %d", t.LookupIndex[i], i, offset)
		}
		offset += t.NeighborCount[i]
	}
	if offset != len(t.NeighborSites) {
		return fmt.Errorf("lattice: neighbor counts sum to %d, table holds %d", offset, len(t.NeighborSites))
	}

	for i, s := range t.Sublattice {
		if s < 0 || s >= t.NumSublattices {
			return fmt.Errorf("lattice: sublattice id %d at site %d out of range [0,%d)", s, i, t.NumSublattices)
		}
	}
	for k, j := range t.NeighborSites {
		if j < 0 || j >= n {
			return fmt.Errorf("lattice: neighbor index %d at bond %d out of range [0,%d)", j, k, n)
		}
	}

	for i := 0; i < n; i++ {
		sites, js := t.Neighbors(i)
		for k, j := range sites {
			if !t.hasBond(j, i, js[k]) {
				return fmt.Errorf("lattice: asymmetric bond %d->%d (J=%g) has no mirror", i, j, js[k])
			}
		}
	}

	return nil
}

func (t *Tables) hasBond(from, to int, coupling float64) bool {
	sites, js := t.Neighbors(from)
	for k, j := range sites {
		if j == to && math.Abs(js[k]-coupling) <= symmetryTolerance {
			return true
		}
	}
	return false
}
