package lattice

import (
	"fmt"
	"math"
)

// PairKey identifies an unordered sublattice pair for coupling assignment.
func PairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// BuildTables runs the periodic neighbor search over the structure and
// resolves the per-sublattice-pair coupling table into flattened lookup
// tables. Two sites are neighbors when their minimum-image distance is at
// most cutoff. Bonds come out symmetric by construction: every pair within
// the cutoff is recorded once from each endpoint with the same coupling.
// Returns an error if a needed sublattice pair has no coupling entry.
func BuildTables(s *Structure, cutoff float64, couplings map[[2]int]float64) (*Tables, error) {
	n := s.NumSites()
	if n == 0 {
		return nil, fmt.Errorf("lattice: empty structure")
	}
	if cutoff <= 0 {
		return nil, fmt.Errorf("lattice: cutoff must be positive, got %g", cutoff)
	}

	pos := make([][3]float64, n)
	for i := 0; i < n; i++ {
		pos[i] = s.Cartesian(i)
	}

	neighborLists := make([][]int, n)
	couplingLists := make([][]float64, n)
	cutoff2 := cutoff * cutoff

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if minimumImageDistance2(pos[i], pos[j], s.Cell) > cutoff2 {
				continue
			}
			key := PairKey(s.Sublattices[i], s.Sublattices[j])
			coupling, ok := couplings[key]
			if !ok {
				return nil, fmt.Errorf("lattice: no coupling for sublattice pair (%d,%d)", key[0], key[1])
			}
			neighborLists[i] = append(neighborLists[i], j)
			couplingLists[i] = append(couplingLists[i], coupling)
			neighborLists[j] = append(neighborLists[j], i)
			couplingLists[j] = append(couplingLists[j], coupling)
		}
	}

	t := &Tables{
		NumSites:       n,
		NumSublattices: s.NumSublattices(),
		Sublattice:     append([]int(nil), s.Sublattices...),
		NeighborCount:  make([]int, n),
		LookupIndex:    make([]int, n),
	}

	offset := 0
	for i := 0; i < n; i++ {
		t.NeighborCount[i] = len(neighborLists[i])
		t.LookupIndex[i] = offset
		offset += len(neighborLists[i])
		t.NeighborSites = append(t.NeighborSites, neighborLists[i]...)
		t.Couplings = append(t.Couplings, couplingLists[i]...)
	}

	return t, nil
}

// minimumImageDistance2 returns the squared distance between a and b
// minimized over the 27 periodic images of b in the neighboring cells.
func minimumImageDistance2(a, b [3]float64, cell [3][3]float64) float64 {
	min := math.Inf(1)
	for ix := -1; ix <= 1; ix++ {
		for iy := -1; iy <= 1; iy++ {
			for iz := -1; iz <= 1; iz++ {
				d2 := 0.0
				for d := 0; d < 3; d++ {
					shift := float64(ix)*cell[0][d] + float64(iy)*cell[1][d] + float64(iz)*cell[2][d]
					delta := a[d] - b[d] - shift
					d2 += delta * delta
				}
				if d2 < min {
					min = d2
				}
			}
		}
	}
	return min
}

// Chain builds a periodic ring of n sites on one sublattice, each site
// coupled to both neighbors with constant j.
func Chain(n int, j float64) *Tables {
	t := &Tables{
		NumSites:       n,
		NumSublattices: 1,
		Sublattice:     make([]int, n),
		NeighborCount:  make([]int, n),
		LookupIndex:    make([]int, n),
		NeighborSites:  make([]int, 0, 2*n),
		Couplings:      make([]float64, 0, 2*n),
	}
	for i := 0; i < n; i++ {
		t.NeighborCount[i] = 2
		t.LookupIndex[i] = 2 * i
		t.NeighborSites = append(t.NeighborSites, (i+n-1)%n, (i+1)%n)
		t.Couplings = append(t.Couplings, j, j)
	}
	return t
}

// Square builds a periodic nx-by-ny square lattice on one sublattice with
// nearest-neighbor coupling j (coordination 4).
func Square(nx, ny int, j float64) *Tables {
	n := nx * ny
	t := &Tables{
		NumSites:       n,
		NumSublattices: 1,
		Sublattice:     make([]int, n),
		NeighborCount:  make([]int, n),
		LookupIndex:    make([]int, n),
		NeighborSites:  make([]int, 0, 4*n),
		Couplings:      make([]float64, 0, 4*n),
	}
	site := func(x, y int) int { return ((y+ny)%ny)*nx + (x+nx)%nx }
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			i := site(x, y)
			t.NeighborCount[i] = 4
			t.LookupIndex[i] = 4 * i
			t.NeighborSites = append(t.NeighborSites,
				site(x-1, y), site(x+1, y), site(x, y-1), site(x, y+1))
			t.Couplings = append(t.Couplings, j, j, j, j)
		}
	}
	return t
}
