package lattice

import (
	"math"
	"testing"
)

func squareNet() *Structure {
	return &Structure{
		Cell: [3][3]float64{{2, 0, 0}, {0, 2, 0}, {0, 0, 20}},
		Frac: [][3]float64{
			{0.00, 0.00, 0.00},
			{0.50, 0.00, 0.00},
			{0.00, 0.50, 0.00},
			{0.50, 0.50, 0.00},
		},
		Sublattices: []int{0, 1, 1, 0},
	}
}

func TestSupercellExpansion(t *testing.T) {
	s := squareNet().Supercell(5, 5, 1)

	if s.NumSites() != 100 {
		t.Fatalf("expected 100 sites, got %d", s.NumSites())
	}
	if s.NumSublattices() != 2 {
		t.Errorf("expected 2 sublattices, got %d", s.NumSublattices())
	}
	if s.Cell[0][0] != 10 || s.Cell[1][1] != 10 {
		t.Errorf("expected cell scaled to 10x10, got %v %v", s.Cell[0], s.Cell[1])
	}

	counts := make(map[int]int)
	for _, l := range s.Sublattices {
		counts[l]++
	}
	if counts[0] != 50 || counts[1] != 50 {
		t.Errorf("expected 50 sites per sublattice, got %v", counts)
	}
}

func TestBuildTablesSquareNet(t *testing.T) {
	s := squareNet().Supercell(2, 2, 1)
	couplings := map[[2]int]float64{
		PairKey(0, 0): -1.0,
		PairKey(0, 1): -1.0,
		PairKey(1, 1): -1.0,
	}

	tables, err := BuildTables(s, 1.2, couplings)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if err := tables.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	if tables.NumSites != 16 {
		t.Fatalf("expected 16 sites, got %d", tables.NumSites)
	}
	for i := 0; i < tables.NumSites; i++ {
		if tables.NeighborCount[i] != 4 {
			t.Errorf("site %d: expected 4 neighbors across periodic boundaries, got %d", i, tables.NeighborCount[i])
		}
	}
}

func TestBuildTablesBCC(t *testing.T) {
	s := &Structure{
		Cell: [3][3]float64{{2, 0, 0}, {0, 2, 0}, {0, 0, 1}},
		Frac: [][3]float64{
			{0.00, 0.00, 0.00},
			{0.50, 0.00, 0.00},
			{0.00, 0.50, 0.00},
			{0.50, 0.50, 0.00},
			{0.25, 0.25, 0.50},
			{0.75, 0.25, 0.50},
			{0.25, 0.75, 0.50},
			{0.75, 0.75, 0.50},
		},
		Sublattices: []int{0, 1, 1, 0, 2, 3, 3, 2},
	}
	couplings := make(map[[2]int]float64)
	for a := 0; a < 4; a++ {
		for b := a; b < 4; b++ {
			couplings[PairKey(a, b)] = -1.0
		}
	}

	tables, err := BuildTables(s.Supercell(2, 2, 4), 0.9, couplings)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if err := tables.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	// Body-centered packing: every site sees the 8 opposite-layer sites at
	// distance sqrt(3)/2.
	for i := 0; i < tables.NumSites; i++ {
		if tables.NeighborCount[i] != 8 {
			t.Fatalf("site %d: expected 8 neighbors, got %d", i, tables.NeighborCount[i])
		}
	}
}

func TestBuildTablesMissingCoupling(t *testing.T) {
	s := squareNet()
	couplings := map[[2]int]float64{PairKey(0, 0): -1.0}

	if _, err := BuildTables(s, 1.2, couplings); err == nil {
		t.Error("expected error for missing sublattice pair coupling, got nil")
	}
}

func TestBuildTablesBadCutoff(t *testing.T) {
	if _, err := BuildTables(squareNet(), 0, nil); err == nil {
		t.Error("expected error for zero cutoff, got nil")
	}
}

func TestMinimumImageDistance(t *testing.T) {
	cell := [3][3]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}}
	a := [3]float64{0, 0, 0}
	b := [3]float64{3, 0, 0}

	d2 := minimumImageDistance2(a, b, cell)
	if math.Abs(d2-1.0) > 1e-12 {
		t.Errorf("expected squared distance 1 across the boundary, got %f", d2)
	}
}
