package lattice

import (
	"testing"
)

func TestChainNeighbors(t *testing.T) {
	tables := Chain(4, -1.0)

	if err := tables.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	sites, js := tables.Neighbors(0)
	if len(sites) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(sites))
	}
	if sites[0] != 3 || sites[1] != 1 {
		t.Errorf("expected neighbors [3 1], got %v", sites)
	}
	for _, j := range js {
		if j != -1.0 {
			t.Errorf("expected coupling -1, got %f", j)
		}
	}
}

func TestSquareCoordination(t *testing.T) {
	tables := Square(4, 4, -1.0)

	if tables.NumSites != 16 {
		t.Fatalf("expected 16 sites, got %d", tables.NumSites)
	}
	if err := tables.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if tables.MaxCoordination() != 4 {
		t.Errorf("expected coordination 4, got %d", tables.MaxCoordination())
	}
	if tables.MaxCoupling() != 1.0 {
		t.Errorf("expected max |J| 1, got %f", tables.MaxCoupling())
	}
}

func TestValidateAsymmetricBond(t *testing.T) {
	tables := &Tables{
		NumSites:       2,
		NumSublattices: 1,
		Sublattice:     []int{0, 0},
		NeighborCount:  []int{1, 0},
		LookupIndex:    []int{0, 1},
		NeighborSites:  []int{1},
		Couplings:      []float64{-1.0},
	}

	if err := tables.Validate(); err == nil {
		t.Error("expected error for one-sided bond, got nil")
	}
}

func TestValidateCouplingMismatch(t *testing.T) {
	tables := &Tables{
		NumSites:       2,
		NumSublattices: 1,
		Sublattice:     []int{0, 0},
		NeighborCount:  []int{1, 1},
		LookupIndex:    []int{0, 1},
		NeighborSites:  []int{1, 0},
		Couplings:      []float64{-1.0, -0.5},
	}

	if err := tables.Validate(); err == nil {
		t.Error("expected error for mismatched couplings, got nil")
	}
}

func TestValidateBadOffsets(t *testing.T) {
	tables := Chain(4, -1.0)
	tables.LookupIndex[2] = 5

	if err := tables.Validate(); err == nil {
		t.Error("expected error for non-contiguous offsets, got nil")
	}
}

func TestValidateOutOfRangeNeighbor(t *testing.T) {
	tables := Chain(4, -1.0)
	tables.NeighborSites[0] = 9

	if err := tables.Validate(); err == nil {
		t.Error("expected error for out-of-range neighbor index, got nil")
	}
}

func TestValidateBadSublattice(t *testing.T) {
	tables := Chain(4, -1.0)
	tables.Sublattice[1] = 3

	if err := tables.Validate(); err == nil {
		t.Error("expected error for out-of-range sublattice id, got nil")
	}
}
