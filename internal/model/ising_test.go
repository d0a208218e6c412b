package model

import (
	"math"
	"math/rand"
	"testing"

	"spinmc/internal/lattice"
	"spinmc/internal/mc"
)

// twoSiteTables builds the smallest symmetric lattice: two sites joined by
// one bond with coupling j.
func twoSiteTables(j float64) *lattice.Tables {
	return &lattice.Tables{
		NumSites:       2,
		NumSublattices: 1,
		Sublattice:     []int{0, 0},
		NeighborCount:  []int{1, 1},
		LookupIndex:    []int{0, 1},
		NeighborSites:  []int{1, 0},
		Couplings:      []float64{j, j},
	}
}

func TestIsingTwoSiteEnergy(t *testing.T) {
	m := NewIsing(twoSiteTables(-1.0))
	m.SetSpin(0, 1)
	m.SetSpin(1, 1)

	if e := m.SiteEnergy(0); math.Abs(e-(-1.0)) > 1e-12 {
		t.Errorf("expected site energy -1, got %f", e)
	}

	// Each endpoint counts the bond once; the halved total is the bond
	// energy itself.
	if e := m.TotalEnergy(); math.Abs(e-(-1.0)) > 1e-12 {
		t.Errorf("expected total energy -1, got %f", e)
	}

	m.SetSpin(1, -1)
	if e := m.TotalEnergy(); math.Abs(e-1.0) > 1e-12 {
		t.Errorf("expected total energy +1 for anti-aligned spins, got %f", e)
	}
}

func TestIsingChainEnergy(t *testing.T) {
	m := NewIsing(lattice.Chain(4, -1.0))
	for i := 0; i < 4; i++ {
		m.SetSpin(i, 1)
	}

	// 4 bonds, each -1 when aligned.
	if e := m.TotalEnergy(); math.Abs(e-(-4.0)) > 1e-12 {
		t.Errorf("expected total energy -4, got %f", e)
	}
}

func TestIsingInitSpins(t *testing.T) {
	m := NewIsing(lattice.Chain(64, -1.0))
	m.Init(rand.New(rand.NewSource(7)))

	if err := m.Check(); err != nil {
		t.Fatalf("check failed after init: %v", err)
	}

	ups := 0
	for i := 0; i < 64; i++ {
		if m.Spin(i) == 1 {
			ups++
		}
	}
	if ups == 0 || ups == 64 {
		t.Errorf("expected a mixed random state, got %d up spins", ups)
	}
}

func TestIsingProposeFlip(t *testing.T) {
	m := NewIsing(twoSiteTables(-1.0))
	m.SetSpin(0, 1)
	m.SetSpin(1, 1)

	trial := m.Propose(0, rand.New(rand.NewSource(1)))
	if math.Abs(trial-1.0) > 1e-12 {
		t.Errorf("expected trial energy +1 for a flip, got %f", trial)
	}
	if m.Spin(0) != 1 {
		t.Error("propose must not mutate the state")
	}

	m.Accept(0)
	if m.Spin(0) != -1 {
		t.Errorf("expected spin flipped to -1, got %d", m.Spin(0))
	}
}

func TestIsingMeasure(t *testing.T) {
	m := NewIsing(lattice.Chain(4, -1.0))
	for i := 0; i < 4; i++ {
		m.SetSpin(i, 1)
	}

	var est mc.Estimators
	m.Measure(&est)

	if math.Abs(est.Energy-(-4.0)) > 1e-12 {
		t.Errorf("expected energy -4, got %f", est.Energy)
	}
	if math.Abs(est.Magnetization-4.0) > 1e-12 {
		t.Errorf("expected magnetization 4, got %f", est.Magnetization)
	}
	if len(est.SpinVector) != 1 {
		t.Fatalf("expected 1 sublattice sum, got %d", len(est.SpinVector))
	}
	if math.Abs(est.SpinVector[0][2]-4.0) > 1e-12 {
		t.Errorf("expected sublattice z-sum 4, got %f", est.SpinVector[0][2])
	}
}

func TestIsingCheckRejectsBadSpin(t *testing.T) {
	m := NewIsing(twoSiteTables(-1.0))
	m.SetSpin(0, 1)
	m.SetSpin(1, 0)

	if err := m.Check(); err == nil {
		t.Error("expected check to reject a zero spin, got nil")
	}
}

func TestIsingSnapshot(t *testing.T) {
	m := NewIsing(twoSiteTables(-1.0))
	m.SetSpin(0, 1)
	m.SetSpin(1, -1)

	snap := m.Snapshot()
	if len(snap) != 2 || len(snap[0]) != 1 {
		t.Fatalf("expected 2 single-component rows, got %v", snap)
	}
	if snap[0][0] != 1 || snap[1][0] != -1 {
		t.Errorf("snapshot mismatch: %v", snap)
	}
}
