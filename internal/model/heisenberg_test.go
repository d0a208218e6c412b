package model

import (
	"math"
	"math/rand"
	"testing"

	"spinmc/internal/lattice"
	"spinmc/internal/mc"
)

func TestHeisenbergInitUnitNorms(t *testing.T) {
	m := NewHeisenberg(lattice.Chain(128, -1.0))
	m.Init(rand.New(rand.NewSource(11)))

	if err := m.Check(); err != nil {
		t.Fatalf("check failed after init: %v", err)
	}

	for i := 0; i < 128; i++ {
		x, y, z := m.Spin(i)
		if math.Abs(x*x+y*y+z*z-1) > 1e-9 {
			t.Fatalf("site %d off the unit sphere: (%f, %f, %f)", i, x, y, z)
		}
	}
}

func TestHeisenbergInitCoversSphere(t *testing.T) {
	m := NewHeisenberg(lattice.Chain(512, -1.0))
	m.Init(rand.New(rand.NewSource(3)))

	// The arccos construction keeps z uniform; both hemispheres must be
	// populated and the mean z must be small.
	var up, meanZ float64
	for i := 0; i < 512; i++ {
		_, _, z := m.Spin(i)
		if z > 0 {
			up++
		}
		meanZ += z
	}
	meanZ /= 512

	if up < 512/4 || up > 3*512/4 {
		t.Errorf("hemisphere imbalance: %d of 512 up", int(up))
	}
	if math.Abs(meanZ) > 0.2 {
		t.Errorf("expected mean z near 0, got %f", meanZ)
	}
}

func TestHeisenbergTwoSiteEnergy(t *testing.T) {
	m := NewHeisenberg(twoSiteTables(-1.0))
	m.SetSpin(0, 0, 0, 1)
	m.SetSpin(1, 0, 0, 1)

	if e := m.SiteEnergy(0); math.Abs(e-(-1.0)) > 1e-12 {
		t.Errorf("expected site energy -1, got %f", e)
	}
	if e := m.TotalEnergy(); math.Abs(e-(-1.0)) > 1e-12 {
		t.Errorf("expected total energy -1, got %f", e)
	}

	m.SetSpin(1, 0, 0, -1)
	if e := m.TotalEnergy(); math.Abs(e-1.0) > 1e-12 {
		t.Errorf("expected total energy +1 for anti-aligned spins, got %f", e)
	}

	m.SetSpin(1, 1, 0, 0)
	if e := m.TotalEnergy(); math.Abs(e) > 1e-12 {
		t.Errorf("expected zero energy for orthogonal spins, got %f", e)
	}
}

func TestHeisenbergRotationInvariance(t *testing.T) {
	tables := lattice.Chain(16, -1.0)
	m := NewHeisenberg(tables)
	m.Init(rand.New(rand.NewSource(5)))

	before := m.TotalEnergy()

	// Rotate every spin by the same angle about the x axis; the
	// dot-product Hamiltonian is isotropic.
	alpha := 0.7
	cosA, sinA := math.Cos(alpha), math.Sin(alpha)
	for i := 0; i < tables.NumSites; i++ {
		x, y, z := m.Spin(i)
		m.SetSpin(i, x, y*cosA-z*sinA, y*sinA+z*cosA)
	}

	after := m.TotalEnergy()
	if math.Abs(after-before) > 1e-9 {
		t.Errorf("energy changed under global rotation: %f -> %f", before, after)
	}
	if err := m.Check(); err != nil {
		t.Errorf("rotation broke unit norms: %v", err)
	}
}

func TestHeisenbergProposeAccept(t *testing.T) {
	m := NewHeisenberg(twoSiteTables(-1.0))
	m.SetSpin(0, 0, 0, 1)
	m.SetSpin(1, 0, 0, 1)

	rng := rand.New(rand.NewSource(9))
	trial := m.Propose(0, rng)

	// Propose must not mutate.
	if x, y, z := m.Spin(0); x != 0 || y != 0 || z != 1 {
		t.Error("propose mutated the state")
	}
	if math.Abs(trial) > 1.0+1e-12 {
		t.Errorf("trial energy %f outside [-1,1] for a single unit bond", trial)
	}

	m.Accept(0)
	if err := m.Check(); err != nil {
		t.Fatalf("accepted spin off the unit sphere: %v", err)
	}
	if x, y, z := m.Spin(0); x == 0 && y == 0 && z == 1 {
		t.Error("accept did not write the proposed orientation")
	}
}

func TestHeisenbergMeasureSublattices(t *testing.T) {
	tables := &lattice.Tables{
		NumSites:       2,
		NumSublattices: 2,
		Sublattice:     []int{0, 1},
		NeighborCount:  []int{1, 1},
		LookupIndex:    []int{0, 1},
		NeighborSites:  []int{1, 0},
		Couplings:      []float64{1.0, 1.0},
	}
	m := NewHeisenberg(tables)
	m.SetSpin(0, 0, 0, 1)
	m.SetSpin(1, 0, 0, -1)

	var est mc.Estimators
	m.Measure(&est)

	if len(est.SpinVector) != 2 {
		t.Fatalf("expected 2 sublattice sums, got %d", len(est.SpinVector))
	}
	if est.SpinVector[0][2] != 1 || est.SpinVector[1][2] != -1 {
		t.Errorf("sublattice sums mismatch: %v", est.SpinVector)
	}
	// Anti-aligned antiferromagnet: J=+1 bond gives energy -1, total spin
	// cancels.
	if math.Abs(est.Energy-(-1.0)) > 1e-12 {
		t.Errorf("expected energy -1, got %f", est.Energy)
	}
	if math.Abs(est.Magnetization) > 1e-12 {
		t.Errorf("expected zero magnetization, got %f", est.Magnetization)
	}
}

func TestHeisenbergCheckRejectsDrift(t *testing.T) {
	m := NewHeisenberg(twoSiteTables(-1.0))
	m.SetSpin(0, 0, 0, 1)
	m.SetSpin(1, 0, 0, 1.001)

	if err := m.Check(); err == nil {
		t.Error("expected check to reject off-sphere drift, got nil")
	}
}

func TestRandomUnitVectorNorm(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 1000; i++ {
		x, y, z := randomUnitVector(rng)
		if math.Abs(x*x+y*y+z*z-1) > 1e-12 {
			t.Fatalf("draw %d off the unit sphere: (%f, %f, %f)", i, x, y, z)
		}
	}
}
