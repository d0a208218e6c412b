package model

import (
	"fmt"
	"math"
	"math/rand"

	"spinmc/internal/lattice"
	"spinmc/internal/mc"
)

// normTolerance bounds how far a site vector may drift off the unit sphere
// before Check reports a programming error.
const normTolerance = 1e-9

// Heisenberg holds a classical 3-vector spin per site, stored as one array
// per component. Every site vector stays on the unit sphere.
type Heisenberg struct {
	tables    *lattice.Tables
	x, y, z   []float64
	trialSite int
	trial     [3]float64
}

var _ mc.Model = (*Heisenberg)(nil)

func NewHeisenberg(t *lattice.Tables) *Heisenberg {
	return &Heisenberg{
		tables:    t,
		x:         make([]float64, t.NumSites),
		y:         make([]float64, t.NumSites),
		z:         make([]float64, t.NumSites),
		trialSite: -1,
	}
}

func (m *Heisenberg) Name() string        { return "heisenberg" }
func (m *Heisenberg) NumSites() int       { return m.tables.NumSites }
func (m *Heisenberg) NumSublattices() int { return m.tables.NumSublattices }

// randomUnitVector samples a point uniformly on the unit sphere: azimuth
// uniform in [0,2π), polar angle via arccos of a uniform(-1,1) draw. The
// inverse-CDF construction on the polar angle is required; sampling it
// uniformly would bias toward the poles.
func randomUnitVector(rng *rand.Rand) (x, y, z float64) {
	theta := 2 * math.Pi * rng.Float64()
	phi := math.Acos(2*rng.Float64() - 1)
	sinPhi := math.Sin(phi)
	return sinPhi * math.Cos(theta), sinPhi * math.Sin(theta), math.Cos(phi)
}

// Init draws each site's orientation uniformly on the unit sphere.
func (m *Heisenberg) Init(rng *rand.Rand) {
	for i := range m.x {
		m.x[i], m.y[i], m.z[i] = randomUnitVector(rng)
	}
}

// SetSpin overwrites site i, for hand-built configurations.
func (m *Heisenberg) SetSpin(i int, x, y, z float64) {
	m.x[i], m.y[i], m.z[i] = x, y, z
}

// Spin reads site i's vector.
func (m *Heisenberg) Spin(i int) (x, y, z float64) {
	return m.x[i], m.y[i], m.z[i]
}

func (m *Heisenberg) SiteEnergy(i int) float64 {
	return m.spinEnergy(i, m.x[i], m.y[i], m.z[i])
}

// spinEnergy evaluates Σ_j J_ij (s·s_j) over the neighbors of site i with
// the vector s substituted at i.
func (m *Heisenberg) spinEnergy(i int, sx, sy, sz float64) float64 {
	sites, js := m.tables.Neighbors(i)
	energy := 0.0
	for k, j := range sites {
		energy += js[k] * (sx*m.x[j] + sy*m.y[j] + sz*m.z[j])
	}
	return energy
}

// Propose draws a fresh random orientation for site i, independent of the
// current one (full reorientation, not a small-angle perturbation).
func (m *Heisenberg) Propose(i int, rng *rand.Rand) float64 {
	sx, sy, sz := randomUnitVector(rng)
	m.trialSite = i
	m.trial = [3]float64{sx, sy, sz}
	return m.spinEnergy(i, sx, sy, sz)
}

func (m *Heisenberg) Accept(i int) {
	m.x[i] = m.trial[0]
	m.y[i] = m.trial[1]
	m.z[i] = m.trial[2]
}

// TotalEnergy halves the per-site sum because the symmetric bond tables
// count each undirected bond once from each endpoint.
func (m *Heisenberg) TotalEnergy() float64 {
	total := 0.0
	for i := 0; i < m.tables.NumSites; i++ {
		total += m.SiteEnergy(i)
	}
	return total / 2.0
}

// Measure records total energy, per-sublattice spin vector sums, and the
// norm of the whole-lattice spin sum as magnetization.
func (m *Heisenberg) Measure(est *mc.Estimators) {
	est.Energy = m.TotalEnergy()

	if est.SpinVector == nil {
		est.SpinVector = make([][3]float64, m.tables.NumSublattices)
	}
	for s := range est.SpinVector {
		est.SpinVector[s] = [3]float64{}
	}

	var tx, ty, tz float64
	for i := range m.x {
		s := m.tables.Sublattice[i]
		est.SpinVector[s][0] += m.x[i]
		est.SpinVector[s][1] += m.y[i]
		est.SpinVector[s][2] += m.z[i]
		tx += m.x[i]
		ty += m.y[i]
		tz += m.z[i]
	}
	est.Magnetization = math.Sqrt(tx*tx + ty*ty + tz*tz)
}

func (m *Heisenberg) Snapshot() [][]float64 {
	rows := make([][]float64, len(m.x))
	for i := range m.x {
		rows[i] = []float64{m.x[i], m.y[i], m.z[i]}
	}
	return rows
}

func (m *Heisenberg) Check() error {
	for i := range m.x {
		norm2 := m.x[i]*m.x[i] + m.y[i]*m.y[i] + m.z[i]*m.z[i]
		if math.Abs(norm2-1) > normTolerance {
			return fmt.Errorf("spin at site %d off the unit sphere (|s|^2 = %.12f)", i, norm2)
		}
	}
	return nil
}
