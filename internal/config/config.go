package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"spinmc/internal/lattice"
	"spinmc/internal/mc"
)

const (
	DefaultSweeps              = 400
	DefaultEquilibrationSweeps = 100
	DefaultSampleInterval      = 1
	DefaultTemperature         = 1.0
)

// Config is the full run configuration: Monte Carlo parameters plus the
// lattice geometry to simulate on. Trace and snapshot paths are optional;
// when set, the run streams estimator samples and writes the final spin
// configuration there.
type Config struct {
	Mode                string        `yaml:"mode"`
	Seed                int64         `yaml:"seed"`
	Sweeps              int           `yaml:"sweeps"`
	EquilibrationSweeps int           `yaml:"equilibration_sweeps"`
	SampleInterval      int           `yaml:"sample_interval"`
	Temperature         float64       `yaml:"temperature"`
	TraceFilepath       string        `yaml:"trace_filepath"`
	SnapshotFilepath    string        `yaml:"snapshot_filepath"`
	Lattice             LatticeConfig `yaml:"lattice"`
}

// LatticeConfig describes the geometry: either a named preset, or an
// explicit periodic cell with basis sites, sublattice labels, supercell
// scaling factors, a neighbor cutoff radius, and sublattice-pair couplings.
type LatticeConfig struct {
	Preset      string      `yaml:"preset"`
	Cell        [][]float64 `yaml:"cell"`
	Basis       [][]float64 `yaml:"basis"`
	Sublattices []int       `yaml:"sublattices"`
	Supercell   []int       `yaml:"supercell"`
	Cutoff      float64     `yaml:"cutoff"`
	Couplings   []Coupling  `yaml:"couplings"`
}

// Coupling assigns constant J to every bond between sublattices A and B
// within the cutoff. Negative J is ferromagnetic.
type Coupling struct {
	A int     `yaml:"a"`
	B int     `yaml:"b"`
	J float64 `yaml:"j"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:                "ising",
		Sweeps:              DefaultSweeps,
		EquilibrationSweeps: DefaultEquilibrationSweeps,
		SampleInterval:      DefaultSampleInterval,
		Temperature:         DefaultTemperature,
		Lattice:             LatticeConfig{Preset: "square_ferro"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects bad configurations before any simulation state exists.
func (c *Config) Validate() error {
	switch c.Mode {
	case "ising", "heisenberg":
	default:
		return fmt.Errorf("unknown mode: %q (want \"ising\" or \"heisenberg\")", c.Mode)
	}
	if c.Sweeps <= 0 {
		return fmt.Errorf("sweeps must be positive, got %d", c.Sweeps)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("sample interval must be positive, got %d", c.SampleInterval)
	}
	if c.Temperature < 0 {
		return fmt.Errorf("temperature must be non-negative, got %g", c.Temperature)
	}
	if c.EquilibrationSweeps < 0 || c.EquilibrationSweeps >= c.Sweeps {
		return fmt.Errorf("equilibration sweeps %d outside [0,%d)", c.EquilibrationSweeps, c.Sweeps)
	}
	return nil
}

// MCConfig translates the run parameters into the engine's configuration.
func (c *Config) MCConfig() mc.Config {
	return mc.Config{
		Sweeps:              c.Sweeps,
		EquilibrationSweeps: c.EquilibrationSweeps,
		SampleInterval:      c.SampleInterval,
		Temperature:         c.Temperature,
		Seed:                c.Seed,
		CheckState:          true,
	}
}

// BuildTables resolves the lattice section into flattened lookup tables,
// either from a named preset or by running the neighbor search over the
// explicit geometry.
func (lc *LatticeConfig) BuildTables() (*lattice.Tables, error) {
	if lc.Preset != "" {
		return BuildPresetLattice(lc.Preset)
	}

	if len(lc.Cell) != 3 {
		return nil, fmt.Errorf("lattice cell must have 3 vectors, got %d", len(lc.Cell))
	}
	var cell [3][3]float64
	for v := 0; v < 3; v++ {
		if len(lc.Cell[v]) != 3 {
			return nil, fmt.Errorf("lattice cell vector %d must have 3 components, got %d", v, len(lc.Cell[v]))
		}
		copy(cell[v][:], lc.Cell[v])
	}

	if len(lc.Basis) == 0 {
		return nil, fmt.Errorf("lattice basis is empty")
	}
	if len(lc.Sublattices) != len(lc.Basis) {
		return nil, fmt.Errorf("got %d sublattice labels for %d basis sites", len(lc.Sublattices), len(lc.Basis))
	}

	frac := make([][3]float64, len(lc.Basis))
	for i, b := range lc.Basis {
		if len(b) != 3 {
			return nil, fmt.Errorf("basis site %d must have 3 coordinates, got %d", i, len(b))
		}
		copy(frac[i][:], b)
	}

	s := &lattice.Structure{
		Cell:        cell,
		Frac:        frac,
		Sublattices: append([]int(nil), lc.Sublattices...),
	}

	nx, ny, nz := 1, 1, 1
	if len(lc.Supercell) == 3 {
		nx, ny, nz = lc.Supercell[0], lc.Supercell[1], lc.Supercell[2]
	} else if len(lc.Supercell) != 0 {
		return nil, fmt.Errorf("supercell must have 3 factors, got %d", len(lc.Supercell))
	}
	s = s.Supercell(nx, ny, nz)

	couplings := make(map[[2]int]float64, len(lc.Couplings))
	for _, c := range lc.Couplings {
		couplings[lattice.PairKey(c.A, c.B)] = c.J
	}

	tables, err := lattice.BuildTables(s, lc.Cutoff, couplings)
	if err != nil {
		return nil, err
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return tables, nil
}
