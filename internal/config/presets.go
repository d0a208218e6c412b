package config

import (
	"fmt"

	"spinmc/internal/lattice"
)

// Run presets, keyed by mode then preset name.
var Presets = map[string]map[string]*Config{
	"ising": {
		"square_ferro": {
			Mode: "ising", Sweeps: 400, EquilibrationSweeps: 100, SampleInterval: 1, Temperature: 1.0,
			Lattice: LatticeConfig{Preset: "square_ferro"},
		},
		"square_antiferro": {
			Mode: "ising", Sweeps: 400, EquilibrationSweeps: 100, SampleInterval: 1, Temperature: 1.0,
			Lattice: LatticeConfig{Preset: "square_antiferro"},
		},
		"chain_quench": {
			Mode: "ising", Sweeps: 200, EquilibrationSweeps: 50, SampleInterval: 1, Temperature: 0.0,
			Lattice: LatticeConfig{Preset: "chain_ferro"},
		},
	},
	"heisenberg": {
		"cubic_ferro": {
			Mode: "heisenberg", Sweeps: 200, EquilibrationSweeps: 100, SampleInterval: 1, Temperature: 1.0,
			Lattice: LatticeConfig{Preset: "cubic_ferro"},
		},
		"bcc_ferro": {
			Mode: "heisenberg", Sweeps: 200, EquilibrationSweeps: 100, SampleInterval: 1, Temperature: 1.0,
			Lattice: LatticeConfig{Preset: "bcc_ferro"},
		},
	},
}

func GetPreset(mode, preset string) *Config {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	cfg, ok := modePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(mode string) []string {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modePresets))
	for name := range modePresets {
		names = append(names, name)
	}
	return names
}

// allPairs assigns coupling j to every sublattice pair among n sublattices.
func allPairs(n int, j float64) map[[2]int]float64 {
	couplings := make(map[[2]int]float64)
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			couplings[lattice.PairKey(a, b)] = j
		}
	}
	return couplings
}

// squareStructure is a two-sublattice square net in a slab cell: four basis
// sites at half-cell spacing, nearest neighbors at distance 1.
func squareStructure() *lattice.Structure {
	return &lattice.Structure{
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

// cubicStructure is an eight-site simple cubic basis with alternating
// sublattice labels, nearest neighbors at distance 1.
func cubicStructure() *lattice.Structure {
	return &lattice.Structure{
		Cell: [3][3]float64{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}},
		Frac: [][3]float64{
			{0.00, 0.00, 0.00},
			{0.50, 0.00, 0.00},
			{0.00, 0.50, 0.00},
			{0.50, 0.50, 0.00},
			{0.00, 0.00, 0.50},
			{0.50, 0.00, 0.50},
			{0.00, 0.50, 0.50},
			{0.50, 0.50, 0.50},
		},
		Sublattices: []int{0, 1, 1, 0, 1, 0, 0, 1},
	}
}

// bccStructure is a four-sublattice body-centered arrangement in a flat
// cell, corner-to-center distance √3/2.
func bccStructure() *lattice.Structure {
	return &lattice.Structure{
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
}

// BuildPresetLattice resolves a named geometry into validated lookup tables.
func BuildPresetLattice(name string) (*lattice.Tables, error) {
	var (
		tables *lattice.Tables
		err    error
	)

	switch name {
	case "chain_ferro":
		tables = lattice.Chain(64, -1.0)
	case "square_ferro":
		tables, err = lattice.BuildTables(squareStructure().Supercell(5, 5, 1), 1.2, allPairs(2, -1.0))
	case "square_antiferro":
		tables, err = lattice.BuildTables(squareStructure().Supercell(5, 5, 1), 1.2, allPairs(2, 1.0))
	case "cubic_ferro":
		tables, err = lattice.BuildTables(cubicStructure().Supercell(5, 5, 5), 1.2, allPairs(2, -1.0))
	case "bcc_ferro":
		tables, err = lattice.BuildTables(bccStructure().Supercell(5, 5, 10), 0.9, allPairs(4, -1.0))
	default:
		return nil, fmt.Errorf("unknown lattice preset: %q", name)
	}
	if err != nil {
		return nil, err
	}

	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return tables, nil
}

// ListLatticePresets names the built-in geometries.
func ListLatticePresets() []string {
	return []string{"chain_ferro", "square_ferro", "square_antiferro", "cubic_ferro", "bcc_ferro"}
}
