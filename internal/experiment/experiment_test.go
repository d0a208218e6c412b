package experiment

import (
	"context"
	"strings"
	"testing"

	"spinmc/internal/config"
	"spinmc/internal/lattice"
)

func chainCfg() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Sweeps = 100
	cfg.EquilibrationSweeps = 20
	cfg.Seed = 5
	cfg.Lattice = config.LatticeConfig{Preset: "chain_ferro"}
	return cfg
}

func TestRegistryModes(t *testing.T) {
	registry := NewRegistry()
	tables := lattice.Chain(4, -1.0)

	for _, mode := range []string{"ising", "heisenberg"} {
		mdl, err := registry.GetModel(mode, tables)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if mdl.Name() != mode {
			t.Errorf("expected model named %q, got %q", mode, mdl.Name())
		}
		if mdl.NumSites() != 4 {
			t.Errorf("%s: expected 4 sites, got %d", mode, mdl.NumSites())
		}
	}

	if _, err := registry.GetModel("potts", tables); err == nil {
		t.Error("expected error for unknown mode, got nil")
	}
	if modes := registry.ListModes(); len(modes) != 2 {
		t.Errorf("expected 2 registered modes, got %v", modes)
	}
}

func TestSetupAndRun(t *testing.T) {
	exp := New(chainCfg())
	if err := exp.Setup(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if exp.Tables() == nil || exp.Tables().NumSites != 64 {
		t.Fatalf("expected a 64-site chain, got %+v", exp.Tables())
	}
	if exp.Model() == nil || exp.Model().Name() != "ising" {
		t.Fatal("expected an ising model")
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Trace) != 80 {
		t.Errorf("expected 80 samples, got %d", len(result.Trace))
	}
	if len(result.FinalState) != 64 {
		t.Errorf("expected a 64-row final state, got %d", len(result.FinalState))
	}
}

func TestSetupRejectsBadConfig(t *testing.T) {
	cfg := chainCfg()
	cfg.Mode = "potts"

	if err := New(cfg).Setup(); err == nil {
		t.Error("expected setup to reject an unknown mode, got nil")
	}
}

func TestSetupRejectsBadLattice(t *testing.T) {
	cfg := chainCfg()
	cfg.Lattice = config.LatticeConfig{Preset: "triangular"}

	err := New(cfg).Setup()
	if err == nil {
		t.Fatal("expected setup to fail on an unknown lattice preset, got nil")
	}
	if !strings.Contains(err.Error(), "failed to build lattice") {
		t.Errorf("expected a lattice build error, got %v", err)
	}
}

func TestRunBeforeSetup(t *testing.T) {
	if _, err := New(chainCfg()).Run(context.Background()); err == nil {
		t.Error("expected error when running before setup, got nil")
	}
}
