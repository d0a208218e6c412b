package experiment

import (
	"context"
	"fmt"

	"spinmc/internal/config"
	"spinmc/internal/lattice"
	"spinmc/internal/mc"
)

// Experiment wires a run configuration into lookup tables, a spin model,
// and an engine, and runs the simulation.
type Experiment struct {
	cfg    *config.Config
	tables *lattice.Tables
	model  mc.Model
	engine *mc.Engine
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup validates the configuration, builds the lattice tables, and
// constructs the model and engine. No simulation state exists if it fails.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	tables, err := e.cfg.Lattice.BuildTables()
	if err != nil {
		return fmt.Errorf("failed to build lattice: %w", err)
	}
	e.tables = tables

	registry := NewRegistry()
	mdl, err := registry.GetModel(e.cfg.Mode, tables)
	if err != nil {
		return err
	}
	e.model = mdl
	e.engine = mc.New(mdl)

	return nil
}

func (e *Experiment) AddObserver(o mc.Observer) {
	e.engine.AddObserver(o)
}

func (e *Experiment) Run(ctx context.Context) (*mc.Result, error) {
	if e.engine == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.engine.Run(ctx, e.cfg.MCConfig())
}

// Tables returns the built lookup tables; nil before Setup.
func (e *Experiment) Tables() *lattice.Tables { return e.tables }

// Model returns the spin model; nil before Setup.
func (e *Experiment) Model() mc.Model { return e.model }
