package experiment

import (
	"fmt"

	"spinmc/internal/lattice"
	"spinmc/internal/mc"
	"spinmc/internal/model"
)

// Registry maps mode names to spin model constructors.
type Registry struct {
	models map[string]func(*lattice.Tables) mc.Model
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func(*lattice.Tables) mc.Model),
	}

	r.models["ising"] = func(t *lattice.Tables) mc.Model { return model.NewIsing(t) }
	r.models["heisenberg"] = func(t *lattice.Tables) mc.Model { return model.NewHeisenberg(t) }

	return r
}

func (r *Registry) GetModel(mode string, tables *lattice.Tables) (mc.Model, error) {
	fn, ok := r.models[mode]
	if !ok {
		return nil, fmt.Errorf("unknown mode: %s", mode)
	}
	return fn(tables), nil
}

func (r *Registry) ListModes() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	return names
}
