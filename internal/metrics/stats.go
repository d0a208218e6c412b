package metrics

import (
	"math"

	"spinmc/internal/mc"
)

// Energies extracts the energy series from a sample trace.
func Energies(trace []mc.Sample) []float64 {
	xs := make([]float64, len(trace))
	for i, s := range trace {
		xs[i] = s.Energy
	}
	return xs
}

// Magnetizations extracts the magnetization series from a sample trace.
func Magnetizations(trace []mc.Sample) []float64 {
	xs := make([]float64, len(trace))
	for i, s := range trace {
		xs[i] = s.Magnetization
	}
	return xs
}

func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func Variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}

// SpecificHeat estimates C = Var(E) / (N T^2) from the energy fluctuations
// of the trace. Zero temperature has no fluctuation estimator; returns 0.
func SpecificHeat(trace []mc.Sample, numSites int, temperature float64) float64 {
	if temperature <= 0 || numSites == 0 {
		return 0
	}
	return Variance(Energies(trace)) / (float64(numSites) * temperature * temperature)
}

// Susceptibility estimates chi = Var(M) / (N T) from the magnetization
// fluctuations of the trace.
func Susceptibility(trace []mc.Sample, numSites int, temperature float64) float64 {
	if temperature <= 0 || numSites == 0 {
		return 0
	}
	return Variance(Magnetizations(trace)) / (float64(numSites) * temperature)
}

// BinderCumulant computes U = 1 - <m^4> / (3 <m^2>^2) over the reduced
// magnetization m = M/N. It approaches 2/3 deep in the ordered phase and 0
// in the disordered phase, making it a finite-size transition locator.
func BinderCumulant(trace []mc.Sample, numSites int) float64 {
	if len(trace) == 0 || numSites == 0 {
		return 0
	}
	var m2, m4 float64
	for _, s := range trace {
		m := s.Magnetization / float64(numSites)
		m2 += m * m
		m4 += m * m * m * m
	}
	m2 /= float64(len(trace))
	m4 /= float64(len(trace))
	if m2 == 0 {
		return 0
	}
	return 1 - m4/(3*m2*m2)
}

// ReducedEnergyBound returns the largest possible |energy per site| for the
// given coordination and coupling magnitude.
func ReducedEnergyBound(maxCoordination int, maxCoupling float64) float64 {
	return float64(maxCoordination) * math.Abs(maxCoupling)
}
