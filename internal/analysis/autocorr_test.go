package analysis

import (
	"math"
	"testing"
)

func TestAutocorrelationConstantSeries(t *testing.T) {
	acf := Autocorrelation([]float64{2, 2, 2, 2}, 2)

	if len(acf) != 3 {
		t.Fatalf("expected 3 lags, got %d", len(acf))
	}
	if acf[0] != 1 {
		t.Errorf("expected acf[0] = 1, got %f", acf[0])
	}
	for lag := 1; lag < len(acf); lag++ {
		if acf[lag] != 0 {
			t.Errorf("expected acf[%d] = 0 for zero variance, got %f", lag, acf[lag])
		}
	}
}

func TestAutocorrelationAlternatingSeries(t *testing.T) {
	xs := []float64{1, -1, 1, -1, 1, -1, 1, -1}
	acf := Autocorrelation(xs, 2)

	if math.Abs(acf[0]-1) > 1e-12 {
		t.Errorf("expected acf[0] = 1, got %f", acf[0])
	}
	// Perfectly anticorrelated at lag 1, up to the 1/n normalization of the
	// truncated sum.
	if acf[1] >= 0 {
		t.Errorf("expected negative lag-1 autocorrelation, got %f", acf[1])
	}
	if math.Abs(acf[1]-(-7.0/8.0)) > 1e-12 {
		t.Errorf("expected lag-1 value -7/8, got %f", acf[1])
	}
}

func TestAutocorrelationClampsLag(t *testing.T) {
	acf := Autocorrelation([]float64{1, 2, 3}, 10)
	if len(acf) != 3 {
		t.Errorf("expected lag clamped to series length, got %d values", len(acf))
	}
}

func TestAutocorrelationEmpty(t *testing.T) {
	if acf := Autocorrelation(nil, 5); acf != nil {
		t.Errorf("expected nil for an empty series, got %v", acf)
	}
}

func TestIntegratedTime(t *testing.T) {
	// 1 + 2*(0.5 + 0.25), truncated at the first non-positive lag.
	tau := IntegratedTime([]float64{1, 0.5, 0.25, -0.1, 0.3})
	if math.Abs(tau-2.5) > 1e-12 {
		t.Errorf("expected integrated time 2.5, got %f", tau)
	}

	if tau := IntegratedTime([]float64{1}); tau != 1 {
		t.Errorf("expected 1 for a lag-0-only acf, got %f", tau)
	}
	if tau := IntegratedTime([]float64{1, 0, 0.9}); tau != 1 {
		t.Errorf("expected truncation at the first zero, got %f", tau)
	}
}
