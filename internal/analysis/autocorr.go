// Package analysis provides diagnostics over estimator sample series.
package analysis

// Autocorrelation returns the normalized autocorrelation function of xs up
// to maxLag (inclusive), acf[0] == 1. A slowly decaying acf means the
// sampling interval is short relative to the correlation time.
func Autocorrelation(xs []float64, maxLag int) []float64 {
	n := len(xs)
	if n == 0 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}

	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	var c0 float64
	for _, x := range xs {
		d := x - mean
		c0 += d * d
	}
	c0 /= float64(n)

	acf := make([]float64, maxLag+1)
	if c0 == 0 {
		acf[0] = 1
		return acf
	}

	for lag := 0; lag <= maxLag; lag++ {
		var c float64
		for i := 0; i < n-lag; i++ {
			c += (xs[i] - mean) * (xs[i+lag] - mean)
		}
		acf[lag] = c / float64(n) / c0
	}

	return acf
}

// IntegratedTime estimates the integrated autocorrelation time
// 1 + 2 Σ acf[k], truncating the sum at the first non-positive lag.
func IntegratedTime(acf []float64) float64 {
	tau := 1.0
	for lag := 1; lag < len(acf); lag++ {
		if acf[lag] <= 0 {
			break
		}
		tau += 2 * acf[lag]
	}
	return tau
}
