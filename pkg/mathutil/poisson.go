package mathutil

import "math"

// LogFactorial returns ln(k!) using the log-gamma function. It stays finite
// far beyond the range where k! itself overflows a float64. Negative k yields NaN.
func LogFactorial(k int) float64 {
	if k < 0 {
		return math.NaN()
	}
	if k < 2 {
		return 0
	}
	lg, _ := math.Lgamma(float64(k) + 1)
	return lg
}

// Factorial returns k! as a float64. It is exact up to 22! and returns +Inf
// once the result leaves float64 range (k > 170).
func Factorial(k int) float64 {
	if k < 0 {
		return math.NaN()
	}
	result := 1.0
	for i := 2; i <= k; i++ {
		result *= float64(i)
		if math.IsInf(result, 1) {
			return result
		}
	}
	return result
}

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda), computed in log space:
// exp(k*ln(lambda) - lambda - ln(k!)).
func PoissonPMF(lambda float64, k int) float64 {
	if k < 0 || lambda < 0 || math.IsNaN(lambda) {
		return 0
	}
	if lambda == 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	return math.Exp(float64(k)*math.Log(lambda) - lambda - LogFactorial(k))
}

// PoissonSurvival returns P(X >= 1) = 1 - P(X = 0) for X ~ Poisson(lambda).
// It uses expm1 so tiny rates keep their precision.
func PoissonSurvival(lambda float64) float64 {
	if lambda <= 0 || math.IsNaN(lambda) {
		return 0
	}
	return -math.Expm1(-lambda)
}
