package indicators

import "gonum.org/v1/gonum/stat"

// SMA is the mean of the last n closes. With fewer than n closes the current
// (last) close stands in, and an empty series yields 0.
func SMA(closes []float64, n int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if n <= 0 || len(closes) < n {
		return closes[len(closes)-1]
	}
	return stat.Mean(closes[len(closes)-n:], nil)
}

// RollingSMA returns the n period mean ending at every index, 0 where fewer than n closes exist
func RollingSMA(closes []float64, n int) []float64 {
	res := make([]float64, len(closes))
	if n <= 0 {
		return res
	}
	for i := n - 1; i < len(closes); i++ {
		res[i] = stat.Mean(closes[i-n+1:i+1], nil)
	}
	return res
}

// EMA is the recursive exponential moving average with alpha = 2/(span+1),
// seeded with the first value
func EMA(values []float64, span int) []float64 {
	res := make([]float64, len(values))
	if len(values) == 0 {
		return res
	}

	alpha := 2.0 / (float64(span) + 1.0)
	res[0] = values[0]
	for i := 1; i < len(values); i++ {
		res[i] = alpha*values[i] + (1-alpha)*res[i-1]
	}
	return res
}
