package indicators

const neutralRSI = 50.0

// RSISeries computes RSI at every index from the plain mean gain and mean loss of the
// last period close differences. Indices without a full window are neutral (50).
func RSISeries(closes []float64, period int) []float64 {
	res := make([]float64, len(closes))
	for i := range res {
		res[i] = neutralRSI
	}
	if period <= 0 {
		return res
	}

	for i := period; i < len(closes); i++ {
		var gains, losses float64
		for j := i - period + 1; j <= i; j++ {
			change := closes[j] - closes[j-1]
			if change > 0 {
				gains += change
			} else {
				losses -= change
			}
		}
		res[i] = relativeStrength(gains/float64(period), losses/float64(period))
	}
	return res
}

// RSI is the last value of RSISeries, neutral for an empty series
func RSI(closes []float64, period int) float64 {
	if len(closes) == 0 {
		return neutralRSI
	}
	s := RSISeries(closes, period)
	return s[len(s)-1]
}

func relativeStrength(avgGain, avgLoss float64) float64 {
	switch {
	case avgLoss == 0 && avgGain == 0:
		return neutralRSI
	case avgLoss == 0:
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
