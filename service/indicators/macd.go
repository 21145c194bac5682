package indicators

const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

type MACDSeries struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

func MACD(closes []float64, fast, slow, signal int) MACDSeries {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = emaFast[i] - emaSlow[i]
	}

	sig := EMA(line, signal)
	hist := make([]float64, len(closes))
	for i := range line {
		hist[i] = line[i] - sig[i]
	}

	return MACDSeries{MACD: line, Signal: sig, Histogram: hist}
}

// Last returns the macd and signal values at the final index
func (s MACDSeries) Last() (macd, signal float64) {
	if len(s.MACD) == 0 {
		return 0, 0
	}
	n := len(s.MACD) - 1
	return s.MACD[n], s.Signal[n]
}
