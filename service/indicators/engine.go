package indicators

import (
	"math"
	"time"

	ex "stockanalyzer/data/extensions"
	m "stockanalyzer/service/models"
)

const (
	ShortWindow = 20
	LongWindow  = 50
	RSIPeriod   = 14

	// weights in tenths keep the composite exact for the discrete component values
	maWeight   = 4
	rsiWeight  = 3
	macdWeight = 3

	oneWeekLookback = 6
)

const (
	StrongBuy  = "STRONG BUY"
	Buy        = "BUY"
	Hold       = "HOLD"
	Sell       = "SELL"
	StrongSell = "STRONG SELL"

	ConfidenceHigh    = "high"
	ConfidenceMedium  = "medium"
	ConfidenceNeutral = "neutral"
	ConfidenceLow     = "low"
)

const (
	reasonStrongUptrend   = "✅ Strong uptrend: Price above MA20 and MA20 above MA50"
	reasonMildUptrend     = "↗️ Mild uptrend: Price above MA20"
	reasonStrongDowntrend = "❌ Strong downtrend: Price below MA20 and MA20 below MA50"
	reasonMildDowntrend   = "↘️ Mild downtrend: Price below MA20"
	reasonNeutralTrend    = "➡️ Neutral: Price near moving averages"

	reasonOversold   = "📈 Oversold: RSI below 30 (potential buying opportunity)"
	reasonRSIBullish = "👍 Bullish: RSI in lower range"
	reasonOverbought = "📉 Overbought: RSI above 70 (potential selling pressure)"
	reasonRSIBearish = "👎 Bearish: RSI in higher range"
	reasonRSINeutral = "⚖️ Neutral: RSI in normal range (30-70)"

	reasonMACDStrongBullish = "🚀 Strong bullish: MACD above signal line and positive"
	reasonMACDBullish       = "📊 Bullish: MACD above signal line"
	reasonMACDStrongBearish = "🔻 Strong bearish: MACD below signal line and negative"
	reasonMACDBearish       = "📉 Bearish: MACD below signal line"
	reasonMACDNeutral       = "⚡ Neutral: MACD near signal line"

	ReasonLimitedData = "⚠️ Limited data available for analysis"
	ReasonFallback    = "Using fallback recommendation"
)

type tier struct {
	minScore       float64
	recommendation string
	confidence     string
}

// ordered, first match wins
var tiers = []tier{
	{7, StrongBuy, ConfidenceHigh},
	{3, Buy, ConfidenceMedium},
	{-2, Hold, ConfidenceNeutral},
	{-6, Sell, ConfidenceMedium},
}

type factor struct {
	raw    int
	weight int
	reason string
}

// Classify maps an unrounded composite score to a recommendation and confidence
func Classify(score float64) (string, string) {
	for _, t := range tiers {
		if score >= t.minScore {
			return t.recommendation, t.confidence
		}
	}
	return StrongSell, ConfidenceHigh
}

// Score combines the trend, momentum and MACD factors for the given price
func Score(price float64, snap m.IndicatorSnapshot) (float64, []string) {
	factors := []factor{
		scoreTrend(price, snap.MA20, snap.MA50),
		scoreRSI(snap.RSI),
		scoreMACD(snap.MACD, snap.MACDSignal),
	}

	total := 0
	reasons := make([]string, 0, len(factors))
	for _, f := range factors {
		total += f.raw * f.weight
		reasons = append(reasons, f.reason)
	}
	return float64(total) / 10, reasons
}

func scoreTrend(price, ma20, ma50 float64) factor {
	switch {
	case price > ma20 && ma20 > ma50:
		return factor{10, maWeight, reasonStrongUptrend}
	case price > ma20:
		return factor{5, maWeight, reasonMildUptrend}
	case price < ma20 && ma20 < ma50:
		return factor{-10, maWeight, reasonStrongDowntrend}
	case price < ma20:
		return factor{-5, maWeight, reasonMildDowntrend}
	default:
		return factor{0, maWeight, reasonNeutralTrend}
	}
}

func scoreRSI(rsi float64) factor {
	switch {
	case rsi < 30:
		return factor{10, rsiWeight, reasonOversold}
	case rsi < 45:
		return factor{5, rsiWeight, reasonRSIBullish}
	case rsi > 70:
		return factor{-10, rsiWeight, reasonOverbought}
	case rsi > 55:
		return factor{-5, rsiWeight, reasonRSIBearish}
	default:
		return factor{0, rsiWeight, reasonRSINeutral}
	}
}

func scoreMACD(macd, signal float64) factor {
	switch {
	case macd > signal && macd > 0:
		return factor{10, macdWeight, reasonMACDStrongBullish}
	case macd > signal:
		return factor{5, macdWeight, reasonMACDBullish}
	case macd < signal && macd < 0:
		return factor{-10, macdWeight, reasonMACDStrongBearish}
	case macd < signal:
		return factor{-5, macdWeight, reasonMACDBearish}
	default:
		return factor{0, macdWeight, reasonMACDNeutral}
	}
}

// Snapshot computes the indicator values at the last close
func Snapshot(closes []float64) m.IndicatorSnapshot {
	macd, signal := MACD(closes, MACDFast, MACDSlow, MACDSignal).Last()
	return m.IndicatorSnapshot{
		MA20:       SMA(closes, ShortWindow),
		MA50:       SMA(closes, LongWindow),
		RSI:        RSI(closes, RSIPeriod),
		MACD:       macd,
		MACDSignal: signal,
	}
}

func PriceChanges(closes []float64) m.PriceChanges {
	n := len(closes)
	var res m.PriceChanges
	if n >= 2 {
		res.OneDay = percentChange(closes[n-2], closes[n-1])
	}
	if n >= oneWeekLookback {
		res.OneWeek = percentChange(closes[n-oneWeekLookback], closes[n-1])
	}
	return res
}

// Evaluate scores a close series. It never fails: an empty series or any
// non finite intermediate value yields the fallback recommendation.
func Evaluate(symbol string, closes []float64, asOf time.Time) m.Recommendation {
	if len(closes) == 0 {
		return Fallback(symbol, asOf)
	}

	price := closes[len(closes)-1]
	snap := Snapshot(closes)
	changes := PriceChanges(closes)
	score, reasons := Score(price, snap)

	if !allFinite(price, snap.MA20, snap.MA50, snap.RSI, snap.MACD, snap.MACDSignal, changes.OneDay, changes.OneWeek) {
		return Fallback(symbol, asOf)
	}

	recommendation, confidence := Classify(score)

	return m.Recommendation{
		Symbol:         ex.NormalizeSymbol(symbol),
		Recommendation: recommendation,
		Confidence:     confidence,
		Score:          ex.Round(score, 2),
		CurrentPrice:   ex.Round(price, 2),
		Indicators: m.IndicatorSnapshot{
			MA20:       ex.Round(snap.MA20, 2),
			MA50:       ex.Round(snap.MA50, 2),
			RSI:        ex.Round(snap.RSI, 2),
			MACD:       ex.Round(snap.MACD, 4),
			MACDSignal: ex.Round(snap.MACDSignal, 4),
		},
		PriceChanges: m.PriceChanges{
			OneDay:  ex.Round(changes.OneDay, 2),
			OneWeek: ex.Round(changes.OneWeek, 2),
		},
		Reasoning:   reasons,
		LastUpdated: ex.FmtLong(asOf),
	}
}

// Fallback is the recommendation served when no usable history exists
func Fallback(symbol string, asOf time.Time) m.Recommendation {
	return m.Recommendation{
		Symbol:         ex.NormalizeSymbol(symbol),
		Recommendation: Hold,
		Confidence:     ConfidenceLow,
		Score:          0,
		CurrentPrice:   0,
		Indicators:     m.IndicatorSnapshot{RSI: neutralRSI},
		PriceChanges:   m.PriceChanges{},
		Reasoning:      []string{ReasonLimitedData, ReasonFallback},
		LastUpdated:    ex.FmtLong(asOf),
	}
}

func percentChange(from, to float64) float64 {
	return (to - from) / from * 100
}

func allFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
