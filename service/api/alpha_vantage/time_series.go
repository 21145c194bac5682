package alpha_vantage

type TimeSeries uint8

// TimeSeries specifies a frequency to query for stock data.
const (
	TimeSeriesDaily TimeSeries = iota
	TimeSeriesWeekly
)

type OutputSize string

const (
	OutputSizeCompact OutputSize = "compact"
	OutputSizeFull    OutputSize = "full"
)

func (t TimeSeries) Name() string {
	switch t {
	case TimeSeriesDaily:
		return "TimeSeriesDaily"
	case TimeSeriesWeekly:
		return "TimeSeriesWeekly"
	default:
		return ""
	}
}

func (t TimeSeries) Function() string {
	switch t {
	case TimeSeriesDaily:
		return "TIME_SERIES_DAILY"
	case TimeSeriesWeekly:
		return "TIME_SERIES_WEEKLY"
	default:
		return ""
	}
}

func (t TimeSeries) TimeSeriesKey() string {
	switch t {
	case TimeSeriesDaily:
		return "Time Series (Daily)"
	case TimeSeriesWeekly:
		return "Weekly Time Series"
	default:
		return ""
	}
}
