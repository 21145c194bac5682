package extensions

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// FilterMultiple return all elements that satisfy the predicate
func FilterMultiple[T any](elements []T, predicate func(T) bool) (results []T) {
	for _, element := range elements {
		if predicate(element) {
			results = append(results, element)
		}
	}
	return
}

// FilterSingle return the single element that satisfies the predicate.
// If zero or more than one, default T and an error is returned.
func FilterSingle[T any](elements []T, predicate func(T) bool) (T, error) {
	res := FilterMultiple(elements, predicate)

	if len(res) != 1 {
		var zero T
		return zero, fmt.Errorf("error getting single, found %d matches", len(res))
	}

	return res[0], nil
}

// FmtShort formats a time in a date only string
func FmtShort(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FmtLong formats a time to a full date string
func FmtLong(t time.Time) string {
	return t.Format(time.RFC3339)
}

func Max[T Number](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Round rounds half away from zero to the given number of decimal places
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// NormalizeSymbol trims and upper cases a ticker symbol
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SplitSymbols parses a comma separated symbol list, falling back to defaults when empty.
// Blank entries are dropped, order is preserved.
func SplitSymbols(raw string, defaults []string) []string {
	if strings.TrimSpace(raw) == "" {
		return append([]string(nil), defaults...)
	}

	var res []string
	for _, part := range strings.Split(raw, ",") {
		if s := NormalizeSymbol(part); s != "" {
			res = append(res, s)
		}
	}
	return res
}
