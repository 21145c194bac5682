package extensions

import (
	"math"
	"testing"
	"time"
)

// FixedTestTime is a stable clock reading for deterministic tests
var FixedTestTime = time.Date(2025, time.October, 31, 16, 0, 0, 0, time.UTC)

func AssertAreEqual[T comparable](t *testing.T, name string, expected T, actual T) {
	t.Helper()
	if expected != actual {
		t.Fatalf("value mismatch for %s, expected %v, got %v", name, expected, actual)
	}
}

func AssertNillability[T any](t *testing.T, name string, expected bool, actual *T) {
	t.Helper()
	if (actual == nil) != expected {
		t.Fatalf("value mismatch for %s, expected nil %v, got nil %v", name, expected, (actual == nil))
	}
}

func AssertAlmostEqual(t *testing.T, name string, expected, actual, tolerance float64) {
	t.Helper()
	if math.Abs(expected-actual) > tolerance {
		t.Fatalf("value mismatch for %s, expected %v (+/- %v), got %v", name, expected, tolerance, actual)
	}
}
