package exporter

import (
	"math"
	"strings"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func joinValues(values []string) string {
	return strings.Join(values, "; ")
}
