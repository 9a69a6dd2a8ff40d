package util

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber 两位小数并带千分位，例如 12345.6 -> "12,345.60"
func FormatNumber(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	s := strconv.FormatFloat(math.Abs(value), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if value < 0 && s != "0.00" {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatPercent 一位小数的百分比，value 已是 0-100 的数值
func FormatPercent(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	return strconv.FormatFloat(value, 'f', 1, 64) + "%"
}

// FormatPlain 去掉多余小数位，例如 12 -> "12"、12.5 -> "12.5"
func FormatPlain(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
