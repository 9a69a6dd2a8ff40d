package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reNonWord     = regexp.MustCompile(`[^a-z0-9_]+`)
	reUnderscores = regexp.MustCompile(`_+`)
)

// NormalizeColumnName 规范化列名：ASCII、小写、下划线分隔
// 例如 " % Conclusão " -> "percent_conclusao"，"M² Previsto" -> "m2_previsto"
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "%", " percent ")
	name = strings.ToLower(Transliterate(name))
	name = reNonWord.ReplaceAllString(name, "_")
	name = reUnderscores.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// Transliterate 去除变音符号（NFKD 分解后丢弃组合标记）
func Transliterate(s string) string {
	// transform.Chain 带内部状态，每次调用单独构造
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeHeaders 规范化整行表头，空列名补为 unnamed_<序号>，重名追加 _2、_3 后缀
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		name := NormalizeColumnName(h)
		if name == "" {
			name = fmt.Sprintf("unnamed_%d", i)
		}
		candidate := name
		for n := 2; seen[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		seen[candidate] = true
		out[i] = candidate
	}
	return out
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ParseNumber 宽松数值转换：空值、非数值、NaN/Inf 以及负数一律为 0
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
