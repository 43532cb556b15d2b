package parser

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

const (
	byteOrderMark = "\uFEFF"
	nonBreaking   = "\u00A0"
)

// NormalizeCell strips byte-order marks, turns non-breaking spaces into
// regular ones, collapses whitespace runs and trims. Text is NFC-composed so
// decomposed Hangul from some exporters compares equal to configured labels.
func NormalizeCell(raw string) string {
	s := strings.ReplaceAll(raw, byteOrderMark, "")
	s = strings.ReplaceAll(s, nonBreaking, " ")
	s = strings.Join(strings.Fields(s), " ")
	return norm.NFC.String(s)
}

// ParseValue converts a cell into a number. Parentheses mean negative,
// percentages keep their magnitude ("33.00%" is 33), thousands separators are
// dropped. Anything that does not parse is 0.
func ParseValue(raw string) float64 {
	s := NormalizeCell(raw)
	if s == "" || s == "-" {
		return 0
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) >= 2 {
		inner := ParseValue(s[1 : len(s)-1])
		if inner == 0 {
			return 0
		}
		if inner < 0 {
			return inner
		}
		return -inner
	}

	s = strings.ReplaceAll(s, ",", "")
	if strings.Contains(s, "%") {
		s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	}
	return parseNumber(s)
}

func parseNumber(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// IsPercentageRow reports whether any non-empty cell carries a percent sign.
func IsPercentageRow(cells []string) bool {
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c != "" && strings.Contains(c, "%") {
			return true
		}
	}
	return false
}
