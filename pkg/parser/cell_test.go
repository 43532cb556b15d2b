package parser

import "testing"

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"(2,344)", -2344},
		{"18,689", 18689},
		{"-", 0},
		{"", 0},
		{"   ", 0},
		{"33.00%", 33},
		{"1,234.5%", 1234.5},
		{"(5%)", -5},
		{"\uFEFF1,000", 1000},
		{"  -12.25  ", -12.25},
		{"n/a", 0},
		{"NaN", 0},
		{"(-)", 0},
		{"1e400", 0},
		{"-1e400", 0},
		{"(1e400)", 0},
		{"1.5e3", 1500},
	}
	for _, tt := range tests {
		if got := ParseValue(tt.raw); got != tt.want {
			t.Errorf("ParseValue(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"\uFEFF대분류", "대분류"},
		{"  TAG  매출  ", "TAG 매출"},
		{"a\t\tb", "a b"},
		// decomposed 한 (U+1112 U+1161 U+11AB) composes to U+D55C
		{"\u1112\u1161\u11ab", "\ud55c"},
	}
	for _, tt := range tests {
		if got := NormalizeCell(tt.raw); got != tt.want {
			t.Errorf("NormalizeCell(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestIsPercentageRow(t *testing.T) {
	if !IsPercentageRow([]string{"", "12.5%"}) {
		t.Errorf("expected percentage row")
	}
	if IsPercentageRow([]string{"1,000", "", "(20)"}) {
		t.Errorf("expected amount row")
	}
	if IsPercentageRow(nil) {
		t.Errorf("empty row is not a percentage row")
	}
}
