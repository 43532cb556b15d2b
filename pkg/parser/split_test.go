package parser

import (
	"reflect"
	"testing"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		line  string
		delim rune
		want  []string
	}{
		{`TAG매출,A,,"1,000","2,000"`, ',', []string{"TAG매출", "A", "", "1,000", "2,000"}},
		{"a\t\"b\tc\"\t", '\t', []string{"a", "b\tc", ""}},
		{`"(2,344)",x`, ',', []string{"(2,344)", "x"}},
		{"single", ',', []string{"single"}},
	}
	for _, tt := range tests {
		if got := splitFields(tt.line, tt.delim); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitFields(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines("\uFEFFh1,h2\r\n\r\n  \n\tx\ty\t\n")
	want := []string{"h1,h2", "\tx\ty\t"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitLines = %q, want %q", got, want)
	}
}

func TestDetectDelimiter(t *testing.T) {
	if detectDelimiter("a\tb,c") != '\t' {
		t.Errorf("expected tab")
	}
	if detectDelimiter("a,b") != ',' {
		t.Errorf("expected comma")
	}
}
