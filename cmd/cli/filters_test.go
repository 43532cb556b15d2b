package main

import (
	"testing"

	"github.com/yurifrl/pldash/pkg/compare"
)

func TestFilters(t *testing.T) {
	rows := []compare.Row{
		{Label: "판관비", Depth: 1, InPrior: true, InCurrent: true},
		{Label: "광고선전비", Depth: 2, InPrior: true, InCurrent: true},
		{Label: "물류비", Depth: 2, InCurrent: true},
		{Label: "온라인", Depth: 2, IsRatio: true, InPrior: true, InCurrent: true},
	}

	tests := []struct {
		name string
		f    filters
		want int
	}{
		{"none", filters{}, 4},
		{"depth", filters{maxDepth: 1}, 1},
		{"label", filters{label: "광고"}, 1},
		{"ratio", filters{ratioOnly: true}, 1},
		{"hide missing", filters{hideMissing: true}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.f.apply(rows)); got != tt.want {
				t.Errorf("got %d rows, want %d", got, tt.want)
			}
		})
	}
}
