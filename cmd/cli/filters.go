package main

import (
	"strings"

	"github.com/samber/lo"

	"github.com/yurifrl/pldash/pkg/compare"
	"github.com/yurifrl/pldash/pkg/csv"
)

type filters struct {
	maxDepth    int
	label       string
	ratioOnly   bool
	hideMissing bool
}

func (f *filters) toFilterFunc() csv.FilterFunc {
	return func(r compare.Row) bool {
		if f.maxDepth > 0 && r.Depth > f.maxDepth {
			return false
		}
		if f.label != "" && !strings.Contains(strings.ToLower(r.Label), strings.ToLower(f.label)) {
			return false
		}
		if f.ratioOnly && !r.IsRatio {
			return false
		}
		if f.hideMissing && !(r.InPrior && r.InCurrent) {
			return false
		}
		return true
	}
}

func (f *filters) apply(rows []compare.Row) []compare.Row {
	keep := f.toFilterFunc()
	return lo.Filter(rows, func(r compare.Row, _ int) bool { return keep(r) })
}
