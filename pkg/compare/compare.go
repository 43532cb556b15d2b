// Package compare lines up a prior and a current forest by identity key and
// produces the display rows of a period-over-period comparison.
package compare

import (
	"github.com/yurifrl/pldash/pkg/calc"
	"github.com/yurifrl/pldash/pkg/models"
	"github.com/yurifrl/pldash/pkg/tree"
)

// Row is one line of the comparison table. A side that has no node with the
// row's key has nil columns.
type Row struct {
	Key       string       `json:"key"`
	Label     string       `json:"label"`
	Depth     int          `json:"depth"`
	Leaf      bool         `json:"leaf"`
	InPrior   bool         `json:"inPrior"`
	InCurrent bool         `json:"inCurrent"`
	IsRatio   bool         `json:"isRatioRow"`
	Columns   calc.Columns `json:"columns"`
}

// side is one forest plus the subtrees ratio rows are derived from.
type side struct {
	numerator   tree.Node
	denominator tree.Node
}

func newSide(forest []tree.Node, cfg tree.RatioConfig) side {
	_, num := tree.FindTop(forest, cfg.NumeratorMajor)
	_, den := tree.FindTop(forest, cfg.DenominatorMajor)
	return side{numerator: num, denominator: den}
}

// ratioInputs returns the rollups of the first numerator and denominator
// leaves labelled mid, or of the whole categories for the top-level row.
func (s side) ratioInputs(mid string) (models.MonthlyValues, models.MonthlyValues, bool) {
	if s.numerator == nil || s.denominator == nil {
		return models.MonthlyValues{}, models.MonthlyValues{}, false
	}
	if mid == "" {
		return s.numerator.Info().Rollup, s.denominator.Info().Rollup, true
	}
	num := tree.FindLeaf(s.numerator, mid)
	den := tree.FindLeaf(s.denominator, mid)
	if num == nil || den == nil {
		return models.MonthlyValues{}, models.MonthlyValues{}, false
	}
	return num.Rollup, den.Rollup, true
}

type flattener struct {
	month   int
	cfg     tree.RatioConfig
	prior   side
	current side
	rows    []Row
}

// Flatten merges the two forests in first-seen order (prior order first, then
// keys only the current forest has) and computes the columns for month.
func Flatten(prior, current []tree.Node, month int, cfg tree.RatioConfig) []Row {
	f := &flattener{
		month:   month,
		cfg:     cfg,
		prior:   newSide(prior, cfg),
		current: newSide(current, cfg),
	}
	f.level(prior, current, "", "")
	if f.rows == nil {
		return []Row{}
	}
	return f.rows
}

type pair struct {
	prior   tree.Node
	current tree.Node
}

func (p pair) info() tree.NodeInfo {
	if p.prior != nil {
		return p.prior.Info()
	}
	return p.current.Info()
}

func merge(prior, current []tree.Node) []pair {
	pairs := make([]pair, 0, len(prior))
	index := make(map[string]int, len(prior))
	for _, n := range prior {
		index[n.Info().Key] = len(pairs)
		pairs = append(pairs, pair{prior: n})
	}
	for _, n := range current {
		if i, ok := index[n.Info().Key]; ok {
			pairs[i].current = n
			continue
		}
		index[n.Info().Key] = len(pairs)
		pairs = append(pairs, pair{current: n})
	}
	return pairs
}

func (f *flattener) level(prior, current []tree.Node, top, mid string) {
	for _, p := range merge(prior, current) {
		info := p.info()
		rowTop, rowMid := top, mid
		switch info.Depth {
		case 1:
			rowTop = info.Label
		case 2:
			rowMid = info.Label
		}

		f.rows = append(f.rows, f.row(p, rowTop, rowMid))
		f.level(children(p.prior), children(p.current), rowTop, rowMid)
	}
}

func (f *flattener) row(p pair, top, mid string) Row {
	info := p.info()
	row := Row{
		Key:       info.Key,
		Label:     info.Label,
		Depth:     info.Depth,
		Leaf:      isLeaf(p.prior) && isLeaf(p.current),
		InPrior:   p.prior != nil,
		InCurrent: p.current != nil,
	}

	cols, ratio := f.ratioCategoryColumns(top, mid)
	if !ratio {
		priorValues, priorRatio := values(p.prior)
		currValues, currRatio := values(p.current)
		ratio = priorRatio || currRatio
		cols = calc.CalcCols(f.month, priorValues, currValues, ratio)
	}
	row.IsRatio = ratio

	if !row.InPrior {
		cols = cols.DropPrior()
	}
	if !row.InCurrent {
		cols = cols.DropCurrent()
	}
	row.Columns = cols
	return row
}

// ratioCategoryColumns derives rows of the ratio category from each side's
// numerator and denominator, so year-to-date ratios are ratios of sums. A side
// without matching inputs has nil figures.
func (f *flattener) ratioCategoryColumns(top, mid string) (calc.Columns, bool) {
	if top != f.cfg.RatioMajor {
		return calc.Columns{}, false
	}
	priorNum, priorDen, priorOK := f.prior.ratioInputs(mid)
	currNum, currDen, currOK := f.current.ratioInputs(mid)
	if !priorOK && !currOK {
		return calc.Columns{}, false
	}
	cols := calc.CalcRateColsFromNumerDenom(f.month, priorNum, priorDen, currNum, currDen).Columns()
	if !models.ValidMonth(f.month) {
		return calc.Columns{}, true
	}
	if !priorOK {
		cols = cols.DropPrior()
	}
	if !currOK {
		cols = cols.DropCurrent()
	}
	return cols, true
}

// values is what a node shows: the ratio record of a leaf that only holds
// ratio records, its rollup otherwise.
func values(n tree.Node) (models.MonthlyValues, bool) {
	if n == nil {
		return models.MonthlyValues{}, false
	}
	leaf, ok := n.(*tree.Leaf)
	if !ok {
		return n.Info().Rollup, false
	}
	var ratio *models.Record
	for i, rec := range leaf.Records {
		if !rec.IsRatio {
			return leaf.Rollup, false
		}
		if ratio == nil {
			ratio = &leaf.Records[i]
		}
	}
	if ratio == nil {
		return leaf.Rollup, false
	}
	return ratio.Monthly, true
}

func children(n tree.Node) []tree.Node {
	if in, ok := n.(*tree.Internal); ok {
		return in.Children
	}
	return nil
}

func isLeaf(n tree.Node) bool {
	if n == nil {
		return true
	}
	_, ok := n.(*tree.Leaf)
	return ok
}
