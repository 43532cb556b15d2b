package tree

import (
	"math"

	"github.com/yurifrl/pldash/pkg/models"
)

// midDepth is the depth of mid-category nodes. A ratio leaf is keyed by the
// label of its mid-category ancestor.
const midDepth = 2

// RatioConfig names the three major categories involved in ratio recalculation:
// Ratio rows are rewritten as Numerator / Denominator * 100.
type RatioConfig struct {
	RatioMajor       string
	NumeratorMajor   string
	DenominatorMajor string
}

func DefaultRatioConfig() RatioConfig {
	return RatioConfig{
		RatioMajor:       "TAG대비 원가율",
		NumeratorMajor:   "매출원가",
		DenominatorMajor: "TAG매출",
	}
}

// RecalculateRatios rewrites the ratio rows of both forests from their own
// numerator and denominator rollups. The inputs are never modified; untouched
// subtrees are shared with the returned forests.
func RecalculateRatios(prior, current []Node, cfg RatioConfig) ([]Node, []Node) {
	return Recalculate(prior, cfg), Recalculate(current, cfg)
}

// Recalculate rewrites the ratio rows of a single forest. When any of the
// three categories is missing the forest is returned unchanged.
func Recalculate(forest []Node, cfg RatioConfig) []Node {
	idx, ratio := FindTop(forest, cfg.RatioMajor)
	_, numerator := FindTop(forest, cfg.NumeratorMajor)
	_, denominator := FindTop(forest, cfg.DenominatorMajor)
	if ratio == nil || numerator == nil || denominator == nil {
		return forest
	}

	r := rewriter{cfg: cfg, numerator: numerator, denominator: denominator}
	rewritten, changed := r.rewrite(ratio, "")
	if !changed {
		return forest
	}

	out := make([]Node, len(forest))
	copy(out, forest)
	out[idx] = rewritten
	return out
}

type rewriter struct {
	cfg         RatioConfig
	numerator   Node
	denominator Node
}

// rewrite returns a new node when something under n changed, n itself otherwise.
func (r rewriter) rewrite(n Node, mid string) (Node, bool) {
	info := n.Info()
	if info.Depth == midDepth {
		mid = info.Label
	}

	switch n := n.(type) {
	case *Leaf:
		return r.rewriteLeaf(n, mid)
	case *Internal:
		var children []Node
		for i, child := range n.Children {
			next, changed := r.rewrite(child, mid)
			if !changed {
				continue
			}
			if children == nil {
				children = make([]Node, len(n.Children))
				copy(children, n.Children)
			}
			children[i] = next
		}
		if children == nil {
			return n, false
		}
		return &Internal{NodeInfo: n.NodeInfo, Children: children}, true
	}
	return n, false
}

func (r rewriter) rewriteLeaf(leaf *Leaf, mid string) (Node, bool) {
	if mid == "" {
		return leaf, false
	}
	num := FindLeaf(r.numerator, mid)
	den := FindLeaf(r.denominator, mid)
	if num == nil || den == nil {
		return leaf, false
	}
	values := RatioValues(num.Rollup, den.Rollup)

	var records []models.Record
	for i, rec := range leaf.Records {
		if !rec.IsRatio || rec.Major != r.cfg.RatioMajor {
			continue
		}
		if records == nil {
			records = make([]models.Record, len(leaf.Records))
			copy(records, leaf.Records)
		}
		records[i].Monthly = values
	}
	if records == nil {
		return leaf, false
	}
	return &Leaf{NodeInfo: leaf.NodeInfo, Records: records}, true
}

// RatioValues computes numerator/denominator*100 per month, 0 where the
// denominator is 0.
func RatioValues(numerator, denominator models.MonthlyValues) models.MonthlyValues {
	var out models.MonthlyValues
	for i := range out {
		out[i] = Ratio(numerator[i], denominator[i])
	}
	return out
}

// Ratio is numerator/denominator*100, or 0 when the denominator is 0 or the
// result is not finite.
func Ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	v := numerator / denominator * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
