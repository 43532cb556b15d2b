package tree

import (
	"github.com/samber/lo"

	"github.com/yurifrl/pldash/pkg/models"
)

// DefaultOtherLabel groups records without a minor category.
const DefaultOtherLabel = "(other)"

// Config decides how deep each major category goes.
type Config struct {
	// ThreeLevelMajors get a minor-category level under each mid category.
	ThreeLevelMajors []string
	// OtherLabel names the bucket for records with no minor category.
	OtherLabel string
}

func DefaultConfig() Config {
	return Config{
		ThreeLevelMajors: []string{"TAG매출", "실판매출"},
		OtherLabel:       DefaultOtherLabel,
	}
}

func (c Config) threeLevel(major string) bool {
	return lo.Contains(c.ThreeLevelMajors, major)
}

func (c Config) otherLabel() string {
	if c.OtherLabel == "" {
		return DefaultOtherLabel
	}
	return c.OtherLabel
}

// Build groups records into a forest with one top-level node per major
// category, in first-seen order. Records with an empty major are dropped.
func Build(records []models.Record, cfg Config) []Node {
	majors := newGroups()
	for _, rec := range records {
		if rec.Major == "" {
			continue
		}
		majors.add(rec.Major, rec)
	}

	forest := make([]Node, 0, len(majors.order))
	for _, major := range majors.order {
		mids := newGroups()
		for _, rec := range majors.items[major] {
			mids.add(rec.Mid, rec)
		}

		children := make([]Node, 0, len(mids.order))
		for _, mid := range mids.order {
			recs := mids.items[mid]
			if !cfg.threeLevel(major) {
				children = append(children, newLeaf(KeyFor(major, mid), mid, 2, recs))
				continue
			}

			minors := newGroups()
			for _, rec := range recs {
				minors.add(rec.MinorLabel(cfg.otherLabel()), rec)
			}
			leaves := make([]Node, 0, len(minors.order))
			for _, minor := range minors.order {
				leaves = append(leaves, newLeaf(KeyFor(major, mid, minor), minor, 3, minors.items[minor]))
			}
			children = append(children, newInternal(KeyFor(major, mid), mid, 2, leaves))
		}
		forest = append(forest, newInternal(KeyFor(major), major, 1, children))
	}
	return forest
}

func newLeaf(key, label string, depth int, records []models.Record) *Leaf {
	leaf := &Leaf{
		NodeInfo: NodeInfo{Key: key, Label: label, Depth: depth},
		Records:  records,
	}
	for _, rec := range records {
		if rec.IsRatio {
			leaf.HasRatioRow = true
			continue
		}
		leaf.Rollup = leaf.Rollup.Add(rec.Monthly)
	}
	return leaf
}

func newInternal(key, label string, depth int, children []Node) *Internal {
	n := &Internal{
		NodeInfo: NodeInfo{Key: key, Label: label, Depth: depth},
		Children: children,
	}
	for _, child := range children {
		info := child.Info()
		n.Rollup = n.Rollup.Add(info.Rollup)
		n.HasRatioRow = n.HasRatioRow || info.HasRatioRow
	}
	return n
}

// groups buckets records by name and remembers first-seen order.
type groups struct {
	order []string
	items map[string][]models.Record
}

func newGroups() *groups {
	return &groups{items: make(map[string][]models.Record)}
}

func (g *groups) add(name string, rec models.Record) {
	if _, ok := g.items[name]; !ok {
		g.order = append(g.order, name)
	}
	g.items[name] = append(g.items[name], rec)
}
