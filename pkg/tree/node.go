// Package tree groups P/L records into a category forest and recomputes
// ratio rows from other subtrees.
package tree

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yurifrl/pldash/pkg/models"
)

// Node is either an *Internal or a *Leaf.
type Node interface {
	Info() NodeInfo
	node()
}

// NodeInfo is what every node carries regardless of its kind.
type NodeInfo struct {
	Key         string               `json:"key"`
	Label       string               `json:"label"`
	Depth       int                  `json:"depth"`
	Rollup      models.MonthlyValues `json:"monthlyRollup"`
	HasRatioRow bool                 `json:"hasRatioRow"`
}

// Internal is a node whose rollup is the sum of its children.
type Internal struct {
	NodeInfo
	Children []Node
}

// Leaf holds the records grouped under it. Its rollup excludes ratio records.
type Leaf struct {
	NodeInfo
	Records []models.Record
}

func (n *Internal) Info() NodeInfo { return n.NodeInfo }
func (n *Leaf) Info() NodeInfo     { return n.NodeInfo }
func (*Internal) node()            {}
func (*Leaf) node()                {}

func (n *Internal) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(struct {
		NodeInfo
		Leaf     bool   `json:"leaf"`
		Children []Node `json:"children"`
	}{n.NodeInfo, false, children})
}

func (n *Leaf) MarshalJSON() ([]byte, error) {
	records := n.Records
	if records == nil {
		records = []models.Record{}
	}
	return json.Marshal(struct {
		NodeInfo
		Leaf    bool            `json:"leaf"`
		Records []models.Record `json:"records"`
	}{n.NodeInfo, true, records})
}

const keySeparator = "|"

// KeyFor builds the identity key of the node at the path major[/mid[/minor]].
// The depth tag is the number of path parts, so the same path always yields
// the same key in independently built trees.
func KeyFor(path ...string) string {
	return fmt.Sprintf("L%d%s%s", len(path), keySeparator, strings.Join(path, keySeparator))
}
