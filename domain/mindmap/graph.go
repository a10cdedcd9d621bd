package mindmap

import (
	"errors"
	"fmt"

	"influflow/domain/core/aggregates"
)

// NodeType classifies a mind-map node by its tier in the outline hierarchy
type NodeType string

const (
	NodeTopic        NodeType = "topic"
	NodeOutlinePoint NodeType = "outline_point"
	NodeTweet        NodeType = "tweet"
)

// RootNodeID is the id of the single level-1 topic node
const RootNodeID = "root"

// Position is filled in by the pluggable layout engine; the projection
// itself never does layout math.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData carries back-references used to resolve edits against the
// canonical outline.
type NodeData struct {
	// OutlineIndex is the owning group's position in the outline. For
	// tweet nodes it names the root group the tweet is filed under.
	OutlineIndex int `json:"outline_index"`
	// TweetID is the stable tweet number, for tweet nodes only. It lives
	// in a different id domain than node ids.
	TweetID int `json:"tweet_id,omitempty"`
	// TweetIndex is the tweet's position among its parent's tweet children
	TweetIndex int    `json:"tweet_index"`
	Content    string `json:"content,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Node is one vertex of the derived graph view
type Node struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Level    int      `json:"level"`
	Type     NodeType `json:"type"`
	Data     NodeData `json:"data"`
	Position Position `json:"position"`
}

// Edge connects a parent node to a child node
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the derived node/edge view of an outline. It is recomputed,
// never incrementally patched, whenever the outline changes, and is
// never persisted.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// GroupNodeID returns the node id for an outline group
func GroupNodeID(outlineIndex int) string {
	return fmt.Sprintf("group-%d", outlineIndex)
}

// TweetNodeID encodes the owning root index, the tweet number, and the
// node's level so multi-level children stay addressable and distinct from
// the tweet-number domain key.
func TweetNodeID(rootIndex, tweetNumber, level int) string {
	return fmt.Sprintf("tweet-%d-%d-L%d", rootIndex, tweetNumber, level)
}

// EdgeID returns a deterministic edge id
func EdgeID(source, target string) string {
	return fmt.Sprintf("edge-%s-%s", source, target)
}

// Project builds the graph view of an outline: one level-1 topic root,
// one level-2 node per group, one level-3 node per tweet.
func Project(o *aggregates.Outline) *Graph {
	g := &Graph{}

	g.Nodes = append(g.Nodes, Node{
		ID:    RootNodeID,
		Label: o.Topic(),
		Level: 1,
		Type:  NodeTopic,
		Data:  NodeData{OutlineIndex: -1},
	})

	for gi, group := range o.Groups() {
		groupID := GroupNodeID(gi)
		g.Nodes = append(g.Nodes, Node{
			ID:    groupID,
			Label: group.Title,
			Level: 2,
			Type:  NodeOutlinePoint,
			Data:  NodeData{OutlineIndex: gi},
		})
		g.Edges = append(g.Edges, Edge{
			ID:     EdgeID(RootNodeID, groupID),
			Source: RootNodeID,
			Target: groupID,
		})

		for ti, tweet := range group.Tweets {
			nodeID := TweetNodeID(gi, tweet.TweetNumber, 3)
			g.Nodes = append(g.Nodes, Node{
				ID:    nodeID,
				Label: tweet.DisplayTitle(),
				Level: 3,
				Type:  NodeTweet,
				Data: NodeData{
					OutlineIndex: gi,
					TweetID:      tweet.TweetNumber,
					TweetIndex:   ti,
					Content:      tweet.Content,
					ImageURL:     tweet.ImageURL,
				},
			})
			g.Edges = append(g.Edges, Edge{
				ID:     EdgeID(groupID, nodeID),
				Source: groupID,
				Target: nodeID,
			})
		}
	}

	return g
}

// NodeByID returns a pointer to the node with the given id
func (g *Graph) NodeByID(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// ChildrenOf returns the ids of a node's direct children
func (g *Graph) ChildrenOf(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// Validate ensures graph invariants: exactly one level-1 root, every
// outline-point chains to the root, every tweet's ancestor chain passes
// an outline point, and no edge dangles.
func (g *Graph) Validate() error {
	roots := 0
	byID := make(map[string]*Node, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Level == 1 {
			roots++
		}
		byID[n.ID] = n
	}
	if roots != 1 {
		return fmt.Errorf("expected exactly one root node, found %d", roots)
	}

	for _, e := range g.Edges {
		if _, ok := byID[e.Source]; !ok {
			return errors.New("edge references non-existent source node")
		}
		if _, ok := byID[e.Target]; !ok {
			return errors.New("edge references non-existent target node")
		}
	}

	for _, n := range g.Nodes {
		switch n.Type {
		case NodeOutlinePoint:
			if !g.chainsToRoot(n.ID) {
				return fmt.Errorf("outline point %s is disconnected from root", n.ID)
			}
		case NodeTweet:
			if _, ok := g.outlinePointAncestor(n.ID); !ok {
				return fmt.Errorf("tweet node %s has no outline-point ancestor", n.ID)
			}
		}
	}

	return nil
}

// parentOf walks one edge upward
func (g *Graph) parentOf(id string) (string, bool) {
	for _, e := range g.Edges {
		if e.Target == id {
			return e.Source, true
		}
	}
	return "", false
}

func (g *Graph) chainsToRoot(id string) bool {
	for seen := map[string]bool{}; !seen[id]; {
		seen[id] = true
		parent, ok := g.parentOf(id)
		if !ok {
			return false
		}
		if n, ok := g.NodeByID(parent); ok && n.Level == 1 {
			return true
		}
		id = parent
	}
	return false
}

// outlinePointAncestor walks the edge list upward until a level-2
// ancestor is found
func (g *Graph) outlinePointAncestor(id string) (*Node, bool) {
	seen := map[string]bool{}
	for !seen[id] {
		seen[id] = true
		parent, ok := g.parentOf(id)
		if !ok {
			return nil, false
		}
		if n, ok := g.NodeByID(parent); ok && n.Level == 2 {
			return n, true
		}
		id = parent
	}
	return nil, false
}
