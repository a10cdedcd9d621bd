package mindmap

import (
	"strings"

	"influflow/domain/core/aggregates"
	pkgerrors "influflow/pkg/errors"
)

// DefaultGroupTitle and DefaultTweetTitle seed freshly added nodes
const (
	DefaultGroupTitle = "New section"
	DefaultTweetTitle = "New point"
)

// AddChildNode grows the outline under the given parent node and returns
// the new node. The child's level is always parent level + 1: a child of
// the topic becomes a new group, a child of anything deeper becomes a new
// tweet filed under the parent's root group. The graph is mutated in
// place so the caller sees the new node without a full re-projection.
func (g *Graph) AddChildNode(parentID string, o *aggregates.Outline) (*Node, error) {
	parent, ok := g.NodeByID(parentID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("mindmap node")
	}

	level := parent.Level + 1

	if level == 2 {
		idx, err := o.AddGroup(DefaultGroupTitle)
		if err != nil {
			return nil, err
		}
		node := Node{
			ID:    GroupNodeID(idx),
			Label: DefaultGroupTitle,
			Level: 2,
			Type:  NodeOutlinePoint,
			Data:  NodeData{OutlineIndex: idx},
		}
		g.Nodes = append(g.Nodes, node)
		g.Edges = append(g.Edges, Edge{
			ID:     EdgeID(parent.ID, node.ID),
			Source: parent.ID,
			Target: node.ID,
		})
		return &g.Nodes[len(g.Nodes)-1], nil
	}

	rootIdx := g.resolveRootIndex(parent)

	pos := 0
	for _, childID := range g.ChildrenOf(parent.ID) {
		if n, ok := g.NodeByID(childID); ok && n.Type == NodeTweet {
			pos++
		}
	}

	tweetNumber, err := o.AddTweet(rootIdx, DefaultTweetTitle)
	if err != nil {
		return nil, err
	}

	node := Node{
		ID:    TweetNodeID(rootIdx, tweetNumber, level),
		Label: DefaultTweetTitle,
		Level: level,
		Type:  NodeTweet,
		Data: NodeData{
			OutlineIndex: rootIdx,
			TweetID:      tweetNumber,
			TweetIndex:   pos,
		},
	}
	g.Nodes = append(g.Nodes, node)
	g.Edges = append(g.Edges, Edge{
		ID:     EdgeID(parent.ID, node.ID),
		Source: parent.ID,
		Target: node.ID,
	})
	return &g.Nodes[len(g.Nodes)-1], nil
}

// resolveRootIndex walks upward from the parent until it reaches a
// level-2 node and returns that group's outline index. A chain that never
// reaches a group resolves to group 0 so the new tweet still lands
// somewhere deterministic.
func (g *Graph) resolveRootIndex(parent *Node) int {
	if parent.Level == 2 {
		return parent.Data.OutlineIndex
	}
	if anc, ok := g.outlinePointAncestor(parent.ID); ok {
		return anc.Data.OutlineIndex
	}
	return 0
}

// DeleteNode removes a node and its entire subtree from both the graph
// and the outline, and returns the removed node ids. The subtree is
// found by repeatedly sweeping the edge list: any target of a removed
// source is removed too, until no edge adds a new member.
func (g *Graph) DeleteNode(id string, o *aggregates.Outline) ([]string, error) {
	node, ok := g.NodeByID(id)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("mindmap node")
	}
	if node.Level == 1 {
		return nil, pkgerrors.NewValidationError("cannot delete the topic root")
	}

	removed := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, e := range g.Edges {
			if removed[e.Source] && !removed[e.Target] {
				removed[e.Target] = true
				changed = true
			}
		}
	}

	var removedIDs []string
	var groupIndexes []int
	var tweetNumbers []int
	var kept []Node
	for _, n := range g.Nodes {
		if !removed[n.ID] {
			kept = append(kept, n)
			continue
		}
		removedIDs = append(removedIDs, n.ID)
		switch n.Type {
		case NodeOutlinePoint:
			groupIndexes = append(groupIndexes, n.Data.OutlineIndex)
		case NodeTweet:
			tweetNumbers = append(tweetNumbers, n.Data.TweetID)
		}
	}
	g.Nodes = kept

	var keptEdges []Edge
	for _, e := range g.Edges {
		if !removed[e.Source] && !removed[e.Target] {
			keptEdges = append(keptEdges, e)
		}
	}
	g.Edges = keptEdges

	// Tweets go first: a tweet inside a removed group is already gone
	// once the group is, and RemoveTweet on a missing number would fail.
	if len(groupIndexes) == 0 {
		for _, n := range tweetNumbers {
			if err := o.RemoveTweet(n); err != nil {
				return nil, err
			}
		}
	} else {
		// Remove from the highest index down so earlier removals do not
		// shift the indexes still pending.
		for i := 0; i < len(groupIndexes); i++ {
			for j := i + 1; j < len(groupIndexes); j++ {
				if groupIndexes[j] > groupIndexes[i] {
					groupIndexes[i], groupIndexes[j] = groupIndexes[j], groupIndexes[i]
				}
			}
		}
		for _, idx := range groupIndexes {
			if err := o.RemoveGroup(idx); err != nil {
				return nil, err
			}
		}
	}

	o.RecordSubtreeDeleted(id, removedIDs)
	return removedIDs, nil
}

// ApplyLabelEdit routes a label change to the right outline field for the
// node's type: topic rename, group title, or tweet title. Only the edited
// node's label changes; positions and siblings are untouched.
func (g *Graph) ApplyLabelEdit(nodeID, label string, o *aggregates.Outline) error {
	node, ok := g.NodeByID(nodeID)
	if !ok {
		return pkgerrors.NewNotFoundError("mindmap node")
	}

	label = strings.TrimSpace(label)

	switch node.Type {
	case NodeTopic:
		if err := o.RenameTopic(label); err != nil {
			return err
		}
	case NodeOutlinePoint:
		if err := o.RenameGroup(node.Data.OutlineIndex, label); err != nil {
			return err
		}
	case NodeTweet:
		if err := o.RenameTweet(node.Data.TweetID, label); err != nil {
			return err
		}
	default:
		return pkgerrors.NewValidationError("unknown node type")
	}

	node.Label = label
	return nil
}

// ApplyContentEdit updates a tweet's body through its mind-map node. The
// node label (the tweet title) is left alone.
func (g *Graph) ApplyContentEdit(nodeID, content, source string, o *aggregates.Outline) error {
	node, ok := g.NodeByID(nodeID)
	if !ok {
		return pkgerrors.NewNotFoundError("mindmap node")
	}
	if node.Type != NodeTweet {
		return pkgerrors.NewValidationError("only tweet nodes carry content")
	}

	if err := o.EditTweetContent(node.Data.TweetID, content, source); err != nil {
		return err
	}
	node.Data.Content = content
	return nil
}
