package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"influflow/domain/core/aggregates"
	"influflow/domain/core/entities"
	"influflow/domain/core/valueobjects"
	"influflow/domain/mindmap"
)

func layoutTestGraph(t *testing.T) *mindmap.Graph {
	t.Helper()
	o, err := aggregates.NewOutline("u1", "Topic", valueobjects.FormatThread,
		[]entities.OutlineGroup{
			{Title: "A", Tweets: []entities.Tweet{
				{TweetNumber: 1, Content: "a1"},
				{TweetNumber: 2, Content: "a2"},
			}},
			{Title: "B", Tweets: []entities.Tweet{
				{TweetNumber: 3, Content: "b1"},
			}},
		})
	require.NoError(t, err)
	return mindmap.Project(o)
}

func TestTieredLayout(t *testing.T) {
	g := layoutTestGraph(t)
	require.NoError(t, NewTieredEngine().Layout(g))

	root, _ := g.NodeByID(mindmap.RootNodeID)
	groupA, _ := g.NodeByID("group-0")
	groupB, _ := g.NodeByID("group-1")
	tweet1, _ := g.NodeByID("tweet-0-1-L3")
	tweet2, _ := g.NodeByID("tweet-0-2-L3")
	tweet3, _ := g.NodeByID("tweet-1-3-L3")

	// X grows with depth
	assert.Equal(t, 0.0, root.Position.X)
	assert.Equal(t, defaultTierWidth, groupA.Position.X)
	assert.Equal(t, 2*defaultTierWidth, tweet1.Position.X)

	// Leaves stack downward in order
	assert.Less(t, tweet1.Position.Y, tweet2.Position.Y)
	assert.Less(t, tweet2.Position.Y, tweet3.Position.Y)

	// Parents center on their children
	assert.Equal(t, (tweet1.Position.Y+tweet2.Position.Y)/2, groupA.Position.Y)
	assert.Equal(t, tweet3.Position.Y, groupB.Position.Y)
	assert.Equal(t, (groupA.Position.Y+groupB.Position.Y)/2, root.Position.Y)
}

func TestTieredLayout_IsDeterministic(t *testing.T) {
	a := layoutTestGraph(t)
	b := layoutTestGraph(t)

	engine := NewTieredEngine()
	require.NoError(t, engine.Layout(a))
	require.NoError(t, engine.Layout(b))

	assert.Equal(t, a.Nodes, b.Nodes)
}
