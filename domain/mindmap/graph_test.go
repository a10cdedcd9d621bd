package mindmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"influflow/domain/core/aggregates"
	"influflow/domain/core/entities"
	"influflow/domain/core/valueobjects"
)

func testOutline(t *testing.T) *aggregates.Outline {
	t.Helper()
	o, err := aggregates.NewOutline("user-1", "Growth strategies", valueobjects.FormatThread,
		[]entities.OutlineGroup{
			{Title: "Why it matters", Tweets: []entities.Tweet{
				{TweetNumber: 1, Title: "Hook", Content: "Nobody expects this."},
				{TweetNumber: 2, Content: "Second point."},
			}},
			{Title: "How to start", Tweets: []entities.Tweet{
				{TweetNumber: 3, Title: "Step one", Content: "Open the editor."},
			}},
		})
	require.NoError(t, err)
	return o
}

func TestProject(t *testing.T) {
	o := testOutline(t)
	g := Project(o)

	require.NoError(t, g.Validate())
	require.Len(t, g.Nodes, 6)
	require.Len(t, g.Edges, 5)

	root, ok := g.NodeByID(RootNodeID)
	require.True(t, ok)
	assert.Equal(t, NodeTopic, root.Type)
	assert.Equal(t, 1, root.Level)
	assert.Equal(t, "Growth strategies", root.Label)

	group0, ok := g.NodeByID("group-0")
	require.True(t, ok)
	assert.Equal(t, NodeOutlinePoint, group0.Type)
	assert.Equal(t, 2, group0.Level)
	assert.Equal(t, "Why it matters", group0.Label)
	assert.Equal(t, 0, group0.Data.OutlineIndex)

	tweet1, ok := g.NodeByID("tweet-0-1-L3")
	require.True(t, ok)
	assert.Equal(t, NodeTweet, tweet1.Type)
	assert.Equal(t, 3, tweet1.Level)
	assert.Equal(t, "Hook", tweet1.Label)
	assert.Equal(t, 1, tweet1.Data.TweetID)
	assert.Equal(t, "Nobody expects this.", tweet1.Data.Content)

	// Untitled tweets fall back to a content-derived label
	tweet2, ok := g.NodeByID("tweet-0-2-L3")
	require.True(t, ok)
	assert.NotEmpty(t, tweet2.Label)

	assert.Equal(t, []string{"group-0", "group-1"}, g.ChildrenOf(RootNodeID))
	assert.Equal(t, []string{"tweet-0-1-L3", "tweet-0-2-L3"}, g.ChildrenOf("group-0"))
	assert.Equal(t, []string{"tweet-1-3-L3"}, g.ChildrenOf("group-1"))
}

func TestProject_IsRecomputedNotPatched(t *testing.T) {
	o := testOutline(t)
	first := Project(o)

	require.NoError(t, o.RenameGroup(0, "Changed"))

	second := Project(o)
	n, ok := second.NodeByID("group-0")
	require.True(t, ok)
	assert.Equal(t, "Changed", n.Label)

	// The first projection is a stale snapshot, untouched by the edit
	old, ok := first.NodeByID("group-0")
	require.True(t, ok)
	assert.Equal(t, "Why it matters", old.Label)
}

func TestAddChildNode_OnRootAddsGroup(t *testing.T) {
	o := testOutline(t)
	g := Project(o)

	node, err := g.AddChildNode(RootNodeID, o)
	require.NoError(t, err)

	assert.Equal(t, "group-2", node.ID)
	assert.Equal(t, 2, node.Level)
	assert.Equal(t, NodeOutlinePoint, node.Type)
	assert.Equal(t, DefaultGroupTitle, node.Label)
	assert.Equal(t, 3, o.GroupCount())
	require.NoError(t, g.Validate())
}

func TestAddChildNode_OnGroupAddsTweet(t *testing.T) {
	o := testOutline(t)
	g := Project(o)

	node, err := g.AddChildNode("group-1", o)
	require.NoError(t, err)

	assert.Equal(t, NodeTweet, node.Type)
	assert.Equal(t, 3, node.Level)
	assert.Equal(t, 4, node.Data.TweetID, "mints one past the global max")
	assert.Equal(t, "tweet-1-4-L3", node.ID)
	assert.Equal(t, 1, node.Data.TweetIndex)

	tweet, ok := o.FindTweet(4)
	require.True(t, ok)
	assert.Equal(t, DefaultTweetTitle, tweet.Title)

	gi, ok := o.GroupOfTweet(4)
	require.True(t, ok)
	assert.Equal(t, 1, gi)
}

func TestAddChildNode_OnTweetFilesUnderRootGroup(t *testing.T) {
	o := testOutline(t)
	g := Project(o)

	node, err := g.AddChildNode("tweet-1-3-L3", o)
	require.NoError(t, err)

	assert.Equal(t, 4, node.Level)
	assert.Equal(t, "tweet-1-4-L4", node.ID)

	// The new tweet lands in the ancestor group even though its node
	// hangs off a deeper parent
	gi, ok := o.GroupOfTweet(4)
	require.True(t, ok)
	assert.Equal(t, 1, gi)

	// Grandchild of a tweet resolves through two hops
	deeper, err := g.AddChildNode(node.ID, o)
	require.NoError(t, err)
	assert.Equal(t, 5, deeper.Level)
	assert.Equal(t, 5, deeper.Data.TweetID)
	gi, ok = o.GroupOfTweet(5)
	require.True(t, ok)
	assert.Equal(t, 1, gi)
}

func TestAddChildNode_MissingParent(t *testing.T) {
	o := testOutline(t)
	g := Project(o)

	_, err := g.AddChildNode("no-such-node", o)
	assert.Error(t, err)
}

func TestDeleteNode_TweetLeaf(t *testing.T) {
	o := testOutline(t)
	g := Project(o)

	removed, err := g.DeleteNode("tweet-0-2-L3", o)
	require.NoError(t, err)
	assert.Equal(t, []string{"tweet-0-2-L3"}, removed)

	_, ok := o.FindTweet(2)
	assert.False(t, ok)
	_, ok = g.NodeByID("tweet-0-2-L3")
	assert.False(t, ok)

	// Surviving tweets keep their numbers
	_, ok = o.FindTweet(1)
	assert.True(t, ok)
	_, ok = o.FindTweet(3)
	assert.True(t, ok)
	require.NoError(t, g.Validate())
}

func TestDeleteNode_GroupCascades(t *testing.T) {
	o := testOutline(t)
	g := Project(o)

	removed, err := g.DeleteNode("group-0", o)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"group-0", "tweet-0-1-L3", "tweet-0-2-L3"}, removed)

	assert.Equal(t, 1, o.GroupCount())
	_, ok := o.FindTweet(1)
	assert.False(t, ok)
	_, ok = o.FindTweet(3)
	assert.True(t, ok, "other group's tweet survives")

	for _, e := range g.Edges {
		assert.NotEqual(t, "group-0", e.Source)
		assert.NotEqual(t, "group-0", e.Target)
	}
}

func TestDeleteNode_RootIsRejected(t *testing.T) {
	o := testOutline(t)
	g := Project(o)

	_, err := g.DeleteNode(RootNodeID, o)
	assert.Error(t, err)
	assert.Len(t, g.Nodes, 6)
}

func TestDeleteThenAddNeverReusesTweetNumber(t *testing.T) {
	o := testOutline(t)
	g := Project(o)

	// Delete tweet 3, the current maximum
	_, err := g.DeleteNode("tweet-1-3-L3", o)
	require.NoError(t, err)

	g = Project(o)
	node, err := g.AddChildNode("group-1", o)
	require.NoError(t, err)
	assert.Equal(t, 4, node.Data.TweetID, "deleted numbers are never reissued")
}

func TestApplyLabelEdit(t *testing.T) {
	o := testOutline(t)
	g := Project(o)

	require.NoError(t, g.ApplyLabelEdit(RootNodeID, "New topic", o))
	assert.Equal(t, "New topic", o.Topic())

	require.NoError(t, g.ApplyLabelEdit("group-1", "Renamed group", o))
	assert.Equal(t, "Renamed group", o.Groups()[1].Title)

	require.NoError(t, g.ApplyLabelEdit("tweet-0-1-L3", "Renamed tweet", o))
	tweet, ok := o.FindTweet(1)
	require.True(t, ok)
	assert.Equal(t, "Renamed tweet", tweet.Title)
	assert.Equal(t, "Nobody expects this.", tweet.Content, "content untouched by label edit")

	n, _ := g.NodeByID("tweet-0-1-L3")
	assert.Equal(t, "Renamed tweet", n.Label)
}

func TestApplyContentEdit(t *testing.T) {
	o := testOutline(t)
	g := Project(o)

	require.NoError(t, g.ApplyContentEdit("tweet-0-1-L3", "Fresh body", "editor", o))

	tweet, ok := o.FindTweet(1)
	require.True(t, ok)
	assert.Equal(t, "Fresh body", tweet.Content)
	assert.Equal(t, "Hook", tweet.Title, "title untouched by content edit")

	t.Run("non tweet node rejected", func(t *testing.T) {
		err := g.ApplyContentEdit("group-0", "x", "editor", o)
		assert.Error(t, err)
	})
}
