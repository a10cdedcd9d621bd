package aggregates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"influflow/domain/core/entities"
	"influflow/domain/core/valueobjects"
	"influflow/domain/events"
)

func newTestOutline(t *testing.T) *Outline {
	t.Helper()
	o, err := NewOutline("user-1", "AI tooling", valueobjects.FormatThread,
		[]entities.OutlineGroup{
			{Title: "Intro", Tweets: []entities.Tweet{
				{TweetNumber: 1, Content: "one"},
				{TweetNumber: 2, Content: "two"},
			}},
			{Title: "Body", Tweets: []entities.Tweet{
				{TweetNumber: 3, Content: "three"},
			}},
		})
	require.NoError(t, err)
	o.MarkEventsAsCommitted()
	return o
}

func TestNewOutline_Validation(t *testing.T) {
	valid := []entities.OutlineGroup{{Title: "g"}}

	t.Run("empty user rejected", func(t *testing.T) {
		_, err := NewOutline("", "topic", valueobjects.FormatThread, valid)
		assert.Error(t, err)
	})

	t.Run("empty topic rejected", func(t *testing.T) {
		_, err := NewOutline("u", "   ", valueobjects.FormatThread, valid)
		assert.Error(t, err)
	})

	t.Run("invalid format rejected", func(t *testing.T) {
		_, err := NewOutline("u", "topic", valueobjects.ContentFormat("carousel"), valid)
		assert.Error(t, err)
	})

	t.Run("overlong topic rejected", func(t *testing.T) {
		_, err := NewOutline("u", strings.Repeat("x", 301), valueobjects.FormatThread, valid)
		assert.Error(t, err)
	})

	t.Run("duplicate tweet numbers rejected", func(t *testing.T) {
		_, err := NewOutline("u", "topic", valueobjects.FormatThread, []entities.OutlineGroup{
			{Title: "a", Tweets: []entities.Tweet{{TweetNumber: 1}}},
			{Title: "b", Tweets: []entities.Tweet{{TweetNumber: 1}}},
		})
		assert.Error(t, err)
	})

	t.Run("emits generated event", func(t *testing.T) {
		o, err := NewOutline("u", "topic", valueobjects.FormatThread, valid)
		require.NoError(t, err)
		evts := o.GetUncommittedEvents()
		require.Len(t, evts, 1)
		assert.Equal(t, "outline.generated", evts[0].GetEventType())
	})
}

func TestOutline_Lookups(t *testing.T) {
	o := newTestOutline(t)

	tweet, ok := o.FindTweet(3)
	require.True(t, ok)
	assert.Equal(t, "three", tweet.Content)

	gi, ok := o.GroupOfTweet(3)
	require.True(t, ok)
	assert.Equal(t, 1, gi)

	_, ok = o.FindTweet(99)
	assert.False(t, ok)

	assert.Equal(t, 3, o.MaxTweetNumber())
	assert.Equal(t, 3, o.TweetCount())
}

func TestOutline_EditTweetContent(t *testing.T) {
	o := newTestOutline(t)
	v := o.Version()

	require.NoError(t, o.EditTweetContent(2, "rewritten", "editor"))

	tweet, _ := o.FindTweet(2)
	assert.Equal(t, "rewritten", tweet.Content)

	// Exactly one tweet changed
	one, _ := o.FindTweet(1)
	assert.Equal(t, "one", one.Content)
	three, _ := o.FindTweet(3)
	assert.Equal(t, "three", three.Content)

	assert.Equal(t, v+1, o.Version())
	assert.Error(t, o.EditTweetContent(99, "x", "editor"))
}

func TestOutline_TweetNumberMinting(t *testing.T) {
	o := newTestOutline(t)

	n, err := o.AddTweet(0, "fresh")
	require.NoError(t, err)
	assert.Equal(t, 4, n, "one past the global maximum, across groups")

	t.Run("no reuse after deleting the max", func(t *testing.T) {
		require.NoError(t, o.RemoveTweet(4))
		require.NoError(t, o.RemoveTweet(3))
		n, err := o.AddTweet(0, "again")
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	})

	t.Run("numbers survive group removal", func(t *testing.T) {
		require.NoError(t, o.RemoveGroup(0))
		n, err := o.AddTweet(0, "more")
		require.NoError(t, err)
		assert.Equal(t, 6, n)
	})
}

func TestOutline_AddGroup(t *testing.T) {
	o := newTestOutline(t)

	idx, err := o.AddGroup("Outro")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "Outro", o.Groups()[2].Title)
}

func TestOutline_GroupsReturnsCopy(t *testing.T) {
	o := newTestOutline(t)

	groups := o.Groups()
	groups[0].Title = "mutated"
	groups[0].Tweets[0].Content = "mutated"

	assert.Equal(t, "Intro", o.Groups()[0].Title)
	tweet, _ := o.FindTweet(1)
	assert.Equal(t, "one", tweet.Content)
}

func TestOutline_Renames(t *testing.T) {
	o := newTestOutline(t)

	require.NoError(t, o.RenameTopic("New topic"))
	assert.Equal(t, "New topic", o.Topic())
	assert.Error(t, o.RenameTopic("  "))

	require.NoError(t, o.RenameGroup(1, "Renamed"))
	assert.Equal(t, "Renamed", o.Groups()[1].Title)
	assert.Error(t, o.RenameGroup(9, "x"))

	require.NoError(t, o.RenameTweet(1, "Titled"))
	tweet, _ := o.FindTweet(1)
	assert.Equal(t, "Titled", tweet.Title)
	assert.Equal(t, "one", tweet.Content)
}

func TestOutline_EventAccumulation(t *testing.T) {
	o := newTestOutline(t)

	require.NoError(t, o.RenameTopic("A"))
	require.NoError(t, o.EditTweetContent(1, "body", "ai"))

	evts := o.GetUncommittedEvents()
	require.Len(t, evts, 2)
	assert.Equal(t, "outline.topic_renamed", evts[0].GetEventType())
	assert.Equal(t, "outline.tweet_content_updated", evts[1].GetEventType())

	if e, ok := evts[1].(events.TweetContentUpdated); assert.True(t, ok) {
		assert.Equal(t, "ai", e.Source)
	}

	o.MarkEventsAsCommitted()
	assert.Empty(t, o.GetUncommittedEvents())
}

func TestReconstructOutline(t *testing.T) {
	o := newTestOutline(t)

	rebuilt, err := ReconstructOutline(
		o.ID(), o.UserID(), o.Topic(), o.Format(), o.Groups(),
		o.CreatedAt(), o.UpdatedAt(), o.Version(), o.HighWater(),
	)
	require.NoError(t, err)

	assert.True(t, rebuilt.ID().Equals(o.ID()))
	assert.Equal(t, o.Version(), rebuilt.Version())
	assert.Empty(t, rebuilt.GetUncommittedEvents(), "reconstruction emits no events")

	// High-water mark is restored from the stored numbers
	n, err := rebuilt.AddTweet(0, "t")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestReconstructOutline_HighWaterSurvivesDeletions(t *testing.T) {
	o := newTestOutline(t)

	// Mint 4, delete it, then round-trip the aggregate the way every
	// load-mutate-save handler does. The stored mark must keep the
	// deleted number retired.
	n, err := o.AddTweet(0, "doomed")
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.NoError(t, o.RemoveTweet(4))
	assert.Equal(t, 4, o.HighWater())

	rebuilt, err := ReconstructOutline(
		o.ID(), o.UserID(), o.Topic(), o.Format(), o.Groups(),
		o.CreatedAt(), o.UpdatedAt(), o.Version(), o.HighWater(),
	)
	require.NoError(t, err)

	n, err = rebuilt.AddTweet(0, "fresh")
	require.NoError(t, err)
	assert.Equal(t, 5, n, "deleted numbers stay retired across reconstruction")

	t.Run("zero stored mark falls back to current max", func(t *testing.T) {
		legacy, err := ReconstructOutline(
			o.ID(), o.UserID(), o.Topic(), o.Format(), o.Groups(),
			o.CreatedAt(), o.UpdatedAt(), o.Version(), 0,
		)
		require.NoError(t, err)
		n, err := legacy.AddTweet(0, "t")
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})
}
