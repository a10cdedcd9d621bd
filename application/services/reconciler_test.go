package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"influflow/application/commands"
	"influflow/application/commands/bus"
	"influflow/domain/core/valueobjects"
	"influflow/domain/markdown"
)

type captureDispatcher struct {
	mu   sync.Mutex
	sent []bus.Command
}

func (d *captureDispatcher) Send(_ context.Context, cmd bus.Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, cmd)
	return nil
}

func (d *captureDispatcher) commands() []bus.Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]bus.Command(nil), d.sent...)
}

func newTestReconciler(d Dispatcher, debounce time.Duration) *EditReconciler {
	return NewEditReconcilerWithInterval(d, zap.NewNop(), debounce)
}

func TestReconciler_CoalescesRapidEdits(t *testing.T) {
	d := &captureDispatcher{}
	r := newTestReconciler(d, 30*time.Millisecond)
	defer r.Close()

	// Simulated keystrokes, all within the quiet interval
	r.QueueTweetEdit("o1", "u1", 5, "h")
	r.QueueTweetEdit("o1", "u1", 5, "he")
	r.QueueTweetEdit("o1", "u1", 5, "hello")

	assert.Empty(t, d.commands(), "nothing dispatched before the quiet period")

	require.Eventually(t, func() bool {
		return len(d.commands()) == 1
	}, time.Second, 5*time.Millisecond)

	cmd, ok := d.commands()[0].(commands.EditTweetContentCommand)
	require.True(t, ok)
	assert.Equal(t, "hello", cmd.Content, "only the newest edit survives")
	assert.Equal(t, commands.EditSourceEditor, cmd.Source)
}

func TestReconciler_IndependentTargetsDoNotCoalesce(t *testing.T) {
	d := &captureDispatcher{}
	r := newTestReconciler(d, 20*time.Millisecond)
	defer r.Close()

	r.QueueTweetEdit("o1", "u1", 1, "first tweet")
	r.QueueTweetEdit("o1", "u1", 2, "second tweet")
	r.QueueNodeRename("o1", "u1", "group-0", "new title")

	require.Eventually(t, func() bool {
		return len(d.commands()) == 3
	}, time.Second, 5*time.Millisecond)
}

func TestReconciler_FlushDispatchesImmediately(t *testing.T) {
	d := &captureDispatcher{}
	r := newTestReconciler(d, time.Hour)

	r.QueueTweetEdit("o1", "u1", 1, "pending")
	r.Flush()

	require.Len(t, d.commands(), 1)

	// The flushed timer must not fire a second dispatch
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, d.commands(), 1)
}

func TestReconciler_ClosedRefusesEdits(t *testing.T) {
	d := &captureDispatcher{}
	r := newTestReconciler(d, time.Hour)

	r.Close()
	r.QueueTweetEdit("o1", "u1", 1, "late")
	r.Flush()

	assert.Empty(t, d.commands())
}

func TestReconcileSection_Routing(t *testing.T) {
	d := &captureDispatcher{}
	r := newTestReconciler(d, time.Hour)

	t.Run("tweet section updates content", func(t *testing.T) {
		s := markdown.Section{Type: markdown.SectionTweet, TweetID: valueobjects.NewFlexID("7")}
		require.NoError(t, r.ReconcileSection("o1", "u1", s, "new body"))
		r.Flush()

		cmds := d.commands()
		require.Len(t, cmds, 1)
		cmd := cmds[0].(commands.EditTweetContentCommand)
		assert.Equal(t, 7, cmd.TweetNumber)
		assert.Equal(t, "new body", cmd.Content)
	})

	t.Run("group section renames the group node", func(t *testing.T) {
		s := markdown.Section{Type: markdown.SectionGroup, GroupID: valueobjects.NewFlexID("2")}
		require.NoError(t, r.ReconcileSection("o1", "u1", s, "1️⃣ Better title"))
		r.Flush()

		cmds := d.commands()
		cmd := cmds[len(cmds)-1].(commands.RenameNodeCommand)
		assert.Equal(t, "group-2", cmd.NodeID)
		assert.Equal(t, "1️⃣ Better title", cmd.Label, "decoration is stripped later, by the handler")
	})

	t.Run("level one heading renames the topic", func(t *testing.T) {
		s := markdown.Section{Type: markdown.SectionHeading, Level: 1}
		require.NoError(t, r.ReconcileSection("o1", "u1", s, "New topic"))
		r.Flush()

		cmds := d.commands()
		cmd := cmds[len(cmds)-1].(commands.RenameNodeCommand)
		assert.Equal(t, "root", cmd.NodeID)
	})

	t.Run("plain paragraph is dropped", func(t *testing.T) {
		before := len(d.commands())
		s := markdown.Section{Type: markdown.SectionParagraph, Content: "Edited on Aug 29"}
		require.NoError(t, r.ReconcileSection("o1", "u1", s, "x"))
		r.Flush()
		assert.Len(t, d.commands(), before)
	})

	t.Run("non numeric tweet id errors", func(t *testing.T) {
		s := markdown.Section{Type: markdown.SectionTweet, TweetID: valueobjects.NewFlexID("abc")}
		assert.Error(t, r.ReconcileSection("o1", "u1", s, "x"))
	})
}
