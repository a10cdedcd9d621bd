package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"influflow/application/commands"
	"influflow/application/commands/bus"
	"influflow/domain/config"
	"influflow/domain/markdown"
	"influflow/domain/mindmap"
)

// Dispatcher is the command-sending surface the reconciler needs
type Dispatcher interface {
	Send(ctx context.Context, cmd bus.Command) error
}

// EditReconciler turns raw section edits from the editor into domain
// commands. Keystrokes arrive far faster than they should be persisted,
// so edits to the same target are coalesced and flushed only after the
// editor goes quiet; a newer edit to the same target replaces the pending
// one wholesale.
type EditReconciler struct {
	dispatcher Dispatcher
	logger     *zap.Logger
	debounce   time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEdit
	closed  bool
}

type pendingEdit struct {
	cmd   bus.Command
	timer *time.Timer
}

// NewEditReconciler creates a reconciler with the default debounce interval
func NewEditReconciler(dispatcher Dispatcher, logger *zap.Logger) *EditReconciler {
	return NewEditReconcilerWithInterval(dispatcher, logger, config.DefaultDomainConfig().EditDebounceInterval)
}

// NewEditReconcilerWithInterval creates a reconciler with an explicit
// debounce interval
func NewEditReconcilerWithInterval(dispatcher Dispatcher, logger *zap.Logger, debounce time.Duration) *EditReconciler {
	return &EditReconciler{
		dispatcher: dispatcher,
		logger:     logger,
		debounce:   debounce,
		pending:    make(map[string]*pendingEdit),
	}
}

// ReconcileSection routes one edited section to its domain command. The
// section type decides the target: tweet sections update tweet content,
// group sections rename the group, a level-1 heading renames the topic.
// Untargetable sections are dropped.
func (r *EditReconciler) ReconcileSection(outlineID, userID string, s markdown.Section, editedText string) error {
	switch {
	case s.Type == markdown.SectionTweet:
		n, ok := s.TweetID.Int()
		if !ok {
			return fmt.Errorf("tweet section has non-numeric id %q", s.TweetID.String())
		}
		r.QueueTweetEdit(outlineID, userID, n, editedText)
		return nil

	case s.Type == markdown.SectionGroup:
		n, ok := s.GroupID.Int()
		if !ok {
			return fmt.Errorf("group section has non-numeric id %q", s.GroupID.String())
		}
		r.QueueNodeRename(outlineID, userID, mindmap.GroupNodeID(n), editedText)
		return nil

	case s.Type == markdown.SectionHeading && s.Level == 1:
		r.QueueNodeRename(outlineID, userID, mindmap.RootNodeID, editedText)
		return nil

	default:
		// Time captions, deeper headings, and plain body sections have no
		// persistent counterpart to reconcile into.
		return nil
	}
}

// QueueTweetEdit coalesces a tweet content edit
func (r *EditReconciler) QueueTweetEdit(outlineID, userID string, tweetNumber int, content string) {
	key := fmt.Sprintf("%s/tweet/%d", outlineID, tweetNumber)
	r.queue(key, commands.EditTweetContentCommand{
		OutlineID:   outlineID,
		UserID:      userID,
		TweetNumber: tweetNumber,
		Content:     content,
		Source:      commands.EditSourceEditor,
	})
}

// QueueNodeRename coalesces a label edit for a mind-map node
func (r *EditReconciler) QueueNodeRename(outlineID, userID, nodeID, label string) {
	key := fmt.Sprintf("%s/node/%s", outlineID, nodeID)
	r.queue(key, commands.RenameNodeCommand{
		OutlineID: outlineID,
		UserID:    userID,
		NodeID:    nodeID,
		Label:     label,
	})
}

func (r *EditReconciler) queue(key string, cmd bus.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	if p, ok := r.pending[key]; ok {
		p.cmd = cmd
		p.timer.Reset(r.debounce)
		return
	}

	p := &pendingEdit{cmd: cmd}
	p.timer = time.AfterFunc(r.debounce, func() {
		r.fire(key)
	})
	r.pending[key] = p
}

// fire dispatches a pending edit after its quiet period
func (r *EditReconciler) fire(key string) {
	r.mu.Lock()
	p, ok := r.pending[key]
	if ok {
		delete(r.pending, key)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	r.dispatch(p.cmd)
}

// Flush dispatches every pending edit immediately. Called on editor
// blur, document switch, and shutdown.
func (r *EditReconciler) Flush() {
	r.mu.Lock()
	edits := make([]*pendingEdit, 0, len(r.pending))
	for key, p := range r.pending {
		p.timer.Stop()
		edits = append(edits, p)
		delete(r.pending, key)
	}
	r.mu.Unlock()

	for _, p := range edits {
		r.dispatch(p.cmd)
	}
}

// Close flushes pending edits and refuses further queueing
func (r *EditReconciler) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.Flush()
}

func (r *EditReconciler) dispatch(cmd bus.Command) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.dispatcher.Send(ctx, cmd); err != nil {
		r.logger.Error("reconciled edit failed", zap.Error(err))
	}
}
