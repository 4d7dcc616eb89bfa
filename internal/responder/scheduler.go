package responder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/gemini-chat/internal/model"
	"github.com/capitalize-ai/gemini-chat/pkg/logger"
	"github.com/capitalize-ai/gemini-chat/pkg/metrics"
)

// Default reply delay bounds.
const (
	DefaultMinDelay = time.Second
	DefaultMaxDelay = 3 * time.Second
)

// TargetPolicy selects the room a fired reply is posted into.
type TargetPolicy string

const (
	// TargetScheduled posts into the room the message was sent to.
	TargetScheduled TargetPolicy = "scheduled"

	// TargetActive posts into whichever room is active when the reply
	// fires, even if the user switched rooms in the meantime.
	TargetActive TargetPolicy = "active"
)

// ParseTargetPolicy parses a policy name. An empty name is TargetScheduled.
func ParseTargetPolicy(name string) (TargetPolicy, error) {
	switch TargetPolicy(name) {
	case "", TargetScheduled:
		return TargetScheduled, nil
	case TargetActive:
		return TargetActive, nil
	}
	return "", fmt.Errorf("unknown reply target policy %q", name)
}

// Poster is the part of the chat store a scheduler writes to.
type Poster interface {
	ReceiveMessage(ctx context.Context, content, chatroomID string) (model.Message, bool)
	SetTypingStatus(ctx context.Context, typing bool)
}

// Timer is a pending callback. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// AfterFunc runs f after d. time.AfterFunc is the default.
type AfterFunc func(d time.Duration, f func()) Timer

// Config holds scheduler settings.
type Config struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	Target   TargetPolicy
}

type task struct {
	id       uint64
	roomID   string
	content  string
	hasImage bool
	ctx      context.Context
	timer    Timer
}

// Scheduler posts assistant replies after a random delay. Each pending reply
// is keyed by the room it was scheduled for and can be cancelled.
type Scheduler struct {
	mu      sync.Mutex
	tasks   map[uint64]*task
	nextID  uint64
	stopped bool

	poster    Poster
	responder *Responder
	cfg       Config
	rand      Source
	afterFunc AfterFunc
	logger    *logger.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithAfterFunc replaces time.AfterFunc.
func WithAfterFunc(fn AfterFunc) SchedulerOption {
	return func(s *Scheduler) { s.afterFunc = fn }
}

// WithSource replaces the delay randomness.
func WithSource(src Source) SchedulerOption {
	return func(s *Scheduler) { s.rand = src }
}

// NewScheduler creates a scheduler that posts replies from r into poster.
func NewScheduler(poster Poster, r *Responder, cfg Config, log *logger.Logger, opts ...SchedulerOption) *Scheduler {
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = DefaultMinDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultMaxDelay
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	if cfg.Target == "" {
		cfg.Target = TargetScheduled
	}
	if r == nil {
		r = New(nil)
	}

	s := &Scheduler{
		tasks:     make(map[uint64]*task),
		poster:    poster,
		responder: r,
		cfg:       cfg,
		rand:      globalSource{},
		afterFunc: func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) },
		logger:    logger.OrNop(log).Named("responder"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule arranges a reply to content in roomID and sets the typing flag.
// It returns the chosen delay, or false if the scheduler is stopped or
// roomID is empty.
func (s *Scheduler) Schedule(ctx context.Context, roomID, content string, hasImage bool) (time.Duration, bool) {
	if roomID == "" {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0, false
	}

	delay := s.delay()
	s.nextID++
	t := &task{
		id:       s.nextID,
		roomID:   roomID,
		content:  content,
		hasImage: hasImage,
		ctx:      context.WithoutCancel(ctx),
	}
	s.tasks[t.id] = t
	t.timer = s.afterFunc(delay, func() { s.fire(t.id) })

	metrics.RepliesPending.Set(float64(len(s.tasks)))
	s.poster.SetTypingStatus(t.ctx, true)

	s.logger.Debug("reply scheduled",
		zap.String("chatroom_id", roomID),
		zap.Duration("delay", delay),
	)
	return delay, true
}

func (s *Scheduler) delay() time.Duration {
	spread := s.cfg.MaxDelay - s.cfg.MinDelay
	if spread <= 0 {
		return s.cfg.MinDelay
	}
	return s.cfg.MinDelay + time.Duration(s.rand.Int64N(int64(spread)))
}

func (s *Scheduler) fire(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		// Cancelled after the timer went off.
		return
	}
	delete(s.tasks, id)
	metrics.RepliesPending.Set(float64(len(s.tasks)))

	target := t.roomID
	if s.cfg.Target == TargetActive {
		target = ""
	}

	reply := s.responder.Reply(t.content, t.hasImage)
	if len(s.tasks) == 0 {
		s.poster.SetTypingStatus(t.ctx, false)
	}

	msg, posted := s.poster.ReceiveMessage(t.ctx, reply, target)
	if !posted {
		metrics.RepliesTotal.WithLabelValues("dropped").Inc()
		s.logger.Debug("reply dropped, no target room", zap.String("chatroom_id", t.roomID))
		return
	}
	metrics.RepliesTotal.WithLabelValues("fired").Inc()
	s.logger.Debug("reply posted",
		zap.String("chatroom_id", t.roomID),
		zap.String("message_id", msg.ID),
	)
}

// CancelRoom cancels every pending reply scheduled for roomID and returns
// how many were cancelled. Under TargetActive replies are not tied to the
// room they were scheduled from, so nothing is cancelled.
func (s *Scheduler) CancelRoom(ctx context.Context, roomID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Target == TargetActive {
		return 0
	}

	n := 0
	for id, t := range s.tasks {
		if t.roomID != roomID {
			continue
		}
		t.timer.Stop()
		delete(s.tasks, id)
		n++
	}
	if n == 0 {
		return 0
	}

	metrics.RepliesPending.Set(float64(len(s.tasks)))
	metrics.RepliesTotal.WithLabelValues("cancelled").Add(float64(n))
	if len(s.tasks) == 0 {
		s.poster.SetTypingStatus(ctx, false)
	}
	s.logger.Debug("replies cancelled", zap.String("chatroom_id", roomID), zap.Int("count", n))
	return n
}

// Pending returns the number of replies waiting to fire.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// PendingFor returns the number of replies waiting to fire for roomID.
func (s *Scheduler) PendingFor(roomID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tasks {
		if t.roomID == roomID {
			n++
		}
	}
	return n
}

// Stop cancels every pending reply. Later calls to Schedule are refused.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true

	n := len(s.tasks)
	for id, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, id)
	}
	metrics.RepliesPending.Set(0)
	if n > 0 {
		metrics.RepliesTotal.WithLabelValues("cancelled").Add(float64(n))
		s.poster.SetTypingStatus(ctx, false)
	}
	s.logger.Info("scheduler stopped", zap.Int("cancelled", n))
}
