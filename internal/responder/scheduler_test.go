package responder

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/capitalize-ai/gemini-chat/internal/model"
	"github.com/capitalize-ai/gemini-chat/internal/storage"
	"github.com/capitalize-ai/gemini-chat/internal/store"
)

// fakeTimers holds scheduled callbacks until the test fires them.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (ft *fakeTimers) AfterFunc(d time.Duration, f func()) Timer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{delay: d, f: f}
	ft.timers = append(ft.timers, t)
	return t
}

// fire runs the i-th scheduled callback as if its timer went off.
func (ft *fakeTimers) fire(i int) {
	ft.mu.Lock()
	t := ft.timers[i]
	ft.mu.Unlock()
	t.f()
}

func (ft *fakeTimers) get(i int) *fakeTimer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.timers[i]
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	gw := storage.NewGateway(storage.NewMemory(), nil)
	s := store.New(context.Background(), gw, nil)
	s.Reset(context.Background())
	return s
}

func newTestScheduler(st *store.Store, target TargetPolicy) (*Scheduler, *fakeTimers) {
	timers := &fakeTimers{}
	src := rand.New(rand.NewPCG(3, 4))
	s := NewScheduler(st, New(src), Config{Target: target}, nil,
		WithAfterFunc(timers.AfterFunc),
		WithSource(src),
	)
	return s, timers
}

func TestScheduleDelayRange(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	s, timers := newTestScheduler(st, TargetScheduled)

	for i := 0; i < 100; i++ {
		d, ok := s.Schedule(context.Background(), "room", "hello", false)
		if !ok {
			t.Fatal("schedule refused")
		}
		if d < DefaultMinDelay || d >= DefaultMaxDelay {
			t.Errorf("delay %v outside [%v, %v)", d, DefaultMinDelay, DefaultMaxDelay)
		}
		if timers.get(i).delay != d {
			t.Errorf("timer delay %v, returned %v", timers.get(i).delay, d)
		}
	}
}

func TestScheduleRejectsEmptyRoom(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	s, _ := newTestScheduler(st, TargetScheduled)

	if _, ok := s.Schedule(context.Background(), "", "hello", false); ok {
		t.Error("expected empty room id to be refused")
	}
	if st.IsTyping() {
		t.Error("typing set for refused schedule")
	}
}

func TestFirePostsIntoScheduledRoom(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	s, timers := newTestScheduler(st, TargetScheduled)

	a := st.CreateChatroom(ctx, "A")
	st.SendMessage(ctx, "hello", "")
	s.Schedule(ctx, a.ID, "hello", false)
	if !st.IsTyping() {
		t.Error("typing not set after schedule")
	}

	// The user switches rooms before the reply fires.
	b := st.CreateChatroom(ctx, "B")
	timers.fire(0)

	gotA, _ := st.Chatroom(a.ID)
	if len(gotA.Messages) != 2 || gotA.Messages[1].Content != ReplyGreeting {
		t.Errorf("reply not posted into scheduling room: %+v", gotA.Messages)
	}
	if gotA.Messages[1].Sender != model.SenderAssistant {
		t.Errorf("reply sender = %q", gotA.Messages[1].Sender)
	}
	gotB, _ := st.Chatroom(b.ID)
	if len(gotB.Messages) != 0 {
		t.Error("reply leaked into the newly active room")
	}
	if st.IsTyping() {
		t.Error("typing still set after the last reply fired")
	}
	if s.Pending() != 0 {
		t.Errorf("pending = %d after fire", s.Pending())
	}
}

func TestFirePostsIntoActiveRoom(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	s, timers := newTestScheduler(st, TargetActive)

	a := st.CreateChatroom(ctx, "A")
	s.Schedule(ctx, a.ID, "help me", false)
	b := st.CreateChatroom(ctx, "B")
	timers.fire(0)

	gotB, _ := st.Chatroom(b.ID)
	if len(gotB.Messages) != 1 || gotB.Messages[0].Content != ReplyHelp {
		t.Errorf("reply not posted into active room: %+v", gotB.Messages)
	}
	gotA, _ := st.Chatroom(a.ID)
	if len(gotA.Messages) != 0 {
		t.Error("reply posted into the original room")
	}
}

func TestCancelRoom(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	s, timers := newTestScheduler(st, TargetScheduled)

	a := st.CreateChatroom(ctx, "A")
	b := st.CreateChatroom(ctx, "B")
	s.Schedule(ctx, a.ID, "one", false)
	s.Schedule(ctx, a.ID, "two", false)
	s.Schedule(ctx, b.ID, "three", false)

	if got := s.CancelRoom(ctx, a.ID); got != 2 {
		t.Errorf("cancelled %d, want 2", got)
	}
	if !timers.get(0).stopped || !timers.get(1).stopped || timers.get(2).stopped {
		t.Error("wrong timers stopped")
	}
	if !st.IsTyping() {
		t.Error("typing cleared while a reply is still pending")
	}
	if s.PendingFor(a.ID) != 0 || s.PendingFor(b.ID) != 1 {
		t.Errorf("pending a=%d b=%d", s.PendingFor(a.ID), s.PendingFor(b.ID))
	}

	// A timer that went off after cancellation is a no-op.
	timers.fire(0)
	gotA, _ := st.Chatroom(a.ID)
	if len(gotA.Messages) != 0 {
		t.Error("cancelled reply was posted")
	}

	if s.CancelRoom(ctx, a.ID) != 0 {
		t.Error("second cancel reported work")
	}
	s.CancelRoom(ctx, b.ID)
	if st.IsTyping() {
		t.Error("typing still set after the last reply was cancelled")
	}
}

func TestDeletedRoomReplyMovesToActiveRoom(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	s, timers := newTestScheduler(st, TargetActive)

	a := st.CreateChatroom(ctx, "A")
	b := st.CreateChatroom(ctx, "B")
	st.SetActiveChatroom(ctx, a.ID)
	s.Schedule(ctx, a.ID, "thanks", false)

	if got := s.CancelRoom(ctx, a.ID); got != 0 {
		t.Errorf("cancelled %d replies under the active policy", got)
	}
	st.DeleteChatroom(ctx, a.ID)
	if timers.get(0).stopped {
		t.Fatal("timer stopped for a reply that follows the active room")
	}

	timers.fire(0)
	gotB, _ := st.Chatroom(b.ID)
	if len(gotB.Messages) != 1 || gotB.Messages[0].Content != ReplyThanks {
		t.Errorf("reply not posted into the newly active room: %+v", gotB.Messages)
	}
	if st.IsTyping() {
		t.Error("typing left set")
	}
}

func TestFireAfterRoomDeletedIsDropped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	s, timers := newTestScheduler(st, TargetScheduled)

	a := st.CreateChatroom(ctx, "A")
	s.Schedule(ctx, a.ID, "hello", false)
	st.DeleteChatroom(ctx, a.ID)

	timers.fire(0)
	if len(st.Chatrooms()) != 0 {
		t.Errorf("reply resurrected a deleted room: %+v", st.Chatrooms())
	}
	if st.IsTyping() {
		t.Error("typing left set")
	}
}

func TestStop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	s, timers := newTestScheduler(st, TargetScheduled)

	a := st.CreateChatroom(ctx, "A")
	s.Schedule(ctx, a.ID, "hello", false)
	s.Stop(ctx)
	s.Stop(ctx)

	if !timers.get(0).stopped {
		t.Error("timer not stopped")
	}
	if st.IsTyping() {
		t.Error("typing left set after stop")
	}
	if _, ok := s.Schedule(ctx, a.ID, "again", false); ok {
		t.Error("schedule accepted after stop")
	}
}

func TestParseTargetPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    TargetPolicy
		wantErr bool
	}{
		{"", TargetScheduled, false},
		{"scheduled", TargetScheduled, false},
		{"active", TargetActive, false},
		{"elsewhere", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTargetPolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTargetPolicy(%q) = %q, %v", tt.in, got, err)
		}
	}
}
