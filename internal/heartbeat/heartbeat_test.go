package heartbeat

import (
	"context"
	"strings"
	"testing"
	"time"

	"homeworkbot/internal/poller"
	logx "homeworkbot/pkg/logx"
)

type fakeSource struct {
	snap poller.Snapshot
}

func (f *fakeSource) Snapshot() poller.Snapshot { return f.snap }

type fakeSender struct {
	sent []string
}

func (f *fakeSender) SendText(_ context.Context, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func TestBeatReportsLoopState(t *testing.T) {
	t.Parallel()
	src := &fakeSource{snap: poller.Snapshot{
		Cycles:      42,
		LastSuccess: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
	}}
	sender := &fakeSender{}
	s := New(Config{Enabled: true, Schedule: "@hourly"}, src, sender, logx.Nop())
	s.ctx = context.Background()

	s.beat()

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0], "42") {
		t.Fatalf("message %q does not report cycle count", sender.sent[0])
	}
	if !strings.Contains(sender.sent[0], "2026-08-26T12:00:00Z") {
		t.Fatalf("message %q does not report last success", sender.sent[0])
	}
}

func TestBeatBeforeFirstSuccess(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	s := New(Config{Enabled: true, Schedule: "@hourly"}, &fakeSource{}, sender, logx.Nop())
	s.ctx = context.Background()

	s.beat()

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0], "ещё не было") {
		t.Fatalf("message %q should state no success yet", sender.sent[0])
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	t.Parallel()
	s := New(Config{Enabled: true, Schedule: "every day at nine"}, &fakeSource{}, &fakeSender{}, logx.Nop())
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestDisabledStartIsNoop(t *testing.T) {
	t.Parallel()
	s := New(Config{}, &fakeSource{}, &fakeSender{}, logx.Nop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Enabled() {
		t.Fatal("disabled heartbeat reports Enabled")
	}
	s.Stop(context.Background()) // must not panic
}
