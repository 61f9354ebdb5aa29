// Package heartbeat sends an optional cron-scheduled liveness message to
// the notification chat so a silent bot can be told apart from a dead one.
package heartbeat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"homeworkbot/internal/poller"
	logx "homeworkbot/pkg/logx"
)

// StatusSource exposes the poll loop state the heartbeat reports on.
type StatusSource interface {
	Snapshot() poller.Snapshot
}

type Sender interface {
	SendText(ctx context.Context, text string) error
}

type Config struct {
	Enabled  bool
	Schedule string // cron spec, e.g. "0 9 * * *"
}

type Service struct {
	src    StatusSource
	sender Sender
	log    logx.Logger

	mu      sync.Mutex
	cfg     Config
	cron    *cron.Cron
	ctx     context.Context
	running bool
}

func New(cfg Config, src StatusSource, sender Sender, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{cfg: cfg, src: src, sender: sender, log: log}
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Enabled && strings.TrimSpace(s.cfg.Schedule) != ""
}

// Start schedules the heartbeat job. No-op when disabled or already running.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || !s.cfg.Enabled || strings.TrimSpace(s.cfg.Schedule) == "" {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.cfg.Schedule, func() { s.beat() }); err != nil {
		return fmt.Errorf("heartbeat schedule %q: %w", s.cfg.Schedule, err)
	}
	s.cron = c
	s.ctx = ctx
	s.running = true
	c.Start()
	s.log.Info("heartbeat started", logx.String("schedule", s.cfg.Schedule))
	return nil
}

// Stop halts the schedule, waiting for an in-flight beat up to ctx's deadline.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	wasRunning := s.running
	s.running = false
	s.mu.Unlock()

	if c == nil || !wasRunning {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("heartbeat stop timed out")
	}
}

// Apply reconfigures the schedule. The caller is expected to Stop/Start
// around enable-state changes; Apply handles the simple case of a changed
// spec while running.
func (s *Service) Apply(ctx context.Context, cfg Config) error {
	s.mu.Lock()
	unchanged := cfg == s.cfg
	wasRunning := s.running
	s.cfg = cfg
	s.mu.Unlock()

	if unchanged {
		return nil
	}
	if wasRunning {
		s.Stop(ctx)
	}
	if cfg.Enabled {
		return s.Start(ctx)
	}
	return nil
}

func (s *Service) beat() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}

	snap := s.src.Snapshot()
	last := "ещё не было"
	if !snap.LastSuccess.IsZero() {
		last = snap.LastSuccess.Format(time.RFC3339)
	}
	text := fmt.Sprintf("Бот на связи. Циклов опроса: %d, последний успешный: %s.",
		snap.Cycles, last)

	if err := s.sender.SendText(ctx, text); err != nil {
		s.log.Warn("heartbeat delivery failed", logx.Err(err))
		return
	}
	s.log.Debug("heartbeat sent", logx.Uint64("cycles", snap.Cycles))
}
