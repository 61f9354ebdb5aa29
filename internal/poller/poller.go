// Package poller runs the homework-status poll loop: fetch updates since
// the cursor, translate changed records into notifications, relay failures
// to the chat with deduplication, sleep, repeat.
package poller

import (
	"context"
	"sync"
	"time"

	"homeworkbot/internal/practicum"
	logx "homeworkbot/pkg/logx"
)

// DefaultInterval matches the upstream service's recommended retry period.
const DefaultInterval = 600 * time.Second

// failurePrefix opens every failure relay sent to the chat.
const failurePrefix = "Сбой в работе программы: "

// API fetches homework updates since a unix timestamp.
type API interface {
	Statuses(ctx context.Context, fromDate int64) (practicum.Payload, error)
}

// Sender delivers one plain-text message to the notification chat.
type Sender interface {
	SendText(ctx context.Context, text string) error
}

type Config struct {
	Interval time.Duration // default: DefaultInterval
}

// Snapshot is a point-in-time view of the loop, used by the heartbeat.
type Snapshot struct {
	Cycles      uint64
	Cursor      int64
	LastSuccess time.Time
}

// Service owns the poll cursor and the last relayed error message.
// The loop itself is single-threaded; the mutex only guards concurrent
// Apply() and Snapshot() callers.
type Service struct {
	api    API
	sender Sender
	log    logx.Logger

	mu       sync.Mutex
	interval time.Duration

	// Loop state. Owned by Run's goroutine; read by Snapshot.
	cursor       int64
	lastErrorMsg string
	cycles       uint64
	lastSuccess  time.Time
}

func New(cfg Config, api API, sender Sender, log logx.Logger) *Service {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		api:      api,
		sender:   sender,
		log:      log,
		interval: interval,
		cursor:   time.Now().Unix(),
	}
}

// Apply updates the poll interval. Takes effect from the next sleep.
func (s *Service) Apply(cfg Config) {
	if cfg.Interval <= 0 {
		return
	}
	s.mu.Lock()
	s.interval = cfg.Interval
	s.mu.Unlock()
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Cycles:      s.cycles,
		Cursor:      s.cursor,
		LastSuccess: s.lastSuccess,
	}
}

// Run executes the loop until ctx is canceled. The sleep interval is
// fixed per cycle regardless of outcome.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info("poll loop started", logx.Duration("interval", s.currentInterval()))
	for {
		s.cycle(ctx)

		timer := time.NewTimer(s.currentInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("poll loop stopped")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *Service) currentInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// cycle runs one POLLING -> VALIDATING -> NOTIFYING pass. Errors never
// escape: they are logged and relayed to the chat unless identical to
// the previously relayed failure.
func (s *Service) cycle(ctx context.Context) {
	err := s.poll(ctx)

	s.mu.Lock()
	s.cycles++
	s.mu.Unlock()

	if err == nil {
		s.mu.Lock()
		s.lastErrorMsg = ""
		s.lastSuccess = time.Now()
		s.mu.Unlock()
		return
	}
	if ctx.Err() != nil {
		return
	}

	msg := failurePrefix + err.Error()
	s.log.Error("poll cycle failed", logx.Err(err))

	s.mu.Lock()
	duplicate := msg == s.lastErrorMsg
	s.lastErrorMsg = msg
	s.mu.Unlock()
	if duplicate {
		return
	}

	// Best-effort failure relay; its own failure is logged only.
	if serr := s.sender.SendText(ctx, msg); serr != nil {
		s.log.Error("failed to relay failure to chat", logx.Err(serr))
	}
}

// poll performs one fetch/validate/notify pass and advances the cursor.
func (s *Service) poll(ctx context.Context) error {
	cursor := s.currentCursor()

	payload, err := s.api.Statuses(ctx, cursor)
	if err != nil {
		return err
	}

	st, err := practicum.CheckResponse(payload)
	if err != nil {
		return err
	}

	if len(st.Homeworks) == 0 {
		s.log.Debug("no homework updates", logx.Int64("from_date", cursor))
	}
	for _, hw := range st.Homeworks {
		text, err := practicum.ParseStatus(hw)
		if err != nil {
			return err
		}
		// Delivery is best-effort: a failed send is reported but does
		// not fail the cycle.
		if err := s.sender.SendText(ctx, text); err != nil {
			s.log.Warn("notification delivery failed",
				logx.String("homework", hw.HomeworkName), logx.Err(err))
			continue
		}
		s.log.Info("notification sent", logx.String("homework", hw.HomeworkName))
	}

	// Advance the cursor, never rewinding it. A zero CurrentDate keeps
	// the previous value.
	s.mu.Lock()
	if st.CurrentDate > s.cursor {
		s.cursor = st.CurrentDate
	}
	s.mu.Unlock()
	return nil
}

func (s *Service) currentCursor() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}
