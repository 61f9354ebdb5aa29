// Package telegram delivers notification text to the configured chat.
// The bot never polls for updates; it is outbound-only.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	logx "homeworkbot/pkg/logx"
)

type Config struct {
	Token       string
	ChatID      int64
	RatePerSec  int           // default: 1
	SendTimeout time.Duration // default: 10s

	// Offline skips the token check against the Bot API (tests).
	Offline bool
}

// Sender sends plain-text messages to a single fixed chat, rate limited
// to stay inside Telegram's per-chat limits.
type Sender struct {
	bot     *tele.Bot
	chat    *tele.Chat
	limiter *rate.Limiter
	log     logx.Logger
}

func New(cfg Config, log logx.Logger) (*Sender, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat id is empty")
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		Offline: cfg.Offline,
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, err
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Sender{
		bot:     b,
		chat:    &tele.Chat{ID: cfg.ChatID},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		log:     log,
	}, nil
}

// SendText delivers text to the configured chat. Messages over the
// Telegram limit are split on newline boundaries and sent in order.
func (s *Sender) SendText(ctx context.Context, text string) error {
	for _, chunk := range splitText(text, textLimit) {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := s.bot.Send(s.chat, chunk); err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
	}
	s.log.Debug("message sent", logx.Int64("chat_id", s.chat.ID), logx.Int("len", len(text)))
	return nil
}
