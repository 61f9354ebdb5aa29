// Package app wires configuration, logging, the API client, the Telegram
// sender and the poll loop into one supervised process.
package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/robfig/cron/v3"

	"homeworkbot/internal/config"
	"homeworkbot/internal/heartbeat"
	"homeworkbot/internal/poller"
	"homeworkbot/internal/practicum"
	rtsup "homeworkbot/internal/runtime/supervisor"
	"homeworkbot/internal/transport/telegram"
	logx "homeworkbot/pkg/logx"
)

type App struct {
	cfgm *config.Manager
	sup  *rtsup.Supervisor

	log  logx.Logger
	logs *logx.Service

	sender *telegram.Sender
	api    *practicum.Client
	poll   *poller.Service
	hb     *heartbeat.Service
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	// Fail before constructing anything that could reach the network.
	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required credentials: %s", strings.Join(missing, ", "))
	}

	logSvc, log := logx.New(mapLogConfig(cfg))
	log = log.With(logx.String("comp", "app"))

	tgCfg, err := mapTelegramConfig(cfg)
	if err != nil {
		return nil, err
	}
	sender, err := telegram.New(tgCfg, log.With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, err
	}

	apiCfg, err := mapPracticumConfig(cfg)
	if err != nil {
		return nil, err
	}
	api, err := practicum.New(apiCfg, log.With(logx.String("comp", "practicum")))
	if err != nil {
		return nil, err
	}

	pollCfg, err := mapPollerConfig(cfg)
	if err != nil {
		return nil, err
	}
	poll := poller.New(pollCfg, api, sender, log.With(logx.String("comp", "poller")))

	hbCfg, err := mapHeartbeatConfig(cfg)
	if err != nil {
		return nil, err
	}
	hb := heartbeat.New(hbCfg, poll, sender, log.With(logx.String("comp", "heartbeat")))

	return &App{
		cfgm:   cfgm,
		log:    log,
		logs:   logSvc,
		sender: sender,
		api:    api,
		poll:   poll,
		hb:     hb,
	}, nil
}

// Done is closed when the app supervisor context is canceled
// (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = rtsup.New(ctx, rtsup.WithLogger(a.log), rtsup.WithCancelOnError(true))

	// Transactional config reload: validate before commit/publish.
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		if _, err := mapPollerConfig(cfg); err != nil {
			return err
		}
		if _, err := mapPracticumConfig(cfg); err != nil {
			return err
		}
		if _, err := mapTelegramConfig(cfg); err != nil {
			return err
		}
		if _, err := mapHeartbeatConfig(cfg); err != nil {
			return err
		}
		return nil
	})

	a.sup.Go("poller.run", func(c context.Context) error {
		return a.poll.Run(c)
	})

	if err := a.hb.Start(a.sup.Context()); err != nil {
		return err
	}

	a.sup.Go("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})

	// Hot-reload fan-out: logging, poll interval and heartbeat schedule
	// can change live; transports and credentials cannot.
	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				a.applyReload(c, newCfg)
			}
		}
	})

	// systemd integration is best-effort: SdNotify is a no-op outside
	// a systemd unit.
	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		a.log.Warn("sd_notify ready failed", logx.Err(err))
	} else if sent {
		a.log.Debug("sd_notify ready sent")
	}
	if wd, err := daemon.SdWatchdogEnabled(false); err == nil && wd > 0 {
		a.sup.Go0("systemd.watchdog", func(c context.Context) {
			ticker := time.NewTicker(wd / 2)
			defer ticker.Stop()
			for {
				select {
				case <-c.Done():
					return
				case <-ticker.C:
					_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
				}
			}
		})
	}

	a.log.Info("app started")
	return nil
}

func (a *App) applyReload(ctx context.Context, cfg *config.Config) {
	a.logs.Apply(mapLogConfig(cfg))

	if pollCfg, err := mapPollerConfig(cfg); err != nil {
		a.log.Warn("invalid poller config; keeping previous", logx.Err(err))
	} else {
		a.poll.Apply(pollCfg)
	}

	if hbCfg, err := mapHeartbeatConfig(cfg); err != nil {
		a.log.Warn("invalid heartbeat config; keeping previous", logx.Err(err))
	} else if err := a.hb.Apply(ctx, hbCfg); err != nil {
		a.log.Warn("heartbeat reconfigure failed", logx.Err(err))
	}

	a.log.Info("config reloaded")
}

func (a *App) Stop(ctx context.Context) error {
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping")
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	// Cancel the run context so the poll loop and watchers unwind.
	a.sup.Cancel()

	stopCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	a.hb.Stop(stopCtx)

	if err := a.sup.Wait(stopCtx); err != nil && ctx.Err() == nil {
		a.log.Warn("shutdown incomplete", logx.Err(err))
	}

	a.log.Info("stopped")
	if a.logs != nil {
		_ = a.logs.Close()
	}
	return nil
}

// ---- config mapping ----

func mapLogConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func mapPollerConfig(cfg *config.Config) (poller.Config, error) {
	interval, err := config.ParseDurationOrDefault("poller.interval", cfg.Poller.Interval, poller.DefaultInterval)
	if err != nil {
		return poller.Config{}, err
	}
	return poller.Config{Interval: interval}, nil
}

func mapPracticumConfig(cfg *config.Config) (practicum.Config, error) {
	timeout, err := config.ParseDurationOrDefault("practicum.timeout", cfg.Practicum.Timeout, 30*time.Second)
	if err != nil {
		return practicum.Config{}, err
	}
	return practicum.Config{
		Token:    cfg.Practicum.Token,
		Endpoint: cfg.Practicum.Endpoint,
		Timeout:  timeout,
	}, nil
}

func mapTelegramConfig(cfg *config.Config) (telegram.Config, error) {
	chatID, err := strconv.ParseInt(strings.TrimSpace(cfg.Telegram.ChatID), 10, 64)
	if err != nil {
		return telegram.Config{}, fmt.Errorf("telegram.chat_id: invalid %q: %w", cfg.Telegram.ChatID, err)
	}
	sendTimeout, err := config.ParseDurationOrDefault("telegram.send_timeout", cfg.Telegram.SendTimeout, 10*time.Second)
	if err != nil {
		return telegram.Config{}, err
	}
	if cfg.Telegram.RatePerSec < 0 {
		return telegram.Config{}, fmt.Errorf("telegram.rate_per_sec must be >= 0")
	}
	return telegram.Config{
		Token:       cfg.Telegram.Token,
		ChatID:      chatID,
		RatePerSec:  cfg.Telegram.RatePerSec,
		SendTimeout: sendTimeout,
	}, nil
}

func mapHeartbeatConfig(cfg *config.Config) (heartbeat.Config, error) {
	hc := heartbeat.Config{
		Enabled:  cfg.Heartbeat.Enabled,
		Schedule: cfg.Heartbeat.Schedule,
	}
	if hc.Enabled {
		if strings.TrimSpace(hc.Schedule) == "" {
			return heartbeat.Config{}, fmt.Errorf("heartbeat.schedule is required when heartbeat is enabled")
		}
		if _, err := cron.ParseStandard(hc.Schedule); err != nil {
			return heartbeat.Config{}, fmt.Errorf("heartbeat.schedule: invalid %q: %w", hc.Schedule, err)
		}
	}
	return hc, nil
}
