package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/mindmates/internal/api"
	"github.com/Skotchmaster/mindmates/internal/config"
	"github.com/Skotchmaster/mindmates/internal/events"
	"github.com/Skotchmaster/mindmates/internal/logging"
	"github.com/Skotchmaster/mindmates/internal/storage"
	"github.com/Skotchmaster/mindmates/internal/study"
	"github.com/Skotchmaster/mindmates/pkg/apiclient"
	"github.com/Skotchmaster/mindmates/pkg/session"
)

type stateStore interface {
	session.Storage
	Ping(ctx context.Context) error
	Close() error
}

// app is the wiring shared by every command. It is filled in by the root
// command's pre-run hook.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	store  stateStore
	sess   *session.Session
	client *apiclient.Client
	api    *api.API
	pub    events.Publisher

	asJSON bool

	outMu sync.Mutex
	in    *bufio.Reader
}

func (a *app) open(ctx context.Context, cfg config.Config) error {
	a.cfg = cfg
	a.log = logging.New(cfg.LogLevel).With("service", "mindmates")

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	a.store = store

	a.sess = session.New(store)
	a.client = apiclient.New(cfg.BaseURL(), a.sess, apiclient.WithTimeout(cfg.HTTPTimeout))
	a.api = api.New(a.client, a.sess, api.Options{LoginPath: cfg.LoginPath})

	pub, err := events.Open(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		a.log.Warn("events disabled", "error", err)
		pub = events.Nop{}
	}
	a.pub = pub
	return nil
}

func (a *app) openStore(ctx context.Context) (stateStore, error) {
	if a.cfg.RedisAddr != "" {
		rs, err := storage.OpenRedis(ctx, storage.RedisOptions{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
			Secret:   a.cfg.SessionKey,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis state: %w", err)
		}
		return rs, nil
	}

	st, err := storage.Open(ctx, a.cfg.StatePath, storage.WithSecret(a.cfg.SessionKey))
	if err != nil {
		return nil, fmt.Errorf("open local state: %w", err)
	}
	if n, err := st.PurgeExpired(ctx); err != nil {
		a.log.Warn("purge expired state failed", "error", err)
	} else if n > 0 {
		a.log.Debug("purged expired state", "entries", n)
	}
	return st, nil
}

func (a *app) close() {
	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.log.Warn("events close failed", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("state close failed", "error", err)
		}
	}
}

func (a *app) tracker() *study.Tracker {
	return study.NewTracker(a.api.Tracking, a.api.Achievements, a.sess, a.pub)
}

func (a *app) printf(cmd *cobra.Command, format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// readLine prompts on stderr and reads one line from the command's input.
func (a *app) readLine(cmd *cobra.Command, prompt string) (string, error) {
	if a.in == nil {
		a.in = bufio.NewReader(cmd.InOrStdin())
	}
	if prompt != "" {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
	}
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// userError carries the message shown to the user and keeps the cause.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

func (a *app) fail(ctx context.Context, op api.Op, err error) error {
	logging.FromContext(ctx).Debug("command failed", "op", string(op), "error", err)
	return &userError{msg: api.Message(op, err), err: err}
}
