package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/mindmates/internal/httpserver"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.ListenAddr
			}

			e := httpserver.New(&httpserver.Deps{
				API:     a.api,
				Session: a.sess,
				Tracker: a.tracker(),
				Ready:   a.store.Ping,
			}, a.log)

			srv := &http.Server{
				Addr:              addr,
				Handler:           e,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      15 * time.Second,
				ReadHeaderTimeout: 3 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("dashboard listening", "addr", srv.Addr, "api", a.client.BaseURL())
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.log.Error("server shutdown error", "error", err)
			}
			a.log.Info("shutdown complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to APP_LISTEN_ADDR)")
	return cmd
}
