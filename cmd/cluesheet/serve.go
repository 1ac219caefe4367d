package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/cluesheet/catalog"
	"github.com/jason-s-yu/cluesheet/internal/server"
	"github.com/jason-s-yu/cluesheet/internal/session"
	"github.com/jason-s-yu/cluesheet/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sheets over HTTP and websockets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := catalog.Get(cfg.Theme); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		m := session.NewManager(st, log, cfg.Theme)
		return server.New(m, log).Run(ctx, cfg.Addr)
	},
}

// openStore picks Redis when a URL is configured and memory otherwise.
func openStore(ctx context.Context) (store.Store, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("using in-memory session store")
		return store.NewMemory(), func() {}, nil
	}
	rs, err := store.NewRedis(ctx, cfg.RedisURL, cfg.SessionTTL)
	if err != nil {
		return nil, nil, err
	}
	log.WithField("ttl", cfg.SessionTTL).Info("using redis session store")
	return rs, func() {
		if err := rs.Close(); err != nil {
			log.WithError(err).Warn("closing redis")
		}
	}, nil
}
