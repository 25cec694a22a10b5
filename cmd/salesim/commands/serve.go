package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"salesim/internal/api"
	"salesim/internal/sink"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	addr    string
	withDB  bool
	timeout time.Duration
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve single-customer simulations over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.HTTP.Addr
		if serveFlags.addr != "" {
			addr = serveFlags.addr
		}

		cat, err := buildCatalog()
		if err != nil {
			return err
		}
		handler := api.NewHandler(cfg.Sales, cat.Pools(), cfg.Seed)
		if serveFlags.withDB {
			store, err := sink.OpenSQLite(cfg.Database.SQLitePath)
			if err != nil {
				return err
			}
			defer store.Close()
			handler.Store = store
		}

		server := &http.Server{
			Addr:         addr,
			Handler:      api.NewRouter(handler, cfg.HTTP.AllowedOrigins),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addr).Msg("HTTP server starting")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
			close(errc)
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveFlags.timeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info().Msg("Server stopped")
		return nil
	},
}

func init() {
	fl := serveCmd.Flags()
	fl.StringVar(&serveFlags.addr, "addr", "", "listen address (default HTTP_ADDR)")
	fl.BoolVar(&serveFlags.withDB, "db", false, "serve stored ledgers from SQLITE_PATH")
	fl.DurationVar(&serveFlags.timeout, "shutdown-timeout", 30*time.Second, "graceful shutdown timeout")
	rootCmd.AddCommand(serveCmd)
}
