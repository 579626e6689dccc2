package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "tetrisstack",
		Short:         "Piece queue and reserve stack with single-level undo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sessions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	var seed int64
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play one session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			sess := NewSession(cfg.SessionOptions())
			return NewConsole(sess, cmd.InOrStdin(), cmd.OutOrStdout(), nil).Run()
		},
	}
	playCmd.Flags().Int64Var(&seed, "seed", 0, "seed for the piece generator")

	root.AddCommand(serveCmd, playCmd)
	return root
}

func newLogger(cfg Config, w io.Writer) *slog.Logger {
	lvl, _ := parseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func serve(ctx context.Context, cfg Config) error {
	logger := newLogger(cfg, os.Stderr)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := NewMetrics(reg)

	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	journal, err := OpenJournal(openCtx, cfg.MySQL, logger, metrics)
	cancel()
	if err != nil {
		// The journal is optional; keep serving without it.
		logger.Error("journal unavailable", "error", err)
		journal = nil
	}
	defer func() {
		if err := journal.Close(); err != nil {
			logger.Error("journal close", "error", err)
		}
	}()

	srv := NewServer(NewStore(cfg.SessionOptions()), journal, metrics, logger)
	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Router(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("tetrisstack listening", "addr", cfg.Listen)
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
