package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bdbaddog/scons-time/internal/metrics"
)

type serveOptions struct {
	port     int
	interval time.Duration
	limit    int
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recorded measurements as Prometheus metrics",
		Long: `Exposes the most recent timing runs from the history store as
Prometheus gauges on /metrics, refreshing them on an interval so a
scraper sees new runs as they are saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				opts.port = viper.GetInt("metrics.port")
			}
			return runServe(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.port, "port", 2112, "port to listen on")
	cmd.Flags().DurationVar(&opts.interval, "interval", 30*time.Second, "store refresh interval")
	cmd.Flags().IntVar(&opts.limit, "limit", 50, "number of recent runs to expose")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts serveOptions) error {
	m := metrics.New()
	if err := refreshMetrics(m, opts.limit); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("metrics server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := refreshMetrics(m, opts.limit); err != nil {
				slog.Warn("metrics refresh failed", "error", err)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		}
	}
}

func refreshMetrics(m *metrics.Metrics, limit int) error {
	store, err := openStoreFunc()
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	runs, err := store.ListTimings(viper.GetString("project"), limit)
	if err != nil {
		return fmt.Errorf("list timing runs: %w", err)
	}
	for _, run := range runs {
		m.Record(run)
	}
	return nil
}
