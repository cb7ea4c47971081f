package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	ggm "github.com/yggai/ygggo_mongo"
)

type pingOptions struct {
	timeout     time.Duration
	retries     int
	metricsAddr string
	hold        time.Duration
}

type pingResult struct {
	Alias         string      `json:"alias"`
	DriverVersion string      `json:"driver_version"`
	Status        ggm.Status  `json:"status"`
	URI           string      `json:"uri"`
	Options       ggm.Options `json:"options,omitempty"`
	Database      string      `json:"database"`
	PingMS        float64     `json:"ping_ms"`
}

// newPingCmd creates the ping subcommand
func newPingCmd() *cobra.Command {
	opts := pingOptions{}
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Register, connect, ping and disconnect the configured alias",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPing(ctx, opts)
		},
	}
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall connect timeout")
	cmd.Flags().IntVar(&opts.retries, "retries", ggm.DefaultRetryPolicy().MaxAttempts, "connect attempts")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /metrics on this address while connected")
	cmd.Flags().DurationVar(&opts.hold, "hold", 0, "stay connected this long before disconnecting")
	return cmd
}

func runPing(ctx context.Context, opts pingOptions) error {
	settings, cfg, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger()

	factory := ggm.NewDefaultFactory(ggm.WithLogger(logger))
	svc, err := factory.GetService(settings.DriverVersion)
	if err != nil {
		return err
	}
	if err := svc.CreateClient(cfg); err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	policy := ggm.DefaultRetryPolicy()
	policy.MaxAttempts = opts.retries
	policy.MaxElapsed = opts.timeout
	if err := ggm.ConnectWithRetry(connectCtx, svc, cfg.Alias(), policy); err != nil {
		return err
	}
	defer func() {
		if err := svc.Disconnect(context.Background(), cfg.Alias()); err != nil {
			logger.Error("disconnect failed", slog.String("alias", cfg.Alias()), slog.String("error", err.Error()))
		}
	}()

	if _, err := svc.DatabaseHandle(cfg.Alias(), settings.Database); err != nil {
		return err
	}

	start := time.Now()
	if err := svc.Ping(ctx, cfg.Alias()); err != nil {
		return err
	}
	pingTime := time.Since(start)

	meta, err := svc.GetMetadata(cfg.Alias())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pingResult{
		Alias:         cfg.Alias(),
		DriverVersion: meta.Version.String(),
		Status:        meta.Status,
		URI:           ggm.RedactURI(meta.URI),
		Options:       meta.Options,
		Database:      settings.Database,
		PingMS:        float64(pingTime.Microseconds()) / 1000,
	}); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if opts.metricsAddr != "" {
		srv := serveMetrics(opts.metricsAddr, factory, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}
	if opts.hold > 0 {
		t := time.NewTimer(opts.hold)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
	return nil
}

func serveMetrics(addr string, factory *ggm.Factory, logger *slog.Logger) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(ggm.NewCollector(factory.Services()...))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.String("addr", addr), slog.String("error", err.Error()))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", addr))
	return srv
}
