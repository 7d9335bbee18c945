// Command rind runs the authoritative DNS server and its companion
// control-plane API: load configuration, open the record store, and
// start the UDP, API, and metrics servers, shutting all three down
// together on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kestreldns/rind/internal/api"
	"github.com/kestreldns/rind/internal/config"
	"github.com/kestreldns/rind/internal/logging"
	"github.com/kestreldns/rind/internal/metrics"
	"github.com/kestreldns/rind/internal/resolver"
	"github.com/kestreldns/rind/internal/server"
	"github.com/kestreldns/rind/internal/store"
)

// DefaultDatastorePath is the default location of the line-oriented
// records file, overridable with -datastore.
const DefaultDatastorePath = "rind.db"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	datastorePath string
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.datastorePath, "datastore", DefaultDatastorePath, "Path to the line-oriented records datastore file")
	flag.Parse()
	return f
}

func run() error {
	flags := parseFlags()
	cfg := config.Load()

	logger := logging.Configure(logging.Config{
		Level:            cfg.LogLevel,
		Structured:       cfg.LogFormat == "json",
		StructuredFormat: cfg.LogFormat,
	})
	logger.Info("rind starting",
		"dns_addr", cfg.DNSBindAddr,
		"api_addr", cfg.APIBindAddr,
		"metrics_port", cfg.MetricsPort,
		"server_id", cfg.ServerID,
		"datastore", flags.datastorePath,
	)

	metricsSink := metrics.NewPrometheus()

	provider := store.NewFileDatastoreProvider(flags.datastorePath)
	recordStore, err := store.New(provider, metricsSink)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	res := resolver.New(recordStore)
	queryHandler := &server.QueryHandler{
		Logger:   logger,
		Resolver: res,
		Metrics:  metricsSink,
		Instance: cfg.ServerID,
	}
	udpServer := &server.UDPServer{Logger: logger, Handler: queryHandler}

	apiSrv := api.New(cfg, cfg.APIBindAddr, recordStore, metricsSink, logger)

	metricsAddr := fmt.Sprintf(":%d", cfg.MetricsPort)
	metricsSrv := &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsSink.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("control-plane api listening", "addr", apiSrv.Addr())
		if err := apiSrv.ListenAndServe(); err != nil {
			logger.Error("api server error", "err", err)
			cancel()
		}
	}()

	go func() {
		logger.Info("metrics endpoint listening", "addr", metricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "err", err)
			cancel()
		}
	}()

	runErr := udpServer.Run(ctx, cfg.DNSBindAddr)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	shutdownCancel()
	logger.Info("rind stopped")

	if runErr != nil {
		return fmt.Errorf("dns server exited with error: %w", runErr)
	}
	return nil
}
