package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paw-chain/pinservice/api"
	"github.com/paw-chain/pinservice/api/health"
	"github.com/paw-chain/pinservice/app"
	"github.com/paw-chain/pinservice/indexer"
)

// StartCmd runs the block loop and the HTTP API until interrupted
func StartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the pinning service node",
		Long: `Start opens the state database under --home, loads genesis.json on first
run, commits a block every chain.block-time and serves the HTTP API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := homeDir(cmd)
			cfg, err := LoadConfig(home)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runNode(ctx, home, cfg)
		},
	}
}

func newLogger(level string) (log.Logger, error) {
	filter, err := log.ParseLogLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log-level: %w", err)
	}
	return log.NewLogger(os.Stdout, log.FilterOption(filter)), nil
}

func newSink(ctx context.Context, logger log.Logger, cfg IndexerConfig) (indexer.Multi, *indexer.PostgresSink, error) {
	sinks := indexer.Multi{indexer.NewLogSink(logger)}
	if !cfg.Postgres {
		return sinks, nil, nil
	}
	pg, err := indexer.NewPostgresSink(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	return append(sinks, pg), pg, nil
}

// runNode blocks until ctx is cancelled or a component fails.
func runNode(ctx context.Context, home string, cfg Config) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	tel, err := app.InitTelemetry(app.TelemetryConfig{
		Enabled:           cfg.Telemetry.Enabled,
		ChainID:           cfg.Chain.ChainID,
		Version:           api.Version,
		OTLPEndpoint:      cfg.Telemetry.OTLPEndpoint,
		PrometheusEnabled: cfg.Telemetry.MetricsPort > 0,
		SampleRate:        cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "err", err)
		}
	}()

	db, err := dbm.NewDB("state", dbm.BackendType(cfg.Chain.DBBackend), dataDir(home))
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}

	sink, pg, err := newSink(ctx, logger, cfg.Indexer)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to start indexer: %w", err)
	}

	host, err := app.New(logger, db, app.Options{
		ChainID:         cfg.Chain.ChainID,
		Sink:            sink,
		CheckInvariants: cfg.Chain.CheckInvariants,
	})
	if err != nil {
		sink.Close()
		db.Close()
		return err
	}
	defer func() {
		if err := host.Close(); err != nil {
			logger.Error("failed to close host", "err", err)
		}
	}()

	if err := initChainIfNeeded(logger, host, genesisPath(home)); err != nil {
		return err
	}

	var server *api.Server
	if cfg.API.Enabled {
		server, err = newAPIServer(logger, host, cfg.API)
		if err != nil {
			return err
		}
		if pg != nil {
			server.RegisterOptionalHealthCheck("indexer", health.DatabaseCheck(pg.Ping))
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("producing blocks", "chain_id", cfg.Chain.ChainID, "height", host.Height(), "block_time", cfg.Chain.BlockTime)
		return host.Run(ctx, cfg.Chain.BlockTime)
	})

	if cfg.Telemetry.Enabled && cfg.Telemetry.MetricsPort > 0 {
		g.Go(func() error {
			return serveMetrics(ctx, logger, cfg.Telemetry.MetricsPort)
		})
	}

	if server != nil {
		g.Go(func() error {
			return server.Start(ctx)
		})
	}

	err = g.Wait()
	logger.Info("node stopped", "height", host.LastCommitID().Version)
	return err
}

func initChainIfNeeded(logger log.Logger, host *app.App, path string) error {
	if host.LastCommitID().Version != 0 {
		return nil
	}
	genesis, err := app.LoadGenesisDoc(path)
	if err != nil {
		return err
	}
	if err := host.InitChain(genesis); err != nil {
		return fmt.Errorf("failed to initialize chain: %w", err)
	}
	logger.Info("initialized chain from genesis", "chain_id", genesis.ChainID, "accounts", len(genesis.Balances))
	return nil
}

func newAPIServer(logger log.Logger, host *app.App, cfg APIConfig) (*api.Server, error) {
	hostPart, port, err := net.SplitHostPort(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid api.address %q: %w", cfg.Address, err)
	}

	serverCfg := api.DefaultConfig()
	serverCfg.Host = hostPart
	serverCfg.Port = port
	if cfg.JWTSecret != "" {
		serverCfg.JWTSecret = []byte(cfg.JWTSecret)
	}
	serverCfg.RateLimitRPS = cfg.RateLimitRPS
	if len(cfg.CORSOrigins) > 0 {
		serverCfg.CORSOrigins = cfg.CORSOrigins
	}
	if cfg.TokenTTL > 0 {
		serverCfg.TokenTTL = cfg.TokenTTL
	}
	return api.NewServer(logger, host, serverCfg)
}

// serveMetrics exposes the Prometheus registry on /metrics until ctx is done.
func serveMetrics(ctx context.Context, logger log.Logger, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting metrics server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
