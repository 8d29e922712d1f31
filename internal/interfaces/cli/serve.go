package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appanalysis "github.com/jgraziolaVU/Yeonni1MB/internal/application/analysis"
	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
	"github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/logging"
	appprom "github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/prometheus"
	"github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/storage"
	"github.com/jgraziolaVU/Yeonni1MB/internal/intelligence/interpreter"
	apphttp "github.com/jgraziolaVU/Yeonni1MB/internal/interfaces/http"
)

// metricsNamespace prefixes every exported metric name.
const metricsNamespace = "mossfit"

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return RunServer(cmd.Context(), cfg)
		},
	}
}

// RunServer wires the full service from config and serves until ctx is
// cancelled or SIGINT/SIGTERM arrives. It is shared by "mossctl serve" and
// the apiserver binary.
func RunServer(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}

	collector := appprom.NewCollector(metricsNamespace)
	metrics := appprom.NewAppMetrics(collector)

	store, err := storage.NewReportStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	chain := interpreter.NewChain(cfg.Interpreter, logger, metrics, nil)
	svc := appanalysis.NewService(cfg.Fit, chain, logger, metrics)

	handler := apphttp.NewHandler(svc, store, logger, metrics, cfg.Server.MaxUploadBytes, cfg.Storage.Backend)
	router := apphttp.NewRouter(apphttp.RouterConfig{
		Handler:   handler,
		Mode:      cfg.Server.Mode,
		Collector: collector,
		Metrics:   metrics,
	})

	srv := apphttp.NewServer(cfg.Server, router, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting analysis service",
		logging.Int("port", cfg.Server.Port),
		logging.String("storage", cfg.Storage.Backend),
		logging.String("default_model", cfg.Fit.DefaultModel),
	)
	return srv.Run(ctx, cfg.Server.ShutdownTimeout)
}
