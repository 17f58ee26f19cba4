// Package main provides the entry point for the bet advisor.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/database"
	"github.com/yourusername/bet-advisor/internal/feed"
	"github.com/yourusername/bet-advisor/internal/health"
	"github.com/yourusername/bet-advisor/internal/logger"
	"github.com/yourusername/bet-advisor/internal/metrics"
	"github.com/yourusername/bet-advisor/internal/predictor"
	"github.com/yourusername/bet-advisor/internal/repository"
	"github.com/yourusername/bet-advisor/internal/scheduler"
	"github.com/yourusername/bet-advisor/internal/service"
	"github.com/yourusername/bet-advisor/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	svc        *service.RecommendationService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Value betting recommendation engine",
	Long:  `Scores candidate wagers through an ensemble of prediction models and emits a ranked, stake-sized shortlist of value bets.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single selection cycle and print the recommendations",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer teardown()

		summary, err := svc.RunCycle(cmd.Context())
		if err != nil {
			return err
		}
		printReport(summary)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run selection cycles on a schedule with health and metrics endpoints",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer teardown()
		return serve(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bet-advisor %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Bet advisor starting")

	if err := tracing.Initialize(tracing.Config{
		ServiceName: cfg.App.Name,
		Enabled:     cfg.Tracing.Enabled,
		DaemonAddr:  cfg.Tracing.DaemonAddr,
	}, appLog); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if cfg.Database.Enabled {
		db, err = database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		appLog.Info("Database connection established")
	}

	registry, err := buildRegistry()
	if err != nil {
		return err
	}

	if !cfg.OddsFeed.Enabled {
		return fmt.Errorf("odds feed must be enabled; the advisor has no candidate source without it")
	}
	source := feed.NewOddsFeedClient(cfg.OddsFeed, appLog)

	var repo repository.RecommendationRepository
	if db != nil {
		repo = repository.NewPostgresRecommendationRepository(db)
	}

	svc, err = service.NewRecommendationService(cfg, source, registry, repo, nil, appLog)
	if err != nil {
		return fmt.Errorf("failed to build recommendation service: %w", err)
	}
	return nil
}

// buildRegistry registers a predictor for every enabled ensemble model.
// market_consensus is always served locally; every other model requires
// the remote model service.
func buildRegistry() (*predictor.Registry, error) {
	var cache *predictor.PredictionCache
	if cfg.ModelService.CacheTTLSeconds > 0 {
		maxSize := cfg.ModelService.CacheMaxSize
		if maxSize == 0 {
			maxSize = 10000
		}
		cache = predictor.NewPredictionCache(time.Duration(cfg.ModelService.CacheTTLSeconds)*time.Second, maxSize)
	}

	var predictors []predictor.Predictor
	for _, m := range cfg.Ensemble.Models {
		if !m.Enabled {
			continue
		}
		if m.Name == "market_consensus" {
			predictors = append(predictors, predictor.NewMarketConsensusPredictor(cfg.Staking.VigRate))
			continue
		}
		if !cfg.ModelService.Enabled {
			return nil, fmt.Errorf("model %q requires the model service, which is disabled", m.Name)
		}
		var p predictor.Predictor = predictor.NewRemoteModelPredictor(m.Name, cfg.ModelService, appLog)
		if cache != nil {
			p = predictor.NewCachedPredictor(p, cache)
		}
		predictors = append(predictors, p)
	}

	return predictor.NewRegistry(cfg.Ensemble, appLog, predictors...)
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.App.HealthPort,
		Logger:      appLog,
		DB:          db,
		Cycles:      svc,
	})
	if err := healthServer.Start(ctx); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx)
	}

	sched := scheduler.NewScheduler(cycleRunner{}, appLog)
	schedCfg := cfg.Scheduler
	if !schedCfg.Enabled {
		return fmt.Errorf("serve requires scheduler.enabled: true")
	}
	if schedCfg.CycleIntervalSeconds == 0 && schedCfg.CronExpression == "" {
		schedCfg.CycleIntervalSeconds = 300
	}
	if err := sched.Configure(schedCfg); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	healthServer.SetReady(true)

	appLog.WithField("next_run", sched.NextRun()).Info("Advisor serving")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
	healthServer.SetReady(false)
	sched.Stop()
	return nil
}

// cycleRunner adapts the service to the scheduler's interface.
type cycleRunner struct{}

func (cycleRunner) RunCycle(ctx context.Context) error {
	_, err := svc.RunCycle(ctx)
	return err
}

func startMetricsServer(ctx context.Context) {
	path := cfg.Metrics.Path
	if path == "" {
		path = "/metrics"
	}
	port := cfg.Metrics.Port
	if port == 0 {
		port = 9090
	}

	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		appLog.WithFields(logrus.Fields{"port": port, "path": path}).Info("Metrics server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("Metrics server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
}

func printReport(summary *service.CycleSummary) {
	fmt.Printf("Cycle %s: pool=%d windowed=%d rejected=%d recommended=%d (%.0fms)\n",
		summary.CycleID, summary.PoolSize, summary.Windowed, summary.Rejected,
		len(summary.Recommendations), float64(summary.Duration.Milliseconds()))

	if len(summary.Recommendations) == 0 {
		fmt.Println("No qualifying bets this cycle.")
		return
	}

	for _, rec := range summary.Recommendations {
		fmt.Printf("\n#%d %s: %s @ %.2f (%s)\n", rec.Rank, rec.EventName, rec.Selection, rec.Odds, rec.Bookmaker)
		fmt.Printf("   confidence %.1f%%  ev %.1f%%  risk %.2f  units %.1f  stake %s (%.2f%%)\n",
			rec.Confidence, rec.EVWithVig*100, rec.RiskScore, rec.UnitSize,
			rec.Stake.StringFixed(2), rec.StakePercentage*100)
		fmt.Printf("   %s\n", rec.Rationale.Summary)
		for _, reason := range rec.Rationale.KeyReasons {
			fmt.Printf("   - %s\n", reason)
		}
	}
}

func teardown() {
	if db != nil {
		db.Close()
	}
}
