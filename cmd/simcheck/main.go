package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/simcheck/simcheck/internal/ai"
	"github.com/simcheck/simcheck/internal/config"
	"github.com/simcheck/simcheck/internal/handler"
	"github.com/simcheck/simcheck/internal/job"
	"github.com/simcheck/simcheck/internal/middleware"
	"github.com/simcheck/simcheck/internal/report"
	"github.com/simcheck/simcheck/internal/reportstore"
	"github.com/simcheck/simcheck/internal/repo"
	"github.com/simcheck/simcheck/internal/schedule"
	"github.com/simcheck/simcheck/internal/service"
	"github.com/simcheck/simcheck/internal/similarity"
	"github.com/simcheck/simcheck/internal/websearch"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "simcheck",
		Short: "simcheck document similarity server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simcheck server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			db, err := repo.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repo.ApplyMigrations(db); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, db)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *sqlx.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_path", cfg.DBPath),
		zap.String("report_store", cfg.Reports.Store.Type),
		zap.String("strategy", cfg.Similarity.Strategy),
	)

	assignmentRepo := repo.NewAssignmentRepo(db)

	store, err := reportstore.New(cfg.Reports.Store)
	if err != nil {
		return fmt.Errorf("init report store: %w", err)
	}

	scorer := similarity.NewScorer(cfg.Similarity.UseStemming)
	matcher := similarity.NewMatcher(similarity.Options{
		Threshold:        cfg.Similarity.Threshold,
		MinSentenceWords: cfg.Similarity.MinSentenceWords,
		MinPhraseRun:     cfg.Similarity.MinPhraseRun,
		Strategy:         similarity.Strategy(cfg.Similarity.Strategy),
	})
	builder := report.NewBuilder()

	searchClient := websearch.NewClient(
		cfg.Search.Endpoint,
		cfg.Search.APIKey,
		cfg.Search.MaxResults,
		time.Duration(cfg.Search.TimeoutSeconds)*time.Second,
	)
	fetcher := websearch.NewFetcher(time.Duration(cfg.Search.TimeoutSeconds) * time.Second)

	provider, err := ai.NewProvider(cfg.Oracle.Provider, cfg.Oracle.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	oracle := ai.NewOracle(provider, cfg.Oracle.Model)

	assignmentService := service.NewAssignmentService(assignmentRepo, cfg.Upload.Dir, cfg.Upload.MaxSizeMB)
	comparisonService := service.NewComparisonService(assignmentRepo, scorer, matcher, builder, store)
	reportService := service.NewReportService(store)
	webAnalysisService := service.NewWebAnalysisService(
		assignmentRepo,
		scorer,
		matcher,
		builder,
		store,
		searchClient,
		fetcher,
		oracle,
		cfg.Oracle.MaxInputChars,
		time.Duration(cfg.Oracle.TimeoutSeconds)*time.Second,
		cfg.Search.MaxResults,
	)

	deps := handler.RouterDeps{
		Assignments: handler.NewAssignmentHandler(assignmentService),
		Comparisons: handler.NewComparisonHandler(comparisonService),
		WebAnalysis: handler.NewWebAnalysisHandler(webAnalysisService),
		Reports:     handler.NewReportHandler(reportService),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if cfg.Reports.RetentionDays > 0 {
		cleanup := job.NewReportCleanupJob(reportService, cfg.Reports.RetentionDays)
		if err := scheduler.AddJob(cleanup, cfg.Reports.CleanupSpec); err != nil {
			return fmt.Errorf("schedule report cleanup: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
