package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"

	"github.com/hammywammy/oslira-workers/internal/common"
	"github.com/hammywammy/oslira-workers/internal/models"
	"github.com/hammywammy/oslira-workers/internal/services/analyzer"
	"github.com/hammywammy/oslira-workers/internal/services/batch"
	"github.com/hammywammy/oslira-workers/internal/services/ledger"
	"github.com/hammywammy/oslira-workers/internal/services/llm"
	"github.com/hammywammy/oslira-workers/internal/services/runs"
	"github.com/hammywammy/oslira-workers/internal/services/scheduler"
	"github.com/hammywammy/oslira-workers/internal/services/scraper"
	badgerstore "github.com/hammywammy/oslira-workers/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	submitFile   = flag.String("submit", "", "Submission file (TOML); run one batch and exit")
	watchMode    = flag.Bool("watch", false, "Run configured schedules until interrupted")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

// submission is the on-disk shape of a one-shot -submit file.
type submission struct {
	AccountID string   `toml:"account_id"`
	Platform  string   `toml:"platform"`
	Depth     string   `toml:"depth"`
	Handles   []string `toml:"handles"`
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Oslira Workers version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	if len(configFiles) == 0 {
		if _, err := os.Stat("oslira-workers.toml"); err == nil {
			configFiles = append(configFiles, "oslira-workers.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("environment", config.Environment).
		Str("llm_provider", config.LLM.Provider).
		Msg("Configuration loaded")

	if err := run(config, logger); err != nil {
		logger.Fatal().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

func run(config *common.Config, logger arbor.ILogger) error {
	ctx := context.Background()

	db, err := badgerstore.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer db.Close()

	provider, err := llm.NewProvider(ctx, config, logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	defer provider.Close()

	fetcher := scraper.NewClientFromConfig(&config.Scraper, logger)
	analysis := analyzer.NewService(fetcher, provider, logger)

	engine, err := batch.NewEngine(engineConfig(config), logger)
	if err != nil {
		return fmt.Errorf("failed to create batch engine: %w", err)
	}

	ledgerService := ledger.NewService(badgerstore.NewLedgerStorage(db, logger), logger)
	runService := runs.NewService(engine, analysis, ledgerService,
		badgerstore.NewRunStorage(db, logger), costTable(config), logger)

	switch {
	case *submitFile != "":
		return runSubmission(ctx, runService, *submitFile, logger)
	case *watchMode:
		return runSchedules(config, db, runService, logger)
	default:
		return fmt.Errorf("nothing to do: pass -submit <file> or -watch")
	}
}

func runSubmission(ctx context.Context, runService *runs.Service, path string, logger arbor.ILogger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read submission file: %w", err)
	}

	var sub submission
	if err := toml.Unmarshal(data, &sub); err != nil {
		return fmt.Errorf("failed to parse submission file: %w", err)
	}

	record, err := runService.Execute(ctx, runs.Request{
		AccountID: sub.AccountID,
		Platform:  sub.Platform,
		Depth:     models.AnalysisDepth(sub.Depth),
		Handles:   sub.Handles,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("run_id", record.ID).
		Int("successful", record.Summary.Successful).
		Int("failed", record.Summary.Failed).
		Int64("credits_charged", record.Ledger.CreditsCharged).
		Msg("Submission complete")
	return nil
}

func runSchedules(config *common.Config, db *badgerstore.BadgerDB, runService *runs.Service, logger arbor.ILogger) error {
	sched := scheduler.NewService(runService, logger)
	for _, entry := range config.Schedules {
		if err := sched.Register(entry); err != nil {
			return err
		}
	}
	if err := sched.Start(); err != nil {
		return err
	}

	gcTicker := time.NewTicker(10 * time.Minute)
	defer gcTicker.Stop()
	go func() {
		for range gcTicker.C {
			db.RunGC()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

	sched.Stop()
	return nil
}

func engineConfig(config *common.Config) batch.Config {
	engine := config.Engine
	return batch.Config{
		MaxAttempts:       engine.MaxAttempts,
		BaseDelay:         common.ParseDuration(engine.BaseDelay, 5*time.Second),
		BackoffMultiplier: engine.BackoffMultiplier,
		GroupCooldown:     common.ParseDuration(engine.GroupCooldown, time.Second),
		GroupSizes: map[models.AnalysisDepth]int{
			models.DepthLight: engine.LightGroupSize,
			models.DepthDeep:  engine.DeepGroupSize,
			models.DepthXRay:  engine.XRayGroupSize,
		},
		DefaultGroupSize: engine.DefaultGroupSize,
	}
}

func costTable(config *common.Config) batch.CostTable {
	costs := config.Costs
	return batch.CostTable{
		models.DepthLight: {Credits: costs.Light.Credits, ActualCost: costs.Light.ActualCost},
		models.DepthDeep:  {Credits: costs.Deep.Credits, ActualCost: costs.Deep.ActualCost},
		models.DepthXRay:  {Credits: costs.XRay.Credits, ActualCost: costs.XRay.ActualCost},
	}
}
