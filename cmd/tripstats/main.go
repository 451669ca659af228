package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aevon-lab/tripstats/internal/aggregation"
	corecfg "github.com/aevon-lab/tripstats/internal/core/config"
	"github.com/aevon-lab/tripstats/internal/core/storage/postgres"
	"github.com/aevon-lab/tripstats/internal/ingestion"
	"github.com/aevon-lab/tripstats/internal/migrations"
	"github.com/aevon-lab/tripstats/internal/projection"
	"github.com/aevon-lab/tripstats/internal/report"
	"github.com/aevon-lab/tripstats/internal/server"
	"github.com/aevon-lab/tripstats/internal/source"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	input := flag.String("input", "", "Trip CSV file (overrides source.path)")
	serve := flag.Bool("serve", false, "Run the HTTP API instead of printing one report")
	kZones := flag.Int("k-zones", -1, "Number of busiest zones to report (overrides report.top_zones)")
	kSlots := flag.Int("k-slots", -1, "Number of busiest slots to report (overrides report.top_slots)")
	format := flag.String("format", "", "Report format: text, json, yaml or protobuf (overrides report.format)")
	flag.Parse()

	// 0. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	applyFlags(cfg, *input, *kZones, *kSlots, *format)

	// 1. Initialize Logger
	slog.SetDefault(newLogger(cfg.Log))
	slog.Debug("Loaded config", "config", cfg)

	readerKind, err := source.ParseReaderKind(cfg.Source.Reader)
	if err != nil {
		slog.Error("Invalid source reader", "error", err)
		os.Exit(1)
	}
	reportFormat, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		slog.Error("Invalid report format", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Storage (optional)
	var dbAdapter *postgres.Adapter
	if cfg.Database.Enabled {
		dbAdapter, err = openStore(cfg.Database)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer dbAdapter.Close()
	}

	// 3. Initialize Ingestion
	ingestCfg := ingestion.Config{
		SourcePath:    cfg.Source.Path,
		Reader:        readerKind,
		MaxLineBytes:  cfg.Source.MaxLineBytes,
		MaxBodySizeMB: cfg.Server.MaxUploadSizeMB,
	}
	var ingestionSvc *ingestion.Service
	if dbAdapter != nil {
		ingestionSvc = ingestion.NewService(dbAdapter, ingestCfg)
	} else {
		ingestionSvc = ingestion.NewService(nil, ingestCfg)
	}

	if !*serve {
		if err := printReport(ctx, ingestionSvc, cfg.Report, reportFormat); err != nil {
			slog.Error("Failed to produce report", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runServer(ctx, cfg, ingestionSvc, dbAdapter); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Shutdown complete")
}

func applyFlags(cfg *corecfg.Config, input string, kZones, kSlots int, format string) {
	if input != "" {
		cfg.Source.Path = input
	}
	if kZones >= 0 {
		cfg.Report.TopZones = kZones
	}
	if kSlots >= 0 {
		cfg.Report.TopSlots = kSlots
	}
	if format != "" {
		cfg.Report.Format = format
	}
}

func newLogger(cfg corecfg.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	// Logs go to stderr so one-shot reports on stdout stay clean.
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func openStore(cfg corecfg.DatabaseConfig) (*postgres.Adapter, error) {
	db, err := postgres.Open(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns)
	if err != nil {
		return nil, err
	}

	if err := migrations.RunMigrations(db, cfg.AutoMigrate); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	adapter, err := postgres.NewAdapter(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return adapter, nil
}

// printReport ingests the configured source once and writes the report to stdout.
func printReport(ctx context.Context, svc *ingestion.Service, cfg corecfg.ReportConfig, format report.Format) error {
	if _, err := svc.Reload(ctx); err != nil && !errors.Is(err, ingestion.ErrPersist) {
		return err
	}

	zones, run := svc.TopZones(cfg.TopZones)
	slots, _ := svc.TopBusySlots(cfg.TopSlots)

	rep := report.Report{
		Run:   report.RunFrom(run),
		Zones: report.ZoneRows(zones, run.Stats.Accepted),
		Slots: report.SlotRows(slots, run.Stats.Accepted),
	}
	return report.Write(os.Stdout, format, rep)
}

// runServer serves the API and, when enabled, the refresh scheduler until
// ctx is cancelled or one of them fails.
func runServer(ctx context.Context, cfg *corecfg.Config, ingestionSvc *ingestion.Service, dbAdapter *postgres.Adapter) error {
	projectionDefaults := projection.Defaults{
		TopZones: cfg.Report.TopZones,
		TopSlots: cfg.Report.TopSlots,
	}

	var srv *server.Server
	var projectionSvc *projection.Service
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if dbAdapter != nil {
		srv = server.New(addr, dbAdapter.DB(), ingestionSvc, cfg.Server.Mode)
		projectionSvc = projection.NewService(ingestionSvc, dbAdapter, projectionDefaults)
	} else {
		srv = server.New(addr, nil, ingestionSvc, cfg.Server.Mode)
		projectionSvc = projection.NewService(ingestionSvc, nil, projectionDefaults)
	}
	ingestionSvc.RegisterRoutes(srv.Engine)
	projectionSvc.RegisterRoutes(srv.Engine)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Refresh.Enabled {
		interval, err := cfg.Refresh.RefreshInterval()
		if err != nil {
			return fmt.Errorf("invalid refresh interval: %w", err)
		}
		scheduler := aggregation.NewScheduler(interval, ingestionSvc)
		g.Go(func() error { return scheduler.Start(gctx) })
	} else {
		slog.Info("Refresh scheduler disabled by config, ingesting source once")
		if _, err := ingestionSvc.Reload(ctx); err != nil {
			slog.Warn("Initial ingestion incomplete", "error", err)
		}
	}

	g.Go(func() error { return srv.Run(gctx) })

	return g.Wait()
}
