package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qinzej/dugout/internal/badge"
	"github.com/qinzej/dugout/internal/club"
	"github.com/qinzej/dugout/internal/config"
	"github.com/qinzej/dugout/internal/storage"
	"github.com/qinzej/dugout/internal/training"
)

var BUILD_VERSION = "dev"

var (
	configFile  = flag.String("config", "", "path to a config file")
	dbPath      = flag.String("db", "", "override the database path")
	seedFile    = flag.String("seed", "", "seed the achievement catalog from a YAML file")
	evaluate    = flag.Bool("evaluate", false, "run achievement evaluation")
	playerID    = flag.Uint("player", 0, "limit evaluation to one player ID")
	recentDays  = flag.Int("recent", 0, "print awards from the last N days")
	leaderboard = flag.Bool("leaderboard", false, "print the achievement points leaderboard")
	versionFlag = flag.Bool("ver", false, "display build version")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Storage.DBPath = *dbPath
	}

	logger, err := initializeLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	db, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer func() {
		_ = storage.Close(db)
	}()

	if err := run(cfg, db, logger); err != nil {
		logger.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, db *gorm.DB, logger *zap.Logger) error {
	ctx := context.Background()

	roster, err := club.NewRosterManager(db)
	if err != nil {
		return fmt.Errorf("roster: %w", err)
	}
	trainer, err := training.NewTrainingManager(db, logger)
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}
	ledger, err := badge.NewLedger(db, logger)
	if err != nil {
		return fmt.Errorf("ledger: %w", err)
	}

	if *seedFile != "" {
		if err := badge.SeedCatalog(ctx, db, *seedFile, logger); err != nil {
			return err
		}
		fmt.Println("achievement catalog seeded")
	}

	if *evaluate {
		catalog, err := badge.LoadCatalog(ctx, db)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		engine := badge.NewEngine(catalog, trainer, roster, ledger, logger, cfg.Evaluation.Workers)

		if *playerID != 0 {
			result, err := engine.EvaluatePlayer(ctx, *playerID)
			if err != nil {
				return err
			}
			fmt.Printf("player %d: %d awarded, %d progressed, %d skipped, %d errored\n",
				result.PlayerID, len(result.Awarded), len(result.Progressed),
				len(result.Skipped), len(result.Errored))
		} else {
			summary, err := engine.EvaluateAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("run %s: %d players (%d failed), %d awarded, %d progressed, %d skipped, %d errored in %s\n",
				summary.RunID, summary.Players, summary.FailedPlayers,
				summary.Awarded, summary.Progressed, summary.Skipped, summary.Errored,
				summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
		}
	}

	if *recentDays > 0 || (!*evaluate && *seedFile == "" && !*leaderboard && *recentDays == 0) {
		days := *recentDays
		if days <= 0 {
			days = cfg.Evaluation.RecentDays
		}
		records, err := ledger.RecentAwards(ctx, days)
		if err != nil {
			return fmt.Errorf("recent awards: %w", err)
		}
		fmt.Printf("awards in the last %d days: %d\n", days, len(records))
		for _, record := range records {
			grantedBy := "auto"
			if record.AwardedBy.Valid {
				grantedBy = record.AwardedBy.String
			}
			fmt.Printf("  player %d earned %q (%d pts, %s, %s)\n",
				record.PlayerID, record.Achievement.Name, record.Achievement.Points,
				grantedBy, humanize.Time(record.AwardedDate.Time))
		}
	}

	if *leaderboard {
		entries, err := ledger.Leaderboard(ctx, 50)
		if err != nil {
			return fmt.Errorf("leaderboard: %w", err)
		}
		fmt.Println("achievement points leaderboard:")
		for rank, entry := range entries {
			player, err := roster.GetPlayer(ctx, entry.PlayerID)
			name := fmt.Sprintf("player %d", entry.PlayerID)
			if err == nil {
				name = player.Name
			}
			fmt.Printf("  %2d. %s  %d pts\n", rank+1, name, entry.TotalPoints)
		}
	}

	return nil
}

func initializeLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if BUILD_VERSION == "dev" {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = level
	loggerConfig.OutputPaths = []string{cfg.Log.Path}
	return loggerConfig.Build()
}
