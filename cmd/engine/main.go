package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusops/viability-engine/internal/analysis"
	"github.com/campusops/viability-engine/internal/app"
	"github.com/campusops/viability-engine/internal/config"
	"github.com/campusops/viability-engine/internal/db"
	"github.com/campusops/viability-engine/internal/jobs"
	"github.com/campusops/viability-engine/internal/logging"
	"github.com/campusops/viability-engine/internal/notify"
	"github.com/campusops/viability-engine/internal/observability"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()
	sugar := lg.Sugar

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "viability-engine")
	if err != nil {
		sugar.Warnw("sentry init failed", "err", err)
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("db connect failed", "err", err)
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		sugar.Fatalw("migrations failed", "err", err)
	}

	notifier, err := notify.NewTelegram(cfg.BotToken, cfg.AlertChatIDs, sugar)
	if err != nil {
		sugar.Warnw("telegram notifier disabled", "err", err)
	}

	now := func() time.Time { return time.Now().In(cfg.Location) }
	var riskSink analysis.RiskNotifier
	if notifier != nil {
		riskSink = notifier
	}
	analyzer := analysis.NewAnalyzer(database, sugar, now, cfg.Thresholds, riskSink)

	runner := jobs.New(ctx)
	runner.Every(cfg.AnalyzeInterval, "analyze_all", func(ctx context.Context) error {
		res, err := analyzer.AnalyzeAll(ctx, "scheduled")
		if err != nil {
			return err
		}
		sugar.Infow("scheduled portfolio pass",
			"analyzed", res.Analyzed, "no_data", res.NoData, "errors", len(res.Errors))
		return nil
	})

	app.StartHTTP(ctx, cfg.HTTPAddr, database, analyzer, cfg.Thresholds, sugar)
	sugar.Infow("viability engine up", "addr", cfg.HTTPAddr, "env", cfg.Env)

	<-ctx.Done()
	sugar.Info("shutting down")
}
