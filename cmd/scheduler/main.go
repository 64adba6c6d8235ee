package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/rent-billing/internal/app"
	"github.com/segyhp/rent-billing/internal/config"
	"github.com/segyhp/rent-billing/internal/logger"
	"github.com/segyhp/rent-billing/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const snapshotTTL = 48 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	a, err := app.New(context.Background(), cfg, zlog)
	if err != nil {
		zlog.Fatal("startup failed", zap.String("op", "main"), zap.Error(err))
	}
	defer a.Close()

	c := cron.New(cron.WithLocation(cfg.GetSchedulerLocation()))
	if _, err := c.AddFunc(cfg.Scheduler.Cron, func() { overdueSnapshot(a) }); err != nil {
		zlog.Fatal("scheduling overdue snapshot job",
			zap.String("cron", cfg.Scheduler.Cron),
			zap.Error(err))
	}

	c.Start()
	zlog.Info("scheduler started",
		zap.String("cron", cfg.Scheduler.Cron),
		zap.String("timezone", cfg.Scheduler.Timezone))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down scheduler")
	<-c.Stop().Done()
	zlog.Info("scheduler stopped")
}

// overdueSnapshot rebuilds every active tenant's ledger as of today and
// stores the overdue ones in redis for the day.
func overdueSnapshot(a *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	now := time.Now().In(a.Config.GetSchedulerLocation())
	asOf := utils.StartOfDay(now)
	l := a.Logger.With(zap.String("op", "scheduler.overdueSnapshot"), zap.Time("as_of", asOf))

	overdue, err := a.Billing.OverdueReport(ctx, asOf)
	if err != nil {
		l.Error("overdue report failed", zap.Error(err))
		return
	}
	for _, t := range overdue {
		l.Info("tenant overdue",
			zap.String("tenant_id", t.TenantID),
			zap.String("outstanding", t.OutstandingDue.StringFixed(2)),
			zap.String("penalty", t.PenaltyDue.StringFixed(2)))
	}

	if a.Redis == nil {
		l.Info("overdue report complete", zap.Int("tenants", len(overdue)))
		return
	}

	payload, err := json.Marshal(overdue)
	if err != nil {
		l.Error("encoding overdue snapshot", zap.Error(err))
		return
	}
	key := "overdue:" + asOf.Format("2006-01-02")
	if err := a.Redis.Set(ctx, key, payload, snapshotTTL).Err(); err != nil {
		l.Error("storing overdue snapshot", zap.String("key", key), zap.Error(err))
		return
	}
	l.Info("overdue snapshot stored", zap.String("key", key), zap.Int("tenants", len(overdue)))
}
