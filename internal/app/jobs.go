package app

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shopkite/catalog/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	if a.appConfig.Schedule.ReconcileEnable {
		_, err := a.sched.AddFunc(a.appConfig.Schedule.ReconcileCron, func() {
			if err := a.ReconcileCache(); err != nil {
				zap.S().Errorf("cache reconcile error: %s", err.Error())
			}
		})
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}
}

// StartBackgroundJobs starts the cron runner.
func (a *Application) StartBackgroundJobs(ctx context.Context) {
	a.sched.Start()
	go func() {
		<-ctx.Done()
		a.sched.Stop()
	}()
}

// ReconcileCache re-mirrors every primary-store record into the cache,
// repairing entries a failed secondary write may have invalidated. The
// primary store is authoritative, so overwriting the cache is always safe
// modulo a concurrent writer's last-write-wins race.
func (a *Application) ReconcileCache() error {
	ctx := context.Background()
	ttl := a.appConfig.Redis.TTL()

	for _, r := range domain.Resources {
		table := a.appConfig.Dynamo.Table(r.Name)

		var items []map[string]interface{}
		if err := a.tables.Scan(ctx, table, &items); err != nil {
			return err
		}

		refreshed := 0
		for _, item := range items {
			id, ok := item["id"].(string)
			if !ok || id == "" {
				continue
			}
			data, err := json.Marshal(item)
			if err != nil {
				continue
			}
			if err := a.cache.Set(ctx, r.CacheKey(id), data, ttl); err != nil {
				zap.L().Warn("reconcile set failed", zap.String("key", r.CacheKey(id)), zap.Error(err))
				continue
			}
			refreshed++
		}
		zap.L().Info("cache reconcile pass",
			zap.String("table", table), zap.Int("records", refreshed))
	}
	return nil
}
