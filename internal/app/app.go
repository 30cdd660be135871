package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	evbus "github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/shopkite/catalog/config"
	"github.com/shopkite/catalog/internal/domain"
	"github.com/shopkite/catalog/internal/media"
	"github.com/shopkite/catalog/internal/storage"
)

// Application is the storage context constructed once at process start.
// Handlers and jobs receive its parts through the provider interfaces; no
// component reaches for ambient globals.
type Application struct {
	appConfig *config.AppConfig
	tables    *storage.DynamoStore
	cache     *storage.RedisCache
	objects   *storage.S3Store
	store     *storage.WriteThrough
	generator *media.Generator
	sched     *cron.Cron
	bus       evbus.Bus
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ MediaProvider     = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Store() *storage.WriteThrough {
	return a.store
}

func (a *Application) Media() *media.Generator {
	return a.generator
}

func (a *Application) Tables() *storage.DynamoStore {
	return a.tables
}

func (a *Application) Cache() *storage.RedisCache {
	return a.cache
}

func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Bus() evbus.Bus {
	return a.bus
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	ctx := context.Background()
	a.tables, err = storage.NewDynamoStore(ctx, cfg.Dynamo)
	if err != nil {
		return errors.Wrap(err, "init table store")
	}
	a.cache = storage.NewRedisCache(cfg.Redis)
	a.objects, err = storage.NewS3Store(ctx, cfg.S3)
	if err != nil {
		return errors.Wrap(err, "init object store")
	}

	a.bus = evbus.New()
	a.subscribeAudit()

	a.store = storage.NewWriteThrough(a.tables, a.cache, cfg.Redis.TTL(), a.bus)
	a.generator = media.NewGenerator(a.objects)

	a.initJob()
	return nil
}

// initLogger configures the global zap logger, with file rotation when
// enabled.
func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// InitDb creates any missing resource tables.
func (a *Application) InitDb() error {
	tables := make([]string, 0, len(domain.Resources))
	for _, r := range domain.Resources {
		tables = append(tables, a.appConfig.Dynamo.Table(r.Name))
	}
	return a.tables.EnsureTables(context.Background(), tables)
}

func (a *Application) subscribeAudit() {
	_ = a.bus.Subscribe(storage.TopicRecordSaved, func(table, cacheKey string) {
		zap.L().Info("record saved", zap.String("table", table), zap.String("key", cacheKey))
	})
	_ = a.bus.Subscribe(storage.TopicRecordDeleted, func(table, cacheKey string) {
		zap.L().Info("record deleted", zap.String("table", table), zap.String("key", cacheKey))
	})
}

// Release releases application resources.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	_ = zap.L().Sync()
}
