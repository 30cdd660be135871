package app

import (
	evbus "github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"

	"github.com/shopkite/catalog/config"
	"github.com/shopkite/catalog/internal/media"
	"github.com/shopkite/catalog/internal/storage"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the write-through record store and its layers
type StoreProvider interface {
	Store() *storage.WriteThrough
	Tables() *storage.DynamoStore
	Cache() *storage.RedisCache
}

// MediaProvider provides the image variant generator
type MediaProvider interface {
	Media() *media.Generator
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// BusProvider provides the in-process event bus
type BusProvider interface {
	Bus() evbus.Bus
}

// AppContext combines all provider interfaces for full application context.
// Components should depend on specific providers or this combined interface.
type AppContext interface {
	ConfigProvider
	StoreProvider
	MediaProvider
	SchedulerProvider
	BusProvider

	// InitDb creates any missing resource tables
	InitDb() error
	// ReconcileCache re-mirrors primary-store content into the cache
	ReconcileCache() error
}
