package storage

import (
	"context"
	"time"

	evbus "github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shopkite/catalog/internal/domain"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Event topics published after successful store mutations.
const (
	TopicRecordSaved   = "record.saved"
	TopicRecordDeleted = "record.deleted"
)

// WriteThrough keeps the primary table store and the cache in sync. The
// primary write always happens before the cache write; a record is mirrored
// to the cache as its canonical JSON form under the caller's cache key.
//
// Cache entries carry a TTL so a missed invalidation heals on its own. When
// the cache write fails after a successful primary write, the set is retried
// once and then the entry is deleted (best effort) so a stale value does not
// outlive the failure; the operation still reports ErrCacheWrite.
type WriteThrough struct {
	tables TableStore
	cache  Cache
	ttl    time.Duration
	bus    evbus.Bus
}

func NewWriteThrough(tables TableStore, cache Cache, ttl time.Duration, bus evbus.Bus) *WriteThrough {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &WriteThrough{tables: tables, cache: cache, ttl: ttl, bus: bus}
}

// SaveRecord writes the full record to the primary table (full replace) and
// then mirrors it to the cache. If the primary write fails the cache is
// never touched.
func (w *WriteThrough) SaveRecord(ctx context.Context, table, cacheKey string, record interface{}) error {
	data, err := jsonAPI.Marshal(record)
	if err != nil {
		return errors.Wrapf(err, "marshal record for %s", cacheKey)
	}

	if err := w.tables.Put(ctx, table, record); err != nil {
		return errors.Wrapf(domain.ErrPrimaryWrite, "table %s key %s: %v", table, cacheKey, err)
	}

	if err := w.setCache(ctx, cacheKey, data); err != nil {
		return err
	}

	w.publish(TopicRecordSaved, table, cacheKey)
	return nil
}

// DeleteRecord removes a record from the primary table and then from the
// cache. Deleting a key absent from either store is not an error.
func (w *WriteThrough) DeleteRecord(ctx context.Context, table, cacheKey, id string) error {
	if err := w.tables.Delete(ctx, table, id); err != nil {
		return errors.Wrapf(domain.ErrPrimaryWrite, "delete %s/%s: %v", table, id, err)
	}

	if err := w.cache.Del(ctx, cacheKey); err != nil {
		if err2 := w.cache.Del(ctx, cacheKey); err2 != nil {
			return errors.Wrapf(domain.ErrCacheWrite, "del %s: %v", cacheKey, err2)
		}
	}

	w.publish(TopicRecordDeleted, table, cacheKey)
	return nil
}

// GetRecord loads one record, preferring the cache and falling back to the
// primary store. A primary hit after a cache miss re-mirrors the entry.
func (w *WriteThrough) GetRecord(ctx context.Context, table, cacheKey, id string, out interface{}) error {
	if data, err := w.cache.Get(ctx, cacheKey); err == nil {
		if err := jsonAPI.Unmarshal(data, out); err == nil {
			return nil
		}
		zap.L().Warn("cache entry undecodable, falling back to primary", zap.String("key", cacheKey))
	}

	if err := w.tables.Get(ctx, table, id, out); err != nil {
		return err
	}

	if data, err := jsonAPI.Marshal(out); err == nil {
		if err := w.cache.Set(ctx, cacheKey, data, w.ttl); err != nil {
			zap.L().Warn("cache refill failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return nil
}

// ListRecords scans the whole primary table into out.
func (w *WriteThrough) ListRecords(ctx context.Context, table string, out interface{}) error {
	return w.tables.Scan(ctx, table, out)
}

func (w *WriteThrough) setCache(ctx context.Context, cacheKey string, data []byte) error {
	err := w.cache.Set(ctx, cacheKey, data, w.ttl)
	if err == nil {
		return nil
	}

	// one retry, then invalidate rather than leave a stale mirror behind
	if err = w.cache.Set(ctx, cacheKey, data, w.ttl); err == nil {
		return nil
	}
	if delErr := w.cache.Del(ctx, cacheKey); delErr != nil {
		zap.L().Error("cache invalidation failed, entry may be stale until TTL",
			zap.String("key", cacheKey), zap.Error(delErr))
	}
	return errors.Wrapf(domain.ErrCacheWrite, "set %s: %v", cacheKey, err)
}

func (w *WriteThrough) publish(topic, table, cacheKey string) {
	if w.bus != nil {
		w.bus.Publish(topic, table, cacheKey)
	}
}
