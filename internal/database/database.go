package database

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"etalase/internal/metrics"
	"etalase/internal/models"
	"etalase/pkg/logx"

	"github.com/philippgille/gokv"
	"github.com/rs/zerolog"
)

// Options names the two storage keys and the clock used to normalise timers.
type Options struct {
	CatalogKey string
	OffsetKey  string
	Now        func() time.Time
}

// KVDatabase persists the catalog and the clock offset in a key-value store.
// Every method is best effort: failures are logged and never reach the caller.
type KVDatabase struct {
	store      gokv.Store
	catalogKey string
	offsetKey  string
	now        func() time.Time
	log        zerolog.Logger
}

// NewDatabase wraps store. Empty keys fall back to the defaults.
func NewDatabase(store gokv.Store, opts Options) *KVDatabase {
	if opts.CatalogKey == "" {
		opts.CatalogKey = "etalase_products"
	}
	if opts.OffsetKey == "" {
		opts.OffsetKey = "etalase_offset"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &KVDatabase{
		store:      store,
		catalogKey: opts.CatalogKey,
		offsetKey:  opts.OffsetKey,
		now:        opts.Now,
		log:        logx.Component("database"),
	}
}

// Load returns the stored catalog, or a fresh seed catalog when nothing usable
// is stored. A corrupt value is deleted before the seed is returned.
func (db *KVDatabase) Load() []models.Product {
	var raw []byte
	found, err := db.store.Get(db.catalogKey, &raw)
	if err != nil {
		metrics.StorageFailures.WithLabelValues("load").Inc()
		db.log.Error().Err(err).Str("key", db.catalogKey).Msg("catalog read failed, using default products")
		db.discard(db.catalogKey)
		return models.DefaultProducts()
	}
	if !found || len(strings.TrimSpace(string(raw))) == 0 {
		db.log.Info().Str("key", db.catalogKey).Msg("no stored catalog, using default products")
		return models.DefaultProducts()
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		db.log.Error().Err(err).Str("key", db.catalogKey).Msg("stored catalog is corrupt, using default products")
		db.discard(db.catalogKey)
		return models.DefaultProducts()
	}

	now := db.now()
	products := make([]models.Product, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, entry := range entries {
		p, err := models.ValidateStored(i, entry, now)
		if err != nil {
			db.log.Warn().Err(err).Msg("skipping invalid stored product")
			continue
		}
		if seen[p.ID] {
			db.log.Warn().Str("product_id", p.ID).Msg("skipping duplicate stored product")
			continue
		}
		seen[p.ID] = true
		products = append(products, p)
	}

	if len(products) == 0 {
		db.log.Warn().Str("key", db.catalogKey).Msg("no valid stored products, using default products")
		db.discard(db.catalogKey)
		return models.DefaultProducts()
	}

	db.log.Info().Int("count", len(products)).Msg("catalog loaded")
	return products
}

// Save overwrites the stored catalog with products.
func (db *KVDatabase) Save(products []models.Product) {
	if products == nil {
		products = []models.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		metrics.StorageFailures.WithLabelValues("save").Inc()
		db.log.Error().Err(err).Msg("catalog encode failed")
		return
	}
	if err := db.store.Set(db.catalogKey, data); err != nil {
		metrics.StorageFailures.WithLabelValues("save").Inc()
		db.log.Error().Err(err).Str("key", db.catalogKey).Msg("catalog write failed")
		return
	}
	db.log.Debug().Int("count", len(products)).Msg("catalog saved")
}

// LoadOffset returns the stored clock offset in minutes, 0 when absent or unreadable.
func (db *KVDatabase) LoadOffset() int {
	var raw string
	found, err := db.store.Get(db.offsetKey, &raw)
	if err != nil {
		metrics.StorageFailures.WithLabelValues("load_offset").Inc()
		db.log.Error().Err(err).Str("key", db.offsetKey).Msg("offset read failed")
		return 0
	}
	if !found {
		return 0
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		db.log.Warn().Str("value", raw).Msg("stored offset is not an integer, using 0")
		return 0
	}
	return minutes
}

// SaveOffset stores minutes as a decimal string.
func (db *KVDatabase) SaveOffset(minutes int) {
	if err := db.store.Set(db.offsetKey, strconv.Itoa(minutes)); err != nil {
		metrics.StorageFailures.WithLabelValues("save_offset").Inc()
		db.log.Error().Err(err).Str("key", db.offsetKey).Msg("offset write failed")
	}
}

func (db *KVDatabase) Close() error {
	return db.store.Close()
}

func (db *KVDatabase) discard(key string) {
	if err := db.store.Delete(key); err != nil {
		metrics.StorageFailures.WithLabelValues("delete").Inc()
		db.log.Error().Err(err).Str("key", key).Msg("failed to clear corrupt value")
	}
}
