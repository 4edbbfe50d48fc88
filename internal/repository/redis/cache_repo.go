package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/go-recommender/internal/cfg"
	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/repository/redis/converter"
	"github.com/DRSN-tech/go-recommender/pkg/clients"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const catalogIndexKey = "catalog:index"

// CacheRepo кэширует снимок каталога: индекс с порядком товаров и по ключу на каждый товар.
type CacheRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// GetCatalog возвращает закэшированный каталог в исходном порядке.
// Если индекса нет или хотя бы один товар истёк, возвращает e.ErrCacheMiss.
func (c *CacheRepo) GetCatalog(ctx context.Context) ([]domain.Product, error) {
	raw, err := c.client.Client.Get(ctx, catalogIndexKey).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, e.ErrCacheMiss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ids, err := decodeIndex(raw)
	if err != nil {
		if !errors.Is(err, e.ErrCacheMiss) {
			c.logger.Warnf("Redis catalog index is corrupted: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, e.ErrCacheMiss
	}

	keys := buildProductCacheKeys(ids)
	values, err := c.client.Client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warnf("Redis MGET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products := make([]domain.Product, 0, len(values))
	for i, val := range values {
		data, err := redisValueToBytes(val, keys[i])
		if err != nil {
			c.logger.Warnf("%v", e.Wrap(whereami.WhereAmI(), err))
		}
		if data == nil {
			return nil, e.ErrCacheMiss // снимок неполный
		}

		product, err := decodeProduct(data, ids[i])
		if err != nil {
			c.logger.Warnf("Redis catalog entry dropped: %v", e.Wrap(whereami.WhereAmI(), err))
			return nil, e.ErrCacheMiss
		}
		products = append(products, product)
	}

	return products, nil
}

// SetCatalog атомарно (MULTI/EXEC) записывает снимок каталога с TTL из конфигурации.
// Пустой каталог не кэшируется.
func (c *CacheRepo) SetCatalog(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(products))

	pipeline := c.client.Client.TxPipeline()
	for i := range products {
		data, err := json.Marshal(converter.ToRedisModel(&products[i]))
		if err != nil {
			c.logger.Warnf("Failed to marshal product for caching (Product ID: %d): %v", products[i].ID, e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		pipeline.Set(ctx, productKey(products[i].ID), data, c.cfg.CatalogTTL)
		ids = append(ids, products[i].ID)
	}

	index, err := json.Marshal(converter.CatalogIndexRedisModel{IDs: ids})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	pipeline.Set(ctx, catalogIndexKey, index, c.cfg.CatalogTTL)

	if _, err := pipeline.Exec(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// decodeIndex разбирает индекс каталога. Пустой индекс считается промахом.
func decodeIndex(raw []byte) ([]int64, error) {
	var index converter.CatalogIndexRedisModel
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, err
	}
	if len(index.IDs) == 0 {
		return nil, e.ErrCacheMiss
	}

	return index.IDs, nil
}

// decodeProduct разбирает товар из кэша и проверяет, что он лежит под своим ключом.
func decodeProduct(data []byte, wantID int64) (domain.Product, error) {
	var model converter.ProductRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return domain.Product{}, err
	}
	if model.ID != wantID {
		return domain.Product{}, fmt.Errorf("cache ID mismatch: key_id: %d, model_id: %d", wantID, model.ID)
	}

	return converter.ToEntity(&model)
}

// buildProductCacheKeys формирует Redis-ключи из ID товаров
func buildProductCacheKeys(ids []int64) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	return keys
}

func productKey(id int64) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

// redisValueToBytes конвертирует значение из Redis в []byte.
// Поддерживает string и []byte, возвращает ошибку для неизвестных типов.
func redisValueToBytes(val interface{}, key string) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case nil:
		return nil, nil // cache miss
	default:
		return nil, fmt.Errorf("unexpected Redis value type for key %s: %T", key, val)
	}
}
