package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jimlawless/whereami"
	"github.com/plastyfilm/go-backend/internal/cfg"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/repository/redis/converter"
	"github.com/plastyfilm/go-backend/pkg/clients"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
	r "github.com/redis/go-redis/v9"
)

// Кэш версионируется счётчиками поколений. Инвалидация делает INCR, поэтому запись,
// прочитанная до инвалидации, ложится под старое поколение и больше не читается.
const (
	productsVersionKey = "products:version"
	offersVersionKey   = "offers:enabled:version"
)

type CacheRepo struct {
	client   *clients.RedisClient
	products converter.ProductConverter
	offers   converter.OfferConverter
	cfg      *cfg.RedisCfg
	logger   logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, products converter.ProductConverter, offers converter.OfferConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client:   client,
		products: products,
		offers:   offers,
		cfg:      cfg,
		logger:   logger,
	}
}

// GetProducts возвращает закэшированные товары по ID, игнорируя промахи и логируя их.
// Вместе с товарами отдаётся текущее поколение кэша, его нужно передать в SetProducts.
func (c *CacheRepo) GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, int64, error) {
	version, err := c.version(ctx, productsVersionKey)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(ids) == 0 {
		return map[string]domain.Product{}, version, nil
	}

	keys := buildProductCacheKeys(version, ids)

	values, err := c.client.Client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warnf("Redis MGET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make(map[string]domain.Product, len(values))
	for i, val := range values {
		data, err := redisValueToBytes(val, keys[i])
		if err != nil {
			c.logger.Warnf("%v", e.Wrap(whereami.WhereAmI(), err))
		}

		if data == nil {
			continue // cache miss
		}

		var model converter.ProductRedisModel
		if err := json.Unmarshal(data, &model); err != nil {
			c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		if model.ID != ids[i] {
			c.logger.Warnf("Cache ID mismatch: key_id: %s, model_id: %s", ids[i], model.ID)
			if err := c.client.Client.Del(context.Background(), keys[i]).Err(); err != nil {
				c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
			}
			continue // cache miss
		}

		product, err := c.products.ToEntity(&model)
		if err != nil {
			c.logger.Warnf("Cached product %s is corrupted: %v", model.ID, err)
			continue
		}
		result[ids[i]] = *product
	}

	return result, version, nil
}

// SetProducts кэширует несколько товаров одним pipeline с TTL из конфигурации
// под поколением version, полученным из GetProducts. Ошибки сериализации и записи только логируются.
func (c *CacheRepo) SetProducts(ctx context.Context, version int64, products []domain.Product) error {
	models := c.products.ToArrRedisModel(products)

	pipeline := c.client.Client.Pipeline()
	for _, model := range models {
		data, err := json.Marshal(model)
		if err != nil {
			c.logger.Warnf("Failed to marshal product for caching (Product ID: %s): %v", model.ID, e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		pipeline.Set(ctx, productKey(version, model.ID), data, c.cfg.ProductTTL)
	}

	if _, err := pipeline.Exec(ctx); err != nil {
		c.logger.Warnf("Cache pipeline failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// DeleteProducts переводит кэш товаров на новое поколение и удаляет записи ids из старого.
func (c *CacheRepo) DeleteProducts(ctx context.Context, ids []string) error {
	version, err := c.client.Client.Incr(ctx, productsVersionKey).Result()
	if err != nil {
		c.logger.Warnf("Redis INCR failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if len(ids) == 0 {
		return nil
	}

	// Остальные записи старого поколения истекут по TTL.
	if err := c.client.Client.Del(ctx, buildProductCacheKeys(version-1, ids)...).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// GetEnabledOffers читает список включённых оферт текущего поколения; ok=false при промахе.
// Поколение возвращается и при промахе, чтобы SetEnabledOffers не перетёр более свежую инвалидацию.
func (c *CacheRepo) GetEnabledOffers(ctx context.Context) ([]domain.Offer, int64, bool, error) {
	version, err := c.version(ctx, offersVersionKey)
	if err != nil {
		return nil, 0, false, e.Wrap(whereami.WhereAmI(), err)
	}

	key := enabledOffersKey(version)
	data, err := c.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, version, false, nil
		}
		return nil, 0, false, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.OfferRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		c.logger.Warnf("Redis unmarshal failed for %s: %v", key, err)
		return nil, version, false, nil
	}

	offers, err := c.offers.ToArrEntity(models)
	if err != nil {
		c.logger.Warnf("Cached offers are corrupted: %v", err)
		return nil, version, false, nil
	}

	return offers, version, true, nil
}

func (c *CacheRepo) SetEnabledOffers(ctx context.Context, version int64, offers []domain.Offer) error {
	data, err := json.Marshal(c.offers.ToArrRedisModel(offers))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, enabledOffersKey(version), data, c.cfg.OffersTTL).Err(); err != nil {
		c.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteEnabledOffers переводит кэш оферт на новое поколение, старая запись истечёт по TTL.
func (c *CacheRepo) DeleteEnabledOffers(ctx context.Context) error {
	version, err := c.client.Client.Incr(ctx, offersVersionKey).Result()
	if err != nil {
		c.logger.Warnf("Redis INCR failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Del(ctx, enabledOffersKey(version-1)).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// version читает счётчик поколения; отсутствующий ключ означает нулевое поколение.
func (c *CacheRepo) version(ctx context.Context, key string) (int64, error) {
	v, err := c.client.Client.Get(ctx, key).Int64()
	if errors.Is(err, r.Nil) {
		return 0, nil
	}
	if err != nil {
		c.logger.Warnf("Redis GET %s failed: %v", key, e.Wrap(whereami.WhereAmI(), err))
		return 0, err
	}

	return v, nil
}

func buildProductCacheKeys(version int64, ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(version, id)
	}

	return keys
}

func productKey(version int64, id string) string {
	return fmt.Sprintf("product:%d:%s", version, id)
}

func enabledOffersKey(version int64) string {
	return fmt.Sprintf("offers:enabled:%d", version)
}

// redisValueToBytes конвертирует значение из Redis в []byte.
// Поддерживает string и []byte, возвращает ошибку для неизвестных типов.
func redisValueToBytes(val any, key string) ([]byte, error) {
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
