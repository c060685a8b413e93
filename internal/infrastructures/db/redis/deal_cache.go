package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	derr "github.com/ozzus/holiday-deals/internal/domain/errors"
	"github.com/ozzus/holiday-deals/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

type DealCache struct {
	redis *redis.Client
}

func NewDealCache(redis *redis.Client) *DealCache {
	return &DealCache{redis: redis}
}

func dealKey(id int64) string {
	return "deal:" + strconv.FormatInt(id, 10)
}

func (c *DealCache) GetByID(ctx context.Context, id int64) (models.Deal, error) {
	data, err := c.redis.Get(ctx, dealKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Deal{}, derr.ErrDealNotFound
		}
		return models.Deal{}, fmt.Errorf("redis get deal by id: %w", err)
	}

	var deal models.Deal
	if err := json.Unmarshal(data, &deal); err != nil {
		return models.Deal{}, fmt.Errorf("unmarshal cached deal: %w", err)
	}

	return deal, nil
}

func (c *DealCache) Set(ctx context.Context, deal models.Deal, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := encodeDeal(deal)
	if err != nil {
		return err
	}

	if err := c.redis.Set(ctx, dealKey(deal.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set deal: %w", err)
	}

	return nil
}

func (c *DealCache) Delete(ctx context.Context, id int64) error {
	if err := c.redis.Del(ctx, dealKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete deal: %w", err)
	}
	return nil
}

func encodeDeal(deal models.Deal) ([]byte, error) {
	normalized := deal
	normalized.CreatedAt = normalized.CreatedAt.UTC()
	normalized.UpdatedAt = normalized.UpdatedAt.UTC()

	data, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("marshal deal for cache: %w", err)
	}
	return data, nil
}
