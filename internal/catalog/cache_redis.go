// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/internal/platform/constants"
)

// # Redis Listing Cache

// RedisListingCache implements [ListingCache] on a single Redis key holding
// the JSON-encoded full listing.
type RedisListingCache struct {
	client *redis.Client
}

// NewListingCache creates a new Redis-backed [ListingCache].
func NewListingCache(client *redis.Client) *RedisListingCache {
	return &RedisListingCache{client: client}
}

/*
Get retrieves the cached product listing.

Parameters:
  - context: context.Context

Returns:
  - []*Product: Decoded listing
  - error: apperr.NotFound on a miss, or connectivity errors
*/
func (cache *RedisListingCache) Get(context context.Context) ([]*Product, error) {
	payload, err := cache.client.Get(context, constants.RedisKeyCatalog).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Cached catalog")
		}
		return nil, fmt.Errorf("redis_catalog_cache_get_failed: %w", err)
	}

	var products []*Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, fmt.Errorf("redis_catalog_cache_decode_failed: %w", err)
	}

	return products, nil
}

/*
Set stores the product listing with the configured TTL.

Parameters:
  - context: context.Context
  - products: []*Product

Returns:
  - error: Encoding or connectivity errors
*/
func (cache *RedisListingCache) Set(context context.Context, products []*Product) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("redis_catalog_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, constants.RedisKeyCatalog, payload, constants.CatalogCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_catalog_cache_set_failed: %w", err)
	}

	return nil
}

/*
Invalidate drops the cached listing. Deleting a missing key is a no-op.

Parameters:
  - context: context.Context

Returns:
  - error: Connectivity errors
*/
func (cache *RedisListingCache) Invalidate(context context.Context) error {
	if err := cache.client.Del(context, constants.RedisKeyCatalog).Err(); err != nil {
		return fmt.Errorf("redis_catalog_cache_invalidate_failed: %w", err)
	}
	return nil
}
