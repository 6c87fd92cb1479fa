package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cert-lv/ordergrid/pdk"
	"github.com/redis/go-redis/v9"
)

/*
 * Search executor keeping the found documents in Redis
 * for a faster response when identical search happens
 */
type cachedExecutor struct {
	next   pdk.SearchExecutor
	client *redis.Client
	ttl    time.Duration
}

/*
 * Connect to Redis and wrap the executor.
 * Returns the executor untouched when caching is disabled
 */
func setupCache(next pdk.SearchExecutor) (pdk.SearchExecutor, error) {
	if config.Cache.TTL == 0 {
		return next, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Cache.Addr,
		Username: config.Cache.Username,
		Password: config.Cache.Password,
		DB:       config.Cache.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), config.Source.Timeout)
	defer cancel()

	// Check the connection
	err := client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("Can't ping Redis '%s': %s", config.Cache.Addr, err.Error())
	}

	log.Info().
		Str("addr", config.Cache.Addr).
		Int("ttl", config.Cache.TTL).
		Msg("Search cache enabled")

	return &cachedExecutor{
		next:   next,
		client: client,
		ttl:    time.Duration(config.Cache.TTL) * time.Second,
	}, nil
}

func (c *cachedExecutor) Fetch(ctx context.Context, pattern pdk.IndexPattern, filters []pdk.Filter) ([]pdk.SourceDocument, error) {
	key, err := cacheKey(pattern, filters)
	if err != nil {
		return nil, err
	}

	// Cache failures never fail the search
	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		docs := []pdk.SourceDocument{}

		err = json.Unmarshal(cached, &docs)
		if err == nil {
			log.Debug().
				Str("index", pattern.Name).
				Msg("Search from cache")

			return docs, nil
		}
	}

	if err != nil && err != redis.Nil {
		log.Error().
			Str("index", pattern.Name).
			Msg("Can't query cache: " + err.Error())
	}

	docs, err := c.next.Fetch(ctx, pattern, filters)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(docs)
	if err != nil {
		return docs, nil
	}

	err = c.client.Set(ctx, key, b, c.ttl).Err()
	if err != nil {
		log.Error().
			Str("index", pattern.Name).
			Msg("Can't cache search results: " + err.Error())
	}

	return docs, nil
}

/*
 * Identical index & filters produce an identical key
 */
func cacheKey(pattern pdk.IndexPattern, filters []pdk.Filter) (string, error) {
	b, err := json.Marshal(struct {
		Index   string       `json:"index"`
		Filters []pdk.Filter `json:"filters"`
	}{pattern.Name, filters})
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return "ordergrid:search:" + hex.EncodeToString(sum[:]), nil
}

func (c *cachedExecutor) Close() error {
	return c.client.Close()
}
