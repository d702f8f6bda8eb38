// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/zeebo/blake3"
)

const (
	CachePrefix      = "pvledger:"
	DefaultCacheSize = 256
	DefaultCacheTTL  = 3600
)

var (
	ErrCacheMiss = errors.New("cache miss")
)

var ctx = context.Background()
var rdb *redis.Client
var cache *lru.Cache
var cacheOnce sync.Once

type cacheEntry struct {
	val     []byte
	expires time.Time
}

func init() {
	viper.SetDefault("cache.local_size", DefaultCacheSize)
	viper.SetDefault("cache.ttl", DefaultCacheTTL)
}

// SetupCache creates the local LRU cache and, when `cache.redis_url` is set, the redis client shared between
// processes. Calling SetupCache more than once replaces the previous caches.
func SetupCache() error {
	if redisURL := viper.GetString("cache.redis_url"); redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Error().Err(err).Msg("could not parse redis URL")
			return err
		}

		rdb = redis.NewClient(opt)
	} else {
		rdb = nil
	}

	size := viper.GetInt("cache.local_size")
	if size <= 0 {
		size = DefaultCacheSize
	}

	var err error
	cache, err = lru.New(size)
	if err != nil {
		log.Error().Err(err).Msg("could not create LRU cache")
		return err
	}

	cacheOnce.Do(func() {})
	return nil
}

func ensureCache() {
	cacheOnce.Do(func() {
		var err error
		cache, err = lru.New(DefaultCacheSize)
		if err != nil {
			log.Panic().Err(err).Msg("could not create LRU cache")
		}
	})
}

func cacheTTL() time.Duration {
	return time.Duration(viper.GetInt("cache.ttl")) * time.Second
}

// CacheKey builds a cache key from the blake3 hash of the given parts
func CacheKey(parts ...string) string {
	h := blake3.New()
	for _, part := range parts {
		// a separator keeps ("ab", "c") and ("a", "bc") from colliding
		if _, err := h.Write([]byte(part)); err != nil {
			log.Error().Err(err).Msg("could not write to blake3 hasher")
		}
		if _, err := h.Write([]byte{0}); err != nil {
			log.Error().Err(err).Msg("could not write to blake3 hasher")
		}
	}
	return CachePrefix + hex.EncodeToString(h.Sum(nil)[:16])
}

// CacheSet stores an lz4 compressed copy of bytes under key for `cache.ttl` seconds
func CacheSet(key string, bytes []byte) error {
	ensureCache()

	b2, err := EncodePayload(bytes)
	if err != nil {
		return err
	}

	ttl := cacheTTL()
	cache.Add(key, &cacheEntry{val: b2, expires: time.Now().Add(ttl)})

	if rdb != nil {
		return rdb.Set(ctx, key, b2, ttl).Err()
	}
	return nil
}

// CacheGet returns the value stored under key. ErrCacheMiss is returned when the key is absent or expired
func CacheGet(key string) ([]byte, error) {
	ensureCache()

	if v, ok := cache.Get(key); ok {
		entry := v.(*cacheEntry)
		if time.Now().Before(entry.expires) {
			return DecodePayload(entry.val)
		}
		cache.Remove(key)
	}

	if rdb != nil {
		val, err := rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		if err != nil {
			return nil, err
		}
		return DecodePayload(val)
	}

	return nil, ErrCacheMiss
}

// CachePurge removes every cached computation, both locally and in redis
func CachePurge() error {
	ensureCache()
	cache.Purge()

	if rdb == nil {
		return nil
	}

	iter := rdb.Scan(ctx, 0, CachePrefix+"*", 100).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	log.Debug().Int("NumKeys", len(keys)).Msg("purging redis cache")
	return rdb.Del(ctx, keys...).Err()
}
