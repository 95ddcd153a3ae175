// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/ledgerdb/chunk"
)

// Cache - read cache for logically keyed chunks
type Cache interface {
	Get(string) (*chunk.Chunk, bool)
	Set(string, *chunk.Chunk)
	Invalidate(string)
	Clear()
}

const (
	defaultTimeout    = 1 * time.Minute
	defaultExpiration = 2 * time.Minute
)

type dbCache struct {
	cache *cache.Cache
}

func newCache() Cache {
	return &dbCache{
		cache: cache.New(defaultTimeout, defaultExpiration),
	}
}

func (c *dbCache) Get(key string) (*chunk.Chunk, bool) {
	obj, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	return obj.(*chunk.Chunk), true
}

func (c *dbCache) Set(key string, value *chunk.Chunk) {
	c.cache.Set(key, value, defaultExpiration)
}

func (c *dbCache) Invalidate(key string) {
	c.cache.Delete(key)
}

func (c *dbCache) Clear() {
	c.cache.Flush()
}
