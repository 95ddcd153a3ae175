// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/fault"
)

type dbBatch struct {
	handle *Handle
	batch  *leveldb.Batch
	keys   []string
	hashed []*chunk.Chunk
}

// NewBatch - start a group of writes
func (h *Handle) NewBatch() Batch {
	return &dbBatch{
		handle: h,
		batch:  new(leveldb.Batch),
	}
}

func (b *dbBatch) Put(key []byte, c *chunk.Chunk) {
	b.batch.Put(key, c.Bytes())
	b.keys = append(b.keys, string(key))
}

func (b *dbBatch) PutByHash(c *chunk.Chunk) {
	d := c.Hash()
	b.batch.Put(d[:], c.Bytes())
	b.hashed = append(b.hashed, c)
}

func (b *dbBatch) Len() int {
	return b.batch.Len()
}

// Commit - write all entries, on failure none are visible
func (b *dbBatch) Commit() error {
	b.handle.access.Lock()
	err := b.handle.db.Write(b.batch, nil)
	for _, k := range b.keys {
		b.handle.keyCache.Invalidate(k)
	}
	b.handle.access.Unlock()

	if nil != err {
		return wrap(fault.ErrStorageWriteFailed, err)
	}
	for _, c := range b.hashed {
		b.handle.hashCache.Add(c.Hash(), c)
	}
	b.batch.Reset()
	b.keys = nil
	b.hashed = nil
	return nil
}
