// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/logger"
)

// Store - the chunk store contract used by the authenticated structures
type Store interface {
	Get(key []byte) (*chunk.Chunk, error)
	Put(key []byte, c *chunk.Chunk) error
	GetByHash(d digest.Digest) (*chunk.Chunk, error)
	PutByHash(c *chunk.Chunk) error
	NewBatch() Batch
	NewFetchCursor(start []byte, limit []byte) *FetchCursor
	Scan(start []byte, limit []byte) ([]Element, error)
}

// Batch - group of puts written atomically
type Batch interface {
	Put(key []byte, c *chunk.Chunk)
	PutByHash(c *chunk.Chunk)
	Len() int
	Commit() error
}

// Options - tuning for a handle
type Options struct {
	ReadOnly      bool
	HashCacheSize int
}

const defaultHashCacheSize = 8192

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// Handle - an open chunk store
//
// access orders logical key cache fills against writes so that a
// reader can never cache a value older than a completed Put
type Handle struct {
	access    sync.RWMutex
	db        *leveldb.DB
	name      string
	keyCache  Cache
	hashCache *lru.Cache
}

// Open - open or create a LevelDB chunk store on disk
func Open(name string, options Options) (*Handle, error) {
	log := logger.New("storage")

	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: options.ReadOnly,
		ReadOnly:       options.ReadOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		log.Errorf("open: %q  error: %s", name, err)
		return nil, err
	}

	version, err := getVersion(db)
	if nil != err {
		db.Close()
		return nil, err
	}

	// ensure no database downgrade
	if version > currentDBVersion {
		db.Close()
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		return nil, fmt.Errorf("database version: %d > current version: %d", version, currentDBVersion)
	}

	if 0 == version && !options.ReadOnly {
		// database was empty so tag as current version
		if err := putVersion(db, currentDBVersion); nil != err {
			db.Close()
			return nil, err
		}
	}

	log.Infof("opened: %q  version: 0x%x  read only: %t", name, currentDBVersion, options.ReadOnly)
	return newHandle(db, name, options)
}

// OpenMemory - chunk store that lives only in memory
//
// used for audit replay and tests, no logging
func OpenMemory() (*Handle, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	if err := putVersion(db, currentDBVersion); nil != err {
		db.Close()
		return nil, err
	}
	return newHandle(db, "memory", Options{})
}

func newHandle(db *leveldb.DB, name string, options Options) (*Handle, error) {
	size := options.HashCacheSize
	if size <= 0 {
		size = defaultHashCacheSize
	}
	hashCache, err := lru.New(size)
	if nil != err {
		db.Close()
		return nil, err
	}
	return &Handle{
		db:        db,
		name:      name,
		keyCache:  newCache(),
		hashCache: hashCache,
	}, nil
}

// Close - release the database
func (h *Handle) Close() error {
	h.keyCache.Clear()
	h.hashCache.Purge()
	return h.db.Close()
}

// Name - the database path
func (h *Handle) Name() string {
	return h.name
}

// Get - read a chunk by logical key
//
// an absent key gives the empty chunk and no error
func (h *Handle) Get(key []byte) (*chunk.Chunk, error) {
	k := string(key)
	if c, found := h.keyCache.Get(k); found {
		return c, nil
	}

	h.access.RLock()
	defer h.access.RUnlock()

	value, err := h.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return chunk.Empty(), nil
	} else if nil != err {
		return nil, wrap(fault.ErrStorageReadFailed, err)
	}

	c, err := chunk.Parse(value)
	if nil != err {
		return nil, err
	}
	h.keyCache.Set(k, c)
	return c, nil
}

// Put - write a chunk under a logical key
//
// the cached entry for the key is dropped, nothing is rolled back
// on failure
func (h *Handle) Put(key []byte, c *chunk.Chunk) error {
	h.access.Lock()
	defer h.access.Unlock()

	err := h.db.Put(key, c.Bytes(), nil)
	h.keyCache.Invalidate(string(key))
	if nil != err {
		return wrap(fault.ErrStorageWriteFailed, err)
	}
	return nil
}

// GetByHash - read a content addressed chunk
//
// the content is checked against its address
func (h *Handle) GetByHash(d digest.Digest) (*chunk.Chunk, error) {
	if value, ok := h.hashCache.Get(d); ok {
		return value.(*chunk.Chunk), nil
	}

	value, err := h.db.Get(d[:], nil)
	if leveldb.ErrNotFound == err {
		return chunk.Empty(), nil
	} else if nil != err {
		return nil, wrap(fault.ErrStorageReadFailed, err)
	}

	c, err := chunk.Parse(value)
	if nil != err {
		return nil, err
	}
	if c.Hash() != d {
		return nil, fault.ErrChunkHashMismatch
	}
	h.hashCache.Add(d, c)
	return c, nil
}

// PutByHash - write a chunk under its own hash
func (h *Handle) PutByHash(c *chunk.Chunk) error {
	d := c.Hash()
	if err := h.db.Put(d[:], c.Bytes(), nil); nil != err {
		return wrap(fault.ErrStorageWriteFailed, err)
	}
	h.hashCache.Add(d, c)
	return nil
}

// return the stored version or zero for an empty database
func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}
	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}

// attach the database error text to a storage fault
func wrap(base fault.StorageError, err error) error {
	return fault.StorageError(string(base) + ": " + err.Error())
}
