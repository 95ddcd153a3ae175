// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/ledgerdb/background"
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/merkletree"
	"github.com/bitmark-inc/ledgerdb/mpt"
	"github.com/bitmark-inc/ledgerdb/skiplist"
	"github.com/bitmark-inc/ledgerdb/storage"
	"github.com/bitmark-inc/logger"
)

// Options - engine settings
//
// a zero Interval starts no builder, BuildCycle must then be called
// by the owner
type Options struct {
	Interval time.Duration
	Log      *logger.L
	Seed     int64
}

// Engine - one ledger shard
type Engine struct {
	log      *logger.L
	store    storage.Store
	tree     *merkletree.Tree
	versions *skiplist.SkipList
	queue    *queue
	heads    *heads

	// Set holds this so blocks are queued in sequence order
	writer    sync.Mutex
	nextBlock uint64
	closed    bool

	// held for a whole build cycle
	build      sync.Mutex
	commitSeq  uint64
	prevDigest digest.Digest
	trie       *mpt.Trie

	current atomic.Value

	processes *background.T
}

// published by each build cycle
type snapshot struct {
	pointer DigestPointer
	commit  *CommitRecord
}

// New - open an engine over a store and resume from its contents
func New(store storage.Store, options Options) (*Engine, error) {
	log := options.Log
	if nil == log {
		log = logger.New("ledger")
	}

	e := &Engine{
		log:      log,
		store:    store,
		tree:     merkletree.New(store),
		versions: skiplist.New(store, options.Seed),
		queue:    &queue{},
		heads:    newHeads(),
	}

	if err := e.recover(); nil != err {
		log.Errorf("recover: error: %s", err)
		return nil, err
	}

	if options.Interval > 0 {
		b := &builder{
			log:      logger.New("builder"),
			engine:   e,
			interval: options.Interval,
		}
		e.processes = background.Start(background.Processes{b}, nil)
	}

	log.Infof("opened: next block: %d  next commit: %d  keys: %d  unfolded blocks: %d",
		e.nextBlock, e.commitSeq, e.heads.size(), e.queue.length())
	return e, nil
}

// Close - stop the builder and wait for it
//
// blocks still queued are folded by the next engine on the store
func (e *Engine) Close() error {
	e.writer.Lock()
	if e.closed {
		e.writer.Unlock()
		return nil
	}
	e.closed = true
	e.writer.Unlock()

	if nil != e.processes {
		e.processes.Stop()
	}
	e.log.Infof("closed: unfolded blocks: %d", e.queue.length())
	return nil
}

// Set - write one block and index its keys
//
// the values are readable on return, they are committed by a later
// build cycle
//
// once the block is written it is queued even if indexing fails: the
// error is returned with its sequence and the build cycle indexes it
// again before folding, so no block is committed unindexed
func (e *Engine) Set(keys []string, values [][]byte, timestamp uint64) (uint64, error) {
	if 0 == len(keys) {
		return 0, fault.ErrEmptyBatch
	}
	if len(keys) != len(values) {
		return 0, fault.ErrKeyValueCountMismatch
	}
	if timestamp >= math.MaxInt64 {
		return 0, fault.ErrInvalidVersion
	}

	b := &Block{
		Timestamp: timestamp,
		Keys:      make([]string, len(keys)),
		Values:    make([][]byte, len(values)),
	}
	copy(b.Keys, keys)
	for i, v := range values {
		b.Values[i] = append([]byte{}, v...)
	}

	e.writer.Lock()
	defer e.writer.Unlock()

	if e.closed {
		return 0, fault.ErrEngineClosed
	}

	b.Sequence = e.nextBlock
	c := b.Encode()
	if err := e.store.Put(BlockKey(b.Sequence), c); nil != err {
		e.log.Errorf("block: %d  write error: %s", b.Sequence, err)
		return 0, err
	}
	e.nextBlock += 1

	err := e.index(b)
	e.queue.push(pending{block: b, hash: c.Hash(), unindexed: nil != err})
	if nil != err {
		e.log.Errorf("block: %d  index error: %s", b.Sequence, err)
		return b.Sequence, err
	}
	e.log.Tracef("block: %d  keys: %d  timestamp: %d", b.Sequence, len(b.Keys), timestamp)
	return b.Sequence, nil
}

// add every key of a block to the version index
func (e *Engine) index(b *Block) error {
	version := int64(b.Timestamp)
	for i, key := range b.Keys {
		v := &Value{
			Key:     key,
			Version: b.Timestamp,
			Block:   b.Sequence,
			Value:   b.Values[i],
		}
		if err := e.versions.Insert(key, version, v.encode()); nil != err {
			return err
		}
		e.heads.set(key, version)
	}
	return nil
}

// Get - latest version of a key, nil if never written
func (e *Engine) Get(key string) (*Value, error) {
	version, found := e.heads.get(key)
	if !found {
		return nil, nil
	}
	return e.find(key, version)
}

// GetValues - latest version of each key, nil entries for absent keys
func (e *Engine) GetValues(keys []string) ([]*Value, error) {
	values := make([]*Value, len(keys))
	for i, key := range keys {
		v, err := e.Get(key)
		if nil != err {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// GetRange - latest version of every key in [start, end] in key order
func (e *Engine) GetRange(start string, end string) ([]*Value, error) {
	entries := e.heads.between(start, end)
	values := make([]*Value, 0, len(entries))
	for _, entry := range entries {
		v, err := e.find(entry.key, entry.version)
		if nil != err {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// GetVersions - up to n most recent versions of a key, newest first
func (e *Engine) GetVersions(key string, n int) ([]*Value, error) {
	nodes, err := e.versions.Scan(key, n)
	if nil != err {
		return nil, err
	}
	values := make([]*Value, len(nodes))
	for i, node := range nodes {
		v, err := DecodeValue(key, node.Value)
		if nil != err {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// GetRootDigest - the latest published pointer, zero before the
// first commit
func (e *Engine) GetRootDigest() DigestPointer {
	s := e.latest()
	if nil == s {
		return DigestPointer{}
	}
	return s.pointer
}

// LatestCommit - the commit record behind GetRootDigest, nil before
// the first commit
func (e *Engine) LatestCommit() *CommitRecord {
	s := e.latest()
	if nil == s {
		return nil
	}
	commit := *s.commit
	return &commit
}

// Pending - blocks written but not yet folded into a commit
func (e *Engine) Pending() int {
	return e.queue.length()
}

// Committed - true once a commit has been published
func (e *Engine) Committed() bool {
	return nil != e.latest()
}

func (e *Engine) find(key string, version int64) (*Value, error) {
	node, err := e.versions.Find(key, version)
	if nil != err {
		return nil, err
	}
	if nil == node {
		return nil, fault.ErrMissingSkipNode
	}
	return DecodeValue(key, node.Value)
}

func (e *Engine) latest() *snapshot {
	s, _ := e.current.Load().(*snapshot)
	return s
}
