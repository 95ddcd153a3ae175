// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"time"

	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/mpt"
	"github.com/bitmark-inc/logger"
)

type builder struct {
	log      *logger.L
	engine   *Engine
	interval time.Duration
}

// build loop
func (b *builder) Run(args interface{}, shutdown <-chan struct{}) {
	log := b.log

	log.Infof("starting…  interval: %s", b.interval)
	ticker := time.NewTicker(b.interval)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			if _, err := b.engine.BuildCycle(); nil != err {
				log.Errorf("build cycle: error: %s", err)
			}
		}
	}
	ticker.Stop()
	log.Info("stopped")
}

// BuildCycle - fold every queued block into a new commit
//
// returns false when there was nothing to fold; on error the blocks
// stay queued for the next cycle
func (e *Engine) BuildCycle() (bool, error) {
	e.build.Lock()
	defer e.build.Unlock()

	items := e.queue.drain()
	if 0 == len(items) {
		return false, nil
	}

	if err := e.fold(items); nil != err {
		e.queue.restore(items)
		return false, err
	}
	return true, nil
}

func (e *Engine) fold(items []pending) error {
	for i := range items {
		if !items[i].unindexed {
			continue
		}
		if err := e.index(items[i].block); nil != err {
			e.log.Errorf("block: %d  index error: %s", items[i].block.Sequence, err)
			return err
		}
		items[i].unindexed = false
	}

	first := items[0].block.Sequence
	last := first

	leaves := make([]digest.Digest, len(items))
	keys := make([][]byte, 0, len(items))
	values := make([][]byte, 0, len(items))
	for i, item := range items {
		b := item.block
		if first+uint64(i) != b.Sequence {
			e.log.Criticalf("queued block: %d  expected: %d", b.Sequence, first+uint64(i))
			return fault.ErrSequenceOutOfRange
		}
		leaves[i] = item.hash
		last = b.Sequence

		// later blocks come later in the batch and so win
		for j, key := range b.Keys {
			v := &Value{
				Version: b.Timestamp,
				Block:   b.Sequence,
				Value:   b.Values[j],
			}
			keys = append(keys, []byte(key))
			values = append(values, v.encode())
		}
	}

	rootKey, root, err := e.tree.Update(first, leaves, e.commitSeq)
	if nil != err {
		e.log.Errorf("merkle tree update: blocks: %d..%d  error: %s", first, last, err)
		return err
	}
	mptRoot, err := e.trie.Set(keys, values)
	if nil != err {
		e.log.Errorf("trie update: keys: %d  error: %s", len(keys), err)
		return err
	}

	record := &CommitRecord{
		Sequence:      e.commitSeq,
		PrevDigest:    e.prevDigest,
		TipBlock:      last,
		MerkleRoot:    root,
		MerkleRootKey: rootKey,
		MPTRoot:       mptRoot,
	}
	c := record.Encode()
	pointer := DigestPointer{
		CommitSeq: record.Sequence,
		TipBlock:  last,
		Digest:    c.Hash(),
	}

	batch := e.store.NewBatch()
	batch.Put(CommitKey(record.Sequence), c)
	batch.Put(DigestKey, pointer.Encode())
	if err := batch.Commit(); nil != err {
		e.log.Errorf("commit: %d  write error: %s", record.Sequence, err)
		return err
	}

	e.current.Store(&snapshot{
		pointer: pointer,
		commit:  record,
	})
	e.commitSeq += 1
	e.prevDigest = pointer.Digest

	e.log.Infof("commit: %d  blocks: %d..%d  keys: %d  digest: %s", record.Sequence, first, last, len(keys), pointer.Digest)
	e.log.Debugf("commit: %d  merkle root: %s  key: %s  trie root: %s  trie count: %d",
		record.Sequence, root, rootKey, mptRoot, e.trie.Count())
	return nil
}

// resume from the published pointer and queue the unfolded blocks
func (e *Engine) recover() error {
	e.trie = mpt.New(e.store)
	nextBlock := uint64(0)

	c, err := e.store.Get(DigestKey)
	if nil != err {
		return err
	}
	if !c.IsEmpty() {
		pointer, err := DecodeDigestPointer(c)
		if nil != err {
			return err
		}
		cc, err := e.store.Get(CommitKey(pointer.CommitSeq))
		if nil != err {
			return err
		}
		if cc.IsEmpty() {
			return fault.ErrUnknownCommit
		}
		if cc.Hash() != pointer.Digest {
			return fault.ErrCommitDigestMismatch
		}
		record, err := DecodeCommit(cc)
		if nil != err {
			return err
		}
		trie, err := mpt.Open(e.store, record.MPTRoot)
		if nil != err {
			return err
		}

		e.trie = trie
		e.commitSeq = pointer.CommitSeq + 1
		e.prevDigest = pointer.Digest
		e.current.Store(&snapshot{
			pointer: *pointer,
			commit:  record,
		})
		nextBlock = pointer.TipBlock + 1
	}

	// blocks written after the last commit, the index may be missing
	// their last keys so they are indexed again
	for ; ; nextBlock += 1 {
		c, err := e.store.Get(BlockKey(nextBlock))
		if nil != err {
			return err
		}
		if c.IsEmpty() {
			break
		}
		b, err := DecodeBlock(c)
		if nil != err {
			return err
		}
		if nextBlock != b.Sequence {
			return fault.ErrSequenceOutOfRange
		}
		if err := e.index(b); nil != err {
			return err
		}
		e.queue.push(pending{block: b, hash: c.Hash()})
	}
	e.nextBlock = nextBlock

	latest, err := e.versions.Heads()
	if nil != err {
		return err
	}
	for key, version := range latest {
		e.heads.set(key, version)
	}
	return nil
}
