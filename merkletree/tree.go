// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkletree

import (
	"strconv"
	"strings"

	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/storage"
)

// Tree - merkle tree persisted in a chunk store
type Tree struct {
	store storage.Store
}

// New - tree over a store
func New(store storage.Store) *Tree {
	return &Tree{
		store: store,
	}
}

// NodeKey - key of a full node
func NodeKey(level int, index uint64) string {
	return "mt" + strconv.Itoa(level) + "-" + strconv.FormatUint(index, 10)
}

// CarryKey - key of a node produced from a lone child
func CarryKey(level int, index uint64, commit uint64) string {
	return NodeKey(level, index) + "-" + strconv.FormatUint(commit, 10)
}

// RootLevel - height encoded in a root key
func RootLevel(rootKey string) (int, error) {
	if !strings.HasPrefix(rootKey, "mt") {
		return 0, fault.ErrInvalidRootKey
	}
	s := rootKey[2:]
	n := strings.IndexByte(s, '-')
	if n <= 0 {
		return 0, fault.ErrInvalidRootKey
	}
	level, err := strconv.Atoi(s[:n])
	if nil != err || level < 0 || level > 64 {
		return 0, fault.ErrInvalidRootKey
	}
	return level, nil
}

// Update - append leaves starting at index start for the given commit
//
// all new nodes are written in one batch; the left siblings of the
// new leaves must already be present from earlier commits
func (t *Tree) Update(start uint64, leaves []digest.Digest, commit uint64) (string, digest.Digest, error) {
	if 0 == len(leaves) {
		return "", digest.Digest{}, fault.ErrEmptyBatch
	}

	batch := t.store.NewBatch()

	hashes := make([]digest.Digest, len(leaves))
	for i, leaf := range leaves {
		batch.Put([]byte(NodeKey(0, start+uint64(i))), encodeNode(leaf))
		hashes[i] = leaf
	}

	level := 0
	levelStart := start
	complete := true

	for len(hashes) > 1 || levelStart > 0 {

		// continue the full subtree left of the first new node
		if 1 == levelStart%2 {
			sibling, err := t.getNode(NodeKey(level, levelStart-1))
			if nil != err {
				return "", digest.Digest{}, err
			}
			hashes = append([]digest.Digest{sibling}, hashes...)
			levelStart -= 1
		}

		parents := make([]digest.Digest, 0, (len(hashes)+1)/2)
		for i := 0; i < len(hashes); i += 2 {
			index := (levelStart + uint64(i)) / 2
			key := NodeKey(level+1, index)

			var parent digest.Digest
			if i+1 < len(hashes) {
				parent = digest.Pair(hashes[i], hashes[i+1])
				if i+2 == len(hashes) && !complete {
					key = CarryKey(level+1, index, commit)
				}
			} else {
				parent = digest.Single(hashes[i])
				key = CarryKey(level+1, index, commit)
				complete = false
			}
			batch.Put([]byte(key), encodeNode(parent))
			parents = append(parents, parent)
		}

		hashes = parents
		levelStart /= 2
		level += 1
	}

	if err := batch.Commit(); nil != err {
		return "", digest.Digest{}, err
	}

	rootKey := NodeKey(level, 0)
	if !complete {
		rootKey = CarryKey(level, 0, commit)
	}
	return rootKey, hashes[0], nil
}

// Get - the digest stored under a node key
func (t *Tree) Get(key string) (digest.Digest, error) {
	return t.getNode(key)
}

func (t *Tree) getNode(key string) (digest.Digest, error) {
	c, err := t.store.Get([]byte(key))
	if nil != err {
		return digest.Digest{}, err
	}
	if c.IsEmpty() {
		return digest.Digest{}, fault.ErrMissingTreeNode
	}
	return decodeNode(c)
}

func encodeNode(d digest.Digest) *chunk.Chunk {
	return chunk.NewWriter(chunk.TreeNode).Digest(d).Chunk()
}

func decodeNode(c *chunk.Chunk) (digest.Digest, error) {
	r, err := c.Expect(chunk.TreeNode)
	if nil != err {
		return digest.Digest{}, err
	}
	d, err := r.Digest()
	if nil != err {
		return digest.Digest{}, err
	}
	return d, r.Done()
}
