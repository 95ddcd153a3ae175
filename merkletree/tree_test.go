// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkletree_test

import (
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/merkletree"
	"github.com/bitmark-inc/ledgerdb/storage"
	"github.com/bitmark-inc/ledgerdb/storage/mocks"
)

func makeLeaves(n int) []digest.Digest {
	leaves := make([]digest.Digest, n)
	for i := range leaves {
		leaves[i] = digest.NewDigest([]byte(fmt.Sprintf("block-%d", i)))
	}
	return leaves
}

// straightforward level by level construction
func referenceRoot(leaves []digest.Digest) digest.Digest {
	level := leaves
	for len(level) > 1 {
		next := make([]digest.Digest, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, digest.Pair(level[i], level[i+1]))
			} else {
				next = append(next, digest.Single(level[i]))
			}
		}
		level = next
	}
	return level[0]
}

func newTree(t *testing.T) (*merkletree.Tree, *storage.Handle) {
	h, err := storage.OpenMemory()
	require.Nil(t, err, "open memory store")
	return merkletree.New(h), h
}

func treeNode(d digest.Digest) *chunk.Chunk {
	return chunk.NewWriter(chunk.TreeNode).Digest(d).Chunk()
}

var leafCounts = []int{1, 2, 3, 7, 8, 9}

func TestIncrementalEquivalence(t *testing.T) {
	for _, n := range leafCounts {
		leaves := makeLeaves(n)

		batchTree, h1 := newTree(t)
		batchKey, batchRoot, err := batchTree.Update(0, leaves, 0)
		require.Nil(t, err, "%d: batch update", n)

		singleTree, h2 := newTree(t)
		var singleKey string
		var singleRoot digest.Digest
		for i := range leaves {
			singleKey, singleRoot, err = singleTree.Update(uint64(i), leaves[i:i+1], uint64(i))
			require.Nil(t, err, "%d: single update %d", n, i)
		}

		assert.Equal(t, referenceRoot(leaves), batchRoot, "%d: batch root", n)
		assert.Equal(t, batchRoot, singleRoot, "%d: one at a time root", n)

		// height is the same, carry tags differ by commit
		batchLevel, err := merkletree.RootLevel(batchKey)
		assert.Nil(t, err)
		singleLevel, err := merkletree.RootLevel(singleKey)
		assert.Nil(t, err)
		assert.Equal(t, batchLevel, singleLevel, "%d: root level", n)

		h1.Close()
		h2.Close()
	}
}

func TestUnevenBatches(t *testing.T) {
	leaves := makeLeaves(23)
	tree, h := newTree(t)
	defer h.Close()

	sizes := []int{3, 1, 4, 1, 5, 9}
	start := 0
	var root digest.Digest
	var err error
	for commit, size := range sizes {
		_, root, err = tree.Update(uint64(start), leaves[start:start+size], uint64(commit))
		require.Nil(t, err, "commit %d", commit)
		assert.Equal(t, referenceRoot(leaves[:start+size]), root, "commit %d root", commit)
		start += size
	}
	assert.Equal(t, 23, start)
}

func TestScenarioThreeBlocks(t *testing.T) {
	tree, h := newTree(t)
	defer h.Close()

	leaves := makeLeaves(3)
	rootKey, root, err := tree.Update(0, leaves, 0)
	require.Nil(t, err)

	expected := digest.Pair(digest.Pair(leaves[0], leaves[1]), digest.Single(leaves[2]))
	assert.Equal(t, expected, root, "root")
	assert.Equal(t, "mt2-0-0", rootKey, "root key")

	carry, err := tree.Get("mt1-1-0")
	assert.Nil(t, err, "carry node present")
	assert.Equal(t, digest.Single(leaves[2]), carry, "carry value")

	_, err = tree.Get("mt1-1")
	assert.Equal(t, fault.ErrMissingTreeNode, err, "no full node yet")
}

func TestSingleLeafRoot(t *testing.T) {
	tree, h := newTree(t)
	defer h.Close()

	leaves := makeLeaves(1)
	rootKey, root, err := tree.Update(0, leaves, 0)
	require.Nil(t, err)
	assert.Equal(t, "mt0-0", rootKey)
	assert.Equal(t, leaves[0], root)

	proof, err := tree.GetProof(0, rootKey, 0, 0)
	require.Nil(t, err)
	assert.Equal(t, 0, len(proof.Siblings))
	assert.True(t, proof.Verify())
}

func TestEmptyUpdate(t *testing.T) {
	tree, h := newTree(t)
	defer h.Close()

	_, _, err := tree.Update(0, nil, 0)
	assert.Equal(t, fault.ErrEmptyBatch, err)
}

func TestMissingLeftSibling(t *testing.T) {
	tree, h := newTree(t)
	defer h.Close()

	_, _, err := tree.Update(5, makeLeaves(1), 3)
	assert.Equal(t, fault.ErrMissingTreeNode, err)
}

type commitRoot struct {
	key  string
	root digest.Digest
}

func TestProofs(t *testing.T) {
	leaves := makeLeaves(13)
	tree, h := newTree(t)
	defer h.Close()

	commits := make([]commitRoot, len(leaves))
	for i := range leaves {
		key, root, err := tree.Update(uint64(i), leaves[i:i+1], uint64(i))
		require.Nil(t, err)
		commits[i] = commitRoot{key: key, root: root}
	}

	// every leaf against every commit that covers it
	for commit, cr := range commits {
		tip := uint64(commit)
		for seq := uint64(0); seq <= tip; seq += 1 {
			proof, err := tree.GetProof(uint64(commit), cr.key, tip, seq)
			require.Nil(t, err, "commit %d seq %d", commit, seq)
			assert.Equal(t, cr.root, proof.Digest, "commit %d seq %d: digest", commit, seq)
			assert.Equal(t, leaves[seq], proof.Value, "commit %d seq %d: value", commit, seq)
			assert.True(t, proof.Verify(), "commit %d seq %d: verify", commit, seq)
			assert.Equal(t, seq, proof.Index(), "commit %d seq %d: index", commit, seq)
		}
	}

	_, err := tree.GetProof(3, commits[3].key, 3, 4)
	assert.Equal(t, fault.ErrSequenceOutOfRange, err)
}

func TestProofTamper(t *testing.T) {
	leaves := makeLeaves(9)
	tree, h := newTree(t)
	defer h.Close()

	rootKey, _, err := tree.Update(0, leaves, 0)
	require.Nil(t, err)

	for seq := uint64(0); seq < 9; seq += 1 {
		proof, err := tree.GetProof(0, rootKey, 8, seq)
		require.Nil(t, err)
		require.True(t, proof.Verify(), "seq %d: verify", seq)

		bad := *proof
		bad.Value[0] ^= 0x01
		assert.False(t, bad.Verify(), "seq %d: tampered value", seq)

		for i := range proof.Siblings {
			bad := *proof
			bad.Siblings = append([]digest.Digest{}, proof.Siblings...)
			bad.Siblings[i][digest.Length-1] ^= 0x80
			assert.False(t, bad.Verify(), "seq %d: tampered sibling %d", seq, i)

			bad.Siblings = proof.Siblings
			bad.Positions = append([]uint8{}, proof.Positions...)
			bad.Positions[i] = 7
			assert.False(t, bad.Verify(), "seq %d: invalid position %d", seq, i)
		}
	}
}

func TestRootLevel(t *testing.T) {
	items := []struct {
		key   string
		level int
		err   error
	}{
		{"mt0-0", 0, nil},
		{"mt4-0-17", 4, nil},
		{"mt12-0", 12, nil},
		{"mt-0", 0, fault.ErrInvalidRootKey},
		{"xx3-0", 0, fault.ErrInvalidRootKey},
		{"mt3", 0, fault.ErrInvalidRootKey},
		{"mtx-0", 0, fault.ErrInvalidRootKey},
	}
	for i, item := range items {
		level, err := merkletree.RootLevel(item.key)
		assert.Equal(t, item.err, err, "%d: error", i)
		assert.Equal(t, item.level, level, "%d: level", i)
	}
}

func TestUpdateKeys(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := mocks.NewMockStore(ctl)
	batch := mocks.NewMockBatch(ctl)

	leaves := makeLeaves(3)
	left := digest.Pair(leaves[0], leaves[1])

	// third leaf appended on its own by commit 1
	store.EXPECT().NewBatch().Return(batch)
	store.EXPECT().Get([]byte("mt1-0")).Return(treeNode(left), nil)
	batch.EXPECT().Put([]byte("mt0-2"), treeNode(leaves[2]))
	batch.EXPECT().Put([]byte("mt1-1-1"), treeNode(digest.Single(leaves[2])))
	batch.EXPECT().Put([]byte("mt2-0-1"), treeNode(digest.Pair(left, digest.Single(leaves[2]))))
	batch.EXPECT().Commit().Return(nil)

	tree := merkletree.New(store)
	rootKey, root, err := tree.Update(2, leaves[2:], 1)
	assert.Nil(t, err)
	assert.Equal(t, "mt2-0-1", rootKey)
	assert.Equal(t, referenceRoot(leaves), root)
}

func TestUpdateBatchFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := mocks.NewMockStore(ctl)
	batch := mocks.NewMockBatch(ctl)

	store.EXPECT().NewBatch().Return(batch)
	batch.EXPECT().Put(gomock.Any(), gomock.Any()).Times(3)
	batch.EXPECT().Commit().Return(fault.ErrStorageWriteFailed)

	tree := merkletree.New(store)
	_, _, err := tree.Update(0, makeLeaves(2), 0)
	assert.Equal(t, fault.ErrStorageWriteFailed, err)
}
