// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mpt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/mpt"
)

func TestRemoveMatchesFreshBuild(t *testing.T) {
	keys, values := makeKeys(50)

	h := openStore(t)
	defer h.Close()

	trie := mpt.New(h)
	_, err := trie.Set(keys, values)
	require.Nil(t, err)

	// drop every third key
	var removed, keptKeys, keptValues [][]byte
	for i := range keys {
		if 0 == i%3 {
			removed = append(removed, keys[i])
		} else {
			keptKeys = append(keptKeys, keys[i])
			keptValues = append(keptValues, values[i])
		}
	}

	root, err := trie.Remove(removed)
	require.Nil(t, err)
	assert.Equal(t, freshRoot(t, keptKeys, keptValues), root, "canonical shape after remove")
	assert.Equal(t, uint64(len(keptKeys)), trie.Count())

	for _, key := range removed {
		_, found, err := trie.Get(key)
		assert.Nil(t, err)
		assert.False(t, found, "%s: removed", key)
	}
	for i, key := range keptKeys {
		value, found, err := trie.Get(key)
		assert.Nil(t, err)
		assert.True(t, found, "%s: kept", key)
		assert.Equal(t, keptValues[i], value)
	}

	root, err = trie.Remove(keptKeys)
	require.Nil(t, err)
	assert.Equal(t, mpt.NilHash, root, "all keys removed")
	assert.Equal(t, uint64(0), trie.Count())
}

func TestRemoveAbsent(t *testing.T) {
	keys, values := makeKeys(8)

	h := openStore(t)
	defer h.Close()

	trie := mpt.New(h)
	before, err := trie.Set(keys, values)
	require.Nil(t, err)

	after, err := trie.Remove([][]byte{[]byte("k8"), []byte("k"), []byte("zzz")})
	require.Nil(t, err)
	assert.Equal(t, before, after)
}

func TestChainedCollapse(t *testing.T) {
	// nibbles 1,1,1,1 / 1,1,1,2 / 1,2 give
	//   Short[1] -> Full{1: Short[1] -> Full{1: .., 2: ..}, 2: ..}
	k1 := []byte{0x11, 0x11}
	k2 := []byte{0x11, 0x12}
	k3 := []byte{0x12}

	single := freshRoot(t, [][]byte{k1}, [][]byte{[]byte("one")})

	// both collapses in one batch
	h := openStore(t)
	defer h.Close()
	trie := mpt.New(h)
	_, err := trie.Set([][]byte{k1, k2, k3}, [][]byte{[]byte("one"), []byte("two"), []byte("three")})
	require.Nil(t, err)

	root, err := trie.Remove([][]byte{k2, k3})
	require.Nil(t, err)
	assert.Equal(t, single, root, "batch remove")

	// root is one short node holding the whole key
	proof, err := trie.GetProof(k1)
	require.Nil(t, err)
	require.Equal(t, 1, len(proof.Nodes))
	c, err := chunk.Parse(proof.Nodes[0])
	require.Nil(t, err)
	n, err := mpt.Decode(c)
	require.Nil(t, err)
	assert.Equal(t, mpt.Short, n.Kind)
	assert.Equal(t, mpt.KeyToNibbles(k1), n.Key)
	assert.Equal(t, uint64(1), n.Count)

	// the same collapses in separate commits, inner first
	h2 := openStore(t)
	defer h2.Close()
	trie = mpt.New(h2)
	_, err = trie.Set([][]byte{k1, k2, k3}, [][]byte{[]byte("one"), []byte("two"), []byte("three")})
	require.Nil(t, err)

	root, err = trie.Remove([][]byte{k2})
	require.Nil(t, err)
	assert.Equal(t, freshRoot(t, [][]byte{k1, k3}, [][]byte{[]byte("one"), []byte("three")}), root, "inner collapse")

	root, err = trie.Remove([][]byte{k3})
	require.Nil(t, err)
	assert.Equal(t, single, root, "outer collapse")

	value, found, err := trie.Get(k1)
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("one"), value)
}

func TestCollapseToFullChild(t *testing.T) {
	// removing k3 leaves a short edge over a full node that still
	// has two children
	k1 := []byte{0x11, 0x11}
	k2 := []byte{0x11, 0x12}
	k3 := []byte{0x21}

	h := openStore(t)
	defer h.Close()
	trie := mpt.New(h)
	_, err := trie.Set([][]byte{k1, k2, k3}, [][]byte{[]byte("1"), []byte("2"), []byte("3")})
	require.Nil(t, err)

	root, err := trie.Remove([][]byte{k3})
	require.Nil(t, err)
	assert.Equal(t, freshRoot(t, [][]byte{k1, k2}, [][]byte{[]byte("1"), []byte("2")}), root)
	assert.Equal(t, uint64(2), trie.Count())
}

func TestRemoveValueSlot(t *testing.T) {
	h := openStore(t)
	defer h.Close()

	trie := mpt.New(h)
	_, err := trie.Set([][]byte{[]byte("a"), []byte("ab")}, [][]byte{[]byte("1"), []byte("2")})
	require.Nil(t, err)

	root, err := trie.Remove([][]byte{[]byte("ab")})
	require.Nil(t, err)
	assert.Equal(t, freshRoot(t, [][]byte{[]byte("a")}, [][]byte{[]byte("1")}), root, "value slot collapses")

	_, err = trie.Set([][]byte{[]byte("ab")}, [][]byte{[]byte("2")})
	require.Nil(t, err)
	root, err = trie.Remove([][]byte{[]byte("a")})
	require.Nil(t, err)
	assert.Equal(t, freshRoot(t, [][]byte{[]byte("ab")}, [][]byte{[]byte("2")}), root, "branch collapses")
}
