// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadsKeepNewest(t *testing.T) {
	h := newHeads()
	h.set("b", 5)
	h.set("b", 3)
	h.set("a", 1)
	h.set("c", 2)
	h.set("b", 8)

	v, found := h.get("b")
	assert.True(t, found)
	assert.Equal(t, int64(8), v)

	_, found = h.get("x")
	assert.False(t, found)

	assert.Equal(t, []headEntry{{"a", 1}, {"b", 8}}, h.between("", "b"))
	assert.Equal(t, []headEntry{{"c", 2}}, h.between("b0", "z"))
	assert.Equal(t, 0, len(h.between("d", "z")))
	assert.Equal(t, 3, h.size())
}

// ranges starting inside a larger tree walk successors in order
func TestHeadsBetweenFromCeiling(t *testing.T) {
	h := newHeads()
	for i := 0; i < 200; i += 1 {
		h.set(fmt.Sprintf("k%03d", (i*37)%200), int64(i))
	}

	entries := h.between("k050", "k059")
	require.Equal(t, 10, len(entries))
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("k%03d", 50+i), entry.key)
	}

	entries = h.between("k1995", "z")
	assert.Equal(t, 0, len(entries))

	entries = h.between("k198x", "z")
	require.Equal(t, 1, len(entries))
	assert.Equal(t, "k199", entries[0].key)

	assert.Equal(t, 200, len(h.between("", "z")))
	assert.Equal(t, 0, len(h.between("k060", "k059")))
}

func TestQueueRestore(t *testing.T) {
	q := &queue{}
	for i := uint64(0); i < 3; i += 1 {
		q.push(pending{block: &Block{Sequence: i}})
	}
	items := q.drain()
	assert.Equal(t, 3, len(items))
	assert.Equal(t, 0, q.length())

	q.push(pending{block: &Block{Sequence: 3}})
	q.restore(items)
	items = q.drain()
	sequences := make([]uint64, len(items))
	for i, item := range items {
		sequences[i] = item.block.Sequence
	}
	assert.Equal(t, []uint64{0, 1, 2, 3}, sequences)
}
