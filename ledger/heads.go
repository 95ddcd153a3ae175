// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// latest version of every key, ordered by key
type heads struct {
	sync.RWMutex
	index *redblacktree.Tree
}

type headEntry struct {
	key     string
	version int64
}

func newHeads() *heads {
	return &heads{
		index: redblacktree.NewWithStringComparator(),
	}
}

// record a version, an older version never replaces a newer one
func (h *heads) set(key string, version int64) {
	h.Lock()
	defer h.Unlock()

	if v, found := h.index.Get(key); found && v.(int64) > version {
		return
	}
	h.index.Put(key, version)
}

func (h *heads) get(key string) (int64, bool) {
	h.RLock()
	defer h.RUnlock()

	v, found := h.index.Get(key)
	if !found {
		return 0, false
	}
	return v.(int64), true
}

// keys in [start, end] in ascending order
//
// starts at the ceiling of start and follows in-order successors
func (h *heads) between(start string, end string) []headEntry {
	h.RLock()
	defer h.RUnlock()

	entries := make([]headEntry, 0, 16)
	node, found := h.index.Ceiling(start)
	if !found {
		return entries
	}
	for ; nil != node; node = successor(node) {
		key := node.Key.(string)
		if key > end {
			break
		}
		entries = append(entries, headEntry{
			key:     key,
			version: node.Value.(int64),
		})
	}
	return entries
}

func successor(node *redblacktree.Node) *redblacktree.Node {
	if nil != node.Right {
		node = node.Right
		for nil != node.Left {
			node = node.Left
		}
		return node
	}
	for nil != node.Parent && node == node.Parent.Right {
		node = node.Parent
	}
	return node.Parent
}

func (h *heads) size() int {
	h.RLock()
	defer h.RUnlock()
	return h.index.Size()
}
