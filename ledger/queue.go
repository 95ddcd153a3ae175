// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"sync"

	"github.com/bitmark-inc/ledgerdb/digest"
)

// a persisted block waiting to be folded into a commit
//
// unindexed blocks are indexed again before they are folded
type pending struct {
	block     *Block
	hash      digest.Digest
	unindexed bool
}

// blocks in sequence order, many producers and one consumer
type queue struct {
	sync.Mutex
	items []pending
}

// never blocks on the consumer
func (q *queue) push(item pending) {
	q.Lock()
	q.items = append(q.items, item)
	q.Unlock()
}

// take everything queued so far
func (q *queue) drain() []pending {
	q.Lock()
	items := q.items
	q.items = nil
	q.Unlock()
	return items
}

// put back a drained batch ahead of anything pushed since
func (q *queue) restore(items []pending) {
	if 0 == len(items) {
		return
	}
	q.Lock()
	q.items = append(items, q.items...)
	q.Unlock()
}

func (q *queue) length() int {
	q.Lock()
	defer q.Unlock()
	return len(q.items)
}
