// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkletree

import (
	"math/bits"

	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
)

// Node - a full node with its position
type Node struct {
	Level int           `json:"level"`
	Index uint64        `json:"index"`
	Hash  digest.Digest `json:"hash"`
}

// FrontierPositions - full nodes an Update starting at leaf n reads
//
// one node per set bit of n, lowest level first
func FrontierPositions(n uint64) []Node {
	nodes := make([]Node, 0, bits.OnesCount64(n))
	for level := 0; level < 64; level += 1 {
		if 0 != n&(1<<uint(level)) {
			nodes = append(nodes, Node{
				Level: level,
				Index: (n >> uint(level)) - 1,
			})
		}
	}
	return nodes
}

// Frontier - read the frontier for n leaves from the store
func (t *Tree) Frontier(n uint64) ([]Node, error) {
	nodes := FrontierPositions(n)
	for i := range nodes {
		d, err := t.getNode(NodeKey(nodes[i].Level, nodes[i].Index))
		if nil != err {
			return nil, err
		}
		nodes[i].Hash = d
	}
	return nodes, nil
}

// Seed - write frontier nodes so that Update(n, ...) can continue
func (t *Tree) Seed(frontier []Node) error {
	if 0 == len(frontier) {
		return nil
	}
	batch := t.store.NewBatch()
	for _, node := range frontier {
		batch.Put([]byte(NodeKey(node.Level, node.Index)), encodeNode(node.Hash))
	}
	return batch.Commit()
}

// RootFromFrontier - root of the first n leaves computed only from
// the frontier, equal to the root Update returned when leaf n-1 was
// the tip
func RootFromFrontier(n uint64, frontier []Node) (digest.Digest, error) {
	expected := FrontierPositions(n)
	if len(expected) != len(frontier) {
		return digest.Digest{}, fault.ErrInvalidFrontier
	}
	for i, node := range frontier {
		if node.Level != expected[i].Level || node.Index != expected[i].Index {
			return digest.Digest{}, fault.ErrInvalidFrontier
		}
	}
	if 0 == n {
		return digest.Digest{}, nil
	}

	highest := bits.Len64(n) - 1
	next := 0
	var carry digest.Digest
	hasCarry := false

	for level := 0; ; level += 1 {
		elements := make([]digest.Digest, 0, 2)
		if next < len(frontier) && frontier[next].Level == level {
			elements = append(elements, frontier[next].Hash)
			next += 1
		}
		if hasCarry {
			elements = append(elements, carry)
		}

		switch len(elements) {
		case 2:
			carry = digest.Pair(elements[0], elements[1])
			hasCarry = true
		case 1:
			if level >= highest {
				return elements[0], nil
			}
			carry = digest.Single(elements[0])
			hasCarry = true
		}
	}
}
