// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkletree

import (
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
)

// sibling positions
const (
	Left  uint8 = 0
	Right uint8 = 1
)

// Proof - path from a leaf to a root
//
// a zero sibling with position Right is a level where the node
// had no sibling and was hashed on its own
type Proof struct {
	Digest    digest.Digest   `json:"digest"`
	Value     digest.Digest   `json:"value"`
	Siblings  []digest.Digest `json:"siblings"`
	Positions []uint8         `json:"positions"`
}

// GetProof - proof that leaf seq is included in the root of a commit
//
// tip is the last leaf covered by the commit and rootKey its root
func (t *Tree) GetProof(commit uint64, rootKey string, tip uint64, seq uint64) (*Proof, error) {
	if seq > tip {
		return nil, fault.ErrSequenceOutOfRange
	}
	height, err := RootLevel(rootKey)
	if nil != err {
		return nil, err
	}

	root, err := t.getNode(rootKey)
	if nil != err {
		return nil, err
	}
	value, err := t.getNode(NodeKey(0, seq))
	if nil != err {
		return nil, err
	}

	proof := &Proof{
		Digest:    root,
		Value:     value,
		Siblings:  make([]digest.Digest, 0, height),
		Positions: make([]uint8, 0, height),
	}

	complete := 1 == tip%2
	ptr := seq
	last := tip
	for level := 0; level < height; level += 1 {
		var sibling digest.Digest
		if 0 == ptr%2 {
			if ptr != last {
				key := NodeKey(level, ptr+1)
				if ptr+1 == last && level > 0 && !complete {
					key = CarryKey(level, ptr+1, commit)
				}
				sibling, err = t.getNode(key)
				if nil != err {
					return nil, err
				}
			}
			proof.Positions = append(proof.Positions, Right)
		} else {
			sibling, err = t.getNode(NodeKey(level, ptr-1))
			if nil != err {
				return nil, err
			}
			proof.Positions = append(proof.Positions, Left)
		}
		proof.Siblings = append(proof.Siblings, sibling)

		ptr /= 2
		last /= 2
		complete = complete && 1 == last%2
	}
	return proof, nil
}

// Root - recompute the root from the value and the path
func (p *Proof) Root() digest.Digest {
	current := p.Value
	for i, sibling := range p.Siblings {
		if i >= len(p.Positions) {
			break
		}
		switch {
		case Left == p.Positions[i]:
			current = digest.Pair(sibling, current)
		case !sibling.IsZero():
			current = digest.Pair(current, sibling)
		default:
			current = digest.Single(current)
		}
	}
	return current
}

// Index - leaf position implied by the path
func (p *Proof) Index() uint64 {
	index := uint64(0)
	for i, position := range p.Positions {
		if Left == position {
			index |= 1 << uint(i)
		}
	}
	return index
}

// Verify - check the path leads from the value to the digest
func (p *Proof) Verify() bool {
	if nil == p || len(p.Siblings) != len(p.Positions) {
		return false
	}
	for _, position := range p.Positions {
		if position != Left && position != Right {
			return false
		}
	}
	return p.Root() == p.Digest
}
