// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mpt

import (
	"bytes"

	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
)

// Proof - the nodes on the path from the root towards a key
//
// Positions holds the branch taken at each Full node and zero for a
// Short node. for an absent key the last node shows the divergence
type Proof struct {
	Value     []byte   `json:"value"`
	Nodes     [][]byte `json:"nodes"`
	Positions []uint8  `json:"positions"`
}

// GetProof - membership or non-membership proof for a key
func (t *Trie) GetProof(key []byte) (*Proof, error) {
	nibbles := KeyToNibbles(key)
	proof := &Proof{
		Nodes:     make([][]byte, 0, 8),
		Positions: make([]uint8, 0, 8),
	}

	c := t.root.Encode()
	n := t.root
	pos := 0
	for {
		switch n.Kind {
		case Full:
			if pos >= len(nibbles) {
				return nil, fault.ErrInvalidTrieNode
			}
			index := nibbles[pos]
			pos += 1
			proof.add(c, index)

			child := n.Children[index]
			if Value == child.Kind {
				proof.Value = child.Value
				return proof, nil
			}
			if Hash != child.Kind {
				return proof, nil
			}
			next, err := t.fetch(child.Target)
			if nil != err {
				return nil, err
			}
			c = next

		case Short:
			proof.add(c, 0)
			if !hasPrefix(nibbles[pos:], n.Key) {
				return proof, nil
			}
			pos += len(n.Key)
			if Value == n.Child.Kind {
				proof.Value = n.Child.Value
				return proof, nil
			}
			next, err := t.fetch(n.Child.Target)
			if nil != err {
				return nil, err
			}
			c = next

		default:
			// empty trie
			proof.add(c, 0)
			return proof, nil
		}

		decoded, err := Decode(c)
		if nil != err {
			return nil, err
		}
		n = decoded
	}
}

func (t *Trie) fetch(target digest.Digest) (*chunk.Chunk, error) {
	c, err := t.store.GetByHash(target)
	if nil != err {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, fault.ErrDanglingHashReference
	}
	return c, nil
}

// nodes are copied, the store may share the chunk bytes
func (p *Proof) add(c *chunk.Chunk, position uint8) {
	p.Nodes = append(p.Nodes, append([]byte{}, c.Bytes()...))
	p.Positions = append(p.Positions, position)
}

// Verify - check the proof against a root and return the proven value
//
// found is false for a valid non-membership proof; any hash that does
// not chain from the root gives an integrity error
func (p *Proof) Verify(root digest.Digest, key []byte) ([]byte, bool, error) {
	if nil == p || 0 == len(p.Nodes) || len(p.Nodes) != len(p.Positions) {
		return nil, false, fault.ErrMPTProofMalformed
	}

	value, found, err := p.walk(root, KeyToNibbles(key))
	if nil != err {
		return nil, false, err
	}
	if found && !bytes.Equal(value, p.Value) {
		return nil, false, fault.ErrMPTProofValueMismatch
	}
	if !found && 0 != len(p.Value) {
		return nil, false, fault.ErrMPTProofValueMismatch
	}
	return value, found, nil
}

func (p *Proof) walk(root digest.Digest, nibbles []byte) ([]byte, bool, error) {
	target := root
	pos := 0
	last := len(p.Nodes) - 1

	for i, raw := range p.Nodes {
		c, err := chunk.Parse(raw)
		if nil != err {
			return nil, false, fault.ErrMPTProofMalformed
		}
		if c.Hash() != target {
			return nil, false, fault.ErrMPTProofHashMismatch
		}
		n, err := Decode(c)
		if nil != err {
			return nil, false, fault.ErrMPTProofMalformed
		}

		switch n.Kind {
		case Nil:
			if i != last || 0 != p.Positions[i] {
				return nil, false, fault.ErrMPTProofMalformed
			}
			return nil, false, nil

		case Full:
			if pos >= len(nibbles) || nibbles[pos] != p.Positions[i] {
				return nil, false, fault.ErrMPTProofMalformed
			}
			child := n.Children[nibbles[pos]]
			pos += 1

			switch child.Kind {
			case Value:
				if i != last {
					return nil, false, fault.ErrMPTProofMalformed
				}
				return child.Value, true, nil
			case Nil:
				if i != last {
					return nil, false, fault.ErrMPTProofMalformed
				}
				return nil, false, nil
			}
			target = child.Target

		case Short:
			if 0 != p.Positions[i] {
				return nil, false, fault.ErrMPTProofMalformed
			}
			if !hasPrefix(nibbles[pos:], n.Key) {
				if i != last {
					return nil, false, fault.ErrMPTProofMalformed
				}
				return nil, false, nil
			}
			pos += len(n.Key)

			if Value == n.Child.Kind {
				if i != last || pos != len(nibbles) {
					return nil, false, fault.ErrMPTProofMalformed
				}
				return n.Child.Value, true, nil
			}
			target = n.Child.Target

		default:
			return nil, false, fault.ErrMPTProofMalformed
		}
	}

	// ran out of nodes before reaching a value or a divergence
	return nil, false, fault.ErrMPTProofMalformed
}

// VerifyProof - true if the proof is consistent with the root
//
// a valid non-membership proof also verifies
func VerifyProof(root digest.Digest, key []byte, proof *Proof) bool {
	_, _, err := proof.Verify(root, key)
	return nil == err
}
