// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mpt

import (
	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
)

// Kind - node variant
type Kind uint8

// node variants
const (
	Nil Kind = iota
	Full
	Short
	Hash
	Value
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "Nil"
	case Full:
		return "Full"
	case Short:
		return "Short"
	case Hash:
		return "Hash"
	case Value:
		return "Value"
	default:
		return "Unknown"
	}
}

// number of slots in a full node, the last is the value slot
const (
	branches  = 16
	fullSlots = branches + 1
)

// Node - one trie node, fields used depend on Kind
//
//   Full:  Count, Children (0..15 Hash or Nil, 16 Value or Nil)
//   Short: Count, Key, Child (Value or Hash)
//   Hash:  Target
//   Value: Value
type Node struct {
	Kind     Kind
	Count    uint64
	Key      []byte
	Children [fullSlots]*Node
	Child    *Node
	Target   digest.Digest
	Value    []byte
}

var (
	nilNode  = &Node{Kind: Nil}
	nilChunk = chunk.New(chunk.MPTNil, nil)
)

// NilHash - root of the empty trie
var NilHash = nilChunk.Hash()

// NewValue - leaf node
func NewValue(value []byte) *Node {
	return &Node{
		Kind:  Value,
		Value: value,
	}
}

// NewHash - reference to a stored node
func NewHash(target digest.Digest) *Node {
	if NilHash == target {
		return nilNode
	}
	return &Node{
		Kind:   Hash,
		Target: target,
	}
}

// number of values under a resolved node
func (n *Node) count() uint64 {
	switch n.Kind {
	case Full, Short:
		return n.Count
	case Value:
		return 1
	default:
		return 0
	}
}

// Encode - serialise to a chunk
func (n *Node) Encode() *chunk.Chunk {
	switch n.Kind {
	case Full:
		w := chunk.NewWriter(chunk.MPTFull).Uint64(n.Count)
		for i := 0; i < branches; i += 1 {
			target := NilHash
			if child := n.Children[i]; nil != child && Hash == child.Kind {
				target = child.Target
			}
			w.Embed(chunk.NewWriter(chunk.MPTHash).Digest(target).Chunk())
		}
		if slot := n.Children[Terminator]; nil != slot && Value == slot.Kind {
			w.Embed(slot.Encode())
		} else {
			w.Embed(nilChunk)
		}
		return w.Chunk()

	case Short:
		return chunk.NewWriter(chunk.MPTShort).
			Uint64(n.Count).
			Bytes(n.Key).
			Embed(n.Child.Encode()).
			Chunk()

	case Hash:
		return chunk.NewWriter(chunk.MPTHash).Digest(n.Target).Chunk()

	case Value:
		return chunk.New(chunk.MPTValue, n.Value)

	default:
		return nilChunk
	}
}

// Decode - parse a node chunk
//
// embedded children come back as Hash, Value or Nil nodes
func Decode(c *chunk.Chunk) (*Node, error) {
	if c.IsEmpty() {
		return nil, fault.ErrInvalidTrieNode
	}
	r := c.Reader()

	switch c.Type() {
	case chunk.MPTNil:
		if err := r.Done(); nil != err {
			return nil, err
		}
		return nilNode, nil

	case chunk.MPTValue:
		value := make([]byte, len(c.Payload()))
		copy(value, c.Payload())
		return NewValue(value), nil

	case chunk.MPTHash:
		d, err := r.Digest()
		if nil != err {
			return nil, err
		}
		if err := r.Done(); nil != err {
			return nil, err
		}
		return NewHash(d), nil

	case chunk.MPTFull:
		count, err := r.Uint64()
		if nil != err {
			return nil, err
		}
		n := &Node{
			Kind:  Full,
			Count: count,
		}
		for i := 0; i < fullSlots; i += 1 {
			embedded, err := r.Embedded()
			if nil != err {
				return nil, err
			}
			child, err := Decode(embedded)
			if nil != err {
				return nil, err
			}
			if i < branches && Hash != child.Kind && Nil != child.Kind {
				return nil, fault.ErrInvalidTrieNode
			}
			if Terminator == i && Value != child.Kind && Nil != child.Kind {
				return nil, fault.ErrInvalidTrieNode
			}
			n.Children[i] = child
		}
		if err := r.Done(); nil != err {
			return nil, err
		}
		return n, nil

	case chunk.MPTShort:
		count, err := r.Uint64()
		if nil != err {
			return nil, err
		}
		key, err := r.Bytes()
		if nil != err {
			return nil, err
		}
		if 0 == len(key) {
			return nil, fault.ErrInvalidTrieNode
		}
		for _, nibble := range key {
			if nibble > Terminator {
				return nil, fault.ErrInvalidNibble
			}
		}
		embedded, err := r.Embedded()
		if nil != err {
			return nil, err
		}
		child, err := Decode(embedded)
		if nil != err {
			return nil, err
		}
		if Value != child.Kind && Hash != child.Kind {
			return nil, fault.ErrInvalidTrieNode
		}
		if err := r.Done(); nil != err {
			return nil, err
		}
		return &Node{
			Kind:  Short,
			Count: count,
			Key:   key,
			Child: child,
		}, nil

	default:
		return nil, fault.ErrUnexpectedChunkType
	}
}
