// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mpt

import (
	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/storage"
)

// Trie - a trie rooted at one hash
//
// a Trie is not safe for concurrent mutation
type Trie struct {
	store storage.Store
	root  *Node
	hash  digest.Digest
}

// New - empty trie
func New(store storage.Store) *Trie {
	return &Trie{
		store: store,
		root:  nilNode,
		hash:  NilHash,
	}
}

// Open - trie at an existing root
func Open(store storage.Store, root digest.Digest) (*Trie, error) {
	t := New(store)
	if NilHash == root || root.IsZero() {
		return t, nil
	}
	n, err := t.load(root, nil)
	if nil != err {
		return nil, err
	}
	t.root = n
	t.hash = root
	return t, nil
}

// Root - hash of the root node
func (t *Trie) Root() digest.Digest {
	return t.hash
}

// Count - number of keys
func (t *Trie) Count() uint64 {
	return t.root.count()
}

// Get - value stored for a key
func (t *Trie) Get(key []byte) ([]byte, bool, error) {
	nibbles := KeyToNibbles(key)
	n := t.root
	pos := 0
	for {
		switch n.Kind {
		case Full:
			if pos >= len(nibbles) {
				return nil, false, fault.ErrInvalidTrieNode
			}
			index := nibbles[pos]
			pos += 1
			child := n.Children[index]
			if Terminator == index {
				if Value == child.Kind {
					return child.Value, true, nil
				}
				return nil, false, nil
			}
			next, err := t.resolve(child, nil)
			if nil != err {
				return nil, false, err
			}
			n = next

		case Short:
			if !hasPrefix(nibbles[pos:], n.Key) {
				return nil, false, nil
			}
			pos += len(n.Key)
			if Value == n.Child.Kind {
				return n.Child.Value, true, nil
			}
			next, err := t.resolve(n.Child, nil)
			if nil != err {
				return nil, false, err
			}
			n = next

		default:
			return nil, false, nil
		}
	}
}

// Set - insert or replace a batch of keys and persist the new nodes
func (t *Trie) Set(keys [][]byte, values [][]byte) (digest.Digest, error) {
	if len(keys) != len(values) {
		return digest.Digest{}, fault.ErrKeyValueCountMismatch
	}
	if 0 == len(keys) {
		return t.hash, nil
	}

	d := newDelta()
	root := t.root
	for i, key := range keys {
		n, err := t.insert(root, KeyToNibbles(key), NewValue(values[i]), d)
		if nil != err {
			return digest.Digest{}, err
		}
		root = n
	}
	return t.commit(root, d)
}

// rebuild the path to the key, siblings are kept by reference
//
// the result is a resolved node: Full, Short, Value or Nil
func (t *Trie) insert(n *Node, key []byte, value *Node, d *delta) (*Node, error) {
	if 0 == len(key) {
		return value, nil
	}

	switch n.Kind {
	case Nil:
		return t.newShort(key, value, d), nil

	case Hash:
		resolved, err := t.resolve(n, d)
		if nil != err {
			return nil, err
		}
		return t.insert(resolved, key, value, d)

	case Full:
		index := key[0]
		if index > Terminator {
			return nil, fault.ErrInvalidNibble
		}
		old, err := t.resolve(n.Children[index], d)
		if nil != err {
			return nil, err
		}
		child, err := t.insert(old, key[1:], value, d)
		if nil != err {
			return nil, err
		}
		return t.replaceChild(n, int(index), old, child, d), nil

	case Short:
		match := prefixLength(key, n.Key)
		if match == len(n.Key) {
			old, err := t.resolve(n.Child, d)
			if nil != err {
				return nil, err
			}
			child, err := t.insert(old, key[match:], value, d)
			if nil != err {
				return nil, err
			}
			return t.newShort(n.Key, child, d), nil
		}
		if match >= len(key) {
			return nil, fault.ErrInvalidTrieNode
		}

		// split at the first differing nibble
		old, err := t.resolve(n.Child, d)
		if nil != err {
			return nil, err
		}
		branch := &Node{Kind: Full}
		for i := range branch.Children {
			branch.Children[i] = nilNode
		}
		oldBranch, err := t.insert(nilNode, n.Key[match+1:], old, d)
		if nil != err {
			return nil, err
		}
		newBranch, err := t.insert(nilNode, key[match+1:], value, d)
		if nil != err {
			return nil, err
		}
		branch = t.replaceChild(branch, int(n.Key[match]), nilNode, oldBranch, d)
		branch = t.replaceChild(branch, int(key[match]), nilNode, newBranch, d)

		if 0 == match {
			return branch, nil
		}
		return t.newShort(key[:match], branch, d), nil

	default:
		return nil, fault.ErrInvalidTrieNode
	}
}

// copy of a full node with one slot replaced, counts adjusted
func (t *Trie) replaceChild(n *Node, index int, old *Node, child *Node, d *delta) *Node {
	full := &Node{
		Kind:     Full,
		Count:    n.Count - old.count() + child.count(),
		Children: n.Children,
	}
	if Terminator == index {
		full.Children[index] = child
	} else {
		full.Children[index] = t.reference(child, d)
	}
	return full
}

// short node over a resolved child
func (t *Trie) newShort(key []byte, child *Node, d *delta) *Node {
	k := make([]byte, len(key))
	copy(k, key)
	return &Node{
		Kind:  Short,
		Count: child.count(),
		Key:   k,
		Child: t.reference(child, d),
	}
}

// embeddable form of a resolved node
//
// values embed directly, Full and Short are stored in the delta
func (t *Trie) reference(n *Node, d *delta) *Node {
	switch n.Kind {
	case Full, Short:
		c := n.Encode()
		d.add(c)
		return NewHash(c.Hash())
	default:
		return n
	}
}

// turn a reference into the node it points at
func (t *Trie) resolve(n *Node, d *delta) (*Node, error) {
	if nil == n {
		return nilNode, nil
	}
	if Hash != n.Kind {
		return n, nil
	}
	return t.load(n.Target, d)
}

func (t *Trie) load(target digest.Digest, d *delta) (*Node, error) {
	if NilHash == target {
		return nilNode, nil
	}
	if nil != d {
		if c, ok := d.dirty[target]; ok {
			return Decode(c)
		}
	}
	c, err := t.store.GetByHash(target)
	if nil != err {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, fault.ErrDanglingHashReference
	}
	return Decode(c)
}

// write the nodes reachable from the new root and switch to it
func (t *Trie) commit(root *Node, d *delta) (digest.Digest, error) {
	rootChunk := root.Encode()
	hash := rootChunk.Hash()
	if Full == root.Kind || Short == root.Kind {
		d.add(rootChunk)
	}

	if err := d.write(t.store, hash); nil != err {
		return digest.Digest{}, err
	}

	t.root = root
	t.hash = hash
	return hash, nil
}

// delta - nodes created by one batch, keyed by hash
type delta struct {
	dirty map[digest.Digest]*chunk.Chunk
}

func newDelta() *delta {
	return &delta{
		dirty: make(map[digest.Digest]*chunk.Chunk),
	}
}

func (d *delta) add(c *chunk.Chunk) {
	h := c.Hash()
	if _, ok := d.dirty[h]; !ok {
		d.dirty[h] = c
	}
}

// persist the dirty nodes reachable from root in one batch
//
// nodes superseded by later keys of the same batch are dropped
func (d *delta) write(store storage.Store, root digest.Digest) error {
	batch := store.NewBatch()
	visited := make(map[digest.Digest]struct{})
	pending := []digest.Digest{root}

	for len(pending) > 0 {
		h := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if _, seen := visited[h]; seen {
			continue
		}
		visited[h] = struct{}{}

		c, ok := d.dirty[h]
		if !ok {
			continue
		}
		batch.PutByHash(c)

		n, err := Decode(c)
		if nil != err {
			return err
		}
		switch n.Kind {
		case Full:
			for i := 0; i < branches; i += 1 {
				if Hash == n.Children[i].Kind {
					pending = append(pending, n.Children[i].Target)
				}
			}
		case Short:
			if Hash == n.Child.Kind {
				pending = append(pending, n.Child.Target)
			}
		}
	}

	if 0 == batch.Len() {
		return nil
	}
	return batch.Commit()
}
