// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mpt

import (
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
)

// Remove - delete a batch of keys, absent keys are ignored
//
// a full node left with one child becomes a short node and short
// nodes that end up adjacent are merged, so the result has the same
// shape as a trie built from the remaining keys
func (t *Trie) Remove(keys [][]byte) (digest.Digest, error) {
	if 0 == len(keys) {
		return t.hash, nil
	}

	d := newDelta()
	root := t.root
	for _, key := range keys {
		n, err := t.remove(root, KeyToNibbles(key), d)
		if nil != err {
			return digest.Digest{}, err
		}
		root = n
	}
	return t.commit(root, d)
}

// returns n itself when nothing below it changed
func (t *Trie) remove(n *Node, key []byte, d *delta) (*Node, error) {
	if 0 == len(key) {
		return nilNode, nil
	}

	switch n.Kind {
	case Hash:
		resolved, err := t.resolve(n, d)
		if nil != err {
			return nil, err
		}
		return t.remove(resolved, key, d)

	case Full:
		index := key[0]
		if index > Terminator {
			return nil, fault.ErrInvalidNibble
		}
		old, err := t.resolve(n.Children[index], d)
		if nil != err {
			return nil, err
		}
		child, err := t.remove(old, key[1:], d)
		if nil != err {
			return nil, err
		}
		if child == old {
			return n, nil
		}
		return t.collapse(t.replaceChild(n, int(index), old, child, d), d)

	case Short:
		if !hasPrefix(key, n.Key) {
			return n, nil
		}
		if Value == n.Child.Kind {
			return nilNode, nil
		}
		old, err := t.resolve(n.Child, d)
		if nil != err {
			return nil, err
		}
		child, err := t.remove(old, key[len(n.Key):], d)
		if nil != err {
			return nil, err
		}
		if child == old {
			return n, nil
		}
		switch child.Kind {
		case Nil:
			return nilNode, nil
		case Short:
			return &Node{
				Kind:  Short,
				Count: child.Count,
				Key:   join(n.Key, child.Key),
				Child: child.Child,
			}, nil
		default:
			return t.newShort(n.Key, child, d), nil
		}

	default:
		return n, nil
	}
}

// rewrite a full node that has at most one child left
func (t *Trie) collapse(full *Node, d *delta) (*Node, error) {
	last := -1
	for i, child := range full.Children {
		if Nil == child.Kind {
			continue
		}
		if last >= 0 {
			return full, nil
		}
		last = i
	}

	switch {
	case last < 0:
		return nilNode, nil

	case Terminator == last:
		return &Node{
			Kind:  Short,
			Count: 1,
			Key:   []byte{Terminator},
			Child: full.Children[Terminator],
		}, nil
	}

	child, err := t.resolve(full.Children[last], d)
	if nil != err {
		return nil, err
	}
	if Short == child.Kind {
		return &Node{
			Kind:  Short,
			Count: child.Count,
			Key:   join([]byte{byte(last)}, child.Key),
			Child: child.Child,
		}, nil
	}
	return &Node{
		Kind:  Short,
		Count: child.count(),
		Key:   []byte{byte(last)},
		Child: full.Children[last],
	}, nil
}
