// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mpt - merkle patricia trie over hex nibble keys
//
// a key is split into nibbles, high half first, and terminated by
// the nibble 16 so no key is a prefix of another. nodes are one of:
//
//   Full   16 branches by nibble plus a value slot (index 16)
//   Short  a compressed edge with one child
//   Hash   reference to a stored node by its chunk hash
//   Value  leaf payload
//   Nil    empty subtree
//
// Full and Short nodes are stored under the hash of their encoding,
// Value nodes are always embedded in their parent. the shape of the
// trie depends only on the set of keys, so the root is the same for
// any insertion order
package mpt
