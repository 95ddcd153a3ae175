// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - chunk store over LevelDB
//
// every value in the database is one chunk (see package chunk)
// stored under either a logical key or the raw bytes of its own hash
//
// Logical key namespaces:
//
//   ledger-<blk>                   - write block
//   mt<level>-<index>[-<carry>]    - merkle tree node
//   commit<seq>                    - commit record
//   digest                         - published tip pointer
//   skiplist_<key>|<version>       - version index node
//   skiplist_<key>|head            - version index head
//
// Hash addressed:
//
//   <20 byte digest>               - trie node, content never changes
//
// Two caches shadow the database: logical keys expire and are
// invalidated on every Put to the same key, hash addressed chunks
// are held in a bounded LRU and never invalidated.
package storage
