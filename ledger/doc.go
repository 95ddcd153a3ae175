// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - tamper evident key value engine
//
// Set appends a write block and indexes its keys in the version skip
// list so reads never wait for the authenticated structures. A build
// cycle folds the queued blocks into the append only merkle tree and
// the trie, then publishes a commit record chained to the previous
// one and a digest pointer naming it.
//
// persisted keys:
//
//   ledger-<block>          Block chunk
//   commit<seq>             Commit chunk
//   digest                  DigestPointer chunk
//   mt<level>-<index>[-<commit>]  merkle tree nodes
//   skiplist_<key>|<version>      version index
//   <20 byte hash>          trie nodes
package ledger
