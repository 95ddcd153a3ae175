// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package merkletree - append only merkle tree over block hashes
//
// nodes are TreeNode chunks stored under logical keys:
//
//   mt<level>-<index>            full node, final once written
//   mt<level>-<index>-<commit>   carry node, valid only for that commit
//
// a lone trailing node at any level is hashed on its own,
// H(x), and the parent is a carry tagged with the commit sequence
// that produced it. once the right sibling arrives a later commit
// writes the untagged full node, so appending leaves one at a time
// gives the same root as appending them in one batch
package merkletree
