// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package skiplist - persistent per key version index
//
// each logical key has its own list, versions in descending order:
//
//   skiplist_<key>|head       sentinel with MaxLevel forward links
//   skiplist_<key>|<version>  one node per version
//
// forward links hold version numbers, -1 ends a level
package skiplist
