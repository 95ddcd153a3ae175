// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mpt

// Terminator - nibble that ends every encoded key
const Terminator = 16

// KeyToNibbles - split a key into nibbles and append the terminator
func KeyToNibbles(key []byte) []byte {
	nibbles := make([]byte, 2*len(key)+1)
	for i, b := range key {
		nibbles[2*i] = b >> 4
		nibbles[2*i+1] = b & 0x0f
	}
	nibbles[len(nibbles)-1] = Terminator
	return nibbles
}

// length of the common prefix of two nibble strings
func prefixLength(a []byte, b []byte) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i += 1
	}
	return i
}

func hasPrefix(s []byte, prefix []byte) bool {
	return len(s) >= len(prefix) && prefixLength(s, prefix) == len(prefix)
}

// concatenate without aliasing either argument
func join(a []byte, b []byte) []byte {
	result := make([]byte, 0, len(a)+len(b))
	result = append(result, a...)
	return append(result, b...)
}
