// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest

import (
	"bytes"
	"encoding/base32"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/bitmark-inc/ledgerdb/fault"
)

// Length - number of bytes in the digest
const Length = 20

// TextLength - number of characters in the base32 form
const TextLength = 32

// Digest - truncated BLAKE2b-512 of a byte span
//
// the zero value means "no digest", use Nil for the hash of empty input
type Digest [Length]byte

// Nil - digest of the empty input
var Nil = NewDigest(nil)

// RFC 4648 alphabet, a digest is exactly 160 bits so never padded
var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewDigest - create a digest from a byte slice
func NewDigest(record []byte) Digest {
	full := blake2b.Sum512(record)
	var d Digest
	copy(d[:], full[:Length])
	return d
}

// Sum - digest of the concatenation of all parts
func Sum(parts ...[]byte) Digest {
	h, _ := blake2b.New512(nil) // only fails for an oversized key
	for _, p := range parts {
		h.Write(p)
	}
	var d Digest
	copy(d[:], h.Sum(nil)[:Length])
	return d
}

// Pair - digest of left || right, used for tree parents
func Pair(left Digest, right Digest) Digest {
	return Sum(left[:], right[:])
}

// Single - digest of a lone child
func Single(child Digest) Digest {
	return NewDigest(child[:])
}

// IsZero - true for the absent digest
func (digest Digest) IsZero() bool {
	return digest == Digest{}
}

// Bytes - copy of the digest as a slice
func (digest Digest) Bytes() []byte {
	b := make([]byte, Length)
	copy(b, digest[:])
	return b
}

// Compare - byte lexicographic ordering
func (digest Digest) Compare(other Digest) int {
	return bytes.Compare(digest[:], other[:])
}

// String - base32 text for use by the fmt package (for %s)
func (digest Digest) String() string {
	return encoding.EncodeToString(digest[:])
}

// GoString - base32 text for use by the fmt package (for %#v)
func (digest Digest) GoString() string {
	return "<BLAKE2b-160:" + digest.String() + ">"
}

// Scan - convert base32 text to a digest for use by the fmt package scan routines
func (digest *Digest) Scan(state fmt.ScanState, verb rune) error {
	token, err := state.Token(true, func(c rune) bool {
		if c >= 'A' && c <= 'Z' {
			return true
		}
		if c >= '2' && c <= '7' {
			return true
		}
		return false
	})
	if nil != err {
		return err
	}
	return digest.UnmarshalText(token)
}

// MarshalText - convert digest to base32 text
func (digest Digest) MarshalText() ([]byte, error) {
	buffer := make([]byte, TextLength)
	encoding.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - convert base32 text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	if TextLength != len(s) {
		return fault.ErrInvalidDigestText
	}
	buffer := make([]byte, encoding.DecodedLen(len(s)))
	n, err := encoding.Decode(buffer, s)
	if nil != err || Length != n {
		return fault.ErrInvalidDigestText
	}
	copy(digest[:], buffer)
	return nil
}

// FromBase32 - parse text form, empty text gives the zero digest
func FromBase32(s string) (Digest, error) {
	var d Digest
	if "" == s {
		return d, nil
	}
	err := d.UnmarshalText([]byte(s))
	return d, err
}

// FromBytes - convert and validate a binary byte slice to a digest
func FromBytes(digest *Digest, buffer []byte) error {
	if Length != len(buffer) {
		return fault.ErrDigestLength
	}
	copy(digest[:], buffer)
	return nil
}
