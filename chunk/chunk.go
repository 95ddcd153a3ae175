// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chunk

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
)

// Type - tag stored in the chunk header
type Type uint8

// chunk types - values are persisted, append only
const (
	MPTFull Type = iota
	MPTShort
	MPTHash
	MPTValue
	MPTNil
	Block
	Commit
	DigestPointer
	TreeNode
	SkipNode
	VersionValue
	typeLimit
)

// header: | u32 total length | u8 type |
const (
	lengthBytes  = 4
	HeaderLength = lengthBytes + 1
)

var typeNames = [...]string{
	MPTFull:       "MPTFull",
	MPTShort:      "MPTShort",
	MPTHash:       "MPTHash",
	MPTValue:      "MPTValue",
	MPTNil:        "MPTNil",
	Block:         "Block",
	Commit:        "Commit",
	DigestPointer: "DigestPointer",
	TreeNode:      "TreeNode",
	SkipNode:      "SkipNode",
	VersionValue:  "VersionValue",
}

// String - name of the type for logs
func (t Type) String() string {
	if t < typeLimit {
		return typeNames[t]
	}
	return "Unknown"
}

// Valid - check the type is one of the defined tags
func (t Type) Valid() bool {
	return t < typeLimit
}

// Chunk - immutable typed binary record
//
// a nil or zero length chunk is the "absent" value
type Chunk struct {
	data []byte

	once sync.Once
	hash digest.Digest
}

// Empty - the absent chunk
func Empty() *Chunk {
	return &Chunk{}
}

// New - create a chunk from a type and a payload
func New(t Type, payload []byte) *Chunk {
	data := make([]byte, HeaderLength+len(payload))
	binary.BigEndian.PutUint32(data, uint32(len(data)))
	data[lengthBytes] = byte(t)
	copy(data[HeaderLength:], payload)
	return &Chunk{data: data}
}

// Parse - validate a header and wrap the bytes
//
// an empty buffer gives the empty chunk, the buffer is not copied
func Parse(data []byte) (*Chunk, error) {
	if 0 == len(data) {
		return Empty(), nil
	}
	c, n, err := parsePrefix(data)
	if nil != err {
		return nil, err
	}
	if n != len(data) {
		return nil, fault.ErrChunkLengthMismatch
	}
	return c, nil
}

// read one chunk from the front of a buffer and return its length
func parsePrefix(data []byte) (*Chunk, int, error) {
	if len(data) < HeaderLength {
		return nil, 0, fault.ErrChunkTruncated
	}
	n := binary.BigEndian.Uint32(data)
	if n < HeaderLength {
		return nil, 0, fault.ErrChunkLengthMismatch
	}
	if uint64(n) > uint64(len(data)) {
		return nil, 0, fault.ErrChunkTruncated
	}
	if !Type(data[lengthBytes]).Valid() {
		return nil, 0, fault.ErrInvalidChunkType
	}
	return &Chunk{data: data[:n:n]}, int(n), nil
}

// IsEmpty - true for the absent chunk
func (c *Chunk) IsEmpty() bool {
	return nil == c || 0 == len(c.data)
}

// Type - the header tag, only meaningful for a non-empty chunk
func (c *Chunk) Type() Type {
	if c.IsEmpty() {
		return typeLimit
	}
	return Type(c.data[lengthBytes])
}

// Is - check for non-empty chunk of the given type
func (c *Chunk) Is(t Type) bool {
	return !c.IsEmpty() && c.Type() == t
}

// Len - total encoded length including the header
func (c *Chunk) Len() int {
	if nil == c {
		return 0
	}
	return len(c.data)
}

// Bytes - the complete encoding, must not be modified
func (c *Chunk) Bytes() []byte {
	if nil == c {
		return nil
	}
	return c.data
}

// Payload - encoding after the header, must not be modified
func (c *Chunk) Payload() []byte {
	if c.IsEmpty() {
		return nil
	}
	return c.data[HeaderLength:]
}

// Hash - digest of the complete encoding, computed once
func (c *Chunk) Hash() digest.Digest {
	if c.IsEmpty() {
		return digest.Nil
	}
	c.once.Do(func() {
		c.hash = digest.NewDigest(c.data)
	})
	return c.hash
}

// Reader - bounds checked reader over the payload
func (c *Chunk) Reader() *Reader {
	return NewReader(c.Payload())
}

// Expect - return a reader if the chunk has the expected type
func (c *Chunk) Expect(t Type) (*Reader, error) {
	if c.IsEmpty() || c.Type() != t {
		return nil, fault.ErrUnexpectedChunkType
	}
	return c.Reader(), nil
}
