// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chunk

import (
	"encoding/binary"

	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
)

// maximum possible number of bytes in a varint
const varintMaximumBytes = 9

// Writer - accumulate a payload then seal it into a chunk
type Writer struct {
	t      Type
	buffer []byte
}

// NewWriter - start a payload for the given chunk type
func NewWriter(t Type) *Writer {
	return &Writer{
		t:      t,
		buffer: make([]byte, 0, 64),
	}
}

// Uint8 - append one byte
func (w *Writer) Uint8(v uint8) *Writer {
	w.buffer = append(w.buffer, v)
	return w
}

// Uint32 - append fixed width big endian value
func (w *Writer) Uint32(v uint32) *Writer {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buffer = append(w.buffer, b[:]...)
	return w
}

// Uint64 - append fixed width big endian value
func (w *Writer) Uint64(v uint64) *Writer {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buffer = append(w.buffer, b[:]...)
	return w
}

// Int64 - append fixed width two's complement value
func (w *Writer) Int64(v int64) *Writer {
	return w.Uint64(uint64(v))
}

// Varint - append a variable length unsigned value
//
// byte 1..8: ext | 7 bits (low bits first)
// byte 9:    8 bits
func (w *Writer) Varint(value uint64) *Writer {
	if value < 0x80 {
		w.buffer = append(w.buffer, byte(value))
		return w
	}
	for i := 0; i < varintMaximumBytes && value != 0; i += 1 {
		ext := uint64(0x80)
		if value < 0x80 {
			ext = 0x00
		}
		w.buffer = append(w.buffer, byte(value|ext))
		value >>= 7
	}
	return w
}

// Bytes - append a varint length prefixed byte string
func (w *Writer) Bytes(b []byte) *Writer {
	w.Varint(uint64(len(b)))
	w.buffer = append(w.buffer, b...)
	return w
}

// Text - append a varint length prefixed string
func (w *Writer) Text(s string) *Writer {
	return w.Bytes([]byte(s))
}

// Digest - append a fixed length digest
func (w *Writer) Digest(d digest.Digest) *Writer {
	w.buffer = append(w.buffer, d[:]...)
	return w
}

// Embed - append a complete chunk, it carries its own length
func (w *Writer) Embed(c *Chunk) *Writer {
	w.buffer = append(w.buffer, c.Bytes()...)
	return w
}

// Chunk - seal the payload
func (w *Writer) Chunk() *Chunk {
	return New(w.t, w.buffer)
}

// Reader - bounds checked sequential access to a payload
//
// every accessor fails with a fault instead of reading past the end
type Reader struct {
	buffer []byte
	offset int
}

// NewReader - reader over a byte slice
func NewReader(buffer []byte) *Reader {
	return &Reader{buffer: buffer}
}

// Remaining - number of unread bytes
func (r *Reader) Remaining() int {
	return len(r.buffer) - r.offset
}

// Done - fail if any bytes are left unread
func (r *Reader) Done() error {
	if 0 != r.Remaining() {
		return fault.ErrTrailingChunkData
	}
	return nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, fault.ErrChunkTruncated
	}
	b := r.buffer[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// Uint8 - read one byte
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.take(1)
	if nil != err {
		return 0, err
	}
	return b[0], nil
}

// Uint32 - read fixed width big endian value
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.take(4)
	if nil != err {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Uint64 - read fixed width big endian value
func (r *Reader) Uint64() (uint64, error) {
	b, err := r.take(8)
	if nil != err {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// Int64 - read fixed width two's complement value
func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Varint - read a variable length unsigned value
func (r *Reader) Varint() (uint64, error) {
	result := uint64(0)
	shift := uint(0)
	for count := 1; count <= varintMaximumBytes; count += 1 {
		b, err := r.take(1)
		if nil != err {
			return 0, err
		}
		currByte := uint64(b[0])
		if count < varintMaximumBytes {
			result |= currByte & 0x7f << shift
			if 0 == currByte&0x80 {
				return result, nil
			}
		} else {
			result |= currByte << shift
			return result, nil
		}
		shift += 7
	}
	return 0, fault.ErrVarintOverflow
}

// Bytes - read a varint length prefixed byte string (copied)
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Varint()
	if nil != err {
		return nil, err
	}
	if n > uint64(r.Remaining()) {
		return nil, fault.ErrChunkTruncated
	}
	b, err := r.take(int(n))
	if nil != err {
		return nil, err
	}
	result := make([]byte, len(b))
	copy(result, b)
	return result, nil
}

// Text - read a varint length prefixed string
func (r *Reader) Text() (string, error) {
	b, err := r.Bytes()
	return string(b), err
}

// Digest - read a fixed length digest
func (r *Reader) Digest() (digest.Digest, error) {
	var d digest.Digest
	b, err := r.take(digest.Length)
	if nil != err {
		return d, err
	}
	copy(d[:], b)
	return d, nil
}

// Embedded - read a complete chunk
func (r *Reader) Embedded() (*Chunk, error) {
	c, n, err := parsePrefix(r.buffer[r.offset:])
	if nil != err {
		return nil, err
	}
	r.offset += n
	return c, nil
}
