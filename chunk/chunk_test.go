// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chunk_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
)

func TestNewChunkLayout(t *testing.T) {
	c := chunk.New(chunk.MPTValue, []byte("abc"))

	expected := []byte{0x00, 0x00, 0x00, 0x08, byte(chunk.MPTValue), 'a', 'b', 'c'}
	assert.Equal(t, expected, c.Bytes(), "encoding")
	assert.Equal(t, 8, c.Len(), "length")
	assert.Equal(t, chunk.MPTValue, c.Type(), "type")
	assert.Equal(t, []byte("abc"), c.Payload(), "payload")
	assert.Equal(t, digest.NewDigest(expected), c.Hash(), "hash")
	assert.True(t, c.Is(chunk.MPTValue))
	assert.False(t, c.Is(chunk.MPTNil))
}

func TestEmptyChunk(t *testing.T) {
	var nilChunk *chunk.Chunk
	assert.True(t, nilChunk.IsEmpty(), "nil chunk")
	assert.True(t, chunk.Empty().IsEmpty(), "empty chunk")
	assert.Equal(t, 0, nilChunk.Len())
	assert.Nil(t, chunk.Empty().Payload())

	c, err := chunk.Parse(nil)
	assert.Nil(t, err, "parse empty")
	assert.True(t, c.IsEmpty(), "parsed empty")

	_, err = chunk.Empty().Expect(chunk.Block)
	assert.Equal(t, fault.ErrUnexpectedChunkType, err)
}

func TestParse(t *testing.T) {
	original := chunk.New(chunk.Commit, []byte("payload"))

	c, err := chunk.Parse(original.Bytes())
	assert.Nil(t, err, "parse")
	assert.Equal(t, original.Bytes(), c.Bytes())
	assert.Equal(t, original.Hash(), c.Hash())

	items := []struct {
		data []byte
		err  error
	}{
		{[]byte{0x00, 0x00}, fault.ErrChunkTruncated},
		{[]byte{0x00, 0x00, 0x00, 0x09, byte(chunk.Block), 1, 2}, fault.ErrChunkTruncated},
		{[]byte{0x00, 0x00, 0x00, 0x02, byte(chunk.Block)}, fault.ErrChunkLengthMismatch},
		{[]byte{0x00, 0x00, 0x00, 0x05, 0xee}, fault.ErrInvalidChunkType},
		{append(original.Bytes(), 0x00), fault.ErrChunkLengthMismatch},
	}
	for i, item := range items {
		_, err := chunk.Parse(item.data)
		assert.Equal(t, item.err, err, "%d: parse %x", i, item.data)
	}
}

var varintTests = []struct {
	value   uint64
	encoded []byte
}{
	{0, []byte{0x00}},
	{1, []byte{0x01}},
	{127, []byte{0x7f}},
	{128, []byte{0x80, 0x01}},
	{137, []byte{0x89, 0x01}},
	{255, []byte{0xff, 0x01}},
	{256, []byte{0x80, 0x02}},
	{16383, []byte{0xff, 0x7f}},
	{16384, []byte{0x80, 0x80, 0x01}},
	{0x7fffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}},
	{0x8000000000000000, []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80}},
	{0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
}

func TestVarint(t *testing.T) {
	for i, item := range varintTests {
		c := chunk.NewWriter(chunk.TreeNode).Varint(item.value).Chunk()
		if !bytes.Equal(c.Payload(), item.encoded) {
			t.Errorf("%d: Varint(%x) -> %x  expected: %x", i, item.value, c.Payload(), item.encoded)
		}

		r := chunk.NewReader(item.encoded)
		value, err := r.Varint()
		assert.Nil(t, err, "%d: read error", i)
		assert.Equal(t, item.value, value, "%d: value", i)
		assert.Nil(t, r.Done(), "%d: trailing", i)
	}
}

func TestTruncatedVarint(t *testing.T) {
	for i, b := range [][]byte{
		{},
		{0x80},
		{0xff},
		{0x80, 0x80},
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	} {
		_, err := chunk.NewReader(b).Varint()
		assert.Equal(t, fault.ErrChunkTruncated, err, "%d: %x", i, b)
	}
}

func TestWriterReader(t *testing.T) {
	d := digest.NewDigest([]byte("inner"))
	inner := chunk.New(chunk.MPTHash, d[:])

	c := chunk.NewWriter(chunk.SkipNode).
		Uint8(7).
		Uint32(0x01020304).
		Uint64(0x1122334455667788).
		Int64(-1).
		Bytes([]byte("bytes")).
		Text("text").
		Digest(d).
		Embed(inner).
		Chunk()

	r, err := c.Expect(chunk.SkipNode)
	assert.Nil(t, err, "expect")

	u8, err := r.Uint8()
	assert.Nil(t, err)
	assert.Equal(t, uint8(7), u8)

	u32, err := r.Uint32()
	assert.Nil(t, err)
	assert.Equal(t, uint32(0x01020304), u32)

	u64, err := r.Uint64()
	assert.Nil(t, err)
	assert.Equal(t, uint64(0x1122334455667788), u64)

	i64, err := r.Int64()
	assert.Nil(t, err)
	assert.Equal(t, int64(-1), i64)

	b, err := r.Bytes()
	assert.Nil(t, err)
	assert.Equal(t, []byte("bytes"), b)

	s, err := r.Text()
	assert.Nil(t, err)
	assert.Equal(t, "text", s)

	rd, err := r.Digest()
	assert.Nil(t, err)
	assert.Equal(t, d, rd)

	e, err := r.Embedded()
	assert.Nil(t, err)
	assert.Equal(t, inner.Bytes(), e.Bytes())
	assert.Equal(t, inner.Hash(), e.Hash())

	assert.Nil(t, r.Done(), "all consumed")

	_, err = r.Uint8()
	assert.Equal(t, fault.ErrChunkTruncated, err, "read past end")
}

func TestReaderRejectsOversizedLength(t *testing.T) {
	// declares 100 bytes but only 2 follow
	r := chunk.NewReader([]byte{100, 'a', 'b'})
	_, err := r.Bytes()
	assert.Equal(t, fault.ErrChunkTruncated, err)

	r = chunk.NewReader([]byte{1, 2, 3})
	_, err = r.Digest()
	assert.Equal(t, fault.ErrChunkTruncated, err)

	r = chunk.NewReader([]byte{0x00, 0x00, 0x00})
	_, err = r.Embedded()
	assert.Equal(t, fault.ErrChunkTruncated, err)
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "MPTFull", chunk.MPTFull.String())
	assert.Equal(t, "SkipNode", chunk.SkipNode.String())
	assert.Equal(t, "VersionValue", chunk.VersionValue.String())
	assert.Equal(t, "Unknown", chunk.Type(200).String())
	assert.False(t, chunk.Type(200).Valid())
}
