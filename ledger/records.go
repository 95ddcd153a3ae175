// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"strconv"

	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
)

// store key namespaces
const (
	blockPrefix  = "ledger-"
	commitPrefix = "commit"
)

// DigestKey - store key of the published digest pointer
var DigestKey = []byte("digest")

// BlockKey - store key of a write block
func BlockKey(seq uint64) []byte {
	return []byte(blockPrefix + strconv.FormatUint(seq, 10))
}

// CommitKey - store key of a commit record
func CommitKey(seq uint64) []byte {
	return []byte(commitPrefix + strconv.FormatUint(seq, 10))
}

// Block - the keys and values of one Set call
type Block struct {
	Sequence  uint64
	Timestamp uint64
	Keys      []string
	Values    [][]byte
}

// Encode - pack a block, the chunk hash is its merkle leaf
func (b *Block) Encode() *chunk.Chunk {
	w := chunk.NewWriter(chunk.Block).
		Uint64(b.Sequence).
		Uint64(b.Timestamp).
		Varint(uint64(len(b.Keys)))
	for i, key := range b.Keys {
		w.Text(key).Bytes(b.Values[i])
	}
	return w.Chunk()
}

// DecodeBlock - unpack a block chunk
func DecodeBlock(c *chunk.Chunk) (*Block, error) {
	r, err := c.Expect(chunk.Block)
	if nil != err {
		return nil, err
	}

	b := &Block{}
	if b.Sequence, err = r.Uint64(); nil != err {
		return nil, err
	}
	if b.Timestamp, err = r.Uint64(); nil != err {
		return nil, err
	}
	count, err := r.Varint()
	if nil != err {
		return nil, err
	}

	// each pair takes at least two length bytes
	if count > uint64(r.Remaining()/2) {
		return nil, fault.ErrChunkTruncated
	}

	b.Keys = make([]string, count)
	b.Values = make([][]byte, count)
	for i := range b.Keys {
		if b.Keys[i], err = r.Text(); nil != err {
			return nil, err
		}
		if b.Values[i], err = r.Bytes(); nil != err {
			return nil, err
		}
	}
	return b, r.Done()
}

// CommitRecord - the state published by one build cycle
//
// PrevDigest is the hash of the previous commit chunk and zero for
// the first commit
type CommitRecord struct {
	Sequence      uint64        `json:"sequence"`
	PrevDigest    digest.Digest `json:"prevDigest"`
	TipBlock      uint64        `json:"tipBlock"`
	MerkleRoot    digest.Digest `json:"merkleRoot"`
	MerkleRootKey string        `json:"merkleRootKey"`
	MPTRoot       digest.Digest `json:"mptRoot"`
}

// Encode - pack a commit, the chunk hash is the commit digest
func (r *CommitRecord) Encode() *chunk.Chunk {
	return chunk.NewWriter(chunk.Commit).
		Uint64(r.Sequence).
		Digest(r.PrevDigest).
		Uint64(r.TipBlock).
		Digest(r.MerkleRoot).
		Text(r.MerkleRootKey).
		Digest(r.MPTRoot).
		Chunk()
}

// DecodeCommit - unpack a commit chunk
func DecodeCommit(c *chunk.Chunk) (*CommitRecord, error) {
	rd, err := c.Expect(chunk.Commit)
	if nil != err {
		return nil, err
	}

	r := &CommitRecord{}
	if r.Sequence, err = rd.Uint64(); nil != err {
		return nil, err
	}
	if r.PrevDigest, err = rd.Digest(); nil != err {
		return nil, err
	}
	if r.TipBlock, err = rd.Uint64(); nil != err {
		return nil, err
	}
	if r.MerkleRoot, err = rd.Digest(); nil != err {
		return nil, err
	}
	if r.MerkleRootKey, err = rd.Text(); nil != err {
		return nil, err
	}
	if r.MPTRoot, err = rd.Digest(); nil != err {
		return nil, err
	}
	return r, rd.Done()
}

// DigestPointer - the latest commit and its digest
type DigestPointer struct {
	CommitSeq uint64        `json:"commitSeq"`
	TipBlock  uint64        `json:"tipBlock"`
	Digest    digest.Digest `json:"digest"`
}

// Encode - pack the pointer
func (p *DigestPointer) Encode() *chunk.Chunk {
	return chunk.NewWriter(chunk.DigestPointer).
		Uint64(p.CommitSeq).
		Uint64(p.TipBlock).
		Digest(p.Digest).
		Chunk()
}

// DecodeDigestPointer - unpack a pointer chunk
func DecodeDigestPointer(c *chunk.Chunk) (*DigestPointer, error) {
	r, err := c.Expect(chunk.DigestPointer)
	if nil != err {
		return nil, err
	}

	p := &DigestPointer{}
	if p.CommitSeq, err = r.Uint64(); nil != err {
		return nil, err
	}
	if p.TipBlock, err = r.Uint64(); nil != err {
		return nil, err
	}
	if p.Digest, err = r.Digest(); nil != err {
		return nil, err
	}
	return p, r.Done()
}

// Value - one version of a key and the block that wrote it
//
// the encoding is both the skip list payload and the trie leaf
type Value struct {
	Key     string `json:"key"`
	Version uint64 `json:"version"`
	Block   uint64 `json:"block"`
	Value   []byte `json:"value"`
}

func (v *Value) encode() []byte {
	return chunk.NewWriter(chunk.VersionValue).
		Uint64(v.Version).
		Uint64(v.Block).
		Bytes(v.Value).
		Chunk().
		Bytes()
}

// DecodeValue - unpack a versioned value for a key
func DecodeValue(key string, data []byte) (*Value, error) {
	c, err := chunk.Parse(data)
	if nil != err {
		return nil, err
	}
	r, err := c.Expect(chunk.VersionValue)
	if nil != err {
		return nil, err
	}

	v := &Value{Key: key}
	if v.Version, err = r.Uint64(); nil != err {
		return nil, err
	}
	if v.Block, err = r.Uint64(); nil != err {
		return nil, err
	}
	if v.Value, err = r.Bytes(); nil != err {
		return nil, err
	}
	return v, r.Done()
}
