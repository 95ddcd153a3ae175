// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"

	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/merkletree"
	"github.com/bitmark-inc/ledgerdb/mpt"
	"github.com/bitmark-inc/ledgerdb/storage"
)

// Auditor - everything needed to replay one commit without the
// server
//
// Commits runs from CommitSeq to the commit Digest names. Blocks are
// the blocks CommitSeq folded and Proofs hold one trie proof for every
// key of every block, in block order
type Auditor struct {
	Digest        digest.Digest     `json:"digest"`
	CommitSeq     uint64            `json:"commitSeq"`
	FirstBlockSeq uint64            `json:"firstBlockSeq"`
	Commits       [][]byte          `json:"commits"`
	PrevCommit    []byte            `json:"prevCommit,omitempty"`
	Frontier      []merkletree.Node `json:"frontier"`
	Blocks        [][]byte          `json:"blocks"`
	Proofs        []KeyProof        `json:"proofs"`
}

// GetAudit - bundle for replaying commit seq against the latest digest
func (e *Engine) GetAudit(seq uint64) (*Auditor, error) {
	s := e.latest()
	if nil == s {
		return nil, fault.ErrNoCommit
	}
	if seq > s.pointer.CommitSeq {
		return nil, fault.ErrUnknownCommit
	}

	a := &Auditor{
		Digest:    s.pointer.Digest,
		CommitSeq: seq,
		Commits:   make([][]byte, 0, s.pointer.CommitSeq-seq+1),
		Frontier:  []merkletree.Node{},
	}

	var target *CommitRecord
	for i := seq; i <= s.pointer.CommitSeq; i += 1 {
		c, err := e.loadCommit(i)
		if nil != err {
			return nil, err
		}
		if seq == i {
			target, err = DecodeCommit(c)
			if nil != err {
				return nil, err
			}
		}
		a.Commits = append(a.Commits, append([]byte{}, c.Bytes()...))
	}

	if seq > 0 {
		c, err := e.loadCommit(seq - 1)
		if nil != err {
			return nil, err
		}
		prev, err := DecodeCommit(c)
		if nil != err {
			return nil, err
		}
		a.PrevCommit = append([]byte{}, c.Bytes()...)
		a.FirstBlockSeq = prev.TipBlock + 1

		frontier, err := e.tree.Frontier(a.FirstBlockSeq)
		if nil != err {
			return nil, err
		}
		a.Frontier = frontier
	}

	trie, err := mpt.Open(e.store, target.MPTRoot)
	if nil != err {
		return nil, err
	}

	a.Blocks = make([][]byte, 0, target.TipBlock-a.FirstBlockSeq+1)
	for i := a.FirstBlockSeq; i <= target.TipBlock; i += 1 {
		c, err := e.store.Get(BlockKey(i))
		if nil != err {
			return nil, err
		}
		if c.IsEmpty() {
			return nil, fault.ErrMissingBlock
		}
		b, err := DecodeBlock(c)
		if nil != err {
			return nil, err
		}
		a.Blocks = append(a.Blocks, append([]byte{}, c.Bytes()...))

		for _, key := range b.Keys {
			kp := KeyProof{
				Block: i,
				Key:   key,
			}
			p, err := trie.GetProof([]byte(key))
			if nil != err {
				e.log.Warnf("audit: trie proof: key: %q  error: %s", key, err)
				kp.Err = err.Error()
			} else {
				kp.Proof = p
			}
			a.Proofs = append(a.Proofs, kp)
		}
	}
	return a, nil
}

func (e *Engine) loadCommit(seq uint64) (*chunk.Chunk, error) {
	c, err := e.store.Get(CommitKey(seq))
	if nil != err {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, fault.ErrUnknownCommit
	}
	return c, nil
}

// Audit - true only if every check of Check passes
func (a *Auditor) Audit() bool {
	return nil == a.Check()
}

// Check - replay the bundle and report the first failed check
//
// the commit chain must lead from Digest back to CommitSeq, the
// frontier must give the previous commit's merkle root, the blocks
// replayed on top of it must give this commit's root, and each key
// must be proven in the trie with the last value the blocks wrote
func (a *Auditor) Check() error {
	commit, err := a.checkChain()
	if nil != err {
		return err
	}
	if err := a.checkPrevious(commit); nil != err {
		return err
	}

	blocks, leaves, err := a.decodeBlocks(commit)
	if nil != err {
		return err
	}
	if err := a.replay(commit, leaves); nil != err {
		return err
	}
	return a.checkValues(commit, blocks)
}

// walk newest to oldest, each commit must hash to the digest the
// next one names
func (a *Auditor) checkChain() (*CommitRecord, error) {
	if 0 == len(a.Commits) {
		return nil, fault.ErrAuditCommitChain
	}

	target := a.Digest
	var record *CommitRecord
	for i := len(a.Commits) - 1; i >= 0; i -= 1 {
		c, err := chunk.Parse(a.Commits[i])
		if nil != err {
			return nil, err
		}
		if c.Hash() != target {
			return nil, fault.ErrAuditCommitChain
		}
		record, err = DecodeCommit(c)
		if nil != err {
			return nil, err
		}
		if a.CommitSeq+uint64(i) != record.Sequence {
			return nil, fault.ErrAuditCommitChain
		}
		target = record.PrevDigest
	}
	return record, nil
}

func (a *Auditor) checkPrevious(commit *CommitRecord) error {
	if 0 == commit.Sequence {
		if 0 != a.FirstBlockSeq || !commit.PrevDigest.IsZero() || 0 != len(a.PrevCommit) {
			return fault.ErrAuditCommitChain
		}
		return nil
	}

	c, err := chunk.Parse(a.PrevCommit)
	if nil != err {
		return err
	}
	if c.IsEmpty() || c.Hash() != commit.PrevDigest {
		return fault.ErrAuditCommitChain
	}
	prev, err := DecodeCommit(c)
	if nil != err {
		return err
	}
	if prev.TipBlock+1 != a.FirstBlockSeq {
		return fault.ErrAuditBlockSequence
	}

	root, err := merkletree.RootFromFrontier(a.FirstBlockSeq, a.Frontier)
	if nil != err {
		return err
	}
	if root != prev.MerkleRoot {
		return fault.ErrAuditFrontier
	}
	return nil
}

// blocks must run without gaps from FirstBlockSeq to the commit tip
func (a *Auditor) decodeBlocks(commit *CommitRecord) ([]*Block, []digest.Digest, error) {
	if commit.TipBlock < a.FirstBlockSeq ||
		uint64(len(a.Blocks)) != commit.TipBlock-a.FirstBlockSeq+1 {
		return nil, nil, fault.ErrAuditBlockSequence
	}

	blocks := make([]*Block, len(a.Blocks))
	leaves := make([]digest.Digest, len(a.Blocks))
	for i, raw := range a.Blocks {
		c, err := chunk.Parse(raw)
		if nil != err {
			return nil, nil, err
		}
		b, err := DecodeBlock(c)
		if nil != err {
			return nil, nil, err
		}
		if a.FirstBlockSeq+uint64(i) != b.Sequence {
			return nil, nil, fault.ErrAuditBlockSequence
		}
		blocks[i] = b
		leaves[i] = c.Hash()
	}
	return blocks, leaves, nil
}

// rebuild the tree from the frontier in a private store
func (a *Auditor) replay(commit *CommitRecord, leaves []digest.Digest) error {
	replay, err := storage.OpenMemory()
	if nil != err {
		return err
	}
	defer replay.Close()

	tree := merkletree.New(replay)
	if err := tree.Seed(a.Frontier); nil != err {
		return err
	}
	_, root, err := tree.Update(a.FirstBlockSeq, leaves, commit.Sequence)
	if nil != err {
		return err
	}
	if root != commit.MerkleRoot {
		return fault.ErrAuditMerkleRoot
	}
	return nil
}

func (a *Auditor) checkValues(commit *CommitRecord, blocks []*Block) error {
	expected := make(map[string]*Value)
	count := 0
	for _, b := range blocks {
		for i, key := range b.Keys {
			expected[key] = &Value{
				Key:     key,
				Version: b.Timestamp,
				Block:   b.Sequence,
				Value:   b.Values[i],
			}
			count += 1
		}
	}
	if count != len(a.Proofs) {
		return fault.ErrAuditProofCount
	}

	n := 0
	for _, b := range blocks {
		for _, key := range b.Keys {
			kp := a.Proofs[n]
			n += 1
			if kp.Key != key || kp.Block != b.Sequence || "" != kp.Err || nil == kp.Proof {
				return fault.ErrAuditProofCount
			}

			proven, found, err := kp.Proof.Verify(commit.MPTRoot, []byte(key))
			if nil != err {
				return err
			}
			if !found {
				return fault.ErrAuditValueMismatch
			}
			v, err := DecodeValue(key, proven)
			if nil != err {
				return err
			}
			want := expected[key]
			if v.Version != want.Version || v.Block != want.Block || !bytes.Equal(v.Value, want.Value) {
				return fault.ErrAuditValueMismatch
			}
		}
	}
	return nil
}
