// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"sort"

	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/merkletree"
	"github.com/bitmark-inc/ledgerdb/mpt"
)

// TreeProof - inclusion of one block in the committed merkle tree
type TreeProof struct {
	Block uint64            `json:"block"`
	Proof *merkletree.Proof `json:"proof,omitempty"`
	Err   string            `json:"error,omitempty"`
}

// KeyProof - trie proof for one key
type KeyProof struct {
	Block uint64     `json:"block"`
	Key   string     `json:"key"`
	Proof *mpt.Proof `json:"proof,omitempty"`
	Err   string     `json:"error,omitempty"`
}

// Value - the committed version a membership proof carries
//
// nil for a non-membership proof
func (kp *KeyProof) Value() (*Value, error) {
	if nil == kp.Proof || 0 == len(kp.Proof.Value) {
		return nil, nil
	}
	return DecodeValue(kp.Key, kp.Proof.Value)
}

// ProofBundle - proofs against one commit
//
// Commit is the encoded commit record, its hash is Pointer.Digest
type ProofBundle struct {
	Pointer    DigestPointer `json:"pointer"`
	Commit     []byte        `json:"commit"`
	TreeProofs []TreeProof   `json:"treeProofs"`
	KeyProofs  []KeyProof    `json:"keyProofs"`
}

// GetProof - merkle proofs for the requested blocks and trie proofs
// for their keys against the latest commit
//
// one tree proof per block; an entry that cannot be built carries
// its error and the others proceed
func (e *Engine) GetProof(request map[uint64][]string) (*ProofBundle, error) {
	s := e.latest()
	if nil == s {
		return nil, fault.ErrNoCommit
	}
	commit := s.commit

	trie, err := mpt.Open(e.store, commit.MPTRoot)
	if nil != err {
		return nil, err
	}

	blocks := make([]uint64, 0, len(request))
	for seq := range request {
		blocks = append(blocks, seq)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i] < blocks[j] })

	bundle := &ProofBundle{
		Pointer:    s.pointer,
		Commit:     commit.Encode().Bytes(),
		TreeProofs: make([]TreeProof, 0, len(blocks)),
		KeyProofs:  make([]KeyProof, 0, len(blocks)),
	}

	for _, seq := range blocks {
		tp := TreeProof{Block: seq}
		if seq > commit.TipBlock {
			tp.Err = fault.ErrSequenceOutOfRange.Error()
		} else {
			p, err := e.tree.GetProof(commit.Sequence, commit.MerkleRootKey, commit.TipBlock, seq)
			if nil != err {
				e.log.Warnf("tree proof: block: %d  error: %s", seq, err)
				tp.Err = err.Error()
			} else {
				tp.Proof = p
			}
		}
		bundle.TreeProofs = append(bundle.TreeProofs, tp)

		for _, key := range request[seq] {
			kp := KeyProof{
				Block: seq,
				Key:   key,
			}
			p, err := trie.GetProof([]byte(key))
			if nil != err {
				e.log.Warnf("trie proof: key: %q  error: %s", key, err)
				kp.Err = err.Error()
			} else {
				kp.Proof = p
			}
			bundle.KeyProofs = append(bundle.KeyProofs, kp)
		}
	}
	return bundle, nil
}

// CommitRecord - decode the commit the bundle was built from
func (b *ProofBundle) CommitRecord() (*CommitRecord, error) {
	c, err := chunk.Parse(b.Commit)
	if nil != err {
		return nil, err
	}
	return DecodeCommit(c)
}

// Verify - check the bundle against a published digest pointer
//
// every entry must carry a proof, an entry with an error fails the
// whole bundle
func (b *ProofBundle) Verify(pointer DigestPointer) error {
	c, err := chunk.Parse(b.Commit)
	if nil != err {
		return err
	}
	if c.Hash() != pointer.Digest {
		return fault.ErrCommitDigestMismatch
	}
	commit, err := DecodeCommit(c)
	if nil != err {
		return err
	}
	if commit.Sequence != pointer.CommitSeq || commit.TipBlock != pointer.TipBlock {
		return fault.ErrCommitDigestMismatch
	}

	for _, tp := range b.TreeProofs {
		if "" != tp.Err {
			return fault.ErrProofUnavailable
		}
		p := tp.Proof
		if nil == p || p.Digest != commit.MerkleRoot || p.Index() != tp.Block || !p.Verify() {
			return fault.ErrMerkleProofMismatch
		}
	}

	for _, kp := range b.KeyProofs {
		if "" != kp.Err {
			return fault.ErrProofUnavailable
		}
		if nil == kp.Proof {
			return fault.ErrMPTProofMalformed
		}
		if _, _, err := kp.Proof.Verify(commit.MPTRoot, []byte(kp.Key)); nil != err {
			return err
		}
	}
	return nil
}
