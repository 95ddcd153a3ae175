// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/ledger"
)

func TestAuditEveryCommit(t *testing.T) {
	e, h := newEngine(t)
	defer h.Close()
	defer e.Close()

	// uneven cycles so the frontier varies
	buildCycles(t, e, 5, 1, 2, 3, 1, 4, 7, 1, 1)
	pointer := e.GetRootDigest()
	require.Equal(t, uint64(7), pointer.CommitSeq)

	for seq := uint64(0); seq <= pointer.CommitSeq; seq += 1 {
		a, err := e.GetAudit(seq)
		require.Nil(t, err, "commit %d", seq)
		assert.Equal(t, pointer.Digest, a.Digest)
		assert.Equal(t, seq, a.CommitSeq)
		assert.Equal(t, int(pointer.CommitSeq-seq+1), len(a.Commits))
		assert.Equal(t, len(a.Blocks), len(a.Proofs), "one key per block")
		assert.Nil(t, a.Check(), "commit %d", seq)
		assert.True(t, a.Audit(), "commit %d", seq)
	}

	first, err := e.GetAudit(0)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), first.FirstBlockSeq)
	assert.Nil(t, first.PrevCommit)
	assert.Equal(t, 0, len(first.Frontier))

	// commit 5 folds blocks 11..17
	a, err := e.GetAudit(5)
	require.Nil(t, err)
	assert.Equal(t, uint64(11), a.FirstBlockSeq)
	assert.Equal(t, 7, len(a.Blocks))
	assert.Equal(t, 3, len(a.Frontier), "one node per set bit of 11")
}

func TestAuditErrors(t *testing.T) {
	e, h := newEngine(t)
	defer h.Close()
	defer e.Close()

	_, err := e.GetAudit(0)
	assert.Equal(t, fault.ErrNoCommit, err)

	buildCycles(t, e, 2, 2, 2)
	_, err = e.GetAudit(2)
	assert.Equal(t, fault.ErrUnknownCommit, err)
}

// any changed byte in any block fails the replay
func TestAuditCorruptBlock(t *testing.T) {
	e, h := newEngine(t)
	defer h.Close()
	defer e.Close()

	buildCycles(t, e, 3, 3, 2, 2)

	a, err := e.GetAudit(1)
	require.Nil(t, err)
	require.True(t, a.Audit())

	for b := range a.Blocks {
		for i := range a.Blocks[b] {
			a.Blocks[b][i] ^= 0x40
			assert.False(t, a.Audit(), "block %d byte %d", b, i)
			a.Blocks[b][i] ^= 0x40
		}
	}
	assert.True(t, a.Audit(), "restored")
}

func TestAuditTamper(t *testing.T) {
	e, h := newEngine(t)
	defer h.Close()
	defer e.Close()

	buildCycles(t, e, 3, 3, 2, 2)

	fresh := func() *ledger.Auditor {
		a, err := e.GetAudit(1)
		require.Nil(t, err)
		require.Nil(t, a.Check())
		return a
	}

	a := fresh()
	a.Digest[0] ^= 0x01
	assert.Equal(t, fault.ErrAuditCommitChain, a.Check())

	a = fresh()
	a.Commits[1][len(a.Commits[1])-1] ^= 0x01
	assert.Equal(t, fault.ErrAuditCommitChain, a.Check(), "newest commit")

	a = fresh()
	a.Commits = a.Commits[:1]
	assert.Equal(t, fault.ErrAuditCommitChain, a.Check(), "chain cut short")

	a = fresh()
	a.CommitSeq = 0
	assert.Equal(t, fault.ErrAuditCommitChain, a.Check(), "wrong sequence")

	a = fresh()
	a.PrevCommit[len(a.PrevCommit)-1] ^= 0x01
	assert.Equal(t, fault.ErrAuditCommitChain, a.Check())

	a = fresh()
	a.Frontier[0].Hash[0] ^= 0x01
	assert.Equal(t, fault.ErrAuditFrontier, a.Check())

	a = fresh()
	a.Frontier = a.Frontier[1:]
	assert.Equal(t, fault.ErrInvalidFrontier, a.Check())

	a = fresh()
	a.Blocks = a.Blocks[:1]
	assert.Equal(t, fault.ErrAuditBlockSequence, a.Check())

	a = fresh()
	a.Blocks[0], a.Blocks[1] = a.Blocks[1], a.Blocks[0]
	assert.Equal(t, fault.ErrAuditBlockSequence, a.Check(), "reordered")

	a = fresh()
	a.Proofs = a.Proofs[1:]
	assert.Equal(t, fault.ErrAuditProofCount, a.Check())

	a = fresh()
	a.Proofs[0], a.Proofs[1] = a.Proofs[1], a.Proofs[0]
	assert.Equal(t, fault.ErrAuditProofCount, a.Check(), "proofs out of order")

	a = fresh()
	a.Proofs[0].Err = "lost"
	assert.Equal(t, fault.ErrAuditProofCount, a.Check())

	a = fresh()
	value := a.Proofs[0].Proof.Value
	value[len(value)-1] ^= 0x01
	assert.True(t, fault.IsErrIntegrity(a.Check()))
}

// a later block overwrites a key: the trie proves the later value
// and the earlier occurrence must agree with it
func TestAuditRepeatedKey(t *testing.T) {
	e, h := newEngine(t)
	defer h.Close()
	defer e.Close()

	_, err := e.Set([]string{"a", "b", "a"}, [][]byte{[]byte("1"), []byte("2"), []byte("3")}, 1)
	require.Nil(t, err)
	_, err = e.Set([]string{"b"}, [][]byte{[]byte("4")}, 2)
	require.Nil(t, err)
	built, err := e.BuildCycle()
	require.Nil(t, err)
	require.True(t, built)

	v, err := e.Get("a")
	require.Nil(t, err)
	assert.Equal(t, []byte("3"), v.Value, "last write in the block")

	a, err := e.GetAudit(0)
	require.Nil(t, err)
	assert.Equal(t, 4, len(a.Proofs))
	assert.True(t, a.Audit())

	proven, err := a.Proofs[1].Value()
	require.Nil(t, err)
	assert.Equal(t, []byte("4"), proven.Value)
	assert.Equal(t, uint64(1), proven.Block)
}

func TestAuditorCBOR(t *testing.T) {
	e, h := newEngine(t)
	defer h.Close()
	defer e.Close()

	buildCycles(t, e, 4, 5, 3, 6)

	a, err := e.GetAudit(2)
	require.Nil(t, err)

	data, err := a.EncodeCBOR()
	require.Nil(t, err)

	decoded, err := ledger.DecodeAuditor(data)
	require.Nil(t, err)
	assert.Equal(t, a.Digest, decoded.Digest)
	assert.Equal(t, a.CommitSeq, decoded.CommitSeq)
	assert.Equal(t, a.FirstBlockSeq, decoded.FirstBlockSeq)
	assert.Equal(t, a.Frontier, decoded.Frontier)
	assert.Equal(t, a.Blocks, decoded.Blocks)
	assert.True(t, decoded.Audit(), "replay without the engine")

	decoded.Blocks[0][ledgerHeaderLength] ^= 0x01
	assert.False(t, decoded.Audit())

	_, err = ledger.DecodeProofBundle(data)
	assert.Equal(t, fault.ErrNotProofBundle, err)

	_, err = ledger.DecodeAuditor([]byte{0xff, 0x00})
	assert.NotNil(t, err)
}

// first payload byte of a block chunk
const ledgerHeaderLength = 5
