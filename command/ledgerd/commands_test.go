// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/ledger"
	"github.com/bitmark-inc/ledgerdb/storage"
	"github.com/bitmark-inc/ledgerdb/versionstore"
)

// a store with three commits of two blocks each
func newLedger(t *testing.T) (*ledger.Engine, *versionstore.Store, func()) {
	h, err := storage.OpenMemory()
	require.Nil(t, err)
	e, err := ledger.New(h, ledger.Options{Seed: 1})
	require.Nil(t, err)

	s := versionstore.New(e, versionstore.Options{})
	for commit := 0; commit < 3; commit += 1 {
		for block := 0; block < 2; block += 1 {
			key := fmt.Sprintf("k%d", block)
			value := fmt.Sprintf("v%d-%d", commit, block)
			reply := s.Put([]string{key}, [][]byte{[]byte(value)}, uint64(commit*2+block+1))
			require.Equal(t, "", reply.Err)
		}
		built, err := e.BuildCycle()
		require.Nil(t, err)
		require.True(t, built)
	}

	return e, s, func() {
		e.Close()
		h.Close()
	}
}

func TestVerifyAuditFile(t *testing.T) {
	e, s, cleanup := newLedger(t)
	defer cleanup()

	reply := s.GetAudit(1)
	require.Equal(t, "", reply.Err)
	data, err := reply.Audit.EncodeCBOR()
	require.Nil(t, err)

	fileName := filepath.Join(testingDirName, "audit.cbor")
	require.Nil(t, ioutil.WriteFile(fileName, data, 0o600))

	pointer := e.GetRootDigest()
	assert.Nil(t, verifyFile(fileName, ""))
	assert.Nil(t, verifyFile(fileName, pointer.Digest.String()))

	other := pointer.Digest
	other[0] ^= 0x01
	assert.Equal(t, fault.ErrCommitDigestMismatch, verifyFile(fileName, other.String()))

	assert.NotNil(t, verifyFile(fileName, "not base32!"))
	assert.NotNil(t, verifyFile(filepath.Join(testingDirName, "missing.cbor"), ""))

	// flip one byte of the last block's value
	reply.Audit.Blocks[1][len(reply.Audit.Blocks[1])-1] ^= 0x01
	data, err = reply.Audit.EncodeCBOR()
	require.Nil(t, err)
	require.Nil(t, ioutil.WriteFile(fileName, data, 0o600))
	assert.NotNil(t, verifyFile(fileName, ""))
}

func TestVerifyProofFile(t *testing.T) {
	e, s, cleanup := newLedger(t)
	defer cleanup()

	reply := s.GetProof(proofRequest([]string{"3", "k1", "k9"}))
	require.Equal(t, "", reply.Err)
	bundle, err := reply.Bundle()
	require.Nil(t, err)
	data, err := bundle.EncodeCBOR()
	require.Nil(t, err)

	fileName := filepath.Join(testingDirName, "proof.cbor")
	require.Nil(t, ioutil.WriteFile(fileName, data, 0o600))
	assert.Nil(t, verifyFile(fileName, e.GetRootDigest().Digest.String()))

	stripped := *bundle
	stripped.TreeProofs = []ledger.TreeProof{{Block: 3, Err: "unavailable"}}
	stripped.KeyProofs = []ledger.KeyProof{{Block: 3, Key: "k1", Err: "unavailable"}}
	data, err = stripped.EncodeCBOR()
	require.Nil(t, err)
	require.Nil(t, ioutil.WriteFile(fileName, data, 0o600))
	assert.Equal(t, fault.ErrProofUnavailable, verifyFile(fileName, ""))

	bundle.Commit[len(bundle.Commit)-1] ^= 0x01
	data, err = bundle.EncodeCBOR()
	require.Nil(t, err)
	require.Nil(t, ioutil.WriteFile(fileName, data, 0o600))
	assert.Equal(t, fault.ErrCommitDigestMismatch, verifyFile(fileName, ""))

	require.Nil(t, ioutil.WriteFile(fileName, []byte("not cbor"), 0o600))
	assert.NotNil(t, verifyFile(fileName, ""))
}

func TestProofRequest(t *testing.T) {
	assert.Equal(t, map[uint64][]string{12: {"a", "b"}}, proofRequest([]string{"12", "a", "b"}))
	assert.Equal(t, map[uint64][]string{0: {}}, proofRequest([]string{"0"}))
}
