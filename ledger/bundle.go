// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/bitmark-inc/ledgerdb/fault"
)

// bundle file kinds
const (
	auditKind = "ledgerdb-audit"
	proofKind = "ledgerdb-proof"
)

// outer record of a bundle file
type bundleFile struct {
	Kind  string       `cbor:"kind"`
	Audit *Auditor     `cbor:"audit,omitempty"`
	Proof *ProofBundle `cbor:"proof,omitempty"`
}

// audits can carry many proofs
const maxBundleElements = 1 << 24

func encMode() (cbor.EncMode, error) {
	return cbor.CoreDetEncOptions().EncMode()
}

func decMode() (cbor.DecMode, error) {
	return cbor.DecOptions{
		MaxArrayElements: maxBundleElements,
		MaxMapPairs:      maxBundleElements,
	}.DecMode()
}

// EncodeCBOR - deterministic CBOR form of an audit bundle
func (a *Auditor) EncodeCBOR() ([]byte, error) {
	return encodeBundle(&bundleFile{Kind: auditKind, Audit: a})
}

// DecodeAuditor - read an audit bundle written by EncodeCBOR
func DecodeAuditor(data []byte) (*Auditor, error) {
	f, err := decodeBundle(data)
	if nil != err {
		return nil, err
	}
	if auditKind != f.Kind || nil == f.Audit {
		return nil, fault.ErrNotAuditBundle
	}
	return f.Audit, nil
}

// EncodeCBOR - deterministic CBOR form of a proof bundle
func (b *ProofBundle) EncodeCBOR() ([]byte, error) {
	return encodeBundle(&bundleFile{Kind: proofKind, Proof: b})
}

// DecodeProofBundle - read a proof bundle written by EncodeCBOR
func DecodeProofBundle(data []byte) (*ProofBundle, error) {
	f, err := decodeBundle(data)
	if nil != err {
		return nil, err
	}
	if proofKind != f.Kind || nil == f.Proof {
		return nil, fault.ErrNotProofBundle
	}
	return f.Proof, nil
}

func encodeBundle(f *bundleFile) ([]byte, error) {
	em, err := encMode()
	if nil != err {
		return nil, err
	}
	return em.Marshal(f)
}

func decodeBundle(data []byte) (*bundleFile, error) {
	dm, err := decMode()
	if nil != err {
		return nil, err
	}
	var f bundleFile
	if err := dm.Unmarshal(data, &f); nil != err {
		return nil, err
	}
	return &f, nil
}
