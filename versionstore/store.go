// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package versionstore

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/ledger"
	"github.com/bitmark-inc/logger"
)

const (
	defaultMaximumCount = 1000
)

// Engine - the ledger operations the store answers from
type Engine interface {
	Set(keys []string, values [][]byte, timestamp uint64) (uint64, error)
	GetValues(keys []string) ([]*ledger.Value, error)
	GetRange(start string, end string) ([]*ledger.Value, error)
	GetVersions(key string, n int) ([]*ledger.Value, error)
	LatestCommit() *ledger.CommitRecord
	GetProof(request map[uint64][]string) (*ledger.ProofBundle, error)
	GetAudit(seq uint64) (*ledger.Auditor, error)
}

// Options - request limits
//
// a zero Rate does not limit, MaximumCount bounds the keys, blocks
// or versions a single request may name
type Options struct {
	Rate         float64
	Burst        int
	MaximumCount int
}

// Store - request adapter over one engine
type Store struct {
	log          *logger.L
	engine       Engine
	limiter      *rate.Limiter
	maximumCount int
}

// Digest - the published commit
type Digest struct {
	CommitSeq uint64        `json:"commitSeq"`
	TipBlock  uint64        `json:"tipBlock"`
	Hash      digest.Digest `json:"hash"`
	MPTHash   digest.Digest `json:"mptHash"`
}

// KeyValue - one key of a reply
//
// EstimateBlock is the block that wrote the value, Timestamp its
// version
type KeyValue struct {
	Key           string `json:"key"`
	Found         bool   `json:"found"`
	Value         []byte `json:"value,omitempty"`
	Timestamp     uint64 `json:"timestamp"`
	EstimateBlock uint64 `json:"estimateBlock"`
}

// Reply - answer to any store request, Err is set on failure
type Reply struct {
	Err        string             `json:"error,omitempty"`
	Digest     *Digest            `json:"digest,omitempty"`
	Values     []KeyValue         `json:"values,omitempty"`
	Commit     []byte             `json:"commit,omitempty"`
	TreeProofs []ledger.TreeProof `json:"treeProofs,omitempty"`
	KeyProofs  []ledger.KeyProof  `json:"keyProofs,omitempty"`
	Audit      *ledger.Auditor    `json:"audit,omitempty"`
}

// New - create a store for an engine
func New(engine Engine, options Options) *Store {
	r := rate.Inf
	if options.Rate > 0 {
		r = rate.Limit(options.Rate)
	}
	burst := options.Burst
	if burst <= 0 {
		burst = 1
	}
	maximumCount := options.MaximumCount
	if maximumCount <= 0 {
		maximumCount = defaultMaximumCount
	}

	return &Store{
		log:          logger.New("versionstore"),
		engine:       engine,
		limiter:      rate.NewLimiter(r, burst),
		maximumCount: maximumCount,
	}
}

// Put - write one block, each key reports the block it will be
// committed in
func (s *Store) Put(keys []string, values [][]byte, timestamp uint64) *Reply {
	if err := limitN(s.limiter, len(keys), s.maximumCount); nil != err {
		return failed(err)
	}

	seq, err := s.engine.Set(keys, values, timestamp)
	if nil != err {
		s.log.Warnf("put: keys: %d  error: %s", len(keys), err)
		return failed(err)
	}
	s.log.Debugf("put: block: %d  keys: %d", seq, len(keys))

	reply := &Reply{
		Values: make([]KeyValue, len(keys)),
	}
	for i, key := range keys {
		reply.Values[i] = KeyValue{
			Key:           key,
			Found:         true,
			Value:         values[i],
			Timestamp:     timestamp,
			EstimateBlock: seq,
		}
	}
	return reply
}

// BatchGet - latest value of each key
func (s *Store) BatchGet(keys []string) *Reply {
	if err := limitN(s.limiter, len(keys), s.maximumCount); nil != err {
		return failed(err)
	}

	values, err := s.engine.GetValues(keys)
	if nil != err {
		s.log.Errorf("batch get: keys: %d  error: %s", len(keys), err)
		return failed(err)
	}

	reply := &Reply{
		Values: make([]KeyValue, len(keys)),
	}
	for i, key := range keys {
		reply.Values[i] = keyValue(key, values[i])
	}
	return reply
}

// GetRange - latest value of every key from start to end inclusive
func (s *Store) GetRange(start string, end string) *Reply {
	if err := limit(s.limiter); nil != err {
		return failed(err)
	}

	values, err := s.engine.GetRange(start, end)
	if nil != err {
		s.log.Errorf("range: %q to %q  error: %s", start, end, err)
		return failed(err)
	}

	reply := &Reply{
		Values: make([]KeyValue, len(values)),
	}
	for i, v := range values {
		reply.Values[i] = keyValue(v.Key, v)
	}
	return reply
}

// GetNVersions - up to n versions of a key, newest first
func (s *Store) GetNVersions(key string, n int) *Reply {
	if err := limitN(s.limiter, n, s.maximumCount); nil != err {
		return failed(err)
	}

	values, err := s.engine.GetVersions(key, n)
	if nil != err {
		s.log.Errorf("versions: key: %q  error: %s", key, err)
		return failed(err)
	}

	reply := &Reply{
		Values: make([]KeyValue, len(values)),
	}
	for i, v := range values {
		reply.Values[i] = keyValue(key, v)
	}
	return reply
}

// GetDigest - the latest published commit
func (s *Store) GetDigest() *Reply {
	if err := limit(s.limiter); nil != err {
		return failed(err)
	}

	// the pointer is derived from the same commit as the trie root
	commit := s.engine.LatestCommit()
	if nil == commit {
		return failed(fault.ErrNoCommit)
	}

	return &Reply{
		Digest: &Digest{
			CommitSeq: commit.Sequence,
			TipBlock:  commit.TipBlock,
			Hash:      commit.Encode().Hash(),
			MPTHash:   commit.MPTRoot,
		},
	}
}

// GetProof - tree and trie proofs for keys of committed blocks
func (s *Store) GetProof(request map[uint64][]string) *Reply {
	if err := limitN(s.limiter, len(request), s.maximumCount); nil != err {
		return failed(err)
	}

	bundle, err := s.engine.GetProof(request)
	if nil != err {
		s.log.Warnf("proof: blocks: %d  error: %s", len(request), err)
		return failed(err)
	}

	commit, err := bundle.CommitRecord()
	if nil != err {
		return failed(err)
	}

	return &Reply{
		Digest: &Digest{
			CommitSeq: bundle.Pointer.CommitSeq,
			TipBlock:  bundle.Pointer.TipBlock,
			Hash:      bundle.Pointer.Digest,
			MPTHash:   commit.MPTRoot,
		},
		Commit:     bundle.Commit,
		TreeProofs: bundle.TreeProofs,
		KeyProofs:  bundle.KeyProofs,
	}
}

// GetAudit - replay bundle for one commit
func (s *Store) GetAudit(seq uint64) *Reply {
	if err := limit(s.limiter); nil != err {
		return failed(err)
	}

	a, err := s.engine.GetAudit(seq)
	if nil != err {
		s.log.Warnf("audit: commit: %d  error: %s", seq, err)
		return failed(err)
	}
	return &Reply{
		Audit: a,
	}
}

// Bundle - rebuild the proof bundle a GetProof reply carries
func (r *Reply) Bundle() (*ledger.ProofBundle, error) {
	if nil == r.Digest || 0 == len(r.Commit) {
		return nil, fault.ErrNotProofBundle
	}
	return &ledger.ProofBundle{
		Pointer: ledger.DigestPointer{
			CommitSeq: r.Digest.CommitSeq,
			TipBlock:  r.Digest.TipBlock,
			Digest:    r.Digest.Hash,
		},
		Commit:     r.Commit,
		TreeProofs: r.TreeProofs,
		KeyProofs:  r.KeyProofs,
	}, nil
}

func failed(err error) *Reply {
	return &Reply{
		Err: err.Error(),
	}
}

func keyValue(key string, v *ledger.Value) KeyValue {
	if nil == v {
		return KeyValue{
			Key: key,
		}
	}
	return KeyValue{
		Key:           key,
		Found:         true,
		Value:         v.Value,
		Timestamp:     v.Version,
		EstimateBlock: v.Block,
	}
}
