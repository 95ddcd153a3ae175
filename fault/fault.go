// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type (
	ExistsError    GenericError
	IntegrityError GenericError
	InvalidError   GenericError
	LengthError    GenericError
	NotFoundError  GenericError
	ProcessError   GenericError
	RecordError    GenericError
	StorageError   GenericError
)

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised     = ExistsError("already initialised")
	ErrAuditBlockSequence     = IntegrityError("audit block sequence is not contiguous")
	ErrAuditCommitChain       = IntegrityError("audit commit chain is broken")
	ErrAuditFrontier          = IntegrityError("audit frontier does not match previous root")
	ErrAuditMerkleRoot        = IntegrityError("audit merkle root mismatch")
	ErrAuditProofCount        = IntegrityError("audit proof count does not match block keys")
	ErrAuditValueMismatch     = IntegrityError("audit proven value does not match block")
	ErrChunkHashMismatch      = IntegrityError("chunk content does not match its hash")
	ErrChunkLengthMismatch    = LengthError("chunk length does not match header")
	ErrChunkTruncated         = LengthError("chunk is truncated")
	ErrCommitDigestMismatch   = IntegrityError("commit digest mismatch")
	ErrConfigurationNotStruct = InvalidError("configuration is not a struct pointer")
	ErrConfigurationNotTable  = InvalidError("configuration did not return a table")
	ErrDanglingHashReference  = NotFoundError("dangling hash reference")
	ErrDigestLength           = LengthError("digest length is invalid")
	ErrEmptyBatch             = InvalidError("batch is empty")
	ErrEngineClosed           = ProcessError("engine is closed")
	ErrInvalidChunkType       = RecordError("invalid chunk type")
	ErrInvalidCount           = InvalidError("invalid count")
	ErrInvalidCursor          = InvalidError("invalid cursor")
	ErrInvalidDigestText      = InvalidError("invalid digest text")
	ErrInvalidFrontier        = InvalidError("frontier does not match leaf count")
	ErrInvalidNibble          = InvalidError("invalid nibble")
	ErrInvalidRootKey         = InvalidError("invalid merkle root key")
	ErrInvalidTrieNode        = RecordError("invalid trie node")
	ErrInvalidVersion         = InvalidError("invalid version")
	ErrKeyValueCountMismatch  = InvalidError("keys and values count mismatch")
	ErrMPTProofHashMismatch   = IntegrityError("trie proof node hash mismatch")
	ErrMPTProofMalformed      = IntegrityError("trie proof is malformed")
	ErrMPTProofValueMismatch  = IntegrityError("trie proof value mismatch")
	ErrMerkleProofMismatch    = IntegrityError("merkle proof does not match root")
	ErrMissingBlock           = NotFoundError("ledger block not found")
	ErrMissingSkipNode        = NotFoundError("skip list node not found")
	ErrMissingTreeNode        = NotFoundError("merkle tree node not found")
	ErrNoCommit               = NotFoundError("no commit has been published")
	ErrNotAuditBundle         = RecordError("not an audit bundle")
	ErrNotProofBundle         = RecordError("not a proof bundle")
	ErrProofUnavailable       = NotFoundError("proof is unavailable")
	ErrRateLimiting           = ProcessError("rate limiting")
	ErrSequenceOutOfRange     = InvalidError("sequence out of range")
	ErrStorageReadFailed      = StorageError("storage read failed")
	ErrStorageWriteFailed     = StorageError("storage write failed")
	ErrTrailingChunkData      = LengthError("trailing data after chunk payload")
	ErrUnexpectedChunkType    = RecordError("unexpected chunk type")
	ErrUnknownCommit          = NotFoundError("commit not found")
	ErrVarintOverflow         = RecordError("varint overflow")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e IntegrityError) Error() string { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e LengthError) Error() string    { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e RecordError) Error() string    { return string(e) }
func (e StorageError) Error() string   { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool    { _, ok := e.(ExistsError); return ok }
func IsErrIntegrity(e error) bool { _, ok := e.(IntegrityError); return ok }
func IsErrInvalid(e error) bool   { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool    { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool  { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool   { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool    { _, ok := e.(RecordError); return ok }
func IsErrStorage(e error) bool   { _, ok := e.(StorageError); return ok }
