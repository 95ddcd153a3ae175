// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"errors"

	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/fault"
)

// Element - a key and the chunk stored under it
type Element struct {
	Key   []byte
	Value *chunk.Chunk
}

// FetchCursor - cursor structure
type FetchCursor struct {
	handle   *Handle
	maxRange util.Range
}

// NewFetchCursor - initialise a cursor over [start, limit)
//
// a nil limit means no upper bound
func (h *Handle) NewFetchCursor(start []byte, limit []byte) *FetchCursor {
	return &FetchCursor{
		handle: h,
		maxRange: util.Range{
			Start: start, // included in the range
			Limit: limit, // excluded from the range
		},
	}
}

// PrefixLimit - smallest key greater than every key with the prefix
//
// returns nil when no such key exists (prefix of all 0xff)
func PrefixLimit(prefix []byte) []byte {
	limit := make([]byte, len(prefix))
	copy(limit, prefix)
	for i := len(limit) - 1; i >= 0; i -= 1 {
		if limit[i] < 0xff {
			limit[i] += 1
			return limit[:i+1]
		}
	}
	return nil
}

// Seek - move cursor to specific key position
func (cursor *FetchCursor) Seek(key []byte) *FetchCursor {
	cursor.maxRange.Start = key
	return cursor
}

// Fetch - return up to count elements and advance the cursor
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if nil == cursor {
		return nil, fault.ErrInvalidCursor
	}
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}

	results := make([]Element, 0, count)
	err := cursor.scan(func(key []byte, c *chunk.Chunk) error {
		results = append(results, Element{Key: key, Value: c})
		if len(results) >= count {
			return errStop
		}
		return nil
	})
	if nil != err {
		return nil, err
	}

	if n := len(results); n > 0 {
		// next possible key after the last one returned
		last := results[n-1].Key
		next := make([]byte, len(last)+1)
		copy(next, last)
		cursor.maxRange.Start = next
	}
	return results, nil
}

// Scan - all elements in [start, limit) in key order
func (h *Handle) Scan(start []byte, limit []byte) ([]Element, error) {
	results := make([]Element, 0, 16)
	err := h.NewFetchCursor(start, limit).Map(func(key []byte, c *chunk.Chunk) error {
		results = append(results, Element{Key: key, Value: c})
		return nil
	})
	if nil != err {
		return nil, err
	}
	return results, nil
}

// Map - run a function on all elements in the range
func (cursor *FetchCursor) Map(f func(key []byte, c *chunk.Chunk) error) error {
	if nil == cursor {
		return fault.ErrInvalidCursor
	}
	return cursor.scan(f)
}

// internal marker to end a scan early
var errStop = errors.New("stop")

func (cursor *FetchCursor) scan(f func(key []byte, c *chunk.Chunk) error) error {
	iter := cursor.handle.db.NewIterator(&cursor.maxRange, nil)

	var err error
iterating:
	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		if bytes.Equal(key, versionKey) {
			continue iterating
		}

		dataKey := make([]byte, len(key))
		copy(dataKey, key)

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		c, e := chunk.Parse(dataValue)
		if nil != e {
			err = e
			break iterating
		}

		err = f(dataKey, c)
		if nil != err {
			break iterating
		}
	}
	iter.Release()
	if errStop == err {
		err = nil
	}
	if nil == err {
		if e := iter.Error(); nil != e {
			err = wrap(fault.ErrStorageReadFailed, e)
		}
	}
	return err
}
