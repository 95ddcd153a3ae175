// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package skiplist

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"github.com/bitmark-inc/ledgerdb/chunk"
	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/storage"
)

// list shape
const (
	MaxLevel    = 16
	Probability = 0.5
)

// None - forward link to nothing
const None = int64(-1)

// Prefix - namespace of all skip list nodes in the store
const Prefix = "skiplist_"

const headSuffix = "|head"

// key of the sentinel, above every version
const headKey = int64(math.MaxInt64)

// Node - one version of a key
type Node struct {
	Key     int64
	Value   []byte
	Forward []int64
}

// SkipList - per key version index, newest version first
type SkipList struct {
	sync.Mutex
	store storage.Store
	rng   *rand.Rand
}

// New - skip list over a store with its own random source
func New(store storage.Store, seed int64) *SkipList {
	return &SkipList{
		store: store,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// HeadKey - store key of the sentinel for a logical key
func HeadKey(prefix string) []byte {
	return []byte(Prefix + prefix + headSuffix)
}

// NodeKey - store key of one version
func NodeKey(prefix string, version int64) []byte {
	return []byte(Prefix + prefix + "|" + strconv.FormatInt(version, 10))
}

// Insert - add a version, or replace the value of an existing one
func (s *SkipList) Insert(prefix string, version int64, value []byte) error {
	if version < 0 || headKey == version {
		return fault.ErrInvalidVersion
	}

	s.Lock()
	defer s.Unlock()

	head, err := s.load(HeadKey(prefix))
	if nil != err {
		return err
	}
	if nil == head {
		head = newNode(headKey, nil, MaxLevel)
	}

	// predecessor at each level, keyed for writing back
	var update [MaxLevel]*Node
	var updateKey [MaxLevel][]byte

	x := head
	xKey := HeadKey(prefix)
	for i := MaxLevel - 1; i >= 0; i -= 1 {
		for None != x.Forward[i] && x.Forward[i] > version {
			k := NodeKey(prefix, x.Forward[i])
			next, err := s.loadExisting(k)
			if nil != err {
				return err
			}
			x, xKey = next, k
		}
		update[i] = x
		updateKey[i] = xKey
	}

	batch := s.store.NewBatch()

	if version == x.Forward[0] {
		k := NodeKey(prefix, version)
		existing, err := s.loadExisting(k)
		if nil != err {
			return err
		}
		existing.Value = value
		batch.Put(k, existing.encode())
		return batch.Commit()
	}

	level := s.randomLevel()
	n := newNode(version, value, level)
	for i := 0; i < level; i += 1 {
		n.Forward[i] = update[i].Forward[i]
		update[i].Forward[i] = version
	}

	// a predecessor can appear at several levels, write it once
	written := make(map[string]struct{})
	for i := level - 1; i >= 0; i -= 1 {
		k := string(updateKey[i])
		if _, ok := written[k]; ok {
			continue
		}
		written[k] = struct{}{}
		batch.Put(updateKey[i], update[i].encode())
	}
	batch.Put(NodeKey(prefix, version), n.encode())
	return batch.Commit()
}

// Find - the node for an exact version, nil if absent
func (s *SkipList) Find(prefix string, version int64) (*Node, error) {
	head, err := s.load(HeadKey(prefix))
	if nil != err || nil == head {
		return nil, err
	}

	x := head
	for i := MaxLevel - 1; i >= 0; i -= 1 {
		for None != x.Forward[i] && x.Forward[i] > version {
			next, err := s.loadExisting(NodeKey(prefix, x.Forward[i]))
			if nil != err {
				return nil, err
			}
			x = next
		}
	}
	if version != x.Forward[0] {
		return nil, nil
	}
	return s.loadExisting(NodeKey(prefix, version))
}

// Scan - up to n most recent versions, newest first
func (s *SkipList) Scan(prefix string, n int) ([]*Node, error) {
	if n <= 0 {
		return nil, fault.ErrInvalidCount
	}
	head, err := s.load(HeadKey(prefix))
	if nil != err || nil == head {
		return nil, err
	}

	nodes := make([]*Node, 0, n)
	next := head.Forward[0]
	for None != next && len(nodes) < n {
		node, err := s.loadExisting(NodeKey(prefix, next))
		if nil != err {
			return nil, err
		}
		nodes = append(nodes, node)
		next = node.Forward[0]
	}
	return nodes, nil
}

// Latest - most recent version, nil if the key was never written
func (s *SkipList) Latest(prefix string) (*Node, error) {
	nodes, err := s.Scan(prefix, 1)
	if nil != err || 0 == len(nodes) {
		return nil, err
	}
	return nodes[0], nil
}

// Heads - every logical key with a list and its newest version
func (s *SkipList) Heads() (map[string]int64, error) {
	start := []byte(Prefix)
	heads := make(map[string]int64)
	cursor := s.store.NewFetchCursor(start, storage.PrefixLimit(start))
	err := cursor.Map(func(key []byte, c *chunk.Chunk) error {
		k := string(key)
		if !strings.HasSuffix(k, headSuffix) {
			return nil
		}
		head, err := decodeNode(c)
		if nil != err {
			return err
		}
		if None == head.Forward[0] {
			return nil
		}
		prefix := k[len(Prefix) : len(k)-len(headSuffix)]
		heads[prefix] = head.Forward[0]
		return nil
	})
	if nil != err {
		return nil, err
	}
	return heads, nil
}

// geometric level in [1, MaxLevel]
func (s *SkipList) randomLevel() int {
	level := 1
	for level < MaxLevel && s.rng.Float64() < Probability {
		level += 1
	}
	return level
}

func newNode(key int64, value []byte, level int) *Node {
	forward := make([]int64, level)
	for i := range forward {
		forward[i] = None
	}
	return &Node{
		Key:     key,
		Value:   value,
		Forward: forward,
	}
}

// nil node if absent
func (s *SkipList) load(key []byte) (*Node, error) {
	c, err := s.store.Get(key)
	if nil != err {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, nil
	}
	return decodeNode(c)
}

// a node a link points at must exist
func (s *SkipList) loadExisting(key []byte) (*Node, error) {
	n, err := s.load(key)
	if nil != err {
		return nil, err
	}
	if nil == n {
		return nil, fault.ErrMissingSkipNode
	}
	return n, nil
}

func (n *Node) encode() *chunk.Chunk {
	w := chunk.NewWriter(chunk.SkipNode).
		Int64(n.Key).
		Bytes(n.Value).
		Varint(uint64(len(n.Forward)))
	for _, f := range n.Forward {
		w.Int64(f)
	}
	return w.Chunk()
}

func decodeNode(c *chunk.Chunk) (*Node, error) {
	r, err := c.Expect(chunk.SkipNode)
	if nil != err {
		return nil, err
	}
	key, err := r.Int64()
	if nil != err {
		return nil, err
	}
	value, err := r.Bytes()
	if nil != err {
		return nil, err
	}
	count, err := r.Varint()
	if nil != err {
		return nil, err
	}
	if 0 == count || count > MaxLevel {
		return nil, fault.ErrInvalidCount
	}
	forward := make([]int64, count)
	for i := range forward {
		forward[i], err = r.Int64()
		if nil != err {
			return nil, err
		}
	}
	if err := r.Done(); nil != err {
		return nil, err
	}
	return &Node{
		Key:     key,
		Value:   value,
		Forward: forward,
	}, nil
}
