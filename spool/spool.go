// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spool

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/versionstore"
	"github.com/bitmark-inc/logger"
)

// file name suffixes
const (
	BatchSuffix  = ".json"
	DoneSuffix   = ".done"
	FailedSuffix = ".failed"
)

// delay before batches refused by rate limiting are loaded again
const RetryInterval = time.Second

// Putter - destination for loaded batches
type Putter interface {
	Put(keys []string, values [][]byte, timestamp uint64) *versionstore.Reply
}

// Batch - contents of one batch file
type Batch struct {
	Timestamp uint64   `json:"timestamp"`
	Keys      []string `json:"keys"`
	Values    [][]byte `json:"values"`
}

// Spooler - background loader for one directory
type Spooler struct {
	log       *logger.L
	directory string
	store     Putter
	watcher   *fsnotify.Watcher
	deferred  bool
}

// New - watch a directory, nothing is loaded until Run
func New(directory string, store Putter) (*Spooler, error) {
	log := logger.New("spool")

	directory, err := filepath.Abs(filepath.Clean(directory))
	if nil != err {
		return nil, err
	}

	info, err := os.Stat(directory)
	if nil != err {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "spool", Path: directory, Err: os.ErrInvalid}
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher: error: %s", err)
		return nil, err
	}
	if err := watcher.Add(directory); nil != err {
		log.Errorf("watch: %q  error: %s", directory, err)
		watcher.Close()
		return nil, err
	}

	return &Spooler{
		log:       log,
		directory: directory,
		store:     store,
		watcher:   watcher,
	}, nil
}

// Run - load existing batches then follow the directory until
// shutdown
func (s *Spooler) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Infof("starting…  directory: %q", s.directory)

	s.scan()

	var retry <-chan time.Time

loop:
	for {
		if s.deferred && nil == retry {
			retry = time.After(RetryInterval)
		}

		select {
		case <-shutdown:
			break loop

		case <-retry:
			retry = nil
			log.Debug("retry deferred batches")
			s.scan()

		case event, ok := <-s.watcher.Events:
			if !ok {
				break loop
			}
			log.Tracef("file event: %v", event)
			if !isBatch(event.Name) {
				continue
			}
			if 0 != event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) {
				s.process(event.Name)
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)
		}
	}

	s.watcher.Close()
	log.Info("stopped")
}

// load every batch already in the directory
func (s *Spooler) scan() {
	s.deferred = false

	entries, err := ioutil.ReadDir(s.directory)
	if nil != err {
		s.log.Errorf("scan: %q  error: %s", s.directory, err)
		return
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Mode().IsRegular() && isBatch(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		s.process(filepath.Join(s.directory, name))
	}
}

// load one batch file and rename it by the outcome
//
// a batch refused by rate limiting stays in place for the next scan
func (s *Spooler) process(fileName string) {
	log := s.log

	data, err := ioutil.ReadFile(fileName)
	if os.IsNotExist(err) {
		// an earlier event already handled it
		return
	}
	if nil != err {
		log.Errorf("read: %q  error: %s", fileName, err)
		return
	}

	base := strings.TrimSuffix(fileName, BatchSuffix)

	var batch Batch
	if err := json.Unmarshal(data, &batch); nil != err {
		log.Warnf("decode: %q  error: %s", fileName, err)
		s.rename(fileName, base+FailedSuffix)
		return
	}

	reply := s.store.Put(batch.Keys, batch.Values, batch.Timestamp)
	if fault.ErrRateLimiting.Error() == reply.Err {
		log.Infof("deferred: %q  error: %s", fileName, reply.Err)
		s.deferred = true
		return
	}
	if "" != reply.Err {
		log.Warnf("put: %q  error: %s", fileName, reply.Err)
		s.rename(fileName, base+FailedSuffix)
		return
	}

	block := uint64(0)
	if len(reply.Values) > 0 {
		block = reply.Values[0].EstimateBlock
	}
	log.Infof("loaded: %q  keys: %d  block: %d", fileName, len(batch.Keys), block)
	s.rename(fileName, base+DoneSuffix)
}

func (s *Spooler) rename(from string, to string) {
	if err := os.Rename(from, to); nil != err {
		s.log.Errorf("rename: %q to %q  error: %s", from, to, err)
	}
}

func isBatch(name string) bool {
	return strings.HasSuffix(name, BatchSuffix)
}
