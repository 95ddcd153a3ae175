// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"runtime"
	"time"

	"github.com/bitmark-inc/ledgerdb/ledger"
	"github.com/bitmark-inc/logger"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

// periodic memory and ledger report
type stats struct {
	log    *logger.L
	engine *ledger.Engine
	delay  time.Duration
}

func newStats(engine *ledger.Engine, delay time.Duration) *stats {
	return &stats{
		log:    logger.New("stats"),
		engine: engine,
		delay:  delay,
	}
}

func (s *stats) Run(args interface{}, shutdown <-chan struct{}) {
	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	s.report()
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			s.report()
		}
	}
	s.log.Info("stopped")
}

func (s *stats) report() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.log.Infof("memory: allocated: %d M  cumulative: %d M  OS virtual: %d M  collections: %d",
		m.Alloc/mega, m.TotalAlloc/mega, m.Sys/mega, m.NumGC)

	pending := s.engine.Pending()
	commit := s.engine.LatestCommit()
	if nil == commit {
		s.log.Infof("ledger: no commit  pending blocks: %d", pending)
		return
	}
	s.log.Infof("ledger: commit: %d  tip block: %d  pending blocks: %d", commit.Sequence, commit.TipBlock, pending)
}
