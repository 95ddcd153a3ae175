// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ledgerdb/background"
)

type ticker struct {
	count    int64
	finished int32
}

func (state *ticker) Run(args interface{}, shutdown <-chan struct{}) {
	delay := args.(time.Duration)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(delay):
			atomic.AddInt64(&state.count, 1)
		}
	}
	atomic.StoreInt32(&state.finished, 1)
}

func TestStartStop(t *testing.T) {
	proc1 := &ticker{}
	proc2 := &ticker{}

	p := background.Start(background.Processes{proc1, proc2}, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	// Stop has joined both goroutines
	assert.Equal(t, int32(1), atomic.LoadInt32(&proc1.finished), "process 1 finished")
	assert.Equal(t, int32(1), atomic.LoadInt32(&proc2.finished), "process 2 finished")
	assert.True(t, atomic.LoadInt64(&proc1.count) > 0, "process 1 ran")
	assert.True(t, atomic.LoadInt64(&proc2.count) > 0, "process 2 ran")

	// no more work after stop
	c := atomic.LoadInt64(&proc1.count)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, c, atomic.LoadInt64(&proc1.count), "stopped process is idle")
}

func TestStopTwice(t *testing.T) {
	proc := &ticker{}
	p := background.Start(background.Processes{proc}, time.Millisecond)
	p.Stop()
	p.Stop()
	assert.Equal(t, int32(1), atomic.LoadInt32(&proc.finished), "finished")
}

func TestStartEmpty(t *testing.T) {
	p := background.Start(nil, nil)
	p.Stop()
}
