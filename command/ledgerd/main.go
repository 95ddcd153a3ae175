// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/ledgerdb/background"
	"github.com/bitmark-inc/ledgerdb/ledger"
	"github.com/bitmark-inc/ledgerdb/spool"
	"github.com/bitmark-inc/ledgerdb/storage"
	"github.com/bitmark-inc/ledgerdb/versionstore"
	"github.com/bitmark-inc/logger"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// anything other than run is a one-shot data command that drives
	// its own build cycles
	running := 0 == len(arguments) || isRunCommand(arguments[0])

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if running && "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0o600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// start the data storage
	log.Infof("database: %q", theConfiguration.Database.Name)
	handle, err := storage.Open(theConfiguration.Database.Name, storage.Options{
		HashCacheSize: theConfiguration.Database.HashCacheSize,
	})
	if nil != err {
		log.Criticalf("storage open error: %s", err)
		exitwithstatus.Message("storage open error: %s", err)
	}
	defer handle.Close()

	interval := time.Duration(0)
	if running {
		interval = time.Duration(theConfiguration.BuildInterval) * time.Millisecond
	}

	log.Info("initialise ledger")
	engine, err := ledger.New(handle, ledger.Options{
		Interval: interval,
		Seed:     time.Now().UnixNano(),
	})
	if nil != err {
		log.Criticalf("ledger initialise error: %s", err)
		exitwithstatus.Message("ledger initialise error: %s", err)
	}
	defer engine.Close()

	store := versionstore.New(engine, versionstore.Options{
		Rate:         theConfiguration.Requests.Rate,
		Burst:        theConfiguration.Requests.Burst,
		MaximumCount: theConfiguration.Requests.MaximumCount,
	})

	// these commands are allowed to access the ledger
	if !running {
		processDataCommand(log, arguments, engine, store)
		return
	}

	processes := background.Processes{}

	// optional directory of batch files
	if "" != theConfiguration.SpoolDirectory {
		if err := os.MkdirAll(theConfiguration.SpoolDirectory, 0o700); nil != err {
			log.Criticalf("spool directory error: %s", err)
			exitwithstatus.Message("spool directory error: %s", err)
		}
		spooler, err := spool.New(theConfiguration.SpoolDirectory, store)
		if nil != err {
			log.Criticalf("spool initialise error: %s", err)
			exitwithstatus.Message("spool initialise error: %s", err)
		}
		processes = append(processes, spooler)
	}

	// if memory logging enabled
	if len(options["memory-stats"]) > 0 {
		processes = append(processes, newStats(engine, statsDelay))
	}

	if len(processes) > 0 {
		started := background.Start(processes, nil)
		defer started.Stop()
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}
