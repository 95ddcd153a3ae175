// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/ledgerdb/digest"
	"github.com/bitmark-inc/ledgerdb/fault"
	"github.com/bitmark-inc/ledgerdb/ledger"
	"github.com/bitmark-inc/ledgerdb/versionstore"
	"github.com/bitmark-inc/logger"
)

func isRunCommand(command string) bool {
	return "start" == command || "run" == command
}

// setup command handler
//
// commands that need neither the configuration file nor the
// database
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false

	case "put", "get", "versions", "range", "digest", "proof", "proof-file", "audit":
		return false // defer processing until database is loaded

	case "verify":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing file name argument")
		}
		expected := ""
		if len(arguments) > 1 {
			expected = arguments[1]
		}
		if err := verifyFile(arguments[0], expected); nil != err {
			exitwithstatus.Message("verify: %q  error: %s", arguments[0], err)
		}

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  start                      (run)    - build commits until signalled, same as no arguments\n")
		fmt.Printf("                                        loads batch files from the spool directory if configured\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  put KEY VALUE [TIMESTAMP]           - write one key as a new block and commit it\n")
		fmt.Printf("  get KEY...                          - latest value of each key\n")
		fmt.Printf("  versions KEY N                      - up to N versions of a key, newest first\n")
		fmt.Printf("  range FROM TO                       - latest value of every key from FROM to TO\n")
		fmt.Printf("  digest                              - the latest published commit\n")
		fmt.Printf("  proof BLOCK KEY...                  - JSON proofs of keys against the latest commit\n")
		fmt.Printf("  proof-file FILE BLOCK KEY...        - write the proofs as a CBOR bundle\n")
		fmt.Printf("  audit SEQ FILE                      - write a CBOR audit bundle for commit SEQ\n")
		fmt.Printf("\n")

		fmt.Printf("  verify FILE [DIGEST]                - check a CBOR audit or proof bundle without a database\n")
		fmt.Printf("                                        optionally against an expected commit digest\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the ledger is open without a background builder
func processDataCommand(log *logger.L, arguments []string, engine *ledger.Engine, store *versionstore.Store) {

	command := arguments[0]
	arguments = arguments[1:]

	switch command {

	case "put":
		if len(arguments) < 2 {
			exitwithstatus.Message("missing key and value arguments")
		}
		timestamp := uint64(time.Now().Unix())
		if len(arguments) > 2 {
			timestamp = parseNumber("timestamp", arguments[2])
		}
		reply := checked(store.Put([]string{arguments[0]}, [][]byte{[]byte(arguments[1])}, timestamp))

		if _, err := engine.BuildCycle(); nil != err {
			log.Errorf("build cycle error: %s", err)
			exitwithstatus.Message("build cycle error: %s", err)
		}
		printJson("", reply)

	case "get":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing key argument")
		}
		printJson("", checked(store.BatchGet(arguments)))

	case "versions":
		if len(arguments) < 2 {
			exitwithstatus.Message("missing key and count arguments")
		}
		n := parseNumber("count", arguments[1])
		printJson("", checked(store.GetNVersions(arguments[0], int(n))))

	case "range":
		if len(arguments) < 2 {
			exitwithstatus.Message("missing from and to arguments")
		}
		printJson("", checked(store.GetRange(arguments[0], arguments[1])))

	case "digest":
		printJson("", checked(store.GetDigest()))

	case "proof":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing block number argument")
		}
		printJson("", checked(store.GetProof(proofRequest(arguments))))

	case "proof-file":
		if len(arguments) < 2 {
			exitwithstatus.Message("missing file name and block number arguments")
		}
		reply := checked(store.GetProof(proofRequest(arguments[1:])))
		bundle, err := reply.Bundle()
		if nil != err {
			exitwithstatus.Message("proof bundle error: %s", err)
		}
		data, err := bundle.EncodeCBOR()
		if nil != err {
			exitwithstatus.Message("proof encode error: %s", err)
		}
		writeFile(arguments[0], data)
		log.Infof("proof written: %q  commit: %d", arguments[0], bundle.Pointer.CommitSeq)

	case "audit":
		if len(arguments) < 2 {
			exitwithstatus.Message("missing commit number and file name arguments")
		}
		seq := parseNumber("commit number", arguments[0])
		reply := checked(store.GetAudit(seq))
		data, err := reply.Audit.EncodeCBOR()
		if nil != err {
			exitwithstatus.Message("audit encode error: %s", err)
		}
		writeFile(arguments[1], data)
		log.Infof("audit written: %q  commit: %d  blocks: %d", arguments[1], seq, len(reply.Audit.Blocks))

	default:
		exitwithstatus.Message("error: no such command: %s", command)
	}
}

// check a bundle file of either kind
func verifyFile(fileName string, expected string) error {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return err
	}

	var want digest.Digest
	if "" != expected {
		if want, err = digest.FromBase32(expected); nil != err {
			return err
		}
	}

	a, err := ledger.DecodeAuditor(data)
	if nil == err {
		if "" != expected && want != a.Digest {
			return fault.ErrCommitDigestMismatch
		}
		if err := a.Check(); nil != err {
			return err
		}
		fmt.Printf("audit of commit: %d  blocks: %d  keys: %d  against: %s  OK\n", a.CommitSeq, len(a.Blocks), len(a.Proofs), a.Digest)
		return nil
	}
	if fault.ErrNotAuditBundle != err {
		return err
	}

	bundle, err := ledger.DecodeProofBundle(data)
	if nil != err {
		return err
	}
	if "" != expected && want != bundle.Pointer.Digest {
		return fault.ErrCommitDigestMismatch
	}
	if err := bundle.Verify(bundle.Pointer); nil != err {
		return err
	}
	fmt.Printf("proof of blocks: %d  keys: %d  against commit: %d  digest: %s  OK\n",
		len(bundle.TreeProofs), len(bundle.KeyProofs), bundle.Pointer.CommitSeq, bundle.Pointer.Digest)
	return nil
}

// BLOCK KEY... as a single block request
func proofRequest(arguments []string) map[uint64][]string {
	block := parseNumber("block number", arguments[0])
	return map[uint64][]string{
		block: arguments[1:],
	}
}

func parseNumber(title string, s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if nil != err {
		exitwithstatus.Message("error in %s: %s", title, err)
	}
	return n
}

func checked(reply *versionstore.Reply) *versionstore.Reply {
	if "" != reply.Err {
		exitwithstatus.Message("error: %s", reply.Err)
	}
	return reply
}

func writeFile(fileName string, data []byte) {
	if err := ioutil.WriteFile(fileName, data, 0o600); nil != err {
		exitwithstatus.Message("error: writing: %q  error: %s", fileName, err)
	}
}
