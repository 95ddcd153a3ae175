// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package spool - load batch files dropped into a directory
//
// a producer writes a batch to a temporary name and renames it to
// NAME.json, each batch becomes one ledger block. A loaded file is
// renamed to NAME.done, a rejected one to NAME.failed. Files already
// present when the spooler starts are loaded first in name order.
//
// batch file format:
//
//   {
//     "timestamp": 1580000000,
//     "keys": ["k1", "k2"],
//     "values": ["<base64>", "<base64>"]
//   }
package spool
