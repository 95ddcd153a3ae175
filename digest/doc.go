// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package digest - 160 bit content hash used for every authenticated
// structure in the ledger
//
// the text form is RFC 4648 base32 without padding so a digest
// always prints as 32 characters
package digest
