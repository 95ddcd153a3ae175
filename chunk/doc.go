// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chunk - the single binary schema for every persisted record
//
// layout:
//
//   | u32 length (whole chunk, big endian) | u8 type | payload ... |
//
// payloads are built with Writer and decoded with Reader, whose
// accessors never read past the end of the buffer
package chunk
