// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfiguration(t *testing.T, name string, content string) string {
	directory, err := filepath.Abs(filepath.Join(testingDirName, name))
	require.Nil(t, err)
	require.Nil(t, os.MkdirAll(directory, 0o700))
	fileName := filepath.Join(directory, "ledgerd.conf")
	require.Nil(t, ioutil.WriteFile(fileName, []byte(content), 0o600))
	return fileName
}

func TestSampleConfiguration(t *testing.T) {
	sample, err := ioutil.ReadFile("ledgerd.conf.sample")
	require.Nil(t, err)

	fileName := writeConfiguration(t, "sample", string(sample))
	directory := filepath.Dir(fileName)

	options, err := getConfiguration(fileName)
	require.Nil(t, err)

	assert.Equal(t, directory, options.DataDirectory)
	assert.Equal(t, "", options.PidFile)
	assert.Equal(t, "", options.SpoolDirectory)
	assert.Equal(t, 1000, options.BuildInterval)
	assert.Equal(t, filepath.Join(directory, "data"), options.Database.Directory)
	assert.Equal(t, filepath.Join(directory, "data", "ledger.leveldb"), options.Database.Name)
	assert.Equal(t, 8192, options.Database.HashCacheSize)
	assert.Equal(t, float64(0), options.Requests.Rate)
	assert.Equal(t, 1000, options.Requests.MaximumCount)
	assert.Equal(t, filepath.Join(directory, "log"), options.Logging.Directory)
	assert.Equal(t, "ledgerd.log", options.Logging.File)
	assert.Equal(t, "info", options.Logging.Levels["ledger"])

	info, err := os.Stat(options.Database.Directory)
	require.Nil(t, err)
	assert.True(t, info.IsDir(), "database directory created")
}

func TestConfigurationPaths(t *testing.T) {
	fileName := writeConfiguration(t, "paths", `
return {
    data_directory = ".",
    pidfile = "ledgerd.pid",
    spool_directory = "incoming",
    build_interval = 50,
    requests = {
        rate = 100,
        burst = 10,
    },
}
`)
	directory := filepath.Dir(fileName)

	options, err := getConfiguration(fileName)
	require.Nil(t, err)
	assert.Equal(t, filepath.Join(directory, "ledgerd.pid"), options.PidFile)
	assert.Equal(t, filepath.Join(directory, "incoming"), options.SpoolDirectory)
	assert.Equal(t, 50, options.BuildInterval)
	assert.Equal(t, float64(100), options.Requests.Rate)
	assert.Equal(t, 10, options.Requests.Burst)
	assert.Equal(t, defaultMaximumCount, options.Requests.MaximumCount, "default kept")
}

func TestConfigurationErrors(t *testing.T) {
	for name, content := range map[string]string{
		"no-directory":   `return {}`,
		"home-directory": `return { data_directory = "~" }`,
		"missing":        `return { data_directory = "/does/not/exist" }`,
		"interval":       `return { data_directory = ".", build_interval = 0 }`,
		"database-path":  `return { data_directory = ".", database = { name = "sub/ledger.leveldb" } }`,
	} {
		fileName := writeConfiguration(t, name, content)
		_, err := getConfiguration(fileName)
		assert.NotNil(t, err, name)
	}
}
