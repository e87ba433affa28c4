// Copyright 2023-2026 The declower authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultConfigName is looked for in the working directory when --config is
// not given.
const defaultConfigName = "declower.yaml"

// fileConfig mirrors the declower.yaml schema. Command-line flags take
// precedence over values set here.
type fileConfig struct {
	// Globs to transform when no arguments are given.
	Include []string `yaml:"include"`
	Marker  string   `yaml:"marker"`
	Out     string   `yaml:"out"`
	// Maximum number of files transformed concurrently.
	Parallelism int  `yaml:"parallelism"`
	CacheSize   *int `yaml:"cacheSize"`
}

func loadConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigName
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &fileConfig{}, nil
		}
		return nil, err
	}
	var cfg fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// apply fills unset options from the config file.
func (c *fileConfig) apply(opts *options) {
	if opts.marker == "" {
		opts.marker = c.Marker
	}
	if opts.outDir == "" {
		opts.outDir = c.Out
	}
	if opts.parallelism == 0 {
		opts.parallelism = c.Parallelism
	}
	if c.CacheSize != nil && opts.cacheSize == 256 {
		opts.cacheSize = *c.CacheSize
	}
}
