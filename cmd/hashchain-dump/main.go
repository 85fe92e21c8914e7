// Copyright 2026 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// hashchain-dump inserts a list of key/value pairs into a hashchain.Map in
// order and prints the map's contents in iteration order.
//
// Usage:
//
//	hashchain-dump [-input pairs.toml] [-hasher default|xxhash|identity] [-v]
//
// Without -input a built-in sample is used. An input file looks like:
//
//	hasher = "identity"
//
//	[[pair]]
//	key = 3
//	value = "three"
//
// or, in YAML (selected by a .yaml or .yml extension):
//
//	hasher: identity
//	pairs:
//	  - {key: 3, value: three}
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/hashchain"
	"go.uber.org/zap"
)

type options struct {
	input   string
	hasher  string
	verbose bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("hashchain-dump", flag.ContinueOnError)
	fs.StringVar(&opts.input, "input", "", "TOML or YAML file of pairs to insert (default: built-in sample)")
	fs.StringVar(&opts.hasher, "hasher", "", "hash function: default, xxhash or identity (overrides the input file)")
	fs.BoolVar(&opts.verbose, "v", false, "log map internals")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func run(opts options, logger *zap.Logger, w io.Writer) error {
	in := sampleInput
	if opts.input != "" {
		var err error
		if in, err = loadInput(opts.input); err != nil {
			return err
		}
	}

	hasher := in.Hasher
	if opts.hasher != "" {
		hasher = opts.hasher
	}
	mapOpts, err := hasherOptions(hasher)
	if err != nil {
		return err
	}
	mapOpts = append(mapOpts, hashchain.WithLogger[int64, string](logger))

	m := hashchain.New[int64, string](mapOpts...)
	for _, p := range in.Pairs {
		if _, prev, replaced := m.Put(p.Key, p.Value); replaced {
			logger.Debug("overwrote value",
				zap.Int64("key", p.Key),
				zap.String("prev", prev),
				zap.String("value", p.Value))
		}
	}

	if _, err := fmt.Fprintln(w, "contents:"); err != nil {
		return err
	}
	for c := m.Begin(); !c.IsEnd(); c = c.Next() {
		bucket, pos := c.Position()
		logger.Debug("entry", zap.Int64("key", c.Key()), zap.Int("bucket", bucket), zap.Int("pos", pos))
		if _, err := fmt.Fprintf(w, " %d => %s\n", c.Key(), c.Value()); err != nil {
			return err
		}
	}

	logger.Info("done",
		zap.String("hasher", hasher),
		zap.Int("len", m.Len()),
		zap.Int("capacity", m.Cap()))
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(opts, logger, os.Stdout); err != nil {
		logger.Error("hashchain-dump failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
