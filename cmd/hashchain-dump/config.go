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

package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/hashchain"
	"gopkg.in/yaml.v3"
)

// Recognized values for the hasher setting.
const (
	hasherDefault  = "default"
	hasherXXHash   = "xxhash"
	hasherIdentity = "identity"
)

// pair is a single key/value to insert.
type pair struct {
	Key   int64  `toml:"key" yaml:"key"`
	Value string `toml:"value" yaml:"value"`
}

// input is the contents of an input file.
type input struct {
	Hasher string `toml:"hasher" yaml:"hasher"`
	Pairs  []pair `toml:"pair" yaml:"pairs"`
}

// sampleInput is used when no input file is given.
var sampleInput = input{
	Hasher: hasherDefault,
	Pairs: []pair{
		{3, "three"},
		{4, "four"},
		{4, "another four"},
		{5, "five"},
	},
}

// loadInput decodes the input file at path. Files ending in .yaml or .yml
// are decoded as YAML, everything else as TOML. Unknown keys are an error
// in either format.
func loadInput(path string) (input, error) {
	var in input
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return in, fmt.Errorf("reading %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to the zero input.
		if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
			return in, fmt.Errorf("decoding %s: %w", path, err)
		}
	default:
		md, err := toml.DecodeFile(path, &in)
		if err != nil {
			return in, fmt.Errorf("decoding %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return in, fmt.Errorf("decoding %s: unknown keys %v", path, undecoded)
		}
	}
	return in, nil
}

// hasherOptions returns the map options selecting the named hash function.
func hasherOptions(name string) ([]hashchain.Option[int64, string], error) {
	switch name {
	case "", hasherDefault:
		return nil, nil
	case hasherXXHash:
		return []hashchain.Option[int64, string]{
			hashchain.WithHash[int64, string](xxhashInt64),
		}, nil
	case hasherIdentity:
		return []hashchain.Option[int64, string]{
			hashchain.WithHash[int64, string](func(key *int64, _ uintptr) uintptr {
				return uintptr(*key)
			}),
		}, nil
	default:
		return nil, fmt.Errorf("unknown hasher %q (want %s, %s or %s)",
			name, hasherDefault, hasherXXHash, hasherIdentity)
	}
}

func xxhashInt64(key *int64, seed uintptr) uintptr {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(*key))
	return uintptr(xxhash.Sum64(buf[:])) ^ seed
}
