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

package hashchain

import "hash/maphash"

// newDefaultHash returns a hash function which hashes keys the way the
// builtin map[K]V does, via maphash.Comparable with the given seed. Init
// installs one with a fresh seed per Map, so the set of colliding keys
// differs between maps. The seed argument of the returned function is
// ignored. Keys which are interfaces holding non-comparable dynamic values
// cause a panic, as they would for the builtin map.
func newDefaultHash[K comparable](seed maphash.Seed) func(key *K, _ uintptr) uintptr {
	return func(key *K, _ uintptr) uintptr {
		return uintptr(maphash.Comparable(seed, *key))
	}
}
