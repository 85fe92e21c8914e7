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

// package hashchain is a Go implementation of a separately chained hash
// table with cursor based iteration. See also:
// https://en.wikipedia.org/wiki/Hash_table#Separate_chaining.
//
// # Layout
//
// A Map is a table of N buckets, where N is the capacity of the map. Each
// bucket is a slice of entries whose keys hash to the bucket's index, i.e.
// hash(key)%N. Entries within a bucket are kept in the order they were
// appended, either by Put or by a rehash. A key is found by computing its
// bucket index and linearly scanning that bucket.
//
//	 table (capacity=4)
//	+---+
//	| 0 | --> [k4 v4]
//	+---+
//	| 1 | --> [k1 v1] [k5 v5] [k9 v9]
//	+---+
//	| 2 | --> (empty)
//	+---+
//	| 3 | --> [k3 v3]
//	+---+
//
// A new map starts with a single bucket. Before every Put the map checks
// whether storing one more entry would push the load factor (entries /
// buckets) above 3/4. If it would, the capacity is doubled and every entry
// is rehashed into a freshly allocated table which replaces the old table
// only once all entries have been relocated. Capacity never shrinks.
//
// # Cursors
//
// A Cursor names a (bucket, position) pair within the table. Iteration
// visits buckets in index order and entries within a bucket in position
// order, skipping empty buckets. The end cursor sits one past the last
// entry of the last bucket. Iteration order is therefore a function of the
// table layout and is neither insertion order nor stable across growth.
//
// Cursors are invalidated by growth, by a successful Delete and by Clear.
// Using an invalidated cursor panics.
package hashchain

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"slices"
	"strings"

	"go.uber.org/zap"
)

const (
	// The map grows when maxLoadNum/maxLoadDen of its buckets would be
	// exceeded by one more entry. The fraction is kept as integers so that
	// the check needs no floating point.
	maxLoadNum = 3
	maxLoadDen = 4
)

// Entry holds a key and value.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// bucket is the chain of entries sharing one bucket index. Keys within a
// bucket are unique.
type bucket[K comparable, V any] struct {
	entries []Entry[K, V]
}

// find returns the position of key within the bucket, or -1.
func (b *bucket[K, V]) find(key K) int {
	for i := range b.entries {
		if b.entries[i].Key == key {
			return i
		}
	}
	return -1
}

// Map is an unordered map from keys to values with Put, Get, Delete, and
// cursor based iteration. By default, a Map[K,V] hashes keys with
// hash/maphash, though a different hash function can be specified using the
// WithHash option.
//
// A Map is NOT goroutine-safe.
type Map[K comparable, V any] struct {
	// The hash function applied to keys of type K.
	hash func(key *K, seed uintptr) uintptr
	seed uintptr
	// logger receives growth events at debug level.
	logger *zap.Logger
	// buckets is the table. len(buckets) is the capacity and is always >= 1
	// for an initialized map.
	buckets []bucket[K, V]
	// The number of entries across all buckets.
	used int
	// gen is bumped whenever outstanding cursors become invalid: on growth,
	// on a successful Delete and on Clear.
	gen uint64
}

// New constructs a new, empty Map with a capacity of 1.
func New[K comparable, V any](options ...Option[K, V]) *Map[K, V] {
	m := &Map[K, V]{}
	m.Init(options...)
	return m
}

// Init initializes a Map in place, discarding any existing entries. The
// zero value for a Map is not usable until Init has been called.
func (m *Map[K, V]) Init(options ...Option[K, V]) {
	*m = Map[K, V]{
		hash:    newDefaultHash[K](maphash.MakeSeed()),
		seed:    uintptr(rand.Uint64()),
		logger:  zap.NewNop(),
		buckets: make([]bucket[K, V], 1),
		gen:     m.gen + 1,
	}

	for _, op := range options {
		op.apply(m)
	}

	m.checkInvariants()
}

// Put inserts an entry into the map, overwriting the existing value if an
// entry with the same key already exists. It returns a cursor positioned at
// the stored entry. If the key was already present, prev holds the value
// that was overwritten and replaced is true.
//
// Put may grow the map, which invalidates all outstanding cursors. The
// growth check is made before the key is looked up, so an overwrite can
// grow the map too.
func (m *Map[K, V]) Put(key K, value V) (c Cursor[K, V], prev V, replaced bool) {
	if m.needsGrow() {
		m.grow()
	}

	i := m.bucketIndex(&key)
	b := &m.buckets[i]
	if j := b.find(key); j >= 0 {
		e := &b.entries[j]
		prev, e.Value = e.Value, value
		m.checkInvariants()
		return m.cursor(i, j), prev, true
	}

	b.entries = append(b.entries, Entry[K, V]{Key: key, Value: value})
	m.used++
	m.checkInvariants()
	return m.cursor(i, len(b.entries)-1), prev, false
}

// PutEntries puts each of the entries in order. Later entries with a key
// equal to an earlier one overwrite it.
func (m *Map[K, V]) PutEntries(entries ...Entry[K, V]) {
	for _, e := range entries {
		m.Put(e.Key, e.Value)
	}
}

// PutAll puts every key and value produced by seq, in order. Map.All has
// the shape of seq, so m.PutAll(other.All) copies other into m.
func (m *Map[K, V]) PutAll(seq func(yield func(key K, value V) bool)) {
	seq(func(key K, value V) bool {
		m.Put(key, value)
		return true
	})
}

// Emplace constructs the value for key by calling newValue and then puts
// it exactly as Put would.
func (m *Map[K, V]) Emplace(
	key K, newValue func(key K) V,
) (c Cursor[K, V], prev V, replaced bool) {
	return m.Put(key, newValue(key))
}

// Get retrieves the value from the map for the specified key, return
// ok=false if the key is not present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	b := &m.buckets[m.bucketIndex(&key)]
	if j := b.find(key); j >= 0 {
		return b.entries[j].Value, true
	}
	return value, false
}

// Find returns a cursor positioned at the entry for key, return ok=false
// if the key is not present. The cursor can be used to read or modify the
// stored value in place until the map next grows or has an entry deleted.
func (m *Map[K, V]) Find(key K) (c Cursor[K, V], ok bool) {
	i := m.bucketIndex(&key)
	if j := m.buckets[i].find(key); j >= 0 {
		return m.cursor(i, j), true
	}
	return m.End(), false
}

// Contains reports whether key is present in the map.
func (m *Map[K, V]) Contains(key K) bool {
	return m.buckets[m.bucketIndex(&key)].find(key) >= 0
}

// Delete deletes the entry corresponding to the specified key from the
// map. If the key was present, ok is true and next is positioned at the
// entry that followed the deleted one in iteration order (or at End). It
// is a noop to delete a non-existent key, in which case next is End and ok
// is false.
//
// A successful Delete invalidates all outstanding cursors.
func (m *Map[K, V]) Delete(key K) (next Cursor[K, V], ok bool) {
	i := m.bucketIndex(&key)
	b := &m.buckets[i]
	j := b.find(key)
	if j < 0 {
		return m.End(), false
	}

	b.entries = slices.Delete(b.entries, j, j+1)
	m.used--
	m.gen++
	m.checkInvariants()
	return m.settle(i, j), true
}

// Clear deletes all entries from the map resulting in an empty map. The
// capacity of the map is retained.
func (m *Map[K, V]) Clear() {
	for i := range m.buckets {
		b := &m.buckets[i]
		clear(b.entries)
		b.entries = b.entries[:0]
	}
	m.used = 0
	m.gen++
	m.checkInvariants()
}

// All calls yield sequentially for each key and value present in the map,
// in cursor order. If yield returns false, iteration stops. Put may be
// called during iteration, though there is no guarantee that the mutations
// will be visible to the iteration. Every entry present when iteration
// began is yielded exactly once, even if the map grows. Delete must not be
// called during iteration.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	// Snapshot the table and each bucket's entries so that iteration
	// remains valid if the map is resized.
	buckets := m.buckets
	for i := range buckets {
		entries := buckets[i].entries
		for j := range entries {
			if !yield(entries[j].Key, entries[j].Value) {
				return
			}
		}
	}
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.used
}

// Empty reports whether the map has no entries. It is equivalent to
// m.Begin().Equal(m.End()).
func (m *Map[K, V]) Empty() bool {
	return m.used == 0
}

// Cap returns the number of buckets in the map.
func (m *Map[K, V]) Cap() int {
	return len(m.buckets)
}

// String returns a rendering of the table layout, one line per bucket.
func (m *Map[K, V]) String() string {
	return m.debugString()
}

// bucketIndex returns the index of the bucket key belongs to for the
// current capacity.
func (m *Map[K, V]) bucketIndex(key *K) int {
	m.checkInit()
	return int(m.hash(key, m.seed) % uintptr(len(m.buckets)))
}

// needsGrow reports whether storing one more entry would take the load
// factor above maxLoadNum/maxLoadDen.
func (m *Map[K, V]) needsGrow() bool {
	m.checkInit()
	return maxLoadDen*(m.used+1) > maxLoadNum*len(m.buckets)
}

// checkInit panics if m has not been initialized by New or Init.
func (m *Map[K, V]) checkInit() {
	if len(m.buckets) == 0 {
		panic("hashchain: use of uninitialized Map")
	}
}

// grow doubles the capacity of the map.
func (m *Map[K, V]) grow() {
	m.resize(max(1, 2*len(m.buckets)))
}

// resize rehashes every entry into a new table with newCapacity buckets
// and then discards the old table. Entries are visited in cursor order so
// that entries which land in the same new bucket keep their relative order.
func (m *Map[K, V]) resize(newCapacity int) {
	oldCapacity := len(m.buckets)
	buckets := make([]bucket[K, V], newCapacity)
	n := uintptr(newCapacity)
	for i := range m.buckets {
		for _, e := range m.buckets[i].entries {
			j := m.hash(&e.Key, m.seed) % n
			buckets[j].entries = append(buckets[j].entries, e)
		}
	}

	m.buckets = buckets
	m.gen++

	m.logger.Debug("hashchain: resize",
		zap.Int("old-capacity", oldCapacity),
		zap.Int("new-capacity", newCapacity),
		zap.Int("used", m.used))

	m.checkInvariants()
}

func (m *Map[K, V]) checkInvariants() {
	if invariants {
		if len(m.buckets) == 0 {
			panic("invariant failed: map has no buckets")
		}

		var used int
		for i := range m.buckets {
			b := &m.buckets[i]
			for j := range b.entries {
				e := &b.entries[j]
				used++
				// A key that is not equal to itself (e.g. NaN) can neither be
				// found nor rehashed consistently.
				if e.Key != e.Key {
					continue
				}
				if k := m.bucketIndex(&e.Key); k != i {
					panic(fmt.Sprintf("invariant failed: bucket(%d)[%d]: %v belongs in bucket %d\n%s",
						i, j, e.Key, k, m.debugString()))
				}
				if k := b.find(e.Key); k != j {
					panic(fmt.Sprintf("invariant failed: bucket(%d)[%d]: %v duplicated at %d\n%s",
						i, j, e.Key, k, m.debugString()))
				}
			}
		}

		if used != m.used {
			panic(fmt.Sprintf("invariant failed: found %d entries, but used count is %d\n%s",
				used, m.used, m.debugString()))
		}
	}
}

func (m *Map[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  used=%d\n", len(m.buckets), m.used)
	for i := range m.buckets {
		fmt.Fprintf(&buf, "  %4d:", i)
		entries := m.buckets[i].entries
		if len(entries) == 0 {
			buf.WriteString(" empty")
		}
		for _, e := range entries {
			fmt.Fprintf(&buf, " [%v %v]", e.Key, e.Value)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
