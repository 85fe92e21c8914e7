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

import "fmt"

// Cursor identifies an entry in a Map by its bucket index and its position
// within that bucket, or the end sentinel which sits one past the last
// entry of the last bucket. Cursors are produced by Map.Begin, Map.End,
// Map.Put, Map.Find and Map.Delete and advanced with Next:
//
//	for c := m.Begin(); !c.IsEnd(); c = c.Next() {
//	  fmt.Printf("%v: %v\n", c.Key(), c.Value())
//	}
//
// A cursor is invalidated when the map grows, when an entry is deleted and
// when the map is cleared. Every method other than Equal and Position panics
// when called on an invalidated cursor.
//
// Note that the end sentinel's position is the length of the last bucket,
// so a cursor returned by End before a Put that appends to the last bucket
// names that new entry afterwards. Use IsEnd rather than comparing against
// a saved End.
type Cursor[K comparable, V any] struct {
	m      *Map[K, V]
	bucket int
	pos    int
	// gen is the generation of m the cursor was created in.
	gen uint64
}

// cursor returns a cursor at position j of bucket i.
func (m *Map[K, V]) cursor(i, j int) Cursor[K, V] {
	return Cursor[K, V]{m: m, bucket: i, pos: j, gen: m.gen}
}

// settle returns a cursor at the first entry at or after position j of
// bucket i, moving forward through the buckets past any that are exhausted
// or empty. If there is no such entry it returns the end sentinel.
func (m *Map[K, V]) settle(i, j int) Cursor[K, V] {
	m.checkInit()
	last := len(m.buckets) - 1
	for i < last && j >= len(m.buckets[i].entries) {
		i++
		j = 0
	}
	return m.cursor(i, j)
}

// Begin returns a cursor at the first entry of the map in iteration order,
// or the end sentinel if the map is empty.
func (m *Map[K, V]) Begin() Cursor[K, V] {
	return m.settle(0, 0)
}

// End returns the end sentinel: the position one past the last entry of
// the last bucket.
func (m *Map[K, V]) End() Cursor[K, V] {
	m.checkInit()
	last := len(m.buckets) - 1
	return m.cursor(last, len(m.buckets[last].entries))
}

// check panics if the cursor is the zero Cursor or has been invalidated.
func (c Cursor[K, V]) check() {
	if c.m == nil {
		panic("hashchain: use of zero Cursor")
	}
	if c.gen != c.m.gen {
		panic(fmt.Sprintf("hashchain: use of invalidated Cursor (bucket=%d pos=%d)", c.bucket, c.pos))
	}
}

// IsEnd reports whether c is the end sentinel.
func (c Cursor[K, V]) IsEnd() bool {
	c.check()
	last := len(c.m.buckets) - 1
	return c.bucket == last && c.pos >= len(c.m.buckets[last].entries)
}

// Next returns a cursor at the entry following c in iteration order, or the
// end sentinel if c is the last entry. Advancing the end sentinel panics.
func (c Cursor[K, V]) Next() Cursor[K, V] {
	c.entry()
	return c.m.settle(c.bucket, c.pos+1)
}

// Equal reports whether c and o refer to the same map, bucket and
// position.
func (c Cursor[K, V]) Equal(o Cursor[K, V]) bool {
	return c.m == o.m && c.bucket == o.bucket && c.pos == o.pos
}

// Position returns the bucket index and the position within that bucket
// named by c.
func (c Cursor[K, V]) Position() (bucket, pos int) {
	return c.bucket, c.pos
}

// entry returns a pointer to the entry named by c, panicking if c is
// invalid or the end sentinel.
func (c Cursor[K, V]) entry() *Entry[K, V] {
	c.check()
	entries := c.m.buckets[c.bucket].entries
	if c.pos >= len(entries) {
		panic("hashchain: dereference of end Cursor")
	}
	return &entries[c.pos]
}

// Key returns the key of the entry named by c.
func (c Cursor[K, V]) Key() K {
	return c.entry().Key
}

// Value returns the value of the entry named by c.
func (c Cursor[K, V]) Value() V {
	return c.entry().Value
}

// SetValue overwrites the value of the entry named by c in place.
func (c Cursor[K, V]) SetValue(value V) {
	c.entry().Value = value
}

// Entry returns a copy of the entry named by c.
func (c Cursor[K, V]) Entry() Entry[K, V] {
	return *c.entry()
}
