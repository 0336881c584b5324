// Copyright 2026 The Tablekit Authors
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

// Package swiss is a Go implementation of Swiss Tables as described in
// https://abseil.io/about/design/swisstables, built around a pluggable,
// SIMD-accelerated group matcher. See also Rust's hashbrown
// (https://faultlore.com/blah/hashbrown-tldr/), whose control byte encoding
// this package follows.
//
// # Group matching
//
// Swiss tables use open addressing with a separate metadata array holding
// one control byte per slot. A control byte is either empty (0xff), deleted
// (0x80), or full (0b0hhhhhhh, the 7-bit h2 fragment of the key's hash). The
// high bit of a control byte is set iff the slot is empty or deleted, so a
// single lane-wise top-bit test selects all unoccupied slots at once.
//
// Probing inspects an entire group of control bytes per step. The group
// matcher has two variants with an identical contract:
//
//   - an SSE variant (amd64) that compares 16 control bytes in one XMM
//     register via PCMPEQB/PMOVMSKB, and
//   - a portable variant that compares 8 control bytes in a uint64 through
//     SWAR bit tricks.
//
// The variant is fixed at build configuration time (the nosimd build tag
// forces the portable one); the table code is oblivious to which is active.
// Either way a match query returns a bitset whose set lanes are consumed in
// ascending order via first/removeFirst.
//
// # Table layout
//
// A table has a power-of-two number of slots and capacity+groupSize control
// bytes; the first groupSize control bytes are mirrored into the tail so
// that a group loaded at any slot offset is always fully readable. Group
// loads are raw unchecked reads: safety is an invariant of this allocation
// layout, not a runtime check. There is no sentinel control byte. Probing
// walks groups in a quadratic sequence and terminates at the first group
// containing an empty slot, which the 7/8 maximum load factor guarantees
// exists.
//
// Deletion marks a slot as a tombstone unless the slot provably never
// overlapped a full group, in which case it can be marked empty directly.
// When tombstones accumulate, the table is compacted in place by rewriting
// specials to empty and full slots to deleted, then re-placing the displaced
// entries, rather than paying for a full resize.
package swiss

import (
	"fmt"
	"math/bits"
	"math/rand/v2"
	"strings"
	"unsafe"

	"github.com/dolthub/maphash"
)

const debug = false

// Slot holds a key and value.
type Slot[K comparable, V any] struct {
	key   K
	value V
}

type hashFn[K comparable] func(key *K, seed uintptr) uintptr

// Map is an unordered map from keys to values with Put, Get, Delete, and All
// operations, inspired by Google's Swiss Tables design as implemented in
// Abseil's flat_hash_map and Rust's hashbrown. By default a Map[K,V] hashes
// with the same hash function as Go's builtin map[K]V (via dolthub/maphash);
// a different hash function can be specified using the WithHash option.
//
// A Map is NOT goroutine-safe.
type Map[K comparable, V any] struct {
	// The hash function applied to keys of type K.
	hash hashFn[K]
	seed uintptr
	// The allocator to use for the ctrls and slots slices.
	allocator Allocator[K, V]
	// ctrls is capacity+groupSize in length when allocated. The first
	// groupSize control bytes are mirrored into the tail so that a probe
	// which loads a group near the end of ctrls always has valid control
	// bytes to look at.
	//
	// When the map is empty, ctrls points to emptyCtrls which is never
	// modified and lets Put, Get, and Delete avoid a nil check.
	ctrls unsafeSlice[ctrl]
	// slots is capacity in length.
	slots unsafeSlice[Slot[K, V]]
	// mask is capacity-1, used to compute i%capacity with a bitwise AND.
	// Capacity is always 0 or a power of two >= groupSize, so mask==0
	// means the map holds no allocated storage.
	mask uintptr
	// The number of filled slots (i.e. the number of elements in the map).
	used int
	// The number of slots we can still fill without needing to rehash.
	//
	// This is stored separately due to tombstones: we do not include
	// tombstones in the growth capacity because we'd like to rehash when
	// the table is filled with tombstones as otherwise probe sequences
	// might get unacceptably long without triggering a rehash.
	growthLeft int
}

// New constructs a new Map with the specified initial capacity. If
// initialCapacity is 0 the map will start out with zero capacity and will
// grow on the first insert. The zero value for a Map is not usable.
func New[K comparable, V any](initialCapacity int, options ...option[K, V]) *Map[K, V] {
	hasher := maphash.NewHasher[K]()
	m := &Map[K, V]{
		hash: func(key *K, _ uintptr) uintptr {
			return uintptr(hasher.Hash(*key))
		},
		seed:      uintptr(rand.Uint64()),
		allocator: defaultAllocator[K, V]{},
		ctrls:     emptyCtrls,
	}

	for _, op := range options {
		op.apply(m)
	}

	if initialCapacity > 0 {
		m.resize(capacityFor(uintptr(initialCapacity)))
	}
	m.checkInvariants()
	return m
}

// capacityFor returns the smallest valid capacity (a power of two >=
// groupSize) able to hold entries within the 7/8 maximum load factor.
func capacityFor(entries uintptr) uintptr {
	n := entries * 8 / 7
	c := uintptr(1) << bits.Len(uint(n-1))
	if c < groupSize {
		c = groupSize
	}
	return c
}

// growthCapacity returns the number of slots that may be filled before the
// table must grow: 7/8ths of capacity. Holding the fill count below this
// bound keeps at least capacity/8 empty slots in the table, which is what
// guarantees probe termination without a sentinel control byte.
func growthCapacity(capacity uintptr) uintptr {
	return capacity - capacity/8
}

// capacity returns the total number of slots.
func (m *Map[K, V]) capacity() uintptr {
	if m.mask == 0 {
		return 0
	}
	return m.mask + 1
}

// Close closes the map, releasing any memory back to its configured
// allocator. It is unnecessary to close a map using the default allocator.
// It is invalid to use a Map after it has been closed, though Close itself
// is idempotent.
func (m *Map[K, V]) Close() {
	if c := m.capacity(); c > 0 {
		m.allocator.FreeSlots(m.slots.Slice(0, c))
		m.allocator.FreeControls(unsafeConvertSlice[uint8](m.ctrls.Slice(0, c+groupSize)))
		m.mask = 0
		m.used = 0
		m.growthLeft = 0
	}
	m.ctrls = makeUnsafeSlice([]ctrl(nil))
	m.slots = makeUnsafeSlice([]Slot[K, V](nil))
	m.allocator = nil
}

// Put inserts an entry into the map, overwriting an existing value if an
// entry with the same key already exists.
func (m *Map[K, V]) Put(key K, value V) {
	// Put is find composed with uncheckedPut. We perform find to see if the
	// key is already present. If it is, we're done and overwrite the
	// existing value. If the value isn't present we perform an uncheckedPut
	// which inserts an entry known not to be in the table (violating this
	// requirement will cause the table to behave erratically).
	h := m.hash((*K)(noescape(unsafe.Pointer(&key))), m.seed)

	seq := makeProbeSeq(h1(h), m.mask)
	if debug {
		fmt.Printf("put(%v): %s\n", key, seq)
	}

	for ; ; seq = seq.next() {
		g := loadGroup(m.ctrls.At(seq.offset))
		match := g.matchByte(ctrl(h2(h)))

		for match.anySet() {
			i := seq.offsetAt(uintptr(match.first()))
			slot := m.slots.At(i)
			if key == slot.key {
				if debug {
					fmt.Printf("put(updating): index=%d key=%v\n", i, key)
				}
				slot.value = value
				m.checkInvariants()
				return
			}
			match = match.removeFirst()
		}

		match = g.matchEmpty()
		if match.anySet() {
			// Before performing the insertion we may decide the table is
			// getting overcrowded (i.e. the load factor is greater than
			// 7/8).
			if m.growthLeft == 0 {
				m.rehash()
			}
			m.uncheckedPut(h, key, value)
			m.used++
			m.checkInvariants()
			return
		}
	}
}

// Get retrieves the value from the map for the specified key, returning
// ok=false if the key is not present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	h := m.hash((*K)(noescape(unsafe.Pointer(&key))), m.seed)

	// To find the location of a key in the table, we compute hash(key). From
	// h1(hash(key)) and the mask, we construct a probeSeq that visits every
	// group of slots in some interesting order.
	//
	// We walk through these indices. At each index, we select the entire
	// group starting with that index and extract potential candidates:
	// occupied slots with a control byte equal to h2(hash(key)). If we find
	// an empty slot in the group, we stop and return not-found. The key at a
	// candidate slot is compared with key; if they are equal we are done.
	// Tombstones effectively behave like full slots that never match the
	// value we're looking for.
	//
	// The h2 bits ensure that when we compare a key we are likely to have
	// actually found the object. Even at high load factors the number of
	// false positive comparisons is well below one per find.
	seq := makeProbeSeq(h1(h), m.mask)
	if debug {
		fmt.Printf("get(%v): %s\n", key, seq)
	}

	for ; ; seq = seq.next() {
		g := loadGroup(m.ctrls.At(seq.offset))
		match := g.matchByte(ctrl(h2(h)))

		for match.anySet() {
			i := seq.offsetAt(uintptr(match.first()))
			slot := m.slots.At(i)
			if key == slot.key {
				return slot.value, true
			}
			match = match.removeFirst()
		}

		if g.matchEmpty().anySet() {
			return value, false
		}
	}
}

// Delete deletes the entry corresponding to the specified key from the map.
// It is a noop to delete a non-existent key.
func (m *Map[K, V]) Delete(key K) {
	// Delete is find composed with "deleted at": we perform find(key), and
	// then delete at the resulting slot if found.
	h := m.hash((*K)(noescape(unsafe.Pointer(&key))), m.seed)

	seq := makeProbeSeq(h1(h), m.mask)
	if debug {
		fmt.Printf("delete(%v): %s\n", key, seq)
	}

	for ; ; seq = seq.next() {
		g := loadGroup(m.ctrls.At(seq.offset))
		match := g.matchByte(ctrl(h2(h)))

		for match.anySet() {
			i := seq.offsetAt(uintptr(match.first()))
			s := m.slots.At(i)
			if key == s.key {
				m.used--
				*s = Slot[K, V]{}

				// Only create a tombstone if the slot may have been part of
				// a full group: a probe encountering a full group must keep
				// probing, and marking one of its slots empty would
				// terminate subsequent lookups early. If the slot was never
				// part of any full group, lookups for other keys would have
				// stopped at one of its group's empties anyway, so the slot
				// can be marked empty directly.
				if m.wasNeverFull(i) {
					m.setCtrl(i, ctrlEmpty)
					m.growthLeft++
					if debug {
						fmt.Printf("delete(%v): index=%d used=%d growth-left=%d\n",
							key, i, m.used, m.growthLeft)
					}
				} else {
					m.setCtrl(i, ctrlDeleted)
					if debug {
						fmt.Printf("delete(%v): index=%d used=%d\n", key, i, m.used)
					}
				}
				m.checkInvariants()
				return
			}
			match = match.removeFirst()
		}

		if g.matchEmpty().anySet() {
			m.checkInvariants()
			return
		}
	}
}

// Clear deletes all entries from the map, retaining the allocated capacity.
func (m *Map[K, V]) Clear() {
	if c := m.capacity(); c > 0 {
		for i := uintptr(0); i < c+groupSize; i++ {
			*m.ctrls.At(i) = ctrlEmpty
		}
		clear(m.slots.Slice(0, c))
		m.used = 0
		m.growthLeft = int(growthCapacity(c))
	}
	m.checkInvariants()
}

// All calls yield sequentially for each key and value present in the map. If
// yield returns false, iteration stops. The map can be mutated during
// iteration, though there is no guarantee that the mutations will be visible
// to the iteration.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	// Snapshot the capacity, controls, and slots so that iteration remains
	// valid if the map is resized during iteration.
	capacity := m.capacity()
	ctrls := m.ctrls
	slots := m.slots

	for i := uintptr(0); i < capacity; i++ {
		if ctrls.At(i).isFull() {
			s := slots.At(i)
			if !yield(s.key, s.value) {
				return
			}
		}
	}
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.used
}

// setCtrl sets the control byte at index i, mirroring the byte into the tail
// of the control array when i < groupSize. The index expression is the
// identity for i in [groupSize, capacity), so the mirror write is done
// unconditionally, which is faster than branching.
func (m *Map[K, V]) setCtrl(i uintptr, v ctrl) {
	*m.ctrls.At(i) = v
	*m.ctrls.At(((i-groupSize)&m.mask)+groupSize) = v
}

// wasNeverFull returns true if index i was never part of a full group. This
// check allows an optimization during deletion whereby a deleted slot can be
// converted to empty rather than a tombstone. See the comment in Delete.
func (m *Map[K, V]) wasNeverFull(i uintptr) bool {
	if m.capacity() <= groupSize {
		// No probe window can ever have been completely full: the load
		// factor bound keeps at least one slot empty, and every window
		// wraps over all slots.
		return true
	}

	// Count the consecutive non-empty control bytes to the right of i and
	// to the left of i (ending at its group's predecessor window). If the
	// total reaches groupSize then some probe window overlapping i may
	// have been completely full, and a lookup probing past it must keep
	// seeing a non-empty group, so a tombstone is required.
	indexBefore := (i - groupSize) & m.mask
	gAfter := loadGroup(m.ctrls.At(i))
	gBefore := loadGroup(m.ctrls.At(indexBefore))
	emptyAfter := gAfter.matchEmpty()
	emptyBefore := gBefore.matchEmpty()
	return emptyBefore.anySet() && emptyAfter.anySet() &&
		emptyAfter.trailingZeros()+emptyBefore.leadingZeros() < groupSize
}

// uncheckedPut inserts an entry known not to be in the table. Used by Put
// after it has failed to find an existing entry to overwrite, and by the
// rehash paths.
func (m *Map[K, V]) uncheckedPut(h uintptr, key K, value V) {
	// Given key and its hash hash(key), to insert it, we construct a
	// probeSeq, and use it to find the first group with an unoccupied
	// (empty or deleted) slot. We place the key/value into the first such
	// slot in the group and mark it as full with key's h2.
	seq := makeProbeSeq(h1(h), m.mask)
	for ; ; seq = seq.next() {
		g := loadGroup(m.ctrls.At(seq.offset))
		if match := g.matchEmptyOrDeleted(); match.anySet() {
			i := seq.offsetAt(uintptr(match.first()))
			slot := m.slots.At(i)
			slot.key = key
			slot.value = value
			if m.ctrls.At(i).specialIsEmpty() {
				m.growthLeft--
			}
			m.setCtrl(i, ctrl(h2(h)))
			if debug {
				fmt.Printf("put(inserting): index=%d used=%d growth-left=%d\n",
					i, m.used+1, m.growthLeft)
			}
			return
		}
	}
}

func (m *Map[K, V]) rehash() {
	// Rehash in place if we can recover >= 1/3 of the capacity. Rehashing
	// in place is significantly faster than resizing because the common
	// case is that elements remain in their current location; dropping the
	// tombstones is what reclaims the space.
	recoverable := growthCapacity(m.capacity()) - uintptr(m.used)
	if m.capacity() > groupSize && recoverable >= m.capacity()/3 {
		m.rehashInPlace()
	} else {
		newCapacity := 2 * m.capacity()
		if newCapacity < groupSize {
			newCapacity = groupSize
		}
		m.resize(newCapacity)
	}
}

// resize allocates a bigger backing array and uncheckedPuts each element of
// the table into the new array (we know that no insertion here will Put an
// already-present value), then discards the old backing array.
func (m *Map[K, V]) resize(newCapacity uintptr) {
	oldCtrls, oldSlots := m.ctrls, m.slots
	oldCapacity := m.capacity()

	m.slots = makeUnsafeSlice(m.allocator.AllocSlots(int(newCapacity)))
	m.ctrls = makeUnsafeSlice(unsafeConvertSlice[ctrl](
		m.allocator.AllocControls(int(newCapacity + groupSize))))
	for i := uintptr(0); i < newCapacity+groupSize; i++ {
		*m.ctrls.At(i) = ctrlEmpty
	}

	m.mask = newCapacity - 1
	m.growthLeft = int(growthCapacity(newCapacity))

	if debug {
		fmt.Printf("resize: capacity=%d->%d growth-left=%d\n",
			oldCapacity, newCapacity, m.growthLeft)
	}

	for i := uintptr(0); i < oldCapacity; i++ {
		if oldCtrls.At(i).isFull() {
			slot := oldSlots.At(i)
			h := m.hash((*K)(noescape(unsafe.Pointer(&slot.key))), m.seed)
			m.uncheckedPut(h, slot.key, slot.value)
		}
	}

	if oldCapacity > 0 {
		m.allocator.FreeSlots(oldSlots.Slice(0, oldCapacity))
		m.allocator.FreeControls(unsafeConvertSlice[uint8](
			oldCtrls.Slice(0, oldCapacity+groupSize)))
	}

	m.checkInvariants()
}

// rehashInPlace drops all tombstones and re-establishes the probe invariant
// without allocating a new backing array.
func (m *Map[K, V]) rehashInPlace() {
	capacity := m.capacity()
	if debug {
		fmt.Printf("rehash: %d/%d\n", m.used, capacity)
	}

	// We want to drop all of the deletes in place. We first walk over the
	// control bytes and mark every DELETED slot as EMPTY and every FULL
	// slot as DELETED. Marking the DELETED slots as EMPTY has effectively
	// dropped the tombstones, but we fouled up the probe invariant. Marking
	// the FULL slots as DELETED gives us a marker to locate the previously
	// FULL slots.
	for i := uintptr(0); i < capacity; i += groupSize {
		g := loadGroup(m.ctrls.At(i))
		*(*[groupSize]ctrl)(unsafe.Pointer(m.ctrls.At(i))) =
			g.convertSpecialToEmptyAndFullToDeleted()
	}

	// Refresh the mirrored control bytes in the tail.
	for i := uintptr(0); i < groupSize; i++ {
		*m.ctrls.At(capacity + i) = *m.ctrls.At(i)
	}

	// Now we walk over all of the DELETED slots (a.k.a. the previously FULL
	// slots). For each slot we find the first probe group we can place the
	// element in which re-establishes the probe invariant. Note that as
	// this loop proceeds we have the invariant that there are no DELETED
	// slots in the range [0, i). We may move the element at i to the range
	// [0, i) if that is where the first group with an empty slot in its
	// probe chain resides, but we never set a slot in [0, i) to DELETED.
	for i := uintptr(0); i < capacity; i++ {
		if *m.ctrls.At(i) != ctrlDeleted {
			continue
		}

		s := m.slots.At(i)
		h := m.hash((*K)(noescape(unsafe.Pointer(&s.key))), m.seed)
		seq := makeProbeSeq(h1(h), m.mask)
		desired := seq

		probeIndex := func(pos uintptr) uintptr {
			return ((pos - desired.offset) & m.mask) / groupSize
		}

		var target uintptr
		for ; ; seq = seq.next() {
			g := loadGroup(m.ctrls.At(seq.offset))
			if match := g.matchEmptyOrDeleted(); match.anySet() {
				target = seq.offsetAt(uintptr(match.first()))
				break
			}
		}

		if i == target || probeIndex(i) == probeIndex(target) {
			if debug {
				fmt.Printf("rehash: %d not moving\n", i)
			}
			// The target index falls within the first probe group, so the
			// element already sits in the best probe position.
			m.setCtrl(i, ctrl(h2(h)))
			continue
		}

		if *m.ctrls.At(target) == ctrlEmpty {
			if debug {
				fmt.Printf("rehash: %d -> %d replacing empty\n", i, target)
			}
			// The target slot is empty. Transfer the element to the empty
			// slot and mark the slot at index i as empty.
			m.setCtrl(target, ctrl(h2(h)))
			*m.slots.At(target) = *m.slots.At(i)
			*m.slots.At(i) = Slot[K, V]{}
			m.setCtrl(i, ctrlEmpty)
			continue
		}

		if *m.ctrls.At(target) == ctrlDeleted {
			if debug {
				fmt.Printf("rehash: %d -> %d swapping\n", i, target)
			}
			// The slot at target holds an element (i.e. it was FULL). Swap
			// our current element with that element and then repeat
			// processing of index i which now holds the element which was
			// at target.
			m.setCtrl(target, ctrl(h2(h)))
			t := m.slots.At(target)
			*s, *t = *t, *s
			i--
			continue
		}

		panic(fmt.Sprintf("ctrl at position %d (%02x) should be empty or deleted",
			target, *m.ctrls.At(target)))
	}

	m.growthLeft = int(growthCapacity(capacity)) - m.used

	if debug {
		fmt.Printf("rehash: done: used=%d growth-left=%d\n", m.used, m.growthLeft)
	}

	m.checkInvariants()
}

func (m *Map[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  used=%d  growth-left=%d\n",
		m.capacity(), m.used, m.growthLeft)
	for i := uintptr(0); i < m.capacity()+groupSize; i++ {
		switch c := *m.ctrls.At(i); c {
		case ctrlEmpty:
			fmt.Fprintf(&buf, "  %4d: empty\n", i)
		case ctrlDeleted:
			fmt.Fprintf(&buf, "  %4d: deleted\n", i)
		default:
			if i < m.capacity() {
				s := m.slots.At(i)
				h := m.hash((*K)(noescape(unsafe.Pointer(&s.key))), m.seed)
				fmt.Fprintf(&buf, "  %4d: %v [ctrl=%02x h2=%02x]\n", i, s.key, uint8(c), h2(h))
			} else {
				fmt.Fprintf(&buf, "  %4d: [ctrl=%02x]\n", i, uint8(c))
			}
		}
	}
	return buf.String()
}

func (m *Map[K, V]) checkInvariants() {
	if !invariantsEnabled {
		return
	}

	capacity := m.capacity()
	if capacity > 0 {
		// Verify the mirrored control bytes are in sync with the head of
		// the array.
		for i := uintptr(0); i < groupSize; i++ {
			ci, cj := *m.ctrls.At(i), *m.ctrls.At(capacity+i)
			if ci != cj {
				panic(fmt.Sprintf("invariant failed: ctrl(%d)=%02x != ctrl(%d)=%02x\n%s",
					i, uint8(ci), capacity+i, uint8(cj), m.debugString()))
			}
		}
	}

	// For every full slot, verify we can retrieve the key using Get. Count
	// the number of full and deleted slots.
	var used, deleted int
	for i := uintptr(0); i < capacity; i++ {
		switch c := *m.ctrls.At(i); c {
		case ctrlDeleted:
			deleted++
		case ctrlEmpty:
		default:
			if !c.isFull() {
				panic(fmt.Sprintf("invariant failed: ctrl(%d)=%02x is not a valid control byte\n%s",
					i, uint8(c), m.debugString()))
			}
			s := m.slots.At(i)
			if _, ok := m.Get(s.key); !ok {
				h := m.hash((*K)(noescape(unsafe.Pointer(&s.key))), m.seed)
				panic(fmt.Sprintf("invariant failed: slot(%d): %v not found [h2=%02x h1=%07x]\n%s",
					i, s.key, h2(h), h1(h), m.debugString()))
			}
			used++
		}
	}

	if used != m.used {
		panic(fmt.Sprintf("invariant failed: found %d used slots, but used count is %d\n%s",
			used, m.used, m.debugString()))
	}

	growthLeft := int(growthCapacity(capacity)) - m.used - deleted
	if growthLeft != m.growthLeft {
		panic(fmt.Sprintf("invariant failed: found %d growthLeft, but expected %d\n%s",
			m.growthLeft, growthLeft, m.debugString()))
	}
}

// probeSeq maintains the state for a probe sequence: a triangular
// progression of the form
//
//	p(i) := groupSize * (i^2 + i)/2 + hash (mod mask+1)
//
// The use of groupSize ensures that consecutive probe steps land on distinct
// groups; the sequence effectively outputs the addresses of *groups*,
// although not necessarily aligned to any boundary. The sequence visits
// every group exactly once when the number of groups is a power of two,
// since (i^2+i)/2 is a bijection in Z/(2^m). See
// https://en.wikipedia.org/wiki/Quadratic_probing
type probeSeq struct {
	mask   uintptr
	offset uintptr
	index  uintptr
}

func makeProbeSeq(hash, mask uintptr) probeSeq {
	return probeSeq{
		mask:   mask,
		offset: hash & mask,
		index:  0,
	}
}

func (s probeSeq) next() probeSeq {
	s.index += groupSize
	s.offset = (s.offset + s.index) & s.mask
	return s
}

func (s probeSeq) offsetAt(i uintptr) uintptr {
	return (s.offset + i) & s.mask
}

func (s probeSeq) String() string {
	return fmt.Sprintf("mask=%d offset=%d index=%d", s.mask, s.offset, s.index)
}

// noescape hides a pointer from escape analysis. noescape is the identity
// function but escape analysis doesn't think the output depends on the
// input. noescape is inlined and currently compiles down to zero
// instructions.
// USE CAREFULLY!
//
//go:nosplit
//go:nocheckptr
func noescape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}

// unsafeSlice provides semi-ergonomic limited slice-like functionality
// without bounds checking for fixed sized slices.
type unsafeSlice[T any] struct {
	ptr unsafe.Pointer
}

func makeUnsafeSlice[T any](s []T) unsafeSlice[T] {
	return unsafeSlice[T]{ptr: unsafe.Pointer(unsafe.SliceData(s))}
}

// At returns a pointer to the element at index i.
func (s unsafeSlice[T]) At(i uintptr) *T {
	var t T
	return (*T)(unsafe.Add(s.ptr, unsafe.Sizeof(t)*i))
}

// Slice returns a Go slice akin to slice[start:end] for a Go builtin slice.
func (s unsafeSlice[T]) Slice(start, end uintptr) []T {
	return unsafe.Slice((*T)(s.ptr), end)[start:end]
}

func unsafeConvertSlice[Dest any, Src any](s []Src) []Dest {
	return unsafe.Slice((*Dest)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}
