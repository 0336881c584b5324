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

package swiss

// Each slot in the hash table has a control byte which can have one of three
// states: empty, deleted, and full. They have the following bit patterns:
//
//	  empty: 1 1 1 1 1 1 1 1
//	deleted: 1 0 0 0 0 0 0 0
//	   full: 0 h h h h h h h  // h represents the H2 hash bits
//
// The high bit is set iff the slot is empty or deleted, which is what allows
// matchEmptyOrDeleted to be a single lane-wise top-bit test rather than two
// equality tests and an OR. Bit 0 distinguishes empty from deleted among the
// specials.
type ctrl uint8

const (
	ctrlEmpty   ctrl = 0b11111111
	ctrlDeleted ctrl = 0b10000000
)

// isFull reports whether the control byte represents an occupied slot.
func (c ctrl) isFull() bool {
	return c&0x80 == 0
}

// isSpecial reports whether the control byte is empty or deleted.
func (c ctrl) isSpecial() bool {
	return c&0x80 != 0
}

// specialIsEmpty reports whether a special (non-full) control byte is empty.
func (c ctrl) specialIsEmpty() bool {
	return c&0x01 != 0
}

// staticEmpty returns the canonical all-empty group. A zero-capacity map
// points its control array at a static copy of this group so that Get, Put,
// and Delete never have to check for nil controls.
func staticEmpty() [groupSize]ctrl {
	var g [groupSize]ctrl
	for i := range g {
		g[i] = ctrlEmpty
	}
	return g
}

var emptyGroup = staticEmpty()

// emptyCtrls is the control array used by maps before their first resize. It
// is never written to.
var emptyCtrls = makeUnsafeSlice(emptyGroup[:])

// Extracts the H1 portion of a hash: the upper bits that select a probe
// position.
func h1(h uintptr) uintptr {
	return h >> 7
}

// Extracts the H2 portion of a hash: the 7 bits not used for h1.
//
// These are used as an occupied control byte.
func h2(h uintptr) uintptr {
	return h & 0x7f
}
