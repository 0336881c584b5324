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

import (
	"math/bits"
	"strings"
	"unsafe"
)

// The portable group variant compares 8 control bytes at a time through bit
// tricks (SWAR, SIMD Within A Register). It is always compiled, even when the
// SSE variant is active, so the two can be cross-checked in tests.

const (
	swarGroupSize = 8

	bitsetLSB = 0x0101010101010101
	bitsetMSB = 0x8080808080808080
)

// swarGroup is a window of 8 consecutive control bytes held in a uint64.
// Little endian byte order: lane i occupies bits [8i, 8i+8).
type swarGroup uint64

// loadSwarGroup reads 8 control bytes starting at p. The load is raw and
// unchecked; the caller must guarantee that at least 8 bytes are readable at
// p. Control arrays are allocated with a groupSize tail of mirrored bytes so
// probe loads near the end of the array uphold this by construction.
func loadSwarGroup(p *ctrl) swarGroup {
	return swarGroup(*(*uint64)(unsafe.Pointer(p)))
}

// matchByte returns the set of lanes whose control byte equals c.
//
// NB: This matching routine produces false positive matches when c is 2^N
// and the control bytes have a sequence of 2^N followed by 2^N+1. For
// example: if ctrls==0x0302 and c=02, we'll compute v as 0x0100. When we
// subtract off 0x0101 the first 2 bytes become 0xffff and both are
// considered matches of c. The false positive matches are not a problem,
// just a rare inefficiency. Note that they only occur if there is a real
// match and never occur on ctrlEmpty or ctrlDeleted. The subsequent key
// comparisons ensure that there is no correctness issue.
func (g swarGroup) matchByte(c ctrl) bitset64 {
	v := uint64(g) ^ (bitsetLSB * uint64(c))
	return bitset64(((v - bitsetLSB) &^ v) & bitsetMSB)
}

// matchEmpty returns the set of lanes holding an empty slot.
func (g swarGroup) matchEmpty() bitset64 {
	// An empty slot is   1111 1111
	// A deleted slot is  1000 0000
	// A full slot is     0??? ????
	//
	// A slot is empty iff bit 7 and bit 6 are both set; shifting left by one
	// moves bit 6 into the bit 7 position. We could select any of the other
	// low 7 bits here.
	v := uint64(g)
	return bitset64(v & (v << 1) & bitsetMSB)
}

// matchEmptyOrDeleted returns the set of lanes holding an empty or deleted
// slot. This is the fused form of matchEmpty OR matchByte(ctrlDeleted): both
// specials, and only the specials, have the top bit set.
func (g swarGroup) matchEmptyOrDeleted() bitset64 {
	return bitset64(uint64(g) & bitsetMSB)
}

// matchFull returns the set of lanes holding an occupied slot: the exact
// complement of matchEmptyOrDeleted within the valid sentinel bits.
func (g swarGroup) matchFull() bitset64 {
	return bitset64(^uint64(g) & bitsetMSB)
}

// convertSpecialToEmptyAndFullToDeleted rewrites every empty or deleted lane
// to empty and every full lane to deleted, materialized as a byte array for
// storing back into the table during in-place tombstone compaction.
func (g swarGroup) convertSpecialToEmptyAndFullToDeleted() [swarGroupSize]ctrl {
	// We select the inverted top bit of each lane, so full is 0x80 for full
	// lanes and 0x00 for special lanes. Per lane:
	//
	//  - full lane:    full=0x80, ^full=0x7f, +(full>>7): 0x7f+1 = 0x80 = deleted
	//  - special lane: full=0x00, ^full=0xff, +(full>>7): 0xff+0 = 0xff = empty
	full := ^uint64(g) & bitsetMSB
	v := ^full + (full >> 7)
	var out [swarGroupSize]ctrl
	*(*uint64)(unsafe.Pointer(&out[0])) = v
	return out
}

// bitset64 reports group matches using one byte per lane: 0x80 if the lane
// matched and 0x00 otherwise. Only the sentinel (top) bit of each lane is
// ever set, which is what makes removeFirst a plain clear-lowest-set-bit.
type bitset64 uint64

// first returns the index of the lowest matching lane, or swarGroupSize if
// no lanes matched. Callers iterating matches gate on anySet.
func (b bitset64) first() uint32 {
	return uint32(bits.TrailingZeros64(uint64(b))) >> 3
}

// removeFirst clears the lowest set sentinel bit, advancing iteration to the
// next matching lane without rescanning.
func (b bitset64) removeFirst() bitset64 {
	return b & (b - 1)
}

// anySet reports whether at least one lane matched.
func (b bitset64) anySet() bool {
	return b != 0
}

// trailingZeros returns the number of consecutive non-matching lanes at the
// low end of the group (swarGroupSize if no lanes matched).
func (b bitset64) trailingZeros() uint32 {
	return uint32(bits.TrailingZeros64(uint64(b))) >> 3
}

// leadingZeros returns the number of consecutive non-matching lanes at the
// high end of the group (swarGroupSize if no lanes matched).
func (b bitset64) leadingZeros() uint32 {
	return uint32(bits.LeadingZeros64(uint64(b))) >> 3
}

func (b bitset64) String() string {
	var buf strings.Builder
	buf.Grow(swarGroupSize)
	for i := 0; i < swarGroupSize; i++ {
		if (b & (bitset64(0x80) << (i << 3))) != 0 {
			buf.WriteString("1")
		} else {
			buf.WriteString("0")
		}
	}
	return buf.String()
}
