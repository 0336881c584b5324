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

//go:build amd64 && !nosimd

package swiss

import (
	"math/bits"
	"unsafe"

	"github.com/tablekit/swiss/simd"
)

// The hardware group variant compares 16 control bytes at a time in an SSE
// register. The comparison kernels live in the simd package as generated
// assembly.

const sseGroupSize = 16

// sseGroup is a window of 16 consecutive control bytes.
type sseGroup [sseGroupSize]ctrl

// loadSseGroup reads 16 control bytes starting at p. The load is raw and
// unchecked (MOVOU, no alignment requirement); the caller must guarantee
// that at least 16 bytes are readable at p.
func loadSseGroup(p *ctrl) sseGroup {
	return *(*sseGroup)(unsafe.Pointer(p))
}

// bytes reinterprets the group for the simd kernels, which take raw uint8
// arrays. ctrl and uint8 are distinct defined types, so this must go through
// unsafe.Pointer rather than a direct conversion.
func (g *sseGroup) bytes() *[sseGroupSize]uint8 {
	return (*[sseGroupSize]uint8)(unsafe.Pointer(g))
}

// matchByte returns the set of lanes whose control byte equals c. Unlike the
// SWAR variant this comparison is exact: no false positives.
func (g *sseGroup) matchByte(c ctrl) bitset16 {
	return bitset16(simd.MatchByte(g.bytes(), uint8(c)))
}

// matchEmpty returns the set of lanes holding an empty slot.
func (g *sseGroup) matchEmpty() bitset16 {
	return bitset16(simd.MatchEmpty(g.bytes()))
}

// matchEmptyOrDeleted returns the set of lanes holding an empty or deleted
// slot. Both specials, and only the specials, have the top bit set, so this
// is a bare sign-bit movemask.
func (g *sseGroup) matchEmptyOrDeleted() bitset16 {
	return bitset16(simd.MoveMask(g.bytes()))
}

// matchFull returns the set of lanes holding an occupied slot: the exact
// complement of matchEmptyOrDeleted within the 16 valid lane bits.
func (g *sseGroup) matchFull() bitset16 {
	return bitset16(simd.MoveMask(g.bytes())) ^ bitsetMask
}

// convertSpecialToEmptyAndFullToDeleted rewrites every empty or deleted lane
// to empty and every full lane to deleted. This runs once per group per
// in-place compaction pass, not per probe, so a scalar loop is fine.
func (g *sseGroup) convertSpecialToEmptyAndFullToDeleted() [sseGroupSize]ctrl {
	var out [sseGroupSize]ctrl
	for i, c := range g {
		if c.isFull() {
			out[i] = ctrlDeleted
		} else {
			out[i] = ctrlEmpty
		}
	}
	return out
}

// bitset16 reports group matches using one bit per lane: bit i is set iff
// lane i matched.
type bitset16 uint16

// first returns the index of the lowest matching lane, or sseGroupSize if no
// lanes matched. Callers iterating matches gate on anySet.
func (b bitset16) first() uint32 {
	return uint32(bits.TrailingZeros16(uint16(b)))
}

// removeFirst clears the lowest set bit, advancing iteration to the next
// matching lane without rescanning.
func (b bitset16) removeFirst() bitset16 {
	return b & (b - 1)
}

// anySet reports whether at least one lane matched.
func (b bitset16) anySet() bool {
	return b != 0
}

// trailingZeros returns the number of consecutive non-matching lanes at the
// low end of the group (sseGroupSize if no lanes matched).
func (b bitset16) trailingZeros() uint32 {
	return uint32(bits.TrailingZeros16(uint16(b)))
}

// leadingZeros returns the number of consecutive non-matching lanes at the
// high end of the group (sseGroupSize if no lanes matched).
func (b bitset16) leadingZeros() uint32 {
	return uint32(bits.LeadingZeros16(uint16(b)))
}
