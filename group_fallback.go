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

//go:build !amd64 || nosimd

package swiss

// The active group variant for this build is the portable SWAR one.

const (
	// groupSize is the number of control bytes loaded and compared per
	// probe step.
	groupSize = swarGroupSize
	// groupAlign is the natural alignment of the group word. Group loads
	// are unaligned reads, so the table imposes no allocation alignment
	// beyond Go's defaults.
	groupAlign = 8
	// bitsetStride is the number of mask bits per lane.
	bitsetStride = 8
	// bitsetMask has every valid lane sentinel bit set.
	bitsetMask = bitsetMSB
)

type group = swarGroup

type bitset = bitset64

func loadGroup(p *ctrl) group {
	return loadSwarGroup(p)
}
