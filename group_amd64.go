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

// The active group variant for this build is the SSE one. Selection happens
// here, at build configuration time, never per call: mixing variants against
// the same control array would violate their differing width and layout
// assumptions. Build with -tags nosimd to force the portable variant on
// amd64.

const (
	// groupSize is the number of control bytes loaded and compared per
	// probe step.
	groupSize = sseGroupSize
	// groupAlign is the natural alignment of the group register. Group
	// loads are unaligned reads (MOVOU), so the table imposes no
	// allocation alignment beyond Go's defaults.
	groupAlign = 16
	// bitsetStride is the number of mask bits per lane.
	bitsetStride = 1
	// bitsetMask has every valid lane sentinel bit set.
	bitsetMask = 0xffff
)

type group = sseGroup

type bitset = bitset16

func loadGroup(p *ctrl) group {
	return loadSseGroup(p)
}
