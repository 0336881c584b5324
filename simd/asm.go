//go:build ignore
// +build ignore

package main

import (
	. "github.com/mmcloughlin/avo/build"
	. "github.com/mmcloughlin/avo/operand"
)

func main() {
	ConstraintExpr("amd64")

	TEXT("MatchByte", NOSPLIT, "func(ctrls *[16]uint8, c uint8) uint16")
	Doc("MatchByte performs a 16-way equality probe of |ctrls| against |c| using SSE",
		"instructions, returning one bit per matching lane. Requires SSSE3 (PSHUFB",
		"broadcast), which is above the GOAMD64=v1 baseline.")
	m := Mem{Base: Load(Param("ctrls"), GP64())}
	c := Load(Param("c"), GP32())
	mask := GP32()

	x0, x1, x2 := XMM(), XMM(), XMM()
	MOVD(c, x0)
	PXOR(x1, x1)
	PSHUFB(x1, x0)
	MOVOU(m, x2)
	PCMPEQB(x2, x0)
	PMOVMSKB(x0, mask)

	Store(mask.As16(), ReturnIndex(0))
	RET()

	TEXT("MatchEmpty", NOSPLIT, "func(ctrls *[16]uint8) uint16")
	Doc("MatchEmpty performs a 16-way equality probe of |ctrls| against the empty",
		"control byte (0xff) using SSE instructions, returning one bit per matching",
		"lane.")
	m = Mem{Base: Load(Param("ctrls"), GP64())}
	mask = GP32()

	x0, x1 = XMM(), XMM()
	MOVOU(m, x0)
	PCMPEQB(x1, x1)
	PCMPEQB(x1, x0)
	PMOVMSKB(x0, mask)

	Store(mask.As16(), ReturnIndex(0))
	RET()

	TEXT("MoveMask", NOSPLIT, "func(ctrls *[16]uint8) uint16")
	Doc("MoveMask returns the top bit of each of the 16 bytes of |ctrls|, one bit",
		"per lane.")
	m = Mem{Base: Load(Param("ctrls"), GP64())}
	mask = GP32()

	x0 = XMM()
	MOVOU(m, x0)
	PMOVMSKB(x0, mask)

	Store(mask.As16(), ReturnIndex(0))
	RET()

	Generate()
}
