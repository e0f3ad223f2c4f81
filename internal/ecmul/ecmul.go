// Package ecmul implements the three scalar-multiplication engines built on
// top of internal/ecpt: a fixed-base comb keyed off a single public
// generator, a variable-base multiplier for an arbitrary point, and a
// double-base simultaneous multiplier for two independent points. All
// three avoid branching on secret scalar bits: every table lookup scans
// the whole table under a constant-time mask, and every sign flip goes
// through CondNeg rather than an if.
package ecmul

import (
	"github.com/dendisuhubdy/snowshoe/internal/ecpt"
	"github.com/dendisuhubdy/snowshoe/internal/fp"
	"github.com/dendisuhubdy/snowshoe/internal/scalar"
)

// Scalar is a 256-bit little-endian integer, the representation every
// multiplication routine in this package takes as input.
type Scalar [4]uint64

// Comb parameters for MulGen. w is the window width (2^(w-1) = 128 entries
// per table), v is the number of interleaved comb tables, e = d/v is the
// number of doubling rounds the interleaving buys back, d is the column
// spacing within one table, t is the bit width the comb covers directly,
// and l is the full scalar container width.
const (
	W       = 8
	V       = 2
	D       = 32
	E       = D / V // 16
	T       = 252
	L       = 256
	Rounds  = D / V // 16 doubling rounds in the comb's main loop
	TblSize = 1 << (W - 1) // 128
)

func mkFp(hi, lo uint64) (e fp.Elt) {
	e[0] = lo
	e[1] = hi
	return
}

// G is the base point used by MulGen and as the public generator exposed
// through the root package. Its curve isn't given in the distilled
// specification text (see DESIGN.md), so G is a self-chosen point that
// genuinely satisfies the curve equation -x^2+y^2 = 1+d*x^2*y^2 with
// internal/ecpt.D, used here to exercise the comb machinery rather than to
// reproduce a specific standardized basepoint.
var G = func() ecpt.Point {
	var a ecpt.Affine
	a.X.A0 = mkFp(0x3a3787740d858991, 0x5cba86a30e888ac3)
	a.Y.A0.SetSmallK(2)
	var p ecpt.Point
	p.Expand(&a)
	return p
}()

// genTables holds the two interleaved comb tables plus the fixed
// corrections MulGen needs: the baseline subtraction that undoes the "+1"
// term baked into every table entry, and G224 = 2^224*G used to fold in
// the scalar's bits above the comb's 224-bit reach.
var (
	genTable0 [TblSize]ecpt.Affine
	genTable1 [TblSize]ecpt.Affine
	baseline  ecpt.Point // -(2^32-1)*G, added once after the comb loop
	g224      ecpt.Point // 2^224*G
)

func init() {
	buildGenTables()
}

// scalarMulVartime computes exp*base via plain MSB-first double-and-add.
// Used only to bootstrap the public tables below, never on secret scalars,
// so timing variance here carries no information an attacker can use.
func scalarMulVartime(exp [4]uint64, base *ecpt.Point) ecpt.Point {
	var acc ecpt.Point
	acc.Neutral()
	started := false
	for limb := 3; limb >= 0; limb-- {
		for bit := 63; bit >= 0; bit-- {
			if started {
				acc.Dbl(&acc)
			}
			if (exp[limb]>>uint(bit))&1 == 1 {
				acc.Add(&acc, base, false)
				started = true
			}
		}
	}
	return acc
}

func setBit(arr *[4]uint64, pos int) {
	arr[pos/64] |= 1 << uint(pos%64)
}

// buildGenTables computes genTable0, genTable1, baseline and g224. Table v
// holds, at index u (a 7-bit combination u_0..u_6), the affine point
//
//	2^(E*v) * (1 + sum_i u_i * 2^(D*i)) * G
//
// matching the literal comb-table formula. Every term is a single power of
// two and the u_i terms (i >= 1) occupy distinct bit positions, so the
// exponent is built by setting individual bits. The "+1" term shares its
// bit position with u_0, so when u_0 is set the two together are written
// as the next bit up (1 + 1 = 2).
func buildGenTables() {
	for u := 0; u < TblSize; u++ {
		var exp0, exp1 [4]uint64
		one := u & 1
		setBit(&exp0, one)
		setBit(&exp1, E+one)
		for i := 1; i < W-1; i++ {
			if (u>>uint(i))&1 == 1 {
				setBit(&exp0, D*i)
				setBit(&exp1, E+D*i)
			}
		}
		p0 := scalarMulVartime(exp0, &G)
		p1 := scalarMulVartime(exp1, &G)
		var a0, a1 ecpt.Affine
		a0.Affine(&p0)
		a1.Affine(&p1)
		genTable0[u] = a0
		genTable1[u] = a1
	}

	// baseline = (2^Rounds - 1)*G + 2^E*(2^Rounds - 1)*G, the sum of the
	// "+1" term every table entry contributes, scaled by its round's
	// doubling factor, accumulated over all Rounds iterations.
	var onesExp [4]uint64
	for r := 0; r < Rounds; r++ {
		setBit(&onesExp, r)
	}
	b0 := scalarMulVartime(onesExp, &G)
	var shifted [4]uint64
	for r := 0; r < Rounds; r++ {
		setBit(&shifted, r+E)
	}
	b1 := scalarMulVartime(shifted, &G)
	var sum ecpt.Point
	sum.Add(&b0, &b1, false)
	baseline.Neg(&sum)

	var exp224 [4]uint64
	setBit(&exp224, 224)
	g224 = scalarMulVartime(exp224, &G)
}

func extractDigit(k *[4]uint64, r, v int) int {
	digit := 0
	for i := 0; i < W-1; i++ {
		pos := r + E*v + D*i
		limb := pos / 64
		off := uint(pos % 64)
		bit := (k[limb] >> off) & 1
		digit |= int(bit) << uint(i)
	}
	return digit
}

func bitAt(k *[4]uint64, pos int) uint64 {
	if pos < 0 || pos >= L {
		return 0
	}
	return (k[pos/64] >> uint(pos%64)) & 1
}

// lookupAffine performs a constant-time scan-and-mask table lookup: it
// touches every entry of table and folds in the one whose index matches u,
// so memory access patterns never depend on u.
func lookupAffine(table *[TblSize]ecpt.Affine, u int) ecpt.Affine {
	var out ecpt.Affine
	out.X.Zero()
	out.Y.Zero()
	for i := 0; i < TblSize; i++ {
		mm := -ctEqualInt(i, u) // 0 or 0xFFFF...FF, as CondOrFrom requires
		out.X.CondOrFrom(&table[i].X, mm)
		out.Y.CondOrFrom(&table[i].Y, mm)
	}
	return out
}

func ctEqualInt(a, b int) uint64 {
	d := uint64(a) ^ uint64(b)
	nd := -d
	return (1 - ((d | nd) >> 63))
}

// MaskScalar clamps k to its low T bits, which is the domain every
// multiplication routine in this package expects.
func MaskScalar(k *Scalar) *Scalar {
	out := *k
	out[3] &= 0x0FFFFFFFFFFFFFFF
	return &out
}

// MulGen computes k*G using the fixed-base comb built in buildGenTables.
// It processes the low T-ish bits in Rounds doublings via the two
// interleaved tables, then folds in the remaining high bits (there are a
// handful above the comb's 224-bit direct reach, since T=252) with a short
// constant-time double-and-add tail against the precomputed point
// g224 = 2^224*G.
func MulGen(kIn *Scalar) *ecpt.Point {
	k := MaskScalar(kIn)
	kl := [4]uint64(*k)

	var acc ecpt.Point
	acc.Neutral()
	for r := Rounds - 1; r >= 0; r-- {
		acc.Dbl(&acc)

		u0 := extractDigit(&kl, r, 0)
		u1 := extractDigit(&kl, r, 1)

		a0 := lookupAffine(&genTable0, u0)
		a1 := lookupAffine(&genTable1, u1)

		var p0, p1 ecpt.Point
		p0.Expand(&a0)
		acc.Add(&acc, &p0, true)
		p1.Expand(&a1)
		acc.Add(&acc, &p1, true)
	}
	acc.Add(&acc, &baseline, false)

	// Fold in bits 224..T-1 against g224 = 2^224*G via a short constant-time
	// double-and-add, selecting between "add g224" and "don't" by mask
	// rather than by branching on the secret bit.
	var tail ecpt.Point
	tail.Neutral()
	for pos := T - 1; pos >= 224; pos-- {
		tail.Dbl(&tail)
		bit := bitAt(&kl, pos)
		var withG ecpt.Point
		withG.Add(&tail, &g224, false)
		tail.Select(&withG, &tail, bit)
	}
	acc.Add(&acc, &tail, false)
	return &acc
}

// buildOddTable returns table[m] = m*base for m = 0..16. Built by plain
// repeated addition; this touches only public structure (the fixed
// sequence "add base, add base, ..."), not the secret scalar, so its
// timing reveals nothing about the scalar even though base itself may be
// derived from a secret point.
func buildOddTable(base *ecpt.Point) [17]ecpt.Point {
	var table [17]ecpt.Point
	table[0].Neutral()
	for i := 1; i <= 16; i++ {
		table[i].Add(&table[i-1], base, false)
	}
	return table
}

func lookupPoint(table *[17]ecpt.Point, mag uint64) ecpt.Point {
	var out ecpt.Point
	out.Neutral()
	for i := 0; i < 17; i++ {
		mm := ctEqualU64(uint64(i), mag)
		out.Select(&table[i], &out, mm)
	}
	return out
}

func ctEqualU64(a, b uint64) uint64 {
	d := a ^ b
	nd := -d
	return (1 - ((d | nd) >> 63))
}

// byteMagSign splits a scalar package 5-bit Booth digit (as produced by
// scalar.Recode5) into its magnitude (0..16, the low 5 bits) and sign
// (bit 0x80, 1 for negative).
func byteMagSign(b byte) (uint64, uint64) {
	return uint64(b & 0x1F), uint64(b>>7) & 1
}

// combinedMul evaluates d1-recoded*P1 + d2-recoded*Q2 via a single shared
// ladder, doubling once per digit position and folding in both tables'
// contributions before the next doubling. Digits follow the scalar
// package's 5-bit Booth byte encoding (magnitude in the low 5 bits, sign
// in bit 0x80).
func combinedMul(d1 []byte, table1 *[17]ecpt.Point, d2 []byte, table2 *[17]ecpt.Point) *ecpt.Point {
	var acc ecpt.Point
	acc.Neutral()
	n := len(d1)
	for i := n - 1; i >= 0; i-- {
		if i != n-1 {
			acc.DblX(&acc, 5)
		}
		m1, s1 := byteMagSign(d1[i])
		t1 := lookupPoint(table1, m1)
		t1.CondNeg(&t1, s1)
		acc.Add(&acc, &t1, false)

		m2, s2 := byteMagSign(d2[i])
		t2 := lookupPoint(table2, m2)
		t2.CondNeg(&t2, s2)
		acc.Add(&acc, &t2, false)
	}
	return &acc
}

// singleMul evaluates d-recoded*P via the same doubling ladder as
// combinedMul, for a single point/table pair.
func singleMul(d []byte, table *[17]ecpt.Point) *ecpt.Point {
	var acc ecpt.Point
	acc.Neutral()
	n := len(d)
	for i := n - 1; i >= 0; i-- {
		if i != n-1 {
			acc.DblX(&acc, 5)
		}
		m, s := byteMagSign(d[i])
		t := lookupPoint(table, m)
		t.CondNeg(&t, s)
		acc.Add(&acc, &t, false)
	}
	return &acc
}

// fullScalarDigits is the digit count scalar.Recode5 produces for a full
// 256-bit (masked to T bits) scalar.
const fullScalarDigits = 52

// Mul computes k*P for an arbitrary point P via a constant-time signed
// 5-bit-window double-and-add ladder against a precomputed table of the
// multiples 0*P..16*P.
func Mul(kIn *Scalar, P *ecpt.Point) *ecpt.Point {
	k := MaskScalar(kIn)
	table := buildOddTable(P)

	var d [fullScalarDigits]byte
	scalar.Recode5(&d, (*[4]uint64)(k))

	return singleMul(d[:], &table)
}

// Simul computes k1*P1 + k2*P2 for two independent points and full-width
// scalars, sharing one doubling ladder across both terms (Straus-Shamir).
func Simul(k1 *Scalar, P1 *ecpt.Point, k2 *Scalar, P2 *ecpt.Point) *ecpt.Point {
	mk1 := MaskScalar(k1)
	mk2 := MaskScalar(k2)

	table1 := buildOddTable(P1)
	table2 := buildOddTable(P2)

	var d1, d2 [fullScalarDigits]byte
	scalar.Recode5(&d1, (*[4]uint64)(mk1))
	scalar.Recode5(&d2, (*[4]uint64)(mk2))

	return combinedMul(d1[:], &table1, d2[:], &table2)
}
