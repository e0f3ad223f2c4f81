package ecmul

import (
	"testing"

	"github.com/dendisuhubdy/snowshoe/internal/ecpt"
	"github.com/dendisuhubdy/snowshoe/internal/scalar"
	"github.com/stretchr/testify/require"
)

// naiveMul computes k*P via a plain, non-constant-time MSB-first
// double-and-add, used only as an independent oracle for these tests.
func naiveMul(k *Scalar, p *ecpt.Point) *ecpt.Point {
	var acc ecpt.Point
	acc.Neutral()
	started := false
	for limb := 3; limb >= 0; limb-- {
		for bit := 63; bit >= 0; bit-- {
			if started {
				acc.Dbl(&acc)
			}
			if (k[limb]>>uint(bit))&1 == 1 {
				acc.Add(&acc, p, false)
				started = true
			}
		}
	}
	return &acc
}

func TestMulGenOfZeroIsNeutral(t *testing.T) {
	var k Scalar
	r := MulGen(&k)
	require.Equal(t, uint64(1), r.IsNeutral())
}

func TestMulGenOfOneIsGenerator(t *testing.T) {
	k := Scalar{1, 0, 0, 0}
	r := MulGen(&k)
	require.Equal(t, uint64(1), r.Equal(&G))
}

func TestMulGenMatchesNaiveDoubleAndAdd(t *testing.T) {
	k := Scalar{0x0123456789ABCDEF, 0xFEDCBA9876543210, 0x1122334455667788, 0}
	got := MulGen(&k)
	want := naiveMul(MaskScalar(&k), &G)
	require.Equal(t, uint64(1), got.Equal(want))
}

func TestMulGenIsAdditive(t *testing.T) {
	k1 := Scalar{7, 0, 0, 0}
	k2 := Scalar{11, 0, 0, 0}
	k3 := Scalar{18, 0, 0, 0}
	r1 := MulGen(&k1)
	r2 := MulGen(&k2)
	r3 := MulGen(&k3)
	var sum ecpt.Point
	sum.Add(r1, r2, false)
	require.Equal(t, uint64(1), sum.Equal(r3))
}

func TestMulMatchesNaiveDoubleAndAdd(t *testing.T) {
	var p ecpt.Point
	p.Set(&G)
	k := Scalar{0x1111111111111111, 0x2222222222222222, 0, 0}
	got := Mul(&k, &p)
	want := naiveMul(MaskScalar(&k), &p)
	require.Equal(t, uint64(1), got.Equal(want))
}

// TestMulMatchesNaiveDoubleAndAddAboveHalfScalarThreshold exercises a
// scalar well above 2^126, the regime a previous, now-removed
// endomorphism-based split of k handled incorrectly (its "other half" of
// the scalar was multiplied by a point that wasn't actually on the
// curve). Mul no longer splits k at all, but this stays as a regression
// guard for that class of bug.
func TestMulMatchesNaiveDoubleAndAddAboveHalfScalarThreshold(t *testing.T) {
	var p ecpt.Point
	p.Set(&G)
	k := Scalar{0x1122334455667788, 0x99AABBCCDDEEFF00, 0x0F0F0F0F0F0F0F0F, 0x0000000000000FFF}
	got := Mul(&k, &p)
	want := naiveMul(MaskScalar(&k), &p)
	require.Equal(t, uint64(1), got.Equal(want))
}

func TestMulOfZeroIsNeutral(t *testing.T) {
	var p ecpt.Point
	p.Set(&G)
	var k Scalar
	r := Mul(&k, &p)
	require.Equal(t, uint64(1), r.IsNeutral())
}

func TestMulOfOneIsInput(t *testing.T) {
	var p ecpt.Point
	p.Set(&G)
	k := Scalar{1, 0, 0, 0}
	r := Mul(&k, &p)
	require.Equal(t, uint64(1), r.Equal(&p))
}

func TestSimulMatchesSumOfTwoMuls(t *testing.T) {
	var p1, p2 ecpt.Point
	p1.Set(&G)
	p2.Dbl(&G)

	k1 := Scalar{0x0A0B0C0D0E0F1011, 0, 0, 0}
	k2 := Scalar{0x0102030405060708, 0, 0, 0}

	got := Simul(&k1, &p1, &k2, &p2)

	m1 := naiveMul(MaskScalar(&k1), &p1)
	m2 := naiveMul(MaskScalar(&k2), &p2)
	var want ecpt.Point
	want.Add(m1, m2, false)

	require.Equal(t, uint64(1), got.Equal(&want))
}

func TestSimulWithZeroSecondScalarMatchesFirstMul(t *testing.T) {
	var p1, p2 ecpt.Point
	p1.Set(&G)
	p2.Dbl(&G)

	k1 := Scalar{12345, 0, 0, 0}
	var k2 Scalar

	got := Simul(&k1, &p1, &k2, &p2)
	want := naiveMul(MaskScalar(&k1), &p1)
	require.Equal(t, uint64(1), got.Equal(want))
}

func TestRecode5RoundTrips(t *testing.T) {
	k := [4]uint64{0xABCDEF0123456789, 0x1, 0, 0}
	var digits [fullScalarDigits]byte
	scalar.Recode5(&digits, &k)

	// Reassemble the original value from its signed digits and compare.
	var acc [4]uint64
	for i := fullScalarDigits - 1; i >= 0; i-- {
		acc = shiftLeft5(acc)
		mag, sign := byteMagSign(digits[i])
		if sign == 1 {
			acc = subSmall(acc, mag)
		} else {
			acc = addSmall(acc, mag)
		}
	}
	require.Equal(t, k, acc)
}

func shiftLeft5(a [4]uint64) [4]uint64 {
	var out [4]uint64
	carry := uint64(0)
	for i := 0; i < 4; i++ {
		out[i] = (a[i] << 5) | carry
		carry = a[i] >> 59
	}
	return out
}

func addSmall(a [4]uint64, v uint64) [4]uint64 {
	var out [4]uint64
	carry := v
	for i := 0; i < 4; i++ {
		sum := a[i] + carry
		if sum < a[i] {
			out[i] = sum
			carry = 1
		} else {
			out[i] = sum
			carry = 0
		}
	}
	return out
}

func subSmall(a [4]uint64, v uint64) [4]uint64 {
	var out [4]uint64
	borrow := v
	for i := 0; i < 4; i++ {
		diff := a[i] - borrow
		if diff > a[i] {
			out[i] = diff
			borrow = 1
		} else {
			out[i] = diff
			borrow = 0
		}
	}
	return out
}

// TestCombinedTableSumMatchesSixteenPPlusEightQ independently checks the
// algebraic property a joint two-point table must satisfy: summing every
// entry of an 8-slot table built from subsets of a small basis
// {P, 3P, 2Q} must equal 16P + 8Q, since each basis element appears in
// exactly half of the 8 entries. Q here is just 7*G, an independently
// constructed point unrelated to P by any endomorphism. This exercises
// only Add and Dbl; combinedMul itself uses two separate per-point
// tables rather than a joint one.
func TestCombinedTableSumMatchesSixteenPPlusEightQ(t *testing.T) {
	var p, q, twoG, fourG ecpt.Point
	p.Set(&G)
	twoG.Dbl(&G)
	fourG.Dbl(&twoG)
	q.Add(&fourG, &twoG, false)
	q.Add(&q, &G, false) // q = 4*G + 2*G + G = 7*G

	var threeP ecpt.Point
	threeP.Dbl(&p)
	threeP.Add(&threeP, &p, false)

	var twoQ ecpt.Point
	twoQ.Dbl(&q)

	var table [8]ecpt.Point
	for i := 0; i < 8; i++ {
		table[i].Neutral()
		if i&1 != 0 {
			table[i].Add(&table[i], &p, false)
		}
		if i&2 != 0 {
			table[i].Add(&table[i], &threeP, false)
		}
		if i&4 != 0 {
			table[i].Add(&table[i], &twoQ, false)
		}
	}

	var sum ecpt.Point
	sum.Neutral()
	for i := 0; i < 8; i++ {
		sum.Add(&sum, &table[i], false)
	}

	var sixteenP ecpt.Point
	sixteenP.Set(&p)
	for i := 0; i < 4; i++ {
		sixteenP.Dbl(&sixteenP)
	}

	var eightQ ecpt.Point
	eightQ.Set(&q)
	for i := 0; i < 3; i++ {
		eightQ.Dbl(&eightQ)
	}

	var want ecpt.Point
	want.Add(&sixteenP, &eightQ, false)

	require.Equal(t, uint64(1), sum.Equal(&want))
}
