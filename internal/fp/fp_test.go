package fp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func eltFromU64(lo, hi uint64) Elt {
	return Elt{lo, hi}
}

func TestZeroIsZero(t *testing.T) {
	var z Elt
	require.Equal(t, uint64(1), z.IsZero())

	var p Elt
	p.Set(&eltP)
	require.Equal(t, uint64(1), p.IsZero())
	require.Equal(t, uint64(0), p.InField())
}

// eltP is the non-canonical representation of zero (the modulus itself).
var eltP = eltFromU64(pLo, pHi)

func TestAddSubRoundTrip(t *testing.T) {
	var a, b, s, r Elt
	a.SetSmallK(123456789)
	b.SetSmallK(987654321)
	s.Add(&a, &b)
	r.Sub(&s, &b)
	require.Equal(t, uint64(1), r.IsEqual(&a))
}

func TestAddWrapsModP(t *testing.T) {
	// (p-1) + 2 == 1 (mod p)
	var pMinus1, two, sum, one Elt
	pMinus1.Sub(&eltP, (&Elt{}).SetSmallK(1))
	two.SetSmallK(2)
	sum.Add(&pMinus1, &two)
	one.SetSmallK(1)
	require.Equal(t, uint64(1), sum.IsEqual(&one))
}

func TestNegOfZeroIsZero(t *testing.T) {
	var z, n Elt
	n.Neg(&z)
	require.Equal(t, uint64(1), n.IsZero())
}

func TestMulByOneIsIdentity(t *testing.T) {
	var a, one, r Elt
	a.SetSmallK(0xDEADBEEF)
	one.SetSmallK(1)
	r.Mul(&a, &one)
	require.Equal(t, uint64(1), r.IsEqual(&a))
}

func TestSqrMatchesMul(t *testing.T) {
	var a, s1, s2 Elt
	a.SetSmallK(987654321)
	s1.Sqr(&a)
	s2.Mul(&a, &a)
	require.Equal(t, uint64(1), s1.IsEqual(&s2))
}

func TestMulDistributesOverAdd(t *testing.T) {
	var a, b, c, lhs, t1, t2, rhs Elt
	a.SetSmallK(11)
	b.SetSmallK(222)
	c.SetSmallK(3333)
	// a*(b+c) == a*b + a*c
	var bc Elt
	bc.Add(&b, &c)
	lhs.Mul(&a, &bc)
	t1.Mul(&a, &b)
	t2.Mul(&a, &c)
	rhs.Add(&t1, &t2)
	require.Equal(t, uint64(1), lhs.IsEqual(&rhs))
}

func TestInvIsMultiplicativeInverse(t *testing.T) {
	var a, inv, prod, one Elt
	a.SetSmallK(65537)
	inv.Inv(&a)
	prod.Mul(&a, &inv)
	one.SetSmallK(1)
	require.Equal(t, uint64(1), prod.IsEqual(&one))
}

func TestInvOfZeroIsZero(t *testing.T) {
	var z, inv Elt
	inv.Inv(&z)
	require.Equal(t, uint64(1), inv.IsZero())
}

func TestSelectAndCondNeg(t *testing.T) {
	var a, b, r Elt
	a.SetSmallK(7)
	b.SetSmallK(42)
	r.Select(&a, &b, 1)
	require.Equal(t, uint64(1), r.IsEqual(&a))
	r.Select(&a, &b, 0)
	require.Equal(t, uint64(1), r.IsEqual(&b))

	var neg Elt
	neg.CondNeg(&a, 1)
	var sum Elt
	sum.Add(&neg, &a)
	require.Equal(t, uint64(1), sum.IsZero())

	var same Elt
	same.CondNeg(&a, 0)
	require.Equal(t, uint64(1), same.IsEqual(&a))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	var a, b Elt
	a.SetSmallK(0x1234567)
	buf := a.Save(nil)
	require.Len(t, buf, 16)
	b.Load(buf)
	require.Equal(t, uint64(1), a.IsEqual(&b))
}

func TestLoadMasksTopBit(t *testing.T) {
	var raw [16]byte
	for i := range raw {
		raw[i] = 0xFF
	}
	var a Elt
	a.Load(raw[:])
	require.Equal(t, uint64(1), a.InField()|a.IsZero())
}

// TestFpChain exercises a long sequential chain of field operations and
// compares the final accumulator against an independently computed value,
// in the style of the FourQ reference driver's iterated field-op checks.
func TestFpChain(t *testing.T) {
	var acc Elt
	acc.SetSmallK(2)
	var ref Elt
	ref.SetSmallK(2)

	for i := 0; i < 2000; i++ {
		var sq, sum Elt
		sq.Sqr(&acc)
		sum.AddSmallK(&sq, uint32(i&0xFF))
		acc.Sub(&sum, &acc)

		// Mirror the same sequence with Mul(acc,acc) instead of Sqr,
		// which must always agree.
		var sq2 Elt
		sq2.Mul(&ref, &ref)
		var sum2 Elt
		sum2.AddSmallK(&sq2, uint32(i&0xFF))
		ref.Sub(&sum2, &ref)
	}
	require.Equal(t, uint64(1), acc.IsEqual(&ref))
}

func TestCompleteReduceIdempotent(t *testing.T) {
	var a, r1, r2 Elt
	a.Set(&eltP)
	r1.CompleteReduce(&a)
	r2.CompleteReduce(&r1)
	require.Equal(t, uint64(1), r1.IsEqual(&r2))
	require.Equal(t, uint64(0), r1[0]|r1[1])
}
