package fe

import (
	"testing"

	"github.com/dendisuhubdy/snowshoe/internal/fp"
	"github.com/stretchr/testify/require"
)

func TestMulByOneIsIdentity(t *testing.T) {
	var a, one, r Elt
	a.A0.SetSmallK(11)
	a.A1.SetSmallK(22)
	one.SetSmallK(1)
	r.Mul(&a, &one)
	require.Equal(t, uint64(1), r.IsEqual(&a))
}

func TestSqrMatchesMul(t *testing.T) {
	var a, s1, s2 Elt
	a.A0.SetSmallK(123)
	a.A1.SetSmallK(456)
	s1.Sqr(&a)
	s2.Mul(&a, &a)
	require.Equal(t, uint64(1), s1.IsEqual(&s2))
}

func TestMulUMatchesDirectMul(t *testing.T) {
	var a, u, direct, viaMulU Elt
	a.A0.SetSmallK(7)
	a.A1.SetSmallK(9)
	u.SetSmallK(2)
	u.A1.SetSmallK(1)
	direct.Mul(&a, &u)
	viaMulU.MulU(&a)
	require.Equal(t, uint64(1), direct.IsEqual(&viaMulU))
}

func TestConjTwiceIsIdentity(t *testing.T) {
	var a, c1, c2 Elt
	a.A0.SetSmallK(31)
	a.A1.SetSmallK(41)
	c1.Conj(&a)
	c2.Conj(&c1)
	require.Equal(t, uint64(1), c2.IsEqual(&a))
}

func TestInvIsMultiplicativeInverse(t *testing.T) {
	var a, inv, prod, one Elt
	a.A0.SetSmallK(17)
	a.A1.SetSmallK(5)
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

func TestMulDistributesOverAdd(t *testing.T) {
	var a, b, c, bc, lhs, t1, t2, rhs Elt
	a.A0.SetSmallK(3)
	a.A1.SetSmallK(4)
	b.A0.SetSmallK(5)
	b.A1.SetSmallK(6)
	c.A0.SetSmallK(7)
	c.A1.SetSmallK(8)

	bc.Add(&b, &c)
	lhs.Mul(&a, &bc)
	t1.Mul(&a, &b)
	t2.Mul(&a, &c)
	rhs.Add(&t1, &t2)
	require.Equal(t, uint64(1), lhs.IsEqual(&rhs))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	var a, b Elt
	a.A0.SetSmallK(999)
	a.A1.SetSmallK(111)
	buf := a.Save(nil)
	require.Len(t, buf, 32)
	b.Load(buf)
	require.Equal(t, uint64(1), a.IsEqual(&b))
}

func TestNormIsRealValued(t *testing.T) {
	var a Elt
	a.A0.SetSmallK(10)
	a.A1.SetSmallK(24)
	var n, expect0, expect1 fp.Elt
	a.Norm(&n)
	expect0.SetSmallK(100)
	expect1.SetSmallK(576)
	var sum fp.Elt
	sum.Add(&expect0, &expect1)
	require.Equal(t, uint64(1), n.IsEqual(&sum))
}
