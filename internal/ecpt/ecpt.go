// Package ecpt implements point arithmetic on the twisted Edwards curve
//
//	-x^2 + y^2 = 1 + d*x^2*y^2
//
// over GF(p^2), with a = -1 and a fixed non-square parameter d. Points are
// carried in extended projective coordinates (X, Y, T, Z) with
// x = X/Z, y = Y/Z, x*y = T/Z, following Hisil-Wong-Carter-Dawson.
//
// All formulas here are unified and exception-free: they produce the
// correct result for any pair of inputs, including the identity and
// P == ±Q, without any branch on point values. The only way to learn
// whether an operation hit a special case is by inspecting its output,
// never by its timing.
package ecpt

import "github.com/dendisuhubdy/snowshoe/internal/fe"

// D is the curve parameter d = 109 (real, no imaginary part), fixed as a
// package-level variable rather than a literal constant because fe.Elt is
// a struct: non-square in GF(p^2), which is what makes the addition law
// below complete (exception-free) for every pair of inputs.
var D = func() fe.Elt {
	var d fe.Elt
	d.SetSmallK(109)
	return d
}()

// Point is a curve point in extended projective coordinates.
type Point struct {
	X, Y, T, Z fe.Elt
}

// Affine is a curve point in plain affine coordinates, used for the
// fixed-base precomputed tables in internal/ecmul (Z is implicitly 1).
type Affine struct {
	X, Y fe.Elt
}

// neutral is the identity element (0, 1) in extended coordinates.
var neutral = func() Point {
	var p Point
	p.Y.SetSmallK(1)
	p.Z.SetSmallK(1)
	return p
}()

// Neutral sets d to the identity element.
func (d *Point) Neutral() *Point {
	*d = neutral
	return d
}

// Set copies p into d.
func (d *Point) Set(p *Point) *Point {
	*d = *p
	return d
}

// Select sets d = p if ctl == 1, or d = q if ctl == 0. ctl MUST be 0 or 1.
func (d *Point) Select(p, q *Point, ctl uint64) *Point {
	d.X.Select(&p.X, &q.X, ctl)
	d.Y.Select(&p.Y, &q.Y, ctl)
	d.T.Select(&p.T, &q.T, ctl)
	d.Z.Select(&p.Z, &q.Z, ctl)
	return d
}

// Neg sets d = -p = (-x, y).
func (d *Point) Neg(p *Point) *Point {
	d.X.Neg(&p.X)
	d.Y.Set(&p.Y)
	d.T.Neg(&p.T)
	d.Z.Set(&p.Z)
	return d
}

// CondNeg sets d = -p if ctl == 1, or d = p if ctl == 0. ctl MUST be 0 or 1.
func (d *Point) CondNeg(p *Point, ctl uint64) *Point {
	var n Point
	n.Neg(p)
	return d.Select(&n, p, ctl)
}

// Expand lifts an affine point into extended coordinates: Z = 1,
// T = X*Y.
func (d *Point) Expand(p *Affine) *Point {
	d.X.Set(&p.X)
	d.Y.Set(&p.Y)
	d.T.Mul(&p.X, &p.Y)
	d.Z.SetSmallK(1)
	return d
}

// Affine sets d to the affine coordinates (x, y) = (X/Z, Y/Z) of p. If
// p.Z is zero (never true for a well-formed point) the result is
// undefined but still total (no panic, no division by true zero, since
// internal/fp.Inv maps 0 to 0).
func (d *Affine) Affine(p *Point) *Affine {
	var zinv fe.Elt
	zinv.Inv(&p.Z)
	d.X.Mul(&p.X, &zinv)
	d.Y.Mul(&p.Y, &zinv)
	return d
}

// Dbl sets d = 2*p, using the complete (a = -1) doubling formulas from
// "Twisted Edwards Curves Revisited" (dbl-2008-hwcd).
func (d *Point) Dbl(p *Point) *Point {
	var a, b, c, g, f, h, e, x3, y3, t3, z3 fe.Elt

	a.Sqr(&p.X)
	b.Sqr(&p.Y)
	c.Sqr(&p.Z)
	c.Add(&c, &c) // C = 2*Z^2

	var sum fe.Elt
	sum.Add(&p.X, &p.Y)
	sum.Sqr(&sum)
	e.Sub(&sum, &a)
	e.Sub(&e, &b) // E = (X+Y)^2 - A - B

	g.Sub(&b, &a) // G = -A + B  (a = -1)
	f.Sub(&g, &c) // F = G - C
	h.Neg(&a)
	h.Sub(&h, &b) // H = -A - B

	x3.Mul(&e, &f)
	y3.Mul(&g, &h)
	t3.Mul(&e, &h)
	z3.Mul(&f, &g)

	d.X.Set(&x3)
	d.Y.Set(&y3)
	d.T.Set(&t3)
	d.Z.Set(&z3)
	return d
}

// DblX sets d = 2^n * p for n >= 1, by repeated doubling. Constant-time
// with regard to p, but n is expected to be a small non-secret loop
// bound, matching internal/fp.SqrX.
func (d *Point) DblX(p *Point, n uint) *Point {
	d.Set(p)
	for ; n > 0; n-- {
		d.Dbl(d)
	}
	return d
}

// Add sets d = p + q using the complete (a = -1) unified addition
// formulas (add-2008-hwcd-3). If qAffine is true, q.Z is assumed to be
// the field element 1 and the corresponding multiplication is skipped
// (mixed addition against a precomputed affine table entry).
func (d *Point) Add(p, q *Point, qAffine bool) *Point {
	var a, b, c, dd, e, f, g, h, x3, y3, t3, z3 fe.Elt

	var s1, s2, r1, r2 fe.Elt
	s1.Sub(&p.Y, &p.X)
	s2.Sub(&q.Y, &q.X)
	a.Mul(&s1, &s2)

	r1.Add(&p.Y, &p.X)
	r2.Add(&q.Y, &q.X)
	b.Mul(&r1, &r2)

	c.Mul(&p.T, &q.T)
	c.Mul(&c, &D)
	c.Add(&c, &c) // C = 2*d*T1*T2

	if qAffine {
		dd.Add(&p.Z, &p.Z) // Z2 == 1, so D = 2*Z1*Z2 = 2*Z1
	} else {
		dd.Mul(&p.Z, &q.Z)
		dd.Add(&dd, &dd)
	}

	e.Sub(&b, &a)
	f.Sub(&dd, &c)
	g.Add(&dd, &c)
	h.Add(&b, &a)

	x3.Mul(&e, &f)
	y3.Mul(&g, &h)
	t3.Mul(&e, &h)
	z3.Mul(&f, &g)

	d.X.Set(&x3)
	d.Y.Set(&y3)
	d.T.Set(&t3)
	d.Z.Set(&z3)
	return d
}

// AddSkipT behaves like Add, except the T output is left at its previous
// (unspecified) value. Use only when the result is about to be consumed
// by Affine, which never reads T.
func (d *Point) AddSkipT(p, q *Point, qAffine bool) *Point {
	var a, b, c, dd, e, f, g, h, x3, y3, z3 fe.Elt

	var s1, s2, r1, r2 fe.Elt
	s1.Sub(&p.Y, &p.X)
	s2.Sub(&q.Y, &q.X)
	a.Mul(&s1, &s2)

	r1.Add(&p.Y, &p.X)
	r2.Add(&q.Y, &q.X)
	b.Mul(&r1, &r2)

	c.Mul(&p.T, &q.T)
	c.Mul(&c, &D)
	c.Add(&c, &c)

	if qAffine {
		dd.Add(&p.Z, &p.Z)
	} else {
		dd.Mul(&p.Z, &q.Z)
		dd.Add(&dd, &dd)
	}

	e.Sub(&b, &a)
	f.Sub(&dd, &c)
	g.Add(&dd, &c)
	h.Add(&b, &a)

	x3.Mul(&e, &f)
	y3.Mul(&g, &h)
	z3.Mul(&f, &g)

	d.X.Set(&x3)
	d.Y.Set(&y3)
	d.Z.Set(&z3)
	return d
}

// IsNeutral returns 1 if p is the identity element (0, 1), 0 otherwise.
// Checking X == 0 alone (or X == 0 and T == 0, which X == 0 already
// implies since T = X*Y) isn't enough: the order-2 point (0, -1) also has
// X = 0 and T = 0 but is not the identity, so Y/Z must be checked too.
// Y/Z == 1 iff Y == Z, which holds regardless of the point's projective
// scale factor, so no inversion is needed here.
func (p *Point) IsNeutral() uint64 {
	return p.X.IsZero() & p.Y.IsEqual(&p.Z)
}

// Equal returns 1 if p and q represent the same curve point, 0 otherwise.
func (p *Point) Equal(q *Point) uint64 {
	var l, r fe.Elt
	l.Mul(&p.X, &q.Z)
	r.Mul(&q.X, &p.Z)
	eqx := l.IsEqual(&r)
	l.Mul(&p.Y, &q.Z)
	r.Mul(&q.Y, &p.Z)
	eqy := l.IsEqual(&r)
	return eqx & eqy
}

// SaveXY encodes the affine (x, y) coordinates of p into exactly 64
// bytes (x then y, each a 32-byte fe.Elt encoding), appended to dst.
func (p *Point) SaveXY(dst []byte) []byte {
	var a Affine
	a.Affine(p)
	dst = a.X.Save(dst)
	dst = a.Y.Save(dst)
	return dst
}

// Bytes encodes the affine coordinates of p into a freshly allocated
// 64-byte array.
func (p *Point) Bytes() [64]byte {
	var out [64]byte
	p.SaveXY(out[:0])
	return out
}

// LoadXY decodes a point from exactly 64 bytes (x then y). It returns
// (d, 1) if the bytes decode to a point genuinely on the curve, or
// (neutral, 0) otherwise. Constant-time: every candidate input runs the
// same curve-equation check, and the failure path is selected by mask,
// never by early return.
func (d *Point) LoadXY(src []byte) (*Point, uint64) {
	var a Affine
	a.X.Load(src[0:32])
	a.Y.Load(src[32:64])

	var x2, y2, lhs, rhs, x2y2, one fe.Elt
	x2.Sqr(&a.X)
	y2.Sqr(&a.Y)
	lhs.Sub(&y2, &x2) // -x^2 + y^2 (a = -1)
	x2y2.Mul(&x2, &y2)
	rhs.Mul(&x2y2, &D)
	one.SetSmallK(1)
	rhs.Add(&rhs, &one)

	ok := lhs.IsEqual(&rhs)

	var p Point
	p.Expand(&a)

	n := neutral
	d.Select(&p, &n, ok)
	return d, ok
}
