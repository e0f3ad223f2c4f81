// Package fe implements arithmetic in the quadratic extension field
// GF(p^2) = Fp[i]/(i^2+1), built directly on top of internal/fp.
//
// Every function here is total, branch-free with regard to its operands,
// and allocation-free, in the same style as internal/fp: the only branches
// permitted are on loop induction variables and compile-time constants.
package fe

import "github.com/dendisuhubdy/snowshoe/internal/fp"

// Elt is an element a0 + a1*i of GF(p^2).
type Elt struct {
	A0 fp.Elt
	A1 fp.Elt
}

// Zero sets d to 0.
func (d *Elt) Zero() *Elt {
	d.A0.Zero()
	d.A1.Zero()
	return d
}

// SetSmallK sets d to the real constant k (imaginary part 0).
func (d *Elt) SetSmallK(k uint32) *Elt {
	d.A0.SetSmallK(k)
	d.A1.Zero()
	return d
}

// Set copies a into d.
func (d *Elt) Set(a *Elt) *Elt {
	d.A0.Set(&a.A0)
	d.A1.Set(&a.A1)
	return d
}

// Conj sets d = conjugate(a) = a0 - a1*i.
func (d *Elt) Conj(a *Elt) *Elt {
	d.A0.Set(&a.A0)
	d.A1.Neg(&a.A1)
	return d
}

// Add sets d = a + b.
func (d *Elt) Add(a, b *Elt) *Elt {
	d.A0.Add(&a.A0, &b.A0)
	d.A1.Add(&a.A1, &b.A1)
	return d
}

// Sub sets d = a - b.
func (d *Elt) Sub(a, b *Elt) *Elt {
	d.A0.Sub(&a.A0, &b.A0)
	d.A1.Sub(&a.A1, &b.A1)
	return d
}

// Neg sets d = -a.
func (d *Elt) Neg(a *Elt) *Elt {
	d.A0.Neg(&a.A0)
	d.A1.Neg(&a.A1)
	return d
}

// Select sets d = a if ctl == 1, or d = b if ctl == 0. ctl MUST be 0 or 1.
func (d *Elt) Select(a, b *Elt, ctl uint64) *Elt {
	d.A0.Select(&a.A0, &b.A0, ctl)
	d.A1.Select(&a.A1, &b.A1, ctl)
	return d
}

// CondNeg sets d = -a if ctl == 1, or d = a if ctl == 0. ctl MUST be 0 or 1.
func (d *Elt) CondNeg(a *Elt, ctl uint64) *Elt {
	d.A0.CondNeg(&a.A0, ctl)
	d.A1.CondNeg(&a.A1, ctl)
	return d
}

// CondOrFrom sets d = d OR (a AND mask), component-wise. mask MUST be 0 or
// 0xFFFFFFFFFFFFFFFF. Used by constant-time table scans in internal/ecmul.
func (d *Elt) CondOrFrom(a *Elt, mask uint64) *Elt {
	d.A0.CondOrFrom(&a.A0, mask)
	d.A1.CondOrFrom(&a.A1, mask)
	return d
}

// Mul sets d = a*b using the Karatsuba identity, at the cost of three
// internal/fp multiplications instead of four:
//
//	real = a0*b0 - a1*b1
//	imag = (a0+a1)*(b0+b1) - a0*b0 - a1*b1
func (d *Elt) Mul(a, b *Elt) *Elt {
	var m0, m1, sa, sb, cross fp.Elt
	m0.Mul(&a.A0, &b.A0)
	m1.Mul(&a.A1, &b.A1)
	sa.Add(&a.A0, &a.A1)
	sb.Add(&b.A0, &b.A1)
	cross.Mul(&sa, &sb)

	var real, imag fp.Elt
	real.Sub(&m0, &m1)
	imag.Sub(&cross, &m0)
	imag.Sub(&imag, &m1)

	d.A0.Set(&real)
	d.A1.Set(&imag)
	return d
}

// Sqr sets d = a^2 using two internal/fp multiplications:
//
//	real = (a0+a1)*(a0-a1)
//	imag = 2*a0*a1
func (d *Elt) Sqr(a *Elt) *Elt {
	var sum, diff, real, m, imag fp.Elt
	sum.Add(&a.A0, &a.A1)
	diff.Sub(&a.A0, &a.A1)
	real.Mul(&sum, &diff)
	m.Mul(&a.A0, &a.A1)
	imag.Add(&m, &m)

	d.A0.Set(&real)
	d.A1.Set(&imag)
	return d
}

// MulU sets d = a*u where u = 2+i, using only additions and subtractions
// (no internal/fp multiplication):
//
//	real = 2*a0 - a1
//	imag = a0 + 2*a1
func (d *Elt) MulU(a *Elt) *Elt {
	var a0x2, a1x2, real, imag fp.Elt
	a0x2.Add(&a.A0, &a.A0)
	a1x2.Add(&a.A1, &a.A1)
	real.Sub(&a0x2, &a.A1)
	imag.Add(&a.A0, &a1x2)
	d.A0.Set(&real)
	d.A1.Set(&imag)
	return d
}

// Norm sets n = a0^2 + a1^2 (the Fp-valued field norm N(a) = a*conj(a)).
func (a *Elt) Norm(n *fp.Elt) *fp.Elt {
	var s0, s1 fp.Elt
	s0.Sqr(&a.A0)
	s1.Sqr(&a.A1)
	n.Add(&s0, &s1)
	return n
}

// Inv sets d = 1/a = conj(a) / N(a). If a == 0, d is set to 0.
func (d *Elt) Inv(a *Elt) *Elt {
	var n, ninv fp.Elt
	a.Norm(&n)
	ninv.Inv(&n)

	var c Elt
	c.Conj(a)
	d.A0.Mul(&c.A0, &ninv)
	d.A1.Mul(&c.A1, &ninv)
	return d
}

// IsZero returns 1 if d represents zero, 0 otherwise.
func (d *Elt) IsZero() uint64 {
	return d.A0.IsZero() & d.A1.IsZero()
}

// IsEqual returns 1 if d == a, 0 otherwise.
func (d *Elt) IsEqual(a *Elt) uint64 {
	return d.A0.IsEqual(&a.A0) & d.A1.IsEqual(&a.A1)
}

// CompleteReduce normalizes both components of a into their canonical
// (< p) representatives.
func (d *Elt) CompleteReduce(a *Elt) *Elt {
	d.A0.CompleteReduce(&a.A0)
	d.A1.CompleteReduce(&a.A1)
	return d
}

// Save encodes d into exactly 32 bytes (a0 then a1, each 16 bytes
// little-endian), appended to dst.
func (d *Elt) Save(dst []byte) []byte {
	dst = d.A0.Save(dst)
	dst = d.A1.Save(dst)
	return dst
}

// Bytes encodes d into a freshly allocated 32-byte array.
func (d *Elt) Bytes() [32]byte {
	var out [32]byte
	d.Save(out[:0])
	return out
}

// Load decodes d from exactly 32 bytes. Never fails (top bit of each
// 16-byte half is masked away, per internal/fp.Load).
func (d *Elt) Load(src []byte) *Elt {
	d.A0.Load(src[0:16])
	d.A1.Load(src[16:32])
	return d
}
