package snowshoe

import (
	"math/bits"

	"github.com/dendisuhubdy/snowshoe/internal/scalar"
)

// Scalar is an integer modulo the prime subgroup order
//
//	q = 2^252 - r0,  r0 = 0x2cecf5f59f91bc1618b24b8e27b0ff2d
//
// stored as four little-endian 64-bit limbs. The zero value is the
// scalar 0. Unless documented otherwise, every method here is
// constant-time with regard to the scalar's value.
type Scalar [4]uint64

const (
	qR0Lo uint64 = 0x18b24b8e27b0ff2d
	qR0Hi uint64 = 0x2cecf5f59f91bc16
)

// order is q, the little-endian limbs of the subgroup order.
var order = [4]uint64{
	0xE74DB471D84F00D3,
	0xD3130A0A606E43E9,
	0xFFFFFFFFFFFFFFFF,
	0x0FFFFFFFFFFFFFFF,
}

// qReduce256PartialWithExtra reduces a (up to 256 bits, plus ah extra high
// bits) modulo q; the output fits in 256 bits and is less than 2*q. This
// exploits 2^252 = r0 (mod q), the same technique the teacher's scalar255e
// reduction uses for its own (254-bit) modulus, re-derived for q's 252-bit
// width: the extra-bits shift is 4 (256-252) rather than the teacher's 2
// (256-254), and the kept low-limb mask/threshold move accordingly.
func qReduce256PartialWithExtra(d, a *[4]uint64, ah uint64) {
	ah = (ah << 4) | (a[3] >> 60)

	u1, u0 := bits.Mul64(ah, qR0Lo)
	u2, lo := bits.Mul64(ah, qR0Hi)
	var cc uint64
	u1, cc = bits.Add64(u1, lo, 0)
	u2 += cc

	d[0], cc = bits.Add64(a[0], u0, 0)
	d[1], cc = bits.Add64(a[1], u1, cc)
	d[2], cc = bits.Add64(a[2], u2, cc)
	d[3] = (a[3] & 0x0FFFFFFFFFFFFFFF) + cc
}

func qReduce256Partial(d, a *[4]uint64) {
	qReduce256PartialWithExtra(d, a, 0)
}

// qReduce256Finish conditionally subtracts q once from a partially
// reduced value, bringing it into 0..q-1.
func qReduce256Finish(d, a *[4]uint64) {
	var t [4]uint64
	var cc uint64
	t[0], cc = bits.Add64(a[0], qR0Lo, 0)
	t[1], cc = bits.Add64(a[1], qR0Hi, cc)
	t[2], cc = bits.Add64(a[2], 0, cc)
	t[3], cc = bits.Add64(a[3], 0, cc)
	t[3] -= 0x1000000000000000

	m := -(t[3] >> 63)
	for i := 0; i < 4; i++ {
		d[i] = t[i] ^ (m & (a[i] ^ t[i]))
	}
}

func qReduce256(d, a *[4]uint64) {
	qReduce256Partial(d, a)
	qReduce256Finish(d, d)
}

// qReduce384Partial reduces a 384-bit value modulo q down to 256 bits
// (not necessarily normalized to 0..q-1), via the same high-third
// multiply-by-r0 technique as qReduce256PartialWithExtra, generalized one
// level up to a 384-bit input.
func qReduce384Partial(d *[4]uint64, a *[6]uint64) {
	var t1, t2 [2]uint64
	t1[0], t1[1] = qR0Lo, qR0Hi
	t2[0], t2[1] = a[4], a[5]

	var tw [4]uint64
	scalar.Mul128x128(&tw, &t1, &t2)

	var th uint64
	th = tw[3] >> 60
	tw[3] = (tw[3] << 4) | (tw[2] >> 60)
	tw[2] = (tw[2] << 4) | (tw[1] >> 60)
	tw[1] = (tw[1] << 4) | (tw[0] >> 60)
	tw[0] = tw[0] << 4

	var cc uint64
	tw[0], cc = bits.Add64(tw[0], a[0], 0)
	tw[1], cc = bits.Add64(tw[1], a[1], cc)
	tw[2], cc = bits.Add64(tw[2], a[2], cc)
	tw[3], cc = bits.Add64(tw[3], a[3], cc)
	th += cc

	qReduce256PartialWithExtra(d, &tw, th)
}

// Decode reads a scalar from exactly 32 bytes. Returned value is 1 if the
// scalar decoded properly and is nonzero, 0 if it decoded properly and is
// zero, or -1 if src was not the canonical encoding of a value in
// 0..q-1 (in which case the scalar is forced to zero).
func (s *Scalar) Decode(src []byte) int {
	return scalar.Decode((*[4]uint64)(s), src, &order)
}

// DecodeReduce reads a scalar from an arbitrary number of little-endian
// bytes, reducing the result modulo q. Cannot fail.
func (s *Scalar) DecodeReduce(src []byte) {
	scalar.DecodeReduce((*[4]uint64)(s), src, qReduce384Partial)
}

// Encode appends the canonical 32-byte little-endian encoding of s
// (reduced modulo q) to dst.
func (s *Scalar) Encode(dst []byte) []byte {
	return scalar.Encode(dst, (*[4]uint64)(s), qReduce256)
}

// Bytes returns the canonical 32-byte encoding of s.
func (s *Scalar) Bytes() [32]byte {
	return scalar.ToBytes((*[4]uint64)(s), qReduce256)
}

// IsZero returns 1 if s is congruent to 0 modulo q, 0 otherwise.
func (s *Scalar) IsZero() int {
	var t [4]uint64
	qReduce256(&t, (*[4]uint64)(s))
	z := t[0] | t[1] | t[2] | t[3]
	return int(1 - ((z | -z) >> 63))
}

// Equal returns 1 if s and a are congruent modulo q, 0 otherwise.
func (s *Scalar) Equal(a *Scalar) int {
	var t Scalar
	t.Sub(s, a)
	return t.IsZero()
}

// Add sets s = a + b (mod q).
func (s *Scalar) Add(a, b *Scalar) *Scalar {
	scalar.Add((*[4]uint64)(s), (*[4]uint64)(a), (*[4]uint64)(b), qReduce256Partial)
	return s
}

// Sub sets s = a - b (mod q).
func (s *Scalar) Sub(a, b *Scalar) *Scalar {
	scalar.Sub((*[4]uint64)(s), (*[4]uint64)(a), (*[4]uint64)(b), qReduce256Partial, &order)
	return s
}

// Neg sets s = -a (mod q).
func (s *Scalar) Neg(a *Scalar) *Scalar {
	zero := [4]uint64{0, 0, 0, 0}
	scalar.Sub((*[4]uint64)(s), &zero, (*[4]uint64)(a), qReduce256Partial, &order)
	return s
}

// MulModQ sets s = x*y + z (mod q), the three-operand mul_mod_q
// operation; z lets a multiply-accumulate happen in one call.
func (s *Scalar) MulModQ(x, y, z *Scalar) *Scalar {
	var t Scalar
	scalar.Mul((*[4]uint64)(&t), (*[4]uint64)(x), (*[4]uint64)(y), qReduce384Partial)
	s.Add(&t, z)
	return s
}
