// Package snowshoe implements constant-time group arithmetic on a
// 254-bit twisted Edwards curve defined over GF(p^2), p = 2^127-1. It
// exposes the three scalar multiplication engines (fixed-base,
// variable-base, double-base) built in internal/ecmul behind a small
// Point/Scalar API, along with the curve-membership-checked encode/decode
// pair every other operation in this package depends on.
package snowshoe

import (
	"github.com/cockroachdb/errors"
	"github.com/dendisuhubdy/snowshoe/internal/ecmul"
	"github.com/dendisuhubdy/snowshoe/internal/ecpt"
)

// Point is a group element. The zero value is not a valid point; use
// Generator, Neutral, or LoadXY to obtain one.
type Point struct {
	inner ecpt.Point
}

// Neutral returns the group identity element.
func Neutral() Point {
	var p Point
	p.inner.Neutral()
	return p
}

// Generator returns the fixed base point G used by MulGen.
func Generator() Point {
	return Point{inner: ecmul.G}
}

// IsNeutral reports whether p is the identity element.
func (p Point) IsNeutral() bool {
	return p.inner.IsNeutral() == 1
}

// Equal reports whether p and q represent the same group element.
func (p Point) Equal(q Point) bool {
	return p.inner.Equal(&q.inner) == 1
}

// Neg returns -p.
func (p Point) Neg() Point {
	var r Point
	r.inner.Neg(&p.inner)
	return r
}

// Add returns p + q using the general (non-mixed) point addition law.
func (p Point) Add(q Point) Point {
	var r Point
	r.inner.Add(&p.inner, &q.inner, false)
	return r
}

// MulGen returns s*G, computed with the fixed-base signed comb.
func MulGen(s *Scalar) Point {
	es := ecmul.Scalar(*s)
	r := ecmul.MulGen(&es)
	return Point{inner: *r}
}

// Mul returns s*p, computed with the variable-base multiplier.
func (p Point) Mul(s *Scalar) Point {
	es := ecmul.Scalar(*s)
	r := ecmul.Mul(&es, &p.inner)
	return Point{inner: *r}
}

// Simul returns s1*p1 + s2*p2 in a single double-base pass, faster than
// two separate Mul calls plus an Add.
func Simul(s1 *Scalar, p1 Point, s2 *Scalar, p2 Point) Point {
	e1 := ecmul.Scalar(*s1)
	e2 := ecmul.Scalar(*s2)
	r := ecmul.Simul(&e1, &p1.inner, &e2, &p2.inner)
	return Point{inner: *r}
}

// SaveXY appends the 64-byte affine (x, y) encoding of p to dst.
func (p Point) SaveXY(dst []byte) []byte {
	return p.inner.SaveXY(dst)
}

// Bytes returns the 64-byte affine encoding of p.
func (p Point) Bytes() [64]byte {
	return p.inner.Bytes()
}

// LoadXY decodes a point from exactly 64 bytes (affine x then y). It
// returns an error if the input isn't 64 bytes long or doesn't decode to
// a point genuinely on the curve.
func LoadXY(src []byte) (Point, error) {
	if len(src) != 64 {
		return Point{}, errors.Newf("snowshoe: point encoding must be 64 bytes, got %d", len(src))
	}
	var pt ecpt.Point
	_, ok := pt.LoadXY(src)
	if ok != 1 {
		return Point{}, errors.New("snowshoe: decoded coordinates are not on the curve")
	}
	return Point{inner: pt}, nil
}

// MaskScalar clamps k to the low 252 bits every multiplication routine in
// this package expects, matching internal/ecmul's own clamp.
func MaskScalar(k *Scalar) *Scalar {
	ek := ecmul.Scalar(*k)
	masked := ecmul.MaskScalar(&ek)
	out := Scalar(*masked)
	return &out
}
