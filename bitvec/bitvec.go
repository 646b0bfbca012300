// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bitvec implements fixed width bit vectors.
//
// A Vector is an immutable value holding between 1 and MaxWidth bits. Bits are
// indexed most significant bit first: Bit(0) is the MSB, Bit(Width()-1) the LSB,
// which matches the way buses are drawn on a datapath diagram.
//
// Operations on two vectors require both operands to have the same width and
// panic otherwise. The only operations that change the width of a value are the
// explicit ones: Trunc, SignExtend, ZeroExtend, Slice and Concat.
package bitvec

import (
	"strings"

	"github.com/pkg/errors"
)

// MaxWidth is the maximum width of a Vector.
const MaxWidth = 64

// Vector is a fixed width bit vector. The zero value is not a valid vector; use
// Zero, New or Parse.
//
// Vectors are comparable with ==.
type Vector struct {
	v uint64
	n uint8
}

func checkWidth(width int) {
	if width < 1 || width > MaxWidth {
		panic(errors.Errorf("bitvec: invalid width %d", width))
	}
}

func mask(width int) uint64 {
	if width == 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}

// Zero returns a vector of the given width with all bits cleared.
func Zero(width int) Vector {
	checkWidth(width)
	return Vector{n: uint8(width)}
}

// New returns a vector of the given width holding the unsigned value v.
// It panics if v does not fit in width bits.
func New(width int, v uint64) Vector {
	checkWidth(width)
	if v&^mask(width) != 0 {
		panic(errors.Errorf("bitvec: value %#x does not fit in %d bits", v, width))
	}
	return Vector{v: v, n: uint8(width)}
}

// Trunc returns a vector of the given width holding the low order bits of v.
// Higher bits are silently discarded.
func Trunc(width int, v uint64) Vector {
	checkWidth(width)
	return Vector{v: v & mask(width), n: uint8(width)}
}

// FromBool returns a 1 bit vector.
func FromBool(b bool) Vector {
	if b {
		return Vector{v: 1, n: 1}
	}
	return Vector{n: 1}
}

// FromBits returns a vector built from the given bits, MSB first.
func FromBits(bits ...bool) Vector {
	checkWidth(len(bits))
	var v uint64
	for _, b := range bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return Vector{v: v, n: uint8(len(bits))}
}

// Parse parses a string of '0' and '1' characters, MSB first. Underscores
// may be used as digit separators.
func Parse(s string) (Vector, error) {
	var v uint64
	n := 0
	for i, r := range s {
		switch r {
		case '_':
			continue
		case '0', '1':
			v = v<<1 | uint64(r-'0')
			n++
		default:
			return Vector{}, errors.Errorf("bitvec: invalid character %q at position %d in %q", r, i, s)
		}
		if n > MaxWidth {
			return Vector{}, errors.Errorf("bitvec: %q is longer than %d bits", s, MaxWidth)
		}
	}
	if n == 0 {
		return Vector{}, errors.New("bitvec: empty bit string")
	}
	return Vector{v: v, n: uint8(n)}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Vector {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Width returns the number of bits in x.
func (x Vector) Width() int { return int(x.n) }

// Uint returns the unsigned integer interpretation of x.
func (x Vector) Uint() uint64 { return x.v }

// Int returns the two's complement interpretation of x.
func (x Vector) Int() int64 {
	if x.n == 64 {
		return int64(x.v)
	}
	s := 64 - uint(x.n)
	return int64(x.v<<s) >> s
}

// Bool returns the value of a 1 bit vector. It panics if x is wider than 1 bit.
func (x Vector) Bool() bool {
	if x.n != 1 {
		panic(errors.Errorf("bitvec: Bool called on a %d bits vector", x.n))
	}
	return x.v != 0
}

// Bit returns the value of bit i, where bit 0 is the most significant bit.
func (x Vector) Bit(i int) bool {
	if i < 0 || i >= int(x.n) {
		panic(errors.Errorf("bitvec: bit index %d out of range [0, %d)", i, x.n))
	}
	return x.v&(1<<uint(int(x.n)-1-i)) != 0
}

// Bits returns the bits of x, MSB first.
func (x Vector) Bits() []bool {
	bits := make([]bool, x.n)
	for i := range bits {
		bits[i] = x.Bit(i)
	}
	return bits
}

// IsZero returns true if all bits of x are cleared.
func (x Vector) IsZero() bool { return x.v == 0 }

// Slice returns bits [lo, hi) of x, indexed MSB first. For a 16 bits
// instruction word, Slice(0, 4) returns the 4 most significant bits.
func (x Vector) Slice(lo, hi int) Vector {
	if lo < 0 || hi > int(x.n) || lo >= hi {
		panic(errors.Errorf("bitvec: invalid slice [%d:%d] of a %d bits vector", lo, hi, x.n))
	}
	w := hi - lo
	return Vector{v: x.v >> uint(int(x.n)-hi) & mask(w), n: uint8(w)}
}

// Concat returns the concatenation of the given vectors. The first vector ends
// up in the most significant bits of the result.
func Concat(vs ...Vector) Vector {
	var v uint64
	n := 0
	for _, x := range vs {
		n += int(x.n)
		checkWidth(n)
		v = v<<x.n | x.v
	}
	return Vector{v: v, n: uint8(n)}
}

func (x Vector) same(y Vector, op string) {
	if x.n != y.n {
		panic(errors.Errorf("bitvec: width mismatch in %s: %d != %d", op, x.n, y.n))
	}
}

// And returns the bitwise AND of x and y.
func (x Vector) And(y Vector) Vector {
	x.same(y, "And")
	return Vector{v: x.v & y.v, n: x.n}
}

// Or returns the bitwise OR of x and y.
func (x Vector) Or(y Vector) Vector {
	x.same(y, "Or")
	return Vector{v: x.v | y.v, n: x.n}
}

// Xor returns the bitwise XOR of x and y.
func (x Vector) Xor(y Vector) Vector {
	x.same(y, "Xor")
	return Vector{v: x.v ^ y.v, n: x.n}
}

// Not returns the bitwise complement of x.
func (x Vector) Not() Vector {
	return Vector{v: ^x.v & mask(int(x.n)), n: x.n}
}

// Add returns x + y modulo 2^Width().
func (x Vector) Add(y Vector) Vector {
	x.same(y, "Add")
	return Trunc(int(x.n), x.v+y.v)
}

// Sub returns x - y modulo 2^Width(), i.e. the two's complement difference.
func (x Vector) Sub(y Vector) Vector {
	x.same(y, "Sub")
	return Trunc(int(x.n), x.v-y.v)
}

// Less returns true if x < y, both being interpreted as unsigned integers.
func (x Vector) Less(y Vector) bool {
	x.same(y, "Less")
	return x.v < y.v
}

// Shl returns x shifted left by s bits. The width is unchanged; bits shifted
// out are lost.
func (x Vector) Shl(s uint) Vector {
	if s >= 64 {
		return Vector{n: x.n}
	}
	return Trunc(int(x.n), x.v<<s)
}

// SignExtend returns x extended to the given width by replicating its most
// significant bit.
func (x Vector) SignExtend(width int) Vector {
	if width < int(x.n) {
		panic(errors.Errorf("bitvec: cannot sign extend %d bits to %d bits", x.n, width))
	}
	return Trunc(width, uint64(x.Int()))
}

// ZeroExtend returns x extended to the given width with cleared high order bits.
func (x Vector) ZeroExtend(width int) Vector {
	if width < int(x.n) {
		panic(errors.Errorf("bitvec: cannot zero extend %d bits to %d bits", x.n, width))
	}
	return Vector{v: x.v, n: uint8(width)}
}

// String returns the binary representation of x, MSB first.
func (x Vector) String() string {
	if x.n == 0 {
		return "<invalid>"
	}
	var b strings.Builder
	b.Grow(int(x.n))
	for i := 0; i < int(x.n); i++ {
		if x.Bit(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
