// Package fixed provides a Q32.32 fixed-point number used for every physics
// value that crosses the network, so both peers decode bit-identical values.
package fixed

import (
	"math"
	"strconv"
)

const fracBits = 32

// One is the fixed-point representation of 1.
const One Num = 1 << fracBits

// Num is a signed Q32.32 fixed-point value.
type Num int64

// FromInt converts an integer.
func FromInt(i int) Num {
	return Num(int64(i) << fracBits)
}

// FromFloat converts a float, rounding to the nearest representable value.
func FromFloat(f float64) Num {
	return Num(math.Round(f * float64(One)))
}

// Float converts back to a float64.
func (n Num) Float() float64 {
	return float64(n) / float64(One)
}

// Int truncates toward negative infinity.
func (n Num) Int() int {
	return int(int64(n) >> fracBits)
}

func (n Num) Add(o Num) Num { return n + o }
func (n Num) Sub(o Num) Num { return n - o }

// Mul multiplies two fixed-point values.
func (n Num) Mul(o Num) Num {
	hi, lo := mul128(int64(n), int64(o))
	return Num(hi<<(64-fracBits) | int64(lo>>fracBits))
}

func (n Num) Abs() Num {
	if n < 0 {
		return -n
	}
	return n
}

func (n Num) String() string {
	return strconv.FormatFloat(n.Float(), 'f', -1, 64)
}

// mul128 returns the signed 128-bit product of a and b.
func mul128(a, b int64) (hi int64, lo uint64) {
	neg := (a < 0) != (b < 0)
	ua, ub := uabs(a), uabs(b)

	aHi, aLo := ua>>32, ua&0xffffffff
	bHi, bLo := ub>>32, ub&0xffffffff

	ll := aLo * bLo
	lh := aLo * bHi
	hl := aHi * bLo
	hh := aHi * bHi

	mid := (ll >> 32) + (lh & 0xffffffff) + (hl & 0xffffffff)
	lo = (ll & 0xffffffff) | (mid << 32)
	uhi := hh + (lh >> 32) + (hl >> 32) + (mid >> 32)

	if neg {
		lo = ^lo + 1
		uhi = ^uhi
		if lo == 0 {
			uhi++
		}
	}
	return int64(uhi), lo
}

func uabs(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
