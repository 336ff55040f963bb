// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package decimal128 implements the 128-bit integer backing decimal
// columns, including the string and float conversions governed by a
// column's precision and scale.
package decimal128

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"strings"
)

// MaxPrecision is the largest number of decimal digits a 128-bit decimal
// can hold.
const MaxPrecision = 38

// Num represents a signed 128-bit integer in two's complement.
// Calculations wrap around and overflow is ignored.
type Num struct {
	lo uint64 // low bits
	hi int64  // high bits
}

// New returns a new signed 128-bit integer value.
func New(hi int64, lo uint64) Num {
	return Num{lo: lo, hi: hi}
}

// FromU64 returns a new signed 128-bit integer value from the provided
// uint64 one.
func FromU64(v uint64) Num {
	return New(0, v)
}

// FromI64 returns a new signed 128-bit integer value from the provided
// int64 one.
func FromI64(v int64) Num {
	switch {
	case v > 0:
		return New(0, uint64(v))
	case v < 0:
		return New(-1, uint64(v))
	default:
		return Num{}
	}
}

func fromBigIntPositive(v *big.Int) Num {
	var buf [16]byte
	v.FillBytes(buf[:])
	return Num{
		lo: binary.BigEndian.Uint64(buf[8:]),
		hi: int64(binary.BigEndian.Uint64(buf[:8])),
	}
}

// FromBigInt converts a big.Int to a Num, wrapping around on overflow.
func FromBigInt(v *big.Int) Num {
	if v.Sign() < 0 {
		return fromBigIntPositive((&big.Int{}).Abs(v)).negated()
	}
	return fromBigIntPositive(v)
}

// LowBits returns the low bits of the two's complement representation.
func (n Num) LowBits() uint64 { return n.lo }

// HighBits returns the high bits of the two's complement representation.
func (n Num) HighBits() int64 { return n.hi }

// Sign returns:
//
//	-1 if x <  0
//	 0 if x == 0
//	+1 if x >  0
func (n Num) Sign() int {
	if n == (Num{}) {
		return 0
	}
	return int(1 | (n.hi >> 63))
}

func (n Num) negated() Num {
	n.lo = ^n.lo + 1
	n.hi = ^n.hi
	if n.lo == 0 {
		n.hi += 1
	}
	return n
}

func toBigInt(n Num) *big.Int {
	hi := big.NewInt(n.hi)
	return hi.Lsh(hi, 64).Add(hi, (&big.Int{}).SetUint64(n.lo))
}

// BigInt returns the value as a big.Int.
func (n Num) BigInt() *big.Int {
	if n.Sign() < 0 {
		ret := toBigInt(n.negated())
		return ret.Neg(ret)
	}
	return toBigInt(n)
}

// unsigned 128-bit magnitude used while accumulating digits.
type mag struct {
	hi, lo uint64
}

// mul10add returns m*10 + d, reporting overflow.
func (m mag) mul10add(d uint64) (mag, bool) {
	hi, lo := bits.Mul64(m.lo, 10)
	hi2, c2 := bits.Mul64(m.hi, 10)
	if hi2 != 0 {
		return mag{}, false
	}
	hi += c2
	if hi < c2 {
		return mag{}, false
	}
	lo2, carry := bits.Add64(lo, d, 0)
	hi, c3 := bits.Add64(hi, 0, carry)
	if c3 != 0 {
		return mag{}, false
	}
	return mag{hi: hi, lo: lo2}, true
}

func (m mag) less(o mag) bool {
	if m.hi != o.hi {
		return m.hi < o.hi
	}
	return m.lo < o.lo
}

// pow10 holds 10^0 .. 10^38 as unsigned magnitudes.
var pow10 = func() [MaxPrecision + 1]mag {
	var p [MaxPrecision + 1]mag
	p[0] = mag{lo: 1}
	for i := 1; i <= MaxPrecision; i++ {
		p[i], _ = p[i-1].mul10add(0)
	}
	return p
}()

func (m mag) num(neg bool) Num {
	n := Num{hi: int64(m.hi), lo: m.lo}
	if neg {
		return n.negated()
	}
	return n
}

// FitsInPrecision reports whether |n| < 10^prec.
func (n Num) FitsInPrecision(prec int32) bool {
	if prec <= 0 || prec > MaxPrecision {
		return false
	}
	abs := n
	if abs.Sign() < 0 {
		abs = abs.negated()
	}
	return (mag{hi: uint64(abs.hi), lo: abs.lo}).less(pow10[prec])
}

var errFormat = errors.New("invalid decimal string")

// FromString parses a decimal string into a Num scaled by 10^scale. The
// string is split into sign, integer part and fractional part. Fractional
// digits beyond the scale are an error unless truncate is set, in which
// case they are silently discarded. Integer digits that do not fit the
// precision are always an error.
func FromString(s string, prec, scale int32, truncate bool) (Num, error) {
	if prec <= 0 || prec > MaxPrecision {
		return Num{}, fmt.Errorf("invalid precision %d", prec)
	}

	rest := s
	neg := false
	switch {
	case strings.HasPrefix(rest, "-"):
		neg = true
		rest = rest[1:]
	case strings.HasPrefix(rest, "+"):
		rest = rest[1:]
	}

	intPart, fracPart, _ := strings.Cut(rest, ".")
	if intPart == "" && fracPart == "" {
		return Num{}, fmt.Errorf("%w %q", errFormat, s)
	}
	for _, p := range []string{intPart, fracPart} {
		for _, c := range []byte(p) {
			if c < '0' || c > '9' {
				return Num{}, fmt.Errorf("%w %q", errFormat, s)
			}
		}
	}

	// The stored integer keeps len(intPart)+scale leading digits of the
	// digit string; anything to the right of that point is sub-scale.
	digits := intPart + fracPart
	keep := len(intPart) + int(scale)
	switch {
	case keep < 0:
		keep = 0
	case keep > len(digits):
		digits += strings.Repeat("0", keep-len(digits))
	}
	for _, c := range []byte(digits[keep:]) {
		if c != '0' && !truncate {
			return Num{}, fmt.Errorf("%q has more than %d fractional digits", s, scale)
		}
	}
	digits = digits[:keep]

	var m mag
	var ok bool
	for _, c := range []byte(strings.TrimLeft(digits, "0")) {
		if m, ok = m.mul10add(uint64(c - '0')); !ok {
			return Num{}, fmt.Errorf("%q overflows Decimal128(%d,%d)", s, prec, scale)
		}
	}
	if !m.less(pow10[prec]) {
		return Num{}, fmt.Errorf("%q does not fit precision %d with scale %d", s, prec, scale)
	}
	return m.num(neg), nil
}

// FromFloat64 converts a float to a Num by scaling it by 10^scale and
// truncating toward zero.
func FromFloat64(v float64, prec, scale int32) (Num, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Num{}, fmt.Errorf("cannot convert %f to decimal", v)
	}
	f := new(big.Float).SetPrec(256).SetFloat64(v)
	if scale >= 0 {
		f.Mul(f, new(big.Float).SetInt(pow10[scale].num(false).BigInt()))
	} else {
		f.Quo(f, new(big.Float).SetInt(pow10[-scale].num(false).BigInt()))
	}
	i, _ := f.Int(nil)
	n := FromBigInt(i)
	if !n.FitsInPrecision(prec) {
		return Num{}, fmt.Errorf("%f does not fit precision %d with scale %d", v, prec, scale)
	}
	return n, nil
}

// ToString formats the value with the decimal point implied by scale, the
// inverse of FromString.
func (n Num) ToString(scale int32) string {
	digits := n.BigInt().String()
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var o strings.Builder
	if neg {
		o.WriteByte('-')
	}
	switch {
	case scale <= 0:
		o.WriteString(digits)
		o.WriteString(strings.Repeat("0", int(-scale)))
	case len(digits) > int(scale):
		o.WriteString(digits[:len(digits)-int(scale)])
		o.WriteByte('.')
		o.WriteString(digits[len(digits)-int(scale):])
	default:
		o.WriteString("0.")
		o.WriteString(strings.Repeat("0", int(scale)-len(digits)))
		o.WriteString(digits)
	}
	return o.String()
}
