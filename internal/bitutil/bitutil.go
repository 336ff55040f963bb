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

// Package bitutil implements the bit-packed bitmap primitives shared by the
// builder and reader trees. Bit index i lives at byte i/8, bit i%8, LSB
// first.
package bitutil

import "math/bits"

// BytesForBits returns the number of bytes needed to hold n bits.
func BytesForBits(n int) int { return (n + 7) / 8 }

// BitIsSet reports whether bit i is set in buf.
func BitIsSet(buf []byte, i int) bool { return (buf[i/8] & (1 << uint(i%8))) != 0 }

// SetBit sets bit i of buf.
func SetBit(buf []byte, i int) { buf[i/8] |= 1 << uint(i%8) }

// ClearBit clears bit i of buf.
func ClearBit(buf []byte, i int) { buf[i/8] &^= 1 << uint(i%8) }

// SetBitTo sets bit i of buf to val.
func SetBitTo(buf []byte, i int, val bool) {
	if val {
		SetBit(buf, i)
	} else {
		ClearBit(buf, i)
	}
}

// CountSetBits counts the set bits in buf over the bit range
// [offset, offset+length).
func CountSetBits(buf []byte, offset, length int) int {
	if length == 0 {
		return 0
	}

	count := 0
	i := offset
	end := offset + length

	// leading partial byte
	for ; i < end && i%8 != 0; i++ {
		if BitIsSet(buf, i) {
			count++
		}
	}
	// whole bytes
	for ; i+8 <= end; i += 8 {
		count += bits.OnesCount8(buf[i/8])
	}
	// trailing partial byte
	for ; i < end; i++ {
		if BitIsSet(buf, i) {
			count++
		}
	}
	return count
}
