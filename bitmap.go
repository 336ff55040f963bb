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

package serdearrow

import "github.com/chmp/serde-arrow-sub003/internal/bitutil"

// Bitmap is a bit-packed boolean buffer with its own bit offset, so a
// sliced or offset array can be described without copying. A nil *Bitmap
// used as a validity bitmap means every row is valid.
type Bitmap struct {
	Bytes []byte
	// Offset is the bit position of row 0 within Bytes.
	Offset int
}

// IsSet reports whether bit i is set. A nil bitmap reports true for every
// index.
func (b *Bitmap) IsSet(i int) bool {
	if b == nil {
		return true
	}
	return bitutil.BitIsSet(b.Bytes, b.Offset+i)
}

// SetCount counts the set bits among the first n.
func (b *Bitmap) SetCount(n int) int {
	if b == nil {
		return n
	}
	return bitutil.CountSetBits(b.Bytes, b.Offset, n)
}
