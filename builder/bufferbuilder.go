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

package builder

import (
	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/internal/bitutil"
)

// bitmapBuilder accumulates a bit-packed boolean buffer, one bit per
// appended value, LSB first. The backing byte slice doubles on overflow.
type bitmapBuilder struct {
	bytes    []byte
	length   int
	setCount int
}

func (b *bitmapBuilder) Append(v bool) {
	if b.length == 8*len(b.bytes) {
		n := len(b.bytes) * 2
		if n == 0 {
			n = 8
		}
		grown := make([]byte, n)
		copy(grown, b.bytes)
		b.bytes = grown
	}
	if v {
		bitutil.SetBit(b.bytes, b.length)
		b.setCount++
	}
	b.length++
}

func (b *bitmapBuilder) Len() int { return b.length }

// detach returns the packed bytes trimmed to the appended length and resets
// the builder.
func (b *bitmapBuilder) detach() []byte {
	bytes := b.bytes[:bitutil.BytesForBits(b.length)]
	*b = bitmapBuilder{}
	return bytes
}

// offsetsBuilder accumulates a monotonic offset buffer with an implicit
// leading zero. Every row pushes one entry holding the new cumulative end.
type offsetsBuilder[O serdearrow.OffsetType] struct {
	offsets []O
}

// AppendDelta appends lastOffset+delta.
func (b *offsetsBuilder[O]) AppendDelta(delta int) {
	b.ensure()
	b.offsets = append(b.offsets, b.offsets[len(b.offsets)-1]+O(delta))
}

// AppendEnd appends the cumulative end offset directly. Used by list-shaped
// builders, whose end offset is the child's current row count.
func (b *offsetsBuilder[O]) AppendEnd(end int) {
	b.ensure()
	b.offsets = append(b.offsets, O(end))
}

// Len reports the number of entries, the implicit leading zero included.
func (b *offsetsBuilder[O]) Len() int {
	if b.offsets == nil {
		return 1
	}
	return len(b.offsets)
}

func (b *offsetsBuilder[O]) ensure() {
	if b.offsets == nil {
		b.offsets = make([]O, 1, 16)
	}
}

// detach returns the offsets, including the leading zero, and resets the
// builder.
func (b *offsetsBuilder[O]) detach() []O {
	b.ensure()
	offsets := b.offsets
	b.offsets = nil
	return offsets
}
