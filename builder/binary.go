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
	"strconv"
	"unicode/utf8"

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// stringBuilder backs Utf8 and LargeUtf8 columns. Non-string scalars are
// stored via their canonical textual representation, which is how the
// engine serves "serialize as string" schema requests without a separate
// code path.
type stringBuilder[O serdearrow.OffsetType] struct {
	base
	offsets offsetsBuilder[O]
	data    []byte
}

func (b *stringBuilder[O]) PushString(v string) error {
	b.data = append(b.data, v...)
	b.offsets.AppendDelta(len(v))
	b.appendValid()
	return nil
}

func (b *stringBuilder[O]) PushBytes(v []byte) error {
	if !utf8.Valid(v) {
		return serdearrow.ValueErrorf(b.field.Type, "invalid UTF-8 bytes")
	}
	b.data = append(b.data, v...)
	b.offsets.AppendDelta(len(v))
	b.appendValid()
	return nil
}

func (b *stringBuilder[O]) PushBool(v bool) error {
	return b.PushString(strconv.FormatBool(v))
}

func (b *stringBuilder[O]) PushInt(v int64) error {
	b.data = strconv.AppendInt(b.data, v, 10)
	b.offsets.AppendEnd(len(b.data))
	b.appendValid()
	return nil
}

func (b *stringBuilder[O]) PushUint(v uint64) error {
	b.data = strconv.AppendUint(b.data, v, 10)
	b.offsets.AppendEnd(len(b.data))
	b.appendValid()
	return nil
}

func (b *stringBuilder[O]) PushFloat(v float64) error {
	b.data = strconv.AppendFloat(b.data, v, 'g', -1, 64)
	b.offsets.AppendEnd(len(b.data))
	b.appendValid()
	return nil
}

func (b *stringBuilder[O]) PushNull() error {
	if err := b.appendNull(); err != nil {
		return err
	}
	b.offsets.AppendDelta(0)
	return nil
}

func (b *stringBuilder[O]) PushDefault() error {
	b.offsets.AppendDelta(0)
	b.appendDefault()
	return nil
}

func (b *stringBuilder[O]) NewArray() serdearrow.Array {
	data := b.data
	b.data = nil
	return &serdearrow.StringArray[O]{
		Offsets:  b.offsets.detach(),
		Data:     data,
		Validity: b.finish(),
	}
}

// binaryBuilder backs Binary and LargeBinary columns.
type binaryBuilder[O serdearrow.OffsetType] struct {
	base
	offsets offsetsBuilder[O]
	data    []byte
}

func (b *binaryBuilder[O]) PushBytes(v []byte) error {
	b.data = append(b.data, v...)
	b.offsets.AppendDelta(len(v))
	b.appendValid()
	return nil
}

func (b *binaryBuilder[O]) PushString(v string) error {
	b.data = append(b.data, v...)
	b.offsets.AppendDelta(len(v))
	b.appendValid()
	return nil
}

func (b *binaryBuilder[O]) PushNull() error {
	if err := b.appendNull(); err != nil {
		return err
	}
	b.offsets.AppendDelta(0)
	return nil
}

func (b *binaryBuilder[O]) PushDefault() error {
	b.offsets.AppendDelta(0)
	b.appendDefault()
	return nil
}

func (b *binaryBuilder[O]) NewArray() serdearrow.Array {
	data := b.data
	b.data = nil
	return &serdearrow.BinaryArray[O]{
		Offsets:  b.offsets.detach(),
		Data:     data,
		Validity: b.finish(),
	}
}

// fixedSizeBinaryBuilder backs FixedSizeBinary columns: every row stores
// exactly width bytes.
type fixedSizeBinaryBuilder struct {
	base
	width int
	data  []byte
}

func (b *fixedSizeBinaryBuilder) PushBytes(v []byte) error {
	if len(v) != b.width {
		return serdearrow.ValueErrorf(b.field.Type, "expected %d bytes, got %d", b.width, len(v))
	}
	b.data = append(b.data, v...)
	b.appendValid()
	return nil
}

func (b *fixedSizeBinaryBuilder) PushString(v string) error {
	if len(v) != b.width {
		return serdearrow.ValueErrorf(b.field.Type, "expected %d bytes, got %d", b.width, len(v))
	}
	b.data = append(b.data, v...)
	b.appendValid()
	return nil
}

func (b *fixedSizeBinaryBuilder) PushNull() error {
	if err := b.appendNull(); err != nil {
		return err
	}
	b.data = append(b.data, make([]byte, b.width)...)
	return nil
}

func (b *fixedSizeBinaryBuilder) PushDefault() error {
	b.data = append(b.data, make([]byte, b.width)...)
	b.appendDefault()
	return nil
}

func (b *fixedSizeBinaryBuilder) NewArray() serdearrow.Array {
	data := b.data
	b.data = nil
	return &serdearrow.FixedSizeBinaryArray{
		ByteWidth: b.width,
		Data:      data,
		Validity:  b.finish(),
	}
}

var (
	_ Builder = (*stringBuilder[int32])(nil)
	_ Builder = (*binaryBuilder[int64])(nil)
	_ Builder = (*fixedSizeBinaryBuilder)(nil)
)
