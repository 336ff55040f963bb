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

package reader

import (
	"unicode/utf8"

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// stringReader serves Utf8 and LargeUtf8 columns. Byte getters borrow the
// underlying buffer directly; no copy is made.
type stringReader[O serdearrow.OffsetType] struct {
	base
	offsets []O
	data    []byte
}

func newStringReader[O serdearrow.OffsetType](field serdearrow.Field, offsets []O, data []byte, validity *serdearrow.Bitmap) (*stringReader[O], error) {
	n, err := checkOffsets(field.Type, offsets, len(data), validity)
	if err != nil {
		return nil, err
	}
	return &stringReader[O]{
		base:    newValidityBase(field, n, validity),
		offsets: offsets,
		data:    data,
	}, nil
}

func (r *stringReader[O]) span(row int) ([]byte, error) {
	if err := r.checkRow(row); err != nil {
		return nil, err
	}
	return r.data[r.offsets[row]:r.offsets[row+1]], nil
}

func (r *stringReader[O]) Str(row int) (string, error) {
	buf, err := r.span(row)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", serdearrow.ValueErrorf(r.field.Type, "row %d holds invalid UTF-8", row)
	}
	return string(buf), nil
}

func (r *stringReader[O]) Bytes(row int) ([]byte, error) {
	return r.span(row)
}

// Enum matches the row's string against a declared tag set and returns the
// matching tag's index. This serves unit-variant decoding for callers that
// expect an enum backed by a string column.
func (r *stringReader[O]) Enum(row int, tags []string) (int, error) {
	s, err := r.Str(row)
	if err != nil {
		return 0, err
	}
	for i, tag := range tags {
		if s == tag {
			return i, nil
		}
	}
	return 0, serdearrow.ValueErrorf(r.field.Type, "row %d holds %q, not one of the declared variants", row, s)
}

// binaryReader serves Binary and LargeBinary columns.
type binaryReader[O serdearrow.OffsetType] struct {
	base
	offsets []O
	data    []byte
}

func newBinaryReader[O serdearrow.OffsetType](field serdearrow.Field, offsets []O, data []byte, validity *serdearrow.Bitmap) (*binaryReader[O], error) {
	n, err := checkOffsets(field.Type, offsets, len(data), validity)
	if err != nil {
		return nil, err
	}
	return &binaryReader[O]{
		base:    newValidityBase(field, n, validity),
		offsets: offsets,
		data:    data,
	}, nil
}

func (r *binaryReader[O]) Bytes(row int) ([]byte, error) {
	if err := r.checkRow(row); err != nil {
		return nil, err
	}
	return r.data[r.offsets[row]:r.offsets[row+1]], nil
}

type fixedSizeBinaryReader struct {
	base
	width int
	data  []byte
}

func newFixedSizeBinaryReader(field serdearrow.Field, v *serdearrow.FixedSizeBinaryView) (*fixedSizeBinaryReader, error) {
	if v.ByteWidth <= 0 {
		return nil, serdearrow.LayoutErrorf(field.Type, "invalid byte width %d", v.ByteWidth)
	}
	if len(v.Data)%v.ByteWidth != 0 {
		return nil, serdearrow.LayoutErrorf(field.Type,
			"data length %d is not a multiple of the byte width %d", len(v.Data), v.ByteWidth)
	}
	n := len(v.Data) / v.ByteWidth
	if err := checkValidity(field.Type, v.Validity, n); err != nil {
		return nil, err
	}
	return &fixedSizeBinaryReader{
		base:  newValidityBase(field, n, v.Validity),
		width: v.ByteWidth,
		data:  v.Data,
	}, nil
}

func (r *fixedSizeBinaryReader) Bytes(row int) ([]byte, error) {
	if err := r.checkRow(row); err != nil {
		return nil, err
	}
	return r.data[row*r.width : (row+1)*r.width], nil
}
