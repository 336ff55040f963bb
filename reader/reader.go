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

// Package reader implements the pull-based deserialization engine: a tree
// of read-only views mirroring a schema, validated once at construction and
// then served row by row.
//
// Layout problems (non-monotonic offsets, out-of-range union or dictionary
// indices, a null row spanning child values) fail when the tree is built,
// never lazily during reads, so a caller cannot observe a partially garbled
// record. Per-row failures are value problems only and carry the field's
// dotted path.
//
// Readers borrow immutable buffers; any number may be constructed over the
// same underlying memory concurrently.
package reader

import (
	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/internal/bitutil"
)

// Reader is the pull-based value-production protocol shared by all view
// readers. Getters of the wrong kind for the column return an
// ErrShapeMismatch error; getters of the right kind on malformed values
// return an ErrValue error. Callers check IsValid before a getter; reading
// a null row through a getter is a value error.
//
// Structural readers expose additional methods behind type assertions (see
// List, Struct, Map, Union, Dictionary readers).
type Reader interface {
	DataType() serdearrow.DataType
	Len() int
	// IsValid reports whether the row holds a value.
	IsValid(row int) bool

	Bool(row int) (bool, error)
	Int(row int) (int64, error)
	Uint(row int) (uint64, error)
	Float(row int) (float64, error)
	Str(row int) (string, error)
	Bytes(row int) ([]byte, error)
}

// New builds a validated reader tree over a single field's view. The view's
// type must match the field's declared type.
func New(field serdearrow.Field, view serdearrow.View) (Reader, error) {
	r, err := newReader(field, view)
	if err != nil {
		return nil, serdearrow.WithPath(err, field.Name)
	}
	return r, nil
}

func newReader(field serdearrow.Field, view serdearrow.View) (Reader, error) {
	if view.DataType().ID() != field.Type.ID() {
		return nil, serdearrow.LayoutErrorf(field.Type,
			"field declares %s but the view holds %s", field.Type, view.DataType())
	}
	switch v := view.(type) {
	case *serdearrow.NullView:
		return &nullReader{base: newBase(field, v.N)}, nil
	case *serdearrow.BooleanView:
		if err := checkBitmap(field.Type, "values", v.Values.Bytes, v.Values.Offset, v.N); err != nil {
			return nil, err
		}
		if err := checkValidity(field.Type, v.Validity, v.N); err != nil {
			return nil, err
		}
		return &booleanReader{
			base:   newValidityBase(field, v.N, v.Validity),
			values: v.Values,
		}, nil

	case *serdearrow.PrimitiveView[int8]:
		return newPrimitiveReader(field, v)
	case *serdearrow.PrimitiveView[int16]:
		return newPrimitiveReader(field, v)
	case *serdearrow.PrimitiveView[int32]:
		return newTemporal32Reader(field, v)
	case *serdearrow.PrimitiveView[int64]:
		return newTemporal64Reader(field, v)
	case *serdearrow.PrimitiveView[uint8]:
		return newPrimitiveReader(field, v)
	case *serdearrow.PrimitiveView[uint16]:
		return newPrimitiveReader(field, v)
	case *serdearrow.PrimitiveView[uint32]:
		return newPrimitiveReader(field, v)
	case *serdearrow.PrimitiveView[uint64]:
		return newPrimitiveReader(field, v)
	case *serdearrow.PrimitiveView[float32]:
		return newPrimitiveReader(field, v)
	case *serdearrow.PrimitiveView[float64]:
		return newPrimitiveReader(field, v)
	case *serdearrow.Float16View:
		if err := checkValidity(field.Type, v.Validity, v.Len()); err != nil {
			return nil, err
		}
		return &float16Reader{
			base:   newValidityBase(field, v.Len(), v.Validity),
			values: v.Values,
		}, nil
	case *serdearrow.Decimal128View:
		return newDecimalReader(field, v)

	case *serdearrow.StringView[int32]:
		return newStringReader(field, v.Offsets, v.Data, v.Validity)
	case *serdearrow.StringView[int64]:
		return newStringReader(field, v.Offsets, v.Data, v.Validity)
	case *serdearrow.BinaryView[int32]:
		return newBinaryReader(field, v.Offsets, v.Data, v.Validity)
	case *serdearrow.BinaryView[int64]:
		return newBinaryReader(field, v.Offsets, v.Data, v.Validity)
	case *serdearrow.FixedSizeBinaryView:
		return newFixedSizeBinaryReader(field, v)

	case *serdearrow.ListView[int32]:
		return newListReader(field, v.ElemMeta, v.Elem, v.Offsets, v.Validity)
	case *serdearrow.ListView[int64]:
		return newListReader(field, v.ElemMeta, v.Elem, v.Offsets, v.Validity)
	case *serdearrow.FixedSizeListView:
		return newFixedSizeListReader(field, v)
	case *serdearrow.StructView:
		return newStructReader(field, v)
	case *serdearrow.MapView:
		return newMapReader(field, v)
	case *serdearrow.DenseUnionView:
		return newUnionReader(field, v)
	case *serdearrow.DictionaryView:
		return newDictionaryReader(field, v)
	}
	return nil, serdearrow.LayoutErrorf(field.Type, "unsupported view %s", view.DataType())
}

// base carries the per-reader validity handling shared by all variants,
// plus shape-mismatch defaults for every getter.
type base struct {
	field    serdearrow.Field
	length   int
	validity *serdearrow.Bitmap
}

func newBase(field serdearrow.Field, length int) base {
	return base{field: field, length: length}
}

func newValidityBase(field serdearrow.Field, length int, validity *serdearrow.Bitmap) base {
	return base{field: field, length: length, validity: validity}
}

func (r *base) DataType() serdearrow.DataType { return r.field.Type }
func (r *base) Len() int                      { return r.length }

func (r *base) IsValid(row int) bool {
	if r.validity == nil {
		return row >= 0 && row < r.length
	}
	return r.validity.IsSet(row)
}

// checkRow guards a getter: the row must be in range and hold a value.
func (r *base) checkRow(row int) error {
	if row < 0 || row >= r.length {
		return serdearrow.ValueErrorf(r.field.Type, "row %d out of range [0, %d)", row, r.length)
	}
	if !r.IsValid(row) {
		return serdearrow.ValueErrorf(r.field.Type, "row %d is null", row)
	}
	return nil
}

func (r *base) shapeError(want string) error {
	return serdearrow.ShapeErrorf(r.field.Type,
		"cannot read %s from a %s column", want, r.field.Type.Name())
}

func (r *base) Bool(int) (bool, error)      { return false, r.shapeError("a boolean") }
func (r *base) Int(int) (int64, error)      { return 0, r.shapeError("an integer") }
func (r *base) Uint(int) (uint64, error)    { return 0, r.shapeError("an unsigned integer") }
func (r *base) Float(int) (float64, error)  { return 0, r.shapeError("a float") }
func (r *base) Str(int) (string, error)     { return "", r.shapeError("a string") }
func (r *base) Bytes(int) ([]byte, error)   { return nil, r.shapeError("bytes") }

// checkValidity rejects validity bitmaps too short for the row count.
func checkValidity(dt serdearrow.DataType, validity *serdearrow.Bitmap, n int) error {
	if validity == nil {
		return nil
	}
	return checkBitmap(dt, "validity", validity.Bytes, validity.Offset, n)
}

func checkBitmap(dt serdearrow.DataType, what string, bytes []byte, offset, n int) error {
	if need := bitutil.BytesForBits(offset + n); len(bytes) < need {
		return serdearrow.LayoutErrorf(dt,
			"%s bitmap holds %d bytes, %d rows need %d", what, len(bytes), n, need)
	}
	return nil
}

// checkOffsets validates a variable-length offset buffer: one entry per row
// plus the leading entry, non-decreasing, within the child's bounds, and a
// zero-length span on every null row. Returns the buffer's logical row
// count.
func checkOffsets[O serdearrow.OffsetType](dt serdearrow.DataType, offsets []O, childLen int, validity *serdearrow.Bitmap) (int, error) {
	if len(offsets) == 0 {
		return 0, serdearrow.LayoutErrorf(dt, "offset buffer is empty, need at least the leading entry")
	}
	n := len(offsets) - 1
	if offsets[0] < 0 {
		return 0, serdearrow.LayoutErrorf(dt, "offset buffer starts at %d", offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return 0, serdearrow.LayoutErrorf(dt,
				"offsets decrease at row %d: %d -> %d", i-1, offsets[i-1], offsets[i])
		}
	}
	if int64(offsets[n]) > int64(childLen) {
		return 0, serdearrow.LayoutErrorf(dt,
			"final offset %d exceeds the child length %d", offsets[n], childLen)
	}
	if err := checkValidity(dt, validity, n); err != nil {
		return 0, err
	}
	if validity != nil {
		for i := 0; i < n; i++ {
			if !validity.IsSet(i) && offsets[i] != offsets[i+1] {
				return 0, serdearrow.LayoutErrorf(dt,
					"null row %d spans %d child values", i, offsets[i+1]-offsets[i])
			}
		}
	}
	return n, nil
}
