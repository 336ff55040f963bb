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

// Package builder implements the push-based serialization engine: a tree of
// mutable builders mirroring a schema, consuming structural events and
// accumulating Arrow-compliant buffers.
//
// Every builder variant keeps the row-alignment invariant: after N rows
// (values + nulls + defaults), every row-indexed buffer has length exactly
// N. Pushing a null into a nested builder still advances all descendants by
// one logical row.
//
// A builder is exclusively owned by its parent, or by the caller at the
// root. There is no internal locking; independent trees scale out across
// goroutines.
package builder

import (
	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/internal/debug"
)

// Builder is the push-based value-consumption protocol shared by all
// builder variants. Scalar pushes that do not fit the variant's kind return
// an ErrShapeMismatch error; pushes of the right kind but an unrepresentable
// value return an ErrValue error. After any error the in-progress row is
// inconsistent and the tree must be discarded, not flushed.
//
// Structural builders expose additional methods; callers reach them by
// asserting the concrete type (see List, Struct, Map, Union, Dictionary).
type Builder interface {
	DataType() serdearrow.DataType
	// Len returns the number of logical rows pushed since the last flush.
	Len() int

	// PushNull appends a null row. It fails on a non-nullable field.
	PushNull() error
	// PushDefault appends a zero/empty placeholder row. It is used only
	// when an ancestor was null and therefore succeeds even on
	// non-nullable fields.
	PushDefault() error

	PushBool(v bool) error
	PushInt(v int64) error
	PushUint(v uint64) error
	PushFloat(v float64) error
	PushString(v string) error
	PushBytes(v []byte) error

	// NewArray detaches the accumulated buffers as an immutable Array and
	// resets the builder to length zero, keeping the tree shape.
	NewArray() serdearrow.Array
}

// config carries tree-level build options down the constructor recursion.
type config struct {
	truncateDecimals bool
}

// New returns a builder tree node for a single field.
func New(field serdearrow.Field, opts ...Option) (Builder, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newBuilder(field, cfg)
}

// Option configures builder construction.
type Option func(*config)

// WithDecimalTruncate makes decimal builders silently discard fractional
// digits beyond the declared scale instead of failing.
func WithDecimalTruncate() Option {
	return func(cfg *config) { cfg.truncateDecimals = true }
}

func newBuilder(field serdearrow.Field, cfg config) (Builder, error) {
	if field.Strategy == serdearrow.UnknownVariant {
		return &unknownBuilder{base: newBase(field)}, nil
	}

	switch dt := field.Type.(type) {
	case *serdearrow.NullType:
		return &nullBuilder{base: newBase(field)}, nil
	case *serdearrow.BooleanType:
		return &booleanBuilder{base: newBase(field)}, nil

	case *serdearrow.Int8Type:
		return newNumericBuilder[int8](field), nil
	case *serdearrow.Int16Type:
		return newNumericBuilder[int16](field), nil
	case *serdearrow.Int32Type:
		return newNumericBuilder[int32](field), nil
	case *serdearrow.Int64Type:
		return newNumericBuilder[int64](field), nil
	case *serdearrow.Uint8Type:
		return newNumericBuilder[uint8](field), nil
	case *serdearrow.Uint16Type:
		return newNumericBuilder[uint16](field), nil
	case *serdearrow.Uint32Type:
		return newNumericBuilder[uint32](field), nil
	case *serdearrow.Uint64Type:
		return newNumericBuilder[uint64](field), nil
	case *serdearrow.Float16Type:
		return &float16Builder{base: newBase(field)}, nil
	case *serdearrow.Float32Type:
		return newNumericBuilder[float32](field), nil
	case *serdearrow.Float64Type:
		return newNumericBuilder[float64](field), nil

	case *serdearrow.StringType:
		return &stringBuilder[int32]{base: newBase(field)}, nil
	case *serdearrow.LargeStringType:
		return &stringBuilder[int64]{base: newBase(field)}, nil
	case *serdearrow.BinaryType:
		return &binaryBuilder[int32]{base: newBase(field)}, nil
	case *serdearrow.LargeBinaryType:
		return &binaryBuilder[int64]{base: newBase(field)}, nil
	case *serdearrow.FixedSizeBinaryType:
		if dt.ByteWidth <= 0 {
			return nil, serdearrow.SchemaErrorf("invalid fixed size binary width %d", dt.ByteWidth)
		}
		return &fixedSizeBinaryBuilder{base: newBase(field), width: dt.ByteWidth}, nil

	case *serdearrow.Decimal128Type:
		return newDecimalBuilder(field, dt, cfg.truncateDecimals)
	case *serdearrow.Date32Type:
		return &date32Builder{numericBuilder: *newNumericBuilder[int32](field)}, nil
	case *serdearrow.Date64Type:
		return newDate64Builder(field), nil
	case *serdearrow.Time32Type:
		return newTime32Builder(field, dt)
	case *serdearrow.Time64Type:
		return newTime64Builder(field, dt)
	case *serdearrow.DurationType:
		return &durationBuilder{numericBuilder: *newNumericBuilder[int64](field)}, nil
	case *serdearrow.TimestampType:
		return newTimestampBuilder(field, dt)

	case *serdearrow.ListType:
		return newListBuilder[int32](field, dt.ElemField(), cfg)
	case *serdearrow.LargeListType:
		return newListBuilder[int64](field, dt.ElemField(), cfg)
	case *serdearrow.FixedSizeListType:
		return newFixedSizeListBuilder(field, dt, cfg)
	case *serdearrow.StructType:
		return newStructBuilder(field, dt, cfg)
	case *serdearrow.MapType:
		return newMapBuilder(field, dt, cfg)
	case *serdearrow.UnionType:
		return newUnionBuilder(field, dt, cfg)
	case *serdearrow.DictionaryType:
		return newDictionaryBuilder(field, dt, cfg)
	}
	return nil, serdearrow.SchemaErrorf("unsupported data type %s", field.Type)
}

// base carries the state shared by all builder variants: the field, the row
// count and the validity bitmap (only populated for nullable fields). Its
// scalar push methods reject with a shape mismatch; variants override the
// pushes they accept.
type base struct {
	field serdearrow.Field

	length   int
	nulls    int
	validity bitmapBuilder
}

func newBase(field serdearrow.Field) base {
	return base{field: field}
}

func (b *base) DataType() serdearrow.DataType { return b.field.Type }
func (b *base) Len() int                      { return b.length }

// appendValid advances the row count for a present value.
func (b *base) appendValid() {
	if b.field.Nullable {
		b.validity.Append(true)
	}
	b.length++
}

// appendNull advances the row count for a null, failing on a non-nullable
// field.
func (b *base) appendNull() error {
	if !b.field.Nullable {
		return serdearrow.ValueErrorf(b.field.Type, "null value for non-nullable field")
	}
	b.validity.Append(false)
	b.nulls++
	b.length++
	return nil
}

// appendDefault advances the row count for a placeholder row pushed under a
// null ancestor. Placeholder rows on nullable fields are stored as nulls.
func (b *base) appendDefault() {
	if b.field.Nullable {
		b.validity.Append(false)
		b.nulls++
	}
	b.length++
}

// finish detaches the validity bitmap (nil when no nulls were seen) and
// resets the shared row state for the next batch.
func (b *base) finish() *serdearrow.Bitmap {
	var bm *serdearrow.Bitmap
	if b.field.Nullable && b.nulls > 0 {
		debug.Assert(b.validity.Len() == b.length, "validity bitmap out of step with the row count")
		bm = &serdearrow.Bitmap{Bytes: b.validity.detach()}
	} else {
		b.validity = bitmapBuilder{}
	}
	b.length, b.nulls = 0, 0
	return bm
}

func (b *base) shapeError(got string) error {
	return serdearrow.ShapeErrorf(b.field.Type, "cannot store %s in a %s column", got, b.field.Type.Name())
}

func (b *base) PushBool(bool) error       { return b.shapeError("a boolean") }
func (b *base) PushInt(int64) error       { return b.shapeError("an integer") }
func (b *base) PushUint(uint64) error     { return b.shapeError("an unsigned integer") }
func (b *base) PushFloat(float64) error   { return b.shapeError("a float") }
func (b *base) PushString(string) error   { return b.shapeError("a string") }
func (b *base) PushBytes([]byte) error    { return b.shapeError("bytes") }

// nullBuilder backs DataType Null: no physical storage, every row is null.
type nullBuilder struct {
	base
}

func (b *nullBuilder) PushNull() error {
	b.length++
	return nil
}

func (b *nullBuilder) PushDefault() error {
	b.length++
	return nil
}

func (b *nullBuilder) NewArray() serdearrow.Array {
	n := b.length
	b.length = 0
	return &serdearrow.NullArray{N: n}
}

// unknownBuilder backs fields tagged UnknownVariant: the tracer could not
// determine a type, so any value reaching the field is an error. Only
// placeholder rows under a null ancestor pass.
type unknownBuilder struct {
	base
}

func (b *unknownBuilder) PushNull() error {
	return serdearrow.ValueErrorf(b.field.Type, "cannot push to a field with unknown type")
}

func (b *unknownBuilder) PushDefault() error {
	b.length++
	return nil
}

func (b *unknownBuilder) NewArray() serdearrow.Array {
	n := b.length
	b.length = 0
	return &serdearrow.NullArray{N: n}
}
