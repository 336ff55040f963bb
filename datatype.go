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

import "fmt"

// Type is a logical type identifier. Every DataType variant maps to exactly
// one Type.
type Type int

const (
	// NULL type having no physical storage.
	NULL Type = iota

	// BOOL is a 1 bit, LSB bit-packed ordering.
	BOOL

	// INT8 is a signed 8-bit integer.
	INT8

	// INT16 is a signed 16-bit integer.
	INT16

	// INT32 is a signed 32-bit integer.
	INT32

	// INT64 is a signed 64-bit integer.
	INT64

	// UINT8 is an unsigned 8-bit integer.
	UINT8

	// UINT16 is an unsigned 16-bit integer.
	UINT16

	// UINT32 is an unsigned 32-bit integer.
	UINT32

	// UINT64 is an unsigned 64-bit integer.
	UINT64

	// FLOAT16 is a 2-byte floating point value.
	FLOAT16

	// FLOAT32 is a 4-byte floating point value.
	FLOAT32

	// FLOAT64 is an 8-byte floating point value.
	FLOAT64

	// STRING is a UTF8 variable-length string with 32-bit offsets.
	STRING

	// LARGE_STRING is a UTF8 variable-length string with 64-bit offsets.
	LARGE_STRING

	// BINARY is a variable-length byte type with 32-bit offsets.
	BINARY

	// LARGE_BINARY is a variable-length byte type with 64-bit offsets.
	LARGE_BINARY

	// FIXED_SIZE_BINARY is a binary type where each value occupies the same
	// number of bytes.
	FIXED_SIZE_BINARY

	// DECIMAL128 is a precision- and scale-based decimal type stored as a
	// 128-bit integer.
	DECIMAL128

	// DATE32 is int32 days since the UNIX epoch.
	DATE32

	// DATE64 is int64 milliseconds since the UNIX epoch.
	DATE64

	// TIME32 is a signed 32-bit integer, representing either seconds or
	// milliseconds since midnight.
	TIME32

	// TIME64 is a signed 64-bit integer, representing either microseconds or
	// nanoseconds since midnight.
	TIME64

	// TIMESTAMP is an exact timestamp encoded as int64 since the UNIX epoch
	// in a declared unit, with an optional timezone.
	TIMESTAMP

	// DURATION is a measure of elapsed time in a declared unit.
	DURATION

	// LIST is a list of some logical data type with 32-bit offsets.
	LIST

	// LARGE_LIST is a list of some logical data type with 64-bit offsets.
	LARGE_LIST

	// FIXED_SIZE_LIST is a fixed-size list of some logical type.
	FIXED_SIZE_LIST

	// STRUCT of logical types.
	STRUCT

	// MAP is a repeated key/value struct logical type.
	MAP

	// DENSE_UNION of logical types, stored with type-id and offset buffers.
	DENSE_UNION

	// DICTIONARY aka category type: integer indices into a value array.
	DICTIONARY
)

// DataType is the representation of a logical Arrow type. For
// non-nested types the String form is the canonical call-syntax spelling
// used by the textual schema interchange format, e.g. "Int32" or
// "Timestamp(Second, None)"; nested types print a descriptive form and are
// spelled by FormatDataType in the interchange format.
type DataType interface {
	ID() Type
	// Name is the lower-case name of the data type.
	Name() string
	fmt.Stringer
}

// FixedWidthDataType is a DataType whose values require a fixed number of
// bits of storage per element.
type FixedWidthDataType interface {
	DataType
	// BitWidth returns the number of bits required to store a single element.
	BitWidth() int
}

// TimeUnit is the granularity of a temporal type.
type TimeUnit int

const (
	Second TimeUnit = iota
	Millisecond
	Microsecond
	Nanosecond
)

func (u TimeUnit) String() string {
	switch u {
	case Second:
		return "Second"
	case Millisecond:
		return "Millisecond"
	case Microsecond:
		return "Microsecond"
	case Nanosecond:
		return "Nanosecond"
	}
	return fmt.Sprintf("TimeUnit(%d)", int(u))
}

type (
	NullType        struct{}
	BooleanType     struct{}
	Int8Type        struct{}
	Int16Type       struct{}
	Int32Type       struct{}
	Int64Type       struct{}
	Uint8Type       struct{}
	Uint16Type      struct{}
	Uint32Type      struct{}
	Uint64Type      struct{}
	Float16Type     struct{}
	Float32Type     struct{}
	Float64Type     struct{}
	StringType      struct{}
	LargeStringType struct{}
	BinaryType      struct{}
	LargeBinaryType struct{}
	Date32Type      struct{}
	Date64Type      struct{}
)

func (*NullType) ID() Type       { return NULL }
func (*NullType) Name() string   { return "null" }
func (*NullType) String() string { return "Null" }

func (*BooleanType) ID() Type       { return BOOL }
func (*BooleanType) Name() string   { return "bool" }
func (*BooleanType) String() string { return "Boolean" }
func (*BooleanType) BitWidth() int  { return 1 }

func (*Int8Type) ID() Type       { return INT8 }
func (*Int8Type) Name() string   { return "int8" }
func (*Int8Type) String() string { return "Int8" }
func (*Int8Type) BitWidth() int  { return 8 }

func (*Int16Type) ID() Type       { return INT16 }
func (*Int16Type) Name() string   { return "int16" }
func (*Int16Type) String() string { return "Int16" }
func (*Int16Type) BitWidth() int  { return 16 }

func (*Int32Type) ID() Type       { return INT32 }
func (*Int32Type) Name() string   { return "int32" }
func (*Int32Type) String() string { return "Int32" }
func (*Int32Type) BitWidth() int  { return 32 }

func (*Int64Type) ID() Type       { return INT64 }
func (*Int64Type) Name() string   { return "int64" }
func (*Int64Type) String() string { return "Int64" }
func (*Int64Type) BitWidth() int  { return 64 }

func (*Uint8Type) ID() Type       { return UINT8 }
func (*Uint8Type) Name() string   { return "uint8" }
func (*Uint8Type) String() string { return "UInt8" }
func (*Uint8Type) BitWidth() int  { return 8 }

func (*Uint16Type) ID() Type       { return UINT16 }
func (*Uint16Type) Name() string   { return "uint16" }
func (*Uint16Type) String() string { return "UInt16" }
func (*Uint16Type) BitWidth() int  { return 16 }

func (*Uint32Type) ID() Type       { return UINT32 }
func (*Uint32Type) Name() string   { return "uint32" }
func (*Uint32Type) String() string { return "UInt32" }
func (*Uint32Type) BitWidth() int  { return 32 }

func (*Uint64Type) ID() Type       { return UINT64 }
func (*Uint64Type) Name() string   { return "uint64" }
func (*Uint64Type) String() string { return "UInt64" }
func (*Uint64Type) BitWidth() int  { return 64 }

func (*Float16Type) ID() Type       { return FLOAT16 }
func (*Float16Type) Name() string   { return "float16" }
func (*Float16Type) String() string { return "Float16" }
func (*Float16Type) BitWidth() int  { return 16 }

func (*Float32Type) ID() Type       { return FLOAT32 }
func (*Float32Type) Name() string   { return "float32" }
func (*Float32Type) String() string { return "Float32" }
func (*Float32Type) BitWidth() int  { return 32 }

func (*Float64Type) ID() Type       { return FLOAT64 }
func (*Float64Type) Name() string   { return "float64" }
func (*Float64Type) String() string { return "Float64" }
func (*Float64Type) BitWidth() int  { return 64 }

func (*StringType) ID() Type       { return STRING }
func (*StringType) Name() string   { return "utf8" }
func (*StringType) String() string { return "Utf8" }

func (*LargeStringType) ID() Type       { return LARGE_STRING }
func (*LargeStringType) Name() string   { return "large_utf8" }
func (*LargeStringType) String() string { return "LargeUtf8" }

func (*BinaryType) ID() Type       { return BINARY }
func (*BinaryType) Name() string   { return "binary" }
func (*BinaryType) String() string { return "Binary" }

func (*LargeBinaryType) ID() Type       { return LARGE_BINARY }
func (*LargeBinaryType) Name() string   { return "large_binary" }
func (*LargeBinaryType) String() string { return "LargeBinary" }

func (*Date32Type) ID() Type       { return DATE32 }
func (*Date32Type) Name() string   { return "date32" }
func (*Date32Type) String() string { return "Date32" }
func (*Date32Type) BitWidth() int  { return 32 }

func (*Date64Type) ID() Type       { return DATE64 }
func (*Date64Type) Name() string   { return "date64" }
func (*Date64Type) String() string { return "Date64" }
func (*Date64Type) BitWidth() int  { return 64 }

// FixedSizeBinaryType describes a binary type where each value occupies
// exactly ByteWidth bytes.
type FixedSizeBinaryType struct {
	ByteWidth int
}

func (*FixedSizeBinaryType) ID() Type      { return FIXED_SIZE_BINARY }
func (*FixedSizeBinaryType) Name() string  { return "fixed_size_binary" }
func (t *FixedSizeBinaryType) BitWidth() int { return 8 * t.ByteWidth }
func (t *FixedSizeBinaryType) String() string {
	return fmt.Sprintf("FixedSizeBinary(%d)", t.ByteWidth)
}

// Decimal128Type describes a fixed-point decimal stored as a 128-bit
// integer scaled by 10^Scale, with at most Precision significant digits.
type Decimal128Type struct {
	Precision int32
	Scale     int32
}

func (*Decimal128Type) ID() Type      { return DECIMAL128 }
func (*Decimal128Type) Name() string  { return "decimal128" }
func (*Decimal128Type) BitWidth() int { return 128 }
func (t *Decimal128Type) String() string {
	return fmt.Sprintf("Decimal128(%d,%d)", t.Precision, t.Scale)
}

// Time32Type describes time-of-day values stored as int32 in Unit, which
// must be Second or Millisecond.
type Time32Type struct {
	Unit TimeUnit
}

func (*Time32Type) ID() Type        { return TIME32 }
func (*Time32Type) Name() string    { return "time32" }
func (*Time32Type) BitWidth() int   { return 32 }
func (t *Time32Type) String() string { return fmt.Sprintf("Time32(%s)", t.Unit) }

// Time64Type describes time-of-day values stored as int64 in Unit, which
// must be Microsecond or Nanosecond.
type Time64Type struct {
	Unit TimeUnit
}

func (*Time64Type) ID() Type        { return TIME64 }
func (*Time64Type) Name() string    { return "time64" }
func (*Time64Type) BitWidth() int   { return 64 }
func (t *Time64Type) String() string { return fmt.Sprintf("Time64(%s)", t.Unit) }

// DurationType describes elapsed time stored as int64 in Unit.
type DurationType struct {
	Unit TimeUnit
}

func (*DurationType) ID() Type        { return DURATION }
func (*DurationType) Name() string    { return "duration" }
func (*DurationType) BitWidth() int   { return 64 }
func (t *DurationType) String() string { return fmt.Sprintf("Duration(%s)", t.Unit) }

// TimestampType describes instants stored as int64 since the UNIX epoch in
// Unit. TimeZone is either empty (naive timestamps) or "UTC"; no other zone
// is supported by the engine.
type TimestampType struct {
	Unit     TimeUnit
	TimeZone string
}

func (*TimestampType) ID() Type      { return TIMESTAMP }
func (*TimestampType) Name() string  { return "timestamp" }
func (*TimestampType) BitWidth() int { return 64 }
func (t *TimestampType) String() string {
	if t.TimeZone == "" {
		return fmt.Sprintf("Timestamp(%s, None)", t.Unit)
	}
	return fmt.Sprintf("Timestamp(%s, Some(%q))", t.Unit, t.TimeZone)
}

var (
	// PrimitiveTypes holds the singleton fixed-width numeric types.
	PrimitiveTypes = struct {
		Int8    DataType
		Int16   DataType
		Int32   DataType
		Int64   DataType
		Uint8   DataType
		Uint16  DataType
		Uint32  DataType
		Uint64  DataType
		Float16 DataType
		Float32 DataType
		Float64 DataType
	}{
		Int8:    &Int8Type{},
		Int16:   &Int16Type{},
		Int32:   &Int32Type{},
		Int64:   &Int64Type{},
		Uint8:   &Uint8Type{},
		Uint16:  &Uint16Type{},
		Uint32:  &Uint32Type{},
		Uint64:  &Uint64Type{},
		Float16: &Float16Type{},
		Float32: &Float32Type{},
		Float64: &Float64Type{},
	}

	// BinaryTypes holds the singleton variable-length binary types.
	BinaryTypes = struct {
		String      DataType
		LargeString DataType
		Binary      DataType
		LargeBinary DataType
	}{
		String:      &StringType{},
		LargeString: &LargeStringType{},
		Binary:      &BinaryType{},
		LargeBinary: &LargeBinaryType{},
	}

	// FixedWidthTypes holds the remaining singleton fixed-width types.
	FixedWidthTypes = struct {
		Boolean DataType
		Date32  DataType
		Date64  DataType
	}{
		Boolean: &BooleanType{},
		Date32:  &Date32Type{},
		Date64:  &Date64Type{},
	}

	// NullDataType is the singleton null type.
	NullDataType DataType = &NullType{}
)

var (
	_ FixedWidthDataType = (*BooleanType)(nil)
	_ FixedWidthDataType = (*Int64Type)(nil)
	_ FixedWidthDataType = (*TimestampType)(nil)
	_ FixedWidthDataType = (*Decimal128Type)(nil)
)
