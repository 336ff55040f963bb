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

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDataType(t *testing.T) {
	tests := []struct {
		dt   DataType
		want string
	}{
		{NullDataType, "Null"},
		{FixedWidthTypes.Boolean, "Boolean"},
		{PrimitiveTypes.Int8, "Int8"},
		{PrimitiveTypes.Uint32, "UInt32"},
		{PrimitiveTypes.Float16, "Float16"},
		{PrimitiveTypes.Float64, "Float64"},
		{BinaryTypes.String, "Utf8"},
		{BinaryTypes.LargeString, "LargeUtf8"},
		{BinaryTypes.Binary, "Binary"},
		{&FixedSizeBinaryType{ByteWidth: 16}, "FixedSizeBinary(16)"},
		{&Decimal128Type{Precision: 5, Scale: 2}, "Decimal128(5,2)"},
		{FixedWidthTypes.Date32, "Date32"},
		{&Time64Type{Unit: Nanosecond}, "Time64(Nanosecond)"},
		{&DurationType{Unit: Second}, "Duration(Second)"},
		{&TimestampType{Unit: Millisecond}, "Timestamp(Millisecond, None)"},
		{&TimestampType{Unit: Millisecond, TimeZone: "UTC"}, `Timestamp(Millisecond, Some("UTC"))`},
		{ListOf(PrimitiveTypes.Int32), "List"},
		{FixedSizeListOf(6, PrimitiveTypes.Float32), "FixedSizeList(6)"},
		{StructOf(), "Struct"},
		{&DictionaryType{IndexType: PrimitiveTypes.Uint32, ValueType: BinaryTypes.String},
			"Dictionary(UInt32, Utf8)"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatDataType(tc.dt))
	}
}

func TestParseDataType(t *testing.T) {
	tests := []struct {
		s        string
		children []Field
		want     DataType
	}{
		{"Null", nil, NullDataType},
		{"Bool", nil, FixedWidthTypes.Boolean},
		{"UInt16", nil, PrimitiveTypes.Uint16},
		{"Utf8", nil, BinaryTypes.String},
		{"String", nil, BinaryTypes.String},
		{"FixedSizeBinary(16)", nil, &FixedSizeBinaryType{ByteWidth: 16}},
		{"Decimal128(5, 2)", nil, &Decimal128Type{Precision: 5, Scale: 2}},
		{"Time32(Millisecond)", nil, &Time32Type{Unit: Millisecond}},
		{"Timestamp(Second, None)", nil, &TimestampType{Unit: Second}},
		{`Timestamp(Millisecond, Some("UTC"))`, nil,
			&TimestampType{Unit: Millisecond, TimeZone: "UTC"}},
		{`Timestamp(Nanosecond, "UTC")`, nil,
			&TimestampType{Unit: Nanosecond, TimeZone: "UTC"}},
		{"List", []Field{{Name: "element", Type: PrimitiveTypes.Int64}},
			ListOfField(Field{Name: "element", Type: PrimitiveTypes.Int64})},
		{"FixedSizeList(6)", []Field{{Name: "element", Type: PrimitiveTypes.Float32}},
			FixedSizeListOfField(6, Field{Name: "element", Type: PrimitiveTypes.Float32})},
		{"Dictionary(UInt32, LargeUtf8)", nil,
			&DictionaryType{IndexType: PrimitiveTypes.Uint32, ValueType: BinaryTypes.LargeString}},
	}
	for _, tc := range tests {
		t.Run(tc.s, func(t *testing.T) {
			got, err := ParseDataType(tc.s, tc.children)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDataTypeErrors(t *testing.T) {
	tests := []string{
		"Frob",
		"Int32(4)",
		"Decimal128(5)",
		"Timestamp(Millisecond)",
		"Timestamp(Fortnight, None)",
		"List(3",
		"FixedSizeList(x)",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			_, err := ParseDataType(s, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchema)
		})
	}

	// List without its element child.
	_, err := ParseDataType("List", nil)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestFieldJSONRoundTrip(t *testing.T) {
	fields := []Field{
		{Name: "id", Type: PrimitiveTypes.Uint64},
		{Name: "name", Type: BinaryTypes.String, Nullable: true},
		{Name: "price", Type: &Decimal128Type{Precision: 5, Scale: 2}},
		{Name: "when", Type: &TimestampType{Unit: Millisecond, TimeZone: "UTC"}},
		{Name: "date", Type: FixedWidthTypes.Date64, Strategy: UtcStrAsDate64},
		{Name: "vec", Type: FixedSizeListOfField(6, Field{Name: "element", Type: PrimitiveTypes.Float32})},
		{
			Name: "point",
			Type: StructOf(
				Field{Name: "x", Type: PrimitiveTypes.Float64},
				Field{Name: "y", Type: PrimitiveTypes.Float64, Nullable: true},
			),
		},
		{
			Name: "tags",
			Type: MapOfFields(
				Field{Name: "key", Type: BinaryTypes.String},
				Field{Name: "value", Type: PrimitiveTypes.Int64, Nullable: true},
			),
		},
		{
			Name: "value",
			Type: UnionOf(
				Field{Name: "Int", Type: PrimitiveTypes.Int64},
				Field{Name: "Str", Type: BinaryTypes.String},
			),
		},
		{
			Name: "code",
			Type: &DictionaryType{IndexType: PrimitiveTypes.Uint32, ValueType: BinaryTypes.String},
		},
		{Name: "extra", Type: PrimitiveTypes.Int32, Metadata: map[string]string{"unit": "s"}},
	}
	for _, f := range fields {
		t.Run(f.Name, func(t *testing.T) {
			data, err := json.Marshal(f)
			require.NoError(t, err)
			var got Field
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, f, got)
		})
	}
}

func TestFieldJSONParse(t *testing.T) {
	// The interchange form as foreign tools emit it.
	raw := `{
		"name": "item",
		"data_type": "List",
		"nullable": true,
		"children": [
			{"name": "element", "data_type": "Struct", "children": [
				{"name": "a", "data_type": "UInt8"},
				{"name": "b", "data_type": "Timestamp(Millisecond, Some(\"UTC\"))"}
			]}
		]
	}`
	var f Field
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	assert.Equal(t, "item", f.Name)
	assert.True(t, f.Nullable)

	lt, ok := f.Type.(*ListType)
	require.True(t, ok)
	st, ok := lt.Elem().(*StructType)
	require.True(t, ok)
	require.Equal(t, 2, st.NumFields())
	assert.Equal(t, PrimitiveTypes.Uint8, st.Field(0).Type)
	assert.Equal(t, &TimestampType{Unit: Millisecond, TimeZone: "UTC"}, st.Field(1).Type)
}

func TestSchemaValidate(t *testing.T) {
	valid := Schema{
		{Name: "a", Type: PrimitiveTypes.Int64},
		{Name: "b", Type: StructOf(
			Field{Name: "x", Type: BinaryTypes.String},
			Field{Name: "y", Type: BinaryTypes.String},
		)},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		schema Schema
	}{
		{
			"duplicate top-level name",
			Schema{{Name: "a", Type: PrimitiveTypes.Int64}, {Name: "a", Type: BinaryTypes.String}},
		},
		{
			"duplicate struct field name",
			Schema{{Name: "s", Type: StructOf(
				Field{Name: "x", Type: PrimitiveTypes.Int8},
				Field{Name: "x", Type: PrimitiveTypes.Int8},
			)}},
		},
		{
			"missing data type",
			Schema{{Name: "a"}},
		},
		{
			"non-integer dictionary index",
			Schema{{Name: "a", Type: &DictionaryType{
				IndexType: BinaryTypes.String, ValueType: BinaryTypes.String,
			}}},
		},
		{
			"non-utc timezone",
			Schema{{Name: "a", Type: &TimestampType{Unit: Second, TimeZone: "Europe/Berlin"}}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.schema.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestStrategyRoundTrip(t *testing.T) {
	for _, s := range []Strategy{
		NoStrategy, UtcStrAsDate64, NaiveStrAsDate64, TupleAsStruct, MapAsStruct, UnknownVariant,
	} {
		got, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStrategy("Base64AsBytes")
	assert.ErrorIs(t, err, ErrSchema)
}
