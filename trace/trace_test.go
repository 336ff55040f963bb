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

package trace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/builder"
)

func TestFromType(t *testing.T) {
	type record struct {
		ID      uint64  `arrow:"id"`
		Name    string  `arrow:"name"`
		Score   *float64 `arrow:"score"`
		Raw     []byte  `arrow:"raw"`
		Hash    [16]byte `arrow:"hash"`
		Values  []int32 `arrow:"values"`
		When    time.Time `arrow:"when"`
		Hidden  string  `arrow:"-"`
	}
	schema, err := FromType[record]()
	require.NoError(t, err)
	require.Len(t, schema, 7)

	byName := func(name string) serdearrow.Field {
		f, ok := schema.FieldByName(name)
		require.True(t, ok, name)
		return f
	}
	assert.Equal(t, serdearrow.PrimitiveTypes.Uint64, byName("id").Type)
	assert.Equal(t, serdearrow.BinaryTypes.String, byName("name").Type)

	score := byName("score")
	assert.Equal(t, serdearrow.PrimitiveTypes.Float64, score.Type)
	assert.True(t, score.Nullable)

	assert.Equal(t, serdearrow.BinaryTypes.Binary, byName("raw").Type)
	assert.Equal(t, &serdearrow.FixedSizeBinaryType{ByteWidth: 16}, byName("hash").Type)

	values := byName("values").Type.(*serdearrow.ListType)
	assert.Equal(t, serdearrow.PrimitiveTypes.Int32, values.Elem())

	when := byName("when")
	assert.Equal(t, serdearrow.FixedWidthTypes.Date64, when.Type)
	assert.Equal(t, serdearrow.UtcStrAsDate64, when.Strategy)

	_, ok := schema.FieldByName("Hidden")
	assert.False(t, ok)
}

func TestFromTypeNested(t *testing.T) {
	type inner struct {
		A int64 `arrow:"a"`
	}
	type record struct {
		S inner            `arrow:"s"`
		M map[string]int64 `arrow:"m"`
	}
	schema, err := FromType[record]()
	require.NoError(t, err)

	s, _ := schema.FieldByName("s")
	st := s.Type.(*serdearrow.StructType)
	require.Equal(t, 1, st.NumFields())
	assert.Equal(t, "a", st.Field(0).Name)

	m, _ := schema.FieldByName("m")
	mt := m.Type.(*serdearrow.MapType)
	assert.Equal(t, serdearrow.BinaryTypes.String, mt.KeyType())
	assert.Equal(t, serdearrow.PrimitiveTypes.Int64, mt.ItemType())
	assert.True(t, mt.ItemField().Nullable)
}

func TestFromTypeRejectsNonStruct(t *testing.T) {
	_, err := FromType[int]()
	assert.ErrorIs(t, err, serdearrow.ErrSchema)
}

func TestFromTypeStringDictionary(t *testing.T) {
	type record struct {
		Code string `arrow:"code"`
	}
	schema, err := FromType[record](WithStringDictionary())
	require.NoError(t, err)
	code, _ := schema.FieldByName("code")
	assert.Equal(t, &serdearrow.DictionaryType{
		IndexType: serdearrow.PrimitiveTypes.Uint32,
		ValueType: serdearrow.BinaryTypes.String,
	}, code.Type)
}

func TestFromTypeInterfaceNeedsSamples(t *testing.T) {
	type record struct {
		Any any `arrow:"any"`
	}
	// the static type alone leaves the field unknown
	schema, err := FromType[record]()
	require.NoError(t, err)
	f, _ := schema.FieldByName("any")
	assert.Equal(t, serdearrow.UnknownVariant, f.Strategy)
}

func TestFromSamplesBasic(t *testing.T) {
	samples := []map[string]any{
		{"a": int64(1), "b": "x"},
		{"a": int64(2), "b": "y"},
	}
	schema, err := FromSamples(samples)
	require.NoError(t, err)

	a, _ := schema.FieldByName("a")
	assert.Equal(t, serdearrow.PrimitiveTypes.Int64, a.Type)
	b, _ := schema.FieldByName("b")
	assert.Equal(t, serdearrow.BinaryTypes.String, b.Type)
}

func TestFromSamplesNumericUnification(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want serdearrow.DataType
	}{
		{"signed widths", int8(1), int32(2), serdearrow.PrimitiveTypes.Int64},
		{"unsigned widths", uint8(1), uint16(2), serdearrow.PrimitiveTypes.Uint64},
		{"mixed signedness", int8(1), uint8(2), serdearrow.PrimitiveTypes.Int64},
		{"int and float", int64(1), 2.5, serdearrow.PrimitiveTypes.Float64},
		{"float widths", float32(1), 2.5, serdearrow.PrimitiveTypes.Float64},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			schema, err := FromSamples([]map[string]any{{"v": tc.a}, {"v": tc.b}})
			require.NoError(t, err)
			v, _ := schema.FieldByName("v")
			assert.Equal(t, tc.want, v.Type)
		})
	}
}

func TestFromSamplesNullPromotion(t *testing.T) {
	schema, err := FromSamples([]map[string]any{
		{"v": nil},
		{"v": int64(2)},
	})
	require.NoError(t, err)
	v, _ := schema.FieldByName("v")
	assert.Equal(t, serdearrow.PrimitiveTypes.Int64, v.Type)
	assert.True(t, v.Nullable)

	// the order of observation does not matter
	schema, err = FromSamples([]map[string]any{
		{"v": int64(2)},
		{"v": nil},
	})
	require.NoError(t, err)
	v, _ = schema.FieldByName("v")
	assert.Equal(t, serdearrow.PrimitiveTypes.Int64, v.Type)
	assert.True(t, v.Nullable)
}

func TestFromSamplesNullOnlyField(t *testing.T) {
	samples := []map[string]any{{"v": nil}, {"v": nil}}

	_, err := FromSamples(samples)
	assert.ErrorIs(t, err, serdearrow.ErrSchema)

	schema, err := FromSamples(samples, WithAllowNullFields())
	require.NoError(t, err)
	v, _ := schema.FieldByName("v")
	assert.Equal(t, serdearrow.NullDataType, v.Type)
	assert.True(t, v.Nullable)
}

func TestFromSamplesIncompatibleTypes(t *testing.T) {
	_, err := FromSamples([]map[string]any{
		{"v": int64(1)},
		{"v": "x"},
	})
	assert.ErrorIs(t, err, serdearrow.ErrSchema)
}

func TestFromSamplesMissingFieldNullable(t *testing.T) {
	schema, err := FromSamples([]map[string]any{
		{"a": int64(1), "b": "x"},
		{"a": int64(2)},
	})
	require.NoError(t, err)
	b, _ := schema.FieldByName("b")
	assert.True(t, b.Nullable)
}

func TestFromSamplesSequenceUnification(t *testing.T) {
	// a fixed-size list with inconsistent lengths widens to List
	schema, err := FromSamples([]map[string]any{
		{"v": [2]int64{1, 2}},
		{"v": [3]int64{1, 2, 3}},
	})
	require.NoError(t, err)
	v, _ := schema.FieldByName("v")
	lt, ok := v.Type.(*serdearrow.ListType)
	require.True(t, ok)
	assert.Equal(t, serdearrow.PrimitiveTypes.Int64, lt.Elem())

	// consistent lengths keep the fixed-size shape
	schema, err = FromSamples([]map[string]any{
		{"v": [2]int64{1, 2}},
		{"v": [2]int64{3, 4}},
	})
	require.NoError(t, err)
	v, _ = schema.FieldByName("v")
	fl, ok := v.Type.(*serdearrow.FixedSizeListType)
	require.True(t, ok)
	assert.Equal(t, int32(2), fl.Len())
}

func TestFromSamplesMapAsStruct(t *testing.T) {
	samples := []map[string]any{
		{"point": map[string]any{"y": 2.0, "x": 1.0}},
		{"point": map[string]any{"x": 3.0, "y": 4.0}},
	}
	schema, err := FromSamples(samples, WithMapAsStruct())
	require.NoError(t, err)

	point, _ := schema.FieldByName("point")
	assert.Equal(t, serdearrow.MapAsStruct, point.Strategy)
	st := point.Type.(*serdearrow.StructType)
	require.Equal(t, 2, st.NumFields())
	// fields come out sorted by name
	assert.Equal(t, "x", st.Field(0).Name)
	assert.Equal(t, "y", st.Field(1).Name)
}

func TestFromSamplesGuessDates(t *testing.T) {
	utc := []map[string]any{
		{"d": "2015-09-18T23:56:04Z"},
		{"d": "2016-01-01T00:00:00Z"},
	}
	schema, err := FromSamples(utc, WithGuessDates())
	require.NoError(t, err)
	d, _ := schema.FieldByName("d")
	assert.Equal(t, serdearrow.FixedWidthTypes.Date64, d.Type)
	assert.Equal(t, serdearrow.UtcStrAsDate64, d.Strategy)

	// a non-date string among the samples falls back to Utf8
	mixed := []map[string]any{
		{"d": "2015-09-18T23:56:04Z"},
		{"d": "hello"},
	}
	schema, err = FromSamples(mixed, WithGuessDates())
	require.NoError(t, err)
	d, _ = schema.FieldByName("d")
	assert.Equal(t, serdearrow.BinaryTypes.String, d.Type)

	// without the option date strings stay strings
	schema, err = FromSamples(utc)
	require.NoError(t, err)
	d, _ = schema.FieldByName("d")
	assert.Equal(t, serdearrow.BinaryTypes.String, d.Type)
}

func TestFromSamplesUnion(t *testing.T) {
	samples := []map[string]any{
		{"v": builder.Variant{Name: "Int", Value: int64(1)}},
		{"v": builder.Variant{Name: "Str", Value: "x"}},
		{"v": builder.Variant{Name: "Int", Value: int64(2)}},
	}
	schema, err := FromSamples(samples)
	require.NoError(t, err)

	v, _ := schema.FieldByName("v")
	ut := v.Type.(*serdearrow.UnionType)
	require.Equal(t, 2, ut.NumVariants())
	assert.Equal(t, "Int", ut.Variant(0).Name)
	assert.Equal(t, serdearrow.PrimitiveTypes.Int64, ut.Variant(0).Type)
	assert.Equal(t, "Str", ut.Variant(1).Name)
	assert.Equal(t, serdearrow.BinaryTypes.String, ut.Variant(1).Type)
}

func TestFromSamplesStructs(t *testing.T) {
	type record struct {
		A int64   `arrow:"a"`
		B *string `arrow:"b"`
	}
	s := "x"
	schema, err := FromSamples([]record{{A: 1, B: &s}, {A: 2}})
	require.NoError(t, err)

	a, _ := schema.FieldByName("a")
	assert.Equal(t, serdearrow.PrimitiveTypes.Int64, a.Type)
	b, _ := schema.FieldByName("b")
	assert.Equal(t, serdearrow.BinaryTypes.String, b.Type)
	assert.True(t, b.Nullable)
}

func TestFromSamplesEmpty(t *testing.T) {
	_, err := FromSamples([]map[string]any{})
	assert.ErrorIs(t, err, serdearrow.ErrSchema)

	_, err = FromSamples("not a slice")
	assert.ErrorIs(t, err, serdearrow.ErrSchema)
}

func TestTypeOf(t *testing.T) {
	f, err := TypeOf[[]int64]("xs")
	require.NoError(t, err)
	lt := f.Type.(*serdearrow.ListType)
	assert.Equal(t, serdearrow.PrimitiveTypes.Int64, lt.Elem())
	assert.Equal(t, "xs", f.Name)
}

func TestTracedSchemaBuilds(t *testing.T) {
	// the traced schema feeds straight into a builder tree
	type record struct {
		ID   uint64   `arrow:"id"`
		Tags []string `arrow:"tags"`
	}
	schema, err := FromType[record]()
	require.NoError(t, err)

	tree, err := builder.NewTree(schema)
	require.NoError(t, err)
	require.NoError(t, tree.Push(record{ID: 1, Tags: []string{"a"}}))
	arrays, err := tree.ToArrays()
	require.NoError(t, err)
	assert.Equal(t, 1, arrays[0].Len())
}
