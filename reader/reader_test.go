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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

func mustReader(t *testing.T, field serdearrow.Field, view serdearrow.View) Reader {
	t.Helper()
	r, err := New(field, view)
	require.NoError(t, err)
	return r
}

func TestPrimitiveReader(t *testing.T) {
	field := serdearrow.Field{Name: "a", Type: serdearrow.PrimitiveTypes.Int32}
	r := mustReader(t, field, &serdearrow.PrimitiveView[int32]{
		Type:   serdearrow.PrimitiveTypes.Int32,
		Values: []int32{1, -2, 3},
	})

	assert.Equal(t, 3, r.Len())
	v, err := r.Int(1)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), v)

	f, err := r.Float(2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	_, err = r.Uint(1)
	assert.ErrorIs(t, err, serdearrow.ErrValue) // negative

	_, err = r.Int(3)
	assert.ErrorIs(t, err, serdearrow.ErrValue) // out of range

	_, err = r.Str(0)
	assert.ErrorIs(t, err, serdearrow.ErrShapeMismatch)
}

func TestReaderValidity(t *testing.T) {
	field := serdearrow.Field{Name: "a", Type: serdearrow.PrimitiveTypes.Int64, Nullable: true}
	r := mustReader(t, field, &serdearrow.PrimitiveView[int64]{
		Type:     serdearrow.PrimitiveTypes.Int64,
		Values:   []int64{1, 0, 3},
		Validity: &serdearrow.Bitmap{Bytes: []byte{0b101}},
	})

	assert.True(t, r.IsValid(0))
	assert.False(t, r.IsValid(1))
	assert.True(t, r.IsValid(2))

	_, err := r.Int(1)
	assert.ErrorIs(t, err, serdearrow.ErrValue)
	v, err := r.Int(2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestReaderTypeMismatch(t *testing.T) {
	field := serdearrow.Field{Name: "a", Type: serdearrow.PrimitiveTypes.Int64}
	_, err := New(field, &serdearrow.PrimitiveView[int32]{
		Type: serdearrow.PrimitiveTypes.Int32, Values: []int32{1},
	})
	assert.ErrorIs(t, err, serdearrow.ErrLayout)
}

func TestReaderShortBitmap(t *testing.T) {
	field := serdearrow.Field{Name: "a", Type: serdearrow.PrimitiveTypes.Int64, Nullable: true}
	values := make([]int64, 17)
	_, err := New(field, &serdearrow.PrimitiveView[int64]{
		Type:     serdearrow.PrimitiveTypes.Int64,
		Values:   values,
		Validity: &serdearrow.Bitmap{Bytes: []byte{0xff, 0xff}}, // 17 rows need 3 bytes
	})
	assert.ErrorIs(t, err, serdearrow.ErrLayout)
}

func TestBooleanReader(t *testing.T) {
	field := serdearrow.Field{Name: "a", Type: serdearrow.FixedWidthTypes.Boolean}
	r := mustReader(t, field, &serdearrow.BooleanView{
		N:      3,
		Values: serdearrow.Bitmap{Bytes: []byte{0b011}},
	})
	v, err := r.Bool(0)
	require.NoError(t, err)
	assert.True(t, v)
	v, err = r.Bool(2)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestStringReader(t *testing.T) {
	field := serdearrow.Field{Name: "s", Type: serdearrow.BinaryTypes.String}
	r := mustReader(t, field, &serdearrow.StringView[int32]{
		Offsets: []int32{0, 3, 3, 6},
		Data:    []byte("foobar"),
	})

	s, err := r.Str(0)
	require.NoError(t, err)
	assert.Equal(t, "foo", s)
	s, err = r.Str(1)
	require.NoError(t, err)
	assert.Equal(t, "", s)

	b, err := r.Bytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("bar"), b)
}

func TestStringReaderInvalidUTF8(t *testing.T) {
	field := serdearrow.Field{Name: "s", Type: serdearrow.BinaryTypes.String}
	r := mustReader(t, field, &serdearrow.StringView[int32]{
		Offsets: []int32{0, 2},
		Data:    []byte{0xff, 0xfe},
	})
	_, err := r.Str(0)
	assert.ErrorIs(t, err, serdearrow.ErrValue)
}

func TestStringReaderEnum(t *testing.T) {
	field := serdearrow.Field{Name: "s", Type: serdearrow.BinaryTypes.String}
	r := mustReader(t, field, &serdearrow.StringView[int32]{
		Offsets: []int32{0, 3, 7},
		Data:    []byte("RedBlue"),
	}).(*stringReader[int32])

	idx, err := r.Enum(1, []string{"Red", "Blue"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = r.Enum(0, []string{"Green"})
	assert.ErrorIs(t, err, serdearrow.ErrValue)
}

func TestOffsetValidation(t *testing.T) {
	field := serdearrow.Field{Name: "s", Type: serdearrow.BinaryTypes.String}

	tests := []struct {
		name string
		view *serdearrow.StringView[int32]
	}{
		{
			"empty offsets",
			&serdearrow.StringView[int32]{Offsets: nil, Data: nil},
		},
		{
			"negative first offset",
			&serdearrow.StringView[int32]{Offsets: []int32{-1, 0}, Data: nil},
		},
		{
			"decreasing offsets",
			&serdearrow.StringView[int32]{Offsets: []int32{0, 3, 2}, Data: []byte("foo")},
		},
		{
			"final offset beyond data",
			&serdearrow.StringView[int32]{Offsets: []int32{0, 9}, Data: []byte("foo")},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(field, tc.view)
			assert.ErrorIs(t, err, serdearrow.ErrLayout)
		})
	}
}

func TestNullRowMustBeEmpty(t *testing.T) {
	field := serdearrow.Field{Name: "s", Type: serdearrow.BinaryTypes.String, Nullable: true}
	_, err := New(field, &serdearrow.StringView[int32]{
		Offsets:  []int32{0, 3, 6},
		Data:     []byte("foobar"),
		Validity: &serdearrow.Bitmap{Bytes: []byte{0b01}}, // row 1 null but spans 3 bytes
	})
	assert.ErrorIs(t, err, serdearrow.ErrLayout)
}

func TestListReader(t *testing.T) {
	field := serdearrow.Field{
		Name:     "xs",
		Nullable: true,
		Type: serdearrow.ListOfField(
			serdearrow.Field{Name: "element", Type: serdearrow.PrimitiveTypes.Int64}),
	}
	r := mustReader(t, field, &serdearrow.ListView[int32]{
		ElemMeta: serdearrow.FieldMeta{Name: "element"},
		Elem: &serdearrow.PrimitiveView[int64]{
			Type: serdearrow.PrimitiveTypes.Int64, Values: []int64{1, 2, 3},
		},
		Offsets:  []int32{0, 2, 2, 3},
		Validity: &serdearrow.Bitmap{Bytes: []byte{0b101}},
	}).(*listReader[int32])

	start, end, err := r.Span(0)
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)

	_, _, err = r.Span(1)
	assert.ErrorIs(t, err, serdearrow.ErrValue) // null row

	v, err := r.Elem().Int(2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestFixedSizeListReader(t *testing.T) {
	field := serdearrow.Field{
		Name: "v",
		Type: serdearrow.FixedSizeListOfField(2,
			serdearrow.Field{Name: "element", Type: serdearrow.PrimitiveTypes.Float32}),
	}
	r := mustReader(t, field, &serdearrow.FixedSizeListView{
		N:        2,
		ElemMeta: serdearrow.FieldMeta{Name: "element"},
		Elem: &serdearrow.PrimitiveView[float32]{
			Type: serdearrow.PrimitiveTypes.Float32, Values: []float32{1, 2, 3, 4},
		},
	}).(*fixedSizeListReader)

	assert.Equal(t, 2, r.Len())
	start, end, err := r.Span(1)
	require.NoError(t, err)
	assert.Equal(t, 2, start)
	assert.Equal(t, 4, end)

	// child length not a multiple of N
	_, err = New(field, &serdearrow.FixedSizeListView{
		N:        2,
		ElemMeta: serdearrow.FieldMeta{Name: "element"},
		Elem: &serdearrow.PrimitiveView[float32]{
			Type: serdearrow.PrimitiveTypes.Float32, Values: []float32{1, 2, 3},
		},
	})
	assert.ErrorIs(t, err, serdearrow.ErrLayout)
}

func TestStructReader(t *testing.T) {
	field := serdearrow.Field{
		Name: "s",
		Type: serdearrow.StructOf(
			serdearrow.Field{Name: "a", Type: serdearrow.PrimitiveTypes.Int64},
			serdearrow.Field{Name: "b", Type: serdearrow.BinaryTypes.String},
		),
	}
	view := &serdearrow.StructView{
		N: 2,
		Fields: []serdearrow.FieldMeta{{Name: "a"}, {Name: "b"}},
		Children: []serdearrow.View{
			&serdearrow.PrimitiveView[int64]{Type: serdearrow.PrimitiveTypes.Int64, Values: []int64{1, 2}},
			&serdearrow.StringView[int32]{Offsets: []int32{0, 1, 2}, Data: []byte("xy")},
		},
	}
	r := mustReader(t, field, view).(*structReader)

	assert.Equal(t, 2, r.NumChildren())
	v, err := r.Child(0).Int(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	child, ok := r.ChildByName("b")
	require.True(t, ok)
	s, err := child.Str(0)
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	// misaligned child length fails construction
	view.Children[0] = &serdearrow.PrimitiveView[int64]{
		Type: serdearrow.PrimitiveTypes.Int64, Values: []int64{1},
	}
	_, err = New(field, view)
	assert.ErrorIs(t, err, serdearrow.ErrLayout)
}

func TestMapReader(t *testing.T) {
	field := serdearrow.Field{
		Name: "m",
		Type: serdearrow.MapOfFields(
			serdearrow.Field{Name: "key", Type: serdearrow.BinaryTypes.String},
			serdearrow.Field{Name: "value", Type: serdearrow.PrimitiveTypes.Int64},
		),
	}
	r := mustReader(t, field, &serdearrow.MapView{
		KeyMeta:  serdearrow.FieldMeta{Name: "key"},
		ItemMeta: serdearrow.FieldMeta{Name: "value"},
		Keys:     &serdearrow.StringView[int32]{Offsets: []int32{0, 1, 2}, Data: []byte("ab")},
		Items: &serdearrow.PrimitiveView[int64]{
			Type: serdearrow.PrimitiveTypes.Int64, Values: []int64{1, 2},
		},
		Offsets: []int32{0, 2},
	}).(*mapReader)

	start, end, err := r.Span(0)
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)

	k, err := r.Keys().Str(1)
	require.NoError(t, err)
	assert.Equal(t, "b", k)
}

func TestMapReaderKeyItemMismatch(t *testing.T) {
	field := serdearrow.Field{
		Name: "m",
		Type: serdearrow.MapOfFields(
			serdearrow.Field{Name: "key", Type: serdearrow.BinaryTypes.String},
			serdearrow.Field{Name: "value", Type: serdearrow.PrimitiveTypes.Int64},
		),
	}
	_, err := New(field, &serdearrow.MapView{
		KeyMeta:  serdearrow.FieldMeta{Name: "key"},
		ItemMeta: serdearrow.FieldMeta{Name: "value"},
		Keys:     &serdearrow.StringView[int32]{Offsets: []int32{0, 1, 2}, Data: []byte("ab")},
		Items: &serdearrow.PrimitiveView[int64]{
			Type: serdearrow.PrimitiveTypes.Int64, Values: []int64{1},
		},
		Offsets: []int32{0, 2},
	})
	assert.ErrorIs(t, err, serdearrow.ErrLayout)
}

func TestUnionReader(t *testing.T) {
	field := serdearrow.Field{
		Name: "u",
		Type: serdearrow.UnionOf(
			serdearrow.Field{Name: "A", Type: serdearrow.PrimitiveTypes.Int64},
			serdearrow.Field{Name: "B", Type: serdearrow.PrimitiveTypes.Float64},
		),
	}
	r := mustReader(t, field, &serdearrow.DenseUnionView{
		VariantMetas: []serdearrow.FieldMeta{{Name: "A"}, {Name: "B"}},
		Variants: []serdearrow.View{
			&serdearrow.PrimitiveView[int64]{Type: serdearrow.PrimitiveTypes.Int64, Values: []int64{21, 13}},
			&serdearrow.PrimitiveView[float64]{Type: serdearrow.PrimitiveTypes.Float64, Values: []float64{42}},
		},
		TypeIDs: []int8{0, 1, 0},
		Offsets: []int32{0, 0, 1},
	}).(*unionReader)

	variant, childRow, err := r.Resolve(2)
	require.NoError(t, err)
	assert.Equal(t, 0, variant)
	assert.Equal(t, 1, childRow)
	v, err := r.Variant(variant).Int(childRow)
	require.NoError(t, err)
	assert.Equal(t, int64(13), v)
}

func TestUnionReaderLayout(t *testing.T) {
	field := serdearrow.Field{
		Name: "u",
		Type: serdearrow.UnionOf(
			serdearrow.Field{Name: "A", Type: serdearrow.PrimitiveTypes.Int64},
		),
	}
	variants := []serdearrow.View{
		&serdearrow.PrimitiveView[int64]{Type: serdearrow.PrimitiveTypes.Int64, Values: []int64{1}},
	}
	metas := []serdearrow.FieldMeta{{Name: "A"}}

	// type id out of range
	_, err := New(field, &serdearrow.DenseUnionView{
		VariantMetas: metas, Variants: variants,
		TypeIDs: []int8{7}, Offsets: []int32{0},
	})
	assert.ErrorIs(t, err, serdearrow.ErrLayout)

	// offset beyond the variant length
	_, err = New(field, &serdearrow.DenseUnionView{
		VariantMetas: metas, Variants: variants,
		TypeIDs: []int8{0}, Offsets: []int32{5},
	})
	assert.ErrorIs(t, err, serdearrow.ErrLayout)

	// type id and offset buffers must have the same length
	_, err = New(field, &serdearrow.DenseUnionView{
		VariantMetas: metas, Variants: variants,
		TypeIDs: []int8{0}, Offsets: []int32{0, 0},
	})
	assert.ErrorIs(t, err, serdearrow.ErrLayout)
}

func TestUnionReaderNullVariant(t *testing.T) {
	field := serdearrow.Field{
		Name: "u",
		Type: serdearrow.UnionOf(
			serdearrow.Field{Name: "A", Type: serdearrow.PrimitiveTypes.Int64},
			serdearrow.Field{Name: "None", Type: serdearrow.NullDataType},
		),
	}
	r := mustReader(t, field, &serdearrow.DenseUnionView{
		VariantMetas: []serdearrow.FieldMeta{{Name: "A"}, {Name: "None"}},
		Variants: []serdearrow.View{
			&serdearrow.PrimitiveView[int64]{Type: serdearrow.PrimitiveTypes.Int64, Values: []int64{1}},
			&serdearrow.NullView{N: 1},
		},
		TypeIDs: []int8{0, 1},
		Offsets: []int32{0, 0},
	})

	assert.True(t, r.IsValid(0))
	assert.False(t, r.IsValid(1))
}

func TestDictionaryReader(t *testing.T) {
	field := serdearrow.Field{
		Name: "code",
		Type: &serdearrow.DictionaryType{
			IndexType: serdearrow.PrimitiveTypes.Uint32,
			ValueType: serdearrow.BinaryTypes.String,
		},
	}
	r := mustReader(t, field, &serdearrow.DictionaryView{
		Indices: &serdearrow.PrimitiveView[uint32]{
			Type: serdearrow.PrimitiveTypes.Uint32, Values: []uint32{0, 1, 0, 2, 1},
		},
		Values: &serdearrow.StringView[int32]{Offsets: []int32{0, 1, 2, 3}, Data: []byte("abc")},
	})

	assert.Equal(t, 5, r.Len())
	for i, want := range []string{"a", "b", "a", "c", "b"} {
		s, err := r.Str(i)
		require.NoError(t, err)
		assert.Equal(t, want, s)
	}
}

func TestDictionaryReaderIndexRange(t *testing.T) {
	field := serdearrow.Field{
		Name: "code",
		Type: &serdearrow.DictionaryType{
			IndexType: serdearrow.PrimitiveTypes.Uint32,
			ValueType: serdearrow.BinaryTypes.String,
		},
	}
	_, err := New(field, &serdearrow.DictionaryView{
		Indices: &serdearrow.PrimitiveView[uint32]{
			Type: serdearrow.PrimitiveTypes.Uint32, Values: []uint32{3},
		},
		Values: &serdearrow.StringView[int32]{Offsets: []int32{0, 1}, Data: []byte("a")},
	})
	assert.ErrorIs(t, err, serdearrow.ErrLayout)
}

func TestNullReader(t *testing.T) {
	field := serdearrow.Field{Name: "n", Type: serdearrow.NullDataType, Nullable: true}
	r := mustReader(t, field, &serdearrow.NullView{N: 3})
	assert.Equal(t, 3, r.Len())
	assert.False(t, r.IsValid(0))
	_, err := r.Int(0)
	assert.Error(t, err)
}
