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

package arrowgo

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/builder"
	"github.com/chmp/serde-arrow-sub003/reader"
)

func TestFieldRoundTrip(t *testing.T) {
	fields := []serdearrow.Field{
		{Name: "id", Type: serdearrow.PrimitiveTypes.Int64},
		{Name: "name", Type: serdearrow.BinaryTypes.String, Nullable: true,
			Metadata: map[string]string{"origin": "users"}},
		{Name: "ratio", Type: serdearrow.PrimitiveTypes.Float32},
		{Name: "price", Type: &serdearrow.Decimal128Type{Precision: 5, Scale: 2}},
		{Name: "at", Type: &serdearrow.TimestampType{Unit: serdearrow.Millisecond, TimeZone: "UTC"}},
		{Name: "born", Type: serdearrow.FixedWidthTypes.Date64, Strategy: serdearrow.UtcStrAsDate64},
		{Name: "hash", Type: &serdearrow.FixedSizeBinaryType{ByteWidth: 16}},
		{Name: "tags", Type: serdearrow.ListOfField(
			serdearrow.Field{Name: "element", Type: serdearrow.BinaryTypes.String})},
		{Name: "vec", Type: serdearrow.FixedSizeListOf(3, serdearrow.PrimitiveTypes.Float32)},
		{Name: "point", Type: serdearrow.StructOf(
			serdearrow.Field{Name: "x", Type: serdearrow.PrimitiveTypes.Float64},
			serdearrow.Field{Name: "y", Type: serdearrow.PrimitiveTypes.Float64},
		), Strategy: serdearrow.MapAsStruct},
		{Name: "attrs", Type: serdearrow.MapOf(
			serdearrow.BinaryTypes.String, serdearrow.PrimitiveTypes.Int64)},
		{Name: "value", Type: serdearrow.UnionOf(
			serdearrow.Field{Name: "Int", Type: serdearrow.PrimitiveTypes.Int64},
			serdearrow.Field{Name: "Str", Type: serdearrow.BinaryTypes.String},
		)},
		{Name: "code", Type: &serdearrow.DictionaryType{
			IndexType: serdearrow.PrimitiveTypes.Uint32,
			ValueType: serdearrow.BinaryTypes.String,
		}},
	}
	for _, f := range fields {
		t.Run(f.Name, func(t *testing.T) {
			af, err := FieldTo(f)
			require.NoError(t, err)
			back, err := FieldFrom(af)
			require.NoError(t, err)
			assert.Equal(t, f, back)
		})
	}
}

func TestStrategyTravelsInMetadata(t *testing.T) {
	af, err := FieldTo(serdearrow.Field{
		Name:     "born",
		Type:     serdearrow.FixedWidthTypes.Date64,
		Strategy: serdearrow.UtcStrAsDate64,
	})
	require.NoError(t, err)

	idx := af.Metadata.FindKey("SERDE_ARROW:strategy")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "UtcStrAsDate64", af.Metadata.Values()[idx])
}

func TestSchemaRoundTrip(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "id", Type: serdearrow.PrimitiveTypes.Uint64},
		{Name: "name", Type: serdearrow.BinaryTypes.String, Nullable: true},
		{Name: "scores", Type: serdearrow.ListOfField(
			serdearrow.Field{Name: "element", Type: serdearrow.PrimitiveTypes.Float64})},
	}
	as, err := SchemaTo(schema)
	require.NoError(t, err)
	require.Equal(t, 3, as.NumFields())
	assert.Equal(t, arrow.PrimitiveTypes.Uint64, as.Field(0).Type)

	back, err := SchemaFrom(as)
	require.NoError(t, err)
	assert.Equal(t, schema, back)
}

func TestSchemaToRejectsInvalid(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "a", Type: serdearrow.PrimitiveTypes.Int64},
		{Name: "a", Type: serdearrow.PrimitiveTypes.Int64},
	}
	_, err := SchemaTo(schema)
	assert.ErrorIs(t, err, serdearrow.ErrSchema)
}

func buildArrays(t *testing.T, schema serdearrow.Schema, rows []map[string]any) []serdearrow.Array {
	t.Helper()
	tree, err := builder.NewTree(schema)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, tree.Push(row))
	}
	arrays, err := tree.ToArrays()
	require.NoError(t, err)
	return arrays
}

func TestArrayRoundTrip(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "id", Type: serdearrow.PrimitiveTypes.Int64},
		{Name: "name", Type: serdearrow.BinaryTypes.String, Nullable: true},
	}
	arrays := buildArrays(t, schema, []map[string]any{
		{"id": int64(1), "name": "a"},
		{"id": int64(2)},
		{"id": int64(3), "name": "c"},
	})

	idCol, err := ArrayTo(schema[0], arrays[0])
	require.NoError(t, err)
	defer idCol.Release()
	ids := idCol.(*array.Int64)
	require.Equal(t, 3, ids.Len())
	assert.Equal(t, []int64{1, 2, 3}, ids.Int64Values())

	nameCol, err := ArrayTo(schema[1], arrays[1])
	require.NoError(t, err)
	defer nameCol.Release()
	names := nameCol.(*array.String)
	assert.Equal(t, "a", names.Value(0))
	assert.True(t, names.IsNull(1))
	assert.Equal(t, "c", names.Value(2))

	// and back through the borrowing path
	view, err := ViewFrom(nameCol)
	require.NoError(t, err)
	r, err := reader.New(schema[1], view)
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())
	s, err := r.Str(0)
	require.NoError(t, err)
	assert.Equal(t, "a", s)
	assert.False(t, r.IsValid(1))
}

func TestRecordRoundTrip(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "id", Type: serdearrow.PrimitiveTypes.Int64},
		{Name: "name", Type: serdearrow.BinaryTypes.String, Nullable: true},
		{Name: "tags", Type: serdearrow.ListOfField(
			serdearrow.Field{Name: "element", Type: serdearrow.BinaryTypes.String})},
	}
	rows := []map[string]any{
		{"id": int64(1), "name": "a", "tags": []string{"x", "y"}},
		{"id": int64(2), "tags": []string{}},
	}
	arrays := buildArrays(t, schema, rows)

	rec, err := RecordTo(schema, arrays)
	require.NoError(t, err)
	defer rec.Release()
	require.Equal(t, int64(2), rec.NumRows())
	require.Equal(t, int64(3), rec.NumCols())

	backSchema, views, err := RecordFrom(rec)
	require.NoError(t, err)
	assert.Equal(t, schema, backSchema)

	tree, err := reader.NewTree(backSchema, views)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, tree.Produce(&out))
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0]["id"])
	assert.Equal(t, "a", out[0]["name"])
	assert.Equal(t, []any{"x", "y"}, out[0]["tags"])
	assert.Nil(t, out[1]["name"])
	assert.Equal(t, []any{}, out[1]["tags"])
}

func TestViewFromRejectsSlicedNested(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "point", Type: serdearrow.StructOf(
			serdearrow.Field{Name: "x", Type: serdearrow.PrimitiveTypes.Float64},
		)},
	}
	arrays := buildArrays(t, schema, []map[string]any{
		{"point": map[string]any{"x": 1.0}},
		{"point": map[string]any{"x": 2.0}},
	})
	col, err := ArrayTo(schema[0], arrays[0])
	require.NoError(t, err)
	defer col.Release()

	sliced := array.NewSlice(col, 1, 2)
	defer sliced.Release()
	_, err = ViewFrom(sliced)
	assert.ErrorIs(t, err, serdearrow.ErrLayout)
}
