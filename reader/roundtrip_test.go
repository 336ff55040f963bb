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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/builder"
)

func viewsOf(t *testing.T, tree *builder.Tree) []serdearrow.View {
	t.Helper()
	arrays, err := tree.ToArrays()
	require.NoError(t, err)
	views := make([]serdearrow.View, len(arrays))
	for i, a := range arrays {
		views[i] = a.View()
	}
	return views
}

func TestRoundTripFlat(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "id", Type: serdearrow.PrimitiveTypes.Uint64},
		{Name: "name", Type: serdearrow.BinaryTypes.String},
		{Name: "score", Type: serdearrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "ok", Type: serdearrow.FixedWidthTypes.Boolean},
	}
	type record struct {
		ID    uint64   `arrow:"id"`
		Name  string   `arrow:"name"`
		Score *float64 `arrow:"score"`
		OK    bool     `arrow:"ok"`
	}
	score := 0.5
	in := []record{
		{ID: 1, Name: "ada", Score: &score, OK: true},
		{ID: 2, Name: "grace", Score: nil, OK: false},
	}

	bt, err := builder.NewTree(schema)
	require.NoError(t, err)
	require.NoError(t, bt.Extend(in))

	rt, err := NewTree(schema, viewsOf(t, bt))
	require.NoError(t, err)
	assert.Equal(t, 2, rt.NumRows())

	var out []record
	require.NoError(t, rt.Produce(&out))
	assert.Equal(t, in, out)
}

func TestRoundTripNested(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "name", Type: serdearrow.BinaryTypes.String},
		{
			Name: "points",
			Type: serdearrow.ListOfField(serdearrow.Field{
				Name: "element",
				Type: serdearrow.StructOf(
					serdearrow.Field{Name: "x", Type: serdearrow.PrimitiveTypes.Float64},
					serdearrow.Field{Name: "y", Type: serdearrow.PrimitiveTypes.Float64},
				),
			}),
		},
		{
			Name: "tags",
			Type: serdearrow.MapOfFields(
				serdearrow.Field{Name: "key", Type: serdearrow.BinaryTypes.String},
				serdearrow.Field{Name: "value", Type: serdearrow.PrimitiveTypes.Int64},
			),
		},
	}
	type point struct {
		X float64 `arrow:"x"`
		Y float64 `arrow:"y"`
	}
	type record struct {
		Name   string           `arrow:"name"`
		Points []point          `arrow:"points"`
		Tags   map[string]int64 `arrow:"tags"`
	}
	in := []record{
		{Name: "a", Points: []point{{1, 2}, {3, 4}}, Tags: map[string]int64{"k": 1}},
		{Name: "b", Points: []point{}, Tags: map[string]int64{}},
	}

	bt, err := builder.NewTree(schema)
	require.NoError(t, err)
	require.NoError(t, bt.Extend(in))

	rt, err := NewTree(schema, viewsOf(t, bt))
	require.NoError(t, err)

	var out []record
	require.NoError(t, rt.Produce(&out))
	assert.Equal(t, in, out)
}

func TestRoundTripUnion(t *testing.T) {
	schema := serdearrow.Schema{
		{
			Name: "value",
			Type: serdearrow.UnionOf(
				serdearrow.Field{Name: "Int", Type: serdearrow.PrimitiveTypes.Int64},
				serdearrow.Field{Name: "Str", Type: serdearrow.BinaryTypes.String},
			),
		},
	}
	type inRecord struct {
		Value builder.Variant `arrow:"value"`
	}
	type outRecord struct {
		Value Variant `arrow:"value"`
	}

	bt, err := builder.NewTree(schema)
	require.NoError(t, err)
	require.NoError(t, bt.Extend([]inRecord{
		{Value: builder.Variant{Name: "Int", Value: int64(21)}},
		{Value: builder.Variant{Name: "Str", Value: "hi"}},
		{Value: builder.Variant{Name: "Int", Value: int64(13)}},
	}))

	rt, err := NewTree(schema, viewsOf(t, bt))
	require.NoError(t, err)

	var out []outRecord
	require.NoError(t, rt.Produce(&out))
	require.Len(t, out, 3)
	assert.Equal(t, Variant{Name: "Int", Index: 0, Value: int64(21)}, out[0].Value)
	assert.Equal(t, Variant{Name: "Str", Index: 1, Value: "hi"}, out[1].Value)
	assert.Equal(t, Variant{Name: "Int", Index: 0, Value: int64(13)}, out[2].Value)
}

func TestRoundTripDictionary(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "code", Type: &serdearrow.DictionaryType{
			IndexType: serdearrow.PrimitiveTypes.Uint32,
			ValueType: serdearrow.BinaryTypes.String,
		}},
	}
	type record struct {
		Code string `arrow:"code"`
	}
	in := []record{{"a"}, {"b"}, {"a"}, {"c"}, {"b"}}

	bt, err := builder.NewTree(schema)
	require.NoError(t, err)
	require.NoError(t, bt.Extend(in))

	rt, err := NewTree(schema, viewsOf(t, bt))
	require.NoError(t, err)

	var out []record
	require.NoError(t, rt.Produce(&out))
	assert.Equal(t, in, out)
}

func TestRoundTripTime(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "at", Type: &serdearrow.TimestampType{Unit: serdearrow.Millisecond, TimeZone: "UTC"}},
	}
	type record struct {
		At time.Time `arrow:"at"`
	}
	in := []record{{At: time.Date(2015, 9, 18, 23, 56, 4, 0, time.UTC)}}

	bt, err := builder.NewTree(schema)
	require.NoError(t, err)
	require.NoError(t, bt.Extend(in))

	rt, err := NewTree(schema, viewsOf(t, bt))
	require.NoError(t, err)

	var out []record
	require.NoError(t, rt.Produce(&out))
	assert.True(t, in[0].At.Equal(out[0].At))
}

func TestRoundTripFixedSizeList(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "vec", Type: serdearrow.FixedSizeListOfField(3,
			serdearrow.Field{Name: "element", Type: serdearrow.PrimitiveTypes.Float32})},
	}
	type record struct {
		Vec [3]float32 `arrow:"vec"`
	}
	in := []record{{Vec: [3]float32{1, 2, 3}}, {Vec: [3]float32{4, 5, 6}}}

	bt, err := builder.NewTree(schema)
	require.NoError(t, err)
	require.NoError(t, bt.Extend(in))

	rt, err := NewTree(schema, viewsOf(t, bt))
	require.NoError(t, err)

	var out []record
	require.NoError(t, rt.Produce(&out))
	assert.Equal(t, in, out)
}

func TestProduceIntoMaps(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "a", Type: serdearrow.PrimitiveTypes.Int64},
		{Name: "b", Type: serdearrow.BinaryTypes.String},
	}
	bt, err := builder.NewTree(schema)
	require.NoError(t, err)
	require.NoError(t, bt.Push(map[string]any{"a": int64(1), "b": "x"}))

	rt, err := NewTree(schema, viewsOf(t, bt))
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, rt.Produce(&out))
	require.Len(t, out, 1)
	assert.Equal(t, map[string]any{"a": int64(1), "b": "x"}, out[0])
}

func TestProduceColumnSubset(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "a", Type: serdearrow.PrimitiveTypes.Int64},
		{Name: "b", Type: serdearrow.BinaryTypes.String},
	}
	type record struct {
		A int64  `arrow:"a"`
		B string `arrow:"b"`
	}
	bt, err := builder.NewTree(schema)
	require.NoError(t, err)
	require.NoError(t, bt.Push(record{A: 1, B: "x"}))

	rt, err := NewTree(schema, viewsOf(t, bt))
	require.NoError(t, err)

	// a record type naming only some columns reads just those
	type narrow struct {
		B string `arrow:"b"`
	}
	var out []narrow
	require.NoError(t, rt.Produce(&out))
	assert.Equal(t, []narrow{{B: "x"}}, out)
}

func TestProduceRequiresSlicePointer(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "a", Type: serdearrow.PrimitiveTypes.Int64},
	}
	bt, err := builder.NewTree(schema)
	require.NoError(t, err)

	rt, err := NewTree(schema, viewsOf(t, bt))
	require.NoError(t, err)

	var out []struct{}
	assert.ErrorIs(t, rt.Produce(out), serdearrow.ErrShapeMismatch)
}
