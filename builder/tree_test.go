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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

func TestTreePush(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "a", Type: serdearrow.PrimitiveTypes.Uint8},
		{Name: "b", Type: serdearrow.PrimitiveTypes.Float32},
	}
	tree, err := NewTree(schema)
	require.NoError(t, err)

	type record struct {
		A uint8   `arrow:"a"`
		B float32 `arrow:"b"`
	}
	require.NoError(t, tree.Push(record{A: 1, B: 2.0}))
	require.NoError(t, tree.Push(record{A: 3, B: 4.0}))
	assert.Equal(t, 2, tree.NumRows())

	arrays, err := tree.ToArrays()
	require.NoError(t, err)
	require.Len(t, arrays, 2)
	assert.Equal(t, []uint8{1, 3}, arrays[0].(*serdearrow.PrimitiveArray[uint8]).Values)
	assert.Equal(t, []float32{2, 4}, arrays[1].(*serdearrow.PrimitiveArray[float32]).Values)
	assert.Equal(t, 0, tree.NumRows())
}

func TestTreePushMapRecord(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "a", Type: serdearrow.PrimitiveTypes.Int64},
		{Name: "b", Type: serdearrow.BinaryTypes.String, Nullable: true},
	}
	tree, err := NewTree(schema)
	require.NoError(t, err)

	require.NoError(t, tree.Push(map[string]any{"a": 1, "b": "x"}))
	// a missing nullable column becomes null
	require.NoError(t, tree.Push(map[string]any{"a": 2}))

	arrays, err := tree.ToArrays()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, arrays[0].(*serdearrow.PrimitiveArray[int64]).Values)
	assert.Equal(t, 1, arrays[1].NullN())
}

func TestTreeFieldNameFallback(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "Value", Type: serdearrow.PrimitiveTypes.Int64},
	}
	tree, err := NewTree(schema)
	require.NoError(t, err)

	type record struct {
		Value   int64
		Ignored string `arrow:"-"`
	}
	require.NoError(t, tree.Push(record{Value: 7, Ignored: "x"}))
	arrays, err := tree.ToArrays()
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, arrays[0].(*serdearrow.PrimitiveArray[int64]).Values)
}

func TestTreeExtend(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "n", Type: serdearrow.PrimitiveTypes.Int64},
	}
	tree, err := NewTree(schema)
	require.NoError(t, err)

	type record struct {
		N int64 `arrow:"n"`
	}
	require.NoError(t, tree.Extend([]record{{1}, {2}, {3}}))
	assert.Equal(t, 3, tree.NumRows())

	err = tree.Extend(record{4})
	assert.ErrorIs(t, err, serdearrow.ErrShapeMismatch)
}

func TestTreeNestedRecords(t *testing.T) {
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
	}
	tree, err := NewTree(schema)
	require.NoError(t, err)

	type point struct {
		X float64 `arrow:"x"`
		Y float64 `arrow:"y"`
	}
	type record struct {
		Name   string  `arrow:"name"`
		Points []point `arrow:"points"`
	}
	require.NoError(t, tree.Push(record{Name: "a", Points: []point{{1, 2}, {3, 4}}}))
	require.NoError(t, tree.Push(record{Name: "b", Points: []point{}}))

	arrays, err := tree.ToArrays()
	require.NoError(t, err)
	list := arrays[1].(*serdearrow.ListArray[int32])
	assert.Equal(t, []int32{0, 2, 2}, list.Offsets)
	xs := list.Elem.(*serdearrow.StructArray).Children[0].(*serdearrow.PrimitiveArray[float64])
	assert.Equal(t, []float64{1, 3}, xs.Values)
}

func TestTreeNilSliceIsNull(t *testing.T) {
	schema := serdearrow.Schema{
		{
			Name:     "xs",
			Nullable: true,
			Type: serdearrow.ListOfField(
				serdearrow.Field{Name: "element", Type: serdearrow.PrimitiveTypes.Int64}),
		},
	}
	tree, err := NewTree(schema)
	require.NoError(t, err)

	type record struct {
		Xs []int64 `arrow:"xs"`
	}
	require.NoError(t, tree.Push(record{Xs: nil}))
	require.NoError(t, tree.Push(record{Xs: []int64{1}}))

	arrays, err := tree.ToArrays()
	require.NoError(t, err)
	assert.Equal(t, 1, arrays[0].NullN())
}

func TestTreeUnionVariants(t *testing.T) {
	schema := serdearrow.Schema{
		{
			Name: "value",
			Type: serdearrow.UnionOf(
				serdearrow.Field{Name: "Int", Type: serdearrow.PrimitiveTypes.Int64},
				serdearrow.Field{Name: "Str", Type: serdearrow.BinaryTypes.String},
			),
		},
	}
	tree, err := NewTree(schema)
	require.NoError(t, err)

	type record struct {
		Value Variant `arrow:"value"`
	}
	require.NoError(t, tree.Push(record{Value: Variant{Name: "Int", Value: int64(21)}}))
	require.NoError(t, tree.Push(record{Value: Variant{Index: 1, Value: "hi"}}))
	require.NoError(t, tree.Push(record{Value: Variant{Name: "Int", Value: int64(13)}}))

	err = tree.Push(record{Value: Variant{Name: "Nope", Value: 1}})
	assert.ErrorIs(t, err, serdearrow.ErrValue)

	_, err = tree.ToArrays()
	require.Error(t, err) // the failed push dirtied the batch
}

func TestTreeBytesColumn(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "raw", Type: serdearrow.BinaryTypes.Binary},
		{Name: "id", Type: &serdearrow.FixedSizeBinaryType{ByteWidth: 4}},
	}
	tree, err := NewTree(schema)
	require.NoError(t, err)

	type record struct {
		Raw []byte  `arrow:"raw"`
		ID  [4]byte `arrow:"id"`
	}
	require.NoError(t, tree.Push(record{Raw: []byte{1, 2}, ID: [4]byte{9, 9, 9, 9}}))

	arrays, err := tree.ToArrays()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, arrays[0].(*serdearrow.BinaryArray[int32]).Data)
	assert.Equal(t, []byte{9, 9, 9, 9}, arrays[1].(*serdearrow.FixedSizeBinaryArray).Data)
}

func TestTreeTimeColumn(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "at", Type: &serdearrow.TimestampType{Unit: serdearrow.Millisecond, TimeZone: "UTC"}},
	}
	tree, err := NewTree(schema)
	require.NoError(t, err)

	type record struct {
		At time.Time `arrow:"at"`
	}
	at := time.Date(2015, 9, 18, 23, 56, 4, 0, time.UTC)
	require.NoError(t, tree.Push(record{At: at}))

	arrays, err := tree.ToArrays()
	require.NoError(t, err)
	assert.Equal(t, []int64{at.UnixMilli()}, arrays[0].(*serdearrow.PrimitiveArray[int64]).Values)
}

func TestTreeDirtyAfterError(t *testing.T) {
	schema := serdearrow.Schema{
		{Name: "n", Type: serdearrow.PrimitiveTypes.Uint8},
	}
	tree, err := NewTree(schema)
	require.NoError(t, err)

	type record struct {
		N int64 `arrow:"n"`
	}
	require.NoError(t, tree.Push(record{N: 1}))
	require.Error(t, tree.Push(record{N: 500}))

	// every call fails until the batch is discarded
	assert.ErrorIs(t, tree.Push(record{N: 2}), serdearrow.ErrShapeMismatch)
	_, err = tree.ToArrays()
	assert.ErrorIs(t, err, serdearrow.ErrShapeMismatch)

	// the discard resets the tree for new rows
	require.NoError(t, tree.Push(record{N: 3}))
	arrays, err := tree.ToArrays()
	require.NoError(t, err)
	assert.Equal(t, []uint8{3}, arrays[0].(*serdearrow.PrimitiveArray[uint8]).Values)
}

func TestTreeRejectsBadSchema(t *testing.T) {
	_, err := NewTree(serdearrow.Schema{
		{Name: "a", Type: serdearrow.PrimitiveTypes.Int64},
		{Name: "a", Type: serdearrow.PrimitiveTypes.Int64},
	})
	assert.ErrorIs(t, err, serdearrow.ErrSchema)
}

func TestTreeTupleStrategy(t *testing.T) {
	schema := serdearrow.Schema{
		{
			Name:     "pair",
			Strategy: serdearrow.TupleAsStruct,
			Type: serdearrow.StructOf(
				serdearrow.Field{Name: "0", Type: serdearrow.PrimitiveTypes.Int64},
				serdearrow.Field{Name: "1", Type: serdearrow.BinaryTypes.String},
			),
		},
	}
	tree, err := NewTree(schema)
	require.NoError(t, err)

	type record struct {
		Pair []any `arrow:"pair"`
	}
	require.NoError(t, tree.Push(record{Pair: []any{int64(1), "one"}}))
	require.Error(t, tree.Push(record{Pair: []any{int64(2)}}))
}
