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
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/float16"
	"github.com/apache/arrow-go/v18/arrow/memory"

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// ArrayTo converts an engine array into an arrow-go array. The engine's
// buffers are wrapped, not copied; the returned array must be Released by
// the caller.
func ArrayTo(field serdearrow.Field, arr serdearrow.Array) (arrow.Array, error) {
	data, err := dataTo(field, arr)
	if err != nil {
		return nil, serdearrow.WithPath(err, field.Name)
	}
	defer data.Release()
	return array.MakeFromData(data), nil
}

// RecordTo assembles one arrow-go record from the schema and one engine
// array per field. The record must be Released by the caller.
func RecordTo(schema serdearrow.Schema, arrays []serdearrow.Array) (arrow.Record, error) {
	if len(arrays) != len(schema) {
		return nil, serdearrow.SchemaErrorf(
			"%d arrays for a schema with %d fields", len(arrays), len(schema))
	}
	as, err := SchemaTo(schema)
	if err != nil {
		return nil, err
	}
	rows := int64(0)
	cols := make([]arrow.Array, len(arrays))
	defer func() {
		for _, c := range cols {
			if c != nil {
				c.Release()
			}
		}
	}()
	for i, a := range arrays {
		col, err := ArrayTo(schema[i], a)
		if err != nil {
			return nil, err
		}
		cols[i] = col
		if i == 0 {
			rows = int64(a.Len())
		}
	}
	return array.NewRecord(as, cols, rows), nil
}

func validityBuffer(bm *serdearrow.Bitmap, n int) (*memory.Buffer, int) {
	if bm == nil {
		return nil, 0
	}
	return memory.NewBufferBytes(bm.Bytes), n - bm.SetCount(n)
}

func dataTo(field serdearrow.Field, arr serdearrow.Array) (arrow.ArrayData, error) {
	dtype, err := typeTo(field.Type)
	if err != nil {
		return nil, err
	}

	switch a := arr.(type) {
	case *serdearrow.NullArray:
		return array.NewData(dtype, a.N, []*memory.Buffer{nil}, nil, a.N, 0), nil

	case *serdearrow.BooleanArray:
		validity, nulls := validityBuffer(a.Validity, a.N)
		return array.NewData(dtype, a.N,
			[]*memory.Buffer{validity, memory.NewBufferBytes(a.Values)}, nil, nulls, 0), nil

	case *serdearrow.PrimitiveArray[int8]:
		return primitiveData(dtype, arrow.Int8Traits.CastToBytes(a.Values), len(a.Values), a.Validity), nil
	case *serdearrow.PrimitiveArray[int16]:
		return primitiveData(dtype, arrow.Int16Traits.CastToBytes(a.Values), len(a.Values), a.Validity), nil
	case *serdearrow.PrimitiveArray[int32]:
		return primitiveData(dtype, arrow.Int32Traits.CastToBytes(a.Values), len(a.Values), a.Validity), nil
	case *serdearrow.PrimitiveArray[int64]:
		return primitiveData(dtype, arrow.Int64Traits.CastToBytes(a.Values), len(a.Values), a.Validity), nil
	case *serdearrow.PrimitiveArray[uint8]:
		return primitiveData(dtype, arrow.Uint8Traits.CastToBytes(a.Values), len(a.Values), a.Validity), nil
	case *serdearrow.PrimitiveArray[uint16]:
		return primitiveData(dtype, arrow.Uint16Traits.CastToBytes(a.Values), len(a.Values), a.Validity), nil
	case *serdearrow.PrimitiveArray[uint32]:
		return primitiveData(dtype, arrow.Uint32Traits.CastToBytes(a.Values), len(a.Values), a.Validity), nil
	case *serdearrow.PrimitiveArray[uint64]:
		return primitiveData(dtype, arrow.Uint64Traits.CastToBytes(a.Values), len(a.Values), a.Validity), nil
	case *serdearrow.PrimitiveArray[float32]:
		return primitiveData(dtype, arrow.Float32Traits.CastToBytes(a.Values), len(a.Values), a.Validity), nil
	case *serdearrow.PrimitiveArray[float64]:
		return primitiveData(dtype, arrow.Float64Traits.CastToBytes(a.Values), len(a.Values), a.Validity), nil

	case *serdearrow.Float16Array:
		values := make([]float16.Num, len(a.Values))
		for i, v := range a.Values {
			values[i] = float16.New(v.Float32())
		}
		return primitiveData(dtype, arrow.Float16Traits.CastToBytes(values), len(values), a.Validity), nil

	case *serdearrow.Decimal128Array:
		values := make([]decimal128.Num, len(a.Values))
		for i, v := range a.Values {
			values[i] = decimal128.New(v.HighBits(), v.LowBits())
		}
		return primitiveData(dtype, arrow.Decimal128Traits.CastToBytes(values), len(values), a.Validity), nil

	case *serdearrow.StringArray[int32]:
		return offsetsData(dtype, arrow.Int32Traits.CastToBytes(a.Offsets), a.Data, len(a.Offsets)-1, a.Validity), nil
	case *serdearrow.StringArray[int64]:
		return offsetsData(dtype, arrow.Int64Traits.CastToBytes(a.Offsets), a.Data, len(a.Offsets)-1, a.Validity), nil
	case *serdearrow.BinaryArray[int32]:
		return offsetsData(dtype, arrow.Int32Traits.CastToBytes(a.Offsets), a.Data, len(a.Offsets)-1, a.Validity), nil
	case *serdearrow.BinaryArray[int64]:
		return offsetsData(dtype, arrow.Int64Traits.CastToBytes(a.Offsets), a.Data, len(a.Offsets)-1, a.Validity), nil
	case *serdearrow.FixedSizeBinaryArray:
		n := len(a.Data) / a.ByteWidth
		validity, nulls := validityBuffer(a.Validity, n)
		return array.NewData(dtype, n,
			[]*memory.Buffer{validity, memory.NewBufferBytes(a.Data)}, nil, nulls, 0), nil

	case *serdearrow.ListArray[int32]:
		return listData(dtype, field, a.ElemMeta, a.Elem, arrow.Int32Traits.CastToBytes(a.Offsets), len(a.Offsets)-1, a.Validity)
	case *serdearrow.ListArray[int64]:
		return listData(dtype, field, a.ElemMeta, a.Elem, arrow.Int64Traits.CastToBytes(a.Offsets), len(a.Offsets)-1, a.Validity)

	case *serdearrow.FixedSizeListArray:
		elemField := a.ElemMeta.Field(a.Elem.DataType())
		child, err := dataTo(elemField, a.Elem)
		if err != nil {
			return nil, serdearrow.WithPath(err, elemField.Name)
		}
		defer child.Release()
		n := a.Elem.Len() / int(a.N)
		validity, nulls := validityBuffer(a.Validity, n)
		return array.NewData(dtype, n,
			[]*memory.Buffer{validity}, []arrow.ArrayData{child}, nulls, 0), nil

	case *serdearrow.StructArray:
		children := make([]arrow.ArrayData, len(a.Children))
		defer func() {
			for _, c := range children {
				if c != nil {
					c.Release()
				}
			}
		}()
		for i, c := range a.Children {
			cf := a.Fields[i].Field(c.DataType())
			child, err := dataTo(cf, c)
			if err != nil {
				return nil, serdearrow.WithPath(err, cf.Name)
			}
			children[i] = child
		}
		validity, nulls := validityBuffer(a.Validity, a.N)
		return array.NewData(dtype, a.N,
			[]*memory.Buffer{validity}, children, nulls, 0), nil

	case *serdearrow.MapArray:
		return mapData(dtype.(*arrow.MapType), a)

	case *serdearrow.DenseUnionArray:
		children := make([]arrow.ArrayData, len(a.Variants))
		defer func() {
			for _, c := range children {
				if c != nil {
					c.Release()
				}
			}
		}()
		for i, c := range a.Variants {
			cf := a.VariantMetas[i].Field(c.DataType())
			child, err := dataTo(cf, c)
			if err != nil {
				return nil, serdearrow.WithPath(err, cf.Name)
			}
			children[i] = child
		}
		return array.NewData(dtype, len(a.TypeIDs),
			[]*memory.Buffer{
				nil,
				memory.NewBufferBytes(arrow.Int8Traits.CastToBytes(a.TypeIDs)),
				memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(a.Offsets)),
			}, children, 0, 0), nil

	case *serdearrow.DictionaryArray:
		dt := field.Type.(*serdearrow.DictionaryType)
		indices, err := dataTo(serdearrow.Field{
			Name:     field.Name,
			Type:     dt.IndexType,
			Nullable: field.Nullable,
		}, a.Indices)
		if err != nil {
			return nil, err
		}
		defer indices.Release()
		values, err := dataTo(serdearrow.Field{Name: "values", Type: dt.ValueType}, a.Values)
		if err != nil {
			return nil, err
		}
		defer values.Release()
		data := array.NewData(dtype, a.Indices.Len(), indices.Buffers(), nil, indices.NullN(), 0)
		data.SetDictionary(values)
		return data, nil
	}
	return nil, serdearrow.SchemaErrorf("cannot export %s to arrow-go", arr.DataType())
}

func primitiveData(dtype arrow.DataType, valueBytes []byte, n int, bm *serdearrow.Bitmap) arrow.ArrayData {
	validity, nulls := validityBuffer(bm, n)
	return array.NewData(dtype, n,
		[]*memory.Buffer{validity, memory.NewBufferBytes(valueBytes)}, nil, nulls, 0)
}

func offsetsData(dtype arrow.DataType, offsetBytes, data []byte, n int, bm *serdearrow.Bitmap) arrow.ArrayData {
	validity, nulls := validityBuffer(bm, n)
	return array.NewData(dtype, n,
		[]*memory.Buffer{validity, memory.NewBufferBytes(offsetBytes), memory.NewBufferBytes(data)}, nil, nulls, 0)
}

func listData(dtype arrow.DataType, field serdearrow.Field, elemMeta serdearrow.FieldMeta, elem serdearrow.Array, offsetBytes []byte, n int, bm *serdearrow.Bitmap) (arrow.ArrayData, error) {
	elemField := elemMeta.Field(elem.DataType())
	child, err := dataTo(elemField, elem)
	if err != nil {
		return nil, serdearrow.WithPath(err, elemField.Name)
	}
	defer child.Release()
	validity, nulls := validityBuffer(bm, n)
	return array.NewData(dtype, n,
		[]*memory.Buffer{validity, memory.NewBufferBytes(offsetBytes)},
		[]arrow.ArrayData{child}, nulls, 0), nil
}

// mapData assembles the entries struct child and wraps it in the map's
// offset layout.
func mapData(mt *arrow.MapType, a *serdearrow.MapArray) (arrow.ArrayData, error) {
	keyField := a.KeyMeta.Field(a.Keys.DataType())
	keys, err := dataTo(keyField, a.Keys)
	if err != nil {
		return nil, serdearrow.WithPath(err, keyField.Name)
	}
	defer keys.Release()
	itemField := a.ItemMeta.Field(a.Items.DataType())
	items, err := dataTo(itemField, a.Items)
	if err != nil {
		return nil, serdearrow.WithPath(err, itemField.Name)
	}
	defer items.Release()

	entries := array.NewData(mt.Elem(), a.Keys.Len(),
		[]*memory.Buffer{nil}, []arrow.ArrayData{keys, items}, 0, 0)
	defer entries.Release()

	n := len(a.Offsets) - 1
	validity, nulls := validityBuffer(a.Validity, n)
	return array.NewData(mt, n,
		[]*memory.Buffer{validity, memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(a.Offsets))},
		[]arrow.ArrayData{entries}, nulls, 0), nil
}
