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

	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/decimal128"
	"github.com/chmp/serde-arrow-sub003/float16"
)

// ViewFrom borrows an arrow-go array as an engine view. No buffer is
// copied except the narrow per-element conversions (float16, decimal128);
// the array must stay alive for the view's lifetime. Sliced nested arrays
// (struct, fixed-size list, union, map with a non-zero offset) are not
// supported; slice offsets on primitive and variable-length columns are.
func ViewFrom(arr arrow.Array) (serdearrow.View, error) {
	return viewFromData(arr.Data())
}

// RecordFrom borrows all columns of an arrow-go record, returning the
// engine schema and one view per field.
func RecordFrom(rec arrow.Record) (serdearrow.Schema, []serdearrow.View, error) {
	schema, err := SchemaFrom(rec.Schema())
	if err != nil {
		return nil, nil, err
	}
	views := make([]serdearrow.View, rec.NumCols())
	for i := range views {
		v, err := ViewFrom(rec.Column(i))
		if err != nil {
			return nil, nil, serdearrow.WithPath(err, schema[i].Name)
		}
		views[i] = v
	}
	return schema, views, nil
}

func bitmapFrom(d arrow.ArrayData) *serdearrow.Bitmap {
	if d.NullN() == 0 || len(d.Buffers()) == 0 || d.Buffers()[0] == nil {
		return nil
	}
	return &serdearrow.Bitmap{Bytes: d.Buffers()[0].Bytes(), Offset: d.Offset()}
}

func metaFrom(md arrow.Metadata) map[string]string {
	if md.Len() == 0 {
		return nil
	}
	out := make(map[string]string, md.Len())
	for i, k := range md.Keys() {
		if k == strategyKey {
			continue
		}
		out[k] = md.Values()[i]
	}
	return out
}

func fieldMetaFrom(f arrow.Field) serdearrow.FieldMeta {
	return serdearrow.FieldMeta{
		Name:     f.Name,
		Nullable: f.Nullable,
		Metadata: metaFrom(f.Metadata),
	}
}

func errSliced(dt arrow.DataType) error {
	return serdearrow.LayoutErrorf(nil,
		"sliced %s arrays cannot be borrowed, copy the array first", dt)
}

func viewFromData(d arrow.ArrayData) (serdearrow.View, error) {
	off, n := d.Offset(), d.Len()

	switch dt := d.DataType().(type) {
	case *arrow.NullType:
		return &serdearrow.NullView{N: n}, nil

	case *arrow.BooleanType:
		return &serdearrow.BooleanView{
			N:        n,
			Values:   serdearrow.Bitmap{Bytes: d.Buffers()[1].Bytes(), Offset: off},
			Validity: bitmapFrom(d),
		}, nil

	case *arrow.Int8Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Int8, arrow.Int8Traits.CastFromBytes), nil
	case *arrow.Int16Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Int16, arrow.Int16Traits.CastFromBytes), nil
	case *arrow.Int32Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Int32, arrow.Int32Traits.CastFromBytes), nil
	case *arrow.Int64Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Int64, arrow.Int64Traits.CastFromBytes), nil
	case *arrow.Uint8Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Uint8, arrow.Uint8Traits.CastFromBytes), nil
	case *arrow.Uint16Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Uint16, arrow.Uint16Traits.CastFromBytes), nil
	case *arrow.Uint32Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Uint32, arrow.Uint32Traits.CastFromBytes), nil
	case *arrow.Uint64Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Uint64, arrow.Uint64Traits.CastFromBytes), nil
	case *arrow.Float32Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Float32, arrow.Float32Traits.CastFromBytes), nil
	case *arrow.Float64Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Float64, arrow.Float64Traits.CastFromBytes), nil

	case *arrow.Date32Type:
		return primitiveView(d, serdearrow.FixedWidthTypes.Date32, arrow.Int32Traits.CastFromBytes), nil
	case *arrow.Date64Type:
		return primitiveView(d, serdearrow.FixedWidthTypes.Date64, arrow.Int64Traits.CastFromBytes), nil
	case *arrow.Time32Type:
		return primitiveView(d, &serdearrow.Time32Type{Unit: unitFrom(dt.Unit)}, arrow.Int32Traits.CastFromBytes), nil
	case *arrow.Time64Type:
		return primitiveView(d, &serdearrow.Time64Type{Unit: unitFrom(dt.Unit)}, arrow.Int64Traits.CastFromBytes), nil
	case *arrow.DurationType:
		return primitiveView(d, &serdearrow.DurationType{Unit: unitFrom(dt.Unit)}, arrow.Int64Traits.CastFromBytes), nil
	case *arrow.TimestampType:
		return primitiveView(d,
			&serdearrow.TimestampType{Unit: unitFrom(dt.Unit), TimeZone: dt.TimeZone},
			arrow.Int64Traits.CastFromBytes), nil

	case *arrow.Float16Type:
		raw := arrow.Float16Traits.CastFromBytes(d.Buffers()[1].Bytes())[off : off+n]
		values := make([]float16.Num, n)
		for i, v := range raw {
			values[i] = float16.Num{Val: v.Uint16()}
		}
		return &serdearrow.Float16View{Values: values, Validity: bitmapFrom(d)}, nil

	case *arrow.Decimal128Type:
		raw := arrow.Decimal128Traits.CastFromBytes(d.Buffers()[1].Bytes())[off : off+n]
		values := make([]decimal128.Num, n)
		for i, v := range raw {
			values[i] = decimal128.New(v.HighBits(), v.LowBits())
		}
		return &serdearrow.Decimal128View{
			Precision: dt.Precision,
			Scale:     dt.Scale,
			Values:    values,
			Validity:  bitmapFrom(d),
		}, nil

	case *arrow.StringType:
		offsets := arrow.Int32Traits.CastFromBytes(d.Buffers()[1].Bytes())[off : off+n+1]
		return &serdearrow.StringView[int32]{
			Offsets:  offsets,
			Data:     d.Buffers()[2].Bytes(),
			Validity: bitmapFrom(d),
		}, nil
	case *arrow.LargeStringType:
		offsets := arrow.Int64Traits.CastFromBytes(d.Buffers()[1].Bytes())[off : off+n+1]
		return &serdearrow.StringView[int64]{
			Offsets:  offsets,
			Data:     d.Buffers()[2].Bytes(),
			Validity: bitmapFrom(d),
		}, nil
	case *arrow.BinaryType:
		offsets := arrow.Int32Traits.CastFromBytes(d.Buffers()[1].Bytes())[off : off+n+1]
		return &serdearrow.BinaryView[int32]{
			Offsets:  offsets,
			Data:     d.Buffers()[2].Bytes(),
			Validity: bitmapFrom(d),
		}, nil
	case *arrow.LargeBinaryType:
		offsets := arrow.Int64Traits.CastFromBytes(d.Buffers()[1].Bytes())[off : off+n+1]
		return &serdearrow.BinaryView[int64]{
			Offsets:  offsets,
			Data:     d.Buffers()[2].Bytes(),
			Validity: bitmapFrom(d),
		}, nil
	case *arrow.FixedSizeBinaryType:
		data := d.Buffers()[1].Bytes()[off*dt.ByteWidth : (off+n)*dt.ByteWidth]
		return &serdearrow.FixedSizeBinaryView{
			ByteWidth: dt.ByteWidth,
			Data:      data,
			Validity:  bitmapFrom(d),
		}, nil

	case *arrow.ListType:
		elem, err := viewFromData(d.Children()[0])
		if err != nil {
			return nil, err
		}
		offsets := arrow.Int32Traits.CastFromBytes(d.Buffers()[1].Bytes())[off : off+n+1]
		return &serdearrow.ListView[int32]{
			ElemMeta: fieldMetaFrom(dt.ElemField()),
			Elem:     elem,
			Offsets:  offsets,
			Validity: bitmapFrom(d),
		}, nil
	case *arrow.LargeListType:
		elem, err := viewFromData(d.Children()[0])
		if err != nil {
			return nil, err
		}
		offsets := arrow.Int64Traits.CastFromBytes(d.Buffers()[1].Bytes())[off : off+n+1]
		return &serdearrow.ListView[int64]{
			ElemMeta: fieldMetaFrom(dt.ElemField()),
			Elem:     elem,
			Offsets:  offsets,
			Validity: bitmapFrom(d),
		}, nil

	case *arrow.FixedSizeListType:
		if off != 0 {
			return nil, errSliced(dt)
		}
		elem, err := viewFromData(d.Children()[0])
		if err != nil {
			return nil, err
		}
		return &serdearrow.FixedSizeListView{
			N:        dt.Len(),
			ElemMeta: fieldMetaFrom(dt.ElemField()),
			Elem:     elem,
			Validity: bitmapFrom(d),
		}, nil

	case *arrow.StructType:
		if off != 0 {
			return nil, errSliced(dt)
		}
		metas := make([]serdearrow.FieldMeta, dt.NumFields())
		children := make([]serdearrow.View, dt.NumFields())
		for i := 0; i < dt.NumFields(); i++ {
			child, err := viewFromData(d.Children()[i])
			if err != nil {
				return nil, serdearrow.WithPath(err, dt.Field(i).Name)
			}
			metas[i] = fieldMetaFrom(dt.Field(i))
			children[i] = child
		}
		return &serdearrow.StructView{
			N:        n,
			Fields:   metas,
			Children: children,
			Validity: bitmapFrom(d),
		}, nil

	case *arrow.MapType:
		if off != 0 {
			return nil, errSliced(dt)
		}
		entries := d.Children()[0]
		keys, err := viewFromData(entries.Children()[0])
		if err != nil {
			return nil, err
		}
		items, err := viewFromData(entries.Children()[1])
		if err != nil {
			return nil, err
		}
		offsets := arrow.Int32Traits.CastFromBytes(d.Buffers()[1].Bytes())[: n+1]
		return &serdearrow.MapView{
			KeyMeta:  fieldMetaFrom(dt.KeyField()),
			ItemMeta: fieldMetaFrom(dt.ItemField()),
			Keys:     keys,
			Items:    items,
			Offsets:  offsets,
			Validity: bitmapFrom(d),
		}, nil

	case *arrow.DenseUnionType:
		if off != 0 {
			return nil, errSliced(dt)
		}
		metas := make([]serdearrow.FieldMeta, len(dt.Fields()))
		variants := make([]serdearrow.View, len(dt.Fields()))
		for i, f := range dt.Fields() {
			child, err := viewFromData(d.Children()[i])
			if err != nil {
				return nil, serdearrow.WithPath(err, f.Name)
			}
			metas[i] = fieldMetaFrom(f)
			variants[i] = child
		}
		return &serdearrow.DenseUnionView{
			VariantMetas: metas,
			Variants:     variants,
			TypeIDs:      arrow.Int8Traits.CastFromBytes(d.Buffers()[1].Bytes())[:n],
			Offsets:      arrow.Int32Traits.CastFromBytes(d.Buffers()[2].Bytes())[:n],
		}, nil

	case *arrow.DictionaryType:
		indices, err := dictionaryIndices(d, dt)
		if err != nil {
			return nil, err
		}
		values, err := viewFromData(d.Dictionary())
		if err != nil {
			return nil, err
		}
		return &serdearrow.DictionaryView{Indices: indices, Values: values}, nil
	}
	return nil, serdearrow.LayoutErrorf(nil, "cannot borrow %s arrays", d.DataType())
}

func primitiveView[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64](d arrow.ArrayData, dt serdearrow.DataType, cast func([]byte) []T) *serdearrow.PrimitiveView[T] {
	off, n := d.Offset(), d.Len()
	return &serdearrow.PrimitiveView[T]{
		Type:     dt,
		Values:   cast(d.Buffers()[1].Bytes())[off : off+n],
		Validity: bitmapFrom(d),
	}
}

// dictionaryIndices views the index buffer of a dictionary array with the
// declared index type.
func dictionaryIndices(d arrow.ArrayData, dt *arrow.DictionaryType) (serdearrow.View, error) {
	switch dt.IndexType.(type) {
	case *arrow.Int8Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Int8, arrow.Int8Traits.CastFromBytes), nil
	case *arrow.Int16Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Int16, arrow.Int16Traits.CastFromBytes), nil
	case *arrow.Int32Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Int32, arrow.Int32Traits.CastFromBytes), nil
	case *arrow.Int64Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Int64, arrow.Int64Traits.CastFromBytes), nil
	case *arrow.Uint8Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Uint8, arrow.Uint8Traits.CastFromBytes), nil
	case *arrow.Uint16Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Uint16, arrow.Uint16Traits.CastFromBytes), nil
	case *arrow.Uint32Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Uint32, arrow.Uint32Traits.CastFromBytes), nil
	case *arrow.Uint64Type:
		return primitiveView(d, serdearrow.PrimitiveTypes.Uint64, arrow.Uint64Traits.CastFromBytes), nil
	}
	return nil, serdearrow.LayoutErrorf(nil, "unsupported dictionary index type %s", dt.IndexType)
}
