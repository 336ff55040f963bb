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
	"golang.org/x/exp/constraints"

	"github.com/chmp/serde-arrow-sub003/decimal128"
	"github.com/chmp/serde-arrow-sub003/float16"
)

// View is a borrowed, read-only description of Arrow memory owned
// elsewhere. The validity bitmap carries its own bit offset, so a sliced
// array can be viewed without copying. Views mirror the Array variants
// one to one.
type View interface {
	DataType() DataType
	Len() int
}

type NullView struct {
	N int
}

func (v *NullView) DataType() DataType { return NullDataType }
func (v *NullView) Len() int           { return v.N }

type BooleanView struct {
	N        int
	Values   Bitmap
	Validity *Bitmap
}

func (v *BooleanView) DataType() DataType { return FixedWidthTypes.Boolean }
func (v *BooleanView) Len() int           { return v.N }

type PrimitiveView[T constraints.Integer | constraints.Float] struct {
	Type     DataType
	Values   []T
	Validity *Bitmap
}

func (v *PrimitiveView[T]) DataType() DataType { return v.Type }
func (v *PrimitiveView[T]) Len() int           { return len(v.Values) }

type Float16View struct {
	Values   []float16.Num
	Validity *Bitmap
}

func (v *Float16View) DataType() DataType { return PrimitiveTypes.Float16 }
func (v *Float16View) Len() int           { return len(v.Values) }

type Decimal128View struct {
	Precision int32
	Scale     int32
	Values    []decimal128.Num
	Validity  *Bitmap
}

func (v *Decimal128View) DataType() DataType {
	return &Decimal128Type{Precision: v.Precision, Scale: v.Scale}
}
func (v *Decimal128View) Len() int { return len(v.Values) }

type StringView[O OffsetType] struct {
	Offsets  []O
	Data     []byte
	Validity *Bitmap
}

func (v *StringView[O]) DataType() DataType {
	if offsetIs64[O]() {
		return BinaryTypes.LargeString
	}
	return BinaryTypes.String
}
func (v *StringView[O]) Len() int { return len(v.Offsets) - 1 }

type BinaryView[O OffsetType] struct {
	Offsets  []O
	Data     []byte
	Validity *Bitmap
}

func (v *BinaryView[O]) DataType() DataType {
	if offsetIs64[O]() {
		return BinaryTypes.LargeBinary
	}
	return BinaryTypes.Binary
}
func (v *BinaryView[O]) Len() int { return len(v.Offsets) - 1 }

type FixedSizeBinaryView struct {
	ByteWidth int
	Data      []byte
	Validity  *Bitmap
}

func (v *FixedSizeBinaryView) DataType() DataType {
	return &FixedSizeBinaryType{ByteWidth: v.ByteWidth}
}
func (v *FixedSizeBinaryView) Len() int { return len(v.Data) / v.ByteWidth }

type ListView[O OffsetType] struct {
	ElemMeta FieldMeta
	Elem     View
	Offsets  []O
	Validity *Bitmap
}

func (v *ListView[O]) DataType() DataType {
	elem := v.ElemMeta.Field(v.Elem.DataType())
	if offsetIs64[O]() {
		return LargeListOfField(elem)
	}
	return ListOfField(elem)
}
func (v *ListView[O]) Len() int { return len(v.Offsets) - 1 }

type FixedSizeListView struct {
	N        int32
	ElemMeta FieldMeta
	Elem     View
	Validity *Bitmap
}

func (v *FixedSizeListView) DataType() DataType {
	return FixedSizeListOfField(v.N, v.ElemMeta.Field(v.Elem.DataType()))
}
func (v *FixedSizeListView) Len() int { return v.Elem.Len() / int(v.N) }

type StructView struct {
	N        int
	Fields   []FieldMeta
	Children []View
	Validity *Bitmap
}

func (v *StructView) DataType() DataType {
	fields := make([]Field, len(v.Children))
	for i, c := range v.Children {
		fields[i] = v.Fields[i].Field(c.DataType())
	}
	return StructOf(fields...)
}
func (v *StructView) Len() int { return v.N }

type MapView struct {
	KeyMeta  FieldMeta
	ItemMeta FieldMeta
	Keys     View
	Items    View
	Offsets  []int32
	Validity *Bitmap
}

func (v *MapView) DataType() DataType {
	return MapOfFields(v.KeyMeta.Field(v.Keys.DataType()), v.ItemMeta.Field(v.Items.DataType()))
}
func (v *MapView) Len() int { return len(v.Offsets) - 1 }

type DenseUnionView struct {
	VariantMetas []FieldMeta
	Variants     []View
	TypeIDs      []int8
	Offsets      []int32
}

func (v *DenseUnionView) DataType() DataType {
	fields := make([]Field, len(v.Variants))
	for i, c := range v.Variants {
		fields[i] = v.VariantMetas[i].Field(c.DataType())
	}
	return UnionOf(fields...)
}
func (v *DenseUnionView) Len() int { return len(v.TypeIDs) }

type DictionaryView struct {
	Indices View
	Values  View
}

func (v *DictionaryView) DataType() DataType {
	return &DictionaryType{IndexType: v.Indices.DataType(), ValueType: v.Values.DataType()}
}
func (v *DictionaryView) Len() int { return v.Indices.Len() }

var (
	_ View = (*NullView)(nil)
	_ View = (*BooleanView)(nil)
	_ View = (*PrimitiveView[int64])(nil)
	_ View = (*Float16View)(nil)
	_ View = (*Decimal128View)(nil)
	_ View = (*StringView[int32])(nil)
	_ View = (*BinaryView[int64])(nil)
	_ View = (*FixedSizeBinaryView)(nil)
	_ View = (*ListView[int32])(nil)
	_ View = (*FixedSizeListView)(nil)
	_ View = (*StructView)(nil)
	_ View = (*MapView)(nil)
	_ View = (*DenseUnionView)(nil)
	_ View = (*DictionaryView)(nil)
)
