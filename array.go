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

// OffsetType constrains the integer width of an offset buffer: int32 for
// the regular variable-length types, int64 for their Large variants.
type OffsetType interface {
	int32 | int64
}

func offsetIs64[O OffsetType]() bool {
	_, ok := any(O(0)).(int64)
	return ok
}

// Array is an immutable columnar value produced by flushing a builder.
// Ownership of the underlying buffers transfers to the caller; the engine
// keeps no reference after the flush.
type Array interface {
	DataType() DataType
	Len() int
	// NullN returns the number of null rows.
	NullN() int
	// View borrows the array for reading.
	View() View
}

// NullArray is an all-null array with no physical storage.
type NullArray struct {
	N int
}

func (a *NullArray) DataType() DataType { return NullDataType }
func (a *NullArray) Len() int           { return a.N }
func (a *NullArray) NullN() int         { return a.N }
func (a *NullArray) View() View         { return &NullView{N: a.N} }

// BooleanArray stores one bit per row, LSB packed.
type BooleanArray struct {
	N        int
	Values   []byte
	Validity *Bitmap
}

func (a *BooleanArray) DataType() DataType { return FixedWidthTypes.Boolean }
func (a *BooleanArray) Len() int           { return a.N }
func (a *BooleanArray) NullN() int         { return a.N - a.Validity.SetCount(a.N) }
func (a *BooleanArray) View() View {
	return &BooleanView{N: a.N, Values: Bitmap{Bytes: a.Values}, Validity: a.Validity}
}

// PrimitiveArray stores fixed-width numeric values: the integer and float
// types plus the temporal types sharing their storage (date32/64, time32/64,
// timestamp, duration). Type retains the logical type.
type PrimitiveArray[T constraints.Integer | constraints.Float] struct {
	Type     DataType
	Values   []T
	Validity *Bitmap
}

func (a *PrimitiveArray[T]) DataType() DataType { return a.Type }
func (a *PrimitiveArray[T]) Len() int           { return len(a.Values) }
func (a *PrimitiveArray[T]) NullN() int         { return len(a.Values) - a.Validity.SetCount(len(a.Values)) }
func (a *PrimitiveArray[T]) View() View {
	return &PrimitiveView[T]{Type: a.Type, Values: a.Values, Validity: a.Validity}
}

// Float16Array stores half-precision floats.
type Float16Array struct {
	Values   []float16.Num
	Validity *Bitmap
}

func (a *Float16Array) DataType() DataType { return PrimitiveTypes.Float16 }
func (a *Float16Array) Len() int           { return len(a.Values) }
func (a *Float16Array) NullN() int         { return len(a.Values) - a.Validity.SetCount(len(a.Values)) }
func (a *Float16Array) View() View {
	return &Float16View{Values: a.Values, Validity: a.Validity}
}

// Decimal128Array stores 128-bit decimals scaled by 10^Scale.
type Decimal128Array struct {
	Precision int32
	Scale     int32
	Values    []decimal128.Num
	Validity  *Bitmap
}

func (a *Decimal128Array) DataType() DataType {
	return &Decimal128Type{Precision: a.Precision, Scale: a.Scale}
}
func (a *Decimal128Array) Len() int   { return len(a.Values) }
func (a *Decimal128Array) NullN() int { return len(a.Values) - a.Validity.SetCount(len(a.Values)) }
func (a *Decimal128Array) View() View {
	return &Decimal128View{
		Precision: a.Precision, Scale: a.Scale,
		Values: a.Values, Validity: a.Validity,
	}
}

// StringArray stores UTF-8 strings: concatenated bytes delimited by
// len(array)+1 monotonic offsets.
type StringArray[O OffsetType] struct {
	Offsets  []O
	Data     []byte
	Validity *Bitmap
}

func (a *StringArray[O]) DataType() DataType {
	if offsetIs64[O]() {
		return BinaryTypes.LargeString
	}
	return BinaryTypes.String
}
func (a *StringArray[O]) Len() int   { return len(a.Offsets) - 1 }
func (a *StringArray[O]) NullN() int { return a.Len() - a.Validity.SetCount(a.Len()) }
func (a *StringArray[O]) View() View {
	return &StringView[O]{Offsets: a.Offsets, Data: a.Data, Validity: a.Validity}
}

// BinaryArray stores arbitrary byte strings with the same layout as
// StringArray.
type BinaryArray[O OffsetType] struct {
	Offsets  []O
	Data     []byte
	Validity *Bitmap
}

func (a *BinaryArray[O]) DataType() DataType {
	if offsetIs64[O]() {
		return BinaryTypes.LargeBinary
	}
	return BinaryTypes.Binary
}
func (a *BinaryArray[O]) Len() int   { return len(a.Offsets) - 1 }
func (a *BinaryArray[O]) NullN() int { return a.Len() - a.Validity.SetCount(a.Len()) }
func (a *BinaryArray[O]) View() View {
	return &BinaryView[O]{Offsets: a.Offsets, Data: a.Data, Validity: a.Validity}
}

// FixedSizeBinaryArray stores byte strings of exactly ByteWidth bytes each.
type FixedSizeBinaryArray struct {
	ByteWidth int
	Data      []byte
	Validity  *Bitmap
}

func (a *FixedSizeBinaryArray) DataType() DataType {
	return &FixedSizeBinaryType{ByteWidth: a.ByteWidth}
}
func (a *FixedSizeBinaryArray) Len() int   { return len(a.Data) / a.ByteWidth }
func (a *FixedSizeBinaryArray) NullN() int { return a.Len() - a.Validity.SetCount(a.Len()) }
func (a *FixedSizeBinaryArray) View() View {
	return &FixedSizeBinaryView{ByteWidth: a.ByteWidth, Data: a.Data, Validity: a.Validity}
}

// ListArray stores per row a variable-length span of the Elem child,
// delimited by len(array)+1 monotonic offsets.
type ListArray[O OffsetType] struct {
	ElemMeta FieldMeta
	Elem     Array
	Offsets  []O
	Validity *Bitmap
}

func (a *ListArray[O]) DataType() DataType {
	elem := a.ElemMeta.Field(a.Elem.DataType())
	if offsetIs64[O]() {
		return LargeListOfField(elem)
	}
	return ListOfField(elem)
}
func (a *ListArray[O]) Len() int   { return len(a.Offsets) - 1 }
func (a *ListArray[O]) NullN() int { return a.Len() - a.Validity.SetCount(a.Len()) }
func (a *ListArray[O]) View() View {
	return &ListView[O]{
		ElemMeta: a.ElemMeta, Elem: a.Elem.View(),
		Offsets: a.Offsets, Validity: a.Validity,
	}
}

// FixedSizeListArray stores exactly N child rows per row.
type FixedSizeListArray struct {
	N        int32
	ElemMeta FieldMeta
	Elem     Array
	Validity *Bitmap
}

func (a *FixedSizeListArray) DataType() DataType {
	return FixedSizeListOfField(a.N, a.ElemMeta.Field(a.Elem.DataType()))
}
func (a *FixedSizeListArray) Len() int   { return a.Elem.Len() / int(a.N) }
func (a *FixedSizeListArray) NullN() int { return a.Len() - a.Validity.SetCount(a.Len()) }
func (a *FixedSizeListArray) View() View {
	return &FixedSizeListView{
		N: a.N, ElemMeta: a.ElemMeta, Elem: a.Elem.View(), Validity: a.Validity,
	}
}

// StructArray stores one child array per field; all children have the same
// length as the struct itself.
type StructArray struct {
	N        int
	Fields   []FieldMeta
	Children []Array
	Validity *Bitmap
}

func (a *StructArray) DataType() DataType {
	fields := make([]Field, len(a.Children))
	for i, c := range a.Children {
		fields[i] = a.Fields[i].Field(c.DataType())
	}
	return StructOf(fields...)
}
func (a *StructArray) Len() int   { return a.N }
func (a *StructArray) NullN() int { return a.N - a.Validity.SetCount(a.N) }
func (a *StructArray) View() View {
	children := make([]View, len(a.Children))
	for i, c := range a.Children {
		children[i] = c.View()
	}
	return &StructView{N: a.N, Fields: a.Fields, Children: children, Validity: a.Validity}
}

// MapArray stores per row a variable number of key/value entries.
type MapArray struct {
	KeyMeta  FieldMeta
	ItemMeta FieldMeta
	Keys     Array
	Items    Array
	Offsets  []int32
	Validity *Bitmap
}

func (a *MapArray) DataType() DataType {
	return MapOfFields(a.KeyMeta.Field(a.Keys.DataType()), a.ItemMeta.Field(a.Items.DataType()))
}
func (a *MapArray) Len() int   { return len(a.Offsets) - 1 }
func (a *MapArray) NullN() int { return a.Len() - a.Validity.SetCount(a.Len()) }
func (a *MapArray) View() View {
	return &MapView{
		KeyMeta: a.KeyMeta, ItemMeta: a.ItemMeta,
		Keys: a.Keys.View(), Items: a.Items.View(),
		Offsets: a.Offsets, Validity: a.Validity,
	}
}

// DenseUnionArray stores per row a type id selecting a variant and an
// offset into that variant's child array. There is no validity bitmap;
// union nulls are expressed through a Null-typed variant.
type DenseUnionArray struct {
	VariantMetas []FieldMeta
	Variants     []Array
	TypeIDs      []int8
	Offsets      []int32
}

func (a *DenseUnionArray) DataType() DataType {
	fields := make([]Field, len(a.Variants))
	for i, v := range a.Variants {
		fields[i] = a.VariantMetas[i].Field(v.DataType())
	}
	return UnionOf(fields...)
}
func (a *DenseUnionArray) Len() int   { return len(a.TypeIDs) }
func (a *DenseUnionArray) NullN() int { return 0 }
func (a *DenseUnionArray) View() View {
	variants := make([]View, len(a.Variants))
	for i, v := range a.Variants {
		variants[i] = v.View()
	}
	return &DenseUnionView{
		VariantMetas: a.VariantMetas, Variants: variants,
		TypeIDs: a.TypeIDs, Offsets: a.Offsets,
	}
}

// DictionaryArray stores integer indices into a shared value array. The
// validity of a row lives on the index array.
type DictionaryArray struct {
	Indices Array
	Values  Array
}

func (a *DictionaryArray) DataType() DataType {
	return &DictionaryType{IndexType: a.Indices.DataType(), ValueType: a.Values.DataType()}
}
func (a *DictionaryArray) Len() int   { return a.Indices.Len() }
func (a *DictionaryArray) NullN() int { return a.Indices.NullN() }
func (a *DictionaryArray) View() View {
	return &DictionaryView{Indices: a.Indices.View(), Values: a.Values.View()}
}

var (
	_ Array = (*NullArray)(nil)
	_ Array = (*BooleanArray)(nil)
	_ Array = (*PrimitiveArray[int32])(nil)
	_ Array = (*Float16Array)(nil)
	_ Array = (*Decimal128Array)(nil)
	_ Array = (*StringArray[int32])(nil)
	_ Array = (*BinaryArray[int64])(nil)
	_ Array = (*FixedSizeBinaryArray)(nil)
	_ Array = (*ListArray[int32])(nil)
	_ Array = (*FixedSizeListArray)(nil)
	_ Array = (*StructArray)(nil)
	_ Array = (*MapArray)(nil)
	_ Array = (*DenseUnionArray)(nil)
	_ Array = (*DictionaryArray)(nil)
)
