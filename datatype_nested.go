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
	"fmt"
	"strings"
)

// ListType describes a nested type in which each array slot contains a
// variable-size sequence of values, all having the same relative type.
type ListType struct {
	elem Field
}

// ListOf returns the list type with element type t. The element field is
// named "item" and nullable.
func ListOf(t DataType) *ListType {
	if t == nil {
		panic("serdearrow: nil DataType")
	}
	return &ListType{elem: Field{Name: "item", Type: t, Nullable: true}}
}

// ListOfField returns the list type with the given element field.
func ListOfField(f Field) *ListType {
	if f.Type == nil {
		panic("serdearrow: nil type for list field")
	}
	return &ListType{elem: f}
}

func (*ListType) ID() Type     { return LIST }
func (*ListType) Name() string { return "list" }

func (t *ListType) String() string {
	return fmt.Sprintf("list<%s: %s>", t.elem.Name, t.elem.Type)
}

// Elem returns the ListType's element type.
func (t *ListType) Elem() DataType { return t.elem.Type }

func (t *ListType) ElemField() Field { return t.elem }

// LargeListType is a ListType with 64-bit offsets.
type LargeListType struct {
	elem Field
}

// LargeListOf returns the large-list type with element type t.
func LargeListOf(t DataType) *LargeListType {
	if t == nil {
		panic("serdearrow: nil DataType")
	}
	return &LargeListType{elem: Field{Name: "item", Type: t, Nullable: true}}
}

// LargeListOfField returns the large-list type with the given element field.
func LargeListOfField(f Field) *LargeListType {
	if f.Type == nil {
		panic("serdearrow: nil type for list field")
	}
	return &LargeListType{elem: f}
}

func (*LargeListType) ID() Type     { return LARGE_LIST }
func (*LargeListType) Name() string { return "large_list" }

func (t *LargeListType) String() string {
	return fmt.Sprintf("large_list<%s: %s>", t.elem.Name, t.elem.Type)
}

func (t *LargeListType) Elem() DataType   { return t.elem.Type }
func (t *LargeListType) ElemField() Field { return t.elem }

// FixedSizeListType describes a nested type in which each array slot
// contains a fixed-size sequence of values.
type FixedSizeListType struct {
	n    int32
	elem Field
}

// FixedSizeListOf returns the fixed-size list type with n elements of type t.
//
// FixedSizeListOf panics if t is nil or n <= 0.
func FixedSizeListOf(n int32, t DataType) *FixedSizeListType {
	if t == nil {
		panic("serdearrow: nil DataType")
	}
	if n <= 0 {
		panic("serdearrow: invalid size")
	}
	return &FixedSizeListType{n: n, elem: Field{Name: "item", Type: t, Nullable: true}}
}

// FixedSizeListOfField returns the fixed-size list type with the given
// element field.
func FixedSizeListOfField(n int32, f Field) *FixedSizeListType {
	if f.Type == nil {
		panic("serdearrow: nil DataType")
	}
	if n <= 0 {
		panic("serdearrow: invalid size")
	}
	return &FixedSizeListType{n: n, elem: f}
}

func (*FixedSizeListType) ID() Type     { return FIXED_SIZE_LIST }
func (*FixedSizeListType) Name() string { return "fixed_size_list" }

func (t *FixedSizeListType) String() string {
	return fmt.Sprintf("fixed_size_list<%s: %s>[%d]", t.elem.Name, t.elem.Type, t.n)
}

func (t *FixedSizeListType) Elem() DataType   { return t.elem.Type }
func (t *FixedSizeListType) ElemField() Field { return t.elem }

// Len returns the FixedSizeListType's size.
func (t *FixedSizeListType) Len() int32 { return t.n }

// StructType describes a nested type parameterized by an ordered sequence
// of relative types, called its fields. Sibling field names are unique.
type StructType struct {
	fields []Field
	index  map[string]int
}

// StructOf returns the struct type with fields fs.
//
// StructOf panics on duplicated field names or a field with a nil DataType.
func StructOf(fs ...Field) *StructType {
	t := &StructType{
		fields: make([]Field, len(fs)),
		index:  make(map[string]int, len(fs)),
	}
	for i, f := range fs {
		if f.Type == nil {
			panic("serdearrow: field with nil DataType")
		}
		t.fields[i] = f
		if _, dup := t.index[f.Name]; dup {
			panic(fmt.Errorf("serdearrow: duplicate field with name %q", f.Name))
		}
		t.index[f.Name] = i
	}
	return t
}

func (*StructType) ID() Type     { return STRUCT }
func (*StructType) Name() string { return "struct" }

func (t *StructType) String() string {
	o := new(strings.Builder)
	o.WriteString("struct<")
	for i, f := range t.fields {
		if i > 0 {
			o.WriteString(", ")
		}
		fmt.Fprintf(o, "%s: %v", f.Name, f.Type)
	}
	o.WriteString(">")
	return o.String()
}

func (t *StructType) NumFields() int    { return len(t.fields) }
func (t *StructType) Fields() []Field   { return t.fields }
func (t *StructType) Field(i int) Field { return t.fields[i] }

func (t *StructType) FieldByName(name string) (Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return Field{}, false
	}
	return t.fields[i], true
}

func (t *StructType) FieldIdx(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// MapType describes a map: per row a variable number of key/value entries,
// laid out as a list of "entries" structs.
type MapType struct {
	key        Field
	item       Field
	KeysSorted bool
}

// MapOf returns the map type with the given key and item types. Keys are
// non-nullable, items nullable.
func MapOf(key, item DataType) *MapType {
	if key == nil || item == nil {
		panic("serdearrow: nil key or item type for MapType")
	}
	return &MapType{
		key:  Field{Name: "key", Type: key},
		item: Field{Name: "value", Type: item, Nullable: true},
	}
}

// MapOfFields returns the map type with the given key and item fields.
func MapOfFields(key, item Field) *MapType {
	if key.Type == nil || item.Type == nil {
		panic("serdearrow: nil key or item type for MapType")
	}
	if key.Nullable {
		panic("serdearrow: map keys must be non-nullable")
	}
	return &MapType{key: key, item: item}
}

func (*MapType) ID() Type     { return MAP }
func (*MapType) Name() string { return "map" }

func (t *MapType) String() string {
	return fmt.Sprintf("map<%s, %s>", t.key.Type, t.item.Type)
}

func (t *MapType) KeyField() Field    { return t.key }
func (t *MapType) KeyType() DataType  { return t.key.Type }
func (t *MapType) ItemField() Field   { return t.item }
func (t *MapType) ItemType() DataType { return t.item.Type }

// ValueType returns the "entries" struct type owned by the map.
func (t *MapType) ValueType() *StructType { return StructOf(t.key, t.item) }

// ValueField returns the "entries" child field owned by the map.
func (t *MapType) ValueField() Field {
	return Field{Name: "entries", Type: t.ValueType()}
}

// UnionType describes a dense union: per row exactly one of the variant
// fields holds a value, selected by an int8 type id equal to the variant's
// position.
type UnionType struct {
	variants []Field
	index    map[string]int
}

// UnionOf returns the dense union type with the given variant fields.
//
// UnionOf panics on duplicated variant names or a variant with a nil
// DataType.
func UnionOf(variants ...Field) *UnionType {
	if len(variants) == 0 {
		panic("serdearrow: union with no variants")
	}
	t := &UnionType{
		variants: make([]Field, len(variants)),
		index:    make(map[string]int, len(variants)),
	}
	for i, f := range variants {
		if f.Type == nil {
			panic("serdearrow: union variant with nil DataType")
		}
		t.variants[i] = f
		if _, dup := t.index[f.Name]; dup {
			panic(fmt.Errorf("serdearrow: duplicate union variant %q", f.Name))
		}
		t.index[f.Name] = i
	}
	return t
}

func (*UnionType) ID() Type     { return DENSE_UNION }
func (*UnionType) Name() string { return "dense_union" }

func (t *UnionType) String() string {
	o := new(strings.Builder)
	o.WriteString("dense_union<")
	for i, f := range t.variants {
		if i > 0 {
			o.WriteString(", ")
		}
		fmt.Fprintf(o, "%s: %v", f.Name, f.Type)
	}
	o.WriteString(">")
	return o.String()
}

func (t *UnionType) NumVariants() int    { return len(t.variants) }
func (t *UnionType) Variants() []Field   { return t.variants }
func (t *UnionType) Variant(i int) Field { return t.variants[i] }

func (t *UnionType) VariantIdx(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// DictionaryType describes a dictionary-encoded column: IndexType integer
// indices referencing a ValueType value array.
type DictionaryType struct {
	IndexType DataType
	ValueType DataType
}

func (*DictionaryType) ID() Type     { return DICTIONARY }
func (*DictionaryType) Name() string { return "dictionary" }

func (t *DictionaryType) String() string {
	return fmt.Sprintf("Dictionary(%s, %s)", t.IndexType, t.ValueType)
}

var (
	_ DataType = (*ListType)(nil)
	_ DataType = (*LargeListType)(nil)
	_ DataType = (*FixedSizeListType)(nil)
	_ DataType = (*StructType)(nil)
	_ DataType = (*MapType)(nil)
	_ DataType = (*UnionType)(nil)
	_ DataType = (*DictionaryType)(nil)
)
