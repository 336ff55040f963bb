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
	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// listReader serves List and LargeList columns. Span resolves a row to its
// child-row range.
type listReader[O serdearrow.OffsetType] struct {
	base
	elemField serdearrow.Field
	elem      Reader
	offsets   []O
}

func newListReader[O serdearrow.OffsetType](field serdearrow.Field, elemMeta serdearrow.FieldMeta, elemView serdearrow.View, offsets []O, validity *serdearrow.Bitmap) (*listReader[O], error) {
	elemField := elemMeta.Field(elemView.DataType())
	elem, err := newReader(elemField, elemView)
	if err != nil {
		return nil, serdearrow.WithPath(err, elemField.Name)
	}
	n, err := checkOffsets(field.Type, offsets, elem.Len(), validity)
	if err != nil {
		return nil, err
	}
	return &listReader[O]{
		base:      newValidityBase(field, n, validity),
		elemField: elemField,
		elem:      elem,
		offsets:   offsets,
	}, nil
}

// Elem returns the element child reader.
func (r *listReader[O]) Elem() Reader { return r.elem }

// Span returns the row's child-row range. A null row yields an empty span.
func (r *listReader[O]) Span(row int) (start, end int, err error) {
	if err := r.checkRow(row); err != nil {
		return 0, 0, err
	}
	return int(r.offsets[row]), int(r.offsets[row+1]), nil
}

// fixedSizeListReader serves FixedSizeList columns: every row, null rows
// included, occupies exactly N consecutive child rows.
type fixedSizeListReader struct {
	base
	n         int32
	elemField serdearrow.Field
	elem      Reader
}

func newFixedSizeListReader(field serdearrow.Field, v *serdearrow.FixedSizeListView) (*fixedSizeListReader, error) {
	if v.N <= 0 {
		return nil, serdearrow.LayoutErrorf(field.Type, "invalid list size %d", v.N)
	}
	elemField := v.ElemMeta.Field(v.Elem.DataType())
	elem, err := newReader(elemField, v.Elem)
	if err != nil {
		return nil, serdearrow.WithPath(err, elemField.Name)
	}
	if elem.Len()%int(v.N) != 0 {
		return nil, serdearrow.LayoutErrorf(field.Type,
			"child holds %d rows, not a multiple of the list size %d", elem.Len(), v.N)
	}
	n := elem.Len() / int(v.N)
	if err := checkValidity(field.Type, v.Validity, n); err != nil {
		return nil, err
	}
	return &fixedSizeListReader{
		base:      newValidityBase(field, n, v.Validity),
		n:         v.N,
		elemField: elemField,
		elem:      elem,
	}, nil
}

func (r *fixedSizeListReader) Elem() Reader { return r.elem }

func (r *fixedSizeListReader) Span(row int) (start, end int, err error) {
	if err := r.checkRow(row); err != nil {
		return 0, 0, err
	}
	return row * int(r.n), (row + 1) * int(r.n), nil
}

// structReader serves Struct columns: one child reader per field, all
// row-aligned with the parent.
type structReader struct {
	base
	fields   []serdearrow.Field
	children []Reader
}

func newStructReader(field serdearrow.Field, v *serdearrow.StructView) (*structReader, error) {
	if len(v.Fields) != len(v.Children) {
		return nil, serdearrow.LayoutErrorf(field.Type,
			"%d field metas for %d children", len(v.Fields), len(v.Children))
	}
	fields := make([]serdearrow.Field, len(v.Children))
	children := make([]Reader, len(v.Children))
	for i, cv := range v.Children {
		cf := v.Fields[i].Field(cv.DataType())
		child, err := newReader(cf, cv)
		if err != nil {
			return nil, serdearrow.WithPath(err, cf.Name)
		}
		if child.Len() != v.N {
			return nil, serdearrow.LayoutErrorf(field.Type,
				"child %q holds %d rows, parent holds %d", cf.Name, child.Len(), v.N)
		}
		fields[i] = cf
		children[i] = child
	}
	return &structReader{
		base:     newValidityBase(field, v.N, v.Validity),
		fields:   fields,
		children: children,
	}, nil
}

func (r *structReader) NumChildren() int            { return len(r.children) }
func (r *structReader) Child(i int) Reader          { return r.children[i] }
func (r *structReader) ChildField(i int) serdearrow.Field { return r.fields[i] }

// ChildByName resolves a child reader by field name.
func (r *structReader) ChildByName(name string) (Reader, bool) {
	for i, f := range r.fields {
		if f.Name == name {
			return r.children[i], true
		}
	}
	return nil, false
}

// mapReader serves Map columns: lockstep key and item readers with a
// shared int32 offset buffer.
type mapReader struct {
	base
	keyField  serdearrow.Field
	itemField serdearrow.Field
	keys      Reader
	items     Reader
	offsets   []int32
}

func newMapReader(field serdearrow.Field, v *serdearrow.MapView) (*mapReader, error) {
	keyField := v.KeyMeta.Field(v.Keys.DataType())
	keys, err := newReader(keyField, v.Keys)
	if err != nil {
		return nil, serdearrow.WithPath(err, keyField.Name)
	}
	itemField := v.ItemMeta.Field(v.Items.DataType())
	items, err := newReader(itemField, v.Items)
	if err != nil {
		return nil, serdearrow.WithPath(err, itemField.Name)
	}
	if keys.Len() != items.Len() {
		return nil, serdearrow.LayoutErrorf(field.Type,
			"map holds %d keys but %d items", keys.Len(), items.Len())
	}
	n, err := checkOffsets(field.Type, v.Offsets, keys.Len(), v.Validity)
	if err != nil {
		return nil, err
	}
	return &mapReader{
		base:      newValidityBase(field, n, v.Validity),
		keyField:  keyField,
		itemField: itemField,
		keys:      keys,
		items:     items,
		offsets:   v.Offsets,
	}, nil
}

func (r *mapReader) Keys() Reader  { return r.keys }
func (r *mapReader) Items() Reader { return r.items }

func (r *mapReader) Span(row int) (start, end int, err error) {
	if err := r.checkRow(row); err != nil {
		return 0, 0, err
	}
	return int(r.offsets[row]), int(r.offsets[row+1]), nil
}
