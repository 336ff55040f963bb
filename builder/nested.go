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
	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/internal/debug"
)

// listBuilder backs List and LargeList columns. A row is one Begin/End
// bracket with the elements pushed into the child in between; the offset
// buffer records the child's cumulative row count at every End. A null or
// absent list repeats the previous offset and never touches the child.
type listBuilder[O serdearrow.OffsetType] struct {
	base
	elemField serdearrow.Field
	elem      Builder
	offsets   offsetsBuilder[O]
}

func newListBuilder[O serdearrow.OffsetType](field, elemField serdearrow.Field, cfg config) (*listBuilder[O], error) {
	elem, err := newBuilder(elemField, cfg)
	if err != nil {
		return nil, serdearrow.WithPath(err, elemField.Name)
	}
	return &listBuilder[O]{base: newBase(field), elemField: elemField, elem: elem}, nil
}

// Elem returns the element child builder.
func (b *listBuilder[O]) Elem() Builder { return b.elem }

// Begin opens a list row.
func (b *listBuilder[O]) Begin() error { return nil }

// End closes the list row, recording the child's new row count as the
// row's end offset.
func (b *listBuilder[O]) End() error {
	b.offsets.AppendEnd(b.elem.Len())
	b.appendValid()
	return nil
}

func (b *listBuilder[O]) PushNull() error {
	if err := b.appendNull(); err != nil {
		return err
	}
	b.offsets.AppendEnd(b.elem.Len())
	return nil
}

func (b *listBuilder[O]) PushDefault() error {
	b.offsets.AppendEnd(b.elem.Len())
	b.appendDefault()
	return nil
}

func (b *listBuilder[O]) NewArray() serdearrow.Array {
	debug.Assert(b.offsets.Len() == b.length+1, "offset buffer out of step with the row count")
	return &serdearrow.ListArray[O]{
		ElemMeta: b.elemField.Meta(),
		Elem:     b.elem.NewArray(),
		Offsets:  b.offsets.detach(),
		Validity: b.finish(),
	}
}

// fixedSizeListBuilder backs FixedSizeList columns. There is no offset
// buffer; every row, null included, occupies exactly n child rows.
type fixedSizeListBuilder struct {
	base
	n         int32
	elemField serdearrow.Field
	elem      Builder
	start     int
}

func newFixedSizeListBuilder(field serdearrow.Field, dt *serdearrow.FixedSizeListType, cfg config) (*fixedSizeListBuilder, error) {
	elemField := dt.ElemField()
	elem, err := newBuilder(elemField, cfg)
	if err != nil {
		return nil, serdearrow.WithPath(err, elemField.Name)
	}
	return &fixedSizeListBuilder{
		base:      newBase(field),
		n:         dt.Len(),
		elemField: elemField,
		elem:      elem,
	}, nil
}

func (b *fixedSizeListBuilder) Elem() Builder { return b.elem }

func (b *fixedSizeListBuilder) Begin() error {
	b.start = b.elem.Len()
	return nil
}

// End validates that exactly n elements were pushed since Begin.
func (b *fixedSizeListBuilder) End() error {
	if got := b.elem.Len() - b.start; got != int(b.n) {
		return serdearrow.ValueErrorf(b.field.Type, "expected %d elements, got %d", b.n, got)
	}
	b.appendValid()
	return nil
}

func (b *fixedSizeListBuilder) pushPlaceholders() error {
	for i := int32(0); i < b.n; i++ {
		if err := b.elem.PushDefault(); err != nil {
			return serdearrow.WithPath(err, b.elemField.Name)
		}
	}
	return nil
}

func (b *fixedSizeListBuilder) PushNull() error {
	if err := b.appendNull(); err != nil {
		return err
	}
	return b.pushPlaceholders()
}

func (b *fixedSizeListBuilder) PushDefault() error {
	if err := b.pushPlaceholders(); err != nil {
		return err
	}
	b.appendDefault()
	return nil
}

func (b *fixedSizeListBuilder) NewArray() serdearrow.Array {
	return &serdearrow.FixedSizeListArray{
		N:        b.n,
		ElemMeta: b.elemField.Meta(),
		Elem:     b.elem.NewArray(),
		Validity: b.finish(),
	}
}

// structBuilder backs Struct columns, including the MapAsStruct and
// TupleAsStruct strategies, which only change how the record walker feeds
// it. Each row is a Begin/Field.../End bracket; unseen nullable children
// receive an implicit null at End, unseen non-nullable children are an
// error.
type structBuilder struct {
	base
	dtype    *serdearrow.StructType
	children []Builder
	seen     []bool
	// next is the child expected by the consecutive-rows fast path:
	// records usually present their fields in schema order.
	next int
}

func newStructBuilder(field serdearrow.Field, dt *serdearrow.StructType, cfg config) (*structBuilder, error) {
	if err := serdearrow.Schema(dt.Fields()).Validate(); err != nil {
		return nil, err
	}
	children := make([]Builder, dt.NumFields())
	for i, f := range dt.Fields() {
		child, err := newBuilder(f, cfg)
		if err != nil {
			return nil, serdearrow.WithPath(err, f.Name)
		}
		children[i] = child
	}
	return &structBuilder{
		base:     newBase(field),
		dtype:    dt,
		children: children,
		seen:     make([]bool, len(children)),
	}, nil
}

func (b *structBuilder) NumChildren() int    { return len(b.children) }
func (b *structBuilder) Child(i int) Builder { return b.children[i] }

// Begin opens a struct row.
func (b *structBuilder) Begin() error {
	for i := range b.seen {
		b.seen[i] = false
	}
	b.next = 0
	return nil
}

// Field resolves a child builder by name and marks it seen for the current
// row. Consecutive rows presenting fields in the same order hit the cached
// index without a map lookup.
func (b *structBuilder) Field(name string) (Builder, error) {
	idx := b.next
	if idx >= len(b.children) || b.dtype.Field(idx).Name != name {
		var ok bool
		idx, ok = b.dtype.FieldIdx(name)
		if !ok {
			return nil, serdearrow.ValueErrorf(b.field.Type, "unknown field %q", name)
		}
	}
	if b.seen[idx] {
		return nil, serdearrow.ValueErrorf(b.field.Type, "duplicate field %q", name)
	}
	b.seen[idx] = true
	b.next = idx + 1
	return b.children[idx], nil
}

// End closes the struct row, filling unseen nullable children with null.
func (b *structBuilder) End() error {
	for i, seen := range b.seen {
		if seen {
			continue
		}
		f := b.dtype.Field(i)
		if !f.Nullable {
			return serdearrow.WithPath(
				serdearrow.ValueErrorf(f.Type, "missing non-nullable field"), f.Name)
		}
		if err := b.children[i].PushNull(); err != nil {
			return serdearrow.WithPath(err, f.Name)
		}
	}
	b.appendValid()
	return nil
}

func (b *structBuilder) pushPlaceholders() error {
	for i, child := range b.children {
		if err := child.PushDefault(); err != nil {
			return serdearrow.WithPath(err, b.dtype.Field(i).Name)
		}
	}
	return nil
}

func (b *structBuilder) PushNull() error {
	if err := b.appendNull(); err != nil {
		return err
	}
	return b.pushPlaceholders()
}

func (b *structBuilder) PushDefault() error {
	if err := b.pushPlaceholders(); err != nil {
		return err
	}
	b.appendDefault()
	return nil
}

func (b *structBuilder) NewArray() serdearrow.Array {
	n := b.length
	metas := make([]serdearrow.FieldMeta, len(b.children))
	arrays := make([]serdearrow.Array, len(b.children))
	for i, child := range b.children {
		metas[i] = b.dtype.Field(i).Meta()
		arrays[i] = child.NewArray()
	}
	return &serdearrow.StructArray{
		N:        n,
		Fields:   metas,
		Children: arrays,
		Validity: b.finish(),
	}
}

var (
	_ Builder = (*listBuilder[int32])(nil)
	_ Builder = (*fixedSizeListBuilder)(nil)
	_ Builder = (*structBuilder)(nil)
)
