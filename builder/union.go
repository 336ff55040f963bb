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
)

// unionBuilder backs dense Union columns. A row selects one variant; the
// type-id buffer records which, and the offset buffer records the row's
// index inside that variant's child. Unions carry no validity bitmap, so a
// null row is routed to a Null-typed variant when the union has one.
type unionBuilder struct {
	base
	dtype       *serdearrow.UnionType
	variants    []Builder
	typeIDs     []int8
	offsets     []int32
	nullVariant int
}

func newUnionBuilder(field serdearrow.Field, dt *serdearrow.UnionType, cfg config) (*unionBuilder, error) {
	if field.Nullable {
		return nil, serdearrow.SchemaErrorf(
			"union field %q cannot be nullable, use a Null-typed variant instead", field.Name)
	}
	if dt.NumVariants() > 128 {
		return nil, serdearrow.SchemaErrorf(
			"union field %q has %d variants, the dense type-id range allows 128",
			field.Name, dt.NumVariants())
	}
	variants := make([]Builder, dt.NumVariants())
	nullVariant := -1
	for i, f := range dt.Variants() {
		child, err := newBuilder(f, cfg)
		if err != nil {
			return nil, serdearrow.WithPath(err, f.Name)
		}
		variants[i] = child
		if nullVariant < 0 && f.Type.ID() == serdearrow.NULL {
			nullVariant = i
		}
	}
	return &unionBuilder{
		base:        newBase(field),
		dtype:       dt,
		variants:    variants,
		nullVariant: nullVariant,
	}, nil
}

func (b *unionBuilder) NumVariants() int      { return len(b.variants) }
func (b *unionBuilder) Variant(i int) Builder { return b.variants[i] }

// VariantIdx resolves a variant index by name.
func (b *unionBuilder) VariantIdx(name string) (int, bool) {
	return b.dtype.VariantIdx(name)
}

// PushVariant selects variant i for the current row and returns its child
// builder; the caller pushes the row's value into it next.
func (b *unionBuilder) PushVariant(i int) (Builder, error) {
	if i < 0 || i >= len(b.variants) {
		return nil, serdearrow.ValueErrorf(b.field.Type,
			"variant index %d out of range [0, %d)", i, len(b.variants))
	}
	b.typeIDs = append(b.typeIDs, int8(i))
	b.offsets = append(b.offsets, int32(b.variants[i].Len()))
	b.length++
	return b.variants[i], nil
}

// PushNull stores the row in the union's Null-typed variant. Without such a
// variant a union cannot represent a missing value.
func (b *unionBuilder) PushNull() error {
	if b.nullVariant < 0 {
		return serdearrow.ValueErrorf(b.field.Type, "union has no Null variant to hold a null")
	}
	child, err := b.PushVariant(b.nullVariant)
	if err != nil {
		return err
	}
	return child.PushNull()
}

func (b *unionBuilder) PushDefault() error {
	child, err := b.PushVariant(0)
	if err != nil {
		return err
	}
	if err := child.PushDefault(); err != nil {
		return serdearrow.WithPath(err, b.dtype.Variant(0).Name)
	}
	return nil
}

func (b *unionBuilder) NewArray() serdearrow.Array {
	metas := make([]serdearrow.FieldMeta, len(b.variants))
	arrays := make([]serdearrow.Array, len(b.variants))
	for i, child := range b.variants {
		metas[i] = b.dtype.Variant(i).Meta()
		arrays[i] = child.NewArray()
	}
	typeIDs := b.typeIDs
	offsets := b.offsets
	b.typeIDs = nil
	b.offsets = nil
	b.length = 0
	return &serdearrow.DenseUnionArray{
		VariantMetas: metas,
		Variants:     arrays,
		TypeIDs:      typeIDs,
		Offsets:      offsets,
	}
}

var _ Builder = (*unionBuilder)(nil)
