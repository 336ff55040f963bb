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

// unionReader serves dense Union columns. Every type id and offset is
// range-checked at construction, so Resolve never fails on a well-formed
// tree.
type unionReader struct {
	base
	fields   []serdearrow.Field
	variants []Reader
	typeIDs  []int8
	offsets  []int32
}

func newUnionReader(field serdearrow.Field, v *serdearrow.DenseUnionView) (*unionReader, error) {
	if len(v.VariantMetas) != len(v.Variants) {
		return nil, serdearrow.LayoutErrorf(field.Type,
			"%d variant metas for %d variants", len(v.VariantMetas), len(v.Variants))
	}
	if len(v.TypeIDs) != len(v.Offsets) {
		return nil, serdearrow.LayoutErrorf(field.Type,
			"%d type ids for %d offsets", len(v.TypeIDs), len(v.Offsets))
	}
	fields := make([]serdearrow.Field, len(v.Variants))
	variants := make([]Reader, len(v.Variants))
	for i, vv := range v.Variants {
		vf := v.VariantMetas[i].Field(vv.DataType())
		child, err := newReader(vf, vv)
		if err != nil {
			return nil, serdearrow.WithPath(err, vf.Name)
		}
		fields[i] = vf
		variants[i] = child
	}
	for row, id := range v.TypeIDs {
		if int(id) < 0 || int(id) >= len(variants) {
			return nil, serdearrow.LayoutErrorf(field.Type,
				"row %d holds unresolvable type id %d", row, id)
		}
		if off := v.Offsets[row]; off < 0 || int(off) >= variants[id].Len() {
			return nil, serdearrow.LayoutErrorf(field.Type,
				"row %d offset %d is outside variant %d's %d rows", row, off, id, variants[id].Len())
		}
	}
	return &unionReader{
		base:     newBase(field, len(v.TypeIDs)),
		fields:   fields,
		variants: variants,
		typeIDs:  v.TypeIDs,
		offsets:  v.Offsets,
	}, nil
}

func (r *unionReader) NumVariants() int              { return len(r.variants) }
func (r *unionReader) Variant(i int) Reader          { return r.variants[i] }
func (r *unionReader) VariantField(i int) serdearrow.Field { return r.fields[i] }

// Resolve maps a row to its variant index and the row inside that
// variant's child.
func (r *unionReader) Resolve(row int) (variant, childRow int, err error) {
	if row < 0 || row >= r.length {
		return 0, 0, serdearrow.ValueErrorf(r.field.Type, "row %d out of range [0, %d)", row, r.length)
	}
	return int(r.typeIDs[row]), int(r.offsets[row]), nil
}

// IsValid reports whether the row resolves to a non-Null variant. Unions
// carry no validity bitmap; absence is a Null-typed variant.
func (r *unionReader) IsValid(row int) bool {
	if row < 0 || row >= r.length {
		return false
	}
	return r.fields[r.typeIDs[row]].Type.ID() != serdearrow.NULL
}
