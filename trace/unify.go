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

package trace

import (
	"sort"

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// unify merges two observations of the same field. Null observations fold
// into the other side and mark it nullable; differing numerics widen per
// the unification rule; structs take the union of their fields, marking
// one-sided fields nullable.
func unify(a, b serdearrow.Field, cfg config) (serdearrow.Field, error) {
	nullable := a.Nullable || b.Nullable
	switch {
	case a.Type.ID() == serdearrow.NULL && a.Strategy == serdearrow.NoStrategy:
		b.Nullable = true
		return b, nil
	case b.Type.ID() == serdearrow.NULL && b.Strategy == serdearrow.NoStrategy:
		a.Nullable = true
		return a, nil
	}

	out := serdearrow.Field{Name: a.Name, Nullable: nullable, Strategy: a.Strategy}

	// both sides numeric: widen
	if isNumeric(a.Type) && isNumeric(b.Type) {
		out.Type = unifyNumeric(a.Type, b.Type)
		out.Strategy = serdearrow.NoStrategy
		return out, nil
	}

	// a guessed date column survives only while every sample agrees
	if a.Type.ID() == serdearrow.DATE64 || b.Type.ID() == serdearrow.DATE64 {
		if a.Type.ID() == b.Type.ID() && a.Strategy == b.Strategy {
			out.Type = a.Type
			return out, nil
		}
		if isStringish(a.Type) || isStringish(b.Type) {
			out.Type = stringTypeFor(cfg)
			out.Strategy = serdearrow.NoStrategy
			return out, nil
		}
	}

	if a.Type.ID() != b.Type.ID() {
		// a fixed-size sequence with varying lengths widens to a list
		al, aseq := sequenceElem(a.Type)
		bl, bseq := sequenceElem(b.Type)
		if aseq && bseq {
			elem, err := unify(al, bl, cfg)
			if err != nil {
				return serdearrow.Field{}, serdearrow.WithPath(err, a.Name)
			}
			out.Type = serdearrow.ListOfField(elem)
			return out, nil
		}
		return serdearrow.Field{}, serdearrow.SchemaErrorf(
			"field %q was observed both as %s and as %s", a.Name, a.Type, b.Type)
	}

	switch at := a.Type.(type) {
	case *serdearrow.ListType:
		bt := b.Type.(*serdearrow.ListType)
		elem, err := unify(at.ElemField(), bt.ElemField(), cfg)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, a.Name)
		}
		out.Type = serdearrow.ListOfField(elem)
		return out, nil

	case *serdearrow.FixedSizeListType:
		bt := b.Type.(*serdearrow.FixedSizeListType)
		elem, err := unify(at.ElemField(), bt.ElemField(), cfg)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, a.Name)
		}
		if at.Len() != bt.Len() {
			out.Type = serdearrow.ListOfField(elem)
		} else {
			out.Type = serdearrow.FixedSizeListOfField(at.Len(), elem)
		}
		return out, nil

	case *serdearrow.FixedSizeBinaryType:
		bt := b.Type.(*serdearrow.FixedSizeBinaryType)
		if at.ByteWidth != bt.ByteWidth {
			out.Type = serdearrow.BinaryTypes.Binary
		} else {
			out.Type = at
		}
		return out, nil

	case *serdearrow.StructType:
		bt := b.Type.(*serdearrow.StructType)
		fields, err := unifyStructFields(at, bt, cfg)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, a.Name)
		}
		if out.Strategy == serdearrow.MapAsStruct {
			sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
		}
		out.Type = serdearrow.StructOf(fields...)
		return out, nil

	case *serdearrow.MapType:
		bt := b.Type.(*serdearrow.MapType)
		key, err := unify(at.KeyField(), bt.KeyField(), cfg)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, a.Name)
		}
		key.Nullable = false
		item, err := unify(at.ItemField(), bt.ItemField(), cfg)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, a.Name)
		}
		out.Type = serdearrow.MapOfFields(key, item)
		return out, nil

	case *serdearrow.UnionType:
		bt := b.Type.(*serdearrow.UnionType)
		variants, err := unifyVariants(at, bt, cfg)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, a.Name)
		}
		out.Type = serdearrow.UnionOf(variants...)
		out.Nullable = false
		return out, nil

	case *serdearrow.DictionaryType:
		out.Type = at
		return out, nil
	}

	if a.Strategy != b.Strategy {
		return serdearrow.Field{}, serdearrow.SchemaErrorf(
			"field %q was observed with conflicting strategies %s and %s",
			a.Name, a.Strategy, b.Strategy)
	}
	out.Type = a.Type
	return out, nil
}

// unifyStructFields takes the union of the two field sets, in a's order
// with b's extras appended. A field present on one side only becomes
// nullable. MapAsStruct callers re-sort afterwards.
func unifyStructFields(at, bt *serdearrow.StructType, cfg config) ([]serdearrow.Field, error) {
	fields := make([]serdearrow.Field, 0, at.NumFields())
	for _, af := range at.Fields() {
		bf, ok := bt.FieldByName(af.Name)
		if !ok {
			af.Nullable = true
			fields = append(fields, af)
			continue
		}
		merged, err := unify(af, bf, cfg)
		if err != nil {
			return nil, err
		}
		fields = append(fields, merged)
	}
	for _, bf := range bt.Fields() {
		if _, ok := at.FieldByName(bf.Name); !ok {
			bf.Nullable = true
			fields = append(fields, bf)
		}
	}
	return fields, nil
}

func unifyVariants(at, bt *serdearrow.UnionType, cfg config) ([]serdearrow.Field, error) {
	variants := make([]serdearrow.Field, 0, at.NumVariants())
	variants = append(variants, at.Variants()...)
	for _, bv := range bt.Variants() {
		idx, ok := at.VariantIdx(bv.Name)
		if !ok {
			variants = append(variants, bv)
			continue
		}
		merged, err := unify(variants[idx], bv, cfg)
		if err != nil {
			return nil, err
		}
		variants[idx] = merged
	}
	return variants, nil
}

func isNumeric(dt serdearrow.DataType) bool {
	return isSigned(dt) || isUnsigned(dt) || isFloat(dt)
}

func isSigned(dt serdearrow.DataType) bool {
	switch dt.ID() {
	case serdearrow.INT8, serdearrow.INT16, serdearrow.INT32, serdearrow.INT64:
		return true
	}
	return false
}

func isUnsigned(dt serdearrow.DataType) bool {
	switch dt.ID() {
	case serdearrow.UINT8, serdearrow.UINT16, serdearrow.UINT32, serdearrow.UINT64:
		return true
	}
	return false
}

func isFloat(dt serdearrow.DataType) bool {
	switch dt.ID() {
	case serdearrow.FLOAT16, serdearrow.FLOAT32, serdearrow.FLOAT64:
		return true
	}
	return false
}

func isStringish(dt serdearrow.DataType) bool {
	switch dt.ID() {
	case serdearrow.STRING, serdearrow.LARGE_STRING, serdearrow.DICTIONARY:
		return true
	}
	return false
}

// unifyNumeric applies the widening rule: same type stays, any float makes
// Float64, matching signedness widens to 64 bits, a mix widens to Int64.
func unifyNumeric(a, b serdearrow.DataType) serdearrow.DataType {
	if a.ID() == b.ID() {
		return a
	}
	if isFloat(a) || isFloat(b) {
		return serdearrow.PrimitiveTypes.Float64
	}
	if isUnsigned(a) && isUnsigned(b) {
		return serdearrow.PrimitiveTypes.Uint64
	}
	return serdearrow.PrimitiveTypes.Int64
}

// sequenceElem extracts the element field of a list-shaped type.
func sequenceElem(dt serdearrow.DataType) (serdearrow.Field, bool) {
	switch t := dt.(type) {
	case *serdearrow.ListType:
		return t.ElemField(), true
	case *serdearrow.FixedSizeListType:
		return t.ElemField(), true
	}
	return serdearrow.Field{}, false
}

// resolveUnknown walks the traced tree and rejects fields that were only
// ever observed as null, unless null-field tolerance was opted into.
func resolveUnknown(f serdearrow.Field, cfg config) (serdearrow.Field, error) {
	switch t := f.Type.(type) {
	case *serdearrow.NullType:
		if f.Strategy == serdearrow.UnknownVariant {
			return f, nil
		}
		if !cfg.allowNullFields {
			return serdearrow.Field{}, serdearrow.SchemaErrorf(
				"field %q was only observed as null; pass WithAllowNullFields to keep it", f.Name)
		}
		return f, nil

	case *serdearrow.ListType:
		elem, err := resolveUnknown(t.ElemField(), cfg)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, f.Name)
		}
		f.Type = serdearrow.ListOfField(elem)
		return f, nil
	case *serdearrow.FixedSizeListType:
		elem, err := resolveUnknown(t.ElemField(), cfg)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, f.Name)
		}
		f.Type = serdearrow.FixedSizeListOfField(t.Len(), elem)
		return f, nil
	case *serdearrow.StructType:
		fields := make([]serdearrow.Field, t.NumFields())
		for i, cf := range t.Fields() {
			rf, err := resolveUnknown(cf, cfg)
			if err != nil {
				return serdearrow.Field{}, serdearrow.WithPath(err, f.Name)
			}
			fields[i] = rf
		}
		f.Type = serdearrow.StructOf(fields...)
		return f, nil
	case *serdearrow.MapType:
		key, err := resolveUnknown(t.KeyField(), cfg)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, f.Name)
		}
		item, err := resolveUnknown(t.ItemField(), cfg)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, f.Name)
		}
		f.Type = serdearrow.MapOfFields(key, item)
		return f, nil
	case *serdearrow.UnionType:
		variants := make([]serdearrow.Field, t.NumVariants())
		for i, v := range t.Variants() {
			if v.Type.ID() == serdearrow.NULL {
				// a Null variant is how a union spells absence
				v.Nullable = false
				variants[i] = v
				continue
			}
			rv, err := resolveUnknown(v, cfg)
			if err != nil {
				return serdearrow.Field{}, serdearrow.WithPath(err, f.Name)
			}
			variants[i] = rv
		}
		f.Type = serdearrow.UnionOf(variants...)
		return f, nil
	}
	return f, nil
}
