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
	"reflect"
	"sort"
	"time"

	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/builder"
)

// A field observed only as null carries the Null type during tracing;
// unify folds it into whatever the other samples show, and resolveUnknown
// rejects it if nothing ever did.

// recordField infers the root field of one sample. A record given as a
// string-keyed map traces to a struct with one field per key, matching how
// the builder consumes map records.
func recordField(rv reflect.Value, cfg config) (serdearrow.Field, error) {
	v := rv
	for (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() == reflect.Map {
		return mapAsStructField("", v, false, cfg, 0)
	}
	return fieldFromValue("", rv, cfg, 0)
}

// fieldFromValue infers a field from one sample value.
func fieldFromValue(name string, rv reflect.Value, cfg config, depth int) (serdearrow.Field, error) {
	if depth > maxDepth {
		return serdearrow.Field{}, serdearrow.SchemaErrorf(
			"field %q nests deeper than %d levels, assuming a cyclic value", name, maxDepth)
	}
	nullable := false
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nullField(name), nil
		}
		if rv.Kind() == reflect.Pointer {
			nullable = true
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nullField(name), nil
	}

	if rv.Type() == timeType {
		return serdearrow.Field{
			Name:     name,
			Type:     serdearrow.FixedWidthTypes.Date64,
			Nullable: nullable,
			Strategy: serdearrow.UtcStrAsDate64,
		}, nil
	}
	if rv.Type() == variantType {
		return variantFieldFromValue(name, rv.Interface().(builder.Variant), nullable, cfg, depth)
	}

	var dt serdearrow.DataType
	strategy := serdearrow.NoStrategy
	switch rv.Kind() {
	case reflect.Bool:
		dt = serdearrow.FixedWidthTypes.Boolean
	case reflect.Int8:
		dt = serdearrow.PrimitiveTypes.Int8
	case reflect.Int16:
		dt = serdearrow.PrimitiveTypes.Int16
	case reflect.Int32:
		dt = serdearrow.PrimitiveTypes.Int32
	case reflect.Int, reflect.Int64:
		dt = serdearrow.PrimitiveTypes.Int64
	case reflect.Uint8:
		dt = serdearrow.PrimitiveTypes.Uint8
	case reflect.Uint16:
		dt = serdearrow.PrimitiveTypes.Uint16
	case reflect.Uint32:
		dt = serdearrow.PrimitiveTypes.Uint32
	case reflect.Uint, reflect.Uint64:
		dt = serdearrow.PrimitiveTypes.Uint64
	case reflect.Float32:
		dt = serdearrow.PrimitiveTypes.Float32
	case reflect.Float64:
		dt = serdearrow.PrimitiveTypes.Float64

	case reflect.String:
		dt = stringTypeFor(cfg)
		if cfg.guessDates {
			if guessed, s, ok := guessDate(rv.String()); ok {
				dt, strategy = guessed, s
			}
		}

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			dt = serdearrow.BinaryTypes.Binary
			break
		}
		elem, err := elementsField(rv, cfg, depth)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, name)
		}
		dt = serdearrow.ListOfField(elem)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			dt = &serdearrow.FixedSizeBinaryType{ByteWidth: rv.Len()}
			break
		}
		elem, err := elementsField(rv, cfg, depth)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, name)
		}
		dt = serdearrow.FixedSizeListOfField(int32(rv.Len()), elem)

	case reflect.Struct:
		var fields []serdearrow.Field
		for _, sf := range visibleFields(rv.Type()) {
			f, err := fieldFromValue(sf.name, rv.FieldByIndex(sf.index), cfg, depth+1)
			if err != nil {
				return serdearrow.Field{}, serdearrow.WithPath(err, name)
			}
			fields = append(fields, f)
		}
		if len(fields) == 0 {
			return serdearrow.Field{}, serdearrow.SchemaErrorf(
				"field %q: struct %s has no traceable fields", name, rv.Type())
		}
		dt = serdearrow.StructOf(fields...)

	case reflect.Map:
		if cfg.mapAsStruct {
			return mapAsStructField(name, rv, nullable, cfg, depth)
		}
		return mapField(name, rv, nullable, cfg, depth)

	default:
		return serdearrow.Field{}, serdearrow.SchemaErrorf(
			"field %q: cannot trace Go %s", name, rv.Kind())
	}
	return serdearrow.Field{Name: name, Type: dt, Nullable: nullable, Strategy: strategy}, nil
}

func nullField(name string) serdearrow.Field {
	return serdearrow.Field{Name: name, Type: serdearrow.NullDataType, Nullable: true}
}

// elementsField unifies the element types observed across one sequence
// sample. An empty sequence leaves the element as null-typed for later
// samples to resolve.
func elementsField(rv reflect.Value, cfg config, depth int) (serdearrow.Field, error) {
	merged := nullField("element")
	merged.Nullable = false
	for i := 0; i < rv.Len(); i++ {
		f, err := fieldFromValue("element", rv.Index(i), cfg, depth+1)
		if err != nil {
			return serdearrow.Field{}, err
		}
		if i == 0 {
			merged = f
		} else if merged, err = unify(merged, f, cfg); err != nil {
			return serdearrow.Field{}, err
		}
	}
	return merged, nil
}

func mapField(name string, rv reflect.Value, nullable bool, cfg config, depth int) (serdearrow.Field, error) {
	key := nullField("key")
	key.Nullable = false
	item := nullField("value")
	first := true
	iter := rv.MapRange()
	for iter.Next() {
		kf, err := fieldFromValue("key", iter.Key(), cfg, depth+1)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, name)
		}
		vf, err := fieldFromValue("value", iter.Value(), cfg, depth+1)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, name)
		}
		if first {
			key, item, first = kf, vf, false
			continue
		}
		if key, err = unify(key, kf, cfg); err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, name)
		}
		if item, err = unify(item, vf, cfg); err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, name)
		}
	}
	key.Nullable = false
	return serdearrow.Field{
		Name:     name,
		Type:     serdearrow.MapOfFields(key, item),
		Nullable: nullable,
	}, nil
}

// mapAsStructField traces a string-keyed map as a struct with one sorted
// field per key.
func mapAsStructField(name string, rv reflect.Value, nullable bool, cfg config, depth int) (serdearrow.Field, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return serdearrow.Field{}, serdearrow.SchemaErrorf(
			"field %q: a map keyed by %s cannot trace to a struct", name, rv.Type().Key())
	}
	var fields []serdearrow.Field
	iter := rv.MapRange()
	for iter.Next() {
		f, err := fieldFromValue(iter.Key().String(), iter.Value(), cfg, depth+1)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, name)
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return serdearrow.Field{}, serdearrow.SchemaErrorf(
			"field %q: cannot trace struct fields from an empty map", name)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return serdearrow.Field{
		Name:     name,
		Type:     serdearrow.StructOf(fields...),
		Nullable: nullable,
		Strategy: serdearrow.MapAsStruct,
	}, nil
}

// variantFieldFromValue traces one union observation. Variants accumulate
// in first-seen order across samples; the Index hint is ignored while
// tracing.
func variantFieldFromValue(name string, v builder.Variant, nullable bool, cfg config, depth int) (serdearrow.Field, error) {
	if v.Name == "" {
		return serdearrow.Field{}, serdearrow.SchemaErrorf(
			"field %q: union variants need a name to be traced", name)
	}
	variant, err := fieldFromValue(v.Name, reflect.ValueOf(v.Value), cfg, depth+1)
	if err != nil {
		return serdearrow.Field{}, serdearrow.WithPath(err, name)
	}
	if nullable {
		return serdearrow.Field{}, serdearrow.SchemaErrorf(
			"field %q: a union cannot be nullable, use a Null-typed variant", name)
	}
	return serdearrow.Field{
		Name: name,
		Type: serdearrow.UnionOf(variant),
	}, nil
}

func guessDate(s string) (serdearrow.DataType, serdearrow.Strategy, bool) {
	const naiveLayout = "2006-01-02T15:04:05.999999999"
	if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return serdearrow.FixedWidthTypes.Date64, serdearrow.UtcStrAsDate64, true
	}
	if _, err := time.ParseInLocation(naiveLayout, s, time.UTC); err == nil {
		return serdearrow.FixedWidthTypes.Date64, serdearrow.NaiveStrAsDate64, true
	}
	return nil, serdearrow.NoStrategy, false
}
