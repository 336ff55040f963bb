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

// Package trace infers a schema from Go types or from sample records, so
// callers do not have to spell out a Field tree by hand.
//
// Types observed across samples are unified: signed integers widen to
// Int64, unsigned to UInt64, a signed/unsigned mix to Int64, and any float
// in the mix makes the field Float64. A value seen as both present and
// absent marks the field nullable without changing its type. Two
// incompatible non-numeric observations are a schema error.
package trace

import (
	"reflect"
	"strings"
	"time"

	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/builder"
)

// maxDepth bounds type recursion, cutting off cyclic Go types.
const maxDepth = 64

type config struct {
	allowNullFields  bool
	mapAsStruct      bool
	stringDictionary bool
	guessDates       bool
}

// Option configures tracing.
type Option func(*config)

// WithAllowNullFields makes a field observed only as null trace to the
// Null type instead of failing.
func WithAllowNullFields() Option {
	return func(cfg *config) { cfg.allowNullFields = true }
}

// WithMapAsStruct traces Go maps as structs with one sorted field per key
// instead of Map columns.
func WithMapAsStruct() Option {
	return func(cfg *config) { cfg.mapAsStruct = true }
}

// WithStringDictionary traces string fields as dictionary-encoded columns.
func WithStringDictionary() Option {
	return func(cfg *config) { cfg.stringDictionary = true }
}

// WithGuessDates traces strings that consistently parse as date-times to
// Date64 columns with the matching strategy.
func WithGuessDates() Option {
	return func(cfg *config) { cfg.guessDates = true }
}

func newConfig(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// FromType infers a schema from the struct type T without any sample data.
func FromType[T any](opts ...Option) (serdearrow.Schema, error) {
	cfg := newConfig(opts)
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, serdearrow.SchemaErrorf("cannot trace a schema from Go %s, need a struct", t)
	}
	fields, err := structFieldsFromType(t, cfg, 0)
	if err != nil {
		return nil, err
	}
	schema := serdearrow.Schema(fields)
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}

// TypeOf infers a single field from the type T.
func TypeOf[T any](name string, opts ...Option) (serdearrow.Field, error) {
	cfg := newConfig(opts)
	t := reflect.TypeOf((*T)(nil)).Elem()
	return fieldFromType(name, t, cfg, 0)
}

// FromSamples infers a schema from a slice of sample records, unifying the
// types observed across all of them.
func FromSamples(samples any, opts ...Option) (serdearrow.Schema, error) {
	cfg := newConfig(opts)
	rv := reflect.ValueOf(samples)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, serdearrow.SchemaErrorf("cannot trace samples from Go %T, need a slice of records", samples)
	}
	if rv.Len() == 0 {
		return nil, serdearrow.SchemaErrorf("cannot trace a schema from zero samples")
	}
	var merged serdearrow.Field
	for i := 0; i < rv.Len(); i++ {
		f, err := recordField(rv.Index(i), cfg)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			merged = f
		} else if merged, err = unify(merged, f, cfg); err != nil {
			return nil, err
		}
	}
	merged, err := resolveUnknown(merged, cfg)
	if err != nil {
		return nil, err
	}
	st, ok := merged.Type.(*serdearrow.StructType)
	if !ok {
		return nil, serdearrow.SchemaErrorf("samples trace to %s, records must trace to a struct", merged.Type)
	}
	schema := serdearrow.Schema(st.Fields())
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	variantType = reflect.TypeOf(builder.Variant{})
)

// fieldFromType infers a field from a static Go type. Pointers mark the
// field nullable.
func fieldFromType(name string, t reflect.Type, cfg config, depth int) (serdearrow.Field, error) {
	if depth > maxDepth {
		return serdearrow.Field{}, serdearrow.SchemaErrorf(
			"field %q nests deeper than %d levels, assuming a cyclic type", name, maxDepth)
	}
	nullable := false
	for t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}

	switch {
	case t == timeType:
		return serdearrow.Field{
			Name:     name,
			Type:     serdearrow.FixedWidthTypes.Date64,
			Nullable: nullable,
			Strategy: serdearrow.UtcStrAsDate64,
		}, nil
	case t == variantType:
		return serdearrow.Field{}, serdearrow.SchemaErrorf(
			"field %q: union variants cannot be traced from the static type, use FromSamples", name)
	}

	var dt serdearrow.DataType
	switch t.Kind() {
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

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			dt = serdearrow.BinaryTypes.Binary
			break
		}
		elem, err := fieldFromType("element", t.Elem(), cfg, depth+1)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, name)
		}
		dt = serdearrow.ListOfField(elem)
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			dt = &serdearrow.FixedSizeBinaryType{ByteWidth: t.Len()}
			break
		}
		elem, err := fieldFromType("element", t.Elem(), cfg, depth+1)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, name)
		}
		dt = serdearrow.FixedSizeListOfField(int32(t.Len()), elem)

	case reflect.Struct:
		fields, err := structFieldsFromType(t, cfg, depth+1)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, name)
		}
		dt = serdearrow.StructOf(fields...)

	case reflect.Map:
		if cfg.mapAsStruct {
			// the static type cannot know the keys
			return serdearrow.Field{}, serdearrow.SchemaErrorf(
				"field %q: struct fields of a map cannot be traced from the static type, use FromSamples", name)
		}
		key, err := fieldFromType("key", t.Key(), cfg, depth+1)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, name)
		}
		item, err := fieldFromType("value", t.Elem(), cfg, depth+1)
		if err != nil {
			return serdearrow.Field{}, serdearrow.WithPath(err, name)
		}
		item.Nullable = true
		dt = serdearrow.MapOfFields(key, item)

	case reflect.Interface:
		return serdearrow.Field{
			Name:     name,
			Nullable: true,
			Strategy: serdearrow.UnknownVariant,
			Type:     serdearrow.NullDataType,
		}, nil

	default:
		return serdearrow.Field{}, serdearrow.SchemaErrorf(
			"field %q: cannot trace Go %s", name, t.Kind())
	}
	return serdearrow.Field{Name: name, Type: dt, Nullable: nullable}, nil
}

func structFieldsFromType(t reflect.Type, cfg config, depth int) ([]serdearrow.Field, error) {
	if depth > maxDepth {
		return nil, serdearrow.SchemaErrorf(
			"struct nests deeper than %d levels, assuming a cyclic type", maxDepth)
	}
	var fields []serdearrow.Field
	for _, sf := range visibleFields(t) {
		f, err := fieldFromType(sf.name, t.FieldByIndex(sf.index).Type, cfg, depth)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return nil, serdearrow.SchemaErrorf("struct %s has no traceable fields", t)
	}
	return fields, nil
}

func stringTypeFor(cfg config) serdearrow.DataType {
	if cfg.stringDictionary {
		return &serdearrow.DictionaryType{
			IndexType: serdearrow.PrimitiveTypes.Uint32,
			ValueType: serdearrow.BinaryTypes.String,
		}
	}
	return serdearrow.BinaryTypes.String
}

type visibleField struct {
	name  string
	index []int
}

// visibleFields lists the traceable fields of a Go struct, using the
// `arrow` tag naming rules shared with the builder and reader walkers.
func visibleFields(t reflect.Type) []visibleField {
	var out []visibleField
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("arrow"); ok {
			head, _, _ := strings.Cut(tag, ",")
			if head == "-" {
				continue
			}
			if head != "" {
				name = head
			}
		}
		out = append(out, visibleField{name: name, index: f.Index})
	}
	return out
}
