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
	"reflect"
	"strings"
	"sync"
	"time"

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// Variant wraps a union value together with the variant it belongs to. The
// variant is resolved by Name when set, by Index otherwise.
type Variant struct {
	Name  string
	Index int
	Value any
}

// sequenceBuilder is the bracket protocol shared by the list-shaped
// builders.
type sequenceBuilder interface {
	Builder
	Begin() error
	End() error
	Elem() Builder
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	variantType = reflect.TypeOf(Variant{})
)

// pushValue walks one Go value into the builder, dispatching on the
// builder's shape. Nil pointers, interfaces, maps and slices become nulls.
func pushValue(b Builder, rv reflect.Value) error {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return b.PushNull()
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return b.PushNull()
	}

	switch bb := b.(type) {
	case *structBuilder:
		return pushRecord(bb, rv)
	case *mapBuilder:
		return pushMapRows(bb, rv)
	case *unionBuilder:
		return pushUnionValue(bb, rv)
	}
	if sb, ok := b.(sequenceBuilder); ok {
		return pushSequence(sb, rv)
	}
	return pushScalar(b, rv)
}

// pushRecord feeds one row into a struct builder. Go structs match children
// by name, maps by string key, and slices positionally (the tuple shape).
func pushRecord(b *structBuilder, rv reflect.Value) error {
	if err := b.Begin(); err != nil {
		return err
	}
	switch rv.Kind() {
	case reflect.Struct:
		idx := indexStruct(rv.Type())
		for _, f := range idx.fields {
			child, err := b.Field(f.name)
			if err != nil {
				return err
			}
			if err := pushValue(child, rv.FieldByIndex(f.index)); err != nil {
				return serdearrow.WithPath(err, f.name)
			}
		}
	case reflect.Map:
		if rv.IsNil() {
			return b.PushNull()
		}
		if rv.Type().Key().Kind() != reflect.String {
			return serdearrow.ShapeErrorf(b.DataType(),
				"cannot store a map keyed by %s in a struct column", rv.Type().Key())
		}
		iter := rv.MapRange()
		for iter.Next() {
			name := iter.Key().String()
			child, err := b.Field(name)
			if err != nil {
				return err
			}
			if err := pushValue(child, iter.Value()); err != nil {
				return serdearrow.WithPath(err, name)
			}
		}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return b.PushNull()
		}
		if rv.Len() != b.NumChildren() {
			return serdearrow.ValueErrorf(b.DataType(),
				"tuple of length %d for a struct with %d fields", rv.Len(), b.NumChildren())
		}
		for i := 0; i < rv.Len(); i++ {
			name := b.dtype.Field(i).Name
			child, err := b.Field(name)
			if err != nil {
				return err
			}
			if err := pushValue(child, rv.Index(i)); err != nil {
				return serdearrow.WithPath(err, name)
			}
		}
	default:
		return serdearrow.ShapeErrorf(b.DataType(),
			"cannot store a Go %s in a struct column", rv.Kind())
	}
	return b.End()
}

func pushMapRows(b *mapBuilder, rv reflect.Value) error {
	if rv.Kind() != reflect.Map {
		return serdearrow.ShapeErrorf(b.DataType(),
			"cannot store a Go %s in a map column", rv.Kind())
	}
	if rv.IsNil() {
		return b.PushNull()
	}
	if err := b.Begin(); err != nil {
		return err
	}
	iter := rv.MapRange()
	for iter.Next() {
		if err := pushValue(b.Keys(), iter.Key()); err != nil {
			return serdearrow.WithPath(err, b.keyField.Name)
		}
		if err := pushValue(b.Items(), iter.Value()); err != nil {
			return serdearrow.WithPath(err, b.itemField.Name)
		}
	}
	return b.End()
}

func pushUnionValue(b *unionBuilder, rv reflect.Value) error {
	if rv.Type() != variantType {
		return serdearrow.ShapeErrorf(b.DataType(),
			"union values must be wrapped in builder.Variant, got %s", rv.Type())
	}
	v := rv.Interface().(Variant)
	idx := v.Index
	if v.Name != "" {
		var ok bool
		idx, ok = b.VariantIdx(v.Name)
		if !ok {
			return serdearrow.ValueErrorf(b.DataType(), "unknown variant %q", v.Name)
		}
	}
	child, err := b.PushVariant(idx)
	if err != nil {
		return err
	}
	if err := pushValue(child, reflect.ValueOf(v.Value)); err != nil {
		return serdearrow.WithPath(err, b.dtype.Variant(idx).Name)
	}
	return nil
}

func pushSequence(b sequenceBuilder, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return b.PushNull()
		}
	case reflect.Array:
	default:
		return serdearrow.ShapeErrorf(b.DataType(),
			"cannot store a Go %s in a list column", rv.Kind())
	}
	if err := b.Begin(); err != nil {
		return err
	}
	elem := b.Elem()
	for i := 0; i < rv.Len(); i++ {
		if err := pushValue(elem, rv.Index(i)); err != nil {
			return err
		}
	}
	return b.End()
}

func pushScalar(b Builder, rv reflect.Value) error {
	if rv.Type() == timeType {
		t := rv.Interface().(time.Time)
		return b.PushString(t.UTC().Format(time.RFC3339Nano))
	}
	switch rv.Kind() {
	case reflect.Bool:
		return b.PushBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return b.PushInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return b.PushUint(rv.Uint())
	case reflect.Float32:
		return b.PushFloat(float64(float32(rv.Float())))
	case reflect.Float64:
		return b.PushFloat(rv.Float())
	case reflect.String:
		return b.PushString(rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return b.PushBytes(rv.Bytes())
		}
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			buf := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(buf), rv)
			return b.PushBytes(buf)
		}
	}
	return serdearrow.ShapeErrorf(b.DataType(),
		"cannot serialize a Go %s into a %s column", rv.Kind(), b.DataType().Name())
}

// structIndex caches the serializable fields of a Go struct type. Field
// names come from the `arrow` tag when present, the Go field name
// otherwise; a tag of "-" skips the field.
type structIndex struct {
	fields []structFieldInfo
}

type structFieldInfo struct {
	name  string
	index []int
}

var structIndexes sync.Map // reflect.Type -> *structIndex

func indexStruct(t reflect.Type) *structIndex {
	if cached, ok := structIndexes.Load(t); ok {
		return cached.(*structIndex)
	}
	idx := &structIndex{}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("arrow"); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		idx.fields = append(idx.fields, structFieldInfo{name: name, index: f.Index})
	}
	actual, _ := structIndexes.LoadOrStore(t, idx)
	return actual.(*structIndex)
}
