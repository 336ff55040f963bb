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
	"reflect"
	"strings"
	"sync"
	"time"

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// Variant carries a union row out of Produce: the variant's name and index
// plus the materialized value.
type Variant struct {
	Name  string
	Index int
	Value any
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	variantType = reflect.TypeOf(Variant{})
)

// produceValue materializes one row of r into the addressable target rv,
// the inverse of the record walker on the build side. Null rows require a
// pointer, map or slice target and set it to nil.
func produceValue(r Reader, row int, rv reflect.Value) error {
	if !r.IsValid(row) {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
			rv.SetZero()
			return nil
		}
		return serdearrow.ValueErrorf(r.DataType(),
			"row %d is null, cannot store it in a Go %s", row, rv.Kind())
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Interface {
		if rv.NumMethod() != 0 {
			return serdearrow.ShapeErrorf(r.DataType(),
				"cannot materialize into a non-empty interface %s", rv.Type())
		}
		elem := reflect.New(goTypeFor(r)).Elem()
		if err := produceValue(r, row, elem); err != nil {
			return err
		}
		rv.Set(elem)
		return nil
	}

	switch rr := r.(type) {
	case *structReader:
		return produceRecord(rr, row, rv)
	case *mapReader:
		return produceMapRow(rr, row, rv)
	case *unionReader:
		return produceUnionRow(rr, row, rv)
	case *listReader[int32]:
		return produceSequence(rr, rr.elem, row, rv)
	case *listReader[int64]:
		return produceSequence(rr, rr.elem, row, rv)
	case *fixedSizeListReader:
		return produceSequence(rr, rr.elem, row, rv)
	}
	return produceScalar(r, row, rv)
}

// spanReader is the row-to-child-span protocol shared by the list-shaped
// readers.
type spanReader interface {
	Reader
	Span(row int) (start, end int, err error)
	Elem() Reader
}

func produceSequence(r spanReader, elem Reader, row int, rv reflect.Value) error {
	start, end, err := r.Span(row)
	if err != nil {
		return err
	}
	n := end - start
	switch rv.Kind() {
	case reflect.Slice:
		rv.Set(reflect.MakeSlice(rv.Type(), n, n))
	case reflect.Array:
		if rv.Len() != n {
			return serdearrow.ValueErrorf(r.DataType(),
				"row %d holds %d elements, the Go array holds %d", row, n, rv.Len())
		}
	default:
		return serdearrow.ShapeErrorf(r.DataType(),
			"cannot store a list row in a Go %s", rv.Kind())
	}
	for i := 0; i < n; i++ {
		if err := produceValue(elem, start+i, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func produceRecord(r *structReader, row int, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Struct:
		idx := indexStruct(rv.Type())
		for _, f := range idx.fields {
			child, ok := r.ChildByName(f.name)
			if !ok {
				return serdearrow.ValueErrorf(r.DataType(), "record field %q has no struct child", f.name)
			}
			if err := produceValue(child, row, rv.FieldByIndex(f.index)); err != nil {
				return serdearrow.WithPath(err, f.name)
			}
		}
		return nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		rv.Set(reflect.MakeMapWithSize(rv.Type(), r.NumChildren()))
		for i := 0; i < r.NumChildren(); i++ {
			name := r.ChildField(i).Name
			elem := reflect.New(rv.Type().Elem()).Elem()
			if err := produceValue(r.Child(i), row, elem); err != nil {
				return serdearrow.WithPath(err, name)
			}
			rv.SetMapIndex(reflect.ValueOf(name), elem)
		}
		return nil
	}
	return serdearrow.ShapeErrorf(r.DataType(), "cannot store a struct row in a Go %s", rv.Kind())
}

func produceMapRow(r *mapReader, row int, rv reflect.Value) error {
	if rv.Kind() != reflect.Map {
		return serdearrow.ShapeErrorf(r.DataType(), "cannot store a map row in a Go %s", rv.Kind())
	}
	start, end, err := r.Span(row)
	if err != nil {
		return err
	}
	rv.Set(reflect.MakeMapWithSize(rv.Type(), end-start))
	for i := start; i < end; i++ {
		key := reflect.New(rv.Type().Key()).Elem()
		if err := produceValue(r.Keys(), i, key); err != nil {
			return serdearrow.WithPath(err, r.keyField.Name)
		}
		item := reflect.New(rv.Type().Elem()).Elem()
		if err := produceValue(r.Items(), i, item); err != nil {
			return serdearrow.WithPath(err, r.itemField.Name)
		}
		rv.SetMapIndex(key, item)
	}
	return nil
}

func produceUnionRow(r *unionReader, row int, rv reflect.Value) error {
	if rv.Type() != variantType {
		return serdearrow.ShapeErrorf(r.DataType(),
			"union rows materialize as reader.Variant, not a Go %s", rv.Type())
	}
	variant, childRow, err := r.Resolve(row)
	if err != nil {
		return err
	}
	field := r.VariantField(variant)
	out := Variant{Name: field.Name, Index: variant}
	if field.Type.ID() != serdearrow.NULL {
		elem := reflect.New(goTypeFor(r.Variant(variant))).Elem()
		if err := produceValue(r.Variant(variant), childRow, elem); err != nil {
			return serdearrow.WithPath(err, field.Name)
		}
		out.Value = elem.Interface()
	}
	rv.Set(reflect.ValueOf(out))
	return nil
}

// goTypeFor picks the natural Go type for materializing a value when the
// caller gave no concrete target (a variant payload or an any-typed field).
func goTypeFor(r Reader) reflect.Type {
	switch r.(type) {
	case *structReader, *mapReader:
		return reflect.TypeOf(map[string]any(nil))
	case *unionReader:
		return variantType
	case *listReader[int32], *listReader[int64], *fixedSizeListReader:
		return reflect.TypeOf([]any(nil))
	}
	switch r.DataType().ID() {
	case serdearrow.BOOL:
		return reflect.TypeOf(false)
	case serdearrow.INT8, serdearrow.INT16, serdearrow.INT32, serdearrow.INT64,
		serdearrow.DATE32, serdearrow.DATE64, serdearrow.TIME32, serdearrow.TIME64,
		serdearrow.DURATION, serdearrow.TIMESTAMP:
		return reflect.TypeOf(int64(0))
	case serdearrow.UINT8, serdearrow.UINT16, serdearrow.UINT32, serdearrow.UINT64:
		return reflect.TypeOf(uint64(0))
	case serdearrow.FLOAT16, serdearrow.FLOAT32, serdearrow.FLOAT64:
		return reflect.TypeOf(float64(0))
	case serdearrow.BINARY, serdearrow.LARGE_BINARY, serdearrow.FIXED_SIZE_BINARY:
		return reflect.TypeOf([]byte(nil))
	default:
		return reflect.TypeOf("")
	}
}

func produceScalar(r Reader, row int, rv reflect.Value) error {
	if rv.Type() == timeType {
		s, err := r.Str(row)
		if err != nil {
			return err
		}
		t, err := parseInstant(s)
		if err != nil {
			return serdearrow.ValueErrorf(r.DataType(), "row %d: %v", row, err)
		}
		rv.Set(reflect.ValueOf(t))
		return nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		v, err := r.Bool(row)
		if err != nil {
			return err
		}
		rv.SetBool(v)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := r.Int(row)
		if err != nil {
			return err
		}
		if rv.OverflowInt(v) {
			return serdearrow.ValueErrorf(r.DataType(), "row %d value %d overflows Go %s", row, v, rv.Kind())
		}
		rv.SetInt(v)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := r.Uint(row)
		if err != nil {
			return err
		}
		if rv.OverflowUint(v) {
			return serdearrow.ValueErrorf(r.DataType(), "row %d value %d overflows Go %s", row, v, rv.Kind())
		}
		rv.SetUint(v)
		return nil
	case reflect.Float32, reflect.Float64:
		v, err := r.Float(row)
		if err != nil {
			return err
		}
		rv.SetFloat(v)
		return nil
	case reflect.String:
		v, err := r.Str(row)
		if err != nil {
			return err
		}
		rv.SetString(v)
		return nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			v, err := r.Bytes(row)
			if err != nil {
				return err
			}
			buf := make([]byte, len(v))
			copy(buf, v)
			rv.SetBytes(buf)
			return nil
		}
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			v, err := r.Bytes(row)
			if err != nil {
				return err
			}
			if len(v) != rv.Len() {
				return serdearrow.ValueErrorf(r.DataType(),
					"row %d holds %d bytes, the Go array holds %d", row, len(v), rv.Len())
			}
			reflect.Copy(rv, reflect.ValueOf(v))
			return nil
		}
	}
	return serdearrow.ShapeErrorf(r.DataType(),
		"cannot materialize a %s row into a Go %s", r.DataType().Name(), rv.Kind())
}

func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(naiveLayout, s, time.UTC)
}

// structIndex caches the producible fields of a Go struct type, matching
// the naming rules of the build-side walker: the `arrow` tag when present,
// the Go field name otherwise, "-" to skip.
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
