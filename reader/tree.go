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

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// Tree is a root reader over a schema: one validated reader per field, all
// row-aligned. Produce materializes the rows into a Go slice of records,
// matching struct fields to schema fields by name via the `arrow` tag.
type Tree struct {
	schema  serdearrow.Schema
	readers []Reader
	rows    int
}

// NewTree builds a validated reader tree over one view per schema field.
// All views must hold the same number of rows.
func NewTree(schema serdearrow.Schema, views []serdearrow.View) (*Tree, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if len(views) != len(schema) {
		return nil, serdearrow.SchemaErrorf(
			"%d views for a schema with %d fields", len(views), len(schema))
	}
	readers := make([]Reader, len(views))
	rows := 0
	for i, field := range schema {
		r, err := New(field, views[i])
		if err != nil {
			return nil, err
		}
		if i == 0 {
			rows = r.Len()
		} else if r.Len() != rows {
			return nil, serdearrow.LayoutErrorf(field.Type,
				"column %q holds %d rows, column %q holds %d",
				field.Name, r.Len(), schema[0].Name, rows)
		}
		readers[i] = r
	}
	return &Tree{schema: schema, readers: readers, rows: rows}, nil
}

// Schema returns the schema the tree was built for.
func (t *Tree) Schema() serdearrow.Schema { return t.schema }

// NumRows returns the row count shared by all columns.
func (t *Tree) NumRows() int { return t.rows }

// Field returns the reader for the named column.
func (t *Tree) Field(name string) (Reader, bool) {
	for i, f := range t.schema {
		if f.Name == name {
			return t.readers[i], true
		}
	}
	return nil, false
}

// Produce materializes every row into out, which must be a pointer to a
// slice of records. The slice is resized to the row count.
func (t *Tree) Produce(out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return serdearrow.ShapeErrorf(nil, "cannot produce into %T, need a pointer to a slice", out)
	}
	slice := rv.Elem()
	if slice.Cap() < t.rows {
		slice.Set(reflect.MakeSlice(slice.Type(), t.rows, t.rows))
	} else {
		slice.SetLen(t.rows)
	}
	for row := 0; row < t.rows; row++ {
		if err := t.produceRow(row, slice.Index(row)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) produceRow(row int, rv reflect.Value) error {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		idx := indexStruct(rv.Type())
		for _, f := range idx.fields {
			r, ok := t.Field(f.name)
			if !ok {
				return serdearrow.SchemaErrorf("record field %q has no column", f.name)
			}
			if err := produceValue(r, row, rv.FieldByIndex(f.index)); err != nil {
				return serdearrow.WithPath(err, f.name)
			}
		}
		return nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			rv.Set(reflect.MakeMapWithSize(rv.Type(), len(t.readers)))
		}
		for i, f := range t.schema {
			elem := reflect.New(rv.Type().Elem()).Elem()
			if err := produceValue(t.readers[i], row, elem); err != nil {
				return serdearrow.WithPath(err, f.Name)
			}
			rv.SetMapIndex(reflect.ValueOf(f.Name), elem)
		}
		return nil
	}
	return serdearrow.ShapeErrorf(nil, "cannot produce a record into a Go %s", rv.Kind())
}
