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

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// Tree is a root builder over a schema, consuming one record per row. The
// record is walked by reflection: structs match schema fields via the
// `arrow` tag (falling back to the Go field name), maps via their keys.
//
// A Tree accumulates rows until ToArrays, which detaches one Array per
// schema field and resets the tree for the next batch. Once any push
// returns an error the in-progress row has partially advanced the buffers;
// the tree is marked dirty and every later call fails until ToArrays
// discards the batch.
type Tree struct {
	schema serdearrow.Schema
	cfg    config
	root   *structBuilder
	rows   int
	dirty  bool
}

// NewTree builds a builder tree for the schema.
func NewTree(schema serdearrow.Schema, opts ...Option) (*Tree, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	rootType := serdearrow.StructOf(schema...)
	root, err := newStructBuilder(serdearrow.Field{Name: "", Type: rootType}, rootType, cfg)
	if err != nil {
		return nil, err
	}
	return &Tree{schema: schema, cfg: cfg, root: root}, nil
}

// Schema returns the schema the tree was built for.
func (t *Tree) Schema() serdearrow.Schema { return t.schema }

// NumRows returns the number of buffered rows.
func (t *Tree) NumRows() int { return t.rows }

func (t *Tree) checkClean() error {
	if t.dirty {
		return serdearrow.ShapeErrorf(t.root.DataType(),
			"builder holds a partial row after an earlier error, flush to reset")
	}
	return nil
}

// Push appends one record as a row.
func (t *Tree) Push(record any) error {
	if err := t.checkClean(); err != nil {
		return err
	}
	if err := pushValue(t.root, reflect.ValueOf(record)); err != nil {
		t.dirty = true
		return err
	}
	t.rows++
	return nil
}

// Extend appends every element of records, which must be a slice or array.
func (t *Tree) Extend(records any) error {
	rv := reflect.ValueOf(records)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return serdearrow.ShapeErrorf(t.root.DataType(),
			"cannot extend from %s, need a slice of records", rv.Kind())
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.Push(rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

// ToArrays detaches the buffered rows as one Array per schema field and
// resets the tree, clearing any dirty state.
func (t *Tree) ToArrays() ([]serdearrow.Array, error) {
	if t.dirty {
		t.reset()
		return nil, serdearrow.ShapeErrorf(t.root.DataType(),
			"builder held a partial row after an earlier error, batch discarded")
	}
	arrays := make([]serdearrow.Array, t.root.NumChildren())
	for i := range arrays {
		arrays[i] = t.root.Child(i).NewArray()
	}
	t.root.base.finish()
	t.rows = 0
	return arrays, nil
}

// reset discards every buffered row, rebuilding the tree from the schema.
func (t *Tree) reset() {
	fresh, err := newStructBuilder(serdearrow.Field{Name: "", Type: t.root.dtype}, t.root.dtype, t.cfg)
	if err == nil {
		t.root = fresh
	}
	t.rows = 0
	t.dirty = false
}
