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

// mapBuilder backs Map columns. A row is one Begin/End bracket with
// alternating key and item pushes in between; the int32 offset buffer
// records the cumulative entry count at every End. Keys and items must
// stay in lockstep, which Entry enforces by handing out both children.
type mapBuilder struct {
	base
	keyField  serdearrow.Field
	itemField serdearrow.Field
	keys      Builder
	items     Builder
	offsets   offsetsBuilder[int32]
}

func newMapBuilder(field serdearrow.Field, dt *serdearrow.MapType, cfg config) (*mapBuilder, error) {
	keyField := dt.KeyField()
	if keyField.Nullable {
		return nil, serdearrow.SchemaErrorf("map key %q must not be nullable", keyField.Name)
	}
	keys, err := newBuilder(keyField, cfg)
	if err != nil {
		return nil, serdearrow.WithPath(err, keyField.Name)
	}
	itemField := dt.ItemField()
	items, err := newBuilder(itemField, cfg)
	if err != nil {
		return nil, serdearrow.WithPath(err, itemField.Name)
	}
	return &mapBuilder{
		base:      newBase(field),
		keyField:  keyField,
		itemField: itemField,
		keys:      keys,
		items:     items,
	}, nil
}

// Keys returns the key child builder.
func (b *mapBuilder) Keys() Builder { return b.keys }

// Items returns the item child builder.
func (b *mapBuilder) Items() Builder { return b.items }

// Begin opens a map row.
func (b *mapBuilder) Begin() error { return nil }

// End closes the map row. The key and item children must have received the
// same number of pushes since Begin.
func (b *mapBuilder) End() error {
	if b.keys.Len() != b.items.Len() {
		return serdearrow.ValueErrorf(b.field.Type,
			"map has %d keys but %d items", b.keys.Len(), b.items.Len())
	}
	b.offsets.AppendEnd(b.keys.Len())
	b.appendValid()
	return nil
}

func (b *mapBuilder) PushNull() error {
	if err := b.appendNull(); err != nil {
		return err
	}
	b.offsets.AppendEnd(b.keys.Len())
	return nil
}

func (b *mapBuilder) PushDefault() error {
	b.offsets.AppendEnd(b.keys.Len())
	b.appendDefault()
	return nil
}

func (b *mapBuilder) NewArray() serdearrow.Array {
	return &serdearrow.MapArray{
		KeyMeta:  b.keyField.Meta(),
		ItemMeta: b.itemField.Meta(),
		Keys:     b.keys.NewArray(),
		Items:    b.items.NewArray(),
		Offsets:  b.offsets.detach(),
		Validity: b.finish(),
	}
}

var _ Builder = (*mapBuilder)(nil)
