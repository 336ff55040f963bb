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
	"strconv"

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// dictionaryBuilder backs Dictionary columns with string values. Each
// pushed string is interned through the memo table; the first occurrence
// assigns the next sequential index, so the produced dictionary is
// deterministic for a given push order. Nulls live in the index column's
// validity bitmap, never in the values.
type dictionaryBuilder struct {
	base
	dtype   *serdearrow.DictionaryType
	indices Builder
	values  Builder
	memo    memoTable
}

func newDictionaryBuilder(field serdearrow.Field, dt *serdearrow.DictionaryType, cfg config) (*dictionaryBuilder, error) {
	switch dt.IndexType.ID() {
	case serdearrow.INT8, serdearrow.INT16, serdearrow.INT32, serdearrow.INT64,
		serdearrow.UINT8, serdearrow.UINT16, serdearrow.UINT32, serdearrow.UINT64:
	default:
		return nil, serdearrow.SchemaErrorf(
			"dictionary field %q needs an integer index type, got %s", field.Name, dt.IndexType)
	}
	switch dt.ValueType.ID() {
	case serdearrow.STRING, serdearrow.LARGE_STRING:
	default:
		return nil, serdearrow.SchemaErrorf(
			"dictionary field %q needs string values, got %s", field.Name, dt.ValueType)
	}
	indices, err := newBuilder(serdearrow.Field{
		Name:     field.Name,
		Type:     dt.IndexType,
		Nullable: field.Nullable,
	}, cfg)
	if err != nil {
		return nil, err
	}
	values, err := newBuilder(serdearrow.Field{Name: "values", Type: dt.ValueType}, cfg)
	if err != nil {
		return nil, err
	}
	return &dictionaryBuilder{
		base:    newBase(field),
		dtype:   dt,
		indices: indices,
		values:  values,
	}, nil
}

func (b *dictionaryBuilder) Len() int { return b.indices.Len() }

func (b *dictionaryBuilder) PushString(v string) error {
	index, found := b.memo.GetOrInsert(v)
	if !found {
		if err := b.values.PushString(v); err != nil {
			return err
		}
	}
	return b.indices.PushUint(uint64(index))
}

func (b *dictionaryBuilder) PushBytes(v []byte) error { return b.PushString(string(v)) }

func (b *dictionaryBuilder) PushBool(v bool) error {
	return b.PushString(strconv.FormatBool(v))
}

func (b *dictionaryBuilder) PushInt(v int64) error {
	return b.PushString(strconv.FormatInt(v, 10))
}

func (b *dictionaryBuilder) PushUint(v uint64) error {
	return b.PushString(strconv.FormatUint(v, 10))
}

func (b *dictionaryBuilder) PushFloat(v float64) error {
	return b.PushString(strconv.FormatFloat(v, 'g', -1, 64))
}

func (b *dictionaryBuilder) PushNull() error    { return b.indices.PushNull() }
func (b *dictionaryBuilder) PushDefault() error { return b.indices.PushDefault() }

func (b *dictionaryBuilder) NewArray() serdearrow.Array {
	b.memo.reset()
	return &serdearrow.DictionaryArray{
		Indices: b.indices.NewArray(),
		Values:  b.values.NewArray(),
	}
}

var _ Builder = (*dictionaryBuilder)(nil)
