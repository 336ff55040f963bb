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

// dictionaryReader serves Dictionary columns: getters resolve the row's
// index into the shared value reader. Every index is range-checked at
// construction.
type dictionaryReader struct {
	base
	dtype   *serdearrow.DictionaryType
	indices Reader
	values  Reader
}

func newDictionaryReader(field serdearrow.Field, v *serdearrow.DictionaryView) (*dictionaryReader, error) {
	dt, ok := field.Type.(*serdearrow.DictionaryType)
	if !ok {
		return nil, serdearrow.LayoutErrorf(field.Type, "field is not dictionary-typed")
	}
	indices, err := newReader(serdearrow.Field{
		Name:     field.Name,
		Type:     dt.IndexType,
		Nullable: field.Nullable,
	}, v.Indices)
	if err != nil {
		return nil, err
	}
	values, err := newReader(serdearrow.Field{Name: "values", Type: dt.ValueType}, v.Values)
	if err != nil {
		return nil, err
	}
	for row := 0; row < indices.Len(); row++ {
		if !indices.IsValid(row) {
			continue
		}
		idx, err := indices.Uint(row)
		if err != nil {
			return nil, serdearrow.LayoutErrorf(field.Type, "row %d index: %v", row, err)
		}
		if idx >= uint64(values.Len()) {
			return nil, serdearrow.LayoutErrorf(field.Type,
				"row %d index %d is outside the %d dictionary values", row, idx, values.Len())
		}
	}
	return &dictionaryReader{
		base:    newBase(field, indices.Len()),
		dtype:   dt,
		indices: indices,
		values:  values,
	}, nil
}

func (r *dictionaryReader) IsValid(row int) bool { return r.indices.IsValid(row) }

func (r *dictionaryReader) resolve(row int) (int, error) {
	idx, err := r.indices.Uint(row)
	if err != nil {
		return 0, err
	}
	return int(idx), nil
}

func (r *dictionaryReader) Str(row int) (string, error) {
	idx, err := r.resolve(row)
	if err != nil {
		return "", err
	}
	return r.values.Str(idx)
}

func (r *dictionaryReader) Bytes(row int) ([]byte, error) {
	idx, err := r.resolve(row)
	if err != nil {
		return nil, err
	}
	return r.values.Bytes(idx)
}
