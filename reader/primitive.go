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
	"math"

	"golang.org/x/exp/constraints"

	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/float16"
)

type nullReader struct {
	base
}

func (r *nullReader) IsValid(int) bool { return false }

type booleanReader struct {
	base
	values serdearrow.Bitmap
}

func (r *booleanReader) Bool(row int) (bool, error) {
	if err := r.checkRow(row); err != nil {
		return false, err
	}
	return r.values.IsSet(row), nil
}

// primitiveReader serves the plain integer and float columns. All three
// numeric getters work, with checked conversion, so callers can read a
// column into any Go numeric type that can hold the values.
type primitiveReader[T constraints.Integer | constraints.Float] struct {
	base
	values []T
}

func newPrimitiveReader[T constraints.Integer | constraints.Float](field serdearrow.Field, v *serdearrow.PrimitiveView[T]) (*primitiveReader[T], error) {
	if err := checkValidity(field.Type, v.Validity, len(v.Values)); err != nil {
		return nil, err
	}
	return &primitiveReader[T]{
		base:   newValidityBase(field, len(v.Values), v.Validity),
		values: v.Values,
	}, nil
}

func (r *primitiveReader[T]) value(row int) (T, error) {
	if err := r.checkRow(row); err != nil {
		var zero T
		return zero, err
	}
	return r.values[row], nil
}

func (r *primitiveReader[T]) Int(row int) (int64, error) {
	v, err := r.value(row)
	if err != nil {
		return 0, err
	}
	iv, err := toInt64(v)
	if err != nil {
		return 0, serdearrow.ValueErrorf(r.field.Type, "row %d: %v", row, err)
	}
	return iv, nil
}

func (r *primitiveReader[T]) Uint(row int) (uint64, error) {
	v, err := r.value(row)
	if err != nil {
		return 0, err
	}
	uv, err := toUint64(v)
	if err != nil {
		return 0, serdearrow.ValueErrorf(r.field.Type, "row %d: %v", row, err)
	}
	return uv, nil
}

func (r *primitiveReader[T]) Float(row int) (float64, error) {
	v, err := r.value(row)
	if err != nil {
		return 0, err
	}
	return toFloat64(v)
}

// toInt64 widens any stored numeric to int64, rejecting unsigned values
// beyond the signed range and floats with a fractional part.
func toInt64[T constraints.Integer | constraints.Float](v T) (int64, error) {
	switch v := any(v).(type) {
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, errOverflow
		}
		return int64(v), nil
	case float32:
		return floatToInt64(float64(v))
	case float64:
		return floatToInt64(v)
	}
	return 0, errOverflow
}

func toUint64[T constraints.Integer | constraints.Float](v T) (uint64, error) {
	switch v := any(v).(type) {
	case int8:
		return negCheck(int64(v))
	case int16:
		return negCheck(int64(v))
	case int32:
		return negCheck(int64(v))
	case int64:
		return negCheck(v)
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case float32:
		iv, err := floatToInt64(float64(v))
		if err != nil {
			return 0, err
		}
		return negCheck(iv)
	case float64:
		iv, err := floatToInt64(v)
		if err != nil {
			return 0, err
		}
		return negCheck(iv)
	}
	return 0, errOverflow
}

func toFloat64[T constraints.Integer | constraints.Float](v T) (float64, error) {
	switch v := any(v).(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case uint64:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int8:
		return float64(v), nil
	}
	return 0, errOverflow
}

type float16Reader struct {
	base
	values []float16.Num
}

func (r *float16Reader) Float(row int) (float64, error) {
	if err := r.checkRow(row); err != nil {
		return 0, err
	}
	return float64(r.values[row].Float32()), nil
}
