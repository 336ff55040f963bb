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
	"errors"
	"math"

	"golang.org/x/exp/constraints"
)

var (
	errOverflow   = errors.New("value out of range")
	errFloatToInt = errors.New("cannot store a float in an integer column")
)

// fromInt64 narrows a pushed signed integer to the column's width, checking
// for overflow.
func fromInt64[T constraints.Integer | constraints.Float](v int64) (T, error) {
	var t T
	switch any(t).(type) {
	case int8:
		if v < math.MinInt8 || v > math.MaxInt8 {
			return t, errOverflow
		}
		return T(v), nil
	case int16:
		if v < math.MinInt16 || v > math.MaxInt16 {
			return t, errOverflow
		}
		return T(v), nil
	case int32:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return t, errOverflow
		}
		return T(v), nil
	case int64:
		return T(v), nil
	case uint8:
		if v < 0 || v > math.MaxUint8 {
			return t, errOverflow
		}
		return T(v), nil
	case uint16:
		if v < 0 || v > math.MaxUint16 {
			return t, errOverflow
		}
		return T(v), nil
	case uint32:
		if v < 0 || v > math.MaxUint32 {
			return t, errOverflow
		}
		return T(v), nil
	case uint64:
		if v < 0 {
			return t, errOverflow
		}
		return T(v), nil
	case float32, float64:
		return T(v), nil
	}
	return t, errOverflow
}

// fromUint64 narrows a pushed unsigned integer to the column's width,
// checking for overflow.
func fromUint64[T constraints.Integer | constraints.Float](v uint64) (T, error) {
	var t T
	switch any(t).(type) {
	case int8:
		if v > math.MaxInt8 {
			return t, errOverflow
		}
		return T(v), nil
	case int16:
		if v > math.MaxInt16 {
			return t, errOverflow
		}
		return T(v), nil
	case int32:
		if v > math.MaxInt32 {
			return t, errOverflow
		}
		return T(v), nil
	case int64:
		if v > math.MaxInt64 {
			return t, errOverflow
		}
		return T(v), nil
	case uint8:
		if v > math.MaxUint8 {
			return t, errOverflow
		}
		return T(v), nil
	case uint16:
		if v > math.MaxUint16 {
			return t, errOverflow
		}
		return T(v), nil
	case uint32:
		if v > math.MaxUint32 {
			return t, errOverflow
		}
		return T(v), nil
	case uint64:
		return T(v), nil
	case float32, float64:
		return T(v), nil
	}
	return t, errOverflow
}

// fromFloat64 converts a pushed float for the column. Floats only land in
// float columns; integer columns reject them.
func fromFloat64[T constraints.Integer | constraints.Float](v float64) (T, error) {
	var t T
	switch any(t).(type) {
	case float32, float64:
		return T(v), nil
	}
	return t, errFloatToInt
}
