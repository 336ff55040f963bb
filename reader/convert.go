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
	"errors"
	"math"
)

var (
	errOverflow   = errors.New("value does not fit the requested integer range")
	errFracFloat  = errors.New("float with a fractional part is not an integer")
	errNegative   = errors.New("negative value cannot be read as unsigned")
)

func floatToInt64(v float64) (int64, error) {
	if v != math.Trunc(v) {
		return 0, errFracFloat
	}
	if v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, errOverflow
	}
	return int64(v), nil
}

func negCheck(v int64) (uint64, error) {
	if v < 0 {
		return 0, errNegative
	}
	return uint64(v), nil
}
