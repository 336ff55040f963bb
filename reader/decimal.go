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
	"strconv"

	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/decimal128"
)

// decimalReader serves Decimal128 columns. The scaled integer is formatted
// back into decimal text only when a caller asks for a string.
type decimalReader struct {
	base
	scale  int32
	values []decimal128.Num
}

func newDecimalReader(field serdearrow.Field, v *serdearrow.Decimal128View) (*decimalReader, error) {
	if v.Precision < 1 || v.Precision > decimal128.MaxPrecision {
		return nil, serdearrow.LayoutErrorf(field.Type, "invalid decimal precision %d", v.Precision)
	}
	if err := checkValidity(field.Type, v.Validity, len(v.Values)); err != nil {
		return nil, err
	}
	return &decimalReader{
		base:   newValidityBase(field, len(v.Values), v.Validity),
		scale:  v.Scale,
		values: v.Values,
	}, nil
}

func (r *decimalReader) Str(row int) (string, error) {
	if err := r.checkRow(row); err != nil {
		return "", err
	}
	return r.values[row].ToString(r.scale), nil
}

func (r *decimalReader) Float(row int) (float64, error) {
	s, err := r.Str(row)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, serdearrow.ValueErrorf(r.field.Type, "row %d: %v", row, err)
	}
	return f, nil
}
