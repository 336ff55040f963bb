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
	"github.com/chmp/serde-arrow-sub003/decimal128"
)

// decimalBuilder backs Decimal128 columns. It accepts decimal strings,
// floats scaled by 10^scale and truncated toward zero, and exact integers.
type decimalBuilder struct {
	base
	precision int32
	scale     int32
	truncate  bool
	values    []decimal128.Num
}

func newDecimalBuilder(field serdearrow.Field, dt *serdearrow.Decimal128Type, truncate bool) (*decimalBuilder, error) {
	if dt.Precision <= 0 || dt.Precision > decimal128.MaxPrecision {
		return nil, serdearrow.SchemaErrorf("decimal precision must be in 1..%d, got %d",
			decimal128.MaxPrecision, dt.Precision)
	}
	return &decimalBuilder{
		base:      newBase(field),
		precision: dt.Precision,
		scale:     dt.Scale,
		truncate:  truncate,
	}, nil
}

func (b *decimalBuilder) append(v decimal128.Num) {
	b.values = append(b.values, v)
	b.appendValid()
}

func (b *decimalBuilder) PushNull() error {
	if err := b.appendNull(); err != nil {
		return err
	}
	b.values = append(b.values, decimal128.Num{})
	return nil
}

func (b *decimalBuilder) PushDefault() error {
	b.values = append(b.values, decimal128.Num{})
	b.appendDefault()
	return nil
}

func (b *decimalBuilder) PushString(v string) error {
	n, err := decimal128.FromString(v, b.precision, b.scale, b.truncate)
	if err != nil {
		return serdearrow.ValueErrorf(b.field.Type, "%s", err)
	}
	b.append(n)
	return nil
}

func (b *decimalBuilder) PushFloat(v float64) error {
	n, err := decimal128.FromFloat64(v, b.precision, b.scale)
	if err != nil {
		return serdearrow.ValueErrorf(b.field.Type, "%s", err)
	}
	b.append(n)
	return nil
}

func (b *decimalBuilder) PushInt(v int64) error {
	return b.PushString(strconv.FormatInt(v, 10))
}

func (b *decimalBuilder) PushUint(v uint64) error {
	return b.PushString(strconv.FormatUint(v, 10))
}

func (b *decimalBuilder) NewArray() serdearrow.Array {
	values := b.values
	b.values = nil
	return &serdearrow.Decimal128Array{
		Precision: b.precision,
		Scale:     b.scale,
		Values:    values,
		Validity:  b.finish(),
	}
}

var _ Builder = (*decimalBuilder)(nil)
