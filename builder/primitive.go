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
	"golang.org/x/exp/constraints"

	serdearrow "github.com/chmp/serde-arrow-sub003"
	"github.com/chmp/serde-arrow-sub003/float16"
)

// numericBuilder backs all fixed-width integer and float columns, plus the
// temporal columns sharing their storage. Cross-width pushes narrow with an
// overflow check.
type numericBuilder[T constraints.Integer | constraints.Float] struct {
	base
	values []T
}

func newNumericBuilder[T constraints.Integer | constraints.Float](field serdearrow.Field) *numericBuilder[T] {
	return &numericBuilder[T]{base: newBase(field)}
}

func (b *numericBuilder[T]) append(v T) {
	b.values = append(b.values, v)
	b.appendValid()
}

func (b *numericBuilder[T]) PushNull() error {
	if err := b.appendNull(); err != nil {
		return err
	}
	var zero T
	b.values = append(b.values, zero)
	return nil
}

func (b *numericBuilder[T]) PushDefault() error {
	var zero T
	b.values = append(b.values, zero)
	b.appendDefault()
	return nil
}

func (b *numericBuilder[T]) PushInt(v int64) error {
	x, err := fromInt64[T](v)
	if err != nil {
		return serdearrow.ValueErrorf(b.field.Type, "%d: %s", v, err)
	}
	b.append(x)
	return nil
}

func (b *numericBuilder[T]) PushUint(v uint64) error {
	x, err := fromUint64[T](v)
	if err != nil {
		return serdearrow.ValueErrorf(b.field.Type, "%d: %s", v, err)
	}
	b.append(x)
	return nil
}

func (b *numericBuilder[T]) PushFloat(v float64) error {
	x, err := fromFloat64[T](v)
	if err != nil {
		return serdearrow.ValueErrorf(b.field.Type, "%v: %s", v, err)
	}
	b.append(x)
	return nil
}

func (b *numericBuilder[T]) NewArray() serdearrow.Array {
	values := b.values
	b.values = nil
	return &serdearrow.PrimitiveArray[T]{
		Type:     b.field.Type,
		Values:   values,
		Validity: b.finish(),
	}
}

// booleanBuilder stores one bit per row.
type booleanBuilder struct {
	base
	values bitmapBuilder
}

func (b *booleanBuilder) PushBool(v bool) error {
	b.values.Append(v)
	b.appendValid()
	return nil
}

func (b *booleanBuilder) PushNull() error {
	if err := b.appendNull(); err != nil {
		return err
	}
	b.values.Append(false)
	return nil
}

func (b *booleanBuilder) PushDefault() error {
	b.values.Append(false)
	b.appendDefault()
	return nil
}

func (b *booleanBuilder) NewArray() serdearrow.Array {
	n := b.values.Len()
	return &serdearrow.BooleanArray{
		N:        n,
		Values:   b.values.detach(),
		Validity: b.finish(),
	}
}

// float16Builder stores half-precision floats converted from any pushed
// numeric.
type float16Builder struct {
	base
	values []float16.Num
}

func (b *float16Builder) append(v float16.Num) {
	b.values = append(b.values, v)
	b.appendValid()
}

func (b *float16Builder) PushNull() error {
	if err := b.appendNull(); err != nil {
		return err
	}
	b.values = append(b.values, float16.Num{})
	return nil
}

func (b *float16Builder) PushDefault() error {
	b.values = append(b.values, float16.Num{})
	b.appendDefault()
	return nil
}

func (b *float16Builder) PushFloat(v float64) error {
	b.append(float16.New(float32(v)))
	return nil
}

func (b *float16Builder) PushInt(v int64) error {
	b.append(float16.New(float32(v)))
	return nil
}

func (b *float16Builder) PushUint(v uint64) error {
	b.append(float16.New(float32(v)))
	return nil
}

func (b *float16Builder) NewArray() serdearrow.Array {
	values := b.values
	b.values = nil
	return &serdearrow.Float16Array{Values: values, Validity: b.finish()}
}

var (
	_ Builder = (*numericBuilder[int8])(nil)
	_ Builder = (*booleanBuilder)(nil)
	_ Builder = (*float16Builder)(nil)
)
