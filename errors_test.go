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

package serdearrow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{SchemaErrorf("boom"), ErrSchema},
		{ShapeErrorf(PrimitiveTypes.Int64, "boom"), ErrShapeMismatch},
		{ValueErrorf(PrimitiveTypes.Int64, "boom"), ErrValue},
		{LayoutErrorf(nil, "boom"), ErrLayout},
	}
	for _, tc := range tests {
		assert.ErrorIs(t, tc.err, tc.kind)
		for _, other := range []error{ErrSchema, ErrShapeMismatch, ErrValue, ErrLayout} {
			if other != tc.kind {
				assert.NotErrorIs(t, tc.err, other)
			}
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := ValueErrorf(PrimitiveTypes.Uint8, "value %d out of range", 300)
	err = WithPath(err, "count")
	err = WithPath(err, "order")
	assert.EqualError(t, err, `value error: field "order.count" (UInt8): value 300 out of range`)
}

func TestWithPath(t *testing.T) {
	base := ValueErrorf(nil, "nope")

	err := WithPath(base, "inner")
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "inner", e.Path)

	// prepending keeps the original untouched
	outer := WithPath(err, "outer")
	require.ErrorAs(t, outer, &e)
	assert.Equal(t, "outer.inner", e.Path)
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "inner", e.Path)

	assert.Nil(t, WithPath(nil, "x"))
	assert.Same(t, base.(*Error), WithPath(base, "").(*Error))
}

func TestWithPathForeignError(t *testing.T) {
	cause := errors.New("root cause")
	err := WithPath(cause, "field")
	assert.ErrorIs(t, err, ErrValue)
	assert.ErrorIs(t, err, cause)
}

func TestErrorCausePreserved(t *testing.T) {
	cause := errors.New("strconv failed")
	err := ValueErrorf(BinaryTypes.String, "cannot parse: %s", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrValue)
}
