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
	"fmt"
)

// The four error kinds produced by the engine. Use errors.Is to classify:
//
//	if errors.Is(err, serdearrow.ErrValue) { ... }
var (
	// ErrSchema marks ambiguous or incompatible type inference, duplicate
	// field names and too-deep nesting.
	ErrSchema = errors.New("schema error")

	// ErrShapeMismatch marks a structural call reaching a builder or view
	// of an incompatible kind.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrValue marks a value that does not fit its declared column:
	// numeric overflow, malformed strings, wrong element counts,
	// out-of-range indices.
	ErrValue = errors.New("value error")

	// ErrLayout marks malformed Arrow buffers supplied for reading:
	// non-monotonic offsets, null parents with non-empty children,
	// mismatched field counts.
	ErrLayout = errors.New("layout error")
)

// Error is the error type returned across builder and reader tree
// boundaries. It carries the dot-separated path of the originating field and
// the name of the data type that raised it.
type Error struct {
	kind error
	// Path is the dot-separated field path, e.g. "order.items.price".
	Path string
	// Type names the data type of the builder or view that raised the
	// error, when known.
	Type string

	msg   string
	cause error
}

func (e *Error) Error() string {
	o := e.kind.Error()
	if e.Path != "" {
		o += fmt.Sprintf(": field %q", e.Path)
	}
	if e.Type != "" {
		o += fmt.Sprintf(" (%s)", e.Type)
	}
	switch {
	case e.msg != "":
		// the cause, if any, is already embedded in the message
		o += ": " + e.msg
	case e.cause != nil:
		o += ": " + e.cause.Error()
	}
	return o
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether the error matches one of the kind sentinels.
func (e *Error) Is(target error) bool { return target == e.kind }

func newError(kind error, dt DataType, format string, args ...any) *Error {
	e := &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
	if dt != nil {
		e.Type = dt.String()
	}
	// keep the root cause visible to errors.Is/errors.As
	for _, a := range args {
		if err, ok := a.(error); ok {
			e.cause = err
			break
		}
	}
	return e
}

// SchemaErrorf returns a new ErrSchema-kind error.
func SchemaErrorf(format string, args ...any) error {
	return newError(ErrSchema, nil, format, args...)
}

// ShapeErrorf returns a new ErrShapeMismatch-kind error annotated with the
// data type that rejected the call.
func ShapeErrorf(dt DataType, format string, args ...any) error {
	return newError(ErrShapeMismatch, dt, format, args...)
}

// ValueErrorf returns a new ErrValue-kind error annotated with the data type
// that rejected the value.
func ValueErrorf(dt DataType, format string, args ...any) error {
	return newError(ErrValue, dt, format, args...)
}

// LayoutErrorf returns a new ErrLayout-kind error annotated with the data
// type whose buffers are malformed.
func LayoutErrorf(dt DataType, format string, args ...any) error {
	return newError(ErrLayout, dt, format, args...)
}

// WithPath prepends a field name to the error's dotted path. Errors cross
// every tree boundary through WithPath, accumulating the full path without
// discarding the root cause.
func WithPath(err error, name string) error {
	if err == nil || name == "" {
		return err
	}
	var e *Error
	if errors.As(err, &e) {
		cp := *e
		if cp.Path == "" {
			cp.Path = name
		} else {
			cp.Path = name + "." + cp.Path
		}
		return &cp
	}
	return &Error{kind: ErrValue, Path: name, cause: err}
}
