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
	"fmt"
	"strings"
)

// Strategy disambiguates host-side shapes that map onto the same Arrow type.
type Strategy int

const (
	// NoStrategy marks an unambiguous field.
	NoStrategy Strategy = iota

	// UtcStrAsDate64 marks a date64 column fed by date-time strings
	// carrying a UTC marker ("2015-09-18T23:56:04Z").
	UtcStrAsDate64

	// NaiveStrAsDate64 marks a date64 column fed by date-time strings
	// without a timezone marker ("2015-09-18T23:56:04").
	NaiveStrAsDate64

	// TupleAsStruct marks a struct column fed by fixed-arity heterogeneous
	// sequences; the struct's fields carry numeric names ("0", "1", ...).
	TupleAsStruct

	// MapAsStruct marks a struct column fed by maps; each map key must
	// match a struct field name.
	MapAsStruct

	// UnknownVariant marks a field whose type could not be determined.
	// Any value pushed into such a field is an error.
	UnknownVariant
)

func (s Strategy) String() string {
	switch s {
	case NoStrategy:
		return ""
	case UtcStrAsDate64:
		return "UtcStrAsDate64"
	case NaiveStrAsDate64:
		return "NaiveStrAsDate64"
	case TupleAsStruct:
		return "TupleAsStruct"
	case MapAsStruct:
		return "MapAsStruct"
	case UnknownVariant:
		return "UnknownVariant"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy is the inverse of Strategy.String.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "":
		return NoStrategy, nil
	case "UtcStrAsDate64":
		return UtcStrAsDate64, nil
	case "NaiveStrAsDate64":
		return NaiveStrAsDate64, nil
	case "TupleAsStruct":
		return TupleAsStruct, nil
	case "MapAsStruct":
		return MapAsStruct, nil
	case "UnknownVariant":
		return UnknownVariant, nil
	}
	return NoStrategy, SchemaErrorf("unknown strategy %q", s)
}

// Field is a named column of a schema. Nested child fields are owned by the
// field's DataType (list element, struct fields, map entries, union
// variants).
type Field struct {
	Name     string
	Type     DataType
	Nullable bool
	Metadata map[string]string
	Strategy Strategy
}

func (f Field) String() string {
	o := new(strings.Builder)
	fmt.Fprintf(o, "%s: type=%v", f.Name, f.Type)
	if f.Nullable {
		o.WriteString(", nullable")
	}
	if f.Strategy != NoStrategy {
		fmt.Fprintf(o, ", strategy=%s", f.Strategy)
	}
	return o.String()
}

// Meta strips the field down to the name/nullability/metadata triple carried
// alongside child arrays.
func (f Field) Meta() FieldMeta {
	return FieldMeta{Name: f.Name, Nullable: f.Nullable, Metadata: f.Metadata}
}

// FieldMeta pairs a child Array or View with the name, nullability and
// metadata of the field that produced it.
type FieldMeta struct {
	Name     string
	Nullable bool
	Metadata map[string]string
}

// Field reconstructs a Field for the given data type.
func (m FieldMeta) Field(dt DataType) Field {
	return Field{Name: m.Name, Type: dt, Nullable: m.Nullable, Metadata: m.Metadata}
}

// Schema is an ordered list of top-level fields.
type Schema []Field

// FieldByName returns the first field with the given name.
func (s Schema) FieldByName(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks the schema invariants: sibling names are unique at every
// nesting level and every field carries a data type.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, f := range s {
		if _, dup := seen[f.Name]; dup {
			return SchemaErrorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if err := validateField(f); err != nil {
			return WithPath(err, f.Name)
		}
	}
	return nil
}

func validateField(f Field) error {
	if f.Type == nil {
		return SchemaErrorf("field %q has no data type", f.Name)
	}
	switch dt := f.Type.(type) {
	case *ListType:
		return wrapChild(dt.ElemField())
	case *LargeListType:
		return wrapChild(dt.ElemField())
	case *FixedSizeListType:
		return wrapChild(dt.ElemField())
	case *MapType:
		if err := wrapChild(dt.KeyField()); err != nil {
			return err
		}
		return wrapChild(dt.ItemField())
	case *StructType:
		return Schema(dt.Fields()).Validate()
	case *UnionType:
		return Schema(dt.Variants()).Validate()
	case *DictionaryType:
		switch dt.IndexType.ID() {
		case INT8, INT16, INT32, INT64, UINT8, UINT16, UINT32, UINT64:
		default:
			return SchemaErrorf("dictionary index type must be an integer, got %s", dt.IndexType)
		}
	case *TimestampType:
		if dt.TimeZone != "" && !strings.EqualFold(dt.TimeZone, "UTC") {
			return SchemaErrorf("unsupported timezone %q, only UTC is supported", dt.TimeZone)
		}
	}
	return nil
}

func wrapChild(f Field) error {
	if err := validateField(f); err != nil {
		return WithPath(err, f.Name)
	}
	return nil
}
