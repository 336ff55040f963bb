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
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// The textual schema interchange form. A field serializes as
//
//	{"name": ..., "data_type": "<Variant>" | "<Variant(params)>",
//	 "nullable": bool, "strategy": ..., "children": [...], "metadata": {...}}
//
// where the data_type string is the canonical call syntax, e.g.
// "FixedSizeList(6)", "Decimal128(5,2)" or
// `Timestamp(Millisecond, Some("UTC"))`. Child fields (list elements,
// struct fields, map entries, union variants) are listed under "children".

type fieldJSON struct {
	Name     string            `json:"name"`
	DataType string            `json:"data_type"`
	Nullable bool              `json:"nullable,omitempty"`
	Strategy string            `json:"strategy,omitempty"`
	Children []Field           `json:"children,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FormatDataType returns the canonical call-syntax spelling of a data type,
// without its children.
func FormatDataType(dt DataType) string {
	switch dt := dt.(type) {
	case *ListType:
		return "List"
	case *LargeListType:
		return "LargeList"
	case *FixedSizeListType:
		return fmt.Sprintf("FixedSizeList(%d)", dt.Len())
	case *StructType:
		return "Struct"
	case *MapType:
		return "Map"
	case *UnionType:
		return "Union"
	default:
		return dt.String()
	}
}

// ChildFields returns the child fields owned by a data type, in the order
// they are serialized under "children".
func ChildFields(dt DataType) []Field {
	switch dt := dt.(type) {
	case *ListType:
		return []Field{dt.ElemField()}
	case *LargeListType:
		return []Field{dt.ElemField()}
	case *FixedSizeListType:
		return []Field{dt.ElemField()}
	case *StructType:
		return dt.Fields()
	case *MapType:
		return []Field{dt.ValueField()}
	case *UnionType:
		return dt.Variants()
	}
	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldJSON{
		Name:     f.Name,
		DataType: FormatDataType(f.Type),
		Nullable: f.Nullable,
		Strategy: f.Strategy.String(),
		Children: ChildFields(f.Type),
		Metadata: f.Metadata,
	})
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	strategy, err := ParseStrategy(raw.Strategy)
	if err != nil {
		return err
	}
	dt, err := ParseDataType(raw.DataType, raw.Children)
	if err != nil {
		return WithPath(err, raw.Name)
	}
	*f = Field{
		Name:     raw.Name,
		Type:     dt,
		Nullable: raw.Nullable,
		Metadata: raw.Metadata,
		Strategy: strategy,
	}
	return nil
}

// ParseDataType parses a canonical call-syntax data type string, attaching
// the given child fields where the variant requires them.
func ParseDataType(s string, children []Field) (DataType, error) {
	head, args, err := splitCall(s)
	if err != nil {
		return nil, err
	}

	needChildren := func(n int) error {
		if len(children) != n {
			return SchemaErrorf("%s requires %d children, got %d", head, n, len(children))
		}
		return nil
	}
	noArgs := func() error {
		if len(args) != 0 {
			return SchemaErrorf("%s takes no parameters", head)
		}
		return nil
	}

	switch head {
	case "Null":
		return NullDataType, noArgs()
	case "Boolean", "Bool":
		return FixedWidthTypes.Boolean, noArgs()
	case "Int8":
		return PrimitiveTypes.Int8, noArgs()
	case "Int16":
		return PrimitiveTypes.Int16, noArgs()
	case "Int32":
		return PrimitiveTypes.Int32, noArgs()
	case "Int64":
		return PrimitiveTypes.Int64, noArgs()
	case "UInt8":
		return PrimitiveTypes.Uint8, noArgs()
	case "UInt16":
		return PrimitiveTypes.Uint16, noArgs()
	case "UInt32":
		return PrimitiveTypes.Uint32, noArgs()
	case "UInt64":
		return PrimitiveTypes.Uint64, noArgs()
	case "Float16":
		return PrimitiveTypes.Float16, noArgs()
	case "Float32":
		return PrimitiveTypes.Float32, noArgs()
	case "Float64":
		return PrimitiveTypes.Float64, noArgs()
	case "Utf8", "String":
		return BinaryTypes.String, noArgs()
	case "LargeUtf8", "LargeString":
		return BinaryTypes.LargeString, noArgs()
	case "Binary":
		return BinaryTypes.Binary, noArgs()
	case "LargeBinary":
		return BinaryTypes.LargeBinary, noArgs()
	case "Date32":
		return FixedWidthTypes.Date32, noArgs()
	case "Date64":
		return FixedWidthTypes.Date64, noArgs()

	case "FixedSizeBinary":
		n, err := intArgs(head, args, 1)
		if err != nil {
			return nil, err
		}
		return &FixedSizeBinaryType{ByteWidth: n[0]}, nil

	case "Decimal128":
		n, err := intArgs(head, args, 2)
		if err != nil {
			return nil, err
		}
		return &Decimal128Type{Precision: int32(n[0]), Scale: int32(n[1])}, nil

	case "Time32":
		unit, err := unitArg(head, args)
		if err != nil {
			return nil, err
		}
		return &Time32Type{Unit: unit}, nil
	case "Time64":
		unit, err := unitArg(head, args)
		if err != nil {
			return nil, err
		}
		return &Time64Type{Unit: unit}, nil
	case "Duration":
		unit, err := unitArg(head, args)
		if err != nil {
			return nil, err
		}
		return &DurationType{Unit: unit}, nil

	case "Timestamp":
		if len(args) != 2 {
			return nil, SchemaErrorf("Timestamp requires (unit, timezone), got %q", s)
		}
		unit, err := parseTimeUnit(args[0])
		if err != nil {
			return nil, err
		}
		tz, err := parseTimeZone(args[1])
		if err != nil {
			return nil, err
		}
		return &TimestampType{Unit: unit, TimeZone: tz}, nil

	case "List":
		if err := needChildren(1); err != nil {
			return nil, err
		}
		return ListOfField(children[0]), nil
	case "LargeList":
		if err := needChildren(1); err != nil {
			return nil, err
		}
		return LargeListOfField(children[0]), nil
	case "FixedSizeList":
		n, err := intArgs(head, args, 1)
		if err != nil {
			return nil, err
		}
		if err := needChildren(1); err != nil {
			return nil, err
		}
		return FixedSizeListOfField(int32(n[0]), children[0]), nil

	case "Struct":
		return StructOf(children...), nil

	case "Map":
		if err := needChildren(1); err != nil {
			return nil, err
		}
		entries, ok := children[0].Type.(*StructType)
		if !ok || entries.NumFields() != 2 {
			return nil, SchemaErrorf("Map child must be a two-field entries struct")
		}
		return MapOfFields(entries.Field(0), entries.Field(1)), nil

	case "Union", "DenseUnion":
		if len(children) == 0 {
			return nil, SchemaErrorf("Union requires at least one variant child")
		}
		return UnionOf(children...), nil

	case "Dictionary":
		if len(args) != 2 {
			return nil, SchemaErrorf("Dictionary requires (index type, value type), got %q", s)
		}
		index, err := ParseDataType(args[0], nil)
		if err != nil {
			return nil, err
		}
		value, err := ParseDataType(args[1], nil)
		if err != nil {
			return nil, err
		}
		return &DictionaryType{IndexType: index, ValueType: value}, nil
	}
	return nil, SchemaErrorf("unknown data type %q", s)
}

// splitCall splits "Head(a, b)" into its head and top-level comma-separated
// arguments, honoring nested parentheses and quoted strings.
func splitCall(s string) (head string, args []string, err error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, nil, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, SchemaErrorf("malformed data type %q", s)
	}
	head = strings.TrimSpace(s[:open])

	depth := 0
	inQuote := false
	start := open + 1
	body := s[:len(s)-1]
	for i := start; i < len(body); i++ {
		switch c := body[i]; {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case c == '"':
			inQuote = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return "", nil, SchemaErrorf("malformed data type %q", s)
			}
		case c == ',' && depth == 0:
			args = append(args, strings.TrimSpace(body[start:i]))
			start = i + 1
		}
	}
	if depth != 0 || inQuote {
		return "", nil, SchemaErrorf("malformed data type %q", s)
	}
	args = append(args, strings.TrimSpace(body[start:]))
	return head, args, nil
}

func intArgs(head string, args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, SchemaErrorf("%s requires %d integer parameters, got %d", head, n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, SchemaErrorf("%s: invalid parameter %q", head, a)
		}
		out[i] = v
	}
	return out, nil
}

func unitArg(head string, args []string) (TimeUnit, error) {
	if len(args) != 1 {
		return 0, SchemaErrorf("%s requires a time unit parameter", head)
	}
	return parseTimeUnit(args[0])
}

func parseTimeUnit(s string) (TimeUnit, error) {
	switch s {
	case "Second":
		return Second, nil
	case "Millisecond":
		return Millisecond, nil
	case "Microsecond":
		return Microsecond, nil
	case "Nanosecond":
		return Nanosecond, nil
	}
	return 0, SchemaErrorf("unknown time unit %q", s)
}

// parseTimeZone parses the timezone parameter of a Timestamp: None, or
// Some("zone"), or a bare quoted string.
func parseTimeZone(s string) (string, error) {
	if s == "None" {
		return "", nil
	}
	if inner, ok := strings.CutPrefix(s, "Some("); ok {
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok {
			return "", SchemaErrorf("malformed timezone %q", s)
		}
		s = strings.TrimSpace(inner)
	}
	tz, err := strconv.Unquote(s)
	if err != nil {
		return "", SchemaErrorf("malformed timezone %q", s)
	}
	return tz, nil
}
