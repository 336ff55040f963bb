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

// Package arrowgo converts between the engine's schema, arrays and views
// and github.com/apache/arrow-go/v18. It is the only package that touches
// the Arrow library; the engine itself never imports it.
package arrowgo

import (
	"github.com/apache/arrow-go/v18/arrow"

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// strategyKey is the field-metadata key carrying the strategy across the
// library boundary.
const strategyKey = "SERDE_ARROW:strategy"

// FieldTo converts an engine field to an arrow-go field. The strategy, when
// set, travels in the field metadata.
func FieldTo(f serdearrow.Field) (arrow.Field, error) {
	dt, err := typeTo(f.Type)
	if err != nil {
		return arrow.Field{}, serdearrow.WithPath(err, f.Name)
	}
	keys := make([]string, 0, len(f.Metadata)+1)
	values := make([]string, 0, len(f.Metadata)+1)
	for k, v := range f.Metadata {
		keys = append(keys, k)
		values = append(values, v)
	}
	if f.Strategy != serdearrow.NoStrategy {
		keys = append(keys, strategyKey)
		values = append(values, f.Strategy.String())
	}
	return arrow.Field{
		Name:     f.Name,
		Type:     dt,
		Nullable: f.Nullable,
		Metadata: arrow.NewMetadata(keys, values),
	}, nil
}

// SchemaTo converts an engine schema to an arrow-go schema.
func SchemaTo(schema serdearrow.Schema) (*arrow.Schema, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	fields := make([]arrow.Field, len(schema))
	for i, f := range schema {
		af, err := FieldTo(f)
		if err != nil {
			return nil, err
		}
		fields[i] = af
	}
	return arrow.NewSchema(fields, nil), nil
}

func typeTo(dt serdearrow.DataType) (arrow.DataType, error) {
	switch t := dt.(type) {
	case *serdearrow.NullType:
		return arrow.Null, nil
	case *serdearrow.BooleanType:
		return arrow.FixedWidthTypes.Boolean, nil
	case *serdearrow.Int8Type:
		return arrow.PrimitiveTypes.Int8, nil
	case *serdearrow.Int16Type:
		return arrow.PrimitiveTypes.Int16, nil
	case *serdearrow.Int32Type:
		return arrow.PrimitiveTypes.Int32, nil
	case *serdearrow.Int64Type:
		return arrow.PrimitiveTypes.Int64, nil
	case *serdearrow.Uint8Type:
		return arrow.PrimitiveTypes.Uint8, nil
	case *serdearrow.Uint16Type:
		return arrow.PrimitiveTypes.Uint16, nil
	case *serdearrow.Uint32Type:
		return arrow.PrimitiveTypes.Uint32, nil
	case *serdearrow.Uint64Type:
		return arrow.PrimitiveTypes.Uint64, nil
	case *serdearrow.Float16Type:
		return arrow.FixedWidthTypes.Float16, nil
	case *serdearrow.Float32Type:
		return arrow.PrimitiveTypes.Float32, nil
	case *serdearrow.Float64Type:
		return arrow.PrimitiveTypes.Float64, nil
	case *serdearrow.StringType:
		return arrow.BinaryTypes.String, nil
	case *serdearrow.LargeStringType:
		return arrow.BinaryTypes.LargeString, nil
	case *serdearrow.BinaryType:
		return arrow.BinaryTypes.Binary, nil
	case *serdearrow.LargeBinaryType:
		return arrow.BinaryTypes.LargeBinary, nil
	case *serdearrow.FixedSizeBinaryType:
		return &arrow.FixedSizeBinaryType{ByteWidth: t.ByteWidth}, nil
	case *serdearrow.Decimal128Type:
		return &arrow.Decimal128Type{Precision: t.Precision, Scale: t.Scale}, nil
	case *serdearrow.Date32Type:
		return arrow.FixedWidthTypes.Date32, nil
	case *serdearrow.Date64Type:
		return arrow.FixedWidthTypes.Date64, nil
	case *serdearrow.Time32Type:
		return &arrow.Time32Type{Unit: unitTo(t.Unit)}, nil
	case *serdearrow.Time64Type:
		return &arrow.Time64Type{Unit: unitTo(t.Unit)}, nil
	case *serdearrow.DurationType:
		return &arrow.DurationType{Unit: unitTo(t.Unit)}, nil
	case *serdearrow.TimestampType:
		return &arrow.TimestampType{Unit: unitTo(t.Unit), TimeZone: t.TimeZone}, nil

	case *serdearrow.ListType:
		elem, err := FieldTo(t.ElemField())
		if err != nil {
			return nil, err
		}
		return arrow.ListOfField(elem), nil
	case *serdearrow.LargeListType:
		elem, err := FieldTo(t.ElemField())
		if err != nil {
			return nil, err
		}
		return arrow.LargeListOfField(elem), nil
	case *serdearrow.FixedSizeListType:
		elem, err := FieldTo(t.ElemField())
		if err != nil {
			return nil, err
		}
		return arrow.FixedSizeListOfField(t.Len(), elem), nil
	case *serdearrow.StructType:
		fields := make([]arrow.Field, t.NumFields())
		for i, f := range t.Fields() {
			af, err := FieldTo(f)
			if err != nil {
				return nil, err
			}
			fields[i] = af
		}
		return arrow.StructOf(fields...), nil
	case *serdearrow.MapType:
		key, err := typeTo(t.KeyType())
		if err != nil {
			return nil, err
		}
		item, err := typeTo(t.ItemType())
		if err != nil {
			return nil, err
		}
		m := arrow.MapOf(key, item)
		m.KeysSorted = t.KeysSorted
		return m, nil
	case *serdearrow.UnionType:
		fields := make([]arrow.Field, t.NumVariants())
		codes := make([]arrow.UnionTypeCode, t.NumVariants())
		for i, f := range t.Variants() {
			af, err := FieldTo(f)
			if err != nil {
				return nil, err
			}
			fields[i] = af
			codes[i] = arrow.UnionTypeCode(i)
		}
		return arrow.DenseUnionOf(fields, codes), nil
	case *serdearrow.DictionaryType:
		index, err := typeTo(t.IndexType)
		if err != nil {
			return nil, err
		}
		value, err := typeTo(t.ValueType)
		if err != nil {
			return nil, err
		}
		return &arrow.DictionaryType{IndexType: index, ValueType: value}, nil
	}
	return nil, serdearrow.SchemaErrorf("cannot express %s as an arrow-go type", dt)
}

func unitTo(u serdearrow.TimeUnit) arrow.TimeUnit {
	switch u {
	case serdearrow.Second:
		return arrow.Second
	case serdearrow.Millisecond:
		return arrow.Millisecond
	case serdearrow.Microsecond:
		return arrow.Microsecond
	default:
		return arrow.Nanosecond
	}
}

// FieldFrom converts an arrow-go field to an engine field, recovering the
// strategy from the field metadata.
func FieldFrom(f arrow.Field) (serdearrow.Field, error) {
	dt, err := typeFrom(f.Type)
	if err != nil {
		return serdearrow.Field{}, serdearrow.WithPath(err, f.Name)
	}
	out := serdearrow.Field{Name: f.Name, Type: dt, Nullable: f.Nullable}
	for i, k := range f.Metadata.Keys() {
		v := f.Metadata.Values()[i]
		if k == strategyKey {
			s, err := serdearrow.ParseStrategy(v)
			if err != nil {
				return serdearrow.Field{}, serdearrow.WithPath(err, f.Name)
			}
			out.Strategy = s
			continue
		}
		if out.Metadata == nil {
			out.Metadata = make(map[string]string)
		}
		out.Metadata[k] = v
	}
	return out, nil
}

// SchemaFrom converts an arrow-go schema to an engine schema.
func SchemaFrom(schema *arrow.Schema) (serdearrow.Schema, error) {
	fields := make([]serdearrow.Field, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		f, err := FieldFrom(schema.Field(i))
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	out := serdearrow.Schema(fields)
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func typeFrom(dt arrow.DataType) (serdearrow.DataType, error) {
	switch t := dt.(type) {
	case *arrow.NullType:
		return serdearrow.NullDataType, nil
	case *arrow.BooleanType:
		return serdearrow.FixedWidthTypes.Boolean, nil
	case *arrow.Int8Type:
		return serdearrow.PrimitiveTypes.Int8, nil
	case *arrow.Int16Type:
		return serdearrow.PrimitiveTypes.Int16, nil
	case *arrow.Int32Type:
		return serdearrow.PrimitiveTypes.Int32, nil
	case *arrow.Int64Type:
		return serdearrow.PrimitiveTypes.Int64, nil
	case *arrow.Uint8Type:
		return serdearrow.PrimitiveTypes.Uint8, nil
	case *arrow.Uint16Type:
		return serdearrow.PrimitiveTypes.Uint16, nil
	case *arrow.Uint32Type:
		return serdearrow.PrimitiveTypes.Uint32, nil
	case *arrow.Uint64Type:
		return serdearrow.PrimitiveTypes.Uint64, nil
	case *arrow.Float16Type:
		return serdearrow.PrimitiveTypes.Float16, nil
	case *arrow.Float32Type:
		return serdearrow.PrimitiveTypes.Float32, nil
	case *arrow.Float64Type:
		return serdearrow.PrimitiveTypes.Float64, nil
	case *arrow.StringType:
		return serdearrow.BinaryTypes.String, nil
	case *arrow.LargeStringType:
		return serdearrow.BinaryTypes.LargeString, nil
	case *arrow.BinaryType:
		return serdearrow.BinaryTypes.Binary, nil
	case *arrow.LargeBinaryType:
		return serdearrow.BinaryTypes.LargeBinary, nil
	case *arrow.FixedSizeBinaryType:
		return &serdearrow.FixedSizeBinaryType{ByteWidth: t.ByteWidth}, nil
	case *arrow.Decimal128Type:
		return &serdearrow.Decimal128Type{Precision: t.Precision, Scale: t.Scale}, nil
	case *arrow.Date32Type:
		return serdearrow.FixedWidthTypes.Date32, nil
	case *arrow.Date64Type:
		return serdearrow.FixedWidthTypes.Date64, nil
	case *arrow.Time32Type:
		return &serdearrow.Time32Type{Unit: unitFrom(t.Unit)}, nil
	case *arrow.Time64Type:
		return &serdearrow.Time64Type{Unit: unitFrom(t.Unit)}, nil
	case *arrow.DurationType:
		return &serdearrow.DurationType{Unit: unitFrom(t.Unit)}, nil
	case *arrow.TimestampType:
		return &serdearrow.TimestampType{Unit: unitFrom(t.Unit), TimeZone: t.TimeZone}, nil

	case *arrow.ListType:
		elem, err := FieldFrom(t.ElemField())
		if err != nil {
			return nil, err
		}
		return serdearrow.ListOfField(elem), nil
	case *arrow.LargeListType:
		elem, err := FieldFrom(t.ElemField())
		if err != nil {
			return nil, err
		}
		return serdearrow.LargeListOfField(elem), nil
	case *arrow.FixedSizeListType:
		elem, err := FieldFrom(t.ElemField())
		if err != nil {
			return nil, err
		}
		return serdearrow.FixedSizeListOfField(t.Len(), elem), nil
	case *arrow.StructType:
		fields := make([]serdearrow.Field, t.NumFields())
		for i := 0; i < t.NumFields(); i++ {
			f, err := FieldFrom(t.Field(i))
			if err != nil {
				return nil, err
			}
			fields[i] = f
		}
		return serdearrow.StructOf(fields...), nil
	case *arrow.MapType:
		key, err := FieldFrom(t.KeyField())
		if err != nil {
			return nil, err
		}
		item, err := FieldFrom(t.ItemField())
		if err != nil {
			return nil, err
		}
		m := serdearrow.MapOfFields(key, item)
		m.KeysSorted = t.KeysSorted
		return m, nil
	case *arrow.DenseUnionType:
		variants := make([]serdearrow.Field, len(t.Fields()))
		for i, code := range t.TypeCodes() {
			if int(code) != i {
				return nil, serdearrow.SchemaErrorf(
					"union type codes must be dense 0..n-1, got %d at %d", code, i)
			}
			f, err := FieldFrom(t.Fields()[i])
			if err != nil {
				return nil, err
			}
			variants[i] = f
		}
		return serdearrow.UnionOf(variants...), nil
	case *arrow.DictionaryType:
		index, err := typeFrom(t.IndexType)
		if err != nil {
			return nil, err
		}
		value, err := typeFrom(t.ValueType)
		if err != nil {
			return nil, err
		}
		return &serdearrow.DictionaryType{IndexType: index, ValueType: value}, nil
	}
	return nil, serdearrow.SchemaErrorf("unsupported arrow-go type %s", dt)
}

func unitFrom(u arrow.TimeUnit) serdearrow.TimeUnit {
	switch u {
	case arrow.Second:
		return serdearrow.Second
	case arrow.Millisecond:
		return serdearrow.Millisecond
	case arrow.Microsecond:
		return serdearrow.Microsecond
	default:
		return serdearrow.Nanosecond
	}
}
