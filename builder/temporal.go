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
	"strings"
	"time"

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// The temporal builders accept either the raw integer representation in the
// column's declared unit, or a textual date/time converted to that unit.

const (
	dateLayout      = "2006-01-02"
	naiveLayout     = "2006-01-02T15:04:05.999999999"
	timeOfDayLayout = "15:04:05.999999999"

	secondsPerDay = 86400
)

func instantToUnit(t time.Time, unit serdearrow.TimeUnit) int64 {
	switch unit {
	case serdearrow.Second:
		return t.Unix()
	case serdearrow.Millisecond:
		return t.UnixMilli()
	case serdearrow.Microsecond:
		return t.UnixMicro()
	default:
		return t.UnixNano()
	}
}

// parseNaive parses a date-time string without a timezone marker,
// interpreting it as UTC. A bare date is midnight.
func parseNaive(s string) (time.Time, error) {
	if t, err := time.Parse(naiveLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, s)
}

// parseUTC parses a date-time string carrying an explicit timezone marker.
func parseUTC(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// date32Builder stores days since the epoch.
type date32Builder struct {
	numericBuilder[int32]
}

func (b *date32Builder) PushString(v string) error {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return serdearrow.ValueErrorf(b.field.Type, "invalid date %q", v)
	}
	return b.PushInt(t.Unix() / secondsPerDay)
}

// date64Builder stores milliseconds since the epoch. The field's strategy
// picks the string form: UtcStrAsDate64 expects a timezone marker,
// NaiveStrAsDate64 forbids one, no strategy accepts both.
type date64Builder struct {
	numericBuilder[int64]
}

func newDate64Builder(field serdearrow.Field) *date64Builder {
	return &date64Builder{numericBuilder: *newNumericBuilder[int64](field)}
}

func (b *date64Builder) PushString(v string) error {
	var t time.Time
	var err error
	switch b.field.Strategy {
	case serdearrow.UtcStrAsDate64:
		t, err = parseUTC(v)
	case serdearrow.NaiveStrAsDate64:
		t, err = parseNaive(v)
	default:
		if t, err = parseUTC(v); err != nil {
			t, err = parseNaive(v)
		}
	}
	if err != nil {
		return serdearrow.ValueErrorf(b.field.Type, "invalid date-time %q", v)
	}
	return b.PushInt(t.UnixMilli())
}

// timestampBuilder stores instants in the declared unit. Only a missing
// timezone or a literal UTC are supported; the constructor rejects
// anything else.
type timestampBuilder struct {
	numericBuilder[int64]
	unit serdearrow.TimeUnit
	utc  bool
}

func newTimestampBuilder(field serdearrow.Field, dt *serdearrow.TimestampType) (*timestampBuilder, error) {
	if dt.TimeZone != "" && !strings.EqualFold(dt.TimeZone, "UTC") {
		return nil, serdearrow.SchemaErrorf("unsupported timezone %q, only UTC is supported", dt.TimeZone)
	}
	return &timestampBuilder{
		numericBuilder: *newNumericBuilder[int64](field),
		unit:           dt.Unit,
		utc:            dt.TimeZone != "",
	}, nil
}

func (b *timestampBuilder) PushString(v string) error {
	var t time.Time
	var err error
	if b.utc {
		t, err = parseUTC(v)
	} else {
		t, err = parseNaive(v)
	}
	if err != nil {
		return serdearrow.ValueErrorf(b.field.Type, "invalid timestamp %q", v)
	}
	return b.PushInt(instantToUnit(t, b.unit))
}

// time32Builder stores time of day as int32 in seconds or milliseconds.
type time32Builder struct {
	numericBuilder[int32]
	unit serdearrow.TimeUnit
}

func newTime32Builder(field serdearrow.Field, dt *serdearrow.Time32Type) (*time32Builder, error) {
	if dt.Unit != serdearrow.Second && dt.Unit != serdearrow.Millisecond {
		return nil, serdearrow.SchemaErrorf("time32 unit must be Second or Millisecond, got %s", dt.Unit)
	}
	return &time32Builder{numericBuilder: *newNumericBuilder[int32](field), unit: dt.Unit}, nil
}

func (b *time32Builder) PushString(v string) error {
	since, err := parseTimeOfDay(v, b.unit)
	if err != nil {
		return serdearrow.ValueErrorf(b.field.Type, "invalid time %q", v)
	}
	return b.PushInt(since)
}

// time64Builder stores time of day as int64 in microseconds or nanoseconds.
type time64Builder struct {
	numericBuilder[int64]
	unit serdearrow.TimeUnit
}

func newTime64Builder(field serdearrow.Field, dt *serdearrow.Time64Type) (*time64Builder, error) {
	if dt.Unit != serdearrow.Microsecond && dt.Unit != serdearrow.Nanosecond {
		return nil, serdearrow.SchemaErrorf("time64 unit must be Microsecond or Nanosecond, got %s", dt.Unit)
	}
	return &time64Builder{numericBuilder: *newNumericBuilder[int64](field), unit: dt.Unit}, nil
}

func (b *time64Builder) PushString(v string) error {
	since, err := parseTimeOfDay(v, b.unit)
	if err != nil {
		return serdearrow.ValueErrorf(b.field.Type, "invalid time %q", v)
	}
	return b.PushInt(since)
}

// parseTimeOfDay converts "15:04:05" (with optional fraction) to the time
// since midnight in the given unit.
func parseTimeOfDay(s string, unit serdearrow.TimeUnit) (int64, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return 0, err
	}
	nanos := int64(t.Hour())*3600*1e9 + int64(t.Minute())*60*1e9 +
		int64(t.Second())*1e9 + int64(t.Nanosecond())
	switch unit {
	case serdearrow.Second:
		return nanos / 1e9, nil
	case serdearrow.Millisecond:
		return nanos / 1e6, nil
	case serdearrow.Microsecond:
		return nanos / 1e3, nil
	default:
		return nanos, nil
	}
}

// durationBuilder stores elapsed time as int64 in the declared unit. Only
// the raw integer representation is accepted.
type durationBuilder struct {
	numericBuilder[int64]
}

var (
	_ Builder = (*date32Builder)(nil)
	_ Builder = (*date64Builder)(nil)
	_ Builder = (*timestampBuilder)(nil)
	_ Builder = (*time32Builder)(nil)
	_ Builder = (*time64Builder)(nil)
	_ Builder = (*durationBuilder)(nil)
)
