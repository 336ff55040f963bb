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
	"time"

	serdearrow "github.com/chmp/serde-arrow-sub003"
)

// The temporal readers store raw integers and reconstruct text only when a
// caller asks for a string, using the inverse of the builder's formats.
// Int reads return the stored value with no formatting cost.
const (
	dateLayout      = "2006-01-02"
	naiveLayout     = "2006-01-02T15:04:05.999999999"
	timeOfDayLayout = "15:04:05.999999999"
)

// newTemporal32Reader picks the reader variant for an int32-backed column:
// plain Int32, Date32 or Time32.
func newTemporal32Reader(field serdearrow.Field, v *serdearrow.PrimitiveView[int32]) (Reader, error) {
	pr, err := newPrimitiveReader(field, v)
	if err != nil {
		return nil, err
	}
	switch dt := field.Type.(type) {
	case *serdearrow.Date32Type:
		return &date32Reader{primitiveReader: *pr}, nil
	case *serdearrow.Time32Type:
		return &time32Reader{primitiveReader: *pr, unit: dt.Unit}, nil
	}
	return pr, nil
}

// newTemporal64Reader picks the reader variant for an int64-backed column:
// plain Int64, Date64, Time64, Duration or Timestamp.
func newTemporal64Reader(field serdearrow.Field, v *serdearrow.PrimitiveView[int64]) (Reader, error) {
	pr, err := newPrimitiveReader(field, v)
	if err != nil {
		return nil, err
	}
	switch dt := field.Type.(type) {
	case *serdearrow.Date64Type:
		return &date64Reader{primitiveReader: *pr, strategy: field.Strategy}, nil
	case *serdearrow.DurationType:
		return pr, nil
	case *serdearrow.Time64Type:
		return &time64Reader{primitiveReader: *pr, unit: dt.Unit}, nil
	case *serdearrow.TimestampType:
		utc := dt.TimeZone != ""
		return &timestampReader{primitiveReader: *pr, unit: dt.Unit, utc: utc}, nil
	}
	return pr, nil
}

type date32Reader struct {
	primitiveReader[int32]
}

func (r *date32Reader) Str(row int) (string, error) {
	if err := r.checkRow(row); err != nil {
		return "", err
	}
	days := int64(r.values[row])
	return time.Unix(days*86400, 0).UTC().Format(dateLayout), nil
}

type date64Reader struct {
	primitiveReader[int64]
	strategy serdearrow.Strategy
}

func (r *date64Reader) Str(row int) (string, error) {
	if err := r.checkRow(row); err != nil {
		return "", err
	}
	t := time.UnixMilli(r.values[row]).UTC()
	if r.strategy == serdearrow.NaiveStrAsDate64 {
		return t.Format(naiveLayout), nil
	}
	return t.Format(time.RFC3339Nano), nil
}

type timestampReader struct {
	primitiveReader[int64]
	unit serdearrow.TimeUnit
	utc  bool
}

func unitToInstant(v int64, unit serdearrow.TimeUnit) time.Time {
	switch unit {
	case serdearrow.Second:
		return time.Unix(v, 0)
	case serdearrow.Millisecond:
		return time.UnixMilli(v)
	case serdearrow.Microsecond:
		return time.UnixMicro(v)
	default:
		return time.Unix(0, v)
	}
}

func (r *timestampReader) Str(row int) (string, error) {
	if err := r.checkRow(row); err != nil {
		return "", err
	}
	t := unitToInstant(r.values[row], r.unit).UTC()
	if r.utc {
		return t.Format(time.RFC3339Nano), nil
	}
	return t.Format(naiveLayout), nil
}

func formatTimeOfDay(v int64, unit serdearrow.TimeUnit) string {
	var nanos int64
	switch unit {
	case serdearrow.Second:
		nanos = v * int64(time.Second)
	case serdearrow.Millisecond:
		nanos = v * int64(time.Millisecond)
	case serdearrow.Microsecond:
		nanos = v * int64(time.Microsecond)
	default:
		nanos = v
	}
	return time.Unix(0, nanos).UTC().Format(timeOfDayLayout)
}

type time32Reader struct {
	primitiveReader[int32]
	unit serdearrow.TimeUnit
}

func (r *time32Reader) Str(row int) (string, error) {
	if err := r.checkRow(row); err != nil {
		return "", err
	}
	return formatTimeOfDay(int64(r.values[row]), r.unit), nil
}

type time64Reader struct {
	primitiveReader[int64]
	unit serdearrow.TimeUnit
}

func (r *time64Reader) Str(row int) (string, error) {
	if err := r.checkRow(row); err != nil {
		return "", err
	}
	return formatTimeOfDay(r.values[row], r.unit), nil
}
