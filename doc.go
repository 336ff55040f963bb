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

/*
Package serdearrow converts between generic Go values and the Arrow columnar
format without per-field conversion code.

The package root holds the host-agnostic data model: the logical type system
(DataType, Field, Schema), the immutable Array produced by serialization, the
borrowed View consumed by deserialization, and the error model. The engines
live in the subpackages:

  - builder: the push-based serialization engine. A builder tree mirrors a
    schema and accumulates Arrow-compliant buffers row by row.
  - reader: the pull-based deserialization engine. A reader tree walks
    borrowed views and reproduces the original records.
  - trace: schema inference, either from a Go type's shape or from
    representative sample values.
  - adapter/arrowgo: conversion between this package's types and the
    github.com/apache/arrow-go arrays. The engines never depend on a
    concrete Arrow library; adapters translate at the boundary.

A Field (and a Schema, which is an ordered list of fields) round-trips through
a textual form where data types are spelled in a canonical call syntax, e.g.
"FixedSizeList(6)", "Decimal128(5,2)" or `Timestamp(Millisecond, Some("UTC"))`.
That textual form is the stable interchange contract with configuration and
tracing callers.
*/
package serdearrow
