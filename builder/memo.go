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

import "github.com/zeebo/xxh3"

// memoTable interns string values for dictionary encoding. Indices are
// assigned in first-occurrence order. The table is local to one builder and
// discarded on flush.
type memoTable struct {
	entries map[uint64][]memoEntry
	size    int
}

type memoEntry struct {
	value string
	index int
}

// GetOrInsert returns the index interned for v, assigning the next
// sequential index on a miss.
func (t *memoTable) GetOrInsert(v string) (index int, found bool) {
	if t.entries == nil {
		t.entries = make(map[uint64][]memoEntry)
	}
	h := xxh3.HashString(v)
	for _, e := range t.entries[h] {
		if e.value == v {
			return e.index, true
		}
	}
	index = t.size
	t.size++
	t.entries[h] = append(t.entries[h], memoEntry{value: v, index: index})
	return index, false
}

func (t *memoTable) reset() {
	t.entries = nil
	t.size = 0
}
