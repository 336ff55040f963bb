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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoTable(t *testing.T) {
	var m memoTable

	idx, found := m.GetOrInsert("a")
	assert.Equal(t, 0, idx)
	assert.False(t, found)

	idx, found = m.GetOrInsert("b")
	assert.Equal(t, 1, idx)
	assert.False(t, found)

	idx, found = m.GetOrInsert("a")
	assert.Equal(t, 0, idx)
	assert.True(t, found)

	idx, found = m.GetOrInsert("c")
	assert.Equal(t, 2, idx)
	assert.False(t, found)

	m.reset()
	idx, found = m.GetOrInsert("c")
	assert.Equal(t, 0, idx)
	assert.False(t, found)
}
