//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package builder

import "treegen/tree"

// refMap is the borrowing map adapter; entries stay owned by the tree.
type refMap struct {
	frame       *frame
	entries     []tree.Entry
	pos         int
	leftover    tree.Node
	hasLeftover bool
}

// NextKey implementation for refMap.
func (m *refMap) NextKey(v Visitor) (any, bool, error) {
	if m.pos >= len(m.entries) {
		return nil, false, nil
	}
	e := m.entries[m.pos]
	m.pos++
	m.leftover = e.Value
	m.hasLeftover = true
	value, err := evalRef(m.frame, e.Key, v)
	return value, true, err
}

// NextValue implementation for refMap.
func (m *refMap) NextValue(v Visitor) (any, error) {
	if !m.hasLeftover {
		return nil, ErrMapAccess
	}
	n := m.leftover
	m.leftover = nil
	m.hasLeftover = false
	return evalRef(m.frame, n, v)
}

// NextEntry implementation for refMap.
func (m *refMap) NextEntry(kv, vv Visitor) (any, any, bool, error) {
	if m.pos >= len(m.entries) {
		return nil, nil, false, nil
	}
	e := m.entries[m.pos]
	m.pos++
	m.leftover = nil
	m.hasLeftover = false
	key, err := evalRef(m.frame, e.Key, kv)
	if err != nil {
		return nil, nil, true, err
	}
	value, err := evalRef(m.frame, e.Value, vv)
	if err != nil {
		return nil, nil, true, err
	}
	return key, value, true, nil
}

// SizeHint implementation for refMap.
func (m *refMap) SizeHint() (int, bool) {
	return len(m.entries) - m.pos, true
}
