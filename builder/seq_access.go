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

// ownedSeq is the owning sequence adapter: the evaluator owns the element
// list and each pull moves the next element into the owning evaluator.
type ownedSeq struct {
	frame *frame
	elems []tree.Node
	pos   int
	// index is the running counter threaded into the frame so that an
	// Index node nested inside an element sees its position.
	index uint64
}

// NextElement implementation for ownedSeq.
func (s *ownedSeq) NextElement(v Visitor) (any, bool, error) {
	if s.pos >= len(s.elems) {
		return nil, false, nil
	}
	n := s.elems[s.pos]
	s.pos++
	s.frame.index = s.index
	s.index++
	value, err := evalOwned(s.frame, n, v)
	return value, true, err
}

// SizeHint implementation for ownedSeq.
func (s *ownedSeq) SizeHint() (int, bool) {
	return len(s.elems) - s.pos, true
}
