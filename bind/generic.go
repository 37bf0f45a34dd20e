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

package bind

import (
	"fmt"

	"treegen/builder"
)

// generic is the untyped consumer: scalars come back as their Go
// counterparts, sequences as []any, maps as map[string]any (non-string
// keys are formatted; insertion order is not preserved by the Go map).
type generic struct{}

// VisitBool implementation for generic.
func (generic) VisitBool(v bool) (any, error) { return v, nil }

// VisitInt implementation for generic.
func (generic) VisitInt(v int64) (any, error) { return v, nil }

// VisitUint implementation for generic.
func (generic) VisitUint(v uint64) (any, error) { return v, nil }

// VisitFloat implementation for generic.
func (generic) VisitFloat(v float64) (any, error) { return v, nil }

// VisitBorrowedText implementation for generic.
func (generic) VisitBorrowedText(s string) (any, error) { return s, nil }

// VisitText implementation for generic.
func (generic) VisitText(s string) (any, error) { return s, nil }

// VisitOwnedText implementation for generic.
func (generic) VisitOwnedText(s string) (any, error) { return s, nil }

// VisitSeq implementation for generic.
func (generic) VisitSeq(seq builder.SeqAccess) (any, error) {
	result := []any{}
	for {
		value, more, err := seq.NextElement(generic{})
		if err != nil {
			return nil, err
		}
		if !more {
			return result, nil
		}
		result = append(result, value)
	}
}

// VisitMap implementation for generic.
func (generic) VisitMap(m builder.MapAccess) (any, error) {
	result := map[string]any{}
	for {
		key, more, err := m.NextKey(generic{})
		if err != nil {
			return nil, err
		}
		if !more {
			return result, nil
		}
		name, ok := key.(string)
		if !ok {
			name = fmt.Sprint(key)
		}
		value, err := m.NextValue(generic{})
		if err != nil {
			return nil, err
		}
		result[name] = value
	}
}

// skip is the discarding consumer: it accepts any shape and drains
// nested adapters fully so that consuming reads nested in skipped
// subtrees still fire in traversal order.
type skip struct{}

// VisitBool implementation for skip.
func (skip) VisitBool(bool) (any, error) { return nil, nil }

// VisitInt implementation for skip.
func (skip) VisitInt(int64) (any, error) { return nil, nil }

// VisitUint implementation for skip.
func (skip) VisitUint(uint64) (any, error) { return nil, nil }

// VisitFloat implementation for skip.
func (skip) VisitFloat(float64) (any, error) { return nil, nil }

// VisitBorrowedText implementation for skip.
func (skip) VisitBorrowedText(string) (any, error) { return nil, nil }

// VisitText implementation for skip.
func (skip) VisitText(string) (any, error) { return nil, nil }

// VisitOwnedText implementation for skip.
func (skip) VisitOwnedText(string) (any, error) { return nil, nil }

// VisitSeq implementation for skip.
func (skip) VisitSeq(seq builder.SeqAccess) (any, error) {
	for {
		_, more, err := seq.NextElement(skip{})
		if err != nil {
			return nil, err
		}
		if !more {
			return nil, nil
		}
	}
}

// VisitMap implementation for skip.
func (skip) VisitMap(m builder.MapAccess) (any, error) {
	for {
		_, _, more, err := m.NextEntry(skip{}, skip{})
		if err != nil {
			return nil, err
		}
		if !more {
			return nil, nil
		}
	}
}
