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

// evalRef is the borrowing-mode evaluator. It mirrors evalOwned but
// starts with only a view of the node: containers are walked in place,
// owned strings are delivered as transient text, and wherever a
// temporary comes into existence (an argument clone, a cloned store, a
// taken cell content) evaluation switches to owning mode on the
// temporary. The borrowed tree is never mutated except through the
// explicit consuming reads it contains.
func evalRef(f *frame, data tree.Node, v Visitor) (any, error) {
	switch n := data.(type) {
	case *tree.Boolean:
		return v.VisitBool(n.Value)
	case *tree.Integer:
		return v.VisitInt(n.Value)
	case *tree.Unsigned:
		return v.VisitUint(n.Value)
	case *tree.Number:
		return v.VisitFloat(n.Value)
	case *tree.String:
		if n.Text.Borrowed {
			return v.VisitBorrowedText(n.Text.Value)
		}
		// The evaluator holds the owning node here, so the consumer only
		// gets a transient view.
		return v.VisitText(n.Text.Value)
	case *tree.Map:
		return v.VisitMap(&refMap{frame: f, entries: n.Entries})
	case *tree.List:
		return v.VisitSeq(&refSeq{frame: f, elems: n.Elems})
	case *tree.Closure:
		if len(n.Nodes) == 0 {
			return nil, ErrArgument
		}
		args := make([]tree.Node, len(n.Nodes))
		for i, a := range n.Nodes {
			resolved, err := f.resolveRef(a)
			if err != nil {
				return nil, err
			}
			args[i] = resolved
		}
		inner := &frame{args: args, index: f.index}
		return evalRef(inner, n.Nodes[0], v)
	case *tree.Argument:
		p, err := f.cloneArgument(n.Slot)
		if err != nil {
			return nil, err
		}
		return evalOwned(f, p, v)
	case *tree.TakeFromArgument:
		p, err := f.takeFromArgument(n.Slot)
		if err != nil {
			return nil, err
		}
		return evalOwned(f, p, v)
	case *tree.Reference:
		t := n.Target.Value()
		if t == nil {
			return nil, ErrSelfReference
		}
		return evalRef(f, t, v)
	case *tree.SelfReference:
		inner, ok := n.Target.Upgrade()
		if !ok {
			return nil, ErrSelfReference
		}
		return evalRef(f, inner, v)
	case *tree.Store:
		return evalOwned(f, tree.Clone(n.Cell.Value()), v)
	case *tree.Take:
		return evalOwned(f, n.Cell.TakeOne(), v)
	case *tree.IfThenElse:
		b, err := f.branchRef(n)
		if err != nil {
			return nil, err
		}
		return evalRef(f, b, v)
	case *tree.Repeat:
		return v.VisitSeq(newCycleSeq(f, n.Nodes))
	case *tree.Index:
		return v.VisitUint(f.index)
	default:
		// Empty, PopArgument (owning-only), and the reserved variants.
		return nil, ErrUnimplemented
	}
}
