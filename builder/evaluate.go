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

// Package builder evaluates a value tree lazily under the control of an
// external visitor: the consumer requests values by shape and each
// evaluation step translates one node (plus the evaluation context) into
// a single visitor callback. Computed nodes are rewritten against the
// context and the evaluator recurses.
//
// There are two mirrored evaluation modes. The owning mode holds the node
// it evaluates and may consume it (move elements out, reclaim shared
// targets); the borrowing mode holds only a view and clones before it
// consumes. Modes switch mid-evaluation where ownership changes hands —
// an argument clone, a cloned store content, a taken cell content. Owned
// strings held by the tree are delivered as transient text in borrowing
// mode. The owning evaluator does not track how it was entered: owned
// strings inside a temporary that borrowing mode hands over are delivered
// through the owned-text callback, not downgraded to transient text.
package builder

import "treegen/tree"

// FromTree evaluates root in owning mode with a fresh context (empty
// argument stack, index 0) under the given visitor and returns the
// consumer's value. The engine takes the tree over: evaluation may
// consume cells, shared targets, and scalar counters in place, so the
// caller must not reuse root afterwards.
func FromTree(root tree.Node, v Visitor) (any, error) {
	f := &frame{}
	return evalOwned(f, root, v)
}

// FromTreeRef evaluates root in borrowing mode with a fresh context. The
// tree structure is left intact; the only mutations are the explicit
// consuming reads the tree itself requests (Take cells,
// TakeFromArgument slots).
func FromTreeRef(root tree.Node, v Visitor) (any, error) {
	f := &frame{}
	return evalRef(f, root, v)
}

// evalOwned is the owning-mode evaluator: one node the evaluator owns,
// one visitor callback (or a rewrite and a recursion).
func evalOwned(f *frame, data tree.Node, v Visitor) (any, error) {
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
		return v.VisitOwnedText(n.Text.Value)
	case *tree.Map:
		return v.VisitMap(&ownedMap{frame: f, entries: n.Entries})
	case *tree.List:
		return v.VisitSeq(&ownedSeq{frame: f, elems: n.Elems})
	case *tree.Closure:
		if len(n.Nodes) == 0 {
			return nil, ErrArgument
		}
		// The body is cloned before argument resolution so that the
		// resolved body lands in slot 0 while the evaluated copy stays
		// untouched by slot mutation.
		body := tree.Clone(n.Nodes[0])
		args := make([]tree.Node, len(n.Nodes))
		for i, a := range n.Nodes {
			resolved, err := f.resolve(a)
			if err != nil {
				return nil, err
			}
			args[i] = resolved
		}
		inner := &frame{args: args, index: f.index}
		return evalOwned(inner, body, v)
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
	case *tree.PopArgument:
		p, err := f.pop()
		if err != nil {
			return nil, err
		}
		return evalOwned(f, p, v)
	case *tree.Reference:
		if !n.Target.Alive() {
			return nil, ErrSelfReference
		}
		// A weakly observed target must stay alive for its
		// back-pointers: evaluate through a borrow. Otherwise attempt to
		// reclaim sole ownership and fall back to borrowing when the
		// target is shared.
		if n.Target.WeakCount() > 0 {
			return evalRef(f, n.Target.Value(), v)
		}
		if inner, ok := n.Target.Unwrap(); ok {
			return evalOwned(f, inner, v)
		}
		return evalRef(f, n.Target.Value(), v)
	case *tree.SelfReference:
		inner, ok := n.Target.Upgrade()
		if !ok {
			return nil, ErrSelfReference
		}
		return evalRef(f, inner, v)
	case *tree.Store:
		if inner, ok := n.Cell.Unwrap(); ok {
			return evalOwned(f, inner, v)
		}
		return evalOwned(f, tree.Clone(n.Cell.Value()), v)
	case *tree.Take:
		return evalOwned(f, n.Cell.TakeOne(), v)
	case *tree.IfThenElse:
		b, err := f.branch(n)
		if err != nil {
			return nil, err
		}
		return evalOwned(f, b, v)
	case *tree.Repeat:
		return v.VisitSeq(newCycleSeq(f, n.Nodes))
	case *tree.Index:
		return v.VisitUint(f.index)
	default:
		// Empty and the reserved variants (Range, Sum, Multiply, Unique)
		// have no evaluation semantics.
		return nil, ErrUnimplemented
	}
}
