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

// frame is the evaluation context: a stack of argument bindings plus the
// current element index. A fresh frame (empty stack, index 0) is created
// per entry point; closures push a new frame scoped to their body and the
// sequence adapters overwrite the index as the consumer pulls elements.
// The frame is threaded by exclusive access through all nested
// evaluations.
type frame struct {
	// args is the argument slot vector; the top of the stack is the last
	// element.
	args []tree.Node
	// index is the current element index of the enclosing sequence.
	index uint64
}

// argument returns slot a without copying it.
func (f *frame) argument(a int) (tree.Node, error) {
	if a < 0 || a >= len(f.args) {
		return nil, ErrArgument
	}
	return f.args[a], nil
}

// cloneArgument returns the structural clone of slot a; shared owners in
// the slot remain shared.
func (f *frame) cloneArgument(a int) (tree.Node, error) {
	if a < 0 || a >= len(f.args) {
		return nil, ErrArgument
	}
	return tree.Clone(f.args[a]), nil
}

// takeFromArgument applies the consuming read to slot a in place and
// returns the taken node.
func (f *frame) takeFromArgument(a int) (tree.Node, error) {
	if a < 0 || a >= len(f.args) {
		return nil, ErrArgument
	}
	return tree.TakeOne(f.args[a]), nil
}

// pop removes and returns the top of the argument stack.
func (f *frame) pop() (tree.Node, error) {
	if len(f.args) == 0 {
		return nil, ErrArgument
	}
	top := f.args[len(f.args)-1]
	f.args = f.args[:len(f.args)-1]
	return top, nil
}

// resolve rewrites a node the evaluator owns against this frame:
// argument references are cloned from their slot, take-references
// consume their slot, conditionals collapse to the selected branch.
// Every other node resolves to itself.
func (f *frame) resolve(n tree.Node) (tree.Node, error) {
	switch n := n.(type) {
	case *tree.Argument:
		return f.cloneArgument(n.Slot)
	case *tree.TakeFromArgument:
		return f.takeFromArgument(n.Slot)
	case *tree.IfThenElse:
		return f.branch(n)
	default:
		return n, nil
	}
}

// resolveRef is the borrowing form of resolve: the input is not owned, so
// the fallback (and the selected conditional branch) is cloned instead of
// moved. Slot mutation still happens through an explicit
// TakeFromArgument.
func (f *frame) resolveRef(n tree.Node) (tree.Node, error) {
	switch n := n.(type) {
	case *tree.Argument:
		return f.cloneArgument(n.Slot)
	case *tree.TakeFromArgument:
		return f.takeFromArgument(n.Slot)
	case *tree.IfThenElse:
		b, err := f.branchRef(n)
		if err != nil {
			return nil, err
		}
		return tree.Clone(b), nil
	default:
		return tree.Clone(n), nil
	}
}

// resolveTruth returns the truth of a resolvable node without
// materializing it. Argument slots are read in place, take-references
// consume their slot, conditionals read through their selected branch;
// everything else falls back to the coercion kernel.
func (f *frame) resolveTruth(n tree.Node) (bool, error) {
	switch n := n.(type) {
	case *tree.Argument:
		slot, err := f.argument(n.Slot)
		if err != nil {
			return false, err
		}
		return tree.Truth(slot), nil
	case *tree.TakeFromArgument:
		taken, err := f.takeFromArgument(n.Slot)
		if err != nil {
			return false, err
		}
		return tree.Truth(taken), nil
	case *tree.IfThenElse:
		b, err := f.branchRef(n)
		if err != nil {
			return false, err
		}
		return tree.Truth(b), nil
	default:
		return tree.Truth(n), nil
	}
}

// branch is the conditional selector for an owned IfThenElse: it
// evaluates the condition's truth against this frame and returns the
// chosen branch, which the caller now owns. Fewer than three children is
// a hard error; extra children are ignored.
func (f *frame) branch(n *tree.IfThenElse) (tree.Node, error) {
	if len(n.Nodes) < 3 {
		return nil, ErrArgument
	}
	truth, err := f.resolveTruth(n.Nodes[0])
	if err != nil {
		return nil, err
	}
	if truth {
		return n.Nodes[1], nil
	}
	return n.Nodes[2], nil
}

// branchRef is the borrowing conditional selector: the returned branch is
// still owned by the tree and must not be mutated by the caller.
func (f *frame) branchRef(n *tree.IfThenElse) (tree.Node, error) {
	if len(n.Nodes) < 3 {
		return nil, ErrArgument
	}
	truth, err := f.resolveTruth(n.Nodes[0])
	if err != nil {
		return nil, err
	}
	if truth {
		return n.Nodes[1], nil
	}
	return n.Nodes[2], nil
}
