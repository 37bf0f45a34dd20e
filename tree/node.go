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

// Package tree defines the value-tree algebra: a recursively defined data
// tree whose leaves are primitive scalars and whose interior nodes include
// ordinary collections as well as computed nodes (references, stores,
// closures, conditionals, repetitions, self-references). Trees double as a
// miniature expression language for constructing synthetic data from
// compact templates; the builder package evaluates them on demand.
package tree

// Node is the interface that all tree nodes must implement.
type Node interface {
	// node ensures that only tree nodes can be assigned to Node.
	node()
}

//
// primitive variants
//

// Empty node represents the absence of a value.
type Empty struct{}

// node implementation for Empty.
func (n *Empty) node() {}

// Boolean node represents a boolean scalar.
type Boolean struct {
	// Value is the value of the scalar.
	Value bool
}

// node implementation for Boolean.
func (n *Boolean) node() {}

// Integer node represents a signed 64-bit scalar.
type Integer struct {
	// Value is the value of the scalar.
	Value int64
}

// node implementation for Integer.
func (n *Integer) node() {}

// Unsigned node represents an unsigned 64-bit scalar.
type Unsigned struct {
	// Value is the value of the scalar.
	Value uint64
}

// node implementation for Unsigned.
func (n *Unsigned) node() {}

// Number node represents an IEEE-754 double scalar.
type Number struct {
	// Value is the value of the scalar.
	Value float64
}

// node implementation for Number.
func (n *Number) node() {}

// String node represents a text scalar. The text is owned-or-borrowed
// (see Text); the evaluator preserves the distinction all the way to the
// consumer callbacks.
type String struct {
	// Text is the owned-or-borrowed text payload.
	Text Text
}

// node implementation for String.
func (n *String) node() {}

//
// container variants
//

// Entry is a single (key, value) pair of a Map node.
type Entry struct {
	// Key is the key node of the pair.
	Key Node
	// Value is the value node of the pair.
	Value Node
}

// Map node represents an ordered sequence of (key, value) pairs.
// Insertion order is significant and is the order of evaluation.
type Map struct {
	// Entries is the ordered pair list.
	Entries []Entry
}

// node implementation for Map.
func (n *Map) node() {}

// List node represents an ordered sequence of nodes.
type List struct {
	// Elems is the ordered element list.
	Elems []Node
}

// node implementation for List.
func (n *List) node() {}

//
// computed variants
//

// Closure node represents a body evaluated under a new argument
// environment. Nodes must be non-empty; the first element is the body and
// the whole list, body included, is resolved against the enclosing frame
// into the new frame's argument slots. Argument{0} inside the body
// therefore names the resolved body itself, which is the idiom for
// recursive expansion.
type Closure struct {
	// Nodes is the body followed by the initial argument bindings.
	Nodes []Node
}

// node implementation for Closure.
func (n *Closure) node() {}

// Argument node refers to argument slot Slot of the enclosing closure
// frame. Evaluation clones the slot.
type Argument struct {
	// Slot is the non-negative argument index.
	Slot int
}

// node implementation for Argument.
func (n *Argument) node() {}

// TakeFromArgument node refers to argument slot Slot and mutates it via
// TakeOne on every evaluation (consuming semantics).
type TakeFromArgument struct {
	// Slot is the non-negative argument index.
	Slot int
}

// node implementation for TakeFromArgument.
func (n *TakeFromArgument) node() {}

// PopArgument node removes and evaluates the top of the argument stack.
type PopArgument struct{}

// node implementation for PopArgument.
func (n *PopArgument) node() {}

// Reference node shares ownership of a subtree. The subtree is immutable
// through this path; multiple nodes may hold the same target.
type Reference struct {
	// Target is the shared owner of the subtree.
	Target *Shared
}

// node implementation for Reference.
func (n *Reference) node() {}

// SelfReference node holds a weak back-pointer to a Reference target
// elsewhere in the tree, enabling cyclic trees. It does not own its
// target; resolution fails once the target is no longer owned anywhere.
type SelfReference struct {
	// Target is the non-owning back-pointer.
	Target *Weak
}

// node implementation for SelfReference.
func (n *SelfReference) node() {}

// Store node is a jointly-owned cell holding a node, supporting interior
// mutation. Each visit reads the cell's current content.
type Store struct {
	// Cell is the shared mutable cell.
	Cell *Cell
}

// node implementation for Store.
func (n *Store) node() {}

// Take node is like Store, but each visit calls TakeOne on the cell,
// consuming the content one step at a time. A Take over an Integer
// counter is the mechanism for bounding recursion through a cycle.
type Take struct {
	// Cell is the shared mutable cell.
	Cell *Cell
}

// node implementation for Take.
func (n *Take) node() {}

// IfThenElse node selects between its second and third child on the truth
// of the first. Fewer than three children is a hard evaluation error.
type IfThenElse struct {
	// Nodes is condition, then-branch, else-branch.
	Nodes []Node
}

// node implementation for IfThenElse.
func (n *IfThenElse) node() {}

// Repeat node expands to a sequence: the first child evaluates to an
// unsigned count and the remaining children form a cycle that is repeated
// until the count is reached. An empty cycle expands to an empty
// sequence.
type Repeat struct {
	// Nodes is the count followed by the cycle elements.
	Nodes []Node
}

// node implementation for Repeat.
func (n *Repeat) node() {}

// Index node evaluates to the current element index of the enclosing
// sequence.
type Index struct{}

// node implementation for Index.
func (n *Index) node() {}

//
// reserved variants
//
// Declared in the algebra but inert in the evaluator: both evaluation
// modes reject them until semantics are committed.

// Range node is reserved.
type Range struct {
	// Nodes is the reserved child list.
	Nodes []Node
}

// node implementation for Range.
func (n *Range) node() {}

// Sum node is reserved.
type Sum struct {
	// Nodes is the reserved child list.
	Nodes []Node
}

// node implementation for Sum.
func (n *Sum) node() {}

// Multiply node is reserved.
type Multiply struct {
	// Nodes is the reserved child list.
	Nodes []Node
}

// node implementation for Multiply.
func (n *Multiply) node() {}

// Unique node is reserved.
type Unique struct {
	// Nodes is the reserved child list.
	Nodes []Node
}

// node implementation for Unique.
func (n *Unique) node() {}
