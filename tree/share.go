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

package tree

// Shared is a counted strong owner of a node, the payload of Reference
// nodes. Cloning a Reference retains the handle; the counts only grow
// through clones and only drop through Release or a successful Unwrap,
// so sole-ownership reclaim is conservative. The evaluator tolerates a
// failed reclaim by evaluating the target in borrowing mode instead.
//
// All handles are single-threaded; there is no synchronization.
type Shared struct {
	node   Node
	strong int
	weak   int
}

// NewShared returns a strong handle owning n.
func NewShared(n Node) *Shared {
	return &Shared{node: n, strong: 1}
}

// NewCyclic builds a shared node whose construction may capture weak
// back-pointers to the node itself, enabling cyclic trees. The build
// function receives the back-pointer and returns the node to own.
func NewCyclic(build func(self *Weak) Node) *Shared {
	s := &Shared{strong: 1}
	s.node = build(s.Downgrade())
	return s
}

// Value returns the owned node, or nil once the handle has been released
// or unwrapped.
func (s *Shared) Value() Node {
	return s.node
}

// Alive reports whether the target is still owned.
func (s *Shared) Alive() bool {
	return s.strong > 0
}

// WeakCount returns the number of weak back-pointers observing the
// target.
func (s *Shared) WeakCount() int {
	return s.weak
}

// Downgrade returns a new non-owning back-pointer to the target.
func (s *Shared) Downgrade() *Weak {
	s.weak++
	return &Weak{target: s}
}

// Release drops one strong count. When the last strong count is gone the
// node is destroyed and any remaining back-pointers dangle.
func (s *Shared) Release() {
	if s.strong == 0 {
		return
	}
	s.strong--
	if s.strong == 0 {
		s.node = nil
	}
}

// Unwrap attempts to reclaim sole ownership of the node. It succeeds only
// when this handle is the last strong owner, in which case the node is
// moved out and the handle becomes dead.
func (s *Shared) Unwrap() (Node, bool) {
	if s.strong != 1 {
		return nil, false
	}
	n := s.node
	s.node = nil
	s.strong = 0
	return n, true
}

// retain adds a strong count; used by structural clone so that shared
// owners remain shared.
func (s *Shared) retain() *Shared {
	if s.strong > 0 {
		s.strong++
	}
	return s
}

// Weak is a non-owning back-pointer to a Shared target, the payload of
// SelfReference nodes.
type Weak struct {
	target *Shared
}

// Upgrade recovers the target node. It fails once the target is no
// longer owned anywhere.
func (w *Weak) Upgrade() (Node, bool) {
	if w.target == nil || !w.target.Alive() {
		return nil, false
	}
	return w.target.node, true
}

// retain registers one more back-pointer on the target; used by
// structural clone.
func (w *Weak) retain() *Weak {
	if w.target == nil {
		return &Weak{}
	}
	w.target.weak++
	return &Weak{target: w.target}
}

// Cell is a counted, interior-mutable cell holding a node, the payload of
// Store and Take nodes. Multiple paths within one tree may observe the
// same cell; the evaluator accesses it one mutation at a time.
type Cell struct {
	node Node
	refs int
}

// NewCell returns a cell holding n.
func NewCell(n Node) *Cell {
	return &Cell{node: n, refs: 1}
}

// Value returns the cell's current content.
func (c *Cell) Value() Node {
	return c.node
}

// Set replaces the cell's content.
func (c *Cell) Set(n Node) {
	c.node = n
}

// TakeOne applies the consuming read to the cell's content and returns
// the taken node.
func (c *Cell) TakeOne() Node {
	return TakeOne(c.node)
}

// Unwrap attempts to reclaim sole ownership of the content. It succeeds
// only when this cell is not shared, in which case the content is moved
// out and replaced by Empty.
func (c *Cell) Unwrap() (Node, bool) {
	if c.refs != 1 {
		return nil, false
	}
	n := c.node
	c.node = &Empty{}
	return n, true
}

// retain adds a count; used by structural clone so that cells remain
// shared across clones.
func (c *Cell) retain() *Cell {
	c.refs++
	return c
}

// NewRef is a convenience constructor wrapping n in a Reference node.
func NewRef(n Node) *Reference {
	return &Reference{Target: NewShared(n)}
}

// NewStore is a convenience constructor wrapping n in a Store node.
func NewStore(n Node) *Store {
	return &Store{Cell: NewCell(n)}
}

// NewTake is a convenience constructor wrapping n in a Take node.
func NewTake(n Node) *Take {
	return &Take{Cell: NewCell(n)}
}
