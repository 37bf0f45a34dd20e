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

// Visitor is the interface that all tree walkers must implement. It
// contains a Pre(Node) and a Post(Node) method that is called before and
// after the traversal of each node.
//
// This is the static traversal used by validation and tooling; it is
// unrelated to the pull-based consumer protocol of the builder package.
type Visitor interface {
	// Pre takes in a node for processing _before_ traversing its children and could return an error.
	Pre(Node) error
	// Post takes in a node for processing _after_ traversing its children and could return an error.
	Post(Node) error
}

// Walk takes a Visitor and walks the tree. The input node must be
// non-nil. Strong edges (containers, computed child lists, Reference
// targets, cell contents) are followed; SelfReference back-pointers are
// visited but never followed, which keeps the traversal finite on cyclic
// trees (cycles can only be closed through a back-pointer).
func Walk(v Visitor, node Node) error {
	if err := v.Pre(node); err != nil {
		return err
	}
	switch n := node.(type) {
	case *Map:
		for _, e := range n.Entries {
			if e.Key != nil {
				if err := Walk(v, e.Key); err != nil {
					return err
				}
			}
			if e.Value != nil {
				if err := Walk(v, e.Value); err != nil {
					return err
				}
			}
		}

	case *List:
		if err := walkSlice(v, n.Elems); err != nil {
			return err
		}

	case *Closure:
		if err := walkSlice(v, n.Nodes); err != nil {
			return err
		}

	case *IfThenElse:
		if err := walkSlice(v, n.Nodes); err != nil {
			return err
		}

	case *Repeat:
		if err := walkSlice(v, n.Nodes); err != nil {
			return err
		}

	case *Range:
		if err := walkSlice(v, n.Nodes); err != nil {
			return err
		}

	case *Sum:
		if err := walkSlice(v, n.Nodes); err != nil {
			return err
		}

	case *Multiply:
		if err := walkSlice(v, n.Nodes); err != nil {
			return err
		}

	case *Unique:
		if err := walkSlice(v, n.Nodes); err != nil {
			return err
		}

	case *Reference:
		if t := n.Target.Value(); t != nil {
			if err := Walk(v, t); err != nil {
				return err
			}
		}

	case *Store:
		if t := n.Cell.Value(); t != nil {
			if err := Walk(v, t); err != nil {
				return err
			}
		}

	case *Take:
		if t := n.Cell.Value(); t != nil {
			if err := Walk(v, t); err != nil {
				return err
			}
		}
	}
	return v.Post(node)
}

// walkSlice walks a slice of nodes, skipping nil entries.
func walkSlice(v Visitor, nodes []Node) error {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := Walk(v, n); err != nil {
			return err
		}
	}
	return nil
}
