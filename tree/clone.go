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

// Clone returns the structural clone of a node: owned payloads are copied
// deeply, shared owners (Reference, SelfReference, Store, Take) remain
// shared. The clone is independently mutable wherever the original was.
func Clone(n Node) Node {
	switch n := n.(type) {
	case *Empty:
		return &Empty{}
	case *Boolean:
		return &Boolean{Value: n.Value}
	case *Integer:
		return &Integer{Value: n.Value}
	case *Unsigned:
		return &Unsigned{Value: n.Value}
	case *Number:
		return &Number{Value: n.Value}
	case *String:
		return &String{Text: n.Text}
	case *Map:
		entries := make([]Entry, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = Entry{Key: Clone(e.Key), Value: Clone(e.Value)}
		}
		return &Map{Entries: entries}
	case *List:
		return &List{Elems: cloneSlice(n.Elems)}
	case *Closure:
		return &Closure{Nodes: cloneSlice(n.Nodes)}
	case *Argument:
		return &Argument{Slot: n.Slot}
	case *TakeFromArgument:
		return &TakeFromArgument{Slot: n.Slot}
	case *PopArgument:
		return &PopArgument{}
	case *Reference:
		return &Reference{Target: n.Target.retain()}
	case *SelfReference:
		return &SelfReference{Target: n.Target.retain()}
	case *Store:
		return &Store{Cell: n.Cell.retain()}
	case *Take:
		return &Take{Cell: n.Cell.retain()}
	case *IfThenElse:
		return &IfThenElse{Nodes: cloneSlice(n.Nodes)}
	case *Repeat:
		return &Repeat{Nodes: cloneSlice(n.Nodes)}
	case *Index:
		return &Index{}
	case *Range:
		return &Range{Nodes: cloneSlice(n.Nodes)}
	case *Sum:
		return &Sum{Nodes: cloneSlice(n.Nodes)}
	case *Multiply:
		return &Multiply{Nodes: cloneSlice(n.Nodes)}
	case *Unique:
		return &Unique{Nodes: cloneSlice(n.Nodes)}
	default:
		return &Empty{}
	}
}

func cloneSlice(nodes []Node) []Node {
	cloned := make([]Node, len(nodes))
	for i, n := range nodes {
		cloned[i] = Clone(n)
	}
	return cloned
}
