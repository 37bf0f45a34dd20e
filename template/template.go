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

// Package template compiles YAML documents into value trees. Plain YAML
// maps onto the data variants (ordered mappings become Map nodes, the
// order of the document is preserved); local tags select the computed
// variants:
//
//	!closure [body, a0, ...]   closure with initial argument bindings
//	!arg N                     argument slot reference
//	!takearg N                 consuming argument slot reference
//	!pop                       pop the top of the argument stack
//	!if [cond, then, else]     conditional
//	!repeat [count, e, ...]    repetition
//	!index                     current element index
//	!uint N                    unsigned scalar
//	!store X                   interior-mutable cell
//	!take X                    consuming cell
//	!ref X                     shared subtree
//	!self [name]               weak back-pointer to an enclosing (or
//	                           anchored) !ref
//
// An anchored !ref (`&name !ref ...`) registers under its anchor: a YAML
// alias `*name` shares the target strongly, and `!self name` points to it
// weakly. Cycles closed with !self evaluate under the usual Take-bounded
// recursion idiom.
package template

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"treegen/tree"
)

// Compile parses a single YAML document and compiles it into a tree.
func Compile(data []byte) (tree.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse template: %v", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty template")
	}
	c := &compiler{
		refs:    make(map[string]*tree.Reference),
		pending: make(map[string]*tree.Weak),
	}
	return c.compile(doc.Content[0])
}

// CompileString is Compile on a string.
func CompileString(s string) (tree.Node, error) {
	return Compile([]byte(s))
}

// compiler carries the shared-reference scope during compilation.
type compiler struct {
	// refs holds completed anchored !ref nodes by anchor name.
	refs map[string]*tree.Reference
	// pending holds back-pointers to anchored !ref targets that are
	// still being compiled.
	pending map[string]*tree.Weak
	// stack holds back-pointers to the enclosing !ref targets,
	// innermost last.
	stack []*tree.Weak
}

// compile dispatches on the node's local tag, falling back to the plain
// data mapping for ordinary YAML.
func (c *compiler) compile(n *yaml.Node) (tree.Node, error) {
	if n.Kind == yaml.AliasNode {
		return c.alias(n)
	}
	switch n.Tag {
	case "!ref":
		return c.ref(n)
	case "!store":
		inner, err := c.body(n)
		if err != nil {
			return nil, err
		}
		return tree.NewStore(inner), nil
	case "!take":
		inner, err := c.body(n)
		if err != nil {
			return nil, err
		}
		return tree.NewTake(inner), nil
	case "!closure":
		children, err := c.children(n, "!closure")
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, fmt.Errorf("line %d: !closure needs a body", n.Line)
		}
		return &tree.Closure{Nodes: children}, nil
	case "!if":
		children, err := c.children(n, "!if")
		if err != nil {
			return nil, err
		}
		if len(children) != 3 {
			return nil, fmt.Errorf("line %d: !if needs [condition, then, else], got %d children", n.Line, len(children))
		}
		return &tree.IfThenElse{Nodes: children}, nil
	case "!repeat":
		children, err := c.children(n, "!repeat")
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, fmt.Errorf("line %d: !repeat needs a count", n.Line)
		}
		return &tree.Repeat{Nodes: children}, nil
	case "!arg":
		slot, err := c.slot(n, "!arg")
		if err != nil {
			return nil, err
		}
		return &tree.Argument{Slot: slot}, nil
	case "!takearg":
		slot, err := c.slot(n, "!takearg")
		if err != nil {
			return nil, err
		}
		return &tree.TakeFromArgument{Slot: slot}, nil
	case "!uint":
		v, err := strconv.ParseUint(n.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: !uint wants an unsigned integer, got %q", n.Line, n.Value)
		}
		return &tree.Unsigned{Value: v}, nil
	case "!pop":
		return &tree.PopArgument{}, nil
	case "!index":
		return &tree.Index{}, nil
	case "!self":
		return c.self(n)
	}
	if strings.HasPrefix(n.Tag, "!") && !strings.HasPrefix(n.Tag, "!!") {
		return nil, fmt.Errorf("line %d: unknown tag %q", n.Line, n.Tag)
	}
	return c.body(n)
}

// body compiles a node by kind, its local tag (if any) already consumed.
func (c *compiler) body(n *yaml.Node) (tree.Node, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return c.alias(n)
	case yaml.ScalarNode:
		return c.scalar(n)
	case yaml.SequenceNode:
		elems := make([]tree.Node, len(n.Content))
		for i, e := range n.Content {
			compiled, err := c.compile(e)
			if err != nil {
				return nil, err
			}
			elems[i] = compiled
		}
		return &tree.List{Elems: elems}, nil
	case yaml.MappingNode:
		entries := make([]tree.Entry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, err := c.compile(n.Content[i])
			if err != nil {
				return nil, err
			}
			value, err := c.compile(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			entries = append(entries, tree.Entry{Key: key, Value: value})
		}
		return &tree.Map{Entries: entries}, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind", n.Line)
	}
}

// scalar compiles a scalar node. Nodes still carrying their resolved YAML
// tag are mapped directly; nodes whose local tag was consumed upstream
// (e.g. the content of "!store 3") are re-inferred with the core-schema
// rules.
func (c *compiler) scalar(n *yaml.Node) (tree.Node, error) {
	switch n.Tag {
	case "!!null":
		return &tree.Empty{}, nil
	case "!!bool":
		v, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad boolean %q", n.Line, n.Value)
		}
		return &tree.Boolean{Value: v}, nil
	case "!!int":
		if v, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return &tree.Integer{Value: v}, nil
		}
		if v, err := strconv.ParseUint(n.Value, 0, 64); err == nil {
			return &tree.Unsigned{Value: v}, nil
		}
		return nil, fmt.Errorf("line %d: bad integer %q", n.Line, n.Value)
	case "!!float":
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad float %q", n.Line, n.Value)
		}
		return &tree.Number{Value: v}, nil
	case "!!str":
		return tree.Str(n.Value), nil
	}
	return inferScalar(n), nil
}

// inferScalar applies the YAML core-schema resolution to a scalar whose
// tag information is gone.
func inferScalar(n *yaml.Node) tree.Node {
	if n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return tree.Str(n.Value)
	}
	switch n.Value {
	case "", "~", "null", "Null", "NULL":
		return &tree.Empty{}
	case "true", "True", "TRUE":
		return &tree.Boolean{Value: true}
	case "false", "False", "FALSE":
		return &tree.Boolean{Value: false}
	}
	if v, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
		return &tree.Integer{Value: v}
	}
	if v, err := strconv.ParseUint(n.Value, 0, 64); err == nil {
		return &tree.Unsigned{Value: v}
	}
	if v, err := strconv.ParseFloat(n.Value, 64); err == nil {
		return &tree.Number{Value: v}
	}
	return tree.Str(n.Value)
}

// ref compiles a !ref node: the content is owned by a shared handle, and
// while it compiles, self-references may capture weak back-pointers to
// it through the scope stack (unnamed !self) or the anchor name.
func (c *compiler) ref(n *yaml.Node) (tree.Node, error) {
	var compileErr error
	shared := tree.NewCyclic(func(self *tree.Weak) tree.Node {
		if n.Anchor != "" {
			c.pending[n.Anchor] = self
			defer delete(c.pending, n.Anchor)
		}
		c.stack = append(c.stack, self)
		defer func() { c.stack = c.stack[:len(c.stack)-1] }()
		inner, err := c.body(n)
		if err != nil {
			compileErr = err
			return &tree.Empty{}
		}
		return inner
	})
	if compileErr != nil {
		return nil, compileErr
	}
	ref := &tree.Reference{Target: shared}
	if n.Anchor != "" {
		c.refs[n.Anchor] = ref
	}
	return ref, nil
}

// self compiles a !self node into a weak back-pointer: unnamed, it
// targets the innermost enclosing !ref; named, it targets the pending or
// completed !ref registered under that anchor.
func (c *compiler) self(n *yaml.Node) (tree.Node, error) {
	name := n.Value
	if name == "" {
		if len(c.stack) == 0 {
			return nil, fmt.Errorf("line %d: !self outside of a !ref", n.Line)
		}
		return &tree.SelfReference{Target: c.stack[len(c.stack)-1]}, nil
	}
	if weak, ok := c.pending[name]; ok {
		return &tree.SelfReference{Target: weak}, nil
	}
	if ref, ok := c.refs[name]; ok {
		return &tree.SelfReference{Target: ref.Target.Downgrade()}, nil
	}
	return nil, fmt.Errorf("line %d: !self %q does not name a !ref anchor", n.Line, name)
}

// alias compiles a YAML alias. An alias to a completed anchored !ref
// shares the target; an alias into a !ref still being compiled would
// form a strong cycle and is rejected; any other alias recompiles the
// anchored subtree into a fresh copy.
func (c *compiler) alias(n *yaml.Node) (tree.Node, error) {
	if ref, ok := c.refs[n.Value]; ok {
		return tree.Clone(ref), nil
	}
	if _, ok := c.pending[n.Value]; ok {
		return nil, fmt.Errorf("line %d: alias *%s inside its own definition, use !self %s", n.Line, n.Value, n.Value)
	}
	if n.Alias == nil {
		return nil, fmt.Errorf("line %d: unresolved alias *%s", n.Line, n.Value)
	}
	return c.compile(n.Alias)
}

// children compiles the elements of a tagged sequence node.
func (c *compiler) children(n *yaml.Node, tag string) ([]tree.Node, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %s wants a sequence", n.Line, tag)
	}
	children := make([]tree.Node, len(n.Content))
	for i, e := range n.Content {
		compiled, err := c.compile(e)
		if err != nil {
			return nil, err
		}
		children[i] = compiled
	}
	return children, nil
}

// slot parses the argument slot of an !arg / !takearg scalar.
func (c *compiler) slot(n *yaml.Node, tag string) (int, error) {
	slot, err := strconv.Atoi(strings.TrimSpace(n.Value))
	if err != nil || slot < 0 {
		return 0, fmt.Errorf("line %d: %s wants a non-negative slot, got %q", n.Line, tag, n.Value)
	}
	return slot, nil
}
