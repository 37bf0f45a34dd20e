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

package template

import (
	"testing"

	"github.com/stretchr/testify/require"

	"treegen/bind"
	"treegen/tree"
)

func TestCompileScalars(t *testing.T) {
	testcases := []struct {
		name string
		src  string
		want tree.Node
	}{
		{"integer", "123", &tree.Integer{Value: 123}},
		{"negative integer", "-123", &tree.Integer{Value: -123}},
		{"huge integer", "18446744073709551615", &tree.Unsigned{Value: 18446744073709551615}},
		{"float", "1.5", &tree.Number{Value: 1.5}},
		{"boolean", "true", &tree.Boolean{Value: true}},
		{"string", `"123"`, tree.Str("123")},
		{"plain string", "hello", tree.Str("hello")},
		{"null", "~", &tree.Empty{}},
		{"unsigned tag", "!uint 3", &tree.Unsigned{Value: 3}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CompileString(tc.src)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCompileContainers(t *testing.T) {
	t.Run("sequence", func(t *testing.T) {
		got, err := CompileString("[1, two, 3.0]")
		require.NoError(t, err)
		require.Equal(t, &tree.List{Elems: []tree.Node{
			&tree.Integer{Value: 1},
			tree.Str("two"),
			&tree.Number{Value: 3.0},
		}}, got)
	})

	t.Run("mapping keeps document order", func(t *testing.T) {
		got, err := CompileString("b: 2\na: 1\nc: 3\n")
		require.NoError(t, err)
		m, ok := got.(*tree.Map)
		require.True(t, ok)
		require.Len(t, m.Entries, 3)
		require.Equal(t, tree.Str("b"), m.Entries[0].Key)
		require.Equal(t, tree.Str("a"), m.Entries[1].Key)
		require.Equal(t, tree.Str("c"), m.Entries[2].Key)
	})
}

func TestCompileComputedTags(t *testing.T) {
	t.Run("closure with arguments", func(t *testing.T) {
		got, err := CompileString("!closure [[!arg 1], 42]")
		require.NoError(t, err)
		require.Equal(t, &tree.Closure{Nodes: []tree.Node{
			&tree.List{Elems: []tree.Node{&tree.Argument{Slot: 1}}},
			&tree.Integer{Value: 42},
		}}, got)
	})

	t.Run("conditional", func(t *testing.T) {
		got, err := CompileString("!if [true, 1, 2]")
		require.NoError(t, err)
		require.Equal(t, &tree.IfThenElse{Nodes: []tree.Node{
			&tree.Boolean{Value: true},
			&tree.Integer{Value: 1},
			&tree.Integer{Value: 2},
		}}, got)
	})

	t.Run("repeat and index", func(t *testing.T) {
		got, err := CompileString("!repeat [3, !index]")
		require.NoError(t, err)
		require.Equal(t, &tree.Repeat{Nodes: []tree.Node{
			&tree.Integer{Value: 3},
			&tree.Index{},
		}}, got)
	})

	t.Run("take and store", func(t *testing.T) {
		got, err := CompileString("!take 3")
		require.NoError(t, err)
		take, ok := got.(*tree.Take)
		require.True(t, ok)
		require.Equal(t, &tree.Integer{Value: 3}, take.Cell.Value())

		got, err = CompileString("!store {a: 1}")
		require.NoError(t, err)
		store, ok := got.(*tree.Store)
		require.True(t, ok)
		require.IsType(t, &tree.Map{}, store.Cell.Value())
	})

	t.Run("takearg and pop", func(t *testing.T) {
		got, err := CompileString("[!takearg 2, !pop]")
		require.NoError(t, err)
		require.Equal(t, &tree.List{Elems: []tree.Node{
			&tree.TakeFromArgument{Slot: 2},
			&tree.PopArgument{},
		}}, got)
	})
}

func TestCompileReferences(t *testing.T) {
	t.Run("ref wraps its subtree", func(t *testing.T) {
		got, err := CompileString("!ref [1, 2]")
		require.NoError(t, err)
		ref, ok := got.(*tree.Reference)
		require.True(t, ok)
		require.IsType(t, &tree.List{}, ref.Target.Value())
	})

	t.Run("alias shares an anchored ref", func(t *testing.T) {
		got, err := CompileString("first: &shared !ref [1, 2]\nsecond: *shared\n")
		require.NoError(t, err)
		m, ok := got.(*tree.Map)
		require.True(t, ok)
		first, ok := m.Entries[0].Value.(*tree.Reference)
		require.True(t, ok)
		second, ok := m.Entries[1].Value.(*tree.Reference)
		require.True(t, ok)
		require.Same(t, first.Target, second.Target)
	})

	t.Run("self resolves to the enclosing ref", func(t *testing.T) {
		got, err := CompileString("!ref [!self]")
		require.NoError(t, err)
		ref, ok := got.(*tree.Reference)
		require.True(t, ok)
		list, ok := ref.Target.Value().(*tree.List)
		require.True(t, ok)
		back, ok := list.Elems[0].(*tree.SelfReference)
		require.True(t, ok)
		n, ok := back.Target.Upgrade()
		require.True(t, ok)
		require.Equal(t, ref.Target.Value(), n)
	})
}

func TestCompileErrors(t *testing.T) {
	testcases := []struct {
		name string
		src  string
	}{
		{"unknown tag", "!frobnicate 1"},
		{"conditional arity", "!if [true, 1]"},
		{"repeat without count", "!repeat []"},
		{"closure without body", "!closure []"},
		{"negative argument slot", "!arg -1"},
		{"argument slot not a number", "!arg x"},
		{"self outside of a ref", "!self"},
		{"self with unknown anchor", "!ref [!self nothere]"},
		{"alias inside its own definition", "&a !ref [*a]"},
		{"empty document", ""},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CompileString(tc.src)
			require.Error(t, err)
		})
	}
}

func TestExpandEndToEnd(t *testing.T) {
	t.Run("repetition and conditional", func(t *testing.T) {
		root, err := CompileString("a: !repeat [3, x]\nb: !if [true, 1, 2]\n")
		require.NoError(t, err)
		got, err := bind.Value(root)
		require.NoError(t, err)
		require.Equal(t, map[string]any{
			"a": []any{"x", "x", "x"},
			"b": int64(1),
		}, got)
	})

	t.Run("take-bounded cycle unfolds", func(t *testing.T) {
		src := `!ref &outer
level: !index
next: !if
  - !take 2
  - !self outer
  - done
`
		root, err := CompileString(src)
		require.NoError(t, err)
		got, err := bind.ValueRef(root)
		require.NoError(t, err)

		depth := 0
		for {
			m, ok := got.(map[string]any)
			require.True(t, ok)
			if m["next"] == "done" {
				break
			}
			got = m["next"]
			depth++
		}
		require.Equal(t, 2, depth)
	})
}
