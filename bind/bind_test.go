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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"treegen/builder"
	"treegen/tree"
)

// simple is the flat fixture shape.
type simple struct {
	A int32
	B bool
	C string
}

// nested is the recursive fixture shape.
type nested struct {
	A []simple
	B map[string]nested
}

func fixtureSimple() simple {
	return simple{A: 123, B: true, C: "test"}
}

func fixtureNested(depth int) nested {
	result := nested{
		A: []simple{fixtureSimple(), fixtureSimple(), fixtureSimple()},
		B: map[string]nested{},
	}
	if depth > 0 {
		result.B = map[string]nested{"test": fixtureNested(depth - 1)}
	}
	return result
}

// simpleList is the node tree every fixture builds on: the positional
// form of the simple fixture.
func simpleList() *tree.List {
	return &tree.List{Elems: []tree.Node{
		&tree.Integer{Value: 123},
		&tree.Boolean{Value: true},
		tree.Str("test"),
	}}
}

func TestMapAccessWithNames(t *testing.T) {
	data := &tree.Map{Entries: []tree.Entry{
		{Key: tree.Str("a"), Value: &tree.Integer{Value: 123}},
		{Key: tree.Str("b"), Value: &tree.Boolean{Value: true}},
		{Key: tree.Str("c"), Value: tree.Str("test")},
	}}

	var got simple
	require.NoError(t, Unmarshal(data, &got))
	require.Equal(t, fixtureSimple(), got)
}

func TestMapAccessWithIndex(t *testing.T) {
	data := &tree.Map{Entries: []tree.Entry{
		{Key: &tree.Unsigned{Value: 0}, Value: &tree.Integer{Value: 123}},
		{Key: &tree.Unsigned{Value: 1}, Value: &tree.Boolean{Value: true}},
		{Key: &tree.Unsigned{Value: 2}, Value: tree.Str("test")},
	}}

	var got simple
	require.NoError(t, Unmarshal(data, &got))
	require.Equal(t, fixtureSimple(), got)
}

func TestListAccess(t *testing.T) {
	var got simple
	require.NoError(t, Unmarshal(simpleList(), &got))
	require.Equal(t, fixtureSimple(), got)
}

func TestReferenceAndRepeat(t *testing.T) {
	inner := tree.NewRef(simpleList())
	repeated := tree.NewRef(&tree.Repeat{Nodes: []tree.Node{
		&tree.Unsigned{Value: 3},
		inner,
	}})
	data := &tree.List{Elems: []tree.Node{repeated, &tree.Map{}}}

	var got nested
	require.NoError(t, Unmarshal(data, &got))
	if diff := cmp.Diff(fixtureNested(0), got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestCyclicSelfReference(t *testing.T) {
	repeated := tree.NewRef(&tree.Repeat{Nodes: []tree.Node{
		&tree.Unsigned{Value: 3},
		tree.NewRef(simpleList()),
	}})
	counter := tree.NewTake(&tree.Integer{Value: 3})

	data := tree.NewCyclic(func(self *tree.Weak) tree.Node {
		return &tree.List{Elems: []tree.Node{
			repeated,
			&tree.IfThenElse{Nodes: []tree.Node{
				counter,
				&tree.Map{Entries: []tree.Entry{{
					Key:   tree.Str("test"),
					Value: &tree.SelfReference{Target: self},
				}}},
				&tree.Map{},
			}},
		}}
	})

	var got nested
	require.NoError(t, UnmarshalRef(data.Value(), &got))
	if diff := cmp.Diff(fixtureNested(3), got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestClosure(t *testing.T) {
	data := &tree.Closure{Nodes: []tree.Node{
		&tree.List{Elems: []tree.Node{
			&tree.Argument{Slot: 1},
			&tree.IfThenElse{Nodes: []tree.Node{
				&tree.TakeFromArgument{Slot: 2},
				&tree.Map{Entries: []tree.Entry{{
					Key:   tree.Str("test"),
					Value: &tree.Argument{Slot: 0},
				}}},
				&tree.Map{},
			}},
		}},
		&tree.Repeat{Nodes: []tree.Node{
			&tree.Unsigned{Value: 3},
			simpleList(),
		}},
		&tree.Integer{Value: 3},
	}}

	var got nested
	require.NoError(t, Unmarshal(data, &got))
	if diff := cmp.Diff(fixtureNested(3), got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestGenericValue(t *testing.T) {
	data := &tree.Map{Entries: []tree.Entry{
		{Key: tree.Str("a"), Value: &tree.Integer{Value: 123}},
		{Key: tree.Str("b"), Value: &tree.List{Elems: []tree.Node{
			&tree.Boolean{Value: true},
			&tree.Number{Value: 1.5},
		}}},
	}}
	got, err := Value(data)
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"a": int64(123),
		"b": []any{true, 1.5},
	}, got)
}

func TestFieldTags(t *testing.T) {
	type tagged struct {
		Count int64  `tree:"n"`
		Label string `tree:"label"`
	}
	data := &tree.Map{Entries: []tree.Entry{
		{Key: tree.Str("n"), Value: &tree.Integer{Value: 5}},
		{Key: tree.Str("label"), Value: tree.Str("x")},
	}}
	var got tagged
	require.NoError(t, UnmarshalRef(data, &got))
	require.Equal(t, tagged{Count: 5, Label: "x"}, got)
}

func TestUnknownKeysAreSkipped(t *testing.T) {
	// the skipped subtree still evaluates, so its consuming reads fire
	counter := tree.NewTake(&tree.Integer{Value: 3})
	data := &tree.Map{Entries: []tree.Entry{
		{Key: tree.Str("ignored"), Value: tree.Clone(counter)},
		{Key: tree.Str("a"), Value: &tree.Integer{Value: 123}},
	}}
	var got simple
	require.NoError(t, UnmarshalRef(data, &got))
	require.Equal(t, int32(123), got.A)
	require.Equal(t, int64(2), tree.AsSigned(counter))
}

func TestPointerTargets(t *testing.T) {
	type holder struct {
		S *simple
	}
	data := &tree.Map{Entries: []tree.Entry{
		{Key: tree.Str("s"), Value: simpleList()},
	}}
	var got holder
	require.NoError(t, Unmarshal(data, &got))
	require.NotNil(t, got.S)
	require.Equal(t, fixtureSimple(), *got.S)
}

func TestUnmarshalErrors(t *testing.T) {
	t.Run("target must be a pointer", func(t *testing.T) {
		var out simple
		require.Error(t, Unmarshal(simpleList(), out))
	})

	t.Run("shape mismatch is a decode error", func(t *testing.T) {
		var out int64
		err := Unmarshal(tree.Str("not a number"), &out)
		require.Error(t, err)
		var decodeErr *builder.DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})

	t.Run("overflow is a decode error", func(t *testing.T) {
		var out int8
		err := Unmarshal(&tree.Integer{Value: 1000}, &out)
		require.Error(t, err)
		var decodeErr *builder.DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})
}
