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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharedUnwrap(t *testing.T) {
	t.Run("sole owner reclaims", func(t *testing.T) {
		s := NewShared(&Integer{Value: 1})
		n, ok := s.Unwrap()
		require.True(t, ok)
		require.Equal(t, &Integer{Value: 1}, n)
		require.False(t, s.Alive())
		require.Nil(t, s.Value())
	})

	t.Run("cloned owner cannot reclaim", func(t *testing.T) {
		ref := NewRef(&Integer{Value: 1})
		_ = Clone(ref)
		_, ok := ref.Target.Unwrap()
		require.False(t, ok)
		require.True(t, ref.Target.Alive())
	})
}

func TestWeakUpgrade(t *testing.T) {
	t.Run("live target upgrades", func(t *testing.T) {
		s := NewShared(Str("x"))
		w := s.Downgrade()
		n, ok := w.Upgrade()
		require.True(t, ok)
		require.Equal(t, Str("x"), n)
		require.Equal(t, 1, s.WeakCount())
	})

	t.Run("released target dangles", func(t *testing.T) {
		s := NewShared(Str("x"))
		w := s.Downgrade()
		s.Release()
		_, ok := w.Upgrade()
		require.False(t, ok)
	})

	t.Run("unwrapped target dangles", func(t *testing.T) {
		s := NewShared(Str("x"))
		_, ok := s.Unwrap()
		require.True(t, ok)
		w := s.Downgrade()
		_, ok = w.Upgrade()
		require.False(t, ok)
	})
}

func TestNewCyclic(t *testing.T) {
	s := NewCyclic(func(self *Weak) Node {
		return &List{Elems: []Node{&SelfReference{Target: self}}}
	})
	require.True(t, s.Alive())
	require.Equal(t, 1, s.WeakCount())

	list, ok := s.Value().(*List)
	require.True(t, ok)
	back, ok := list.Elems[0].(*SelfReference)
	require.True(t, ok)
	n, ok := back.Target.Upgrade()
	require.True(t, ok)
	require.Equal(t, s.Value(), n)
}

func TestCell(t *testing.T) {
	t.Run("take one consumes content", func(t *testing.T) {
		c := NewCell(&Integer{Value: 2})
		require.Equal(t, &Integer{Value: 2}, c.TakeOne())
		require.Equal(t, &Integer{Value: 1}, c.TakeOne())
		require.Equal(t, &Integer{Value: 0}, c.Value())
	})

	t.Run("set replaces content", func(t *testing.T) {
		c := NewCell(&Integer{Value: 1})
		c.Set(Str("x"))
		require.Equal(t, Str("x"), c.Value())
	})

	t.Run("unshared cell unwraps", func(t *testing.T) {
		c := NewCell(&Integer{Value: 1})
		n, ok := c.Unwrap()
		require.True(t, ok)
		require.Equal(t, &Integer{Value: 1}, n)
		require.Equal(t, &Empty{}, c.Value())
	})

	t.Run("shared cell does not unwrap", func(t *testing.T) {
		store := NewStore(&Integer{Value: 1})
		_ = Clone(store)
		_, ok := store.Cell.Unwrap()
		require.False(t, ok)
	})
}

func TestCloneSharing(t *testing.T) {
	t.Run("clone of a reference shares the target", func(t *testing.T) {
		ref := NewRef(&List{Elems: []Node{&Integer{Value: 1}}})
		cloned, ok := Clone(ref).(*Reference)
		require.True(t, ok)
		require.Same(t, ref.Target, cloned.Target)
	})

	t.Run("clone of a store shares the cell", func(t *testing.T) {
		store := NewStore(&Integer{Value: 7})
		cloned, ok := Clone(store).(*Store)
		require.True(t, ok)
		require.Same(t, store.Cell, cloned.Cell)
		store.Cell.Set(&Integer{Value: 9})
		require.Equal(t, &Integer{Value: 9}, cloned.Cell.Value())
	})

	t.Run("clone of owned payload is independent", func(t *testing.T) {
		original := &List{Elems: []Node{&Integer{Value: 1}}}
		cloned, ok := Clone(original).(*List)
		require.True(t, ok)
		TakeOne(cloned)
		require.Len(t, cloned.Elems, 0)
		require.Len(t, original.Elems, 1)
	})

	t.Run("clone of a self-reference keeps the back-pointer", func(t *testing.T) {
		s := NewShared(Str("x"))
		back := &SelfReference{Target: s.Downgrade()}
		cloned, ok := Clone(back).(*SelfReference)
		require.True(t, ok)
		n, ok := cloned.Target.Upgrade()
		require.True(t, ok)
		require.Equal(t, Str("x"), n)
		require.Equal(t, 2, s.WeakCount())
	})
}
